// Package publisher emits booking notifications to Kafka.
package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Shivanand-hulikatti/eventflow/internal/config"
	"github.com/Shivanand-hulikatti/eventflow/internal/model"
	"github.com/google/uuid"
	"github.com/twmb/franz-go/pkg/kgo"
)

// EventBookingCreated is the type carried by every booking notification.
const EventBookingCreated = "booking.created"

const defaultTopic = "booking-events"

// Publisher announces committed bookings.
type Publisher interface {
	PublishBookingCreated(ctx context.Context, b *model.Booking, total model.Cents) error
	Close() error
}

// BookingCreated is the JSON payload of a booking notification.
type BookingCreated struct {
	MessageID         string    `json:"message_id"`
	Type              string    `json:"type"`
	EventID           string    `json:"event_id"`
	BookingID         string    `json:"booking_id"`
	FullTickets       int       `json:"full_tickets"`
	ConcessionTickets int       `json:"concession_tickets"`
	TotalCost         string    `json:"total_cost"`
	BookedAt          time.Time `json:"booked_at"`
}

// NewBookingCreated builds the notification for b.
func NewBookingCreated(b *model.Booking, total model.Cents) BookingCreated {
	return BookingCreated{
		MessageID:         uuid.NewString(),
		Type:              EventBookingCreated,
		EventID:           b.EventID,
		BookingID:         b.ID,
		FullTickets:       b.FullTickets,
		ConcessionTickets: b.ConcessionTickets,
		TotalCost:         total.String(),
		BookedAt:          b.BookedAt,
	}
}

// Record encodes msg as a Kafka record on topic, keyed by event id so every
// notification of one event lands on the same partition in order.
func (msg BookingCreated) Record(topic, source string) (*kgo.Record, error) {
	value, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("marshal %s: %w", msg.Type, err)
	}
	return &kgo.Record{
		Topic: topic,
		Key:   []byte(msg.EventID),
		Value: value,
		Headers: []kgo.RecordHeader{
			{Key: "event_type", Value: []byte(msg.Type)},
			{Key: "message_id", Value: []byte(msg.MessageID)},
			{Key: "source", Value: []byte(source)},
			{Key: "content_type", Value: []byte("application/json")},
		},
		Timestamp: msg.BookedAt,
	}, nil
}

// KafkaPublisher produces notifications with franz-go.
type KafkaPublisher struct {
	client *kgo.Client
	topic  string
	source string
}

// NewKafkaPublisher creates a producer for cfg.Brokers.
func NewKafkaPublisher(cfg config.KafkaConfig, source string) (*KafkaPublisher, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("kafka brokers are required")
	}
	topic := cfg.Topic
	if topic == "" {
		topic = defaultTopic
	}

	opts := []kgo.Opt{
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.DefaultProduceTopic(topic),
	}
	if cfg.ClientID != "" {
		opts = append(opts, kgo.ClientID(cfg.ClientID))
	}
	client, err := kgo.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}
	return &KafkaPublisher{client: client, topic: topic, source: source}, nil
}

// PublishBookingCreated produces one booking.created record and waits for the
// broker acknowledgement.
func (p *KafkaPublisher) PublishBookingCreated(ctx context.Context, b *model.Booking, total model.Cents) error {
	rec, err := NewBookingCreated(b, total).Record(p.topic, p.source)
	if err != nil {
		return err
	}
	if err := p.client.ProduceSync(ctx, rec).FirstErr(); err != nil {
		return fmt.Errorf("publish %s: %w", EventBookingCreated, err)
	}
	return nil
}

// Close flushes and closes the client.
func (p *KafkaPublisher) Close() error {
	p.client.Close()
	return nil
}

// NoopPublisher drops every notification.
type NoopPublisher struct{}

func (NoopPublisher) PublishBookingCreated(context.Context, *model.Booking, model.Cents) error {
	return nil
}

func (NoopPublisher) Close() error { return nil }
