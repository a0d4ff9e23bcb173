package publisher

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/Shivanand-hulikatti/eventflow/internal/config"
	"github.com/Shivanand-hulikatti/eventflow/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testBooking() *model.Booking {
	return &model.Booking{
		ID:                "b1",
		EventID:           "e1",
		AttendeeName:      "Ada",
		FullTickets:       2,
		ConcessionTickets: 1,
		BookedAt:          time.Date(2026, 3, 1, 18, 30, 0, 0, time.UTC),
	}
}

func TestNewBookingCreated(t *testing.T) {
	msg := NewBookingCreated(testBooking(), 5250)

	assert.NotEmpty(t, msg.MessageID)
	assert.Equal(t, EventBookingCreated, msg.Type)
	assert.Equal(t, "e1", msg.EventID)
	assert.Equal(t, "b1", msg.BookingID)
	assert.Equal(t, "52.50", msg.TotalCost)

	other := NewBookingCreated(testBooking(), 5250)
	assert.NotEqual(t, msg.MessageID, other.MessageID)
}

func TestBookingCreated_Record(t *testing.T) {
	msg := NewBookingCreated(testBooking(), 5250)
	rec, err := msg.Record("bookings", "eventflow")
	require.NoError(t, err)

	assert.Equal(t, "bookings", rec.Topic)
	assert.Equal(t, []byte("e1"), rec.Key)
	assert.Equal(t, msg.BookedAt, rec.Timestamp)

	headers := map[string]string{}
	for _, h := range rec.Headers {
		headers[h.Key] = string(h.Value)
	}
	assert.Equal(t, EventBookingCreated, headers["event_type"])
	assert.Equal(t, msg.MessageID, headers["message_id"])
	assert.Equal(t, "eventflow", headers["source"])

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(rec.Value, &decoded))
	assert.Equal(t, "52.50", decoded["total_cost"])
	assert.Equal(t, float64(2), decoded["full_tickets"])
	assert.NotContains(t, decoded, "attendee_name")
}

func TestNewKafkaPublisher_RequiresBrokers(t *testing.T) {
	_, err := NewKafkaPublisher(config.KafkaConfig{}, "eventflow")
	assert.Error(t, err)
}

func TestNewKafkaPublisher_DefaultTopic(t *testing.T) {
	p, err := NewKafkaPublisher(config.KafkaConfig{Brokers: []string{"127.0.0.1:1"}}, "eventflow")
	require.NoError(t, err)
	defer p.Close()
	assert.Equal(t, defaultTopic, p.topic)
}

func TestNoopPublisher(t *testing.T) {
	var p Publisher = NoopPublisher{}
	assert.NoError(t, p.PublishBookingCreated(context.Background(), testBooking(), 0))
	assert.NoError(t, p.Close())
}
