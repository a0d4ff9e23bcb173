// Package confirmation holds booking confirmations between the booking POST
// and the page load that displays them.
package confirmation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Shivanand-hulikatti/eventflow/internal/config"
	"github.com/Shivanand-hulikatti/eventflow/internal/model"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const keyPrefix = "confirmation:"

// Store saves confirmations under opaque tokens.
type Store interface {
	// Save stores conf and returns the token that retrieves it.
	Save(ctx context.Context, conf *model.Confirmation) (string, error)
	// Load returns the confirmation for token. ok is false when it is
	// missing, expired or unreadable.
	Load(ctx context.Context, token string) (conf *model.Confirmation, ok bool)
}

// NewRedisClient connects to Redis, retrying the initial ping.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig, retries int, interval time.Duration) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	var lastErr error
	for attempt := 0; attempt <= retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				_ = client.Close()
				return nil, ctx.Err()
			case <-time.After(interval):
			}
		}
		if lastErr = client.Ping(ctx).Err(); lastErr == nil {
			return client, nil
		}
	}
	_ = client.Close()
	return nil, fmt.Errorf("connect to redis after %d attempts: %w", retries+1, lastErr)
}

// RedisStore keeps confirmations in Redis with a TTL.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

// NewRedisStore constructs a RedisStore.
func NewRedisStore(client *redis.Client, ttl time.Duration, log *zap.Logger) *RedisStore {
	if log == nil {
		log = zap.NewNop()
	}
	return &RedisStore{client: client, ttl: ttl, log: log}
}

// Save implements Store.
func (s *RedisStore) Save(ctx context.Context, conf *model.Confirmation) (string, error) {
	data, err := json.Marshal(conf)
	if err != nil {
		return "", fmt.Errorf("marshal confirmation: %w", err)
	}
	token := uuid.NewString()
	if err := s.client.Set(ctx, keyPrefix+token, data, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("store confirmation: %w", err)
	}
	return token, nil
}

// Load implements Store.
func (s *RedisStore) Load(ctx context.Context, token string) (*model.Confirmation, bool) {
	if _, err := uuid.Parse(token); err != nil {
		return nil, false
	}
	data, err := s.client.Get(ctx, keyPrefix+token).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.log.Warn("load confirmation", zap.String("token", token), zap.Error(err))
		}
		return nil, false
	}

	var conf model.Confirmation
	if err := json.Unmarshal(data, &conf); err != nil {
		s.log.Warn("decode stored confirmation", zap.String("token", token), zap.Error(err))
		return nil, false
	}
	return &conf, true
}

// NoopStore is used when Redis is disabled. Nothing is kept, so every
// follow-up page renders without a confirmation.
type NoopStore struct{}

// Save returns an empty token.
func (NoopStore) Save(context.Context, *model.Confirmation) (string, error) { return "", nil }

// Load always reports absent.
func (NoopStore) Load(context.Context, string) (*model.Confirmation, bool) { return nil, false }
