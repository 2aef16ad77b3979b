package sender

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"

	"sensoragent/internal/collector"
	"sensoragent/internal/config"
	"sensoragent/internal/logger"
)

// RedisSender publishes metrics to a Redis instance. Each reading is stored
// under <KeyPrefix>:<type> so the latest value per metric is always available,
// and also published to the configured channel for live subscribers.
type RedisSender struct {
	client    *redis.Client
	keyPrefix string
	channel   string
	mu        sync.Mutex
	closed    bool
}

// NewRedisSender creates a new Redis sender with the given configuration.
func NewRedisSender(cfg config.RedisConfig) (*RedisSender, error) {
	log := logger.WithComponent("redis-sender")

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	log.Info().
		Str("addr", cfg.Addr).
		Int("db", cfg.DB).
		Str("key_prefix", cfg.KeyPrefix).
		Str("channel", cfg.Channel).
		Msg("RedisSender initialized")

	return &RedisSender{
		client:    client,
		keyPrefix: cfg.KeyPrefix,
		channel:   cfg.Channel,
	}, nil
}

// Send stores the metric under its latest-value key and publishes it.
func (s *RedisSender) Send(ctx context.Context, data *collector.MetricData) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return fmt.Errorf("sender is closed")
	}
	s.mu.Unlock()

	jsonData, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal metric data: %w", err)
	}

	key := fmt.Sprintf("%s:%s", s.keyPrefix, data.Type)
	if err := s.client.Set(ctx, key, jsonData, 0).Err(); err != nil {
		return fmt.Errorf("failed to store metric in Redis: %w", err)
	}

	if s.channel != "" {
		if err := s.client.Publish(ctx, s.channel, jsonData).Err(); err != nil {
			return fmt.Errorf("failed to publish metric to Redis: %w", err)
		}
	}

	return nil
}

// SendBatch stores and publishes multiple metric data items.
func (s *RedisSender) SendBatch(ctx context.Context, data []*collector.MetricData) error {
	for _, d := range data {
		if err := s.Send(ctx, d); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the Redis client.
func (s *RedisSender) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}

	s.closed = true
	return s.client.Close()
}
