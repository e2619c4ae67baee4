// Package events publishes tracking updates so dashboard instances can
// refresh without polling. Publishing is best-effort: the monitoring loop
// treats a failed publish as log-worthy, never as a cycle failure.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	"github.com/losmon/losmon/internal/domain/tracking"
)

// TrackingChannel is the Redis channel tracking updates are published on.
const TrackingChannel = "losmon.tracking"

// TrackingUpdate is the payload emitted after a tracking record is
// appended.
type TrackingUpdate struct {
	EventID      string              `json:"event_id"`
	PatientID    string              `json:"patient_id"`
	TrackingDate time.Time           `json:"tracking_date"`
	CurrentLOS   float64             `json:"current_los"`
	VitalSigns   tracking.VitalSigns `json:"vital_signs"`
}

// Publisher emits tracking updates.
type Publisher interface {
	PublishTrackingUpdate(ctx context.Context, update TrackingUpdate) error
	Close() error
}

// RedisPublisher publishes updates on a Redis channel.
type RedisPublisher struct {
	client *redis.Client
}

// NewRedisPublisher connects to Redis and verifies the connection.
func NewRedisPublisher(ctx context.Context, redisURL string) (*RedisPublisher, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &RedisPublisher{client: client}, nil
}

func (p *RedisPublisher) PublishTrackingUpdate(ctx context.Context, update TrackingUpdate) error {
	if update.EventID == "" {
		update.EventID = uuid.NewString()
	}
	payload, err := json.Marshal(update)
	if err != nil {
		return fmt.Errorf("marshal tracking update: %w", err)
	}
	if err := p.client.Publish(ctx, TrackingChannel, payload).Err(); err != nil {
		return fmt.Errorf("publish tracking update: %w", err)
	}
	return nil
}

func (p *RedisPublisher) Close() error {
	return p.client.Close()
}

// NoopPublisher is used when no Redis is configured; correctness never
// depends on events being delivered.
type NoopPublisher struct{}

func (NoopPublisher) PublishTrackingUpdate(context.Context, TrackingUpdate) error { return nil }

func (NoopPublisher) Close() error { return nil }
