package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/AlibekovAA/jobboard/internal/common/constants"
	"github.com/AlibekovAA/jobboard/internal/common/logger"
	"github.com/AlibekovAA/jobboard/internal/observability/metrics"
)

const (
	TopicJobPosted            = "job.posted"
	TopicApplicationSubmitted = "application.submitted"
)

type JobPosted struct {
	JobID    string `json:"jobId"`
	PostedBy string `json:"postedBy"`
	Title    string `json:"title"`
	Type     string `json:"type"`
}

type ApplicationSubmitted struct {
	ApplicationID string `json:"applicationId"`
	JobID         string `json:"jobId"`
	UserID        string `json:"userId"`
	Status        string `json:"status"`
}

type Publisher interface {
	Publish(ctx context.Context, topic string, payload any) error
}

type RedisPublisher struct {
	rdb *redis.Client
}

func NewRedisPublisher(rdb *redis.Client) *RedisPublisher {
	return &RedisPublisher{rdb: rdb}
}

func (p *RedisPublisher) Publish(ctx context.Context, topic string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", topic, err)
	}
	if err := p.rdb.Publish(ctx, topic, body).Err(); err != nil {
		return fmt.Errorf("failed to publish %s event: %w", topic, err)
	}
	return nil
}

type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, any) error { return nil }

// NewRedisClient creates and verifies a Redis client connection.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis.ParseURL: %w", err)
	}

	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return rdb, nil
}

// Emit publishes an event after the fact it describes is already stored.
// Failures are logged and counted, never returned: the caller's command has
// succeeded either way.
func Emit(ctx context.Context, pub Publisher, log *logger.Logger, topic string, payload any) {
	if pub == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), constants.EventPublishTimeout)
	defer cancel()

	if err := pub.Publish(ctx, topic, payload); err != nil {
		metrics.EventsPublishFailed.WithLabelValues(topic).Inc()
		log.WithFields(ctx, logger.Fields{
			"topic":  topic,
			"action": "event_publish_failed",
		}).Warnf("publish %s failed: %v", topic, err)
	}
}
