package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/project-tktt/gradconnection-crawler/internal/domain"
	"github.com/redis/go-redis/v9"
)

// DefaultQueue is used when no queue name is configured
const DefaultQueue = "jobs:gradconnection"

// Publisher pushes harvested jobs to a Redis list
type Publisher struct {
	client    redis.Cmdable
	queueName string
}

// NewPublisher creates a new queue publisher
func NewPublisher(client redis.Cmdable, queueName string) *Publisher {
	if queueName == "" {
		queueName = DefaultQueue
	}
	return &Publisher{
		client:    client,
		queueName: queueName,
	}
}

// Publish pushes a single job to the queue
func (p *Publisher) Publish(ctx context.Context, msg *domain.JobMessage) error {
	data, err := encode(msg)
	if err != nil {
		return err
	}

	if err := p.client.LPush(ctx, p.queueName, data).Err(); err != nil {
		return fmt.Errorf("lpush: %w", err)
	}

	return nil
}

// PublishBatch pushes multiple jobs in one pipeline
func (p *Publisher) PublishBatch(ctx context.Context, msgs []*domain.JobMessage) error {
	if len(msgs) == 0 {
		return nil
	}

	pipe := p.client.Pipeline()
	for _, msg := range msgs {
		data, err := encode(msg)
		if err != nil {
			return err
		}
		pipe.LPush(ctx, p.queueName, data)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("pipeline exec: %w", err)
	}

	return nil
}

// QueueLength returns the current queue length
func (p *Publisher) QueueLength(ctx context.Context) (int64, error) {
	return p.client.LLen(ctx, p.queueName).Result()
}

func encode(msg *domain.JobMessage) ([]byte, error) {
	if msg == nil || msg.Detail == nil {
		return nil, fmt.Errorf("marshal job: %w", ErrEmptyMessage)
	}
	data, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("marshal job: %w", err)
	}
	return data, nil
}

func decode(data string) (*domain.JobMessage, error) {
	var msg domain.JobMessage
	if err := json.Unmarshal([]byte(data), &msg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedMessage, err)
	}
	if msg.Detail == nil || msg.Detail.URL == "" {
		return nil, fmt.Errorf("%w: %v", ErrMalformedMessage, ErrEmptyMessage)
	}
	return &msg, nil
}
