package queue

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/project-tktt/gradconnection-crawler/internal/domain"
	"github.com/redis/go-redis/v9"
)

var (
	// ErrEmptyMessage marks a message without a job detail
	ErrEmptyMessage = errors.New("message has no job detail")
	// ErrMalformedMessage marks a queue entry that cannot be decoded
	ErrMalformedMessage = errors.New("malformed queue entry")
)

// Consumer consumes jobs from a Redis list
type Consumer struct {
	client    redis.Cmdable
	queueName string
	timeout   time.Duration
}

// NewConsumer creates a new queue consumer
func NewConsumer(client redis.Cmdable, queueName string, timeout time.Duration) *Consumer {
	if queueName == "" {
		queueName = DefaultQueue
	}
	if timeout == 0 {
		timeout = 5 * time.Second
	}
	return &Consumer{
		client:    client,
		queueName: queueName,
		timeout:   timeout,
	}
}

// ConsumeBatch consumes up to maxBatch jobs from the queue.
// BRPOP waits for the first item, RPOP fills the rest without blocking.
// Malformed entries are dropped. If RPOP fails, the messages already popped
// are returned along with the error.
func (c *Consumer) ConsumeBatch(ctx context.Context, maxBatch int) ([]*domain.JobMessage, error) {
	if maxBatch <= 0 {
		maxBatch = 1
	}
	msgs := make([]*domain.JobMessage, 0, maxBatch)

	result, err := c.client.BRPop(ctx, c.timeout, c.queueName).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return msgs, nil
		}
		return nil, fmt.Errorf("brpop: %w", err)
	}

	if len(result) >= 2 {
		if msg, err := decode(result[1]); err == nil {
			msgs = append(msgs, msg)
		} else {
			log.Printf("[Queue] Dropping entry: %v", err)
		}
	}

	for i := 1; i < maxBatch; i++ {
		result, err := c.client.RPop(ctx, c.queueName).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				break
			}
			return msgs, fmt.Errorf("rpop: %w", err)
		}

		msg, err := decode(result)
		if err != nil {
			log.Printf("[Queue] Dropping entry: %v", err)
			continue
		}
		msgs = append(msgs, msg)
	}

	return msgs, nil
}
