package mail

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hestonauto/appraise-backend/internal/config"
	"github.com/redis/go-redis/v9"
)

// Queue enqueues reset emails on a Redis list for background delivery.
// Enqueueing instead of sending inline keeps the forgot-password response
// time independent of SMTP outcome.
type Queue struct {
	rdb *redis.Client
}

// NewQueue creates a Queue on the given Redis client.
func NewQueue(rdb *redis.Client) *Queue {
	return &Queue{rdb: rdb}
}

// Enqueue appends a reset message to the delivery queue.
func (q *Queue) Enqueue(ctx context.Context, msg ResetMessage) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal reset mail: %w", err)
	}
	if err := q.rdb.RPush(ctx, config.RedisKey.ResetMailQueue(), payload).Err(); err != nil {
		return fmt.Errorf("enqueue reset mail: %w", err)
	}
	return nil
}
