// Package tasks implements the Redis-backed background task queue used for
// asynchronous comment creation. The queue guarantees at-least-once
// delivery to a worker; it defines no ordering between concurrently
// submitted tasks and no retry policy beyond re-enqueueing on handler
// startup failures being left to the operator.
package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"quill/internal/middleware"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// DefaultQueueKey is the Redis list the API and worker processes share.
const DefaultQueueKey = "quill:tasks"

// CreateCommentTask names the asynchronous comment-creation task.
const CreateCommentTask = "comment.create"

// CreateCommentPayload carries everything the worker needs to durably
// create a comment. Validation has already happened at submission time;
// the worker re-resolves the post and parent against current state.
type CreateCommentPayload struct {
	PostID    uint   `json:"post_id"`
	ReplyToID *uint  `json:"reply_to_id,omitempty"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Message   string `json:"message"`
}

// Task is the wire envelope pushed onto the queue.
type Task struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Payload    json.RawMessage `json:"payload"`
	EnqueuedAt time.Time       `json:"enqueued_at"`
}

// Enqueuer accepts tasks for later execution and returns a tracking id
// immediately. The caller has no synchronous confirmation the task ran.
type Enqueuer interface {
	Enqueue(ctx context.Context, name string, payload interface{}) (string, error)
}

// Queue is a Redis list based task queue.
type Queue struct {
	rdb *redis.Client
	key string
}

// NewQueue creates a queue over the given Redis client. An empty key uses
// DefaultQueueKey.
func NewQueue(rdb *redis.Client, key string) *Queue {
	if key == "" {
		key = DefaultQueueKey
	}
	return &Queue{rdb: rdb, key: key}
}

// Enqueue serializes the payload, assigns a tracking id, and pushes the
// task onto the queue.
func (q *Queue) Enqueue(ctx context.Context, name string, payload interface{}) (string, error) {
	if q.rdb == nil {
		return "", fmt.Errorf("task queue unavailable: no redis client")
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to encode task payload: %w", err)
	}

	task := Task{
		ID:         uuid.NewString(),
		Name:       name,
		Payload:    raw,
		EnqueuedAt: time.Now().UTC(),
	}
	encoded, err := json.Marshal(task)
	if err != nil {
		return "", fmt.Errorf("failed to encode task: %w", err)
	}

	if err := q.rdb.LPush(ctx, q.key, encoded).Err(); err != nil {
		return "", fmt.Errorf("failed to enqueue task: %w", err)
	}

	middleware.TasksEnqueued.WithLabelValues(name).Inc()
	return task.ID, nil
}

// Dequeue pops the oldest task, blocking up to timeout. Returns (nil, nil)
// when the queue stayed empty for the whole window.
func (q *Queue) Dequeue(ctx context.Context, timeout time.Duration) (*Task, error) {
	if q.rdb == nil {
		return nil, fmt.Errorf("task queue unavailable: no redis client")
	}

	res, err := q.rdb.BRPop(ctx, timeout, q.key).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	// BRPop returns [key, value].
	var task Task
	if err := json.Unmarshal([]byte(res[1]), &task); err != nil {
		return nil, fmt.Errorf("failed to decode task: %w", err)
	}
	return &task, nil
}
