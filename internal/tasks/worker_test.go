package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorker_ProcessOne(t *testing.T) {
	q := newTestQueue(t)
	ctx := context.Background()

	var got CreateCommentPayload
	w := NewWorker(q)
	w.Register(CreateCommentTask, func(_ context.Context, payload json.RawMessage) error {
		return json.Unmarshal(payload, &got)
	})

	_, err := q.Enqueue(ctx, CreateCommentTask, CreateCommentPayload{PostID: 7, Message: "hi"})
	require.NoError(t, err)

	processed, err := w.ProcessOne(ctx, time.Second)
	require.NoError(t, err)
	assert.True(t, processed)
	assert.Equal(t, uint(7), got.PostID)
	assert.Equal(t, "hi", got.Message)
}

func TestWorker_ProcessOne_EmptyQueue(t *testing.T) {
	q := newTestQueue(t)
	w := NewWorker(q)

	processed, err := w.ProcessOne(context.Background(), 10*time.Millisecond)
	require.NoError(t, err)
	assert.False(t, processed)
}

func TestWorker_UnknownTaskIsDropped(t *testing.T) {
	q := newTestQueue(t)
	ctx := context.Background()
	w := NewWorker(q)

	_, err := q.Enqueue(ctx, "task.nobody.handles", struct{}{})
	require.NoError(t, err)

	// The task is consumed even without a handler so it cannot wedge the queue.
	processed, err := w.ProcessOne(ctx, time.Second)
	require.NoError(t, err)
	assert.True(t, processed)

	task, err := q.Dequeue(ctx, 10*time.Millisecond)
	require.NoError(t, err)
	assert.Nil(t, task)
}

func TestWorker_HandlerErrorDoesNotStopProcessing(t *testing.T) {
	q := newTestQueue(t)
	ctx := context.Background()

	calls := 0
	w := NewWorker(q)
	w.Register(CreateCommentTask, func(_ context.Context, _ json.RawMessage) error {
		calls++
		if calls == 1 {
			return errors.New("transient failure")
		}
		return nil
	})

	_, err := q.Enqueue(ctx, CreateCommentTask, CreateCommentPayload{PostID: 1})
	require.NoError(t, err)
	_, err = q.Enqueue(ctx, CreateCommentTask, CreateCommentPayload{PostID: 2})
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		processed, err := w.ProcessOne(ctx, time.Second)
		require.NoError(t, err)
		require.True(t, processed)
	}
	assert.Equal(t, 2, calls)
}
