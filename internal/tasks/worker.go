package tasks

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"quill/internal/middleware"
)

// HandlerFunc executes one task payload. Handlers must tolerate duplicate
// delivery: the queue is at-least-once, not exactly-once.
type HandlerFunc func(ctx context.Context, payload json.RawMessage) error

// Worker consumes tasks from a queue and dispatches them to registered
// handlers.
type Worker struct {
	queue    *Queue
	handlers map[string]HandlerFunc
	logger   *slog.Logger
}

// NewWorker creates a worker over the given queue.
func NewWorker(queue *Queue) *Worker {
	return &Worker{
		queue:    queue,
		handlers: make(map[string]HandlerFunc),
		logger:   middleware.Logger,
	}
}

// Register binds a handler to a task name. Tasks with no registered
// handler are dropped with a warning.
func (w *Worker) Register(name string, fn HandlerFunc) {
	w.handlers[name] = fn
}

// ProcessOne pops and executes at most one task, waiting up to timeout for
// one to arrive. It reports whether a task was processed.
func (w *Worker) ProcessOne(ctx context.Context, timeout time.Duration) (bool, error) {
	task, err := w.queue.Dequeue(ctx, timeout)
	if err != nil {
		return false, err
	}
	if task == nil {
		return false, nil
	}

	handler, ok := w.handlers[task.Name]
	if !ok {
		w.logger.WarnContext(ctx, "no handler registered for task",
			slog.String("task", task.Name),
			slog.String("task_id", task.ID),
		)
		middleware.TasksProcessed.WithLabelValues(task.Name, "dropped").Inc()
		return true, nil
	}

	if err := handler(ctx, task.Payload); err != nil {
		w.logger.ErrorContext(ctx, "task failed",
			slog.String("task", task.Name),
			slog.String("task_id", task.ID),
			slog.String("error", err.Error()),
		)
		middleware.TasksProcessed.WithLabelValues(task.Name, "error").Inc()
		return true, nil
	}

	middleware.TasksProcessed.WithLabelValues(task.Name, "ok").Inc()
	return true, nil
}

// Run consumes tasks until the context is cancelled.
func (w *Worker) Run(ctx context.Context) {
	w.logger.Info("task worker started")
	for {
		select {
		case <-ctx.Done():
			w.logger.Info("task worker stopping")
			return
		default:
		}

		if _, err := w.ProcessOne(ctx, time.Second); err != nil {
			if ctx.Err() != nil {
				w.logger.Info("task worker stopping")
				return
			}
			w.logger.Error("task dequeue failed", slog.String("error", err.Error()))
			// Back off briefly so a dead Redis does not spin the loop.
			time.Sleep(time.Second)
		}
	}
}
