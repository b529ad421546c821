package queue

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// ImmediateQueue runs each job on its own goroutine as soon as it is
// enqueued. Jobs outlive the request that enqueued them.
type ImmediateQueue struct {
	mu      sync.Mutex
	handler Handler
	closed  bool
	wg      sync.WaitGroup
	logger  *slog.Logger
}

// NewImmediateQueue constructs the queue.
func NewImmediateQueue(logger *slog.Logger) *ImmediateQueue {
	return &ImmediateQueue{logger: logger.With("component", "queue.immediate")}
}

// SetHandler replaces the handler used for queued jobs.
func (q *ImmediateQueue) SetHandler(handler Handler) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.handler = handler
}

// Enqueue starts the handler in the background.
func (q *ImmediateQueue) Enqueue(ctx context.Context, name string, payload any) error {
	raw, err := encodePayload(payload)
	if err != nil {
		return err
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return ErrClosed
	}
	if q.handler == nil {
		q.logger.Warn("job dropped, no handler registered", "job", name)
		return nil
	}

	handler := q.handler
	jobCtx := context.WithoutCancel(ctx)
	id := uuid.NewString()
	q.wg.Add(1)
	go func() {
		defer q.wg.Done()
		if err := handler(jobCtx, name, raw); err != nil {
			q.logger.Error("job failed", "job", name, "id", id, "error", err)
			return
		}
		q.logger.Debug("job finished", "job", name, "id", id)
	}()
	return nil
}

// Close waits for running jobs.
func (q *ImmediateQueue) Close() error {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
	q.wg.Wait()
	return nil
}

var _ Queue = (*ImmediateQueue)(nil)
