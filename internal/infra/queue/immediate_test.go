package queue

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestImmediateQueueRunsDetachedFromRequest(t *testing.T) {
	q := NewImmediateQueue(newTestLogger())

	var (
		mu       sync.Mutex
		names    []string
		payloads []map[string]string
		ctxErrs  []error
	)
	release := make(chan struct{})
	q.SetHandler(func(ctx context.Context, name string, payload json.RawMessage) error {
		<-release
		var decoded map[string]string
		if err := json.Unmarshal(payload, &decoded); err != nil {
			return err
		}
		mu.Lock()
		defer mu.Unlock()
		names = append(names, name)
		payloads = append(payloads, decoded)
		ctxErrs = append(ctxErrs, ctx.Err())
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, q.Enqueue(ctx, "bonus_roadmap", map[string]string{"email": "jo@example.com"}))
	cancel()
	close(release)

	require.NoError(t, q.Close())
	require.Equal(t, []string{"bonus_roadmap"}, names)
	require.Equal(t, "jo@example.com", payloads[0]["email"])
	require.NoError(t, ctxErrs[0], "job context must not be cancelled with the request")
}

func TestImmediateQueueCloseWaitsForJobs(t *testing.T) {
	q := NewImmediateQueue(newTestLogger())
	var done bool
	q.SetHandler(func(context.Context, string, json.RawMessage) error {
		time.Sleep(20 * time.Millisecond)
		done = true
		return errors.New("logged, not returned")
	})

	require.NoError(t, q.Enqueue(context.Background(), "job", nil))
	require.NoError(t, q.Close())
	require.True(t, done)
	require.ErrorIs(t, q.Enqueue(context.Background(), "job", nil), ErrClosed)
}

func TestImmediateQueueWithoutHandler(t *testing.T) {
	q := NewImmediateQueue(newTestLogger())
	require.NoError(t, q.Enqueue(context.Background(), "job", json.RawMessage(`{}`)))
	require.NoError(t, q.Close())
}
