package bootstrap

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/fitness-wizard/internal/infra/config"
	"github.com/yanqian/fitness-wizard/internal/infra/queue"
)

type closeRecorder struct {
	closed bool
}

func (c *closeRecorder) Enqueue(context.Context, string, any) error { return nil }
func (c *closeRecorder) SetHandler(queue.Handler)                    {}
func (c *closeRecorder) Close() error {
	c.closed = true
	return nil
}

func TestRunDrainsJobsOnShutdown(t *testing.T) {
	cfg := &config.Config{HTTP: config.HTTPConfig{Address: "127.0.0.1:0"}}
	server := &http.Server{Addr: cfg.HTTP.Address, Handler: http.NewServeMux()}
	jobs := &closeRecorder{}
	flushed := false
	shutdown := func(context.Context) error {
		flushed = true
		return nil
	}

	app := NewApp(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)), server, jobs, shutdown)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("app did not stop")
	}
	require.True(t, jobs.closed)
	require.True(t, flushed)
}
