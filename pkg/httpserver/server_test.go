package httpserver_test

import (
	"context"
	"net/http"
	"os"
	"sync/atomic"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/formcheck/pkg/httpserver"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
}

// start runs srv in the background and returns its bound address.
func start(t *testing.T, ctx context.Context, srv *httpserver.Server, h http.Handler) (string, <-chan error) {
	t.Helper()
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx, h) }()

	waitCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	addr := srv.Addr(waitCtx)
	require.NotEmpty(t, addr, "server did not start")
	return addr, done
}

func waitDone(t *testing.T, done <-chan error) {
	t.Helper()
	select {
	case err := <-done:
		require.NoError(t, err, "run")
	case <-time.After(2 * time.Second):
		require.Fail(t, "run did not finish")
	}
}

func TestRunAndShutdown(t *testing.T) {
	t.Parallel()
	srv := httpserver.New(httpserver.WithAddr("127.0.0.1:0"), httpserver.WithShutdownTimeout(100*time.Millisecond))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	addr, done := start(t, ctx, srv, okHandler())

	resp, err := http.Get("http://" + addr)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, resp.Body.Close())

	cancel()
	waitDone(t, done)
	require.NoError(t, srv.Shutdown(context.Background()), "repeated shutdown")
}

func TestManualShutdown(t *testing.T) {
	t.Parallel()
	srv := httpserver.New(httpserver.WithAddr("127.0.0.1:0"), httpserver.WithShutdownTimeout(100*time.Millisecond))

	_, done := start(t, context.Background(), srv, okHandler())
	require.NoError(t, srv.Shutdown(context.Background()), "first shutdown")
	require.NoError(t, srv.Shutdown(context.Background()), "second shutdown")
	waitDone(t, done)
}

func TestStartError(t *testing.T) {
	t.Parallel()
	srv := httpserver.New(httpserver.WithAddr(":invalid"))
	err := srv.Run(context.Background(), okHandler())
	require.Error(t, err)
	assert.ErrorIs(t, err, httpserver.ErrStart)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.Empty(t, srv.Addr(ctx))
}

func TestAlreadyRunning(t *testing.T) {
	t.Parallel()
	srv := httpserver.New(httpserver.WithAddr("127.0.0.1:0"), httpserver.WithShutdownTimeout(50*time.Millisecond))
	ctx, cancel := context.WithCancel(context.Background())
	_, done := start(t, ctx, srv, okHandler())

	err := srv.Run(context.Background(), okHandler())
	assert.ErrorIs(t, err, httpserver.ErrStart)

	cancel()
	waitDone(t, done)
}

func TestHooks(t *testing.T) {
	t.Parallel()
	var startedAddr atomic.Value
	var stopped atomic.Bool
	srv := httpserver.New(
		httpserver.WithAddr("127.0.0.1:0"),
		httpserver.WithStartHook(func(_ context.Context, addr string) { startedAddr.Store(addr) }),
		httpserver.WithStopHook(func(_ context.Context, _ string) { stopped.Store(true) }),
	)

	ctx, cancel := context.WithCancel(context.Background())
	addr, done := start(t, ctx, srv, nil)
	cancel()
	waitDone(t, done)

	assert.Equal(t, addr, startedAddr.Load(), "start hook address")
	assert.True(t, stopped.Load(), "stop hook not executed")
}

func TestNilHandlerServesNotFound(t *testing.T) {
	t.Parallel()
	srv := httpserver.New(httpserver.WithAddr("127.0.0.1:0"))
	ctx, cancel := context.WithCancel(context.Background())
	addr, done := start(t, ctx, srv, nil)

	resp, err := http.Get("http://" + addr + "/anything")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	require.NoError(t, resp.Body.Close())

	cancel()
	waitDone(t, done)
}

func TestNewFromConfig(t *testing.T) {
	t.Parallel()
	srv := httpserver.NewFromConfig(httpserver.Config{
		Addr:            "127.0.0.1:0",
		ReadTimeout:     time.Second,
		ShutdownTimeout: 50 * time.Millisecond,
	})
	ctx, cancel := context.WithCancel(context.Background())
	addr, done := start(t, ctx, srv, okHandler())
	assert.Contains(t, addr, "127.0.0.1:")
	cancel()
	waitDone(t, done)
}

// Not parallel: the signal reaches every server registered for it.
func TestSignalShutdown(t *testing.T) {
	srv := httpserver.New(httpserver.WithAddr("127.0.0.1:0"), httpserver.WithShutdownTimeout(50*time.Millisecond))
	_, done := start(t, context.Background(), srv, okHandler())

	p, err := os.FindProcess(os.Getpid())
	require.NoError(t, err)
	require.NoError(t, p.Signal(syscall.SIGTERM))
	waitDone(t, done)
}

func TestOptionPanics(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		fn   func()
	}{
		{"addr", func() { httpserver.WithAddr("") }},
		{"read", func() { httpserver.WithReadTimeout(-time.Second) }},
		{"write", func() { httpserver.WithWriteTimeout(-time.Second) }},
		{"idle", func() { httpserver.WithIdleTimeout(0) }},
		{"shutdown", func() { httpserver.WithShutdownTimeout(-time.Second) }},
		{"start hook", func() { httpserver.WithStartHook(nil) }},
		{"stop hook", func() { httpserver.WithStopHook(nil) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Panics(t, tt.fn)
		})
	}

	t.Run("nil logger allowed", func(t *testing.T) {
		t.Parallel()
		assert.NotPanics(t, func() { httpserver.New(httpserver.WithLogger(nil)) })
	})
}
