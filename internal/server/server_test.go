package server

import (
	"bytes"
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/credence/internal/model"
)

func TestRun_GracefulShutdown(t *testing.T) {
	cfg := model.DefaultConfig().Server
	cfg.Addr = "127.0.0.1:0"

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, cfg, http.NotFoundHandler(), quietLogger(&bytes.Buffer{}))
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestRun_ListenError(t *testing.T) {
	cfg := model.DefaultConfig().Server
	cfg.Addr = "127.0.0.1:notaport"

	err := Run(context.Background(), cfg, http.NotFoundHandler(), quietLogger(&bytes.Buffer{}))
	assert.Error(t, err)
}
