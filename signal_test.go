package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func waitDone(t *testing.T, ctx context.Context, why string) {
	t.Helper()

	select {
	case <-ctx.Done():
	case <-time.After(2 * time.Second):
		t.Fatalf("context not canceled within 2 seconds of %s", why)
	}
}

func TestShutdownContext_SIGINTCancels(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	defer cancel()

	var notice bytes.Buffer
	ctx := shutdownContext(parent, discardLogger(), &notice)

	require.NoError(t, syscall.Kill(os.Getpid(), syscall.SIGINT))
	waitDone(t, ctx, "SIGINT")

	// The notice is written before cancel, so it is visible once ctx is done.
	assert.Contains(t, notice.String(), "Interrupted: stopping the current request")
	assert.Contains(t, notice.String(), "unfinished download is discarded")
}

func TestShutdownContext_ParentCancelPropagates(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())

	var notice bytes.Buffer
	ctx := shutdownContext(parent, discardLogger(), &notice)

	cancel()
	waitDone(t, ctx, "parent cancel")
	assert.Empty(t, notice.String())
}
