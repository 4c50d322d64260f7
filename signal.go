package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

// shutdownContext returns a context that cancels on the first SIGINT/SIGTERM
// and force-exits on the second. Cancelling aborts the in-flight vendor
// request, so a download stops and its .partial file is removed. The notice
// goes to w because the default log level hides info records.
func shutdownContext(parent context.Context, logger *slog.Logger, w io.Writer) context.Context {
	ctx, cancel := context.WithCancel(parent)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		defer signal.Stop(sigCh)

		select {
		case sig := <-sigCh:
			fmt.Fprintln(w, "\nInterrupted: stopping the current request; an unfinished download is discarded. Interrupt again to quit now.")
			logger.Info("received signal, cancelling in-flight request",
				slog.String("signal", sig.String()),
			)
			cancel()
		case <-ctx.Done():
			return
		}

		select {
		case sig := <-sigCh:
			logger.Warn("received second signal, exiting without cleanup",
				slog.String("signal", sig.String()),
			)
			os.Exit(1)
		case <-parent.Done():
			return
		}
	}()

	return ctx
}
