package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

// interactiveContext returns a context for a terminal session. SIGINT or
// SIGTERM says goodbye and exits the process, since the prompt may be
// blocked reading stdin.
func interactiveContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigChan:
			fmt.Println("\nGoodbye!")
			slog.Info("Received signal, shutting down", "signal", sig.String())
			_ = logCloser.Close()
			os.Exit(0)
		case <-ctx.Done():
		}
	}()

	return ctx, func() {
		signal.Stop(sigChan)
		cancel()
	}
}
