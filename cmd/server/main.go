// Command server runs the URL analyzer: the JSON and WebSocket API, the form
// page, history and metrics.
// Usage: go run ./cmd/server [envfile...]
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/raysh454/urlanalyzer/internal/app"
	"github.com/raysh454/urlanalyzer/internal/logging"
)

func main() {
	cfg, err := app.LoadConfig(os.Args[1:]...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	logger := logging.NewLogger(os.Stdout, "urlanalyzer", cfg.Debug)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.NewApplication(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to build application", logging.Field{Key: "error", Value: err.Error()})
		os.Exit(1)
	}
	if err := a.Start(); err != nil {
		logger.Error("failed to start", logging.Field{Key: "error", Value: err.Error()})
		os.Exit(1)
	}

	serveErr := make(chan error, 1)
	go func() { serveErr <- a.Wait() }()

	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if err != nil {
			logger.Error("server stopped", logging.Field{Key: "error", Value: err.Error()})
		}
	}

	if err := a.Shutdown(context.Background()); err != nil {
		logger.Warn("shutdown finished with errors", logging.Field{Key: "error", Value: err.Error()})
		os.Exit(1)
	}
}
