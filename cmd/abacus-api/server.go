package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/tinytelemetry/abacus/internal/calc"
	"github.com/tinytelemetry/abacus/internal/httpserver"
	"github.com/tinytelemetry/abacus/internal/logging"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

// runServer serves the HTTP API until SIGINT or SIGTERM.
func runServer(cfg apiConfig) error {
	level, _ := logging.ParseLevel(cfg.LogLevel)
	logger := logging.NewConsole(os.Stderr, level)

	eval, err := calc.NewGovaluateEvaluator(cfg.CacheSize)
	if err != nil {
		return err
	}
	apiServer := httpserver.NewServer(httpserver.Config{
		Addr:          cfg.Addr,
		MaxReplayKeys: cfg.MaxReplayKeys,
	}, eval, logger)
	if err := apiServer.Start(); err != nil {
		return fmt.Errorf("failed to start API server: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		select {
		case sig := <-sigCh:
			logger.Info().Str("signal", sig.String()).Msg("shutting down")
			cancel()
		case <-gctx.Done():
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		return shutdown(apiServer, logger)
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	logger.Info().Int("cached_expressions", eval.Len()).Msg("stopped")
	return nil
}

func shutdown(s *httpserver.Server, logger zerolog.Logger) error {
	done := make(chan error, 1)
	go func() { done <- s.Stop() }()

	deadline := time.NewTimer(shutdownTimeout)
	defer deadline.Stop()

	select {
	case err := <-done:
		return err
	case <-deadline.C:
		logger.Warn().Dur("timeout", shutdownTimeout).Msg("shutdown timed out")
		return fmt.Errorf("shutdown timed out after %s", shutdownTimeout)
	}
}
