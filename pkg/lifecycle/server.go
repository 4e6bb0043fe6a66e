package lifecycle

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
)

const ShutdownTimeout = 10 * time.Second

// Service defines the interface that all long-running services implement.
type Service interface {
	Start(context.Context) error
	Stop(context.Context) error
}

// Run starts every service and blocks until one of them fails, the context
// is canceled, or SIGINT/SIGTERM arrives. All services are then stopped
// under ShutdownTimeout. The first service error is returned.
func Run(ctx context.Context, logger zerolog.Logger, services ...Service) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	defer signal.Stop(sigCh)

	errCh := make(chan error, len(services))

	for _, svc := range services {
		go func(svc Service) {
			if err := svc.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				errCh <- err
			}
		}(svc)
	}

	var runErr error

	select {
	case sig := <-sigCh:
		logger.Info().Str("signal", sig.String()).Msg("Shutting down on signal")
	case runErr = <-errCh:
		logger.Error().Err(runErr).Msg("Service failed, shutting down")
	case <-ctx.Done():
	}

	cancel()

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancelShutdown()

	for _, svc := range services {
		if err := svc.Stop(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("Service stop failed")
		}
	}

	return runErr
}
