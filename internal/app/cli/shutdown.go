package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
)

type operation struct {
	name string
	run  func(ctx context.Context) error
}

// startBackground runs loop in its own goroutine until the returned operation stops it.
// The operation cancels loop's context and waits for it to return.
func startBackground(ctx context.Context, name string, loop func(ctx context.Context)) operation {
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		loop(ctx)
	}()

	return operation{name: name, run: func(shutdownCtx context.Context) error {
		cancel()
		select {
		case <-done:
			return nil
		case <-shutdownCtx.Done():
			return shutdownCtx.Err()
		}
	}}
}

// gracefulShutdown waits for a termination signal or ctx cancellation, then runs ops in order.
// The returned channel is closed once every op has finished or the timeout elapsed.
func gracefulShutdown(ctx context.Context, timeout time.Duration, ops []operation) <-chan struct{} {
	wait := make(chan struct{})
	go func() {
		defer close(wait)

		s := make(chan os.Signal, 1)
		signal.Notify(s, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(s)

		select {
		case sig := <-s:
			logrus.WithField("signal", sig.String()).Info("shutting down")
		case <-ctx.Done():
			logrus.Info("shutting down")
		}

		runOperations(timeout, ops)
	}()
	return wait
}

// runOperations runs ops sequentially, sharing one deadline.
func runOperations(timeout time.Duration, ops []operation) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	for _, op := range ops {
		log := logrus.WithField("component", op.name)
		log.Info("cleaning up")
		if err := op.run(ctx); err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				log.Errorf("timeout %d ms has been elapsed", timeout.Milliseconds())
			}
			log.WithError(err).Error("clean up failed")
			continue
		}
		log.Info("shutdown gracefully")
	}
}
