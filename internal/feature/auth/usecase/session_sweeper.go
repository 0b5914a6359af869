package usecase

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// SessionSweeper periodically purges expired refresh sessions.
type SessionSweeper struct {
	sessions SessionRepository
	interval time.Duration
}

// NewSessionSweeper creates a sweeper that runs every interval.
func NewSessionSweeper(sessions SessionRepository, interval time.Duration) *SessionSweeper {
	return &SessionSweeper{sessions: sessions, interval: interval}
}

// Sweep purges expired sessions once and reports how many were removed.
func (s *SessionSweeper) Sweep(ctx context.Context) (int64, error) {
	deleted, err := s.sessions.DeleteExpired(ctx)
	if err != nil {
		return deleted, err
	}
	if deleted > 0 {
		logrus.WithField("deleted", deleted).Info("expired sessions purged")
	}
	return deleted, nil
}

// Run sweeps on every tick until ctx is cancelled. Sweep failures are logged and retried on the next tick.
func (s *SessionSweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.Sweep(ctx); err != nil && ctx.Err() == nil {
				logrus.WithError(err).Warn("session sweep failed")
			}
		}
	}
}
