package scheduler

import (
	"context"
	"time"

	"github.com/EOPeakDesigns/applink/internal/logger"
	"github.com/EOPeakDesigns/applink/internal/session"
)

// SessionCollector sweeps finished resolution sessions out of the
// manager once their retention TTL has passed.
type SessionCollector struct {
	sessions *session.Manager
	logger   logger.Logger
	interval time.Duration
	stopCh   chan struct{}
}

// NewSessionCollector creates a new session collector
func NewSessionCollector(
	sessions *session.Manager,
	log logger.Logger,
	interval time.Duration,
) *SessionCollector {
	return &SessionCollector{
		sessions: sessions,
		logger:   log,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the periodic sweep process
func (sc *SessionCollector) Start(ctx context.Context) error {
	ticker := time.NewTicker(sc.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				sc.Collect()
			case <-sc.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the collector
func (sc *SessionCollector) Stop() {
	close(sc.stopCh)
}

// Collect sweeps expired finished sessions
func (sc *SessionCollector) Collect() {
	removed := sc.sessions.Sweep(time.Now())
	if removed > 0 {
		sc.logger.Info("swept finished sessions",
			logger.Int("removed", removed),
			logger.Int("retained", sc.sessions.Count()))
	} else {
		sc.logger.Debug("no sessions to sweep")
	}
}
