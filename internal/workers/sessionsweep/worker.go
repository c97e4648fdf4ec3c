package sessionsweep

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Worker drops checkout sessions that have been idle past their TTL.
// An expired session simply disappears; the donor starts over.
type Worker struct {
	sessions sessionManager
	ttl      time.Duration
	logger   *slog.Logger
	cron     *cron.Cron
}

// NewWorker creates a new session sweep worker
func NewWorker(sessions sessionManager, ttl time.Duration, logger *slog.Logger) *Worker {
	return &Worker{
		sessions: sessions,
		ttl:      ttl,
		logger:   logger,
		cron:     cron.New(),
	}
}

// Name returns the worker name
func (w *Worker) Name() string {
	return "sessionsweep"
}

// Start starts the session sweep worker
func (w *Worker) Start() error {
	_, err := w.cron.AddFunc("@every 15m", func() {
		removed := w.sessions.ExpireIdle(w.ttl)
		if removed > 0 {
			w.logger.Info("Expired idle checkout sessions",
				"removed", removed,
				"remaining", w.sessions.Len(),
			)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule session sweep worker: %w", err)
	}

	w.cron.Start()
	return nil
}

// Stop stops the worker
func (w *Worker) Stop() {
	w.cron.Stop()
}
