package pendingrecheck

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// Worker reconciles donation ledger rows left pending by a crash
// between the gateway call and the local finalize.
type Worker struct {
	donations donationService
	logger    *slog.Logger
	cron      *cron.Cron
}

// NewWorker creates a new pending recheck worker
func NewWorker(donations donationService, logger *slog.Logger) *Worker {
	return &Worker{
		donations: donations,
		logger:    logger,
		cron:      cron.New(),
	}
}

// Name returns the worker name
func (w *Worker) Name() string {
	return "pendingrecheck"
}

// Start starts the pending recheck worker
func (w *Worker) Start() error {
	_, err := w.cron.AddFunc("@every 2m", func() {
		ctx := context.Background()
		if err := w.donations.RecheckPending(ctx); err != nil {
			w.logger.Error("Pending donation recheck failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule pending recheck worker: %w", err)
	}

	w.cron.Start()
	return nil
}

// Stop stops the worker
func (w *Worker) Stop() {
	w.cron.Stop()
}
