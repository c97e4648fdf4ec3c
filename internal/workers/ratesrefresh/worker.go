package ratesrefresh

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/robfig/cron/v3"
)

var refreshTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "exchange_rate_refresh_total",
	Help: "Scheduled exchange-rate refreshes by result",
}, []string{"result"})

// Worker keeps the exchange-rate cache warm so checkouts never wait on
// the rate provider.
type Worker struct {
	converter converter
	logger    *slog.Logger
	cron      *cron.Cron
}

// NewWorker creates a new rates refresh worker
func NewWorker(converter converter, logger *slog.Logger) *Worker {
	return &Worker{
		converter: converter,
		logger:    logger,
		cron:      cron.New(),
	}
}

// Name returns the worker name
func (w *Worker) Name() string {
	return "ratesrefresh"
}

// Start starts the rates refresh worker
func (w *Worker) Start() error {
	// Runs daily at 03:30, well within the 24h cache window
	_, err := w.cron.AddFunc("30 3 * * *", func() {
		ctx := context.Background()
		if err := w.converter.Refresh(ctx); err != nil {
			refreshTotal.WithLabelValues("failed").Inc()
			w.logger.Error("Exchange-rate refresh failed", "error", err)
			return
		}
		refreshTotal.WithLabelValues("ok").Inc()
		w.logger.Info("Exchange rates refreshed")
	})
	if err != nil {
		return fmt.Errorf("failed to schedule rates refresh worker: %w", err)
	}

	w.cron.Start()
	return nil
}

// Stop stops the worker
func (w *Worker) Stop() {
	w.cron.Stop()
}
