package environment

import (
	"context"
	"log/slog"

	"ihsan-checkout/internal/api"
	"ihsan-checkout/internal/checkout"
	"ihsan-checkout/internal/checkout/flow"
	"ihsan-checkout/internal/config"
	"ihsan-checkout/internal/localization"
	"ihsan-checkout/internal/storage"
	"ihsan-checkout/internal/stories/campaigns"
	"ihsan-checkout/internal/stories/cart"
	"ihsan-checkout/internal/stories/currency"
	"ihsan-checkout/internal/stories/donations"
	"ihsan-checkout/internal/workers"
	"ihsan-checkout/internal/workers/pendingrecheck"
	"ihsan-checkout/internal/workers/ratesrefresh"
	"ihsan-checkout/internal/workers/sessionsweep"

	"github.com/pkg/errors"
)

type Services struct {
	Sessions  *checkout.Manager
	Campaigns *campaigns.Service
	Cart      *cart.Service
	Currency  *currency.Service
	Donations *donations.Service
	Flow      *flow.Handler
	API       *api.Handler
	Workers   *workers.Manager
}

func newServices(ctx context.Context, clients *Clients, cfg *config.Config, logger *slog.Logger) (*Services, error) {
	var s Services

	storageImpl := storage.New(clients.SQLiteDB.DB)
	if err := storageImpl.EnsureSchema(ctx); err != nil {
		return nil, errors.Wrap(err, "failed to ensure database schema")
	}

	l10n, err := localization.NewService()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load translations")
	}

	s.Currency = currency.NewService(clients.RatesClient, cfg.Rates.TTL, logger)
	s.Campaigns = campaigns.NewService(storageImpl)
	s.Cart = cart.NewService(storageImpl, s.Campaigns, s.Currency, logger)
	s.Donations = donations.NewService(
		storageImpl,
		clients.Gateway,
		s.Currency,
		s.Campaigns,
		cfg.Checkout.SuccessURL,
		cfg.Gateway.MockPayment,
		logger,
	)

	s.Sessions = checkout.NewManager()
	s.Flow = flow.NewHandler(s.Sessions, s.Campaigns, s.Cart, s.Donations, l10n, logger)
	s.API = api.NewHandler(s.Flow, s.Campaigns, s.Cart, s.Currency)

	s.Workers = workers.NewManager(logger,
		ratesrefresh.NewWorker(s.Currency, logger),
		sessionsweep.NewWorker(s.Sessions, cfg.Checkout.SessionTTL, logger),
		pendingrecheck.NewWorker(s.Donations, logger),
	)

	return &s, nil
}
