package environment

import (
	"context"
	"log/slog"
	"time"

	"ihsan-checkout/internal/config"
	"ihsan-checkout/internal/infra/gateway"
	"ihsan-checkout/internal/infra/openexchange"
	"ihsan-checkout/internal/infra/sqlite3"
)

type Clients struct {
	SQLiteDB    *sqlite3.DB
	Gateway     *gateway.Client
	RatesClient *openexchange.Client
}

func newClients(ctx context.Context, cfg config.Config, logger *slog.Logger) (*Clients, error) {
	sqliteDB, err := provideSQLiteDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	gatewayClient := gateway.NewClient(
		cfg.Gateway.BaseURL,
		cfg.Gateway.APIKey,
		cfg.Gateway.Timeout,
		cfg.Gateway.RateLimit.RPS,
		cfg.Gateway.RateLimit.Burst,
		logger,
	)

	ratesClient := openexchange.NewClient(
		cfg.Rates.BaseURL,
		cfg.Rates.AppID,
		cfg.Rates.Timeout,
		logger,
	)

	return &Clients{
		SQLiteDB:    sqliteDB,
		Gateway:     gatewayClient,
		RatesClient: ratesClient,
	}, nil
}

func provideSQLiteDB(ctx context.Context, cfg config.Config) (*sqlite3.DB, error) {
	maxLifetimeStr := cfg.DB.MaxLifetime
	if maxLifetimeStr == "" {
		maxLifetimeStr = "5m"
	}
	maxLifetime, err := time.ParseDuration(maxLifetimeStr)
	if err != nil {
		return nil, err
	}

	opts := []sqlite3.Option{
		sqlite3.WithDSN(cfg.DB.Path),
		sqlite3.WithMaxOpenConns(cfg.DB.MaxOpenConns),
		sqlite3.WithMaxIdleConns(cfg.DB.MaxIdleConns),
		sqlite3.WithConnMaxLifetime(maxLifetime),
	}

	return sqlite3.New(ctx, opts...)
}
