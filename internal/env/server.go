package environment

import (
	"context"
	"log/slog"
	"net/http"

	"ihsan-checkout/internal/api"
	"ihsan-checkout/internal/config"
)

type Servers struct {
	HTTP struct {
		Observability *http.Server
		API           *http.Server
	}
}

func newServers(ctx context.Context, cfg config.Config, logger *slog.Logger, clients *Clients, services *Services) *Servers {
	var servers Servers

	router := api.SetupRouter(services.API, cfg.API.GinMode)
	servers.HTTP.API = &http.Server{
		Addr:              cfg.API.ADDR(),
		Handler:           router,
		ReadTimeout:       cfg.API.ReadTimeout,
		WriteTimeout:      cfg.API.WriteTimeout,
		IdleTimeout:       cfg.API.IdleTimeout,
		ReadHeaderTimeout: cfg.API.ReadTimeout,
	}
	servers.HTTP.Observability = initObservability(ctx, logger.WithGroup("http"), clients, cfg)

	return &servers
}
