package currency

import (
	"context"
	"log/slog"
	"math"
	"sync"
	"time"
)

// Service converts between the ledger currency (USD) and a caller-supplied
// display currency. The rate table is fetched lazily and cached for a TTL
// window (24h by default); a failed fetch degrades to USD instead of
// blocking the checkout flow.
type Service struct {
	client RatesClient
	ttl    time.Duration
	logger *slog.Logger
	now    func() time.Time

	mu        sync.RWMutex
	rates     map[string]float64
	fetchedAt time.Time
}

func NewService(client RatesClient, ttl time.Duration, logger *slog.Logger) *Service {
	return &Service{
		client: client,
		ttl:    ttl,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// ConvertToUSD normalizes a display-currency amount to the ledger currency.
func (s *Service) ConvertToUSD(ctx context.Context, amount float64, code string) float64 {
	if code == "" || code == USD {
		return roundCents(amount)
	}
	r, ok := s.rate(ctx, code)
	if !ok || r == 0 {
		return roundCents(amount)
	}
	return roundCents(amount / r)
}

// ConvertFromUSD renders a USD amount in the requested display currency.
// Unknown currencies (including any currency while rates are unavailable)
// fall back to USD.
func (s *Service) ConvertFromUSD(ctx context.Context, amountUSD float64, code string) Conversion {
	if code == "" || code == USD {
		return Conversion{Value: roundCents(amountUSD), Currency: USD}
	}
	r, ok := s.rate(ctx, code)
	if !ok || r == 0 {
		return Conversion{Value: roundCents(amountUSD), Currency: USD}
	}
	return Conversion{Value: roundCents(amountUSD * r), Currency: code}
}

// Refresh forces a rate-table fetch, ignoring the TTL. Used by the daily
// refresh worker to keep the cache warm.
func (s *Service) Refresh(ctx context.Context) error {
	rates, err := s.client.FetchRates(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.rates = rates
	s.fetchedAt = s.now()
	s.mu.Unlock()
	return nil
}

func (s *Service) rate(ctx context.Context, code string) (float64, bool) {
	s.mu.RLock()
	fresh := s.rates != nil && s.now().Sub(s.fetchedAt) < s.ttl
	r, ok := s.rates[code]
	s.mu.RUnlock()

	if fresh {
		return r, ok
	}

	if err := s.Refresh(ctx); err != nil {
		s.logger.Warn("Exchange-rate fetch failed, falling back to USD", "error", err)

		// Keep serving a stale table if we ever had one.
		s.mu.RLock()
		defer s.mu.RUnlock()
		if s.rates != nil {
			r, ok = s.rates[code]
			return r, ok
		}
		return 0, false
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok = s.rates[code]
	return r, ok
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
