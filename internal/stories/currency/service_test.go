package currency

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"
)

type fakeRatesClient struct {
	rates   map[string]float64
	err     error
	fetches int
}

func (f *fakeRatesClient) FetchRates(ctx context.Context) (map[string]float64, error) {
	f.fetches++
	if f.err != nil {
		return nil, f.err
	}
	return f.rates, nil
}

func newTestService(client *fakeRatesClient) *Service {
	return NewService(client, 24*time.Hour, slog.Default())
}

func TestConvertToUSD(t *testing.T) {
	client := &fakeRatesClient{rates: map[string]float64{"AED": 3.6725, "EGP": 48.5}}
	svc := newTestService(client)
	ctx := context.Background()

	tests := []struct {
		name     string
		amount   float64
		code     string
		expected float64
	}{
		{
			name:     "usd passthrough",
			amount:   100,
			code:     "USD",
			expected: 100,
		},
		{
			name:     "empty code treated as usd",
			amount:   42.5,
			code:     "",
			expected: 42.5,
		},
		{
			name:     "aed converted",
			amount:   36.73,
			code:     "AED",
			expected: 10,
		},
		{
			name:     "unknown currency falls back to usd",
			amount:   100,
			code:     "XYZ",
			expected: 100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := svc.ConvertToUSD(ctx, tt.amount, tt.code); result != tt.expected {
				t.Errorf("ConvertToUSD(%v, %q) = %v, want %v", tt.amount, tt.code, result, tt.expected)
			}
		})
	}
}

func TestConvertFromUSD(t *testing.T) {
	client := &fakeRatesClient{rates: map[string]float64{"AED": 3.6725}}
	svc := newTestService(client)
	ctx := context.Background()

	conv := svc.ConvertFromUSD(ctx, 10, "AED")
	if conv.Currency != "AED" || conv.Value != 36.73 {
		t.Errorf("ConvertFromUSD(10, AED) = %+v, want {36.73 AED}", conv)
	}

	conv = svc.ConvertFromUSD(ctx, 10, "XYZ")
	if conv.Currency != USD || conv.Value != 10 {
		t.Errorf("ConvertFromUSD with unknown currency = %+v, want USD fallback", conv)
	}
}

func TestRoundTripStaysOnCents(t *testing.T) {
	client := &fakeRatesClient{rates: map[string]float64{"EGP": 48.5}}
	svc := newTestService(client)
	ctx := context.Background()

	for _, amount := range []float64{1, 100, 99999.99} {
		usd := svc.ConvertToUSD(ctx, amount, "EGP")
		back := svc.ConvertFromUSD(ctx, usd, "EGP")

		diff := amount - back.Value
		if diff < 0 {
			diff = -diff
		}
		// The USD leg rounds to cents, so the drift is bounded by half a
		// USD cent expressed in EGP (~0.25).
		if diff > 0.25 {
			t.Errorf("round trip of %v EGP drifted to %v", amount, back.Value)
		}
	}
}

func TestFetchFailureFallsBackToUSD(t *testing.T) {
	client := &fakeRatesClient{err: errors.New("rate provider down")}
	svc := newTestService(client)
	ctx := context.Background()

	if result := svc.ConvertToUSD(ctx, 100, "AED"); result != 100 {
		t.Errorf("ConvertToUSD with no rates = %v, want 100", result)
	}

	conv := svc.ConvertFromUSD(ctx, 100, "AED")
	if conv.Currency != USD {
		t.Errorf("ConvertFromUSD with no rates currency = %q, want USD", conv.Currency)
	}
}

func TestRatesCachedWithinTTL(t *testing.T) {
	client := &fakeRatesClient{rates: map[string]float64{"AED": 3.6725}}
	svc := newTestService(client)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		svc.ConvertToUSD(ctx, 100, "AED")
	}
	if client.fetches != 1 {
		t.Errorf("client fetched %d times within TTL, want 1", client.fetches)
	}
}

func TestStaleTableServedOnRefreshFailure(t *testing.T) {
	client := &fakeRatesClient{rates: map[string]float64{"AED": 4.0}}
	svc := newTestService(client)
	ctx := context.Background()

	if got := svc.ConvertToUSD(ctx, 40, "AED"); got != 10 {
		t.Fatalf("initial conversion = %v, want 10", got)
	}

	// TTL elapses and the provider starts failing.
	svc.now = func() time.Time { return time.Now().UTC().Add(48 * time.Hour) }
	client.err = errors.New("rate provider down")

	if got := svc.ConvertToUSD(ctx, 40, "AED"); got != 10 {
		t.Errorf("stale-table conversion = %v, want 10", got)
	}
}

func TestRefreshForcesFetch(t *testing.T) {
	client := &fakeRatesClient{rates: map[string]float64{"AED": 3.6725}}
	svc := newTestService(client)
	ctx := context.Background()

	if err := svc.Refresh(ctx); err != nil {
		t.Fatalf("Refresh() error: %v", err)
	}
	if err := svc.Refresh(ctx); err != nil {
		t.Fatalf("Refresh() error: %v", err)
	}
	if client.fetches != 2 {
		t.Errorf("Refresh() fetched %d times, want 2", client.fetches)
	}
}
