package currency

import "context"

type (
	// RatesClient fetches the USD-based exchange-rate table.
	RatesClient interface {
		FetchRates(ctx context.Context) (map[string]float64, error)
	}
)
