package openexchange

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

// Client fetches USD-based exchange rates from the Open Exchange Rates API.
type Client struct {
	baseURL string
	appID   string
	http    *http.Client
	limiter *rate.Limiter
	logger  *slog.Logger
}

func NewClient(baseURL, appID string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		appID:   appID,
		http:    &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(rate.Limit(1), 1),
		logger:  logger,
	}
}

type ratesResponse struct {
	Base  string             `json:"base"`
	Rates map[string]float64 `json:"rates"`
}

// FetchRates returns the current rate table as units-per-USD.
func (c *Client) FetchRates(ctx context.Context) (map[string]float64, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiting: %w", err)
	}

	endpoint := fmt.Sprintf("%s/latest.json?app_id=%s&base=USD", c.baseURL, url.QueryEscape(c.appID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build rates request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch rates: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read rates response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("rates API returned %d: %s", resp.StatusCode, string(body))
	}

	var parsed ratesResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode rates response: %w", err)
	}
	if len(parsed.Rates) == 0 {
		return nil, fmt.Errorf("rates API returned empty table")
	}

	c.logger.Info("Fetched exchange rates", "currencies", len(parsed.Rates))
	return parsed.Rates, nil
}
