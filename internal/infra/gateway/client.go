package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// Client talks to the platform's payment gateway: the donation submission
// endpoint and the donation status lookup.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	limiter *rate.Limiter
	logger  *slog.Logger
}

func NewClient(baseURL, apiKey string, timeout time.Duration, rps float64, burst int, logger *slog.Logger) *Client {
	if burst < 1 {
		burst = 1
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
		logger:  logger,
	}
}

// SubmitDonation posts an assembled donation payload. Each call carries a
// fresh idempotency key so a gateway-side retry never records twice.
func (c *Client) SubmitDonation(ctx context.Context, req *DonationRequest) (*DonationResponse, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiting: %w", err)
	}

	idempotenceKey := fmt.Sprintf("%s_%d", uuid.New().String(), time.Now().Unix())

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal donation request: %w", err)
	}

	c.logger.Info("Submitting donation to gateway",
		"items", len(req.Items),
		"category_items", len(req.CategoryItems),
		"type", req.Type,
		"idempotence_key", idempotenceKey,
	)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/donations", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build donation request: %w", err)
	}
	c.setHeaders(httpReq)
	httpReq.Header.Set("Idempotence-Key", idempotenceKey)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("submit donation: %w", err)
	}
	defer resp.Body.Close()

	var result DonationResponse
	if err := decodeResponse(resp, &result); err != nil {
		return nil, err
	}

	c.logger.Info("Gateway accepted donation",
		"donation_id", result.Donation.ID,
		"status", result.Donation.Status,
	)
	return &result, nil
}

// GetDonationStatus looks up a previously submitted donation.
func (c *Client) GetDonationStatus(ctx context.Context, donationID string) (*DonationStatus, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiting: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/donations/"+donationID, nil)
	if err != nil {
		return nil, fmt.Errorf("build status request: %w", err)
	}
	c.setHeaders(httpReq)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("get donation status: %w", err)
	}
	defer resp.Body.Close()

	var result DonationStatus
	if err := decodeResponse(resp, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
}

func decodeResponse(resp *http.Response, out any) error {
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read gateway response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("gateway returned %d: %s", resp.StatusCode, string(body))
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode gateway response: %w", err)
	}
	return nil
}
