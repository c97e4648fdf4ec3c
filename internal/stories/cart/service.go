package cart

import (
	"context"
	"fmt"
	"log/slog"
)

// Service is the cart store: an ordered collection of pending donation
// lines kept per donor across checkout dialogs. The checkout core only
// appends to it and clears it after a confirmed cart submission.
type Service struct {
	storage   Storage
	campaigns campaignGetter
	converter converter
	logger    *slog.Logger
}

func NewService(storage Storage, campaigns campaignGetter, converter converter, logger *slog.Logger) *Service {
	return &Service{
		storage:   storage,
		campaigns: campaigns,
		converter: converter,
		logger:    logger,
	}
}

// AddItem validates and persists a pending donation line, normalizing the
// amount to USD at add time so cart checkouts never re-convert stale lines.
func (s *Service) AddItem(ctx context.Context, params AddParams) (*Item, error) {
	if params.Amount <= 0 {
		return nil, fmt.Errorf("amount must be positive")
	}
	if params.DonorKey == "" {
		return nil, fmt.Errorf("donor key is required")
	}

	campaign, err := s.campaigns.GetCampaign(ctx, params.CampaignID)
	if err != nil {
		return nil, fmt.Errorf("get campaign: %w", err)
	}
	if campaign == nil || !campaign.IsActive {
		return nil, fmt.Errorf("campaign %s is not open for donations", params.CampaignID)
	}

	currency := params.Currency
	if currency == "" {
		currency = "USD"
	}

	item := Item{
		DonorKey:   params.DonorKey,
		CampaignID: params.CampaignID,
		Amount:     params.Amount,
		AmountUSD:  s.converter.ConvertToUSD(ctx, params.Amount, currency),
		Currency:   currency,
	}

	created, err := s.storage.CreateCartItem(ctx, item)
	if err != nil {
		return nil, fmt.Errorf("create cart item: %w", err)
	}

	s.logger.Info("Added cart item",
		"donor_key", params.DonorKey,
		"campaign_id", params.CampaignID,
		"amount", params.Amount,
		"amount_usd", created.AmountUSD,
	)
	return created, nil
}

// Items returns the donor's pending lines in insertion order.
func (s *Service) Items(ctx context.Context, donorKey string) ([]*Item, error) {
	return s.storage.ListCartItems(ctx, donorKey)
}

// Subtotal sums the display-currency amounts of the donor's lines.
func (s *Service) Subtotal(ctx context.Context, donorKey string) (float64, error) {
	items, err := s.storage.ListCartItems(ctx, donorKey)
	if err != nil {
		return 0, err
	}
	var sum float64
	for _, item := range items {
		sum += item.Amount
	}
	return sum, nil
}

// Clear drops every line of the donor's cart.
func (s *Service) Clear(ctx context.Context, donorKey string) error {
	return s.storage.ClearCart(ctx, donorKey)
}
