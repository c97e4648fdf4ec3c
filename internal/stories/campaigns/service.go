package campaigns

import (
	"context"

	"github.com/samber/lo"
)

// Service provides business logic for the campaign catalog
type Service struct {
	storage Storage
}

// NewService creates a new campaign service
func NewService(storage Storage) *Service {
	return &Service{
		storage: storage,
	}
}

// GetActiveCampaigns lists campaigns currently open for donations,
// optionally scoped to a category.
func (s *Service) GetActiveCampaigns(ctx context.Context, categoryID string) ([]*Campaign, error) {
	criteria := ListCriteria{
		IsActive: lo.ToPtr(true),
		Limit:    100,
	}
	if categoryID != "" {
		criteria.CategoryID = lo.ToPtr(categoryID)
	}
	return s.storage.ListCampaigns(ctx, criteria)
}

// GetCampaign returns a campaign by ID, nil when unknown.
func (s *Service) GetCampaign(ctx context.Context, id string) (*Campaign, error) {
	return s.storage.GetCampaign(ctx, GetCriteria{ID: lo.ToPtr(id)})
}

// GetCategory returns a category by ID, nil when unknown.
func (s *Service) GetCategory(ctx context.Context, id string) (*Category, error) {
	return s.storage.GetCategory(ctx, GetCriteria{ID: lo.ToPtr(id)})
}

// ListCategories returns every category for the public navigation.
func (s *Service) ListCategories(ctx context.Context) ([]*Category, error) {
	return s.storage.ListCategories(ctx)
}

// RecordRaised bumps a campaign's raised amount after an approved donation.
func (s *Service) RecordRaised(ctx context.Context, campaignID string, amountUSD float64) (*Campaign, error) {
	c, err := s.storage.GetCampaign(ctx, GetCriteria{ID: lo.ToPtr(campaignID)})
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, nil
	}
	return s.storage.UpdateCampaign(ctx, GetCriteria{ID: lo.ToPtr(campaignID)}, UpdateParams{
		RaisedAmount: lo.ToPtr(c.RaisedAmount + amountUSD),
	})
}
