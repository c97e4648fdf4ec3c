package flow

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"ihsan-checkout/internal/checkout"
	"ihsan-checkout/internal/stories/campaigns"
	"ihsan-checkout/internal/stories/cart"
	"ihsan-checkout/internal/stories/donations"
)

// MockCampaignService serves a fixed catalog.
type MockCampaignService struct{}

func (m *MockCampaignService) GetCampaign(ctx context.Context, id string) (*campaigns.Campaign, error) {
	switch id {
	case "camp_water":
		return &campaigns.Campaign{
			ID:            "camp_water",
			CategoryID:    "cat_relief",
			TitleEN:       "Clean Water Wells",
			TitleAR:       "آبار المياه النظيفة",
			GoalAmount:    50000,
			RaisedAmount:  12500,
			AllowsMonthly: true,
			IsActive:      true,
			CreatedAt:     time.Now(),
		}, nil
	case "camp_closed":
		return &campaigns.Campaign{ID: "camp_closed", IsActive: false}, nil
	default:
		return nil, nil
	}
}

func (m *MockCampaignService) GetCategory(ctx context.Context, id string) (*campaigns.Category, error) {
	switch id {
	case "cat_orphans":
		return &campaigns.Category{
			ID:          "cat_orphans",
			TitleEN:     "Orphan Sponsorship",
			TitleAR:     "كفالة الأيتام",
			QuickDonate: true,
			CreatedAt:   time.Now(),
		}, nil
	case "cat_relief":
		return &campaigns.Category{ID: "cat_relief", TitleEN: "Emergency Relief", QuickDonate: false}, nil
	default:
		return nil, nil
	}
}

// MockCartService keeps lines in memory.
type MockCartService struct {
	NextID int64
	Lines  []*cart.Item
}

func NewMockCartService() *MockCartService {
	return &MockCartService{NextID: 1}
}

func (m *MockCartService) AddItem(ctx context.Context, params cart.AddParams) (*cart.Item, error) {
	if params.Amount <= 0 {
		return nil, fmt.Errorf("amount must be positive")
	}
	item := &cart.Item{
		ID:         m.NextID,
		DonorKey:   params.DonorKey,
		CampaignID: params.CampaignID,
		Amount:     params.Amount,
		AmountUSD:  params.Amount,
		Currency:   params.Currency,
		CreatedAt:  time.Now(),
	}
	m.Lines = append(m.Lines, item)
	m.NextID++
	return item, nil
}

func (m *MockCartService) Items(ctx context.Context, donorKey string) ([]*cart.Item, error) {
	var result []*cart.Item
	for _, line := range m.Lines {
		if line.DonorKey == donorKey {
			result = append(result, line)
		}
	}
	return result, nil
}

// MockDonationService approves every submission unless FailWith is set.
type MockDonationService struct {
	NextID    int64
	FailWith  error
	Submitted []checkout.Draft
}

func NewMockDonationService() *MockDonationService {
	return &MockDonationService{NextID: 1}
}

func (m *MockDonationService) Submit(ctx context.Context, draft checkout.Draft) (*donations.Result, error) {
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	m.Submitted = append(m.Submitted, draft)
	id := m.NextID
	m.NextID++
	return &donations.Result{
		DonationID:  fmt.Sprintf("don_%d", id),
		LedgerID:    id,
		RedirectURL: fmt.Sprintf("https://ihsan.example/donate/success/don_%d", id),
	}, nil
}

// MockLocalizer echoes the key so tests can match on it.
type MockLocalizer struct{}

func (m *MockLocalizer) Get(lang, key string, params map[string]interface{}) string {
	return key
}

// NewMockHandler creates a Handler with mocks and a real session manager.
func NewMockHandler() (*Handler, *MockCartService, *MockDonationService) {
	cartSvc := NewMockCartService()
	donationSvc := NewMockDonationService()
	h := NewHandler(
		checkout.NewManager(),
		&MockCampaignService{},
		cartSvc,
		donationSvc,
		&MockLocalizer{},
		slog.Default(),
	)
	return h, cartSvc, donationSvc
}
