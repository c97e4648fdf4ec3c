package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"ihsan-checkout/internal/checkout/flow"
	"ihsan-checkout/internal/stories/campaigns"
	"ihsan-checkout/internal/stories/cart"
)

type fakeCartStorage struct {
	items []*cart.Item
}

func (f *fakeCartStorage) CreateCartItem(ctx context.Context, item cart.Item) (*cart.Item, error) {
	item.ID = int64(len(f.items) + 1)
	f.items = append(f.items, &item)
	copied := item
	return &copied, nil
}

func (f *fakeCartStorage) ListCartItems(ctx context.Context, donorKey string) ([]*cart.Item, error) {
	var result []*cart.Item
	for _, item := range f.items {
		if item.DonorKey == donorKey {
			result = append(result, item)
		}
	}
	return result, nil
}

func (f *fakeCartStorage) ClearCart(ctx context.Context, donorKey string) error {
	var kept []*cart.Item
	for _, item := range f.items {
		if item.DonorKey != donorKey {
			kept = append(kept, item)
		}
	}
	f.items = kept
	return nil
}

type fakeCampaignGetter struct{}

func (fakeCampaignGetter) GetCampaign(ctx context.Context, id string) (*campaigns.Campaign, error) {
	return &campaigns.Campaign{ID: id, IsActive: true}, nil
}

type identityConverter struct{}

func (identityConverter) ConvertToUSD(ctx context.Context, amount float64, code string) float64 {
	return amount
}

func newTestRouter(items []*cart.Item) *gin.Engine {
	flowHandler, _, _ := flow.NewMockHandler()
	cartSvc := cart.NewService(&fakeCartStorage{items: items}, fakeCampaignGetter{}, identityConverter{}, slog.Default())
	handler := NewHandler(flowHandler, nil, cartSvc, nil)
	return SetupRouter(handler, gin.TestMode)
}

func TestGetCartSubtotal(t *testing.T) {
	router := newTestRouter([]*cart.Item{
		{ID: 1, DonorKey: "donor_1", CampaignID: "camp_water", Amount: 25.25, AmountUSD: 25.25, Currency: "USD"},
		{ID: 2, DonorKey: "donor_1", CampaignID: "camp_school", Amount: 40.25, AmountUSD: 40.25, Currency: "USD"},
		{ID: 3, DonorKey: "donor_2", CampaignID: "camp_water", Amount: 99, AmountUSD: 99, Currency: "USD"},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set("X-Donor-Key", "donor_1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("GET /cart = %d, want 200", rec.Code)
	}

	var body struct {
		Success  bool           `json:"success"`
		Items    []CartItemView `json:"items"`
		Subtotal float64        `json:"subtotal"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !body.Success {
		t.Error("response success = false")
	}
	if len(body.Items) != 2 {
		t.Errorf("response has %d items, want the donor's 2", len(body.Items))
	}
	if body.Subtotal != 65.5 {
		t.Errorf("subtotal = %v, want 65.5", body.Subtotal)
	}
}

func TestGetCartRequiresDonorKey(t *testing.T) {
	router := newTestRouter(nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("GET /cart without donor key = %d, want 400", rec.Code)
	}

	var body ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Code != "MISSING_DONOR_KEY" {
		t.Errorf("error code = %q, want MISSING_DONOR_KEY", body.Code)
	}
}
