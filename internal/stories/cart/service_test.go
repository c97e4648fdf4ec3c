package cart

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"ihsan-checkout/internal/stories/campaigns"
)

type fakeStorage struct {
	nextID int64
	items  []*Item
	err    error
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{nextID: 1}
}

func (f *fakeStorage) CreateCartItem(ctx context.Context, item Item) (*Item, error) {
	if f.err != nil {
		return nil, f.err
	}
	item.ID = f.nextID
	item.CreatedAt = time.Now().UTC()
	f.nextID++
	copied := item
	f.items = append(f.items, &copied)
	return &copied, nil
}

func (f *fakeStorage) ListCartItems(ctx context.Context, donorKey string) ([]*Item, error) {
	if f.err != nil {
		return nil, f.err
	}
	var result []*Item
	for _, item := range f.items {
		if item.DonorKey == donorKey {
			result = append(result, item)
		}
	}
	return result, nil
}

func (f *fakeStorage) ClearCart(ctx context.Context, donorKey string) error {
	var kept []*Item
	for _, item := range f.items {
		if item.DonorKey != donorKey {
			kept = append(kept, item)
		}
	}
	f.items = kept
	return nil
}

type fakeCampaigns struct{}

func (fakeCampaigns) GetCampaign(ctx context.Context, id string) (*campaigns.Campaign, error) {
	switch id {
	case "camp_water":
		return &campaigns.Campaign{ID: id, IsActive: true}, nil
	case "camp_closed":
		return &campaigns.Campaign{ID: id, IsActive: false}, nil
	default:
		return nil, nil
	}
}

type halfConverter struct{}

func (halfConverter) ConvertToUSD(ctx context.Context, amount float64, code string) float64 {
	if code == "USD" || code == "" {
		return amount
	}
	return amount / 2
}

func newTestService(storage *fakeStorage) *Service {
	return NewService(storage, fakeCampaigns{}, halfConverter{}, slog.Default())
}

func TestAddItemNormalizesToUSD(t *testing.T) {
	storage := newFakeStorage()
	svc := newTestService(storage)

	item, err := svc.AddItem(context.Background(), AddParams{
		DonorKey:   "donor_1",
		CampaignID: "camp_water",
		Amount:     50,
		Currency:   "AED",
	})
	if err != nil {
		t.Fatalf("AddItem() error: %v", err)
	}

	if item.Amount != 50 {
		t.Errorf("display amount = %v, want 50", item.Amount)
	}
	if item.AmountUSD != 25 {
		t.Errorf("normalized amount = %v, want 25", item.AmountUSD)
	}
	if item.Currency != "AED" {
		t.Errorf("currency = %q, want AED", item.Currency)
	}
}

func TestAddItemDefaultsToUSD(t *testing.T) {
	storage := newFakeStorage()
	svc := newTestService(storage)

	item, err := svc.AddItem(context.Background(), AddParams{
		DonorKey:   "donor_1",
		CampaignID: "camp_water",
		Amount:     30,
	})
	if err != nil {
		t.Fatalf("AddItem() error: %v", err)
	}
	if item.Currency != "USD" || item.AmountUSD != 30 {
		t.Errorf("item = %+v, want USD 30", item)
	}
}

func TestAddItemValidation(t *testing.T) {
	tests := []struct {
		name   string
		params AddParams
	}{
		{
			name:   "zero amount",
			params: AddParams{DonorKey: "d1", CampaignID: "camp_water", Amount: 0},
		},
		{
			name:   "negative amount",
			params: AddParams{DonorKey: "d1", CampaignID: "camp_water", Amount: -5},
		},
		{
			name:   "missing donor key",
			params: AddParams{CampaignID: "camp_water", Amount: 10},
		},
		{
			name:   "unknown campaign",
			params: AddParams{DonorKey: "d1", CampaignID: "nope", Amount: 10},
		},
		{
			name:   "inactive campaign",
			params: AddParams{DonorKey: "d1", CampaignID: "camp_closed", Amount: 10},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storage := newFakeStorage()
			svc := newTestService(storage)

			if _, err := svc.AddItem(context.Background(), tt.params); err == nil {
				t.Error("AddItem() should have failed")
			}
			if len(storage.items) != 0 {
				t.Error("invalid item must not be persisted")
			}
		})
	}
}

func TestSubtotalSumsDisplayAmounts(t *testing.T) {
	storage := newFakeStorage()
	svc := newTestService(storage)
	ctx := context.Background()

	for _, amount := range []float64{25, 40.5} {
		if _, err := svc.AddItem(ctx, AddParams{
			DonorKey:   "donor_1",
			CampaignID: "camp_water",
			Amount:     amount,
			Currency:   "AED",
		}); err != nil {
			t.Fatalf("AddItem() error: %v", err)
		}
	}

	subtotal, err := svc.Subtotal(ctx, "donor_1")
	if err != nil {
		t.Fatalf("Subtotal() error: %v", err)
	}
	if subtotal != 65.5 {
		t.Errorf("Subtotal() = %v, want 65.5", subtotal)
	}

	// Other donors see an empty cart.
	other, err := svc.Subtotal(ctx, "donor_2")
	if err != nil {
		t.Fatalf("Subtotal() error: %v", err)
	}
	if other != 0 {
		t.Errorf("Subtotal(donor_2) = %v, want 0", other)
	}
}

func TestClearDropsOnlyOwnLines(t *testing.T) {
	storage := newFakeStorage()
	svc := newTestService(storage)
	ctx := context.Background()

	for _, donor := range []string{"donor_1", "donor_2"} {
		if _, err := svc.AddItem(ctx, AddParams{
			DonorKey:   donor,
			CampaignID: "camp_water",
			Amount:     10,
		}); err != nil {
			t.Fatalf("AddItem() error: %v", err)
		}
	}

	if err := svc.Clear(ctx, "donor_1"); err != nil {
		t.Fatalf("Clear() error: %v", err)
	}

	mine, _ := svc.Items(ctx, "donor_1")
	theirs, _ := svc.Items(ctx, "donor_2")
	if len(mine) != 0 {
		t.Errorf("donor_1 still has %d lines", len(mine))
	}
	if len(theirs) != 1 {
		t.Errorf("donor_2 lost lines, has %d", len(theirs))
	}
}

func TestAddItemStorageErrorPropagates(t *testing.T) {
	storage := newFakeStorage()
	storage.err = errors.New("disk full")
	svc := newTestService(storage)

	if _, err := svc.AddItem(context.Background(), AddParams{
		DonorKey:   "donor_1",
		CampaignID: "camp_water",
		Amount:     10,
	}); err == nil {
		t.Error("AddItem() should surface storage errors")
	}
}
