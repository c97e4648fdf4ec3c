package cart

import (
	"context"

	"ihsan-checkout/internal/stories/campaigns"
)

type (
	// Storage provides database operations for cart items
	Storage interface {
		CreateCartItem(ctx context.Context, item Item) (*Item, error)
		ListCartItems(ctx context.Context, donorKey string) ([]*Item, error)
		ClearCart(ctx context.Context, donorKey string) error
	}

	campaignGetter interface {
		GetCampaign(ctx context.Context, id string) (*campaigns.Campaign, error)
	}

	converter interface {
		ConvertToUSD(ctx context.Context, amount float64, code string) float64
	}
)
