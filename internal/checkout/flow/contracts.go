package flow

import (
	"context"

	"ihsan-checkout/internal/checkout"
	"ihsan-checkout/internal/stories/campaigns"
	"ihsan-checkout/internal/stories/cart"
	"ihsan-checkout/internal/stories/donations"
)

type (
	sessionManager interface {
		Put(machine *checkout.Machine) string
		Get(id string) (*checkout.Machine, error)
		Delete(id string)
	}

	campaignService interface {
		GetCampaign(ctx context.Context, id string) (*campaigns.Campaign, error)
		GetCategory(ctx context.Context, id string) (*campaigns.Category, error)
	}

	cartService interface {
		AddItem(ctx context.Context, params cart.AddParams) (*cart.Item, error)
		Items(ctx context.Context, donorKey string) ([]*cart.Item, error)
	}

	donationService interface {
		Submit(ctx context.Context, draft checkout.Draft) (*donations.Result, error)
	}

	localizer interface {
		Get(lang, key string, params map[string]interface{}) string
	}
)
