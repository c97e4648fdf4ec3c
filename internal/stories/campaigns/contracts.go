package campaigns

import "context"

type (
	// Storage provides database operations for campaigns and categories
	Storage interface {
		CreateCampaign(ctx context.Context, campaign Campaign) (*Campaign, error)
		GetCampaign(ctx context.Context, criteria GetCriteria) (*Campaign, error)
		ListCampaigns(ctx context.Context, criteria ListCriteria) ([]*Campaign, error)
		UpdateCampaign(ctx context.Context, criteria GetCriteria, params UpdateParams) (*Campaign, error)
		CreateCategory(ctx context.Context, category Category) (*Category, error)
		GetCategory(ctx context.Context, criteria GetCriteria) (*Category, error)
		ListCategories(ctx context.Context) ([]*Category, error)
	}
)
