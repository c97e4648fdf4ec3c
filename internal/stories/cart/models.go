package cart

import "time"

// Item is one pending donation line in a donor's cart. Amount is in the
// currency it was added under; AmountUSD is the normalized ledger amount.
type Item struct {
	ID         int64
	DonorKey   string
	CampaignID string
	Amount     float64
	AmountUSD  float64
	Currency   string
	CreatedAt  time.Time
}

type AddParams struct {
	DonorKey   string
	CampaignID string
	Amount     float64
	Currency   string
}
