package donations

import "time"

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Donation is the ledger row for one submission attempt. Amounts are
// normalized to USD, the ledger currency.
type Donation struct {
	ID             int64
	GatewayID      *string
	DonorKey       string
	Kind           string
	Currency       string
	AmountUSD      float64
	TeamSupportUSD float64
	CoverFees      bool
	Status         Status
	ContextMode    string
	CampaignID     *string
	CategoryID     *string
	ProcessedAt    *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type GetCriteria struct {
	ID        *int64
	GatewayID *string
}

type ListCriteria struct {
	Status *Status
	Limit  int
	Offset int
}

type UpdateParams struct {
	Status      *Status
	GatewayID   *string
	ProcessedAt *time.Time
}

// Result is what a successful submission hands back to the wizard.
type Result struct {
	DonationID  string
	LedgerID    int64
	RedirectURL string
}
