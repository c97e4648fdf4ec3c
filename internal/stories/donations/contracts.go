package donations

import (
	"context"

	"ihsan-checkout/internal/infra/gateway"
	"ihsan-checkout/internal/stories/campaigns"
)

type (
	// Storage provides database operations for the donation ledger
	Storage interface {
		CreateDonation(ctx context.Context, donation Donation) (*Donation, error)
		GetDonation(ctx context.Context, criteria GetCriteria) (*Donation, error)
		UpdateDonation(ctx context.Context, criteria GetCriteria, params UpdateParams) (*Donation, error)
		ListDonations(ctx context.Context, criteria ListCriteria) ([]*Donation, error)
		ApproveDonationAndClearCart(ctx context.Context, donationID int64, gatewayID string, donorKey string, clearCart bool) error
	}

	// GatewayClient provides payment gateway operations
	GatewayClient interface {
		SubmitDonation(ctx context.Context, req *gateway.DonationRequest) (*gateway.DonationResponse, error)
		GetDonationStatus(ctx context.Context, donationID string) (*gateway.DonationStatus, error)
	}

	converter interface {
		ConvertToUSD(ctx context.Context, amount float64, code string) float64
	}

	campaignRecorder interface {
		RecordRaised(ctx context.Context, campaignID string, amountUSD float64) (*campaigns.Campaign, error)
	}
)
