package pendingrecheck

import "context"

type (
	donationService interface {
		RecheckPending(ctx context.Context) error
	}
)
