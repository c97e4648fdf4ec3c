package ratesrefresh

import "context"

type (
	converter interface {
		Refresh(ctx context.Context) error
	}
)
