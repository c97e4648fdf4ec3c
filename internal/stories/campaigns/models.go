package campaigns

import "time"

// Campaign is a fundraising campaign donors can give to.
type Campaign struct {
	ID            string
	CategoryID    string
	TitleEN       string
	TitleAR       string
	GoalAmount    float64
	RaisedAmount  float64
	AllowsMonthly bool
	IsActive      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Category groups campaigns; quick-donate categories expose the
// monthly-only abbreviated checkout entry point.
type Category struct {
	ID          string
	TitleEN     string
	TitleAR     string
	QuickDonate bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type GetCriteria struct {
	ID *string
}

type ListCriteria struct {
	IsActive   *bool
	CategoryID *string
	Limit      int
	Offset     int
}

type UpdateParams struct {
	RaisedAmount *float64
	IsActive     *bool
}
