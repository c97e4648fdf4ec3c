package checkout

import "math"

// Kind is the donation type chosen on the wizard's pre-step.
type Kind string

const (
	KindNone    Kind = ""
	KindOneTime Kind = "one_time"
	KindMonthly Kind = "monthly"
)

// PaymentMethod is the payment instrument picked on the payment-method step.
type PaymentMethod string

const (
	MethodNone   PaymentMethod = ""
	MethodCard   PaymentMethod = "card"
	MethodPayPal PaymentMethod = "paypal"
)

// Mode discriminates the wizard's entry context.
type Mode string

const (
	ModeCampaign Mode = "campaign"
	ModeCategory Mode = "category"
	ModeCart     Mode = "cart"
)

// FeeRate is the processing-fee share a donor may opt to cover.
const FeeRate = 0.03

// MaxBillingDay caps the monthly billing day so it exists in every month.
const MaxBillingDay = 28

// CartLine is a read-only snapshot of one cart item taken when a cart
// session opens. Amount is in the display currency, AmountUSD is the
// normalized ledger amount.
type CartLine struct {
	ItemID     int64
	CampaignID string
	Amount     float64
	AmountUSD  float64
}

// EntryContext describes how the checkout dialog was opened. Exactly one
// mode is active per session; the ID fields for the other modes stay empty.
type EntryContext struct {
	Mode       Mode
	CampaignID string
	CategoryID string
	Lines      []CartLine
}

// Draft is the in-progress state of a single checkout session. It is
// mutated only through Machine transitions.
type Draft struct {
	DonorKey    string
	Kind        Kind
	Context     EntryContext
	Amount      float64
	TeamSupport float64
	CoverFees   bool
	BillingDay  int
	Method      PaymentMethod
	Card        CardDetails
	Currency    string
	Language    string
	StepIndex   int
}

// BaseAmount is the donation amount the totals derive from: the cart
// subtotal in cart mode, the entered amount otherwise.
func (d *Draft) BaseAmount() float64 {
	if d.Context.Mode != ModeCart {
		return d.Amount
	}
	var sum float64
	for _, line := range d.Context.Lines {
		sum += line.Amount
	}
	return sum
}

// Fees is the processing fee added when the donor opted to cover it.
// Always derived from the current field values, never cached.
func (d *Draft) Fees() float64 {
	if !d.CoverFees {
		return 0
	}
	return roundCents((d.BaseAmount() + d.TeamSupport) * FeeRate)
}

// Total is amount + team support + fees.
func (d *Draft) Total() float64 {
	return roundCents(d.BaseAmount() + d.TeamSupport + d.Fees())
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
