package checkout

import "sync"

// Status is the lifecycle phase of a checkout session.
type Status string

const (
	// StatusCollecting - the wizard is gathering fields and navigating steps.
	StatusCollecting Status = "collecting"
	// StatusSubmitting - a submission is in flight; navigation and editing
	// are locked so at most one submission can run per session.
	StatusSubmitting Status = "submitting"
	// StatusRedirecting - submission succeeded; the session never returns
	// to Collecting, which is what prevents a duplicate submit during the
	// client-side redirect.
	StatusRedirecting Status = "redirecting"
)

// Machine drives one checkout session: it owns the draft, the computed
// step list and the submission status. All operations are serialized by
// an internal mutex, the backend-side equivalent of the UI event loop.
type Machine struct {
	mu            sync.Mutex
	draft         Draft
	steps         []Step
	status        Status
	donationID    string
	initialAmount float64
}

// Params describe how the dialog was opened.
type Params struct {
	Entry         EntryContext
	DonorKey      string
	Currency      string
	Language      string
	InitialAmount float64
}

// NewMachine creates a session machine for the given entry context.
//
// Cart sessions are fixed to one-time donations. Category quick-donate
// sessions force the monthly kind and bypass type selection; their billing
// day defaults to 1 because the billing-day step is skipped. Campaign
// sessions start in the type-selection pre-state until SelectType is called.
// A positive InitialAmount pre-seeds the amount and skips the amount step.
func NewMachine(p Params) *Machine {
	currency := p.Currency
	if currency == "" {
		currency = "USD"
	}

	m := &Machine{
		status:        StatusCollecting,
		initialAmount: p.InitialAmount,
		draft: Draft{
			Context:  p.Entry,
			DonorKey: p.DonorKey,
			Currency: currency,
			Language: p.Language,
		},
	}

	switch p.Entry.Mode {
	case ModeCart:
		m.draft.Kind = KindOneTime
		m.steps = ComputeSteps(m.draft.Kind, p.Entry)
	case ModeCategory:
		m.draft.Kind = KindMonthly
		m.draft.BillingDay = 1
		m.steps = ComputeSteps(m.draft.Kind, p.Entry)
		m.applyInitialAmount()
	}

	return m
}

func (m *Machine) applyInitialAmount() {
	if m.initialAmount > 0 {
		m.draft.Amount = m.initialAmount
		m.draft.StepIndex = 1
	}
}

// Snapshot returns a copy of the current draft.
func (m *Machine) Snapshot() Draft {
	m.mu.Lock()
	defer m.mu.Unlock()

	d := m.draft
	d.Context.Lines = append([]CartLine(nil), m.draft.Context.Lines...)
	return d
}

// Steps returns a copy of the computed step list. Empty until a kind is
// known (campaign sessions before SelectType).
func (m *Machine) Steps() []Step {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]Step(nil), m.steps...)
}

// Status returns the session status.
func (m *Machine) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.status
}

// DonationID returns the gateway donation identifier once the session has
// reached Redirecting.
func (m *Machine) DonationID() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.donationID
}

// NeedsTypeSelection reports whether the type-selection pre-state is active.
func (m *Machine) NeedsTypeSelection() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.draft.Kind == KindNone
}

// SelectType leaves the type-selection pre-state: it sets the kind,
// recomputes the step list and moves to step 0 (or 1 when the amount was
// pre-seeded). Selecting a kind again restarts the wizard from the top;
// mid-flow the kind is otherwise immutable.
func (m *Machine) SelectType(kind Kind) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.status != StatusCollecting {
		return false
	}
	if kind != KindOneTime && kind != KindMonthly {
		return false
	}
	if m.draft.Context.Mode != ModeCampaign {
		return false
	}

	m.draft.Kind = kind
	m.draft.StepIndex = 0
	m.steps = ComputeSteps(kind, m.draft.Context)
	m.applyInitialAmount()
	return true
}

// CurrentStep returns the active step, false while type selection is pending.
func (m *Machine) CurrentStep() (Step, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.currentStepLocked()
}

func (m *Machine) currentStepLocked() (Step, bool) {
	if len(m.steps) == 0 || m.draft.StepIndex >= len(m.steps) {
		return "", false
	}
	return m.steps[m.draft.StepIndex], true
}

// CanAdvance reports whether the current step's gate passes. Validation
// failures never produce errors, they only keep this false.
func (m *Machine) CanAdvance() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.canAdvanceLocked()
}

func (m *Machine) canAdvanceLocked() bool {
	if m.status != StatusCollecting {
		return false
	}
	step, ok := m.currentStepLocked()
	if !ok {
		return false
	}
	return m.stepGateLocked(step)
}

func (m *Machine) stepGateLocked(step Step) bool {
	switch step {
	case StepAmount:
		return m.draft.BaseAmount() > 0
	case StepBillingDay:
		return m.draft.BillingDay >= 1 && m.draft.BillingDay <= MaxBillingDay
	case StepPaymentMethod:
		return m.draft.Method != MethodNone
	case StepPaymentInfo:
		if m.draft.Method == MethodCard {
			return m.draft.Card.Valid()
		}
		return m.draft.Method != MethodNone
	default:
		return true
	}
}

// Advance moves to the next step when the current gate passes. On the last
// step it does not move; it reports atEnd so the caller can run submission.
func (m *Machine) Advance() (advanced, atEnd bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.canAdvanceLocked() {
		return false, false
	}
	if m.draft.StepIndex == len(m.steps)-1 {
		return false, true
	}
	m.draft.StepIndex++
	return true, false
}

// Retreat moves one step back. Not available from step 0 or while a
// submission is in flight.
func (m *Machine) Retreat() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.status != StatusCollecting || m.draft.StepIndex == 0 {
		return false
	}
	m.draft.StepIndex--
	return true
}

// CanAddToCart reports whether the add-to-cart affordance is available:
// only on the amount step of a campaign session, with a positive amount.
func (m *Machine) CanAddToCart() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.status != StatusCollecting || m.draft.Context.Mode != ModeCampaign {
		return false
	}
	step, ok := m.currentStepLocked()
	return ok && step == StepAmount && m.draft.Amount > 0
}

// Field setters. Always legal while collecting; negative monetary input is
// ignored rather than erroring, matching the gate-not-error policy.

func (m *Machine) SetAmount(v float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.status == StatusCollecting && v >= 0 {
		m.draft.Amount = v
	}
}

func (m *Machine) SetTeamSupport(v float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.status == StatusCollecting && v >= 0 {
		m.draft.TeamSupport = v
	}
}

func (m *Machine) SetCoverFees(v bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.status == StatusCollecting {
		m.draft.CoverFees = v
	}
}

func (m *Machine) SetBillingDay(day int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.status == StatusCollecting {
		m.draft.BillingDay = day
	}
}

func (m *Machine) SetMethod(method PaymentMethod) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.status == StatusCollecting {
		m.draft.Method = method
	}
}

func (m *Machine) SetCardNumber(raw string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.status == StatusCollecting {
		m.draft.Card.Number = NormalizeCardNumber(raw)
	}
}

func (m *Machine) SetCardExpiry(raw string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.status == StatusCollecting {
		m.draft.Card.Expiry = FormatExpiry(raw)
	}
}

func (m *Machine) SetCardCVV(raw string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.status == StatusCollecting {
		m.draft.Card.CVV = NormalizeCVV(raw)
	}
}

func (m *Machine) SetCardHolder(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.status == StatusCollecting {
		m.draft.Card.HolderName = name
	}
}

// BeginSubmit locks the session for submission. It refuses unless the
// wizard sits on the last step with a passing gate and no submission has
// run yet, which gives at-most-one in-flight submission per session.
func (m *Machine) BeginSubmit() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.status != StatusCollecting {
		return false
	}
	if len(m.steps) == 0 || m.draft.StepIndex != len(m.steps)-1 {
		return false
	}
	if !m.stepGateLocked(m.steps[m.draft.StepIndex]) {
		return false
	}
	m.status = StatusSubmitting
	return true
}

// FailSubmit releases the submission lock, leaving the draft untouched so
// the donor can edit and retry.
func (m *Machine) FailSubmit() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.status == StatusSubmitting {
		m.status = StatusCollecting
	}
}

// CompleteSubmit enters the terminal Redirecting state with the gateway
// donation identifier.
func (m *Machine) CompleteSubmit(donationID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.status == StatusSubmitting {
		m.status = StatusRedirecting
		m.donationID = donationID
	}
}
