package flow

import (
	"context"
	"fmt"
	"log/slog"

	"ihsan-checkout/internal/checkout"
	"ihsan-checkout/internal/stories/cart"
)

// Handler orchestrates checkout sessions: it opens dialogs from their
// entry contexts, routes field edits and navigation to the session
// machine and runs the submission when the wizard reaches its end.
type Handler struct {
	sessions  sessionManager
	campaigns campaignService
	cart      cartService
	donations donationService
	l10n      localizer
	logger    *slog.Logger
}

func NewHandler(
	sessions sessionManager,
	cs campaignService,
	crt cartService,
	ds donationService,
	l10n localizer,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		sessions:  sessions,
		campaigns: cs,
		cart:      crt,
		donations: ds,
		l10n:      l10n,
		logger:    logger,
	}
}

// OpenParams describe a request to open a checkout dialog.
type OpenParams struct {
	Mode          checkout.Mode
	CampaignID    string
	CategoryID    string
	DonorKey      string
	Currency      string
	Language      string
	InitialAmount float64
}

// Session is the view of a checkout session handed back to transports.
type Session struct {
	ID                 string
	Status             checkout.Status
	NeedsTypeSelection bool
	Steps              []checkout.Step
	StepIndex          int
	CurrentStep        checkout.Step
	CanAdvance         bool
	CanRetreat         bool
	CanAddToCart       bool
	Draft              checkout.Draft
	DonationID         string
}

// FieldChanges carries the edits of a single update; nil fields stay
// untouched. Card inputs are normalized by the machine on write.
type FieldChanges struct {
	Amount      *float64
	TeamSupport *float64
	CoverFees   *bool
	BillingDay  *int
	Method      *checkout.PaymentMethod
	CardNumber  *string
	CardExpiry  *string
	CardCVV     *string
	CardHolder  *string
}

// AdvanceResult reports what a next-step request did. Exactly one of
// Session (moved forward), Blocked (gate failed) or Submitted is set;
// submission failure keeps the session alive with a localized message.
type AdvanceResult struct {
	Session     *Session
	Blocked     bool
	Submitted   bool
	DonationID  string
	RedirectURL string
	Message     string
}

// Open validates the entry context and creates a session. Campaign
// sessions start in type selection, category sessions require the
// quick-donate flag, cart sessions snapshot the donor's lines and
// refuse to open on an empty cart.
func (h *Handler) Open(ctx context.Context, p OpenParams) (*Session, error) {
	if p.DonorKey == "" {
		return nil, fmt.Errorf("donor key is required")
	}

	entry := checkout.EntryContext{Mode: p.Mode}

	switch p.Mode {
	case checkout.ModeCampaign:
		campaign, err := h.campaigns.GetCampaign(ctx, p.CampaignID)
		if err != nil {
			return nil, fmt.Errorf("get campaign: %w", err)
		}
		if campaign == nil || !campaign.IsActive {
			return nil, fmt.Errorf("campaign %s is not open for donations", p.CampaignID)
		}
		entry.CampaignID = p.CampaignID

	case checkout.ModeCategory:
		category, err := h.campaigns.GetCategory(ctx, p.CategoryID)
		if err != nil {
			return nil, fmt.Errorf("get category: %w", err)
		}
		if category == nil {
			return nil, fmt.Errorf("category %s not found", p.CategoryID)
		}
		if !category.QuickDonate {
			return nil, fmt.Errorf("category %s does not accept quick donations", p.CategoryID)
		}
		entry.CategoryID = p.CategoryID

	case checkout.ModeCart:
		items, err := h.cart.Items(ctx, p.DonorKey)
		if err != nil {
			return nil, fmt.Errorf("load cart: %w", err)
		}
		if len(items) == 0 {
			return nil, fmt.Errorf("cart is empty")
		}
		for _, item := range items {
			entry.Lines = append(entry.Lines, checkout.CartLine{
				ItemID:     item.ID,
				CampaignID: item.CampaignID,
				Amount:     item.Amount,
				AmountUSD:  item.AmountUSD,
			})
		}

	default:
		return nil, fmt.Errorf("unknown checkout mode: %s", p.Mode)
	}

	machine := checkout.NewMachine(checkout.Params{
		Entry:         entry,
		DonorKey:      p.DonorKey,
		Currency:      p.Currency,
		Language:      p.Language,
		InitialAmount: p.InitialAmount,
	})
	id := h.sessions.Put(machine)

	h.logger.Info("Opened checkout session",
		"session_id", id,
		"mode", p.Mode,
		"donor_key", p.DonorKey,
	)
	return h.view(id, machine), nil
}

// Get returns the current session view.
func (h *Handler) Get(sessionID string) (*Session, error) {
	machine, err := h.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	return h.view(sessionID, machine), nil
}

// SelectType leaves the type-selection pre-state of a campaign session.
func (h *Handler) SelectType(sessionID string, kind checkout.Kind) (*Session, error) {
	machine, err := h.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	if !machine.SelectType(kind) {
		return nil, fmt.Errorf("donation type %q cannot be selected here", kind)
	}
	return h.view(sessionID, machine), nil
}

// SetFields applies the non-nil edits to the draft and returns the
// refreshed view. Edits on a locked session are silently dropped, the
// view reflects whatever the machine accepted.
func (h *Handler) SetFields(sessionID string, changes FieldChanges) (*Session, error) {
	machine, err := h.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}

	if changes.Amount != nil {
		machine.SetAmount(*changes.Amount)
	}
	if changes.TeamSupport != nil {
		machine.SetTeamSupport(*changes.TeamSupport)
	}
	if changes.CoverFees != nil {
		machine.SetCoverFees(*changes.CoverFees)
	}
	if changes.BillingDay != nil {
		machine.SetBillingDay(*changes.BillingDay)
	}
	if changes.Method != nil {
		machine.SetMethod(*changes.Method)
	}
	if changes.CardNumber != nil {
		machine.SetCardNumber(*changes.CardNumber)
	}
	if changes.CardExpiry != nil {
		machine.SetCardExpiry(*changes.CardExpiry)
	}
	if changes.CardCVV != nil {
		machine.SetCardCVV(*changes.CardCVV)
	}
	if changes.CardHolder != nil {
		machine.SetCardHolder(*changes.CardHolder)
	}

	return h.view(sessionID, machine), nil
}

// Advance moves the wizard forward. On the last step it locks the
// session and submits the donation; a rejected submission unlocks the
// session with the draft intact so the donor can edit and retry.
func (h *Handler) Advance(ctx context.Context, sessionID string) (*AdvanceResult, error) {
	machine, err := h.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}

	draft := machine.Snapshot()
	advanced, atEnd := machine.Advance()
	if advanced {
		return &AdvanceResult{Session: h.view(sessionID, machine)}, nil
	}
	if !atEnd {
		return &AdvanceResult{
			Blocked: true,
			Session: h.view(sessionID, machine),
			Message: h.l10n.Get(draft.Language, "checkout.step_incomplete", nil),
		}, nil
	}

	if !machine.BeginSubmit() {
		return nil, fmt.Errorf("session %s is not ready to submit", sessionID)
	}

	result, err := h.donations.Submit(ctx, machine.Snapshot())
	if err != nil {
		machine.FailSubmit()
		h.logger.Error("Checkout submission failed", "error", err, "session_id", sessionID)
		return &AdvanceResult{
			Session: h.view(sessionID, machine),
			Message: h.l10n.Get(draft.Language, "checkout.submit_failed", nil),
		}, nil
	}

	machine.CompleteSubmit(result.DonationID)
	h.logger.Info("Checkout submitted",
		"session_id", sessionID,
		"donation_id", result.DonationID,
	)
	return &AdvanceResult{
		Submitted:   true,
		Session:     h.view(sessionID, machine),
		DonationID:  result.DonationID,
		RedirectURL: result.RedirectURL,
		Message:     h.l10n.Get(draft.Language, "checkout.submit_success", nil),
	}, nil
}

// Retreat moves the wizard one step back.
func (h *Handler) Retreat(sessionID string) (*Session, error) {
	machine, err := h.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	machine.Retreat()
	return h.view(sessionID, machine), nil
}

// AddToCart saves the entered amount as a cart line and closes the
// dialog. Only available on the amount step of a campaign session.
func (h *Handler) AddToCart(ctx context.Context, sessionID string) (*cart.Item, error) {
	machine, err := h.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	if !machine.CanAddToCart() {
		return nil, fmt.Errorf("add to cart is not available here")
	}

	draft := machine.Snapshot()
	item, err := h.cart.AddItem(ctx, cart.AddParams{
		DonorKey:   draft.DonorKey,
		CampaignID: draft.Context.CampaignID,
		Amount:     draft.Amount,
		Currency:   draft.Currency,
	})
	if err != nil {
		return nil, err
	}

	h.sessions.Delete(sessionID)
	return item, nil
}

// Close discards the session without side effects.
func (h *Handler) Close(sessionID string) {
	h.sessions.Delete(sessionID)
}

func (h *Handler) view(id string, machine *checkout.Machine) *Session {
	draft := machine.Snapshot()
	steps := machine.Steps()
	current, _ := machine.CurrentStep()

	return &Session{
		ID:                 id,
		Status:             machine.Status(),
		NeedsTypeSelection: machine.NeedsTypeSelection(),
		Steps:              steps,
		StepIndex:          draft.StepIndex,
		CurrentStep:        current,
		CanAdvance:         machine.CanAdvance(),
		CanRetreat:         machine.Status() == checkout.StatusCollecting && draft.StepIndex > 0,
		CanAddToCart:       machine.CanAddToCart(),
		Draft:              draft,
		DonationID:         machine.DonationID(),
	}
}
