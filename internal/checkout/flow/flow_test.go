package flow

import (
	"context"
	"errors"
	"testing"

	"ihsan-checkout/internal/checkout"
	"ihsan-checkout/internal/stories/cart"
)

func openCampaignSession(t *testing.T, h *Handler, kind checkout.Kind) *Session {
	t.Helper()
	ctx := context.Background()

	session, err := h.Open(ctx, OpenParams{
		Mode:       checkout.ModeCampaign,
		CampaignID: "camp_water",
		DonorKey:   "donor_1",
		Language:   "en",
	})
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}

	session, err = h.SelectType(session.ID, kind)
	if err != nil {
		t.Fatalf("SelectType() error: %v", err)
	}
	return session
}

func setCardFields(t *testing.T, h *Handler, sessionID string) {
	t.Helper()
	number := "4111 1111 1111 1111"
	expiry := "1227"
	cvv := "123"
	holder := "Amina Hassan"
	if _, err := h.SetFields(sessionID, FieldChanges{
		CardNumber: &number,
		CardExpiry: &expiry,
		CardCVV:    &cvv,
		CardHolder: &holder,
	}); err != nil {
		t.Fatalf("SetFields(card) error: %v", err)
	}
}

func advanceThrough(t *testing.T, h *Handler, sessionID string, steps int) {
	t.Helper()
	ctx := context.Background()
	for i := 0; i < steps; i++ {
		result, err := h.Advance(ctx, sessionID)
		if err != nil {
			t.Fatalf("Advance() #%d error: %v", i+1, err)
		}
		if result.Blocked {
			t.Fatalf("Advance() #%d blocked on step %q", i+1, result.Session.CurrentStep)
		}
	}
}

func TestFlowOpenValidation(t *testing.T) {
	h, _, _ := NewMockHandler()
	ctx := context.Background()

	tests := []struct {
		name   string
		params OpenParams
	}{
		{
			name:   "missing donor key",
			params: OpenParams{Mode: checkout.ModeCampaign, CampaignID: "camp_water"},
		},
		{
			name:   "unknown campaign",
			params: OpenParams{Mode: checkout.ModeCampaign, CampaignID: "nope", DonorKey: "d1"},
		},
		{
			name:   "inactive campaign",
			params: OpenParams{Mode: checkout.ModeCampaign, CampaignID: "camp_closed", DonorKey: "d1"},
		},
		{
			name:   "category without quick donate",
			params: OpenParams{Mode: checkout.ModeCategory, CategoryID: "cat_relief", DonorKey: "d1"},
		},
		{
			name:   "empty cart",
			params: OpenParams{Mode: checkout.ModeCart, DonorKey: "d1"},
		},
		{
			name:   "unknown mode",
			params: OpenParams{Mode: "gift", DonorKey: "d1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := h.Open(ctx, tt.params); err == nil {
				t.Error("Open() should have failed")
			}
		})
	}
}

func TestFlowMonthlyCampaignSubmission(t *testing.T) {
	h, _, donationSvc := NewMockHandler()
	ctx := context.Background()

	session := openCampaignSession(t, h, checkout.KindMonthly)
	if len(session.Steps) != 7 {
		t.Fatalf("monthly campaign session has %d steps, want 7", len(session.Steps))
	}

	amount := 60.0
	day := 5
	support := 5.0
	coverFees := true
	method := checkout.MethodCard
	if _, err := h.SetFields(session.ID, FieldChanges{
		Amount:      &amount,
		BillingDay:  &day,
		TeamSupport: &support,
		CoverFees:   &coverFees,
		Method:      &method,
	}); err != nil {
		t.Fatalf("SetFields() error: %v", err)
	}
	setCardFields(t, h, session.ID)

	// Six advances reach the last step, the seventh submits.
	advanceThrough(t, h, session.ID, 6)

	result, err := h.Advance(ctx, session.ID)
	if err != nil {
		t.Fatalf("submitting Advance() error: %v", err)
	}
	if !result.Submitted {
		t.Fatalf("Advance() on last step did not submit: %+v", result)
	}
	if result.DonationID == "" || result.RedirectURL == "" {
		t.Error("submission result missing donation ID or redirect URL")
	}
	if result.Session.Status != checkout.StatusRedirecting {
		t.Errorf("session status = %q, want redirecting", result.Session.Status)
	}

	if len(donationSvc.Submitted) != 1 {
		t.Fatalf("donation service received %d submissions, want 1", len(donationSvc.Submitted))
	}
	draft := donationSvc.Submitted[0]
	if draft.Kind != checkout.KindMonthly || draft.BillingDay != 5 {
		t.Errorf("submitted draft kind/billing day = %q/%d", draft.Kind, draft.BillingDay)
	}
	if draft.Total() != 66.95 {
		t.Errorf("submitted total = %v, want 66.95", draft.Total())
	}
}

func TestFlowBlockedAdvanceKeepsSession(t *testing.T) {
	h, _, _ := NewMockHandler()
	ctx := context.Background()

	session := openCampaignSession(t, h, checkout.KindOneTime)

	result, err := h.Advance(ctx, session.ID)
	if err != nil {
		t.Fatalf("Advance() error: %v", err)
	}
	if !result.Blocked {
		t.Fatal("Advance() with a zero amount should be blocked")
	}
	if result.Message == "" {
		t.Error("blocked advance should carry a message")
	}
	if result.Session.CurrentStep != checkout.StepAmount {
		t.Errorf("session moved despite block, step = %q", result.Session.CurrentStep)
	}
}

func TestFlowFailedSubmissionAllowsRetry(t *testing.T) {
	h, _, donationSvc := NewMockHandler()
	ctx := context.Background()

	session := openCampaignSession(t, h, checkout.KindOneTime)

	amount := 40.0
	method := checkout.MethodPayPal
	if _, err := h.SetFields(session.ID, FieldChanges{Amount: &amount, Method: &method}); err != nil {
		t.Fatalf("SetFields() error: %v", err)
	}
	advanceThrough(t, h, session.ID, 5)

	donationSvc.FailWith = errors.New("gateway down")
	result, err := h.Advance(ctx, session.ID)
	if err != nil {
		t.Fatalf("failed submission should not surface an error, got: %v", err)
	}
	if result.Submitted {
		t.Fatal("failed submission reported as submitted")
	}
	if result.Message == "" {
		t.Error("failed submission should carry a localized message")
	}
	if result.Session.Status != checkout.StatusCollecting {
		t.Errorf("session status after failure = %q, want collecting", result.Session.Status)
	}

	// Draft untouched, retry succeeds once the gateway recovers.
	donationSvc.FailWith = nil
	retry, err := h.Advance(ctx, session.ID)
	if err != nil {
		t.Fatalf("retry Advance() error: %v", err)
	}
	if !retry.Submitted {
		t.Fatal("retry did not submit")
	}
	if got := donationSvc.Submitted[0].Amount; got != 40 {
		t.Errorf("retried draft amount = %v, want 40", got)
	}
}

func TestFlowCartCheckout(t *testing.T) {
	h, cartSvc, donationSvc := NewMockHandler()
	ctx := context.Background()

	for _, amount := range []float64{25, 40.5} {
		if _, err := cartSvc.AddItem(ctx, cart.AddParams{
			DonorKey:   "donor_1",
			CampaignID: "camp_water",
			Amount:     amount,
			Currency:   "USD",
		}); err != nil {
			t.Fatalf("AddItem() error: %v", err)
		}
	}

	session, err := h.Open(ctx, OpenParams{
		Mode:     checkout.ModeCart,
		DonorKey: "donor_1",
	})
	if err != nil {
		t.Fatalf("Open(cart) error: %v", err)
	}

	if session.NeedsTypeSelection {
		t.Error("cart session should not need type selection")
	}
	if len(session.Steps) != 5 {
		t.Fatalf("cart session has %d steps, want 5", len(session.Steps))
	}
	if session.Draft.BaseAmount() != 65.5 {
		t.Errorf("cart session base amount = %v, want 65.5", session.Draft.BaseAmount())
	}

	method := checkout.MethodPayPal
	if _, err := h.SetFields(session.ID, FieldChanges{Method: &method}); err != nil {
		t.Fatalf("SetFields() error: %v", err)
	}
	advanceThrough(t, h, session.ID, 4)

	result, err := h.Advance(ctx, session.ID)
	if err != nil {
		t.Fatalf("submitting Advance() error: %v", err)
	}
	if !result.Submitted {
		t.Fatal("cart checkout did not submit")
	}

	draft := donationSvc.Submitted[0]
	if draft.Kind != checkout.KindOneTime {
		t.Errorf("cart checkout kind = %q, want one_time", draft.Kind)
	}
	if len(draft.Context.Lines) != 2 {
		t.Errorf("submitted draft carries %d lines, want 2", len(draft.Context.Lines))
	}
}

func TestFlowAddToCartClosesSession(t *testing.T) {
	h, cartSvc, _ := NewMockHandler()
	ctx := context.Background()

	session := openCampaignSession(t, h, checkout.KindOneTime)

	// Unavailable before an amount is entered.
	if _, err := h.AddToCart(ctx, session.ID); err == nil {
		t.Error("AddToCart() with a zero amount should fail")
	}

	amount := 30.0
	if _, err := h.SetFields(session.ID, FieldChanges{Amount: &amount}); err != nil {
		t.Fatalf("SetFields() error: %v", err)
	}

	item, err := h.AddToCart(ctx, session.ID)
	if err != nil {
		t.Fatalf("AddToCart() error: %v", err)
	}
	if item.Amount != 30 || item.CampaignID != "camp_water" {
		t.Errorf("cart item = %+v", item)
	}
	if len(cartSvc.Lines) != 1 {
		t.Errorf("cart has %d lines, want 1", len(cartSvc.Lines))
	}

	// The dialog is gone after saving to the cart.
	if _, err := h.Get(session.ID); !errors.Is(err, checkout.ErrSessionNotFound) {
		t.Errorf("Get() after AddToCart() error = %v, want ErrSessionNotFound", err)
	}
}

func TestFlowQuickDonateSession(t *testing.T) {
	h, _, _ := NewMockHandler()
	ctx := context.Background()

	session, err := h.Open(ctx, OpenParams{
		Mode:          checkout.ModeCategory,
		CategoryID:    "cat_orphans",
		DonorKey:      "donor_1",
		InitialAmount: 25,
	})
	if err != nil {
		t.Fatalf("Open(category) error: %v", err)
	}

	if session.NeedsTypeSelection {
		t.Error("quick-donate session should not need type selection")
	}
	if session.Draft.Kind != checkout.KindMonthly {
		t.Errorf("quick-donate kind = %q, want monthly", session.Draft.Kind)
	}
	if session.Draft.BillingDay != 1 {
		t.Errorf("quick-donate billing day = %d, want 1", session.Draft.BillingDay)
	}
	if session.CurrentStep != checkout.StepTeamSupport {
		t.Errorf("pre-seeded session step = %q, want team_support", session.CurrentStep)
	}
}
