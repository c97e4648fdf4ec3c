package donations

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"ihsan-checkout/internal/checkout"
	"ihsan-checkout/internal/infra/gateway"
)

var submissionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "checkout_submissions_total",
	Help: "Donation submissions by result",
}, []string{"result"})

// Service is the submission coordinator: it converts the draft's amounts
// to the ledger currency, issues exactly one gateway call per attempt and
// sequences the success path (approve ledger row, clear cart) so the cart
// is never cleared before the gateway confirms.
type Service struct {
	storage     Storage
	gateway     GatewayClient
	converter   converter
	campaigns   campaignRecorder
	successURL  string
	mockPayment bool
	logger      *slog.Logger
}

// NewService creates a new donation service
func NewService(storage Storage, gatewayClient GatewayClient, converter converter, campaignService campaignRecorder, successURL string, mockPayment bool, logger *slog.Logger) *Service {
	return &Service{
		storage:     storage,
		gateway:     gatewayClient,
		converter:   converter,
		campaigns:   campaignService,
		successURL:  successURL,
		mockPayment: mockPayment,
		logger:      logger,
	}
}

// Submit validates the terminal draft, assembles the payload and performs
// one submission. On failure the ledger row is marked rejected and the
// cart is left intact so the donor can retry with the same draft.
func (s *Service) Submit(ctx context.Context, draft checkout.Draft) (*Result, error) {
	if err := validateTerminal(draft); err != nil {
		return nil, err
	}

	req := s.buildRequest(ctx, draft)

	row := Donation{
		DonorKey:       draft.DonorKey,
		Kind:           string(draft.Kind),
		Currency:       draft.Currency,
		AmountUSD:      s.converter.ConvertToUSD(ctx, draft.BaseAmount(), draft.Currency),
		TeamSupportUSD: req.TeamSupportUSD,
		CoverFees:      draft.CoverFees,
		Status:         StatusPending,
		ContextMode:    string(draft.Context.Mode),
	}
	switch draft.Context.Mode {
	case checkout.ModeCampaign:
		id := draft.Context.CampaignID
		row.CampaignID = &id
	case checkout.ModeCategory:
		id := draft.Context.CategoryID
		row.CategoryID = &id
	}

	created, err := s.storage.CreateDonation(ctx, row)
	if err != nil {
		s.logger.Error("Failed to create donation ledger row", "error", err, "donor_key", draft.DonorKey)
		return nil, fmt.Errorf("create donation: %w", err)
	}

	if s.mockPayment {
		return s.completeMock(ctx, created, draft)
	}

	s.logger.Info("Submitting donation",
		"ledger_id", created.ID,
		"mode", draft.Context.Mode,
		"type", draft.Kind,
		"amount_usd", created.AmountUSD,
	)

	resp, err := s.gateway.SubmitDonation(ctx, req)
	if err == nil && !resp.Success {
		err = fmt.Errorf("gateway rejected donation: %s", resp.Error)
	}
	if err != nil {
		submissionsTotal.WithLabelValues("failed").Inc()
		s.logger.Error("Donation submission failed", "error", err, "ledger_id", created.ID)

		rejected := StatusRejected
		if _, updErr := s.storage.UpdateDonation(ctx, GetCriteria{ID: &created.ID}, UpdateParams{Status: &rejected}); updErr != nil {
			s.logger.Error("Failed to mark donation rejected", "error", updErr, "ledger_id", created.ID)
		}
		return nil, err
	}

	clearCart := draft.Context.Mode == checkout.ModeCart
	if err := s.storage.ApproveDonationAndClearCart(ctx, created.ID, resp.Donation.ID, draft.DonorKey, clearCart); err != nil {
		// The gateway accepted the donation; the local ledger lags behind.
		// Persist the gateway ID so the pending recheck can find the row
		// and finish the approval later.
		s.logger.Error("Failed to finalize approved donation", "error", err, "ledger_id", created.ID, "gateway_id", resp.Donation.ID)

		gatewayID := resp.Donation.ID
		if _, updErr := s.storage.UpdateDonation(ctx, GetCriteria{ID: &created.ID}, UpdateParams{GatewayID: &gatewayID}); updErr != nil {
			s.logger.Error("Failed to persist gateway ID on pending donation", "error", updErr, "ledger_id", created.ID)
		}
	} else {
		s.recordRaised(ctx, draft)
		s.logger.Info("Donation approved",
			"ledger_id", created.ID,
			"gateway_id", resp.Donation.ID,
			"cart_cleared", clearCart,
		)
	}

	submissionsTotal.WithLabelValues("approved").Inc()

	return &Result{
		DonationID:  resp.Donation.ID,
		LedgerID:    created.ID,
		RedirectURL: fmt.Sprintf("%s/%s", s.successURL, resp.Donation.ID),
	}, nil
}

// recordRaised bumps the raised total of every campaign the approved
// donation funds. Failures only log; the ledger row is already final.
func (s *Service) recordRaised(ctx context.Context, draft checkout.Draft) {
	switch draft.Context.Mode {
	case checkout.ModeCampaign:
		amountUSD := s.converter.ConvertToUSD(ctx, draft.Amount, draft.Currency)
		if _, err := s.campaigns.RecordRaised(ctx, draft.Context.CampaignID, amountUSD); err != nil {
			s.logger.Error("Failed to record raised amount", "error", err, "campaign_id", draft.Context.CampaignID)
		}
	case checkout.ModeCart:
		for _, line := range draft.Context.Lines {
			if _, err := s.campaigns.RecordRaised(ctx, line.CampaignID, line.AmountUSD); err != nil {
				s.logger.Error("Failed to record raised amount", "error", err, "campaign_id", line.CampaignID)
			}
		}
	}
}

// buildRequest assembles the gateway payload, converting every monetary
// amount to USD - cart lines each independently.
func (s *Service) buildRequest(ctx context.Context, draft checkout.Draft) *gateway.DonationRequest {
	req := &gateway.DonationRequest{
		Currency:       draft.Currency,
		TeamSupport:    draft.TeamSupport,
		TeamSupportUSD: s.converter.ConvertToUSD(ctx, draft.TeamSupport, draft.Currency),
		CoverFees:      draft.CoverFees,
		Type:           string(draft.Kind),
		PaymentMethod:  string(draft.Method),
	}

	if draft.Kind == checkout.KindMonthly {
		req.BillingDay = draft.BillingDay
	}
	if draft.Method == checkout.MethodCard {
		req.CardDetails = &gateway.CardDetails{
			CardNumber:     draft.Card.Number,
			ExpiryDate:     draft.Card.Expiry,
			CVV:            draft.Card.CVV,
			CardholderName: draft.Card.HolderName,
		}
	}

	switch draft.Context.Mode {
	case checkout.ModeCart:
		for _, line := range draft.Context.Lines {
			req.Items = append(req.Items, gateway.DonationItem{
				CampaignID: line.CampaignID,
				Amount:     line.Amount,
				AmountUSD:  line.AmountUSD,
			})
		}
	case checkout.ModeCategory:
		req.CategoryItems = []gateway.CategoryItem{{
			CategoryID: draft.Context.CategoryID,
			Amount:     draft.Amount,
			AmountUSD:  s.converter.ConvertToUSD(ctx, draft.Amount, draft.Currency),
		}}
	default:
		req.Items = []gateway.DonationItem{{
			CampaignID: draft.Context.CampaignID,
			Amount:     draft.Amount,
			AmountUSD:  s.converter.ConvertToUSD(ctx, draft.Amount, draft.Currency),
		}}
	}

	return req
}

// completeMock approves without calling the gateway. Mirrors the gateway
// response shape so the rest of the flow stays identical.
func (s *Service) completeMock(ctx context.Context, created *Donation, draft checkout.Draft) (*Result, error) {
	gatewayID := fmt.Sprintf("mock_%d", created.ID)
	clearCart := draft.Context.Mode == checkout.ModeCart

	if err := s.storage.ApproveDonationAndClearCart(ctx, created.ID, gatewayID, draft.DonorKey, clearCart); err != nil {
		return nil, fmt.Errorf("finalize mock donation: %w", err)
	}
	s.recordRaised(ctx, draft)

	submissionsTotal.WithLabelValues("approved").Inc()
	s.logger.Info("Mock donation approved", "ledger_id", created.ID)

	return &Result{
		DonationID:  gatewayID,
		LedgerID:    created.ID,
		RedirectURL: fmt.Sprintf("%s/%s", s.successURL, gatewayID),
	}, nil
}

// RecheckPending reconciles ledger rows left pending by a crash between
// the gateway call and the local finalize. Rows without a gateway ID are
// genuine rejections in the making and stay untouched here.
func (s *Service) RecheckPending(ctx context.Context) error {
	pending := StatusPending
	rows, err := s.storage.ListDonations(ctx, ListCriteria{Status: &pending, Limit: 50})
	if err != nil {
		return fmt.Errorf("list pending donations: %w", err)
	}

	for _, row := range rows {
		if row.GatewayID == nil {
			continue
		}

		status, err := s.gateway.GetDonationStatus(ctx, *row.GatewayID)
		if err != nil {
			s.logger.Error("Failed to recheck donation", "error", err, "ledger_id", row.ID)
			continue
		}

		newStatus := mapGatewayStatus(status.Status)
		if newStatus == row.Status {
			continue
		}

		if newStatus == StatusApproved {
			// Same finalize as the direct success path: approve and, for
			// cart checkouts, clear the donor's cart in one transaction.
			clearCart := row.ContextMode == string(checkout.ModeCart)
			if err := s.storage.ApproveDonationAndClearCart(ctx, row.ID, *row.GatewayID, row.DonorKey, clearCart); err != nil {
				s.logger.Error("Failed to finalize rechecked donation", "error", err, "ledger_id", row.ID)
				continue
			}
			// Cart rows no longer carry per-line splits here, so raised
			// totals are only bumped for single-campaign rows.
			if row.CampaignID != nil {
				if _, err := s.campaigns.RecordRaised(ctx, *row.CampaignID, row.AmountUSD); err != nil {
					s.logger.Error("Failed to record raised amount", "error", err, "campaign_id", *row.CampaignID)
				}
			}
		} else {
			if _, err := s.storage.UpdateDonation(ctx, GetCriteria{ID: &row.ID}, UpdateParams{Status: &newStatus}); err != nil {
				s.logger.Error("Failed to update rechecked donation", "error", err, "ledger_id", row.ID)
				continue
			}
		}
		s.logger.Info("Reconciled pending donation", "ledger_id", row.ID, "status", newStatus)
	}

	return nil
}

func validateTerminal(draft checkout.Draft) error {
	if draft.Kind == checkout.KindNone {
		return fmt.Errorf("donation type not selected")
	}
	if draft.BaseAmount() <= 0 {
		return fmt.Errorf("amount must be positive")
	}
	if draft.Method == checkout.MethodNone {
		return fmt.Errorf("payment method not selected")
	}
	if draft.Method == checkout.MethodCard && !draft.Card.Valid() {
		return fmt.Errorf("card details are invalid")
	}
	if draft.Kind == checkout.KindMonthly && (draft.BillingDay < 1 || draft.BillingDay > checkout.MaxBillingDay) {
		return fmt.Errorf("billing day must be between 1 and %d", checkout.MaxBillingDay)
	}
	return nil
}

func mapGatewayStatus(status string) Status {
	switch status {
	case "succeeded", "approved":
		return StatusApproved
	case "rejected", "cancelled", "failed":
		return StatusRejected
	default:
		return StatusPending
	}
}
