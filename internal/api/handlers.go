package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"ihsan-checkout/internal/checkout"
	"ihsan-checkout/internal/checkout/flow"
	"ihsan-checkout/internal/stories/campaigns"
	"ihsan-checkout/internal/stories/cart"
	"ihsan-checkout/internal/stories/currency"
)

// Handler contains the HTTP handlers for the checkout API.
type Handler struct {
	flow      *flow.Handler
	campaigns *campaigns.Service
	cart      *cart.Service
	currency  *currency.Service
}

// NewHandler creates a new API handler.
func NewHandler(flowHandler *flow.Handler, campaignService *campaigns.Service, cartService *cart.Service, currencyService *currency.Service) *Handler {
	return &Handler{
		flow:      flowHandler,
		campaigns: campaignService,
		cart:      cartService,
		currency:  currencyService,
	}
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
}

// OpenSessionRequest represents the JSON body for opening a checkout session.
type OpenSessionRequest struct {
	Mode          string  `json:"mode" binding:"required"`
	CampaignID    string  `json:"campaign_id"`
	CategoryID    string  `json:"category_id"`
	Currency      string  `json:"currency"`
	InitialAmount float64 `json:"initial_amount"`
}

// SessionResponse is the session view returned to the client.
type SessionResponse struct {
	Success            bool             `json:"success"`
	SessionID          string           `json:"session_id"`
	Status             string           `json:"status"`
	NeedsTypeSelection bool             `json:"needs_type_selection"`
	Steps              []string         `json:"steps"`
	StepIndex          int              `json:"step_index"`
	CurrentStep        string           `json:"current_step,omitempty"`
	CanAdvance         bool             `json:"can_advance"`
	CanRetreat         bool             `json:"can_retreat"`
	CanAddToCart       bool             `json:"can_add_to_cart"`
	Draft              DraftView       `json:"draft"`
	Submission         *SubmissionView `json:"submission,omitempty"`
}

// DraftView is the JSON shape of the in-progress draft.
type DraftView struct {
	Kind        string  `json:"kind,omitempty"`
	Amount      float64 `json:"amount"`
	TeamSupport float64 `json:"team_support"`
	CoverFees   bool    `json:"cover_fees"`
	Fees        float64 `json:"fees"`
	Total       float64 `json:"total"`
	BillingDay  int     `json:"billing_day,omitempty"`
	Method      string  `json:"payment_method,omitempty"`
	Currency    string  `json:"currency"`
}

// SubmissionView is attached once a session has submitted.
type SubmissionView struct {
	DonationID  string `json:"donation_id"`
	RedirectURL string `json:"redirect_url"`
	Message     string `json:"message,omitempty"`
}

// OpenSession handles POST /api/v1/checkout/sessions
func (h *Handler) OpenSession(c *gin.Context) {
	var req OpenSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Success: false,
			Error:   "Invalid request body: " + err.Error(),
			Code:    "VALIDATION_ERROR",
		})
		return
	}

	session, err := h.flow.Open(c.Request.Context(), flow.OpenParams{
		Mode:          checkout.Mode(req.Mode),
		CampaignID:    req.CampaignID,
		CategoryID:    req.CategoryID,
		DonorKey:      donorKey(c),
		Currency:      req.Currency,
		Language:      language(c),
		InitialAmount: req.InitialAmount,
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Success: false,
			Error:   err.Error(),
			Code:    "CHECKOUT_OPEN_FAILED",
		})
		return
	}

	c.JSON(http.StatusCreated, sessionResponse(session, nil))
}

// GetSession handles GET /api/v1/checkout/sessions/:id
func (h *Handler) GetSession(c *gin.Context) {
	session, err := h.flow.Get(c.Param("id"))
	if err != nil {
		handleSessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, sessionResponse(session, nil))
}

// SelectTypeRequest represents the JSON body for the type-selection step.
type SelectTypeRequest struct {
	Kind string `json:"kind" binding:"required"`
}

// SelectType handles POST /api/v1/checkout/sessions/:id/type
func (h *Handler) SelectType(c *gin.Context) {
	var req SelectTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Success: false,
			Error:   "Invalid request body: " + err.Error(),
			Code:    "VALIDATION_ERROR",
		})
		return
	}

	session, err := h.flow.SelectType(c.Param("id"), checkout.Kind(req.Kind))
	if err != nil {
		handleSessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, sessionResponse(session, nil))
}

// SetFieldsRequest represents the JSON body for field edits; absent
// fields are left untouched.
type SetFieldsRequest struct {
	Amount      *float64 `json:"amount"`
	TeamSupport *float64 `json:"team_support"`
	CoverFees   *bool    `json:"cover_fees"`
	BillingDay  *int     `json:"billing_day"`
	Method      *string  `json:"payment_method"`
	CardNumber  *string  `json:"card_number"`
	CardExpiry  *string  `json:"card_expiry"`
	CardCVV     *string  `json:"card_cvv"`
	CardHolder  *string  `json:"card_holder"`
}

// SetFields handles PATCH /api/v1/checkout/sessions/:id/fields
func (h *Handler) SetFields(c *gin.Context) {
	var req SetFieldsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Success: false,
			Error:   "Invalid request body: " + err.Error(),
			Code:    "VALIDATION_ERROR",
		})
		return
	}

	changes := flow.FieldChanges{
		Amount:      req.Amount,
		TeamSupport: req.TeamSupport,
		CoverFees:   req.CoverFees,
		BillingDay:  req.BillingDay,
		CardNumber:  req.CardNumber,
		CardExpiry:  req.CardExpiry,
		CardCVV:     req.CardCVV,
		CardHolder:  req.CardHolder,
	}
	if req.Method != nil {
		method := checkout.PaymentMethod(*req.Method)
		changes.Method = &method
	}

	session, err := h.flow.SetFields(c.Param("id"), changes)
	if err != nil {
		handleSessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, sessionResponse(session, nil))
}

// Advance handles POST /api/v1/checkout/sessions/:id/advance
func (h *Handler) Advance(c *gin.Context) {
	result, err := h.flow.Advance(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleSessionError(c, err)
		return
	}

	var submission *SubmissionView
	if result.Submitted {
		submission = &SubmissionView{
			DonationID:  result.DonationID,
			RedirectURL: result.RedirectURL,
			Message:     result.Message,
		}
	}

	resp := sessionResponse(result.Session, submission)
	switch {
	case result.Blocked:
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"success": false,
			"session": resp,
			"message": result.Message,
		})
	case !result.Submitted && result.Message != "":
		// Submission reached the gateway and failed; the draft is intact.
		c.JSON(http.StatusBadGateway, gin.H{
			"success": false,
			"session": resp,
			"message": result.Message,
		})
	default:
		c.JSON(http.StatusOK, resp)
	}
}

// Retreat handles POST /api/v1/checkout/sessions/:id/retreat
func (h *Handler) Retreat(c *gin.Context) {
	session, err := h.flow.Retreat(c.Param("id"))
	if err != nil {
		handleSessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, sessionResponse(session, nil))
}

// AddToCart handles POST /api/v1/checkout/sessions/:id/cart
func (h *Handler) AddToCart(c *gin.Context) {
	item, err := h.flow.AddToCart(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleSessionError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"item":    cartItemView(item),
	})
}

// CloseSession handles DELETE /api/v1/checkout/sessions/:id
func (h *Handler) CloseSession(c *gin.Context) {
	h.flow.Close(c.Param("id"))
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// CampaignView is the public JSON shape of a campaign.
type CampaignView struct {
	ID            string  `json:"id"`
	CategoryID    string  `json:"category_id"`
	TitleEN       string  `json:"title_en"`
	TitleAR       string  `json:"title_ar"`
	GoalAmount    float64 `json:"goal_amount"`
	RaisedAmount  float64 `json:"raised_amount"`
	AllowsMonthly bool    `json:"allows_monthly"`
}

// ListCampaigns handles GET /api/v1/campaigns
func (h *Handler) ListCampaigns(c *gin.Context) {
	list, err := h.campaigns.GetActiveCampaigns(c.Request.Context(), c.Query("category_id"))
	if err != nil {
		internalError(c)
		return
	}

	views := make([]CampaignView, 0, len(list))
	for _, campaign := range list {
		views = append(views, CampaignView{
			ID:            campaign.ID,
			CategoryID:    campaign.CategoryID,
			TitleEN:       campaign.TitleEN,
			TitleAR:       campaign.TitleAR,
			GoalAmount:    campaign.GoalAmount,
			RaisedAmount:  campaign.RaisedAmount,
			AllowsMonthly: campaign.AllowsMonthly,
		})
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "campaigns": views})
}

// CategoryView is the public JSON shape of a category.
type CategoryView struct {
	ID          string `json:"id"`
	TitleEN     string `json:"title_en"`
	TitleAR     string `json:"title_ar"`
	QuickDonate bool   `json:"quick_donate"`
}

// ListCategories handles GET /api/v1/categories
func (h *Handler) ListCategories(c *gin.Context) {
	list, err := h.campaigns.ListCategories(c.Request.Context())
	if err != nil {
		internalError(c)
		return
	}

	views := make([]CategoryView, 0, len(list))
	for _, category := range list {
		views = append(views, CategoryView{
			ID:          category.ID,
			TitleEN:     category.TitleEN,
			TitleAR:     category.TitleAR,
			QuickDonate: category.QuickDonate,
		})
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "categories": views})
}

// CartItemView is the JSON shape of one cart line.
type CartItemView struct {
	ID         int64   `json:"id"`
	CampaignID string  `json:"campaign_id"`
	Amount     float64 `json:"amount"`
	AmountUSD  float64 `json:"amount_usd"`
	Currency   string  `json:"currency"`
}

// GetCart handles GET /api/v1/cart
func (h *Handler) GetCart(c *gin.Context) {
	key := donorKey(c)
	if key == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Success: false,
			Error:   "X-Donor-Key header is required",
			Code:    "MISSING_DONOR_KEY",
		})
		return
	}

	items, err := h.cart.Items(c.Request.Context(), key)
	if err != nil {
		internalError(c)
		return
	}
	subtotal, err := h.cart.Subtotal(c.Request.Context(), key)
	if err != nil {
		internalError(c)
		return
	}

	views := make([]CartItemView, 0, len(items))
	for _, item := range items {
		views = append(views, cartItemView(item))
	}
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"items":    views,
		"subtotal": subtotal,
	})
}

// ConvertCurrency handles GET /api/v1/currency/convert
// Renders a USD amount in the requested display currency, falling back
// to USD when the currency is unknown.
func (h *Handler) ConvertCurrency(c *gin.Context) {
	amount, err := strconv.ParseFloat(c.Query("amount_usd"), 64)
	if err != nil || amount < 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Success: false,
			Error:   "amount_usd must be a non-negative number",
			Code:    "VALIDATION_ERROR",
		})
		return
	}

	conv := h.currency.ConvertFromUSD(c.Request.Context(), amount, c.Query("currency"))
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"value":    conv.Value,
		"currency": conv.Currency,
	})
}

// Health handles GET /health
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "ihsan-checkout",
	})
}

func sessionResponse(s *flow.Session, submission *SubmissionView) SessionResponse {
	steps := make([]string, 0, len(s.Steps))
	for _, step := range s.Steps {
		steps = append(steps, string(step))
	}

	return SessionResponse{
		Success:            true,
		SessionID:          s.ID,
		Status:             string(s.Status),
		NeedsTypeSelection: s.NeedsTypeSelection,
		Steps:              steps,
		StepIndex:          s.StepIndex,
		CurrentStep:        string(s.CurrentStep),
		CanAdvance:         s.CanAdvance,
		CanRetreat:         s.CanRetreat,
		CanAddToCart:       s.CanAddToCart,
		Draft: DraftView{
			Kind:        string(s.Draft.Kind),
			Amount:      s.Draft.BaseAmount(),
			TeamSupport: s.Draft.TeamSupport,
			CoverFees:   s.Draft.CoverFees,
			Fees:        s.Draft.Fees(),
			Total:       s.Draft.Total(),
			BillingDay:  s.Draft.BillingDay,
			Method:      string(s.Draft.Method),
			Currency:    s.Draft.Currency,
		},
		Submission: submission,
	}
}

func cartItemView(item *cart.Item) CartItemView {
	return CartItemView{
		ID:         item.ID,
		CampaignID: item.CampaignID,
		Amount:     item.Amount,
		AmountUSD:  item.AmountUSD,
		Currency:   item.Currency,
	}
}

func donorKey(c *gin.Context) string {
	return c.GetHeader("X-Donor-Key")
}

func language(c *gin.Context) string {
	lang := c.GetHeader("Accept-Language")
	if len(lang) >= 2 {
		lang = lang[:2]
	}
	if lang != "ar" {
		lang = "en"
	}
	return lang
}

func handleSessionError(c *gin.Context, err error) {
	if errors.Is(err, checkout.ErrSessionNotFound) {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Success: false,
			Error:   "Checkout session not found",
			Code:    "SESSION_NOT_FOUND",
		})
		return
	}
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Success: false,
		Error:   err.Error(),
		Code:    "CHECKOUT_ERROR",
	})
}

func internalError(c *gin.Context) {
	c.JSON(http.StatusInternalServerError, ErrorResponse{
		Success: false,
		Error:   "Internal server error",
		Code:    "INTERNAL_ERROR",
	})
}
