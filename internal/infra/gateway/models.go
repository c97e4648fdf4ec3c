package gateway

// DonationItem is one campaign line of a submission payload. Amount is in
// the donor's display currency, AmountUSD in the ledger currency.
type DonationItem struct {
	CampaignID string  `json:"campaignId"`
	Amount     float64 `json:"amount"`
	AmountUSD  float64 `json:"amountUsd"`
}

// CategoryItem is the quick-donate counterpart of DonationItem.
type CategoryItem struct {
	CategoryID string  `json:"categoryId"`
	Amount     float64 `json:"amount"`
	AmountUSD  float64 `json:"amountUsd"`
}

type CardDetails struct {
	CardNumber     string `json:"cardNumber"`
	ExpiryDate     string `json:"expiryDate"`
	CVV            string `json:"cvv"`
	CardholderName string `json:"cardholderName"`
}

// DonationRequest is the assembled submission payload. Exactly one of
// Items / CategoryItems is populated.
type DonationRequest struct {
	Items          []DonationItem `json:"items,omitempty"`
	CategoryItems  []CategoryItem `json:"categoryItems,omitempty"`
	Currency       string         `json:"currency"`
	TeamSupport    float64        `json:"teamSupport"`
	TeamSupportUSD float64        `json:"teamSupportUsd"`
	CoverFees      bool           `json:"coverFees"`
	Type           string         `json:"type"`
	PaymentMethod  string         `json:"paymentMethod"`
	CardDetails    *CardDetails   `json:"cardDetails,omitempty"`
	BillingDay     int            `json:"billingDay,omitempty"`
}

type DonationResponse struct {
	Success  bool   `json:"success"`
	Error    string `json:"error,omitempty"`
	Donation struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	} `json:"donation"`
}

type DonationStatus struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}
