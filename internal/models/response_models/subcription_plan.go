package response_models

type PricingPlan struct {
	Code         string   `json:"code"`
	Name         string   `json:"name"`
	PriceMinor   int64    `json:"price"`
	PriceDisplay string   `json:"price_display"`
	Currency     string   `json:"currency"`
	DurationDays int      `json:"duration_days,omitempty"`
	Savings      string   `json:"savings,omitempty"`
	Features     []string `json:"features"`
}

type PricingResponse struct {
	Plans    []PricingPlan `json:"plans"`
	FreePlan PricingPlan   `json:"free_plan"`
}

type CreatePaymentIntentResponse struct {
	ClientSecret    string `json:"client_secret"`
	PaymentID       string `json:"payment_id"`
	PaymentIntentID string `json:"payment_intent_id"`
}

type ConfirmPaymentResponse struct {
	User                  AccountResponse `json:"user"`
	SubscriptionExpiresAt int64           `json:"subscription_expires_at"`
}
