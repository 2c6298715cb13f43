package request_models

type CreatePaymentRequest struct {
	PlanType string `json:"plan_type" binding:"required,oneof=monthly yearly"`
}

type ConfirmPaymentRequest struct {
	PaymentIntentID string `json:"payment_intent_id" binding:"required"`
}
