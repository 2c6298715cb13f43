package controllers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"eezlegal/internal/models/request_models"
	"eezlegal/internal/services"
	"eezlegal/pkg/utils"
)

// Stripe caps event payloads well below this.
const maxWebhookBytes = 64 << 10

type PaymentController struct {
	paymentService services.PaymentServiceInterface
	log            *zap.Logger
}

func NewPaymentController(paymentService services.PaymentServiceInterface, log *zap.Logger) *PaymentController {
	return &PaymentController{
		paymentService: paymentService,
		log:            log,
	}
}

// Pricing godoc
// @Summary Subscription plans
// @Tags Payments
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Router /api/payments/pricing [get]
func (p *PaymentController) Pricing(c *gin.Context) {
	utils.RespondSuccess(c, p.paymentService.Pricing(), "")
}

// CreatePaymentIntent godoc
// @Summary Start a subscription payment
// @Tags Payments
// @Accept json
// @Produce json
// @Param request body request_models.CreatePaymentRequest true "Plan"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /api/payments/create-payment-intent [post]
func (p *PaymentController) CreatePaymentIntent(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}

	var request request_models.CreatePaymentRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid plan type")
		return
	}

	intent, err := p.paymentService.CreatePaymentIntent(c.Request.Context(), user, request.PlanType)
	if err != nil {
		utils.HandleServiceError(c, p.log, err)
		return
	}

	utils.RespondSuccess(c, intent, "Payment intent created successfully")
}

// ConfirmPayment godoc
// @Summary Confirm a payment and activate the subscription
// @Tags Payments
// @Accept json
// @Produce json
// @Param request body request_models.ConfirmPaymentRequest true "Payment intent"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Security BearerAuth
// @Router /api/payments/confirm-payment [post]
func (p *PaymentController) ConfirmPayment(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}

	var request request_models.ConfirmPaymentRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Payment intent ID required")
		return
	}

	result, err := p.paymentService.ConfirmPayment(c.Request.Context(), user, request.PaymentIntentID)
	if err != nil {
		utils.HandleServiceError(c, p.log, err)
		return
	}

	utils.RespondSuccess(c, result, "Subscription activated successfully")
}

// HandleWebhook reads the raw body; the signature covers the exact bytes.
func (p *PaymentController) HandleWebhook(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBytes))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Could not read request body")
		return
	}

	if err := p.paymentService.HandleWebhook(c.Request.Context(), payload, c.GetHeader("Stripe-Signature")); err != nil {
		utils.HandleServiceError(c, p.log, err)
		return
	}

	utils.RespondSuccess(c, gin.H{"received": true}, "")
}
