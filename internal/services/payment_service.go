package services

import (
	"context"
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"eezlegal/internal/models/db_models"
	"eezlegal/internal/models/response_models"
	"eezlegal/internal/repositories"
	"eezlegal/pkg/metrics"
	"eezlegal/pkg/utils"
)

type plan struct {
	Code         string
	Name         string
	PriceMinor   int64
	PriceDisplay string
	Currency     string
	DurationDays int
	Savings      string
	Features     []string
}

var plans = map[string]plan{
	"monthly": {
		Code:         "monthly",
		Name:         "Monthly Premium",
		PriceMinor:   2999,
		PriceDisplay: "$29.99",
		Currency:     "usd",
		DurationDays: 30,
		Features: []string{
			"Unlimited AI conversations",
			"Advanced GPT-4 model access",
			"Document analysis & drafting",
			"Priority support",
			"Export conversation history",
		},
	},
	"yearly": {
		Code:         "yearly",
		Name:         "Yearly Premium",
		PriceMinor:   29999,
		PriceDisplay: "$299.99",
		Currency:     "usd",
		DurationDays: 365,
		Savings:      "$60 saved vs monthly",
		Features: []string{
			"Unlimited AI conversations",
			"Advanced GPT-4 model access",
			"Document analysis & drafting",
			"Priority support",
			"Export conversation history",
			"Early access to new features",
		},
	},
}

var freePlan = response_models.PricingPlan{
	Code:         "free",
	Name:         "Free",
	PriceDisplay: "$0",
	Currency:     "usd",
	Features: []string{
		"10 AI conversations per month",
		"Basic GPT-3.5 model",
		"Community support",
	},
}

type PaymentServiceInterface interface {
	Pricing() response_models.PricingResponse
	CreatePaymentIntent(ctx context.Context, user *db_models.User, planType string) (*response_models.CreatePaymentIntentResponse, error)
	ConfirmPayment(ctx context.Context, user *db_models.User, intentID string) (*response_models.ConfirmPaymentResponse, error)
	HandleWebhook(ctx context.Context, payload []byte, signature string) error
}

type paymentService struct {
	payments repositories.PaymentRepository
	gateway  utils.PaymentGateway
	log      *zap.Logger
	now      func() time.Time
}

// NewPaymentService builds the Stripe flow. A nil gateway disables every
// operation except Pricing.
func NewPaymentService(payments repositories.PaymentRepository, gateway utils.PaymentGateway, log *zap.Logger) PaymentServiceInterface {
	return &paymentService{
		payments: payments,
		gateway:  gateway,
		log:      log,
		now:      time.Now,
	}
}

func (p *paymentService) Pricing() response_models.PricingResponse {
	out := response_models.PricingResponse{FreePlan: freePlan}
	for _, code := range []string{"monthly", "yearly"} {
		pl := plans[code]
		out.Plans = append(out.Plans, response_models.PricingPlan{
			Code:         pl.Code,
			Name:         pl.Name,
			PriceMinor:   pl.PriceMinor,
			PriceDisplay: pl.PriceDisplay,
			Currency:     pl.Currency,
			DurationDays: pl.DurationDays,
			Savings:      pl.Savings,
			Features:     pl.Features,
		})
	}
	return out
}

func (p *paymentService) CreatePaymentIntent(ctx context.Context, user *db_models.User, planType string) (*response_models.CreatePaymentIntentResponse, error) {
	if p.gateway == nil {
		return nil, utils.ErrPaymentsDisabled
	}
	pl, ok := plans[planType]
	if !ok {
		return nil, utils.ErrInvalidPlan
	}

	metadata := map[string]string{
		"user_id":    user.ID.String(),
		"plan_type":  pl.Code,
		"user_email": user.Email,
	}
	intent, err := p.gateway.CreatePaymentIntent(ctx, pl.PriceMinor, pl.Currency, metadata)
	if err != nil {
		p.log.Error("create payment intent", zap.String("user_id", user.ID.String()), zap.Error(err))
		sentry.CaptureException(err)
		return nil, err
	}

	payment := &db_models.Payment{
		UserID:                user.ID,
		StripePaymentIntentID: intent.ID,
		AmountMinor:           pl.PriceMinor,
		Currency:              pl.Currency,
		Status:                db_models.PaymentPending,
		SubscriptionType:      pl.Code,
		Metadata:              datatypes.JSONMap{},
	}
	for k, v := range metadata {
		payment.Metadata[k] = v
	}
	if err := p.payments.Create(ctx, payment); err != nil {
		return nil, fmt.Errorf("%w: %w", utils.ErrDatabaseError, err)
	}

	return &response_models.CreatePaymentIntentResponse{
		ClientSecret:    intent.ClientSecret,
		PaymentID:       payment.ID.String(),
		PaymentIntentID: intent.ID,
	}, nil
}

func (p *paymentService) ConfirmPayment(ctx context.Context, user *db_models.User, intentID string) (*response_models.ConfirmPaymentResponse, error) {
	if p.gateway == nil {
		return nil, utils.ErrPaymentsDisabled
	}

	payment, err := p.payments.FindByIntentID(ctx, intentID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", utils.ErrDatabaseError, err)
	}
	if payment == nil || payment.UserID != user.ID {
		return nil, utils.ErrPaymentNotFound
	}

	intent, err := p.gateway.GetPaymentIntent(ctx, intentID)
	if err != nil {
		sentry.CaptureException(err)
		return nil, err
	}

	if intent.Status != utils.IntentStatusSucceeded {
		if err := p.payments.UpdateStatus(ctx, payment.ID, db_models.PaymentStatus(intent.Status)); err != nil {
			return nil, fmt.Errorf("%w: %w", utils.ErrDatabaseError, err)
		}
		return nil, fmt.Errorf("%w: status %s", utils.ErrPaymentNotCompleted, intent.Status)
	}

	updated, err := p.activate(ctx, payment)
	if err != nil {
		return nil, err
	}

	out := &response_models.ConfirmPaymentResponse{User: response_models.NewAccountResponse(updated)}
	if updated.SubscriptionExpiresAt != nil {
		out.SubscriptionExpiresAt = *updated.SubscriptionExpiresAt
	}
	return out, nil
}

func (p *paymentService) activate(ctx context.Context, payment *db_models.Payment) (*db_models.User, error) {
	pl, ok := plans[payment.SubscriptionType]
	if !ok {
		return nil, utils.ErrInvalidPlan
	}

	now := p.now()
	expires := now.AddDate(0, 0, pl.DurationDays).UnixMilli()
	user, applied, err := p.payments.CompleteAndActivate(ctx, payment.ID, expires, now.UnixMilli())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", utils.ErrDatabaseError, err)
	}
	if applied {
		metrics.PaymentsCompleted.WithLabelValues(pl.Code).Inc()
		p.log.Info("subscription activated",
			zap.String("user_id", user.ID.String()),
			zap.String("plan", pl.Code),
			zap.String("payment_intent", payment.StripePaymentIntentID))
	}
	return user, nil
}

func (p *paymentService) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	if p.gateway == nil {
		return utils.ErrPaymentsDisabled
	}

	event, err := p.gateway.ParseWebhook(payload, signature)
	if err != nil {
		p.log.Warn("rejected stripe webhook", zap.Error(err))
		return err
	}
	if event.Intent == nil {
		p.log.Debug("ignoring stripe event", zap.String("type", event.Type))
		return nil
	}

	switch event.Type {
	case utils.EventPaymentIntentSucceeded, utils.EventPaymentIntentFailed:
	default:
		p.log.Debug("ignoring stripe event", zap.String("type", event.Type))
		return nil
	}

	payment, err := p.payments.FindByIntentID(ctx, event.Intent.ID)
	if err != nil {
		return fmt.Errorf("%w: %w", utils.ErrDatabaseError, err)
	}
	if payment == nil {
		p.log.Warn("webhook for unknown payment intent", zap.String("payment_intent", event.Intent.ID))
		return nil
	}

	if event.Type == utils.EventPaymentIntentFailed {
		if payment.Status == db_models.PaymentSucceeded {
			return nil
		}
		if err := p.payments.UpdateStatus(ctx, payment.ID, db_models.PaymentFailed); err != nil {
			return fmt.Errorf("%w: %w", utils.ErrDatabaseError, err)
		}
		return nil
	}

	_, err = p.activate(ctx, payment)
	return err
}
