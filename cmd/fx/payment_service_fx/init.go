package payment_service_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"eezlegal/internal/config"
	"eezlegal/internal/repositories"
	"eezlegal/internal/services"
	"eezlegal/pkg/utils"
)

var Module = fx.Provide(
	providePaymentRepo,
	providePaymentGateway,
	services.NewPaymentService,
)

func providePaymentRepo(db *gorm.DB) repositories.PaymentRepository {
	return repositories.NewPaymentRepository(db)
}

// providePaymentGateway returns nil without STRIPE_SECRET_KEY, which leaves
// only the pricing route working.
func providePaymentGateway(cfg *config.Config, log *zap.Logger) utils.PaymentGateway {
	if cfg.Stripe.SecretKey == "" {
		log.Warn("STRIPE_SECRET_KEY not set, payments disabled")
		return nil
	}
	if cfg.Stripe.WebhookSecret == "" {
		log.Warn("STRIPE_WEBHOOK_SECRET not set, webhooks will be rejected")
	}
	return utils.NewStripeGateway(cfg.Stripe.SecretKey, cfg.Stripe.WebhookSecret, nil)
}
