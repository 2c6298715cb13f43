package controllers_fx

import (
	"go.uber.org/fx"

	"eezlegal/internal/api"
	"eezlegal/internal/api/controllers"
)

var Module = fx.Options(
	fx.Provide(controllers.NewHealthController),
	fx.Provide(controllers.NewAccountController),
	fx.Provide(controllers.NewOAuthController),
	fx.Provide(controllers.NewChatController),
	fx.Provide(controllers.NewDocumentController),
	fx.Provide(controllers.NewPaymentController),
	fx.Provide(api.NewRouter),
)
