// Package api assembles the gin engine: middleware chain and route table.
package api

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"eezlegal/internal/api/controllers"
	"eezlegal/internal/config"
	"eezlegal/pkg/middleware"
)

type RouterParams struct {
	fx.In

	Config        *config.Config
	Log           *zap.Logger
	Authenticator middleware.Authenticator

	Health    *controllers.HealthController
	Accounts  *controllers.AccountController
	OAuth     *controllers.OAuthController
	Chats     *controllers.ChatController
	Documents *controllers.DocumentController
	Payments  *controllers.PaymentController
}

func NewRouter(p RouterParams) *gin.Engine {
	if p.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.TraceIDMiddleware())
	r.Use(middleware.RequestLogger(p.Log))
	r.Use(middleware.CORSMiddleware(p.Config.HTTP.CORSOrigins))

	requireAuth := middleware.RequireAuth(p.Authenticator, p.Log)
	optionalAuth := middleware.OptionalAuth(p.Authenticator, p.Log)
	chatLimiter := middleware.RateLimit(rate.NewLimiter(rate.Limit(p.Config.Chat.RateLimit), p.Config.Chat.RateBurst), p.Log)

	r.GET("/", p.Health.Root)
	r.GET("/health", p.Health.Health)
	r.GET("/ready", p.Health.Ready)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.GET("/auth/google", p.OAuth.GoogleLogin)
	r.GET("/auth/google/callback", p.OAuth.GoogleCallback)
	r.GET("/auth/callback", p.OAuth.GoogleCallback)

	api := r.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/register", p.Accounts.Register)
	auth.POST("/login", p.Accounts.Login)
	auth.POST("/verify", p.Accounts.VerifyToken)
	auth.GET("/me", requireAuth, p.Accounts.Me)
	auth.POST("/logout", requireAuth, p.Accounts.Logout)

	users := api.Group("/users", requireAuth)
	users.PUT("/profile", p.Accounts.UpdateProfile)
	users.PUT("/change-password", p.Accounts.ChangePassword)
	users.GET("/usage", p.Accounts.Usage)

	api.POST("/chat", chatLimiter, optionalAuth, p.Chats.Chat)

	chats := api.Group("/chats", requireAuth)
	chats.GET("", p.Chats.ListChats)
	chats.POST("", p.Chats.CreateChat)
	chats.GET("/:id", p.Chats.GetChat)
	chats.PUT("/:id/title", p.Chats.RenameChat)
	chats.DELETE("/:id", p.Chats.DeleteChat)

	docs := api.Group("/documents", requireAuth)
	docs.GET("", p.Documents.List)
	docs.POST("/upload", p.Documents.Upload)
	docs.GET("/:id", p.Documents.Get)
	docs.GET("/:id/download", p.Documents.Download)
	docs.POST("/:id/analyze", p.Documents.Analyze)
	docs.DELETE("/:id", p.Documents.Delete)

	payments := api.Group("/payments")
	payments.GET("/pricing", p.Payments.Pricing)
	payments.POST("/create-payment-intent", requireAuth, p.Payments.CreatePaymentIntent)
	payments.POST("/confirm-payment", requireAuth, p.Payments.ConfirmPayment)
	payments.POST("/webhook", p.Payments.HandleWebhook)

	return r
}
