package account_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"eezlegal/internal/config"
	"eezlegal/internal/repositories"
	"eezlegal/internal/services"
	mem "eezlegal/pkg/memcache"
	"eezlegal/pkg/middleware"
)

var Module = fx.Provide(
	provideUserRepo,
	services.NewTokenService,
	provideAccountService,
	provideAuthenticator,
	provideOAuthService,
)

func provideUserRepo(db *gorm.DB) repositories.UserRepository {
	return repositories.NewUserRepository(db)
}

func provideAccountService(
	userRepo repositories.UserRepository,
	tokens services.TokenServiceInterface,
	cfg *config.Config,
	log *zap.Logger,
) services.AccountServiceInterface {
	return services.NewAccountService(userRepo, tokens, cfg, log)
}

func provideAuthenticator(accounts services.AccountServiceInterface) middleware.Authenticator {
	return accounts
}

func provideOAuthService(
	cfg *config.Config,
	states mem.StateStore,
	userRepo repositories.UserRepository,
	accounts services.AccountServiceInterface,
	log *zap.Logger,
) services.OAuthServiceInterface {
	return services.NewOAuthService(cfg, states, userRepo, accounts, log)
}
