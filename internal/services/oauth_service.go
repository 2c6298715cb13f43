package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	oauth2api "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"

	"eezlegal/internal/config"
	"eezlegal/internal/models/db_models"
	"eezlegal/internal/models/response_models"
	"eezlegal/internal/repositories"
	mem "eezlegal/pkg/memcache"
	"eezlegal/pkg/utils"
)

const oauthStateTTL = 10 * time.Minute

// Redirect error codes understood by the frontend login page.
const (
	OAuthErrNoCode         = "no_code"
	OAuthErrInvalidState   = "invalid_state"
	OAuthErrTokenExchange  = "token_exchange_failed"
	OAuthErrUserInfo       = "user_info_failed"
	OAuthErrMissingEmail   = "missing_email"
	OAuthErrAccountExists  = "account_exists"
	OAuthErrNotConfigured  = "oauth_not_configured"
	OAuthErrGenericFailure = "oauth_failed"
)

type GoogleProfile struct {
	Subject string
	Email   string
	Name    string
	Picture string
}

type OAuthServiceInterface interface {
	BeginAuth(ctx context.Context) (string, error)
	CompleteAuth(ctx context.Context, code, state string) (*response_models.AccountLoginResponse, error)
	SuccessRedirect(token string) string
	ErrorRedirect(code string) string
}

// OAuthEndpoints overrides Google's URLs; zero values keep the defaults.
type OAuthEndpoints struct {
	AuthURL     string
	TokenURL    string
	UserInfoURL string
}

type OAuthService struct {
	conf        *oauth2.Config
	userInfoURL string
	httpClient  *http.Client
	states      mem.StateStore
	users       repositories.UserRepository
	accounts    AccountServiceInterface
	frontendURL string
	freeLimit   int
	log         *zap.Logger
}

func NewOAuthService(
	cfg *config.Config,
	states mem.StateStore,
	users repositories.UserRepository,
	accounts AccountServiceInterface,
	log *zap.Logger,
) OAuthServiceInterface {
	return NewOAuthServiceWithEndpoints(cfg, OAuthEndpoints{}, states, users, accounts, log)
}

func NewOAuthServiceWithEndpoints(
	cfg *config.Config,
	endpoints OAuthEndpoints,
	states mem.StateStore,
	users repositories.UserRepository,
	accounts AccountServiceInterface,
	log *zap.Logger,
) *OAuthService {
	endpoint := google.Endpoint
	if endpoints.AuthURL != "" {
		endpoint.AuthURL = endpoints.AuthURL
	}
	if endpoints.TokenURL != "" {
		endpoint.TokenURL = endpoints.TokenURL
		endpoint.AuthStyle = oauth2.AuthStyleInParams
	}

	return &OAuthService{
		conf: &oauth2.Config{
			ClientID:     cfg.Google.ClientID,
			ClientSecret: cfg.Google.ClientSecret,
			RedirectURL:  cfg.Google.RedirectURL(),
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     endpoint,
		},
		userInfoURL: endpoints.UserInfoURL,
		httpClient:  &http.Client{Timeout: cfg.Google.Timeout},
		states:      states,
		users:       users,
		accounts:    accounts,
		frontendURL: strings.TrimRight(cfg.Google.FrontendURL, "/"),
		freeLimit:   cfg.Chat.FreeMessageLimit,
		log:         log,
	}
}

func (s *OAuthService) BeginAuth(ctx context.Context) (string, error) {
	if s.conf.ClientID == "" || s.conf.ClientSecret == "" {
		return "", utils.ErrOAuthNotConfigured
	}

	state, err := utils.GenerateSecureToken(16)
	if err != nil {
		return "", fmt.Errorf("generate state: %w", err)
	}
	if err := s.states.Set(ctx, state, db_models.OAuthProviderGoogle, oauthStateTTL); err != nil {
		return "", fmt.Errorf("store state: %w", err)
	}

	return s.conf.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
	), nil
}

func (s *OAuthService) CompleteAuth(ctx context.Context, code, state string) (*response_models.AccountLoginResponse, error) {
	if s.conf.ClientID == "" || s.conf.ClientSecret == "" {
		return nil, utils.ErrOAuthNotConfigured
	}

	_, ok, err := s.states.Consume(ctx, state)
	if err != nil {
		return nil, fmt.Errorf("consume state: %w", err)
	}
	if !ok {
		return nil, utils.ErrOAuthState
	}

	profile, err := s.fetchProfile(ctx, code)
	if err != nil {
		return nil, err
	}

	user, err := s.upsertUser(ctx, profile)
	if err != nil {
		return nil, err
	}

	s.log.Info("oauth login", zap.String("user_id", user.ID.String()), zap.String("provider", db_models.OAuthProviderGoogle))
	return s.accounts.IssueSession(user)
}

func (s *OAuthService) fetchProfile(ctx context.Context, code string) (*GoogleProfile, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, s.httpClient)

	tok, err := s.conf.Exchange(ctx, code)
	if err != nil {
		s.log.Warn("google code exchange failed", zap.Error(err))
		sentry.CaptureException(err)
		return nil, fmt.Errorf("%w: %w", utils.ErrOAuthExchange, err)
	}

	opts := []option.ClientOption{option.WithHTTPClient(s.conf.Client(ctx, tok))}
	if s.userInfoURL != "" {
		opts = append(opts, option.WithEndpoint(s.userInfoURL))
	}
	svc, err := oauth2api.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", utils.ErrOAuthUserInfo, err)
	}

	info, err := svc.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		s.log.Warn("google userinfo failed", zap.Error(err))
		sentry.CaptureException(err)
		return nil, fmt.Errorf("%w: %w", utils.ErrOAuthUserInfo, err)
	}

	profile := &GoogleProfile{
		Subject: info.Id,
		Email:   normalizeEmail(info.Email),
		Name:    strings.TrimSpace(info.Name),
		Picture: info.Picture,
	}
	if profile.Email == "" || profile.Subject == "" {
		return nil, utils.ErrOAuthMissingEmail
	}
	if profile.Name == "" {
		profile.Name = strings.Split(profile.Email, "@")[0]
	}
	return profile, nil
}

// upsertUser matches by provider subject first, then by email. A password
// account with the same email is never merged.
func (s *OAuthService) upsertUser(ctx context.Context, p *GoogleProfile) (*db_models.User, error) {
	provider := db_models.OAuthProviderGoogle

	user, err := s.users.FindByOAuthIdentity(ctx, provider, p.Subject)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", utils.ErrDatabaseError, err)
	}
	if user != nil {
		if p.Email != user.Email {
			other, err := s.users.FindByEmail(ctx, p.Email)
			if err != nil {
				return nil, fmt.Errorf("%w: %w", utils.ErrDatabaseError, err)
			}
			if other == nil {
				user.Email = p.Email
			}
		}
		user.Name = p.Name
		user.Picture = optionalString(p.Picture)
		if err := s.users.Save(ctx, user); err != nil {
			return nil, fmt.Errorf("%w: %w", utils.ErrDatabaseError, err)
		}
		return user, nil
	}

	user, err = s.users.FindByEmail(ctx, p.Email)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", utils.ErrDatabaseError, err)
	}
	if user != nil {
		if user.HasPassword() || user.HasOAuthIdentity() {
			return nil, utils.ErrAccountExists
		}
		user.OAuthProvider = &provider
		user.OAuthSubject = &p.Subject
		user.Name = p.Name
		user.Picture = optionalString(p.Picture)
		if err := s.users.Save(ctx, user); err != nil {
			return nil, fmt.Errorf("%w: %w", utils.ErrDatabaseError, err)
		}
		return user, nil
	}

	subject := p.Subject
	user = &db_models.User{
		Email:            p.Email,
		Name:             p.Name,
		Picture:          optionalString(p.Picture),
		OAuthProvider:    &provider,
		OAuthSubject:     &subject,
		FreeMessageLimit: s.freeLimit,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, utils.ErrEmailAlreadyExists) {
			return nil, utils.ErrAccountExists
		}
		return nil, fmt.Errorf("%w: %w", utils.ErrDatabaseError, err)
	}
	return user, nil
}

func (s *OAuthService) SuccessRedirect(token string) string {
	return s.frontendURL + "/dashboard/?token=" + url.QueryEscape(token)
}

func (s *OAuthService) ErrorRedirect(code string) string {
	return s.frontendURL + "/login/?error=" + url.QueryEscape(code)
}

// OAuthErrorCode maps a CompleteAuth error onto a redirect error code.
func OAuthErrorCode(err error) string {
	switch {
	case errors.Is(err, utils.ErrOAuthState):
		return OAuthErrInvalidState
	case errors.Is(err, utils.ErrOAuthExchange):
		return OAuthErrTokenExchange
	case errors.Is(err, utils.ErrOAuthUserInfo):
		return OAuthErrUserInfo
	case errors.Is(err, utils.ErrOAuthMissingEmail):
		return OAuthErrMissingEmail
	case errors.Is(err, utils.ErrAccountExists):
		return OAuthErrAccountExists
	case errors.Is(err, utils.ErrOAuthNotConfigured):
		return OAuthErrNotConfigured
	default:
		return OAuthErrGenericFailure
	}
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
