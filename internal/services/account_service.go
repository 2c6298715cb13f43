package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"eezlegal/internal/config"
	"eezlegal/internal/models/db_models"
	"eezlegal/internal/models/request_models"
	"eezlegal/internal/models/response_models"
	"eezlegal/internal/repositories"
	"eezlegal/pkg/utils"
)

type AccountServiceInterface interface {
	Register(ctx context.Context, request request_models.SignUpRequest) (*response_models.AccountLoginResponse, error)
	Login(ctx context.Context, request request_models.LoginRequest) (*response_models.AccountLoginResponse, error)
	IssueSession(user *db_models.User) (*response_models.AccountLoginResponse, error)

	// Authenticate resolves a bearer token to a stored user.
	Authenticate(ctx context.Context, token string) (*db_models.User, error)
	VerifyToken(ctx context.Context, token string) (*response_models.VerifyTokenResponse, error)

	GetProfile(ctx context.Context, userID uuid.UUID) (*db_models.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, request request_models.UpdateProfileRequest) (*db_models.User, error)
	ChangePassword(ctx context.Context, userID uuid.UUID, request request_models.ChangePasswordRequest) error
	GetUsage(ctx context.Context, userID uuid.UUID) (*response_models.UsageResponse, error)
}

type AccountService struct {
	userRepo  repositories.UserRepository
	tokens    TokenServiceInterface
	freeLimit int
	log       *zap.Logger
	now       func() time.Time
}

func NewAccountService(
	userRepo repositories.UserRepository,
	tokens TokenServiceInterface,
	cfg *config.Config,
	log *zap.Logger,
) AccountServiceInterface {
	return &AccountService{
		userRepo:  userRepo,
		tokens:    tokens,
		freeLimit: cfg.Chat.FreeMessageLimit,
		log:       log,
		now:       time.Now,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (a *AccountService) Register(ctx context.Context, request request_models.SignUpRequest) (*response_models.AccountLoginResponse, error) {
	email := normalizeEmail(request.Email)
	existing, err := a.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", utils.ErrDatabaseError, err)
	}
	if existing != nil {
		return nil, utils.ErrEmailAlreadyExists
	}

	hashedPassword, err := utils.HashPassword(request.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &db_models.User{
		Name:             strings.TrimSpace(request.DisplayName),
		Email:            email,
		PasswordHash:     hashedPassword,
		FreeMessageLimit: a.freeLimit,
	}
	if err := a.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, utils.ErrEmailAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", utils.ErrDatabaseError, err)
	}

	a.log.Info("account registered", zap.String("user_id", user.ID.String()))
	return a.IssueSession(user)
}

func (a *AccountService) Login(ctx context.Context, request request_models.LoginRequest) (*response_models.AccountLoginResponse, error) {
	user, err := a.userRepo.FindByEmail(ctx, normalizeEmail(request.Email))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", utils.ErrDatabaseError, err)
	}

	// OAuth-only accounts have no hash and fail the same way as a bad password
	if user == nil || !user.HasPassword() {
		return nil, utils.ErrInvalidCredentials
	}
	if err := utils.ComparePasswords(user.PasswordHash, request.Password); err != nil {
		return nil, utils.ErrInvalidCredentials
	}

	return a.IssueSession(user)
}

func (a *AccountService) IssueSession(user *db_models.User) (*response_models.AccountLoginResponse, error) {
	token, exp, err := a.tokens.Issue(user)
	if err != nil {
		return nil, err
	}
	return &response_models.AccountLoginResponse{
		Token:     token,
		ExpiresAt: exp.Unix(),
		User:      response_models.NewAccountResponse(user),
	}, nil
}

func (a *AccountService) Authenticate(ctx context.Context, token string) (*db_models.User, error) {
	claims, err := a.tokens.Verify(token)
	if err != nil {
		return nil, err
	}

	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, utils.ErrTokenInvalid
	}

	user, err := a.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", utils.ErrDatabaseError, err)
	}
	if user == nil {
		return nil, utils.ErrUserNotFound
	}
	return user, nil
}

// VerifyToken reports claims for a valid token. Invalid tokens are not an
// error here; the reason travels in the response.
func (a *AccountService) VerifyToken(ctx context.Context, token string) (*response_models.VerifyTokenResponse, error) {
	claims, err := a.tokens.Verify(token)
	if err != nil {
		reason := "invalid"
		if errors.Is(err, utils.ErrTokenExpired) {
			reason = "expired"
		}
		return &response_models.VerifyTokenResponse{Valid: false, Reason: reason}, nil
	}

	user, err := a.Authenticate(ctx, token)
	if err != nil {
		if errors.Is(err, utils.ErrUserNotFound) || errors.Is(err, utils.ErrTokenInvalid) {
			return &response_models.VerifyTokenResponse{Valid: false, Reason: "user_not_found"}, nil
		}
		return nil, err
	}

	out := &response_models.TokenClaimsResponse{
		UserID:  user.ID.String(),
		Email:   user.Email,
		Name:    user.Name,
		Picture: user.Picture,
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Unix()
	}
	return &response_models.VerifyTokenResponse{Valid: true, User: out}, nil
}

func (a *AccountService) GetProfile(ctx context.Context, userID uuid.UUID) (*db_models.User, error) {
	user, err := a.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", utils.ErrDatabaseError, err)
	}
	if user == nil {
		return nil, utils.ErrUserNotFound
	}
	return user, nil
}

func (a *AccountService) UpdateProfile(ctx context.Context, userID uuid.UUID, request request_models.UpdateProfileRequest) (*db_models.User, error) {
	user, err := a.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if request.Name != nil {
		name := strings.TrimSpace(*request.Name)
		if name == "" {
			return nil, utils.ErrInvalidInput
		}
		user.Name = name
	}
	if request.Email != nil {
		email := normalizeEmail(*request.Email)
		if email != user.Email {
			other, err := a.userRepo.FindByEmail(ctx, email)
			if err != nil {
				return nil, fmt.Errorf("%w: %w", utils.ErrDatabaseError, err)
			}
			if other != nil {
				return nil, utils.ErrEmailAlreadyExists
			}
			user.Email = email
		}
	}
	if request.Picture != nil {
		if p := strings.TrimSpace(*request.Picture); p == "" {
			user.Picture = nil
		} else {
			user.Picture = &p
		}
	}

	if err := a.userRepo.Save(ctx, user); err != nil {
		if errors.Is(err, utils.ErrEmailAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", utils.ErrDatabaseError, err)
	}
	return user, nil
}

func (a *AccountService) ChangePassword(ctx context.Context, userID uuid.UUID, request request_models.ChangePasswordRequest) error {
	user, err := a.GetProfile(ctx, userID)
	if err != nil {
		return err
	}
	if !user.HasPassword() {
		return utils.ErrPasswordNotSet
	}
	if err := utils.ComparePasswords(user.PasswordHash, request.CurrentPassword); err != nil {
		return utils.ErrInvalidCredentials
	}

	hashed, err := utils.HashPassword(request.NewPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	user.PasswordHash = hashed
	if err := a.userRepo.Save(ctx, user); err != nil {
		return fmt.Errorf("%w: %w", utils.ErrDatabaseError, err)
	}
	return nil
}

func (a *AccountService) GetUsage(ctx context.Context, userID uuid.UUID) (*response_models.UsageResponse, error) {
	user, err := a.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	usage := response_models.NewUsageResponse(user, a.now())
	return &usage, nil
}
