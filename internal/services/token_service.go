package services

import (
	"time"

	"eezlegal/internal/config"
	"eezlegal/internal/models/db_models"
	"eezlegal/pkg/utils"
)

type TokenServiceInterface interface {
	Issue(user *db_models.User) (token string, expiresAt time.Time, err error)
	Verify(token string) (*utils.Claims, error)
}

type TokenService struct {
	secret []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

func NewTokenService(cfg *config.Config) TokenServiceInterface {
	return NewTokenServiceWithClock([]byte(cfg.JWT.Secret), cfg.JWT.Expiry, cfg.JWT.Issuer, time.Now)
}

func NewTokenServiceWithClock(secret []byte, ttl time.Duration, issuer string, now func() time.Time) *TokenService {
	return &TokenService{secret: secret, ttl: ttl, issuer: issuer, now: now}
}

func (s *TokenService) Issue(user *db_models.User) (string, time.Time, error) {
	now := s.now()
	claims := utils.Claims{
		UserID: user.ID.String(),
		Email:  user.Email,
		Name:   user.Name,
	}
	if user.Picture != nil {
		claims.Picture = *user.Picture
	}
	claims.Issuer = s.issuer

	token, err := utils.CreateToken(s.secret, claims, now, s.ttl)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, now.Add(s.ttl), nil
}

func (s *TokenService) Verify(token string) (*utils.Claims, error) {
	return utils.ValidateToken(s.secret, token, s.now())
}
