package response_models

import (
	"time"

	"eezlegal/internal/models/db_models"
)

type AccountLoginResponse struct {
	Token     string          `json:"token"`
	ExpiresAt int64           `json:"expires_at"`
	User      AccountResponse `json:"user"`
}

type AccountResponse struct {
	ID                    string  `json:"id"`
	Name                  string  `json:"name"`
	Email                 string  `json:"email"`
	Picture               *string `json:"picture,omitempty"`
	OAuthProvider         *string `json:"oauth_provider,omitempty"`
	IsPremium             bool    `json:"is_premium"`
	SubscriptionExpiresAt *int64  `json:"subscription_expires_at,omitempty"`
	CreatedAt             int64   `json:"created_at"`
	UpdatedAt             int64   `json:"updated_at"`
}

type UsageResponse struct {
	FreeMessagesUsed      int    `json:"free_messages_used"`
	FreeMessageLimit      int    `json:"free_message_limit"`
	IsPremium             bool   `json:"is_premium"`
	CanSendMessage        bool   `json:"can_send_message"`
	SubscriptionExpiresAt *int64 `json:"subscription_expires_at,omitempty"`
}

func NewAccountResponse(u *db_models.User) AccountResponse {
	return AccountResponse{
		ID:                    u.ID.String(),
		Name:                  u.Name,
		Email:                 u.Email,
		Picture:               u.Picture,
		OAuthProvider:         u.OAuthProvider,
		IsPremium:             u.HasActivePremium(time.Now()),
		SubscriptionExpiresAt: u.SubscriptionExpiresAt,
		CreatedAt:             u.CreatedAt,
		UpdatedAt:             u.UpdatedAt,
	}
}

func NewUsageResponse(u *db_models.User, now time.Time) UsageResponse {
	return UsageResponse{
		FreeMessagesUsed:      u.FreeMessagesUsed,
		FreeMessageLimit:      u.FreeMessageLimit,
		IsPremium:             u.HasActivePremium(now),
		CanSendMessage:        u.CanSendMessage(now),
		SubscriptionExpiresAt: u.SubscriptionExpiresAt,
	}
}
