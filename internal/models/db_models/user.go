package db_models

import "time"

const (
	OAuthProviderGoogle = "google"

	DefaultFreeMessageLimit = 10
)

// User holds either a password hash or an OAuth identity, never both.
type User struct {
	BaseModel
	Email        string  `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Name         string  `gorm:"size:100;not null" json:"name"`
	Picture      *string `gorm:"size:1024" json:"picture,omitempty"`
	PasswordHash string  `gorm:"size:255" json:"-"`

	OAuthProvider *string `gorm:"column:oauth_provider;size:50;uniqueIndex:idx_users_oauth_identity" json:"oauth_provider,omitempty"`
	OAuthSubject  *string `gorm:"column:oauth_subject;size:255;uniqueIndex:idx_users_oauth_identity" json:"-"`

	IsPremium             bool   `gorm:"not null;default:false" json:"is_premium"`
	SubscriptionExpiresAt *int64 `json:"subscription_expires_at,omitempty"`
	FreeMessagesUsed      int    `gorm:"not null;default:0" json:"free_messages_used"`
	FreeMessageLimit      int    `gorm:"not null;default:10" json:"free_message_limit"`

	Chats     []Chat     `json:"-"`
	Documents []Document `json:"-"`
	Payments  []Payment  `json:"-"`
}

func (u *User) HasPassword() bool {
	return u.PasswordHash != ""
}

func (u *User) HasOAuthIdentity() bool {
	return u.OAuthProvider != nil && u.OAuthSubject != nil
}

// HasActivePremium treats a premium flag with a lapsed expiry as free tier.
func (u *User) HasActivePremium(now time.Time) bool {
	if !u.IsPremium {
		return false
	}
	if u.SubscriptionExpiresAt == nil {
		return true
	}
	return *u.SubscriptionExpiresAt > now.UnixMilli()
}

func (u *User) CanSendMessage(now time.Time) bool {
	return u.HasActivePremium(now) || u.FreeMessagesUsed < u.FreeMessageLimit
}
