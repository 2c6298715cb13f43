package db_models

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentSucceeded PaymentStatus = "succeeded"
	PaymentFailed    PaymentStatus = "failed"
)

type Payment struct {
	BaseModel
	UserID                uuid.UUID     `gorm:"type:uuid;not null;index"`
	StripePaymentIntentID string        `gorm:"size:255;not null;uniqueIndex"`
	AmountMinor           int64         `gorm:"not null"` // 2999 = $29.99
	Currency              string        `gorm:"size:3;not null"`
	Status                PaymentStatus `gorm:"size:40;not null;index"`
	SubscriptionType      string        `gorm:"size:20;not null"`
	CompletedAt           *int64

	// metadata sent to Stripe with the intent
	Metadata datatypes.JSONMap

	User User `gorm:"foreignKey:UserID"`
}
