package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"eezlegal/internal/models/db_models"
)

type PaymentRepository interface {
	Create(ctx context.Context, p *db_models.Payment) error
	FindByIntentID(ctx context.Context, intentID string) (*db_models.Payment, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status db_models.PaymentStatus) error

	// CompleteAndActivate marks the payment succeeded and grants premium to
	// its user until expiresAt in one transaction. applied is false when
	// the payment had already succeeded, in which case nothing changes.
	CompleteAndActivate(ctx context.Context, paymentID uuid.UUID, expiresAt, now int64) (user *db_models.User, applied bool, err error)
}

type paymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) Create(ctx context.Context, p *db_models.Payment) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *paymentRepository) FindByIntentID(ctx context.Context, intentID string) (*db_models.Payment, error) {
	var p db_models.Payment
	err := r.db.WithContext(ctx).First(&p, "stripe_payment_intent_id = ?", intentID).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *paymentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status db_models.PaymentStatus) error {
	return r.db.WithContext(ctx).
		Model(&db_models.Payment{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *paymentRepository) CompleteAndActivate(ctx context.Context, paymentID uuid.UUID, expiresAt, now int64) (*db_models.User, bool, error) {
	var (
		user    db_models.User
		applied bool
	)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var p db_models.Payment
		if err := tx.First(&p, "id = ?", paymentID).Error; err != nil {
			return fmt.Errorf("load payment: %w", err)
		}

		// the status guard makes concurrent confirm/webhook calls apply once
		res := tx.Model(&db_models.Payment{}).
			Where("id = ? AND status <> ?", paymentID, db_models.PaymentSucceeded).
			Updates(map[string]interface{}{
				"status":       db_models.PaymentSucceeded,
				"completed_at": now,
			})
		if res.Error != nil {
			return fmt.Errorf("complete payment: %w", res.Error)
		}
		applied = res.RowsAffected == 1

		if applied {
			err := tx.Model(&db_models.User{}).
				Where("id = ?", p.UserID).
				Updates(map[string]interface{}{
					"is_premium":              true,
					"subscription_expires_at": expiresAt,
					"free_messages_used":      0,
				}).Error
			if err != nil {
				return fmt.Errorf("activate subscription: %w", err)
			}
		}

		return tx.First(&user, "id = ?", p.UserID).Error
	})
	if err != nil {
		return nil, false, err
	}
	return &user, applied, nil
}
