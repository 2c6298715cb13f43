package repositories

import (
	"context"
	"slices"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"eezlegal/internal/models/db_models"
)

type MessageRepository interface {
	Create(ctx context.Context, msg *db_models.Message) error
	ListByChat(ctx context.Context, chatID uuid.UUID) ([]db_models.Message, error)
	RecentByChat(ctx context.Context, chatID uuid.UUID, limit int) ([]db_models.Message, error)
	CountByChat(ctx context.Context, chatID uuid.UUID) (int64, error)
}

type messageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Create(ctx context.Context, msg *db_models.Message) error {
	return r.db.WithContext(ctx).Create(msg).Error
}

// ListByChat returns messages oldest first.
func (r *messageRepository) ListByChat(ctx context.Context, chatID uuid.UUID) ([]db_models.Message, error) {
	var msgs []db_models.Message
	err := r.db.WithContext(ctx).
		Where("chat_id = ?", chatID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&msgs).Error
	return msgs, err
}

// RecentByChat returns the newest limit messages, oldest first.
func (r *messageRepository) RecentByChat(ctx context.Context, chatID uuid.UUID, limit int) ([]db_models.Message, error) {
	if limit <= 0 {
		return nil, nil
	}

	var msgs []db_models.Message
	err := r.db.WithContext(ctx).
		Where("chat_id = ?", chatID).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&msgs).Error
	if err != nil {
		return nil, err
	}
	slices.Reverse(msgs)
	return msgs, nil
}

func (r *messageRepository) CountByChat(ctx context.Context, chatID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&db_models.Message{}).
		Where("chat_id = ?", chatID).
		Count(&n).Error
	return n, err
}
