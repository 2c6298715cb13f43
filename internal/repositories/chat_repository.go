package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"eezlegal/internal/models/db_models"
)

type ChatRepository interface {
	Create(ctx context.Context, chat *db_models.Chat) error
	FindByIDForUser(ctx context.Context, id, userID uuid.UUID) (*db_models.Chat, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]db_models.Chat, error)
	UpdateTitle(ctx context.Context, id uuid.UUID, title string) error
	Touch(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type chatRepository struct {
	db *gorm.DB
}

func NewChatRepository(db *gorm.DB) ChatRepository {
	return &chatRepository{db: db}
}

func (r *chatRepository) Create(ctx context.Context, chat *db_models.Chat) error {
	return r.db.WithContext(ctx).Create(chat).Error
}

// FindByIDForUser returns nil, nil when the chat is missing or owned by
// somebody else.
func (r *chatRepository) FindByIDForUser(ctx context.Context, id, userID uuid.UUID) (*db_models.Chat, error) {
	var chat db_models.Chat
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&chat).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &chat, nil
}

func (r *chatRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]db_models.Chat, error) {
	var chats []db_models.Chat
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		Order("id DESC").
		Find(&chats).Error
	return chats, err
}

func (r *chatRepository) UpdateTitle(ctx context.Context, id uuid.UUID, title string) error {
	return r.db.WithContext(ctx).
		Model(&db_models.Chat{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"title":      title,
			"updated_at": time.Now().UnixMilli(),
		}).Error
}

func (r *chatRepository) Touch(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&db_models.Chat{}).
		Where("id = ?", id).
		UpdateColumn("updated_at", time.Now().UnixMilli()).Error
}

// Delete soft-deletes the chat together with its messages.
func (r *chatRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("chat_id = ?", id).Delete(&db_models.Message{}).Error; err != nil {
			return err
		}
		return tx.Delete(&db_models.Chat{}, "id = ?", id).Error
	})
}
