package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"eezlegal/internal/models/db_models"
)

type DocumentRepository interface {
	Create(ctx context.Context, doc *db_models.Document) error
	FindByIDForUser(ctx context.Context, id, userID uuid.UUID) (*db_models.Document, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]db_models.Document, error)
	Save(ctx context.Context, doc *db_models.Document) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type documentRepository struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) DocumentRepository {
	return &documentRepository{db: db}
}

func (r *documentRepository) Create(ctx context.Context, doc *db_models.Document) error {
	return r.db.WithContext(ctx).Create(doc).Error
}

func (r *documentRepository) FindByIDForUser(ctx context.Context, id, userID uuid.UUID) (*db_models.Document, error) {
	var doc db_models.Document
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&doc).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &doc, nil
}

func (r *documentRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]db_models.Document, error) {
	var docs []db_models.Document
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&docs).Error
	return docs, err
}

func (r *documentRepository) Save(ctx context.Context, doc *db_models.Document) error {
	return r.db.WithContext(ctx).Save(doc).Error
}

// Delete removes the row for good; the caller owns the backing file.
func (r *documentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Unscoped().Delete(&db_models.Document{}, "id = ?", id).Error
}
