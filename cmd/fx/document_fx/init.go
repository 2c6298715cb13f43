package document_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	"eezlegal/internal/repositories"
	"eezlegal/internal/services"
)

var Module = fx.Provide(provideDocumentRepo, services.NewDocumentService)

func provideDocumentRepo(db *gorm.DB) repositories.DocumentRepository {
	return repositories.NewDocumentRepository(db)
}
