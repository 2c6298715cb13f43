package chat_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	"eezlegal/internal/repositories"
	"eezlegal/internal/services"
)

var Module = fx.Provide(
	provideChatRepo,
	provideMessageRepo,
	services.NewChatService,
)

func provideChatRepo(db *gorm.DB) repositories.ChatRepository {
	return repositories.NewChatRepository(db)
}

func provideMessageRepo(db *gorm.DB) repositories.MessageRepository {
	return repositories.NewMessageRepository(db)
}
