package db_models

import "github.com/google/uuid"

const DefaultChatTitle = "New Chat"

type Chat struct {
	BaseModel
	UserID uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Title  string    `gorm:"size:255;not null" json:"title"`

	User     User      `gorm:"foreignKey:UserID" json:"-"`
	Messages []Message `json:"-"`
}
