package db_models

import "github.com/google/uuid"

type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

// Message rows are append-only.
type Message struct {
	BaseModel
	ChatID     uuid.UUID   `gorm:"type:uuid;not null;index" json:"chat_id"`
	Role       MessageRole `gorm:"size:20;not null" json:"role"`
	Content    string      `gorm:"type:text;not null" json:"content"`
	TokensUsed int         `gorm:"not null;default:0" json:"tokens_used"`
	ModelUsed  string      `gorm:"size:100" json:"model_used,omitempty"`

	Chat Chat `gorm:"foreignKey:ChatID" json:"-"`
}
