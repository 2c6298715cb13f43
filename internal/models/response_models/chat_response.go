package response_models

import "eezlegal/internal/models/db_models"

const (
	ChatStatusSuccess  = "success"
	ChatStatusFallback = "fallback"

	// DemoChatID is returned to anonymous callers, whose turns are not stored.
	DemoChatID = "demo"
)

type ChatReply struct {
	Response string `json:"response"`
	ChatID   string `json:"chat_id"`
	Status   string `json:"status"`
}

type ChatSummary struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	CreatedAt int64  `json:"created_at"`
	UpdatedAt int64  `json:"updated_at"`
}

type MessageResponse struct {
	ID         string `json:"id"`
	Role       string `json:"role"`
	Content    string `json:"content"`
	TokensUsed int    `json:"tokens_used,omitempty"`
	ModelUsed  string `json:"model_used,omitempty"`
	CreatedAt  int64  `json:"created_at"`
}

type ChatDetail struct {
	Chat     ChatSummary       `json:"chat"`
	Messages []MessageResponse `json:"messages"`
}

func NewChatSummary(c *db_models.Chat) ChatSummary {
	return ChatSummary{
		ID:        c.ID.String(),
		Title:     c.Title,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func NewMessageResponse(m *db_models.Message) MessageResponse {
	return MessageResponse{
		ID:         m.ID.String(),
		Role:       string(m.Role),
		Content:    m.Content,
		TokensUsed: m.TokensUsed,
		ModelUsed:  m.ModelUsed,
		CreatedAt:  m.CreatedAt,
	}
}
