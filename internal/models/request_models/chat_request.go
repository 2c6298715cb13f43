package request_models

// ChatRequest.ChatID is a chat uuid, or "demo" as echoed back from an anonymous
// reply, which means no chat.
type ChatRequest struct {
	Message string `json:"message" binding:"required"`
	ChatID  string `json:"chat_id" binding:"omitempty,uuid|eq=demo"`
}

type CreateChatRequest struct {
	Title string `json:"title" binding:"max=255"`
}

type RenameChatRequest struct {
	Title string `json:"title" binding:"required,max=255"`
}
