package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"eezlegal/internal/models/request_models"
	"eezlegal/internal/services"
	"eezlegal/pkg/middleware"
	"eezlegal/pkg/utils"
)

var chatRequestFields = map[string]string{
	"Message": "Message is required",
	"ChatID":  "Invalid chat id",
}

type ChatController struct {
	chatService services.ChatServiceInterface
	log         *zap.Logger
}

func NewChatController(chatService services.ChatServiceInterface, log *zap.Logger) *ChatController {
	return &ChatController{
		chatService: chatService,
		log:         log,
	}
}

// Chat godoc
// @Summary Send a message to the legal assistant
// @Description Anonymous callers get a one-off reply with chat_id "demo"; signed-in callers have the turn stored
// @Tags Chat
// @Accept json
// @Produce json
// @Param request body request_models.ChatRequest true "Message"
// @Success 200 {object} utils.APIResponse
// @Failure 401 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /api/chat [post]
func (h *ChatController) Chat(c *gin.Context) {
	var req request_models.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, bindMessage(err, "Invalid request body", chatRequestFields))
		return
	}

	user, _ := middleware.CurrentUser(c)
	reply, err := h.chatService.Send(c.Request.Context(), user, req)
	if err != nil {
		utils.HandleServiceError(c, h.log, err)
		return
	}

	utils.RespondSuccess(c, reply, "")
}

// ListChats godoc
// @Summary List chat sessions, most recently active first
// @Tags Chat
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /api/chats [get]
func (h *ChatController) ListChats(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}

	chats, err := h.chatService.ListChats(c.Request.Context(), user.ID)
	if err != nil {
		utils.HandleServiceError(c, h.log, err)
		return
	}

	utils.RespondSuccess(c, chats, "Chats fetched successfully")
}

func (h *ChatController) CreateChat(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}

	var req request_models.CreateChatRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
			return
		}
	}

	chat, err := h.chatService.CreateChat(c.Request.Context(), user.ID, req.Title)
	if err != nil {
		utils.HandleServiceError(c, h.log, err)
		return
	}

	utils.RespondCreated(c, chat, "Chat created successfully")
}

func (h *ChatController) GetChat(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "Chat not found")
	if !ok {
		return
	}

	chat, err := h.chatService.GetChat(c.Request.Context(), user.ID, id)
	if err != nil {
		utils.HandleServiceError(c, h.log, err)
		return
	}

	utils.RespondSuccess(c, chat, "Chat fetched successfully")
}

func (h *ChatController) RenameChat(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "Chat not found")
	if !ok {
		return
	}

	var req request_models.RenameChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Title is required")
		return
	}

	chat, err := h.chatService.RenameChat(c.Request.Context(), user.ID, id, req.Title)
	if err != nil {
		utils.HandleServiceError(c, h.log, err)
		return
	}

	utils.RespondSuccess(c, chat, "Chat renamed successfully")
}

func (h *ChatController) DeleteChat(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "Chat not found")
	if !ok {
		return
	}

	if err := h.chatService.DeleteChat(c.Request.Context(), user.ID, id); err != nil {
		utils.HandleServiceError(c, h.log, err)
		return
	}

	utils.RespondSuccess(c, nil, "Chat deleted successfully")
}
