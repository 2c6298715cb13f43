package services

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/getsentry/sentry-go"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"eezlegal/internal/config"
	"eezlegal/internal/models/db_models"
	"eezlegal/internal/models/request_models"
	"eezlegal/internal/models/response_models"
	"eezlegal/internal/repositories"
	"eezlegal/pkg/metrics"
	"eezlegal/pkg/utils"
)

const LegalSystemPrompt = `You are EezLegal AI, a professional and knowledgeable legal assistant. You provide helpful, accurate, and ethical legal guidance while maintaining the highest standards of professionalism.

**Your Role:**
- Provide clear, actionable legal information and guidance
- Help users understand legal concepts, procedures, and documents
- Offer practical advice for common legal situations
- Assist with legal research and document analysis

**Key Guidelines:**
- Be professional, empathetic, and supportive in your responses
- Use clear, plain language that non-lawyers can understand
- Provide comprehensive yet concise answers
- Always include relevant disclaimers about professional legal advice
- Focus on education and general guidance rather than specific legal advice
- Be helpful while maintaining ethical boundaries

**Important Disclaimers:**
- Always remind users that you provide legal information, not legal advice
- Recommend consulting with a licensed attorney for specific legal matters
- Clarify that you cannot replace professional legal counsel
- Emphasize the importance of professional legal representation when appropriate

**Response Style:**
- Be conversational yet professional
- Structure responses clearly with bullet points or sections when helpful
- Provide practical next steps when possible
- Show empathy for the user's legal concerns

Remember: You are an AI assistant providing legal information and guidance, not a licensed attorney providing legal advice.`

const FallbackReply = "I'm experiencing technical difficulties with my AI service. Please try again in a moment. I'm here to help with your legal questions as soon as possible."

const (
	titleMaxWords = 8
	titleMaxChars = 50
)

type ChatServiceInterface interface {
	// Send runs one conversation turn. A nil caller is anonymous: nothing is
	// stored and the reply carries the demo chat id.
	Send(ctx context.Context, caller *db_models.User, request request_models.ChatRequest) (*response_models.ChatReply, error)

	ListChats(ctx context.Context, userID uuid.UUID) ([]response_models.ChatSummary, error)
	GetChat(ctx context.Context, userID, chatID uuid.UUID) (*response_models.ChatDetail, error)
	CreateChat(ctx context.Context, userID uuid.UUID, title string) (*response_models.ChatSummary, error)
	RenameChat(ctx context.Context, userID, chatID uuid.UUID, title string) (*response_models.ChatSummary, error)
	DeleteChat(ctx context.Context, userID, chatID uuid.UUID) error
}

type ChatService struct {
	chats        repositories.ChatRepository
	messages     repositories.MessageRepository
	users        repositories.UserRepository
	llm          utils.LLMClientInterface
	historyLimit int
	timeout      time.Duration
	log          *zap.Logger
	now          func() time.Time
}

func NewChatService(
	chats repositories.ChatRepository,
	messages repositories.MessageRepository,
	users repositories.UserRepository,
	llm utils.LLMClientInterface,
	cfg *config.Config,
	log *zap.Logger,
) ChatServiceInterface {
	return &ChatService{
		chats:        chats,
		messages:     messages,
		users:        users,
		llm:          llm,
		historyLimit: cfg.Chat.HistoryLimit,
		timeout:      cfg.LLM.Timeout,
		log:          log,
		now:          time.Now,
	}
}

func (s *ChatService) Send(ctx context.Context, caller *db_models.User, request request_models.ChatRequest) (*response_models.ChatReply, error) {
	text := strings.TrimSpace(request.Message)
	if text == "" {
		return nil, utils.ErrInvalidInput
	}
	if request.ChatID == response_models.DemoChatID {
		request.ChatID = ""
	}

	if caller == nil {
		if request.ChatID != "" {
			return nil, utils.ErrAuthRequired
		}
		reply, status := s.complete(ctx, "", nil, text)
		return &response_models.ChatReply{
			Response: reply.Content,
			ChatID:   response_models.DemoChatID,
			Status:   status,
		}, nil
	}

	if !caller.CanSendMessage(s.now()) {
		return nil, utils.ErrMessageLimitReached
	}

	chat, err := s.resolveChat(ctx, caller.ID, request.ChatID)
	if err != nil {
		return nil, err
	}

	history, err := s.messages.RecentByChat(ctx, chat.ID, s.historyLimit)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", utils.ErrDatabaseError, err)
	}
	firstTurn := len(history) == 0
	if s.historyLimit <= 0 {
		n, err := s.messages.CountByChat(ctx, chat.ID)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", utils.ErrDatabaseError, err)
		}
		firstTurn = n == 0
	}

	userMsg := &db_models.Message{ChatID: chat.ID, Role: db_models.RoleUser, Content: text}
	if err := s.messages.Create(ctx, userMsg); err != nil {
		return nil, fmt.Errorf("%w: %w", utils.ErrDatabaseError, err)
	}

	reply, status := s.complete(ctx, caller.Name, history, text)

	assistantMsg := &db_models.Message{
		ChatID:     chat.ID,
		Role:       db_models.RoleAssistant,
		Content:    reply.Content,
		TokensUsed: reply.TokensUsed,
		ModelUsed:  reply.Model,
	}
	if err := s.messages.Create(ctx, assistantMsg); err != nil {
		return nil, fmt.Errorf("%w: %w", utils.ErrDatabaseError, err)
	}

	if firstTurn {
		err = s.chats.UpdateTitle(ctx, chat.ID, DeriveTitle(text))
	} else {
		err = s.chats.Touch(ctx, chat.ID)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", utils.ErrDatabaseError, err)
	}

	if !caller.HasActivePremium(s.now()) {
		if err := s.users.IncrementFreeMessages(ctx, caller.ID); err != nil {
			return nil, fmt.Errorf("%w: %w", utils.ErrDatabaseError, err)
		}
	}

	return &response_models.ChatReply{
		Response: reply.Content,
		ChatID:   chat.ID.String(),
		Status:   status,
	}, nil
}

func (s *ChatService) resolveChat(ctx context.Context, userID uuid.UUID, rawID string) (*db_models.Chat, error) {
	if rawID == "" {
		chat := &db_models.Chat{UserID: userID, Title: db_models.DefaultChatTitle}
		if err := s.chats.Create(ctx, chat); err != nil {
			return nil, fmt.Errorf("%w: %w", utils.ErrDatabaseError, err)
		}
		return chat, nil
	}

	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil, utils.ErrChatNotFound
	}
	return s.ownedChat(ctx, userID, id)
}

func (s *ChatService) ownedChat(ctx context.Context, userID, chatID uuid.UUID) (*db_models.Chat, error) {
	chat, err := s.chats.FindByIDForUser(ctx, chatID, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", utils.ErrDatabaseError, err)
	}
	if chat == nil {
		return nil, utils.ErrChatNotFound
	}
	return chat, nil
}

// complete never fails: provider errors turn into the fallback reply.
func (s *ChatService) complete(ctx context.Context, userName string, history []db_models.Message, text string) (*utils.Completion, string) {
	msgs := make([]utils.ChatMessage, 0, len(history)+1)
	for _, m := range history {
		msgs = append(msgs, utils.ChatMessage{Role: string(m.Role), Content: m.Content})
	}
	msgs = append(msgs, utils.ChatMessage{Role: utils.RoleUser, Content: text})

	callCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	out, err := s.llm.Complete(callCtx, utils.CompletionRequest{
		System:           LegalSystemPrompt,
		Messages:         msgs,
		MaxTokens:        1500,
		Temperature:      0.7,
		TopP:             0.9,
		FrequencyPenalty: 0.1,
		PresencePenalty:  0.1,
		UserName:         userName,
	})
	if err != nil || out == nil || strings.TrimSpace(out.Content) == "" {
		s.log.Error("llm call failed, using fallback reply", zap.Error(err))
		if err != nil {
			sentry.CaptureException(err)
		}
		metrics.LLMRequests.WithLabelValues(metrics.PurposeChat, metrics.OutcomeFallback).Inc()
		return &utils.Completion{Content: FallbackReply, Model: utils.FallbackModel}, response_models.ChatStatusFallback
	}

	metrics.LLMRequests.WithLabelValues(metrics.PurposeChat, metrics.OutcomeSuccess).Inc()
	metrics.LLMTokens.Add(float64(out.TokensUsed))
	s.log.Debug("llm reply", zap.String("model", out.Model), zap.Int("tokens", out.TokensUsed))
	return out, response_models.ChatStatusSuccess
}

// DeriveTitle takes the first words of a message, capped at titleMaxChars
// runes, with "..." appended whenever anything was cut.
func DeriveTitle(message string) string {
	words := strings.Fields(message)
	if len(words) == 0 {
		return db_models.DefaultChatTitle
	}

	cut := len(words) > titleMaxWords
	if cut {
		words = words[:titleMaxWords]
	}
	title := strings.Join(words, " ")

	if utf8.RuneCountInString(title) > titleMaxChars {
		title = strings.TrimSpace(string([]rune(title)[:titleMaxChars]))
		cut = true
	}
	if cut {
		title += "..."
	}
	return title
}

func (s *ChatService) ListChats(ctx context.Context, userID uuid.UUID) ([]response_models.ChatSummary, error) {
	chats, err := s.chats.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", utils.ErrDatabaseError, err)
	}

	out := make([]response_models.ChatSummary, 0, len(chats))
	for i := range chats {
		out = append(out, response_models.NewChatSummary(&chats[i]))
	}
	return out, nil
}

func (s *ChatService) GetChat(ctx context.Context, userID, chatID uuid.UUID) (*response_models.ChatDetail, error) {
	chat, err := s.ownedChat(ctx, userID, chatID)
	if err != nil {
		return nil, err
	}

	msgs, err := s.messages.ListByChat(ctx, chat.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", utils.ErrDatabaseError, err)
	}

	detail := &response_models.ChatDetail{
		Chat:     response_models.NewChatSummary(chat),
		Messages: make([]response_models.MessageResponse, 0, len(msgs)),
	}
	for i := range msgs {
		detail.Messages = append(detail.Messages, response_models.NewMessageResponse(&msgs[i]))
	}
	return detail, nil
}

func (s *ChatService) CreateChat(ctx context.Context, userID uuid.UUID, title string) (*response_models.ChatSummary, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		title = db_models.DefaultChatTitle
	}

	chat := &db_models.Chat{UserID: userID, Title: title}
	if err := s.chats.Create(ctx, chat); err != nil {
		return nil, fmt.Errorf("%w: %w", utils.ErrDatabaseError, err)
	}
	summary := response_models.NewChatSummary(chat)
	return &summary, nil
}

func (s *ChatService) RenameChat(ctx context.Context, userID, chatID uuid.UUID, title string) (*response_models.ChatSummary, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, utils.ErrInvalidInput
	}

	if _, err := s.ownedChat(ctx, userID, chatID); err != nil {
		return nil, err
	}
	if err := s.chats.UpdateTitle(ctx, chatID, title); err != nil {
		return nil, fmt.Errorf("%w: %w", utils.ErrDatabaseError, err)
	}

	chat, err := s.ownedChat(ctx, userID, chatID)
	if err != nil {
		return nil, err
	}
	summary := response_models.NewChatSummary(chat)
	return &summary, nil
}

func (s *ChatService) DeleteChat(ctx context.Context, userID, chatID uuid.UUID) error {
	if _, err := s.ownedChat(ctx, userID, chatID); err != nil {
		return err
	}
	if err := s.chats.Delete(ctx, chatID); err != nil {
		return fmt.Errorf("%w: %w", utils.ErrDatabaseError, err)
	}
	return nil
}
