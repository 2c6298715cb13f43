package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"eezlegal/internal/models/db_models"
	"eezlegal/internal/models/request_models"
	"eezlegal/internal/models/response_models"
	"eezlegal/internal/repositories"
	"eezlegal/pkg/utils"
)

type chatFixture struct {
	svc      *ChatService
	llm      *mockLLM
	users    repositories.UserRepository
	chats    repositories.ChatRepository
	messages repositories.MessageRepository
}

func newChatFixture(t *testing.T) *chatFixture {
	t.Helper()
	db := newTestDB(t)
	f := &chatFixture{
		llm:      new(mockLLM),
		users:    repositories.NewUserRepository(db),
		chats:    repositories.NewChatRepository(db),
		messages: repositories.NewMessageRepository(db),
	}
	f.svc = NewChatService(f.chats, f.messages, f.users, f.llm, testConfig(t), zap.NewNop()).(*ChatService)
	return f
}

func (f *chatFixture) reload(t *testing.T, id uuid.UUID) *db_models.User {
	t.Helper()
	u, err := f.users.FindByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, u)
	return u
}

func reply(content string) *utils.Completion {
	return &utils.Completion{Content: content, Model: "gpt-4o-mini", TokensUsed: 42}
}

func TestSendAnonymousUsesDemoChat(t *testing.T) {
	f := newChatFixture(t)
	f.llm.On("Complete", mock.Anything, mock.MatchedBy(func(r utils.CompletionRequest) bool {
		return r.System == LegalSystemPrompt && len(r.Messages) == 1 && r.Messages[0].Content == "What is a tort?"
	})).Return(reply("A tort is a civil wrong."), nil).Once()

	out, err := f.svc.Send(context.Background(), nil, request_models.ChatRequest{Message: "  What is a tort?  "})
	require.NoError(t, err)
	assert.Equal(t, response_models.DemoChatID, out.ChatID)
	assert.Equal(t, response_models.ChatStatusSuccess, out.Status)
	assert.Equal(t, "A tort is a civil wrong.", out.Response)
	f.llm.AssertExpectations(t)
}

func TestSendAnonymousWithChatIDNeedsAuth(t *testing.T) {
	f := newChatFixture(t)
	_, err := f.svc.Send(context.Background(), nil, request_models.ChatRequest{Message: "hi", ChatID: uuid.NewString()})
	assert.ErrorIs(t, err, utils.ErrAuthRequired)
	f.llm.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
}

func TestSendTreatsDemoChatIDAsNoChat(t *testing.T) {
	ctx := context.Background()
	f := newChatFixture(t)
	f.llm.On("Complete", mock.Anything, mock.Anything).Return(reply("Yes."), nil).Twice()

	out, err := f.svc.Send(ctx, nil, request_models.ChatRequest{Message: "again", ChatID: response_models.DemoChatID})
	require.NoError(t, err)
	assert.Equal(t, response_models.DemoChatID, out.ChatID)

	user := createTestUser(t, f.users, "demo@example.com")
	out, err = f.svc.Send(ctx, user, request_models.ChatRequest{Message: "now signed in", ChatID: response_models.DemoChatID})
	require.NoError(t, err)
	chatID, err := uuid.Parse(out.ChatID)
	require.NoError(t, err)
	_, err = f.svc.GetChat(ctx, user.ID, chatID)
	assert.NoError(t, err)
	f.llm.AssertExpectations(t)
}

func TestSendRejectsBlankMessage(t *testing.T) {
	f := newChatFixture(t)
	_, err := f.svc.Send(context.Background(), nil, request_models.ChatRequest{Message: "   "})
	assert.ErrorIs(t, err, utils.ErrInvalidInput)
}

func TestSendNewChatPersistsTurn(t *testing.T) {
	ctx := context.Background()
	f := newChatFixture(t)
	user := createTestUser(t, f.users, "chat@example.com")
	f.llm.On("Complete", mock.Anything, mock.Anything).Return(reply("You may have a claim."), nil).Once()

	out, err := f.svc.Send(ctx, user, request_models.ChatRequest{Message: "My landlord kept my deposit without any reason at all"})
	require.NoError(t, err)
	assert.Equal(t, response_models.ChatStatusSuccess, out.Status)

	chatID, err := uuid.Parse(out.ChatID)
	require.NoError(t, err)
	detail, err := f.svc.GetChat(ctx, user.ID, chatID)
	require.NoError(t, err)
	assert.Equal(t, "My landlord kept my deposit without any reason...", detail.Chat.Title)
	require.Len(t, detail.Messages, 2)
	assert.Equal(t, "user", detail.Messages[0].Role)
	assert.Equal(t, "assistant", detail.Messages[1].Role)
	assert.Equal(t, 42, detail.Messages[1].TokensUsed)
	assert.Equal(t, "gpt-4o-mini", detail.Messages[1].ModelUsed)

	assert.Equal(t, 1, f.reload(t, user.ID).FreeMessagesUsed)
}

func TestSendKeepsTitleOnLaterTurns(t *testing.T) {
	ctx := context.Background()
	f := newChatFixture(t)
	user := createTestUser(t, f.users, "title@example.com")
	f.llm.On("Complete", mock.Anything, mock.Anything).Return(reply("ok"), nil)

	first, err := f.svc.Send(ctx, user, request_models.ChatRequest{Message: "Lease question"})
	require.NoError(t, err)
	_, err = f.svc.Send(ctx, user, request_models.ChatRequest{Message: "Another thing entirely", ChatID: first.ChatID})
	require.NoError(t, err)

	detail, err := f.svc.GetChat(ctx, user.ID, uuid.MustParse(first.ChatID))
	require.NoError(t, err)
	assert.Equal(t, "Lease question", detail.Chat.Title)
	assert.Len(t, detail.Messages, 4)
}

func TestSendHistoryIsCapped(t *testing.T) {
	ctx := context.Background()
	f := newChatFixture(t)
	user := createTestUser(t, f.users, "history@example.com")
	user.IsPremium = true
	require.NoError(t, f.users.Save(ctx, user))

	chat := &db_models.Chat{UserID: user.ID, Title: "Old"}
	require.NoError(t, f.chats.Create(ctx, chat))
	for i := 0; i < 12; i++ {
		role := db_models.RoleUser
		if i%2 == 1 {
			role = db_models.RoleAssistant
		}
		require.NoError(t, f.messages.Create(ctx, &db_models.Message{ChatID: chat.ID, Role: role, Content: fmt.Sprintf("m%d", i)}))
	}

	f.llm.On("Complete", mock.Anything, mock.MatchedBy(func(r utils.CompletionRequest) bool {
		// 8 history messages plus the new one, oldest first
		return len(r.Messages) == 9 &&
			r.Messages[0].Content == "m4" &&
			r.Messages[7].Content == "m11" &&
			r.Messages[8].Content == "latest" &&
			r.UserName == user.Name
	})).Return(reply("ok"), nil).Once()

	_, err := f.svc.Send(ctx, user, request_models.ChatRequest{Message: "latest", ChatID: chat.ID.String()})
	require.NoError(t, err)
	f.llm.AssertExpectations(t)
}

func TestSendFallbackIsPersisted(t *testing.T) {
	ctx := context.Background()
	f := newChatFixture(t)
	user := createTestUser(t, f.users, "fallback@example.com")
	f.llm.On("Complete", mock.Anything, mock.Anything).Return(nil, errors.New("provider down")).Once()

	out, err := f.svc.Send(ctx, user, request_models.ChatRequest{Message: "Hello"})
	require.NoError(t, err)
	assert.Equal(t, response_models.ChatStatusFallback, out.Status)
	assert.Equal(t, FallbackReply, out.Response)

	detail, err := f.svc.GetChat(ctx, user.ID, uuid.MustParse(out.ChatID))
	require.NoError(t, err)
	require.Len(t, detail.Messages, 2)
	assert.Equal(t, utils.FallbackModel, detail.Messages[1].ModelUsed)
	assert.Equal(t, 1, f.reload(t, user.ID).FreeMessagesUsed)
}

func TestSendForeignChatIsNotFound(t *testing.T) {
	ctx := context.Background()
	f := newChatFixture(t)
	owner := createTestUser(t, f.users, "owner@example.com")
	other := createTestUser(t, f.users, "other@example.com")

	chat := &db_models.Chat{UserID: owner.ID, Title: "Private"}
	require.NoError(t, f.chats.Create(ctx, chat))

	_, err := f.svc.Send(ctx, other, request_models.ChatRequest{Message: "hi", ChatID: chat.ID.String()})
	assert.ErrorIs(t, err, utils.ErrChatNotFound)

	_, err = f.svc.Send(ctx, other, request_models.ChatRequest{Message: "hi", ChatID: "not-a-uuid"})
	assert.ErrorIs(t, err, utils.ErrChatNotFound)
	f.llm.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
}

func TestSendFreeTierLimit(t *testing.T) {
	ctx := context.Background()
	f := newChatFixture(t)
	user := createTestUser(t, f.users, "limit@example.com")
	user.FreeMessagesUsed = user.FreeMessageLimit
	require.NoError(t, f.users.Save(ctx, user))

	_, err := f.svc.Send(ctx, user, request_models.ChatRequest{Message: "one more"})
	assert.ErrorIs(t, err, utils.ErrMessageLimitReached)

	chats, err := f.svc.ListChats(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, chats)
}

func TestSendPremiumIsNotMetered(t *testing.T) {
	ctx := context.Background()
	f := newChatFixture(t)
	user := createTestUser(t, f.users, "premium@example.com")
	expires := time.Now().Add(24 * time.Hour).UnixMilli()
	user.IsPremium = true
	user.SubscriptionExpiresAt = &expires
	user.FreeMessagesUsed = user.FreeMessageLimit
	require.NoError(t, f.users.Save(ctx, user))
	f.llm.On("Complete", mock.Anything, mock.Anything).Return(reply("ok"), nil).Once()

	_, err := f.svc.Send(ctx, user, request_models.ChatRequest{Message: "unlimited"})
	require.NoError(t, err)
	assert.Equal(t, user.FreeMessageLimit, f.reload(t, user.ID).FreeMessagesUsed)
}

func TestSendLapsedPremiumIsFreeTier(t *testing.T) {
	ctx := context.Background()
	f := newChatFixture(t)
	user := createTestUser(t, f.users, "lapsed@example.com")
	expired := time.Now().Add(-time.Hour).UnixMilli()
	user.IsPremium = true
	user.SubscriptionExpiresAt = &expired
	user.FreeMessagesUsed = user.FreeMessageLimit
	require.NoError(t, f.users.Save(ctx, user))

	_, err := f.svc.Send(ctx, user, request_models.ChatRequest{Message: "still there?"})
	assert.ErrorIs(t, err, utils.ErrMessageLimitReached)
}

func TestDeriveTitle(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"short", "Can I break my lease?", "Can I break my lease?"},
		{"collapses whitespace", "  tenant \n rights  ", "tenant rights"},
		{"eight words kept", "one two three four five six seven eight", "one two three four five six seven eight"},
		{"ninth word cut", "one two three four five six seven eight nine", "one two three four five six seven eight..."},
		{"long words capped", "Supercalifragilistic expialidocious antidisestablishmentarianism floccinaucinihilipilification",
			"Supercalifragilistic expialidocious antidisestabli..."},
		{"blank", "   ", db_models.DefaultChatTitle},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveTitle(tt.in))
		})
	}
}

func TestChatCRUD(t *testing.T) {
	ctx := context.Background()
	f := newChatFixture(t)
	user := createTestUser(t, f.users, "crud@example.com")
	other := createTestUser(t, f.users, "intruder@example.com")

	created, err := f.svc.CreateChat(ctx, user.ID, "  ")
	require.NoError(t, err)
	assert.Equal(t, db_models.DefaultChatTitle, created.Title)
	id := uuid.MustParse(created.ID)

	renamed, err := f.svc.RenameChat(ctx, user.ID, id, "Employment contract")
	require.NoError(t, err)
	assert.Equal(t, "Employment contract", renamed.Title)

	_, err = f.svc.RenameChat(ctx, user.ID, id, " ")
	assert.ErrorIs(t, err, utils.ErrInvalidInput)
	_, err = f.svc.RenameChat(ctx, other.ID, id, "mine now")
	assert.ErrorIs(t, err, utils.ErrChatNotFound)
	_, err = f.svc.GetChat(ctx, other.ID, id)
	assert.ErrorIs(t, err, utils.ErrChatNotFound)
	assert.ErrorIs(t, f.svc.DeleteChat(ctx, other.ID, id), utils.ErrChatNotFound)

	list, err := f.svc.ListChats(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, f.svc.DeleteChat(ctx, user.ID, id))
	_, err = f.svc.GetChat(ctx, user.ID, id)
	assert.ErrorIs(t, err, utils.ErrChatNotFound)
}
