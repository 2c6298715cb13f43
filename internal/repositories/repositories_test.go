package repositories

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"eezlegal/internal/config"
	"eezlegal/internal/infra"
	"eezlegal/internal/models/db_models"
	"eezlegal/pkg/utils"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	// unique in-memory database per test
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := infra.OpenDatabase(config.Database{URL: "file:" + name + "?mode=memory&cache=shared"}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { infra.CloseDatabase(db, zap.NewNop()) })
	return db
}

func createUser(t *testing.T, repo UserRepository, email string) *db_models.User {
	t.Helper()
	u := &db_models.User{Email: email, Name: "Test", FreeMessageLimit: 10}
	require.NoError(t, repo.Create(context.Background(), u))
	return u
}

func strPtr(s string) *string { return &s }

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(newTestDB(t))

	u := createUser(t, repo, "ann@example.com")

	got, err := repo.FindByEmail(ctx, "ann@example.com")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, 10, got.FreeMessageLimit)

	missing, err := repo.FindByID(ctx, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, missing)

	err = repo.Create(ctx, &db_models.User{Email: "ann@example.com", Name: "Dup"})
	assert.ErrorIs(t, err, utils.ErrEmailAlreadyExists)

	got.OAuthProvider = strPtr(db_models.OAuthProviderGoogle)
	got.OAuthSubject = strPtr("sub-1")
	require.NoError(t, repo.Save(ctx, got))

	byIdentity, err := repo.FindByOAuthIdentity(ctx, db_models.OAuthProviderGoogle, "sub-1")
	require.NoError(t, err)
	require.NotNil(t, byIdentity)
	assert.Equal(t, u.ID, byIdentity.ID)
}

func TestIncrementFreeMessagesConcurrent(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(newTestDB(t))
	u := createUser(t, repo, "c@example.com")

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, repo.IncrementFreeMessages(ctx, u.ID))
		}()
	}
	wg.Wait()

	got, err := repo.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, got.FreeMessagesUsed)
}

func TestChatRepositoryOwnershipAndOrdering(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	users := NewUserRepository(db)
	chats := NewChatRepository(db)

	owner := createUser(t, users, "owner@example.com")
	other := createUser(t, users, "other@example.com")

	first := &db_models.Chat{UserID: owner.ID, Title: "first"}
	require.NoError(t, chats.Create(ctx, first))
	second := &db_models.Chat{UserID: owner.ID, Title: "second"}
	require.NoError(t, chats.Create(ctx, second))

	got, err := chats.FindByIDForUser(ctx, first.ID, other.ID)
	require.NoError(t, err)
	assert.Nil(t, got, "other users must not see the chat")

	time.Sleep(2 * time.Millisecond)
	require.NoError(t, chats.Touch(ctx, first.ID))

	list, err := chats.ListByUser(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, first.ID, list[0].ID, "most recently touched first")

	require.NoError(t, chats.UpdateTitle(ctx, second.ID, "renamed"))
	got, err = chats.FindByIDForUser(ctx, second.ID, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, "renamed", got.Title)
}

func TestChatDeleteRemovesMessages(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	u := createUser(t, NewUserRepository(db), "d@example.com")
	chats := NewChatRepository(db)
	msgs := NewMessageRepository(db)

	chat := &db_models.Chat{UserID: u.ID, Title: db_models.DefaultChatTitle}
	require.NoError(t, chats.Create(ctx, chat))
	require.NoError(t, msgs.Create(ctx, &db_models.Message{ChatID: chat.ID, Role: db_models.RoleUser, Content: "hi"}))

	require.NoError(t, chats.Delete(ctx, chat.ID))

	got, err := chats.FindByIDForUser(ctx, chat.ID, u.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	n, err := msgs.CountByChat(ctx, chat.ID)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestMessageRepositoryOrdering(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	u := createUser(t, NewUserRepository(db), "m@example.com")
	chat := &db_models.Chat{UserID: u.ID, Title: "t"}
	require.NoError(t, NewChatRepository(db).Create(ctx, chat))
	msgs := NewMessageRepository(db)

	// same created_at for every row: ids break the tie
	for i := 0; i < 10; i++ {
		role := db_models.RoleUser
		if i%2 == 1 {
			role = db_models.RoleAssistant
		}
		m := &db_models.Message{ChatID: chat.ID, Role: role, Content: string(rune('a' + i))}
		m.CreatedAt = 1_700_000_000_000
		require.NoError(t, msgs.Create(ctx, m))
	}

	all, err := msgs.ListByChat(ctx, chat.ID)
	require.NoError(t, err)
	require.Len(t, all, 10)
	for i, m := range all {
		assert.Equal(t, string(rune('a'+i)), m.Content)
	}

	recent, err := msgs.RecentByChat(ctx, chat.ID, 8)
	require.NoError(t, err)
	require.Len(t, recent, 8)
	assert.Equal(t, "c", recent[0].Content)
	assert.Equal(t, "j", recent[7].Content)

	none, err := msgs.RecentByChat(ctx, chat.ID, 0)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestDocumentRepositoryHardDelete(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	users := NewUserRepository(db)
	owner := createUser(t, users, "doc@example.com")
	other := createUser(t, users, "nosy@example.com")
	docs := NewDocumentRepository(db)

	doc := &db_models.Document{
		UserID:           owner.ID,
		Filename:         "x.txt",
		OriginalFilename: "lease.txt",
		FilePath:         "/tmp/x.txt",
		FileSize:         10,
		AnalysisStatus:   db_models.AnalysisPending,
	}
	require.NoError(t, docs.Create(ctx, doc))

	got, err := docs.FindByIDForUser(ctx, doc.ID, other.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	doc.AnalysisStatus = db_models.AnalysisCompleted
	doc.AnalysisSummary = "fine"
	require.NoError(t, docs.Save(ctx, doc))

	list, err := docs.ListByUser(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, db_models.AnalysisCompleted, list[0].AnalysisStatus)

	require.NoError(t, docs.Delete(ctx, doc.ID))
	var n int64
	require.NoError(t, db.Unscoped().Model(&db_models.Document{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestPaymentCompleteAndActivateIsIdempotent(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	users := NewUserRepository(db)
	payments := NewPaymentRepository(db)

	u := createUser(t, users, "pay@example.com")
	require.NoError(t, users.IncrementFreeMessages(ctx, u.ID))

	p := &db_models.Payment{
		UserID:                u.ID,
		StripePaymentIntentID: "pi_1",
		AmountMinor:           2999,
		Currency:              "usd",
		Status:                db_models.PaymentPending,
		SubscriptionType:      "monthly",
	}
	require.NoError(t, payments.Create(ctx, p))

	now := time.Now().UnixMilli()
	exp := now + 30*24*3600*1000
	user, applied, err := payments.CompleteAndActivate(ctx, p.ID, exp, now)
	require.NoError(t, err)
	assert.True(t, applied)
	assert.True(t, user.IsPremium)
	require.NotNil(t, user.SubscriptionExpiresAt)
	assert.Equal(t, exp, *user.SubscriptionExpiresAt)
	assert.Zero(t, user.FreeMessagesUsed)

	user, applied, err = payments.CompleteAndActivate(ctx, p.ID, exp+1000, now+1000)
	require.NoError(t, err)
	assert.False(t, applied)
	assert.Equal(t, exp, *user.SubscriptionExpiresAt)

	stored, err := payments.FindByIntentID(ctx, "pi_1")
	require.NoError(t, err)
	assert.Equal(t, db_models.PaymentSucceeded, stored.Status)
	require.NotNil(t, stored.CompletedAt)

	missing, err := payments.FindByIntentID(ctx, "pi_missing")
	require.NoError(t, err)
	assert.Nil(t, missing)
}
