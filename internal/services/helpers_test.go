package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"eezlegal/internal/config"
	"eezlegal/internal/infra"
	"eezlegal/internal/models/db_models"
	"eezlegal/internal/repositories"
	"eezlegal/pkg/utils"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := infra.OpenDatabase(config.Database{URL: "file:svc_" + name + "?mode=memory&cache=shared"}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { infra.CloseDatabase(db, zap.NewNop()) })
	return db
}

func testConfig(t *testing.T) *config.Config {
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.Expiry = time.Hour
	cfg.JWT.Issuer = "eezlegal"
	cfg.Chat.HistoryLimit = 8
	cfg.Chat.FreeMessageLimit = 10
	cfg.LLM.Timeout = 5 * time.Second
	cfg.Uploads.Dir = t.TempDir()
	cfg.Uploads.MaxBytes = 1 << 20
	cfg.Google.FrontendURL = "https://app.example.com"
	cfg.Google.PublicBaseURL = "http://localhost:8000"
	cfg.Google.Timeout = 5 * time.Second
	return cfg
}

func createTestUser(t *testing.T, users repositories.UserRepository, email string) *db_models.User {
	t.Helper()
	hash, err := utils.HashPassword("secret123")
	require.NoError(t, err)
	u := &db_models.User{Email: email, Name: "Test User", PasswordHash: hash, FreeMessageLimit: 10}
	require.NoError(t, users.Create(context.Background(), u))
	return u
}

type mockLLM struct {
	mock.Mock
}

func (m *mockLLM) Complete(ctx context.Context, req utils.CompletionRequest) (*utils.Completion, error) {
	args := m.Called(ctx, req)
	out, _ := args.Get(0).(*utils.Completion)
	return out, args.Error(1)
}
