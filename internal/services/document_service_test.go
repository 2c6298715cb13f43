package services

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"eezlegal/internal/models/db_models"
	"eezlegal/internal/repositories"
	"eezlegal/pkg/utils"
)

const leaseText = "This lease is made between the landlord and the tenant. Rent is due on the first of each month."

type documentFixture struct {
	svc   DocumentServiceInterface
	llm   *mockLLM
	users repositories.UserRepository
	dir   string
}

func newDocumentFixture(t *testing.T) *documentFixture {
	t.Helper()
	db := newTestDB(t)
	cfg := testConfig(t)
	cfg.Uploads.MaxBytes = 1024
	llm := new(mockLLM)
	return &documentFixture{
		svc:   NewDocumentService(repositories.NewDocumentRepository(db), llm, cfg, zap.NewNop()),
		llm:   llm,
		users: repositories.NewUserRepository(db),
		dir:   cfg.Uploads.Dir,
	}
}

func (f *documentFixture) upload(t *testing.T, userID uuid.UUID, name, body string) uuid.UUID {
	t.Helper()
	out, err := f.svc.Upload(context.Background(), userID, name, int64(len(body)), strings.NewReader(body))
	require.NoError(t, err)
	return uuid.MustParse(out.Document.ID)
}

func TestUploadAnalysesText(t *testing.T) {
	f := newDocumentFixture(t)
	user := createTestUser(t, f.users, "docs@example.com")
	f.llm.On("Complete", mock.Anything, mock.MatchedBy(func(r utils.CompletionRequest) bool {
		return r.MaxTokens == 1000 && strings.Contains(r.Messages[0].Content, "Rent is due")
	})).Return(&utils.Completion{Content: "A residential lease."}, nil).Once()

	out, err := f.svc.Upload(context.Background(), user.ID, "../../lease.txt", int64(len(leaseText)), strings.NewReader(leaseText))
	require.NoError(t, err)

	assert.Equal(t, "lease.txt", out.Document.OriginalFilename)
	assert.Equal(t, string(db_models.AnalysisCompleted), out.Document.AnalysisStatus)
	assert.True(t, out.Document.IsAnalyzed)
	assert.Equal(t, "text/plain", out.Document.ContentType)
	assert.Equal(t, leaseText, out.ExtractedText)
	assert.Equal(t, "A residential lease.", out.AnalysisSummary)

	entries, err := os.ReadDir(f.dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, strings.HasSuffix(entries[0].Name(), ".txt"))
	f.llm.AssertExpectations(t)
}

func TestUploadAnalysisFailureMarksFailed(t *testing.T) {
	f := newDocumentFixture(t)
	user := createTestUser(t, f.users, "docs@example.com")
	f.llm.On("Complete", mock.Anything, mock.Anything).Return(nil, errors.New("quota")).Once()

	id := f.upload(t, user.ID, "lease.txt", leaseText)

	got, err := f.svc.Get(context.Background(), user.ID, id)
	require.NoError(t, err)
	assert.Equal(t, string(db_models.AnalysisFailed), got.Document.AnalysisStatus)
	assert.Equal(t, leaseText, got.ExtractedText)
	assert.Empty(t, got.AnalysisSummary)
}

func TestUploadValidation(t *testing.T) {
	ctx := context.Background()
	f := newDocumentFixture(t)
	user := createTestUser(t, f.users, "docs@example.com")

	_, err := f.svc.Upload(ctx, user.ID, "malware.exe", 3, strings.NewReader("MZ!"))
	assert.ErrorIs(t, err, utils.ErrUnsupportedFileType)

	_, err = f.svc.Upload(ctx, user.ID, "", 3, strings.NewReader("abc"))
	assert.ErrorIs(t, err, utils.ErrInvalidInput)

	big := strings.Repeat("a", 2048)
	_, err = f.svc.Upload(ctx, user.ID, "big.txt", int64(len(big)), strings.NewReader(big))
	assert.ErrorIs(t, err, utils.ErrFileTooLarge)

	// declared size lies; the copy limit still catches it
	_, err = f.svc.Upload(ctx, user.ID, "big.txt", -1, strings.NewReader(big))
	assert.ErrorIs(t, err, utils.ErrFileTooLarge)

	entries, err := os.ReadDir(f.dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestDocumentsAreScopedToOwner(t *testing.T) {
	ctx := context.Background()
	f := newDocumentFixture(t)
	owner := createTestUser(t, f.users, "owner@example.com")
	other := createTestUser(t, f.users, "other@example.com")
	f.llm.On("Complete", mock.Anything, mock.Anything).Return(&utils.Completion{Content: "summary"}, nil)

	id := f.upload(t, owner.ID, "nda.txt", leaseText)

	_, err := f.svc.Get(ctx, other.ID, id)
	assert.ErrorIs(t, err, utils.ErrDocumentNotFound)
	_, err = f.svc.Download(ctx, other.ID, id)
	assert.ErrorIs(t, err, utils.ErrDocumentNotFound)
	_, err = f.svc.Analyze(ctx, other.ID, id, "")
	assert.ErrorIs(t, err, utils.ErrDocumentNotFound)
	assert.ErrorIs(t, f.svc.Delete(ctx, other.ID, id), utils.ErrDocumentNotFound)

	list, err := f.svc.List(ctx, other.ID)
	require.NoError(t, err)
	assert.Empty(t, list)

	list, err = f.svc.List(ctx, owner.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestDownloadAndDelete(t *testing.T) {
	ctx := context.Background()
	f := newDocumentFixture(t)
	user := createTestUser(t, f.users, "docs@example.com")
	f.llm.On("Complete", mock.Anything, mock.Anything).Return(&utils.Completion{Content: "summary"}, nil)

	id := f.upload(t, user.ID, "Contract.TXT", leaseText)

	file, err := f.svc.Download(ctx, user.ID, id)
	require.NoError(t, err)
	assert.Equal(t, "Contract.TXT", file.Name)
	body, err := os.ReadFile(file.Path)
	require.NoError(t, err)
	assert.Equal(t, leaseText, string(body))

	require.NoError(t, f.svc.Delete(ctx, user.ID, id))
	_, err = os.Stat(file.Path)
	assert.True(t, os.IsNotExist(err))
	_, err = f.svc.Get(ctx, user.ID, id)
	assert.ErrorIs(t, err, utils.ErrDocumentNotFound)
}

func TestAnalyzeQuestionKeepsSummary(t *testing.T) {
	ctx := context.Background()
	f := newDocumentFixture(t)
	user := createTestUser(t, f.users, "docs@example.com")
	f.llm.On("Complete", mock.Anything, mock.MatchedBy(func(r utils.CompletionRequest) bool {
		return r.MaxTokens == 1000
	})).Return(&utils.Completion{Content: "summary"}, nil).Once()
	f.llm.On("Complete", mock.Anything, mock.MatchedBy(func(r utils.CompletionRequest) bool {
		return r.MaxTokens == 800 && strings.Contains(r.Messages[0].Content, "Question: When is rent due?")
	})).Return(&utils.Completion{Content: "On the first."}, nil).Once()

	id := f.upload(t, user.ID, "lease.txt", leaseText)

	out, err := f.svc.Analyze(ctx, user.ID, id, "When is rent due?")
	require.NoError(t, err)
	assert.Equal(t, "On the first.", out.Analysis)

	got, err := f.svc.Get(ctx, user.ID, id)
	require.NoError(t, err)
	assert.Equal(t, "summary", got.AnalysisSummary)
	f.llm.AssertExpectations(t)
}

func TestAnalyzeReanalysesDocument(t *testing.T) {
	ctx := context.Background()
	f := newDocumentFixture(t)
	user := createTestUser(t, f.users, "docs@example.com")
	f.llm.On("Complete", mock.Anything, mock.Anything).Return(nil, errors.New("down")).Once()
	f.llm.On("Complete", mock.Anything, mock.Anything).Return(&utils.Completion{Content: "fresh summary"}, nil).Once()

	id := f.upload(t, user.ID, "lease.txt", leaseText)

	out, err := f.svc.Analyze(ctx, user.ID, id, "  ")
	require.NoError(t, err)
	assert.Equal(t, "fresh summary", out.Analysis)
	assert.Equal(t, string(db_models.AnalysisCompleted), out.Document.AnalysisStatus)
}

func TestAnalyzeWithoutTextFails(t *testing.T) {
	ctx := context.Background()
	f := newDocumentFixture(t)
	user := createTestUser(t, f.users, "docs@example.com")

	id := f.upload(t, user.ID, "empty.txt", "   ")

	got, err := f.svc.Get(ctx, user.ID, id)
	require.NoError(t, err)
	assert.Equal(t, string(db_models.AnalysisFailed), got.Document.AnalysisStatus)

	_, err = f.svc.Analyze(ctx, user.ID, id, "anything?")
	assert.ErrorIs(t, err, utils.ErrNoExtractedText)
	f.llm.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
}

type failingSaveDocuments struct {
	repositories.DocumentRepository
}

func (failingSaveDocuments) Save(context.Context, *db_models.Document) error {
	return errors.New("db down")
}

func TestUploadReportsStatusSaveFailure(t *testing.T) {
	db := newTestDB(t)
	cfg := testConfig(t)
	llm := new(mockLLM)
	docs := repositories.NewDocumentRepository(db)
	svc := NewDocumentService(failingSaveDocuments{docs}, llm, cfg, zap.NewNop())
	user := createTestUser(t, repositories.NewUserRepository(db), "docs@example.com")

	out, err := svc.Upload(context.Background(), user.ID, "a.txt", int64(len(leaseText)), strings.NewReader(leaseText))
	require.ErrorIs(t, err, utils.ErrDatabaseError)
	assert.Nil(t, out)

	stored, err := docs.ListByUser(context.Background(), user.ID)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, db_models.AnalysisPending, stored[0].AnalysisStatus)
	llm.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
}

func TestUploadInDemoModeUsesPlaceholderAnalysis(t *testing.T) {
	f := newDocumentFixture(t)
	user := createTestUser(t, f.users, "demo-docs@example.com")
	f.llm.On("Complete", mock.Anything, mock.Anything).
		Return(&utils.Completion{Content: "echo of " + leaseText, Model: utils.DemoModel}, nil).Once()

	out, err := f.svc.Upload(context.Background(), user.ID, "lease.txt", int64(len(leaseText)), strings.NewReader(leaseText))
	require.NoError(t, err)
	assert.Equal(t, string(db_models.AnalysisCompleted), out.Document.AnalysisStatus)
	assert.Equal(t, utils.DemoAnalysis, out.AnalysisSummary)
}
