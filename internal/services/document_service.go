package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"eezlegal/internal/config"
	"eezlegal/internal/models/db_models"
	"eezlegal/internal/models/response_models"
	"eezlegal/internal/repositories"
	"eezlegal/pkg/metrics"
	"eezlegal/pkg/utils"
)

const (
	analysisInputChars = 4000

	documentAnalystPrompt = "You are a legal document analysis expert. Provide clear, practical analysis of legal documents in plain English."
	documentQAPrompt      = "You are a legal expert providing analysis of legal documents."

	analysisTemplate = `Analyze this legal document and provide a comprehensive summary including:

1. **Document Type & Purpose**: What kind of document this is and its main purpose
2. **Key Terms & Clauses**: Important provisions, obligations, and rights
3. **Potential Risks**: Areas of concern or unfavorable terms
4. **Recommendations**: Suggested actions or areas to negotiate
5. **Plain English Summary**: A simple explanation of what this document means

Document text:
%s

Please provide a clear, structured analysis that helps the user understand this document.`

	questionTemplate = `Based on this legal document, please answer the following question:

Question: %s

Document text:
%s

Please provide a detailed, helpful response.`
)

// StoredFile locates a document's bytes for download.
type StoredFile struct {
	Path        string
	Name        string
	ContentType string
}

type DocumentServiceInterface interface {
	Upload(ctx context.Context, userID uuid.UUID, filename string, size int64, content io.Reader) (*response_models.DocumentDetailResponse, error)
	List(ctx context.Context, userID uuid.UUID) ([]response_models.DocumentResponse, error)
	Get(ctx context.Context, userID, id uuid.UUID) (*response_models.DocumentDetailResponse, error)
	Download(ctx context.Context, userID, id uuid.UUID) (*StoredFile, error)
	Analyze(ctx context.Context, userID, id uuid.UUID, question string) (*response_models.DocumentAnalysisResponse, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

type DocumentService struct {
	docs     repositories.DocumentRepository
	llm      utils.LLMClientInterface
	dir      string
	maxBytes int64
	timeout  time.Duration
	log      *zap.Logger
}

func NewDocumentService(
	docs repositories.DocumentRepository,
	llm utils.LLMClientInterface,
	cfg *config.Config,
	log *zap.Logger,
) DocumentServiceInterface {
	return &DocumentService{
		docs:     docs,
		llm:      llm,
		dir:      cfg.Uploads.Dir,
		maxBytes: cfg.Uploads.MaxBytes,
		timeout:  cfg.LLM.Timeout,
		log:      log,
	}
}

// Upload stores the file, then extracts and analyses it in-line. Extraction
// or analysis failures leave the document in the failed state rather than
// failing the upload.
func (s *DocumentService) Upload(ctx context.Context, userID uuid.UUID, filename string, size int64, content io.Reader) (*response_models.DocumentDetailResponse, error) {
	original := filepath.Base(strings.TrimSpace(filename))
	if original == "." || original == "/" || original == "" {
		return nil, utils.ErrInvalidInput
	}
	ext, ok := utils.DocumentExtension(original)
	if !ok {
		return nil, utils.ErrUnsupportedFileType
	}
	if size > s.maxBytes {
		return nil, utils.ErrFileTooLarge
	}

	if err := os.MkdirAll(s.dir, 0o750); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	stored := uuid.NewString() + "." + ext
	path := filepath.Join(s.dir, stored)

	written, err := s.writeFile(path, content)
	if err != nil {
		return nil, err
	}

	doc := &db_models.Document{
		UserID:           userID,
		Filename:         stored,
		OriginalFilename: original,
		FilePath:         path,
		FileSize:         written,
		ContentType:      utils.ContentTypeFor(ext),
		AnalysisStatus:   db_models.AnalysisPending,
	}
	if err := s.docs.Create(ctx, doc); err != nil {
		_ = os.Remove(path)
		return nil, fmt.Errorf("%w: %w", utils.ErrDatabaseError, err)
	}

	if err := s.process(ctx, doc, ext); err != nil {
		return nil, err
	}
	return newDocumentDetail(doc), nil
}

func (s *DocumentService) writeFile(path string, content io.Reader) (int64, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o640)
	if err != nil {
		return 0, fmt.Errorf("create file: %w", err)
	}

	// read one byte past the limit to detect oversized bodies without a size hint
	n, err := io.Copy(f, io.LimitReader(content, s.maxBytes+1))
	closeErr := f.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(path)
		return 0, fmt.Errorf("write file: %w", err)
	}
	if n > s.maxBytes {
		_ = os.Remove(path)
		return 0, utils.ErrFileTooLarge
	}
	return n, nil
}

// process extracts and summarises doc. Extraction or model failures only mark
// the document failed; an error is returned when the row cannot be saved.
func (s *DocumentService) process(ctx context.Context, doc *db_models.Document, ext string) error {
	log := s.log.With(zap.String("document_id", doc.ID.String()))

	text, err := utils.ExtractText(doc.FilePath, ext)
	if err != nil || text == "" {
		log.Warn("text extraction failed", zap.Error(err))
		return s.setStatus(ctx, doc, db_models.AnalysisFailed)
	}

	doc.ExtractedText = text
	if err := s.setStatus(ctx, doc, db_models.AnalysisProcessing); err != nil {
		return err
	}

	summary, err := s.analyze(ctx, doc.ExtractedText, "")
	if err != nil {
		log.Warn("document analysis failed", zap.Error(err))
		return s.setStatus(ctx, doc, db_models.AnalysisFailed)
	}

	doc.AnalysisSummary = summary
	return s.setStatus(ctx, doc, db_models.AnalysisCompleted)
}

func (s *DocumentService) setStatus(ctx context.Context, doc *db_models.Document, status db_models.AnalysisStatus) error {
	doc.AnalysisStatus = status
	if err := s.docs.Save(ctx, doc); err != nil {
		s.log.Error("save document status", zap.String("document_id", doc.ID.String()), zap.Error(err))
		return fmt.Errorf("%w: %w", utils.ErrDatabaseError, err)
	}
	return nil
}

// analyze answers question about text, or produces the standard summary when
// question is empty.
func (s *DocumentService) analyze(ctx context.Context, text, question string) (string, error) {
	excerpt := text
	if r := []rune(excerpt); len(r) > analysisInputChars {
		excerpt = string(r[:analysisInputChars])
	}

	req := utils.CompletionRequest{Temperature: 0.3}
	if question == "" {
		req.System = documentAnalystPrompt
		req.MaxTokens = 1000
		req.Messages = []utils.ChatMessage{{Role: utils.RoleUser, Content: fmt.Sprintf(analysisTemplate, excerpt)}}
	} else {
		req.System = documentQAPrompt
		req.MaxTokens = 800
		req.Messages = []utils.ChatMessage{{Role: utils.RoleUser, Content: fmt.Sprintf(questionTemplate, question, excerpt)}}
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	out, err := s.llm.Complete(ctx, req)
	if err != nil {
		sentry.CaptureException(err)
		metrics.LLMRequests.WithLabelValues(metrics.PurposeDocument, metrics.OutcomeFailure).Inc()
		if errors.Is(err, utils.ErrUnexpectedBehaviorOfAI) {
			return "", err
		}
		return "", fmt.Errorf("%w: %w", utils.ErrUnexpectedBehaviorOfAI, err)
	}
	metrics.LLMRequests.WithLabelValues(metrics.PurposeDocument, metrics.OutcomeSuccess).Inc()
	metrics.LLMTokens.Add(float64(out.TokensUsed))
	if out.Model == utils.DemoModel {
		return utils.DemoAnalysis, nil
	}
	return out.Content, nil
}

func (s *DocumentService) owned(ctx context.Context, userID, id uuid.UUID) (*db_models.Document, error) {
	doc, err := s.docs.FindByIDForUser(ctx, id, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", utils.ErrDatabaseError, err)
	}
	if doc == nil {
		return nil, utils.ErrDocumentNotFound
	}
	return doc, nil
}

func (s *DocumentService) List(ctx context.Context, userID uuid.UUID) ([]response_models.DocumentResponse, error) {
	docs, err := s.docs.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", utils.ErrDatabaseError, err)
	}
	out := make([]response_models.DocumentResponse, 0, len(docs))
	for i := range docs {
		out = append(out, response_models.NewDocumentResponse(&docs[i]))
	}
	return out, nil
}

func (s *DocumentService) Get(ctx context.Context, userID, id uuid.UUID) (*response_models.DocumentDetailResponse, error) {
	doc, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	return newDocumentDetail(doc), nil
}

func (s *DocumentService) Download(ctx context.Context, userID, id uuid.UUID) (*StoredFile, error) {
	doc, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(doc.FilePath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, utils.ErrDocumentNotFound
		}
		return nil, err
	}
	return &StoredFile{Path: doc.FilePath, Name: doc.OriginalFilename, ContentType: doc.ContentType}, nil
}

func (s *DocumentService) Analyze(ctx context.Context, userID, id uuid.UUID, question string) (*response_models.DocumentAnalysisResponse, error) {
	doc, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(doc.ExtractedText) == "" {
		return nil, utils.ErrNoExtractedText
	}

	question = strings.TrimSpace(question)
	result, err := s.analyze(ctx, doc.ExtractedText, question)
	if err != nil {
		if question == "" {
			_ = s.setStatus(ctx, doc, db_models.AnalysisFailed)
		}
		return nil, err
	}

	if question == "" {
		doc.AnalysisSummary = result
		doc.AnalysisStatus = db_models.AnalysisCompleted
		if err := s.docs.Save(ctx, doc); err != nil {
			return nil, fmt.Errorf("%w: %w", utils.ErrDatabaseError, err)
		}
	}

	return &response_models.DocumentAnalysisResponse{
		Analysis: result,
		Document: response_models.NewDocumentResponse(doc),
	}, nil
}

func (s *DocumentService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	doc, err := s.owned(ctx, userID, id)
	if err != nil {
		return err
	}
	if err := s.docs.Delete(ctx, doc.ID); err != nil {
		return fmt.Errorf("%w: %w", utils.ErrDatabaseError, err)
	}
	if err := os.Remove(doc.FilePath); err != nil && !errors.Is(err, os.ErrNotExist) {
		s.log.Warn("remove document file", zap.String("path", doc.FilePath), zap.Error(err))
	}
	return nil
}

func newDocumentDetail(doc *db_models.Document) *response_models.DocumentDetailResponse {
	return &response_models.DocumentDetailResponse{
		Document:        response_models.NewDocumentResponse(doc),
		ExtractedText:   doc.ExtractedText,
		AnalysisSummary: doc.AnalysisSummary,
	}
}
