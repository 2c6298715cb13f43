package response_models

import "eezlegal/internal/models/db_models"

type DocumentResponse struct {
	ID               string `json:"id"`
	OriginalFilename string `json:"original_filename"`
	FileSize         int64  `json:"file_size"`
	ContentType      string `json:"content_type"`
	AnalysisStatus   string `json:"analysis_status"`
	IsAnalyzed       bool   `json:"is_analyzed"`
	CreatedAt        int64  `json:"created_at"`
	UpdatedAt        int64  `json:"updated_at"`
}

type DocumentDetailResponse struct {
	Document        DocumentResponse `json:"document"`
	ExtractedText   string           `json:"extracted_text"`
	AnalysisSummary string           `json:"analysis_summary"`
}

type DocumentAnalysisResponse struct {
	Analysis string           `json:"analysis"`
	Document DocumentResponse `json:"document"`
}

func NewDocumentResponse(d *db_models.Document) DocumentResponse {
	return DocumentResponse{
		ID:               d.ID.String(),
		OriginalFilename: d.OriginalFilename,
		FileSize:         d.FileSize,
		ContentType:      d.ContentType,
		AnalysisStatus:   string(d.AnalysisStatus),
		IsAnalyzed:       d.AnalysisStatus == db_models.AnalysisCompleted,
		CreatedAt:        d.CreatedAt,
		UpdatedAt:        d.UpdatedAt,
	}
}
