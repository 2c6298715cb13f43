package db_models

import "github.com/google/uuid"

type AnalysisStatus string

const (
	AnalysisPending    AnalysisStatus = "pending"
	AnalysisProcessing AnalysisStatus = "processing"
	AnalysisCompleted  AnalysisStatus = "completed"
	AnalysisFailed     AnalysisStatus = "failed"
)

type Document struct {
	BaseModel
	UserID           uuid.UUID      `gorm:"type:uuid;not null;index"`
	Filename         string         `gorm:"size:255;not null"` // stored name, <uuid>.<ext>
	OriginalFilename string         `gorm:"size:255;not null"`
	FilePath         string         `gorm:"size:1024;not null"`
	FileSize         int64          `gorm:"not null"`
	ContentType      string         `gorm:"size:255"`
	ExtractedText    string         `gorm:"type:text"`
	AnalysisSummary  string         `gorm:"type:text"`
	AnalysisStatus   AnalysisStatus `gorm:"size:20;not null;index"`

	User User `gorm:"foreignKey:UserID"`
}
