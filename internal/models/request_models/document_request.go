package request_models

type AnalyzeDocumentRequest struct {
	Prompt string `json:"prompt" binding:"max=2000"`
}
