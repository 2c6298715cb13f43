package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"eezlegal/internal/config"
	"eezlegal/internal/models/request_models"
	"eezlegal/internal/services"
	"eezlegal/pkg/utils"
)

// multipart framing allowance on top of the file size limit
const multipartOverhead = 1 << 20

type DocumentController struct {
	documentService services.DocumentServiceInterface
	maxBytes        int64
	log             *zap.Logger
}

func NewDocumentController(documentService services.DocumentServiceInterface, cfg *config.Config, log *zap.Logger) *DocumentController {
	return &DocumentController{
		documentService: documentService,
		maxBytes:        cfg.Uploads.MaxBytes,
		log:             log,
	}
}

// Upload godoc
// @Summary Upload a PDF, DOCX or TXT document for analysis
// @Tags Documents
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Document"
// @Success 201 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 413 {object} utils.APIResponse
// @Security BearerAuth
// @Router /api/documents/upload [post]
func (d *DocumentController) Upload(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, d.maxBytes+multipartOverhead)
	header, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			utils.HandleServiceError(c, d.log, utils.ErrFileTooLarge)
			return
		}
		utils.RespondError(c, http.StatusBadRequest, "No file provided")
		return
	}
	if header.Filename == "" {
		utils.RespondError(c, http.StatusBadRequest, "No file selected")
		return
	}

	file, err := header.Open()
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Could not read uploaded file")
		return
	}
	defer file.Close()

	doc, err := d.documentService.Upload(c.Request.Context(), user.ID, header.Filename, header.Size, file)
	if err != nil {
		utils.HandleServiceError(c, d.log, err)
		return
	}

	utils.RespondCreated(c, doc, "Document uploaded successfully")
}

func (d *DocumentController) List(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}

	docs, err := d.documentService.List(c.Request.Context(), user.ID)
	if err != nil {
		utils.HandleServiceError(c, d.log, err)
		return
	}

	utils.RespondSuccess(c, docs, "Documents fetched successfully")
}

func (d *DocumentController) Get(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "Document not found")
	if !ok {
		return
	}

	doc, err := d.documentService.Get(c.Request.Context(), user.ID, id)
	if err != nil {
		utils.HandleServiceError(c, d.log, err)
		return
	}

	utils.RespondSuccess(c, doc, "Document fetched successfully")
}

// Download godoc
// @Summary Download the original file
// @Tags Documents
// @Produce octet-stream
// @Success 200 {file} file
// @Failure 404 {object} utils.APIResponse
// @Security BearerAuth
// @Router /api/documents/{id}/download [get]
func (d *DocumentController) Download(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "Document not found")
	if !ok {
		return
	}

	file, err := d.documentService.Download(c.Request.Context(), user.ID, id)
	if err != nil {
		utils.HandleServiceError(c, d.log, err)
		return
	}

	c.Header("Content-Type", file.ContentType)
	c.FileAttachment(file.Path, file.Name)
}

// Analyze godoc
// @Summary Re-run the analysis or ask a question about a document
// @Tags Documents
// @Accept json
// @Produce json
// @Param request body request_models.AnalyzeDocumentRequest false "Optional question"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /api/documents/{id}/analyze [post]
func (d *DocumentController) Analyze(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "Document not found")
	if !ok {
		return
	}

	var req request_models.AnalyzeDocumentRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
			return
		}
	}

	result, err := d.documentService.Analyze(c.Request.Context(), user.ID, id, req.Prompt)
	if err != nil {
		utils.HandleServiceError(c, d.log, err)
		return
	}

	utils.RespondSuccess(c, result, "Document analyzed successfully")
}

func (d *DocumentController) Delete(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "Document not found")
	if !ok {
		return
	}

	if err := d.documentService.Delete(c.Request.Context(), user.ID, id); err != nil {
		utils.HandleServiceError(c, d.log, err)
		return
	}

	utils.RespondSuccess(c, nil, "Document deleted successfully")
}
