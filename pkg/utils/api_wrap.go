package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type APIResponse struct {
	Status  string      `json:"status"`
	Code    int         `json:"code"`
	Message string      `json:"message,omitempty"`
	TraceID string      `json:"trace_id,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func RespondSuccess(c *gin.Context, data interface{}, message string) {
	RespondWithStatus(c, http.StatusOK, data, message)
}

func RespondCreated(c *gin.Context, data interface{}, message string) {
	RespondWithStatus(c, http.StatusCreated, data, message)
}

func RespondWithStatus(c *gin.Context, code int, data interface{}, message string) {
	c.JSON(code, APIResponse{
		Status:  "success",
		Code:    code,
		Message: message,
		TraceID: c.GetString("trace_id"),
		Data:    data,
	})
}

func RespondError(c *gin.Context, code int, message string) {
	RespondErrorWithData(c, code, message, nil)
}

func RespondErrorWithData(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, APIResponse{
		Status:  "error",
		Code:    code,
		Message: message,
		TraceID: c.GetString("trace_id"),
		Data:    data,
	})
}

type errorMapping struct {
	target  error
	code    int
	message string
}

var serviceErrors = []errorMapping{
	{ErrTokenMissing, http.StatusUnauthorized, "Authorization header missing or invalid"},
	{ErrTokenExpired, http.StatusUnauthorized, "Token expired"},
	{ErrTokenInvalid, http.StatusUnauthorized, "Invalid token"},
	{ErrUserNotFound, http.StatusUnauthorized, "User not found"},
	{ErrAuthRequired, http.StatusUnauthorized, "Authentication required"},
	{ErrInvalidCredentials, http.StatusUnauthorized, "Invalid email or password"},

	{ErrChatNotFound, http.StatusNotFound, "Chat not found"},
	{ErrDocumentNotFound, http.StatusNotFound, "Document not found"},
	{ErrPaymentNotFound, http.StatusNotFound, "Payment record not found"},

	{ErrInvalidInput, http.StatusBadRequest, "Invalid input"},
	{ErrUnsupportedFileType, http.StatusBadRequest, "File type not allowed. Please upload PDF, DOCX or TXT files."},
	{ErrNoExtractedText, http.StatusBadRequest, "No text available for analysis"},
	{ErrInvalidPlan, http.StatusBadRequest, "Invalid plan type"},
	{ErrPasswordNotSet, http.StatusBadRequest, "This account signs in with Google and has no password"},
	{ErrPaymentNotCompleted, http.StatusBadRequest, "Payment not completed"},
	{ErrFileTooLarge, http.StatusRequestEntityTooLarge, "File too large"},

	{ErrEmailAlreadyExists, http.StatusConflict, "Email already exists"},
	{ErrAccountExists, http.StatusConflict, "Email already registered with a password"},
	{ErrMessageLimitReached, http.StatusForbidden, "You have reached your free message limit. Please upgrade to premium to continue."},

	{ErrPaymentProvider, http.StatusBadGateway, "Payment provider error"},
	{ErrPaymentsDisabled, http.StatusServiceUnavailable, "Payments are not configured"},
	{ErrOAuthNotConfigured, http.StatusServiceUnavailable, "Google OAuth not configured"},
	{ErrUnexpectedBehaviorOfAI, http.StatusBadGateway, "Language model unavailable"},
}

// HandleServiceError maps a service error onto the response envelope.
// Unknown errors are logged and reported as 500.
func HandleServiceError(c *gin.Context, log *zap.Logger, err error) {
	for _, m := range serviceErrors {
		if errors.Is(err, m.target) {
			RespondError(c, m.code, m.message)
			return
		}
	}

	if log != nil {
		log.Error("unhandled service error",
			zap.String("path", c.FullPath()),
			zap.String("trace_id", c.GetString("trace_id")),
			zap.Error(err))
	}
	RespondError(c, http.StatusInternalServerError, "Internal server error")
}
