package utils

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestHandleServiceErrorMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		err  error
		code int
	}{
		{ErrTokenExpired, http.StatusUnauthorized},
		{fmt.Errorf("wrapped: %w", ErrAuthRequired), http.StatusUnauthorized},
		{ErrChatNotFound, http.StatusNotFound},
		{ErrDocumentNotFound, http.StatusNotFound},
		{ErrUnsupportedFileType, http.StatusBadRequest},
		{ErrEmailAlreadyExists, http.StatusConflict},
		{ErrMessageLimitReached, http.StatusForbidden},
		{ErrFileTooLarge, http.StatusRequestEntityTooLarge},
		{ErrPaymentProvider, http.StatusBadGateway},
		{fmt.Errorf("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
			c.Set("trace_id", "trace-1")

			HandleServiceError(c, zap.NewNop(), tt.err)

			assert.Equal(t, tt.code, w.Code)
			var body APIResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, "error", body.Status)
			assert.Equal(t, tt.code, body.Code)
			assert.Equal(t, "trace-1", body.TraceID)
		})
	}
}

func TestRespondSuccessEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	RespondSuccess(c, gin.H{"ok": true}, "done")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"success","code":200,"message":"done","data":{"ok":true}}`, w.Body.String())
}
