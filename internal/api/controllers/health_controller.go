package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"eezlegal/internal/infra"
	"eezlegal/pkg/utils"
)

type HealthController struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewHealthController(db *gorm.DB, log *zap.Logger) *HealthController {
	return &HealthController{db: db, log: log}
}

func (h *HealthController) Root(c *gin.Context) {
	utils.RespondSuccess(c, gin.H{"message": "EezLegal API", "status": "running"}, "")
}

// Health is liveness only.
func (h *HealthController) Health(c *gin.Context) {
	utils.RespondSuccess(c, gin.H{"status": "healthy", "timestamp": time.Now().UTC().Format(time.RFC3339)}, "")
}

// Ready reports whether the database answers.
func (h *HealthController) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := infra.Ping(ctx, h.db); err != nil {
		h.log.Warn("readiness check failed", zap.Error(err))
		utils.RespondErrorWithData(c, http.StatusServiceUnavailable, "Database unavailable", gin.H{"status": "unavailable"})
		return
	}
	utils.RespondSuccess(c, gin.H{"status": "ready"}, "")
}
