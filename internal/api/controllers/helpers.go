package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"eezlegal/internal/models/db_models"
	"eezlegal/pkg/middleware"
	"eezlegal/pkg/utils"
)

// requireUser reads the authenticated user. Routes behind RequireAuth always
// have one; the 401 covers miswired routes.
func requireUser(c *gin.Context) (*db_models.User, bool) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, "Authentication required")
		return nil, false
	}
	return user, true
}

func pathID(c *gin.Context, notFound string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondError(c, http.StatusNotFound, notFound)
		return uuid.Nil, false
	}
	return id, true
}

// bindMessage names the first field that failed binding, or fallback when the
// body could not be decoded at all.
func bindMessage(err error, fallback string, fields map[string]string) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		if msg, ok := fields[verrs[0].Field()]; ok {
			return msg
		}
	}
	return fallback
}
