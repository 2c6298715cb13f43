package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"eezlegal/internal/models/db_models"
	"eezlegal/pkg/utils"
)

const (
	userKey   = "user"
	userIDKey = "user_id"
)

// Authenticator resolves a bearer token to a stored user.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*db_models.User, error)
}

// RequireAuth rejects requests without a valid bearer token.
func RequireAuth(auth Authenticator, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			utils.RespondError(c, http.StatusUnauthorized, "Authorization header missing or invalid")
			c.Abort()
			return
		}
		if !authenticate(c, auth, log, token) {
			return
		}
		c.Next()
	}
}

// OptionalAuth lets requests without an Authorization header through as
// anonymous. A header that is present but does not verify is still a 401.
func OptionalAuth(auth Authenticator, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if strings.TrimSpace(header) == "" {
			c.Next()
			return
		}

		token, ok := bearerToken(header)
		if !ok {
			utils.RespondError(c, http.StatusUnauthorized, "Authorization header missing or invalid")
			c.Abort()
			return
		}
		if !authenticate(c, auth, log, token) {
			return
		}
		c.Next()
	}
}

func authenticate(c *gin.Context, auth Authenticator, log *zap.Logger, token string) bool {
	user, err := auth.Authenticate(c.Request.Context(), token)
	if err != nil {
		utils.HandleServiceError(c, log, err)
		c.Abort()
		return false
	}

	c.Set(userKey, user)
	c.Set(userIDKey, user.ID.String())
	return true
}

func bearerToken(header string) (string, bool) {
	const prefix = "Bearer "
	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}

// CurrentUser returns the user set by RequireAuth or OptionalAuth.
func CurrentUser(c *gin.Context) (*db_models.User, bool) {
	v, ok := c.Get(userKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*db_models.User)
	return user, ok && user != nil
}
