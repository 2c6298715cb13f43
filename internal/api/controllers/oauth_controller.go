package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"eezlegal/internal/services"
)

type OAuthController struct {
	oauthService services.OAuthServiceInterface
	log          *zap.Logger
}

func NewOAuthController(oauthService services.OAuthServiceInterface, log *zap.Logger) *OAuthController {
	return &OAuthController{
		oauthService: oauthService,
		log:          log,
	}
}

// GoogleLogin godoc
// @Summary Start Google sign in
// @Tags Auth
// @Success 307
// @Router /auth/google [get]
func (o *OAuthController) GoogleLogin(c *gin.Context) {
	authURL, err := o.oauthService.BeginAuth(c.Request.Context())
	if err != nil {
		o.log.Warn("begin google auth", zap.Error(err))
		c.Redirect(http.StatusTemporaryRedirect, o.oauthService.ErrorRedirect(services.OAuthErrorCode(err)))
		return
	}
	c.Redirect(http.StatusTemporaryRedirect, authURL)
}

// GoogleCallback godoc
// @Summary Google redirect target
// @Description Always answers with a redirect to the frontend, carrying either the token or an error code
// @Tags Auth
// @Param code query string false "Authorization code"
// @Param state query string false "State issued by /auth/google"
// @Param error query string false "Error reported by Google"
// @Success 307
// @Router /auth/google/callback [get]
func (o *OAuthController) GoogleCallback(c *gin.Context) {
	if providerErr := c.Query("error"); providerErr != "" {
		c.Redirect(http.StatusTemporaryRedirect, o.oauthService.ErrorRedirect(providerErr))
		return
	}

	code := c.Query("code")
	if code == "" {
		c.Redirect(http.StatusTemporaryRedirect, o.oauthService.ErrorRedirect(services.OAuthErrNoCode))
		return
	}

	session, err := o.oauthService.CompleteAuth(c.Request.Context(), code, c.Query("state"))
	if err != nil {
		o.log.Warn("google callback failed", zap.String("trace_id", c.GetString("trace_id")), zap.Error(err))
		c.Redirect(http.StatusTemporaryRedirect, o.oauthService.ErrorRedirect(services.OAuthErrorCode(err)))
		return
	}

	c.Redirect(http.StatusTemporaryRedirect, o.oauthService.SuccessRedirect(session.Token))
}
