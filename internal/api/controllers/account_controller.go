package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"eezlegal/internal/models/request_models"
	"eezlegal/internal/models/response_models"
	"eezlegal/internal/services"
	"eezlegal/pkg/utils"
)

type AccountController struct {
	accountService services.AccountServiceInterface
	log            *zap.Logger
}

func NewAccountController(accountService services.AccountServiceInterface, log *zap.Logger) *AccountController {
	return &AccountController{
		accountService: accountService,
		log:            log,
	}
}

// Register godoc
// @Summary Register a new account
// @Description Create a password account and return a session token
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body request_models.SignUpRequest true "Account registration payload"
// @Success 201 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Router /api/auth/register [post]
func (a *AccountController) Register(c *gin.Context) {
	var req request_models.SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	session, err := a.accountService.Register(c.Request.Context(), req)
	if err != nil {
		utils.HandleServiceError(c, a.log, err)
		return
	}

	utils.RespondCreated(c, session, "Account created successfully")
}

// Login godoc
// @Summary Login with email and password
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body request_models.LoginRequest true "Login payload"
// @Success 200 {object} utils.APIResponse
// @Failure 401 {object} utils.APIResponse
// @Router /api/auth/login [post]
func (a *AccountController) Login(c *gin.Context) {
	var req request_models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	session, err := a.accountService.Login(c.Request.Context(), req)
	if err != nil {
		utils.HandleServiceError(c, a.log, err)
		return
	}

	utils.RespondSuccess(c, session, "Login successful")
}

// VerifyToken godoc
// @Summary Verify a session token
// @Description Accepts the token in the body or as a bearer header
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body request_models.VerifyTokenRequest false "Token"
// @Success 200 {object} utils.APIResponse
// @Failure 401 {object} utils.APIResponse
// @Router /api/auth/verify [post]
func (a *AccountController) VerifyToken(c *gin.Context) {
	var req request_models.VerifyTokenRequest
	_ = c.ShouldBindJSON(&req)

	token := strings.TrimSpace(req.Token)
	if token == "" {
		token = strings.TrimSpace(strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer "))
	}
	if token == "" {
		utils.RespondErrorWithData(c, http.StatusUnauthorized, "Token missing",
			response_models.VerifyTokenResponse{Valid: false, Reason: "missing"})
		return
	}

	result, err := a.accountService.VerifyToken(c.Request.Context(), token)
	if err != nil {
		utils.HandleServiceError(c, a.log, err)
		return
	}
	if !result.Valid {
		utils.RespondErrorWithData(c, http.StatusUnauthorized, "Invalid token", result)
		return
	}

	utils.RespondSuccess(c, result, "Token is valid")
}

// Me godoc
// @Summary Current user profile
// @Tags Auth
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /api/auth/me [get]
func (a *AccountController) Me(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	utils.RespondSuccess(c, response_models.NewAccountResponse(user), "Profile fetched successfully")
}

// Logout only acknowledges: tokens are stateless and expire on their own.
func (a *AccountController) Logout(c *gin.Context) {
	utils.RespondSuccess(c, nil, "Logged out successfully")
}

// UpdateProfile godoc
// @Summary Update name, email or picture
// @Tags Users
// @Accept json
// @Produce json
// @Param request body request_models.UpdateProfileRequest true "Profile changes"
// @Success 200 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Security BearerAuth
// @Router /api/users/profile [put]
func (a *AccountController) UpdateProfile(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}

	var req request_models.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	updated, err := a.accountService.UpdateProfile(c.Request.Context(), user.ID, req)
	if err != nil {
		utils.HandleServiceError(c, a.log, err)
		return
	}

	utils.RespondSuccess(c, response_models.NewAccountResponse(updated), "Profile updated successfully")
}

func (a *AccountController) ChangePassword(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}

	var req request_models.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := a.accountService.ChangePassword(c.Request.Context(), user.ID, req); err != nil {
		utils.HandleServiceError(c, a.log, err)
		return
	}

	utils.RespondSuccess(c, nil, "Password changed successfully")
}

func (a *AccountController) Usage(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}

	usage, err := a.accountService.GetUsage(c.Request.Context(), user.ID)
	if err != nil {
		utils.HandleServiceError(c, a.log, err)
		return
	}

	utils.RespondSuccess(c, usage, "Usage fetched successfully")
}
