package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/mindnest/wellness/internal/infrastructure/validator"
	"github.com/mindnest/wellness/internal/usecase/auth"
	"github.com/mindnest/wellness/pkg/response"
)

// Messages shown on the sign-in screen
const (
	msgFillAllFields = "Please fill in all fields"
	msgSignedOut     = "Signed out"
	msgPasswordSaved = "Password updated"
)

// AuthHandler serves sign-up, sign-in and session endpoints
type AuthHandler struct {
	authUseCase auth.UseCase
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authUseCase auth.UseCase) *AuthHandler {
	return &AuthHandler{authUseCase: authUseCase}
}

// credentialsMessage words a sign-up or sign-in binding failure the way the
// sign-in screen does. A missing full name is reported only once every other
// field is filled in.
func credentialsMessage(err error) string {
	missing := validator.MissingFields(err)
	for _, field := range missing {
		if field != "display_name" {
			return msgFillAllFields
		}
	}
	if len(missing) > 0 {
		return auth.FullNameRequired
	}
	return validator.Describe(err)
}

// bindCredentials is bindJSON with sign-in screen wording
func bindCredentials(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		response.ValidationError(c, credentialsMessage(err))
		return false
	}
	return true
}

// Register godoc
// @Summary Create an account
// @Description Signs up with username, email, password and full name, and signs the new user in.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body auth.RegisterInput true "Sign-up details"
// @Success 201 {object} response.Response{data=auth.AuthOutput}
// @Failure 400 {object} response.ErrorResponse "Please fill in all fields / Please enter your full name"
// @Failure 409 {object} response.ErrorResponse
// @Failure 429 {object} response.ErrorResponse
// @Router /api/v1/auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var input auth.RegisterInput
	if !bindCredentials(c, &input) {
		return
	}

	output, err := h.authUseCase.Register(c.Request.Context(), &input)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Created(c, output)
}

// Login godoc
// @Summary Sign in
// @Description Signs in with an email or username and password.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body auth.LoginInput true "Email or username and password"
// @Success 200 {object} response.Response{data=auth.AuthOutput}
// @Failure 400 {object} response.ErrorResponse "Please fill in all fields"
// @Failure 401 {object} response.ErrorResponse
// @Failure 429 {object} response.ErrorResponse
// @Router /api/v1/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var input auth.LoginInput
	if !bindCredentials(c, &input) {
		return
	}

	output, err := h.authUseCase.Login(c.Request.Context(), &input)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, output)
}

// RefreshToken godoc
// @Summary Renew the session
// @Description Trades a refresh token for a new token pair. Each refresh token works once.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body refreshTokenRequest true "Refresh token"
// @Success 200 {object} response.Response{data=auth.AuthOutput}
// @Failure 401 {object} response.ErrorResponse
// @Router /api/v1/auth/refresh [post]
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req refreshTokenRequest
	if !bindJSON(c, &req) {
		return
	}

	output, err := h.authUseCase.RefreshToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, output)
}

// Logout godoc
// @Summary Sign out
// @Description Revokes every refresh token of the current user.
// @Tags auth
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.ErrorResponse
// @Router /api/v1/auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := h.authUseCase.Logout(c.Request.Context(), userID); err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, gin.H{"message": msgSignedOut})
}

// ChangePassword godoc
// @Summary Change the current user's password
// @Description Other sessions are signed out.
// @Tags users
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body changePasswordRequest true "Current and new password"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Router /api/v1/users/me/password [put]
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req changePasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.authUseCase.ChangePassword(c.Request.Context(), userID, req.OldPassword, req.NewPassword); err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, gin.H{"message": msgPasswordSaved})
}

type refreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8,max=72"`
}
