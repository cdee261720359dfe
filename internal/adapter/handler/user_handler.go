package handler

import (
	"io"

	"github.com/gin-gonic/gin"

	"github.com/mindnest/wellness/internal/usecase/user"
	"github.com/mindnest/wellness/pkg/response"
)

// avatarReadLimit caps how much of an upload is read; the use case enforces the real limit
const avatarReadLimit = 8 << 20

// UserHandler handles user requests
type UserHandler struct {
	userUseCase user.UseCase
}

// NewUserHandler creates a new user handler
func NewUserHandler(userUseCase user.UseCase) *UserHandler {
	return &UserHandler{userUseCase: userUseCase}
}

// GetMe godoc
// @Summary Get current user's profile with logging stats
// @Tags users
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Response{data=entity.Profile}
// @Failure 401 {object} response.ErrorResponse
// @Failure 502 {object} response.ErrorResponse
// @Router /api/v1/users/me [get]
func (h *UserHandler) GetMe(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	profile, err := h.userUseCase.GetProfile(c.Request.Context(), userID)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, profile)
}

// UpdateMe godoc
// @Summary Update current user info
// @Tags users
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body user.UpdateInput true "Update input"
// @Success 200 {object} response.Response{data=entity.UserResponse}
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Router /api/v1/users/me [put]
func (h *UserHandler) UpdateMe(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var input user.UpdateInput
	if !bindJSON(c, &input) {
		return
	}

	userResp, err := h.userUseCase.Update(c.Request.Context(), userID, &input)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, userResp)
}

// UploadAvatar godoc
// @Summary Upload or replace the current user's avatar
// @Tags users
// @Security BearerAuth
// @Accept multipart/form-data
// @Produce json
// @Param avatar formData file true "PNG or JPEG image"
// @Success 200 {object} response.Response{data=entity.UserResponse}
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Router /api/v1/users/me/avatar [put]
func (h *UserHandler) UploadAvatar(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	file, _, err := c.Request.FormFile("avatar")
	if err != nil {
		response.ValidationError(c, "avatar is required")
		return
	}
	defer file.Close()

	content, err := io.ReadAll(io.LimitReader(file, avatarReadLimit))
	if err != nil {
		response.BadRequest(c, "failed to read avatar")
		return
	}

	userResp, err := h.userUseCase.UploadAvatar(c.Request.Context(), userID, content)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, userResp)
}

// DeleteAvatar godoc
// @Summary Remove the current user's avatar
// @Tags users
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Response{data=entity.UserResponse}
// @Failure 401 {object} response.ErrorResponse
// @Router /api/v1/users/me/avatar [delete]
func (h *UserHandler) DeleteAvatar(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	userResp, err := h.userUseCase.DeleteAvatar(c.Request.Context(), userID)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, userResp)
}
