package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mindnest/wellness/internal/infrastructure/middleware"
	"github.com/mindnest/wellness/internal/infrastructure/validator"
	"github.com/mindnest/wellness/pkg/response"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// handleError converts app errors to HTTP responses
func handleError(c *gin.Context, err error) {
	response.HandleError(c, err)
}

// bindJSON binds the body into dst, answering 400 itself on failure
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		response.ValidationError(c, validator.Describe(err))
		return false
	}
	return true
}

// currentUserID parses the authenticated user, answering 401 itself on failure
func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	userID, err := uuid.Parse(middleware.GetUserID(c))
	if err != nil {
		response.Unauthorized(c, "invalid user ID")
		return uuid.Nil, false
	}
	return userID, true
}

// pagination reads page and page_size with sane bounds
func pagination(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(defaultPageSize)))

	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return page, pageSize
}
