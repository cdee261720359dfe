package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/mindnest/wellness/internal/usecase/resource"
	"github.com/mindnest/wellness/pkg/response"
)

// ResourceHandler serves the support resources screen
type ResourceHandler struct {
	resourceUseCase resource.UseCase
}

// NewResourceHandler creates a new resource handler
func NewResourceHandler(resourceUseCase resource.UseCase) *ResourceHandler {
	return &ResourceHandler{resourceUseCase: resourceUseCase}
}

// List godoc
// @Summary List support resources, crisis resources first
// @Tags resources
// @Produce json
// @Param category query string false "Filter by category"
// @Success 200 {object} response.Response{data=[]entity.Resource}
// @Failure 400 {object} response.ErrorResponse
// @Failure 502 {object} response.ErrorResponse
// @Router /api/v1/resources [get]
func (h *ResourceHandler) List(c *gin.Context) {
	resources, err := h.resourceUseCase.List(c.Request.Context(), c.Query("category"))
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, resources)
}

// Categories godoc
// @Summary List resource categories
// @Tags resources
// @Produce json
// @Success 200 {object} response.Response{data=[]entity.ResourceCategory}
// @Router /api/v1/resources/categories [get]
func (h *ResourceHandler) Categories(c *gin.Context) {
	response.Success(c, h.resourceUseCase.Categories())
}

// View godoc
// @Summary Record that the current user opened a resource
// @Tags resources
// @Security BearerAuth
// @Produce json
// @Param id path string true "Resource ID"
// @Success 201 {object} response.Response
// @Failure 401 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 502 {object} response.ErrorResponse
// @Router /api/v1/resources/{id}/view [post]
func (h *ResourceHandler) View(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := h.resourceUseCase.RecordView(c.Request.Context(), userID.String(), c.Param("id")); err != nil {
		handleError(c, err)
		return
	}

	response.Created(c, nil)
}
