package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apperrors "github.com/mindnest/wellness/pkg/errors"
)

// Response codes
const (
	CodeSuccess           = "SUCCESS"
	CodeBadRequest        = "BAD_REQUEST"
	CodeUnauthorized      = "UNAUTHORIZED"
	CodeNotFound          = "NOT_FOUND"
	CodeConflict          = "ALREADY_EXISTS"
	CodeInternalError     = "INTERNAL_ERROR"
	CodeValidationError   = "VALIDATION_ERROR"
	CodeResourceExhausted = "RESOURCE_EXHAUSTED"
	CodeUpstreamFailure   = "UPSTREAM_FAILURE"
)

const (
	// RequestIDKey is the header carrying the request ID
	RequestIDKey = "X-Request-ID"
	// requestIDContextKey matches the key the request logger middleware sets
	requestIDContextKey = "request_id"
)

var statusCodes = map[int]string{
	http.StatusBadRequest:          CodeValidationError,
	http.StatusUnauthorized:        CodeUnauthorized,
	http.StatusNotFound:            CodeNotFound,
	http.StatusConflict:            CodeConflict,
	http.StatusTooManyRequests:     CodeResourceExhausted,
	http.StatusBadGateway:          CodeUpstreamFailure,
	http.StatusInternalServerError: CodeInternalError,
}

// Response is the envelope for successful calls
type Response struct {
	Code      string      `json:"code"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data,omitempty"`
	RequestID string      `json:"requestId"`
}

// ErrorResponse is the envelope for failed calls
type ErrorResponse struct {
	Code      string `json:"code"`
	HTTPCode  int    `json:"httpCode"`
	Message   string `json:"message"`
	RequestID string `json:"requestId"`
}

// Pagination holds pagination info
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// PaginatedData holds paginated response data
type PaginatedData struct {
	Items      interface{} `json:"items"`
	Pagination Pagination  `json:"pagination"`
}

// GetRequestID returns the request ID set by the logger middleware,
// the one the client sent, or a fresh one.
func GetRequestID(c *gin.Context) string {
	if id := c.GetString(requestIDContextKey); id != "" {
		return id
	}
	if id := c.GetHeader(RequestIDKey); id != "" {
		return id
	}
	return "req-" + uuid.New().String()
}

func write(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, Response{
		Code:      CodeSuccess,
		Message:   message,
		Data:      data,
		RequestID: GetRequestID(c),
	})
}

// Success sends a 200 response
func Success(c *gin.Context, data interface{}) {
	write(c, http.StatusOK, "success", data)
}

// Created sends a 201 response
func Created(c *gin.Context, data interface{}) {
	write(c, http.StatusCreated, "created", data)
}

// SuccessWithPagination sends one page of items
func SuccessWithPagination(c *gin.Context, items interface{}, page, pageSize int, total int64) {
	totalPages := 0
	if pageSize > 0 {
		totalPages = int((total + int64(pageSize) - 1) / int64(pageSize))
	}

	write(c, http.StatusOK, "success", PaginatedData{
		Items: items,
		Pagination: Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      total,
			TotalPages: totalPages,
		},
	})
}

// Error sends an error response
func Error(c *gin.Context, httpStatus int, code string, message string) {
	c.JSON(httpStatus, ErrorResponse{
		Code:      code,
		HTTPCode:  httpStatus,
		Message:   message,
		RequestID: GetRequestID(c),
	})
}

// BadRequest sends a 400 for malformed requests
func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, CodeBadRequest, message)
}

// Unauthorized sends a 401
func Unauthorized(c *gin.Context, message string) {
	Error(c, http.StatusUnauthorized, CodeUnauthorized, message)
}

// InternalError sends a 500
func InternalError(c *gin.Context, message string) {
	Error(c, http.StatusInternalServerError, CodeInternalError, message)
}

// ValidationError sends a 400 for input the user must correct
func ValidationError(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, CodeValidationError, message)
}

// TooManyRequests sends a 429
func TooManyRequests(c *gin.Context, message string) {
	Error(c, http.StatusTooManyRequests, CodeResourceExhausted, message)
}

// HandleError writes err using the status its AppError carries.
// Errors that are not AppErrors never leak their text.
func HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	appErr := apperrors.GetAppError(err)
	if appErr == nil {
		InternalError(c, "internal server error")
		return
	}

	status := appErr.HTTPStatus
	code, ok := statusCodes[status]
	if !ok {
		status, code = http.StatusInternalServerError, CodeInternalError
	}
	Error(c, status, code, appErr.Message)
}
