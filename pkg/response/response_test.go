package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/mindnest/wellness/pkg/errors"
)

func newContext() (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	return c, w
}

func TestHandleError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantCode    string
		wantMessage string
	}{
		{"validation", apperrors.ValidationError("Please select a mood"), http.StatusBadRequest, CodeValidationError, "Please select a mood"},
		{"unauthorized", apperrors.UnauthorizedError("sign in"), http.StatusUnauthorized, CodeUnauthorized, "sign in"},
		{"not found", apperrors.NotFoundError("user"), http.StatusNotFound, CodeNotFound, "user not found"},
		{"conflict", apperrors.AlreadyExistsError("email"), http.StatusConflict, CodeConflict, "email already exists"},
		{"upstream", apperrors.UnavailableError("permission denied for table mood_entries", errors.New("42501")), http.StatusBadGateway, CodeUpstreamFailure, "permission denied for table mood_entries"},
		{"plain error", errors.New("secret detail"), http.StatusInternalServerError, CodeInternalError, "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newContext()
			HandleError(c, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			var body ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.wantCode, body.Code)
			assert.Equal(t, tt.wantMessage, body.Message)
			assert.Equal(t, tt.wantStatus, body.HTTPCode)
			assert.NotEmpty(t, body.RequestID)
		})
	}
}

func TestSuccessWithPagination(t *testing.T) {
	c, w := newContext()
	c.Request.Header.Set(RequestIDKey, "req-1")

	SuccessWithPagination(c, []int{1, 2}, 2, 2, 5)

	var body struct {
		RequestID string        `json:"requestId"`
		Data      PaginatedData `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "req-1", body.RequestID)
	assert.Equal(t, 3, body.Data.Pagination.TotalPages)
	assert.Equal(t, int64(5), body.Data.Pagination.Total)
}
