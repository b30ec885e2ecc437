// internal/interfaces/http/handlers/respond_test.go
package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/your-org/warehouse-backend/internal/pkg/apperrors"
)

func TestRespondErrorStatusMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"validation", apperrors.Validation("missing field"), http.StatusBadRequest},
		{"invalid request", apperrors.InvalidRequest("same warehouse"), http.StatusBadRequest},
		{"insufficient stock", apperrors.InsufficientStock("no stock"), http.StatusBadRequest},
		{"not found", apperrors.NotFound("missing"), http.StatusNotFound},
		{"conflict", apperrors.Conflict("duplicate"), http.StatusConflict},
		{"persistence", apperrors.Persistence("db down", errors.New("boom")), http.StatusInternalServerError},
		{"plain error", errors.New("unexpected"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(recorder)

			respondError(c, tc.err)

			assert.Equal(t, tc.status, recorder.Code)
			assert.Contains(t, recorder.Body.String(), "error")
		})
	}
}

func TestParseIDParam(t *testing.T) {
	gin.SetMode(gin.TestMode)

	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	c.Params = gin.Params{{Key: "id", Value: "42"}}

	id, ok := parseIDParam(c, "id")
	assert.True(t, ok)
	assert.EqualValues(t, 42, id)

	recorder = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(recorder)
	c.Params = gin.Params{{Key: "id", Value: "abc"}}

	_, ok = parseIDParam(c, "id")
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}
