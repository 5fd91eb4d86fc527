package response

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"filemeta/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{fmt.Errorf("%w: file x", domain.ErrNotFound), http.StatusNotFound, "NOT_FOUND"},
		{domain.ErrAccessDenied, http.StatusForbidden, "FORBIDDEN"},
		{fmt.Errorf("%w: bad size", domain.ErrInvalidArgument), http.StatusBadRequest, "VALIDATION_ERROR"},
		{domain.ErrInvalidTransition, http.StatusConflict, "INVALID_STATUS_TRANSITION"},
		{domain.ErrConflict, http.StatusConflict, "CONFLICT"},
		{errors.New("connection refused"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tc := range cases {
		status, code := Classify(tc.err)
		assert.Equal(t, tc.status, status, tc.err.Error())
		assert.Equal(t, tc.code, code, tc.err.Error())
	}
}

func TestFromError_HidesInfrastructureDetail(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	FromError(c, errors.New("dial tcp 10.0.0.1:5432: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "10.0.0.1")
	assert.Len(t, c.Errors, 1)
}
