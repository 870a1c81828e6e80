package errors

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type bindTarget struct {
	Inner *struct {
		Count *int `json:"count" binding:"required,min=0"`
	} `json:"inner" binding:"required"`
}

func TestAppError_Constructors(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		category ErrorCategory
		status   int
		code     string
	}{
		{"validation", NewValidationError("bad input", "detail"), CategoryValidation, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"not found", NewNotFoundError("protocol", "X-1"), CategoryNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"timeout", NewTimeoutError("slow", context.DeadlineExceeded), CategoryTimeout, http.StatusGatewayTimeout, "TIMEOUT_ERROR"},
		{"rate limit", NewRateLimitError("60s"), CategoryRateLimit, http.StatusTooManyRequests, "RATE_LIMIT_EXCEEDED"},
		{"internal", NewInternalError("boom", fmt.Errorf("cause")), CategoryInternal, http.StatusInternalServerError, "INTERNAL_ERROR"},
		{"configuration", NewConfigurationError("bad corpus", nil), CategoryConfiguration, http.StatusInternalServerError, "CONFIGURATION_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.category, tt.err.Category)
			assert.Equal(t, tt.status, tt.err.HTTPStatus)
			assert.Equal(t, tt.code, tt.err.Code())
			assert.True(t, strings.HasPrefix(tt.err.Error(), "["+tt.code+"]"))
		})
	}
}

func TestNewValidationError_Message(t *testing.T) {
	err := NewValidationError("test validation error", "field1")
	assert.Equal(t, "[VALIDATION_ERROR] test validation error", err.Error())
	assert.Equal(t, "field1", err.Fields["validation_details"])
}

func TestNewNotFoundError_Message(t *testing.T) {
	err := NewNotFoundError("protocol", "NOPE")
	assert.Equal(t, `[NOT_FOUND] protocol "NOPE" not found`, err.Error())
}

func TestNewAppError_CustomBuilder(t *testing.T) {
	builder := NewBuilder().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg("Custom error message")

	err := NewAppError(builder, CategoryValidation, http.StatusBadRequest)
	assert.Equal(t, "Custom error message", err.Msg)
}

func TestToAppError(t *testing.T) {
	assert.Nil(t, ToAppError(nil))

	orig := NewNotFoundError("protocol", "A")
	assert.Same(t, orig, ToAppError(orig))
	assert.Same(t, orig, ToAppError(fmt.Errorf("wrapped: %w", orig)))

	assert.Equal(t, CategoryTimeout, ToAppError(context.Canceled).Category)
	assert.Equal(t, CategoryTimeout, ToAppError(context.DeadlineExceeded).Category)
	assert.Equal(t, CategoryInternal, ToAppError(fmt.Errorf("standard error")).Category)
}

func TestFromBindingError_FieldPaths(t *testing.T) {
	RegisterJSONFieldNames()

	negative := -1
	tests := []struct {
		name      string
		target    bindTarget
		wantField string
		wantMsg   string
	}{
		{name: "missing nested struct", target: bindTarget{}, wantField: "inner", wantMsg: "is required"},
		{
			name: "missing leaf",
			target: bindTarget{Inner: &struct {
				Count *int `json:"count" binding:"required,min=0"`
			}{}},
			wantField: "inner.count",
			wantMsg:   "is required",
		},
		{
			name: "negative leaf",
			target: bindTarget{Inner: &struct {
				Count *int `json:"count" binding:"required,min=0"`
			}{Count: &negative}},
			wantField: "inner.count",
			wantMsg:   "must be >= 0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := binding.Validator.ValidateStruct(&tt.target)
			require.Error(t, err)

			appErr := FromBindingError(err)
			assert.Equal(t, CategoryValidation, appErr.Category)
			assert.Equal(t, tt.wantMsg, appErr.Fields[tt.wantField])
		})
	}
}

func TestFromBindingError_DecodeFailures(t *testing.T) {
	var target bindTarget

	err := json.Unmarshal([]byte(`{"inner": {"count": "many"}}`), &target)
	require.Error(t, err)
	appErr := FromBindingError(err)
	assert.Equal(t, CategoryValidation, appErr.Category)
	assert.Contains(t, appErr.Fields["inner.count"], "must be a")

	appErr = FromBindingError(fmt.Errorf("invalid character"))
	assert.Equal(t, "malformed request body", appErr.Msg)
}

func TestAbort_WritesEnvelope(t *testing.T) {
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("request_id", "req-123")
		c.Next()
	})
	r.GET("/missing", func(c *gin.Context) {
		Abort(c, NewNotFoundError("protocol", "X"))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/missing", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	var body struct {
		Error map[string]interface{} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "NOT_FOUND", body.Error["code"])
	assert.Equal(t, "not_found", body.Error["category"])
	assert.Equal(t, "req-123", body.Error["request_id"])
}

func TestErrorHandler_ConvertsContextErrors(t *testing.T) {
	r := gin.New()
	r.Use(ErrorHandler())
	r.GET("/fail", func(c *gin.Context) {
		_ = c.Error(NewValidationError("nope"))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/fail", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "VALIDATION_ERROR")
}

func TestRecoveryHandler(t *testing.T) {
	r := gin.New()
	r.Use(RecoveryHandler())
	r.GET("/panic", func(c *gin.Context) {
		panic("kaboom")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "INTERNAL_ERROR")
}

func TestWrapError(t *testing.T) {
	assert.Nil(t, WrapError(nil, "ctx"))
	base := fmt.Errorf("base")
	wrapped := WrapError(base, "loading %s", "corpus")
	assert.EqualError(t, wrapped, "loading corpus: base")
	assert.ErrorIs(t, wrapped, base)
}
