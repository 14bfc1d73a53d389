package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "matte/internal/common/errors"
	commonhttp "matte/internal/common/http"
	"matte/internal/common/logger"
	"matte/internal/models"
)

type staticValidator struct {
	tenant models.TenantContext
	err    error
}

func (v staticValidator) Validate(string) (models.TenantContext, error) { return v.tenant, v.err }

func TestExtractBearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{"", ""},
		{"Bearer abc", "abc"},
		{"bearer abc", "abc"},
		{"Bearer  abc ", "abc"},
		{"Basic abc", ""},
		{"Bearer", ""},
	}

	for _, tt := range tests {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		if tt.header != "" {
			r.Header.Set("Authorization", tt.header)
		}
		assert.Equal(t, tt.want, extractBearerToken(r), tt.header)
	}
}

func TestRequireTenant(t *testing.T) {
	errHandler := apperrors.NewErrorHandler(logger.NewTestLogger(t))

	var seen models.TenantContext
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = TenantFromContext(r.Context())
	})

	ok := NewAuth(staticValidator{tenant: models.TenantContext{CompanyID: "co_1"}}, errHandler)
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("Authorization", "Bearer t")
	rec := httptest.NewRecorder()
	ok.RequireTenant(next).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "co_1", seen.CompanyID)

	bad := NewAuth(staticValidator{err: errors.New("expired")}, errHandler)
	rec = httptest.NewRecorder()
	bad.RequireTenant(next).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestTenantFromContext_Empty(t *testing.T) {
	assert.False(t, TenantFromContext(context.Background()).Valid())
}

func TestRequestID(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = commonhttp.RequestIDFromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Len(t, seen, 36)
	assert.Equal(t, seen, rec.Header().Get(commonhttp.RequestIDHeader))
}
