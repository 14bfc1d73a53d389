package middleware

import (
	"context"
	"net/http"
	"strings"

	apperrors "matte/internal/common/errors"
	"matte/internal/models"
)

type contextKey string

const tenantKey contextKey = "tenant"

// TokenValidator resolves a bearer token to the caller's company.
type TokenValidator interface {
	Validate(token string) (models.TenantContext, error)
}

// Auth rejects requests without a valid bearer token and stores the tenant
// on the request context.
type Auth struct {
	validator TokenValidator
	errors    *apperrors.ErrorHandler
}

func NewAuth(validator TokenValidator, errHandler *apperrors.ErrorHandler) *Auth {
	return &Auth{validator: validator, errors: errHandler}
}

func (m *Auth) RequireTenant(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractBearerToken(r)
		if token == "" {
			m.errors.Write(w, r, apperrors.NewUnauthorizedError("missing authorization header"))
			return
		}

		tenant, err := m.validator.Validate(token)
		if err != nil {
			m.errors.Write(w, r, apperrors.NewUnauthorizedError(err.Error()))
			return
		}

		next.ServeHTTP(w, r.WithContext(WithTenant(r.Context(), tenant)))
	})
}

func WithTenant(ctx context.Context, tenant models.TenantContext) context.Context {
	return context.WithValue(ctx, tenantKey, tenant)
}

// TenantFromContext returns the zero tenant when none was stored.
func TenantFromContext(ctx context.Context) models.TenantContext {
	if v, ok := ctx.Value(tenantKey).(models.TenantContext); ok {
		return v
	}
	return models.TenantContext{}
}

func extractBearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		return ""
	}
	parts := strings.SplitN(auth, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
