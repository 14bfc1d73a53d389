// internal/common/auth/tenant.go
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"matte/internal/common/config"
	"matte/internal/models"
)

var (
	ErrMissingSecret = errors.New("jwt secret is not configured")
	ErrInvalidToken  = errors.New("invalid or expired token")
	ErrMissingTenant = errors.New("token carries no company id")
)

// Claims is the payload of a caller's bearer token.
type Claims struct {
	CompanyID string `json:"companyId"`
	UserID    string `json:"userId,omitempty"`
	jwt.RegisteredClaims
}

// TenantResolver turns bearer tokens into the tenant every query is scoped to.
type TenantResolver struct {
	secret []byte
	issuer string
	now    func() time.Time
}

func NewTenantResolver(cfg config.AuthConfig) (*TenantResolver, error) {
	if cfg.JWT.Secret == "" {
		return nil, ErrMissingSecret
	}
	return &TenantResolver{
		secret: []byte(cfg.JWT.Secret),
		issuer: cfg.JWT.Issuer,
		now:    time.Now,
	}, nil
}

// Validate checks the signature, expiry and issuer and returns the tenant.
func (r *TenantResolver) Validate(tokenString string) (models.TenantContext, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(r.now),
	}
	if r.issuer != "" {
		opts = append(opts, jwt.WithIssuer(r.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return r.secret, nil
	}, opts...)
	if err != nil {
		return models.TenantContext{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return models.TenantContext{}, ErrInvalidToken
	}

	tenant := models.TenantContext{CompanyID: claims.CompanyID, UserID: claims.UserID}
	if claims.UserID == "" {
		tenant.UserID = claims.Subject
	}
	if !tenant.Valid() {
		return models.TenantContext{}, ErrMissingTenant
	}
	return tenant, nil
}

// Issue signs a token for tenant. A zero ttl means the token never expires.
func (r *TenantResolver) Issue(tenant models.TenantContext, ttl time.Duration) (string, error) {
	if !tenant.Valid() {
		return "", ErrMissingTenant
	}

	now := r.now()
	claims := &Claims{
		CompanyID: tenant.CompanyID,
		UserID:    tenant.UserID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  tenant.UserID,
			Issuer:   r.issuer,
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(r.secret)
}
