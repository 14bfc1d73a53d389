// internal/models/tenant.go
package models

// TenantContext identifies the company every query is scoped to.
type TenantContext struct {
	CompanyID string `json:"companyId"`
	UserID    string `json:"userId,omitempty"`
}

// Valid reports whether the tenant carries a company id.
func (t TenantContext) Valid() bool {
	return t.CompanyID != ""
}
