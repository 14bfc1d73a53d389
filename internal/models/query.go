// internal/models/query.go
package models

import "time"

// QueryParams is everything a registered query may filter on. Only
// CompanyID is always set; the rest depends on the intent.
type QueryParams struct {
	CompanyID    string       `json:"companyId"`
	Subject      string       `json:"subject,omitempty"`
	Relationship Relationship `json:"relationship,omitempty"`
	Range        DateRange    `json:"range"`
	Limit        int          `json:"limit"`
	// Now anchors relative cut-offs such as "overdue" and "stuck".
	Now         time.Time `json:"now"`
	StuckBefore time.Time `json:"stuckBefore"`
}
