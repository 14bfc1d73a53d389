// internal/models/aggregate.go
package models

import "time"

// Row is one capped line item of a listing query.
type Row struct {
	Label       string     `json:"label"`
	Reference   string     `json:"reference,omitempty"`
	Detail      string     `json:"detail,omitempty"`
	Status      string     `json:"status,omitempty"`
	AmountCents int64      `json:"amountCents,omitempty"`
	Date        *time.Time `json:"date,omitempty"`
}

// Aggregate is the answer of a single read-only query: a full count and sum
// over every matching record, plus at most the intent's row cap of examples.
type Aggregate struct {
	Count      int                   `json:"count"`
	TotalCents int64                 `json:"totalCents"`
	Rows       []Row                 `json:"rows,omitempty"`
	Breakdown  map[string]int64      `json:"breakdown,omitempty"`
	Sections   map[string]*Aggregate `json:"sections,omitempty"`
}

// Empty reports whether the query found nothing at all.
func (a *Aggregate) Empty() bool {
	if a == nil {
		return true
	}
	return a.Count == 0 && len(a.Rows) == 0 && len(a.Breakdown) == 0 && len(a.Sections) == 0
}

// Truncated reports whether more records matched than were returned.
func (a *Aggregate) Truncated() bool {
	return a != nil && a.Count > len(a.Rows) && len(a.Rows) > 0
}
