// internal/models/entities.go
package models

import "time"

// DataType is the coarse domain area a question refers to.
type DataType string

const (
	DataTypeEstimates DataType = "estimates"
	DataTypeMaterials DataType = "materials"
	DataTypePaint     DataType = "paint"
	DataTypeInvoices  DataType = "invoices"
	DataTypePayments  DataType = "payments"
	DataTypeCustomers DataType = "customers"
	DataTypeJobs      DataType = "jobs"
)

// Relationship narrows a lookup to records in a particular state.
type Relationship string

const (
	RelationshipAcceptedNoInvoice Relationship = "accepted_no_invoice"
	RelationshipUnpaid            Relationship = "unpaid"
	RelationshipOverdue           Relationship = "overdue"
)

// DateBucket is a symbolic period that dispatch turns into concrete bounds.
type DateBucket string

const (
	DateBucketToday     DateBucket = "today"
	DateBucketTomorrow  DateBucket = "tomorrow"
	DateBucketThisWeek  DateBucket = "this_week"
	DateBucketLastMonth DateBucket = "last_month"

	// Fixed windows used by reports, never extracted from text.
	DateBucketThisMonth    DateBucket = "this_month"
	DateBucketCalendarWeek DateBucket = "calendar_week"
	DateBucketLast30Days   DateBucket = "last_30_days"
)

// DetectedEntities holds what the extractor found. Every field is optional.
type DetectedEntities struct {
	DataType     DataType     `json:"dataType,omitempty"`
	Relationship Relationship `json:"relationship,omitempty"`
	DateRange    DateBucket   `json:"dateRange,omitempty"`
	Subject      string       `json:"subject,omitempty"`
}

// HasSubject reports whether a customer or job name was captured.
func (e DetectedEntities) HasSubject() bool {
	return e.Subject != ""
}

// HasDateRange reports whether a date bucket was captured.
func (e DetectedEntities) HasDateRange() bool {
	return e.DateRange != ""
}

// DateRange is a resolved half-open interval [Start, End).
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// IsZero reports whether the range was never resolved.
func (r DateRange) IsZero() bool {
	return r.Start.IsZero() && r.End.IsZero()
}
