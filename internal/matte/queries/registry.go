// Package queries holds the read-only aggregation queries behind each intent.
//
// Every query is scoped by company_id and returns a models.Aggregate whose
// Count and TotalCents cover all matching records while Rows is capped at
// QueryParams.Limit.
package queries

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"matte/internal/models"
)

var (
	ErrMissingParam     = errors.New("missing required parameter")
	ErrUnknownQueryType = errors.New("unknown query type")
)

const DefaultLimit = 10

// QueryFunc runs one aggregation against db.
type QueryFunc func(ctx context.Context, db *sql.DB, p models.QueryParams) (*models.Aggregate, error)

var Registry = map[models.Intent]QueryFunc{
	models.IntentAcceptedNoInvoice:    AcceptedNoInvoice,
	models.IntentOverdueInvoices:      OverdueInvoices,
	models.IntentUnpaidInvoices:       UnpaidInvoices,
	models.IntentCustomerUnpaidLookup: CustomerUnpaid,
	models.IntentMaterialsTomorrow:    MaterialsBetween,
	models.IntentJobsToday:            JobsBetween,
	models.IntentJobsTomorrow:         JobsBetween,
	models.IntentJobsThisWeek:         JobsBetween,
	models.IntentStuckJobs:            StuckJobs,
	models.IntentRevenueThisMonth:     RevenueBetween,
	models.IntentRevenueLastMonth:     RevenueBetween,
	models.IntentRevenueTotal:         RevenueTotal,
	models.IntentRecentPayments:       RecentPayments,
	models.IntentEstimateConversion:   EstimateConversion,
	models.IntentPendingEstimates:     PendingEstimates,
	models.IntentJobsByStatus:         JobsByStatus,
	models.IntentTotalJobs:            TotalJobs,
	models.IntentTotalCustomers:       TotalCustomers,
	models.IntentJobLookup:            JobLookup,
	models.IntentEstimateLookup:       EstimateLookup,
	models.IntentMaterialLookup:       MaterialLookup,
	models.IntentInvoiceLookup:        InvoiceLookup,
}

// Execute returns the aggregate and execution time in milliseconds.
func Execute(ctx context.Context, db *sql.DB, intent models.Intent, p models.QueryParams) (*models.Aggregate, int64, error) {
	fn, exists := Registry[intent]
	if !exists {
		return nil, 0, fmt.Errorf("%w: %s", ErrUnknownQueryType, intent)
	}
	if p.CompanyID == "" {
		return nil, 0, fmt.Errorf("%w: companyId", ErrMissingParam)
	}
	if p.Limit <= 0 {
		p.Limit = DefaultLimit
	}

	start := time.Now()
	agg, err := fn(ctx, db, p)
	return agg, time.Since(start).Milliseconds(), err
}

// listing column order: label, reference, detail, status, amount_cents,
// occurred_at, total_count, total_amount. The last two are window aggregates
// computed before LIMIT.
func scanListing(rows *sql.Rows) (*models.Aggregate, error) {
	defer rows.Close()

	agg := &models.Aggregate{}
	for rows.Next() {
		var (
			row                    models.Row
			reference, detail      sql.NullString
			status                 sql.NullString
			occurredAt             sql.NullTime
			totalCount, totalCents int64
		)
		if err := rows.Scan(&row.Label, &reference, &detail, &status, &row.AmountCents, &occurredAt, &totalCount, &totalCents); err != nil {
			return nil, err
		}
		row.Reference = reference.String
		row.Detail = detail.String
		row.Status = status.String
		if occurredAt.Valid {
			t := occurredAt.Time
			row.Date = &t
		}
		agg.Count = int(totalCount)
		agg.TotalCents = totalCents
		agg.Rows = append(agg.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return agg, nil
}

func scanTotals(row *sql.Row) (*models.Aggregate, error) {
	var count, total int64
	if err := row.Scan(&count, &total); err != nil {
		return nil, err
	}
	return &models.Aggregate{Count: int(count), TotalCents: total}, nil
}

func likePattern(subject string) string {
	return "%" + subject + "%"
}

func requireSubject(p models.QueryParams) error {
	if p.Subject == "" {
		return fmt.Errorf("%w: subject", ErrMissingParam)
	}
	return nil
}

func requireRange(p models.QueryParams) error {
	if p.Range.IsZero() {
		return fmt.Errorf("%w: range", ErrMissingParam)
	}
	return nil
}
