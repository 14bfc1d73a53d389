package queries

import (
	"context"
	"database/sql"

	"matte/internal/models"
)

// MaterialsBetween lists what the crews need for jobs scheduled in the range.
// Detail carries quantity and unit, e.g. "5 gal".
func MaterialsBetween(ctx context.Context, db *sql.DB, p models.QueryParams) (*models.Aggregate, error) {
	if err := requireRange(p); err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `
		SELECT m.name || COALESCE(' (' || m.color || ')', ''), j.title,
		       TRIM(TO_CHAR(m.quantity, 'FM999999990.##')) || ' ' || COALESCE(m.unit, ''), j.status,
		       COALESCE(m.cost_cents, 0)::bigint, j.scheduled_date,
		       COUNT(*) OVER (), COALESCE(SUM(m.cost_cents) OVER (), 0)::bigint
		FROM job_materials m
		JOIN jobs j ON j.id = m.job_id
		WHERE m.company_id = $1 AND j.scheduled_date >= $2 AND j.scheduled_date < $3
		  AND j.status <> 'cancelled'
		ORDER BY j.scheduled_date ASC, m.name ASC
		LIMIT $4`, p.CompanyID, p.Range.Start, p.Range.End, p.Limit)
	if err != nil {
		return nil, err
	}
	return scanListing(rows)
}

func MaterialLookup(ctx context.Context, db *sql.DB, p models.QueryParams) (*models.Aggregate, error) {
	if err := requireSubject(p); err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `
		SELECT m.name || COALESCE(' (' || m.color || ')', ''), j.title,
		       TRIM(TO_CHAR(m.quantity, 'FM999999990.##')) || ' ' || COALESCE(m.unit, ''), j.status,
		       COALESCE(m.cost_cents, 0)::bigint, j.scheduled_date,
		       COUNT(*) OVER (), COALESCE(SUM(m.cost_cents) OVER (), 0)::bigint
		FROM job_materials m
		JOIN jobs j ON j.id = m.job_id
		JOIN customers c ON c.id = j.customer_id
		WHERE m.company_id = $1 AND (c.name ILIKE $2 OR j.title ILIKE $2)
		ORDER BY j.scheduled_date DESC NULLS LAST, m.name ASC
		LIMIT $3`, p.CompanyID, likePattern(p.Subject), p.Limit)
	if err != nil {
		return nil, err
	}
	return scanListing(rows)
}
