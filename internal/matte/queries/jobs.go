package queries

import (
	"context"
	"database/sql"

	"matte/internal/models"
)

// JobsBetween serves every schedule report; the caller picks the window.
func JobsBetween(ctx context.Context, db *sql.DB, p models.QueryParams) (*models.Aggregate, error) {
	if err := requireRange(p); err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `
		SELECT c.name, j.title, COALESCE(j.address, ''), j.status,
		       0::bigint, j.scheduled_date,
		       COUNT(*) OVER (), 0::bigint
		FROM jobs j
		JOIN customers c ON c.id = j.customer_id
		WHERE j.company_id = $1 AND j.scheduled_date >= $2 AND j.scheduled_date < $3
		  AND j.status <> 'cancelled'
		ORDER BY j.scheduled_date ASC
		LIMIT $4`, p.CompanyID, p.Range.Start, p.Range.End, p.Limit)
	if err != nil {
		return nil, err
	}
	return scanListing(rows)
}

// StuckJobs finds active jobs nobody has touched since StuckBefore.
func StuckJobs(ctx context.Context, db *sql.DB, p models.QueryParams) (*models.Aggregate, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT c.name, j.title, COALESCE(j.address, ''), j.status,
		       0::bigint, j.updated_at,
		       COUNT(*) OVER (), 0::bigint
		FROM jobs j
		JOIN customers c ON c.id = j.customer_id
		WHERE j.company_id = $1 AND j.status IN ('scheduled', 'in_progress') AND j.updated_at < $2
		ORDER BY j.updated_at ASC
		LIMIT $3`, p.CompanyID, p.StuckBefore, p.Limit)
	if err != nil {
		return nil, err
	}
	return scanListing(rows)
}

func JobLookup(ctx context.Context, db *sql.DB, p models.QueryParams) (*models.Aggregate, error) {
	if err := requireSubject(p); err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `
		SELECT c.name, j.title, COALESCE(j.address, ''), j.status,
		       COALESCE(j.contract_cents, 0)::bigint, j.scheduled_date,
		       COUNT(*) OVER (), COALESCE(SUM(j.contract_cents) OVER (), 0)::bigint
		FROM jobs j
		JOIN customers c ON c.id = j.customer_id
		WHERE j.company_id = $1 AND (c.name ILIKE $2 OR j.title ILIKE $2)
		ORDER BY j.scheduled_date DESC NULLS LAST
		LIMIT $3`, p.CompanyID, likePattern(p.Subject), p.Limit)
	if err != nil {
		return nil, err
	}
	return scanListing(rows)
}

func JobsByStatus(ctx context.Context, db *sql.DB, p models.QueryParams) (*models.Aggregate, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT status, COUNT(*)
		FROM jobs
		WHERE company_id = $1
		GROUP BY status
		ORDER BY status`, p.CompanyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	agg := &models.Aggregate{Breakdown: map[string]int64{}}
	for rows.Next() {
		var status string
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		agg.Breakdown[status] = count
		agg.Count += int(count)
	}
	return agg, rows.Err()
}

func TotalJobs(ctx context.Context, db *sql.DB, p models.QueryParams) (*models.Aggregate, error) {
	return scanTotals(db.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(contract_cents), 0)::bigint
		FROM jobs
		WHERE company_id = $1 AND status <> 'cancelled'`, p.CompanyID))
}

func TotalCustomers(ctx context.Context, db *sql.DB, p models.QueryParams) (*models.Aggregate, error) {
	return scanTotals(db.QueryRowContext(ctx, `
		SELECT COUNT(*), 0::bigint
		FROM customers
		WHERE company_id = $1`, p.CompanyID))
}
