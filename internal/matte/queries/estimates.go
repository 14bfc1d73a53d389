package queries

import (
	"context"
	"database/sql"

	"matte/internal/models"
)

func AcceptedNoInvoice(ctx context.Context, db *sql.DB, p models.QueryParams) (*models.Aggregate, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT c.name, COALESCE(j.title, ''), COALESCE(e.estimate_number, ''), e.status,
		       e.total_cents, e.accepted_at,
		       COUNT(*) OVER (), COALESCE(SUM(e.total_cents) OVER (), 0)::bigint
		FROM estimates e
		JOIN customers c ON c.id = e.customer_id
		LEFT JOIN jobs j ON j.id = e.job_id
		WHERE e.company_id = $1 AND e.status = 'accepted'
		  AND NOT EXISTS (
		      SELECT 1 FROM invoices i WHERE i.estimate_id = e.id AND i.status <> 'void'
		  )
		ORDER BY e.accepted_at ASC NULLS LAST
		LIMIT $2`, p.CompanyID, p.Limit)
	if err != nil {
		return nil, err
	}
	return scanListing(rows)
}

func PendingEstimates(ctx context.Context, db *sql.DB, p models.QueryParams) (*models.Aggregate, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT c.name, COALESCE(j.title, ''), COALESCE(e.estimate_number, ''), e.status,
		       e.total_cents, e.sent_at,
		       COUNT(*) OVER (), COALESCE(SUM(e.total_cents) OVER (), 0)::bigint
		FROM estimates e
		JOIN customers c ON c.id = e.customer_id
		LEFT JOIN jobs j ON j.id = e.job_id
		WHERE e.company_id = $1 AND e.status = 'sent'
		ORDER BY e.sent_at ASC NULLS LAST
		LIMIT $2`, p.CompanyID, p.Limit)
	if err != nil {
		return nil, err
	}
	return scanListing(rows)
}

func EstimateLookup(ctx context.Context, db *sql.DB, p models.QueryParams) (*models.Aggregate, error) {
	if err := requireSubject(p); err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `
		SELECT c.name, COALESCE(j.title, ''), COALESCE(e.estimate_number, ''), e.status,
		       e.total_cents, COALESCE(e.sent_at, e.created_at),
		       COUNT(*) OVER (), COALESCE(SUM(e.total_cents) OVER (), 0)::bigint
		FROM estimates e
		JOIN customers c ON c.id = e.customer_id
		LEFT JOIN jobs j ON j.id = e.job_id
		WHERE e.company_id = $1 AND (c.name ILIKE $2 OR j.title ILIKE $2)
		ORDER BY e.created_at DESC
		LIMIT $3`, p.CompanyID, likePattern(p.Subject), p.Limit)
	if err != nil {
		return nil, err
	}
	return scanListing(rows)
}

// EstimateConversion reports decided and open estimates; Count is the number
// sent to customers, TotalCents the value of the accepted ones.
func EstimateConversion(ctx context.Context, db *sql.DB, p models.QueryParams) (*models.Aggregate, error) {
	var sent, accepted, declined, acceptedCents int64
	err := db.QueryRowContext(ctx, `
		SELECT COUNT(*) FILTER (WHERE status IN ('sent', 'accepted', 'declined')),
		       COUNT(*) FILTER (WHERE status = 'accepted'),
		       COUNT(*) FILTER (WHERE status = 'declined'),
		       COALESCE(SUM(total_cents) FILTER (WHERE status = 'accepted'), 0)::bigint
		FROM estimates
		WHERE company_id = $1`, p.CompanyID).Scan(&sent, &accepted, &declined, &acceptedCents)
	if err != nil {
		return nil, err
	}

	return &models.Aggregate{
		Count:      int(sent),
		TotalCents: acceptedCents,
		Breakdown: map[string]int64{
			"sent":     sent,
			"accepted": accepted,
			"declined": declined,
		},
	}, nil
}
