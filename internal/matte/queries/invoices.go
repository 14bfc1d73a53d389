package queries

import (
	"context"
	"database/sql"
	"fmt"

	"matte/internal/models"
)

// An invoice is open while anything is left to pay and it was actually issued.
const openInvoice = `i.total_cents > i.amount_paid_cents AND i.status NOT IN ('draft', 'void')`

func UnpaidInvoices(ctx context.Context, db *sql.DB, p models.QueryParams) (*models.Aggregate, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT c.name, COALESCE(i.invoice_number, ''), '', i.status,
		       i.total_cents - i.amount_paid_cents, i.due_date,
		       COUNT(*) OVER (), COALESCE(SUM(i.total_cents - i.amount_paid_cents) OVER (), 0)::bigint
		FROM invoices i
		JOIN customers c ON c.id = i.customer_id
		WHERE i.company_id = $1 AND `+openInvoice+`
		ORDER BY i.due_date ASC NULLS LAST
		LIMIT $2`, p.CompanyID, p.Limit)
	if err != nil {
		return nil, err
	}
	return scanListing(rows)
}

func OverdueInvoices(ctx context.Context, db *sql.DB, p models.QueryParams) (*models.Aggregate, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT c.name, COALESCE(i.invoice_number, ''), '', i.status,
		       i.total_cents - i.amount_paid_cents, i.due_date,
		       COUNT(*) OVER (), COALESCE(SUM(i.total_cents - i.amount_paid_cents) OVER (), 0)::bigint
		FROM invoices i
		JOIN customers c ON c.id = i.customer_id
		WHERE i.company_id = $1 AND `+openInvoice+` AND i.due_date < $2
		ORDER BY i.due_date ASC
		LIMIT $3`, p.CompanyID, p.Now, p.Limit)
	if err != nil {
		return nil, err
	}
	return scanListing(rows)
}

func CustomerUnpaid(ctx context.Context, db *sql.DB, p models.QueryParams) (*models.Aggregate, error) {
	if err := requireSubject(p); err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `
		SELECT c.name, COALESCE(i.invoice_number, ''), '', i.status,
		       i.total_cents - i.amount_paid_cents, i.due_date,
		       COUNT(*) OVER (), COALESCE(SUM(i.total_cents - i.amount_paid_cents) OVER (), 0)::bigint
		FROM invoices i
		JOIN customers c ON c.id = i.customer_id
		WHERE i.company_id = $1 AND `+openInvoice+` AND c.name ILIKE $2
		ORDER BY i.due_date ASC NULLS LAST
		LIMIT $3`, p.CompanyID, likePattern(p.Subject), p.Limit)
	if err != nil {
		return nil, err
	}
	return scanListing(rows)
}

// InvoiceLookup lists invoices issued inside the range, optionally narrowed to
// open or overdue ones.
func InvoiceLookup(ctx context.Context, db *sql.DB, p models.QueryParams) (*models.Aggregate, error) {
	if err := requireRange(p); err != nil {
		return nil, err
	}

	filter := ""
	args := []interface{}{p.CompanyID, p.Range.Start, p.Range.End}
	switch p.Relationship {
	case models.RelationshipUnpaid:
		filter = " AND " + openInvoice
	case models.RelationshipOverdue:
		args = append(args, p.Now)
		filter = fmt.Sprintf(" AND %s AND i.due_date < $%d", openInvoice, len(args))
	}
	args = append(args, p.Limit)

	rows, err := db.QueryContext(ctx, `
		SELECT c.name, COALESCE(i.invoice_number, ''), '', i.status,
		       i.total_cents, i.issued_at,
		       COUNT(*) OVER (), COALESCE(SUM(i.total_cents) OVER (), 0)::bigint
		FROM invoices i
		JOIN customers c ON c.id = i.customer_id
		WHERE i.company_id = $1 AND i.issued_at >= $2 AND i.issued_at < $3`+filter+`
		ORDER BY i.issued_at DESC
		LIMIT $`+fmt.Sprint(len(args)), args...)
	if err != nil {
		return nil, err
	}
	return scanListing(rows)
}

func RecentPayments(ctx context.Context, db *sql.DB, p models.QueryParams) (*models.Aggregate, error) {
	if err := requireRange(p); err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `
		SELECT c.name, COALESCE(i.invoice_number, ''), COALESCE(pm.method, ''), '',
		       pm.amount_cents, pm.paid_at,
		       COUNT(*) OVER (), COALESCE(SUM(pm.amount_cents) OVER (), 0)::bigint
		FROM payments pm
		JOIN invoices i ON i.id = pm.invoice_id
		JOIN customers c ON c.id = i.customer_id
		WHERE pm.company_id = $1 AND pm.paid_at >= $2 AND pm.paid_at < $3
		ORDER BY pm.paid_at DESC
		LIMIT $4`, p.CompanyID, p.Range.Start, p.Range.End, p.Limit)
	if err != nil {
		return nil, err
	}
	return scanListing(rows)
}

func RevenueBetween(ctx context.Context, db *sql.DB, p models.QueryParams) (*models.Aggregate, error) {
	if err := requireRange(p); err != nil {
		return nil, err
	}

	return scanTotals(db.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(amount_cents), 0)::bigint
		FROM payments
		WHERE company_id = $1 AND paid_at >= $2 AND paid_at < $3`,
		p.CompanyID, p.Range.Start, p.Range.End))
}

func RevenueTotal(ctx context.Context, db *sql.DB, p models.QueryParams) (*models.Aggregate, error) {
	return scanTotals(db.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(amount_cents), 0)::bigint
		FROM payments
		WHERE company_id = $1`, p.CompanyID))
}
