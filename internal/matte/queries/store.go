package queries

import (
	"context"
	"database/sql"
	"errors"
	"time"

	apperrors "matte/internal/common/errors"
	"matte/internal/common/logger"
	"matte/internal/models"
)

// PostgresStore runs registered queries with a per-query deadline.
type PostgresStore struct {
	db      *sql.DB
	timeout time.Duration
	logger  logger.Logger
}

func NewPostgresStore(db *sql.DB, timeout time.Duration, log logger.Logger) *PostgresStore {
	return &PostgresStore{
		db:      db,
		timeout: timeout,
		logger:  log.With(map[string]interface{}{"component": "postgres-store"}),
	}
}

// Query executes the query registered for intent. Failures come back as
// *apperrors.StandardError.
func (s *PostgresStore) Query(ctx context.Context, intent models.Intent, p models.QueryParams) (*models.Aggregate, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	agg, execMs, err := Execute(ctx, s.db, intent, p)
	if err != nil {
		switch {
		case errors.Is(err, ErrUnknownQueryType):
			return nil, apperrors.NewInvalidQueryTypeError(string(intent))
		case errors.Is(err, context.DeadlineExceeded), errors.Is(ctx.Err(), context.DeadlineExceeded):
			return nil, apperrors.NewQueryTimeoutError(string(intent))
		default:
			return nil, apperrors.NewQueryExecutionFailedError(string(intent), err)
		}
	}

	s.logger.Debug("query executed", map[string]interface{}{
		"intent":        string(intent),
		"companyId":     p.CompanyID,
		"count":         agg.Count,
		"rows":          len(agg.Rows),
		"executionTime": execMs,
	})

	return agg, nil
}
