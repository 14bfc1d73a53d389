// Package cache puts a short-lived Redis read-through layer in front of the
// aggregate queries.
package cache

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"matte/internal/common/logger"
	"matte/internal/models"
)

const keyPrefix = "matte:q:"

// Querier is anything that can answer an intent with an aggregate.
type Querier interface {
	Query(ctx context.Context, intent models.Intent, p models.QueryParams) (*models.Aggregate, error)
}

// Store caches successful, non-empty results per tenant and query shape.
// Redis failures are logged and fall through to the wrapped Querier.
type Store struct {
	next   Querier
	client *redis.Client
	ttl    time.Duration
	logger logger.Logger
}

func New(next Querier, client *redis.Client, ttl time.Duration, log logger.Logger) *Store {
	return &Store{
		next:   next,
		client: client,
		ttl:    ttl,
		logger: log.With(map[string]interface{}{"component": "query-cache"}),
	}
}

func (s *Store) Query(ctx context.Context, intent models.Intent, p models.QueryParams) (*models.Aggregate, error) {
	if s.client == nil || s.ttl <= 0 {
		return s.next.Query(ctx, intent, p)
	}

	key := Key(intent, p)
	if val, err := s.client.Get(ctx, key).Result(); err == nil {
		var agg models.Aggregate
		if err := json.Unmarshal([]byte(val), &agg); err == nil {
			return &agg, nil
		}
		s.logger.Warn("discarding undecodable cache entry", map[string]interface{}{"key": key})
	} else if err != redis.Nil {
		s.logger.Warn("cache read failed", map[string]interface{}{"key": key, "error": err.Error()})
	}

	agg, err := s.next.Query(ctx, intent, p)
	if err != nil {
		return nil, err
	}

	if !agg.Empty() {
		data, _ := json.Marshal(agg)
		if err := s.client.Set(ctx, key, data, s.ttl).Err(); err != nil {
			s.logger.Warn("cache write failed", map[string]interface{}{"key": key, "error": err.Error()})
		}
	}

	return agg, nil
}

// Key identifies one query shape for one tenant. Ranges are keyed by their
// Unix bounds so the same window resolved in different zones shares an entry.
func Key(intent models.Intent, p models.QueryParams) string {
	parts := []string{
		p.CompanyID,
		string(intent),
		strings.ToLower(p.Subject),
		string(p.Relationship),
		unix(p.Range.Start),
		unix(p.Range.End),
		strconv.Itoa(p.Limit),
	}
	if intent == models.IntentOverdueInvoices || intent == models.IntentStuckJobs ||
		(intent == models.IntentInvoiceLookup && p.Relationship == models.RelationshipOverdue) {
		// these depend on the clock, not just the range
		parts = append(parts, unix(p.Now.Truncate(time.Minute)), unix(p.StuckBefore.Truncate(time.Minute)))
	}
	return keyPrefix + strings.Join(parts, ":")
}

func unix(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return strconv.FormatInt(t.Unix(), 10)
}
