// Package dispatch answers one question end to end: classify, validate the
// entities the intent needs, run its query, and hand the result to the
// language model.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	apperrors "matte/internal/common/errors"
	"matte/internal/common/logger"
	"matte/internal/common/metrics"
	"matte/internal/common/observability"
	"matte/internal/matte/intent"
	"matte/internal/matte/llm"
	"matte/internal/matte/prompt"
	"matte/internal/models"
)

var ErrUnauthorized = errors.New("UNAUTHORIZED")

// Outcome says which path produced the reply text.
type Outcome string

const (
	OutcomeAnswered    Outcome = "answered"
	OutcomeFallback    Outcome = "fallback"
	OutcomeRefused     Outcome = "refused"
	OutcomeNoData      Outcome = "no_data"
	OutcomeOutOfScope  Outcome = "out_of_scope"
	OutcomeQueryFailed Outcome = "query_failed"
)

// Store runs the read-only query registered for an intent.
type Store interface {
	Query(ctx context.Context, intent models.Intent, p models.QueryParams) (*models.Aggregate, error)
}

// Completer is the language model.
type Completer interface {
	Complete(ctx context.Context, pair prompt.Pair) (string, error)
}

type Response struct {
	Text     string                  `json:"text"`
	Intent   models.Intent           `json:"intent"`
	Entities models.DetectedEntities `json:"entities"`
	Outcome  Outcome                 `json:"outcome"`
}

type Config struct {
	Location  *time.Location
	StuckDays int
	// Now defaults to time.Now.
	Now func() time.Time
}

type Dispatcher struct {
	classifier *intent.Classifier
	store      Store
	completer  Completer
	location   *time.Location
	stuckDays  int
	now        func() time.Time
	logger     logger.Logger
	obs        *observability.Observability
}

// New wires a dispatcher. completer may be nil, in which case every answer
// that would need the language model gets FallbackText.
func New(cfg Config, classifier *intent.Classifier, store Store, completer Completer, log logger.Logger, obs *observability.Observability) *Dispatcher {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if classifier == nil {
		classifier = intent.NewClassifier()
	}
	return &Dispatcher{
		classifier: classifier,
		store:      store,
		completer:  completer,
		location:   cfg.Location,
		stuckDays:  cfg.StuckDays,
		now:        cfg.Now,
		logger:     log.With(map[string]interface{}{"component": "dispatch"}),
		obs:        obs,
	}
}

// Respond never returns an error for anything but a missing tenant; every
// other failure degrades to a fixed reply.
func (d *Dispatcher) Respond(ctx context.Context, question string, tenant models.TenantContext) (*Response, error) {
	if !tenant.Valid() {
		return nil, ErrUnauthorized
	}

	start := time.Now()
	metrics.QuestionsActive.Inc()
	defer metrics.QuestionsActive.Dec()

	ctx, span := d.obs.Tracer().Start(ctx, "matte.respond")
	defer span.End()

	res := d.classifier.Analyze(question)
	metrics.QuestionsTotal.WithLabelValues(string(res.Intent)).Inc()
	span.SetAttributes(
		attribute.String("matte.intent", string(res.Intent)),
		attribute.String("matte.stage", string(res.Stage)),
	)

	resp := d.respond(ctx, span, question, tenant, res)

	elapsed := time.Since(start)
	span.SetAttributes(attribute.String("matte.outcome", string(resp.Outcome)))
	metrics.QuestionOutcomes.WithLabelValues(string(resp.Intent), string(resp.Outcome)).Inc()
	metrics.RespondDuration.WithLabelValues(string(resp.Intent)).Observe(elapsed.Seconds())
	d.obs.RecordQuestion(ctx, string(resp.Intent), string(resp.Outcome), elapsed)

	d.logger.Info("question answered", map[string]interface{}{
		"companyId":     tenant.CompanyID,
		"intent":        string(resp.Intent),
		"stage":         string(res.Stage),
		"outcome":       string(resp.Outcome),
		"executionTime": elapsed.Milliseconds(),
	})

	return resp, nil
}

func (d *Dispatcher) respond(ctx context.Context, span trace.Span, question string, tenant models.TenantContext, res intent.Result) *Response {
	resp := &Response{Intent: res.Intent, Entities: res.Entities}
	finish := func(outcome Outcome, text string) *Response {
		resp.Outcome = outcome
		resp.Text = text
		return resp
	}

	if res.Intent == models.IntentOutOfScope {
		return finish(OutcomeOutOfScope, OutOfScopeText)
	}

	rt, ok := routes[res.Intent]
	if !ok {
		d.logger.Warn("intent has no route", map[string]interface{}{"intent": string(res.Intent)})
		return finish(OutcomeOutOfScope, OutOfScopeText)
	}

	switch rt.needs {
	case needSubject:
		if !res.Entities.HasSubject() {
			return finish(OutcomeRefused, rt.refusal)
		}
	case needRange:
		if !res.Entities.HasDateRange() {
			return finish(OutcomeRefused, rt.refusal)
		}
	}

	now := d.now()
	params := d.params(rt, res.Entities, tenant, now)

	var (
		agg *models.Aggregate
		err error
	)
	if res.Intent == models.IntentBusinessOverview {
		agg, err = d.overview(ctx, tenant, now)
	} else {
		agg, err = d.query(ctx, res.Intent, params)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "query failed")
		metrics.QueryFailures.WithLabelValues(string(res.Intent)).Inc()
		d.logger.Error("query failed", map[string]interface{}{
			"companyId": tenant.CompanyID,
			"intent":    string(res.Intent),
			"error":     err.Error(),
		})
		return finish(OutcomeQueryFailed, QueryFailedText)
	}

	if agg.Empty() && !rt.zeroValid {
		return finish(OutcomeNoData, rt.noDataText())
	}

	pair := prompt.Build(prompt.Input{
		Intent:    res.Intent,
		Question:  question,
		Entities:  res.Entities,
		Aggregate: agg,
		Range:     params.Range,
		Location:  d.location,
	})

	text, err := d.complete(ctx, pair)
	if err != nil {
		code := llmErrorCode(err)
		metrics.LLMFailures.WithLabelValues(code).Inc()
		d.logger.Warn("language model unavailable, using fallback", map[string]interface{}{
			"intent":    string(res.Intent),
			"errorCode": code,
			"error":     err.Error(),
		})
		return finish(OutcomeFallback, FallbackText)
	}

	return finish(OutcomeAnswered, text)
}

func (d *Dispatcher) params(rt route, e models.DetectedEntities, tenant models.TenantContext, now time.Time) models.QueryParams {
	p := models.QueryParams{
		CompanyID:    tenant.CompanyID,
		Subject:      e.Subject,
		Relationship: e.Relationship,
		Limit:        rt.limit,
		Now:          now,
		StuckBefore:  now.AddDate(0, 0, -d.stuckDays),
	}

	bucket := rt.bucket
	if rt.needs == needRange {
		bucket = e.DateRange
	}
	if bucket != "" {
		p.Range, _ = ResolveRange(bucket, now, d.location)
	}
	return p
}

func (d *Dispatcher) query(ctx context.Context, in models.Intent, p models.QueryParams) (*models.Aggregate, error) {
	ctx, span := d.obs.Tracer().Start(ctx, "matte.query", trace.WithAttributes(attribute.String("matte.intent", string(in))))
	defer span.End()

	if d.store == nil {
		return nil, apperrors.NewInternalError(errors.New("no data store configured"))
	}
	agg, err := d.store.Query(ctx, in, p)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if agg == nil {
		agg = &models.Aggregate{}
	}
	return agg, nil
}

// overview runs the section reports concurrently. The first failure cancels
// the rest and fails the whole overview.
func (d *Dispatcher) overview(ctx context.Context, tenant models.TenantContext, now time.Time) (*models.Aggregate, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sections := prompt.OverviewSections()

	var wg sync.WaitGroup
	var mu sync.Mutex
	results := make(map[string]*models.Aggregate, len(sections))
	errChan := make(chan error, len(sections))

	for _, in := range sections {
		in := in
		p := d.params(routes[in], models.DetectedEntities{}, tenant, now)
		wg.Add(1)
		go func() {
			defer wg.Done()
			agg, err := d.query(ctx, in, p)
			if err != nil {
				errChan <- fmt.Errorf("%s: %w", in, err)
				cancel()
				return
			}
			mu.Lock()
			results[string(in)] = agg
			mu.Unlock()
		}()
	}

	go func() {
		wg.Wait()
		close(errChan)
	}()

	for err := range errChan {
		return nil, err
	}

	return &models.Aggregate{Sections: results}, nil
}

func (d *Dispatcher) complete(ctx context.Context, pair prompt.Pair) (string, error) {
	if d.completer == nil {
		return "", llm.ErrNotConfigured
	}
	ctx, span := d.obs.Tracer().Start(ctx, "matte.llm")
	defer span.End()

	text, err := d.completer.Complete(ctx, pair)
	if err != nil {
		span.RecordError(err)
		return "", err
	}
	return text, nil
}

func llmErrorCode(err error) string {
	switch {
	case errors.Is(err, llm.ErrNotConfigured):
		return string(apperrors.ErrCodeLLMUnavailable)
	case errors.Is(err, llm.ErrTimeout):
		return string(apperrors.ErrCodeLLMTimeout)
	default:
		return string(apperrors.ErrCodeLLMCompletionFailed)
	}
}
