// Package intent maps a free-text question onto exactly one models.Intent.
//
// Classification runs in fixed stages and stops at the first that produces
// an answer: regex patterns over the rule table, then keyword substrings over
// the same table, then resolution from extracted entities, then OUT_OF_SCOPE.
package intent

import (
	"strings"

	"matte/internal/matte/entities"
	"matte/internal/models"
)

// Stage records which pass produced the intent.
type Stage string

const (
	StagePattern  Stage = "pattern"
	StageKeyword  Stage = "keyword"
	StageEntity   Stage = "entity"
	StageFallback Stage = "fallback"
)

// Result is the full outcome of classifying one question.
type Result struct {
	Intent     models.Intent           `json:"intent"`
	Stage      Stage                   `json:"stage"`
	Entities   models.DetectedEntities `json:"entities"`
	Normalized string                  `json:"normalized"`
}

// Classifier is immutable after construction and safe for concurrent use.
type Classifier struct {
	rules []Rule
}

// NewClassifier uses the built-in rule table.
func NewClassifier() *Classifier {
	return &Classifier{rules: defaultRules}
}

// NewClassifierWithRules is intended for tests that exercise ordering.
func NewClassifierWithRules(rules []Rule) *Classifier {
	return &Classifier{rules: rules}
}

// Classify returns the intent only.
func (c *Classifier) Classify(question string) models.Intent {
	return c.Analyze(question).Intent
}

// Analyze classifies the question and returns the entities alongside, so
// dispatch never extracts twice.
func (c *Classifier) Analyze(question string) Result {
	normalized := entities.Normalize(question)
	detected := entities.ExtractNormalized(question, normalized)

	res := Result{Entities: detected, Normalized: normalized}

	if in, ok := c.matchPatterns(normalized); ok {
		res.Intent, res.Stage = in, StagePattern
		return res
	}
	if in, ok := c.matchKeywords(normalized); ok {
		res.Intent, res.Stage = in, StageKeyword
		return res
	}
	if in, ok := resolveFromEntities(detected); ok {
		res.Intent, res.Stage = in, StageEntity
		return res
	}

	res.Intent, res.Stage = models.IntentOutOfScope, StageFallback
	return res
}

func (c *Classifier) matchPatterns(normalized string) (models.Intent, bool) {
	if normalized == "" {
		return "", false
	}
	for _, r := range c.rules {
		for _, p := range r.Patterns {
			if p.MatchString(normalized) {
				return r.Intent, true
			}
		}
	}
	return "", false
}

func (c *Classifier) matchKeywords(normalized string) (models.Intent, bool) {
	if normalized == "" {
		return "", false
	}
	for _, r := range c.rules {
		for _, kw := range r.Keywords {
			if strings.Contains(normalized, kw) {
				return r.Intent, true
			}
		}
	}
	return "", false
}

// resolveFromEntities covers questions no rule recognized but that still name
// something concrete: a customer or job, or a billing period.
func resolveFromEntities(e models.DetectedEntities) (models.Intent, bool) {
	if e.HasSubject() {
		switch e.DataType {
		case models.DataTypeEstimates:
			return models.IntentEstimateLookup, true
		case models.DataTypeMaterials, models.DataTypePaint:
			return models.IntentMaterialLookup, true
		default:
			return models.IntentJobLookup, true
		}
	}

	if e.HasDateRange() && (e.DataType == models.DataTypeInvoices || e.DataType == models.DataTypePayments) {
		return models.IntentInvoiceLookup, true
	}

	return "", false
}
