// Package entities pulls the structured hints a question carries: what kind
// of record it is about, which state that record is in, which period it covers
// and which customer or job it names.
package entities

import (
	"regexp"
	"strings"

	"matte/internal/models"
)

type dataTypeRule struct {
	dataType models.DataType
	re       *regexp.Regexp
}

type relationshipRule struct {
	relationship models.Relationship
	re           *regexp.Regexp
}

type dateRule struct {
	bucket models.DateBucket
	re     *regexp.Regexp
}

// Each table is evaluated top to bottom, first match wins.
var (
	dataTypeRules = []dataTypeRule{
		{models.DataTypeEstimates, regexp.MustCompile(`\b(?:estimates?|quotes?|bids?|proposals?)\b`)},
		{models.DataTypeMaterials, regexp.MustCompile(`\b(?:materials?|supplies|supply)\b`)},
		{models.DataTypePaint, regexp.MustCompile(`\b(?:paints?|gallons?|primer|stain|colou?rs?)\b`)},
		{models.DataTypeInvoices, regexp.MustCompile(`\b(?:invoices?|invoiced|bills?|billed|billing)\b`)},
		{models.DataTypePayments, regexp.MustCompile(`\b(?:payments?|paid|pay|deposits?|collected)\b`)},
		{models.DataTypeCustomers, regexp.MustCompile(`\b(?:customers?|clients?|homeowners?)\b`)},
		{models.DataTypeJobs, regexp.MustCompile(`\b(?:jobs?|projects?|work\s+orders?|appointments?|scheduled?)\b`)},
	}

	relationshipRules = []relationshipRule{
		{models.RelationshipAcceptedNoInvoice, regexp.MustCompile(
			`\baccepted\b.*\b(?:no|not|without|never|don't|dont|doesn't|doesnt|haven't|havent|hasn't|hasnt|missing)\b.*\binvoic|\b(?:not|never)\s+(?:been\s+|yet\s+)?invoiced\b|\buninvoiced\b`)},
		{models.RelationshipUnpaid, regexp.MustCompile(
			`\b(?:unpaid|outstanding|owes?|owed|owing)\b|\b(?:hasn't|hasnt|haven't|havent|has\s+not|have\s+not|not|didn't|didnt|did\s+not)\s+(?:been\s+|yet\s+)?(?:paid|pay)\b`)},
		{models.RelationshipOverdue, regexp.MustCompile(`\b(?:overdue|past[\s-]due|late)\b`)},
	}

	dateRules = []dateRule{
		{models.DateBucketToday, regexp.MustCompile(`\b(?:today|tonight)\b`)},
		{models.DateBucketTomorrow, regexp.MustCompile(`\btomorrow\b`)},
		{models.DateBucketThisWeek, regexp.MustCompile(`\bthis\s+week\b`)},
		{models.DateBucketLastMonth, regexp.MustCompile(`\blast\s+month\b`)},
	}

	// Run against the original casing: a capitalized word is the only signal
	// that separates a name from an ordinary noun.
	prepositionSubject = regexp.MustCompile(
		`\b(?i:for|job|customer|client|about|at|with)\s+(?:(?i:the)\s+)?([A-Z][a-zA-Z'\-]*(?:\s+[A-Z][a-zA-Z'\-]*)?)`)
	debtorSubject = regexp.MustCompile(
		`\b(?i:does|did|do|has|have)\s+(?:(?i:the)\s+)?([A-Z][a-zA-Z'\-]*(?:\s+[A-Z][a-zA-Z'\-]*)?)\s+(?i:still\s+)?(?i:owes?|pay|paid)\b`)
	nounSubject = regexp.MustCompile(
		`\b([A-Z][a-zA-Z'\-]*)\s+(?i:job|jobs|exterior|interior|project|house|home|residence|estimate|invoice|kitchen|deck|bathroom|repaint)\b`)
)

// Capitalized only because they open a sentence.
var subjectStopwords = map[string]struct{}{
	"What": {}, "Which": {}, "Who": {}, "How": {}, "When": {}, "Where": {}, "Why": {},
	"Show": {}, "Tell": {}, "List": {}, "Give": {}, "Is": {}, "Are": {}, "Do": {},
	"Does": {}, "Did": {}, "Can": {}, "Any": {}, "All": {}, "My": {}, "The": {},
	"This": {}, "Next": {}, "Last": {}, "I": {}, "Each": {}, "Every": {},
}

var apostrophes = strings.NewReplacer("’", "'", "‘", "'")

// Normalize lower-cases the question and collapses whitespace. Curly
// apostrophes become straight ones so contractions match.
func Normalize(question string) string {
	return strings.ToLower(strings.Join(strings.Fields(apostrophes.Replace(question)), " "))
}

// Extract runs every extractor over the question. It never fails; absent
// fields stay empty.
func Extract(question string) models.DetectedEntities {
	return ExtractNormalized(question, Normalize(question))
}

// ExtractNormalized lets callers that already normalized the text skip a pass.
// original keeps its casing for the subject identifier.
func ExtractNormalized(original, normalized string) models.DetectedEntities {
	return models.DetectedEntities{
		DataType:     DataType(normalized),
		Relationship: Relationship(normalized),
		DateRange:    DateRange(normalized),
		Subject:      Subject(apostrophes.Replace(original)),
	}
}

func DataType(normalized string) models.DataType {
	for _, r := range dataTypeRules {
		if r.re.MatchString(normalized) {
			return r.dataType
		}
	}
	return ""
}

func Relationship(normalized string) models.Relationship {
	for _, r := range relationshipRules {
		if r.re.MatchString(normalized) {
			return r.relationship
		}
	}
	return ""
}

func DateRange(normalized string) models.DateBucket {
	for _, r := range dateRules {
		if r.re.MatchString(normalized) {
			return r.bucket
		}
	}
	return ""
}

// Subject returns the customer or job name in original. The preposition form
// falls back to the "does Smith owe" form; when the noun form also matches, it
// wins. Sentence-opening words are never taken as names.
func Subject(original string) string {
	subject := ""
	if m := firstSubject(prepositionSubject, original); m != "" {
		subject = m
	} else if m := firstSubject(debtorSubject, original); m != "" {
		subject = m
	}
	if m := firstSubject(nounSubject, original); m != "" {
		subject = m
	}
	return subject
}

func firstSubject(re *regexp.Regexp, text string) string {
	for _, m := range re.FindAllStringSubmatch(text, -1) {
		candidate := strings.TrimSpace(m[1])
		if _, stop := subjectStopwords[firstWord(candidate)]; stop {
			continue
		}
		return candidate
	}
	return ""
}

func firstWord(s string) string {
	if i := strings.IndexByte(s, ' '); i >= 0 {
		return s[:i]
	}
	return s
}
