package intent

import (
	"regexp"

	"matte/internal/models"
)

// Rule binds an intent to the phrasings that select it. Patterns are tried
// in the first pass, keywords (plain substrings) in the second.
type Rule struct {
	Intent   models.Intent
	Patterns []*regexp.Regexp
	Keywords []string
}

type ruleDef struct {
	intent   models.Intent
	patterns []string
	keywords []string
}

// Declaration order is the tie-break: narrower rules sit above the broader
// ones they overlap with. Keywords must never be bare record nouns such as
// "estimate" or "invoice", or they would swallow named-subject lookups.
var ruleDefs = []ruleDef{
	{
		intent: models.IntentAcceptedNoInvoice,
		patterns: []string{
			`\baccepted\b.*\b(?:no|not|without|never|don't|dont|doesn't|doesnt|haven't|havent|hasn't|hasnt|missing)\b.*\binvoic`,
			`\b(?:estimates?|quotes?|bids?|jobs?)\b.*\b(?:not|never)\s+(?:been\s+|yet\s+)?invoiced\b`,
			`\b(?:need|needs|ready)\s+(?:to\s+be\s+)?invoiced\b`,
		},
		keywords: []string{"uninvoiced", "not invoiced", "not yet invoiced"},
	},
	{
		intent: models.IntentOverdueInvoices,
		patterns: []string{
			`\b(?:overdue|past[\s-]due|late)\b.*\b(?:invoices?|payments?|bills?|balances?)\b`,
			`\b(?:invoices?|payments?|bills?)\b.*\b(?:overdue|past[\s-]due|late)\b`,
		},
		keywords: []string{"overdue", "past due"},
	},
	{
		intent: models.IntentUnpaidInvoices,
		patterns: []string{
			`\bwho\s+(?:hasn't|hasnt|has\s+not|haven't|havent|have\s+not|didn't|didnt|did\s+not)\s+(?:yet\s+)?(?:paid|pay)\b`,
			`\b(?:anyone|anybody|who|customers?|clients?)\b.*\b(?:owes?|owing|owed)\b`,
			`\bunpaid\b`,
			`\boutstanding\s+(?:invoices?|balances?|payments?|money)\b`,
			`\bmoney\s+(?:owed|outstanding)\b`,
			`\breceivables?\b`,
		},
		keywords: []string{"owed to me", "owe me", "need to collect", "left to collect", "still to collect", "collect from"},
	},
	{
		intent: models.IntentCustomerUnpaidLookup,
		patterns: []string{
			`\b(?:does|did|do)\s+(?:the\s+)?[a-z][a-z'\-]*(?:\s+[a-z][a-z'\-]*)?\s+(?:still\s+)?(?:owe|pay|paid)\b`,
			`\b(?:balance|owed|owing)\s+(?:for|on|from|by)\s+[a-z]`,
		},
		keywords: []string{"balance for", "balance on"},
	},
	{
		intent: models.IntentMaterialsTomorrow,
		patterns: []string{
			`\b(?:materials?|supplies|paint|gallons?|primer)\b.*\btomorrow\b`,
			`\btomorrow\b.*\b(?:materials?|supplies|paint|gallons?|primer)\b`,
		},
	},
	{
		intent: models.IntentJobsToday,
		patterns: []string{
			`\b(?:jobs?|scheduled?|working|crews?|appointments?|booked)\b.*\btoday\b`,
			`\btoday(?:'s)?\b.*\b(?:jobs?|schedule|appointments?|work)\b`,
			`\bwhere\s+(?:are|is)\s+(?:my\s+)?crews?\b`,
		},
		keywords: []string{"today"},
	},
	{
		intent: models.IntentJobsTomorrow,
		patterns: []string{
			`\b(?:jobs?|scheduled?|working|crews?|appointments?|booked)\b.*\btomorrow\b`,
			`\btomorrow(?:'s)?\b.*\b(?:jobs?|schedule|appointments?|work)\b`,
		},
		keywords: []string{"tomorrow"},
	},
	{
		intent: models.IntentJobsThisWeek,
		patterns: []string{
			`\b(?:jobs?|scheduled?|working|crews?|appointments?|booked)\b.*\bthis\s+week\b`,
			`\bthis\s+week(?:'s)?\b.*\b(?:jobs?|schedule|appointments?|work)\b`,
		},
		keywords: []string{"this week"},
	},
	{
		intent: models.IntentStuckJobs,
		patterns: []string{
			`\b(?:stuck|stalled|on\s+hold|idle|behind\s+schedule)\b`,
			`\bno\s+(?:activity|progress|movement)\b`,
			`\bhaven't\s+(?:moved|progressed)\b`,
		},
		keywords: []string{"stuck", "stalled", "sitting"},
	},
	{
		intent: models.IntentRevenueThisMonth,
		patterns: []string{
			`\b(?:revenue|income|sales|made|make|earned|earn|brought\s+in|bring\s+in|collected|collect)\b.*\bthis\s+month\b`,
			`\bthis\s+month(?:'s)?\s+(?:revenue|income|sales)\b`,
		},
		keywords: []string{"month to date", "mtd"},
	},
	{
		intent: models.IntentRevenueLastMonth,
		patterns: []string{
			`\b(?:revenue|income|sales|made|make|earned|earn|brought\s+in|bring\s+in|collected|collect)\b.*\blast\s+month\b`,
			`\blast\s+month(?:'s)?\s+(?:revenue|income|sales)\b`,
		},
	},
	{
		intent: models.IntentRevenueTotal,
		patterns: []string{
			`\b(?:revenue|income|sales)\b`,
			`\bhow\s+much\s+(?:money\s+)?(?:have\s+i|did\s+i|i've|i\s+have|have\s+we|did\s+we|we've)\s+(?:made|make|earned|earn|brought\s+in|collected|collect)\b`,
		},
		keywords: []string{"earnings"},
	},
	{
		intent: models.IntentRecentPayments,
		patterns: []string{
			`\b(?:recent|latest|last|new)\s+payments?\b`,
			`\bpayments?\s+(?:received|came\s+in|coming\s+in)\b`,
			`\bwho\s+(?:has\s+|just\s+)?paid\b`,
		},
		keywords: []string{"payments received", "got paid"},
	},
	{
		intent: models.IntentEstimateConversion,
		patterns: []string{
			`\b(?:conversion|close|closing|win|acceptance)\s+rate\b`,
			`\bhow\s+many\s+(?:estimates?|quotes?|bids?)\s+(?:were\s+|have\s+been\s+|did\s+i\s+)?(?:accepted|won|closed|converted|approved)\b`,
			`\bpercent(?:age)?\s+of\s+(?:estimates?|quotes?|bids?)\b`,
		},
		keywords: []string{"conversion", "close rate", "win rate"},
	},
	{
		intent: models.IntentPendingEstimates,
		patterns: []string{
			`\b(?:pending|open|outstanding|unanswered|waiting|sent)\s+(?:estimates?|quotes?|bids?|proposals?)\b`,
			`\b(?:estimates?|quotes?|bids?)\s+(?:waiting|pending|awaiting|still\s+out)\b`,
			`\bhaven't\s+(?:heard\s+back|responded|replied)\b`,
		},
		keywords: []string{"pending estimates", "open estimates", "follow up"},
	},
	{
		intent: models.IntentJobsByStatus,
		patterns: []string{
			`\bjobs?\s+by\s+status\b`,
			`\bstatus\s+of\s+(?:my\s+|all\s+)?jobs\b`,
			`\bhow\s+many\s+jobs?\s+(?:are\s+)?(?:in\s+progress|scheduled|completed|done|finished|active|open|pending)\b`,
			`\bjobs?\s+(?:are\s+)?in\s+progress\b`,
		},
		keywords: []string{"by status", "in progress", "pipeline"},
	},
	{
		intent: models.IntentBusinessOverview,
		patterns: []string{
			`\bhow(?:'s|\s+is)\s+(?:my\s+|the\s+)?business\b`,
			`\bhow\s+(?:am\s+i|are\s+we)\s+doing\b`,
			`\b(?:overview|summary|snapshot|rundown|dashboard)\b`,
		},
		keywords: []string{"big picture", "catch me up"},
	},
	{
		intent: models.IntentTotalJobs,
		patterns: []string{
			`\bhow\s+many\s+(?:total\s+)?jobs?\b`,
			`\btotal\s+(?:number\s+of\s+)?jobs?\b`,
			`\bnumber\s+of\s+jobs?\b`,
			`\bjob\s+count\b`,
		},
		keywords: []string{"jobs"},
	},
	{
		intent: models.IntentTotalCustomers,
		patterns: []string{
			`\bhow\s+many\s+(?:total\s+)?(?:customers?|clients?)\b`,
			`\btotal\s+(?:number\s+of\s+)?(?:customers?|clients?)\b`,
			`\bnumber\s+of\s+(?:customers?|clients?)\b`,
			`\bcustomer\s+count\b`,
		},
		keywords: []string{"customers", "clients"},
	},
}

var defaultRules = compileRules(ruleDefs)

func compileRules(defs []ruleDef) []Rule {
	out := make([]Rule, 0, len(defs))
	for _, d := range defs {
		r := Rule{Intent: d.intent, Keywords: d.keywords}
		for _, p := range d.patterns {
			r.Patterns = append(r.Patterns, regexp.MustCompile(p))
		}
		out = append(out, r)
	}
	return out
}

// DefaultRules returns a copy of the built-in rule table in declaration order.
func DefaultRules() []Rule {
	out := make([]Rule, len(defaultRules))
	copy(out, defaultRules)
	return out
}
