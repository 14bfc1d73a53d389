package dispatch

import "matte/internal/models"

// Fixed replies that never involve the language model.
const (
	OutOfScopeText = "I can answer questions about your jobs, estimates, invoices, payments and materials. " +
		"Try something like \"Who hasn't paid?\" or \"What jobs do I have today?\""
	NoDataText      = "I couldn't find anything in your account that matches that."
	QueryFailedText = "Sorry, I couldn't load your numbers right now. Please try again in a moment."
	FallbackText    = "I have your numbers but couldn't put an answer together right now. Please try again shortly."
)

type requirement int

const (
	needNothing requirement = iota
	needSubject
	needRange
)

// route is everything dispatch needs to know about one intent besides its
// query and template.
type route struct {
	// bucket is the fixed window for date-scoped reports. Lookups that need
	// a range take it from the question instead.
	bucket    models.DateBucket
	needs     requirement
	zeroValid bool
	limit     int
	refusal   string
	noData    string
}

var routes = map[models.Intent]route{
	models.IntentAcceptedNoInvoice: {limit: 10, noData: "Every accepted estimate already has an invoice."},
	models.IntentOverdueInvoices:   {limit: 20, noData: "Nothing is overdue right now."},
	models.IntentUnpaidInvoices:    {limit: 20, noData: "Everyone is paid up. You have no open invoices."},
	models.IntentCustomerUnpaidLookup: {
		needs:   needSubject,
		limit:   10,
		refusal: "Which customer do you mean? Try including their name, like \"Does Smith owe me anything?\"",
		noData:  "I don't see any open invoices for that customer.",
	},
	models.IntentMaterialsTomorrow:  {bucket: models.DateBucketTomorrow, limit: 20, noData: "I don't see any materials listed for tomorrow's jobs."},
	models.IntentJobsToday:          {bucket: models.DateBucketToday, zeroValid: true, limit: 10},
	models.IntentJobsTomorrow:       {bucket: models.DateBucketTomorrow, zeroValid: true, limit: 10},
	models.IntentJobsThisWeek:       {bucket: models.DateBucketCalendarWeek, zeroValid: true, limit: 20},
	models.IntentStuckJobs:          {limit: 10, noData: "None of your active jobs look stuck."},
	models.IntentRevenueThisMonth:   {bucket: models.DateBucketThisMonth, zeroValid: true},
	models.IntentRevenueLastMonth:   {bucket: models.DateBucketLastMonth, zeroValid: true},
	models.IntentRevenueTotal:       {zeroValid: true},
	models.IntentRecentPayments:     {bucket: models.DateBucketLast30Days, limit: 10, noData: "No payments have come in over the last 30 days."},
	models.IntentEstimateConversion: {zeroValid: true},
	models.IntentPendingEstimates:   {limit: 10, noData: "No estimates are waiting on a customer decision."},
	models.IntentJobsByStatus:       {zeroValid: true},
	models.IntentBusinessOverview:   {zeroValid: true},
	models.IntentTotalJobs:          {zeroValid: true},
	models.IntentTotalCustomers:     {zeroValid: true},
	models.IntentJobLookup: {
		needs:   needSubject,
		limit:   10,
		refusal: "Which job do you mean? Try including the customer's name, like \"How is the Smith job going?\"",
		noData:  "I couldn't find a job matching that name.",
	},
	models.IntentEstimateLookup: {
		needs:   needSubject,
		limit:   10,
		refusal: "Which estimate do you mean? Try including the customer's name, like \"What's the estimate for Smith?\"",
		noData:  "I couldn't find an estimate matching that name.",
	},
	models.IntentMaterialLookup: {
		needs:   needSubject,
		limit:   20,
		refusal: "Which job are the materials for? Try including the customer's name, like \"What paint do I need for the Smith job?\"",
		noData:  "I don't see any materials listed for that job.",
	},
	models.IntentInvoiceLookup: {
		needs:   needRange,
		limit:   20,
		refusal: "Which period do you mean? Try \"invoices from last month\" or \"payments from last month\".",
		noData:  "I don't see any invoices in that period.",
	},
}

// ZeroValid reports whether an empty result is still a real answer for intent.
func ZeroValid(intent models.Intent) bool {
	return routes[intent].zeroValid
}

func (r route) noDataText() string {
	if r.noData != "" {
		return r.noData
	}
	return NoDataText
}
