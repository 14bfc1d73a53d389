// internal/models/intent.go
package models

// Intent is the closed set of question categories the router understands.
type Intent string

const (
	IntentAcceptedNoInvoice    Intent = "ACCEPTED_NO_INVOICE"
	IntentOverdueInvoices      Intent = "OVERDUE_INVOICES"
	IntentUnpaidInvoices       Intent = "UNPAID_INVOICES"
	IntentCustomerUnpaidLookup Intent = "CUSTOMER_UNPAID_LOOKUP"
	IntentMaterialsTomorrow    Intent = "MATERIALS_TOMORROW"
	IntentJobsToday            Intent = "JOBS_TODAY"
	IntentJobsTomorrow         Intent = "JOBS_TOMORROW"
	IntentJobsThisWeek         Intent = "JOBS_THIS_WEEK"
	IntentStuckJobs            Intent = "STUCK_JOBS"
	IntentRevenueThisMonth     Intent = "REVENUE_THIS_MONTH"
	IntentRevenueLastMonth     Intent = "REVENUE_LAST_MONTH"
	IntentRevenueTotal         Intent = "REVENUE_TOTAL"
	IntentRecentPayments       Intent = "RECENT_PAYMENTS"
	IntentEstimateConversion   Intent = "ESTIMATE_CONVERSION"
	IntentPendingEstimates     Intent = "PENDING_ESTIMATES"
	IntentJobsByStatus         Intent = "JOBS_BY_STATUS"
	IntentBusinessOverview     Intent = "BUSINESS_OVERVIEW"
	IntentTotalJobs            Intent = "TOTAL_JOBS"
	IntentTotalCustomers       Intent = "TOTAL_CUSTOMERS"

	// Resolved from extracted entities when no rule matched.
	IntentJobLookup      Intent = "JOB_LOOKUP"
	IntentEstimateLookup Intent = "ESTIMATE_LOOKUP"
	IntentMaterialLookup Intent = "MATERIAL_LOOKUP"
	IntentInvoiceLookup  Intent = "INVOICE_LOOKUP"

	IntentOutOfScope Intent = "OUT_OF_SCOPE"
)

// AllIntents lists every intent in declaration order.
var AllIntents = []Intent{
	IntentAcceptedNoInvoice,
	IntentOverdueInvoices,
	IntentUnpaidInvoices,
	IntentCustomerUnpaidLookup,
	IntentMaterialsTomorrow,
	IntentJobsToday,
	IntentJobsTomorrow,
	IntentJobsThisWeek,
	IntentStuckJobs,
	IntentRevenueThisMonth,
	IntentRevenueLastMonth,
	IntentRevenueTotal,
	IntentRecentPayments,
	IntentEstimateConversion,
	IntentPendingEstimates,
	IntentJobsByStatus,
	IntentBusinessOverview,
	IntentTotalJobs,
	IntentTotalCustomers,
	IntentJobLookup,
	IntentEstimateLookup,
	IntentMaterialLookup,
	IntentInvoiceLookup,
	IntentOutOfScope,
}

func (i Intent) String() string {
	return string(i)
}

// Valid reports whether i is one of the declared intents.
func (i Intent) Valid() bool {
	for _, known := range AllIntents {
		if i == known {
			return true
		}
	}
	return false
}
