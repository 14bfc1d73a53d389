// Package prompt turns an intent and its aggregate into the system and user
// messages sent to the language model.
package prompt

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"matte/internal/models"
)

const baseSystem = "You are Matte, the business assistant inside a painting contractor's job management software. " +
	"Answer the owner's question using ONLY the data provided in the message. Never invent customers, jobs or amounts. " +
	"Amounts are already formatted in dollars. Reply in two to four short sentences of plain language without tables or markdown."

// Pair is what the language model receives.
type Pair struct {
	System string `json:"system"`
	User   string `json:"user"`
}

// Input carries everything a template may interpolate.
type Input struct {
	Intent    models.Intent
	Question  string
	Entities  models.DetectedEntities
	Aggregate *models.Aggregate
	Range     models.DateRange
	Location  *time.Location
}

type template struct {
	focus      string
	countLabel string
	totalLabel string
	rowsLabel  string
	dateLabel  string
}

var templates = map[models.Intent]template{
	models.IntentAcceptedNoInvoice: {
		focus:      "The owner wants accepted estimates that still have no invoice. Say how many there are and how much work is waiting to be billed, then name the biggest ones.",
		countLabel: "Accepted estimates without an invoice",
		totalLabel: "Value not yet invoiced",
		rowsLabel:  "Estimates",
		dateLabel:  "accepted",
	},
	models.IntentOverdueInvoices: {
		focus:      "The owner wants invoices that are past their due date. Lead with the count and total overdue, then name the oldest ones.",
		countLabel: "Overdue invoices",
		totalLabel: "Total overdue",
		rowsLabel:  "Invoices",
		dateLabel:  "due",
	},
	models.IntentUnpaidInvoices: {
		focus:      "The owner wants to know who still owes them money. Lead with the number of open invoices and the total outstanding, then name customers with the largest balances.",
		countLabel: "Unpaid invoices",
		totalLabel: "Total outstanding",
		rowsLabel:  "Invoices",
		dateLabel:  "due",
	},
	models.IntentCustomerUnpaidLookup: {
		focus:      "The owner asked whether one customer owes them money. Answer yes or no first, then give the balance.",
		countLabel: "Open invoices for this customer",
		totalLabel: "Balance owed",
		rowsLabel:  "Invoices",
		dateLabel:  "due",
	},
	models.IntentMaterialsTomorrow: {
		focus:      "The owner wants the materials needed for tomorrow's jobs. List products with quantities grouped by job so a crew lead can load the truck.",
		countLabel: "Material lines",
		totalLabel: "Material cost",
		rowsLabel:  "Materials",
		dateLabel:  "job date",
	},
	models.IntentJobsToday: {
		focus:      "The owner wants today's schedule. Say how many jobs are on the books today; if there are none, say the day is clear.",
		countLabel: "Jobs scheduled today",
		rowsLabel:  "Jobs",
		dateLabel:  "scheduled",
	},
	models.IntentJobsTomorrow: {
		focus:      "The owner wants tomorrow's schedule. Say how many jobs are planned tomorrow; if there are none, say tomorrow is open.",
		countLabel: "Jobs scheduled tomorrow",
		rowsLabel:  "Jobs",
		dateLabel:  "scheduled",
	},
	models.IntentJobsThisWeek: {
		focus:      "The owner wants this week's schedule. Give the number of jobs this week and walk through them by day.",
		countLabel: "Jobs scheduled this week",
		rowsLabel:  "Jobs",
		dateLabel:  "scheduled",
	},
	models.IntentStuckJobs: {
		focus:      "The owner wants active jobs that have not moved in a while. Name them with how long they have been idle.",
		countLabel: "Stalled jobs",
		rowsLabel:  "Jobs",
		dateLabel:  "last updated",
	},
	models.IntentRevenueThisMonth: {
		focus:      "The owner wants money collected so far this month. Give the total and the number of payments; zero is a real answer.",
		countLabel: "Payments received",
		totalLabel: "Revenue collected",
	},
	models.IntentRevenueLastMonth: {
		focus:      "The owner wants money collected last month. Give the total and the number of payments; zero is a real answer.",
		countLabel: "Payments received",
		totalLabel: "Revenue collected",
	},
	models.IntentRevenueTotal: {
		focus:      "The owner wants all-time revenue collected. Give the total and the number of payments.",
		countLabel: "Payments received",
		totalLabel: "Revenue collected",
	},
	models.IntentRecentPayments: {
		focus:      "The owner wants recent payments. Give the count and total, then list who paid and when.",
		countLabel: "Payments in the last 30 days",
		totalLabel: "Amount received",
		rowsLabel:  "Payments",
		dateLabel:  "paid",
	},
	models.IntentEstimateConversion: {
		focus:      "The owner wants their estimate close rate. State the rate and the counts behind it.",
		countLabel: "Estimates sent",
		totalLabel: "Value of accepted estimates",
	},
	models.IntentPendingEstimates: {
		focus:      "The owner wants estimates still waiting on a customer decision. Give the count and total value, then name the oldest ones worth following up.",
		countLabel: "Estimates awaiting a decision",
		totalLabel: "Value pending",
		rowsLabel:  "Estimates",
		dateLabel:  "sent",
	},
	models.IntentJobsByStatus: {
		focus:      "The owner wants their jobs broken down by status. Give each status with its count.",
		countLabel: "Jobs",
	},
	models.IntentBusinessOverview: {
		focus: "The owner wants a quick read on how the business is doing. Summarize today's schedule, money owed, open estimates and this month's revenue in that order.",
	},
	models.IntentTotalJobs: {
		focus:      "The owner wants how many jobs they have. Give the number; zero is a real answer.",
		countLabel: "Jobs",
		totalLabel: "Total contract value",
	},
	models.IntentTotalCustomers: {
		focus:      "The owner wants how many customers they have. Give the number; zero is a real answer.",
		countLabel: "Customers",
	},
	models.IntentJobLookup: {
		focus:      "The owner asked about a specific job or customer. Describe its status, schedule and value.",
		countLabel: "Matching jobs",
		totalLabel: "Contract value",
		rowsLabel:  "Jobs",
		dateLabel:  "scheduled",
	},
	models.IntentEstimateLookup: {
		focus:      "The owner asked about an estimate for a specific customer or job. Give its amount and status.",
		countLabel: "Matching estimates",
		totalLabel: "Estimated value",
		rowsLabel:  "Estimates",
		dateLabel:  "sent",
	},
	models.IntentMaterialLookup: {
		focus:      "The owner asked what materials a specific job needs. List products with quantities.",
		countLabel: "Material lines",
		totalLabel: "Material cost",
		rowsLabel:  "Materials",
		dateLabel:  "job date",
	},
	models.IntentInvoiceLookup: {
		focus:      "The owner asked about invoices in a period. Give the count and total, then the notable ones.",
		countLabel: "Invoices",
		totalLabel: "Invoiced amount",
		rowsLabel:  "Invoices",
		dateLabel:  "issued",
	},
}

// Supported reports whether intent has a template.
func Supported(intent models.Intent) bool {
	_, ok := templates[intent]
	return ok
}

// Build assembles the pair for in. Intents without a template get the base
// system prompt and a bare data block.
func Build(in Input) Pair {
	if in.Location == nil {
		in.Location = time.UTC
	}
	tpl := templates[in.Intent]

	system := baseSystem
	if tpl.focus != "" {
		system += "\n\n" + tpl.focus
	}

	var parts []string
	parts = append(parts, fmt.Sprintf("Question: %s", strings.TrimSpace(in.Question)))
	if in.Entities.Subject != "" {
		parts = append(parts, fmt.Sprintf("Customer or job: %s", in.Entities.Subject))
	}
	if !in.Range.IsZero() {
		parts = append(parts, fmt.Sprintf("Period: %s", FormatRange(in.Range, in.Location)))
	}

	parts = append(parts, "\nData:")
	if in.Intent == models.IntentBusinessOverview {
		parts = append(parts, overviewLines(in.Aggregate, in.Location)...)
	} else {
		parts = append(parts, dataLines(in.Intent, tpl, in.Aggregate, in.Location)...)
	}

	return Pair{System: system, User: strings.Join(parts, "\n")}
}

func dataLines(intent models.Intent, tpl template, agg *models.Aggregate, loc *time.Location) []string {
	if agg == nil {
		agg = &models.Aggregate{}
	}

	var lines []string
	if tpl.countLabel != "" {
		lines = append(lines, fmt.Sprintf("%s: %d", tpl.countLabel, agg.Count))
	}
	if tpl.totalLabel != "" {
		lines = append(lines, fmt.Sprintf("%s: %s", tpl.totalLabel, FormatCents(agg.TotalCents)))
	}

	if intent == models.IntentEstimateConversion {
		accepted, declined := agg.Breakdown["accepted"], agg.Breakdown["declined"]
		lines = append(lines,
			fmt.Sprintf("Accepted: %d", accepted),
			fmt.Sprintf("Declined: %d", declined),
			fmt.Sprintf("Still open: %d", agg.Breakdown["sent"]-accepted-declined),
			fmt.Sprintf("Close rate: %s", Percent(accepted, agg.Breakdown["sent"])),
		)
	} else if len(agg.Breakdown) > 0 {
		keys := make([]string, 0, len(agg.Breakdown))
		for k := range agg.Breakdown {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			lines = append(lines, fmt.Sprintf("- %s: %d", humanize(k), agg.Breakdown[k]))
		}
	}

	if len(agg.Rows) > 0 {
		label := tpl.rowsLabel
		if label == "" {
			label = "Records"
		}
		if agg.Truncated() {
			lines = append(lines, fmt.Sprintf("%s (showing %d of %d):", label, len(agg.Rows), agg.Count))
		} else {
			lines = append(lines, label+":")
		}
		for _, row := range agg.Rows {
			lines = append(lines, rowLine(row, tpl.dateLabel, loc))
		}
	}

	return lines
}

var overviewOrder = []models.Intent{
	models.IntentJobsToday,
	models.IntentUnpaidInvoices,
	models.IntentPendingEstimates,
	models.IntentRevenueThisMonth,
}

// OverviewSections lists the reports the overview is made of, in prompt order.
func OverviewSections() []models.Intent {
	return append([]models.Intent(nil), overviewOrder...)
}

func overviewLines(agg *models.Aggregate, loc *time.Location) []string {
	var lines []string
	for _, in := range overviewOrder {
		var section *models.Aggregate
		if agg != nil {
			section = agg.Sections[string(in)]
		}
		tpl := templates[in]
		lines = append(lines, "")
		lines = append(lines, dataLines(in, tpl, section, loc)...)
	}
	return lines
}

func rowLine(row models.Row, dateLabel string, loc *time.Location) string {
	fields := []string{row.Label}
	for _, s := range []string{row.Reference, row.Detail} {
		if s != "" {
			fields = append(fields, s)
		}
	}
	if row.Status != "" {
		fields = append(fields, humanize(row.Status))
	}
	if row.AmountCents != 0 {
		fields = append(fields, FormatCents(row.AmountCents))
	}
	if row.Date != nil {
		d := row.Date.In(loc).Format("Mon Jan 2, 2006")
		if dateLabel != "" {
			d = dateLabel + " " + d
		}
		fields = append(fields, d)
	}
	return "- " + strings.Join(fields, ", ")
}

// FormatRange renders a window as inclusive calendar days in loc.
func FormatRange(r models.DateRange, loc *time.Location) string {
	start := r.Start.In(loc)
	end := r.End.In(loc)
	// exclusive midnight ends belong to the previous day
	if end.Hour() == 0 && end.Minute() == 0 && end.Second() == 0 && end.Nanosecond() == 0 && end.After(start) {
		end = end.Add(-time.Nanosecond)
	}
	if start.Year() == end.Year() && start.YearDay() == end.YearDay() {
		return start.Format("Mon Jan 2, 2006")
	}
	return start.Format("Jan 2, 2006") + " to " + end.Format("Jan 2, 2006")
}

func humanize(s string) string {
	return strings.ReplaceAll(s, "_", " ")
}
