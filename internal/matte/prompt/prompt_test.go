package prompt

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"matte/internal/models"
)

func TestFormatCents(t *testing.T) {
	tests := []struct {
		cents int64
		want  string
	}{
		{0, "$0.00"},
		{5, "$0.05"},
		{45000, "$450.00"},
		{123456, "$1,234.56"},
		{100000000, "$1,000,000.00"},
		{-2550, "-$25.50"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatCents(tt.cents))
		})
	}
}

func TestPercent(t *testing.T) {
	assert.Equal(t, "45%", Percent(9, 20))
	assert.Equal(t, "33%", Percent(1, 3))
	assert.Equal(t, "67%", Percent(2, 3))
	assert.Equal(t, "n/a", Percent(3, 0))
}

func TestEveryAnsweredIntentHasTemplate(t *testing.T) {
	for _, in := range models.AllIntents {
		if in == models.IntentOutOfScope {
			assert.False(t, Supported(in))
			continue
		}
		assert.True(t, Supported(in), "%s has no template", in)
	}
}

func TestBuild_UnpaidInvoices(t *testing.T) {
	due := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	pair := Build(Input{
		Intent:   models.IntentUnpaidInvoices,
		Question: "who hasn't paid",
		Aggregate: &models.Aggregate{
			Count:      3,
			TotalCents: 45000,
			Rows: []models.Row{
				{Label: "Smith", Reference: "INV-101", Status: "sent", AmountCents: 30000, Date: &due},
				{Label: "Jones", Reference: "INV-102", Status: "partial", AmountCents: 10000},
			},
		},
	})

	assert.Contains(t, pair.System, "Matte")
	assert.Contains(t, pair.System, "who still owes them money")
	assert.Contains(t, pair.User, "Question: who hasn't paid")
	assert.Contains(t, pair.User, "Unpaid invoices: 3")
	assert.Contains(t, pair.User, "Total outstanding: $450.00")
	assert.Contains(t, pair.User, "Invoices (showing 2 of 3):")
	assert.Contains(t, pair.User, "- Smith, INV-101, sent, $300.00, due Fri Mar 1, 2024")
	assert.Contains(t, pair.User, "- Jones, INV-102, partial, $100.00")
}

func TestBuild_ZeroCountStillRendered(t *testing.T) {
	pair := Build(Input{
		Intent:    models.IntentJobsToday,
		Question:  "how many jobs do I have today",
		Aggregate: &models.Aggregate{},
		Range: models.DateRange{
			Start: time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC),
			End:   time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		},
	})

	assert.Contains(t, pair.User, "Jobs scheduled today: 0")
	assert.Contains(t, pair.User, "Period: Thu Mar 14, 2024")
	assert.NotContains(t, pair.User, "Jobs:")
}

func TestBuild_SubjectAndLocation(t *testing.T) {
	loc, err := time.LoadLocation("America/Chicago")
	if err != nil {
		t.Skip("tzdata unavailable")
	}
	sent := time.Date(2024, 3, 2, 3, 0, 0, 0, time.UTC)

	pair := Build(Input{
		Intent:   models.IntentEstimateLookup,
		Question: "what's the estimate for Smith",
		Entities: models.DetectedEntities{Subject: "Smith", DataType: models.DataTypeEstimates},
		Aggregate: &models.Aggregate{
			Count: 1, TotalCents: 450000,
			Rows: []models.Row{{Label: "Smith", Reference: "Exterior repaint", Detail: "EST-12", Status: "sent", AmountCents: 450000, Date: &sent}},
		},
		Location: loc,
	})

	assert.Contains(t, pair.User, "Customer or job: Smith")
	assert.Contains(t, pair.User, "Estimated value: $4,500.00")
	assert.Contains(t, pair.User, "Estimates:")
	assert.Contains(t, pair.User, "sent Fri Mar 1, 2024")
}

func TestBuild_EstimateConversion(t *testing.T) {
	pair := Build(Input{
		Intent:   models.IntentEstimateConversion,
		Question: "what's my close rate",
		Aggregate: &models.Aggregate{
			Count:      20,
			TotalCents: 4250000,
			Breakdown:  map[string]int64{"sent": 20, "accepted": 9, "declined": 6},
		},
	})

	assert.Contains(t, pair.User, "Estimates sent: 20")
	assert.Contains(t, pair.User, "Accepted: 9")
	assert.Contains(t, pair.User, "Still open: 5")
	assert.Contains(t, pair.User, "Close rate: 45%")
	assert.NotContains(t, pair.User, "- sent: 20")
}

func TestBuild_JobsByStatus(t *testing.T) {
	pair := Build(Input{
		Intent:   models.IntentJobsByStatus,
		Question: "jobs by status",
		Aggregate: &models.Aggregate{
			Count:     8,
			Breakdown: map[string]int64{"scheduled": 5, "in_progress": 3},
		},
	})

	assert.Contains(t, pair.User, "Jobs: 8\n- in progress: 3\n- scheduled: 5")
}

func TestBuild_BusinessOverview(t *testing.T) {
	pair := Build(Input{
		Intent:   models.IntentBusinessOverview,
		Question: "how's business",
		Aggregate: &models.Aggregate{Sections: map[string]*models.Aggregate{
			string(models.IntentJobsToday):        {Count: 2},
			string(models.IntentUnpaidInvoices):   {Count: 3, TotalCents: 45000},
			string(models.IntentPendingEstimates): {},
			string(models.IntentRevenueThisMonth): {Count: 4, TotalCents: 812550},
		}},
	})

	assert.Contains(t, pair.System, "how the business is doing")
	assert.Contains(t, pair.User, "Jobs scheduled today: 2")
	assert.Contains(t, pair.User, "Total outstanding: $450.00")
	assert.Contains(t, pair.User, "Estimates awaiting a decision: 0")
	assert.Contains(t, pair.User, "Revenue collected: $8,125.50")
	assert.Less(t, strings.Index(pair.User, "Jobs scheduled today"), strings.Index(pair.User, "Revenue collected"))
}

func TestFormatRange(t *testing.T) {
	tests := []struct {
		name string
		r    models.DateRange
		want string
	}{
		{
			name: "single day",
			r:    models.DateRange{Start: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), End: time.Date(2024, 3, 16, 0, 0, 0, 0, time.UTC)},
			want: "Fri Mar 15, 2024",
		},
		{
			name: "previous month",
			r:    models.DateRange{Start: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), End: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
			want: "Feb 1, 2024 to Feb 29, 2024",
		},
		{
			name: "week to date",
			r:    models.DateRange{Start: time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC), End: time.Date(2024, 3, 14, 15, 0, 0, 0, time.UTC)},
			want: "Mar 11, 2024 to Mar 14, 2024",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatRange(tt.r, time.UTC))
		})
	}
}
