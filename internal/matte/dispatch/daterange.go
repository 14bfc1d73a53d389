package dispatch

import (
	"time"

	"matte/internal/models"
)

// ResolveRange turns a bucket into concrete bounds in loc. Start is inclusive
// and End exclusive. Weeks start on Monday. Unknown buckets return false.
func ResolveRange(bucket models.DateBucket, now time.Time, loc *time.Location) (models.DateRange, bool) {
	if loc == nil {
		loc = time.UTC
	}
	now = now.In(loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	monday := today.AddDate(0, 0, -((int(today.Weekday()) + 6) % 7))
	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)

	switch bucket {
	case models.DateBucketToday:
		return models.DateRange{Start: today, End: today.AddDate(0, 0, 1)}, true
	case models.DateBucketTomorrow:
		return models.DateRange{Start: today.AddDate(0, 0, 1), End: today.AddDate(0, 0, 2)}, true
	case models.DateBucketThisWeek:
		return models.DateRange{Start: monday, End: now}, true
	case models.DateBucketLastMonth:
		return models.DateRange{Start: firstOfMonth.AddDate(0, -1, 0), End: firstOfMonth}, true
	case models.DateBucketThisMonth:
		return models.DateRange{Start: firstOfMonth, End: now}, true
	case models.DateBucketCalendarWeek:
		return models.DateRange{Start: monday, End: monday.AddDate(0, 0, 7)}, true
	case models.DateBucketLast30Days:
		return models.DateRange{Start: today.AddDate(0, 0, -30), End: now}, true
	}
	return models.DateRange{}, false
}
