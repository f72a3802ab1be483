package analytics

import (
	"slices"
	"strings"

	"github.com/quotaflow/quotaflow/internal/domain"
)

// WeekBucket aggregates completed work for one ISO week.
type WeekBucket struct {
	Week    string
	Count   int
	Revenue float64
}

// ThroughputByWeek buckets completed tasks by the ISO week of their
// completion and returns the buckets in ascending week order.
func ThroughputByWeek(tasks []domain.Task) []WeekBucket {
	byWeek := map[string]WeekBucket{}
	for _, t := range tasks {
		if t.CompletedAt == nil {
			continue
		}
		week := isoWeekLabel(*t.CompletedAt)
		bucket := byWeek[week]
		bucket.Week = week
		bucket.Count++
		bucket.Revenue += t.Revenue
		byWeek[week] = bucket
	}

	out := make([]WeekBucket, 0, len(byWeek))
	for _, bucket := range byWeek {
		out = append(out, bucket)
	}
	slices.SortFunc(out, func(a, b WeekBucket) int {
		return strings.Compare(a.Week, b.Week)
	})
	return out
}
