package analytics

import (
	"math"
	"slices"
	"time"

	"github.com/quotaflow/quotaflow/internal/domain"
)

// VelocityStats reports mean and median days-to-complete for one
// priority group. Zero values mean the group has no completed tasks.
type VelocityStats struct {
	Count  int
	Mean   float64
	Median float64
}

// VelocityByPriority groups completed tasks by priority and reports
// mean and median whole days from creation to completion. Every
// priority appears in the result even when its group is empty.
func VelocityByPriority(tasks []domain.Task) map[domain.Priority]VelocityStats {
	days := map[domain.Priority][]float64{
		domain.PriorityHigh:   nil,
		domain.PriorityMedium: nil,
		domain.PriorityLow:    nil,
	}
	for _, t := range tasks {
		if t.CompletedAt == nil {
			continue
		}
		elapsed := completionDays(t.CreatedAt, *t.CompletedAt)
		days[t.Priority] = append(days[t.Priority], elapsed)
	}

	out := make(map[domain.Priority]VelocityStats, len(days))
	for priority, group := range days {
		out[priority] = VelocityStats{
			Count:  len(group),
			Mean:   mean(group),
			Median: median(group),
		}
	}
	return out
}

// completionDays is the rounded whole-day gap, floored at 0 so clock
// skew in imported data cannot produce negative velocity.
func completionDays(created, completed time.Time) float64 {
	d := math.Round(completed.Sub(created).Hours() / 24)
	if d < 0 {
		return 0
	}
	return d
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]float64(nil), values...)
	slices.Sort(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}
