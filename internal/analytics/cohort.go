package analytics

import (
	"slices"
	"strings"

	"github.com/quotaflow/quotaflow/internal/domain"
	"github.com/quotaflow/quotaflow/internal/scoring"
)

// CohortEntry is the revenue created during one (ISO week, priority)
// cohort.
type CohortEntry struct {
	Week     string
	Priority domain.Priority
	Revenue  float64
}

// CohortRevenue groups revenue by creation week and priority, sorted
// ascending by week and then by priority weight descending within a
// week.
func CohortRevenue(tasks []domain.Task) []CohortEntry {
	type cohortKey struct {
		week     string
		priority domain.Priority
	}
	byKey := map[cohortKey]float64{}
	for _, t := range tasks {
		key := cohortKey{week: isoWeekLabel(t.CreatedAt), priority: t.Priority}
		byKey[key] += t.Revenue
	}

	out := make([]CohortEntry, 0, len(byKey))
	for key, revenue := range byKey {
		out = append(out, CohortEntry{Week: key.week, Priority: key.priority, Revenue: revenue})
	}
	slices.SortFunc(out, func(a, b CohortEntry) int {
		if c := strings.Compare(a.Week, b.Week); c != 0 {
			return c
		}
		return scoring.Weight(b.Priority) - scoring.Weight(a.Priority)
	})
	return out
}
