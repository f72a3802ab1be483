package scoring

import (
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/quotaflow/quotaflow/internal/domain"
)

// DerivedTask augments a task with its computed ROI and priority
// weight. It exists only for ranking and display, never persisted.
type DerivedTask struct {
	domain.Task
	ROI            float64
	ROIValid       bool
	PriorityWeight int
}

// Derive computes the display fields for one task.
func Derive(t domain.Task) DerivedTask {
	roi, ok := ComputeROI(t.Revenue, t.TimeTaken)
	return DerivedTask{
		Task:           t,
		ROI:            roi,
		ROIValid:       ok,
		PriorityWeight: Weight(t.Priority),
	}
}

// Rank derives every task and returns a new slice sorted descending by
// ROI (invalid ROI ranks as -1), then priority weight descending, then
// title ascending as the deterministic tie-breaker. The input is never
// mutated and re-ranking ranked output is idempotent.
func Rank(tasks []domain.Task) []DerivedTask {
	out := make([]DerivedTask, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, Derive(t))
	}

	collator := collate.New(language.English)
	slices.SortStableFunc(out, func(a, b DerivedTask) int {
		ar, br := a.sortROI(), b.sortROI()
		if ar != br {
			if ar > br {
				return -1
			}
			return 1
		}
		if a.PriorityWeight != b.PriorityWeight {
			return b.PriorityWeight - a.PriorityWeight
		}
		return collator.CompareString(a.Title, b.Title)
	})
	return out
}

// sortROI substitutes -1 for invalid ROI so unordered inputs still sink
// to the bottom of a descending sort.
func (d DerivedTask) sortROI() float64 {
	if !d.ROIValid {
		return -1
	}
	return d.ROI
}
