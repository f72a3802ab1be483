package scoring

import (
	"math"

	"github.com/quotaflow/quotaflow/internal/domain"
)

// ComputeROI returns revenue divided by time taken, rounded to two
// decimal places. ok is false when either input is non-finite or time
// is non-positive; the result is then unusable and callers must rank
// the task lowest rather than surface an error.
func ComputeROI(revenue, timeTaken float64) (float64, bool) {
	if !isFinite(revenue) || !isFinite(timeTaken) || timeTaken <= 0 {
		return 0, false
	}
	return round2(revenue / timeTaken), true
}

// Weight maps a priority to its rank weight.
func Weight(p domain.Priority) int {
	switch p {
	case domain.PriorityHigh:
		return 3
	case domain.PriorityMedium:
		return 2
	default:
		return 1
	}
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
