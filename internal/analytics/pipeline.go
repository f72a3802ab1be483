package analytics

import (
	"math"

	"github.com/quotaflow/quotaflow/internal/domain"
)

// statusWeights discount revenue by how far a task is from closing.
var statusWeights = map[domain.Status]float64{
	domain.StatusTodo:       0.1,
	domain.StatusInProgress: 0.5,
	domain.StatusDone:       1.0,
}

// WeightedPipeline is the revenue-weighted pipeline value over the
// whole list, rounded to two decimal places.
func WeightedPipeline(tasks []domain.Task) float64 {
	total := 0.0
	for _, t := range tasks {
		total += t.Revenue * statusWeights[t.Status]
	}
	return math.Round(total*100) / 100
}
