package analytics

import "github.com/quotaflow/quotaflow/internal/domain"

// Funnel counts tasks by status and reports the two pipeline
// conversion ratios. Both ratios are 0 when their denominator is 0.
type Funnel struct {
	Todo       int
	InProgress int
	Done       int
	// ActivationRate is (in progress + done) / total.
	ActivationRate float64
	// CompletionRate is done / in progress.
	CompletionRate float64
}

func BuildFunnel(tasks []domain.Task) Funnel {
	f := Funnel{}
	for _, t := range tasks {
		switch t.Status {
		case domain.StatusInProgress:
			f.InProgress++
		case domain.StatusDone:
			f.Done++
		default:
			f.Todo++
		}
	}
	total := f.Todo + f.InProgress + f.Done
	if total > 0 {
		f.ActivationRate = float64(f.InProgress+f.Done) / float64(total)
	}
	if f.InProgress > 0 {
		f.CompletionRate = float64(f.Done) / float64(f.InProgress)
	}
	return f
}
