package scoring

import "github.com/quotaflow/quotaflow/internal/domain"

type Grade string

const (
	GradeExcellent        Grade = "Excellent"
	GradeGood             Grade = "Good"
	GradeNeedsImprovement Grade = "Needs Improvement"
)

// Metrics is an ephemeral summary snapshot over one task list.
type Metrics struct {
	TotalRevenue      float64
	TotalTimeTaken    float64
	TimeEfficiencyPct float64
	RevenuePerHour    float64
	AverageROI        float64
	PerformanceGrade  Grade
}

// Summarize reduces a task list into aggregate metrics. Every
// denominator is guarded: an empty list or zero total time yields zeros
// and the lowest grade instead of NaN.
func Summarize(tasks []domain.Task) Metrics {
	m := Metrics{PerformanceGrade: GradeNeedsImprovement}

	doneCount := 0
	roiSum := 0.0
	roiCount := 0
	for _, t := range tasks {
		m.TotalTimeTaken += t.TimeTaken
		if t.Status == domain.StatusDone {
			m.TotalRevenue += t.Revenue
			doneCount++
		}
		if roi, ok := ComputeROI(t.Revenue, t.TimeTaken); ok {
			roiSum += roi
			roiCount++
		}
	}

	if len(tasks) > 0 {
		m.TimeEfficiencyPct = round2(float64(doneCount) / float64(len(tasks)) * 100)
	}
	if m.TotalTimeTaken > 0 {
		m.RevenuePerHour = round2(m.TotalRevenue / m.TotalTimeTaken)
	}
	if roiCount > 0 {
		m.AverageROI = round2(roiSum / float64(roiCount))
	}

	switch {
	case m.AverageROI > 500:
		m.PerformanceGrade = GradeExcellent
	case m.AverageROI >= 200:
		m.PerformanceGrade = GradeGood
	}
	return m
}
