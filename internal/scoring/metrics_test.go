package scoring

import (
	"testing"

	"github.com/quotaflow/quotaflow/internal/domain"
)

func TestSummarizeEmptyList(t *testing.T) {
	m := Summarize(nil)
	if m.TotalRevenue != 0 || m.TimeEfficiencyPct != 0 || m.RevenuePerHour != 0 || m.AverageROI != 0 {
		t.Fatalf("expected all-zero metrics, got %+v", m)
	}
	if m.PerformanceGrade != GradeNeedsImprovement {
		t.Fatalf("expected lowest grade, got %q", m.PerformanceGrade)
	}
}

func TestSummarizeCountsDoneRevenueOnly(t *testing.T) {
	tasks := []domain.Task{
		{ID: "a", Title: "a", Revenue: 1000, TimeTaken: 2, Status: domain.StatusDone},
		{ID: "b", Title: "b", Revenue: 500, TimeTaken: 2, Status: domain.StatusTodo},
		{ID: "c", Title: "c", Revenue: 400, TimeTaken: 1, Status: domain.StatusInProgress},
	}
	m := Summarize(tasks)
	if m.TotalRevenue != 1000 {
		t.Fatalf("TotalRevenue = %v, want 1000 (done tasks only)", m.TotalRevenue)
	}
	if m.TotalTimeTaken != 5 {
		t.Fatalf("TotalTimeTaken = %v, want 5", m.TotalTimeTaken)
	}
	if m.TimeEfficiencyPct != 33.33 {
		t.Fatalf("TimeEfficiencyPct = %v, want 33.33", m.TimeEfficiencyPct)
	}
	if m.RevenuePerHour != 200 {
		t.Fatalf("RevenuePerHour = %v, want 200", m.RevenuePerHour)
	}
	// ROIs: 500, 250, 400 => average 383.33.
	if m.AverageROI != 383.33 {
		t.Fatalf("AverageROI = %v, want 383.33", m.AverageROI)
	}
	if m.PerformanceGrade != GradeGood {
		t.Fatalf("PerformanceGrade = %q, want Good", m.PerformanceGrade)
	}
}

func TestSummarizeSkipsInvalidROIs(t *testing.T) {
	tasks := []domain.Task{
		{ID: "a", Title: "a", Revenue: 100, TimeTaken: 0, Status: domain.StatusTodo},
		{ID: "b", Title: "b", Revenue: 100, TimeTaken: 1, Status: domain.StatusTodo},
	}
	m := Summarize(tasks)
	if m.AverageROI != 100 {
		t.Fatalf("AverageROI = %v, want 100 (invalid ROI excluded)", m.AverageROI)
	}
}

func TestSummarizeGradeBoundaries(t *testing.T) {
	excellent := Summarize([]domain.Task{
		{ID: "a", Title: "a", Revenue: 501, TimeTaken: 1, Status: domain.StatusTodo},
	})
	if excellent.PerformanceGrade != GradeExcellent {
		t.Fatalf("501 ROI grade = %q, want Excellent", excellent.PerformanceGrade)
	}
	boundary := Summarize([]domain.Task{
		{ID: "a", Title: "a", Revenue: 500, TimeTaken: 1, Status: domain.StatusTodo},
	})
	if boundary.PerformanceGrade != GradeGood {
		t.Fatalf("500 ROI grade = %q, want Good (strict >500 for Excellent)", boundary.PerformanceGrade)
	}
	low := Summarize([]domain.Task{
		{ID: "a", Title: "a", Revenue: 199, TimeTaken: 1, Status: domain.StatusTodo},
	})
	if low.PerformanceGrade != GradeNeedsImprovement {
		t.Fatalf("199 ROI grade = %q, want Needs Improvement", low.PerformanceGrade)
	}
}
