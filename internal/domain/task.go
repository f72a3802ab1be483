package domain

import (
	"math"
	"slices"
	"strings"
	"time"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

var validPriorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in_progress"
	StatusDone       Status = "done"
)

var validStatuses = []Status{StatusTodo, StatusInProgress, StatusDone}

// minTimeTaken is the clamp floor applied when callers supply a
// non-positive time value.
const minTimeTaken = 1

// Task is a sales task carrying revenue earned and time spent.
type Task struct {
	ID          string
	Title       string
	Revenue     float64
	TimeTaken   float64
	Priority    Priority
	Status      Status
	Notes       string
	CreatedAt   time.Time
	CompletedAt *time.Time
}

type TaskInput struct {
	ID        string
	Title     string
	Revenue   float64
	TimeTaken float64
	Priority  Priority
	Status    Status
	Notes     string
}

func NewTask(in TaskInput, now time.Time) (Task, error) {
	in.ID = strings.TrimSpace(in.ID)
	in.Title = strings.TrimSpace(in.Title)
	in.Notes = strings.TrimSpace(in.Notes)

	if in.ID == "" {
		return Task{}, ErrInvalidID
	}
	if in.Title == "" {
		return Task{}, ErrInvalidTitle
	}
	if math.IsNaN(in.Revenue) || math.IsInf(in.Revenue, 0) || in.Revenue < 0 {
		return Task{}, ErrInvalidRevenue
	}
	if math.IsNaN(in.TimeTaken) || math.IsInf(in.TimeTaken, 0) {
		return Task{}, ErrInvalidTimeTaken
	}
	if in.TimeTaken <= 0 {
		in.TimeTaken = minTimeTaken
	}

	if in.Priority == "" {
		in.Priority = PriorityMedium
	}
	if !slices.Contains(validPriorities, in.Priority) {
		return Task{}, ErrInvalidPriority
	}
	if in.Status == "" {
		in.Status = StatusTodo
	}
	if !slices.Contains(validStatuses, in.Status) {
		return Task{}, ErrInvalidStatus
	}

	task := Task{
		ID:        in.ID,
		Title:     in.Title,
		Revenue:   in.Revenue,
		TimeTaken: in.TimeTaken,
		Priority:  in.Priority,
		Status:    in.Status,
		Notes:     in.Notes,
		CreatedAt: now.UTC(),
	}
	if task.Status == StatusDone {
		ts := now.UTC()
		task.CompletedAt = &ts
	}
	return task, nil
}

// TaskPatch carries a partial edit. Nil fields leave the task unchanged.
type TaskPatch struct {
	Title     *string
	Revenue   *float64
	TimeTaken *float64
	Priority  *Priority
	Status    *Status
	Notes     *string
}

// Apply merges a patch into the task. CompletedAt is set the first time
// the status transitions into done and is never overwritten or cleared
// afterwards.
func (t *Task) Apply(p TaskPatch, now time.Time) error {
	if p.Title != nil {
		title := strings.TrimSpace(*p.Title)
		if title == "" {
			return ErrInvalidTitle
		}
		t.Title = title
	}
	if p.Revenue != nil {
		revenue := *p.Revenue
		if math.IsNaN(revenue) || math.IsInf(revenue, 0) || revenue < 0 {
			return ErrInvalidRevenue
		}
		t.Revenue = revenue
	}
	if p.TimeTaken != nil {
		timeTaken := *p.TimeTaken
		if math.IsNaN(timeTaken) || math.IsInf(timeTaken, 0) {
			return ErrInvalidTimeTaken
		}
		if timeTaken <= 0 {
			timeTaken = minTimeTaken
		}
		t.TimeTaken = timeTaken
	}
	if p.Priority != nil {
		if !slices.Contains(validPriorities, *p.Priority) {
			return ErrInvalidPriority
		}
		t.Priority = *p.Priority
	}
	if p.Status != nil {
		if !slices.Contains(validStatuses, *p.Status) {
			return ErrInvalidStatus
		}
		fromDone := t.Status == StatusDone
		t.Status = *p.Status
		if t.Status == StatusDone && !fromDone && t.CompletedAt == nil {
			ts := now.UTC()
			t.CompletedAt = &ts
		}
	}
	if p.Notes != nil {
		t.Notes = strings.TrimSpace(*p.Notes)
	}
	return nil
}
