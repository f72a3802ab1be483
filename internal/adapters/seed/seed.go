package seed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/quotaflow/quotaflow/internal/domain"
)

// SyntheticCount is the size of the generated fallback dataset.
const SyntheticCount = 50

// Clock returns the current time.
type Clock func() time.Time

// FileSource reads the initial dataset from a JSON file of task
// records. A missing or empty file falls back to the synthetic
// dataset; a file that exists but cannot be parsed is an error the
// store records.
type FileSource struct {
	path  string
	clock Clock
}

func NewFileSource(path string, clock Clock) *FileSource {
	if clock == nil {
		clock = time.Now
	}
	return &FileSource{path: path, clock: clock}
}

// taskRecord mirrors the on-disk JSON shape of one task.
type taskRecord struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Revenue     float64    `json:"revenue"`
	TimeTaken   float64    `json:"timeTaken"`
	Priority    string     `json:"priority"`
	Status      string     `json:"status"`
	Notes       string     `json:"notes,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

func (s *FileSource) Tasks(_ context.Context) ([]domain.Task, error) {
	if s.path == "" {
		return Synthetic(SyntheticCount, s.clock()), nil
	}
	content, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Synthetic(SyntheticCount, s.clock()), nil
		}
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	if len(content) == 0 {
		return Synthetic(SyntheticCount, s.clock()), nil
	}

	var records []taskRecord
	if err := json.Unmarshal(content, &records); err != nil {
		return nil, fmt.Errorf("decode seed json: %w", err)
	}
	if len(records) == 0 {
		return Synthetic(SyntheticCount, s.clock()), nil
	}

	now := s.clock()
	out := make([]domain.Task, 0, len(records))
	for idx, rec := range records {
		task, err := fromRecord(rec, now)
		if err != nil {
			return nil, fmt.Errorf("seed record %d: %w", idx, err)
		}
		out = append(out, task)
	}
	return out, nil
}

// fromRecord normalizes one JSON record into a task, keeping the
// record's own timestamps instead of stamping fresh ones.
func fromRecord(rec taskRecord, now time.Time) (domain.Task, error) {
	created := rec.CreatedAt
	if created.IsZero() {
		created = now
	}
	task, err := domain.NewTask(domain.TaskInput{
		ID:        rec.ID,
		Title:     rec.Title,
		Revenue:   rec.Revenue,
		TimeTaken: rec.TimeTaken,
		Priority:  domain.Priority(rec.Priority),
		Status:    domain.Status(rec.Status),
		Notes:     rec.Notes,
	}, created)
	if err != nil {
		return domain.Task{}, err
	}
	if rec.CompletedAt != nil {
		completed := rec.CompletedAt.UTC()
		task.CompletedAt = &completed
	}
	return task, nil
}
