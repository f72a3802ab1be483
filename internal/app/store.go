package app

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/quotaflow/quotaflow/internal/domain"
	"github.com/quotaflow/quotaflow/internal/scoring"
)

// IDGenerator returns unique identifiers for new tasks.
type IDGenerator func() string

// Clock returns the current time.
type Clock func() time.Time

// Store owns the canonical task list and the single pending-undo slot.
// All mutations are serialized through one mutex so derived reads
// always observe a consistent list.
type Store struct {
	mu    sync.Mutex
	repo  Repository
	seed  SeedSource
	idGen IDGenerator
	clock Clock

	tasks       []domain.Task
	lastDeleted *domain.Task
	loaded      bool
	loadErr     string
}

// NewStore constructs a store. repo and seed may be nil for an
// in-memory store; idGen and clock fall back to empty-id and time.Now.
func NewStore(repo Repository, seed SeedSource, idGen IDGenerator, clock Clock) *Store {
	if idGen == nil {
		idGen = func() string { return "" }
	}
	if clock == nil {
		clock = time.Now
	}
	return &Store{
		repo:  repo,
		seed:  seed,
		idGen: idGen,
		clock: clock,
	}
}

// Load performs the one-shot initial fetch: repository first, the seed
// source when the repository is empty. It runs at most once per store
// lifetime no matter how often the UI re-issues it, and records
// failures instead of surfacing them so the form path stays usable
// with an empty list.
func (s *Store) Load(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loaded {
		return
	}
	s.loaded = true
	s.loadErr = ""

	var initial []domain.Task
	if s.repo != nil {
		stored, err := s.repo.LoadTasks(ctx)
		if err != nil {
			s.loadErr = fmt.Sprintf("load tasks: %v", err)
			return
		}
		initial = stored
	}
	seeded := false
	if len(initial) == 0 && s.seed != nil {
		fallback, err := s.seed.Tasks(ctx)
		if err != nil {
			s.loadErr = fmt.Sprintf("seed tasks: %v", err)
			return
		}
		initial = fallback
		seeded = len(initial) > 0
	}

	// Tasks created before the load finished stay at the end of the
	// restored list. They were held in memory only, so the merged list
	// is flushed here.
	early := len(s.tasks) > 0
	s.tasks = append(initial, s.tasks...)
	if seeded || early {
		if err := s.persistLocked(ctx); err != nil {
			s.loadErr = err.Error()
		}
	}
}

// Loaded reports whether the one-shot load has already fired.
func (s *Store) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded
}

// AddTaskInput holds input values for task creation.
type AddTaskInput struct {
	ID        string
	Title     string
	Revenue   float64
	TimeTaken float64
	Priority  domain.Priority
	Status    domain.Status
	Notes     string
}

// Add appends a new task. A fresh id is assigned when the input omits
// one, non-positive time is clamped, and CompletedAt is stamped when
// the task arrives already done.
func (s *Store) Add(ctx context.Context, in AddTaskInput) (domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := strings.TrimSpace(in.ID)
	if id == "" {
		id = s.idGen()
	}
	task, err := domain.NewTask(domain.TaskInput{
		ID:        id,
		Title:     in.Title,
		Revenue:   in.Revenue,
		TimeTaken: in.TimeTaken,
		Priority:  in.Priority,
		Status:    in.Status,
		Notes:     in.Notes,
	}, s.clock())
	if err != nil {
		return domain.Task{}, err
	}

	s.tasks = append(s.tasks, task)
	if err := s.persistLocked(ctx); err != nil {
		return domain.Task{}, err
	}
	return task, nil
}

// Update merges a patch into the matching task. An unknown id is a
// silent no-op returning a zero task, never a failure, so the UI stays
// resilient to stale references.
func (s *Store) Update(ctx context.Context, id string, patch domain.TaskPatch) (domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOfLocked(id)
	if idx < 0 {
		return domain.Task{}, nil
	}
	task := s.tasks[idx]
	if err := task.Apply(patch, s.clock()); err != nil {
		return domain.Task{}, err
	}
	s.tasks[idx] = task
	if err := s.persistLocked(ctx); err != nil {
		return domain.Task{}, err
	}
	return task, nil
}

// Delete removes the task with the given id and captures it into the
// pending-undo slot, replacing any prior pending value. Unknown ids
// are silent no-ops.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOfLocked(id)
	if idx < 0 {
		return nil
	}
	deleted := s.tasks[idx]
	s.tasks = append(s.tasks[:idx], s.tasks[idx+1:]...)
	s.lastDeleted = &deleted
	return s.persistLocked(ctx)
}

// UndoDelete restores the pending deleted task by appending it to the
// end of the list and clears the slot. ok is false when nothing was
// pending.
func (s *Store) UndoDelete(ctx context.Context) (domain.Task, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.lastDeleted == nil {
		return domain.Task{}, false, nil
	}
	restored := *s.lastDeleted
	s.tasks = append(s.tasks, restored)
	s.lastDeleted = nil
	if err := s.persistLocked(ctx); err != nil {
		return domain.Task{}, false, err
	}
	return restored, true, nil
}

// ClearLastDeleted drops the pending-undo slot without restoring,
// used when the undo affordance is dismissed or expires.
func (s *Store) ClearLastDeleted() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastDeleted = nil
}

// TitleExists reports whether another active task already uses the
// title, compared case-insensitively. Duplicate prevention is a form
// concern; the store itself never rejects duplicates.
func (s *Store) TitleExists(title, excludeID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	needle := strings.ToLower(strings.TrimSpace(title))
	if needle == "" {
		return false
	}
	for _, t := range s.tasks {
		if t.ID == excludeID {
			continue
		}
		if strings.ToLower(t.Title) == needle {
			return true
		}
	}
	return false
}

// Snapshot is a consistent read view: every field is derived from the
// same raw list under one lock acquisition.
type Snapshot struct {
	Tasks       []domain.Task
	Ranked      []scoring.DerivedTask
	Metrics     scoring.Metrics
	LastDeleted *domain.Task
	Loaded      bool
	LoadErr     string
}

// Snapshot recomputes the ranked view and metrics from current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks := append([]domain.Task(nil), s.tasks...)
	snap := Snapshot{
		Tasks:   tasks,
		Ranked:  scoring.Rank(tasks),
		Metrics: scoring.Summarize(tasks),
		Loaded:  s.loaded,
		LoadErr: s.loadErr,
	}
	if s.lastDeleted != nil {
		pending := *s.lastDeleted
		snap.LastDeleted = &pending
	}
	return snap
}

func (s *Store) indexOfLocked(id string) int {
	for idx, t := range s.tasks {
		if t.ID == id {
			return idx
		}
	}
	return -1
}

// persistLocked writes the full list back to the repository. Before
// the one-shot load has merged the stored list, writing would replace
// tasks the store has not read yet, so early mutations are held in
// memory and flushed by Load.
func (s *Store) persistLocked(ctx context.Context) error {
	if s.repo == nil || !s.loaded {
		return nil
	}
	if err := s.repo.ReplaceTasks(ctx, append([]domain.Task(nil), s.tasks...)); err != nil {
		return fmt.Errorf("persist tasks: %w", err)
	}
	return nil
}
