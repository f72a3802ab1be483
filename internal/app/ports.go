package app

import (
	"context"

	"github.com/quotaflow/quotaflow/internal/domain"
)

// Repository persists the full task list. The store treats it as
// opaque load/replace of a flat list.
type Repository interface {
	LoadTasks(context.Context) ([]domain.Task, error)
	ReplaceTasks(context.Context, []domain.Task) error
}

// SeedSource supplies the initial dataset used when the repository is
// empty on first load.
type SeedSource interface {
	Tasks(context.Context) ([]domain.Task, error)
}
