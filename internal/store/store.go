// Package store persists quests in SQLite behind embedded goose
// migrations.
package store

import (
	"context"

	"github.com/waveline/questadmin/internal/types"
)

// Store is the persistence contract for quests.
type Store interface {
	// CreateTask persists a new task and returns it with generated fields
	// filled in. Returns ErrNotFound when req.ParentID references a task
	// that does not exist.
	CreateTask(ctx context.Context, req types.CreateTaskRequest) (*types.Task, error)

	// GetTask returns the task with the given id or ErrNotFound.
	GetTask(ctx context.Context, id string) (*types.Task, error)

	// UpdateTask replaces the mutable fields of an existing task.
	UpdateTask(ctx context.Context, id string, req types.UpdateTaskRequest) (*types.Task, error)

	// DeleteTask removes a task and, through the parent linkage, all of
	// its children.
	DeleteTask(ctx context.Context, id string) error

	// ListTasks returns the filtered, sorted page of top-level tasks plus
	// the unpaged total.
	ListTasks(ctx context.Context, q types.QuestSearch) (*types.TaskList, error)

	// ListAll returns every task (parents and children) without paging.
	// Used by cross-quest validation.
	ListAll(ctx context.Context) ([]types.Task, error)

	// ListChildren returns a task's children ordered by order_by.
	ListChildren(ctx context.Context, parentID string) ([]types.Task, error)

	// Count returns the number of tasks.
	Count(ctx context.Context) (int64, error)

	// Close releases the underlying database handle.
	Close() error
}
