package store

import (
	"context"
	"database/sql"

	"github.com/phrazzld/tasktrack-api/internal/domain"
)

// TaskStore defines the interface for task data persistence.
type TaskStore interface {
	// Create saves a new task to the store and assigns its ID.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task by its unique ID regardless of owner.
	// Returns ErrTaskNotFound if the task does not exist.
	GetByID(ctx context.Context, id int64) (*domain.Task, error)

	// GetByIDForOwner retrieves a task by ID filtered to the given owner.
	// Returns ErrTaskNotFound both when the task is absent and when it is
	// owned by a different user, hiding existence from non-owners.
	GetByIDForOwner(ctx context.Context, id, ownerID int64) (*domain.Task, error)

	// List returns every task in the store, for all users.
	List(ctx context.Context) ([]*domain.Task, error)

	// Update overwrites a task's title, description, and completed flag.
	// Returns ErrTaskNotFound if the task does not exist.
	Update(ctx context.Context, task *domain.Task) error

	// Delete removes a task from the store by its ID.
	// Returns ErrTaskNotFound if the task does not exist.
	Delete(ctx context.Context, id int64) error

	// WithTx returns a new TaskStore instance that uses the provided
	// transaction. The transaction is created and managed by the caller
	// (typically a service).
	WithTx(tx *sql.Tx) TaskStore
}
