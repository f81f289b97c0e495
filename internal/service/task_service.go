package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/tasktrack-api/internal/domain"
	"github.com/phrazzld/tasktrack-api/internal/store"
)

// CreateTaskInput carries the caller-supplied fields for a new task.
// Completed always starts false.
type CreateTaskInput struct {
	Title       string
	Description string
}

// UpdateTaskInput carries the full replacement state for a task update.
type UpdateTaskInput struct {
	Title       string
	Description string
	Completed   bool
}

// TaskService provides task CRUD with ownership enforcement.
type TaskService interface {
	// Create constructs a task owned by the actor and persists it.
	// Returns the stored task including its assigned ID.
	Create(ctx context.Context, actorID int64, input CreateTaskInput) (*domain.Task, error)

	// Get retrieves a task by ID, filtered to the actor's ownership.
	// Returns store.ErrTaskNotFound both for missing tasks and for tasks
	// owned by other users.
	Get(ctx context.Context, id, actorID int64) (*domain.Task, error)

	// ListAll returns every task in the store for every user.
	ListAll(ctx context.Context) ([]*domain.Task, error)

	// Update overwrites a task's title, description, and completed flag.
	// Returns store.ErrTaskNotFound if the task does not exist, or
	// ErrTaskNotOwned if the actor is not the owner.
	Update(ctx context.Context, id int64, input UpdateTaskInput, actorID int64) (*domain.Task, error)

	// Delete removes a task. Same error contract as Update.
	Delete(ctx context.Context, id, actorID int64) error
}

// TaskServiceImpl implements the TaskService interface.
type TaskServiceImpl struct {
	taskStore store.TaskStore
	txRunner  store.TxRunner
	logger    *slog.Logger
}

// NewTaskService creates a new TaskService.
func NewTaskService(taskStore store.TaskStore, txRunner store.TxRunner, logger *slog.Logger) TaskService {
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskServiceImpl{
		taskStore: taskStore,
		txRunner:  txRunner,
		logger:    logger.With("component", "task_service"),
	}
}

// Create constructs a task owned by the actor and persists it. No ownership
// check is needed: a created task is always self-owned.
func (s *TaskServiceImpl) Create(ctx context.Context, actorID int64, input CreateTaskInput) (*domain.Task, error) {
	task, err := domain.NewTask(actorID, input.Title, input.Description)
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	err = s.txRunner.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		return s.taskStore.WithTx(tx).Create(ctx, task)
	})
	if err != nil {
		s.logger.Error("failed to save task",
			"error", err,
			"user_id", actorID)
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	s.logger.Info("task created",
		"task_id", task.ID,
		"user_id", actorID)

	return task, nil
}

// Get retrieves a task by ID filtered to the actor. A task owned by another
// user yields the same not-found error as a missing one, so existence is
// never revealed to non-owners.
func (s *TaskServiceImpl) Get(ctx context.Context, id, actorID int64) (*domain.Task, error) {
	task, err := s.taskStore.GetByIDForOwner(ctx, id, actorID)
	if err != nil {
		if !store.IsNotFoundError(err) {
			s.logger.Error("failed to retrieve task",
				"error", err,
				"task_id", id,
				"user_id", actorID)
		}
		return nil, err
	}
	return task, nil
}

// ListAll returns every task in the store, unfiltered by actor. The single-
// item Get above is owner-scoped while this listing is not; that asymmetry
// is part of the external contract.
func (s *TaskServiceImpl) ListAll(ctx context.Context) ([]*domain.Task, error) {
	tasks, err := s.taskStore.List(ctx)
	if err != nil {
		s.logger.Error("failed to list tasks", "error", err)
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// Update overwrites a task after verifying it exists and the actor owns it,
// in that order: a missing task reports not-found even to a would-be
// non-owner.
func (s *TaskServiceImpl) Update(ctx context.Context, id int64, input UpdateTaskInput, actorID int64) (*domain.Task, error) {
	var updated *domain.Task

	err := s.txRunner.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.taskStore.WithTx(tx)

		task, err := txStore.GetByID(ctx, id)
		if err != nil {
			return err
		}

		if !CanModifyTask(task.UserID, actorID) {
			return ErrTaskNotOwned
		}

		task.Title = input.Title
		task.Description = input.Description
		task.Completed = input.Completed

		if err := txStore.Update(ctx, task); err != nil {
			return err
		}

		updated = task
		return nil
	})
	if err != nil {
		if !store.IsNotFoundError(err) && err != ErrTaskNotOwned {
			s.logger.Error("failed to update task",
				"error", err,
				"task_id", id,
				"user_id", actorID)
		}
		return nil, err
	}

	s.logger.Info("task updated",
		"task_id", id,
		"user_id", actorID)

	return updated, nil
}

// Delete removes a task after the same existence-then-ownership sequence
// as Update.
func (s *TaskServiceImpl) Delete(ctx context.Context, id, actorID int64) error {
	err := s.txRunner.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.taskStore.WithTx(tx)

		task, err := txStore.GetByID(ctx, id)
		if err != nil {
			return err
		}

		if !CanModifyTask(task.UserID, actorID) {
			return ErrTaskNotOwned
		}

		return txStore.Delete(ctx, id)
	})
	if err != nil {
		if !store.IsNotFoundError(err) && err != ErrTaskNotOwned {
			s.logger.Error("failed to delete task",
				"error", err,
				"task_id", id,
				"user_id", actorID)
		}
		return err
	}

	s.logger.Info("task deleted",
		"task_id", id,
		"user_id", actorID)

	return nil
}
