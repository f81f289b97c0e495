package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/tasktrack-api/internal/domain"
	"github.com/phrazzld/tasktrack-api/internal/service/auth"
	"github.com/phrazzld/tasktrack-api/internal/store"
)

// Notifier enqueues an email for asynchronous delivery. The submitting
// call never waits for the outcome.
type Notifier interface {
	EnqueueEmail(ctx context.Context, recipient, subject, body string) error
}

// UpdateUserInput carries the caller-supplied fields for a user update.
type UpdateUserInput struct {
	Email    string
	Username string
}

// UserService provides user registration and self-scoped CRUD.
type UserService interface {
	// Register creates a new user with a hashed password, then enqueues a
	// welcome email (best effort, never blocks or fails the registration).
	// Returns store.ErrEmailExists if the email is taken.
	Register(ctx context.Context, email, username, password string) (*domain.User, error)

	// Get retrieves a user by ID. Returns store.ErrUserNotFound if absent.
	Get(ctx context.Context, id int64) (*domain.User, error)

	// GetByEmail retrieves a user by email address.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// ListAll returns every user in the store.
	ListAll(ctx context.Context) ([]*domain.User, error)

	// Update overwrites a user's email and username. The ownership check
	// runs before the existence lookup, so updating any non-self ID yields
	// ErrUserNotSelf even when that ID does not exist.
	Update(ctx context.Context, id int64, input UpdateUserInput, actorID int64) (*domain.User, error)

	// Delete removes a user and, by cascade, every task they own. Same
	// ownership-before-existence ordering as Update.
	Delete(ctx context.Context, id, actorID int64) error
}

// UserServiceImpl implements the UserService interface.
type UserServiceImpl struct {
	userStore store.UserStore
	txRunner  store.TxRunner
	hasher    auth.PasswordHasher
	notifier  Notifier
	logger    *slog.Logger
}

// NewUserService creates a new UserService. notifier may be nil, in which
// case registration skips the welcome email.
func NewUserService(
	userStore store.UserStore,
	txRunner store.TxRunner,
	hasher auth.PasswordHasher,
	notifier Notifier,
	logger *slog.Logger,
) UserService {
	if logger == nil {
		logger = slog.Default()
	}
	return &UserServiceImpl{
		userStore: userStore,
		txRunner:  txRunner,
		hasher:    hasher,
		notifier:  notifier,
		logger:    logger.With("component", "user_service"),
	}
}

// Register creates a new user and fires the welcome notification.
func (s *UserServiceImpl) Register(ctx context.Context, email, username, password string) (*domain.User, error) {
	user, err := domain.NewUser(email, username, password)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	hashed, err := s.hasher.Hash(user.Password)
	if err != nil {
		s.logger.Error("failed to hash password", "error", err)
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	user.HashedPassword = hashed
	user.Password = ""

	err = s.txRunner.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		return s.userStore.WithTx(tx).Create(ctx, user)
	})
	if err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			s.logger.Debug("attempted to register with existing email")
		} else {
			s.logger.Error("failed to save user", "error", err)
		}
		return nil, err
	}

	s.logger.Info("user registered",
		"user_id", user.ID,
		"email", user.Email)

	// Fire-and-forget: the registration already succeeded, so an enqueue
	// failure is logged and swallowed.
	if s.notifier != nil {
		subject := "Welcome to TaskTrack"
		body := fmt.Sprintf("Hi %s,\n\nYour account is ready. Happy tracking!\n", user.Username)
		if err := s.notifier.EnqueueEmail(ctx, user.Email, subject, body); err != nil {
			s.logger.Error("failed to enqueue welcome email",
				"error", err,
				"user_id", user.ID)
		}
	}

	return user, nil
}

// Get retrieves a user by their ID.
func (s *UserServiceImpl) Get(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.userStore.GetByID(ctx, id)
	if err != nil {
		if !store.IsNotFoundError(err) {
			s.logger.Error("failed to retrieve user",
				"error", err,
				"user_id", id)
		}
		return nil, err
	}
	return user, nil
}

// GetByEmail retrieves a user by their email address.
func (s *UserServiceImpl) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, err := s.userStore.GetByEmail(ctx, email)
	if err != nil {
		if !store.IsNotFoundError(err) {
			s.logger.Error("failed to retrieve user by email", "error", err)
		}
		return nil, err
	}
	return user, nil
}

// ListAll returns every user. Like the task listing, this is deliberately
// unfiltered.
func (s *UserServiceImpl) ListAll(ctx context.Context) ([]*domain.User, error) {
	users, err := s.userStore.List(ctx)
	if err != nil {
		s.logger.Error("failed to list users", "error", err)
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// Update overwrites a user's email and username. The self check runs before
// any lookup: a request against a nonexistent other user reports forbidden,
// not not-found. That ordering is externally observable and preserved.
func (s *UserServiceImpl) Update(ctx context.Context, id int64, input UpdateUserInput, actorID int64) (*domain.User, error) {
	if !CanModifyUser(id, actorID) {
		return nil, ErrUserNotSelf
	}

	var updated *domain.User

	err := s.txRunner.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.userStore.WithTx(tx)

		user, err := txStore.GetByID(ctx, id)
		if err != nil {
			return err
		}

		user.Email = input.Email
		user.Username = input.Username

		if err := txStore.Update(ctx, user); err != nil {
			return err
		}

		updated = user
		return nil
	})
	if err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			s.logger.Debug("attempted to update to an existing email",
				"user_id", id)
		} else if !store.IsNotFoundError(err) {
			s.logger.Error("failed to update user",
				"error", err,
				"user_id", id)
		}
		return nil, err
	}

	s.logger.Info("user updated", "user_id", id)

	return updated, nil
}

// Delete removes a user with the same ownership-before-existence ordering
// as Update. Owned tasks are removed by the store's cascade rule.
func (s *UserServiceImpl) Delete(ctx context.Context, id, actorID int64) error {
	if !CanModifyUser(id, actorID) {
		return ErrUserNotSelf
	}

	err := s.txRunner.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		return s.userStore.WithTx(tx).Delete(ctx, id)
	})
	if err != nil {
		if !store.IsNotFoundError(err) {
			s.logger.Error("failed to delete user",
				"error", err,
				"user_id", id)
		}
		return err
	}

	s.logger.Info("user deleted", "user_id", id)

	return nil
}
