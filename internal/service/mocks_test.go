package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/phrazzld/tasktrack-api/internal/domain"
	"github.com/phrazzld/tasktrack-api/internal/store"
)

// fakeTxRunner runs the transaction function directly with a nil *sql.Tx.
// The in-memory stores below ignore the transaction handle.
type fakeTxRunner struct {
	beginErr error
}

func (r *fakeTxRunner) RunInTransaction(ctx context.Context, fn store.TxFn) error {
	if r.beginErr != nil {
		return r.beginErr
	}
	return fn(ctx, nil)
}

// memUserStore is an in-memory store.UserStore.
type memUserStore struct {
	users  map[int64]*domain.User
	nextID int64
}

func newMemUserStore() *memUserStore {
	return &memUserStore{users: make(map[int64]*domain.User), nextID: 1}
}

func (s *memUserStore) WithTx(tx *sql.Tx) store.UserStore { return s }

func (s *memUserStore) Create(ctx context.Context, user *domain.User) error {
	for _, u := range s.users {
		if u.Email == user.Email {
			return store.ErrEmailExists
		}
	}
	user.ID = s.nextID
	s.nextID++
	clone := *user
	s.users[user.ID] = &clone
	return nil
}

func (s *memUserStore) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (s *memUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, store.ErrUserNotFound
}

func (s *memUserStore) List(ctx context.Context) ([]*domain.User, error) {
	var out []*domain.User
	for _, u := range s.users {
		clone := *u
		out = append(out, &clone)
	}
	return out, nil
}

func (s *memUserStore) Update(ctx context.Context, user *domain.User) error {
	if _, ok := s.users[user.ID]; !ok {
		return store.ErrUserNotFound
	}
	for id, u := range s.users {
		if id != user.ID && u.Email == user.Email {
			return store.ErrEmailExists
		}
	}
	clone := *user
	s.users[user.ID] = &clone
	return nil
}

func (s *memUserStore) Delete(ctx context.Context, id int64) error {
	if _, ok := s.users[id]; !ok {
		return store.ErrUserNotFound
	}
	delete(s.users, id)
	return nil
}

// memTaskStore is an in-memory store.TaskStore.
type memTaskStore struct {
	tasks  map[int64]*domain.Task
	nextID int64
}

func newMemTaskStore() *memTaskStore {
	return &memTaskStore{tasks: make(map[int64]*domain.Task), nextID: 1}
}

func (s *memTaskStore) WithTx(tx *sql.Tx) store.TaskStore { return s }

func (s *memTaskStore) Create(ctx context.Context, task *domain.Task) error {
	task.ID = s.nextID
	s.nextID++
	clone := *task
	s.tasks[task.ID] = &clone
	return nil
}

func (s *memTaskStore) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	t, ok := s.tasks[id]
	if !ok {
		return nil, store.ErrTaskNotFound
	}
	clone := *t
	return &clone, nil
}

func (s *memTaskStore) GetByIDForOwner(ctx context.Context, id, ownerID int64) (*domain.Task, error) {
	t, ok := s.tasks[id]
	if !ok || t.UserID != ownerID {
		return nil, store.ErrTaskNotFound
	}
	clone := *t
	return &clone, nil
}

func (s *memTaskStore) List(ctx context.Context) ([]*domain.Task, error) {
	var out []*domain.Task
	for _, t := range s.tasks {
		clone := *t
		out = append(out, &clone)
	}
	return out, nil
}

func (s *memTaskStore) Update(ctx context.Context, task *domain.Task) error {
	if _, ok := s.tasks[task.ID]; !ok {
		return store.ErrTaskNotFound
	}
	clone := *task
	s.tasks[task.ID] = &clone
	return nil
}

func (s *memTaskStore) Delete(ctx context.Context, id int64) error {
	if _, ok := s.tasks[id]; !ok {
		return store.ErrTaskNotFound
	}
	delete(s.tasks, id)
	return nil
}

// plainHasher avoids bcrypt cost in tests.
type plainHasher struct{}

func (plainHasher) Hash(password string) (string, error) {
	return "hashed:" + password, nil
}

// failingHasher always errors.
type failingHasher struct{}

func (failingHasher) Hash(password string) (string, error) {
	return "", fmt.Errorf("hasher broken")
}

// recordingNotifier captures enqueued emails.
type recordingNotifier struct {
	recipients []string
	subjects   []string
	err        error
}

func (n *recordingNotifier) EnqueueEmail(ctx context.Context, recipient, subject, body string) error {
	if n.err != nil {
		return n.err
	}
	n.recipients = append(n.recipients, recipient)
	n.subjects = append(n.subjects, subject)
	return nil
}
