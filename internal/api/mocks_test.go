package api

import (
	"context"
	"database/sql"
	"errors"

	"github.com/phrazzld/tasktrack-api/internal/domain"
	"github.com/phrazzld/tasktrack-api/internal/service"
	"github.com/phrazzld/tasktrack-api/internal/service/auth"
	"github.com/phrazzld/tasktrack-api/internal/store"
)

// mockUserService implements service.UserService with overridable funcs.
type mockUserService struct {
	registerFn func(ctx context.Context, email, username, password string) (*domain.User, error)
	getFn      func(ctx context.Context, id int64) (*domain.User, error)
	listFn     func(ctx context.Context) ([]*domain.User, error)
	updateFn   func(ctx context.Context, id int64, input service.UpdateUserInput, actorID int64) (*domain.User, error)
	deleteFn   func(ctx context.Context, id, actorID int64) error
}

var _ service.UserService = (*mockUserService)(nil)

func (m *mockUserService) Register(ctx context.Context, email, username, password string) (*domain.User, error) {
	return m.registerFn(ctx, email, username, password)
}

func (m *mockUserService) Get(ctx context.Context, id int64) (*domain.User, error) {
	return m.getFn(ctx, id)
}

func (m *mockUserService) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return nil, errors.New("not implemented")
}

func (m *mockUserService) ListAll(ctx context.Context) ([]*domain.User, error) {
	return m.listFn(ctx)
}

func (m *mockUserService) Update(ctx context.Context, id int64, input service.UpdateUserInput, actorID int64) (*domain.User, error) {
	return m.updateFn(ctx, id, input, actorID)
}

func (m *mockUserService) Delete(ctx context.Context, id, actorID int64) error {
	return m.deleteFn(ctx, id, actorID)
}

// mockTaskService implements service.TaskService with overridable funcs.
type mockTaskService struct {
	createFn func(ctx context.Context, actorID int64, input service.CreateTaskInput) (*domain.Task, error)
	getFn    func(ctx context.Context, id, actorID int64) (*domain.Task, error)
	listFn   func(ctx context.Context) ([]*domain.Task, error)
	updateFn func(ctx context.Context, id int64, input service.UpdateTaskInput, actorID int64) (*domain.Task, error)
	deleteFn func(ctx context.Context, id, actorID int64) error
}

var _ service.TaskService = (*mockTaskService)(nil)

func (m *mockTaskService) Create(ctx context.Context, actorID int64, input service.CreateTaskInput) (*domain.Task, error) {
	return m.createFn(ctx, actorID, input)
}

func (m *mockTaskService) Get(ctx context.Context, id, actorID int64) (*domain.Task, error) {
	return m.getFn(ctx, id, actorID)
}

func (m *mockTaskService) ListAll(ctx context.Context) ([]*domain.Task, error) {
	return m.listFn(ctx)
}

func (m *mockTaskService) Update(ctx context.Context, id int64, input service.UpdateTaskInput, actorID int64) (*domain.Task, error) {
	return m.updateFn(ctx, id, input, actorID)
}

func (m *mockTaskService) Delete(ctx context.Context, id, actorID int64) error {
	return m.deleteFn(ctx, id, actorID)
}

// stubUserStore implements store.UserStore; only GetByEmail is scriptable,
// the login handler uses nothing else.
type stubUserStore struct {
	getByEmailFn func(ctx context.Context, email string) (*domain.User, error)
}

var _ store.UserStore = (*stubUserStore)(nil)

func (s *stubUserStore) Create(ctx context.Context, user *domain.User) error {
	return errors.New("not implemented")
}

func (s *stubUserStore) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return nil, errors.New("not implemented")
}

func (s *stubUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.getByEmailFn(ctx, email)
}

func (s *stubUserStore) List(ctx context.Context) ([]*domain.User, error) {
	return nil, errors.New("not implemented")
}

func (s *stubUserStore) Update(ctx context.Context, user *domain.User) error {
	return errors.New("not implemented")
}

func (s *stubUserStore) Delete(ctx context.Context, id int64) error {
	return errors.New("not implemented")
}

func (s *stubUserStore) WithTx(tx *sql.Tx) store.UserStore { return s }

// stubJWTService issues a fixed token and accepts a fixed user ID.
type stubJWTService struct {
	token  string
	userID int64
	genErr error
	valErr error
}

var _ auth.JWTService = (*stubJWTService)(nil)

func (s *stubJWTService) GenerateToken(ctx context.Context, userID int64) (string, error) {
	if s.genErr != nil {
		return "", s.genErr
	}
	return s.token, nil
}

func (s *stubJWTService) ValidateToken(ctx context.Context, tokenString string) (*auth.Claims, error) {
	if s.valErr != nil {
		return nil, s.valErr
	}
	return &auth.Claims{UserID: s.userID}, nil
}

// stubVerifier accepts one password.
type stubVerifier struct {
	accept string
}

var _ auth.PasswordVerifier = (*stubVerifier)(nil)

func (s *stubVerifier) Compare(hashedPassword, password string) error {
	if password == s.accept {
		return nil
	}
	return errors.New("password mismatch")
}
