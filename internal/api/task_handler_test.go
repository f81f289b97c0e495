package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/tasktrack-api/internal/domain"
	"github.com/phrazzld/tasktrack-api/internal/service"
	"github.com/phrazzld/tasktrack-api/internal/store"
)

func taskRouter(h *TaskHandler) http.Handler {
	r := chi.NewRouter()
	r.Post("/tasks", h.Create)
	r.Get("/tasks", h.List)
	r.Get("/tasks/{id}", h.Get)
	r.Put("/tasks/{id}", h.Update)
	r.Delete("/tasks/{id}", h.Delete)
	return r
}

func sampleTask(id, userID int64) *domain.Task {
	now := time.Now().UTC()
	return &domain.Task{
		ID:          id,
		Title:       "write report",
		Description: "quarterly numbers",
		UserID:      userID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func TestCreateTask(t *testing.T) {
	svc := &mockTaskService{
		createFn: func(ctx context.Context, actorID int64, input service.CreateTaskInput) (*domain.Task, error) {
			assert.Equal(t, int64(5), actorID)
			task := sampleTask(10, actorID)
			task.Title = input.Title
			task.Description = input.Description
			return task, nil
		},
	}
	router := taskRouter(NewTaskHandler(svc, nil))

	req := asUser(httptest.NewRequest(http.MethodPost, "/tasks", jsonBody(t, CreateTaskRequest{
		Title:       "write report",
		Description: "quarterly numbers",
	})), 5)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	var resp TaskResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, int64(10), resp.ID)
	assert.Equal(t, int64(5), resp.UserID)
	assert.False(t, resp.Completed)
}

func TestCreateTaskValidation(t *testing.T) {
	router := taskRouter(NewTaskHandler(&mockTaskService{}, nil))

	longDesc := make([]byte, 501)
	for i := range longDesc {
		longDesc[i] = 'd'
	}

	tests := []struct {
		name string
		body CreateTaskRequest
	}{
		{name: "title too short", body: CreateTaskRequest{Title: "ab"}},
		{name: "missing title", body: CreateTaskRequest{Description: "x"}},
		{name: "description too long", body: CreateTaskRequest{Title: "valid title", Description: string(longDesc)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := asUser(httptest.NewRequest(http.MethodPost, "/tasks", jsonBody(t, tt.body)), 5)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		})
	}
}

func TestCreateTaskUnauthenticated(t *testing.T) {
	router := taskRouter(NewTaskHandler(&mockTaskService{}, nil))

	req := httptest.NewRequest(http.MethodPost, "/tasks", jsonBody(t, CreateTaskRequest{Title: "valid title"}))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGetTaskOwnerScoped(t *testing.T) {
	svc := &mockTaskService{
		getFn: func(ctx context.Context, id, actorID int64) (*domain.Task, error) {
			if id == 1 && actorID == 5 {
				return sampleTask(1, 5), nil
			}
			// Missing and not-owned are indistinguishable here.
			return nil, store.ErrTaskNotFound
		},
	}
	router := taskRouter(NewTaskHandler(svc, nil))

	t.Run("own task", func(t *testing.T) {
		req := asUser(httptest.NewRequest(http.MethodGet, "/tasks/1", nil), 5)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("someone else's task answers 404", func(t *testing.T) {
		req := asUser(httptest.NewRequest(http.MethodGet, "/tasks/1", nil), 6)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestListTasksIsPublic(t *testing.T) {
	svc := &mockTaskService{
		listFn: func(ctx context.Context) ([]*domain.Task, error) {
			return []*domain.Task{sampleTask(1, 5), sampleTask(2, 6)}, nil
		},
	}
	router := taskRouter(NewTaskHandler(svc, nil))

	// No authentication on the request.
	req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp []TaskResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Len(t, resp, 2)
}

func TestUpdateTask(t *testing.T) {
	t.Run("owner", func(t *testing.T) {
		svc := &mockTaskService{
			updateFn: func(ctx context.Context, id int64, input service.UpdateTaskInput, actorID int64) (*domain.Task, error) {
				task := sampleTask(id, actorID)
				task.Title = input.Title
				task.Description = input.Description
				task.Completed = input.Completed
				return task, nil
			},
		}
		router := taskRouter(NewTaskHandler(svc, nil))

		req := asUser(httptest.NewRequest(http.MethodPut, "/tasks/1", jsonBody(t, UpdateTaskRequest{
			Title:     "updated title",
			Completed: true,
		})), 5)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var resp TaskResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.True(t, resp.Completed)
	})

	t.Run("non-owner", func(t *testing.T) {
		svc := &mockTaskService{
			updateFn: func(ctx context.Context, id int64, input service.UpdateTaskInput, actorID int64) (*domain.Task, error) {
				return nil, service.ErrTaskNotOwned
			},
		}
		router := taskRouter(NewTaskHandler(svc, nil))

		req := asUser(httptest.NewRequest(http.MethodPut, "/tasks/1", jsonBody(t, UpdateTaskRequest{
			Title: "updated title",
		})), 6)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("missing", func(t *testing.T) {
		svc := &mockTaskService{
			updateFn: func(ctx context.Context, id int64, input service.UpdateTaskInput, actorID int64) (*domain.Task, error) {
				return nil, store.ErrTaskNotFound
			},
		}
		router := taskRouter(NewTaskHandler(svc, nil))

		req := asUser(httptest.NewRequest(http.MethodPut, "/tasks/99", jsonBody(t, UpdateTaskRequest{
			Title: "updated title",
		})), 5)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestDeleteTask(t *testing.T) {
	t.Run("owner", func(t *testing.T) {
		svc := &mockTaskService{
			deleteFn: func(ctx context.Context, id, actorID int64) error { return nil },
		}
		router := taskRouter(NewTaskHandler(svc, nil))

		req := asUser(httptest.NewRequest(http.MethodDelete, "/tasks/1", nil), 5)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("non-owner", func(t *testing.T) {
		svc := &mockTaskService{
			deleteFn: func(ctx context.Context, id, actorID int64) error { return service.ErrTaskNotOwned },
		}
		router := taskRouter(NewTaskHandler(svc, nil))

		req := asUser(httptest.NewRequest(http.MethodDelete, "/tasks/1", nil), 6)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("invalid id", func(t *testing.T) {
		router := taskRouter(NewTaskHandler(&mockTaskService{}, nil))

		req := asUser(httptest.NewRequest(http.MethodDelete, "/tasks/abc", nil), 5)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})
}
