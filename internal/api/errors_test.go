package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/phrazzld/tasktrack-api/internal/api/shared"
	"github.com/phrazzld/tasktrack-api/internal/service"
	"github.com/phrazzld/tasktrack-api/internal/service/auth"
	"github.com/phrazzld/tasktrack-api/internal/store"
)

func TestMapErrorToStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "invalid token", err: auth.ErrInvalidToken, want: http.StatusUnauthorized},
		{name: "expired token", err: auth.ErrExpiredToken, want: http.StatusUnauthorized},
		{name: "invalid credentials", err: auth.ErrInvalidCredentials, want: http.StatusBadRequest},
		{name: "task not owned", err: service.ErrTaskNotOwned, want: http.StatusForbidden},
		{name: "user not self", err: service.ErrUserNotSelf, want: http.StatusForbidden},
		{name: "task not found", err: store.ErrTaskNotFound, want: http.StatusNotFound},
		{name: "user not found", err: store.ErrUserNotFound, want: http.StatusNotFound},
		{name: "email exists", err: store.ErrEmailExists, want: http.StatusConflict},
		{name: "invalid entity", err: store.ErrInvalidEntity, want: http.StatusUnprocessableEntity},
		{name: "wrapped not found", err: fmt.Errorf("lookup: %w", store.ErrTaskNotFound), want: http.StatusNotFound},
		{name: "unknown", err: errors.New("boom"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MapErrorToStatusCode(tt.err))
		})
	}
}

func TestGetSafeErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: "An unexpected error occurred"},
		{name: "invalid credentials", err: auth.ErrInvalidCredentials, want: "Invalid credentials"},
		{name: "task not owned", err: service.ErrTaskNotOwned, want: "You do not own this task"},
		{name: "user not self", err: service.ErrUserNotSelf, want: "You can only modify your own account"},
		{name: "task not found", err: store.ErrTaskNotFound, want: "Task not found"},
		{name: "user not found", err: store.ErrUserNotFound, want: "User not found"},
		{name: "email exists", err: store.ErrEmailExists, want: "Email already exists"},
		{name: "unknown internal detail never leaks", err: errors.New("pq: connection refused host=10.0.0.5"), want: "An unexpected error occurred"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetSafeErrorMessage(tt.err))
		})
	}
}

func TestSanitizeValidationError(t *testing.T) {
	err := shared.Validate.Struct(LoginRequest{Email: "not-an-email", Password: "x"})
	assert.Error(t, err)

	msg := SanitizeValidationError(err)
	assert.Contains(t, msg, "Invalid Email")
	assert.NotContains(t, msg, "LoginRequest")
}
