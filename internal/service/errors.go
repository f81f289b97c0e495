// Package service provides application-level services for managing users and tasks.
package service

import "errors"

// Common service errors - sentinel errors used across service implementations.
//
// Error handling principles:
// 1. Service methods return sentinel errors for expected error conditions
// 2. Unexpected errors are wrapped with fmt.Errorf("%w")
// 3. Callers use errors.Is to check for specific conditions
// 4. The API layer maps service errors to HTTP status codes in one place
var (
	// ErrTaskNotOwned indicates a task is owned by a different user than the
	// one making the request. The API layer maps this to HTTP 403 Forbidden.
	ErrTaskNotOwned = errors.New("task is owned by another user")

	// ErrUserNotSelf indicates an attempt to modify or delete a user other
	// than the acting user. The API layer maps this to HTTP 403 Forbidden.
	ErrUserNotSelf = errors.New("cannot modify another user")
)
