// Package domain defines the core business entities and errors.
package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrEmptyEmail is returned when an email address is missing.
	ErrEmptyEmail = errors.New("email cannot be empty")

	// ErrInvalidEmail is returned when an email address is malformed.
	ErrInvalidEmail = errors.New("invalid email format")

	// ErrEmptyUsername is returned when a username is missing.
	ErrEmptyUsername = errors.New("username cannot be empty")

	// ErrUsernameLength is returned when a username is outside its length bounds.
	ErrUsernameLength = errors.New("username must be between 3 and 50 characters")

	// ErrPasswordTooShort is returned when a password is below the minimum length.
	ErrPasswordTooShort = errors.New("password must be at least 8 characters long")

	// ErrPasswordTooLong is returned when a password exceeds bcrypt's practical limit.
	ErrPasswordTooLong = errors.New("password must be at most 72 characters long")

	// ErrEmptyPassword is returned when neither a plaintext nor a hashed password is set.
	ErrEmptyPassword = errors.New("password cannot be empty")

	// ErrTitleLength is returned when a task title is outside its length bounds.
	ErrTitleLength = errors.New("title must be between 3 and 100 characters")

	// ErrDescriptionTooLong is returned when a task description exceeds its limit.
	ErrDescriptionTooLong = errors.New("description must be at most 500 characters")

	// ErrMissingOwner is returned when a task has no owning user.
	ErrMissingOwner = errors.New("task must belong to a user")
)
