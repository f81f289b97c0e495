// Package auth provides JWT token issuance/validation and password hashing.
package auth

import "errors"

// Common authentication errors.
var (
	// ErrInvalidToken is returned when a token is malformed, has a bad
	// signature, or carries unexpected claims.
	ErrInvalidToken = errors.New("invalid token")

	// ErrExpiredToken is returned when a token's expiry has passed.
	ErrExpiredToken = errors.New("token expired")

	// ErrInvalidCredentials is returned when an email/password pair does
	// not match a stored user. Callers must not distinguish "unknown
	// email" from "wrong password".
	ErrInvalidCredentials = errors.New("invalid credentials")
)
