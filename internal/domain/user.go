package domain

import (
	"strings"
	"time"
)

// User represents a registered account in the task tracker.
// The ID is assigned by the store on creation; a zero ID marks an
// unsaved user.
type User struct {
	ID             int64     `json:"id"`
	Email          string    `json:"email"`
	Username       string    `json:"username"`
	Password       string    `json:"-"` // Plaintext password, only set during registration/updates
	HashedPassword string    `json:"-"` // Never exposed in JSON
	IsActive       bool      `json:"is_active"`
	IsVerified     bool      `json:"is_verified"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewUser creates a new User pending store insertion. The caller is
// responsible for hashing the password before the user is persisted.
// Returns an error if validation fails.
func NewUser(email, username, password string) (*User, error) {
	now := time.Now().UTC()
	user := &User{
		Email:     email,
		Username:  username,
		Password:  password,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks that the user's fields satisfy the domain constraints.
func (u *User) Validate() error {
	if u.Email == "" {
		return ErrEmptyEmail
	}
	if !validEmailFormat(u.Email) {
		return ErrInvalidEmail
	}

	if u.Username == "" {
		return ErrEmptyUsername
	}
	if len(u.Username) < 3 || len(u.Username) > 50 {
		return ErrUsernameLength
	}

	// A plaintext password is only present during registration and
	// password changes; stored users carry the hash alone.
	if u.Password != "" {
		if len(u.Password) < 8 {
			return ErrPasswordTooShort
		}
		if len(u.Password) > 72 {
			return ErrPasswordTooLong
		}
	} else if u.HashedPassword == "" {
		return ErrEmptyPassword
	}

	return nil
}

// validEmailFormat performs a minimal structural check: a local part,
// an @, and a dotted domain. Full RFC 5322 validation is left to the
// request-validation layer.
func validEmailFormat(email string) bool {
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 {
		return false
	}

	domain := email[at+1:]
	dot := strings.Index(domain, ".")
	return dot > 0 && dot < len(domain)-1
}
