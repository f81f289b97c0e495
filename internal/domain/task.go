package domain

import "time"

// Task represents a single to-do item owned by exactly one user.
// UserID is set at creation and never changes afterwards.
type Task struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Completed   bool      `json:"completed"`
	UserID      int64     `json:"user_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewTask creates a new Task owned by the given user, pending store
// insertion. Completed always starts false.
// Returns an error if validation fails.
func NewTask(userID int64, title, description string) (*Task, error) {
	now := time.Now().UTC()
	task := &Task{
		Title:       title,
		Description: description,
		Completed:   false,
		UserID:      userID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks that the task's fields satisfy the domain constraints.
func (t *Task) Validate() error {
	if len(t.Title) < 3 || len(t.Title) > 100 {
		return ErrTitleLength
	}
	if len(t.Description) > 500 {
		return ErrDescriptionTooLong
	}
	if t.UserID == 0 {
		return ErrMissingOwner
	}
	return nil
}
