package model

import (
	"fmt"
	"strings"
	"time"
)

type Task struct {
	ID        string    `json:"id" yaml:"id"`
	Text      string    `json:"text" yaml:"text"`
	Completed bool      `json:"completed" yaml:"completed"`
	Category  string    `json:"category" yaml:"category"`
	DueDate   *Date     `json:"dueDate" yaml:"dueDate"`
	CreatedAt time.Time `json:"createdAt" yaml:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" yaml:"updatedAt"`
	Order     int       `json:"order" yaml:"order"`
}

func (t *Task) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("%w: task id is required", ErrValidation)
	}
	if strings.TrimSpace(t.Text) == "" {
		return fmt.Errorf("%w: task text is required", ErrValidation)
	}
	if t.Category == "" {
		return fmt.Errorf("%w: task category is required", ErrValidation)
	}
	if t.UpdatedAt.Before(t.CreatedAt) {
		return fmt.Errorf("%w: task %s updated before it was created", ErrValidation, t.ID)
	}
	return nil
}

// Touch refreshes UpdatedAt without ever moving it backwards.
func (t *Task) Touch(now time.Time) {
	if now.After(t.UpdatedAt) {
		t.UpdatedAt = now
	}
	if t.UpdatedAt.Before(t.CreatedAt) {
		t.UpdatedAt = t.CreatedAt
	}
}

// IsOverdue reports whether the task has a due date strictly before today and is not completed.
func (t *Task) IsOverdue(today Date) bool {
	return !t.Completed && t.DueDate != nil && t.DueDate.Before(today)
}

// IsDueToday reports whether the task is due on today and still open.
func (t *Task) IsDueToday(today Date) bool {
	return !t.Completed && t.DueDate != nil && *t.DueDate == today
}
