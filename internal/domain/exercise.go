package domain

import (
	"context"
	"time"
)

// Exercise is a single recorded workout entry owned by a user.
type Exercise struct {
	ID          string
	UserID      string
	Description string
	DurationMin int
	Date        time.Time
	CreatedAt   time.Time
}

// LogFilter narrows an exercise query. From and To are inclusive calendar-day
// bounds; Limit of 0 means unlimited.
type LogFilter struct {
	From  *time.Time
	To    *time.Time
	Limit int
}

// ExerciseRepository captures persistence operations for exercises.
type ExerciseRepository interface {
	Create(ctx context.Context, exercise Exercise) error
	// Find returns the user's exercises matching the filter, in insertion order.
	Find(ctx context.Context, userID string, filter LogFilter) ([]Exercise, error)
}
