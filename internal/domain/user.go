package domain

import (
	"context"
	"time"
)

// User is a registered account in the tracker.
type User struct {
	ID        string
	Username  string
	CreatedAt time.Time
}

// UserRepository captures persistence operations for users.
type UserRepository interface {
	// Create persists the user. ErrDuplicateUsername is returned when the
	// username is already taken (case-sensitive exact match).
	Create(ctx context.Context, user User) error
	// List returns every user in insertion order.
	List(ctx context.Context) ([]User, error)
	// Get returns the user by ID, or nil when no such user exists.
	Get(ctx context.Context, id string) (*User, error)
}
