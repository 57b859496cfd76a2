// Package domain defines the business logic for the exercise tracker.
package domain

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"example.com/exercisetracker/internal/observability"
)

var (
	// ErrUsernameRequired indicates a missing or empty username.
	ErrUsernameRequired = errors.New("username is required")
	// ErrDuplicateUsername indicates the username is already taken.
	ErrDuplicateUsername = errors.New("username already exists")
	// ErrUserNotFound is returned when a user ID cannot be located.
	ErrUserNotFound = errors.New("user not found")
)

// Service orchestrates user and exercise workflows.
type Service struct {
	users     UserRepository
	exercises ExerciseRepository
	now       func() time.Time
}

// Option customises Service construction.
type Option func(*Service)

// WithNow overrides the clock used for date defaulting.
func WithNow(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService constructs a Service.
func NewService(users UserRepository, exercises ExerciseRepository, opts ...Option) *Service {
	s := &Service{users: users, exercises: exercises, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateUser registers a new user. Usernames are required and unique.
func (s *Service) CreateUser(ctx context.Context, username string) (*User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, ErrUsernameRequired
	}

	user := User{
		ID:        uuid.NewString(),
		Username:  username,
		CreatedAt: s.now().UTC(),
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	observability.RecordUserCreated(user.CreatedAt)
	return &user, nil
}

// ListUsers returns all users in insertion order.
func (s *Service) ListUsers(ctx context.Context) ([]User, error) {
	return s.users.List(ctx)
}

// GetUser fetches a user by ID.
func (s *Service) GetUser(ctx context.Context, id string) (*User, error) {
	user, err := s.users.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// RecordExerciseInput captures the payload from the API layer.
type RecordExerciseInput struct {
	UserID      string
	Description string
	DurationMin int
	Date        *time.Time
}

// ExerciseRecord merges a persisted exercise with its owner's username.
type ExerciseRecord struct {
	ExerciseID  string
	UserID      string
	Username    string
	Description string
	DurationMin int
	Date        time.Time
}

// RecordExercise persists a new exercise for an existing user. The date
// defaults to the current calendar day when absent. Unknown user IDs are
// rejected up front so no orphan exercise is ever written.
func (s *Service) RecordExercise(ctx context.Context, input RecordExerciseInput) (*ExerciseRecord, error) {
	user, err := s.users.Get(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	date := DateOnly(s.now())
	if input.Date != nil {
		date = DateOnly(*input.Date)
	}

	exercise := Exercise{
		ID:          uuid.NewString(),
		UserID:      user.ID,
		Description: input.Description,
		DurationMin: input.DurationMin,
		Date:        date,
		CreatedAt:   s.now().UTC(),
	}

	if err := s.exercises.Create(ctx, exercise); err != nil {
		return nil, err
	}

	observability.RecordExercisePersisted(exercise.CreatedAt)
	return &ExerciseRecord{
		ExerciseID:  exercise.ID,
		UserID:      user.ID,
		Username:    user.Username,
		Description: exercise.Description,
		DurationMin: exercise.DurationMin,
		Date:        exercise.Date,
	}, nil
}

// LogEntry is a single reshaped exercise inside a user log. The exercise's
// own identifiers are deliberately not exposed.
type LogEntry struct {
	Description string
	DurationMin int
	Date        string
}

// UserLog is the filtered, display-shaped exercise history for one user.
type UserLog struct {
	UserID   string
	Username string
	Count    int
	Entries  []LogEntry
}

// BuildUserLog retrieves the user's exercises matching the filter and reshapes
// them for display. An unknown user ID fails before any exercise query runs.
func (s *Service) BuildUserLog(ctx context.Context, userID string, filter LogFilter) (*UserLog, error) {
	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	exercises, err := s.exercises.Find(ctx, user.ID, filter)
	if err != nil {
		return nil, err
	}

	entries := make([]LogEntry, 0, len(exercises))
	for _, exercise := range exercises {
		entries = append(entries, LogEntry{
			Description: exercise.Description,
			DurationMin: exercise.DurationMin,
			Date:        FormatLogDate(exercise.Date),
		})
	}

	return &UserLog{
		UserID:   user.ID,
		Username: user.Username,
		Count:    len(entries),
		Entries:  entries,
	}, nil
}
