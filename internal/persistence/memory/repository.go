// Package memory stores users and exercises in memory for local development
// and tests.
package memory

import (
	"context"
	"sync"

	"example.com/exercisetracker/internal/domain"
)

// UserRepository keeps users in insertion order behind a RWMutex.
type UserRepository struct {
	mu    sync.RWMutex
	byID  map[string]domain.User
	order []string
}

// NewUserRepository constructs an empty UserRepository.
func NewUserRepository() *UserRepository {
	return &UserRepository{byID: make(map[string]domain.User)}
}

// Create implements domain.UserRepository.
func (r *UserRepository) Create(ctx context.Context, user domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, id := range r.order {
		if r.byID[id].Username == user.Username {
			return domain.ErrDuplicateUsername
		}
	}

	r.byID[user.ID] = user
	r.order = append(r.order, user.ID)
	return nil
}

// List returns users in the order they were created.
func (r *UserRepository) List(ctx context.Context) ([]domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]domain.User, 0, len(r.order))
	for _, id := range r.order {
		users = append(users, r.byID[id])
	}
	return users, nil
}

// Get returns the user by ID, or nil when absent.
func (r *UserRepository) Get(ctx context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	return &user, nil
}

// ExerciseRepository keeps per-user exercise slices in insertion order.
type ExerciseRepository struct {
	mu     sync.RWMutex
	byUser map[string][]domain.Exercise
}

// NewExerciseRepository constructs an empty ExerciseRepository.
func NewExerciseRepository() *ExerciseRepository {
	return &ExerciseRepository{byUser: make(map[string][]domain.Exercise)}
}

// Create implements domain.ExerciseRepository.
func (r *ExerciseRepository) Create(ctx context.Context, exercise domain.Exercise) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.byUser[exercise.UserID] = append(r.byUser[exercise.UserID], exercise)
	return nil
}

// Find returns matching exercises in insertion order, honoring the inclusive
// date bounds and the limit.
func (r *ExerciseRepository) Find(ctx context.Context, userID string, filter domain.LogFilter) ([]domain.Exercise, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	results := make([]domain.Exercise, 0)
	for _, exercise := range r.byUser[userID] {
		if filter.From != nil && exercise.Date.Before(*filter.From) {
			continue
		}
		if filter.To != nil && exercise.Date.After(*filter.To) {
			continue
		}
		results = append(results, exercise)
		if filter.Limit > 0 && len(results) == filter.Limit {
			break
		}
	}
	return results, nil
}
