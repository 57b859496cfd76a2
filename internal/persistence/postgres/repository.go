// Package postgres provides pgx-backed persistence for users and exercises.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"example.com/exercisetracker/internal/domain"
)

const uniqueViolation = "23505"

// UserRepository provides Postgres-backed persistence for users.
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository constructs a UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// Create persists the user. Username uniqueness is enforced by the
// users_username_key index.
func (r *UserRepository) Create(ctx context.Context, user domain.User) error {
	const stmt = `INSERT INTO users (user_id, username, created_at) VALUES ($1,$2,$3)`

	_, err := r.pool.Exec(ctx, stmt, user.ID, user.Username, user.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domain.ErrDuplicateUsername
		}
		return err
	}
	return nil
}

// List returns all users in insertion order.
func (r *UserRepository) List(ctx context.Context) ([]domain.User, error) {
	const query = `SELECT user_id, username, created_at FROM users ORDER BY created_at, user_id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]domain.User, 0)
	for rows.Next() {
		var user domain.User
		if err := rows.Scan(&user.ID, &user.Username, &user.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// Get retrieves a user by ID, returning nil when no row matches.
func (r *UserRepository) Get(ctx context.Context, id string) (*domain.User, error) {
	const query = `SELECT user_id, username, created_at FROM users WHERE user_id=$1`

	row := r.pool.QueryRow(ctx, query, id)
	var user domain.User
	if err := row.Scan(&user.ID, &user.Username, &user.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// ExerciseRepository provides Postgres-backed persistence for exercises and
// their outbox events.
type ExerciseRepository struct {
	pool *pgxpool.Pool
}

// NewExerciseRepository constructs an ExerciseRepository.
func NewExerciseRepository(pool *pgxpool.Pool) *ExerciseRepository {
	return &ExerciseRepository{pool: pool}
}

// Create persists the exercise and records its outbox event inside a single
// transaction.
func (r *ExerciseRepository) Create(ctx context.Context, exercise domain.Exercise) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback(ctx)
		}
	}()

	const insertExercise = `INSERT INTO exercises (exercise_id, user_id, description, duration_min, date, created_at)
        VALUES ($1,$2,$3,$4,$5,$6)`

	_, err = tx.Exec(ctx, insertExercise,
		exercise.ID,
		exercise.UserID,
		exercise.Description,
		exercise.DurationMin,
		exercise.Date,
		exercise.CreatedAt,
	)
	if err != nil {
		return err
	}

	if err = insertOutbox(ctx, tx, exercise, "exercise.recorded"); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func insertOutbox(ctx context.Context, tx pgx.Tx, exercise domain.Exercise, eventType string) error {
	meta := eventCatalog[eventType]
	if meta.Topic == "" {
		return fmt.Errorf("unknown event type: %s", eventType)
	}

	body, err := json.Marshal(exerciseRecordedPayload{
		ExerciseID:  exercise.ID,
		UserID:      exercise.UserID,
		Description: exercise.Description,
		DurationMin: exercise.DurationMin,
		Date:        exercise.Date.Format("2006-01-02"),
	})
	if err != nil {
		return err
	}

	dedupeKey := fmt.Sprintf("%s:%s", exercise.ID, eventType)

	const stmt = `INSERT INTO outbox (aggregate_type, aggregate_id, event_type, topic, partition_key, payload, dedupe_key)
        VALUES ($1,$2,$3,$4,$5,$6,$7)`

	_, err = tx.Exec(ctx, stmt,
		"exercise",
		exercise.ID,
		eventType,
		meta.Topic,
		meta.PartitionKeyFn(exercise),
		body,
		dedupeKey,
	)
	return err
}

// Find returns the user's exercises matching the filter in insertion order.
func (r *ExerciseRepository) Find(ctx context.Context, userID string, filter domain.LogFilter) ([]domain.Exercise, error) {
	query := `SELECT exercise_id, user_id, description, duration_min, date, created_at
        FROM exercises WHERE user_id=$1`
	args := []interface{}{userID}

	if filter.From != nil {
		args = append(args, *filter.From)
		query += fmt.Sprintf(` AND date >= $%d`, len(args))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		query += fmt.Sprintf(` AND date <= $%d`, len(args))
	}

	query += ` ORDER BY created_at, exercise_id`

	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(` LIMIT $%d`, len(args))
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := make([]domain.Exercise, 0)
	for rows.Next() {
		var exercise domain.Exercise
		if err := rows.Scan(&exercise.ID, &exercise.UserID, &exercise.Description, &exercise.DurationMin, &exercise.Date, &exercise.CreatedAt); err != nil {
			return nil, err
		}
		results = append(results, exercise)
	}
	return results, rows.Err()
}

type exerciseRecordedPayload struct {
	ExerciseID  string `json:"exercise_id"`
	UserID      string `json:"user_id"`
	Description string `json:"description"`
	DurationMin int    `json:"duration_min"`
	Date        string `json:"date"`
}

// EventMetadata describes how to route an outbox event.
type EventMetadata struct {
	Topic          string
	PartitionKeyFn func(domain.Exercise) string
}

var eventCatalog = map[string]EventMetadata{
	"exercise.recorded": {
		Topic: "exercise_events",
		PartitionKeyFn: func(e domain.Exercise) string {
			return e.UserID
		},
	},
}
