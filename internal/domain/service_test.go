package domain_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"example.com/exercisetracker/internal/domain"
	"example.com/exercisetracker/internal/persistence/memory"
)

func newTestService(now time.Time) *domain.Service {
	return domain.NewService(
		memory.NewUserRepository(),
		memory.NewExerciseRepository(),
		domain.WithNow(func() time.Time { return now }),
	)
}

func TestCreateUserReturnsUsername(t *testing.T) {
	service := newTestService(time.Now())

	user, err := service.CreateUser(context.Background(), "alice")
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	if user.Username != "alice" {
		t.Fatalf("expected username alice got %q", user.Username)
	}
	if user.ID == "" {
		t.Fatalf("expected generated id")
	}
}

func TestCreateUserRejectsEmptyUsername(t *testing.T) {
	service := newTestService(time.Now())

	if _, err := service.CreateUser(context.Background(), "  "); !errors.Is(err, domain.ErrUsernameRequired) {
		t.Fatalf("expected ErrUsernameRequired got %v", err)
	}
}

func TestCreateUserRejectsDuplicate(t *testing.T) {
	service := newTestService(time.Now())
	ctx := context.Background()

	if _, err := service.CreateUser(ctx, "alice"); err != nil {
		t.Fatalf("first create failed: %v", err)
	}
	if _, err := service.CreateUser(ctx, "alice"); !errors.Is(err, domain.ErrDuplicateUsername) {
		t.Fatalf("expected ErrDuplicateUsername got %v", err)
	}

	users, err := service.ListUsers(ctx)
	if err != nil {
		t.Fatalf("ListUsers failed: %v", err)
	}
	if len(users) != 1 {
		t.Fatalf("expected 1 user after duplicate rejection got %d", len(users))
	}
}

func TestListUsersPreservesInsertionOrder(t *testing.T) {
	service := newTestService(time.Now())
	ctx := context.Background()

	for _, name := range []string{"alice", "bob"} {
		if _, err := service.CreateUser(ctx, name); err != nil {
			t.Fatalf("CreateUser(%s) failed: %v", name, err)
		}
	}

	users, err := service.ListUsers(ctx)
	if err != nil {
		t.Fatalf("ListUsers failed: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("expected 2 users got %d", len(users))
	}
	if users[0].Username != "alice" || users[1].Username != "bob" {
		t.Fatalf("unexpected order: %q, %q", users[0].Username, users[1].Username)
	}
}

func TestRecordExerciseDefaultsDateToToday(t *testing.T) {
	now := time.Date(2023, time.May, 1, 14, 30, 0, 0, time.UTC)
	service := newTestService(now)
	ctx := context.Background()

	user, err := service.CreateUser(ctx, "alice")
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	record, err := service.RecordExercise(ctx, domain.RecordExerciseInput{
		UserID:      user.ID,
		Description: "run",
		DurationMin: 30,
	})
	if err != nil {
		t.Fatalf("RecordExercise failed: %v", err)
	}

	want := time.Date(2023, time.May, 1, 0, 0, 0, 0, time.UTC)
	if !record.Date.Equal(want) {
		t.Fatalf("expected date %v got %v", want, record.Date)
	}
	if record.Username != "alice" {
		t.Fatalf("expected username alice got %q", record.Username)
	}
}

func TestRecordExerciseRejectsUnknownUser(t *testing.T) {
	service := newTestService(time.Now())

	_, err := service.RecordExercise(context.Background(), domain.RecordExerciseInput{
		UserID:      "no-such-user",
		Description: "run",
		DurationMin: 30,
	})
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound got %v", err)
	}
}

func seedLogFixture(t *testing.T, service *domain.Service) string {
	t.Helper()
	ctx := context.Background()

	user, err := service.CreateUser(ctx, "alice")
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	for _, day := range []time.Time{
		time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2023, time.February, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2023, time.March, 1, 0, 0, 0, 0, time.UTC),
	} {
		date := day
		if _, err := service.RecordExercise(ctx, domain.RecordExerciseInput{
			UserID:      user.ID,
			Description: "session",
			DurationMin: 20,
			Date:        &date,
		}); err != nil {
			t.Fatalf("RecordExercise failed: %v", err)
		}
	}
	return user.ID
}

func TestBuildUserLogDateRangeIsInclusive(t *testing.T) {
	service := newTestService(time.Now())
	userID := seedLogFixture(t, service)

	from := time.Date(2023, time.January, 15, 0, 0, 0, 0, time.UTC)
	to := time.Date(2023, time.February, 15, 0, 0, 0, 0, time.UTC)

	userLog, err := service.BuildUserLog(context.Background(), userID, domain.LogFilter{From: &from, To: &to})
	if err != nil {
		t.Fatalf("BuildUserLog failed: %v", err)
	}
	if userLog.Count != 1 {
		t.Fatalf("expected count 1 got %d", userLog.Count)
	}
	if userLog.Entries[0].Date != "Wed Feb 01 2023" {
		t.Fatalf("unexpected entry date %q", userLog.Entries[0].Date)
	}
}

func TestBuildUserLogHonorsLimit(t *testing.T) {
	service := newTestService(time.Now())
	userID := seedLogFixture(t, service)

	userLog, err := service.BuildUserLog(context.Background(), userID, domain.LogFilter{Limit: 2})
	if err != nil {
		t.Fatalf("BuildUserLog failed: %v", err)
	}
	if userLog.Count != 2 {
		t.Fatalf("expected count 2 got %d", userLog.Count)
	}
	if len(userLog.Entries) != 2 {
		t.Fatalf("expected 2 entries got %d", len(userLog.Entries))
	}
}

func TestBuildUserLogZeroLimitIsUnlimited(t *testing.T) {
	service := newTestService(time.Now())
	userID := seedLogFixture(t, service)

	userLog, err := service.BuildUserLog(context.Background(), userID, domain.LogFilter{})
	if err != nil {
		t.Fatalf("BuildUserLog failed: %v", err)
	}
	if userLog.Count != 3 {
		t.Fatalf("expected count 3 got %d", userLog.Count)
	}
}

func TestBuildUserLogUnknownUserFails(t *testing.T) {
	service := newTestService(time.Now())
	seedLogFixture(t, service)

	_, err := service.BuildUserLog(context.Background(), "no-such-user", domain.LogFilter{})
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound got %v", err)
	}
}
