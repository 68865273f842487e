package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-daily-todo/internal/services"
	"github.com/adanyl0v/go-daily-todo/internal/storage/memory"
)

func TestSeed(t *testing.T) {
	store := memory.New()
	auth := newAuthService(store, time.Minute, time.Hour)
	calendar := services.NewFixedCalendar(today)
	params := services.SeedParams{Username: "admin", Password: "password"}

	err := services.Seed(context.Background(), zerolog.Nop(), auth, store, store, calendar, params)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	admin, err := store.GetUserByUsername(context.Background(), "admin")
	if err != nil {
		t.Fatalf("expected default user, got %v", err)
	}

	_, err = auth.Login(context.Background(), services.LoginParams{Username: "admin", Password: "password"})
	if err != nil {
		t.Fatalf("expected default credentials to work, got %v", err)
	}

	view, err := newTaskService(store, today).GetDailyView(context.Background(), admin.ID, today)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(view.Incomplete) != 1 {
		t.Fatalf("expected one sample task, got %d", len(view.Incomplete))
	}
	sample := view.Incomplete[0]
	if sample.Title != "Sample Task" || sample.Deadline == nil || !sample.Deadline.Equal(today) {
		t.Fatalf("unexpected sample task: %+v", sample)
	}

	err = services.Seed(context.Background(), zerolog.Nop(), auth, store, store, calendar, params)
	if err != nil {
		t.Fatalf("unexpected error on second seed: %v", err)
	}
	count, err := store.CountTasks(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected seed to be a no-op once tasks exist, got %d tasks", count)
	}
}

func TestSeed_ExistingUsersWithoutDefault(t *testing.T) {
	store := memory.New()
	auth := newAuthService(store, time.Minute, time.Hour)
	mustRegister(t, auth, "alice", "pw")

	err := services.Seed(
		context.Background(),
		zerolog.Nop(),
		auth,
		store,
		store,
		services.NewFixedCalendar(today),
		services.SeedParams{Username: "admin", Password: "password"},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	count, err := store.CountTasks(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected no sample task without the default user, got %d", count)
	}
}
