package services

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-daily-todo/internal/models"
)

const (
	sampleTaskTitle       = "Sample Task"
	sampleTaskDescription = "This is a sample task description"
)

type SeedParams struct {
	Username string
	Password string
}

// Seed populates an empty task table with one sample task owned by the
// default user, creating that user first when no users exist.
// It does nothing once any task exists.
func Seed(
	ctx context.Context,
	logger zerolog.Logger,
	auth AuthService,
	users UserRepository,
	tasks TaskRepository,
	calendar Calendar,
	params SeedParams,
) error {
	taskCount, err := tasks.CountTasks(ctx)
	if err != nil {
		logger.Error().
			Err(err).
			Msg("failed to count tasks")
		return err
	}
	if taskCount > 0 {
		logger.Debug().
			Int64("tasks", taskCount).
			Msg("tasks exist, skipping seed")
		return nil
	}

	userCount, err := users.CountUsers(ctx)
	if err != nil {
		logger.Error().
			Err(err).
			Msg("failed to count users")
		return err
	}
	if userCount == 0 {
		_, err = auth.Register(ctx, RegisterParams{
			Username: params.Username,
			Password: params.Password,
		})
		if err != nil {
			logger.Error().
				Err(err).
				Str("username", params.Username).
				Msg("failed to create default user")
			return err
		}
	}

	user, err := users.GetUserByUsername(ctx, params.Username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			logger.Warn().
				Str("username", params.Username).
				Msg("default user not found, skipping sample task")
			return nil
		}

		logger.Error().
			Err(err).
			Msg("failed to select default user")
		return err
	}

	today := calendar.Today()
	task := &models.Task{
		UserID:      user.ID,
		Title:       sampleTaskTitle,
		Description: sampleTaskDescription,
		Deadline:    &today,
		CreatedDate: today,
	}
	err = tasks.CreateTask(ctx, task)
	if err != nil {
		logger.Error().
			Err(err).
			Msg("failed to insert sample task")
		return err
	}

	logger.Info().
		Int64("user_id", user.ID).
		Int64("task_id", task.ID).
		Msg("seeded sample task")
	return nil
}
