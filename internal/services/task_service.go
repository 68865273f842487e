package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-daily-todo/internal/models"
)

type taskServiceImpl struct {
	logger   zerolog.Logger
	tasks    TaskRepository
	calendar Calendar
}

func NewTaskService(
	logger zerolog.Logger,
	tasks TaskRepository,
	calendar Calendar,
) TaskService {
	return &taskServiceImpl{
		logger:   logger,
		tasks:    tasks,
		calendar: calendar,
	}
}

func (s *taskServiceImpl) CreateTask(ctx context.Context, params CreateTaskParams) (*models.Task, error) {
	title := strings.TrimSpace(params.Title)
	if title == "" {
		s.logger.Error().
			Int64("user_id", params.UserID).
			Msg("empty task title")
		return nil, fmt.Errorf("%w: title is required", ErrValidation)
	}

	task := &models.Task{
		UserID:      params.UserID,
		ParentID:    params.ParentID,
		Title:       title,
		Description: params.Description,
		CreatedDate: s.calendar.Today(),
	}

	if params.Deadline != "" {
		deadline, err := models.ParseDate(params.Deadline)
		if err != nil {
			s.logger.Error().
				Err(err).
				Str("deadline", params.Deadline).
				Msg("failed to parse deadline")
			return nil, ErrInvalidDate
		}
		task.Deadline = &deadline
	}

	if task.ParentID != nil {
		_, err := s.tasks.GetTask(ctx, task.UserID, *task.ParentID)
		if err != nil {
			if errors.Is(err, ErrTaskNotFound) {
				s.logger.Error().
					Int64("parent_id", *task.ParentID).
					Int64("user_id", task.UserID).
					Msg("parent task not found")
				return nil, fmt.Errorf("%w: parent task not found", ErrValidation)
			}

			s.logger.Error().
				Err(err).
				Int64("parent_id", *task.ParentID).
				Msg("failed to select parent task")
			return nil, err
		}
	}

	err := s.tasks.CreateTask(ctx, task)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to insert task")
		return nil, err
	}
	s.logger.Debug().
		Int64("task_id", task.ID).
		Msg("inserted task")

	s.logger.Info().
		Int64("task_id", task.ID).
		Int64("user_id", task.UserID).
		Msg("created task")
	return task, nil
}

func (s *taskServiceImpl) GetTask(ctx context.Context, userID, taskID int64) (*models.Task, error) {
	task, err := s.tasks.GetTask(ctx, userID, taskID)
	if err != nil {
		if errors.Is(err, ErrTaskNotFound) {
			s.logger.Error().
				Int64("task_id", taskID).
				Int64("user_id", userID).
				Msg("task not found")
			return nil, ErrTaskNotFound
		}

		s.logger.Error().
			Err(err).
			Int64("task_id", taskID).
			Msg("failed to select task")
		return nil, err
	}

	task, err = s.withSubtasks(ctx, task)
	if err != nil {
		return nil, err
	}

	s.logger.Debug().
		Int64("task_id", task.ID).
		Int("subtasks", task.SubtaskCount).
		Msg("selected task")
	return task, nil
}

func (s *taskServiceImpl) UpdateTask(ctx context.Context, params UpdateTaskParams) (*models.Task, error) {
	task, err := s.tasks.GetTask(ctx, params.UserID, params.ID)
	if err != nil {
		if errors.Is(err, ErrTaskNotFound) {
			s.logger.Error().
				Int64("task_id", params.ID).
				Int64("user_id", params.UserID).
				Msg("task not found")
			return nil, ErrTaskNotFound
		}

		s.logger.Error().
			Err(err).
			Int64("task_id", params.ID).
			Msg("failed to select task")
		return nil, err
	}

	if params.Title == nil && params.Description == nil && params.Deadline == nil {
		s.logger.Warn().
			Int64("task_id", task.ID).
			Msg("no fields to update")
		return s.withSubtasks(ctx, task)
	}

	if params.Title != nil {
		title := strings.TrimSpace(*params.Title)
		if title == "" {
			return nil, fmt.Errorf("%w: title is required", ErrValidation)
		}
		task.Title = title
	}
	if params.Description != nil {
		task.Description = *params.Description
	}
	if params.Deadline != nil {
		if *params.Deadline == "" {
			task.Deadline = nil
		} else {
			deadline, err := models.ParseDate(*params.Deadline)
			if err != nil {
				s.logger.Error().
					Err(err).
					Str("deadline", *params.Deadline).
					Msg("failed to parse deadline")
				return nil, ErrInvalidDate
			}
			task.Deadline = &deadline
		}
	}

	err = s.tasks.UpdateTask(ctx, task)
	if err != nil {
		if errors.Is(err, ErrTaskNotFound) {
			return nil, ErrTaskNotFound
		}

		s.logger.Error().
			Err(err).
			Int64("task_id", task.ID).
			Msg("failed to update task")
		return nil, err
	}
	s.logger.Debug().
		Int64("task_id", task.ID).
		Msg("updated task")

	s.logger.Info().
		Int64("task_id", task.ID).
		Int64("user_id", task.UserID).
		Msg("updated task")
	return s.withSubtasks(ctx, task)
}

func (s *taskServiceImpl) withSubtasks(ctx context.Context, task *models.Task) (*models.Task, error) {
	err := s.AttachSubtasks(ctx, task.UserID, []*models.Task{task})
	if err != nil {
		return nil, err
	}
	task.SubtaskCount = len(task.Subtasks)
	return task, nil
}

func (s *taskServiceImpl) ToggleComplete(ctx context.Context, userID, taskID int64) (bool, error) {
	completed, err := s.tasks.ToggleTaskCompleted(ctx, userID, taskID)
	if err != nil {
		if errors.Is(err, ErrTaskNotFound) {
			s.logger.Error().
				Int64("task_id", taskID).
				Int64("user_id", userID).
				Msg("task not found")
			return false, ErrTaskNotFound
		}

		s.logger.Error().
			Err(err).
			Int64("task_id", taskID).
			Msg("failed to toggle task")
		return false, err
	}

	s.logger.Info().
		Int64("task_id", taskID).
		Int64("user_id", userID).
		Bool("completed", completed).
		Msg("toggled task")
	return completed, nil
}

func (s *taskServiceImpl) DeleteTask(ctx context.Context, userID, taskID int64) error {
	subtasks, err := s.tasks.DeleteTask(ctx, userID, taskID)
	if err != nil {
		if errors.Is(err, ErrTaskNotFound) {
			s.logger.Error().
				Int64("task_id", taskID).
				Int64("user_id", userID).
				Int64("deleted_subtasks", subtasks).
				Msg("task not found")
			return ErrTaskNotFound
		}

		s.logger.Error().
			Err(err).
			Int64("task_id", taskID).
			Msg("failed to delete task")
		return err
	}
	s.logger.Debug().
		Int64("task_id", taskID).
		Int64("deleted_subtasks", subtasks).
		Msg("deleted task")

	s.logger.Info().
		Int64("task_id", taskID).
		Int64("user_id", userID).
		Msg("deleted task")
	return nil
}

func (s *taskServiceImpl) ListTopLevelByDateAndCompletion(
	ctx context.Context,
	userID int64,
	date time.Time,
	completed bool,
) ([]*models.Task, error) {
	tasks, err := s.tasks.ListTopLevelTasksByDate(ctx, userID, models.Date(date), completed)
	if err != nil {
		s.logger.Error().
			Err(err).
			Int64("user_id", userID).
			Msg("failed to select tasks by date")
		return nil, err
	}
	s.logger.Debug().
		Int("count", len(tasks)).
		Int64("user_id", userID).
		Bool("completed", completed).
		Msg("selected tasks by date")
	return tasks, nil
}

func (s *taskServiceImpl) ListIncompleteBefore(ctx context.Context, userID int64, date time.Time) ([]*models.Task, error) {
	tasks, err := s.tasks.ListIncompleteTasksBefore(ctx, userID, models.Date(date))
	if err != nil {
		s.logger.Error().
			Err(err).
			Int64("user_id", userID).
			Msg("failed to select incomplete tasks")
		return nil, err
	}
	s.logger.Debug().
		Int("count", len(tasks)).
		Int64("user_id", userID).
		Msg("selected incomplete tasks")
	return tasks, nil
}

func (s *taskServiceImpl) AttachSubtasks(ctx context.Context, userID int64, tasks []*models.Task) error {
	for _, task := range tasks {
		subtasks, err := s.tasks.ListSubtasks(ctx, userID, task.ID)
		if err != nil {
			s.logger.Error().
				Err(err).
				Int64("task_id", task.ID).
				Msg("failed to select subtasks")
			return err
		}
		if subtasks == nil {
			subtasks = []models.Subtask{}
		}
		task.Subtasks = subtasks
	}
	return nil
}

func (s *taskServiceImpl) GetDailyView(ctx context.Context, userID int64, today time.Time) (*models.DailyView, error) {
	today = models.Date(today)

	incomplete, err := s.ListTopLevelByDateAndCompletion(ctx, userID, today, false)
	if err != nil {
		return nil, err
	}
	err = s.AttachSubtasks(ctx, userID, incomplete)
	if err != nil {
		return nil, err
	}

	completed, err := s.ListTopLevelByDateAndCompletion(ctx, userID, today, true)
	if err != nil {
		return nil, err
	}
	err = s.AttachSubtasks(ctx, userID, completed)
	if err != nil {
		return nil, err
	}

	// Carry-over candidates only carry their subtask count.
	carryOver, err := s.ListIncompleteBefore(ctx, userID, today)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("user_id", userID).
		Str("date", models.FormatDate(today)).
		Int("incomplete", len(incomplete)).
		Int("completed", len(completed)).
		Int("carry_over", len(carryOver)).
		Msg("built daily view")
	return &models.DailyView{
		Date:       today,
		Incomplete: incomplete,
		Completed:  completed,
		CarryOver:  carryOver,
	}, nil
}

func (s *taskServiceImpl) CarryOver(ctx context.Context, userID int64, today time.Time, taskIDs []int64) (int, error) {
	today = models.Date(today)

	var carried int
	seen := make(map[int64]struct{}, len(taskIDs))
	for _, taskID := range taskIDs {
		if _, ok := seen[taskID]; ok {
			continue
		}
		seen[taskID] = struct{}{}

		owned, err := s.tasks.CarryOverTask(ctx, userID, taskID, today)
		if err != nil {
			s.logger.Error().
				Err(err).
				Int64("task_id", taskID).
				Int("carried", carried).
				Msg("failed to carry over task")
			return carried, err
		}
		if !owned {
			s.logger.Debug().
				Int64("task_id", taskID).
				Int64("user_id", userID).
				Msg("skipped task not owned by user")
			continue
		}
		carried++
	}

	s.logger.Info().
		Int64("user_id", userID).
		Int("requested", len(taskIDs)).
		Int("carried", carried).
		Msg("carried over tasks")
	return carried, nil
}

func (s *taskServiceImpl) Ping(ctx context.Context) error {
	return s.tasks.Ping(ctx)
}
