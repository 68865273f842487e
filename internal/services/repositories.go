package services

import (
	"context"
	"time"

	"github.com/adanyl0v/go-daily-todo/internal/models"
)

// Repositories return the sentinel errors of this package for missing rows
// and unique violations, and wrap driver failures with ErrStorageUnavailable.

type UserRepository interface {
	// CreateUser inserts the user and sets its ID and CreatedAt.
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, userID int64) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	CountUsers(ctx context.Context) (int64, error)
}

type SessionRepository interface {
	// ReplaceUserSessions deletes every session of session.UserID
	// and inserts the given one.
	ReplaceUserSessions(ctx context.Context, session *models.Session) error
	GetSessionByID(ctx context.Context, sessionID string) (*models.Session, error)
	GetSessionByRefreshToken(ctx context.Context, refreshToken, fingerprint string) (*models.Session, error)
	UpdateSession(ctx context.Context, session *models.Session) error
	DeleteSessionsByUserID(ctx context.Context, userID int64) (int64, error)
}

type TaskRepository interface {
	// CreateTask inserts the task and sets its ID.
	CreateTask(ctx context.Context, task *models.Task) error
	GetTask(ctx context.Context, userID, taskID int64) (*models.Task, error)
	UpdateTask(ctx context.Context, task *models.Task) error
	ToggleTaskCompleted(ctx context.Context, userID, taskID int64) (bool, error)

	// DeleteTask deletes the direct subtasks of the task owned by the user,
	// then the task itself. It returns the number of deleted subtasks and
	// ErrTaskNotFound if the task itself was not deleted.
	DeleteTask(ctx context.Context, userID, taskID int64) (int64, error)

	// ListTopLevelTasksByDate returns top-level tasks created on date with the
	// given completed flag, ordered by ID, with SubtaskCount set.
	ListTopLevelTasksByDate(ctx context.Context, userID int64, date time.Time, completed bool) ([]*models.Task, error)

	// ListIncompleteTasksBefore returns incomplete top-level tasks created
	// strictly before date, ordered by ID, with SubtaskCount set.
	ListIncompleteTasksBefore(ctx context.Context, userID int64, date time.Time) ([]*models.Task, error)

	ListSubtasks(ctx context.Context, userID, parentID int64) ([]models.Subtask, error)

	// CarryOverTask sets created_date of the owned task and of its owned
	// direct subtasks to date. It reports whether the task was owned.
	CarryOverTask(ctx context.Context, userID, taskID int64, date time.Time) (bool, error)

	CountTasks(ctx context.Context) (int64, error)
	Ping(ctx context.Context) error
}
