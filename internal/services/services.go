package services

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/adanyl0v/go-daily-todo/internal/models"
)

var (
	ErrValidation         = errors.New("validation error")
	ErrInvalidDate        = errors.New("invalid date format")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserAlreadyExists  = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrSessionNotFound    = errors.New("session not found")
	ErrSessionExpired     = errors.New("session expired")
	ErrTaskNotFound       = errors.New("task not found")
	ErrStorageUnavailable = errors.New("storage unavailable")
)

type AuthService interface {
	// Register creates a user with the given username and password.
	//
	// The password is hashed with argon2id before it is stored.
	//
	// It returns ErrUserAlreadyExists if the username is taken
	// or ErrValidation if the username or password is empty.
	Register(ctx context.Context, params RegisterParams) (*models.User, error)

	// Login authenticates the user by username and password.
	//
	// It deletes all sessions of the user, creates a new session
	// and generates a new JWT token pair.
	//
	// It returns ErrInvalidCredentials both for an unknown
	// username and for a wrong password.
	Login(ctx context.Context, params LoginParams) (*LoginResult, error)

	// Refresh updates the session with the given refresh token.
	//
	// It returns ErrSessionNotFound if the session with the
	// given refresh token doesn't exist or ErrSessionExpired
	// if the session is expired.
	Refresh(ctx context.Context, params RefreshParams) (*LoginResult, error)

	// Logout invalidates all sessions with the given user ID.
	Logout(ctx context.Context, userID int64) error

	// LoadUser returns the user with the given ID or ErrUserNotFound.
	LoadUser(ctx context.Context, userID int64) (*models.User, error)

	// ParseJWTToken parses the given JWT token and returns the registered
	// claims or jwt.ErrTokenExpired if the token is expired.
	ParseJWTToken(token string) (*jwt.RegisteredClaims, error)
}

type SessionService interface {
	GetSessionByID(ctx context.Context, sessionID string) (*models.Session, error)
}

type TaskService interface {
	// CreateTask adds a task dated today. A non-nil ParentID makes it a
	// subtask; the parent must exist and belong to the same user.
	CreateTask(ctx context.Context, params CreateTaskParams) (*models.Task, error)

	// GetTask returns the task with its direct subtasks attached.
	GetTask(ctx context.Context, userID, taskID int64) (*models.Task, error)

	UpdateTask(ctx context.Context, params UpdateTaskParams) (*models.Task, error)

	// ToggleComplete flips the completed flag and returns the new value.
	// Subtasks are left untouched.
	ToggleComplete(ctx context.Context, userID, taskID int64) (bool, error)

	// DeleteTask deletes the task together with its direct subtasks.
	DeleteTask(ctx context.Context, userID, taskID int64) error

	ListTopLevelByDateAndCompletion(ctx context.Context, userID int64, date time.Time, completed bool) ([]*models.Task, error)
	ListIncompleteBefore(ctx context.Context, userID int64, date time.Time) ([]*models.Task, error)

	// AttachSubtasks loads the direct subtasks of every given task.
	AttachSubtasks(ctx context.Context, userID int64, tasks []*models.Task) error

	// GetDailyView splits the user's top-level tasks into today's
	// incomplete and completed lists and the stale incomplete tasks
	// that can be carried over.
	GetDailyView(ctx context.Context, userID int64, today time.Time) (*models.DailyView, error)

	// CarryOver moves the given tasks and their direct subtasks to today.
	// Tasks not owned by the user are skipped without an error.
	// It returns the number of tasks that were moved.
	CarryOver(ctx context.Context, userID int64, today time.Time, taskIDs []int64) (int, error)

	Ping(ctx context.Context) error
}

type RegisterParams struct {
	Username string
	Password string
}

type LoginParams struct {
	Username    string
	Password    string
	Fingerprint string
}

type LoginResult struct {
	UserID                int64
	SessionID             string
	AccessToken           string
	AccessTokenExpiresAt  time.Time
	RefreshToken          string
	RefreshTokenExpiresAt time.Time
}

type RefreshParams struct {
	RefreshToken string
	Fingerprint  string
}

type CreateTaskParams struct {
	UserID      int64
	ParentID    *int64
	Title       string
	Description string
	// Deadline is a YYYY-MM-DD date. Empty means no deadline.
	Deadline string
}

type UpdateTaskParams struct {
	ID          int64
	UserID      int64
	Title       *string
	Description *string
	// An empty Deadline clears it.
	Deadline *string
}
