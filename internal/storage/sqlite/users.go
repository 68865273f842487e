package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/adanyl0v/go-daily-todo/internal/models"
	"github.com/adanyl0v/go-daily-todo/internal/services"
)

type userRow struct {
	ID           int64     `db:"id"`
	Username     string    `db:"username"`
	PasswordHash string    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
}

func (r userRow) toModel() *models.User {
	return &models.User{
		ID:           r.ID,
		Username:     r.Username,
		PasswordHash: r.PasswordHash,
		CreatedAt:    r.CreatedAt,
	}
}

func (s *Storage) CreateUser(ctx context.Context, user *models.User) error {
	createdAt := time.Now().UTC()
	res, err := s.db.ExecContext(ctx, insertUserQuery, user.Username, user.PasswordHash, createdAt)
	if err != nil {
		if isUniqueViolation(err) {
			return services.ErrUserAlreadyExists
		}
		return unavailable("insert user", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return unavailable("get last insert id", err)
	}
	user.ID = id
	user.CreatedAt = createdAt
	return nil
}

func (s *Storage) GetUserByID(ctx context.Context, userID int64) (*models.User, error) {
	return s.getUser(ctx, getUserByIDQuery, userID)
}

func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getUser(ctx, getUserByUsernameQuery, username)
}

func (s *Storage) getUser(ctx context.Context, query string, arg any) (*models.User, error) {
	var row userRow
	err := s.db.GetContext(ctx, &row, query, arg)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, services.ErrUserNotFound
		}
		return nil, unavailable("select user", err)
	}
	return row.toModel(), nil
}

func (s *Storage) CountUsers(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.GetContext(ctx, &count, countUsersQuery)
	if err != nil {
		return 0, unavailable("count users", err)
	}
	return count, nil
}
