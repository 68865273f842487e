package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/adanyl0v/go-daily-todo/internal/models"
	"github.com/adanyl0v/go-daily-todo/internal/services"
)

func (s *Storage) CreateUser(ctx context.Context, user *models.User) error {
	const insertUserQuery = `
INSERT INTO users (username,
                   password_hash)
VALUES ($1, $2)
RETURNING id, created_at
`
	err := s.pool.QueryRow(
		ctx,
		insertUserQuery,
		user.Username,
		user.PasswordHash,
	).Scan(
		&user.ID,
		&user.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return services.ErrUserAlreadyExists
		}
		return unavailable("insert user", err)
	}
	return nil
}

func (s *Storage) GetUserByID(ctx context.Context, userID int64) (*models.User, error) {
	const selectUserByIDQuery = `
SELECT id,
       username,
       password_hash,
       created_at
FROM users
WHERE id = $1
`
	return s.selectUser(ctx, selectUserByIDQuery, userID)
}

func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	const selectUserByUsernameQuery = `
SELECT id,
       username,
       password_hash,
       created_at
FROM users
WHERE username = $1
`
	return s.selectUser(ctx, selectUserByUsernameQuery, username)
}

func (s *Storage) selectUser(ctx context.Context, query string, arg any) (*models.User, error) {
	user := new(models.User)
	err := s.pool.QueryRow(ctx, query, arg).Scan(
		&user.ID,
		&user.Username,
		&user.PasswordHash,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, services.ErrUserNotFound
		}
		return nil, unavailable("select user", err)
	}
	return user, nil
}

func (s *Storage) CountUsers(ctx context.Context) (int64, error) {
	var count int64
	err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&count)
	if err != nil {
		return 0, unavailable("count users", err)
	}
	return count, nil
}
