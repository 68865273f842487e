package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/adanyl0v/go-daily-todo/internal/models"
	"github.com/adanyl0v/go-daily-todo/internal/services"
)

type sessionRow struct {
	ID           string    `db:"id"`
	UserID       int64     `db:"user_id"`
	Fingerprint  string    `db:"fingerprint"`
	RefreshToken string    `db:"refresh_token"`
	ExpiresAt    time.Time `db:"expires_at"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

func (r sessionRow) toModel() *models.Session {
	return &models.Session{
		ID:           r.ID,
		UserID:       r.UserID,
		Fingerprint:  r.Fingerprint,
		RefreshToken: r.RefreshToken,
		ExpiresAt:    r.ExpiresAt,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

func (s *Storage) ReplaceUserSessions(ctx context.Context, session *models.Session) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return unavailable("begin transaction", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, deleteSessionsByUserIDQuery, session.UserID)
	if err != nil {
		return unavailable("delete sessions by user id", err)
	}

	_, err = tx.ExecContext(
		ctx,
		insertSessionQuery,
		session.ID,
		session.UserID,
		session.Fingerprint,
		session.RefreshToken,
		session.ExpiresAt.UTC(),
		session.CreatedAt.UTC(),
		session.UpdatedAt.UTC(),
	)
	if err != nil {
		return unavailable("insert session", err)
	}

	err = tx.Commit()
	if err != nil {
		return unavailable("commit transaction", err)
	}
	return nil
}

func (s *Storage) GetSessionByID(ctx context.Context, sessionID string) (*models.Session, error) {
	return s.getSession(ctx, getSessionByIDQuery, sessionID)
}

func (s *Storage) GetSessionByRefreshToken(ctx context.Context, refreshToken, fingerprint string) (*models.Session, error) {
	return s.getSession(ctx, getSessionByRefreshTokenQuery, refreshToken, fingerprint)
}

func (s *Storage) getSession(ctx context.Context, query string, args ...any) (*models.Session, error) {
	var row sessionRow
	err := s.db.GetContext(ctx, &row, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, services.ErrSessionNotFound
		}
		return nil, unavailable("select session", err)
	}
	return row.toModel(), nil
}

func (s *Storage) UpdateSession(ctx context.Context, session *models.Session) error {
	res, err := s.db.ExecContext(
		ctx,
		updateSessionQuery,
		session.RefreshToken,
		session.ExpiresAt.UTC(),
		session.UpdatedAt.UTC(),
		session.ID,
	)
	if err != nil {
		return unavailable("update session", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return unavailable("get rows affected", err)
	}
	if n == 0 {
		return services.ErrSessionNotFound
	}
	return nil
}

func (s *Storage) DeleteSessionsByUserID(ctx context.Context, userID int64) (int64, error) {
	res, err := s.db.ExecContext(ctx, deleteSessionsByUserIDQuery, userID)
	if err != nil {
		return 0, unavailable("delete sessions by user id", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, unavailable("get rows affected", err)
	}
	return n, nil
}
