package postgres

import (
	"context"
	_ "embed"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/adanyl0v/go-daily-todo/internal/services"
)

//go:embed migrations/001_init.up.sql
var initUp string

type Storage struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Storage {
	return &Storage{pool: pool}
}

func (s *Storage) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, initUp)
	if err != nil {
		return fmt.Errorf("apply init migration: %w", err)
	}
	return nil
}

func (s *Storage) Ping(ctx context.Context) error {
	err := s.pool.Ping(ctx)
	if err != nil {
		return unavailable("ping", err)
	}
	return nil
}

func (s *Storage) Close() {
	s.pool.Close()
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", services.ErrStorageUnavailable, op, err)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}
