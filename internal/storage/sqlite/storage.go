package sqlite

import (
	"context"
	_ "embed"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"

	"github.com/adanyl0v/go-daily-todo/internal/services"
)

//go:embed migrations/001_init.up.sql
var initUp string

type Storage struct {
	db *sqlx.DB
}

// New opens the database file at path, creating it when missing.
func New(path string) (*Storage, error) {
	dsn := fmt.Sprintf("%s?_foreign_keys=on&_busy_timeout=5000", path)
	db, err := sqlx.Connect("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlx.Connect: %w", err)
	}
	// SQLite allows a single writer.
	db.SetMaxOpenConns(1)

	return &Storage{db: db}, nil
}

func (s *Storage) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, initUp)
	if err != nil {
		return fmt.Errorf("apply init migration: %w", err)
	}
	return nil
}

func (s *Storage) Ping(ctx context.Context) error {
	err := s.db.PingContext(ctx)
	if err != nil {
		return unavailable("ping", err)
	}
	return nil
}

func (s *Storage) Close() {
	_ = s.db.Close()
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", services.ErrStorageUnavailable, op, err)
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
}
