package models

import "time"

type Session struct {
	ID           string
	UserID       int64
	Fingerprint  string
	RefreshToken string
	ExpiresAt    time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
