// Package store holds every owner-scoped read and write. Each method takes the
// caller's owner id and never returns or touches rows owned by anyone else.
package store

import (
	"errors"

	"gorm.io/gorm"

	"finops-dashboard-go/internal/models"
)

var (
	ErrNotFound      = errors.New("record not found")
	ErrUsernameTaken = errors.New("username already taken")
)

type Store struct {
	db       *gorm.DB
	timezone string
}

// New wraps db. timezone is the default written for new owners; empty means
// models.DefaultTimezone.
func New(db *gorm.DB, timezone string) *Store {
	if timezone == "" {
		timezone = models.DefaultTimezone
	}
	return &Store{db: db, timezone: timezone}
}

// DB exposes the handle for health checks.
func (s *Store) DB() *gorm.DB { return s.db }

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
