package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"finops-dashboard-go/internal/models"
)

// Register creates a user and onboards it in one transaction, so a failed
// onboarding leaves no account behind. The unique username index decides
// races between concurrent registrations.
func (s *Store) Register(ctx context.Context, username, pinHash string, sample bool) (*models.User, error) {
	u := models.User{Username: username, PinHash: pinHash}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&u).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrUsernameTaken
			}
			return fmt.Errorf("create user: %w", err)
		}
		_, err := s.onboard(tx, u.ID, sample)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Store) UserByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&u).Error; err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

func (s *Store) CreateSession(ctx context.Context, userID, tokenHash string, expires time.Time) error {
	sess := models.Session{UserID: userID, TokenHash: tokenHash, ExpiresAt: expires.UTC()}
	if err := s.db.WithContext(ctx).Create(&sess).Error; err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

// SessionOwner resolves a token hash to its user id. Expired sessions are
// reported as ErrNotFound.
func (s *Store) SessionOwner(ctx context.Context, tokenHash string, now time.Time) (string, error) {
	var sess models.Session
	err := s.db.WithContext(ctx).
		Where("token_hash = ? AND expires_at > ?", tokenHash, now.UTC()).
		First(&sess).Error
	if err != nil {
		return "", notFound(err)
	}
	return sess.UserID, nil
}
