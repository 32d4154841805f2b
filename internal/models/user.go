package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is only used by the built-in session authenticator. Its ID is the
// owner id stamped on every other row.
type User struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Username  string    `gorm:"uniqueIndex" json:"username"`
	PinHash   string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

type Session struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	UserID    string    `gorm:"index;size:36" json:"-"`
	TokenHash string    `gorm:"uniqueIndex;size:64" json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// All lists every model for AutoMigrate.
func All() []any {
	return []any{&User{}, &Session{}, &Transaction{}, &FinancialData{}, &UserSettings{}, &Anomaly{}}
}
