package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	DefaultCurrency = "USD"
	DefaultTimezone = "America/New_York"
)

type UserSettings struct {
	ID       string `gorm:"primaryKey;size:36" json:"id"`
	OwnerID  string `gorm:"uniqueIndex;size:64;not null" json:"owner_id"`
	Currency string `gorm:"size:3;default:USD" json:"currency"`
	Timezone string `json:"timezone"`

	BusinessName  string `json:"business_name,omitempty"`
	BusinessType  string `json:"business_type,omitempty"`
	Industry      string `json:"industry,omitempty"`
	Location      string `json:"location,omitempty"`
	FoundedYear   *int   `json:"founded_year,omitempty"`
	EmployeeCount *int   `json:"employee_count,omitempty"`
	Website       string `json:"website,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *UserSettings) BeforeCreate(*gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}
