package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FinancialData is the per-owner snapshot. It is not reconciled against the
// transaction ledger.
type FinancialData struct {
	ID             string    `gorm:"primaryKey;size:36" json:"id"`
	OwnerID        string    `gorm:"uniqueIndex;size:64;not null" json:"owner_id"`
	CashBalance    float64   `json:"cash_balance"`
	MonthlyBurn    float64   `json:"monthly_burn"`
	MonthlyRevenue float64   `json:"monthly_revenue"`
	Sample         bool      `gorm:"default:false" json:"sample"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (FinancialData) TableName() string { return "financial_data" }

func (f *FinancialData) BeforeCreate(*gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	return nil
}
