package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	TypeIncome  = "income"
	TypeExpense = "expense"

	StatusCompleted = "completed"
)

// Transaction is a single ledger row. Amount is a non-negative magnitude in
// the base currency; direction is carried by Type.
type Transaction struct {
	ID              string      `gorm:"primaryKey;size:36" json:"id"`
	OwnerID         string      `gorm:"index;size:64;not null" json:"owner_id"`
	Name            string      `gorm:"not null" json:"name"`
	Description     string      `json:"description,omitempty"`
	Category        string      `gorm:"index" json:"category"`
	Amount          float64     `gorm:"not null" json:"amount"`
	Type            string      `gorm:"size:16;index" json:"type"`
	Date            string      `gorm:"size:10;index" json:"date"` // YYYY-MM-DD
	Vendor          string      `json:"vendor,omitempty"`
	VendorType      string      `json:"vendor_type,omitempty"`
	PaymentMethod   string      `json:"payment_method,omitempty"`
	ReferenceNumber string      `json:"reference_number,omitempty"`
	Status          string      `gorm:"size:32;default:completed" json:"status"`
	Tags            StringArray `gorm:"type:jsonb" json:"tags"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (t *Transaction) BeforeCreate(*gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.Status == "" {
		t.Status = StatusCompleted
	}
	return nil
}

// StringArray is stored as a JSON array.
type StringArray []string

func (sa StringArray) Value() (driver.Value, error) {
	if len(sa) == 0 {
		return []byte("[]"), nil
	}
	return json.Marshal(sa)
}

func (sa *StringArray) Scan(value interface{}) error {
	if value == nil {
		*sa = nil
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type for StringArray: %T", value)
	}
	if len(data) == 0 {
		*sa = nil
		return nil
	}
	return json.Unmarshal(data, sa)
}
