package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	SeverityHigh   = "high"
	SeverityMedium = "medium"
	SeverityLow    = "low"

	AnomalyOpen          = "open"
	AnomalyInvestigating = "investigating"
	AnomalyResolved      = "resolved"
	AnomalyDismissed     = "dismissed"
)

type Anomaly struct {
	ID               string     `gorm:"primaryKey;size:36" json:"id"`
	OwnerID          string     `gorm:"index;size:64;not null" json:"owner_id"`
	Title            string     `gorm:"not null" json:"title"`
	Description      string     `json:"description"`
	Severity         string     `gorm:"size:16" json:"severity"`
	Status           string     `gorm:"size:16;default:open" json:"status"`
	Category         string     `json:"category"`
	Amount           *float64   `json:"amount,omitempty"`
	PotentialSavings *float64   `json:"potential_savings,omitempty"`
	AIConfidence     *float64   `json:"ai_confidence,omitempty"`
	AIRecommendation string     `json:"ai_recommendation,omitempty"`
	DetectedAt       time.Time  `gorm:"index" json:"detected_at"`
	ResolvedAt       *time.Time `json:"resolved_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

func (a *Anomaly) BeforeCreate(*gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.Status == "" {
		a.Status = AnomalyOpen
	}
	if a.DetectedAt.IsZero() {
		a.DetectedAt = time.Now().UTC()
	}
	return nil
}

func ValidAnomalyStatus(s string) bool {
	switch s {
	case AnomalyOpen, AnomalyInvestigating, AnomalyResolved, AnomalyDismissed:
		return true
	}
	return false
}

func ValidSeverity(s string) bool {
	switch s {
	case SeverityHigh, SeverityMedium, SeverityLow:
		return true
	}
	return false
}
