package store

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"finops-dashboard-go/internal/models"
)

type AnomalyStats struct {
	Active           int64   `json:"active"`
	Resolved         int64   `json:"resolved"`
	PotentialSavings float64 `json:"potential_savings"`
}

var activeStatuses = []string{models.AnomalyOpen, models.AnomalyInvestigating}

// ListAnomalies returns the owner's anomalies, newest first. An empty status
// lists all of them.
func (s *Store) ListAnomalies(ctx context.Context, owner, status string) ([]models.Anomaly, error) {
	q := s.db.WithContext(ctx).Where("owner_id = ?", owner)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var out []models.Anomaly
	if err := q.Order("detected_at desc").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list anomalies: %w", err)
	}
	return out, nil
}

func (s *Store) AnomalyStats(ctx context.Context, owner string) (AnomalyStats, error) {
	var st AnomalyStats
	err := s.db.WithContext(ctx).Model(&models.Anomaly{}).
		Select(
			"COUNT(CASE WHEN status IN ? THEN 1 END) AS active, "+
				"COUNT(CASE WHEN status = ? THEN 1 END) AS resolved, "+
				"COALESCE(SUM(CASE WHEN status IN ? THEN potential_savings END), 0) AS potential_savings",
			activeStatuses, models.AnomalyResolved, activeStatuses,
		).
		Where("owner_id = ?", owner).
		Scan(&st).Error
	if err != nil {
		return st, fmt.Errorf("anomaly stats: %w", err)
	}
	return st, nil
}

// CreateAnomaly stores a for owner. New anomalies always start open.
func (s *Store) CreateAnomaly(ctx context.Context, owner string, a *models.Anomaly) error {
	a.ID = ""
	a.OwnerID = owner
	a.Status = models.AnomalyOpen
	a.ResolvedAt = nil
	if err := s.db.WithContext(ctx).Create(a).Error; err != nil {
		return fmt.Errorf("create anomaly: %w", err)
	}
	return nil
}

// SetAnomalyStatus moves the owner's anomaly id to status. Resolving stamps
// ResolvedAt; any other status clears it.
func (s *Store) SetAnomalyStatus(ctx context.Context, owner, id, status string, now time.Time) (*models.Anomaly, error) {
	var a models.Anomaly
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND owner_id = ?", id, owner).First(&a).Error; err != nil {
			return notFound(err)
		}
		a.Status = status
		a.ResolvedAt = nil
		if status == models.AnomalyResolved {
			t := now.UTC()
			a.ResolvedAt = &t
		}
		if err := tx.Save(&a).Error; err != nil {
			return fmt.Errorf("update anomaly: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &a, nil
}
