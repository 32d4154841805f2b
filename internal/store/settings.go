package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"finops-dashboard-go/internal/models"
)

// Fixed values written by sample onboarding.
const (
	SampleCashBalance    = 847290
	SampleMonthlyBurn    = 42350
	SampleMonthlyRevenue = 67800
)

// GetSnapshot returns the owner's snapshot. Owners without one read as all
// zeros with found=false; nothing is written.
func (s *Store) GetSnapshot(ctx context.Context, owner string) (snap models.FinancialData, found bool, err error) {
	err = s.db.WithContext(ctx).Where("owner_id = ?", owner).First(&snap).Error
	switch {
	case err == nil:
		return snap, true, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return models.FinancialData{OwnerID: owner}, false, nil
	}
	return snap, false, fmt.Errorf("get snapshot: %w", err)
}

// GetSettings returns the owner's settings, or the defaults when none exist.
func (s *Store) GetSettings(ctx context.Context, owner string) (models.UserSettings, error) {
	var st models.UserSettings
	err := s.db.WithContext(ctx).Where("owner_id = ?", owner).First(&st).Error
	switch {
	case err == nil:
		return st, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return s.defaultSettings(owner), nil
	}
	return st, fmt.Errorf("get settings: %w", err)
}

func (s *Store) defaultSettings(owner string) models.UserSettings {
	return models.UserSettings{OwnerID: owner, Currency: models.DefaultCurrency, Timezone: s.timezone}
}

// SnapshotUpdate carries the snapshot fields of a settings save. Nil fields
// keep their stored value (zero for a new row).
type SnapshotUpdate struct {
	CashBalance    *float64
	MonthlyBurn    *float64
	MonthlyRevenue *float64
}

func (u SnapshotUpdate) empty() bool {
	return u.CashBalance == nil && u.MonthlyBurn == nil && u.MonthlyRevenue == nil
}

// SaveSettings upserts the single settings row for owner and, when snap
// carries any field, the snapshot row too. A blank currency or timezone
// keeps the stored value (the default for a new row).
func (s *Store) SaveSettings(ctx context.Context, owner string, in models.UserSettings, snap SnapshotUpdate) (models.UserSettings, error) {
	in.ID = ""
	in.OwnerID = owner

	cols := []string{
		"business_name", "business_type", "industry", "location",
		"founded_year", "employee_count", "website", "updated_at",
	}
	if in.Currency == "" {
		in.Currency = models.DefaultCurrency
	} else {
		cols = append(cols, "currency")
	}
	if in.Timezone == "" {
		in.Timezone = s.timezone
	} else {
		cols = append(cols, "timezone")
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "owner_id"}},
			DoUpdates: clause.AssignmentColumns(cols),
		}).Create(&in).Error
		if err != nil {
			return fmt.Errorf("upsert settings: %w", err)
		}
		if snap.empty() {
			return nil
		}
		return upsertSnapshot(tx, owner, snap)
	})
	if err != nil {
		return models.UserSettings{}, err
	}
	return s.GetSettings(ctx, owner)
}

func upsertSnapshot(tx *gorm.DB, owner string, u SnapshotUpdate) error {
	row := models.FinancialData{OwnerID: owner}
	var cols []string
	if u.CashBalance != nil {
		row.CashBalance = *u.CashBalance
		cols = append(cols, "cash_balance")
	}
	if u.MonthlyBurn != nil {
		row.MonthlyBurn = *u.MonthlyBurn
		cols = append(cols, "monthly_burn")
	}
	if u.MonthlyRevenue != nil {
		row.MonthlyRevenue = *u.MonthlyRevenue
		cols = append(cols, "monthly_revenue")
	}
	// Hand-entered numbers replace any sample data.
	cols = append(cols, "sample", "updated_at")

	err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "owner_id"}},
		DoUpdates: clause.AssignmentColumns(cols),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("upsert snapshot: %w", err)
	}
	return nil
}

// SetCurrency changes only the preferred display currency.
func (s *Store) SetCurrency(ctx context.Context, owner, code string) (models.UserSettings, error) {
	row := s.defaultSettings(owner)
	row.Currency = code
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "owner_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"currency", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return models.UserSettings{}, fmt.Errorf("set currency: %w", err)
	}
	return s.GetSettings(ctx, owner)
}

// Onboard writes the owner's starting rows: default settings, a snapshot
// (zeros, or the fixed sample values) and the sample anomalies. Existing rows
// are never overwritten, so repeated calls are harmless.
func (s *Store) Onboard(ctx context.Context, owner string, sample bool) (models.FinancialData, error) {
	var snap models.FinancialData
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		snap, err = s.onboard(tx, owner, sample)
		return err
	})
	return snap, err
}

func (s *Store) onboard(tx *gorm.DB, owner string, sample bool) (models.FinancialData, error) {
	var snap models.FinancialData
	st := s.defaultSettings(owner)
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&st).Error; err != nil {
		return snap, fmt.Errorf("seed settings: %w", err)
	}

	row := models.FinancialData{OwnerID: owner}
	if sample {
		row.CashBalance = SampleCashBalance
		row.MonthlyBurn = SampleMonthlyBurn
		row.MonthlyRevenue = SampleMonthlyRevenue
		row.Sample = true
	}
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error; err != nil {
		return snap, fmt.Errorf("seed snapshot: %w", err)
	}
	if err := tx.Where("owner_id = ?", owner).First(&snap).Error; err != nil {
		return snap, fmt.Errorf("read snapshot: %w", err)
	}

	var n int64
	if err := tx.Model(&models.Anomaly{}).Where("owner_id = ?", owner).Count(&n).Error; err != nil {
		return snap, fmt.Errorf("count anomalies: %w", err)
	}
	if n > 0 {
		return snap, nil
	}
	seed := sampleAnomalies(owner, time.Now().UTC())
	if err := tx.Create(&seed).Error; err != nil {
		return snap, fmt.Errorf("seed anomalies: %w", err)
	}
	return snap, nil
}

func ptr(v float64) *float64 { return &v }

func sampleAnomalies(owner string, now time.Time) []models.Anomaly {
	return []models.Anomaly{
		{
			OwnerID:          owner,
			Title:            "AWS Bill Spike",
			Description:      "Monthly spend increased 340% compared to average",
			Severity:         models.SeverityHigh,
			Status:           models.AnomalyOpen,
			Category:         "Infrastructure",
			Amount:           ptr(12450),
			PotentialSavings: ptr(9650),
			AIConfidence:     ptr(0.94),
			AIRecommendation: "Review auto-scaling groups and idle instances in Amazon Web Services.",
			DetectedAt:       now.Add(-2 * time.Hour),
		},
		{
			OwnerID:          owner,
			Title:            "Duplicate Zoom Licenses",
			Description:      "12 unused seats detected across organization",
			Severity:         models.SeverityMedium,
			Status:           models.AnomalyOpen,
			Category:         "Software",
			Amount:           ptr(840),
			PotentialSavings: ptr(480),
			AIConfidence:     ptr(0.89),
			AIRecommendation: "Remove unused Zoom seats to save $5,760/year.",
			DetectedAt:       now.Add(-4 * time.Hour),
		},
		{
			OwnerID:          owner,
			Title:            "Marketing Spend Acceleration",
			Description:      "40% increase month-over-month, exceeding budget",
			Severity:         models.SeverityMedium,
			Status:           models.AnomalyInvestigating,
			Category:         "Marketing",
			Amount:           ptr(8500),
			PotentialSavings: ptr(2500),
			AIConfidence:     ptr(0.76),
			AIRecommendation: "Pause underperforming Google Ads campaigns until ROI recovers.",
			DetectedAt:       now.Add(-24 * time.Hour),
		},
	}
}
