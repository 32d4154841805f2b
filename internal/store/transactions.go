package store

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"finops-dashboard-go/internal/models"
)

const (
	DefaultListLimit = 100
	MaxListLimit     = 1000
)

// TransactionFilter narrows a ledger listing. Empty fields do not filter.
// Limit 0 means DefaultListLimit, values above MaxListLimit are clamped and a
// negative Limit returns every matching row.
type TransactionFilter struct {
	StartDate string
	EndDate   string
	Type      string
	Category  string
	Vendor    string
	Limit     int
}

func (f TransactionFilter) limit() int {
	switch {
	case f.Limit == 0:
		return DefaultListLimit
	case f.Limit > MaxListLimit:
		return MaxListLimit
	}
	return f.Limit
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (s *Store) ListTransactions(ctx context.Context, owner string, f TransactionFilter) ([]models.Transaction, error) {
	q := s.db.WithContext(ctx).Where("owner_id = ?", owner)

	if f.StartDate != "" {
		q = q.Where("date >= ?", f.StartDate)
	}
	if f.EndDate != "" {
		q = q.Where("date <= ?", f.EndDate)
	}
	if t := strings.ToLower(strings.TrimSpace(f.Type)); t != "" && t != "all" {
		q = q.Where("type = ?", t)
	}
	if c := strings.TrimSpace(f.Category); c != "" {
		q = q.Where("LOWER(category) = ?", strings.ToLower(c))
	}
	if v := strings.TrimSpace(f.Vendor); v != "" {
		q = q.Where(`LOWER(vendor) LIKE ? ESCAPE '\'`, "%"+likeEscaper.Replace(strings.ToLower(v))+"%")
	}
	if n := f.limit(); n > 0 {
		q = q.Limit(n)
	}

	var out []models.Transaction
	if err := q.Order("date desc, created_at desc").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return out, nil
}

func (s *Store) GetTransaction(ctx context.Context, owner, id string) (*models.Transaction, error) {
	var t models.Transaction
	if err := s.db.WithContext(ctx).Where("id = ? AND owner_id = ?", id, owner).First(&t).Error; err != nil {
		return nil, notFound(err)
	}
	return &t, nil
}

// CreateTransaction inserts t for owner and adds its amount to the owner's
// snapshot in the same database transaction.
func (s *Store) CreateTransaction(ctx context.Context, owner string, t *models.Transaction) error {
	t.ID = ""
	t.OwnerID = owner
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(t).Error; err != nil {
			return fmt.Errorf("create transaction: %w", err)
		}
		return nudge(tx, owner, t.Type, t.Amount)
	})
}

// UpdateTransaction replaces every mutable field of the owner's row id with
// the values in in, moving the snapshot contribution from old to new.
func (s *Store) UpdateTransaction(ctx context.Context, owner, id string, in models.Transaction) (*models.Transaction, error) {
	var t models.Transaction
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND owner_id = ?", id, owner).First(&t).Error; err != nil {
			return notFound(err)
		}
		if err := nudge(tx, owner, t.Type, -t.Amount); err != nil {
			return err
		}

		t.Name = in.Name
		t.Description = in.Description
		t.Category = in.Category
		t.Amount = in.Amount
		t.Type = in.Type
		t.Date = in.Date
		t.Vendor = in.Vendor
		t.VendorType = in.VendorType
		t.PaymentMethod = in.PaymentMethod
		t.ReferenceNumber = in.ReferenceNumber
		t.Status = in.Status
		if t.Status == "" {
			t.Status = models.StatusCompleted
		}
		t.Tags = in.Tags

		if err := tx.Save(&t).Error; err != nil {
			return fmt.Errorf("update transaction: %w", err)
		}
		return nudge(tx, owner, t.Type, t.Amount)
	})
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *Store) DeleteTransaction(ctx context.Context, owner, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var t models.Transaction
		if err := tx.Where("id = ? AND owner_id = ?", id, owner).First(&t).Error; err != nil {
			return notFound(err)
		}
		if err := tx.Delete(&t).Error; err != nil {
			return fmt.Errorf("delete transaction: %w", err)
		}
		return nudge(tx, owner, t.Type, -t.Amount)
	})
}

// nudge atomically shifts the snapshot column fed by kind. Owners without a
// snapshot row are left alone.
func nudge(tx *gorm.DB, owner, kind string, delta float64) error {
	var col string
	switch kind {
	case models.TypeIncome:
		col = "monthly_revenue"
	case models.TypeExpense:
		col = "monthly_burn"
	default:
		return nil
	}
	if delta == 0 {
		return nil
	}
	err := tx.Model(&models.FinancialData{}).
		Where("owner_id = ?", owner).
		Update(col, gorm.Expr(col+" + ?", delta)).Error
	if err != nil {
		return fmt.Errorf("adjust %s: %w", col, err)
	}
	return nil
}
