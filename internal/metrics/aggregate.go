// Package metrics reduces ledger rows into the totals, breakdowns and
// projections the dashboard views render. Everything here is pure and
// recomputed on every request.
package metrics

import (
	"math"
	"sort"
	"strings"
	"time"

	"finops-dashboard-go/internal/models"
)

const dateLayout = "2006-01-02"

// ReportTopCategories is how many categories the reports view shows.
const ReportTopCategories = 5

type CategoryTotal struct {
	Category   string  `json:"category"`
	Amount     float64 `json:"amount"`
	Percentage float64 `json:"percentage"`
}

type MonthBucket struct {
	Month    string  `json:"month"` // YYYY-MM
	Label    string  `json:"label"` // Jan 24
	Income   float64 `json:"income"`
	Expenses float64 `json:"expenses"`
	Net      float64 `json:"net"`
}

// Summary is the result of Aggregate. Sums are kept in integer cents so
// income, expenses and net stay consistent with each other.
type Summary struct {
	Count int

	incomeCents  int64
	expenseCents int64
	categories   *grouping
	months       map[string]*monthAcc
}

type monthAcc struct {
	year         int
	month        time.Month
	incomeCents  int64
	expenseCents int64
}

// Aggregate folds transactions into a Summary. Rows whose type is neither
// income nor expense are counted but contribute to no sum.
func Aggregate(txs []models.Transaction) Summary {
	s := Summary{
		Count:      len(txs),
		categories: newGrouping(),
		months:     make(map[string]*monthAcc),
	}
	for _, t := range txs {
		cents := toCents(t.Amount)
		kind := strings.ToLower(strings.TrimSpace(t.Type))

		switch kind {
		case models.TypeIncome:
			s.incomeCents = addCents(s.incomeCents, cents)
		case models.TypeExpense:
			s.expenseCents = addCents(s.expenseCents, cents)
			s.categories.add(t.Category, cents)
		default:
			continue
		}

		d, err := parseDate(t.Date)
		if err != nil {
			continue
		}
		key := d.Format("2006-01")
		m, ok := s.months[key]
		if !ok {
			m = &monthAcc{year: d.Year(), month: d.Month()}
			s.months[key] = m
		}
		if kind == models.TypeIncome {
			m.incomeCents = addCents(m.incomeCents, cents)
		} else {
			m.expenseCents = addCents(m.expenseCents, cents)
		}
	}
	return s
}

func (s Summary) TotalIncome() float64   { return fromCents(s.incomeCents) }
func (s Summary) TotalExpenses() float64 { return fromCents(s.expenseCents) }
func (s Summary) NetCashFlow() float64   { return fromCents(subCents(s.incomeCents, s.expenseCents)) }

// ExpensesByCategory maps each category label to its summed expense amount.
func (s Summary) ExpensesByCategory() map[string]float64 {
	out := make(map[string]float64)
	if s.categories == nil {
		return out
	}
	for _, g := range s.categories.buckets {
		out[g.label] = fromCents(g.cents)
	}
	return out
}

// PercentageOfTotal reports the category's share of total expenses. The
// second result is false when total expenses are zero and no share exists.
func (s Summary) PercentageOfTotal(category string) (float64, bool) {
	if s.expenseCents <= 0 {
		return 0, false
	}
	var cents int64
	if s.categories != nil {
		if g, ok := s.categories.buckets[GroupKey(category)]; ok {
			cents = g.cents
		}
	}
	return percentage(cents, s.expenseCents), true
}

// TopCategories returns categories by descending amount. A limit <= 0
// returns all of them.
func (s Summary) TopCategories(limit int) []CategoryTotal {
	out := []CategoryTotal{}
	if s.categories == nil {
		return out
	}
	for _, g := range s.categories.sorted(limit) {
		out = append(out, CategoryTotal{
			Category:   g.label,
			Amount:     fromCents(g.cents),
			Percentage: percentage(g.cents, s.expenseCents),
		})
	}
	return out
}

// Monthly returns one bucket per calendar month in chronological order.
func (s Summary) Monthly() []MonthBucket {
	keys := make([]string, 0, len(s.months))
	for k := range s.months {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]MonthBucket, 0, len(keys))
	for _, k := range keys {
		m := s.months[k]
		out = append(out, MonthBucket{
			Month:    k,
			Label:    MonthLabel(m.year, m.month),
			Income:   fromCents(m.incomeCents),
			Expenses: fromCents(m.expenseCents),
			Net:      fromCents(subCents(m.incomeCents, m.expenseCents)),
		})
	}
	return out
}

// MonthLabel renders "Jan 24".
func MonthLabel(year int, month time.Month) string {
	return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).Format("Jan 06")
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if len(s) > len(dateLayout) {
		s = s[:len(dateLayout)]
	}
	return time.Parse(dateLayout, s)
}

// toCents saturates at the int64 range instead of wrapping.
func toCents(amount float64) int64 {
	c := math.Round(amount * 100)
	switch {
	case math.IsNaN(c):
		return 0
	case c >= math.MaxInt64:
		return math.MaxInt64
	case c <= math.MinInt64:
		return math.MinInt64
	}
	return int64(c)
}

// addCents is a + b clamped to the int64 range, so oversized ledgers stay
// pinned at the limit rather than turning negative.
func addCents(a, b int64) int64 {
	sum := a + b
	switch {
	case b > 0 && sum < a:
		return math.MaxInt64
	case b < 0 && sum > a:
		return math.MinInt64
	}
	return sum
}

func subCents(a, b int64) int64 {
	if b == math.MinInt64 {
		return addCents(addCents(a, math.MaxInt64), 1)
	}
	return addCents(a, -b)
}

func fromCents(c int64) float64 { return float64(c) / 100 }

func percentage(part, total int64) float64 {
	if total <= 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}
