package metrics

import (
	"sort"
	"strings"

	"finops-dashboard-go/internal/models"
)

// GroupKey is the key labels are grouped under: trimmed and case-folded.
func GroupKey(label string) string {
	return strings.ToLower(strings.TrimSpace(label))
}

type bucket struct {
	label string
	cents int64
	count int
}

// grouping sums amounts per normalised label, keeping the first spelling
// seen as the display label.
type grouping struct {
	buckets map[string]*bucket
}

func newGrouping() *grouping {
	return &grouping{buckets: make(map[string]*bucket)}
}

func (g *grouping) add(label string, cents int64) {
	key := GroupKey(label)
	b, ok := g.buckets[key]
	if !ok {
		b = &bucket{label: strings.TrimSpace(label)}
		g.buckets[key] = b
	}
	b.cents = addCents(b.cents, cents)
	b.count++
}

// sorted orders by amount desc, then label asc so ties are stable.
func (g *grouping) sorted(limit int) []*bucket {
	out := make([]*bucket, 0, len(g.buckets))
	for _, b := range g.buckets {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].cents != out[j].cents {
			return out[i].cents > out[j].cents
		}
		return out[i].label < out[j].label
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

type TagTotal struct {
	Tag    string  `json:"tag"`
	Amount float64 `json:"amount"`
	Count  int     `json:"count"`
}

// ExpensesByTag credits each distinct tag of an expense row with the row's
// full amount, so tag totals can add up to more than total expenses.
func ExpensesByTag(txs []models.Transaction) []TagTotal {
	g := newGrouping()
	for _, t := range txs {
		if !isExpense(t) {
			continue
		}
		seen := make(map[string]bool, len(t.Tags))
		for _, tag := range t.Tags {
			key := GroupKey(tag)
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true
			g.add(tag, toCents(t.Amount))
		}
	}

	out := []TagTotal{}
	for _, b := range g.sorted(0) {
		out = append(out, TagTotal{Tag: b.label, Amount: fromCents(b.cents), Count: b.count})
	}
	return out
}

type VendorTotal struct {
	Vendor           string  `json:"vendor"`
	Amount           float64 `json:"amount"`
	TransactionCount int     `json:"transaction_count"`
}

// TopVendors ranks vendors by expense amount. Rows without a vendor are
// skipped.
func TopVendors(txs []models.Transaction, limit int) []VendorTotal {
	g := newGrouping()
	for _, t := range txs {
		if !isExpense(t) || GroupKey(t.Vendor) == "" {
			continue
		}
		g.add(t.Vendor, toCents(t.Amount))
	}

	out := []VendorTotal{}
	for _, b := range g.sorted(limit) {
		out = append(out, VendorTotal{Vendor: b.label, Amount: fromCents(b.cents), TransactionCount: b.count})
	}
	return out
}

func isExpense(t models.Transaction) bool {
	return strings.ToLower(strings.TrimSpace(t.Type)) == models.TypeExpense
}
