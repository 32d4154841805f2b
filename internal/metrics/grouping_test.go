package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finops-dashboard-go/internal/models"
)

func TestExpensesByTag(t *testing.T) {
	txs := []models.Transaction{
		{Type: "expense", Amount: 100, Tags: models.StringArray{"saas", "Recurring"}},
		{Type: "expense", Amount: 40, Tags: models.StringArray{"SaaS", "saas "}},
		{Type: "expense", Amount: 10},
		{Type: "income", Amount: 500, Tags: models.StringArray{"saas"}},
	}

	got := ExpensesByTag(txs)
	require.Len(t, got, 2)
	assert.Equal(t, TagTotal{Tag: "saas", Amount: 140, Count: 2}, got[0])
	assert.Equal(t, TagTotal{Tag: "Recurring", Amount: 100, Count: 1}, got[1])
}

func TestTopVendors(t *testing.T) {
	txs := []models.Transaction{
		{Type: "expense", Amount: 12450, Vendor: "Amazon Web Services"},
		{Type: "expense", Amount: 1850, Vendor: "Datadog"},
		{Type: "expense", Amount: 50, Vendor: "amazon web services"},
		{Type: "expense", Amount: 999},
		{Type: "income", Amount: 1e6, Vendor: "Customer"},
	}

	got := TopVendors(txs, 1)
	require.Len(t, got, 1)
	assert.Equal(t, VendorTotal{Vendor: "Amazon Web Services", Amount: 12500, TransactionCount: 2}, got[0])

	assert.Len(t, TopVendors(txs, 0), 2)
	assert.Empty(t, TopVendors(nil, 5))
}

func TestGroupKey(t *testing.T) {
	assert.Equal(t, "sales & marketing", GroupKey("  Sales & Marketing "))
	assert.Equal(t, "", GroupKey("   "))
}
