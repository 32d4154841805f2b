package export

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finops-dashboard-go/internal/models"
)

func TestSnapshot(t *testing.T) {
	var buf bytes.Buffer
	at := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	snap := models.FinancialData{CashBalance: 847290, MonthlyBurn: 42350, MonthlyRevenue: 67800}

	require.NoError(t, Snapshot(&buf, snap, "EUR", at))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"Metric", "Value"},
		{"Cash Balance", "847290.00"},
		{"Monthly Burn", "42350.00"},
		{"Monthly Revenue", "67800.00"},
		{"Runway", "20.0 months"},
		{"Currency", "EUR"},
		{"Exported At", "2024-03-01T09:30:00Z"},
	}, rows)
}

func TestSnapshotZeroBurn(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Snapshot(&buf, models.FinancialData{CashBalance: 10000}, "USD", time.Now()))
	assert.Contains(t, buf.String(), "Runway,infinite\n")
}

func TestTransactions(t *testing.T) {
	var buf bytes.Buffer
	txs := []models.Transaction{
		{Date: "2024-01-20", Name: "AWS, January", Category: "Infrastructure", Type: "expense", Amount: 400, Vendor: "AWS", Status: "completed", Tags: models.StringArray{"cloud", "prod"}},
		{Date: "2024-01-15", Name: "Invoice #12", Category: "Revenue", Type: "income", Amount: 1000.5, Status: "completed"},
	}

	require.NoError(t, Transactions(&buf, txs))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, transactionHeader, rows[0])
	assert.Equal(t, []string{"2024-01-20", "AWS, January", "Infrastructure", "expense", "400.00", "AWS", "completed", "cloud; prod"}, rows[1])
	assert.Equal(t, "1000.50", rows[2][4])
	assert.Equal(t, "", rows[2][7])
}

func TestTransactionsEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Transactions(&buf, nil))
	assert.Equal(t, "Date,Name,Category,Type,Amount,Vendor,Status,Tags\n", buf.String())
}

func TestTransactionsFilename(t *testing.T) {
	assert.Equal(t, "transactions_2024-07-04.csv", TransactionsFilename(time.Date(2024, 7, 4, 23, 0, 0, 0, time.UTC)))
}
