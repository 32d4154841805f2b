// Package export renders snapshots and ledgers as CSV downloads.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"finops-dashboard-go/internal/metrics"
	"finops-dashboard-go/internal/models"
)

const ReportFilename = "financial-report.csv"

var transactionHeader = []string{"Date", "Name", "Category", "Type", "Amount", "Vendor", "Status", "Tags"}

// TransactionsFilename names a ledger export taken on day.
func TransactionsFilename(day time.Time) string {
	return "transactions_" + day.Format("2006-01-02") + ".csv"
}

// Snapshot writes a Metric,Value report of snap in base currency.
func Snapshot(w io.Writer, snap models.FinancialData, currency string, exportedAt time.Time) error {
	runway := metrics.RunwayMonths(snap.CashBalance, snap.MonthlyBurn)
	rows := [][]string{
		{"Metric", "Value"},
		{"Cash Balance", money(snap.CashBalance)},
		{"Monthly Burn", money(snap.MonthlyBurn)},
		{"Monthly Revenue", money(snap.MonthlyRevenue)},
		{"Runway", runway.String()},
		{"Currency", currency},
		{"Exported At", exportedAt.UTC().Format(time.RFC3339)},
	}
	return writeAll(w, rows)
}

func Transactions(w io.Writer, txs []models.Transaction) error {
	rows := make([][]string, 0, len(txs)+1)
	rows = append(rows, transactionHeader)
	for _, t := range txs {
		rows = append(rows, []string{
			t.Date,
			t.Name,
			t.Category,
			t.Type,
			money(t.Amount),
			t.Vendor,
			t.Status,
			strings.Join(t.Tags, "; "),
		})
	}
	return writeAll(w, rows)
}

func money(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func writeAll(w io.Writer, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}
