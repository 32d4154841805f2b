package http

import (
	"context"

	"github.com/gin-gonic/gin"

	"finops-dashboard-go/internal/currency"
	"finops-dashboard-go/internal/metrics"
	"finops-dashboard-go/internal/models"
)

// Money is a base-currency amount shown in the caller's display currency.
type Money struct {
	Base      float64 `json:"base"`
	Value     float64 `json:"value"`
	Formatted string  `json:"formatted"`
	Compact   string  `json:"compact"`
}

// display carries the caller's currency and the rate used for one response,
// so every figure in it is converted consistently.
type display struct {
	rate currency.Rate
}

func (d display) money(base float64) Money {
	v := d.rate.Apply(base)
	return Money{
		Base:      base,
		Value:     v,
		Formatted: currency.Format(v, d.rate.Currency),
		Compact:   currency.FormatCompact(v, d.rate.Currency),
	}
}

type DisplayInfo struct {
	Currency string  `json:"currency"`
	Rate     float64 `json:"rate"`
	Fallback bool    `json:"fallback"`
}

func (d display) info() DisplayInfo {
	return DisplayInfo{Currency: d.rate.Currency, Rate: d.rate.Value, Fallback: d.rate.Fallback}
}

func (s *Server) displayFor(ctx context.Context, owner string) (display, error) {
	st, err := s.store.GetSettings(ctx, owner)
	if err != nil {
		return display{}, err
	}
	return display{rate: s.fx.Rate(ctx, st.Currency)}, nil
}

type DashboardResponse struct {
	DisplayInfo
	HasSnapshot    bool           `json:"has_snapshot"`
	Sample         bool           `json:"sample"`
	CashBalance    Money          `json:"cash_balance"`
	MonthlyBurn    Money          `json:"monthly_burn"`
	MonthlyRevenue Money          `json:"monthly_revenue"`
	NetMonthly     Money          `json:"net_monthly"`
	Runway         metrics.Runway `json:"runway"`
}

func (s *Server) dashboard(c *gin.Context) {
	ctx := c.Request.Context()
	d, err := s.displayFor(ctx, ownerID(c))
	if err != nil {
		s.fail(c, "get settings", err)
		return
	}
	snap, found, err := s.store.GetSnapshot(ctx, ownerID(c))
	if err != nil {
		s.fail(c, "get snapshot", err)
		return
	}

	c.JSON(200, DashboardResponse{
		DisplayInfo:    d.info(),
		HasSnapshot:    found,
		Sample:         snap.Sample,
		CashBalance:    d.money(snap.CashBalance),
		MonthlyBurn:    d.money(snap.MonthlyBurn),
		MonthlyRevenue: d.money(snap.MonthlyRevenue),
		NetMonthly:     d.money(snap.MonthlyRevenue - snap.MonthlyBurn),
		Runway:         metrics.RunwayMonths(snap.CashBalance, snap.MonthlyBurn),
	})
}

type CategoryView struct {
	Category   string  `json:"category"`
	Amount     Money   `json:"amount"`
	Percentage float64 `json:"percentage"`
}

type MonthView struct {
	Month    string  `json:"month"`
	Label    string  `json:"label"`
	Income   float64 `json:"income"`
	Expenses float64 `json:"expenses"`
	Net      float64 `json:"net"`
}

type SummaryResponse struct {
	DisplayInfo
	TransactionCount int            `json:"transaction_count"`
	TotalIncome      Money          `json:"total_income"`
	TotalExpenses    Money          `json:"total_expenses"`
	NetCashFlow      Money          `json:"net_cash_flow"`
	TopCategories    []CategoryView `json:"top_categories"`
	Monthly          []MonthView    `json:"monthly"`
}

func (d display) categories(cs []metrics.CategoryTotal) []CategoryView {
	out := make([]CategoryView, 0, len(cs))
	for _, ct := range cs {
		out = append(out, CategoryView{Category: ct.Category, Amount: d.money(ct.Amount), Percentage: ct.Percentage})
	}
	return out
}

func (d display) months(ms []metrics.MonthBucket) []MonthView {
	out := make([]MonthView, 0, len(ms))
	for _, m := range ms {
		out = append(out, MonthView{
			Month:    m.Month,
			Label:    m.Label,
			Income:   d.rate.Apply(m.Income),
			Expenses: d.rate.Apply(m.Expenses),
			Net:      d.rate.Apply(m.Net),
		})
	}
	return out
}

// ledger loads every row matching the date range of the query for the
// aggregate views.
func (s *Server) ledger(c *gin.Context) (display, []models.Transaction, bool) {
	f, ok := transactionFilter(c)
	if !ok {
		return display{}, nil, false
	}
	f.Limit = -1

	ctx := c.Request.Context()
	d, err := s.displayFor(ctx, ownerID(c))
	if err != nil {
		s.fail(c, "get settings", err)
		return display{}, nil, false
	}
	txs, err := s.store.ListTransactions(ctx, ownerID(c), f)
	if err != nil {
		s.fail(c, "list transactions", err)
		return display{}, nil, false
	}
	return d, txs, true
}

func (s *Server) reportSummary(c *gin.Context) {
	d, txs, ok := s.ledger(c)
	if !ok {
		return
	}
	sum := metrics.Aggregate(txs)

	c.JSON(200, SummaryResponse{
		DisplayInfo:      d.info(),
		TransactionCount: sum.Count,
		TotalIncome:      d.money(sum.TotalIncome()),
		TotalExpenses:    d.money(sum.TotalExpenses()),
		NetCashFlow:      d.money(sum.NetCashFlow()),
		TopCategories:    d.categories(sum.TopCategories(metrics.ReportTopCategories)),
		Monthly:          d.months(sum.Monthly()),
	})
}

type TagView struct {
	Tag    string `json:"tag"`
	Amount Money  `json:"amount"`
	Count  int    `json:"count"`
}

type VendorView struct {
	Vendor           string `json:"vendor"`
	Amount           Money  `json:"amount"`
	TransactionCount int    `json:"transaction_count"`
}

type BreakdownResponse struct {
	DisplayInfo
	TotalExpenses Money          `json:"total_expenses"`
	Categories    []CategoryView `json:"categories"`
	Tags          []TagView      `json:"tags"`
	TopVendors    []VendorView   `json:"top_vendors"`
}

const breakdownTopVendors = 5

func (s *Server) expenseBreakdown(c *gin.Context) {
	d, txs, ok := s.ledger(c)
	if !ok {
		return
	}
	sum := metrics.Aggregate(txs)

	tags := []TagView{}
	for _, t := range metrics.ExpensesByTag(txs) {
		tags = append(tags, TagView{Tag: t.Tag, Amount: d.money(t.Amount), Count: t.Count})
	}
	vendors := []VendorView{}
	for _, v := range metrics.TopVendors(txs, breakdownTopVendors) {
		vendors = append(vendors, VendorView{Vendor: v.Vendor, Amount: d.money(v.Amount), TransactionCount: v.TransactionCount})
	}

	c.JSON(200, BreakdownResponse{
		DisplayInfo:   d.info(),
		TotalExpenses: d.money(sum.TotalExpenses()),
		Categories:    d.categories(sum.TopCategories(0)),
		Tags:          tags,
		TopVendors:    vendors,
	})
}

type CashflowResponse struct {
	DisplayInfo
	Monthly         []MonthView    `json:"monthly"`
	AverageIncome   Money          `json:"average_income"`
	AverageExpenses Money          `json:"average_expenses"`
	NetMonthly      Money          `json:"net_monthly"`
	CashBalance     Money          `json:"cash_balance"`
	Runway          metrics.Runway `json:"runway"`
}

func (s *Server) cashflow(c *gin.Context) {
	d, txs, ok := s.ledger(c)
	if !ok {
		return
	}
	snap, _, err := s.store.GetSnapshot(c.Request.Context(), ownerID(c))
	if err != nil {
		s.fail(c, "get snapshot", err)
		return
	}

	c.JSON(200, CashflowResponse{
		DisplayInfo:     d.info(),
		Monthly:         d.months(metrics.Aggregate(txs).Monthly()),
		AverageIncome:   d.money(snap.MonthlyRevenue),
		AverageExpenses: d.money(snap.MonthlyBurn),
		NetMonthly:      d.money(snap.MonthlyRevenue - snap.MonthlyBurn),
		CashBalance:     d.money(snap.CashBalance),
		Runway:          metrics.RunwayMonths(snap.CashBalance, snap.MonthlyBurn),
	})
}
