package http

import (
	"bytes"

	"github.com/gin-gonic/gin"

	"finops-dashboard-go/internal/export"
)

func (s *Server) exportReport(c *gin.Context) {
	ctx := c.Request.Context()
	snap, found, err := s.store.GetSnapshot(ctx, ownerID(c))
	if err != nil {
		s.fail(c, "get snapshot", err)
		return
	}
	if !found {
		c.JSON(404, gin.H{"error": "no_financial_data"})
		return
	}
	st, err := s.store.GetSettings(ctx, ownerID(c))
	if err != nil {
		s.fail(c, "get settings", err)
		return
	}

	var buf bytes.Buffer
	if err := export.Snapshot(&buf, snap, st.Currency, s.now()); err != nil {
		s.fail(c, "export report", err)
		return
	}
	sendCSV(c, export.ReportFilename, buf.Bytes())
}

func (s *Server) exportTransactions(c *gin.Context) {
	f, ok := transactionFilter(c)
	if !ok {
		return
	}
	if c.Query("limit") == "" {
		f.Limit = -1
	}
	txs, err := s.store.ListTransactions(c.Request.Context(), ownerID(c), f)
	if err != nil {
		s.fail(c, "list transactions", err)
		return
	}

	var buf bytes.Buffer
	if err := export.Transactions(&buf, txs); err != nil {
		s.fail(c, "export transactions", err)
		return
	}
	sendCSV(c, export.TransactionsFilename(s.now()), buf.Bytes())
}

func sendCSV(c *gin.Context, filename string, body []byte) {
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(200, "text/csv; charset=utf-8", body)
}
