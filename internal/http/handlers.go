package http

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"finops-dashboard-go/internal/config"
	"finops-dashboard-go/internal/currency"
	"finops-dashboard-go/internal/logger"
	"finops-dashboard-go/internal/models"
	"finops-dashboard-go/internal/store"
)

type Server struct {
	cfg     *config.Config
	store   *store.Store
	fx      *currency.Converter
	log     zerolog.Logger
	schemas *schemas
	limiter *limiter
	now     func() time.Time
}

func NewServer(cfg *config.Config, db *gorm.DB, fx *currency.Converter, log zerolog.Logger) *gin.Engine {
	s := &Server{
		cfg:     cfg,
		store:   store.New(db, cfg.TZDefault),
		fx:      fx,
		log:     log,
		schemas: mustLoadSchemas(),
		now:     time.Now,
	}
	if cfg.RateLimitRPS > 0 {
		s.limiter = newLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	}
	return s.routes()
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(corsMiddleware(s.cfg))
	r.Use(requestLogger(s.log))
	r.Use(requestTimeout(time.Duration(s.cfg.ReqTimeoutSec) * time.Second))

	r.GET("/health", s.health)

	auth := r.Group("/v1/auth", s.rateLimit())
	{
		auth.POST("/register", s.authRegister)
		auth.POST("/login", s.authLogin)
	}

	v1 := r.Group("/v1", s.authenticate(), s.rateLimit())
	{
		v1.GET("/transactions", s.listTransactions)
		v1.POST("/transactions", s.createTransaction)
		v1.GET("/transactions/:id", s.getTransaction)
		v1.PUT("/transactions/:id", s.updateTransaction)
		v1.DELETE("/transactions/:id", s.deleteTransaction)

		v1.GET("/anomalies", s.listAnomalies)
		v1.POST("/anomalies", s.createAnomaly)
		v1.PUT("/anomalies/:id", s.updateAnomaly)

		v1.POST("/onboarding", s.onboard)
		v1.GET("/settings", s.getSettings)
		v1.POST("/settings", s.saveSettings)
		v1.POST("/currency", s.setCurrency)
		v1.GET("/currencies", s.listCurrencies)

		v1.GET("/dashboard", s.dashboard)
		v1.GET("/reports/summary", s.reportSummary)
		v1.GET("/expenses/breakdown", s.expenseBreakdown)
		v1.GET("/cashflow", s.cashflow)

		v1.GET("/export", s.exportReport)
		v1.GET("/export/transactions", s.exportTransactions)
	}
	return r
}

func (s *Server) health(c *gin.Context) {
	sqlDB, err := s.store.DB().DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err != nil {
		c.JSON(503, gin.H{"ok": false, "error": "database_unavailable"})
		return
	}
	c.JSON(200, gin.H{"ok": true})
}

// fail logs err against the request and answers with a generic 500.
func (s *Server) fail(c *gin.Context, action string, err error) {
	log := logger.FromContext(c.Request.Context())
	log.Error().Err(err).Str("action", action).Msg("request failed")
	c.AbortWithStatusJSON(500, gin.H{"error": strings.ReplaceAll(action, " ", "_") + "_failed"})
}

type transactionInput struct {
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	Category        string   `json:"category"`
	Amount          float64  `json:"amount"`
	Type            string   `json:"type"`
	Date            string   `json:"date"`
	Vendor          string   `json:"vendor"`
	VendorType      string   `json:"vendor_type"`
	PaymentMethod   string   `json:"payment_method"`
	ReferenceNumber string   `json:"reference_number"`
	Status          string   `json:"status"`
	Tags            []string `json:"tags"`
}

func (in transactionInput) model() models.Transaction {
	return models.Transaction{
		Name:            strings.TrimSpace(in.Name),
		Description:     strings.TrimSpace(in.Description),
		Category:        strings.TrimSpace(in.Category),
		Amount:          in.Amount,
		Type:            strings.ToLower(in.Type),
		Date:            in.Date,
		Vendor:          strings.TrimSpace(in.Vendor),
		VendorType:      strings.TrimSpace(in.VendorType),
		PaymentMethod:   strings.TrimSpace(in.PaymentMethod),
		ReferenceNumber: strings.TrimSpace(in.ReferenceNumber),
		Status:          strings.ToLower(strings.TrimSpace(in.Status)),
		Tags:            cleanTags(in.Tags),
	}
}

// cleanTags trims tags and drops blanks and repeats, keeping first order.
func cleanTags(tags []string) models.StringArray {
	out := models.StringArray{}
	seen := make(map[string]bool, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

// bindTransaction validates the body and returns the row it describes.
func (s *Server) bindTransaction(c *gin.Context) (models.Transaction, bool) {
	var in transactionInput
	if !s.bindValid(c, schemaTransaction, &in) {
		return models.Transaction{}, false
	}
	if _, err := time.Parse(dateLayout, in.Date); err != nil {
		c.JSON(422, gin.H{"error": "invalid_date"})
		return models.Transaction{}, false
	}
	return in.model(), true
}

const dateLayout = "2006-01-02"

// transactionFilter reads the listing query. ok is false once a 400 has
// been written.
func transactionFilter(c *gin.Context) (f store.TransactionFilter, ok bool) {
	f = store.TransactionFilter{
		StartDate: strings.TrimSpace(c.Query("start_date")),
		EndDate:   strings.TrimSpace(c.Query("end_date")),
		Type:      strings.TrimSpace(c.Query("type")),
		Category:  c.Query("category"),
		Vendor:    c.Query("vendor"),
	}
	for _, d := range []string{f.StartDate, f.EndDate} {
		if d == "" {
			continue
		}
		if _, err := time.Parse(dateLayout, d); err != nil {
			c.JSON(400, gin.H{"error": "invalid_date_filter"})
			return f, false
		}
	}
	switch strings.ToLower(f.Type) {
	case "", "all", models.TypeIncome, models.TypeExpense:
	default:
		c.JSON(400, gin.H{"error": "invalid_type_filter"})
		return f, false
	}
	if l := c.Query("limit"); l != "" {
		n, err := strconv.Atoi(l)
		if err != nil || n < 1 {
			c.JSON(400, gin.H{"error": "invalid_limit"})
			return f, false
		}
		f.Limit = n
	}
	return f, true
}

func (s *Server) listTransactions(c *gin.Context) {
	f, ok := transactionFilter(c)
	if !ok {
		return
	}
	txs, err := s.store.ListTransactions(c.Request.Context(), ownerID(c), f)
	if err != nil {
		s.fail(c, "list transactions", err)
		return
	}
	c.JSON(200, gin.H{"transactions": txs, "count": len(txs)})
}

func (s *Server) getTransaction(c *gin.Context) {
	t, err := s.store.GetTransaction(c.Request.Context(), ownerID(c), c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(404, gin.H{"error": "transaction_not_found"})
		return
	}
	if err != nil {
		s.fail(c, "get transaction", err)
		return
	}
	c.JSON(200, t)
}

func (s *Server) createTransaction(c *gin.Context) {
	t, ok := s.bindTransaction(c)
	if !ok {
		return
	}
	if err := s.store.CreateTransaction(c.Request.Context(), ownerID(c), &t); err != nil {
		s.fail(c, "save transaction", err)
		return
	}
	c.JSON(201, t)
}

func (s *Server) updateTransaction(c *gin.Context) {
	in, ok := s.bindTransaction(c)
	if !ok {
		return
	}
	t, err := s.store.UpdateTransaction(c.Request.Context(), ownerID(c), c.Param("id"), in)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(404, gin.H{"error": "transaction_not_found"})
		return
	}
	if err != nil {
		s.fail(c, "update transaction", err)
		return
	}
	c.JSON(200, t)
}

func (s *Server) deleteTransaction(c *gin.Context) {
	err := s.store.DeleteTransaction(c.Request.Context(), ownerID(c), c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(404, gin.H{"error": "transaction_not_found"})
		return
	}
	if err != nil {
		s.fail(c, "delete transaction", err)
		return
	}
	c.JSON(200, gin.H{"message": "transaction deleted"})
}
