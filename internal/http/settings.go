package http

import (
	"encoding/json"
	"io"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"finops-dashboard-go/internal/currency"
	"finops-dashboard-go/internal/models"
	"finops-dashboard-go/internal/store"
)

// POST /v1/onboarding
func (s *Server) onboard(c *gin.Context) {
	var in struct {
		Sample bool `json:"sample"`
	}
	if err := c.ShouldBindJSON(&in); err != nil && err != io.EOF {
		c.JSON(400, gin.H{"error": "invalid_request"})
		return
	}

	snap, err := s.store.Onboard(c.Request.Context(), ownerID(c), in.Sample)
	if err != nil {
		s.fail(c, "onboarding", err)
		return
	}
	c.JSON(200, gin.H{"snapshot": snap})
}

func (s *Server) getSettings(c *gin.Context) {
	ctx := c.Request.Context()
	st, err := s.store.GetSettings(ctx, ownerID(c))
	if err != nil {
		s.fail(c, "get settings", err)
		return
	}
	snap, found, err := s.store.GetSnapshot(ctx, ownerID(c))
	if err != nil {
		s.fail(c, "get snapshot", err)
		return
	}
	c.JSON(200, gin.H{"settings": st, "snapshot": snap, "has_snapshot": found})
}

type settingsInput struct {
	Currency      string `json:"currency"`
	Timezone      string `json:"timezone"`
	BusinessName  string `json:"business_name"`
	BusinessType  string `json:"business_type"`
	Industry      string `json:"industry"`
	Location      string `json:"location"`
	FoundedYear   *int   `json:"founded_year"`
	EmployeeCount *int   `json:"employee_count"`
	Website       string `json:"website"`

	CashBalance    *float64 `json:"cash_balance"`
	MonthlyBurn    *float64 `json:"monthly_burn"`
	MonthlyRevenue *float64 `json:"monthly_revenue"`
}

func (s *Server) saveSettings(c *gin.Context) {
	var in settingsInput
	if !s.bindValid(c, schemaSettings, &in) {
		return
	}

	// Blank keeps the stored preference.
	var code string
	if strings.TrimSpace(in.Currency) != "" {
		code = currency.Normalize(in.Currency)
		if !currency.Supported(code) {
			c.JSON(422, gin.H{"error": "unsupported_currency"})
			return
		}
	}
	tz := strings.TrimSpace(in.Timezone)
	if tz != "" {
		if _, err := time.LoadLocation(tz); err != nil {
			c.JSON(422, gin.H{"error": "invalid_timezone"})
			return
		}
	}

	st := models.UserSettings{
		Currency:      code,
		Timezone:      tz,
		BusinessName:  strings.TrimSpace(in.BusinessName),
		BusinessType:  strings.TrimSpace(in.BusinessType),
		Industry:      strings.TrimSpace(in.Industry),
		Location:      strings.TrimSpace(in.Location),
		FoundedYear:   in.FoundedYear,
		EmployeeCount: in.EmployeeCount,
		Website:       strings.TrimSpace(in.Website),
	}
	snap := store.SnapshotUpdate{
		CashBalance:    in.CashBalance,
		MonthlyBurn:    in.MonthlyBurn,
		MonthlyRevenue: in.MonthlyRevenue,
	}

	saved, err := s.store.SaveSettings(c.Request.Context(), ownerID(c), st, snap)
	if err != nil {
		s.fail(c, "save settings", err)
		return
	}
	c.JSON(200, gin.H{"settings": saved})
}

// POST /v1/currency
func (s *Server) setCurrency(c *gin.Context) {
	var in struct {
		Currency string `json:"currency"`
	}
	if err := json.NewDecoder(io.LimitReader(c.Request.Body, maxBodyBytes)).Decode(&in); err != nil {
		c.JSON(400, gin.H{"error": "invalid_request"})
		return
	}
	if strings.TrimSpace(in.Currency) == "" {
		c.JSON(400, gin.H{"error": "currency_required"})
		return
	}
	code := currency.Normalize(in.Currency)
	if !currency.Supported(code) {
		c.JSON(422, gin.H{"error": "unsupported_currency"})
		return
	}

	st, err := s.store.SetCurrency(c.Request.Context(), ownerID(c), code)
	if err != nil {
		s.fail(c, "save currency", err)
		return
	}
	c.JSON(200, gin.H{"settings": st})
}

func (s *Server) listCurrencies(c *gin.Context) {
	c.JSON(200, gin.H{"base": currency.Base, "currencies": currency.All()})
}
