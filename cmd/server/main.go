package main

import (
	"os"
	_ "time/tzdata"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"finops-dashboard-go/internal/config"
	"finops-dashboard-go/internal/currency"
	"finops-dashboard-go/internal/database"
	httpserver "finops-dashboard-go/internal/http"
	"finops-dashboard-go/internal/logger"
)

func main() {
	_ = godotenv.Load(".env")

	cfg := config.Load()
	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	gin.SetMode(cfg.GinMode)

	db, err := database.Open(cfg, log)
	if err != nil {
		log.Error().Err(err).Msg("database setup failed")
		os.Exit(1)
	}

	fx := currency.NewConverter(currency.NewOpenERClient(cfg), cfg.FXCacheTTL, cfg.FXTimeout, log)
	r := httpserver.NewServer(cfg, db, fx, log)

	log.Info().Str("port", cfg.Port).Msg("listening")
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Error().Err(err).Msg("server stopped")
		os.Exit(1)
	}
}
