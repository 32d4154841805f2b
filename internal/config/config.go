package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port          string
	AllowOrigins  []string
	GinMode       string
	LogLevel      string
	LogFormat     string
	TZDefault     string
	ReqTimeoutSec int

	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	SQLitePath string

	// AuthTrustedHeader, when set, names a header carrying the owner id
	// asserted by an upstream identity provider. Session tokens are ignored.
	AuthTrustedHeader string

	FXBaseURL      string
	FXTimeout      time.Duration
	FXCacheTTL     time.Duration
	RateLimitRPS   float64
	RateLimitBurst int
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoi(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func atof(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func list(key, def string) []string {
	var out []string
	for _, p := range strings.Split(getenv(key, def), ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func Load() *Config {
	return &Config{
		Port:          getenv("PORT", "8080"),
		AllowOrigins:  list("ALLOW_ORIGINS", "*"),
		GinMode:       getenv("GIN_MODE", "release"),
		LogLevel:      getenv("LOG_LEVEL", "info"),
		LogFormat:     getenv("LOG_FORMAT", "json"),
		TZDefault:     getenv("TZ_DEFAULT", "America/New_York"),
		ReqTimeoutSec: atoi("REQUEST_TIMEOUT_SECONDS", 30),

		DBDriver:   strings.ToLower(getenv("DB_DRIVER", "postgres")),
		DBHost:     getenv("DB_HOST", "localhost"),
		DBPort:     getenv("DB_PORT", "5432"),
		DBUser:     getenv("DB_USER", "postgres"),
		DBPassword: getenv("DB_PASSWORD", ""),
		DBName:     getenv("DB_NAME", "finops"),
		DBSSLMode:  getenv("DB_SSLMODE", "disable"),
		SQLitePath: getenv("SQLITE_PATH", "finops.db"),

		AuthTrustedHeader: getenv("AUTH_TRUSTED_HEADER", ""),

		FXBaseURL:      strings.TrimRight(getenv("FX_BASE_URL", "https://open.er-api.com/v6/latest"), "/"),
		FXTimeout:      time.Duration(atoi("FX_TIMEOUT_SECONDS", 3)) * time.Second,
		FXCacheTTL:     time.Duration(atoi("FX_CACHE_TTL_SECONDS", 600)) * time.Second,
		RateLimitRPS:   atof("RATE_LIMIT_RPS", 5),
		RateLimitBurst: atoi("RATE_LIMIT_BURST", 10),
	}
}
