package http

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"finops-dashboard-go/internal/config"
	"finops-dashboard-go/internal/logger"
	"finops-dashboard-go/internal/store"
)

const ownerKey = "ownerID"

func ownerID(c *gin.Context) string { return c.GetString(ownerKey) }

func corsMiddleware(cfg *config.Config) gin.HandlerFunc {
	cc := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"Content-Disposition"},
		MaxAge:        time.Hour,
	}
	if len(cfg.AllowOrigins) == 0 || cfg.AllowOrigins[0] == "*" {
		cc.AllowAllOrigins = true
	} else {
		cc.AllowOrigins = cfg.AllowOrigins
	}
	if cfg.AuthTrustedHeader != "" {
		cc.AllowHeaders = append(cc.AllowHeaders, cfg.AuthTrustedHeader)
	}
	return cors.New(cc)
}

func requestLogger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Request = c.Request.WithContext(logger.WithContext(c.Request.Context(), log))
		c.Next()

		ev := log.Info()
		if c.Writer.Status() >= 500 {
			ev = log.Error()
		}
		ev.Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Str("owner", ownerID(c)).
			Msg("request")
	}
}

func requestTimeout(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if d <= 0 {
			c.Next()
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// authenticate resolves the caller's owner id. Behind a trusted proxy the id
// comes from the configured header; otherwise from a session bearer token.
func (s *Server) authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		var owner string
		if h := s.cfg.AuthTrustedHeader; h != "" {
			owner = strings.TrimSpace(c.GetHeader(h))
			if owner == "" {
				c.AbortWithStatusJSON(401, gin.H{"error": "identity_header_missing"})
				return
			}
		} else {
			authHeader := c.GetHeader("Authorization")
			if authHeader == "" {
				c.AbortWithStatusJSON(401, gin.H{"error": "authorization_header_missing"})
				return
			}
			token, ok := strings.CutPrefix(authHeader, "Bearer ")
			if !ok || strings.TrimSpace(token) == "" {
				c.AbortWithStatusJSON(401, gin.H{"error": "authorization_header_invalid"})
				return
			}
			id, err := s.store.SessionOwner(c.Request.Context(), hashToken(strings.TrimSpace(token)), s.now())
			if errors.Is(err, store.ErrNotFound) {
				c.AbortWithStatusJSON(401, gin.H{"error": "invalid_token"})
				return
			}
			if err != nil {
				s.fail(c, "session lookup", err)
				return
			}
			owner = id
		}

		c.Set(ownerKey, owner)
		reqLog := logger.FromContext(c.Request.Context()).With().Str("owner", owner).Logger()
		c.Request = c.Request.WithContext(logger.WithContext(c.Request.Context(), reqLog))
		c.Next()
	}
}

// limiter hands out one token bucket per caller key.
type limiter struct {
	rps   rate.Limit
	burst int

	mu      sync.Mutex
	callers map[string]*callerLimit
}

type callerLimit struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

const (
	limiterSweepSize = 10000
	limiterIdle      = 10 * time.Minute
)

func newLimiter(rps float64, burst int) *limiter {
	if burst < 1 {
		burst = 1
	}
	return &limiter{rps: rate.Limit(rps), burst: burst, callers: make(map[string]*callerLimit)}
}

func (l *limiter) allow(key string, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.callers) >= limiterSweepSize {
		for k, cl := range l.callers {
			if now.Sub(cl.lastSeen) > limiterIdle {
				delete(l.callers, k)
			}
		}
	}
	cl, ok := l.callers[key]
	if !ok {
		cl = &callerLimit{lim: rate.NewLimiter(l.rps, l.burst)}
		l.callers[key] = cl
	}
	cl.lastSeen = now
	return cl.lim.AllowN(now, 1)
}

// rateLimit throttles per owner once authenticated, per client IP before.
func (s *Server) rateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.limiter == nil {
			c.Next()
			return
		}
		key := ownerID(c)
		if key == "" {
			key = "ip:" + c.ClientIP()
		}
		if !s.limiter.allow(key, s.now()) {
			c.AbortWithStatusJSON(429, gin.H{"error": "rate_limited"})
			return
		}
		c.Next()
	}
}
