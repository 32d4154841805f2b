package http

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"finops-dashboard-go/internal/models"
	"finops-dashboard-go/internal/store"
)

const sessionTTL = 30 * 24 * time.Hour

type AuthResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *models.User `json:"user"`
}

type credentials struct {
	Username string `json:"username"`
	PIN      string `json:"pin"`
	Sample   bool   `json:"sample"`
}

func newToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// issueSession stores a fresh session for user and writes the token response.
func (s *Server) issueSession(c *gin.Context, status int, user *models.User) {
	token, err := newToken()
	if err != nil {
		s.fail(c, "issue token", err)
		return
	}
	expires := s.now().Add(sessionTTL).UTC()
	if err := s.store.CreateSession(c.Request.Context(), user.ID, hashToken(token), expires); err != nil {
		s.fail(c, "issue token", err)
		return
	}
	c.JSON(status, AuthResponse{Token: token, ExpiresAt: expires, User: user})
}

// POST /v1/auth/register
func (s *Server) authRegister(c *gin.Context) {
	if s.cfg.AuthTrustedHeader != "" {
		c.JSON(404, gin.H{"error": "auth_delegated"})
		return
	}
	var in credentials
	if !s.bindValid(c, schemaCredentials, &in) {
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.PIN), bcrypt.DefaultCost)
	if err != nil {
		s.fail(c, "hash pin", err)
		return
	}

	ctx := c.Request.Context()
	user, err := s.store.Register(ctx, in.Username, string(hash), in.Sample)
	if errors.Is(err, store.ErrUsernameTaken) {
		c.JSON(409, gin.H{"error": "user_already_exists"})
		return
	}
	if err != nil {
		s.fail(c, "register", err)
		return
	}

	s.issueSession(c, 201, user)
}

// POST /v1/auth/login
func (s *Server) authLogin(c *gin.Context) {
	if s.cfg.AuthTrustedHeader != "" {
		c.JSON(404, gin.H{"error": "auth_delegated"})
		return
	}
	var in credentials
	if !s.bindValid(c, schemaCredentials, &in) {
		return
	}

	user, err := s.store.UserByUsername(c.Request.Context(), in.Username)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(401, gin.H{"error": "invalid_credentials"})
		return
	}
	if err != nil {
		s.fail(c, "login", err)
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PinHash), []byte(in.PIN)); err != nil {
		c.JSON(401, gin.H{"error": "invalid_credentials"})
		return
	}

	s.issueSession(c, 200, user)
}
