package currency

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finops-dashboard-go/internal/config"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *OpenERClient {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewOpenERClient(&config.Config{FXBaseURL: srv.URL, FXTimeout: time.Second})
}

func TestOpenERClientRates(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/USD", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"result":"success","base_code":"USD","rates":{"USD":1,"EUR":0.92}}`))
	})

	rates, err := c.Rates(context.Background(), "USD")
	require.NoError(t, err)
	assert.Equal(t, 0.92, rates["EUR"])
}

func TestOpenERClientErrors(t *testing.T) {
	cases := map[string]http.HandlerFunc{
		"status": func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusBadGateway)
		},
		"result": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"result":"error","error-type":"unsupported-code"}`))
		},
		"empty": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"result":"success","rates":{}}`))
		},
		"garbage": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`<html>`))
		},
	}
	for name, h := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := newTestClient(t, h).Rates(context.Background(), "USD")
			assert.Error(t, err)
		})
	}
}
