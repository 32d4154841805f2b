package currency

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"finops-dashboard-go/internal/config"
)

// RateSource returns base -> code exchange rates.
type RateSource interface {
	Rates(ctx context.Context, base string) (map[string]float64, error)
}

// OpenERClient reads rates from an open.er-api.com compatible endpoint:
// GET {baseURL}/{base} -> {"result":"success","rates":{"EUR":0.92,...}}.
type OpenERClient struct {
	baseURL string
	http    *http.Client
}

func NewOpenERClient(cfg *config.Config) *OpenERClient {
	return &OpenERClient{baseURL: cfg.FXBaseURL, http: &http.Client{Timeout: cfg.FXTimeout}}
}

func (c *OpenERClient) Rates(ctx context.Context, base string) (map[string]float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+base, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("rate source status %d: %s", resp.StatusCode, string(b))
	}

	var out struct {
		Result    string             `json:"result"`
		ErrorType string             `json:"error-type"`
		Rates     map[string]float64 `json:"rates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode rates: %w", err)
	}
	if out.Result != "" && out.Result != "success" {
		return nil, fmt.Errorf("rate source result %q: %s", out.Result, out.ErrorType)
	}
	if len(out.Rates) == 0 {
		return nil, fmt.Errorf("rate source returned no rates")
	}
	return out.Rates, nil
}
