package currency

import (
	"context"
	"errors"
	"math"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

// failureBackoff is how long a failed fetch is remembered before the
// source is tried again.
const failureBackoff = 30 * time.Second

var errBackoff = errors.New("rate source recently failed")

// Rate is the multiplier from the base currency to Currency. Fallback is
// set when the real rate was unavailable and 1 was used instead.
type Rate struct {
	Currency string  `json:"currency"`
	Value    float64 `json:"value"`
	Fallback bool    `json:"fallback"`
}

func (r Rate) Apply(base float64) float64 { return base * r.Value }

type Amount struct {
	Base     float64 `json:"base"`
	Value    float64 `json:"value"`
	Currency string  `json:"currency"`
	Rate     float64 `json:"rate"`
	Fallback bool    `json:"fallback,omitempty"`
}

// Converter turns base-currency amounts into display amounts. The rate
// table is cached process-wide for ttl; concurrent misses share one fetch.
// It never fails: any problem with the source degrades to a rate of 1.
type Converter struct {
	source  RateSource
	ttl     time.Duration
	timeout time.Duration
	log     zerolog.Logger
	now     func() time.Time

	group singleflight.Group

	mu        sync.RWMutex
	rates     map[string]float64
	fetchedAt time.Time
	failedAt  time.Time
}

func NewConverter(source RateSource, ttl, timeout time.Duration, log zerolog.Logger) *Converter {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Converter{
		source:  source,
		ttl:     ttl,
		timeout: timeout,
		log:     log.With().Str("component", "currency").Logger(),
		now:     time.Now,
	}
}

func (c *Converter) Rate(ctx context.Context, code string) Rate {
	code = Normalize(code)
	if code == Base {
		return Rate{Currency: Base, Value: 1}
	}

	rates, err := c.table(ctx)
	if err != nil {
		c.log.Warn().Err(err).Str("currency", code).Msg("exchange rate unavailable, using 1")
		return Rate{Currency: code, Value: 1, Fallback: true}
	}
	v, ok := rates[code]
	if !ok || !(v > 0) || math.IsInf(v, 0) {
		c.log.Warn().Str("currency", code).Msg("exchange rate missing from source, using 1")
		return Rate{Currency: code, Value: 1, Fallback: true}
	}
	return Rate{Currency: code, Value: v}
}

// Display converts a base amount into code at full precision.
func (c *Converter) Display(ctx context.Context, base float64, code string) Amount {
	r := c.Rate(ctx, code)
	return Amount{Base: base, Value: r.Apply(base), Currency: r.Currency, Rate: r.Value, Fallback: r.Fallback}
}

func (c *Converter) cached() (map[string]float64, error, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	now := c.now()
	if c.rates != nil && now.Sub(c.fetchedAt) < c.ttl {
		return c.rates, nil, true
	}
	if !c.failedAt.IsZero() && now.Sub(c.failedAt) < failureBackoff {
		return nil, errBackoff, true
	}
	return nil, nil, false
}

func (c *Converter) table(ctx context.Context) (map[string]float64, error) {
	if rates, err, ok := c.cached(); ok {
		return rates, err
	}

	v, err, _ := c.group.Do(Base, func() (any, error) {
		if rates, err, ok := c.cached(); ok {
			return rates, err
		}

		// Detached from the caller so one cancelled request does not fail
		// everyone sharing this fetch.
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
		defer cancel()

		rates, err := c.source.Rates(fctx, Base)
		c.mu.Lock()
		defer c.mu.Unlock()
		if err != nil {
			c.failedAt = c.now()
			return nil, err
		}
		c.rates, c.fetchedAt, c.failedAt = rates, c.now(), time.Time{}
		return rates, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(map[string]float64), nil
}
