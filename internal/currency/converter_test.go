package currency

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

type fakeSource struct {
	calls atomic.Int32
	rates map[string]float64
	err   error
	delay time.Duration
}

func (f *fakeSource) Rates(ctx context.Context, base string) (map[string]float64, error) {
	f.calls.Add(1)
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.rates, nil
}

func newTestConverter(src RateSource) *Converter {
	return NewConverter(src, 10*time.Minute, time.Second, zerolog.Nop())
}

func TestConverterBaseNeedsNoFetch(t *testing.T) {
	src := &fakeSource{err: errors.New("unreachable")}
	c := newTestConverter(src)

	r := c.Rate(context.Background(), "usd")
	assert.Equal(t, Rate{Currency: "USD", Value: 1}, r)
	assert.Zero(t, src.calls.Load())
}

func TestConverterCachesWithinTTL(t *testing.T) {
	src := &fakeSource{rates: map[string]float64{"EUR": 0.92, "GBP": 0.79}}
	c := newTestConverter(src)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	a := c.Display(context.Background(), 100, "EUR")
	assert.InDelta(t, 92.0, a.Value, 1e-9)
	assert.False(t, a.Fallback)

	assert.Equal(t, 0.79, c.Rate(context.Background(), "GBP").Value)
	assert.Equal(t, int32(1), src.calls.Load())

	now = now.Add(11 * time.Minute)
	c.Rate(context.Background(), "EUR")
	assert.Equal(t, int32(2), src.calls.Load())
}

func TestConverterFallsBackOnFailure(t *testing.T) {
	src := &fakeSource{err: errors.New("down")}
	c := newTestConverter(src)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	a := c.Display(context.Background(), 100, "EUR")
	assert.Equal(t, Amount{Base: 100, Value: 100, Currency: "EUR", Rate: 1, Fallback: true}, a)

	// Failures are remembered briefly so callers do not each wait on a dead source.
	c.Rate(context.Background(), "EUR")
	assert.Equal(t, int32(1), src.calls.Load())

	now = now.Add(failureBackoff + time.Second)
	src.err = nil
	src.rates = map[string]float64{"EUR": 0.5}
	assert.Equal(t, 0.5, c.Rate(context.Background(), "EUR").Value)
}

func TestConverterMissingCode(t *testing.T) {
	c := newTestConverter(&fakeSource{rates: map[string]float64{"EUR": 0.92, "BAD": -1}})

	assert.Equal(t, Rate{Currency: "NGN", Value: 1, Fallback: true}, c.Rate(context.Background(), "NGN"))
	assert.True(t, c.Rate(context.Background(), "BAD").Fallback)
}

func TestConverterTimeout(t *testing.T) {
	src := &fakeSource{rates: map[string]float64{"EUR": 0.92}, delay: time.Second}
	c := NewConverter(src, time.Minute, 20*time.Millisecond, zerolog.Nop())

	r := c.Rate(context.Background(), "EUR")
	assert.True(t, r.Fallback)
	assert.Equal(t, 1.0, r.Value)
}

func TestConverterCoalescesConcurrentMisses(t *testing.T) {
	src := &fakeSource{rates: map[string]float64{"EUR": 0.92}, delay: 50 * time.Millisecond}
	c := newTestConverter(src)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, 0.92, c.Rate(context.Background(), "EUR").Value)
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), src.calls.Load())
}

func TestConverterIgnoresCallerCancellation(t *testing.T) {
	src := &fakeSource{rates: map[string]float64{"EUR": 0.92}}
	c := newTestConverter(src)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Equal(t, 0.92, c.Rate(ctx, "EUR").Value)
}
