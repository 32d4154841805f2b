package metrics

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunwayMonths(t *testing.T) {
	r := RunwayMonths(847290, 42350)
	m, ok := r.Months()
	require.True(t, ok)
	assert.InDelta(t, 20.0068, m, 1e-4)
	assert.False(t, r.Infinite())
	assert.Equal(t, "20.0 months", r.String())
}

func TestRunwayZeroBurnIsSentinel(t *testing.T) {
	for _, burn := range []float64{0, -100, math.NaN()} {
		r := RunwayMonths(10000, burn)

		m, ok := r.Months()
		assert.False(t, ok)
		assert.Zero(t, m, "sentinel must not leak a number")
		assert.False(t, math.IsInf(m, 0))
		assert.True(t, r.Infinite())
		assert.Equal(t, "infinite", r.String())
	}
}

func TestRunwayNegativeBalanceClampsToZero(t *testing.T) {
	m, ok := RunwayMonths(-500, 100).Months()
	require.True(t, ok)
	assert.Zero(t, m)
}

func TestRunwayJSON(t *testing.T) {
	b, err := json.Marshal(RunwayMonths(10000, 0))
	require.NoError(t, err)
	assert.JSONEq(t, `{"months":null,"infinite":true}`, string(b))

	b, err = json.Marshal(RunwayMonths(10000, 3000))
	require.NoError(t, err)
	assert.JSONEq(t, `{"months":3.3,"infinite":false}`, string(b))
}
