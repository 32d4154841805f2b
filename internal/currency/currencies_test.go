package currency

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, "EUR", Normalize(" eur "))
	assert.Equal(t, Base, Normalize(""))
}

func TestLookup(t *testing.T) {
	info, ok := Lookup("gbp")
	require.True(t, ok)
	assert.Equal(t, "£", info.Symbol)
	assert.Equal(t, "en-GB", info.Locale)

	_, ok = Lookup("XXX")
	assert.False(t, ok)
	assert.False(t, Supported("XXX"))
	assert.True(t, Supported("ngn"))
}

func TestAllListsBaseFirst(t *testing.T) {
	all := All()
	require.Len(t, all, len(supported))
	assert.Equal(t, Base, all[0].Code)
	for i := 2; i < len(all); i++ {
		assert.Less(t, all[i-1].Code, all[i].Code)
	}
}
