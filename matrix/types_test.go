package matrix

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsComplete(t *testing.T) {
	tests := []struct {
		name                            string
		origin, destination, client, un string
		want                            bool
	}{
		{"all filled", "Mumbai", "Pune", "Acme", "Truck-1", true},
		{"missing origin", "", "Pune", "Acme", "Truck-1", false},
		{"missing destination", "Mumbai", "", "Acme", "Truck-1", false},
		{"missing client", "Mumbai", "Pune", "", "Truck-1", false},
		{"missing unit", "Mumbai", "Pune", "Acme", "", false},
		{"blank-only counts as empty", "Mumbai", "Pune", "   ", "Truck-1", false},
		{"tab-only counts as empty", "\t", "Pune", "Acme", "Truck-1", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsComplete(tt.origin, tt.destination, tt.client, tt.un))
		})
	}
}

func TestParseRate(t *testing.T) {
	t.Run("blank means unpriced", func(t *testing.T) {
		rate, err := ParseRate("")
		require.NoError(t, err)
		assert.Nil(t, rate)
	})

	t.Run("whitespace-only means unpriced", func(t *testing.T) {
		rate, err := ParseRate("   ")
		require.NoError(t, err)
		assert.Nil(t, rate)
	})

	t.Run("valid decimal", func(t *testing.T) {
		rate, err := ParseRate("12.5")
		require.NoError(t, err)
		require.NotNil(t, rate)
		assert.Equal(t, "12.50", rate.StringFixed(2))
	})

	t.Run("surrounding whitespace trimmed", func(t *testing.T) {
		rate, err := ParseRate("  7 ")
		require.NoError(t, err)
		require.NotNil(t, rate)
		assert.Equal(t, "7.00", rate.StringFixed(2))
	})

	t.Run("non-numeric rejected", func(t *testing.T) {
		rate, err := ParseRate("twelve")
		assert.Nil(t, rate)
		require.Error(t, err)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "rate", verr.Field)
	})
}

func TestFormatRate(t *testing.T) {
	assert.Equal(t, "", FormatRate(nil))

	rate, err := ParseRate("99.9")
	require.NoError(t, err)
	assert.Equal(t, "99.90", FormatRate(rate))
}
