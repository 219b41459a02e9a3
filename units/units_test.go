package units

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEther(t *testing.T) {
	t.Run("valid amounts", func(t *testing.T) {
		cases := map[string]string{
			"1.5":                  "1500000000000000000",
			"2.0":                  "2000000000000000000",
			" 0.25 ":               "250000000000000000",
			"0.000000000000000001": "1",
			".5":                   "500000000000000000",
			"42":                   "42000000000000000000",
		}
		for in, want := range cases {
			got, err := ParseEther(in)
			require.NoError(t, err, in)
			assert.Equal(t, want, got.String(), in)
		}
	})

	t.Run("invalid amounts", func(t *testing.T) {
		for _, in := range []string{
			"", "   ", "abc", "0", "0.0", "-1", "-0.5", "NaN", "Inf",
			"1.2.3", "0x10", "1,5",
			"0.0000000000000000001",
			"1e200", "1e3", "1E2", "1e-3", "+1", "1.", "1 000",
		} {
			_, err := ParseEther(in)
			assert.ErrorIs(t, err, ErrInvalidAmount, "input %q", in)
		}
	})

	t.Run("uint256 overflow", func(t *testing.T) {
		// 2^256 wei is one above the largest uint256
		tooBig := FormatEther(new(big.Int).Lsh(big.NewInt(1), 256))
		_, err := ParseEther(tooBig)
		assert.ErrorIs(t, err, ErrInvalidAmount)
	})
}

func TestFormatEther(t *testing.T) {
	wei, ok := new(big.Int).SetString("3250000000000000000", 10)
	require.True(t, ok)
	assert.Equal(t, "3.25", FormatEther(wei))
	assert.Equal(t, "0", FormatEther(big.NewInt(0)))
	assert.Equal(t, "0", FormatEther(nil))
	assert.Equal(t, "0.000000000000000001", FormatEther(big.NewInt(1)))
}

func TestRoundTrip(t *testing.T) {
	for _, in := range []string{"1.5", "0.1", "123.456789012345678", "1000000", "0.000000000000000001"} {
		wei, err := ParseEther(in)
		require.NoError(t, err, in)
		assert.Equal(t, in, FormatEther(wei))
	}
}
