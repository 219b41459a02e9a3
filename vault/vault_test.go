package vault

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsedABI(t *testing.T) {
	parsed, err := ParsedABI()
	require.NoError(t, err)

	t.Run("selectors", func(t *testing.T) {
		for sig, name := range map[string]string{
			"deposit(uint256)":  "deposit",
			"withdraw(uint256)": "withdraw",
			"balance()":         "balance",
		} {
			m, ok := parsed.Methods[name]
			require.True(t, ok, name)
			assert.Equal(t, crypto.Keccak256([]byte(sig))[:4], m.ID, sig)
		}
	})

	t.Run("deposit calldata", func(t *testing.T) {
		amount, _ := new(big.Int).SetString("2000000000000000000", 10)
		data, err := parsed.Pack("deposit", amount)
		require.NoError(t, err)
		require.Len(t, data, 4+32)
		assert.Equal(t, common.LeftPadBytes(amount.Bytes(), 32), data[4:])
	})

	t.Run("balance output", func(t *testing.T) {
		want, _ := new(big.Int).SetString("3250000000000000000", 10)
		out, err := parsed.Unpack("balance", common.LeftPadBytes(want.Bytes(), 32))
		require.NoError(t, err)
		require.Len(t, out, 1)
		assert.Equal(t, 0, want.Cmp(out[0].(*big.Int)))
	})

	assert.True(t, parsed.Methods["deposit"].IsPayable())
	assert.True(t, parsed.Methods["balance"].IsConstant())
}

func TestNew(t *testing.T) {
	_, err := New(common.HexToAddress("0xB473EAcebc96437D20E39c5C42441D0818F985B7"), nil)
	assert.Error(t, err)
}
