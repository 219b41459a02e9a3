package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadOrCreate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	cfg := LoadOrCreate(path)
	assert.Equal(t, DefaultConfig().RPCURLs, cfg.RPCURLs)

	cfg.Contract = Contract{Name: "Vault", Address: "0xB473EAcebc96437D20E39c5C42441D0818F985B7"}
	require.NoError(t, Save(path, cfg))

	loaded := Load(path)
	assert.Equal(t, cfg, loaded)
}

func TestLoadEnv(t *testing.T) {
	t.Setenv(EnvRPCURL, "http://node.example:8545")
	t.Setenv(EnvContractAddress, "0xB473EAcebc96437D20E39c5C42441D0818F985B7")
	t.Setenv(EnvKeystoreDir, "/tmp/keys")

	cfg := LoadEnv(DefaultConfig(), filepath.Join(t.TempDir(), "missing.env"))

	rpc, ok := cfg.ActiveRPC()
	require.True(t, ok)
	assert.Equal(t, "http://node.example:8545", rpc.URL)
	assert.Len(t, cfg.RPCURLs, 2)
	assert.Equal(t, "/tmp/keys", cfg.KeystoreDir)

	addr, err := cfg.ContractAddress()
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress("0xB473EAcebc96437D20E39c5C42441D0818F985B7"), addr)
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	t.Run("missing contract", func(t *testing.T) {
		assert.Error(t, DefaultConfig().Validate())
	})

	t.Run("bad contract", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Contract.Address = "0x1234"
		assert.Error(t, cfg.Validate())
	})

	t.Run("no rpc", func(t *testing.T) {
		cfg := Config{Contract: Contract{Address: "0xB473EAcebc96437D20E39c5C42441D0818F985B7"}}
		assert.Error(t, cfg.Validate())
	})
}

func TestConfirmTimeout(t *testing.T) {
	assert.Equal(t, time.Duration(0), Config{}.ConfirmTimeout())
	assert.Equal(t, 90*time.Second, Config{ConfirmTimeoutSeconds: 90}.ConfirmTimeout())
}
