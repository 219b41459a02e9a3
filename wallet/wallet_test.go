package wallet

import (
	"context"
	"errors"
	"math/big"
	"path/filepath"
	"testing"

	"vault-wallet-tui/vault"

	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chainOnly answers ChainID; every other backend method is unused here.
type chainOnly struct {
	vault.Backend
	id *big.Int
}

func (c chainOnly) ChainID(context.Context) (*big.Int, error) { return c.id, nil }

func newKeystoreDir(t *testing.T, pass string) (string, common.Address) {
	t.Helper()
	dir := t.TempDir()
	ks := keystore.NewKeyStore(dir, keystore.LightScryptN, keystore.LightScryptP)
	acct, err := ks.NewAccount(pass)
	require.NoError(t, err)
	return dir, acct.Address
}

func TestOpen(t *testing.T) {
	backend := chainOnly{id: big.NewInt(1337)}

	t.Run("unset directory", func(t *testing.T) {
		_, err := Open("", backend, nil)
		assert.ErrorIs(t, err, ErrNoWallet)
	})

	t.Run("missing directory", func(t *testing.T) {
		_, err := Open(filepath.Join(t.TempDir(), "nope"), backend, nil)
		assert.ErrorIs(t, err, ErrNoWallet)
	})

	t.Run("empty keystore", func(t *testing.T) {
		_, err := Open(t.TempDir(), backend, nil)
		assert.ErrorIs(t, err, ErrNoWallet)
	})

	t.Run("with account", func(t *testing.T) {
		dir, addr := newKeystoreDir(t, "pw")
		k, err := Open(dir, backend, nil)
		require.NoError(t, err)
		assert.Equal(t, []common.Address{addr}, k.Accounts())
	})
}

func TestRequestAccounts(t *testing.T) {
	dir, addr := newKeystoreDir(t, "secret")
	backend := chainOnly{id: big.NewInt(1337)}
	ctx := context.Background()

	t.Run("granted", func(t *testing.T) {
		k, err := Open(dir, backend, func(_ context.Context, accts []common.Address) (Grant, error) {
			require.Len(t, accts, 1)
			return Grant{Account: accts[0], Passphrase: "secret"}, nil
		})
		require.NoError(t, err)

		got, err := k.RequestAccounts(ctx)
		require.NoError(t, err)
		assert.Equal(t, []common.Address{addr}, got)

		opts, err := k.Signer(ctx, addr)
		require.NoError(t, err)
		assert.Equal(t, addr, opts.From)
	})

	t.Run("declined", func(t *testing.T) {
		k, err := Open(dir, backend, func(context.Context, []common.Address) (Grant, error) {
			return Grant{}, errors.New("user closed the prompt")
		})
		require.NoError(t, err)
		_, err = k.RequestAccounts(ctx)
		assert.ErrorIs(t, err, ErrRejected)
	})

	t.Run("wrong passphrase", func(t *testing.T) {
		k, err := Open(dir, backend, func(_ context.Context, accts []common.Address) (Grant, error) {
			return Grant{Account: accts[0], Passphrase: "wrong"}, nil
		})
		require.NoError(t, err)
		_, err = k.RequestAccounts(ctx)
		assert.ErrorIs(t, err, ErrRejected)
	})

	t.Run("no approver", func(t *testing.T) {
		k, err := Open(dir, backend, nil)
		require.NoError(t, err)
		_, err = k.RequestAccounts(ctx)
		assert.ErrorIs(t, err, ErrRejected)
	})
}
