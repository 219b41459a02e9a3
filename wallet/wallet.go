// Package wallet provides a keystore-backed wallet provider. Account access is
// granted through an Approver, which in the terminal UI is an interactive
// prompt asking the user to pick an account and unlock it.
package wallet

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"os"
	"sync"

	"vault-wallet-tui/vault"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/common"
)

var (
	// ErrNoWallet means there is no usable keystore to connect to.
	ErrNoWallet = errors.New("wallet not installed")
	// ErrRejected means the user declined (or failed) the access request.
	ErrRejected = errors.New("account access rejected")
)

// Grant is the user's answer to an access request.
type Grant struct {
	Account    common.Address
	Passphrase string
}

// Approver asks the user to grant access to one of the given accounts.
// It returns an error when the user declines.
type Approver func(ctx context.Context, accounts []common.Address) (Grant, error)

// ChainBackend is a node connection that also reports its chain ID.
type ChainBackend interface {
	vault.Backend
	ChainID(ctx context.Context) (*big.Int, error)
}

// Keystore is a wallet provider over a go-ethereum keystore directory.
type Keystore struct {
	ks      *keystore.KeyStore
	backend ChainBackend
	approve Approver

	mu      sync.Mutex
	chainID *big.Int
}

// Open opens the keystore in dir. It returns ErrNoWallet when dir is unset,
// does not exist or holds no accounts.
func Open(dir string, backend ChainBackend, approve Approver) (*Keystore, error) {
	if dir == "" {
		return nil, fmt.Errorf("%w: no keystore directory configured", ErrNoWallet)
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: keystore %s not found", ErrNoWallet, dir)
	}
	if backend == nil {
		return nil, fmt.Errorf("%w: no node connection", ErrNoWallet)
	}

	ks := keystore.NewKeyStore(dir, keystore.StandardScryptN, keystore.StandardScryptP)
	if len(ks.Accounts()) == 0 {
		return nil, fmt.Errorf("%w: keystore %s has no accounts", ErrNoWallet, dir)
	}
	return &Keystore{ks: ks, backend: backend, approve: approve}, nil
}

// Accounts lists the addresses held by the keystore.
func (k *Keystore) Accounts() []common.Address {
	var out []common.Address
	for _, a := range k.ks.Accounts() {
		out = append(out, a.Address)
	}
	return out
}

// RequestAccounts asks the Approver for access and unlocks the granted
// account. Any refusal or unlock failure is reported as ErrRejected.
func (k *Keystore) RequestAccounts(ctx context.Context) ([]common.Address, error) {
	if k.approve == nil {
		return nil, fmt.Errorf("%w: no approver", ErrRejected)
	}
	grant, err := k.approve(ctx, k.Accounts())
	if err != nil {
		if errors.Is(err, ErrRejected) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrRejected, err)
	}

	acct, err := k.find(grant.Account)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRejected, err)
	}
	if err := k.ks.Unlock(acct, grant.Passphrase); err != nil {
		return nil, fmt.Errorf("%w: unlock %s: %v", ErrRejected, acct.Address.Hex(), err)
	}
	return []common.Address{acct.Address}, nil
}

// Signer returns transact options bound to an unlocked account.
func (k *Keystore) Signer(ctx context.Context, account common.Address) (*bind.TransactOpts, error) {
	acct, err := k.find(account)
	if err != nil {
		return nil, err
	}
	chainID, err := k.chain(ctx)
	if err != nil {
		return nil, err
	}
	opts, err := bind.NewKeyStoreTransactorWithChainID(k.ks, acct, chainID)
	if err != nil {
		return nil, fmt.Errorf("transactor: %w", err)
	}
	opts.Context = ctx
	return opts, nil
}

// Backend returns the read/write node connection.
func (k *Keystore) Backend() vault.Backend {
	return k.backend
}

func (k *Keystore) find(addr common.Address) (accounts.Account, error) {
	acct, err := k.ks.Find(accounts.Account{Address: addr})
	if err != nil {
		return accounts.Account{}, fmt.Errorf("account %s: %w", addr.Hex(), err)
	}
	return acct, nil
}

func (k *Keystore) chain(ctx context.Context) (*big.Int, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.chainID != nil {
		return k.chainID, nil
	}
	id, err := k.backend.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch chain id: %w", err)
	}
	k.chainID = id
	return id, nil
}
