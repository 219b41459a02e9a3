// Package vault binds the deployed deposit/withdraw contract.
package vault

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// ABI is the contract interface the front-end relies on.
const ABI = `[
  {"type":"function","name":"deposit","stateMutability":"payable","inputs":[{"name":"amount","type":"uint256"}],"outputs":[]},
  {"type":"function","name":"withdraw","stateMutability":"nonpayable","inputs":[{"name":"amount","type":"uint256"}],"outputs":[]},
  {"type":"function","name":"balance","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]}
]`

// Backend is what the binding needs from a node connection: calls,
// transactions and receipt lookups.
type Backend interface {
	bind.ContractBackend
	bind.DeployBackend
}

// Vault is a thin wrapper around the bound contract.
type Vault struct {
	address  common.Address
	contract *bind.BoundContract
	backend  Backend
}

// ParsedABI returns the parsed contract ABI.
func ParsedABI() (abi.ABI, error) {
	parsed, err := abi.JSON(strings.NewReader(ABI))
	if err != nil {
		return abi.ABI{}, fmt.Errorf("parse abi: %w", err)
	}
	return parsed, nil
}

// New binds the contract deployed at address.
func New(address common.Address, backend Backend) (*Vault, error) {
	if backend == nil {
		return nil, fmt.Errorf("backend is required")
	}
	if address == (common.Address{}) {
		return nil, fmt.Errorf("contract address is required")
	}
	parsed, err := ParsedABI()
	if err != nil {
		return nil, err
	}
	return &Vault{
		address:  address,
		contract: bind.NewBoundContract(address, parsed, backend, backend, backend),
		backend:  backend,
	}, nil
}

// Address returns the contract address.
func (v *Vault) Address() common.Address {
	return v.address
}

// Deposit submits deposit(amount).
func (v *Vault) Deposit(opts *bind.TransactOpts, amount *big.Int) (*types.Transaction, error) {
	tx, err := v.contract.Transact(opts, "deposit", amount)
	if err != nil {
		return nil, fmt.Errorf("deposit tx: %w", err)
	}
	return tx, nil
}

// Withdraw submits withdraw(amount).
func (v *Vault) Withdraw(opts *bind.TransactOpts, amount *big.Int) (*types.Transaction, error) {
	tx, err := v.contract.Transact(opts, "withdraw", amount)
	if err != nil {
		return nil, fmt.Errorf("withdraw tx: %w", err)
	}
	return tx, nil
}

// Balance calls balance() and returns the result in wei.
func (v *Vault) Balance(opts *bind.CallOpts) (*big.Int, error) {
	var out []interface{}
	if err := v.contract.Call(opts, &out, "balance"); err != nil {
		return nil, fmt.Errorf("balance call: %w", err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("balance call: empty result")
	}
	bal, ok := out[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("balance call: unexpected result type %T", out[0])
	}
	return bal, nil
}

// WaitMined blocks until tx is included in a block or ctx is done.
func (v *Vault) WaitMined(ctx context.Context, tx *types.Transaction) (*types.Receipt, error) {
	return bind.WaitMined(ctx, v.backend, tx)
}
