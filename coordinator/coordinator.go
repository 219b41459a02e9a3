// Package coordinator runs wallet-mediated contract actions (connect, deposit,
// withdraw, balance read) and owns the session state the UI renders.
//
// Every action has the same shape: validate locally, make sure an account is
// connected, perform the remote call, convert units and report exactly one
// Result. Errors never escape as panics or bare errors; they are folded into
// the Result and the coordinator stays usable afterwards.
package coordinator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/big"
	"strings"
	"sync"
	"time"

	"vault-wallet-tui/units"
	"vault-wallet-tui/vault"

	"github.com/charmbracelet/log"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"golang.org/x/sync/singleflight"
)

// DefaultConfirmTimeout bounds the wait for a transaction receipt.
const DefaultConfirmTimeout = 2 * time.Minute

// Provider is the wallet: account access, signing and a node connection.
type Provider interface {
	RequestAccounts(ctx context.Context) ([]common.Address, error)
	Signer(ctx context.Context, account common.Address) (*bind.TransactOpts, error)
	Backend() vault.Backend
}

// Contract is the deployed vault contract.
type Contract interface {
	Deposit(opts *bind.TransactOpts, amount *big.Int) (*types.Transaction, error)
	Withdraw(opts *bind.TransactOpts, amount *big.Int) (*types.Transaction, error)
	Balance(opts *bind.CallOpts) (*big.Int, error)
	WaitMined(ctx context.Context, tx *types.Transaction) (*types.Receipt, error)
}

// Binder attaches to the contract at address over backend.
type Binder func(address common.Address, backend vault.Backend) (Contract, error)

// BindVault is the Binder for the real contract binding.
func BindVault(address common.Address, backend vault.Backend) (Contract, error) {
	v, err := vault.New(address, backend)
	if err != nil {
		return nil, err
	}
	return v, nil
}

// Config holds the per-deployment settings.
type Config struct {
	ContractAddress common.Address
	ConfirmTimeout  time.Duration
	// PayableDeposit also sends the deposit amount as the transaction value.
	PayableDeposit bool
}

// Option customizes a Coordinator.
type Option func(*Coordinator)

// WithLogger sets the diagnostics logger.
func WithLogger(l *log.Logger) Option {
	return func(c *Coordinator) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithObserver sets the action observer (metrics and similar sinks).
func WithObserver(o Observer) Option {
	return func(c *Coordinator) {
		if o != nil {
			c.observer = o
		}
	}
}

// WithClock overrides time.Now, used for result timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *Coordinator) {
		if now != nil {
			c.now = now
		}
	}
}

// Coordinator sequences wallet actions and holds the session state.
// A nil Provider means no wallet is available; every action then fails
// with NoWallet.
type Coordinator struct {
	provider Provider
	bind     Binder
	cfg      Config
	logger   *log.Logger
	observer Observer
	now      func() time.Time

	connect singleflight.Group

	mu     sync.Mutex
	state  State
	subs   map[int]func(State)
	nextID int
}

// New creates a Coordinator for the contract in cfg.
func New(provider Provider, binder Binder, cfg Config, opts ...Option) *Coordinator {
	if cfg.ConfirmTimeout <= 0 {
		cfg.ConfirmTimeout = DefaultConfirmTimeout
	}
	if binder == nil {
		binder = BindVault
	}
	c := &Coordinator{
		provider: provider,
		bind:     binder,
		cfg:      cfg,
		logger:   log.New(io.Discard),
		observer: nopObserver{},
		now:      time.Now,
		state:    State{InFlight: map[ActionKind]bool{}},
		subs:     map[int]func(State){},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Snapshot returns a copy of the current state.
func (c *Coordinator) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

// Subscribe registers fn to receive a snapshot after every state change.
// fn is called outside the coordinator's lock. The returned func removes it.
func (c *Coordinator) Subscribe(fn func(State)) (cancel func()) {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.subs[id] = fn
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.subs, id)
			c.mu.Unlock()
		})
	}
}

// Connect requests account access. It is a no-op when already connected.
func (c *Coordinator) Connect(ctx context.Context) Result {
	return c.run(ctx, ActionConnect, func(ctx context.Context) Result {
		acct, fail := c.ensureConnected(ctx)
		if fail != nil {
			return c.failed(ActionConnect, fail)
		}
		return c.succeeded(ActionConnect, Result{
			Message: fmt.Sprintf("Connected %s.", acct.Hex()),
		})
	})
}

// Deposit sends amountInput ETH to the contract's deposit entry point and
// waits for confirmation.
func (c *Coordinator) Deposit(ctx context.Context, amountInput string) Result {
	return c.run(ctx, ActionDeposit, func(ctx context.Context) Result {
		return c.transact(ctx, ActionDeposit, amountInput, "deposit", "Deposited")
	})
}

// Withdraw asks the contract to withdraw amountInput ETH and waits for
// confirmation.
func (c *Coordinator) Withdraw(ctx context.Context, amountInput string) Result {
	return c.run(ctx, ActionWithdraw, func(ctx context.Context) Result {
		return c.transact(ctx, ActionWithdraw, amountInput, "withdrawal", "Withdrew")
	})
}

// FetchBalance reads the connected account's balance from the contract and
// refreshes the balance snapshot.
func (c *Coordinator) FetchBalance(ctx context.Context) Result {
	return c.run(ctx, ActionBalance, func(ctx context.Context) Result {
		acct, fail := c.ensureConnected(ctx)
		if fail != nil {
			return c.failed(ActionBalance, fail)
		}

		contract, err := c.bind(c.cfg.ContractAddress, c.provider.Backend())
		if err != nil {
			return c.failed(ActionBalance, readFailed(err))
		}
		wei, err := contract.Balance(&bind.CallOpts{Context: ctx, From: acct})
		if err != nil {
			return c.failed(ActionBalance, readFailed(err))
		}

		bal := units.FormatEther(wei)
		c.update(func(s *State) {
			s.Balance = bal
			s.BalanceAt = c.now()
		})
		return c.succeeded(ActionBalance, Result{
			Message: "Balance retrieved successfully.",
			Balance: bal,
		})
	})
}

// run is the shared action template: in-flight guard, observer hooks,
// status update and subscriber notification.
func (c *Coordinator) run(ctx context.Context, kind ActionKind, body func(context.Context) Result) Result {
	if !c.begin(kind) {
		res := c.failed(kind, &Failure{
			Kind:    InFlight,
			Message: fmt.Sprintf("A %s is already in progress.", kind),
		})
		c.observer.ActionRejected(kind, res)
		c.logger.Warn("action rejected", "action", kind, "reason", "in flight")
		return res
	}

	start := c.now()
	c.observer.ActionStarted(kind)
	res := body(ctx)
	c.finish(kind, res)
	c.observer.ActionFinished(kind, res, c.now().Sub(start))

	if res.Failure != nil {
		c.logger.Error(res.Message, "action", kind, "kind", res.Failure.Kind, "err", res.Failure.Cause)
	} else {
		c.logger.Info(res.Message, "action", kind)
	}
	return res
}

func (c *Coordinator) begin(kind ActionKind) bool {
	c.mu.Lock()
	if c.state.InFlight[kind] {
		c.mu.Unlock()
		return false
	}
	c.state.InFlight[kind] = true
	c.mu.Unlock()
	c.notify()
	return true
}

func (c *Coordinator) finish(kind ActionKind, res Result) {
	c.update(func(s *State) {
		delete(s.InFlight, kind)
		r := res
		s.Status = &r
	})
}

// transact runs the validate→connect→sign→submit→confirm sequence shared by
// deposit and withdraw.
func (c *Coordinator) transact(ctx context.Context, kind ActionKind, amountInput, noun, verb string) Result {
	amountText := strings.TrimSpace(amountInput)
	amount, err := units.ParseEther(amountText)
	if err != nil {
		return c.failed(kind, &Failure{
			Kind:    InvalidAmount,
			Message: fmt.Sprintf("Please enter a valid %s amount.", noun),
			Cause:   err,
		})
	}

	acct, fail := c.ensureConnected(ctx)
	if fail != nil {
		return c.failed(kind, fail)
	}

	title := strings.ToUpper(noun[:1]) + noun[1:]
	txFailed := func(err error) Result {
		return c.failed(kind, &Failure{
			Kind:    TransactionFailed,
			Message: title + " failed.",
			Cause:   err,
		})
	}

	opts, err := c.provider.Signer(ctx, acct)
	if err != nil {
		return txFailed(fmt.Errorf("signer: %w", err))
	}
	contract, err := c.bind(c.cfg.ContractAddress, c.provider.Backend())
	if err != nil {
		return txFailed(err)
	}

	send := *opts
	send.Context = ctx
	var tx *types.Transaction
	if kind == ActionDeposit {
		if c.cfg.PayableDeposit {
			send.Value = new(big.Int).Set(amount)
		}
		tx, err = contract.Deposit(&send, amount)
	} else {
		tx, err = contract.Withdraw(&send, amount)
	}
	if err != nil {
		return txFailed(err)
	}
	c.logger.Debug("transaction submitted", "action", kind, "tx", tx.Hash().Hex())

	limit := confirmLimit(ctx, c.cfg.ConfirmTimeout)
	waitCtx, cancel := context.WithTimeout(ctx, c.cfg.ConfirmTimeout)
	defer cancel()
	receipt, err := contract.WaitMined(waitCtx, tx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			res := c.failed(kind, &Failure{
				Kind:    Timeout,
				Message: fmt.Sprintf("%s not confirmed within %s.", title, limit),
				Cause:   err,
			})
			res.TxHash = tx.Hash()
			return res
		}
		res := txFailed(fmt.Errorf("wait for receipt: %w", err))
		res.TxHash = tx.Hash()
		return res
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		res := txFailed(fmt.Errorf("transaction %s reverted", tx.Hash().Hex()))
		res.TxHash = tx.Hash()
		return res
	}

	return c.succeeded(kind, Result{
		Message:    fmt.Sprintf("%s %s ETH successfully.", verb, amountText),
		ClearInput: true,
		TxHash:     tx.Hash(),
	})
}

// ensureConnected returns the granted account, requesting access first when
// needed. Concurrent callers share one provider request.
func (c *Coordinator) ensureConnected(ctx context.Context) (common.Address, *Failure) {
	if c.provider == nil {
		return common.Address{}, &Failure{Kind: NoWallet, Message: "Wallet not installed."}
	}
	if acct, ok := c.connectedAccount(); ok {
		return acct, nil
	}

	// The shared request outlives any single caller: one caller giving up
	// must not fail the others that joined it.
	shared := context.WithoutCancel(ctx)
	ch := c.connect.DoChan("connect", func() (interface{}, error) {
		if acct, ok := c.connectedAccount(); ok {
			return acct, nil
		}
		c.setConnection(Connecting, common.Address{})
		accts, err := c.provider.RequestAccounts(shared)
		if err == nil && len(accts) == 0 {
			err = errors.New("no account granted")
		}
		if err != nil {
			c.setConnection(Disconnected, common.Address{})
			return nil, err
		}
		c.setConnection(Connected, accts[0])
		return accts[0], nil
	})

	var r singleflight.Result
	select {
	case r = <-ch:
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return common.Address{}, &Failure{
				Kind:    Timeout,
				Message: "Wallet connection timed out.",
				Cause:   ctx.Err(),
			}
		}
		return common.Address{}, &Failure{
			Kind:    ConnectionRejected,
			Message: "Wallet connection cancelled.",
			Cause:   ctx.Err(),
		}
	}
	if r.Err != nil {
		return common.Address{}, &Failure{
			Kind:    ConnectionRejected,
			Message: "Please connect your wallet (" + r.Err.Error() + ").",
			Cause:   r.Err,
		}
	}
	v := r.Val
	return v.(common.Address), nil
}

func (c *Coordinator) connectedAccount() (common.Address, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Account, c.state.Connection == Connected
}

func (c *Coordinator) setConnection(cs ConnectionState, acct common.Address) {
	c.update(func(s *State) {
		s.Connection = cs
		s.Account = acct
	})
}

func (c *Coordinator) update(fn func(*State)) {
	c.mu.Lock()
	fn(&c.state)
	c.mu.Unlock()
	c.notify()
}

func (c *Coordinator) notify() {
	c.mu.Lock()
	snap := c.state.clone()
	subs := make([]func(State), 0, len(c.subs))
	for _, fn := range c.subs {
		subs = append(subs, fn)
	}
	c.mu.Unlock()

	for _, fn := range subs {
		fn(snap)
	}
}

func (c *Coordinator) failed(kind ActionKind, f *Failure) Result {
	return Result{Action: kind, Message: f.Message, Failure: f, At: c.now()}
}

func (c *Coordinator) succeeded(kind ActionKind, r Result) Result {
	r.Action = kind
	r.At = c.now()
	return r
}

// confirmLimit is the receipt wait that actually applies: the configured
// timeout, or less when the caller's own deadline comes first.
func confirmLimit(ctx context.Context, timeout time.Duration) time.Duration {
	dl, ok := ctx.Deadline()
	if !ok {
		return timeout
	}
	if left := time.Until(dl); left < timeout {
		return roundLimit(left)
	}
	return timeout
}

func roundLimit(d time.Duration) time.Duration {
	if d <= 0 {
		return 0
	}
	if d < time.Second {
		return d.Round(time.Millisecond)
	}
	return d.Round(time.Second)
}

func readFailed(err error) *Failure {
	return &Failure{Kind: ReadFailed, Message: "Failed to retrieve balance.", Cause: err}
}
