package coordinator

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// ConnectionState tracks whether a wallet account has been granted.
type ConnectionState int

const (
	Disconnected ConnectionState = iota
	Connecting
	Connected
)

func (s ConnectionState) String() string {
	switch s {
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	default:
		return "disconnected"
	}
}

// ActionKind names a user-facing wallet action.
type ActionKind int

const (
	ActionConnect ActionKind = iota
	ActionDeposit
	ActionWithdraw
	ActionBalance
)

func (a ActionKind) String() string {
	switch a {
	case ActionConnect:
		return "connect"
	case ActionDeposit:
		return "deposit"
	case ActionWithdraw:
		return "withdraw"
	case ActionBalance:
		return "balance"
	default:
		return "unknown"
	}
}

// Result is the outcome of one action. It is never modified after it is
// returned.
type Result struct {
	Action  ActionKind
	Message string
	Failure *Failure
	// ClearInput tells the caller to clear the amount field.
	ClearInput bool
	TxHash     common.Hash
	Balance    string
	At         time.Time
}

// OK reports whether the action succeeded.
func (r Result) OK() bool {
	return r.Failure == nil
}

// Err returns the failure as an error, or nil on success.
func (r Result) Err() error {
	if r.Failure == nil {
		return nil
	}
	return r.Failure
}

// State is a read-only snapshot of the coordinator.
type State struct {
	Connection ConnectionState
	Account    common.Address
	// Balance is the last successfully fetched balance in ETH; it is only
	// refreshed by FetchBalance.
	Balance   string
	BalanceAt time.Time
	// Status is the last action result, nil before the first action.
	Status   *Result
	InFlight map[ActionKind]bool
}

// Busy reports whether an action of the given kind is running.
func (s State) Busy(kind ActionKind) bool {
	return s.InFlight[kind]
}

func (s State) clone() State {
	out := s
	out.InFlight = make(map[ActionKind]bool, len(s.InFlight))
	for k, v := range s.InFlight {
		if v {
			out.InFlight[k] = true
		}
	}
	if s.Status != nil {
		st := *s.Status
		out.Status = &st
	}
	return out
}
