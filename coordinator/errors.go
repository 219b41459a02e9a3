package coordinator

// ErrorKind classifies why an action failed.
type ErrorKind int

const (
	// NoWallet: no wallet provider is available.
	NoWallet ErrorKind = iota + 1
	// ConnectionRejected: the account access request was declined or failed.
	ConnectionRejected
	// InvalidAmount: the amount input is not a positive, exactly representable number.
	InvalidAmount
	// TransactionFailed: signing, submission or execution of a transaction failed.
	TransactionFailed
	// ReadFailed: the balance call failed.
	ReadFailed
	// Timeout: the transaction was not confirmed in time.
	Timeout
	// InFlight: an action of the same kind is still running.
	InFlight
)

func (k ErrorKind) String() string {
	switch k {
	case NoWallet:
		return "no_wallet"
	case ConnectionRejected:
		return "connection_rejected"
	case InvalidAmount:
		return "invalid_amount"
	case TransactionFailed:
		return "transaction_failed"
	case ReadFailed:
		return "read_failed"
	case Timeout:
		return "timeout"
	case InFlight:
		return "in_flight"
	default:
		return "unknown"
	}
}

// Failure is the structured error carried by a failed Result. Message is
// meant for the user; Cause holds the underlying provider/network error.
type Failure struct {
	Kind    ErrorKind
	Message string
	Cause   error
}

func (f *Failure) Error() string {
	if f.Cause != nil {
		return f.Message + ": " + f.Cause.Error()
	}
	return f.Message
}

func (f *Failure) Unwrap() error {
	return f.Cause
}

// Reason returns the underlying cause as text, or "" when there is none.
func (f *Failure) Reason() string {
	if f == nil || f.Cause == nil {
		return ""
	}
	return f.Cause.Error()
}
