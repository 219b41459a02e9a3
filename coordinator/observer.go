package coordinator

import "time"

// Observer receives action lifecycle events. Implementations must be safe for
// concurrent use; actions of different kinds may run at the same time.
type Observer interface {
	ActionStarted(kind ActionKind)
	ActionFinished(kind ActionKind, res Result, elapsed time.Duration)
	// ActionRejected reports a request turned away because an action of the
	// same kind was already running. No ActionStarted precedes it.
	ActionRejected(kind ActionKind, res Result)
}

type nopObserver struct{}

func (nopObserver) ActionStarted(ActionKind)                         {}
func (nopObserver) ActionFinished(ActionKind, Result, time.Duration) {}
func (nopObserver) ActionRejected(ActionKind, Result)                {}
