package store

import "time"

type Op string

const (
	OpRefresh Op = "refresh"
	OpCreate  Op = "create"
	OpUpdate  Op = "update"
	OpDelete  Op = "delete"
	OpSync    Op = "sync"
)

type Outcome string

const (
	OutcomeSuccess    Outcome = "success"
	OutcomeCacheHit   Outcome = "cache_hit"
	OutcomeCancelled  Outcome = "cancelled"
	OutcomeFailed     Outcome = "failed"
	OutcomeRolledBack Outcome = "rolled_back"
)

// Event describes one settled store operation.
type Event struct {
	Op      Op
	TradeID int64
	Outcome Outcome
	Err     error
	At      time.Time
}

func (e Event) Failed() bool {
	return e.Outcome == OutcomeFailed || e.Outcome == OutcomeRolledBack
}

// Listener is notified synchronously after an operation settles, outside the
// store lock. Implementations must not block for long.
type Listener interface {
	OnEvent(Event)
}

type ListenerFunc func(Event)

func (f ListenerFunc) OnEvent(e Event) {
	f(e)
}
