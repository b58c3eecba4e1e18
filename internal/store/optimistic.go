package store

import (
	"context"

	"github.com/camuig/trade-journal/internal/journal"
)

type snapshot struct {
	local []journal.Trade
	dirty bool
}

// mutation is one optimistic change. apply, settle and rollback run with the
// store lock held; commit runs without it.
type mutation struct {
	op       Op
	tradeID  func() int64
	inflight *int

	apply    func() error
	commit   func(ctx context.Context) error
	settle   func()
	rollback func(snapshot)
}

func (s *TradeStore) mutate(ctx context.Context, m mutation) error {
	s.mu.Lock()
	snap := snapshot{local: journal.Clone(s.local), dirty: s.dirty}
	if err := m.apply(); err != nil {
		s.err = err
		s.mu.Unlock()
		s.emit(Event{Op: m.op, TradeID: m.tradeID(), Outcome: OutcomeFailed, Err: err})
		return err
	}
	s.dirty = true
	s.err = nil
	*m.inflight++
	s.mu.Unlock()

	err := m.commit(ctx)

	s.mu.Lock()
	*m.inflight--
	if err != nil {
		m.rollback(snap)
		s.err = err
	} else {
		m.settle()
	}
	s.mu.Unlock()

	if err != nil {
		s.logger.Warn("optimistic change rolled back", "op", m.op, "trade_id", m.tradeID(), "error", err)
		s.emit(Event{Op: m.op, TradeID: m.tradeID(), Outcome: OutcomeRolledBack, Err: err})
		return err
	}
	s.logger.Debug("change confirmed", "op", m.op, "trade_id", m.tradeID())
	s.emit(Event{Op: m.op, TradeID: m.tradeID(), Outcome: OutcomeSuccess})
	return nil
}

func (s *TradeStore) restore(snap snapshot) {
	s.local = snap.local
	s.dirty = snap.dirty
}
