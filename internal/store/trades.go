package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/camuig/trade-journal/internal/journal"
	"github.com/camuig/trade-journal/internal/logger"
)

// DefaultFreshness is how long a fetched trade list is served without
// going back to the backend.
const DefaultFreshness = 5 * time.Minute

var (
	ErrTradeNotFound = errors.New("trade not found")
	ErrProvisional   = errors.New("trade is not persisted yet")
)

// TradeService is the remote side of the store.
type TradeService interface {
	ListTrades(ctx context.Context, q journal.TradeQuery) ([]journal.Trade, error)
	CreateTrade(ctx context.Context, in journal.NewTrade) (journal.Trade, error)
	UpdateTrade(ctx context.Context, id int64, patch journal.TradePatch) (journal.Trade, error)
	DeleteTrade(ctx context.Context, id int64) error
}

// TradeStore caches the trade list and applies changes optimistically.
//
// trades is the last snapshot confirmed by the backend; local is the working
// copy consumers read and edit. A failed change is always rolled back so local
// never shows something the backend rejected. The lock is held only for the
// synchronous parts of an operation, never across a network call.
type TradeStore struct {
	svc       TradeService
	freshness time.Duration
	logger    *logger.Logger
	now       func() time.Time

	mu         sync.Mutex
	query      journal.TradeQuery
	trades     []journal.Trade
	local      []journal.Trade
	dirty      bool
	err        error
	lastFetch  time.Time
	lastTempID int64

	fetchSeq    uint64
	fetchCancel context.CancelFunc

	creating int
	updating int
	deleting int
	syncing  bool

	listeners []Listener
}

func NewTradeStore(svc TradeService, freshness time.Duration, log *logger.Logger) *TradeStore {
	if freshness <= 0 {
		freshness = DefaultFreshness
	}
	return &TradeStore{
		svc:       svc,
		freshness: freshness,
		logger:    log.Component("trade_store"),
		now:       time.Now,
		trades:    []journal.Trade{},
		local:     []journal.Trade{},
	}
}

func (s *TradeStore) AddListener(l Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, l)
}

// SetQuery changes the listing filter. The cached snapshot is treated as stale.
func (s *TradeStore) SetQuery(q journal.TradeQuery) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.query = q
	s.lastFetch = time.Time{}
}

// Refresh loads the trade list. At most one fetch is outstanding: a newer
// call cancels the older one, and only the newest result is applied. A
// non-empty snapshot younger than the freshness window is served as is.
func (s *TradeStore) Refresh(ctx context.Context) error {
	s.mu.Lock()
	if s.fetchCancel != nil {
		s.fetchCancel()
		s.fetchCancel = nil
		s.fetchSeq++
		s.logger.Debug("cancelled in-flight trade fetch")
	}
	if s.isFreshLocked() {
		s.mu.Unlock()
		s.emit(Event{Op: OpRefresh, Outcome: OutcomeCacheHit})
		return nil
	}

	s.fetchSeq++
	seq := s.fetchSeq
	fetchCtx, cancel := context.WithCancel(ctx)
	s.fetchCancel = cancel
	s.err = nil
	query := s.query
	s.mu.Unlock()

	trades, err := s.svc.ListTrades(fetchCtx, query)
	cancel()

	s.mu.Lock()
	if seq != s.fetchSeq {
		s.mu.Unlock()
		s.emit(Event{Op: OpRefresh, Outcome: OutcomeCancelled})
		return nil
	}
	s.fetchCancel = nil

	if err != nil {
		if errors.Is(err, context.Canceled) {
			s.mu.Unlock()
			s.emit(Event{Op: OpRefresh, Outcome: OutcomeCancelled})
			return err
		}
		s.err = err
		s.mu.Unlock()
		s.logger.Error("refresh trades", "error", err)
		s.emit(Event{Op: OpRefresh, Outcome: OutcomeFailed, Err: err})
		return err
	}

	if trades == nil {
		trades = []journal.Trade{}
	}
	s.trades = trades
	s.local = journal.Clone(trades)
	s.dirty = false
	s.lastFetch = s.now()
	s.mu.Unlock()

	s.logger.Debug("trades refreshed", "count", len(trades))
	s.emit(Event{Op: OpRefresh, Outcome: OutcomeSuccess})
	return nil
}

func (s *TradeStore) isFreshLocked() bool {
	if len(s.trades) == 0 || s.lastFetch.IsZero() {
		return false
	}
	return s.now().Sub(s.lastFetch) < s.freshness
}

// Invalidate forces the next Refresh to hit the backend.
func (s *TradeStore) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastFetch = time.Time{}
}

// Create shows a provisional trade right away and swaps it for the backend's
// record once the create succeeds.
func (s *TradeStore) Create(ctx context.Context, in journal.NewTrade) (journal.Trade, error) {
	if err := in.Validate(); err != nil {
		s.recordFailure(OpCreate, 0, err)
		return journal.Trade{}, err
	}

	var tempID int64
	var created journal.Trade
	err := s.mutate(ctx, mutation{
		op:       OpCreate,
		tradeID:  func() int64 { return firstNonZero(created.ID, tempID) },
		inflight: &s.creating,
		apply: func() error {
			tempID = s.nextTempIDLocked()
			s.local = append(journal.Clone(s.local), in.Provisional(tempID, s.now()))
			return nil
		},
		commit: func(ctx context.Context) error {
			var err error
			created, err = s.svc.CreateTrade(ctx, in)
			return err
		},
		settle: func() {
			// a refresh that landed mid-flight may already hold the new record
			switch i := journal.IndexOf(s.local, tempID); {
			case journal.IndexOf(s.local, created.ID) >= 0:
				s.local = replaceByID(removeByID(s.local, tempID), created)
			case i >= 0:
				s.local = replaceAt(s.local, i, created)
			default:
				s.local = upsert(s.local, created)
			}
			s.trades = upsert(s.trades, created)
			s.dirty = false
			s.lastFetch = time.Time{}
		},
		rollback: func(snapshot) {
			if i := journal.IndexOf(s.local, tempID); i >= 0 {
				s.local = removeAt(s.local, i)
			}
			s.dirty = false
		},
	})
	if err != nil {
		return journal.Trade{}, err
	}
	return created, nil
}

func (s *TradeStore) Update(ctx context.Context, id int64, patch journal.TradePatch) (journal.Trade, error) {
	if id < 0 {
		err := fmt.Errorf("update trade %d: %w", id, ErrProvisional)
		s.recordFailure(OpUpdate, id, err)
		return journal.Trade{}, err
	}
	if err := patch.Validate(); err != nil {
		s.recordFailure(OpUpdate, id, err)
		return journal.Trade{}, err
	}

	var updated journal.Trade
	err := s.mutate(ctx, mutation{
		op:       OpUpdate,
		tradeID:  func() int64 { return id },
		inflight: &s.updating,
		apply: func() error {
			i := journal.IndexOf(s.local, id)
			if i < 0 {
				return fmt.Errorf("update trade %d: %w", id, ErrTradeNotFound)
			}
			s.local = replaceAt(s.local, i, patch.Apply(s.local[i]))
			return nil
		},
		commit: func(ctx context.Context) error {
			var err error
			updated, err = s.svc.UpdateTrade(ctx, id, patch)
			return err
		},
		settle: func() {
			s.trades = replaceByID(s.trades, updated)
			s.local = replaceByID(s.local, updated)
			s.dirty = false
		},
		rollback: s.restore,
	})
	if err != nil {
		return journal.Trade{}, err
	}
	return updated, nil
}

func (s *TradeStore) Delete(ctx context.Context, id int64) error {
	if id < 0 {
		err := fmt.Errorf("delete trade %d: %w", id, ErrProvisional)
		s.recordFailure(OpDelete, id, err)
		return err
	}

	return s.mutate(ctx, mutation{
		op:       OpDelete,
		tradeID:  func() int64 { return id },
		inflight: &s.deleting,
		apply: func() error {
			i := journal.IndexOf(s.local, id)
			if i < 0 {
				return fmt.Errorf("delete trade %d: %w", id, ErrTradeNotFound)
			}
			s.local = removeAt(s.local, i)
			return nil
		},
		commit: func(ctx context.Context) error {
			return s.svc.DeleteTrade(ctx, id)
		},
		settle: func() {
			s.trades = removeByID(s.trades, id)
			s.local = removeByID(s.local, id)
			s.dirty = false
		},
		rollback: s.restore,
	})
}

// Sync pushes every locally edited trade the backend already knows about,
// then reloads the list. Dirty stays set if anything fails so a later call
// can retry.
func (s *TradeStore) Sync(ctx context.Context) error {
	s.mu.Lock()
	if !s.dirty || s.syncing {
		s.mu.Unlock()
		return nil
	}
	changed := diffTrades(s.local, s.trades)
	s.syncing = true
	s.err = nil
	s.mu.Unlock()

	s.logger.Info("syncing local trades", "changed", len(changed))

	err := s.pushChanges(ctx, changed)
	if err == nil {
		s.Invalidate()
		err = s.Refresh(ctx)
	}

	s.mu.Lock()
	s.syncing = false
	if err != nil {
		s.err = err
		s.dirty = true
	} else {
		s.dirty = false
	}
	s.mu.Unlock()

	if err != nil {
		s.logger.Error("sync trades", "error", err)
		s.emit(Event{Op: OpSync, Outcome: OutcomeFailed, Err: err})
		return err
	}
	s.emit(Event{Op: OpSync, Outcome: OutcomeSuccess})
	return nil
}

func (s *TradeStore) pushChanges(ctx context.Context, changed []journal.Trade) error {
	for _, t := range changed {
		updated, err := s.svc.UpdateTrade(ctx, t.ID, journal.PatchFrom(t))
		if err != nil {
			return fmt.Errorf("sync trade %d: %w", t.ID, err)
		}
		s.mu.Lock()
		s.trades = replaceByID(s.trades, updated)
		s.mu.Unlock()
	}
	return nil
}

// UpdateLocalTrades replaces the working copy without contacting the backend.
func (s *TradeStore) UpdateLocalTrades(trades []journal.Trade) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.local = journal.Clone(trades)
	if s.local == nil {
		s.local = []journal.Trade{}
	}
	s.dirty = true
}

type State struct {
	Trades      []journal.Trade `json:"trades,omitempty"`
	LocalTrades []journal.Trade `json:"localTrades,omitempty"`
	Dirty       bool            `json:"isDirty"`
	Loading     bool            `json:"isLoading"`
	Creating    bool            `json:"isCreating"`
	Updating    bool            `json:"isUpdating"`
	Deleting    bool            `json:"isDeleting"`
	Syncing     bool            `json:"isSyncing"`
	Error       string          `json:"error,omitempty"`
	LastFetch   time.Time       `json:"lastFetch"`
}

func (s *TradeStore) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := State{
		Trades:      journal.Clone(s.trades),
		LocalTrades: journal.Clone(s.local),
		Dirty:       s.dirty,
		Loading:     s.fetchCancel != nil,
		Creating:    s.creating > 0,
		Updating:    s.updating > 0,
		Deleting:    s.deleting > 0,
		Syncing:     s.syncing,
		LastFetch:   s.lastFetch,
	}
	if s.err != nil {
		st.Error = s.err.Error()
	}
	return st
}

func (s *TradeStore) Trades() []journal.Trade {
	s.mu.Lock()
	defer s.mu.Unlock()
	return journal.Clone(s.trades)
}

func (s *TradeStore) LocalTrades() []journal.Trade {
	s.mu.Lock()
	defer s.mu.Unlock()
	return journal.Clone(s.local)
}

func (s *TradeStore) IsDirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirty
}

// Err is the last recorded failure, cleared when the next operation starts.
func (s *TradeStore) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *TradeStore) LastFetch() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastFetch
}

// nextTempIDLocked returns a negative id that is strictly below every id
// handed out before, so it can never match a persisted trade.
func (s *TradeStore) nextTempIDLocked() int64 {
	id := -s.now().UnixNano()
	if id >= s.lastTempID {
		id = s.lastTempID - 1
	}
	s.lastTempID = id
	return id
}

func (s *TradeStore) recordFailure(op Op, id int64, err error) {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
	s.emit(Event{Op: op, TradeID: id, Outcome: OutcomeFailed, Err: err})
}

func (s *TradeStore) emit(e Event) {
	s.mu.Lock()
	listeners := make([]Listener, len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()

	e.At = s.now()
	for _, l := range listeners {
		l.OnEvent(e)
	}
}

func diffTrades(local, server []journal.Trade) []journal.Trade {
	var changed []journal.Trade
	for _, l := range local {
		i := journal.IndexOf(server, l.ID)
		if i >= 0 && !server[i].Equal(l) {
			changed = append(changed, l)
		}
	}
	return changed
}

func replaceAt(trades []journal.Trade, i int, t journal.Trade) []journal.Trade {
	out := journal.Clone(trades)
	out[i] = t
	return out
}

func replaceByID(trades []journal.Trade, t journal.Trade) []journal.Trade {
	if i := journal.IndexOf(trades, t.ID); i >= 0 {
		return replaceAt(trades, i, t)
	}
	return trades
}

// upsert replaces the trade with t's id, or appends t when there is none.
func upsert(trades []journal.Trade, t journal.Trade) []journal.Trade {
	if i := journal.IndexOf(trades, t.ID); i >= 0 {
		return replaceAt(trades, i, t)
	}
	return append(journal.Clone(trades), t)
}

func removeAt(trades []journal.Trade, i int) []journal.Trade {
	out := make([]journal.Trade, 0, len(trades)-1)
	out = append(out, trades[:i]...)
	return append(out, trades[i+1:]...)
}

func removeByID(trades []journal.Trade, id int64) []journal.Trade {
	if i := journal.IndexOf(trades, id); i >= 0 {
		return removeAt(trades, i)
	}
	return trades
}

func firstNonZero(ids ...int64) int64 {
	for _, id := range ids {
		if id != 0 {
			return id
		}
	}
	return 0
}
