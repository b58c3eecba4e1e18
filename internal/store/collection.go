package store

import (
	"context"
	"sync"

	"github.com/camuig/trade-journal/internal/journal"
	"github.com/camuig/trade-journal/internal/logger"
)

// Source is a plain CRUD endpoint for one resource kind.
type Source[T, In any] interface {
	List(ctx context.Context) ([]T, error)
	Create(ctx context.Context, in In) (T, error)
	Update(ctx context.Context, id int64, in In) (T, error)
	Delete(ctx context.Context, id int64) error
}

// Collection keeps a list in sync with a Source. Unlike TradeStore it waits
// for the backend before changing anything.
type Collection[T, In any] struct {
	src    Source[T, In]
	idOf   func(T) int64
	logger *logger.Logger

	mu      sync.Mutex
	items   []T
	loading int
	err     error
}

func NewCollection[T, In any](src Source[T, In], idOf func(T) int64, log *logger.Logger) *Collection[T, In] {
	return &Collection[T, In]{src: src, idOf: idOf, logger: log, items: []T{}}
}

func (c *Collection[T, In]) Refresh(ctx context.Context) error {
	c.begin()
	items, err := c.src.List(ctx)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading--
	if err != nil {
		c.err = err
		c.logger.Error("refresh collection", "error", err)
		return err
	}
	if items == nil {
		items = []T{}
	}
	c.items = items
	return nil
}

func (c *Collection[T, In]) Add(ctx context.Context, in In) (T, error) {
	c.begin()
	item, err := c.src.Create(ctx, in)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading--
	if err != nil {
		c.err = err
		var zero T
		return zero, err
	}
	c.items = append(cloneSlice(c.items), item)
	return item, nil
}

func (c *Collection[T, In]) Update(ctx context.Context, id int64, in In) (T, error) {
	c.begin()
	item, err := c.src.Update(ctx, id, in)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading--
	if err != nil {
		c.err = err
		var zero T
		return zero, err
	}
	next := cloneSlice(c.items)
	for i := range next {
		if c.idOf(next[i]) == id {
			next[i] = item
		}
	}
	c.items = next
	return item, nil
}

func (c *Collection[T, In]) Remove(ctx context.Context, id int64) error {
	c.begin()
	err := c.src.Delete(ctx, id)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading--
	if err != nil {
		c.err = err
		return err
	}
	c.items = filterSlice(c.items, func(item T) bool { return c.idOf(item) != id })
	return nil
}

func (c *Collection[T, In]) Items() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return cloneSlice(c.items)
}

func (c *Collection[T, In]) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading > 0
}

func (c *Collection[T, In]) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

func (c *Collection[T, In]) begin() {
	c.mu.Lock()
	c.loading++
	c.err = nil
	c.mu.Unlock()
}

type StrategyStore = Collection[journal.Strategy, journal.StrategyInput]

func NewStrategyStore(src Source[journal.Strategy, journal.StrategyInput], log *logger.Logger) *StrategyStore {
	return NewCollection(src, func(s journal.Strategy) int64 { return s.ID }, log.Component("strategy_store"))
}

type ConfirmationSource interface {
	Source[journal.Confirmation, journal.ConfirmationInput]
	ListByStrategy(ctx context.Context, strategyID int64) ([]journal.Confirmation, error)
}

// ConfirmationStore also tracks the confirmations attached to one strategy.
type ConfirmationStore struct {
	*Collection[journal.Confirmation, journal.ConfirmationInput]
	src ConfirmationSource

	mu         sync.Mutex
	strategyID int64
	byStrategy []journal.Confirmation
}

func NewConfirmationStore(src ConfirmationSource, log *logger.Logger) *ConfirmationStore {
	return &ConfirmationStore{
		Collection: NewCollection[journal.Confirmation, journal.ConfirmationInput](
			src, func(c journal.Confirmation) int64 { return c.ID }, log.Component("confirmation_store")),
		src:        src,
		byStrategy: []journal.Confirmation{},
	}
}

func (s *ConfirmationStore) RefreshByStrategy(ctx context.Context, strategyID int64) error {
	items, err := s.src.ListByStrategy(ctx, strategyID)
	if err != nil {
		s.Collection.mu.Lock()
		s.Collection.err = err
		s.Collection.mu.Unlock()
		return err
	}
	if items == nil {
		items = []journal.Confirmation{}
	}
	s.mu.Lock()
	s.strategyID = strategyID
	s.byStrategy = items
	s.mu.Unlock()
	return nil
}

// ByStrategy returns the strategy id last loaded and its confirmations.
func (s *ConfirmationStore) ByStrategy() (int64, []journal.Confirmation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.strategyID, cloneSlice(s.byStrategy)
}

type ConditionSource interface {
	ListByConfirmation(ctx context.Context, confirmationID int64) ([]journal.Condition, error)
	Get(ctx context.Context, id int64) (journal.Condition, error)
	Create(ctx context.Context, in journal.ConditionInput) (journal.Condition, error)
	Update(ctx context.Context, id int64, in journal.ConditionInput) (journal.Condition, error)
	Delete(ctx context.Context, id int64) error
}

// ConditionStore holds the conditions of every confirmation loaded so far.
// Refreshing one confirmation replaces only that confirmation's conditions.
type ConditionStore struct {
	src    ConditionSource
	logger *logger.Logger

	mu         sync.Mutex
	conditions []journal.Condition
	loading    int
	err        error
}

func NewConditionStore(src ConditionSource, log *logger.Logger) *ConditionStore {
	return &ConditionStore{src: src, logger: log.Component("condition_store"), conditions: []journal.Condition{}}
}

func (s *ConditionStore) RefreshFor(ctx context.Context, confirmationID int64) error {
	s.begin()
	fetched, err := s.src.ListByConfirmation(ctx, confirmationID)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading--
	if err != nil {
		s.err = err
		return err
	}
	others := filterSlice(s.conditions, func(c journal.Condition) bool { return c.ConfirmationID != confirmationID })
	s.conditions = append(others, fetched...)
	s.logger.Debug("conditions refreshed", "confirmation_id", confirmationID, "count", len(fetched), "total", len(s.conditions))
	return nil
}

func (s *ConditionStore) Get(ctx context.Context, id int64) (journal.Condition, error) {
	s.begin()
	c, err := s.src.Get(ctx, id)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading--
	if err != nil {
		s.err = err
	}
	return c, err
}

func (s *ConditionStore) Add(ctx context.Context, in journal.ConditionInput) (journal.Condition, error) {
	s.begin()
	c, err := s.src.Create(ctx, in)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading--
	if err != nil {
		s.err = err
		return journal.Condition{}, err
	}
	s.conditions = append(cloneSlice(s.conditions), c)
	return c, nil
}

func (s *ConditionStore) Update(ctx context.Context, id int64, in journal.ConditionInput) (journal.Condition, error) {
	s.begin()
	c, err := s.src.Update(ctx, id, in)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading--
	if err != nil {
		s.err = err
		return journal.Condition{}, err
	}
	next := cloneSlice(s.conditions)
	for i := range next {
		if next[i].ID == id {
			next[i] = c
		}
	}
	s.conditions = next
	return c, nil
}

func (s *ConditionStore) Remove(ctx context.Context, id int64) error {
	s.begin()
	err := s.src.Delete(ctx, id)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading--
	if err != nil {
		s.err = err
		return err
	}
	s.conditions = filterSlice(s.conditions, func(c journal.Condition) bool { return c.ID != id })
	return nil
}

// For returns the cached conditions of one confirmation.
func (s *ConditionStore) For(confirmationID int64) []journal.Condition {
	s.mu.Lock()
	defer s.mu.Unlock()
	return filterSlice(s.conditions, func(c journal.Condition) bool { return c.ConfirmationID == confirmationID })
}

func (s *ConditionStore) All() []journal.Condition {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneSlice(s.conditions)
}

func (s *ConditionStore) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading > 0
}

func (s *ConditionStore) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *ConditionStore) begin() {
	s.mu.Lock()
	s.loading++
	s.err = nil
	s.mu.Unlock()
}

func cloneSlice[T any](items []T) []T {
	out := make([]T, len(items))
	copy(out, items)
	return out
}

func filterSlice[T any](items []T, keep func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if keep(item) {
			out = append(out, item)
		}
	}
	return out
}
