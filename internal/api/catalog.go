package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/dgraph-io/ristretto"

	"github.com/camuig/trade-journal/internal/journal"
)

// Catalog serves the backend's reference lists (symbols, operation types,
// results, statuses). They rarely change, so lookups are cached for ttl.
type Catalog struct {
	client *Client
	cache  *ristretto.Cache
	ttl    time.Duration
}

func NewCatalog(c *Client, ttl time.Duration) (*Catalog, error) {
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 1e4,
		MaxCost:     1 << 16,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("create catalog cache: %w", err)
	}
	return &Catalog{client: c, cache: cache, ttl: ttl}, nil
}

func (c *Catalog) Symbols(ctx context.Context) ([]journal.Symbol, error) {
	return loadList[journal.Symbol](ctx, c, "/symbol")
}

func (c *Catalog) OperationTypes(ctx context.Context) ([]journal.OperationType, error) {
	return loadList[journal.OperationType](ctx, c, "/operation-type")
}

func (c *Catalog) Results(ctx context.Context) ([]journal.Result, error) {
	return loadList[journal.Result](ctx, c, "/result")
}

func (c *Catalog) StatusOperations(ctx context.Context) ([]journal.StatusOperation, error) {
	return loadList[journal.StatusOperation](ctx, c, "/status-operation")
}

// SellTypes resolves which operation type ids are short-side.
func (c *Catalog) SellTypes(ctx context.Context) (journal.SellTypes, error) {
	ops, err := c.OperationTypes(ctx)
	if err != nil {
		return nil, err
	}
	return journal.SellTypesOf(ops), nil
}

// Expand fills the reference objects of trades from the catalog. Trades that
// already carry them, or whose ids are unknown, are left as they are.
func (c *Catalog) Expand(ctx context.Context, trades []journal.Trade) ([]journal.Trade, error) {
	symbols, err := c.Symbols(ctx)
	if err != nil {
		return nil, err
	}
	ops, err := c.OperationTypes(ctx)
	if err != nil {
		return nil, err
	}
	results, err := c.Results(ctx)
	if err != nil {
		return nil, err
	}
	statuses, err := c.StatusOperations(ctx)
	if err != nil {
		return nil, err
	}

	out := journal.Clone(trades)
	for i := range out {
		t := &out[i]
		if t.Symbol == nil {
			t.Symbol = find(symbols, func(s journal.Symbol) bool { return s.ID == t.SymbolID })
		}
		if t.OperationType == nil {
			t.OperationType = find(ops, func(o journal.OperationType) bool { return o.ID == t.OperationTypeID })
		}
		if t.Result == nil {
			t.Result = find(results, func(r journal.Result) bool { return r.ID == t.ResultID })
		}
		if t.StatusOperation == nil {
			t.StatusOperation = find(statuses, func(s journal.StatusOperation) bool { return s.ID == t.StatusOperationID })
		}
	}
	return out, nil
}

// Invalidate drops every cached list.
func (c *Catalog) Invalidate() {
	c.cache.Clear()
}

func (c *Catalog) Close() {
	c.cache.Close()
}

func loadList[T any](ctx context.Context, c *Catalog, path string) ([]T, error) {
	if v, ok := c.cache.Get(path); ok {
		if items, ok := v.([]T); ok {
			return items, nil
		}
	}

	var items []T
	if err := c.client.do(ctx, request{method: http.MethodGet, path: path, out: &items}); err != nil {
		return nil, fmt.Errorf("fetch %s: %w", path, err)
	}
	c.cache.SetWithTTL(path, items, int64(len(items))+1, c.ttl)
	return items, nil
}

func find[T any](items []T, match func(T) bool) *T {
	for i := range items {
		if match(items[i]) {
			item := items[i]
			return &item
		}
	}
	return nil
}
