package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/camuig/trade-journal/internal/journal"
)

const maxPageSize = 100

func (c *Client) ListTrades(ctx context.Context, q journal.TradeQuery) ([]journal.Trade, error) {
	var trades []journal.Trade
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   "/trades",
		query:  tradeQueryValues(q),
		out:    &trades,
	})
	if err != nil {
		return nil, fmt.Errorf("fetch trades: %w", err)
	}
	if trades == nil {
		trades = []journal.Trade{}
	}
	return trades, nil
}

func (c *Client) CreateTrade(ctx context.Context, in journal.NewTrade) (journal.Trade, error) {
	if err := in.Validate(); err != nil {
		return journal.Trade{}, err
	}

	var created journal.Trade
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/trades",
		body:   in,
		out:    &created,
	})
	if err != nil {
		return journal.Trade{}, fmt.Errorf("create trade: %w", err)
	}
	return created, nil
}

func (c *Client) UpdateTrade(ctx context.Context, id int64, patch journal.TradePatch) (journal.Trade, error) {
	if err := patch.Validate(); err != nil {
		return journal.Trade{}, err
	}

	var updated journal.Trade
	err := c.do(ctx, request{
		method: http.MethodPut,
		path:   idPath("/trades/%d", id),
		body:   patch,
		out:    &updated,
	})
	if err != nil {
		return journal.Trade{}, fmt.Errorf("update trade %d: %w", id, err)
	}
	return updated, nil
}

func (c *Client) DeleteTrade(ctx context.Context, id int64) error {
	err := c.do(ctx, request{
		method: http.MethodDelete,
		path:   idPath("/trades/%d", id),
	})
	if err != nil {
		return fmt.Errorf("delete trade %d: %w", id, err)
	}
	return nil
}

func tradeQueryValues(q journal.TradeQuery) url.Values {
	v := url.Values{}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		limit := q.Limit
		if limit > maxPageSize {
			limit = maxPageSize
		}
		v.Set("limit", strconv.Itoa(limit))
	}
	if q.SymbolID > 0 {
		v.Set("symbolId", strconv.FormatInt(q.SymbolID, 10))
	}
	if q.StrategyID > 0 {
		v.Set("strategyId", strconv.FormatInt(q.StrategyID, 10))
	}
	if !q.StartDate.IsZero() {
		v.Set("startDate", q.StartDate.UTC().Format(time.RFC3339))
	}
	if !q.EndDate.IsZero() {
		v.Set("endDate", q.EndDate.UTC().Format(time.RFC3339))
	}
	return v
}
