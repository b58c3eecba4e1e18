package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/camuig/trade-journal/internal/journal"
)

type TradeDetailService struct {
	c *Client
}

func (c *Client) TradeDetails() *TradeDetailService {
	return &TradeDetailService{c: c}
}

// ForTrade returns the detail attached to a trade, or nil when it has none.
func (s *TradeDetailService) ForTrade(ctx context.Context, tradeID int64) (*journal.TradeDetail, error) {
	var raw json.RawMessage
	err := s.c.do(ctx, request{
		method:        http.MethodGet,
		path:          idPath("/trade-details/trade/%d", tradeID),
		out:           &raw,
		notFoundEmpty: true,
	})
	if err != nil {
		return nil, fmt.Errorf("fetch trade details for trade %d: %w", tradeID, err)
	}

	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}
	// some backend versions wrap the detail in a list
	if raw[0] == '[' {
		var list []journal.TradeDetail
		if err := json.Unmarshal(raw, &list); err != nil {
			return nil, fmt.Errorf("parse trade details: %w", err)
		}
		if len(list) == 0 {
			return nil, nil
		}
		return &list[0], nil
	}
	var d journal.TradeDetail
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("parse trade details: %w", err)
	}
	return &d, nil
}

func (s *TradeDetailService) Create(ctx context.Context, in journal.NewTradeDetail) (journal.TradeDetail, error) {
	if err := in.Validate(); err != nil {
		return journal.TradeDetail{}, err
	}
	var out journal.TradeDetail
	if err := s.c.do(ctx, request{method: http.MethodPost, path: "/trade-details", body: in, out: &out}); err != nil {
		return journal.TradeDetail{}, fmt.Errorf("create trade detail: %w", err)
	}
	return out, nil
}

func (s *TradeDetailService) Update(ctx context.Context, id int64, in journal.NewTradeDetail) (journal.TradeDetail, error) {
	if err := in.Validate(); err != nil {
		return journal.TradeDetail{}, err
	}
	var out journal.TradeDetail
	err := s.c.do(ctx, request{method: http.MethodPatch, path: idPath("/trade-details/%d", id), body: in, out: &out})
	if err != nil {
		return journal.TradeDetail{}, fmt.Errorf("update trade detail %d: %w", id, err)
	}
	return out, nil
}
