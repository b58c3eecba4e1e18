package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/camuig/trade-journal/internal/journal"
)

type StrategyService struct {
	c *Client
}

func (c *Client) Strategies() *StrategyService {
	return &StrategyService{c: c}
}

func (s *StrategyService) List(ctx context.Context) ([]journal.Strategy, error) {
	var out []journal.Strategy
	if err := s.c.do(ctx, request{method: http.MethodGet, path: "/strategies", out: &out}); err != nil {
		return nil, fmt.Errorf("fetch strategies: %w", err)
	}
	return out, nil
}

func (s *StrategyService) Create(ctx context.Context, in journal.StrategyInput) (journal.Strategy, error) {
	if err := in.Validate(); err != nil {
		return journal.Strategy{}, err
	}
	var out journal.Strategy
	if err := s.c.do(ctx, request{method: http.MethodPost, path: "/strategies", body: in, out: &out}); err != nil {
		return journal.Strategy{}, fmt.Errorf("create strategy: %w", err)
	}
	return out, nil
}

func (s *StrategyService) Update(ctx context.Context, id int64, in journal.StrategyInput) (journal.Strategy, error) {
	if err := in.Validate(); err != nil {
		return journal.Strategy{}, err
	}
	var out journal.Strategy
	err := s.c.do(ctx, request{method: http.MethodPut, path: idPath("/strategies/%d", id), body: in, out: &out})
	if err != nil {
		return journal.Strategy{}, fmt.Errorf("update strategy %d: %w", id, err)
	}
	return out, nil
}

func (s *StrategyService) Delete(ctx context.Context, id int64) error {
	if err := s.c.do(ctx, request{method: http.MethodDelete, path: idPath("/strategies/%d", id)}); err != nil {
		return fmt.Errorf("delete strategy %d: %w", id, err)
	}
	return nil
}
