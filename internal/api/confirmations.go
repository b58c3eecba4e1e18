package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/camuig/trade-journal/internal/journal"
)

type ConfirmationService struct {
	c *Client
}

func (c *Client) Confirmations() *ConfirmationService {
	return &ConfirmationService{c: c}
}

func (s *ConfirmationService) List(ctx context.Context) ([]journal.Confirmation, error) {
	var out []journal.Confirmation
	if err := s.c.do(ctx, request{method: http.MethodGet, path: "/confirmations", out: &out}); err != nil {
		return nil, fmt.Errorf("fetch confirmations: %w", err)
	}
	return out, nil
}

func (s *ConfirmationService) ListByStrategy(ctx context.Context, strategyID int64) ([]journal.Confirmation, error) {
	var out []journal.Confirmation
	err := s.c.do(ctx, request{
		method:        http.MethodGet,
		path:          idPath("/strategy-confirmation/strategy/%d/confirmations", strategyID),
		out:           &out,
		notFoundEmpty: true,
	})
	if err != nil {
		return nil, fmt.Errorf("fetch confirmations for strategy %d: %w", strategyID, err)
	}
	return out, nil
}

func (s *ConfirmationService) Create(ctx context.Context, in journal.ConfirmationInput) (journal.Confirmation, error) {
	if err := in.Validate(); err != nil {
		return journal.Confirmation{}, err
	}
	var out journal.Confirmation
	if err := s.c.do(ctx, request{method: http.MethodPost, path: "/confirmations", body: in, out: &out}); err != nil {
		return journal.Confirmation{}, fmt.Errorf("create confirmation: %w", err)
	}
	return out, nil
}

func (s *ConfirmationService) Update(ctx context.Context, id int64, in journal.ConfirmationInput) (journal.Confirmation, error) {
	if err := in.Validate(); err != nil {
		return journal.Confirmation{}, err
	}
	var out journal.Confirmation
	err := s.c.do(ctx, request{method: http.MethodPut, path: idPath("/confirmations/%d", id), body: in, out: &out})
	if err != nil {
		return journal.Confirmation{}, fmt.Errorf("update confirmation %d: %w", id, err)
	}
	return out, nil
}

func (s *ConfirmationService) Delete(ctx context.Context, id int64) error {
	if err := s.c.do(ctx, request{method: http.MethodDelete, path: idPath("/confirmations/%d", id)}); err != nil {
		return fmt.Errorf("delete confirmation %d: %w", id, err)
	}
	return nil
}

type strategyLink struct {
	StrategyID     int64 `json:"strategyId"`
	ConfirmationID int64 `json:"confirmationId"`
}

// Attach links a confirmation checklist to a strategy.
func (s *ConfirmationService) Attach(ctx context.Context, strategyID, confirmationID int64) error {
	link := strategyLink{StrategyID: strategyID, ConfirmationID: confirmationID}
	if err := s.c.do(ctx, request{method: http.MethodPost, path: "/strategy-confirmation", body: link}); err != nil {
		return fmt.Errorf("attach confirmation %d to strategy %d: %w", confirmationID, strategyID, err)
	}
	return nil
}

func (s *ConfirmationService) Detach(ctx context.Context, strategyID, confirmationID int64) error {
	link := strategyLink{StrategyID: strategyID, ConfirmationID: confirmationID}
	if err := s.c.do(ctx, request{method: http.MethodDelete, path: "/strategy-confirmation", body: link}); err != nil {
		return fmt.Errorf("detach confirmation %d from strategy %d: %w", confirmationID, strategyID, err)
	}
	return nil
}

type ConditionService struct {
	c *Client
}

func (c *Client) Conditions() *ConditionService {
	return &ConditionService{c: c}
}

func (s *ConditionService) ListByConfirmation(ctx context.Context, confirmationID int64) ([]journal.Condition, error) {
	var out []journal.Condition
	err := s.c.do(ctx, request{
		method:        http.MethodGet,
		path:          idPath("/confirmations/%d/conditions", confirmationID),
		out:           &out,
		notFoundEmpty: true,
	})
	if err != nil {
		return nil, fmt.Errorf("fetch conditions for confirmation %d: %w", confirmationID, err)
	}
	return out, nil
}

func (s *ConditionService) Get(ctx context.Context, id int64) (journal.Condition, error) {
	var out journal.Condition
	if err := s.c.do(ctx, request{method: http.MethodGet, path: idPath("/conditions/%d", id), out: &out}); err != nil {
		return journal.Condition{}, fmt.Errorf("fetch condition %d: %w", id, err)
	}
	return out, nil
}

func (s *ConditionService) Create(ctx context.Context, in journal.ConditionInput) (journal.Condition, error) {
	if err := in.Validate(); err != nil {
		return journal.Condition{}, err
	}
	var out journal.Condition
	if err := s.c.do(ctx, request{method: http.MethodPost, path: "/condition", body: in, out: &out}); err != nil {
		return journal.Condition{}, fmt.Errorf("create condition: %w", err)
	}
	return out, nil
}

func (s *ConditionService) Update(ctx context.Context, id int64, in journal.ConditionInput) (journal.Condition, error) {
	if err := in.Validate(); err != nil {
		return journal.Condition{}, err
	}
	var out journal.Condition
	err := s.c.do(ctx, request{method: http.MethodPut, path: idPath("/condition/%d", id), body: in, out: &out})
	if err != nil {
		return journal.Condition{}, fmt.Errorf("update condition %d: %w", id, err)
	}
	return out, nil
}

func (s *ConditionService) Delete(ctx context.Context, id int64) error {
	if err := s.c.do(ctx, request{method: http.MethodDelete, path: idPath("/condition/%d", id)}); err != nil {
		return fmt.Errorf("delete condition %d: %w", id, err)
	}
	return nil
}
