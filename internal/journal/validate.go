package journal

import (
	"fmt"
	"strings"
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError is returned before any request leaves the client, and is
// also how the backend reports rejected fields.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

type fieldChecker struct {
	fields []FieldError
}

func (c *fieldChecker) add(field, msg string) {
	c.fields = append(c.fields, FieldError{Field: field, Message: msg})
}

func (c *fieldChecker) positiveID(field string, v int64) {
	if v <= 0 {
		c.add(field, "must be a positive integer")
	}
}

func (c *fieldChecker) err() error {
	if len(c.fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: c.fields}
}

func (n NewTrade) Validate() error {
	var c fieldChecker
	c.positiveID("symbolId", n.SymbolID)
	c.positiveID("operationTypeId", n.OperationTypeID)
	c.positiveID("resultId", n.ResultID)
	c.positiveID("statusOperationId", n.StatusOperationID)
	if n.StrategyID != nil {
		c.positiveID("strategyId", *n.StrategyID)
	}
	if n.Quantity <= 0 {
		c.add("quantity", "must be a positive number")
	}
	if n.DateEntry.IsZero() {
		c.add("dateEntry", "invalid date format")
	}
	if n.PriceEntry <= 0 {
		c.add("priceEntry", "must be a positive number")
	}
	if n.Spread < 0 {
		c.add("spread", "must be non-negative")
	}
	return c.err()
}

func (p TradePatch) Validate() error {
	var c fieldChecker
	if p.SymbolID != nil {
		c.positiveID("symbolId", *p.SymbolID)
	}
	if p.OperationTypeID != nil {
		c.positiveID("operationTypeId", *p.OperationTypeID)
	}
	if p.ResultID != nil {
		c.positiveID("resultId", *p.ResultID)
	}
	if p.StatusOperationID != nil {
		c.positiveID("statusOperationId", *p.StatusOperationID)
	}
	if p.StrategyID != nil {
		c.positiveID("strategyId", *p.StrategyID)
	}
	if p.Quantity != nil && *p.Quantity <= 0 {
		c.add("quantity", "must be a positive number")
	}
	if p.DateEntry != nil && p.DateEntry.IsZero() {
		c.add("dateEntry", "invalid date format")
	}
	if p.PriceEntry != nil && *p.PriceEntry <= 0 {
		c.add("priceEntry", "must be a positive number")
	}
	if p.Spread != nil && *p.Spread < 0 {
		c.add("spread", "must be non-negative")
	}
	return c.err()
}

func (in StrategyInput) Validate() error {
	var c fieldChecker
	if strings.TrimSpace(in.Name) == "" {
		c.add("name", "is required")
	}
	return c.err()
}

func (in ConfirmationInput) Validate() error {
	var c fieldChecker
	if strings.TrimSpace(in.Name) == "" {
		c.add("name", "is required")
	}
	if in.StrategyID != nil {
		c.positiveID("strategyId", *in.StrategyID)
	}
	return c.err()
}

func (in ConditionInput) Validate() error {
	var c fieldChecker
	if strings.TrimSpace(in.Name) == "" {
		c.add("name", "is required")
	}
	if in.ConfirmationID <= 0 {
		c.add("confirmationId", fmt.Sprintf("missing confirmation id (got %d)", in.ConfirmationID))
	}
	return c.err()
}
