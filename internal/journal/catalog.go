package journal

import "time"

type Symbol struct {
	ID         int64     `json:"id"`
	CodeSymbol string    `json:"codeSymbol"`
	Label      string    `json:"label"`
	CreatedAt  time.Time `json:"createdAt"`
}

type OperationType struct {
	ID        int64     `json:"id"`
	Label     string    `json:"label"`
	Operation string    `json:"operation"`
	CreatedAt time.Time `json:"createdAt"`
}

// IsSell reports whether the operation opens a short position.
func (o *OperationType) IsSell() bool {
	if o == nil {
		return false
	}
	switch o.Operation {
	case "SELL", "Sell", "sell", "SHORT", "Short", "short":
		return true
	}
	return false
}

type Result struct {
	ID        int64     `json:"id"`
	Label     string    `json:"label"`
	Result    string    `json:"result"`
	CreatedAt time.Time `json:"createdAt"`
}

type StatusOperation struct {
	ID        int64     `json:"id"`
	Label     string    `json:"label"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

type Strategy struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
}

type StrategyInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type Confirmation struct {
	ID          int64       `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Status      string      `json:"status"`
	CreatedAt   time.Time   `json:"createdAt"`
	Conditions  []Condition `json:"conditions,omitempty"`
	StrategyID  *int64      `json:"strategyId,omitempty"`
}

type ConfirmationInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Status      string `json:"status,omitempty"`
	StrategyID  *int64 `json:"strategyId,omitempty"`
}

// Condition is one checklist item of a confirmation.
type Condition struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	Description    string `json:"description"`
	Status         string `json:"status,omitempty"`
	ConfirmationID int64  `json:"confirmationId"`
}

type ConditionInput struct {
	Name           string `json:"name"`
	Description    string `json:"description"`
	Status         string `json:"status,omitempty"`
	ConfirmationID int64  `json:"confirmationId"`
}
