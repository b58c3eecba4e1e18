package journal

import "time"

type Trade struct {
	ID                int64      `json:"id"`
	SymbolID          int64      `json:"symbolId"`
	OperationTypeID   int64      `json:"operationTypeId"`
	ResultID          int64      `json:"resultId"`
	StatusOperationID int64      `json:"statusOperationId"`
	StrategyID        *int64     `json:"strategyId,omitempty"`
	Quantity          float64    `json:"quantity"`
	DateEntry         time.Time  `json:"dateEntry"`
	PriceEntry        float64    `json:"priceEntry"`
	PriceExit         float64    `json:"priceExit"`
	Spread            float64    `json:"spread"`
	CreatedAt         *time.Time `json:"createdAt,omitempty"`
	UpdatedAt         *time.Time `json:"updatedAt,omitempty"`

	// Expanded references, present only when the backend joins them.
	Symbol          *Symbol          `json:"symbol,omitempty"`
	OperationType   *OperationType   `json:"operationType,omitempty"`
	Result          *Result          `json:"result,omitempty"`
	StatusOperation *StatusOperation `json:"statusOperation,omitempty"`
}

// IsProvisional reports whether the trade still carries a client-assigned id.
func (t Trade) IsProvisional() bool {
	return t.ID < 0
}

// Equal compares the persisted fields of two trades. Expanded references
// and bookkeeping timestamps are ignored.
func (t Trade) Equal(o Trade) bool {
	return t.ID == o.ID &&
		t.SymbolID == o.SymbolID &&
		t.OperationTypeID == o.OperationTypeID &&
		t.ResultID == o.ResultID &&
		t.StatusOperationID == o.StatusOperationID &&
		equalOptionalID(t.StrategyID, o.StrategyID) &&
		t.Quantity == o.Quantity &&
		t.DateEntry.Equal(o.DateEntry) &&
		t.PriceEntry == o.PriceEntry &&
		t.PriceExit == o.PriceExit &&
		t.Spread == o.Spread
}

func equalOptionalID(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

type NewTrade struct {
	SymbolID          int64     `json:"symbolId"`
	OperationTypeID   int64     `json:"operationTypeId"`
	ResultID          int64     `json:"resultId"`
	StatusOperationID int64     `json:"statusOperationId"`
	StrategyID        *int64    `json:"strategyId,omitempty"`
	Quantity          float64   `json:"quantity"`
	DateEntry         time.Time `json:"dateEntry"`
	PriceEntry        float64   `json:"priceEntry"`
	PriceExit         float64   `json:"priceExit"`
	Spread            float64   `json:"spread"`
}

// Provisional builds the optimistic record shown while the create is in flight.
func (n NewTrade) Provisional(id int64, now time.Time) Trade {
	created := now
	return Trade{
		ID:                id,
		SymbolID:          n.SymbolID,
		OperationTypeID:   n.OperationTypeID,
		ResultID:          n.ResultID,
		StatusOperationID: n.StatusOperationID,
		StrategyID:        n.StrategyID,
		Quantity:          n.Quantity,
		DateEntry:         n.DateEntry,
		PriceEntry:        n.PriceEntry,
		PriceExit:         n.PriceExit,
		Spread:            n.Spread,
		CreatedAt:         &created,
		UpdatedAt:         &created,
	}
}

// TradePatch is a partial update. Nil fields are left untouched.
type TradePatch struct {
	SymbolID          *int64     `json:"symbolId,omitempty"`
	OperationTypeID   *int64     `json:"operationTypeId,omitempty"`
	ResultID          *int64     `json:"resultId,omitempty"`
	StatusOperationID *int64     `json:"statusOperationId,omitempty"`
	StrategyID        *int64     `json:"strategyId,omitempty"`
	Quantity          *float64   `json:"quantity,omitempty"`
	DateEntry         *time.Time `json:"dateEntry,omitempty"`
	PriceEntry        *float64   `json:"priceEntry,omitempty"`
	PriceExit         *float64   `json:"priceExit,omitempty"`
	Spread            *float64   `json:"spread,omitempty"`
}

func (p TradePatch) IsEmpty() bool {
	return p == TradePatch{}
}

func (p TradePatch) Apply(t Trade) Trade {
	if p.SymbolID != nil {
		t.SymbolID = *p.SymbolID
		t.Symbol = nil
	}
	if p.OperationTypeID != nil {
		t.OperationTypeID = *p.OperationTypeID
		t.OperationType = nil
	}
	if p.ResultID != nil {
		t.ResultID = *p.ResultID
		t.Result = nil
	}
	if p.StatusOperationID != nil {
		t.StatusOperationID = *p.StatusOperationID
		t.StatusOperation = nil
	}
	if p.StrategyID != nil {
		id := *p.StrategyID
		t.StrategyID = &id
	}
	if p.Quantity != nil {
		t.Quantity = *p.Quantity
	}
	if p.DateEntry != nil {
		t.DateEntry = *p.DateEntry
	}
	if p.PriceEntry != nil {
		t.PriceEntry = *p.PriceEntry
	}
	if p.PriceExit != nil {
		t.PriceExit = *p.PriceExit
	}
	if p.Spread != nil {
		t.Spread = *p.Spread
	}
	return t
}

// PatchFrom builds a patch that overwrites every editable field with t's values.
func PatchFrom(t Trade) TradePatch {
	p := TradePatch{
		SymbolID:          &t.SymbolID,
		OperationTypeID:   &t.OperationTypeID,
		ResultID:          &t.ResultID,
		StatusOperationID: &t.StatusOperationID,
		Quantity:          &t.Quantity,
		DateEntry:         &t.DateEntry,
		PriceEntry:        &t.PriceEntry,
		PriceExit:         &t.PriceExit,
		Spread:            &t.Spread,
	}
	if t.StrategyID != nil {
		id := *t.StrategyID
		p.StrategyID = &id
	}
	return p
}

// TradeQuery narrows a trade listing. Zero values are omitted.
type TradeQuery struct {
	Page       int
	Limit      int
	SymbolID   int64
	StrategyID int64
	StartDate  time.Time
	EndDate    time.Time
}

// Clone returns a deep copy of trades so callers cannot alias store state.
// Pointer fields are copied too.
func Clone(trades []Trade) []Trade {
	if trades == nil {
		return nil
	}
	out := make([]Trade, len(trades))
	for i, t := range trades {
		out[i] = t.clone()
	}
	return out
}

func (t Trade) clone() Trade {
	t.StrategyID = clonePtr(t.StrategyID)
	t.CreatedAt = clonePtr(t.CreatedAt)
	t.UpdatedAt = clonePtr(t.UpdatedAt)
	t.Symbol = clonePtr(t.Symbol)
	t.OperationType = clonePtr(t.OperationType)
	t.Result = clonePtr(t.Result)
	t.StatusOperation = clonePtr(t.StatusOperation)
	return t
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func IndexOf(trades []Trade, id int64) int {
	for i, t := range trades {
		if t.ID == id {
			return i
		}
	}
	return -1
}
