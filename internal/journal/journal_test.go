package journal

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validNewTrade() NewTrade {
	return NewTrade{
		SymbolID:          1,
		OperationTypeID:   1,
		ResultID:          1,
		StatusOperationID: 1,
		Quantity:          2,
		DateEntry:         time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC),
		PriceEntry:        1.10,
		PriceExit:         1.12,
	}
}

func TestNewTradeValidate(t *testing.T) {
	negative := int64(-1)
	tests := []struct {
		name   string
		mutate func(*NewTrade)
		fields []string
	}{
		{name: "valid", mutate: func(*NewTrade) {}},
		{name: "missing references", mutate: func(n *NewTrade) {
			n.SymbolID = 0
			n.ResultID = 0
		}, fields: []string{"symbolId", "resultId"}},
		{name: "zero quantity", mutate: func(n *NewTrade) { n.Quantity = 0 }, fields: []string{"quantity"}},
		{name: "missing date", mutate: func(n *NewTrade) { n.DateEntry = time.Time{} }, fields: []string{"dateEntry"}},
		{name: "negative spread", mutate: func(n *NewTrade) { n.Spread = -0.5 }, fields: []string{"spread"}},
		{name: "bad strategy", mutate: func(n *NewTrade) { n.StrategyID = &negative }, fields: []string{"strategyId"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validNewTrade()
			tt.mutate(&in)

			err := in.Validate()
			if len(tt.fields) == 0 {
				assert.NoError(t, err)
				return
			}

			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			var got []string
			for _, f := range vErr.Fields {
				got = append(got, f.Field)
			}
			assert.Equal(t, tt.fields, got)
		})
	}
}

func TestValidationErrorMessage(t *testing.T) {
	err := &ValidationError{Fields: []FieldError{
		{Field: "quantity", Message: "must be a positive number"},
		{Field: "spread", Message: "must be non-negative"},
	}}
	assert.Equal(t, "validation failed: quantity: must be a positive number, spread: must be non-negative", err.Error())
}

func TestTradePatch(t *testing.T) {
	qty := 5.0
	strategy := int64(3)
	trade := Trade{ID: 42, SymbolID: 1, Quantity: 1, PriceEntry: 1.0, Symbol: &Symbol{ID: 1}}

	patched := TradePatch{Quantity: &qty, StrategyID: &strategy}.Apply(trade)

	assert.Equal(t, 5.0, patched.Quantity)
	assert.Equal(t, int64(3), *patched.StrategyID)
	assert.Equal(t, 1.0, patched.PriceEntry)
	assert.NotNil(t, patched.Symbol)
	assert.Equal(t, 1.0, trade.Quantity, "original trade must not change")

	symbol := int64(9)
	patched = TradePatch{SymbolID: &symbol}.Apply(trade)
	assert.Nil(t, patched.Symbol, "stale expansion is dropped")

	assert.True(t, TradePatch{}.IsEmpty())
	assert.Error(t, TradePatch{Quantity: new(float64)}.Validate())
}

func TestPatchFromRoundTrips(t *testing.T) {
	strategy := int64(4)
	trade := Trade{
		ID: 7, SymbolID: 1, OperationTypeID: 2, ResultID: 3, StatusOperationID: 4,
		StrategyID: &strategy, Quantity: 2, DateEntry: time.Now().UTC(),
		PriceEntry: 1.1, PriceExit: 1.2, Spread: 0.01,
	}

	rebuilt := PatchFrom(trade).Apply(Trade{ID: 7})

	assert.True(t, trade.Equal(rebuilt))
	assert.NoError(t, PatchFrom(trade).Validate())
}

func TestTradeEqual(t *testing.T) {
	a := Trade{ID: 1, Quantity: 2, DateEntry: time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)}
	b := a
	b.DateEntry = a.DateEntry.In(time.FixedZone("CET", 3600))
	b.Symbol = &Symbol{ID: 1}

	assert.True(t, a.Equal(b))

	s1, s2 := int64(1), int64(1)
	a.StrategyID, b.StrategyID = &s1, &s2
	assert.True(t, a.Equal(b))

	b.StrategyID = nil
	assert.False(t, a.Equal(b))

	b = a
	b.PriceExit = 9
	assert.False(t, a.Equal(b))
}

func TestTradeJSON(t *testing.T) {
	data := []byte(`{"id":1,"symbolId":2,"operationTypeId":3,"resultId":4,"statusOperationId":5,
		"quantity":2,"dateEntry":"2025-03-14T09:30:00.000Z","priceEntry":1.1,"priceExit":1.12,"spread":0.5}`)

	var trade Trade
	require.NoError(t, json.Unmarshal(data, &trade))

	assert.Equal(t, int64(5), trade.StatusOperationID)
	assert.Nil(t, trade.StrategyID)
	assert.Equal(t, time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC), trade.DateEntry.UTC())
}

func TestSummarize(t *testing.T) {
	sell := &OperationType{ID: 2, Operation: "SELL"}
	trades := []Trade{
		{ID: 1, Quantity: 2, PriceEntry: 1.10, PriceExit: 1.20, Spread: 0.02},
		{ID: 2, Quantity: 1, PriceEntry: 1.50, PriceExit: 1.40, OperationType: sell},
		{ID: 3, Quantity: 3, PriceEntry: 2.00, PriceExit: 1.90},
		{ID: 4, Quantity: 1, PriceEntry: 1.00, PriceExit: 1.00},
		{ID: -17, Quantity: 100, PriceEntry: 1, PriceExit: 50},
	}

	s := Summarize(trades, nil)

	assert.Equal(t, 4, s.Count)
	assert.Equal(t, 2, s.Wins)
	assert.Equal(t, 1, s.Losses)
	assert.Equal(t, 1, s.BreakEven)
	assert.True(t, s.GrossPnL.Equal(decimal.RequireFromString("0")), s.GrossPnL.String())
	assert.True(t, s.TotalSpread.Equal(decimal.RequireFromString("0.02")))
	assert.True(t, s.NetPnL.Equal(decimal.RequireFromString("-0.02")), s.NetPnL.String())
	assert.True(t, s.WinRate.Equal(decimal.NewFromInt(50)))
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil, nil)
	assert.Zero(t, s.Count)
	assert.True(t, s.WinRate.IsZero())
	assert.True(t, s.NetPnL.IsZero())
}

func TestSummarize_SellResolvedByOperationTypeID(t *testing.T) {
	sells := SellTypesOf([]OperationType{
		{ID: 1, Operation: "BUY"},
		{ID: 2, Operation: "SELL"},
	})
	// the backend sent only the id, no joined operation type
	short := Trade{ID: 1, OperationTypeID: 2, Quantity: 1, PriceEntry: 100, PriceExit: 110}

	assert.True(t, short.NetPnL(sells).Equal(decimal.NewFromInt(-10)))

	s := Summarize([]Trade{short}, sells)
	assert.Equal(t, 0, s.Wins)
	assert.Equal(t, 1, s.Losses)
	assert.True(t, s.NetPnL.Equal(decimal.NewFromInt(-10)), s.NetPnL.String())
}

func TestSellTypes_JoinedTypeWins(t *testing.T) {
	sells := SellTypes{2: true}

	assert.False(t, sells.IsSell(Trade{OperationTypeID: 2, OperationType: &OperationType{ID: 2, Operation: "BUY"}}))
	assert.True(t, sells.IsSell(Trade{OperationTypeID: 2}))
	assert.False(t, SellTypes(nil).IsSell(Trade{OperationTypeID: 2}))
}

func TestCloneCopiesPointerFields(t *testing.T) {
	strategy := int64(3)
	original := []Trade{{ID: 1, StrategyID: &strategy, Symbol: &Symbol{ID: 1, CodeSymbol: "EURUSD"}}}

	copied := Clone(original)
	*copied[0].StrategyID = 9
	copied[0].Symbol.CodeSymbol = "GBPUSD"

	assert.Equal(t, int64(3), *original[0].StrategyID)
	assert.Equal(t, "EURUSD", original[0].Symbol.CodeSymbol)
	assert.Nil(t, Clone(nil))
	assert.Nil(t, Clone([]Trade{{ID: 2}})[0].CreatedAt)
}
