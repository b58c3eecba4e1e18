package journal

import "github.com/shopspring/decimal"

type Summary struct {
	Count       int             `json:"count"`
	Wins        int             `json:"wins"`
	Losses      int             `json:"losses"`
	BreakEven   int             `json:"breakEven"`
	GrossPnL    decimal.Decimal `json:"grossPnl"`
	TotalSpread decimal.Decimal `json:"totalSpread"`
	NetPnL      decimal.Decimal `json:"netPnl"`
	WinRate     decimal.Decimal `json:"winRate"` // percent, two decimals
}

// SellTypes holds the ids of operation types that open a short position.
// The backend does not always join the operation type into a trade, so the
// trade side is resolved by id.
type SellTypes map[int64]bool

func SellTypesOf(ops []OperationType) SellTypes {
	sells := make(SellTypes, len(ops))
	for i := range ops {
		if ops[i].IsSell() {
			sells[ops[i].ID] = true
		}
	}
	return sells
}

// IsSell prefers the joined operation type and falls back to the id lookup.
func (s SellTypes) IsSell(t Trade) bool {
	if t.OperationType != nil {
		return t.OperationType.IsSell()
	}
	return s[t.OperationTypeID]
}

// GrossPnL is the price move times quantity, signed by trade direction.
func (t Trade) GrossPnL(sells SellTypes) decimal.Decimal {
	move := decimal.NewFromFloat(t.PriceExit).Sub(decimal.NewFromFloat(t.PriceEntry))
	if sells.IsSell(t) {
		move = move.Neg()
	}
	return move.Mul(decimal.NewFromFloat(t.Quantity))
}

func (t Trade) NetPnL(sells SellTypes) decimal.Decimal {
	return t.GrossPnL(sells).Sub(decimal.NewFromFloat(t.Spread))
}

// Summarize aggregates closed-trade results. Provisional trades are skipped.
func Summarize(trades []Trade, sells SellTypes) Summary {
	s := Summary{
		GrossPnL:    decimal.Zero,
		TotalSpread: decimal.Zero,
		NetPnL:      decimal.Zero,
		WinRate:     decimal.Zero,
	}
	for _, t := range trades {
		if t.IsProvisional() {
			continue
		}
		s.Count++
		gross := t.GrossPnL(sells)
		net := gross.Sub(decimal.NewFromFloat(t.Spread))
		s.GrossPnL = s.GrossPnL.Add(gross)
		s.TotalSpread = s.TotalSpread.Add(decimal.NewFromFloat(t.Spread))
		s.NetPnL = s.NetPnL.Add(net)
		switch net.Sign() {
		case 1:
			s.Wins++
		case -1:
			s.Losses++
		default:
			s.BreakEven++
		}
	}
	if s.Count > 0 {
		s.WinRate = decimal.NewFromInt(int64(s.Wins)).
			Mul(decimal.NewFromInt(100)).
			Div(decimal.NewFromInt(int64(s.Count))).
			Round(2)
	}
	return s
}
