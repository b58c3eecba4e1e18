package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/camuig/trade-journal/internal/journal"
	"github.com/camuig/trade-journal/internal/store"
)

func queryFlags(fs *flag.FlagSet) func() (journal.TradeQuery, error) {
	symbol := fs.Int64("symbol", 0, "filter by symbol id")
	strategy := fs.Int64("strategy", 0, "filter by strategy id")
	from := fs.String("from", "", "start date (YYYY-MM-DD)")
	to := fs.String("to", "", "end date (YYYY-MM-DD)")
	limit := fs.Int("limit", 0, "max trades (1-100)")
	return func() (journal.TradeQuery, error) {
		q := journal.TradeQuery{SymbolID: *symbol, StrategyID: *strategy, Limit: *limit}
		var err error
		if q.StartDate, err = parseDate(*from); err != nil {
			return q, err
		}
		if q.EndDate, err = parseDate(*to); err != nil {
			return q, err
		}
		return q, nil
	}
}

func (a *app) load(ctx context.Context, q journal.TradeQuery) ([]journal.Trade, error) {
	a.trades.SetQuery(q)
	if err := a.trades.Refresh(ctx); err != nil {
		return nil, err
	}
	return a.trades.Trades(), nil
}

func (a *app) list(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	query := queryFlags(fs)
	if err := fs.Parse(args); err != nil {
		return usageError(err.Error())
	}
	q, err := query()
	if err != nil {
		return usageError(err.Error())
	}

	trades, err := a.load(ctx, q)
	if err != nil {
		return err
	}
	if len(trades) == 0 {
		fmt.Println("No trades.")
		return nil
	}

	// the side and net P&L need the operation types, so a catalog failure is fatal here
	trades, err = a.catalog.Expand(ctx, trades)
	if err != nil {
		return err
	}
	sells, err := a.catalog.SellTypes(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("%-6s %-11s %-10s %-5s %8s %10s %10s %8s %10s\n",
		"ID", "DATE", "SYMBOL", "SIDE", "QTY", "ENTRY", "EXIT", "SPREAD", "NET")
	for _, t := range trades {
		fmt.Printf("%-6d %-11s %-10s %-5s %8g %10g %10g %8g %10s\n",
			t.ID, t.DateEntry.Format(time.DateOnly), symbolLabel(t), sideLabel(t, sells),
			t.Quantity, t.PriceEntry, t.PriceExit, t.Spread, t.NetPnL(sells).StringFixed(2))
	}
	return nil
}

type tradeFlags struct {
	symbol, op, result, status, strategy *int64
	qty, entry, exit, spread             *float64
	date                                 *string
}

func newTradeFlags(fs *flag.FlagSet) tradeFlags {
	return tradeFlags{
		symbol:   fs.Int64("symbol", 0, "symbol id"),
		op:       fs.Int64("op", 0, "operation type id"),
		result:   fs.Int64("result", 0, "result id"),
		status:   fs.Int64("status", 0, "status id"),
		strategy: fs.Int64("strategy", 0, "strategy id"),
		qty:      fs.Float64("qty", 0, "quantity"),
		entry:    fs.Float64("entry", 0, "entry price"),
		exit:     fs.Float64("exit", 0, "exit price"),
		spread:   fs.Float64("spread", 0, "spread or commission"),
		date:     fs.String("date", "", "entry date (YYYY-MM-DD or RFC3339, default now)"),
	}
}

func (a *app) add(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	f := newTradeFlags(fs)
	if err := fs.Parse(args); err != nil {
		return usageError(err.Error())
	}

	date := time.Now().UTC()
	if *f.date != "" {
		d, err := parseDate(*f.date)
		if err != nil {
			return usageError(err.Error())
		}
		date = d
	}

	in := journal.NewTrade{
		SymbolID:          *f.symbol,
		OperationTypeID:   *f.op,
		ResultID:          *f.result,
		StatusOperationID: *f.status,
		Quantity:          *f.qty,
		DateEntry:         date,
		PriceEntry:        *f.entry,
		PriceExit:         *f.exit,
		Spread:            *f.spread,
	}
	if *f.strategy != 0 {
		in.StrategyID = f.strategy
	}

	created, err := a.trades.Create(ctx, in)
	if err != nil {
		return err
	}
	fmt.Printf("[OK] trade %d recorded\n", created.ID)
	return nil
}

func (a *app) edit(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("edit", flag.ContinueOnError)
	id := fs.Int64("id", 0, "trade id")
	f := newTradeFlags(fs)
	if err := fs.Parse(args); err != nil {
		return usageError(err.Error())
	}
	if *id <= 0 {
		return usageError("edit: -id is required")
	}

	var patch journal.TradePatch
	var dateErr error
	fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "symbol":
			patch.SymbolID = f.symbol
		case "op":
			patch.OperationTypeID = f.op
		case "result":
			patch.ResultID = f.result
		case "status":
			patch.StatusOperationID = f.status
		case "strategy":
			patch.StrategyID = f.strategy
		case "qty":
			patch.Quantity = f.qty
		case "entry":
			patch.PriceEntry = f.entry
		case "exit":
			patch.PriceExit = f.exit
		case "spread":
			patch.Spread = f.spread
		case "date":
			d, err := parseDate(*f.date)
			dateErr = err
			patch.DateEntry = &d
		}
	})
	if dateErr != nil {
		return usageError(dateErr.Error())
	}
	if patch.IsEmpty() {
		return usageError("edit: nothing to change")
	}

	if _, err := a.load(ctx, journal.TradeQuery{}); err != nil {
		return err
	}
	updated, err := a.trades.Update(ctx, *id, patch)
	if err != nil {
		return err
	}
	fmt.Printf("[OK] trade %d updated\n", updated.ID)
	return nil
}

func (a *app) remove(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("rm", flag.ContinueOnError)
	id := fs.Int64("id", 0, "trade id")
	if err := fs.Parse(args); err != nil {
		return usageError(err.Error())
	}
	if *id <= 0 {
		return usageError("rm: -id is required")
	}

	if _, err := a.load(ctx, journal.TradeQuery{}); err != nil {
		return err
	}
	if err := a.trades.Delete(ctx, *id); err != nil {
		return err
	}
	fmt.Printf("[OK] trade %d deleted\n", *id)
	return nil
}

func (a *app) summary(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("summary", flag.ContinueOnError)
	query := queryFlags(fs)
	if err := fs.Parse(args); err != nil {
		return usageError(err.Error())
	}
	q, err := query()
	if err != nil {
		return usageError(err.Error())
	}

	trades, err := a.load(ctx, q)
	if err != nil {
		return err
	}
	sells, err := a.catalog.SellTypes(ctx)
	if err != nil {
		return err
	}
	s := journal.Summarize(trades, sells)

	fmt.Printf("Trades:     %d (%d won, %d lost, %d even)\n", s.Count, s.Wins, s.Losses, s.BreakEven)
	fmt.Printf("Win rate:   %s%%\n", s.WinRate.StringFixed(2))
	fmt.Printf("Gross P&L:  %s\n", s.GrossPnL.StringFixed(2))
	fmt.Printf("Spread:     %s\n", s.TotalSpread.StringFixed(2))
	fmt.Printf("Net P&L:    %s\n", s.NetPnL.StringFixed(2))
	return nil
}

func (a *app) strategies(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("strategies", flag.ContinueOnError)
	strategyID := fs.Int64("strategy", 0, "strategy id for -attach/-detach")
	attach := fs.Int64("attach", 0, "confirmation id to link to the strategy")
	detach := fs.Int64("detach", 0, "confirmation id to unlink from the strategy")
	if err := fs.Parse(args); err != nil {
		return usageError(err.Error())
	}
	if (*attach != 0 || *detach != 0) && *strategyID <= 0 {
		return usageError("strategies: -strategy is required with -attach or -detach")
	}

	links := a.client.Confirmations()
	if *attach != 0 {
		if err := links.Attach(ctx, *strategyID, *attach); err != nil {
			return err
		}
		fmt.Printf("[OK] confirmation %d attached to strategy %d\n", *attach, *strategyID)
	}
	if *detach != 0 {
		if err := links.Detach(ctx, *strategyID, *detach); err != nil {
			return err
		}
		fmt.Printf("[OK] confirmation %d detached from strategy %d\n", *detach, *strategyID)
	}

	strategies := store.NewStrategyStore(a.client.Strategies(), a.log)
	confirmations := store.NewConfirmationStore(links, a.log)
	conditions := store.NewConditionStore(a.client.Conditions(), a.log)

	if err := strategies.Refresh(ctx); err != nil {
		return err
	}
	items := strategies.Items()
	if len(items) == 0 {
		fmt.Println("No strategies.")
		return nil
	}

	var failed int
	for _, s := range items {
		fmt.Printf("%d  %s\n", s.ID, s.Name)
		if err := confirmations.RefreshByStrategy(ctx, s.ID); err != nil {
			fmt.Fprintf(os.Stderr, "  [FAIL] confirmations: %v\n", err)
			failed++
			continue
		}
		_, scoped := confirmations.ByStrategy()
		for _, c := range scoped {
			fmt.Printf("    %d  %s\n", c.ID, c.Name)
			if err := conditions.RefreshFor(ctx, c.ID); err != nil {
				fmt.Fprintf(os.Stderr, "      [FAIL] conditions: %v\n", err)
				failed++
				continue
			}
			names := make([]string, 0)
			for _, cond := range conditions.For(c.ID) {
				names = append(names, cond.Name)
			}
			if len(names) > 0 {
				fmt.Printf("        conditions: %s\n", strings.Join(names, ", "))
			}
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d lookups failed", failed)
	}
	return nil
}

func (a *app) notes(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("notes", flag.ContinueOnError)
	id := fs.Int64("id", 0, "trade id")
	text := fs.String("set", "", "replace the notes")
	before := fs.String("before", "", "chart image URL before the trade")
	after := fs.String("after", "", "chart image URL after the trade")
	if err := fs.Parse(args); err != nil {
		return usageError(err.Error())
	}
	if *id <= 0 {
		return usageError("notes: -id is required")
	}

	details := a.client.TradeDetails()
	current, err := details.ForTrade(ctx, *id)
	if err != nil {
		return err
	}

	changed := false
	in := journal.NewTradeDetail{TradeID: *id}
	if current != nil {
		in = current.Input()
	}
	fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "set":
			in.Notes, changed = *text, true
		case "before":
			in.ImageURLBefore, changed = *before, true
		case "after":
			in.ImageURLAfter, changed = *after, true
		}
	})

	if !changed {
		if current == nil {
			fmt.Printf("Trade %d has no notes.\n", *id)
			return nil
		}
		printDetail(*current)
		return nil
	}

	var saved journal.TradeDetail
	if current == nil {
		saved, err = details.Create(ctx, in)
	} else {
		saved, err = details.Update(ctx, current.ID, in)
	}
	if err != nil {
		return err
	}
	fmt.Printf("[OK] notes for trade %d saved\n", *id)
	printDetail(saved)
	return nil
}

func printDetail(d journal.TradeDetail) {
	fmt.Println(d.Notes)
	if d.ImageURLBefore != "" {
		fmt.Printf("before: %s\n", d.ImageURLBefore)
	}
	if d.ImageURLAfter != "" {
		fmt.Printf("after:  %s\n", d.ImageURLAfter)
	}
}

func (a *app) printCatalog(ctx context.Context) error {
	symbols, err := a.catalog.Symbols(ctx)
	if err != nil {
		return err
	}
	ops, err := a.catalog.OperationTypes(ctx)
	if err != nil {
		return err
	}
	results, err := a.catalog.Results(ctx)
	if err != nil {
		return err
	}
	statuses, err := a.catalog.StatusOperations(ctx)
	if err != nil {
		return err
	}

	fmt.Println("Symbols:")
	for _, s := range symbols {
		fmt.Printf("  %d  %s  %s\n", s.ID, s.CodeSymbol, s.Label)
	}
	fmt.Println("Operation types:")
	for _, o := range ops {
		fmt.Printf("  %d  %s  %s\n", o.ID, o.Operation, o.Label)
	}
	fmt.Println("Results:")
	for _, r := range results {
		fmt.Printf("  %d  %s  %s\n", r.ID, r.Result, r.Label)
	}
	fmt.Println("Statuses:")
	for _, s := range statuses {
		fmt.Printf("  %d  %s  %s\n", s.ID, s.Status, s.Label)
	}
	return nil
}

// parseDate accepts a calendar date or a full RFC3339 timestamp. Empty is the zero time.
func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", s)
	}
	return t, nil
}

func symbolLabel(t journal.Trade) string {
	if t.Symbol != nil {
		return t.Symbol.CodeSymbol
	}
	return fmt.Sprintf("#%d", t.SymbolID)
}

func sideLabel(t journal.Trade, sells journal.SellTypes) string {
	if sells.IsSell(t) {
		return "SELL"
	}
	return "BUY"
}
