package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/camuig/trade-journal/internal/api"
	"github.com/camuig/trade-journal/internal/config"
	"github.com/camuig/trade-journal/internal/logger"
	"github.com/camuig/trade-journal/internal/store"
)

const usage = `usage: journal [-config path] <command> [flags]

commands:
  list        list trades
  add         record a new trade
  edit        change fields of a trade
  rm          delete a trade
  summary     win rate and P&L of the listed trades
  notes       show or edit the notes and chart images of a trade
  strategies  list strategies, confirmations and conditions
  catalog     list symbols, operation types, results and statuses
`

type app struct {
	client  *api.Client
	catalog *api.Catalog
	trades  *store.TradeStore
	log     *logger.Logger
}

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewWithWriter(os.Stderr, cfg.Logging.Level)

	client := api.NewClient(cfg, log)
	catalog, err := api.NewCatalog(client, cfg.CatalogTTL())
	if err != nil {
		fmt.Fprintf(os.Stderr, "catalog init error: %v\n", err)
		os.Exit(1)
	}
	defer catalog.Close()

	a := &app{
		client:  client,
		catalog: catalog,
		trades:  store.NewTradeStore(client, cfg.FreshnessWindow(), log),
		log:     log,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := a.run(ctx, flag.Arg(0), flag.Args()[1:]); err != nil {
		var usageErr usageError
		if errors.As(err, &usageErr) {
			fmt.Fprintln(os.Stderr, err)
			flag.Usage()
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

type usageError string

func (e usageError) Error() string {
	return string(e)
}

func (a *app) run(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "list":
		return a.list(ctx, args)
	case "add":
		return a.add(ctx, args)
	case "edit":
		return a.edit(ctx, args)
	case "rm":
		return a.remove(ctx, args)
	case "summary":
		return a.summary(ctx, args)
	case "notes":
		return a.notes(ctx, args)
	case "strategies":
		return a.strategies(ctx, args)
	case "catalog":
		return a.printCatalog(ctx)
	default:
		return usageError(fmt.Sprintf("unknown command %q", cmd))
	}
}
