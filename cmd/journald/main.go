package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/camuig/trade-journal/internal/api"
	"github.com/camuig/trade-journal/internal/config"
	"github.com/camuig/trade-journal/internal/logger"
	"github.com/camuig/trade-journal/internal/scheduler"
	"github.com/camuig/trade-journal/internal/storage"
	"github.com/camuig/trade-journal/internal/store"
	"github.com/camuig/trade-journal/internal/telegram"
	"github.com/camuig/trade-journal/internal/web"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	// Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	// Init logger
	log := logger.New(cfg.Logging.Level)
	log.Info("starting trade-journal", "backend", cfg.Backend.URL)

	// Init database
	db, err := storage.NewDatabase(cfg.Storage.Path)
	if err != nil {
		log.Error("database init failed", "error", err)
		os.Exit(1)
	}
	repo := storage.NewRepository(db)

	// Context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init services
	client := api.NewClient(cfg, log)
	catalog, err := api.NewCatalog(client, cfg.CatalogTTL())
	if err != nil {
		log.Error("catalog init failed", "error", err)
		os.Exit(1)
	}
	defer catalog.Close()
	trades := store.NewTradeStore(client, cfg.FreshnessWindow(), log)
	notifier := telegram.NewNotifier(cfg, log)
	trades.AddListener(storage.NewRecorder(repo, log))
	trades.AddListener(notifier)
	webServer := web.NewServer(trades, repo, catalog, cfg, log)

	if cfg.Sync.Enabled {
		sched := scheduler.NewScheduler(trades, repo, catalog, notifier, cfg, log)
		go sched.Run(ctx)
	} else {
		// still serve something on /trades
		if err := trades.Refresh(ctx); err != nil {
			log.Warn("initial refresh failed", "error", err)
		}
	}

	// Start web server in goroutine
	go func() {
		if err := webServer.Start(); err != nil {
			log.Error("web server error", "error", err)
		}
	}()

	notifier.NotifyStatus("📒 trade-journal started")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	log.Info("shutdown signal received", "signal", sig.String())

	// Graceful shutdown
	cancel() // stop scheduler

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := webServer.Shutdown(shutdownCtx); err != nil {
		log.Error("web server shutdown error", "error", err)
	}

	if trades.IsDirty() {
		log.Warn("unsynced local changes discarded on shutdown")
	}

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}

	notifier.NotifyStatus("🛑 trade-journal stopped")
	log.Info("trade-journal stopped")
}
