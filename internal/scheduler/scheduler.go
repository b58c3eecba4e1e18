package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/camuig/trade-journal/internal/config"
	"github.com/camuig/trade-journal/internal/journal"
	"github.com/camuig/trade-journal/internal/logger"
	"github.com/camuig/trade-journal/internal/storage"
	"github.com/camuig/trade-journal/internal/store"
	"github.com/camuig/trade-journal/internal/telegram"
)

// SideSource tells which operation types are short-side, so P&L is signed
// correctly for trades that arrive without their operation type joined.
type SideSource interface {
	SellTypes(ctx context.Context) (journal.SellTypes, error)
}

// Scheduler keeps the trade store in step with the backend: pending local
// edits are pushed, otherwise the cached list is refreshed.
type Scheduler struct {
	store    *store.TradeStore
	repo     *storage.Repository
	sides    SideSource
	notifier *telegram.Notifier
	interval time.Duration
	logger   *logger.Logger
}

func NewScheduler(
	ts *store.TradeStore,
	repo *storage.Repository,
	sides SideSource,
	notifier *telegram.Notifier,
	cfg *config.Config,
	log *logger.Logger,
) *Scheduler {
	return &Scheduler{
		store:    ts,
		repo:     repo,
		sides:    sides,
		notifier: notifier,
		interval: cfg.SyncInterval(),
		logger:   log.Component("scheduler"),
	}
}

func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info("scheduler started", "interval", s.interval.String())

	// Run immediately on start
	s.runCycle(ctx)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopped")
			return
		case <-ticker.C:
			s.runCycle(ctx)
		}
	}
}

func (s *Scheduler) runCycle(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("panic in scheduler cycle", "panic", fmt.Sprint(r))
			s.notifier.NotifyError("scheduler panic", fmt.Errorf("%v", r))
		}
	}()

	var err error
	if s.store.IsDirty() {
		s.logger.Info("pushing local changes")
		err = s.store.Sync(ctx)
	} else {
		err = s.store.Refresh(ctx)
	}
	if err != nil {
		// the store already reported the failure to its listeners
		s.logger.Warn("sync cycle failed", "error", err)
		return
	}

	s.saveSnapshot(ctx)
}

func (s *Scheduler) saveSnapshot(ctx context.Context) {
	sells, err := s.sides.SellTypes(ctx)
	if err != nil {
		s.logger.Warn("skip journal snapshot, operation types unavailable", "error", err)
		return
	}
	summary := journal.Summarize(s.store.Trades(), sells)
	snapshot := &storage.JournalSnapshot{
		TradesCount: summary.Count,
		Wins:        summary.Wins,
		Losses:      summary.Losses,
		NetPnL:      summary.NetPnL.String(),
		WinRate:     summary.WinRate.String(),
		Dirty:       s.store.IsDirty(),
	}
	if err := s.repo.SaveSnapshot(snapshot); err != nil {
		s.logger.Error("save journal snapshot", "error", err)
	}
}
