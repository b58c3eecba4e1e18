package storage

import (
	"github.com/camuig/trade-journal/internal/logger"
	"github.com/camuig/trade-journal/internal/store"
)

// Recorder persists store events. Cache hits are not worth a row.
type Recorder struct {
	repo   *Repository
	logger *logger.Logger
}

func NewRecorder(repo *Repository, log *logger.Logger) *Recorder {
	return &Recorder{repo: repo, logger: log}
}

func (r *Recorder) OnEvent(e store.Event) {
	if e.Outcome == store.OutcomeCacheHit {
		return
	}
	a := &Activity{
		CreatedAt: e.At,
		Op:        string(e.Op),
		TradeID:   e.TradeID,
		Outcome:   string(e.Outcome),
	}
	if e.Err != nil {
		a.Error = e.Err.Error()
	}
	if err := r.repo.SaveActivity(a); err != nil {
		r.logger.Error("save activity", "op", e.Op, "error", err)
	}
}
