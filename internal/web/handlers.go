package web

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/camuig/trade-journal/internal/journal"
	"github.com/camuig/trade-journal/internal/storage"
	"github.com/camuig/trade-journal/internal/store"
)

const (
	recentActivityLimit = 20
	failureWindow       = 24 * time.Hour
)

// SideSource tells which operation types are short-side.
type SideSource interface {
	SellTypes(ctx context.Context) (journal.SellTypes, error)
}

type StatusResponse struct {
	Store          store.State              `json:"store"`
	LocalCount     int                      `json:"localCount"`
	Summary        *journal.Summary         `json:"summary,omitempty"`
	SummaryError   string                   `json:"summaryError,omitempty"`
	FailuresLast24 int64                    `json:"failuresLast24h"`
	LatestSnapshot *storage.JournalSnapshot `json:"latestSnapshot,omitempty"`
	RecentActivity []storage.Activity       `json:"recentActivity"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	st := s.store.State()
	resp := StatusResponse{
		LocalCount:     len(st.LocalTrades),
		RecentActivity: []storage.Activity{},
	}
	// shorts cannot be signed without the operation types
	if sells, err := s.sides.SellTypes(r.Context()); err != nil {
		s.logger.Warn("resolve operation types", "error", err)
		resp.SummaryError = err.Error()
	} else {
		summary := journal.Summarize(st.Trades, sells)
		resp.Summary = &summary
	}
	// lists are served by /trades
	st.Trades, st.LocalTrades = nil, nil
	resp.Store = st

	if snapshot, err := s.repo.LatestSnapshot(); err != nil {
		s.logger.Error("load latest snapshot", "error", err)
	} else {
		resp.LatestSnapshot = snapshot
	}
	if n, err := s.repo.FailuresSince(time.Now().Add(-failureWindow)); err != nil {
		s.logger.Error("count recent failures", "error", err)
	} else {
		resp.FailuresLast24 = n
	}
	if items, err := s.repo.RecentActivity(recentActivityLimit); err != nil {
		s.logger.Error("load recent activity", "error", err)
	} else if items != nil {
		resp.RecentActivity = items
	}

	s.writeJSON(w, http.StatusOK, resp)
}

// handleTrades serves the working copy, or the last confirmed snapshot
// with ?source=server.
func (s *Server) handleTrades(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Query().Get("source") {
	case "", "local":
		s.writeJSON(w, http.StatusOK, s.store.LocalTrades())
	case "server":
		s.writeJSON(w, http.StatusOK, s.store.Trades())
	default:
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "source must be local or server"})
	}
}

func (s *Server) handleSync(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Sync(r.Context()); err != nil {
		s.writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
		return
	}
	st := s.store.State()
	st.Trades, st.LocalTrades = nil, nil
	s.writeJSON(w, http.StatusOK, st)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode response", "error", err)
	}
}
