package web

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/camuig/trade-journal/internal/config"
	"github.com/camuig/trade-journal/internal/logger"
	"github.com/camuig/trade-journal/internal/storage"
	"github.com/camuig/trade-journal/internal/store"
)

type Server struct {
	httpServer *http.Server
	store      *store.TradeStore
	repo       *storage.Repository
	sides      SideSource
	config     *config.Config
	logger     *logger.Logger
}

func NewServer(ts *store.TradeStore, repo *storage.Repository, sides SideSource, cfg *config.Config, log *logger.Logger) *Server {
	s := &Server{
		store:  ts,
		repo:   repo,
		sides:  sides,
		config: cfg,
		logger: log.Component("web"),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /status", s.handleStatus)
	mux.HandleFunc("GET /trades", s.handleTrades)
	mux.HandleFunc("POST /sync", s.handleSync)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Web.Port),
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return s
}

func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s *Server) Start() error {
	s.logger.Info("web server starting", "port", s.config.Web.Port)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("web server: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
