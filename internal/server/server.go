// Package server wires the HTTP API: routing, middleware, and lifecycle.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/lotteryops/sentinelbet/internal/config"
	"github.com/lotteryops/sentinelbet/internal/server/handler"
	"github.com/lotteryops/sentinelbet/internal/server/middleware"
	"github.com/lotteryops/sentinelbet/internal/server/ws"
)

// Handlers aggregates the API handlers the server routes to.
type Handlers struct {
	Health    *handler.HealthHandler
	Catalog   *handler.CatalogHandler
	Session   *handler.SessionHandler
	Portfolio *handler.PortfolioHandler
	Audit     *handler.AuditHandler
	Hub       *ws.Hub
}

// Server hosts the betting-desk API over HTTP and WebSocket.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
}

// New builds the server with its routes and middleware chain.
func New(cfg config.ServerConfig, h Handlers, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/health", h.Health.HealthCheck)

	mux.HandleFunc("GET /api/catalog", h.Catalog.GetCatalog)
	mux.HandleFunc("POST /api/catalog/refresh", h.Catalog.Refresh)

	mux.HandleFunc("PUT /api/session/sport", h.Session.SwitchSport)
	mux.HandleFunc("PUT /api/session/source", h.Session.SwitchSource)

	mux.HandleFunc("GET /api/portfolio", h.Portfolio.GetPortfolio)
	mux.HandleFunc("POST /api/portfolio/toggle", h.Portfolio.Toggle)
	mux.HandleFunc("DELETE /api/portfolio/selections", h.Portfolio.RemoveSelection)
	mux.HandleFunc("DELETE /api/portfolio", h.Portfolio.Clear)

	mux.HandleFunc("POST /api/audit", h.Audit.RunAudit)
	mux.HandleFunc("GET /api/audit", h.Audit.GetAudit)

	mux.HandleFunc("GET /ws", h.Hub.HandleWS)

	// Middleware is applied outermost-first: logging sees every request,
	// CORS answers preflights before auth rejects them.
	var root http.Handler = mux
	root = middleware.Auth(cfg.APIKey)(root)
	root = middleware.CORS(cfg.CORSOrigins)(root)
	root = middleware.Logging(logger)(root)

	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Port),
			Handler:           root,
			ReadHeaderTimeout: 10 * time.Second,
			IdleTimeout:       120 * time.Second,
		},
		logger: logger.With(slog.String("component", "server")),
	}
}

// Start runs the HTTP server until the context is cancelled, then shuts it
// down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("http server listening", slog.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("server: listen: %w", err)
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		return s.Shutdown()
	case err := <-errCh:
		return err
	}
}

// Shutdown drains in-flight requests with a bounded grace period.
func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s.logger.Info("shutting down http server")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	return nil
}
