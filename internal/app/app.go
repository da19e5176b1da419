// Package app assembles the betting desk: configuration in, wired components
// out, one Run loop managing their lifetimes.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/lotteryops/sentinelbet/internal/audit"
	"github.com/lotteryops/sentinelbet/internal/catalog"
	"github.com/lotteryops/sentinelbet/internal/config"
	"github.com/lotteryops/sentinelbet/internal/domain"
	"github.com/lotteryops/sentinelbet/internal/platform/genai"
	"github.com/lotteryops/sentinelbet/internal/portfolio"
	"github.com/lotteryops/sentinelbet/internal/server"
	"github.com/lotteryops/sentinelbet/internal/server/handler"
	"github.com/lotteryops/sentinelbet/internal/server/ws"
	"github.com/lotteryops/sentinelbet/internal/session"
)

// App owns the wired components of one desk process.
type App struct {
	cfg    *config.Config
	logger *slog.Logger

	hub     *ws.Hub
	session *session.Session
	server  *server.Server
}

// New wires the application from configuration. It fails only on defects that
// make the process useless (a broken bundled catalog, an invalid endpoint);
// a missing generation credential degrades to offline mode instead.
func New(cfg *config.Config, logger *slog.Logger) (*App, error) {
	staticMatches, staticVersion, err := catalog.LoadStatic()
	if err != nil {
		return nil, fmt.Errorf("app: load bundled catalog: %w", err)
	}

	var (
		fetcher catalog.CatalogFetcher
		oracle  audit.OraclePort
	)
	if cfg.GenAI.APIKey == "" {
		logger.Warn("no generation API key configured, live acquisition and audits are disabled")
		fetcher = offlineFetcher{}
	} else {
		client, err := genai.NewClient(cfg.GenAI.BaseURL, cfg.GenAI.APIKey)
		if err != nil {
			return nil, fmt.Errorf("app: genai client: %w", err)
		}
		fetcher = catalog.NewFetcher(client, cfg.GenAI.CatalogModel)
		oracle = audit.NewOracle(client, cfg.GenAI.AuditModel, cfg.GenAI.ThinkingBudget)
	}

	orch := catalog.NewOrchestrator(fetcher, catalog.OrchestratorConfig{
		PrimaryTimeout:  cfg.Acquisition.PrimaryTimeout.Duration,
		FallbackTimeout: cfg.Acquisition.FallbackTimeout.Duration,
		MatchCount:      cfg.Acquisition.MatchCount,
	}, logger)

	state := catalog.NewState()
	store := portfolio.NewStore()
	audits := audit.NewService(oracle, store, state.Get, logger)
	hub := ws.NewHub(logger)

	sess := session.New(orch, state, store, audits, staticMatches, staticVersion, hub, session.Config{
		InitialSport:     domain.Sport(cfg.Session.DefaultSport),
		InitialSource:    domain.SourceKind(cfg.Session.DefaultSource),
		RefreshPerMinute: cfg.Acquisition.RefreshPerMinute,
		RefreshBurst:     cfg.Acquisition.RefreshBurst,
	}, logger)

	var srv *server.Server
	if cfg.Server.Enabled {
		srv = server.New(cfg.Server, server.Handlers{
			Health:    handler.NewHealthHandler(time.Now()),
			Catalog:   handler.NewCatalogHandler(sess, logger),
			Session:   handler.NewSessionHandler(sess, logger),
			Portfolio: handler.NewPortfolioHandler(sess, logger),
			Audit:     handler.NewAuditHandler(sess, logger),
			Hub:       hub,
		}, logger)
	}

	return &App{
		cfg:     cfg,
		logger:  logger,
		hub:     hub,
		session: sess,
		server:  srv,
	}, nil
}

// Run starts the hub, the HTTP server, and the initial catalog acquisition,
// and blocks until the context is cancelled or a component fails.
func (a *App) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return a.hub.Run(gctx)
	})

	if a.server != nil {
		g.Go(func() error {
			return a.server.Start(gctx)
		})
	}

	g.Go(func() error {
		a.session.Bootstrap(gctx)
		return nil
	})

	return g.Wait()
}

// offlineFetcher stands in for the live fetcher when no credential is
// configured. Every attempt reports a configuration failure, which the
// orchestrator absorbs and the session answers with the bundled catalog.
type offlineFetcher struct{}

func (offlineFetcher) FetchOnce(context.Context, catalog.ProviderConfig) ([]domain.Match, error) {
	return nil, fmt.Errorf("app: no generation API key configured: %w", domain.ErrConfiguration)
}
