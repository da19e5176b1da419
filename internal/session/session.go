// Package session coordinates one betting-desk workflow: the active sport and
// data source, the current catalog snapshot, the selection portfolio, and the
// audit lifecycle. All state the session owns is in-memory and dies with the
// process.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/time/rate"

	"github.com/lotteryops/sentinelbet/internal/audit"
	"github.com/lotteryops/sentinelbet/internal/catalog"
	"github.com/lotteryops/sentinelbet/internal/domain"
	"github.com/lotteryops/sentinelbet/internal/portfolio"
)

// Publisher pushes desk events (fetch status, catalog swaps, portfolio and
// audit transitions) to connected clients. A nil-safe no-op implementation is
// used when no hub is attached.
type Publisher interface {
	Publish(channel string, payload any)
}

// Config tunes a session.
type Config struct {
	InitialSport  domain.Sport
	InitialSource domain.SourceKind

	// RefreshPerMinute / RefreshBurst bound manual refresh triggers. Extra
	// triggers are rejected with a rate-limit error, never queued.
	RefreshPerMinute int
	RefreshBurst     int
}

// Session is the single owner of catalog and portfolio state. A new refresh
// trigger supersedes any in-flight fetch (latest-wins, enforced by the
// orchestrator's generation counter); portfolio mutations are serialized by
// the underlying store.
type Session struct {
	orch      *catalog.Orchestrator
	state     *catalog.State
	selection *portfolio.Store
	audits    *audit.Service
	pub       Publisher
	limiter   *rate.Limiter
	logger    *slog.Logger

	staticMatches []domain.Match
	staticVersion string

	mu     sync.Mutex
	sport  domain.Sport
	source domain.SourceKind
}

// CatalogView is the catalog snapshot filtered to the active sport.
type CatalogView struct {
	Sport   domain.Sport      `json:"sport"`
	Source  domain.SourceKind `json:"source"`
	Sync    catalog.SyncMeta  `json:"sync"`
	Matches []domain.Match    `json:"matches"`
}

// PortfolioView is the selection set with its derived combination summary.
type PortfolioView struct {
	Selections []domain.Selection     `json:"selections"`
	Groups     []portfolio.MatchGroup `json:"groups"`
	Summary    portfolio.Summary      `json:"summary"`
	Version    uint64                 `json:"version"`
}

// New creates a session. staticMatches is the bundled offline catalog used
// whenever acquisition yields no live data.
func New(
	orch *catalog.Orchestrator,
	state *catalog.State,
	selection *portfolio.Store,
	audits *audit.Service,
	staticMatches []domain.Match,
	staticVersion string,
	pub Publisher,
	cfg Config,
	logger *slog.Logger,
) *Session {
	if pub == nil {
		pub = nopPublisher{}
	}
	return &Session{
		orch:          orch,
		state:         state,
		selection:     selection,
		audits:        audits,
		pub:           pub,
		limiter:       rate.NewLimiter(rate.Limit(float64(cfg.RefreshPerMinute)/60.0), cfg.RefreshBurst),
		logger:        logger.With(slog.String("component", "session")),
		staticMatches: staticMatches,
		staticVersion: staticVersion,
		sport:         cfg.InitialSport,
		source:        cfg.InitialSource,
	}
}

// Bootstrap runs the initial catalog acquisition. Called once at startup.
func (s *Session) Bootstrap(ctx context.Context) {
	s.fetchAndApply(ctx)
}

// Refresh re-acquires the catalog for the active source. Manual triggers are
// rate limited; a rejected trigger leaves all state untouched.
func (s *Session) Refresh(ctx context.Context) error {
	if !s.limiter.Allow() {
		return fmt.Errorf("session: refresh: %w", domain.ErrRateLimited)
	}
	s.fetchAndApply(ctx)
	return nil
}

// SwitchSport changes the active sport. The portfolio is destroyed and the
// catalog re-acquired.
func (s *Session) SwitchSport(ctx context.Context, sport domain.Sport) error {
	if !sport.Valid() {
		return fmt.Errorf("session: unknown sport %q: %w", sport, domain.ErrNotFound)
	}

	s.mu.Lock()
	if s.sport == sport {
		s.mu.Unlock()
		return nil
	}
	s.sport = sport
	s.mu.Unlock()

	s.clearPortfolio()
	s.fetchAndApply(ctx)
	return nil
}

// SwitchSource changes the active data source. The portfolio is destroyed and
// the catalog re-acquired through the new source's provider lineup.
func (s *Session) SwitchSource(ctx context.Context, source domain.SourceKind) error {
	if !source.Valid() {
		return fmt.Errorf("session: unknown source %q: %w", source, domain.ErrNotFound)
	}

	s.mu.Lock()
	if s.source == source {
		s.mu.Unlock()
		return nil
	}
	s.source = source
	s.mu.Unlock()

	s.clearPortfolio()
	s.fetchAndApply(ctx)
	return nil
}

// fetchAndApply runs one orchestrated fetch and installs the outcome. A
// superseded fetch changes nothing; no live data (or a valid-but-empty
// result, per product policy) substitutes the bundled static catalog.
func (s *Session) fetchAndApply(ctx context.Context) {
	s.mu.Lock()
	source := s.source
	s.mu.Unlock()

	res := s.orch.Fetch(ctx, source, func(status string) {
		s.pub.Publish("fetch_status", map[string]string{"status": status})
	})

	switch {
	case res.Superseded:
		return
	case res.OK && len(res.Matches) > 0:
		if !s.state.Replace(res.Matches, true, res.Provider, res.Generation) {
			return
		}
	default:
		if !s.state.Replace(s.staticMatches, false, catalog.StaticSource, res.Generation) {
			return
		}
		s.logger.InfoContext(ctx, "substituted static catalog",
			slog.String("version", s.staticVersion),
			slog.Bool("provider_succeeded_empty", res.OK),
		)
	}

	s.pub.Publish("catalog", s.state.Meta())
}

// clearPortfolio empties the selection set and notifies clients.
func (s *Session) clearPortfolio() {
	s.selection.Clear()
	s.pub.Publish("portfolio", s.PortfolioView())
}

// Catalog returns the snapshot filtered to the active sport.
func (s *Session) Catalog() CatalogView {
	s.mu.Lock()
	sport, source := s.sport, s.source
	s.mu.Unlock()

	return CatalogView{
		Sport:   sport,
		Source:  source,
		Sync:    s.state.Meta(),
		Matches: s.state.BySport(sport),
	}
}

// Match resolves a fixture from the current snapshot.
func (s *Session) Match(id string) (domain.Match, bool) {
	return s.state.Get(id)
}

// Toggle flips a selection's membership and returns the new portfolio view.
func (s *Session) Toggle(sel domain.Selection) (PortfolioView, error) {
	if sel.MatchName == "" {
		if m, ok := s.state.Get(sel.MatchID); ok {
			sel.MatchName = m.Name()
			sel.Sport = m.Sport
		}
	}

	if _, err := s.selection.Toggle(sel); err != nil {
		return PortfolioView{}, err
	}
	view := s.PortfolioView()
	s.pub.Publish("portfolio", view)
	return view, nil
}

// Remove deletes one selection by identity key.
func (s *Session) Remove(key domain.SelectionKey) PortfolioView {
	if s.selection.Remove(key) {
		s.pub.Publish("portfolio", s.PortfolioView())
	}
	return s.PortfolioView()
}

// ClearPortfolio empties the portfolio on explicit user request.
func (s *Session) ClearPortfolio() {
	s.clearPortfolio()
}

// PortfolioView assembles the current selections, their per-match grouping,
// and the combination summary. The summary is recomputed synchronously on
// every call; n is small and correctness beats cost.
func (s *Session) PortfolioView() PortfolioView {
	selections := s.selection.Selections()
	return PortfolioView{
		Selections: selections,
		Groups:     s.selection.GroupedByMatch(),
		Summary:    portfolio.Summarize(selections),
		Version:    s.selection.Version(),
	}
}

// RunAudit submits the portfolio to the risk oracle and returns the validated
// result.
func (s *Session) RunAudit(ctx context.Context) (*domain.AuditResult, error) {
	s.pub.Publish("audit", map[string]string{"phase": "started"})

	result, err := s.audits.Run(ctx)
	if err != nil {
		s.pub.Publish("audit", map[string]string{"phase": "failed", "error": err.Error()})
		return nil, err
	}

	s.pub.Publish("audit", result)
	return result, nil
}

// LatestAudit returns the cached audit result if it is still fresh.
func (s *Session) LatestAudit() (*domain.AuditResult, bool) {
	return s.audits.Latest()
}

// AuditInFlight reports whether an audit is outstanding.
func (s *Session) AuditInFlight() bool {
	return s.audits.InFlight()
}

type nopPublisher struct{}

func (nopPublisher) Publish(string, any) {}
