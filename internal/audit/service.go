package audit

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/lotteryops/sentinelbet/internal/domain"
	"github.com/lotteryops/sentinelbet/internal/portfolio"
)

// OraclePort is the boundary to the external risk-assessment service.
// Satisfied by *Oracle; declared as an interface so service tests can stub
// the oracle.
type OraclePort interface {
	AuditPortfolio(ctx context.Context, req Request) ([]byte, error)
}

// Service runs the audit workflow: build request, call oracle, validate,
// staleness-check. Audits are mutually exclusive with themselves; a trigger
// while one is outstanding is rejected rather than queued.
type Service struct {
	oracle OraclePort // nil when the oracle credential is not configured
	store  *portfolio.Store
	lookup MatchLookup
	logger *slog.Logger

	mu       sync.Mutex
	inFlight bool
	latest   *domain.AuditResult
}

// NewService creates the audit service. lookup resolves matches against the
// live catalog snapshot. oracle may be nil when no credential is configured;
// Run then fails fast with a configuration error.
func NewService(oracle OraclePort, store *portfolio.Store, lookup MatchLookup, logger *slog.Logger) *Service {
	return &Service{
		oracle: oracle,
		store:  store,
		lookup: lookup,
		logger: logger.With(slog.String("component", "audit")),
	}
}

// Run audits the current portfolio. Each result is tagged with the portfolio
// version it was computed from; if the portfolio mutated while the oracle was
// thinking, the result is returned marked stale and is not cached.
func (s *Service) Run(ctx context.Context) (*domain.AuditResult, error) {
	selections := s.store.Selections()
	if len(selections) == 0 {
		return nil, fmt.Errorf("audit: %w", domain.ErrEmptyPortfolio)
	}
	if s.oracle == nil {
		return nil, fmt.Errorf("audit: oracle credential not configured: %w", domain.ErrConfiguration)
	}

	s.mu.Lock()
	if s.inFlight {
		s.mu.Unlock()
		return nil, fmt.Errorf("audit: %w", domain.ErrAuditInFlight)
	}
	s.inFlight = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.inFlight = false
		s.mu.Unlock()
	}()

	version := s.store.Version()
	req := BuildRequest(selections, s.lookup, version)

	s.logger.InfoContext(ctx, "audit started",
		slog.String("request_id", req.ID),
		slog.Int("selections", len(selections)),
		slog.Uint64("portfolio_version", version),
	)

	raw, err := s.oracle.AuditPortfolio(ctx, req)
	if err != nil {
		return nil, err
	}

	result, err := Validate(raw)
	if err != nil {
		return nil, err
	}

	result.RequestID = req.ID
	result.PortfolioVersion = version
	result.CreatedAt = time.Now().UTC()
	result.Stale = s.store.Version() != version

	s.mu.Lock()
	if !result.Stale {
		s.latest = result
	}
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "audit completed",
		slog.String("request_id", req.ID),
		slog.String("status", string(result.Summary.Status)),
		slog.Float64("risk_score", result.Summary.TotalRiskScore),
		slog.Bool("stale", result.Stale),
	)
	return result, nil
}

// Latest returns the cached audit result, or (nil, false) when none exists or
// the portfolio has mutated since it was computed. A superseded result is
// dropped, never re-served.
func (s *Service) Latest() (*domain.AuditResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.latest == nil {
		return nil, false
	}
	if s.latest.PortfolioVersion != s.store.Version() {
		s.latest = nil
		return nil, false
	}
	return s.latest, true
}

// InFlight reports whether an audit is currently outstanding.
func (s *Service) InFlight() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inFlight
}
