package catalog

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/lotteryops/sentinelbet/internal/domain"
)

// CatalogFetcher performs one provider round-trip. Satisfied by *Fetcher;
// declared as an interface so orchestrator tests can stub providers.
type CatalogFetcher interface {
	FetchOnce(ctx context.Context, pc ProviderConfig) ([]domain.Match, error)
}

// StatusFunc receives human-readable progress lines during a fetch.
type StatusFunc func(status string)

// OrchestratorConfig tunes the acquisition race.
type OrchestratorConfig struct {
	PrimaryTimeout  time.Duration
	FallbackTimeout time.Duration
	MatchCount      int
}

// Result is the outcome of one orchestrated fetch.
type Result struct {
	Matches []domain.Match
	// OK is false when every configured provider was exhausted; the caller is
	// responsible for substituting the static catalog. A provider returning
	// zero matches is a valid-but-empty success, not a failure.
	OK bool
	// Superseded is set when a newer fetch started while this one was in
	// flight. The result must be discarded, not applied and not substituted.
	Superseded bool
	// Provider names the source that produced the data, for sync metadata.
	Provider string
	// Generation is the fetch's ticket from the latest-wins counter. Passing
	// it to State.Replace lets the install itself reject results that lost
	// the race between the completion check and the install.
	Generation uint64
}

// Orchestrator races a primary-source fetch against a wall-clock budget and
// degrades deterministically: one sequential fallback attempt when the source
// kind defines one, then "no live data". Provider-level errors never cross
// this boundary; exhaustion is reported as a value.
//
// Fetches are latest-wins: each call takes a generation ticket, and a result
// whose ticket trails the counter at completion time is reported superseded.
type Orchestrator struct {
	fetcher CatalogFetcher
	cfg     OrchestratorConfig
	logger  *slog.Logger
	gen     atomic.Uint64
}

// NewOrchestrator creates an Orchestrator around the given fetcher.
func NewOrchestrator(fetcher CatalogFetcher, cfg OrchestratorConfig, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{
		fetcher: fetcher,
		cfg:     cfg,
		logger:  logger.With(slog.String("component", "acquisition")),
	}
}

// Fetch acquires a catalog for the given source kind. status (optional)
// receives progress transitions. Fetch never returns an error: provider
// failures are absorbed and surface as OK=false.
func (o *Orchestrator) Fetch(ctx context.Context, kind domain.SourceKind, status StatusFunc) Result {
	gen := o.gen.Add(1)

	emit := func(s string) {
		if status != nil {
			status(s)
		}
	}

	plan, err := PlanForSource(kind, time.Now().UTC(), o.cfg.MatchCount)
	if err != nil {
		o.logger.ErrorContext(ctx, "no provider plan for source",
			slog.String("source", string(kind)),
			slog.String("error", err.Error()),
		)
		return o.finish(ctx, gen, Result{})
	}

	matches, err := o.attempt(ctx, plan.Primary, o.cfg.PrimaryTimeout, emit)
	if err == nil {
		o.logFetched(ctx, plan.Primary.Name, len(matches))
		return o.finish(ctx, gen, Result{Matches: matches, OK: true, Provider: plan.Primary.Name})
	}
	if ctx.Err() != nil {
		return Result{Superseded: true}
	}

	o.logger.WarnContext(ctx, "primary provider failed",
		slog.String("provider", plan.Primary.Name),
		slog.Bool("timed_out", errors.Is(err, domain.ErrProviderTimeout)),
		slog.String("error", err.Error()),
	)

	if plan.Fallback == nil {
		emit("no fallback source configured, switching to the offline catalog...")
		return o.finish(ctx, gen, Result{})
	}

	// Strictly sequential: the fallback starts only after the primary's
	// failure or timeout is determined, never concurrently with it.
	matches, err = o.attempt(ctx, *plan.Fallback, o.cfg.FallbackTimeout, emit)
	if err == nil {
		o.logFetched(ctx, plan.Fallback.Name, len(matches))
		return o.finish(ctx, gen, Result{Matches: matches, OK: true, Provider: plan.Fallback.Name})
	}
	if ctx.Err() != nil {
		return Result{Superseded: true}
	}

	o.logger.WarnContext(ctx, "fallback provider failed",
		slog.String("provider", plan.Fallback.Name),
		slog.String("error", err.Error()),
	)
	emit("all live sources exhausted, switching to the offline catalog...")
	return o.finish(ctx, gen, Result{})
}

// attempt runs a single provider fetch bounded by timeout. The in-flight
// request is cancelled best-effort on timeout; attempt never waits for the
// cancellation to complete.
func (o *Orchestrator) attempt(ctx context.Context, pc ProviderConfig, timeout time.Duration, emit func(string)) ([]domain.Match, error) {
	emit(pc.ContactStatus)

	actx, cancel := context.WithTimeout(ctx, timeout)

	type outcome struct {
		matches []domain.Match
		err     error
	}
	ch := make(chan outcome, 1)
	go func() {
		m, err := o.fetcher.FetchOnce(actx, pc)
		ch <- outcome{matches: m, err: err}
	}()

	select {
	case out := <-ch:
		cancel()
		return out.matches, out.err
	case <-actx.Done():
		// Timer or parent cancellation won the race. Abandon the in-flight
		// request without blocking on it.
		cancel()
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, domain.ErrProviderTimeout
	}
}

// finish applies the latest-wins generation check at completion time.
func (o *Orchestrator) finish(ctx context.Context, gen uint64, res Result) Result {
	if o.gen.Load() != gen {
		o.logger.InfoContext(ctx, "fetch superseded by a newer trigger, discarding result",
			slog.Uint64("generation", gen),
		)
		return Result{Superseded: true}
	}
	res.Generation = gen
	return res
}

func (o *Orchestrator) logFetched(ctx context.Context, provider string, count int) {
	if count == 0 {
		// Valid-but-empty success. Reported faithfully; the caller decides
		// whether product policy substitutes static data.
		o.logger.InfoContext(ctx, "provider succeeded with zero results",
			slog.String("provider", provider),
		)
		return
	}
	o.logger.InfoContext(ctx, "catalog fetched",
		slog.String("provider", provider),
		slog.Int("matches", count),
	)
}
