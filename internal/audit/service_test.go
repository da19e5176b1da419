package audit

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/lotteryops/sentinelbet/internal/domain"
	"github.com/lotteryops/sentinelbet/internal/portfolio"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func noLookup(string) (domain.Match, bool) { return domain.Match{}, false }

// stubOracle returns a canned payload, optionally running a hook while the
// audit is in flight.
type stubOracle struct {
	payload  []byte
	err      error
	inFlight func()
}

func (o *stubOracle) AuditPortfolio(_ context.Context, _ Request) ([]byte, error) {
	if o.inFlight != nil {
		o.inFlight()
	}
	return o.payload, o.err
}

func seededStore(t *testing.T) *portfolio.Store {
	t.Helper()
	store := portfolio.NewStore()
	_, err := store.Toggle(domain.Selection{
		MatchID: "f_1001",
		Market:  domain.MarketWDL,
		Pick:    "home",
		Odds:    1.95,
	})
	if err != nil {
		t.Fatalf("seed store: %v", err)
	}
	return store
}

func TestRunRejectsEmptyPortfolio(t *testing.T) {
	svc := NewService(&stubOracle{}, portfolio.NewStore(), noLookup, testLogger())

	_, err := svc.Run(context.Background())
	if !errors.Is(err, domain.ErrEmptyPortfolio) {
		t.Fatalf("err = %v, want ErrEmptyPortfolio", err)
	}
}

func TestRunWithoutOracleFailsFast(t *testing.T) {
	svc := NewService(nil, seededStore(t), noLookup, testLogger())

	_, err := svc.Run(context.Background())
	if !errors.Is(err, domain.ErrConfiguration) {
		t.Fatalf("err = %v, want ErrConfiguration", err)
	}
}

func TestRunCachesFreshResult(t *testing.T) {
	store := seededStore(t)
	svc := NewService(&stubOracle{payload: []byte(validAuditJSON)}, store, noLookup, testLogger())

	result, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Stale {
		t.Fatal("result must be fresh when the portfolio did not mutate")
	}
	if result.RequestID == "" || result.CreatedAt.IsZero() {
		t.Errorf("result not tagged: %+v", result)
	}
	if result.PortfolioVersion != store.Version() {
		t.Errorf("PortfolioVersion = %d, store at %d", result.PortfolioVersion, store.Version())
	}

	cached, ok := svc.Latest()
	if !ok {
		t.Fatal("fresh result must be cached")
	}
	if cached.RequestID != result.RequestID {
		t.Error("Latest returned a different result")
	}
}

func TestRunMarksStaleWhenPortfolioMutates(t *testing.T) {
	store := seededStore(t)
	oracle := &stubOracle{payload: []byte(validAuditJSON)}
	// Mutate the portfolio while the oracle is thinking.
	oracle.inFlight = func() {
		if _, err := store.Toggle(domain.Selection{
			MatchID: "b_2001",
			Market:  domain.MarketTotals,
			Pick:    "over",
			Odds:    1.9,
		}); err != nil {
			t.Errorf("mutate during audit: %v", err)
		}
	}
	svc := NewService(oracle, store, noLookup, testLogger())

	result, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !result.Stale {
		t.Fatal("result must be marked stale after a concurrent mutation")
	}

	// Stale results are surfaced to the caller but never cached.
	if _, ok := svc.Latest(); ok {
		t.Fatal("a stale result must not be cached")
	}
}

func TestLatestDropsResultAfterMutation(t *testing.T) {
	store := seededStore(t)
	svc := NewService(&stubOracle{payload: []byte(validAuditJSON)}, store, noLookup, testLogger())

	if _, err := svc.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if _, ok := svc.Latest(); !ok {
		t.Fatal("result should be cached before the mutation")
	}

	store.Toggle(domain.Selection{MatchID: "f_1002", Market: domain.MarketWDL, Pick: "away", Odds: 3.1})

	if _, ok := svc.Latest(); ok {
		t.Fatal("Latest must reject a result computed against an older portfolio")
	}

	// The invalidated result is dropped for good, not resurrected by a
	// version counter that happens to move again.
	store.Toggle(domain.Selection{MatchID: "f_1002", Market: domain.MarketWDL, Pick: "away", Odds: 3.1})
	if _, ok := svc.Latest(); ok {
		t.Fatal("an invalidated result must stay dropped")
	}
}

func TestRunRejectsConcurrentAudit(t *testing.T) {
	store := seededStore(t)

	started := make(chan struct{})
	release := make(chan struct{})
	oracle := &stubOracle{payload: []byte(validAuditJSON)}
	oracle.inFlight = func() {
		close(started)
		<-release
	}
	svc := NewService(oracle, store, noLookup, testLogger())

	done := make(chan error, 1)
	go func() {
		_, err := svc.Run(context.Background())
		done <- err
	}()

	<-started
	if !svc.InFlight() {
		t.Error("InFlight() = false while an audit is outstanding")
	}

	_, err := svc.Run(context.Background())
	if !errors.Is(err, domain.ErrAuditInFlight) {
		t.Fatalf("concurrent Run err = %v, want ErrAuditInFlight", err)
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("first Run: %v", err)
	}
	if svc.InFlight() {
		t.Error("InFlight() = true after completion")
	}
}

func TestRunPropagatesOracleFailure(t *testing.T) {
	svc := NewService(&stubOracle{err: domain.ErrProviderFailure}, seededStore(t), noLookup, testLogger())

	_, err := svc.Run(context.Background())
	if !errors.Is(err, domain.ErrProviderFailure) {
		t.Fatalf("err = %v, want ErrProviderFailure", err)
	}
	if _, ok := svc.Latest(); ok {
		t.Fatal("a failed audit must not cache anything")
	}
}

func TestRunRejectsGarbageOracleOutput(t *testing.T) {
	svc := NewService(&stubOracle{payload: []byte("not json at all")}, seededStore(t), noLookup, testLogger())

	_, err := svc.Run(context.Background())
	if !errors.Is(err, domain.ErrMalformedResponse) {
		t.Fatalf("err = %v, want ErrMalformedResponse", err)
	}
}
