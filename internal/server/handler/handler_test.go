package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/lotteryops/sentinelbet/internal/audit"
	"github.com/lotteryops/sentinelbet/internal/catalog"
	"github.com/lotteryops/sentinelbet/internal/domain"
	"github.com/lotteryops/sentinelbet/internal/portfolio"
	"github.com/lotteryops/sentinelbet/internal/session"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type cannedFetcher struct {
	matches []domain.Match
}

func (f *cannedFetcher) FetchOnce(context.Context, catalog.ProviderConfig) ([]domain.Match, error) {
	return f.matches, nil
}

func newTestSession(t *testing.T) *session.Session {
	t.Helper()

	fetcher := &cannedFetcher{matches: []domain.Match{
		{ID: "f_1001", Sport: domain.SportFootball, HomeTeam: "Manchester United", AwayTeam: "Chelsea"},
	}}
	orch := catalog.NewOrchestrator(fetcher, catalog.OrchestratorConfig{
		PrimaryTimeout:  time.Second,
		FallbackTimeout: time.Second,
		MatchCount:      6,
	}, testLogger())
	state := catalog.NewState()
	store := portfolio.NewStore()
	audits := audit.NewService(nil, store, state.Get, testLogger())

	sess := session.New(orch, state, store, audits,
		[]domain.Match{{ID: "static_f", Sport: domain.SportFootball, HomeTeam: "S", AwayTeam: "T"}},
		"test", nil, session.Config{
			InitialSport:     domain.SportFootball,
			InitialSource:    domain.SourceOfficial,
			RefreshPerMinute: 60,
			RefreshBurst:     5,
		}, testLogger())
	sess.Bootstrap(context.Background())
	return sess
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Fatalf("Content-Type = %q", ct)
	}
	if err := json.Unmarshal(rec.Body.Bytes(), dst); err != nil {
		t.Fatalf("decode response: %v\nbody: %s", err, rec.Body.String())
	}
}

func TestGetCatalog(t *testing.T) {
	h := NewCatalogHandler(newTestSession(t), testLogger())

	rec := httptest.NewRecorder()
	h.GetCatalog(rec, httptest.NewRequest(http.MethodGet, "/api/catalog", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var view session.CatalogView
	decodeJSON(t, rec, &view)
	if view.Sport != domain.SportFootball {
		t.Errorf("sport = %q", view.Sport)
	}
	if len(view.Matches) != 1 || view.Matches[0].ID != "f_1001" {
		t.Errorf("matches = %+v", view.Matches)
	}
}

func TestToggleRoundTrip(t *testing.T) {
	h := NewPortfolioHandler(newTestSession(t), testLogger())

	body := `{"match_id":"f_1001","match_name":"","sport":"","market_type":"WDL","pick":"home","odds":1.95}`
	rec := httptest.NewRecorder()
	h.Toggle(rec, httptest.NewRequest(http.MethodPost, "/api/portfolio/toggle", strings.NewReader(body)))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var view session.PortfolioView
	decodeJSON(t, rec, &view)
	if len(view.Selections) != 1 {
		t.Fatalf("selections = %+v", view.Selections)
	}
	if view.Selections[0].MatchName != "Manchester United vs Chelsea" {
		t.Errorf("MatchName = %q, want backfilled from the catalog", view.Selections[0].MatchName)
	}
	if view.Summary.Count != 1 {
		t.Errorf("Summary.Count = %d", view.Summary.Count)
	}
}

func TestToggleRejectsInvalidSelection(t *testing.T) {
	h := NewPortfolioHandler(newTestSession(t), testLogger())

	body := `{"match_id":"f_1001","market_type":"WDL","pick":"home","odds":0}`
	rec := httptest.NewRecorder()
	h.Toggle(rec, httptest.NewRequest(http.MethodPost, "/api/portfolio/toggle", strings.NewReader(body)))

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
}

func TestToggleRejectsUnknownFields(t *testing.T) {
	h := NewPortfolioHandler(newTestSession(t), testLogger())

	body := `{"match_id":"f_1001","market_type":"WDL","pick":"home","odds":1.95,"stake":100}`
	rec := httptest.NewRecorder()
	h.Toggle(rec, httptest.NewRequest(http.MethodPost, "/api/portfolio/toggle", strings.NewReader(body)))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestRemoveSelectionAndClear(t *testing.T) {
	sess := newTestSession(t)
	h := NewPortfolioHandler(sess, testLogger())

	sess.Toggle(domain.Selection{MatchID: "f_1001", Market: domain.MarketWDL, Pick: "home", Odds: 1.95})
	sess.Toggle(domain.Selection{MatchID: "f_1001", Market: domain.MarketCS, Pick: "1:0", Odds: 7.5})

	rec := httptest.NewRecorder()
	h.RemoveSelection(rec, httptest.NewRequest(http.MethodDelete, "/api/portfolio/selections",
		strings.NewReader(`{"match_id":"f_1001","market_type":"WDL","pick":"home"}`)))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var view session.PortfolioView
	decodeJSON(t, rec, &view)
	if len(view.Selections) != 1 || view.Selections[0].Market != domain.MarketCS {
		t.Errorf("selections = %+v", view.Selections)
	}

	rec = httptest.NewRecorder()
	h.Clear(rec, httptest.NewRequest(http.MethodDelete, "/api/portfolio", nil))
	decodeJSON(t, rec, &view)
	if len(view.Selections) != 0 {
		t.Errorf("selections after clear = %+v", view.Selections)
	}
}

func TestSwitchSport(t *testing.T) {
	h := NewSessionHandler(newTestSession(t), testLogger())

	rec := httptest.NewRecorder()
	h.SwitchSport(rec, httptest.NewRequest(http.MethodPut, "/api/session/sport",
		strings.NewReader(`{"sport":"BASKETBALL"}`)))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var view session.CatalogView
	decodeJSON(t, rec, &view)
	if view.Sport != domain.SportBasketball {
		t.Errorf("sport = %q", view.Sport)
	}
}

func TestSwitchSportRejectsUnknown(t *testing.T) {
	h := NewSessionHandler(newTestSession(t), testLogger())

	rec := httptest.NewRecorder()
	h.SwitchSport(rec, httptest.NewRequest(http.MethodPut, "/api/session/sport",
		strings.NewReader(`{"sport":"CURLING"}`)))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestRunAuditEmptyPortfolio(t *testing.T) {
	h := NewAuditHandler(newTestSession(t), testLogger())

	rec := httptest.NewRecorder()
	h.RunAudit(rec, httptest.NewRequest(http.MethodPost, "/api/audit", nil))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestRunAuditWithoutOracle(t *testing.T) {
	sess := newTestSession(t)
	sess.Toggle(domain.Selection{MatchID: "f_1001", Market: domain.MarketWDL, Pick: "home", Odds: 1.95})
	h := NewAuditHandler(sess, testLogger())

	rec := httptest.NewRecorder()
	h.RunAudit(rec, httptest.NewRequest(http.MethodPost, "/api/audit", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
}

func TestGetAuditWithoutResult(t *testing.T) {
	h := NewAuditHandler(newTestSession(t), testLogger())

	rec := httptest.NewRecorder()
	h.GetAudit(rec, httptest.NewRequest(http.MethodGet, "/api/audit", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body struct {
		Stale      bool            `json:"stale"`
		Result     json.RawMessage `json:"result"`
		InProgress bool            `json:"in_progress"`
	}
	decodeJSON(t, rec, &body)
	if !body.Stale {
		t.Error("absent result must be reported stale")
	}
	if string(body.Result) != "null" {
		t.Errorf("result = %s, want null", body.Result)
	}
}

func TestHealthCheck(t *testing.T) {
	h := NewHealthHandler(time.Now().Add(-time.Minute))

	rec := httptest.NewRecorder()
	h.HealthCheck(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body map[string]any
	decodeJSON(t, rec, &body)
	if body["status"] != "ok" {
		t.Errorf("status field = %v", body["status"])
	}
}
