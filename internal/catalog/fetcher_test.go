package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/lotteryops/sentinelbet/internal/domain"
	"github.com/lotteryops/sentinelbet/internal/platform/genai"
)

// cannedGenerator returns a fixed payload (or error) for every request.
type cannedGenerator struct {
	text string
	err  error

	lastModel string
	lastReq   genai.GenerateRequest
}

func (g *cannedGenerator) GenerateText(_ context.Context, model string, req genai.GenerateRequest) (string, error) {
	g.lastModel = model
	g.lastReq = req
	return g.text, g.err
}

const validMatchJSON = `{
  "id": "f_1001",
  "sport": "FOOTBALL",
  "homeTeam": "Manchester United",
  "awayTeam": "Chelsea",
  "league": "英超 001",
  "startTime": "20:00",
  "match_context": {
    "recent_form": {"home": "W-W-L", "away": "D-W-W"},
    "international_odds": {"wdl": {"h": 1.95, "d": 3.5, "a": 3.8}},
    "markets": {"handicap": "-0.5", "totals": "2.5"},
    "stats": {},
    "league_rank": {"home": 3, "away": 5}
  }
}`

func officialProvider(t *testing.T) ProviderConfig {
	t.Helper()
	plan, err := PlanForSource(domain.SourceOfficial, testTime(t), 6)
	if err != nil {
		t.Fatalf("PlanForSource: %v", err)
	}
	return plan.Primary
}

func testTime(t *testing.T) time.Time {
	t.Helper()
	tt, err := time.Parse("2006-01-02", "2025-08-30")
	if err != nil {
		t.Fatalf("parse time: %v", err)
	}
	return tt
}

func TestFetchOnceDecodesValidPayload(t *testing.T) {
	gen := &cannedGenerator{text: "[" + validMatchJSON + "]"}
	f := NewFetcher(gen, "catalog-model")

	matches, err := f.FetchOnce(context.Background(), officialProvider(t))
	if err != nil {
		t.Fatalf("FetchOnce: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("got %d matches, want 1", len(matches))
	}

	m := matches[0]
	if m.ID != "f_1001" || m.Sport != domain.SportFootball {
		t.Errorf("match = %+v", m)
	}
	if m.Name() != "Manchester United vs Chelsea" {
		t.Errorf("Name() = %q", m.Name())
	}
	if m.Context.IntlOdds.WDL.Home != 1.95 {
		t.Errorf("wdl home odds = %v, want 1.95", m.Context.IntlOdds.WDL.Home)
	}
}

func TestFetchOnceRequestShape(t *testing.T) {
	gen := &cannedGenerator{text: "[]"}
	f := NewFetcher(gen, "catalog-model")

	if _, err := f.FetchOnce(context.Background(), officialProvider(t)); err != nil {
		t.Fatalf("FetchOnce: %v", err)
	}

	if gen.lastModel != "catalog-model" {
		t.Errorf("model = %q", gen.lastModel)
	}
	if len(gen.lastReq.Tools) != 1 || gen.lastReq.Tools[0].GoogleSearch == nil {
		t.Error("request must carry the search grounding tool")
	}
	if gen.lastReq.GenerationConfig == nil || gen.lastReq.GenerationConfig.ResponseMIMEType != "application/json" {
		t.Error("request must ask for a JSON response")
	}
}

func TestFetchOncePinsResponseSchema(t *testing.T) {
	gen := &cannedGenerator{text: "[]"}
	f := NewFetcher(gen, "catalog-model")

	if _, err := f.FetchOnce(context.Background(), officialProvider(t)); err != nil {
		t.Fatalf("FetchOnce: %v", err)
	}

	schema := gen.lastReq.GenerationConfig.ResponseSchema
	if schema == nil {
		t.Fatal("catalog request must pin a response schema")
	}
	if schema.Type != "ARRAY" || schema.Items == nil {
		t.Fatalf("schema = %+v, want an array of match objects", schema)
	}

	hasRequired := func(s *genai.Schema, field string) bool {
		for _, r := range s.Required {
			if r == field {
				return true
			}
		}
		return false
	}

	for _, field := range []string{"id", "sport", "homeTeam", "awayTeam", "league", "startTime", "match_context"} {
		if !hasRequired(schema.Items, field) {
			t.Errorf("match schema must require %q", field)
		}
	}

	mc := schema.Items.Properties["match_context"]
	if mc == nil {
		t.Fatal("match schema must describe match_context")
	}
	for _, field := range []string{"markets", "league_rank"} {
		if !hasRequired(mc, field) {
			t.Errorf("match_context schema must require %q", field)
		}
	}
}

func TestFetchOnceStripsCodeFences(t *testing.T) {
	gen := &cannedGenerator{text: "```json\n[" + validMatchJSON + "]\n```"}
	f := NewFetcher(gen, "catalog-model")

	matches, err := f.FetchOnce(context.Background(), officialProvider(t))
	if err != nil {
		t.Fatalf("FetchOnce: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("got %d matches, want 1", len(matches))
	}
}

func TestFetchOncePropagatesProviderError(t *testing.T) {
	gen := &cannedGenerator{err: domain.ErrProviderFailure}
	f := NewFetcher(gen, "catalog-model")

	_, err := f.FetchOnce(context.Background(), officialProvider(t))
	if !errors.Is(err, domain.ErrProviderFailure) {
		t.Fatalf("err = %v, want ErrProviderFailure", err)
	}
}

func TestFetchOnceRejectsNonJSON(t *testing.T) {
	gen := &cannedGenerator{text: "I could not find any matches today."}
	f := NewFetcher(gen, "catalog-model")

	_, err := f.FetchOnce(context.Background(), officialProvider(t))
	if !errors.Is(err, domain.ErrSchema) {
		t.Fatalf("err = %v, want ErrSchema", err)
	}
}

func TestDecodeCatalogRejectsInvalidRecords(t *testing.T) {
	tests := []struct {
		name   string
		mangle func(string) string
	}{
		{"missing id", func(s string) string {
			return strings.Replace(s, `"id": "f_1001",`, "", 1)
		}},
		{"unknown sport", func(s string) string {
			return strings.Replace(s, `"FOOTBALL"`, `"CRICKET"`, 1)
		}},
		{"missing home team", func(s string) string {
			return strings.Replace(s, `"homeTeam": "Manchester United",`, "", 1)
		}},
		{"missing league", func(s string) string {
			return strings.Replace(s, `"league": "英超 001",`, "", 1)
		}},
		{"missing start time", func(s string) string {
			return strings.Replace(s, `"startTime": "20:00",`, "", 1)
		}},
		{"missing match context", func(s string) string {
			i := strings.Index(s, `"match_context"`)
			return s[:i] + `"match_context": null` + "\n}"
		}},
		{"missing markets", func(s string) string {
			return strings.Replace(s, `"markets": {"handicap": "-0.5", "totals": "2.5"},`, "", 1)
		}},
		{"missing league rank", func(s string) string {
			return strings.Replace(s, `"league_rank": {"home": 3, "away": 5}`, `"league_rank": null`, 1)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := "[" + tt.mangle(validMatchJSON) + "]"
			_, err := decodeCatalog([]byte(payload))
			if !errors.Is(err, domain.ErrSchema) {
				t.Fatalf("err = %v, want ErrSchema", err)
			}
		})
	}
}

func TestDecodeCatalogRejectsWholeBatch(t *testing.T) {
	bad := strings.Replace(validMatchJSON, `"id": "f_1001",`, "", 1)
	payload := fmt.Sprintf("[%s,%s]", validMatchJSON, bad)

	matches, err := decodeCatalog([]byte(payload))
	if !errors.Is(err, domain.ErrSchema) {
		t.Fatalf("err = %v, want ErrSchema", err)
	}
	if matches != nil {
		t.Fatal("a rejected batch must yield no matches, valid records included")
	}
}

func TestStripFences(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"```json\n[]\n```", "[]"},
		{"```\n[]\n```", "[]"},
		{"  []  ", "[]"},
		{"[]", "[]"},
	}
	for _, tt := range tests {
		if got := stripFences(tt.in); got != tt.want {
			t.Errorf("stripFences(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
