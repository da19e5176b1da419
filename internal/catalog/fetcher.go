// Package catalog acquires match catalogs from unreliable upstream providers
// and owns the current in-memory snapshot. The Fetcher performs exactly one
// provider round-trip; racing, timeouts, and fallback policy belong to the
// Orchestrator.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/lotteryops/sentinelbet/internal/domain"
	"github.com/lotteryops/sentinelbet/internal/platform/genai"
)

// TextGenerator is the slice of the genai client the fetcher needs.
type TextGenerator interface {
	GenerateText(ctx context.Context, model string, req genai.GenerateRequest) (string, error)
}

// Fetcher performs a single catalog fetch against one provider: it renders the
// provider request, strips non-JSON wrapping artifacts from the payload, and
// decodes it into validated Match records. No retries, no timeout handling.
type Fetcher struct {
	gen   TextGenerator
	model string
}

// NewFetcher creates a Fetcher that issues catalog requests through gen using
// the given model.
func NewFetcher(gen TextGenerator, model string) *Fetcher {
	return &Fetcher{gen: gen, model: model}
}

// FetchOnce performs one attempt against the provider described by pc.
// An invalid record anywhere in the payload rejects the whole batch with
// ErrSchema: a partially decoded catalog would leave the portfolio UI with
// dangling references to missing match context.
func (f *Fetcher) FetchOnce(ctx context.Context, pc ProviderConfig) ([]domain.Match, error) {
	req := genai.NewTextRequest(pc.Prompt)
	req.Tools = []genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}}
	req.GenerationConfig = &genai.GenerationConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   catalogSchema,
	}

	text, err := f.gen.GenerateText(ctx, f.model, req)
	if err != nil {
		return nil, fmt.Errorf("catalog: provider %s: %w", pc.Name, err)
	}

	matches, err := decodeCatalog([]byte(stripFences(text)))
	if err != nil {
		return nil, fmt.Errorf("catalog: provider %s: %w", pc.Name, err)
	}
	return matches, nil
}

// stripFences removes markdown code fences the provider may wrap the JSON
// payload in.
func stripFences(s string) string {
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}

// ---------------------------------------------------------------------------
// Decode types. Pointers distinguish "absent" from "empty" for the structures
// the schema requires to be present.
// ---------------------------------------------------------------------------

type apiMatch struct {
	ID        string      `json:"id"`
	Sport     string      `json:"sport"`
	HomeTeam  string      `json:"homeTeam"`
	AwayTeam  string      `json:"awayTeam"`
	League    string      `json:"league"`
	StartTime string      `json:"startTime"`
	Context   *apiContext `json:"match_context"`
}

type apiContext struct {
	Injuries        []domain.Injury          `json:"injuries"`
	RecentForm      domain.RecentForm        `json:"recent_form"`
	IntlOdds        domain.InternationalOdds `json:"international_odds"`
	Markets         *domain.Markets          `json:"markets"`
	Stats           domain.Stats             `json:"stats"`
	LeagueRank      *domain.LeagueRank       `json:"league_rank"`
	MotivationLevel string                   `json:"motivation_level"`
	NewsSentiment   string                   `json:"news_sentiment"`
}

// decodeCatalog parses a raw JSON payload into validated Match records.
// All-or-nothing: the first invalid record fails the batch.
func decodeCatalog(raw []byte) ([]domain.Match, error) {
	var records []apiMatch
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("decode catalog: %v: %w", err, domain.ErrSchema)
	}

	matches := make([]domain.Match, 0, len(records))
	for i := range records {
		m, err := records[i].toDomain()
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		matches = append(matches, m)
	}
	return matches, nil
}

// toDomain validates the record and converts it into an immutable Match.
func (r *apiMatch) toDomain() (domain.Match, error) {
	switch {
	case r.ID == "":
		return domain.Match{}, fmt.Errorf("missing id: %w", domain.ErrSchema)
	case !domain.Sport(r.Sport).Valid():
		return domain.Match{}, fmt.Errorf("invalid sport %q: %w", r.Sport, domain.ErrSchema)
	case r.HomeTeam == "" || r.AwayTeam == "":
		return domain.Match{}, fmt.Errorf("missing team names: %w", domain.ErrSchema)
	case r.League == "":
		return domain.Match{}, fmt.Errorf("missing league: %w", domain.ErrSchema)
	case r.StartTime == "":
		return domain.Match{}, fmt.Errorf("missing start time: %w", domain.ErrSchema)
	case r.Context == nil:
		return domain.Match{}, fmt.Errorf("missing match_context: %w", domain.ErrSchema)
	case r.Context.Markets == nil:
		return domain.Match{}, fmt.Errorf("missing markets: %w", domain.ErrSchema)
	case r.Context.LeagueRank == nil:
		return domain.Match{}, fmt.Errorf("missing league_rank: %w", domain.ErrSchema)
	}

	return domain.Match{
		ID:        r.ID,
		Sport:     domain.Sport(r.Sport),
		HomeTeam:  r.HomeTeam,
		AwayTeam:  r.AwayTeam,
		League:    r.League,
		StartTime: r.StartTime,
		Context: domain.MatchContext{
			Injuries:        r.Context.Injuries,
			RecentForm:      r.Context.RecentForm,
			IntlOdds:        r.Context.IntlOdds,
			Markets:         *r.Context.Markets,
			Stats:           r.Context.Stats,
			LeagueRank:      *r.Context.LeagueRank,
			MotivationLevel: r.Context.MotivationLevel,
			NewsSentiment:   r.Context.NewsSentiment,
		},
	}, nil
}
