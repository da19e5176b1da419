package catalog

import (
	"fmt"
	"time"

	"github.com/lotteryops/sentinelbet/internal/domain"
)

// ProviderConfig describes one upstream catalog provider: the rendered
// instruction sent to the search-augmented model and the human-readable
// progress line emitted when the provider is contacted.
type ProviderConfig struct {
	Name          string
	Prompt        string
	ContactStatus string
}

// SourcePlan is the provider lineup for one source kind: a mandatory primary
// and an optional sequential fallback. A nil Fallback means the orchestrator
// goes straight to "no live data" when the primary fails.
type SourcePlan struct {
	Primary  ProviderConfig
	Fallback *ProviderConfig
}

const primaryPromptFmt = `Search for the ABSOLUTE LATEST real-time China Sports Lottery matches and odds for today (%s).
Primary Source: Official sporttery.cn.

Instructions:
1. Fetch exactly %d active matches currently open for betting.
2. Prioritize high-liquidity leagues (Premier League, NBA, UCL, etc.).
3. For Football: Include WDL (win/draw/loss), handicap WDL, total goals, and the 15 most common Correct Score odds.
4. For Basketball: Include Point Spread and Total Points.
5. League names MUST include the official Lottery ID prefix.

Return a strictly valid JSON array of Match objects.`

const aggregatePromptFmt = `Official sources are slow. Search ANY reputable sports aggregate source (500.com, OKOOO, Scoreway)
to fetch today's (%s) China Sports Lottery official matches and real-time odds.

Requirements remain the same: %d matches, WDL/handicap/total goals/Correct Score for football, Point Spread and
Total Points for basketball, include Lottery IDs.

Return a strictly valid JSON array of Match objects.`

const internationalPromptFmt = `Search mainstream international bookmakers (bet365, Pinnacle, William Hill) for today's (%s)
highest-liquidity football and basketball fixtures with live odds.

Instructions:
1. Fetch exactly %d active matches currently open for betting.
2. For Football: Include WDL (win/draw/loss), handicap WDL, total goals, and the 15 most common Correct Score odds.
3. For Basketball: Include Point Spread and Total Points.
4. Include Kelly index and odds-drift commentary where available.

Return a strictly valid JSON array of Match objects.`

// PlanForSource renders the provider lineup for the given source kind.
// The official source carries an aggregate fallback; the international source
// runs without one and degrades straight to the static catalog.
func PlanForSource(kind domain.SourceKind, asOf time.Time, matchCount int) (SourcePlan, error) {
	day := asOf.Format("2006-01-02")

	switch kind {
	case domain.SourceOfficial:
		return SourcePlan{
			Primary: ProviderConfig{
				Name:          "sporttery-official",
				Prompt:        fmt.Sprintf(primaryPromptFmt, day, matchCount),
				ContactStatus: "contacting the official lottery center...",
			},
			Fallback: &ProviderConfig{
				Name:          "aggregate-odds",
				Prompt:        fmt.Sprintf(aggregatePromptFmt, day, matchCount),
				ContactStatus: "official source unavailable, switching to aggregate odds providers...",
			},
		}, nil
	case domain.SourceInternational:
		return SourcePlan{
			Primary: ProviderConfig{
				Name:          "international-books",
				Prompt:        fmt.Sprintf(internationalPromptFmt, day, matchCount),
				ContactStatus: "contacting international odds providers...",
			},
		}, nil
	default:
		return SourcePlan{}, fmt.Errorf("catalog: unknown source kind %q: %w", kind, domain.ErrConfiguration)
	}
}
