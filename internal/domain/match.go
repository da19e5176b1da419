// Package domain holds the core value types of the betting desk: fixtures and
// their market quotations, user selections, and audit results. Everything here
// is plain data; fetching, validation, and orchestration live in the packages
// that produce these types.
package domain

// Sport identifies the fixture's discipline.
type Sport string

const (
	SportFootball   Sport = "FOOTBALL"
	SportBasketball Sport = "BASKETBALL"
)

// Valid reports whether s is one of the supported sports.
func (s Sport) Valid() bool {
	return s == SportFootball || s == SportBasketball
}

// SourceKind selects which data-source lineup the acquisition layer uses.
type SourceKind string

const (
	// SourceOfficial targets the official lottery center, with an aggregate
	// fallback behind it.
	SourceOfficial SourceKind = "OFFICIAL"

	// SourceInternational targets mainstream international books directly.
	SourceInternational SourceKind = "INTERNATIONAL"
)

// Valid reports whether k is a known source kind.
func (k SourceKind) Valid() bool {
	return k == SourceOfficial || k == SourceInternational
}

// MarketOdds is one quoted outcome on a market ladder, e.g. a single correct
// score or total-goals line.
type MarketOdds struct {
	Label string  `json:"label"`
	Value string  `json:"value"`
	Odds  float64 `json:"odds"`
}

// Injury is an ancillary squad-news signal attached to a match.
type Injury struct {
	Player     string `json:"player"`
	Status     string `json:"status"`
	Importance string `json:"importance"`
}

// RecentForm is the short-form result string for each side, e.g. "W-W-L".
type RecentForm struct {
	Home string `json:"home"`
	Away string `json:"away"`
}

// WDLOdds quotes a three-way win/draw/loss market.
type WDLOdds struct {
	Home float64 `json:"h"`
	Draw float64 `json:"d"`
	Away float64 `json:"a"`
}

// TotalsOdds quotes a two-way over/under market.
type TotalsOdds struct {
	Over  float64 `json:"over"`
	Under float64 `json:"under"`
}

// InternationalOdds carries the live quotations for a match across market
// types, plus drift/sentiment signals from international books.
type InternationalOdds struct {
	WDL        WDLOdds      `json:"wdl"`
	WDHL       *WDLOdds     `json:"wdhl,omitempty"` // handicap-adjusted three-way
	TotalsOdds *TotalsOdds  `json:"totals_odds,omitempty"`
	TotalGoals []MarketOdds `json:"total_goals,omitempty"`
	Trend      string       `json:"trend,omitempty"`
	KellyIndex *WDLOdds     `json:"kelly_index,omitempty"`
}

// Markets holds the ladders and line descriptors beyond the three-way market.
type Markets struct {
	CorrectScore []MarketOdds `json:"correct_score,omitempty"`
	Handicap     string       `json:"handicap,omitempty"` // e.g. "-0.5" or "home +4.5"
	Totals       string       `json:"totals,omitempty"`   // e.g. "224.5"
}

// Stats carries optional per-team performance numbers.
type Stats struct {
	HomeOffRating float64 `json:"home_off_rating,omitempty"`
	AwayDefRating float64 `json:"away_def_rating,omitempty"`
	GoalAvgHome   float64 `json:"goal_avg_home,omitempty"`
	GoalAvgAway   float64 `json:"goal_avg_away,omitempty"`
}

// LeagueRank is the current table position of each side.
type LeagueRank struct {
	Home int `json:"home"`
	Away int `json:"away"`
}

// MatchContext bags every market quotation and ancillary signal attached to a
// fixture. It is handed verbatim to the audit oracle as environment data.
type MatchContext struct {
	Injuries        []Injury          `json:"injuries,omitempty"`
	RecentForm      RecentForm        `json:"recent_form"`
	IntlOdds        InternationalOdds `json:"international_odds"`
	Markets         Markets           `json:"markets"`
	Stats           Stats             `json:"stats"`
	LeagueRank      LeagueRank        `json:"league_rank"`
	MotivationLevel string            `json:"motivation_level,omitempty"`
	NewsSentiment   string            `json:"news_sentiment,omitempty"`
}

// Match is a sporting fixture with its market quotations. Matches are
// immutable once in a catalog; a catalog is replaced wholesale on refresh.
type Match struct {
	ID        string       `json:"id"`
	Sport     Sport        `json:"sport"`
	HomeTeam  string       `json:"homeTeam"`
	AwayTeam  string       `json:"awayTeam"`
	League    string       `json:"league"`
	StartTime string       `json:"startTime"`
	Context   MatchContext `json:"match_context"`
}

// Name returns the display name used when a selection must describe its
// fixture without catalog access.
func (m Match) Name() string {
	return m.HomeTeam + " vs " + m.AwayTeam
}
