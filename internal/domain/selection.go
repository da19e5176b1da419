package domain

// MarketType identifies which market a selection was taken from.
type MarketType string

const (
	MarketWDL    MarketType = "WDL"    // win/draw/loss
	MarketWDHL   MarketType = "WDHL"   // handicap win/draw/loss
	MarketCS     MarketType = "CS"     // correct score
	MarketTG     MarketType = "TG"     // total goals
	MarketTotals MarketType = "TOTALS" // points over/under
)

// Valid reports whether t is a supported market type.
func (t MarketType) Valid() bool {
	switch t {
	case MarketWDL, MarketWDHL, MarketCS, MarketTG, MarketTotals:
		return true
	}
	return false
}

// SelectionKey is the identity of a selection within a portfolio. A portfolio
// never holds two selections with the same key; multiple selections may share
// a MatchID (same-game multi-market parlays are allowed).
type SelectionKey struct {
	MatchID string
	Market  MarketType
	Pick    string
}

// Selection is a single user-chosen outcome on a specific market of a specific
// match. MatchName and Sport are carried on the selection itself so it stays
// presentable after the originating catalog has been replaced.
type Selection struct {
	MatchID   string     `json:"match_id"`
	MatchName string     `json:"match_name"`
	Sport     Sport      `json:"sport"`
	Market    MarketType `json:"market_type"`
	Pick      string     `json:"pick"`
	Odds      float64    `json:"odds"`
}

// Key returns the identity key of the selection.
func (s Selection) Key() SelectionKey {
	return SelectionKey{MatchID: s.MatchID, Market: s.Market, Pick: s.Pick}
}
