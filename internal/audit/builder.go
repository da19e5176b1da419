// Package audit builds risk-audit requests from the current portfolio, calls
// the external risk-assessment oracle, and validates its responses before
// anything is surfaced.
package audit

import (
	"github.com/google/uuid"
	"github.com/lotteryops/sentinelbet/internal/domain"
)

// MatchLookup resolves a match from the current catalog snapshot.
type MatchLookup func(id string) (domain.Match, bool)

// ContextEntry joins one selection with its originating match context. When
// the match has left the catalog, Details is omitted and the entry carries
// only the fields stored on the selection itself.
type ContextEntry struct {
	MatchID   string               `json:"match_id"`
	MatchName string               `json:"match_name"`
	Details   *domain.MatchContext `json:"details,omitempty"`
	UserPick  string               `json:"user_pick"`
	Market    domain.MarketType    `json:"market_type"`
}

// Request is the payload contract of the audit oracle.
type Request struct {
	ID        string             `json:"request_id"`
	Portfolio []domain.Selection `json:"portfolio"`
	Context   []ContextEntry     `json:"context"`

	// PortfolioVersion records which portfolio state the request was built
	// from, so the eventual result can be staleness-checked.
	PortfolioVersion uint64 `json:"-"`
}

// BuildRequest composes an audit request for the given selections. Every
// selection is included: one whose match_id is no longer resolvable degrades
// to its own carried fields rather than failing the whole request.
func BuildRequest(selections []domain.Selection, lookup MatchLookup, version uint64) Request {
	entries := make([]ContextEntry, 0, len(selections))
	for _, sel := range selections {
		entry := ContextEntry{
			MatchID:   sel.MatchID,
			MatchName: sel.MatchName,
			UserPick:  sel.Pick,
			Market:    sel.Market,
		}
		if m, ok := lookup(sel.MatchID); ok {
			entry.MatchName = m.Name()
			ctx := m.Context
			entry.Details = &ctx
		}
		entries = append(entries, entry)
	}

	return Request{
		ID:               uuid.NewString(),
		Portfolio:        selections,
		Context:          entries,
		PortfolioVersion: version,
	}
}
