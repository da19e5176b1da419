// Package portfolio owns the user's selection set and the combinatorial
// summary derived from it.
package portfolio

import (
	"fmt"
	"sync"

	"github.com/lotteryops/sentinelbet/internal/domain"
)

// MatchGroup is the ordered set of selections taken on one fixture.
type MatchGroup struct {
	MatchID    string             `json:"match_id"`
	Selections []domain.Selection `json:"selections"`
}

// Store owns the set of user selections. Membership is keyed by
// (match_id, market_type, pick); the store never holds two selections with
// the same key. All mutations are serialized internally, and every successful
// mutation advances the version counter that invalidates cached audit
// results.
type Store struct {
	mu         sync.Mutex
	selections []domain.Selection // insertion order, stable for display
	version    uint64
}

// NewStore returns an empty portfolio.
func NewStore() *Store {
	return &Store{}
}

// Toggle flips membership of the selection by identity key: absent means add,
// present means remove. It is its own inverse. A selection with absent or
// non-positive odds is rejected and the portfolio is left unchanged; stored
// odds are not re-validated after admission.
//
// The returned bool reports whether the selection is now present.
func (s *Store) Toggle(sel domain.Selection) (bool, error) {
	if sel.Odds <= 0 {
		return false, fmt.Errorf("portfolio: toggle %s/%s/%s: %w", sel.MatchID, sel.Market, sel.Pick, domain.ErrInvalidSelection)
	}
	if sel.MatchID == "" || !sel.Market.Valid() || sel.Pick == "" {
		return false, fmt.Errorf("portfolio: toggle: incomplete selection key: %w", domain.ErrInvalidSelection)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := sel.Key()
	for i := range s.selections {
		if s.selections[i].Key() == key {
			s.selections = append(s.selections[:i], s.selections[i+1:]...)
			s.version++
			return false, nil
		}
	}

	s.selections = append(s.selections, sel)
	s.version++
	return true, nil
}

// Remove deletes the selection with the given identity key. Returns whether a
// selection was removed.
func (s *Store) Remove(key domain.SelectionKey) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.selections {
		if s.selections[i].Key() == key {
			s.selections = append(s.selections[:i], s.selections[i+1:]...)
			s.version++
			return true
		}
	}
	return false
}

// Clear empties the portfolio. A clear of an already-empty portfolio is a
// no-op and does not advance the version.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.selections) == 0 {
		return
	}
	s.selections = nil
	s.version++
}

// Selections returns a copy of the portfolio in insertion order.
func (s *Store) Selections() []domain.Selection {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Selection, len(s.selections))
	copy(out, s.selections)
	return out
}

// GroupedByMatch returns selections grouped by fixture. Group order is the
// first-seen order of each match_id; order inside a group is insertion order.
func (s *Store) GroupedByMatch() []MatchGroup {
	s.mu.Lock()
	defer s.mu.Unlock()

	index := make(map[string]int)
	var groups []MatchGroup
	for _, sel := range s.selections {
		i, ok := index[sel.MatchID]
		if !ok {
			i = len(groups)
			index[sel.MatchID] = i
			groups = append(groups, MatchGroup{MatchID: sel.MatchID})
		}
		groups[i].Selections = append(groups[i].Selections, sel)
	}
	return groups
}

// Len returns the number of selections held.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.selections)
}

// Version returns the mutation counter. An audit result computed at an older
// version is stale.
func (s *Store) Version() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}
