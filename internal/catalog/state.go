package catalog

import (
	"sync"
	"time"

	"github.com/lotteryops/sentinelbet/internal/domain"
)

// SyncMeta describes where and when the current snapshot came from.
type SyncMeta struct {
	LastSync time.Time `json:"last_sync"`
	Live     bool      `json:"live"` // false when the static catalog is active
	Source   string    `json:"source"`
}

// State owns the current catalog snapshot. Snapshots are replaced wholesale on
// every refresh; there is no partial patching. Reads return copies so callers
// can never mutate the snapshot in place.
type State struct {
	mu         sync.RWMutex
	matches    []domain.Match
	byID       map[string]domain.Match
	meta       SyncMeta
	installGen uint64
}

// NewState returns an empty catalog state.
func NewState() *State {
	return &State{byID: make(map[string]domain.Match)}
}

// Replace installs a new snapshot wholesale. gen is the fetch generation the
// snapshot came from; an install whose generation trails one already applied
// is rejected, closing the window between a fetch's completion check and its
// install under concurrent refresh triggers. Returns whether the snapshot was
// installed.
func (s *State) Replace(matches []domain.Match, live bool, source string, gen uint64) bool {
	byID := make(map[string]domain.Match, len(matches))
	for _, m := range matches {
		byID[m.ID] = m
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen < s.installGen {
		return false
	}
	s.installGen = gen
	s.matches = matches
	s.byID = byID
	s.meta = SyncMeta{LastSync: time.Now().UTC(), Live: live, Source: source}
	return true
}

// Get returns the match with the given id from the current snapshot.
func (s *State) Get(id string) (domain.Match, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.byID[id]
	return m, ok
}

// Matches returns a copy of the current snapshot.
func (s *State) Matches() []domain.Match {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Match, len(s.matches))
	copy(out, s.matches)
	return out
}

// BySport returns the snapshot filtered to one sport, in snapshot order.
func (s *State) BySport(sport domain.Sport) []domain.Match {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Match
	for _, m := range s.matches {
		if m.Sport == sport {
			out = append(out, m)
		}
	}
	return out
}

// Meta returns the sync metadata of the current snapshot.
func (s *State) Meta() SyncMeta {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.meta
}
