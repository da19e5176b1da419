package portfolio

import "github.com/lotteryops/sentinelbet/internal/domain"

// Summary is the combinatorial shape of a portfolio: how many distinct
// parlays it expands to and the achievable combined-odds range. Derived, not
// stored; recomputed on every mutation.
type Summary struct {
	Count   int     `json:"count"`
	MinOdds float64 `json:"min_odds"`
	MaxOdds float64 `json:"max_odds"`
}

// Summarize computes the parlay summary of the given selections. Selections
// are grouped by match; a parlay picks exactly one selection per group, so
// Count is the product of group sizes and the odds bounds are the products of
// each group's cheapest and dearest price. Multiplication follows first-seen
// group order so results are reproducible bit-for-bit. An empty portfolio
// yields a zero Summary.
func Summarize(selections []domain.Selection) Summary {
	if len(selections) == 0 {
		return Summary{}
	}

	type group struct {
		size int
		min  float64
		max  float64
	}
	index := make(map[string]int)
	var groups []group

	for _, sel := range selections {
		i, ok := index[sel.MatchID]
		if !ok {
			i = len(groups)
			index[sel.MatchID] = i
			groups = append(groups, group{min: sel.Odds, max: sel.Odds})
		}
		g := &groups[i]
		g.size++
		if sel.Odds < g.min {
			g.min = sel.Odds
		}
		if sel.Odds > g.max {
			g.max = sel.Odds
		}
	}

	sum := Summary{Count: 1, MinOdds: 1, MaxOdds: 1}
	for _, g := range groups {
		sum.Count *= g.size
		sum.MinOdds *= g.min
		sum.MaxOdds *= g.max
	}
	return sum
}
