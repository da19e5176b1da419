package catalog

import "github.com/lotteryops/sentinelbet/internal/platform/genai"

// catalogSchema pins provider responses to the Match array shape. Sent with
// every catalog request so the model emits decodable records in the first
// place; decodeCatalog remains the authoritative boundary for what is
// actually accepted.
var catalogSchema = &genai.Schema{
	Type: "ARRAY",
	Items: &genai.Schema{
		Type: "OBJECT",
		Properties: map[string]*genai.Schema{
			"id":            {Type: "STRING"},
			"sport":         {Type: "STRING", Enum: []string{"FOOTBALL", "BASKETBALL"}},
			"homeTeam":      {Type: "STRING"},
			"awayTeam":      {Type: "STRING"},
			"league":        {Type: "STRING"},
			"startTime":     {Type: "STRING"},
			"match_context": matchContextSchema(),
		},
		Required: []string{"id", "sport", "homeTeam", "awayTeam", "league", "startTime", "match_context"},
	},
}

func matchContextSchema() *genai.Schema {
	return &genai.Schema{
		Type: "OBJECT",
		Properties: map[string]*genai.Schema{
			"injuries": {
				Type: "ARRAY",
				Items: &genai.Schema{
					Type: "OBJECT",
					Properties: map[string]*genai.Schema{
						"player":     {Type: "STRING"},
						"status":     {Type: "STRING"},
						"importance": {Type: "STRING"},
					},
				},
			},
			"recent_form": {
				Type: "OBJECT",
				Properties: map[string]*genai.Schema{
					"home": {Type: "STRING"},
					"away": {Type: "STRING"},
				},
			},
			"international_odds": {
				Type: "OBJECT",
				Properties: map[string]*genai.Schema{
					"wdl":  threeWaySchema(),
					"wdhl": threeWaySchema(),
					"totals_odds": {
						Type: "OBJECT",
						Properties: map[string]*genai.Schema{
							"over":  {Type: "NUMBER"},
							"under": {Type: "NUMBER"},
						},
					},
					"total_goals": ladderSchema(),
					"trend":       {Type: "STRING"},
					"kelly_index": threeWaySchema(),
				},
			},
			"markets": {
				Type: "OBJECT",
				Properties: map[string]*genai.Schema{
					"correct_score": ladderSchema(),
					"handicap":      {Type: "STRING"},
					"totals":        {Type: "STRING"},
				},
			},
			"stats": {
				Type: "OBJECT",
				Properties: map[string]*genai.Schema{
					"home_off_rating": {Type: "NUMBER"},
					"away_def_rating": {Type: "NUMBER"},
					"goal_avg_home":   {Type: "NUMBER"},
					"goal_avg_away":   {Type: "NUMBER"},
				},
			},
			"league_rank": {
				Type: "OBJECT",
				Properties: map[string]*genai.Schema{
					"home": {Type: "INTEGER"},
					"away": {Type: "INTEGER"},
				},
			},
			"motivation_level": {Type: "STRING"},
			"news_sentiment":   {Type: "STRING"},
		},
		Required: []string{"markets", "league_rank"},
	}
}

// threeWaySchema quotes a win/draw/loss price triple; the draw is omitted on
// two-way (basketball) markets.
func threeWaySchema() *genai.Schema {
	return &genai.Schema{
		Type: "OBJECT",
		Properties: map[string]*genai.Schema{
			"h": {Type: "NUMBER"},
			"d": {Type: "NUMBER"},
			"a": {Type: "NUMBER"},
		},
	}
}

// ladderSchema is a list of label/value/odds lines (correct score, total
// goals).
func ladderSchema() *genai.Schema {
	return &genai.Schema{
		Type: "ARRAY",
		Items: &genai.Schema{
			Type: "OBJECT",
			Properties: map[string]*genai.Schema{
				"label": {Type: "STRING"},
				"value": {Type: "STRING"},
				"odds":  {Type: "NUMBER"},
			},
			Required: []string{"value", "odds"},
		},
	}
}
