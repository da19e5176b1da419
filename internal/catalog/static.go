package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/lotteryops/sentinelbet/internal/domain"
)

// The bundled offline catalog. It satisfies the same schema as live provider
// data so everything downstream of acquisition is source-agnostic.
//
//go:embed static_catalog.json
var staticCatalogJSON []byte

// StaticSource is the Source value reported when the offline catalog is
// active.
const StaticSource = "static"

type staticCatalog struct {
	Version string         `json:"version"`
	Matches []domain.Match `json:"matches"`
}

// LoadStatic decodes the bundled catalog snapshot and returns its matches and
// snapshot version.
func LoadStatic() ([]domain.Match, string, error) {
	var sc staticCatalog
	if err := json.Unmarshal(staticCatalogJSON, &sc); err != nil {
		return nil, "", fmt.Errorf("catalog: decode static catalog: %w", err)
	}
	if len(sc.Matches) == 0 {
		return nil, "", fmt.Errorf("catalog: static catalog is empty: %w", domain.ErrSchema)
	}
	return sc.Matches, sc.Version, nil
}
