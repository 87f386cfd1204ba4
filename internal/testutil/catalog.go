package testutil

import (
	"testing"

	"github.com/alexanderramin/housebudget/internal/catalog"
)

// stormCatalogYAML holds the reference options, one alternative per
// category and a single risk, so every draw is the same storm.
const stormCatalogYAML = `
version: test
options:
  - {id: strip, category: foundation, style: strip, name: Strip footing, cost: 4300, duration: 9}
  - {id: slab, category: foundation, style: slab, name: Monolithic slab, cost: 9000, duration: 15}
  - {id: brick, category: walls, style: brick, name: Brick masonry, cost: 15000, duration: 25}
  - {id: timber, category: walls, style: timber, name: Timber frame, cost: 12000, duration: 20}
  - {id: parquet, category: floor, style: parquet, name: Oak parquet, cost: 6000, duration: 10}
  - {id: tile, category: floor, style: tile, name: Porcelain tile, cost: 5000, duration: 12}
  - {id: ceramic, category: roof, style: ceramic, name: Ceramic tile, cost: 10000, duration: 16}
  - {id: metal, category: roof, style: metal, name: Metal sheet, cost: 7000, duration: 12}
  - {id: wood, category: openings, style: wood, name: Wooden frames, cost: 7000, duration: 10}
  - {id: pvc, category: openings, style: pvc, name: PVC frames, cost: 5000, duration: 7}
  - {id: garden, category: landscaping, style: garden, name: Garden beds, cost: 3000, duration: 14}
  - {id: lawn, category: landscaping, style: lawn, name: Lawn, cost: 2000, duration: 5}
risks:
  - id: storm
    category: roof
    title: Storm
    description: A storm tears off part of the roof.
    solution: Pay a crew to repair the roof.
    alternative: Wait for the weather and repair it yourself.
    cost: 2500
    duration: 5
`

// NewStormCatalog returns a catalog whose only risk is a 2500/5 storm on
// the roof.
func NewStormCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.Parse([]byte(stormCatalogYAML))
	if err != nil {
		t.Fatalf("parsing storm catalog: %v", err)
	}
	return cat
}
