package importer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/alexanderramin/housebudget/internal/catalog"
	"github.com/alexanderramin/housebudget/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const referencePlanJSON = `{
  "name": "reference",
  "budget": 50000,
  "duration": 90,
  "seed": 42,
  "selections": {
    "foundation": "slab",
    "walls": "brick",
    "floor": "parquet",
    "roof": "ceramic",
    "openings": "wood",
    "landscaping": "garden"
  }
}`

func TestParsePlanFile_Valid(t *testing.T) {
	pf, err := ParsePlanFile([]byte(referencePlanJSON))
	require.NoError(t, err)

	assert.Equal(t, "reference", pf.Name)
	assert.Equal(t, 50000, pf.Budget)
	assert.Equal(t, 90, pf.Duration)
	assert.Equal(t, uint64(42), pf.Seed)
	assert.Len(t, pf.Selections, 6)
	assert.Equal(t, "brick", pf.Selections["walls"])
}

func TestParsePlanFile_SchemaViolations(t *testing.T) {
	cases := map[string]string{
		"missing budget":     `{"duration": 90, "selections": {"roof": "metal"}}`,
		"zero duration":      `{"budget": 100, "duration": 0, "selections": {"roof": "metal"}}`,
		"unknown category":   `{"budget": 100, "duration": 10, "selections": {"kitchen": "oak"}}`,
		"extra property":     `{"budget": 100, "duration": 10, "colour": "red", "selections": {"roof": "metal"}}`,
		"no selections":      `{"budget": 100, "duration": 10, "selections": {}}`,
		"fractional budget":  `{"budget": 10.5, "duration": 10, "selections": {"roof": "metal"}}`,
		"empty option id":    `{"budget": 100, "duration": 10, "selections": {"roof": ""}}`,
		"budget wrong type":  `{"budget": "lots", "duration": 10, "selections": {"roof": "metal"}}`,
		"selections as list": `{"budget": 100, "duration": 10, "selections": ["metal"]}`,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParsePlanFile([]byte(doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "does not match schema")
		})
	}
}

func TestParsePlanFile_MalformedJSON(t *testing.T) {
	_, err := ParsePlanFile([]byte(`{"budget": `))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing plan file")
}

func TestLoadPlanFile_ReadsFromDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.json")
	require.NoError(t, os.WriteFile(path, []byte(referencePlanJSON), 0o644))

	pf, err := LoadPlanFile(path)
	require.NoError(t, err)
	assert.Equal(t, "slab", pf.Selections["foundation"])

	_, err = LoadPlanFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestValidatePlanFile_Reference(t *testing.T) {
	pf, err := ParsePlanFile([]byte(referencePlanJSON))
	require.NoError(t, err)

	assert.Empty(t, ValidatePlanFile(pf, catalog.MustLoad()))
}

func TestValidatePlanFile_CatalogProblems(t *testing.T) {
	pf := &PlanFile{
		Budget:   50000,
		Duration: 90,
		Selections: map[string]string{
			"floor": "parqet",
			"roof":  "slab",
		},
	}

	errs := ValidatePlanFile(pf, catalog.MustLoad())
	require.Len(t, errs, 2)
	assert.EqualError(t, errs[0], `selections.floor: unknown option "parqet" (did you mean parquet?)`)
	assert.EqualError(t, errs[1], `selections.roof: option "slab" belongs to foundation`)
}

func TestValidatePlanFile_CollectsAllErrors(t *testing.T) {
	errs := ValidatePlanFile(&PlanFile{Selections: map[string]string{"attic": "x"}}, catalog.MustLoad())

	assert.Len(t, errs, 3)
}

func TestConvert_BuildsPlan(t *testing.T) {
	pf, err := ParsePlanFile([]byte(referencePlanJSON))
	require.NoError(t, err)

	plan, err := Convert(pf, catalog.MustLoad())
	require.NoError(t, err)
	assert.Equal(t, 50000, plan.TotalCost())
	assert.Equal(t, 90, plan.TotalDuration())
	opt, ok := plan.Option(domain.CategoryRoof)
	require.True(t, ok)
	assert.Equal(t, "ceramic", opt.ID)
	require.NoError(t, plan.Validate())
}

func TestConvert_UnknownOption(t *testing.T) {
	_, err := Convert(&PlanFile{Budget: 1, Duration: 1, Selections: map[string]string{"roof": "thatch"}}, catalog.MustLoad())
	assert.Error(t, err)
}
