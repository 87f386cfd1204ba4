// Package catalog holds the static reference data of the simulator: the
// construction categories, their options and the pool of risks.
package catalog

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/alexanderramin/housebudget/internal/domain"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var embedded []byte

// CategoryDef describes one construction category.
type CategoryDef struct {
	ID          domain.Category `yaml:"id"`
	Title       string          `yaml:"title"`
	Description string          `yaml:"description"`
}

type optionDef struct {
	ID       string `yaml:"id"`
	Category string `yaml:"category"`
	Style    string `yaml:"style"`
	Name     string `yaml:"name"`
	Cost     int    `yaml:"cost"`
	Duration int    `yaml:"duration"`
}

type riskDef struct {
	ID          string   `yaml:"id"`
	Category    string   `yaml:"category"`
	Styles      []string `yaml:"styles"`
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Solution    string   `yaml:"solution"`
	Alternative string   `yaml:"alternative"`
	Cost        int      `yaml:"cost"`
	Duration    int      `yaml:"duration"`
}

type catalogFile struct {
	Version    string        `yaml:"version"`
	Categories []CategoryDef `yaml:"categories"`
	Options    []optionDef   `yaml:"options"`
	Risks      []riskDef     `yaml:"risks"`
}

// Catalog is immutable after Load. Lookups never mutate it.
type Catalog struct {
	Version    string
	categories []CategoryDef
	options    []domain.ConstructionOption
	risks      []domain.Risk

	optionByID map[string]domain.ConstructionOption
	riskByID   map[string]domain.Risk
}

// Load parses the catalog compiled into the binary.
func Load() (*Catalog, error) {
	return Parse(embedded)
}

// MustLoad is Load for callers that cannot proceed without the built-in data.
func MustLoad() *Catalog {
	c, err := Load()
	if err != nil {
		panic(fmt.Sprintf("embedded catalog: %v", err))
	}
	return c
}

// LoadFile parses a catalog from disk, replacing the embedded one.
func LoadFile(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}
	c, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Parse decodes and validates YAML catalog data.
func Parse(raw []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("catalog yaml: %w", err)
	}

	c := &Catalog{
		Version:    f.Version,
		categories: f.Categories,
		optionByID: make(map[string]domain.ConstructionOption, len(f.Options)),
		riskByID:   make(map[string]domain.Risk, len(f.Risks)),
	}

	for _, od := range f.Options {
		cat, ok := domain.ParseCategory(od.Category)
		if !ok {
			return nil, fmt.Errorf("option %q: unknown category %q", od.ID, od.Category)
		}
		if od.Cost <= 0 || od.Duration <= 0 {
			return nil, fmt.Errorf("option %q: cost and duration must be positive", od.ID)
		}
		if _, dup := c.optionByID[od.ID]; dup {
			return nil, fmt.Errorf("option %q: duplicate id", od.ID)
		}
		opt := domain.ConstructionOption{
			ID:       od.ID,
			Category: cat,
			Style:    od.Style,
			Name:     od.Name,
			Cost:     od.Cost,
			Duration: od.Duration,
		}
		c.options = append(c.options, opt)
		c.optionByID[opt.ID] = opt
	}

	for _, rd := range f.Risks {
		cat, ok := domain.ParseCategory(rd.Category)
		if !ok {
			return nil, fmt.Errorf("risk %q: unknown category %q", rd.ID, rd.Category)
		}
		if rd.Cost <= 0 || rd.Duration <= 0 {
			return nil, fmt.Errorf("risk %q: cost and duration must be positive", rd.ID)
		}
		if _, dup := c.riskByID[rd.ID]; dup {
			return nil, fmt.Errorf("risk %q: duplicate id", rd.ID)
		}
		r := domain.Risk{
			ID:              rd.ID,
			Category:        cat,
			Styles:          rd.Styles,
			Title:           rd.Title,
			Description:     rd.Description,
			SolutionText:    rd.Solution,
			AlternativeText: rd.Alternative,
			Cost:            rd.Cost,
			Duration:        rd.Duration,
		}
		c.risks = append(c.risks, r)
		c.riskByID[r.ID] = r
	}

	if len(c.risks) == 0 {
		return nil, fmt.Errorf("catalog defines no risks")
	}
	return c, nil
}

// Categories returns the category descriptions in build order.
func (c *Catalog) Categories() []CategoryDef {
	out := make([]CategoryDef, 0, len(domain.Categories))
	for _, id := range domain.Categories {
		def := CategoryDef{ID: id, Title: string(id)}
		for _, d := range c.categories {
			if d.ID == id {
				def = d
				break
			}
		}
		out = append(out, def)
	}
	return out
}

// Options returns every option of category in catalog order.
func (c *Catalog) Options(category domain.Category) []domain.ConstructionOption {
	var out []domain.ConstructionOption
	for _, o := range c.options {
		if o.Category == category {
			out = append(out, o)
		}
	}
	return out
}

// AllOptions returns every option in catalog order.
func (c *Catalog) AllOptions() []domain.ConstructionOption {
	return append([]domain.ConstructionOption(nil), c.options...)
}

func (c *Catalog) Option(id string) (domain.ConstructionOption, bool) {
	o, ok := c.optionByID[id]
	return o, ok
}

// Risks returns a copy of the full risk pool.
func (c *Catalog) Risks() []domain.Risk {
	out := make([]domain.Risk, len(c.risks))
	copy(out, c.risks)
	return out
}

func (c *Catalog) Risk(id string) (domain.Risk, bool) {
	r, ok := c.riskByID[id]
	return r, ok
}
