package testutil

import (
	"testing"
	"time"

	"github.com/alexanderramin/housebudget/internal/catalog"
	"github.com/alexanderramin/housebudget/internal/domain"
	"github.com/google/uuid"
)

// ReferenceOptions is the catalog selection that costs exactly 50000 and
// lasts exactly 90 days.
var ReferenceOptions = map[domain.Category]string{
	domain.CategoryFoundation:  "slab",
	domain.CategoryWalls:       "brick",
	domain.CategoryFloor:       "parquet",
	domain.CategoryRoof:        "ceramic",
	domain.CategoryOpenings:    "wood",
	domain.CategoryLandscaping: "garden",
}

type PlanOption func(*domain.Plan)

func WithBudget(b int) PlanOption {
	return func(p *domain.Plan) {
		p.Budget = b
	}
}

func WithDuration(d int) PlanOption {
	return func(p *domain.Plan) {
		p.Duration = d
	}
}

func WithOption(opt domain.ConstructionOption) PlanOption {
	return func(p *domain.Plan) {
		p.Select(opt)
	}
}

// WithoutCategory clears a category slot.
func WithoutCategory(c domain.Category) PlanOption {
	return func(p *domain.Plan) {
		delete(p.Selections, c)
	}
}

// NewTestPlan returns the reference plan (budget 50000, duration 90) with
// opts applied on top.
func NewTestPlan(t *testing.T, opts ...PlanOption) domain.Plan {
	t.Helper()
	cat := catalog.MustLoad()
	plan := domain.NewPlan(50000, 90)
	for _, c := range domain.Categories {
		opt, ok := cat.Option(ReferenceOptions[c])
		if !ok {
			t.Fatalf("reference option %q missing from catalog", ReferenceOptions[c])
		}
		plan.Select(opt)
	}
	for _, o := range opts {
		o(&plan)
	}
	return plan
}

// NewSinglePlan returns a plan holding only opt, with budget and duration
// equal to its cost and duration.
func NewSinglePlan(opt domain.ConstructionOption) domain.Plan {
	plan := domain.NewPlan(opt.Cost, opt.Duration)
	plan.Select(opt)
	return plan
}

// CatalogOption looks up id in the embedded catalog or fails the test.
func CatalogOption(t *testing.T, id string) domain.ConstructionOption {
	t.Helper()
	opt, ok := catalog.MustLoad().Option(id)
	if !ok {
		t.Fatalf("option %q missing from catalog", id)
	}
	return opt
}

// NewTestRisk builds a risk for pools in tests.
func NewTestRisk(id string, c domain.Category, cost, duration int, styles ...string) domain.Risk {
	return domain.Risk{
		ID:              id,
		Category:        c,
		Styles:          styles,
		Title:           id,
		SolutionText:    "pay to fix",
		AlternativeText: "wait it out",
		Cost:            cost,
		Duration:        duration,
	}
}

type SimulationOption func(*domain.SimulationRecord)

func WithSimulationName(name string) SimulationOption {
	return func(s *domain.SimulationRecord) {
		s.Name = name
	}
}

func WithSimulationStatus(status domain.SimulationStatus) SimulationOption {
	return func(s *domain.SimulationRecord) {
		s.Status = status
	}
}

func WithSimulationID(id string) SimulationOption {
	return func(s *domain.SimulationRecord) {
		s.ID = id
	}
}

func WithCreatedAt(at time.Time) SimulationOption {
	return func(s *domain.SimulationRecord) {
		s.CreatedAt = at
		s.UpdatedAt = at
	}
}

// NewTestSimulationRecord returns a running simulation header with an
// opaque snapshot blob.
func NewTestSimulationRecord(opts ...SimulationOption) *domain.SimulationRecord {
	now := time.Now().UTC()
	s := &domain.SimulationRecord{
		ID:        uuid.New().String(),
		Name:      "test build",
		Status:    domain.SimulationRunning,
		Budget:    50000,
		Duration:  90,
		Seed:      7,
		Snapshot:  []byte{0x01},
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}
