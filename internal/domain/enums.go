package domain

type Category string

const (
	CategoryFoundation  Category = "foundation"
	CategoryWalls       Category = "walls"
	CategoryFloor       Category = "floor"
	CategoryRoof        Category = "roof"
	CategoryOpenings    Category = "openings"
	CategoryLandscaping Category = "landscaping"
)

// Categories is the fixed build order. Schedules, funding and day lookup all
// walk categories in this order.
var Categories = []Category{
	CategoryFoundation,
	CategoryWalls,
	CategoryFloor,
	CategoryRoof,
	CategoryOpenings,
	CategoryLandscaping,
}

// ValidCategories is the canonical set of accepted category strings.
var ValidCategories = map[string]bool{
	"foundation": true, "walls": true, "floor": true,
	"roof": true, "openings": true, "landscaping": true,
}

// ParseCategory converts s into a Category, reporting whether it is known.
func ParseCategory(s string) (Category, bool) {
	if !ValidCategories[s] {
		return "", false
	}
	return Category(s), true
}

type Solution string

const (
	SolutionPay   Solution = "solution"
	SolutionDelay Solution = "alternative"
)

// ParseSolution accepts the stored names plus the short aliases used on the
// command line.
func ParseSolution(s string) (Solution, bool) {
	switch s {
	case "solution", "pay", "s":
		return SolutionPay, true
	case "alternative", "delay", "a":
		return SolutionDelay, true
	}
	return "", false
}

type PeriodState string

const (
	PeriodOpen               PeriodState = "open"
	PeriodAwaitingResolution PeriodState = "awaiting_resolution"
	PeriodResolved           PeriodState = "resolved"
	PeriodSealed             PeriodState = "sealed"
)

type SimulationStatus string

const (
	SimulationRunning   SimulationStatus = "running"
	SimulationCompleted SimulationStatus = "completed"
)

type WallsStage string

const (
	WallsNone        WallsStage = "none"
	WallsFirstFloor  WallsStage = "first_floor"
	WallsSecondFloor WallsStage = "second_floor"
)
