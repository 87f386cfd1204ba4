package contract

import "github.com/alexanderramin/housebudget/internal/domain"

type CreateSimulationRequest struct {
	Name string
	Plan domain.Plan
	// Seed fixes the risk draws. Zero asks the service for a fresh seed.
	Seed uint64
}

func NewCreateSimulationRequest(plan domain.Plan) CreateSimulationRequest {
	return CreateSimulationRequest{Plan: plan}
}

// ActionResult is returned by every mutating simulation call. Applied is
// false when the engine ignored the call; Reason then says why.
type ActionResult struct {
	Applied bool
	Reason  string
	Records []domain.DayRecord
	Change  *domain.ConstructionChange
	Status  *SimulationStatusView
}

// Rejected builds a result for a call the engine refused.
func Rejected(reason string, status *SimulationStatusView) *ActionResult {
	return &ActionResult{Reason: reason, Status: status}
}

type LeaderboardRequest struct {
	Limit int
}

func NewLeaderboardRequest() LeaderboardRequest {
	return LeaderboardRequest{Limit: 10}
}

type LeaderboardEntry struct {
	Rank   int
	Result domain.Result
}
