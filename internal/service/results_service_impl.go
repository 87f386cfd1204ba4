package service

import (
	"context"

	"github.com/alexanderramin/housebudget/internal/contract"
	"github.com/alexanderramin/housebudget/internal/domain"
	"github.com/alexanderramin/housebudget/internal/repository"
)

type resultService struct {
	results repository.ResultRepo
}

func NewResultService(results repository.ResultRepo) ResultService {
	return &resultService{results: results}
}

func (s *resultService) Get(ctx context.Context, simulationID string) (*domain.Result, error) {
	return s.results.GetBySimulation(ctx, simulationID)
}

// Leaderboard ranks finished builds. Ties on duration and cost share a rank.
func (s *resultService) Leaderboard(ctx context.Context, req contract.LeaderboardRequest) ([]contract.LeaderboardEntry, error) {
	rows, err := s.results.Leaderboard(ctx, req.Limit)
	if err != nil {
		return nil, err
	}

	entries := make([]contract.LeaderboardEntry, 0, len(rows))
	for i, r := range rows {
		rank := i + 1
		if i > 0 {
			prev := entries[i-1]
			if prev.Result.ActualDuration == r.ActualDuration && prev.Result.ActualCost == r.ActualCost {
				rank = prev.Rank
			}
		}
		entries = append(entries, contract.LeaderboardEntry{Rank: rank, Result: *r})
	}
	return entries, nil
}
