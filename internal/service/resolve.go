package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/housebudget/internal/domain"
	"github.com/alexanderramin/housebudget/internal/repository"
)

// resolveSimulation accepts a full ID or a unique prefix of one.
func resolveSimulation(ctx context.Context, repo repository.SimulationRepo, ref string) (*domain.SimulationRecord, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, fmt.Errorf("simulation id is required")
	}

	rec, err := repo.GetByID(ctx, ref)
	if err == nil {
		return rec, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	matches, err := repo.FindByPrefix(ctx, ref)
	if err != nil {
		return nil, err
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("simulation %q: %w", ref, repository.ErrNotFound)
	case 1:
		return matches[0], nil
	}

	ids := make([]string, len(matches))
	for i, m := range matches {
		ids[i] = m.DisplayID()
	}
	return nil, fmt.Errorf("%w: %q matches %s", ErrAmbiguousID, ref, strings.Join(ids, ", "))
}
