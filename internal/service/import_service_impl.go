package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/housebudget/internal/catalog"
	"github.com/alexanderramin/housebudget/internal/contract"
	"github.com/alexanderramin/housebudget/internal/domain"
	"github.com/alexanderramin/housebudget/internal/importer"
)

type planImportService struct {
	sims     SimulationService
	catalog  *catalog.Catalog
	observer UseCaseObserver
}

func NewPlanImportService(sims SimulationService, cat *catalog.Catalog, observers ...UseCaseObserver) PlanImportService {
	return &planImportService{
		sims:     sims,
		catalog:  cat,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *planImportService) ImportPlan(ctx context.Context, filePath string) (rec *domain.SimulationRecord, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"path": filePath}
	defer func() { observe(ctx, s.observer, "import-plan", startedAt, fields, err) }()

	pf, err := importer.LoadPlanFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("loading plan file: %w", err)
	}
	return s.ImportPlanFromSchema(ctx, pf)
}

func (s *planImportService) ImportPlanFromSchema(ctx context.Context, pf *importer.PlanFile) (*domain.SimulationRecord, error) {
	if errs := importer.ValidatePlanFile(pf, s.catalog); len(errs) > 0 {
		return nil, formatValidationErrors(errs)
	}

	plan, err := importer.Convert(pf, s.catalog)
	if err != nil {
		return nil, fmt.Errorf("converting plan: %w", err)
	}

	req := contract.NewCreateSimulationRequest(plan)
	req.Name = pf.Name
	req.Seed = pf.Seed
	return s.sims.Create(ctx, req)
}

func formatValidationErrors(errs []error) error {
	msg := fmt.Sprintf("plan validation failed (%d errors):", len(errs))
	for _, e := range errs {
		msg += "\n  - " + e.Error()
	}
	return fmt.Errorf("%s", msg)
}
