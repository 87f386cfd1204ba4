package importer

import (
	"fmt"

	"github.com/alexanderramin/housebudget/internal/catalog"
	"github.com/alexanderramin/housebudget/internal/domain"
)

// Convert builds a plan from a validated file. Call ValidatePlanFile first;
// Convert only guards against lookups that would otherwise panic.
func Convert(pf *PlanFile, cat *catalog.Catalog) (domain.Plan, error) {
	plan := domain.NewPlan(pf.Budget, pf.Duration)
	for key, id := range pf.Selections {
		opt, ok := cat.Option(id)
		if !ok {
			return domain.Plan{}, fmt.Errorf("selections.%s: unknown option %q", key, id)
		}
		plan.Select(opt)
	}
	return plan, nil
}
