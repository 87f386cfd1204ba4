package importer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/alexanderramin/housebudget/internal/catalog"
	"github.com/alexanderramin/housebudget/internal/domain"
)

// ValidatePlanFile checks the plan against the catalog. It returns every
// problem found so the user can fix the file in one pass.
func ValidatePlanFile(pf *PlanFile, cat *catalog.Catalog) []error {
	var errs []error

	if pf.Budget <= 0 {
		errs = append(errs, fmt.Errorf("budget must be positive"))
	}
	if pf.Duration <= 0 {
		errs = append(errs, fmt.Errorf("duration must be positive"))
	}
	if len(pf.Selections) == 0 {
		errs = append(errs, fmt.Errorf("selections: at least one category is required"))
	}

	keys := make([]string, 0, len(pf.Selections))
	for k := range pf.Selections {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		prefix := "selections." + key
		category, ok := domain.ParseCategory(key)
		if !ok {
			errs = append(errs, fmt.Errorf("%s: unknown category", prefix))
			continue
		}
		id := pf.Selections[key]
		opt, found := cat.Option(id)
		if !found {
			_, suggestions, _ := cat.ResolveOption(category, id)
			errs = append(errs, unknownOptionError(prefix, id, suggestions))
			continue
		}
		if opt.Category != category {
			errs = append(errs, fmt.Errorf("%s: option %q belongs to %s", prefix, id, opt.Category))
		}
	}

	return errs
}

func unknownOptionError(prefix, id string, suggestions []string) error {
	if len(suggestions) == 0 {
		return fmt.Errorf("%s: unknown option %q", prefix, id)
	}
	return fmt.Errorf("%s: unknown option %q (did you mean %s?)", prefix, id, strings.Join(suggestions, ", "))
}
