package cli

import (
	"fmt"

	"github.com/alexanderramin/housebudget/internal/catalog"
	"github.com/alexanderramin/housebudget/internal/cli/formatter"
	"github.com/alexanderramin/housebudget/internal/domain"
	"github.com/spf13/cobra"
)

func newCatalogCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "catalog [category]",
		Short: "List construction options and risks",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var category domain.Category
			if len(args) == 1 {
				c, err := resolveCategory(args[0])
				if err != nil {
					return err
				}
				category = c
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatCatalog(app.Catalog, category))
			return nil
		},
	}
}

// resolveCategory accepts full names, unique prefixes and near misses, and
// reports suggestions for anything else.
func resolveCategory(input string) (domain.Category, error) {
	c, suggestions, ok := catalog.ResolveCategory(input)
	if ok {
		return c, nil
	}
	return "", unknownError("category", input, suggestions)
}

func resolveOption(app *App, category domain.Category, input string) (domain.ConstructionOption, error) {
	opt, suggestions, ok := app.Catalog.ResolveOption(category, input)
	if ok {
		return opt, nil
	}
	kind := "option"
	if category != "" {
		kind = string(category) + " option"
	}
	return domain.ConstructionOption{}, unknownError(kind, input, suggestions)
}

func unknownError(kind, input string, suggestions []string) error {
	if len(suggestions) == 0 {
		return fmt.Errorf("unknown %s %q", kind, input)
	}
	return fmt.Errorf("unknown %s %q (did you mean %s?)", kind, input, joinOr(suggestions))
}

func joinOr(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	}
	out := items[0]
	for _, s := range items[1 : len(items)-1] {
		out += ", " + s
	}
	return out + " or " + items[len(items)-1]
}
