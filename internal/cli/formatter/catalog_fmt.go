package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/housebudget/internal/catalog"
	"github.com/alexanderramin/housebudget/internal/domain"
)

// FormatCatalog lists the options of every category, or of only one when
// category is set, followed by the risks that can hit them.
func FormatCatalog(cat *catalog.Catalog, category domain.Category) string {
	var b strings.Builder
	for _, def := range cat.Categories() {
		if category != "" && def.ID != category {
			continue
		}
		title := def.Title
		if title == "" {
			title = string(def.ID)
		}
		b.WriteString(Header(title))
		b.WriteString("\n")
		if def.Description != "" {
			b.WriteString(Dim(def.Description) + "\n")
		}
		b.WriteString(FormatOptions(cat.Options(def.ID)))
		b.WriteString("\n")
	}

	var risks []domain.Risk
	for _, r := range cat.Risks() {
		if category == "" || r.Category == category {
			risks = append(risks, r)
		}
	}
	if len(risks) > 0 {
		b.WriteString(Header("Risks"))
		b.WriteString("\n")
		b.WriteString(FormatRisks(risks))
	}
	return b.String()
}

func FormatOptions(opts []domain.ConstructionOption) string {
	rows := make([][]string, 0, len(opts))
	for _, o := range opts {
		rows = append(rows, []string{
			Bold(o.ID),
			o.Name,
			FormatMoney(o.Cost),
			FormatDays(o.Duration),
		})
	}
	return RenderTable([]string{"ID", "NAME", "COST", "DURATION"}, rows, 2, 3)
}

func FormatRisks(risks []domain.Risk) string {
	rows := make([][]string, 0, len(risks))
	for _, r := range risks {
		styles := Dim("any")
		if len(r.Styles) > 0 {
			styles = strings.Join(r.Styles, ", ")
		}
		rows = append(rows, []string{
			r.Title,
			CategoryBadge(r.Category),
			styles,
			fmt.Sprintf("%s / %s", FormatMoney(r.Cost), FormatDays(r.Duration)),
		})
	}
	return RenderTable([]string{"RISK", "CATEGORY", "STYLES", "COST / DELAY"}, rows)
}
