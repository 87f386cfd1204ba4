package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/housebudget/internal/catalog"
	"github.com/alexanderramin/housebudget/internal/cli/formatter"
	"github.com/alexanderramin/housebudget/internal/domain"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// housebudgetHuhTheme returns a huh theme using the Gruvbox palette.
func housebudgetHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	// Focused state: orange accent
	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	// Blurred state: dimmed
	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// planAnswers is the wizard's scratch space. huh binds to strings, so the
// ceilings are parsed only when the plan is built.
type planAnswers struct {
	name       string
	budget     string
	duration   string
	selections map[domain.Category]*string
}

func newPlanAnswers(seed domain.Plan, name string) *planAnswers {
	a := &planAnswers{
		name:       name,
		budget:     strconv.Itoa(seed.Budget),
		duration:   strconv.Itoa(seed.Duration),
		selections: make(map[domain.Category]*string, len(domain.Categories)),
	}
	for _, c := range domain.Categories {
		id := ""
		if opt, ok := seed.Option(c); ok {
			id = opt.ID
		}
		a.selections[c] = &id
	}
	return a
}

// plan turns the answers into a validated plan. Categories left on "skip"
// stay empty.
func (a *planAnswers) plan(cat *catalog.Catalog) (domain.Plan, error) {
	budget, err := strconv.Atoi(strings.TrimSpace(a.budget))
	if err != nil {
		return domain.Plan{}, fmt.Errorf("invalid budget %q", a.budget)
	}
	duration, err := strconv.Atoi(strings.TrimSpace(a.duration))
	if err != nil {
		return domain.Plan{}, fmt.Errorf("invalid duration %q", a.duration)
	}

	plan := domain.NewPlan(budget, duration)
	for _, c := range domain.Categories {
		id := a.selections[c]
		if id == nil || *id == "" {
			continue
		}
		opt, ok := cat.Option(*id)
		if !ok {
			return domain.Plan{}, fmt.Errorf("unknown option %q", *id)
		}
		plan.Select(opt)
	}
	if len(plan.Selections) == 0 {
		return domain.Plan{}, errors.New("pick at least one option")
	}
	if err := plan.Validate(); err != nil {
		return domain.Plan{}, err
	}
	return plan, nil
}

// planWizardForm asks for the name and ceilings, then one option per
// category in build order.
func planWizardForm(cat *catalog.Catalog, a *planAnswers) *huh.Form {
	groups := []*huh.Group{
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Placeholder("my house").
				Value(&a.name),
			huh.NewInput().
				Title("Budget").
				Value(&a.budget).
				Validate(validatePositiveInt),
			huh.NewInput().
				Title("Deadline (days)").
				Value(&a.duration).
				Validate(validatePositiveInt),
		),
	}

	for _, def := range cat.Categories() {
		options := []huh.Option[string]{huh.NewOption("skip", "")}
		for _, o := range cat.Options(def.ID) {
			label := fmt.Sprintf("%s  %s, %s", o.Name, formatter.FormatMoney(o.Cost), formatter.FormatDays(o.Duration))
			options = append(options, huh.NewOption(label, o.ID))
		}
		title := def.Title
		if title == "" {
			title = string(def.ID)
		}
		groups = append(groups, huh.NewGroup(
			huh.NewSelect[string]().
				Title(title).
				Description(def.Description).
				Options(options...).
				Value(a.selections[def.ID]),
		))
	}

	return huh.NewForm(groups...).WithTheme(housebudgetHuhTheme()).WithShowHelp(false)
}

func validatePositiveInt(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return errors.New("must be a positive whole number")
	}
	return nil
}
