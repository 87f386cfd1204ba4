package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/housebudget/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

// Predefined lipgloss styles.
var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// PeriodStatePill returns a colored indicator for a period's lifecycle state.
func PeriodStatePill(state domain.PeriodState) string {
	switch state {
	case domain.PeriodAwaitingResolution:
		return StyleYellow.Render("● Needs decision")
	case domain.PeriodResolved:
		return StyleGreen.Render("● Resolved")
	case domain.PeriodOpen:
		return StyleBlue.Render("○ Open")
	case domain.PeriodSealed:
		return StyleDim.Render("✔ Sealed")
	default:
		return StyleDim.Render(string(state))
	}
}

// SimulationStatusPill returns a colored indicator for a simulation's status.
func SimulationStatusPill(status domain.SimulationStatus) string {
	switch status {
	case domain.SimulationRunning:
		return StyleGreen.Render("● Running")
	case domain.SimulationCompleted:
		return StyleDim.Render("✔ Completed")
	default:
		return StyleDim.Render(string(status))
	}
}

// BudgetIndicator colors a signed remainder: red when negative, green otherwise.
func BudgetIndicator(remaining int) string {
	if remaining < 0 {
		return StyleRed.Render(FormatMoney(remaining))
	}
	return StyleGreen.Render(FormatMoney(remaining))
}

// CategoryBadge returns a capitalized, purple-styled category label.
func CategoryBadge(c domain.Category) string {
	if c == "" {
		return StyleDim.Render("--")
	}
	label := strings.ToUpper(string(c)[:1]) + string(c)[1:]
	return StylePurple.Render(label)
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", lipgloss.Width(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

// Dim renders text in the muted/dim color.
func Dim(text string) string {
	return StyleDim.Render(text)
}

// Bold renders text in bold with the foreground color.
func Bold(text string) string {
	return StyleBold.Render(text)
}
