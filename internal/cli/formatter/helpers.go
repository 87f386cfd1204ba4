package formatter

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		PaddingLeft(2).
		PaddingRight(2).
		PaddingTop(1).
		PaddingBottom(1)

	if title != "" {
		titleRendered := StyleHeader.Render(strings.ToUpper(title))
		return boxStyle.Render(titleRendered + "\n\n" + content)
	}
	return boxStyle.Render(content)
}

// FormatMoney groups thousands with commas: 52500 -> "52,500".
func FormatMoney(amount int) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	digits := strconv.Itoa(amount)
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return sign + b.String()
}

// FormatDays renders a day count with its unit, singular for one.
func FormatDays(days int) string {
	if days == 1 || days == -1 {
		return fmt.Sprintf("%d day", days)
	}
	return fmt.Sprintf("%d days", days)
}

// HumanTimestamp returns a human-friendly relative timestamp string.
func HumanTimestamp(t time.Time) string {
	return HumanTimestampFrom(t, time.Now())
}

// HumanTimestampFrom is HumanTimestamp against a fixed reference time.
func HumanTimestampFrom(t, now time.Time) string {
	diff := now.Sub(t)
	switch {
	case diff < 0:
		return t.Format("Jan 2, 2006")
	case diff < time.Minute:
		return "Just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	default:
		return t.Format("Jan 2, 2006")
	}
}

// TruncID returns the first 8 characters of an ID, dimmed.
func TruncID(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return StyleDim.Render(id)
}

// Truncate shortens s to max visible characters, ending with an ellipsis.
func Truncate(s string, max int) string {
	r := []rune(s)
	if max <= 1 || len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}
