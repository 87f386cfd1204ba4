package formatter

import (
	"fmt"
	"strings"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// RenderProgress renders a bar like [████░░░░] 45% for done out of total.
// A finished bar is green, a started one blue and an untouched one dim.
func RenderProgress(done, total, width int) string {
	if width < 2 {
		width = 2
	}
	pct := 0.0
	if total > 0 {
		pct = float64(done) / float64(total)
	}
	pct = min(max(pct, 0), 1)

	filled := min(int(pct*float64(width)), width)
	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)

	style := StyleBlue
	switch {
	case pct >= 1:
		style = StyleGreen
	case done <= 0:
		style = StyleDim
	}

	return fmt.Sprintf("[%s] %3.0f%%", style.Render(bar), pct*100)
}
