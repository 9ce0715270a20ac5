package formatter

import (
	"fmt"
	"strings"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// RenderProgress renders a bar like [████░░░░]  45%. A negative pct means
// nothing is tracked and renders a dimmed placeholder of the same width.
func RenderProgress(pct, width int) string {
	if width < 2 {
		width = 2
	}
	if pct < 0 {
		return "[" + Dim(strings.Repeat(emptyBlock, width)) + "] " + Dim("   -")
	}
	if pct > 100 {
		pct = 100
	}

	filled := pct * width / 100
	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)
	return fmt.Sprintf("[%s] %3d%%", PercentStyle(pct).Render(bar), pct)
}
