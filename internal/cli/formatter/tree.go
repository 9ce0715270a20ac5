package formatter

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// TreeItem is one section line in a course tree.
type TreeItem struct {
	Title   string
	Number  int
	Level   int
	IsLast  bool
	Hidden  bool
	Current bool
	// Detail is rendered right-aligned, typically a progress bar.
	Detail string
}

const (
	treeBranch = "├─ "
	treeCorner = "└─ "
	treePipe   = "│  "
)

// RenderTree renders items as an indented tree with box-drawing
// connectors. Every title keeps its §N number. Current sections get an
// amber ▶ and hidden ones a dimmed (hidden) suffix; a section can be both.
func RenderTree(items []TreeItem) string {
	if len(items) == 0 {
		return ""
	}

	contents := make([]string, len(items))
	width := 0
	for idx, item := range items {
		var prefix string
		if item.Level > 0 {
			prefix = strings.Repeat(treePipe, item.Level-1)
			if item.IsLast {
				prefix += treeCorner
			} else {
				prefix += treeBranch
			}
		}

		title := item.Title
		switch {
		case item.Current:
			title = StyleYellowBold.Render("▶ " + item.Title)
		case item.Hidden:
			title = Dim(item.Title)
		}
		if item.Hidden {
			title += Dim(" (hidden)")
		}
		contents[idx] = prefix + Dim("§"+itoa(item.Number)+" ") + title
		if w := lipgloss.Width(contents[idx]); w > width {
			width = w
		}
	}

	var b strings.Builder
	for idx, item := range items {
		b.WriteString(contents[idx])
		if item.Detail != "" {
			b.WriteString(strings.Repeat(" ", width-lipgloss.Width(contents[idx])+2))
			b.WriteString(item.Detail)
		}
		b.WriteString("\n")
	}
	return b.String()
}
