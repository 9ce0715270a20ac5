package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/mawang/internal/backup"
	"github.com/alexanderramin/mawang/internal/domain"
	"github.com/alexanderramin/mawang/internal/service"
)

const barWidth = 16

// FormatCourseList renders the course table.
func FormatCourseList(courses []*domain.Course) string {
	if len(courses) == 0 {
		return Dim("No courses.") + "\n"
	}
	rows := make([][]string, 0, len(courses))
	for _, c := range courses {
		marker := "-"
		if c.Marker > 0 {
			marker = itoa(c.Marker)
		}
		rows = append(rows, []string{itoa64(c.ID), c.ShortName, c.FullName, string(c.Display), marker})
	}
	return RenderTable([]string{"ID", "SHORT NAME", "NAME", "DISPLAY", "CURRENT"}, rows)
}

// FormatCourseTree renders the section tree of a course. When progress is
// non-nil each root section carries its progress bar.
func FormatCourseTree(course *domain.Course, roots []*service.SectionNode, progress []service.SectionProgress) string {
	byID := make(map[int64]service.SectionProgress, len(progress))
	for _, p := range progress {
		byID[p.Section.ID] = p
	}

	var items []TreeItem
	var walk func(nodes []*service.SectionNode, level int)
	walk = func(nodes []*service.SectionNode, level int) {
		for i, n := range nodes {
			item := TreeItem{
				Title:   n.Name,
				Number:  n.Section.Number,
				Level:   level,
				IsLast:  i == len(nodes)-1,
				Hidden:  !n.Section.Visible,
				Current: course.Marker != 0 && course.Marker == n.Section.Number,
			}
			if p, ok := byID[n.Section.ID]; ok && progress != nil {
				item.Detail = RenderProgress(p.Percent, barWidth)
			}
			items = append(items, item)
			walk(n.Children, level+1)
		}
	}
	walk(roots, 0)

	return Header(course.FullName) + "\n" + RenderTree(items)
}

// FormatProgress renders per-section progress for one user.
func FormatProgress(course *domain.Course, userID int64, progress []service.SectionProgress) string {
	var b strings.Builder
	b.WriteString(Header(fmt.Sprintf("%s · user %d", course.FullName, userID)))
	b.WriteString("\n")

	rows := make([][]string, 0, len(progress))
	var completed, total int
	for _, p := range progress {
		tally := Dim("not tracked")
		if p.Total > 0 {
			tally = fmt.Sprintf("%d/%d", p.Completed, p.Total)
		}
		rows = append(rows, []string{p.Name, RenderProgress(p.Percent, barWidth), tally})
		completed += p.Completed
		total += p.Total
	}
	b.WriteString(RenderTable([]string{"SECTION", "PROGRESS", "DONE"}, rows))
	if total > 0 {
		pct := (completed*100 + total/2) / total
		b.WriteString(fmt.Sprintf("\n%s %s\n", Bold("Course:"), RenderProgress(pct, barWidth)))
	}
	return b.String()
}

// FormatRestoreReport renders the per-section outcomes of a restore.
func FormatRestoreReport(r *backup.Report) string {
	rows := make([][]string, 0, len(r.Sections))
	for _, s := range r.Sections {
		target := "-"
		if s.NewID != 0 {
			target = itoa64(s.NewID)
			if s.Created {
				target += " (new)"
			}
		}
		rows = append(rows, []string{itoa(s.Number), itoa64(s.OldID), target, outcomeStyle(s.Outcome), s.FileName})
	}
	return RenderTable([]string{"SECTION", "OLD ID", "NEW ID", "IMAGE", "FILE"}, rows)
}

func outcomeStyle(o backup.Outcome) string {
	switch o {
	case backup.OutcomeMoved, backup.OutcomeReplaced:
		return StyleGreen.Render(string(o))
	case backup.OutcomeSkipped:
		return StyleYellow.Render(string(o))
	default:
		return Dim(string(o))
	}
}

// FormatNavigation renders module navigation links and the drawers the
// module page opens.
func FormatNavigation(nav *service.ModuleNavigation) string {
	d := nav.Data
	var b strings.Builder
	if d.Prev == nil && d.Next == nil && d.Back == nil {
		b.WriteString(Dim("No navigation for this activity.") + "\n")
	}
	if d.Back != nil {
		fmt.Fprintf(&b, "%s %s  %s\n", StyleBlue.Render("↑"), d.Back.Name, Dim(d.Back.URL))
	}
	if d.Prev != nil {
		fmt.Fprintf(&b, "%s %s  %s\n", StyleBlue.Render("◀"), d.Prev.Name, Dim(d.Prev.URL))
	}
	if d.Next != nil {
		fmt.Fprintf(&b, "%s %s  %s\n", StyleBlue.Render("▶"), d.Next.Name, Dim(d.Next.URL))
	}
	var drawers []string
	if d.OpenBlockDrawer {
		drawers = append(drawers, "block drawer")
	}
	if d.OpenCourseIndex {
		drawers = append(drawers, "course index")
	}
	if len(drawers) > 0 {
		b.WriteString(Dim("Opens: "+strings.Join(drawers, ", ")) + "\n")
	}
	return b.String()
}
