// Package navigation builds the previous/next activity links and the link
// back to the section shown at the bottom of a module page.
package navigation

import (
	"net/url"
	"strconv"

	"github.com/alexanderramin/mawang/internal/domain"
	"github.com/alexanderramin/mawang/internal/render"
)

// Labeler formats the name of a hidden module, e.g. "Quiz (hidden)".
type Labeler func(name string) string

type Links struct {
	Prev *render.Link
	Next *render.Link
}

func (l Links) Empty() bool {
	return l.Prev == nil && l.Next == nil
}

// Neighbours returns the links around currentID. Only modules the user can
// open count: user-visible, not stealth, with a URL, in a visible section.
// modules must be in course order.
func Neighbours(sections []*domain.Section, modules []*domain.CourseModule, currentID int64, hidden Labeler) Links {
	visible := make(map[int64]bool, len(sections))
	for _, s := range sections {
		if s.Visible {
			visible[s.ID] = true
		}
	}

	var nav []*domain.CourseModule
	position := -1
	for _, m := range modules {
		if m.ID == currentID && m.Stealth {
			return Links{}
		}
		if !m.UserVisible || m.Stealth || m.URL == "" || !visible[m.SectionID] {
			continue
		}
		if m.ID == currentID {
			position = len(nav)
		}
		nav = append(nav, m)
	}
	if len(nav) <= 1 || position < 0 {
		return Links{}
	}

	var links Links
	if position > 0 {
		links.Prev = link(nav[position-1], hidden)
	}
	if position < len(nav)-1 {
		links.Next = link(nav[position+1], hidden)
	}
	return links
}

func link(m *domain.CourseModule, hidden Labeler) *render.Link {
	name := m.Name
	if !m.Visible && hidden != nil {
		name = hidden(name)
	}
	return &render.Link{URL: forceView(m.URL), Name: name}
}

func forceView(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	q := u.Query()
	q.Set("forceview", "1")
	u.RawQuery = q.Encode()
	return u.String()
}

// BackLink returns the "back to section" link for a module, or nil when
// the course has it disabled or the module sits in the general section.
func BackLink(wwwroot string, course *domain.Course, section *domain.Section, sectionName string) *render.Link {
	if course == nil || section == nil || !course.CMBackLink || section.IsGeneral() {
		return nil
	}
	return &render.Link{URL: SectionURL(wwwroot, section), Name: sectionName}
}

// SectionURL is the page showing one section on its own.
func SectionURL(wwwroot string, section *domain.Section) string {
	return wwwroot + "/course/section.php?id=" + strconv.FormatInt(section.ID, 10)
}

func CourseURL(wwwroot string, courseID int64) string {
	return wwwroot + "/course/view.php?id=" + strconv.FormatInt(courseID, 10)
}

// TabURL is the course page showing the custom field tab of a category.
func TabURL(wwwroot string, courseID, categoryID int64) string {
	return CourseURL(wwwroot, courseID) + "&tab=" + strconv.FormatInt(categoryID, 10)
}

// Namer names a section for display.
type Namer func(*domain.Section) string

// SectionLinks are the links of a single section page.
type SectionLinks struct {
	Prev     *render.Link
	Next     *render.Link
	Selector []render.Link
}

// SectionNeighbours links the visible top-level sections either side of
// the one numbered current. The general section and hidden sections are
// skipped. The selector lists the course page, labelled home, followed by
// every visible top-level section.
func SectionNeighbours(wwwroot string, courseID int64, roots []*domain.Section, current int, home string, name Namer) SectionLinks {
	links := SectionLinks{Selector: []render.Link{{URL: CourseURL(wwwroot, courseID), Name: home}}}
	for _, sec := range roots {
		if sec.IsGeneral() || !sec.Visible {
			continue
		}
		link := render.Link{URL: SectionURL(wwwroot, sec), Name: name(sec)}
		links.Selector = append(links.Selector, link)
		switch {
		case sec.Number < current:
			links.Prev = &link
		case sec.Number > current && links.Next == nil:
			links.Next = &link
		}
	}
	return links
}
