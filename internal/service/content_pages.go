package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/mawang/internal/domain"
	"github.com/alexanderramin/mawang/internal/navigation"
	"github.com/alexanderramin/mawang/internal/render"
)

// TabPage is a rendered custom field tab of a course.
type TabPage struct {
	Course   *domain.Course
	Data     render.TabData
	Rendered render.Rendered
}

func (s *contentService) TabPage(ctx context.Context, courseID, tabID int64) (page *TabPage, err error) {
	sp := startSpan(s.observer, "course-tab", courseID)
	sp.set("tab", tabID)
	defer func() { sp.done(ctx, err) }()

	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	var fields []*domain.CourseField
	if s.fields != nil {
		if fields, err = s.fields.ListByCourse(ctx, courseID); err != nil {
			return nil, err
		}
	}
	known := false
	for _, f := range fields {
		if f.CategoryID == tabID {
			known = true
			break
		}
	}
	if !known {
		return nil, fmt.Errorf("tab %d of course %d: %w", tabID, courseID, ErrUnknownTab)
	}

	data := render.TabData{
		CourseID:   course.ID,
		CourseName: course.FullName,
		Tabs:       s.tabs(course, fields, tabID),
		Groups:     tabContent(fields, tabID),
	}
	out, err := s.renderer.Render(ctx, "tabcontent", data)
	if err != nil {
		return nil, fmt.Errorf("rendering course tab: %w", err)
	}
	sp.set("groups", len(data.Groups))
	return &TabPage{Course: course, Data: data, Rendered: out}, nil
}

// tabs lists the course page followed by one tab per field category, in
// category order. A course without custom fields has no tabs.
func (s *contentService) tabs(course *domain.Course, fields []*domain.CourseField, active int64) []render.Tab {
	if len(fields) == 0 {
		return nil
	}
	root := s.settings.WWWRoot
	tabs := []render.Tab{{
		Name:   s.namer.text("coursetab"),
		URL:    navigation.CourseURL(root, course.ID),
		Active: active == 0,
	}}
	seen := map[int64]bool{}
	for _, f := range fields {
		if seen[f.CategoryID] {
			continue
		}
		seen[f.CategoryID] = true
		tabs = append(tabs, render.Tab{
			ID:     f.CategoryID,
			Name:   f.Category,
			URL:    navigation.TabURL(root, course.ID, f.CategoryID),
			Active: f.CategoryID == active,
		})
	}
	return tabs
}

// tabContent groups the non-empty fields of one category by category name.
func tabContent(fields []*domain.CourseField, tabID int64) []render.FieldGroup {
	var groups []render.FieldGroup
	index := map[string]int{}
	for _, f := range fields {
		if f.CategoryID != tabID || strings.TrimSpace(f.Value) == "" {
			continue
		}
		i, ok := index[f.Category]
		if !ok {
			i = len(groups)
			index[f.Category] = i
			groups = append(groups, render.FieldGroup{Name: f.Category})
		}
		groups[i].Fields = append(groups[i].Fields, render.CustomField{
			Name:      f.Name,
			ShortName: f.ShortName,
			Value:     f.Value,
		})
	}
	return groups
}

func findNode(nodes []*SectionNode, id int64) *SectionNode {
	for _, n := range nodes {
		if n.Section.ID == id {
			return n
		}
		if found := findNode(n.Children, id); found != nil {
			return found
		}
	}
	return nil
}

// sectionNavigation links the top-level neighbours of node. A subsection
// is placed by the top-level section holding it.
func (s *contentService) sectionNavigation(course *domain.Course, roots []*SectionNode, node *SectionNode) *render.SectionNavigation {
	current := node.Section.Number
	sections := make([]*domain.Section, 0, len(roots))
	for _, r := range roots {
		sections = append(sections, r.Section)
		if findNode([]*SectionNode{r}, node.Section.ID) != nil {
			current = r.Section.Number
		}
	}
	links := navigation.SectionNeighbours(s.settings.WWWRoot, course.ID, sections, current,
		s.namer.text("maincoursepage"), s.namer.name)
	return &render.SectionNavigation{Prev: links.Prev, Next: links.Next, Selector: links.Selector}
}

// courseIndex lists the sections for the course index drawer. The
// "sections" display leaves activities out and "none" hides the index.
// Entries link to section pages when linkPages is set, otherwise to the
// section anchors of the course page.
func (s *contentService) courseIndex(course *domain.Course, roots []*SectionNode, bySection map[int64][]*domain.CourseModule, linkPages bool) *render.CourseIndex {
	display := s.settings.CourseIndexDisplay
	if display == domain.CourseIndexNone {
		return nil
	}
	index := &render.CourseIndex{Closed: s.settings.CourseIndexAutoClose}
	var walk func(nodes []*SectionNode)
	walk = func(nodes []*SectionNode) {
		for _, n := range nodes {
			sec := n.Section
			entry := render.IndexEntry{
				ID:      sec.ID,
				Number:  sec.Number,
				Name:    n.Name,
				URL:     "#section-" + strconv.Itoa(sec.Number),
				Hidden:  !sec.Visible,
				Current: course.Marker != 0 && course.Marker == sec.Number,
				Depth:   n.Depth,
			}
			if linkPages {
				entry.URL = navigation.SectionURL(s.settings.WWWRoot, sec)
			}
			if display == domain.CourseIndexFull {
				for _, m := range bySection[sec.ID] {
					if !m.UserVisible || m.Stealth {
						continue
					}
					entry.Activities = append(entry.Activities, render.Link{URL: m.URL, Name: m.Name})
				}
			}
			index.Entries = append(index.Entries, entry)
			walk(n.Children)
		}
	}
	walk(roots)
	return index
}
