package service

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/mawang/internal/domain"
	"github.com/alexanderramin/mawang/internal/progress"
	"github.com/alexanderramin/mawang/internal/render"
)

// sectionNamer names sections in the configured language.
type sectionNamer struct {
	tr render.Translator
}

func (n sectionNamer) name(s *domain.Section) string {
	if name := strings.TrimSpace(s.Name); name != "" {
		return name
	}
	if s.IsGeneral() {
		return n.text("general")
	}
	return n.text("topic", strconv.Itoa(s.Number))
}

func (n sectionNamer) text(key string, params ...string) string {
	if n.tr == nil {
		if len(params) > 0 {
			return key + " " + strings.Join(params, " ")
		}
		return key
	}
	return n.tr.T(key, params...)
}

// buildTree nests sections under their parents, keeping section order.
// Sections whose parent is missing are treated as roots.
func buildTree(sections []*domain.Section, namer sectionNamer) []*SectionNode {
	nodes := make(map[int64]*SectionNode, len(sections))
	for _, s := range sections {
		nodes[s.ID] = &SectionNode{Section: s, Name: namer.name(s)}
	}
	var roots []*SectionNode
	for _, s := range sections {
		node := nodes[s.ID]
		parent, ok := nodes[s.ParentID]
		if s.IsRoot() || !ok || parent == node {
			roots = append(roots, node)
			continue
		}
		parent.Children = append(parent.Children, node)
	}
	for _, r := range roots {
		setDepth(r, 1, map[int64]bool{})
	}
	return roots
}

func setDepth(n *SectionNode, depth int, seen map[int64]bool) {
	if seen[n.Section.ID] {
		return
	}
	seen[n.Section.ID] = true
	n.Depth = depth
	for _, c := range n.Children {
		setDepth(c, depth+1, seen)
	}
}

// sectionDepth is 1 for a root section and one more per ancestor.
func sectionDepth(sections []*domain.Section, id int64) (int, error) {
	byID := make(map[int64]*domain.Section, len(sections))
	for _, s := range sections {
		byID[s.ID] = s
	}
	depth := 0
	visited := map[int64]bool{}
	for cur := id; cur != 0; {
		s, ok := byID[cur]
		if !ok {
			return 0, fmt.Errorf("section %d: %w", cur, progress.ErrSectionNotFound)
		}
		if visited[cur] {
			return 0, fmt.Errorf("section %d: %w", id, progress.ErrCyclicSection)
		}
		visited[cur] = true
		depth++
		cur = s.ParentID
	}
	return depth, nil
}

func formatValidationErrors(errs []error) error {
	msg := fmt.Sprintf("import validation failed (%d errors):", len(errs))
	for _, e := range errs {
		msg += "\n  - " + e.Error()
	}
	return fmt.Errorf("%s", msg)
}
