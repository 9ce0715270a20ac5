// Package progress computes section completion progress and keeps the
// progress rings on a course page current.
package progress

import (
	"errors"
	"fmt"

	"github.com/alexanderramin/mawang/internal/state"
)

var (
	ErrSectionNotFound = errors.New("section not found")
	ErrCyclicSection   = errors.New("cyclic section parent chain")
)

// Tree indexes sections by id for root lookups.
type Tree struct {
	byID map[int64]state.Section
}

func NewTree(sections []state.Section) Tree {
	byID := make(map[int64]state.Section, len(sections))
	for _, s := range sections {
		byID[s.ID] = s
	}
	return Tree{byID: byID}
}

// Root follows parent links from id up to the section whose parent is 0.
func (t Tree) Root(id int64) (int64, error) {
	visited := make(map[int64]bool)
	current := id
	for {
		sec, ok := t.byID[current]
		if !ok {
			if current == id {
				return 0, fmt.Errorf("section %d: %w", id, ErrSectionNotFound)
			}
			return 0, fmt.Errorf("parent %d of section %d: %w", current, id, ErrSectionNotFound)
		}
		if sec.ParentID == 0 {
			return sec.ID, nil
		}
		if visited[current] {
			return 0, fmt.Errorf("section %d: %w", id, ErrCyclicSection)
		}
		visited[current] = true
		current = sec.ParentID
	}
}

// ResolveRoot returns the root ancestor of sectionID.
func ResolveRoot(sections []state.Section, sectionID int64) (int64, error) {
	return NewTree(sections).Root(sectionID)
}
