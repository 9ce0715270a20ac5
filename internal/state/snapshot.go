// Package state holds the read-only course state tree that progress and
// rendering work from. A Snapshot is built once per change and passed by
// value; nothing in this package mutates a Snapshot after construction.
package state

import "github.com/alexanderramin/mawang/internal/domain"

type ItemType string

const (
	ItemSection ItemType = "section"
	ItemCM      ItemType = "cm"
)

// Item is one entry of the flattened course item list.
type Item struct {
	Type ItemType
	ID   int64
}

type Section struct {
	ID       int64
	ParentID int64
	Number   int
	Visible  bool
}

// CM is the state export of a course module for the viewing user.
type CM struct {
	ID          int64
	SectionID   int64
	Visible     bool
	UserVisible bool
	Tracked     bool
	State       domain.CompletionState
}

// Completion is the per-module completion export.
type Completion struct {
	HasState   bool
	IsComplete bool
}

type Snapshot struct {
	courseID int64
	userID   int64
	sections map[int64]Section
	cms      map[int64]CM
	items    []Item
}

// New builds a snapshot. Sections are listed in the given order, each
// followed by its modules in the given order. Modules whose section is not
// in sections are appended at the end so they still fail lookups loudly.
func New(courseID, userID int64, sections []Section, cms []CM) Snapshot {
	s := Snapshot{
		courseID: courseID,
		userID:   userID,
		sections: make(map[int64]Section, len(sections)),
		cms:      make(map[int64]CM, len(cms)),
		items:    make([]Item, 0, len(sections)+len(cms)),
	}

	bySection := make(map[int64][]CM, len(sections))
	for _, cm := range cms {
		s.cms[cm.ID] = cm
		bySection[cm.SectionID] = append(bySection[cm.SectionID], cm)
	}
	for _, sec := range sections {
		s.sections[sec.ID] = sec
	}

	placed := make(map[int64]bool, len(sections))
	for _, sec := range sections {
		if placed[sec.ID] {
			continue
		}
		placed[sec.ID] = true
		s.items = append(s.items, Item{Type: ItemSection, ID: sec.ID})
		for _, cm := range bySection[sec.ID] {
			s.items = append(s.items, Item{Type: ItemCM, ID: cm.ID})
		}
	}
	for _, cm := range cms {
		if !placed[cm.SectionID] {
			s.items = append(s.items, Item{Type: ItemCM, ID: cm.ID})
		}
	}
	return s
}

func (s Snapshot) CourseID() int64 { return s.courseID }
func (s Snapshot) UserID() int64   { return s.userID }

func (s Snapshot) Section(id int64) (Section, bool) {
	sec, ok := s.sections[id]
	return sec, ok
}

func (s Snapshot) CM(id int64) (CM, bool) {
	cm, ok := s.cms[id]
	return cm, ok
}

// AllItems returns a copy of the flattened item list.
func (s Snapshot) AllItems() []Item {
	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out
}

// Sections returns the sections in item order.
func (s Snapshot) Sections() []Section {
	var out []Section
	for _, item := range s.items {
		if item.Type == ItemSection {
			out = append(out, s.sections[item.ID])
		}
	}
	return out
}

// CMCompletion reports whether completion is tracked for the module and the
// current user, and whether it is complete. Anonymous users (id 0) never
// have tracked state.
func (s Snapshot) CMCompletion(cm CM) Completion {
	if s.userID == 0 || !cm.Tracked {
		return Completion{}
	}
	return Completion{HasState: true, IsComplete: cm.State.IsComplete()}
}

// IsEmpty reports whether the snapshot holds no items.
func (s Snapshot) IsEmpty() bool {
	return len(s.items) == 0
}
