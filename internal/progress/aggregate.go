package progress

import (
	"fmt"
	"math"

	"github.com/alexanderramin/mawang/internal/state"
)

// RootAggregate is the completion tally of one root section and everything
// nested below it.
type RootAggregate struct {
	RootID      int64
	Total       int
	Completed   int
	Subsections []int64
}

// Percentage reports the rounded completion percentage. ok is false when
// the root has no tracked modules.
func (a RootAggregate) Percentage() (pct int, ok bool) {
	if a.Total == 0 {
		return 0, false
	}
	return Percentage(a.Completed, a.Total), true
}

// Percentage rounds completed/total to a whole percent. total must be > 0.
func Percentage(completed, total int) int {
	return int(math.Round(float64(completed) / float64(total) * 100))
}

// Aggregate tallies tracked, visible modules per root section.
func Aggregate(snap state.Snapshot) (map[int64]*RootAggregate, error) {
	var sections []state.Section
	var cms []state.CM
	for _, item := range snap.AllItems() {
		switch item.Type {
		case state.ItemSection:
			sec, ok := snap.Section(item.ID)
			if !ok {
				return nil, fmt.Errorf("section %d: %w", item.ID, ErrSectionNotFound)
			}
			sections = append(sections, sec)
		case state.ItemCM:
			cm, ok := snap.CM(item.ID)
			if !ok {
				continue
			}
			cms = append(cms, cm)
		}
	}

	tree := NewTree(sections)
	roots := make(map[int64]*RootAggregate)
	for _, sec := range sections {
		if sec.ParentID == 0 {
			if _, ok := roots[sec.ID]; !ok {
				roots[sec.ID] = &RootAggregate{RootID: sec.ID}
			}
		}
	}
	for _, sec := range sections {
		if sec.ParentID == 0 {
			continue
		}
		root, err := tree.Root(sec.ID)
		if err != nil {
			return nil, err
		}
		agg := roots[root]
		agg.Subsections = append(agg.Subsections, sec.ID)
	}

	for _, cm := range cms {
		if !cm.Visible || !cm.UserVisible {
			continue
		}
		completion := snap.CMCompletion(cm)
		if !completion.HasState {
			continue
		}
		root, err := tree.Root(cm.SectionID)
		if err != nil {
			return nil, fmt.Errorf("module %d: %w", cm.ID, err)
		}
		agg := roots[root]
		agg.Total++
		if completion.IsComplete {
			agg.Completed++
		}
	}
	return roots, nil
}
