package state

import (
	"context"
	"fmt"

	"github.com/alexanderramin/mawang/internal/domain"
	"github.com/alexanderramin/mawang/internal/repository"
)

// Exporter builds snapshots from the course store.
type Exporter struct {
	sections    repository.SectionRepo
	modules     repository.ModuleRepo
	completions repository.CompletionRepo
}

func NewExporter(sections repository.SectionRepo, modules repository.ModuleRepo, completions repository.CompletionRepo) *Exporter {
	return &Exporter{sections: sections, modules: modules, completions: completions}
}

// Export builds the snapshot of a course as seen by userID.
func (e *Exporter) Export(ctx context.Context, courseID, userID int64) (Snapshot, error) {
	sections, err := e.sections.ListByCourse(ctx, courseID)
	if err != nil {
		return Snapshot{}, fmt.Errorf("exporting sections: %w", err)
	}
	modules, err := e.modules.ListByCourse(ctx, courseID)
	if err != nil {
		return Snapshot{}, fmt.Errorf("exporting modules: %w", err)
	}

	states := map[int64]domain.CompletionState{}
	if userID != 0 {
		completions, err := e.completions.ListByCourseUser(ctx, courseID, userID)
		if err != nil {
			return Snapshot{}, fmt.Errorf("exporting completions: %w", err)
		}
		for _, c := range completions {
			states[c.ModuleID] = c.State
		}
	}

	secs := make([]Section, 0, len(sections))
	for _, s := range sections {
		secs = append(secs, Section{ID: s.ID, ParentID: s.ParentID, Number: s.Number, Visible: s.Visible})
	}
	cms := make([]CM, 0, len(modules))
	for _, m := range modules {
		st, ok := states[m.ID]
		if !ok {
			st = domain.StateIncomplete
		}
		cms = append(cms, CM{
			ID:          m.ID,
			SectionID:   m.SectionID,
			Visible:     m.Visible,
			UserVisible: m.UserVisible,
			Tracked:     m.Tracked(),
			State:       st,
		})
	}
	return New(courseID, userID, secs, cms), nil
}

// CourseState is a StateProvider for one course and user.
type CourseState struct {
	exporter *Exporter
	courseID int64
	userID   int64
	editing  bool
}

func NewCourseState(exporter *Exporter, courseID, userID int64, editing bool) *CourseState {
	return &CourseState{exporter: exporter, courseID: courseID, userID: userID, editing: editing}
}

func (c *CourseState) Snapshot(ctx context.Context) (Snapshot, error) {
	return c.exporter.Export(ctx, c.courseID, c.userID)
}

func (c *CourseState) IsEditing() bool {
	return c.editing
}
