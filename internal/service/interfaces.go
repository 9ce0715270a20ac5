package service

import (
	"context"
	"io"

	"github.com/alexanderramin/mawang/internal/backup"
	"github.com/alexanderramin/mawang/internal/domain"
	"github.com/alexanderramin/mawang/internal/importer"
	"github.com/alexanderramin/mawang/internal/render"
	"github.com/alexanderramin/mawang/internal/state"
)

type CourseService interface {
	// Create stores the course together with its general section.
	Create(ctx context.Context, c *domain.Course) error
	GetByID(ctx context.Context, id int64) (*domain.Course, error)
	GetByShortName(ctx context.Context, shortName string) (*domain.Course, error)
	List(ctx context.Context) ([]*domain.Course, error)
	// Tree returns the root sections of the course with their subsections.
	Tree(ctx context.Context, courseID int64) ([]*SectionNode, error)
}

type SectionService interface {
	// Add creates a section at the end of the course. A non-zero parentID
	// makes it a subsection of that section.
	Add(ctx context.Context, courseID, parentID int64, name string) (*domain.Section, error)
	GetByID(ctx context.Context, id int64) (*domain.Section, error)
	Edit(ctx context.Context, sectionID int64, form SectionForm) (*domain.Section, error)
	Action(ctx context.Context, sectionID int64, action SectionAction) (*domain.Section, error)
	// Name is the display name of the section.
	Name(s *domain.Section) string
}

type CompletionService interface {
	// SetState records the user's completion of a module and notifies
	// subscribers with the resulting course state.
	SetState(ctx context.Context, moduleID, userID int64, st domain.CompletionState) (state.Snapshot, error)
	Export(ctx context.Context, courseID, userID int64) (state.Snapshot, error)
}

type ContentService interface {
	// CoursePage renders the course page for a user. The page stays live:
	// completion changes published on the bus update its progress rings
	// until the page is closed.
	CoursePage(ctx context.Context, courseID, userID int64, editing bool) (*CoursePage, error)
	// SectionPage renders one section with links to its neighbours. It
	// stays live like CoursePage.
	SectionPage(ctx context.Context, courseID int64, sectionNum int, userID int64) (*CoursePage, error)
	// TabPage renders the custom fields of one category tab.
	TabPage(ctx context.Context, courseID, tabID int64) (*TabPage, error)
	// Progress returns the per-root-section progress of a user.
	Progress(ctx context.Context, courseID, userID int64) ([]SectionProgress, error)
}

type NavigationService interface {
	ModuleNavigation(ctx context.Context, moduleID int64) (*ModuleNavigation, error)
}

type ImageService interface {
	SetSectionImage(ctx context.Context, sectionID int64, filename string, r io.Reader) (*domain.StoredFile, error)
	RemoveSectionImage(ctx context.Context, sectionID int64) error
	SectionImageURL(ctx context.Context, sectionID int64) (string, error)
	SetDefaultImage(ctx context.Context, filename string, r io.Reader) (*domain.StoredFile, error)
	Serve(ctx context.Context, contextID int64, area string, args []string) (*domain.StoredFile, error)
}

type BackupService interface {
	Create(ctx context.Context, courseID int64, dir string) (*backup.Manifest, error)
	Restore(ctx context.Context, dir string, targetCourseID int64, opts backup.RestoreOptions) (*backup.Report, error)
}

// ImportResult holds the outcome of a course import.
type ImportResult struct {
	Course          *domain.Course
	SectionCount    int
	ModuleCount     int
	TeacherCount    int
	FieldCount      int
	CompletionCount int
}

type ImportService interface {
	ImportCourse(ctx context.Context, filePath string) (*ImportResult, error)
	ImportCourseFromSchema(ctx context.Context, schema *importer.ImportSchema) (*ImportResult, error)
}

// SectionNode is a section with its display name and subsections.
type SectionNode struct {
	Section  *domain.Section
	Name     string
	Depth    int
	Children []*SectionNode
}

// SectionForm is the editable part of a section. Layout is "card" or
// "expanded"; empty keeps the current layout. Image, when set, replaces
// the section image.
type SectionForm struct {
	Name        string    `yaml:"name" validate:"max=255"`
	Summary     string    `yaml:"summary" validate:"max=10000"`
	Layout      string    `yaml:"layout" validate:"omitempty,oneof=card expanded"`
	ImageName   string    `yaml:"image" validate:"required_with=Image"`
	Image       io.Reader `yaml:"-" validate:"-"`
	RemoveImage bool      `yaml:"removeimage" validate:"excluded_with=Image"`
}

// SectionProgress is the completion tally of one root section.
type SectionProgress struct {
	Section   *domain.Section
	Name      string
	Completed int
	Total     int
	// Percent is -1 when nothing in the section is tracked.
	Percent int
}

// ModuleNavigation is the navigation shown on a module page.
type ModuleNavigation struct {
	Data     render.NavigationData
	Rendered render.Rendered
}
