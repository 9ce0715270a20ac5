package repository

import (
	"context"

	"github.com/alexanderramin/mawang/internal/domain"
)

type CourseRepo interface {
	Create(ctx context.Context, c *domain.Course) error
	GetByID(ctx context.Context, id int64) (*domain.Course, error)
	GetByShortName(ctx context.Context, shortName string) (*domain.Course, error)
	List(ctx context.Context) ([]*domain.Course, error)
	Update(ctx context.Context, c *domain.Course) error
	Delete(ctx context.Context, id int64) error
}

type SectionRepo interface {
	Create(ctx context.Context, s *domain.Section) error
	GetByID(ctx context.Context, id int64) (*domain.Section, error)
	GetByNumber(ctx context.Context, courseID int64, number int) (*domain.Section, error)
	ListByCourse(ctx context.Context, courseID int64) ([]*domain.Section, error)
	ListChildren(ctx context.Context, parentID int64) ([]*domain.Section, error)
	NextNumber(ctx context.Context, courseID int64) (int, error)
	Update(ctx context.Context, s *domain.Section) error
	Delete(ctx context.Context, id int64) error
}

type ModuleRepo interface {
	Create(ctx context.Context, m *domain.CourseModule) error
	GetByID(ctx context.Context, id int64) (*domain.CourseModule, error)
	ListBySection(ctx context.Context, sectionID int64) ([]*domain.CourseModule, error)
	// ListByCourse returns modules in course order: section number, then order index.
	ListByCourse(ctx context.Context, courseID int64) ([]*domain.CourseModule, error)
	Update(ctx context.Context, m *domain.CourseModule) error
	Delete(ctx context.Context, id int64) error
}

type CompletionRepo interface {
	Upsert(ctx context.Context, c *domain.Completion) error
	Get(ctx context.Context, moduleID, userID int64) (*domain.Completion, error)
	ListByCourseUser(ctx context.Context, courseID, userID int64) ([]*domain.Completion, error)
}

// FileRepo stores file records keyed by (context, component, area, item, path, name).
type FileRepo interface {
	Create(ctx context.Context, f *domain.StoredFile) error
	GetByID(ctx context.Context, id string) (*domain.StoredFile, error)
	Get(ctx context.Context, contextID int64, component, area string, itemID int64, path, name string) (*domain.StoredFile, error)
	// ListArea returns the files of one item, ordered by item, path, name.
	// A negative itemID lists every item in the area.
	ListArea(ctx context.Context, contextID int64, component, area string, itemID int64) ([]*domain.StoredFile, error)
	Delete(ctx context.Context, id string) error
	DeleteArea(ctx context.Context, contextID int64, component, area string, itemID int64) error
}

type TeacherRepo interface {
	Create(ctx context.Context, t *domain.Teacher) error
	ListByCourse(ctx context.Context, courseID int64) ([]*domain.Teacher, error)
}

type CourseFieldRepo interface {
	Create(ctx context.Context, f *domain.CourseField) error
	// ListByCourse returns fields ordered by category, then sort order.
	ListByCourse(ctx context.Context, courseID int64) ([]*domain.CourseField, error)
}
