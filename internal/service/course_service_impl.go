package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/mawang/internal/config"
	"github.com/alexanderramin/mawang/internal/db"
	"github.com/alexanderramin/mawang/internal/domain"
	"github.com/alexanderramin/mawang/internal/render"
	"github.com/alexanderramin/mawang/internal/repository"
)

type courseService struct {
	courses  repository.CourseRepo
	sections repository.SectionRepo
	uow      db.UnitOfWork
	settings config.Settings
	namer    sectionNamer
}

func NewCourseService(
	courses repository.CourseRepo,
	sections repository.SectionRepo,
	uow db.UnitOfWork,
	settings config.Settings,
	tr render.Translator,
) CourseService {
	return &courseService{
		courses:  courses,
		sections: sections,
		uow:      uow,
		settings: settings,
		namer:    sectionNamer{tr: tr},
	}
}

func (s *courseService) Create(ctx context.Context, c *domain.Course) error {
	now := time.Now().UTC()
	if c.Display == "" {
		c.Display = domain.DisplaySinglePage
	}
	c.CMBackLink = c.CMBackLink || s.settings.CMBackLink
	c.CreatedAt, c.UpdatedAt = now, now

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if err := repository.NewSQLiteCourseRepo(tx).Create(ctx, c); err != nil {
			return fmt.Errorf("creating course: %w", err)
		}
		general := &domain.Section{
			CourseID:   c.ID,
			Number:     0,
			Visible:    true,
			VisibleOld: true,
			Layout:     domain.LayoutExpanded,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := repository.NewSQLiteSectionRepo(tx).Create(ctx, general); err != nil {
			return fmt.Errorf("creating general section: %w", err)
		}
		return nil
	})
}

func (s *courseService) GetByID(ctx context.Context, id int64) (*domain.Course, error) {
	return s.courses.GetByID(ctx, id)
}

func (s *courseService) GetByShortName(ctx context.Context, shortName string) (*domain.Course, error) {
	return s.courses.GetByShortName(ctx, shortName)
}

func (s *courseService) List(ctx context.Context) ([]*domain.Course, error) {
	return s.courses.List(ctx)
}

func (s *courseService) Tree(ctx context.Context, courseID int64) ([]*SectionNode, error) {
	if _, err := s.courses.GetByID(ctx, courseID); err != nil {
		return nil, err
	}
	sections, err := s.sections.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	return buildTree(sections, s.namer), nil
}
