package service

import (
	"context"
	"fmt"

	"github.com/alexanderramin/mawang/internal/config"
	"github.com/alexanderramin/mawang/internal/navigation"
	"github.com/alexanderramin/mawang/internal/render"
	"github.com/alexanderramin/mawang/internal/repository"
)

type navigationService struct {
	courses  repository.CourseRepo
	sections repository.SectionRepo
	modules  repository.ModuleRepo
	renderer *render.Renderer
	settings config.Settings
	namer    sectionNamer
}

func NewNavigationService(
	courses repository.CourseRepo,
	sections repository.SectionRepo,
	modules repository.ModuleRepo,
	renderer *render.Renderer,
	settings config.Settings,
	tr render.Translator,
) NavigationService {
	return &navigationService{
		courses:  courses,
		sections: sections,
		modules:  modules,
		renderer: renderer,
		settings: settings,
		namer:    sectionNamer{tr: tr},
	}
}

func (s *navigationService) ModuleNavigation(ctx context.Context, moduleID int64) (*ModuleNavigation, error) {
	m, err := s.modules.GetByID(ctx, moduleID)
	if err != nil {
		return nil, err
	}
	course, err := s.courses.GetByID(ctx, m.CourseID)
	if err != nil {
		return nil, err
	}
	sections, err := s.sections.ListByCourse(ctx, course.ID)
	if err != nil {
		return nil, err
	}
	modules, err := s.modules.ListByCourse(ctx, course.ID)
	if err != nil {
		return nil, err
	}

	links := navigation.Neighbours(sections, modules, m.ID, func(name string) string {
		return s.namer.text("hidden", name)
	})
	data := render.NavigationData{
		Prev:            links.Prev,
		Next:            links.Next,
		OpenBlockDrawer: s.settings.AutoOpens(m.ModName),
		OpenCourseIndex: s.settings.CourseIndexAutoClose,
	}
	for _, sec := range sections {
		if sec.ID == m.SectionID {
			data.Back = navigation.BackLink(s.settings.WWWRoot, course, sec, s.namer.name(sec))
			break
		}
	}

	// The drawer flags are page state; only links produce markup.
	nav := &ModuleNavigation{Data: data}
	if data.Prev == nil && data.Next == nil && data.Back == nil {
		return nav, nil
	}
	nav.Rendered, err = s.renderer.Render(ctx, "navigation", data)
	if err != nil {
		return nil, fmt.Errorf("rendering navigation: %w", err)
	}
	return nav, nil
}
