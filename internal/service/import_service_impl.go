package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/mawang/internal/config"
	"github.com/alexanderramin/mawang/internal/db"
	"github.com/alexanderramin/mawang/internal/domain"
	"github.com/alexanderramin/mawang/internal/events"
	"github.com/alexanderramin/mawang/internal/importer"
	"github.com/alexanderramin/mawang/internal/repository"
)

type importService struct {
	uow      db.UnitOfWork
	bus      *events.Bus
	settings config.Settings
	observer UseCaseObserver
}

func NewImportService(uow db.UnitOfWork, bus *events.Bus, settings config.Settings, observers ...UseCaseObserver) ImportService {
	return &importService{uow: uow, bus: bus, settings: settings, observer: useCaseObserverOrNoop(observers)}
}

func (s *importService) ImportCourse(ctx context.Context, filePath string) (*ImportResult, error) {
	schema, err := importer.LoadImportSchema(filePath)
	if err != nil {
		return nil, fmt.Errorf("loading import file: %w", err)
	}
	return s.importSchema(ctx, schema)
}

func (s *importService) ImportCourseFromSchema(ctx context.Context, schema *importer.ImportSchema) (*ImportResult, error) {
	return s.importSchema(ctx, schema)
}

func (s *importService) importSchema(ctx context.Context, schema *importer.ImportSchema) (result *ImportResult, err error) {
	sp := startSpan(s.observer, "course-import", 0)
	sp.set("shortname", schema.Course.ShortName)
	defer func() { sp.done(ctx, err) }()

	if errs := importer.ValidateImportSchema(schema, importer.Limits{
		MaxDepth:    s.settings.EffectiveMaxDepth(),
		MaxTopLevel: s.settings.MaxTopLevelSections,
	}); len(errs) > 0 {
		return nil, formatValidationErrors(errs)
	}
	plan := importer.Convert(schema)
	plan.Course.CMBackLink = plan.Course.CMBackLink || s.settings.CMBackLink

	result = &ImportResult{Course: plan.Course}
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		courses := repository.NewSQLiteCourseRepo(tx)
		sections := repository.NewSQLiteSectionRepo(tx)
		modules := repository.NewSQLiteModuleRepo(tx)
		teachers := repository.NewSQLiteTeacherRepo(tx)
		completions := repository.NewSQLiteCompletionRepo(tx)
		fields := repository.NewSQLiteCourseFieldRepo(tx)

		if err := courses.Create(ctx, plan.Course); err != nil {
			return fmt.Errorf("creating course: %w", err)
		}
		courseID := plan.Course.ID

		if !plan.HasGeneralSection() {
			now := time.Now().UTC()
			general := &domain.Section{
				CourseID: courseID, Number: 0, Visible: true, VisibleOld: true,
				Layout: domain.LayoutExpanded, CreatedAt: now, UpdatedAt: now,
			}
			if err := sections.Create(ctx, general); err != nil {
				return fmt.Errorf("creating general section: %w", err)
			}
			result.SectionCount++
		}

		sectionIDs := make(map[string]int64, len(plan.Sections))
		for _, ps := range plan.Sections {
			ps.Section.CourseID = courseID
			if ps.ParentRef != "" {
				ps.Section.ParentID = sectionIDs[ps.ParentRef]
			}
			if err := sections.Create(ctx, ps.Section); err != nil {
				return fmt.Errorf("creating section %q: %w", ps.Ref, err)
			}
			sectionIDs[ps.Ref] = ps.Section.ID
			result.SectionCount++
		}

		moduleIDs := make(map[string]int64, len(plan.Modules))
		for _, pm := range plan.Modules {
			pm.Module.CourseID = courseID
			pm.Module.SectionID = sectionIDs[pm.SectionRef]
			if err := modules.Create(ctx, pm.Module); err != nil {
				return fmt.Errorf("creating module %q: %w", pm.Ref, err)
			}
			moduleIDs[pm.Ref] = pm.Module.ID
			result.ModuleCount++
		}

		for _, t := range plan.Teachers {
			t.CourseID = courseID
			if err := teachers.Create(ctx, t); err != nil {
				return fmt.Errorf("creating teacher %q: %w", t.FullName, err)
			}
			result.TeacherCount++
		}

		for _, f := range plan.Fields {
			f.CourseID = courseID
			if err := fields.Create(ctx, f); err != nil {
				return fmt.Errorf("creating course field %q: %w", f.ShortName, err)
			}
			result.FieldCount++
		}

		for _, pc := range plan.Completions {
			pc.Completion.ModuleID = moduleIDs[pc.ModuleRef]
			if err := completions.Upsert(ctx, pc.Completion); err != nil {
				return fmt.Errorf("recording completion of %q: %w", pc.ModuleRef, err)
			}
			result.CompletionCount++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sp.event.CourseID = plan.Course.ID
	sp.set("sections", result.SectionCount)
	sp.set("modules", result.ModuleCount)
	sp.set("fields", result.FieldCount)
	if s.bus != nil {
		err = s.bus.Publish(ctx, events.Event{Kind: events.CourseUpdated, CourseID: plan.Course.ID})
	}
	return result, err
}
