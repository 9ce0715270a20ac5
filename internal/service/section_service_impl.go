package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/mawang/internal/config"
	"github.com/alexanderramin/mawang/internal/db"
	"github.com/alexanderramin/mawang/internal/domain"
	"github.com/alexanderramin/mawang/internal/events"
	"github.com/alexanderramin/mawang/internal/imagestore"
	"github.com/alexanderramin/mawang/internal/render"
	"github.com/alexanderramin/mawang/internal/repository"
	"github.com/alexanderramin/mawang/internal/validate"
)

// SectionAction is one of the quick actions available on a section.
type SectionAction string

const (
	ActionSetMarker     SectionAction = "setmarker"
	ActionRemoveMarker  SectionAction = "removemarker"
	ActionShowExpanded  SectionAction = "showexpanded"
	ActionShowCollapsed SectionAction = "showcollapsed"
	ActionHide          SectionAction = "hide"
	ActionShow          SectionAction = "show"
)

var sectionActions = []SectionAction{
	ActionSetMarker, ActionRemoveMarker, ActionShowExpanded, ActionShowCollapsed, ActionHide, ActionShow,
}

// ParseSectionAction accepts the action names used on the course page.
func ParseSectionAction(s string) (SectionAction, error) {
	for _, a := range sectionActions {
		if string(a) == s {
			return a, nil
		}
	}
	return "", fmt.Errorf("%q: %w", s, ErrUnknownAction)
}

type sectionService struct {
	courses  repository.CourseRepo
	sections repository.SectionRepo
	images   *imagestore.Store
	uow      db.UnitOfWork
	bus      *events.Bus
	settings config.Settings
	namer    sectionNamer
	observer UseCaseObserver
}

func NewSectionService(
	courses repository.CourseRepo,
	sections repository.SectionRepo,
	images *imagestore.Store,
	uow db.UnitOfWork,
	bus *events.Bus,
	settings config.Settings,
	tr render.Translator,
	observers ...UseCaseObserver,
) SectionService {
	return &sectionService{
		courses:  courses,
		sections: sections,
		images:   images,
		uow:      uow,
		bus:      bus,
		settings: settings,
		namer:    sectionNamer{tr: tr},
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *sectionService) Name(sec *domain.Section) string {
	return s.namer.name(sec)
}

func (s *sectionService) GetByID(ctx context.Context, id int64) (*domain.Section, error) {
	return s.sections.GetByID(ctx, id)
}

func (s *sectionService) Add(ctx context.Context, courseID, parentID int64, name string) (sec *domain.Section, err error) {
	sp := startSpan(s.observer, "section-add", courseID)
	sp.set("parent_id", parentID)
	defer func() { sp.done(ctx, err) }()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txSections := repository.NewSQLiteSectionRepo(tx)
		if _, err := repository.NewSQLiteCourseRepo(tx).GetByID(ctx, courseID); err != nil {
			return err
		}

		all, err := txSections.ListByCourse(ctx, courseID)
		if err != nil {
			return err
		}
		if parentID == 0 {
			if limit := s.settings.MaxTopLevelSections; limit > 0 && topLevelCount(all) >= limit {
				return fmt.Errorf("course already has %d top-level sections: %w", limit, ErrTooManySections)
			}
		} else {
			parent, err := txSections.GetByID(ctx, parentID)
			if err != nil {
				return fmt.Errorf("parent section: %w", err)
			}
			if parent.CourseID != courseID {
				return ErrCrossCourseParent
			}
			depth, err := sectionDepth(all, parentID)
			if err != nil {
				return err
			}
			if limit := s.settings.EffectiveMaxDepth(); depth+1 > limit {
				return fmt.Errorf("subsection of %q would be at depth %d, limit %d: %w",
					s.namer.name(parent), depth+1, limit, ErrDepthExceeded)
			}
		}

		number, err := txSections.NextNumber(ctx, courseID)
		if err != nil {
			return err
		}
		now := time.Now().UTC()
		sec = &domain.Section{
			CourseID:   courseID,
			Number:     number,
			ParentID:   parentID,
			Name:       name,
			Visible:    true,
			VisibleOld: true,
			Layout:     domain.LayoutCard,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		return txSections.Create(ctx, sec)
	})
	if err != nil {
		return nil, err
	}
	sp.set("section_id", sec.ID)
	return sec, s.publish(ctx, events.SectionCreated, sec)
}

// topLevelCount counts the root sections other than the general section.
func topLevelCount(sections []*domain.Section) int {
	n := 0
	for _, sec := range sections {
		if sec.ParentID == 0 && !sec.IsGeneral() {
			n++
		}
	}
	return n
}

func (s *sectionService) Edit(ctx context.Context, sectionID int64, form SectionForm) (sec *domain.Section, err error) {
	sp := startSpan(s.observer, "section-edit", 0)
	sp.set("section_id", sectionID)
	defer func() { sp.done(ctx, err) }()

	if err = validate.Struct(form); err != nil {
		return nil, err
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txSections := repository.NewSQLiteSectionRepo(tx)
		var err error
		sec, err = txSections.GetByID(ctx, sectionID)
		if err != nil {
			return err
		}
		sp.event.CourseID = sec.CourseID

		sec.Name = form.Name
		sec.Summary = form.Summary
		if form.Layout != "" {
			sec.Layout, _ = domain.ParseSectionLayout(form.Layout)
		}
		sec.UpdatedAt = time.Now().UTC()
		if err := txSections.Update(ctx, sec); err != nil {
			return err
		}

		store := s.images.WithFiles(repository.NewSQLiteFileRepo(tx))
		switch {
		case form.Image != nil:
			f, err := store.SaveSectionImage(ctx, sec.CourseID, sec.ID, form.ImageName, form.Image)
			if err != nil {
				return err
			}
			sp.set("image", f.FileName)
		case form.RemoveImage:
			return store.RemoveSectionImage(ctx, sec.CourseID, sec.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sec, s.publish(ctx, events.SectionUpdated, sec)
}

func (s *sectionService) Action(ctx context.Context, sectionID int64, action SectionAction) (sec *domain.Section, err error) {
	sp := startSpan(s.observer, "section-action", 0)
	sp.set("section_id", sectionID)
	sp.set("action", string(action))
	defer func() { sp.done(ctx, err) }()

	kind := events.SectionUpdated
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txSections := repository.NewSQLiteSectionRepo(tx)
		txCourses := repository.NewSQLiteCourseRepo(tx)
		var err error
		sec, err = txSections.GetByID(ctx, sectionID)
		if err != nil {
			return err
		}
		sp.event.CourseID = sec.CourseID
		now := time.Now().UTC()

		switch action {
		case ActionSetMarker, ActionRemoveMarker:
			if sec.IsGeneral() {
				return ErrMarkerOnGeneral
			}
			course, err := txCourses.GetByID(ctx, sec.CourseID)
			if err != nil {
				return err
			}
			if action == ActionSetMarker {
				course.Marker = sec.Number
			} else if course.Marker == sec.Number {
				course.Marker = 0
			}
			course.UpdatedAt = now
			kind = events.CourseUpdated
			return txCourses.Update(ctx, course)
		case ActionShowExpanded:
			sec.Layout = domain.LayoutExpanded
		case ActionShowCollapsed:
			sec.Layout = domain.LayoutCard
		case ActionHide:
			if sec.IsGeneral() {
				return ErrCannotHideGeneral
			}
			if sec.Visible {
				sec.VisibleOld = true
			}
			sec.Visible = false
		case ActionShow:
			sec.Visible = true
			sec.VisibleOld = true
		default:
			return fmt.Errorf("%q: %w", action, ErrUnknownAction)
		}
		sec.UpdatedAt = now
		return txSections.Update(ctx, sec)
	})
	if err != nil {
		return nil, err
	}
	return sec, s.publish(ctx, kind, sec)
}

func (s *sectionService) publish(ctx context.Context, kind events.Kind, sec *domain.Section) error {
	if s.bus == nil {
		return nil
	}
	return s.bus.Publish(ctx, events.Event{Kind: kind, CourseID: sec.CourseID, ItemID: sec.ID})
}
