package service

import (
	"context"
	"io"

	"github.com/alexanderramin/mawang/internal/domain"
	"github.com/alexanderramin/mawang/internal/events"
	"github.com/alexanderramin/mawang/internal/imagestore"
	"github.com/alexanderramin/mawang/internal/repository"
)

type imageService struct {
	sections repository.SectionRepo
	store    *imagestore.Store
	bus      *events.Bus
	observer UseCaseObserver
}

func NewImageService(sections repository.SectionRepo, store *imagestore.Store, bus *events.Bus, observers ...UseCaseObserver) ImageService {
	return &imageService{
		sections: sections,
		store:    store,
		bus:      bus,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *imageService) SetSectionImage(ctx context.Context, sectionID int64, filename string, r io.Reader) (f *domain.StoredFile, err error) {
	sp := startSpan(s.observer, "image-set", 0)
	sp.set("section_id", sectionID)
	sp.set("filename", filename)
	defer func() { sp.done(ctx, err) }()

	sec, err := s.sections.GetByID(ctx, sectionID)
	if err != nil {
		return nil, err
	}
	sp.event.CourseID = sec.CourseID
	f, err = s.store.SaveSectionImage(ctx, sec.CourseID, sec.ID, filename, r)
	if err != nil {
		return nil, err
	}
	sp.set("size", f.Size)
	return f, s.notify(ctx, sec)
}

func (s *imageService) RemoveSectionImage(ctx context.Context, sectionID int64) error {
	sec, err := s.sections.GetByID(ctx, sectionID)
	if err != nil {
		return err
	}
	if err := s.store.RemoveSectionImage(ctx, sec.CourseID, sec.ID); err != nil {
		return err
	}
	return s.notify(ctx, sec)
}

func (s *imageService) SectionImageURL(ctx context.Context, sectionID int64) (string, error) {
	sec, err := s.sections.GetByID(ctx, sectionID)
	if err != nil {
		return "", err
	}
	return s.store.SectionImageURL(ctx, sec.CourseID, sec.ID)
}

func (s *imageService) SetDefaultImage(ctx context.Context, filename string, r io.Reader) (f *domain.StoredFile, err error) {
	sp := startSpan(s.observer, "image-set-default", 0)
	sp.set("filename", filename)
	defer func() { sp.done(ctx, err) }()
	return s.store.SaveDefaultImage(ctx, filename, r)
}

func (s *imageService) Serve(ctx context.Context, contextID int64, area string, args []string) (*domain.StoredFile, error) {
	return s.store.Serve(ctx, contextID, area, args)
}

func (s *imageService) notify(ctx context.Context, sec *domain.Section) error {
	if s.bus == nil {
		return nil
	}
	return s.bus.Publish(ctx, events.Event{Kind: events.SectionUpdated, CourseID: sec.CourseID, ItemID: sec.ID})
}
