package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/mawang/internal/domain"
	"github.com/alexanderramin/mawang/internal/events"
	"github.com/alexanderramin/mawang/internal/repository"
	"github.com/alexanderramin/mawang/internal/state"
)

type completionService struct {
	modules     repository.ModuleRepo
	completions repository.CompletionRepo
	exporter    *state.Exporter
	bus         *events.Bus
	observer    UseCaseObserver
}

func NewCompletionService(
	modules repository.ModuleRepo,
	completions repository.CompletionRepo,
	exporter *state.Exporter,
	bus *events.Bus,
	observers ...UseCaseObserver,
) CompletionService {
	return &completionService{
		modules:     modules,
		completions: completions,
		exporter:    exporter,
		bus:         bus,
		observer:    useCaseObserverOrNoop(observers),
	}
}

func (s *completionService) SetState(ctx context.Context, moduleID, userID int64, st domain.CompletionState) (snap state.Snapshot, err error) {
	sp := startSpan(s.observer, "completion-set", 0)
	sp.set("cm_id", moduleID)
	sp.set("user_id", userID)
	sp.set("state", string(st))
	defer func() { sp.done(ctx, err) }()

	if !domain.ValidStates[string(st)] {
		return state.Snapshot{}, fmt.Errorf("%q: %w", st, ErrInvalidState)
	}
	if userID == 0 {
		return state.Snapshot{}, fmt.Errorf("guest completion: %w", ErrNotTracked)
	}
	m, err := s.modules.GetByID(ctx, moduleID)
	if err != nil {
		return state.Snapshot{}, err
	}
	sp.event.CourseID = m.CourseID
	if !m.Tracked() {
		return state.Snapshot{}, fmt.Errorf("module %d: %w", moduleID, ErrNotTracked)
	}

	if err := s.completions.Upsert(ctx, &domain.Completion{
		ModuleID:  m.ID,
		UserID:    userID,
		State:     st,
		UpdatedAt: time.Now().UTC(),
	}); err != nil {
		return state.Snapshot{}, err
	}

	snap, err = s.exporter.Export(ctx, m.CourseID, userID)
	if err != nil {
		return state.Snapshot{}, err
	}
	if s.bus != nil {
		if err := s.bus.Publish(ctx, events.Event{
			Kind:     events.CMUpdated,
			CourseID: m.CourseID,
			ItemID:   m.ID,
			Snapshot: snap,
		}); err != nil {
			return snap, fmt.Errorf("notifying completion update: %w", err)
		}
	}
	return snap, nil
}

func (s *completionService) Export(ctx context.Context, courseID, userID int64) (state.Snapshot, error) {
	return s.exporter.Export(ctx, courseID, userID)
}
