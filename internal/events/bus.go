// Package events is a small typed in-process event bus.
package events

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/alexanderramin/mawang/internal/state"
)

type Kind string

const (
	CMUpdated      Kind = "cm:updated"
	CMCreated      Kind = "cm:created"
	CMDeleted      Kind = "cm:deleted"
	CMEdited       Kind = "cm:edited"
	SectionCreated Kind = "section:created"
	SectionUpdated Kind = "section:updated"
	SectionDeleted Kind = "section:deleted"
	CourseUpdated  Kind = "course:updated"
)

// StructureKinds are the events that change module or section metadata.
// CMUpdated is not one of them: it fires for completion changes too.
var StructureKinds = []Kind{CMCreated, CMEdited, CMDeleted, SectionCreated, SectionUpdated, SectionDeleted, CourseUpdated}

// Event carries the course state at the moment of the change.
type Event struct {
	Kind     Kind
	CourseID int64
	ItemID   int64
	Snapshot state.Snapshot
}

type Handler func(ctx context.Context, ev Event) error

type subscription struct {
	id      uint64
	handler Handler
}

// Bus dispatches events synchronously, in subscription order.
type Bus struct {
	mu     sync.RWMutex
	subs   map[Kind][]subscription
	nextID uint64
	logger *slog.Logger
}

func NewBus(logger *slog.Logger) *Bus {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Bus{subs: make(map[Kind][]subscription), logger: logger}
}

// Subscribe registers h for kind and returns a function that removes it.
func (b *Bus) Subscribe(kind Kind, h Handler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	id := b.nextID
	b.subs[kind] = append(b.subs[kind], subscription{id: id, handler: h})
	return func() { b.unsubscribe(kind, id) }
}

// SubscribeAll registers h for every kind in kinds.
func (b *Bus) SubscribeAll(kinds []Kind, h Handler) func() {
	cancels := make([]func(), 0, len(kinds))
	for _, k := range kinds {
		cancels = append(cancels, b.Subscribe(k, h))
	}
	return func() {
		for _, c := range cancels {
			c()
		}
	}
}

func (b *Bus) unsubscribe(kind Kind, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	subs := b.subs[kind]
	for i, s := range subs {
		if s.id == id {
			b.subs[kind] = append(subs[:i:i], subs[i+1:]...)
			return
		}
	}
}

// Publish calls every handler subscribed to ev.Kind. All handlers run even
// if some fail; their errors are joined.
func (b *Bus) Publish(ctx context.Context, ev Event) error {
	b.mu.RLock()
	subs := make([]subscription, len(b.subs[ev.Kind]))
	copy(subs, b.subs[ev.Kind])
	b.mu.RUnlock()

	var errs []error
	for _, s := range subs {
		if err := s.handler(ctx, ev); err != nil {
			b.logger.Warn("event handler failed", "kind", string(ev.Kind), "course_id", ev.CourseID, "error", err)
			errs = append(errs, fmt.Errorf("%s handler: %w", ev.Kind, err))
		}
	}
	return errors.Join(errs...)
}
