package summary

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/alexanderramin/mawang/internal/cache"
	"github.com/alexanderramin/mawang/internal/events"
	"github.com/alexanderramin/mawang/internal/repository"
)

// VideoIndex lists the video modules of a course, backed by a cached list
// of their ids.
type VideoIndex struct {
	cache   cache.Cache
	modules repository.ModuleRepo
	field   string
}

// NewVideoIndex returns an index keyed by field, the name of the module
// flag that marks videos. An empty field disables detection.
func NewVideoIndex(c cache.Cache, modules repository.ModuleRepo, field string) *VideoIndex {
	return &VideoIndex{cache: c, modules: modules, field: field}
}

func (v *VideoIndex) key(courseID int64) string {
	return "videos:" + v.field + ":" + strconv.FormatInt(courseID, 10)
}

// VideoIDs returns the ids of the course's video modules.
func (v *VideoIndex) VideoIDs(ctx context.Context, courseID int64) ([]int64, error) {
	if v.field == "" {
		return nil, nil
	}
	key := v.key(courseID)
	raw, ok, err := v.cache.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("reading video index: %w", err)
	}
	if ok {
		var ids []int64
		if err := json.Unmarshal(raw, &ids); err == nil {
			return ids, nil
		}
	}

	modules, err := v.modules.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("loading video modules: %w", err)
	}
	ids := []int64{}
	for _, m := range modules {
		if m.FieldSet(v.field) {
			ids = append(ids, m.ID)
		}
	}
	encoded, err := json.Marshal(ids)
	if err != nil {
		return nil, err
	}
	if err := v.cache.Set(ctx, key, encoded); err != nil {
		return nil, fmt.Errorf("writing video index: %w", err)
	}
	return ids, nil
}

func (v *VideoIndex) Purge(ctx context.Context) error {
	return v.cache.Purge(ctx)
}

// Subscribe purges the index whenever course structure changes.
func (v *VideoIndex) Subscribe(bus *events.Bus) func() {
	return bus.SubscribeAll(events.StructureKinds, func(ctx context.Context, _ events.Event) error {
		return v.Purge(ctx)
	})
}
