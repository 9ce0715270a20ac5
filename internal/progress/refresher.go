package progress

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/alexanderramin/mawang/internal/events"
	"github.com/alexanderramin/mawang/internal/render"
	"github.com/alexanderramin/mawang/internal/state"
)

const (
	// RegionSections holds one progress container per root section.
	RegionSections = "courseprogress"
	// RegionCourse holds the single course-wide progress container.
	RegionCourse = "courseprogresscontainer"

	DataProgress    = "progress"
	DataSubsections = "subsections"

	TemplateProgress = "progress"
)

type StateProvider interface {
	Snapshot(ctx context.Context) (state.Snapshot, error)
	IsEditing() bool
}

type Renderer interface {
	Render(ctx context.Context, name string, data any) (render.Rendered, error)
}

type Page interface {
	Containers(region string) []render.Container
}

// Result tallies the outcome of one refresh across containers.
type Result struct {
	Rendered  int
	Unchanged int
	Skipped   int
	Failed    int
}

type outcome int

const (
	outcomeRendered outcome = iota
	outcomeUnchanged
	outcomeSkipped
	outcomeFailed
)

func (r *Result) add(o outcome) {
	switch o {
	case outcomeRendered:
		r.Rendered++
	case outcomeUnchanged:
		r.Unchanged++
	case outcomeSkipped:
		r.Skipped++
	case outcomeFailed:
		r.Failed++
	}
}

// Refresher re-renders progress rings when completion changes.
type Refresher struct {
	provider StateProvider
	renderer Renderer
	page     Page
	logger   *slog.Logger
	limit    int
}

type Option func(*Refresher)

func WithLogger(l *slog.Logger) Option {
	return func(r *Refresher) { r.logger = l }
}

// WithConcurrency caps the number of containers rendered at once.
func WithConcurrency(n int) Option {
	return func(r *Refresher) { r.limit = n }
}

func NewRefresher(provider StateProvider, renderer Renderer, page Page, opts ...Option) *Refresher {
	r := &Refresher{
		provider: provider,
		renderer: renderer,
		page:     page,
		logger:   slog.New(slog.DiscardHandler),
		limit:    8,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Subscribe hooks the refresher to module completion updates.
func (r *Refresher) Subscribe(bus *events.Bus) func() {
	return bus.Subscribe(events.CMUpdated, r.HandleEvent)
}

func (r *Refresher) HandleEvent(ctx context.Context, ev events.Event) error {
	if _, err := r.Refresh(ctx, ev.Snapshot); err != nil {
		return err
	}
	_, err := r.RefreshCourse(ctx, ev.Snapshot)
	return err
}

// Start renders the initial state from the provider.
func (r *Refresher) Start(ctx context.Context) (Result, error) {
	if r.provider.IsEditing() {
		return Result{}, nil
	}
	snap, err := r.provider.Snapshot(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("loading state: %w", err)
	}
	res, err := r.Refresh(ctx, snap)
	if err != nil {
		return res, err
	}
	course, err := r.RefreshCourse(ctx, snap)
	res.Rendered += course.Rendered
	res.Unchanged += course.Unchanged
	res.Skipped += course.Skipped
	res.Failed += course.Failed
	return res, err
}

// Refresh updates every root section container from snap. A failure to
// render one container is logged and counted; it does not stop the others.
func (r *Refresher) Refresh(ctx context.Context, snap state.Snapshot) (Result, error) {
	if r.provider.IsEditing() {
		return Result{}, nil
	}
	containers := r.page.Containers(RegionSections)
	if len(containers) == 0 || snap.IsEmpty() {
		return Result{}, nil
	}

	aggs, err := Aggregate(snap)
	if err != nil {
		return Result{}, err
	}

	var (
		mu  sync.Mutex
		res Result
		g   errgroup.Group
	)
	g.SetLimit(r.limit)
	for _, c := range containers {
		g.Go(func() error {
			o := r.refreshContainer(ctx, c, aggs)
			mu.Lock()
			res.add(o)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return res, nil
}

func (r *Refresher) refreshContainer(ctx context.Context, c render.Container, aggs map[int64]*RootAggregate) outcome {
	id, err := strconv.ParseInt(c.ID(), 10, 64)
	if err != nil {
		r.logger.Debug("progress container without numeric id", "container", c.ID())
		return outcomeSkipped
	}
	agg, ok := aggs[id]
	if !ok {
		return outcomeSkipped
	}
	c.SetData(DataSubsections, joinIDs(agg.Subsections))

	pct, ok := agg.Percentage()
	if !ok {
		return outcomeSkipped
	}
	value := strconv.Itoa(pct)
	if c.Data(DataProgress) == value {
		return outcomeUnchanged
	}

	out, err := r.renderer.Render(ctx, TemplateProgress, NewRing(agg.Completed, agg.Total))
	if err != nil {
		r.logger.Error("progress render failed", "section_id", id, "error", err)
		return outcomeFailed
	}
	c.ReplaceContents(out)
	c.SetData(DataProgress, value)
	return outcomeRendered
}

// RefreshCourse updates the course-wide container, if the page has one,
// with the tally over all root sections.
func (r *Refresher) RefreshCourse(ctx context.Context, snap state.Snapshot) (Result, error) {
	if r.provider.IsEditing() {
		return Result{}, nil
	}
	containers := r.page.Containers(RegionCourse)
	if len(containers) == 0 || snap.IsEmpty() {
		return Result{}, nil
	}
	aggs, err := Aggregate(snap)
	if err != nil {
		return Result{}, err
	}

	var completed, total int
	for _, agg := range aggs {
		completed += agg.Completed
		total += agg.Total
	}

	var res Result
	if total == 0 {
		res.Skipped = len(containers)
		return res, nil
	}
	value := strconv.Itoa(Percentage(completed, total))
	for _, c := range containers {
		if c.Data(DataProgress) == value {
			res.Unchanged++
			continue
		}
		out, err := r.renderer.Render(ctx, TemplateProgress, NewRing(completed, total))
		if err != nil {
			r.logger.Error("course progress render failed", "error", err)
			res.Failed++
			continue
		}
		c.ReplaceNode(out)
		c.SetData(DataProgress, value)
		res.Rendered++
	}
	return res, nil
}

func joinIDs(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ",")
}
