package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"

	"github.com/alexanderramin/mawang/internal/config"
	"github.com/alexanderramin/mawang/internal/domain"
	"github.com/alexanderramin/mawang/internal/events"
	"github.com/alexanderramin/mawang/internal/imagestore"
	"github.com/alexanderramin/mawang/internal/navigation"
	"github.com/alexanderramin/mawang/internal/progress"
	"github.com/alexanderramin/mawang/internal/render"
	"github.com/alexanderramin/mawang/internal/repository"
	"github.com/alexanderramin/mawang/internal/state"
	"github.com/alexanderramin/mawang/internal/summary"
)

// RegionContent holds the rendered course page markup.
const RegionContent = "content"

// CoursePage is a rendered course page. Its progress containers are kept
// current by a refresher subscribed to completion updates for the same
// course and user.
type CoursePage struct {
	Course   *domain.Course
	UserID   int64
	Data     render.ContentData
	Rendered render.Rendered
	Page     *render.Page
	// Initial is the outcome of the first progress render.
	Initial progress.Result

	unsubscribe func()
}

// Close detaches the page from the event bus.
func (p *CoursePage) Close() {
	if p.unsubscribe != nil {
		p.unsubscribe()
		p.unsubscribe = nil
	}
}

type contentService struct {
	courses  repository.CourseRepo
	sections repository.SectionRepo
	modules  repository.ModuleRepo
	teachers repository.TeacherRepo
	fields   repository.CourseFieldRepo
	exporter *state.Exporter
	images   *imagestore.Store
	videos   *summary.VideoIndex
	renderer *render.Renderer
	tr       render.Translator
	bus      *events.Bus
	settings config.Settings
	logger   *slog.Logger
	namer    sectionNamer
	observer UseCaseObserver
}

// ContentDeps are the collaborators of the content service. Translator
// must be the one Renderer was built with. Videos may be nil.
type ContentDeps struct {
	Courses    repository.CourseRepo
	Sections   repository.SectionRepo
	Modules    repository.ModuleRepo
	Teachers   repository.TeacherRepo
	Fields     repository.CourseFieldRepo
	Exporter   *state.Exporter
	Images     *imagestore.Store
	Videos     *summary.VideoIndex
	Renderer   *render.Renderer
	Translator render.Translator
	Bus        *events.Bus
	Settings   config.Settings
	Logger     *slog.Logger
}

func NewContentService(deps ContentDeps, observers ...UseCaseObserver) ContentService {
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &contentService{
		courses:  deps.Courses,
		sections: deps.Sections,
		modules:  deps.Modules,
		teachers: deps.Teachers,
		fields:   deps.Fields,
		exporter: deps.Exporter,
		images:   deps.Images,
		videos:   deps.Videos,
		renderer: deps.Renderer,
		tr:       deps.Translator,
		bus:      deps.Bus,
		settings: deps.Settings,
		logger:   logger,
		namer:    sectionNamer{tr: deps.Translator},
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *contentService) CoursePage(ctx context.Context, courseID, userID int64, editing bool) (page *CoursePage, err error) {
	sp := startSpan(s.observer, "course-page", courseID)
	sp.set("user_id", userID)
	sp.set("editing", editing)
	defer func() { sp.done(ctx, err) }()

	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	page, err = s.page(ctx, course, userID, editing, nil)
	if err != nil {
		return nil, err
	}
	sp.set("rings", page.Initial.Rendered)
	return page, nil
}

func (s *contentService) SectionPage(ctx context.Context, courseID int64, sectionNum int, userID int64) (page *CoursePage, err error) {
	sp := startSpan(s.observer, "section-page", courseID)
	sp.set("user_id", userID)
	sp.set("section", sectionNum)
	defer func() { sp.done(ctx, err) }()

	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	sec, err := s.sections.GetByNumber(ctx, courseID, sectionNum)
	if err != nil {
		return nil, fmt.Errorf("section %d: %w", sectionNum, err)
	}
	page, err = s.page(ctx, course, userID, false, sec)
	if err != nil {
		return nil, err
	}
	sp.set("rings", page.Initial.Rendered)
	return page, nil
}

// page renders the course page, or the page of single when it is set.
func (s *contentService) page(ctx context.Context, course *domain.Course, userID int64, editing bool, single *domain.Section) (*CoursePage, error) {
	data, err := s.contentData(ctx, course, userID, single)
	if err != nil {
		return nil, err
	}
	out, err := s.renderer.Render(ctx, "content", data)
	if err != nil {
		return nil, fmt.Errorf("rendering course page: %w", err)
	}

	doc := render.NewPage()
	doc.Add(RegionContent, strconv.FormatInt(course.ID, 10), nil).ReplaceContents(out)
	cards := data.Sections
	if data.Single != nil {
		cards = []render.SectionCard{*data.Single}
	}
	for _, card := range cards {
		doc.Add(progress.RegionSections, strconv.FormatInt(card.ID, 10), nil)
	}
	doc.Add(progress.RegionCourse, strconv.FormatInt(course.ID, 10), nil)

	provider := state.NewCourseState(s.exporter, course.ID, userID, editing)
	refresher := progress.NewRefresher(provider, s.renderer, doc, progress.WithLogger(s.logger))
	initial, err := refresher.Start(ctx)
	if err != nil {
		return nil, err
	}

	page := &CoursePage{
		Course:   course,
		UserID:   userID,
		Data:     data,
		Rendered: out,
		Page:     doc,
		Initial:  initial,
	}
	if s.bus != nil && !editing {
		page.unsubscribe = s.bus.Subscribe(events.CMUpdated, func(ctx context.Context, ev events.Event) error {
			if ev.Snapshot.CourseID() != course.ID || ev.Snapshot.UserID() != userID {
				return nil
			}
			return refresher.HandleEvent(ctx, ev)
		})
	}
	return page, nil
}

func (s *contentService) contentData(ctx context.Context, course *domain.Course, userID int64, single *domain.Section) (render.ContentData, error) {
	sections, err := s.sections.ListByCourse(ctx, course.ID)
	if err != nil {
		return render.ContentData{}, err
	}
	modules, err := s.modules.ListByCourse(ctx, course.ID)
	if err != nil {
		return render.ContentData{}, err
	}
	snap, err := s.exporter.Export(ctx, course.ID, userID)
	if err != nil {
		return render.ContentData{}, err
	}
	aggs, err := progress.Aggregate(snap)
	if err != nil {
		return render.ContentData{}, err
	}
	multiPage := course.Display == domain.DisplayMultiPage
	b := cardBuilder{
		ctx:       ctx,
		svc:       s,
		course:    course,
		userID:    userID,
		aggs:      aggs,
		videos:    s.videoSet(ctx, course.ID, modules),
		states:    map[int64]domain.CompletionState{},
		bySection: map[int64][]*domain.CourseModule{},
		summaries: multiPage && single == nil,
	}
	for _, m := range modules {
		b.bySection[m.SectionID] = append(b.bySection[m.SectionID], m)
		if cm, ok := snap.CM(m.ID); ok {
			b.states[m.ID] = cm.State
		}
	}

	roots := buildTree(sections, s.namer)
	data := render.ContentData{CourseID: course.ID, CourseName: course.FullName, MultiPage: multiPage}
	if single != nil {
		node := findNode(roots, single.ID)
		if node == nil {
			return render.ContentData{}, fmt.Errorf("section %d: %w", single.ID, progress.ErrSectionNotFound)
		}
		card, err := b.card(node)
		if err != nil {
			return render.ContentData{}, err
		}
		data.Single = &card
		data.SectionNav = s.sectionNavigation(course, roots, node)
	} else {
		for _, node := range roots {
			card, err := b.card(node)
			if err != nil {
				return render.ContentData{}, err
			}
			data.Sections = append(data.Sections, card)
		}
	}
	data.Index = s.courseIndex(course, roots, b.bySection, multiPage || single != nil)

	if s.fields != nil {
		fields, err := s.fields.ListByCourse(ctx, course.ID)
		if err != nil {
			return render.ContentData{}, err
		}
		data.Tabs = s.tabs(course, fields, 0)
	}

	teachers, err := s.teachers.ListByCourse(ctx, course.ID)
	if err != nil {
		return render.ContentData{}, err
	}
	for _, t := range teachers {
		data.Teachers = append(data.Teachers, teacherCard(t))
	}
	return data, nil
}

// videoSet marks the video modules of the course. When the cached index is
// unavailable the module fields are read directly.
func (s *contentService) videoSet(ctx context.Context, courseID int64, modules []*domain.CourseModule) map[int64]bool {
	set := map[int64]bool{}
	if s.videos != nil {
		ids, err := s.videos.VideoIDs(ctx, courseID)
		if err == nil {
			for _, id := range ids {
				set[id] = true
			}
			return set
		}
		s.logger.Warn("video index unavailable", "course_id", courseID, "error", err)
	}
	for _, m := range modules {
		if m.FieldSet(s.settings.IsVideoFieldName) {
			set[m.ID] = true
		}
	}
	return set
}

type cardBuilder struct {
	ctx       context.Context
	svc       *contentService
	course    *domain.Course
	userID    int64
	aggs      map[int64]*progress.RootAggregate
	videos    map[int64]bool
	states    map[int64]domain.CompletionState
	bySection map[int64][]*domain.CourseModule
	// summaries renders sections other than the general one as linked
	// summaries without their activities.
	summaries bool
}

func (b *cardBuilder) card(node *SectionNode) (render.SectionCard, error) {
	sec := node.Section
	current := b.course.Marker != 0 && b.course.Marker == sec.Number
	modules := b.bySection[sec.ID]
	stats := summary.SectionStats(modules, b.states, b.userID != 0, b.svc.settings.DurationFieldName)

	imageURL, err := b.svc.images.SectionImageURL(b.ctx, b.course.ID, sec.ID)
	if err != nil {
		return render.SectionCard{}, fmt.Errorf("section %d image: %w", sec.ID, err)
	}

	card := render.SectionCard{
		ID:         sec.ID,
		Number:     sec.Number,
		Name:       node.Name,
		Summary:    sec.Summary,
		ImageURL:   imageURL,
		Layout:     sec.Layout.String(),
		Hidden:     !sec.Visible,
		Current:    current,
		Collapsed:  sec.Layout == domain.LayoutCard && !current,
		Indent:     b.svc.settings.Indentation && node.Depth > 1,
		Depth:      node.Depth,
		Stats:      stats.PurposeLines(b.svc.tr),
		Mods:       stats.ModLines(b.svc.tr),
		Duration:   stats.Duration(),
		Completion: stats.CompletionLine(),
	}
	if agg, ok := b.aggs[sec.ID]; ok && agg.Total > 0 {
		card.Ring = progress.NewRing(agg.Completed, agg.Total)
	}
	if b.summaries && !sec.IsGeneral() {
		card.URL = navigation.SectionURL(b.svc.settings.WWWRoot, sec)
		card.Collapsed = true
		return card, nil
	}

	for _, m := range modules {
		if !m.UserVisible {
			continue
		}
		card.Modules = append(card.Modules, render.ModuleLine{
			ID:       m.ID,
			Name:     m.Name,
			ModName:  m.ModName,
			URL:      m.URL,
			Hidden:   !m.Visible,
			Tracked:  b.userID != 0 && m.Tracked(),
			Complete: b.states[m.ID].IsComplete(),
			IsVideo:  b.videos[m.ID],
		})
	}

	for _, child := range node.Children {
		sub, err := b.card(child)
		if err != nil {
			return render.SectionCard{}, err
		}
		card.Subsections = append(card.Subsections, sub)
	}
	return card, nil
}

func teacherCard(t *domain.Teacher) render.TeacherCard {
	card := render.TeacherCard{FullName: t.FullName, Email: t.Email, Picture: t.Picture}
	names := make([]string, 0, len(t.Fields))
	for k := range t.Fields {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, k := range names {
		card.Fields = append(card.Fields, render.Field{Name: k, Value: t.Fields[k]})
	}
	return card
}

func (s *contentService) Progress(ctx context.Context, courseID, userID int64) ([]SectionProgress, error) {
	sections, err := s.sections.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	snap, err := s.exporter.Export(ctx, courseID, userID)
	if err != nil {
		return nil, err
	}
	aggs, err := progress.Aggregate(snap)
	if err != nil {
		return nil, err
	}

	var out []SectionProgress
	for _, sec := range sections {
		agg, ok := aggs[sec.ID]
		if !ok {
			continue
		}
		sp := SectionProgress{
			Section:   sec,
			Name:      s.namer.name(sec),
			Completed: agg.Completed,
			Total:     agg.Total,
			Percent:   -1,
		}
		if pct, ok := agg.Percentage(); ok {
			sp.Percent = pct
		}
		out = append(out, sp)
	}
	return out, nil
}
