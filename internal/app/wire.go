// Package app assembles the repositories, stores and services of mawang
// into one set of use cases.
package app

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/alexanderramin/mawang/internal/backup"
	"github.com/alexanderramin/mawang/internal/cache"
	"github.com/alexanderramin/mawang/internal/config"
	"github.com/alexanderramin/mawang/internal/db"
	"github.com/alexanderramin/mawang/internal/events"
	"github.com/alexanderramin/mawang/internal/i18n"
	"github.com/alexanderramin/mawang/internal/imagestore"
	"github.com/alexanderramin/mawang/internal/render"
	"github.com/alexanderramin/mawang/internal/repository"
	"github.com/alexanderramin/mawang/internal/service"
	"github.com/alexanderramin/mawang/internal/state"
	"github.com/alexanderramin/mawang/internal/summary"
)

// Options are the optional collaborators of Build.
type Options struct {
	// Cache backs the video index. Nil means an in-memory cache with the
	// configured TTL.
	Cache    cache.Cache
	Logger   *slog.Logger
	Observer service.UseCaseObserver
}

// UseCases is the assembled application.
type UseCases struct {
	Bus      *events.Bus
	Settings config.Settings

	Courses     service.CourseService
	Sections    service.SectionService
	Completions service.CompletionService
	Content     service.ContentService
	Navigation  service.NavigationService
	Images      service.ImageService
	Backups     service.BackupService
	Import      service.ImportService

	unsubscribe []func()
}

// Build wires every service against database.
func Build(database *sql.DB, settings config.Settings, opts Options) (*UseCases, error) {
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("settings: %w", err)
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	store := opts.Cache
	if store == nil {
		store = cache.NewMemory(settings.VideoCacheTTL)
	}

	tr, err := i18n.New(settings.Language)
	if err != nil {
		return nil, err
	}
	renderer, err := render.New(tr)
	if err != nil {
		return nil, err
	}

	uow := db.NewSQLiteUnitOfWork(database)
	courses := repository.NewSQLiteCourseRepo(database)
	sections := repository.NewSQLiteSectionRepo(database)
	modules := repository.NewSQLiteModuleRepo(database)
	completions := repository.NewSQLiteCompletionRepo(database)
	files := repository.NewSQLiteFileRepo(database)
	teachers := repository.NewSQLiteTeacherRepo(database)
	fields := repository.NewSQLiteCourseFieldRepo(database)

	bus := events.NewBus(logger)
	images := imagestore.New(files, settings.WWWRoot, settings.DefaultSectionImage)
	exporter := state.NewExporter(sections, modules, completions)
	videos := summary.NewVideoIndex(store, modules, settings.IsVideoFieldName)

	uc := &UseCases{
		Bus:      bus,
		Settings: settings,

		Courses:     service.NewCourseService(courses, sections, uow, settings, tr),
		Sections:    service.NewSectionService(courses, sections, images, uow, bus, settings, tr, opts.Observer),
		Completions: service.NewCompletionService(modules, completions, exporter, bus, opts.Observer),
		Content: service.NewContentService(service.ContentDeps{
			Courses:    courses,
			Sections:   sections,
			Modules:    modules,
			Teachers:   teachers,
			Fields:     fields,
			Exporter:   exporter,
			Images:     images,
			Videos:     videos,
			Renderer:   renderer,
			Translator: tr,
			Bus:        bus,
			Settings:   settings,
			Logger:     logger,
		}, opts.Observer),
		Navigation: service.NewNavigationService(courses, sections, modules, renderer, settings, tr),
		Images:     service.NewImageService(sections, images, bus, opts.Observer),
		Backups:    service.NewBackupService(backup.NewArchiver(courses, sections, files, uow), bus, opts.Observer),
		Import:     service.NewImportService(uow, bus, settings, opts.Observer),
	}
	uc.unsubscribe = append(uc.unsubscribe, videos.Subscribe(bus))
	return uc, nil
}

// Close detaches the event subscriptions made by Build.
func (u *UseCases) Close() {
	for _, fn := range u.unsubscribe {
		fn()
	}
	u.unsubscribe = nil
}
