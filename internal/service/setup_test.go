package service

import (
	"bytes"
	"context"
	"database/sql"
	"image"
	"image/color"
	"image/png"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/mawang/internal/backup"
	"github.com/alexanderramin/mawang/internal/cache"
	"github.com/alexanderramin/mawang/internal/config"
	"github.com/alexanderramin/mawang/internal/db"
	"github.com/alexanderramin/mawang/internal/domain"
	"github.com/alexanderramin/mawang/internal/events"
	"github.com/alexanderramin/mawang/internal/i18n"
	"github.com/alexanderramin/mawang/internal/imagestore"
	"github.com/alexanderramin/mawang/internal/render"
	"github.com/alexanderramin/mawang/internal/repository"
	"github.com/alexanderramin/mawang/internal/state"
	"github.com/alexanderramin/mawang/internal/summary"
	"github.com/alexanderramin/mawang/internal/testutil"
)

const testWWWRoot = "https://lms.example.org"

// testEnv wires every service against one in-memory database.
type testEnv struct {
	db       *sql.DB
	uow      db.UnitOfWork
	bus      *events.Bus
	settings config.Settings

	courseRepo     *repository.SQLiteCourseRepo
	sectionRepo    *repository.SQLiteSectionRepo
	moduleRepo     *repository.SQLiteModuleRepo
	completionRepo *repository.SQLiteCompletionRepo
	fileRepo       *repository.SQLiteFileRepo
	fieldRepo      *repository.SQLiteCourseFieldRepo

	courses     CourseService
	sections    SectionService
	completions CompletionService
	content     ContentService
	nav         NavigationService
	images      ImageService
	backups     BackupService
	imports     ImportService
}

func newTestEnv(t *testing.T, opts ...func(*config.Settings)) *testEnv {
	t.Helper()
	settings := config.Default()
	settings.WWWRoot = testWWWRoot
	for _, opt := range opts {
		opt(&settings)
	}

	database := testutil.NewTestDB(t)
	uow := testutil.NewTestUoW(database)
	bus := events.NewBus(nil)
	tr := i18n.MustNew(settings.Language)
	renderer, err := render.New(tr)
	require.NoError(t, err)

	e := &testEnv{
		db:             database,
		uow:            uow,
		bus:            bus,
		settings:       settings,
		courseRepo:     repository.NewSQLiteCourseRepo(database),
		sectionRepo:    repository.NewSQLiteSectionRepo(database),
		moduleRepo:     repository.NewSQLiteModuleRepo(database),
		completionRepo: repository.NewSQLiteCompletionRepo(database),
		fileRepo:       repository.NewSQLiteFileRepo(database),
		fieldRepo:      repository.NewSQLiteCourseFieldRepo(database),
	}
	store := imagestore.New(e.fileRepo, settings.WWWRoot, settings.DefaultSectionImage)
	exporter := state.NewExporter(e.sectionRepo, e.moduleRepo, e.completionRepo)
	videos := summary.NewVideoIndex(cache.NewMemory(time.Hour), e.moduleRepo, settings.IsVideoFieldName)
	videos.Subscribe(bus)

	e.courses = NewCourseService(e.courseRepo, e.sectionRepo, uow, settings, tr)
	e.sections = NewSectionService(e.courseRepo, e.sectionRepo, store, uow, bus, settings, tr)
	e.completions = NewCompletionService(e.moduleRepo, e.completionRepo, exporter, bus)
	e.content = NewContentService(ContentDeps{
		Courses:    e.courseRepo,
		Sections:   e.sectionRepo,
		Modules:    e.moduleRepo,
		Teachers:   repository.NewSQLiteTeacherRepo(database),
		Fields:     e.fieldRepo,
		Exporter:   exporter,
		Images:     store,
		Videos:     videos,
		Renderer:   renderer,
		Translator: tr,
		Bus:        bus,
		Settings:   settings,
	})
	e.nav = NewNavigationService(e.courseRepo, e.sectionRepo, e.moduleRepo, renderer, settings, tr)
	e.images = NewImageService(e.sectionRepo, store, bus)
	e.backups = NewBackupService(backup.NewArchiver(e.courseRepo, e.sectionRepo, e.fileRepo, uow), bus)
	e.imports = NewImportService(uow, bus, settings)
	return e
}

func (e *testEnv) createCourse(t *testing.T, name string, opts ...testutil.CourseOption) *domain.Course {
	t.Helper()
	c := testutil.NewTestCourse(name, opts...)
	require.NoError(t, e.courses.Create(context.Background(), c))
	return c
}

func (e *testEnv) general(t *testing.T, courseID int64) *domain.Section {
	t.Helper()
	s, err := e.sectionRepo.GetByNumber(context.Background(), courseID, 0)
	require.NoError(t, err)
	return s
}

func (e *testEnv) addModule(t *testing.T, courseID, sectionID int64, name string, opts ...testutil.ModuleOption) *domain.CourseModule {
	t.Helper()
	m := testutil.NewTestModule(courseID, sectionID, name, opts...)
	require.NoError(t, e.moduleRepo.Create(context.Background(), m))
	return m
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
