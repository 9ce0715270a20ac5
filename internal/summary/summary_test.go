package summary

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/mawang/internal/cache"
	"github.com/alexanderramin/mawang/internal/domain"
	"github.com/alexanderramin/mawang/internal/events"
	"github.com/alexanderramin/mawang/internal/i18n"
	"github.com/alexanderramin/mawang/internal/repository"
	"github.com/alexanderramin/mawang/internal/testutil"
)

func TestDurationString(t *testing.T) {
	assert.Equal(t, "1h 30m", DurationString(90))
	assert.Equal(t, "45m", DurationString(45))
	assert.Equal(t, "2h", DurationString(120))
	assert.Equal(t, "", DurationString(0))
}

func TestSectionStats(t *testing.T) {
	page1 := testutil.NewTestModule(1, 1, "Intro", testutil.WithDuration(30))
	page1.ID = 1
	page2 := testutil.NewTestModule(1, 1, "Reading", testutil.WithDuration(15))
	page2.ID = 2
	quiz := testutil.NewTestModule(1, 1, "Check", testutil.WithModName("quiz"), testutil.WithPurpose(domain.PurposeAssessment), testutil.WithDuration(45))
	quiz.ID = 3
	video := testutil.NewTestModule(1, 1, "Lecture", testutil.WithModName("video"), testutil.WithTracking(domain.TrackingNone))
	video.ID = 4
	hidden := testutil.NewTestModule(1, 1, "Secret", testutil.WithUserVisible(false), testutil.WithDuration(600))
	hidden.ID = 5

	states := map[int64]domain.CompletionState{1: domain.StateComplete, 3: domain.StateCompleteFail}
	stats := SectionStats([]*domain.CourseModule{page1, page2, quiz, video, hidden}, states, true, "duration")

	assert.Equal(t, []ModCount{{"page", 2}, {"quiz", 1}, {"video", 1}}, stats.Mods)
	assert.Equal(t, 1, stats.Activities)
	assert.Equal(t, 2, stats.Readings)
	assert.Equal(t, 1, stats.Videos)
	assert.Equal(t, "1h 30m", stats.Duration())
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 1, stats.Completed)
	assert.True(t, stats.ShowCompletion)
	assert.Equal(t, "1/3", stats.CompletionLine())

	tr := i18n.MustNew("en")
	assert.Equal(t, []string{"1 activity", "2 readings", "1 video"}, stats.PurposeLines(tr))
	assert.Equal(t, []string{"2 pages", "1 quiz", "1 video"}, stats.ModLines(tr))
}

func TestSectionStats_GuestHidesCompletion(t *testing.T) {
	m := testutil.NewTestModule(1, 1, "Intro")
	stats := SectionStats([]*domain.CourseModule{m}, nil, false, "duration")
	assert.False(t, stats.ShowCompletion)
	assert.Equal(t, 0, stats.Total)
	assert.Empty(t, stats.CompletionLine())
}

func TestSectionStats_DurationFromConfiguredField(t *testing.T) {
	lesson := testutil.NewTestModule(1, 1, "Lesson", testutil.WithDuration(120), testutil.WithField("minutes", "20"))
	lab := testutil.NewTestModule(1, 1, "Lab", testutil.WithField("minutes", "25 min"))
	modules := []*domain.CourseModule{lesson, lab}

	assert.Equal(t, "45m", SectionStats(modules, nil, false, "minutes").Duration())
	assert.Equal(t, "2h", SectionStats(modules, nil, false, "duration").Duration())
	assert.Empty(t, SectionStats(modules, nil, false, "effort").Duration())
}

func TestVideoIndex_CachesAndPurges(t *testing.T) {
	ctx := context.Background()
	conn := testutil.NewTestDB(t)
	courses := repository.NewSQLiteCourseRepo(conn)
	sections := repository.NewSQLiteSectionRepo(conn)
	modules := repository.NewSQLiteModuleRepo(conn)

	course := testutil.NewTestCourse("Physics")
	require.NoError(t, courses.Create(ctx, course))
	sec := testutil.NewTestSection(course.ID, 0)
	require.NoError(t, sections.Create(ctx, sec))
	lecture := testutil.NewTestModule(course.ID, sec.ID, "Lecture", testutil.WithVideo())
	require.NoError(t, modules.Create(ctx, lecture))
	notes := testutil.NewTestModule(course.ID, sec.ID, "Notes")
	require.NoError(t, modules.Create(ctx, notes))

	store := cache.NewMemory(0)
	index := NewVideoIndex(store, modules, "isvideo")

	ids, err := index.VideoIDs(ctx, course.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{lecture.ID}, ids)
	assert.Equal(t, 1, store.Len())

	// Served from the cache until a structure event purges it.
	notes.Fields = map[string]string{"isvideo": "1"}
	require.NoError(t, modules.Update(ctx, notes))
	ids, err = index.VideoIDs(ctx, course.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{lecture.ID}, ids)

	bus := events.NewBus(nil)
	index.Subscribe(bus)
	require.NoError(t, bus.Publish(ctx, events.Event{Kind: events.CMEdited, CourseID: course.ID, ItemID: notes.ID}))
	ids, err = index.VideoIDs(ctx, course.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{lecture.ID, notes.ID}, ids)
}

func TestVideoIndex_ReadsConfiguredField(t *testing.T) {
	ctx := context.Background()
	conn := testutil.NewTestDB(t)
	course := testutil.NewTestCourse("Physics")
	require.NoError(t, repository.NewSQLiteCourseRepo(conn).Create(ctx, course))
	sec := testutil.NewTestSection(course.ID, 0)
	require.NoError(t, repository.NewSQLiteSectionRepo(conn).Create(ctx, sec))
	modules := repository.NewSQLiteModuleRepo(conn)
	flagged := testutil.NewTestModule(course.ID, sec.ID, "Lecture", testutil.WithField("recording", "1"))
	require.NoError(t, modules.Create(ctx, flagged))
	defaulted := testutil.NewTestModule(course.ID, sec.ID, "Clip", testutil.WithVideo())
	require.NoError(t, modules.Create(ctx, defaulted))

	ids, err := NewVideoIndex(cache.NewMemory(0), modules, "recording").VideoIDs(ctx, course.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{flagged.ID}, ids)
}

func TestVideoIndex_NoFieldDisablesDetection(t *testing.T) {
	index := NewVideoIndex(cache.NewMemory(0), nil, "")
	ids, err := index.VideoIDs(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, ids)
}
