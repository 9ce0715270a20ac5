package backup

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/mawang/internal/domain"
	"github.com/alexanderramin/mawang/internal/imagestore"
	"github.com/alexanderramin/mawang/internal/repository"
	"github.com/alexanderramin/mawang/internal/testutil"
)

type fixture struct {
	archiver *Archiver
	courses  *repository.SQLiteCourseRepo
	sections *repository.SQLiteSectionRepo
	files    *repository.SQLiteFileRepo
	images   *imagestore.Store
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	conn := testutil.NewTestDB(t)
	f := &fixture{
		courses:  repository.NewSQLiteCourseRepo(conn),
		sections: repository.NewSQLiteSectionRepo(conn),
		files:    repository.NewSQLiteFileRepo(conn),
	}
	f.archiver = NewArchiver(f.courses, f.sections, f.files, testutil.NewTestUoW(conn))
	f.archiver.now = func() time.Time { return time.Date(2026, 5, 4, 9, 30, 0, 0, time.UTC) }
	f.images = imagestore.New(f.files, "", "")
	return f
}

// course creates a course with sections numbered 0..n-1.
func (f *fixture) course(t *testing.T, name string, n int) (*domain.Course, []*domain.Section) {
	t.Helper()
	ctx := context.Background()
	c := testutil.NewTestCourse(name)
	require.NoError(t, f.courses.Create(ctx, c))
	var secs []*domain.Section
	for i := 0; i < n; i++ {
		s := testutil.NewTestSection(c.ID, i)
		require.NoError(t, f.sections.Create(ctx, s))
		secs = append(secs, s)
	}
	return c, secs
}

func (f *fixture) image(t *testing.T, courseID, sectionID int64, name, content string) *domain.StoredFile {
	t.Helper()
	svg := `<svg xmlns="http://www.w3.org/2000/svg"><title>` + content + `</title></svg>`
	file, err := f.images.SaveSectionImage(context.Background(), courseID, sectionID, name, strings.NewReader(svg))
	require.NoError(t, err)
	return file
}

func (f *fixture) area(t *testing.T, courseID, itemID int64) []*domain.StoredFile {
	t.Helper()
	files, err := f.files.ListArea(context.Background(), courseID, domain.Component, domain.AreaSectionImage, itemID)
	require.NoError(t, err)
	return files
}

func TestCreate_WritesManifestAndBlobs(t *testing.T) {
	f := newFixture(t)
	course, secs := f.course(t, "Source", 3)
	img := f.image(t, course.ID, secs[1].ID, "cells.svg", "cells")
	f.image(t, course.ID, secs[2].ID, "copy.svg", "cells")

	dir := t.TempDir()
	m, err := f.archiver.Create(context.Background(), course.ID, dir)
	require.NoError(t, err)
	assert.Equal(t, FormatVersion, m.Version)
	assert.NotEmpty(t, m.ArchiveID)
	require.Len(t, m.Sections, 3)
	assert.Empty(t, m.Sections[0].Images)
	require.Len(t, m.Sections[1].Images, 1)
	assert.Equal(t, img.ContentHash, m.Sections[1].Images[0].ContentHash)

	blobs, err := os.ReadDir(filepath.Join(dir, BlobDir))
	require.NoError(t, err)
	assert.Len(t, blobs, 1, "identical content is stored once")

	loaded, err := ReadManifest(dir)
	require.NoError(t, err)
	assert.Equal(t, m.ArchiveID, loaded.ArchiveID)
	assert.Equal(t, m.Sections, loaded.Sections)
}

func TestRestore_IntoNewCourseMovesImages(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	source, srcSecs := f.course(t, "Source", 2)
	f.image(t, source.ID, srcSecs[1].ID, "cells.svg", "cells")
	dir := t.TempDir()
	_, err := f.archiver.Create(ctx, source.ID, dir)
	require.NoError(t, err)

	target, dstSecs := f.course(t, "Target", 2)
	report, err := f.archiver.Restore(ctx, dir, target.ID, RestoreOptions{})
	require.NoError(t, err)

	assert.Equal(t, 1, report.Count(OutcomeMoved))
	assert.Equal(t, 1, report.Count(OutcomeNoImage))
	moved := f.area(t, target.ID, dstSecs[1].ID)
	require.Len(t, moved, 1)
	assert.Equal(t, "cells.svg", moved[0].FileName)
	assert.Empty(t, f.area(t, target.ID, srcSecs[1].ID), "staged copy under the old id is cleared")
	assert.Len(t, f.area(t, source.ID, srcSecs[1].ID), 1, "source course untouched")
}

func TestRestore_IntoSameCourseIsNoOp(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	course, secs := f.course(t, "Same", 2)
	original := f.image(t, course.ID, secs[1].ID, "cells.svg", "cells")
	dir := t.TempDir()
	_, err := f.archiver.Create(ctx, course.ID, dir)
	require.NoError(t, err)

	report, err := f.archiver.Restore(ctx, dir, course.ID, RestoreOptions{})
	require.NoError(t, err)

	assert.Equal(t, 1, report.Count(OutcomeUnchanged))
	area := f.area(t, course.ID, secs[1].ID)
	require.Len(t, area, 1)
	assert.Equal(t, original.ID, area[0].ID)
}

func TestRestore_IdenticalContentKeepsExisting(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	source, srcSecs := f.course(t, "Source", 2)
	f.image(t, source.ID, srcSecs[1].ID, "cells.svg", "cells")
	dir := t.TempDir()
	_, err := f.archiver.Create(ctx, source.ID, dir)
	require.NoError(t, err)

	target, dstSecs := f.course(t, "Target", 2)
	existing := f.image(t, target.ID, dstSecs[1].ID, "other-name.svg", "cells")

	report, err := f.archiver.Restore(ctx, dir, target.ID, RestoreOptions{})
	require.NoError(t, err)

	assert.Equal(t, 1, report.Count(OutcomeDuplicate))
	area := f.area(t, target.ID, dstSecs[1].ID)
	require.Len(t, area, 1)
	assert.Equal(t, existing.ID, area[0].ID)
	assert.Empty(t, f.area(t, target.ID, srcSecs[1].ID))
}

func TestRestore_DifferentContentReplacesExisting(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	source, srcSecs := f.course(t, "Source", 2)
	f.image(t, source.ID, srcSecs[1].ID, "cells.svg", "cells")
	dir := t.TempDir()
	_, err := f.archiver.Create(ctx, source.ID, dir)
	require.NoError(t, err)

	target, dstSecs := f.course(t, "Target", 2)
	f.image(t, target.ID, dstSecs[1].ID, "old.svg", "something else")

	report, err := f.archiver.Restore(ctx, dir, target.ID, RestoreOptions{})
	require.NoError(t, err)

	assert.Equal(t, 1, report.Count(OutcomeReplaced))
	area := f.area(t, target.ID, dstSecs[1].ID)
	require.Len(t, area, 1)
	assert.Equal(t, "cells.svg", area[0].FileName)
}

func TestRestore_MissingSections(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	source, srcSecs := f.course(t, "Source", 3)
	child := testutil.NewTestSection(source.ID, 3, testutil.WithParent(srcSecs[2].ID), testutil.WithSectionName("Lab"))
	require.NoError(t, f.sections.Create(ctx, child))
	f.image(t, source.ID, child.ID, "lab.svg", "lab")
	dir := t.TempDir()
	_, err := f.archiver.Create(ctx, source.ID, dir)
	require.NoError(t, err)

	t.Run("skipped by default", func(t *testing.T) {
		target, _ := f.course(t, "Short", 1)
		report, err := f.archiver.Restore(ctx, dir, target.ID, RestoreOptions{})
		require.NoError(t, err)
		assert.Equal(t, 3, report.Count(OutcomeSkipped))
	})

	t.Run("created on request", func(t *testing.T) {
		target, _ := f.course(t, "Grown", 1)
		report, err := f.archiver.Restore(ctx, dir, target.ID, RestoreOptions{CreateMissingSections: true})
		require.NoError(t, err)
		assert.Equal(t, 1, report.Count(OutcomeMoved))

		lab, err := f.sections.GetByNumber(ctx, target.ID, 3)
		require.NoError(t, err)
		assert.Equal(t, "Lab", lab.Name)
		parent, err := f.sections.GetByNumber(ctx, target.ID, 2)
		require.NoError(t, err)
		assert.Equal(t, parent.ID, lab.ParentID)
		assert.Len(t, f.area(t, target.ID, lab.ID), 1)
	})
}

func TestRestore_ForeignIDOwnedByAnotherSection(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	source, srcSecs := f.course(t, "Source", 2)
	f.image(t, source.ID, srcSecs[1].ID, "cells.svg", "cells")
	dir := t.TempDir()
	m, err := f.archiver.Create(ctx, source.ID, dir)
	require.NoError(t, err)

	target, dstSecs := f.course(t, "Target", 3)
	keep := f.image(t, target.ID, dstSecs[2].ID, "keep.svg", "keep")

	// Pretend the archive came from a site where section 1 had the id of
	// this course's section 2.
	m.Sections[1].ID = dstSecs[2].ID
	require.NoError(t, writeManifest(dir, m))

	report, err := f.archiver.Restore(ctx, dir, target.ID, RestoreOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Count(OutcomeMoved))

	assert.Len(t, f.area(t, target.ID, dstSecs[1].ID), 1)
	kept := f.area(t, target.ID, dstSecs[2].ID)
	require.Len(t, kept, 1)
	assert.Equal(t, keep.ID, kept[0].ID)
}

func TestRestore_CorruptBlobRollsBack(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	source, srcSecs := f.course(t, "Source", 3)
	f.image(t, source.ID, srcSecs[1].ID, "one.svg", "one")
	second := f.image(t, source.ID, srcSecs[2].ID, "two.svg", "two")
	dir := t.TempDir()
	_, err := f.archiver.Create(ctx, source.ID, dir)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(blobPath(dir, second.ContentHash), []byte("tampered"), 0o644))

	target, dstSecs := f.course(t, "Target", 3)
	_, err = f.archiver.Restore(ctx, dir, target.ID, RestoreOptions{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCorruptBlob))
	assert.Empty(t, f.area(t, target.ID, dstSecs[1].ID), "first section's move is rolled back")
}

func TestReadManifest_RejectsUnknownVersion(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ManifestName), []byte("version: 9\n"), 0o644))
	_, err := ReadManifest(dir)
	assert.ErrorIs(t, err, ErrUnsupportedVersion)
}
