package cli

import (
	"bytes"
	"context"
	"database/sql"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/mawang/internal/app"
	"github.com/alexanderramin/mawang/internal/config"
	"github.com/alexanderramin/mawang/internal/domain"
	"github.com/alexanderramin/mawang/internal/repository"
	"github.com/alexanderramin/mawang/internal/service"
	"github.com/alexanderramin/mawang/internal/testutil"
)

const courseJSON = `{
  "course": {"shortname": "BIO101", "fullname": "Biology", "cmbacklink": true,
    "customfields": [{"id": 3, "name": "About", "fields": [
      {"shortname": "level", "name": "Level", "value": "Intro"},
      {"shortname": "room", "name": "Room"}
    ]}]},
  "sections": [
    {"ref": "general"},
    {"ref": "cells", "name": "Cells"},
    {"ref": "lab", "parent_ref": "cells", "name": "Lab"}
  ],
  "modules": [
    {"ref": "intro", "section_ref": "general", "modname": "page", "name": "Intro", "url": "/mod/page/view.php?id=1", "tracking": "manual"},
    {"ref": "quiz", "section_ref": "cells", "modname": "quiz", "name": "Check", "url": "/mod/quiz/view.php?id=2", "tracking": "automatic"},
    {"ref": "report", "section_ref": "lab", "modname": "assign", "name": "Report", "url": "/mod/assign/view.php?id=3", "tracking": "manual"}
  ],
  "completions": [{"module_ref": "quiz", "user_id": 7, "state": "complete_pass"}]
}`

type cliEnv struct {
	app *App
	db  *sql.DB
}

func testApp(t *testing.T) *cliEnv {
	t.Helper()
	database := testutil.NewTestDB(t)
	settings := config.Default()
	settings.WWWRoot = "https://lms.example.org"

	uc, err := app.Build(database, settings, app.Options{})
	require.NoError(t, err)
	t.Cleanup(uc.Close)

	return &cliEnv{
		db: database,
		app: &App{
			Courses:     uc.Courses,
			Sections:    uc.Sections,
			Completions: uc.Completions,
			Content:     uc.Content,
			Navigation:  uc.Navigation,
			Images:      uc.Images,
			Backups:     uc.Backups,
			Import:      uc.Import,
		},
	}
}

func executeCmd(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func writeFile(t *testing.T, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, content, 0o644))
	return path
}

func writePNG(t *testing.T) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.RGBA{G: 180, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return writeFile(t, "cells.png", buf.Bytes())
}

// importCourse imports courseJSON under shortName and returns the course
// with its sections in number order.
func importCourse(t *testing.T, env *cliEnv, shortName string) (*domain.Course, []*domain.Section) {
	t.Helper()
	content := bytes.Replace([]byte(courseJSON), []byte("BIO101"), []byte(shortName), 1)
	_, err := executeCmd(t, env.app, "course", "import", writeFile(t, "course.json", content))
	require.NoError(t, err)

	ctx := context.Background()
	course, err := repository.NewSQLiteCourseRepo(env.db).GetByShortName(ctx, shortName)
	require.NoError(t, err)
	sections, err := repository.NewSQLiteSectionRepo(env.db).ListByCourse(ctx, course.ID)
	require.NoError(t, err)
	require.Len(t, sections, 3)
	return course, sections
}

func moduleID(t *testing.T, env *cliEnv, courseID int64, name string) string {
	t.Helper()
	modules, err := repository.NewSQLiteModuleRepo(env.db).ListByCourse(context.Background(), courseID)
	require.NoError(t, err)
	for _, m := range modules {
		if m.Name == name {
			return strconv.FormatInt(m.ID, 10)
		}
	}
	t.Fatalf("module %q not found", name)
	return ""
}

func sectionArg(s *domain.Section) string {
	return strconv.FormatInt(s.ID, 10)
}

// --- course ---

func TestCourseImport_PrintsCounts(t *testing.T) {
	env := testApp(t)

	out, err := executeCmd(t, env.app, "course", "import", writeFile(t, "course.json", []byte(courseJSON)))
	require.NoError(t, err)
	assert.Contains(t, out, "Imported course Biology [BIO101]")
	assert.Contains(t, out, "3 sections, 3 activities, 0 teachers, 2 custom fields, 1 completions")
}

func TestCourseImport_MissingFile(t *testing.T) {
	env := testApp(t)

	_, err := executeCmd(t, env.app, "course", "import", filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestCourseList(t *testing.T) {
	env := testApp(t)

	out, err := executeCmd(t, env.app, "course", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No courses.")

	importCourse(t, env, "BIO101")
	out, err = executeCmd(t, env.app, "course", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "BIO101")
	assert.Contains(t, out, "Biology")
}

func TestCourseShow_TreeWithProgress(t *testing.T) {
	env := testApp(t)
	importCourse(t, env, "BIO101")

	out, err := executeCmd(t, env.app, "course", "show", "bio101", "--user", "7")
	require.NoError(t, err)
	assert.Contains(t, out, "BIOLOGY")
	assert.Contains(t, out, "General")
	assert.Contains(t, out, "Cells")
	assert.Contains(t, out, "Lab")
	assert.Contains(t, out, "50%")
}

func TestCourseShow_UnknownCourse(t *testing.T) {
	env := testApp(t)

	_, err := executeCmd(t, env.app, "course", "show", "CHEM")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "course not found")
}

// --- section ---

func TestSectionAdd_Subsection(t *testing.T) {
	env := testApp(t)
	course, sections := importCourse(t, env, "BIO101")

	out, err := executeCmd(t, env.app, "section", "add", course.ShortName, "--name", "Membranes", "--parent", sectionArg(sections[1]))
	require.NoError(t, err)
	assert.Contains(t, out, `Added section 3 "Membranes"`)
}

func TestSectionAdd_DepthExceeded(t *testing.T) {
	env := testApp(t)
	course, sections := importCourse(t, env, "BIO101")

	_, err := executeCmd(t, env.app, "section", "add", course.ShortName, "--parent", sectionArg(sections[2]))
	assert.Error(t, err)
}

func TestSectionAction_SetMarkerAndHide(t *testing.T) {
	env := testApp(t)
	course, sections := importCourse(t, env, "BIO101")
	cells := sectionArg(sections[1])

	out, err := executeCmd(t, env.app, "section", "action", cells, "setmarker")
	require.NoError(t, err)
	assert.Contains(t, out, "Cells: setmarker")

	_, err = executeCmd(t, env.app, "section", "action", cells, "hide")
	require.NoError(t, err)

	out, err = executeCmd(t, env.app, "course", "show", course.ShortName)
	require.NoError(t, err)
	assert.Contains(t, out, "§1 ▶ Cells (hidden)", "the marker survives hiding")
}

func TestSectionAction_Rejections(t *testing.T) {
	env := testApp(t)
	_, sections := importCourse(t, env, "BIO101")

	_, err := executeCmd(t, env.app, "section", "action", sectionArg(sections[0]), "hide")
	assert.Error(t, err, "general section cannot be hidden")

	_, err = executeCmd(t, env.app, "section", "action", sectionArg(sections[1]), "explode")
	assert.Error(t, err)

	_, err = executeCmd(t, env.app, "section", "action", "abc", "show")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid section id")
}

func TestSectionEdit_FlagsAndImage(t *testing.T) {
	env := testApp(t)
	_, sections := importCourse(t, env, "BIO101")
	cells := sectionArg(sections[1])

	out, err := executeCmd(t, env.app, "section", "edit", cells, "--name", "Cell biology", "--layout", "expanded", "--image", writePNG(t))
	require.NoError(t, err)
	assert.Contains(t, out, `Updated section 1 "Cell biology"`)

	sec, err := repository.NewSQLiteSectionRepo(env.db).GetByID(context.Background(), sections[1].ID)
	require.NoError(t, err)
	assert.Equal(t, domain.LayoutExpanded, sec.Layout)

	out, err = executeCmd(t, env.app, "image", "url", cells)
	require.NoError(t, err)
	assert.Contains(t, out, "pluginfile.php")
	assert.Contains(t, out, "cells.png")
}

func TestSectionEdit_InvalidLayout(t *testing.T) {
	env := testApp(t)
	_, sections := importCourse(t, env, "BIO101")

	_, err := executeCmd(t, env.app, "section", "edit", sectionArg(sections[1]), "--layout", "tiles")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "layout must be")
}

func TestSectionEdit_InteractiveNeedsTerminal(t *testing.T) {
	env := testApp(t)
	_, sections := importCourse(t, env, "BIO101")

	_, err := executeCmd(t, env.app, "section", "edit", sectionArg(sections[1]), "-i")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "needs a terminal")
}

func TestSectionEdit_ImageAndRemoveAreExclusive(t *testing.T) {
	env := testApp(t)
	_, sections := importCourse(t, env, "BIO101")

	_, err := executeCmd(t, env.app, "section", "edit", sectionArg(sections[1]), "--image", writePNG(t), "--remove-image")
	assert.Error(t, err)
}

// --- cm / progress ---

func TestCMComplete_PrintsRootProgress(t *testing.T) {
	env := testApp(t)
	course, _ := importCourse(t, env, "BIO101")

	out, err := executeCmd(t, env.app, "cm", "complete", moduleID(t, env, course.ID, "Report"), "--user", "7")
	require.NoError(t, err)
	assert.Contains(t, out, "is complete for user 7")
	assert.Contains(t, out, "Cells: 100% (2/2)", "the lab report counts toward its root section")
}

func TestCMComplete_RequiresUser(t *testing.T) {
	env := testApp(t)
	course, _ := importCourse(t, env, "BIO101")

	_, err := executeCmd(t, env.app, "cm", "complete", moduleID(t, env, course.ID, "Report"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--user is required")
}

func TestCMComplete_InvalidState(t *testing.T) {
	env := testApp(t)
	course, _ := importCourse(t, env, "BIO101")

	_, err := executeCmd(t, env.app, "cm", "complete", moduleID(t, env, course.ID, "Report"), "--user", "7", "--state", "halfway")
	assert.Error(t, err)
}

func TestProgress_Table(t *testing.T) {
	env := testApp(t)
	importCourse(t, env, "BIO101")

	out, err := executeCmd(t, env.app, "progress", "BIO101", "--user", "7")
	require.NoError(t, err)
	assert.Contains(t, out, "BIOLOGY · USER 7")
	assert.Contains(t, out, "1/2")
	assert.Contains(t, out, "0/1")
	assert.Contains(t, out, "Course:")
}

func TestProgress_HTML(t *testing.T) {
	env := testApp(t)
	importCourse(t, env, "BIO101")

	out, err := executeCmd(t, env.app, "progress", "BIO101", "--user", "7", "--html")
	require.NoError(t, err)
	assert.Contains(t, out, `data-region="courseprogress"`)
	assert.Contains(t, out, "<svg")
}

// --- image ---

func TestImageURL_DefaultFallback(t *testing.T) {
	env := testApp(t)
	_, sections := importCourse(t, env, "BIO101")

	out, err := executeCmd(t, env.app, "image", "url", sectionArg(sections[1]))
	require.NoError(t, err)
	assert.Contains(t, out, "https://lms.example.org/theme/image.php/format_mawang/defaultsectionimage")
}

func TestImageSet_UnsupportedType(t *testing.T) {
	env := testApp(t)
	_, sections := importCourse(t, env, "BIO101")

	_, err := executeCmd(t, env.app, "image", "set", sectionArg(sections[1]), writeFile(t, "notes.txt", []byte("plain")))
	assert.Error(t, err)
}

// --- backup ---

func TestBackup_CreateAndRestore(t *testing.T) {
	env := testApp(t)
	_, sections := importCourse(t, env, "BIO101")
	target, _ := importCourse(t, env, "BIO102")

	_, err := executeCmd(t, env.app, "image", "set", sectionArg(sections[1]), writePNG(t))
	require.NoError(t, err)

	dir := t.TempDir()
	out, err := executeCmd(t, env.app, "backup", "create", "BIO101", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "3 sections, 1 images")

	out, err = executeCmd(t, env.app, "backup", "restore", dir, target.ShortName)
	require.NoError(t, err)
	assert.Contains(t, out, "moved")
	assert.Contains(t, out, "cells.png")
}

// --- nav ---

func TestNav_Links(t *testing.T) {
	env := testApp(t)
	course, _ := importCourse(t, env, "BIO101")

	out, err := executeCmd(t, env.app, "nav", moduleID(t, env, course.ID, "Check"))
	require.NoError(t, err)
	assert.Contains(t, out, "Intro")
	assert.Contains(t, out, "Report")
	assert.Contains(t, out, "Cells", "back link to the activity's section")
}

func TestNav_HTML(t *testing.T) {
	env := testApp(t)
	course, _ := importCourse(t, env, "BIO101")

	out, err := executeCmd(t, env.app, "nav", moduleID(t, env, course.ID, "Intro"), "--html")
	require.NoError(t, err)
	assert.Contains(t, out, "Check")
}

// --- page ---

func TestPage_CoursePage(t *testing.T) {
	env := testApp(t)
	importCourse(t, env, "BIO101")

	out, err := executeCmd(t, env.app, "page", "BIO101", "--user", "7")
	require.NoError(t, err)
	assert.Contains(t, out, `class="course-content mawang"`)
	assert.Contains(t, out, "Check")
	assert.Contains(t, out, `data-region="courseindex"`)
	assert.Contains(t, out, "course/view.php?id=")
	assert.Contains(t, out, "&amp;tab=3", "the custom field category is a tab")
}

func TestPage_SingleSection(t *testing.T) {
	env := testApp(t)
	course, _ := importCourse(t, env, "BIO101")

	out, err := executeCmd(t, env.app, "page", "BIO101", "--section", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "single-section")
	assert.Contains(t, out, `data-cmid="`+moduleID(t, env, course.ID, "Check")+`"`)
	assert.NotContains(t, out, `data-cmid="`+moduleID(t, env, course.ID, "Intro")+`"`, "activities of other sections stay off the page")
	assert.Contains(t, out, "mawang-section-selector")
}

func TestPage_Tab(t *testing.T) {
	env := testApp(t)
	importCourse(t, env, "BIO101")

	out, err := executeCmd(t, env.app, "page", "BIO101", "--tab", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "has-customfields-tab")
	assert.Contains(t, out, "<dd>Intro</dd>")
	assert.NotContains(t, out, "Room", "empty fields are left out")

	_, err = executeCmd(t, env.app, "page", "BIO101", "--tab", "99")
	assert.ErrorIs(t, err, service.ErrUnknownTab)
}

func TestPage_SectionAndTabExclusive(t *testing.T) {
	env := testApp(t)
	importCourse(t, env, "BIO101")

	_, err := executeCmd(t, env.app, "page", "BIO101", "--section", "1", "--tab", "3")
	assert.Error(t, err)
}
