package repository

import (
	"context"
	"testing"

	"github.com/alexanderramin/mawang/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCourseFieldRepo_ListByCourse_GroupsByCategory(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()
	course := testutil.NewTestCourse("Fields")
	require.NoError(t, NewSQLiteCourseRepo(database).Create(ctx, course))
	other := testutil.NewTestCourse("Other")
	require.NoError(t, NewSQLiteCourseRepo(database).Create(ctx, other))

	repo := NewSQLiteCourseFieldRepo(database)
	level := testutil.NewTestCourseField(course.ID, 2, "level", "Intro")
	credits := testutil.NewTestCourseField(course.ID, 1, "credits", "5")
	hours := testutil.NewTestCourseField(course.ID, 2, "hours", "40")
	hours.SortOrder = -1
	require.NoError(t, repo.Create(ctx, level))
	require.NoError(t, repo.Create(ctx, credits))
	require.NoError(t, repo.Create(ctx, hours))
	require.NoError(t, repo.Create(ctx, testutil.NewTestCourseField(other.ID, 1, "credits", "3")))
	assert.NotZero(t, level.ID)

	got, err := repo.ListByCourse(ctx, course.ID)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "credits", got[0].ShortName)
	assert.Equal(t, "hours", got[1].ShortName)
	assert.Equal(t, "level", got[2].ShortName)
	assert.Equal(t, "Category 2", got[2].Category)
	assert.Equal(t, "Intro", got[2].Value)
}

func TestCourseFieldRepo_RejectsDuplicateShortName(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()
	course := testutil.NewTestCourse("Fields")
	require.NoError(t, NewSQLiteCourseRepo(database).Create(ctx, course))

	repo := NewSQLiteCourseFieldRepo(database)
	require.NoError(t, repo.Create(ctx, testutil.NewTestCourseField(course.ID, 1, "level", "Intro")))
	assert.Error(t, repo.Create(ctx, testutil.NewTestCourseField(course.ID, 2, "level", "Advanced")))
}
