package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/mawang/internal/domain"
	"github.com/alexanderramin/mawang/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newImageRecord(courseID, itemID int64, name string) *domain.StoredFile {
	return &domain.StoredFile{
		ID:          uuid.New().String(),
		ContextID:   courseID,
		Component:   domain.Component,
		FileArea:    domain.AreaSectionImage,
		ItemID:      itemID,
		FilePath:    "/",
		FileName:    name,
		MimeType:    "image/png",
		ContentHash: "hash-" + name,
		Size:        3,
		Content:     []byte("png"),
		CreatedAt:   time.Now().UTC(),
	}
}

func TestFileRepo_AreaLifecycle(t *testing.T) {
	repo := NewSQLiteFileRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	a := newImageRecord(10, 1, "a.png")
	b := newImageRecord(10, 2, "b.png")
	require.NoError(t, repo.Create(ctx, a))
	require.NoError(t, repo.Create(ctx, b))

	one, err := repo.ListArea(ctx, 10, domain.Component, domain.AreaSectionImage, 1)
	require.NoError(t, err)
	require.Len(t, one, 1)
	assert.Equal(t, []byte("png"), one[0].Content)

	all, err := repo.ListArea(ctx, 10, domain.Component, domain.AreaSectionImage, -1)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	got, err := repo.Get(ctx, 10, domain.Component, domain.AreaSectionImage, 2, "/", "b.png")
	require.NoError(t, err)
	assert.Equal(t, b.ID, got.ID)

	require.NoError(t, repo.DeleteArea(ctx, 10, domain.Component, domain.AreaSectionImage, 1))
	_, err = repo.GetByID(ctx, a.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFileRepo_UniquePathPerItem(t *testing.T) {
	repo := NewSQLiteFileRepo(testutil.NewTestDB(t))
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, newImageRecord(10, 1, "a.png")))
	assert.Error(t, repo.Create(ctx, newImageRecord(10, 1, "a.png")))
}
