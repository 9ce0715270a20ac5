package service

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/mawang/internal/backup"
	"github.com/alexanderramin/mawang/internal/events"
)

func TestBackupService_RoundTripIntoNewCourse(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	src := e.createCourse(t, "Source")
	sec, err := e.sections.Add(ctx, src.ID, 0, "Cells")
	require.NoError(t, err)
	_, err = e.images.SetSectionImage(ctx, sec.ID, "cells.png", bytes.NewReader(pngBytes(t, 20, 20)))
	require.NoError(t, err)

	dir := t.TempDir()
	manifest, err := e.backups.Create(ctx, src.ID, dir)
	require.NoError(t, err)
	assert.Len(t, manifest.Sections, 2)

	dst := e.createCourse(t, "Target")
	target, err := e.sections.Add(ctx, dst.ID, 0, "")
	require.NoError(t, err)

	var updated int
	e.bus.Subscribe(events.CourseUpdated, func(_ context.Context, ev events.Event) error {
		if ev.CourseID == dst.ID {
			updated++
		}
		return nil
	})

	report, err := e.backups.Restore(ctx, dir, dst.ID, backup.RestoreOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Count(backup.OutcomeMoved))
	assert.Equal(t, 1, updated)

	url, err := e.images.SectionImageURL(ctx, target.ID)
	require.NoError(t, err)
	assert.Contains(t, url, "cells.png")
}
