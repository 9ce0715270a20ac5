package service

import (
	"context"

	"github.com/alexanderramin/mawang/internal/backup"
	"github.com/alexanderramin/mawang/internal/events"
)

type backupService struct {
	archiver *backup.Archiver
	bus      *events.Bus
	observer UseCaseObserver
}

func NewBackupService(archiver *backup.Archiver, bus *events.Bus, observers ...UseCaseObserver) BackupService {
	return &backupService{archiver: archiver, bus: bus, observer: useCaseObserverOrNoop(observers)}
}

func (s *backupService) Create(ctx context.Context, courseID int64, dir string) (m *backup.Manifest, err error) {
	sp := startSpan(s.observer, "backup-create", courseID)
	sp.set("dir", dir)
	defer func() { sp.done(ctx, err) }()

	m, err = s.archiver.Create(ctx, courseID, dir)
	if err != nil {
		return nil, err
	}
	sp.set("archive_id", m.ArchiveID)
	sp.set("sections", len(m.Sections))
	return m, nil
}

func (s *backupService) Restore(ctx context.Context, dir string, targetCourseID int64, opts backup.RestoreOptions) (report *backup.Report, err error) {
	sp := startSpan(s.observer, "backup-restore", targetCourseID)
	sp.set("dir", dir)
	defer func() { sp.done(ctx, err) }()

	report, err = s.archiver.Restore(ctx, dir, targetCourseID, opts)
	if err != nil {
		return nil, err
	}
	for _, o := range []backup.Outcome{backup.OutcomeReplaced, backup.OutcomeDuplicate, backup.OutcomeSkipped} {
		sp.set(string(o), report.Count(o))
	}
	if s.bus != nil {
		err = s.bus.Publish(ctx, events.Event{Kind: events.CourseUpdated, CourseID: targetCourseID})
	}
	return report, err
}
