package backup

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/alexanderramin/mawang/internal/db"
	"github.com/alexanderramin/mawang/internal/domain"
	"github.com/alexanderramin/mawang/internal/imagestore"
	"github.com/alexanderramin/mawang/internal/repository"
)

// Archiver creates and restores section image archives.
type Archiver struct {
	courses  repository.CourseRepo
	sections repository.SectionRepo
	files    repository.FileRepo
	uow      db.UnitOfWork
	now      func() time.Time
}

func NewArchiver(courses repository.CourseRepo, sections repository.SectionRepo, files repository.FileRepo, uow db.UnitOfWork) *Archiver {
	return &Archiver{courses: courses, sections: sections, files: files, uow: uow, now: time.Now}
}

// PathnameHash identifies a file by its full location.
func PathnameHash(f *domain.StoredFile) string {
	path := fmt.Sprintf("/%d/%s/%s/%d%s%s", f.ContextID, f.Component, f.FileArea, f.ItemID, f.FilePath, f.FileName)
	sum := sha1.Sum([]byte(path))
	return hex.EncodeToString(sum[:])
}

// Create writes the archive of a course into dir, which is created if
// needed. Blobs shared by several sections are written once.
func (a *Archiver) Create(ctx context.Context, courseID int64, dir string) (*Manifest, error) {
	course, err := a.courses.GetByID(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("loading course: %w", err)
	}
	sections, err := a.sections.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("loading sections: %w", err)
	}
	if err := os.MkdirAll(filepath.Join(dir, BlobDir), 0o755); err != nil {
		return nil, fmt.Errorf("creating archive dir: %w", err)
	}

	m := &Manifest{
		Version:   FormatVersion,
		ArchiveID: uuid.New().String(),
		CreatedAt: a.now().UTC().Truncate(time.Second),
		Course:    CourseEntry{ID: course.ID, ShortName: course.ShortName, FullName: course.FullName},
	}
	written := map[string]bool{}
	for _, sec := range sections {
		entry := SectionEntry{ID: sec.ID, Number: sec.Number, ParentID: sec.ParentID, Name: sec.Name, Visible: sec.Visible}
		files, err := a.files.ListArea(ctx, courseID, domain.Component, domain.AreaSectionImage, sec.ID)
		if err != nil {
			return nil, fmt.Errorf("listing images of section %d: %w", sec.Number, err)
		}
		for _, f := range files {
			if f.IsDirectory() {
				continue
			}
			if !written[f.ContentHash] {
				if err := os.WriteFile(blobPath(dir, f.ContentHash), f.Content, 0o644); err != nil {
					return nil, fmt.Errorf("writing blob: %w", err)
				}
				written[f.ContentHash] = true
			}
			entry.Images = append(entry.Images, FileEntry{
				ID:           f.ID,
				ContentHash:  f.ContentHash,
				PathnameHash: PathnameHash(f),
				FilePath:     f.FilePath,
				FileName:     f.FileName,
				MimeType:     f.MimeType,
				Size:         f.Size,
			})
		}
		m.Sections = append(m.Sections, entry)
	}

	if err := writeManifest(dir, m); err != nil {
		return nil, err
	}
	return m, nil
}

func blobPath(dir, hash string) string {
	return filepath.Join(dir, BlobDir, hash)
}

func readBlob(dir string, img FileEntry) ([]byte, error) {
	raw, err := os.ReadFile(blobPath(dir, img.ContentHash))
	if err != nil {
		return nil, fmt.Errorf("reading blob %s: %w", img.FileName, err)
	}
	if imagestore.ContentHash(raw) != img.ContentHash {
		return nil, fmt.Errorf("%s: %w", img.FileName, ErrCorruptBlob)
	}
	return raw, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, repository.ErrNotFound)
}
