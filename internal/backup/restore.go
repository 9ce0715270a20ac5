package backup

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/alexanderramin/mawang/internal/db"
	"github.com/alexanderramin/mawang/internal/domain"
	"github.com/alexanderramin/mawang/internal/repository"
)

type RestoreOptions struct {
	// CreateMissingSections adds sections whose number does not exist in
	// the target course. Otherwise their images are skipped.
	CreateMissingSections bool
}

// Outcome is what happened to the image of one restored section.
type Outcome string

const (
	OutcomeNoImage   Outcome = "no_image"
	OutcomeUnchanged Outcome = "unchanged"
	OutcomeDuplicate Outcome = "duplicate"
	OutcomeReplaced  Outcome = "replaced"
	OutcomeMoved     Outcome = "moved"
	OutcomeSkipped   Outcome = "skipped"
)

type SectionResult struct {
	OldID    int64
	NewID    int64
	Number   int
	Outcome  Outcome
	Created  bool
	FileName string
}

type Report struct {
	Sections []SectionResult
}

// Count returns how many sections ended with outcome o.
func (r *Report) Count(o Outcome) int {
	n := 0
	for _, s := range r.Sections {
		if s.Outcome == o {
			n++
		}
	}
	return n
}

type restoreTx struct {
	dir      string
	courseID int64
	sections repository.SectionRepo
	files    repository.FileRepo
	now      time.Time
	opts     RestoreOptions
	manifest *Manifest
	mapped   map[int64]*domain.Section
	owners   map[int64]bool
}

// Restore puts the images of an archive into targetCourseID. Sections are
// matched by number. Everything happens in one transaction.
func (a *Archiver) Restore(ctx context.Context, dir string, targetCourseID int64, opts RestoreOptions) (*Report, error) {
	m, err := ReadManifest(dir)
	if err != nil {
		return nil, err
	}
	if _, err := a.courses.GetByID(ctx, targetCourseID); err != nil {
		return nil, fmt.Errorf("loading target course: %w", err)
	}

	report := &Report{}
	err = a.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		rt := &restoreTx{
			dir:      dir,
			courseID: targetCourseID,
			sections: repository.NewSQLiteSectionRepo(tx),
			files:    repository.NewSQLiteFileRepo(tx),
			now:      a.now().UTC(),
			opts:     opts,
			manifest: m,
			mapped:   map[int64]*domain.Section{},
		}
		existing, err := rt.sections.ListByCourse(ctx, targetCourseID)
		if err != nil {
			return fmt.Errorf("loading target sections: %w", err)
		}
		rt.owners = make(map[int64]bool, len(existing))
		for _, s := range existing {
			rt.owners[s.ID] = true
		}

		for _, entry := range m.Sections {
			res, err := rt.restoreSection(ctx, entry)
			if err != nil {
				return fmt.Errorf("restoring section %d: %w", entry.Number, err)
			}
			report.Sections = append(report.Sections, res)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

func (rt *restoreTx) restoreSection(ctx context.Context, entry SectionEntry) (SectionResult, error) {
	res := SectionResult{OldID: entry.ID, Number: entry.Number}
	target, created, err := rt.targetSection(ctx, entry, map[int64]bool{})
	if err != nil {
		return res, err
	}
	if target == nil {
		res.Outcome = OutcomeSkipped
		return res, nil
	}
	res.NewID = target.ID
	res.Created = created
	if len(entry.Images) == 0 {
		res.Outcome = OutcomeNoImage
		return res, nil
	}
	res.FileName = entry.Images[0].FileName

	// Images are staged under the old section id, the way they come out of
	// the archive, unless that id belongs to another section of this course.
	stageID := entry.ID
	if rt.owners[entry.ID] && entry.ID != target.ID {
		stageID = -1
	}
	if stageID < 0 {
		res.Outcome, err = rt.placeDirect(ctx, entry.Images[0], target.ID)
		return res, err
	}
	for _, img := range entry.Images {
		if err := rt.stage(ctx, stageID, img); err != nil {
			return res, err
		}
	}
	res.Outcome, err = rt.moveSectionImage(ctx, stageID, target.ID)
	return res, err
}

// targetSection finds, or creates, the section with the entry's number.
// A nil section means the entry is skipped.
func (rt *restoreTx) targetSection(ctx context.Context, entry SectionEntry, visiting map[int64]bool) (*domain.Section, bool, error) {
	if s, ok := rt.mapped[entry.ID]; ok {
		return s, false, nil
	}
	s, err := rt.sections.GetByNumber(ctx, rt.courseID, entry.Number)
	if err == nil {
		rt.mapped[entry.ID] = s
		return s, false, nil
	}
	if !isNotFound(err) {
		return nil, false, err
	}
	if !rt.opts.CreateMissingSections {
		return nil, false, nil
	}

	var parentID int64
	if entry.ParentID != 0 && !visiting[entry.ID] {
		visiting[entry.ID] = true
		if parentEntry, ok := rt.manifest.section(entry.ParentID); ok {
			parent, _, err := rt.targetSection(ctx, parentEntry, visiting)
			if err != nil {
				return nil, false, err
			}
			if parent != nil {
				parentID = parent.ID
			}
		}
	}

	s = &domain.Section{
		CourseID:  rt.courseID,
		Number:    entry.Number,
		ParentID:  parentID,
		Name:      entry.Name,
		Visible:   entry.Visible,
		CreatedAt: rt.now,
		UpdatedAt: rt.now,
	}
	if err := rt.sections.Create(ctx, s); err != nil {
		return nil, false, fmt.Errorf("creating section %d: %w", entry.Number, err)
	}
	rt.mapped[entry.ID] = s
	rt.owners[s.ID] = true
	return s, true, nil
}

// stage writes an archived file under itemID. A file already stored at the
// same path is kept as the restored record.
func (rt *restoreTx) stage(ctx context.Context, itemID int64, img FileEntry) error {
	path := img.FilePath
	if path == "" {
		path = "/"
	}
	_, err := rt.files.Get(ctx, rt.courseID, domain.Component, domain.AreaSectionImage, itemID, path, img.FileName)
	if err == nil {
		return nil
	}
	if !isNotFound(err) {
		return err
	}

	content, err := readBlob(rt.dir, img)
	if err != nil {
		return err
	}
	return rt.files.Create(ctx, rt.record(itemID, path, img, content))
}

func (rt *restoreTx) record(itemID int64, path string, img FileEntry, content []byte) *domain.StoredFile {
	return &domain.StoredFile{
		ID:          uuid.New().String(),
		ContextID:   rt.courseID,
		Component:   domain.Component,
		FileArea:    domain.AreaSectionImage,
		ItemID:      itemID,
		FilePath:    path,
		FileName:    img.FileName,
		MimeType:    img.MimeType,
		ContentHash: img.ContentHash,
		Size:        int64(len(content)),
		Content:     content,
		CreatedAt:   rt.now,
	}
}

func (rt *restoreTx) first(ctx context.Context, itemID int64) (*domain.StoredFile, error) {
	files, err := rt.files.ListArea(ctx, rt.courseID, domain.Component, domain.AreaSectionImage, itemID)
	if err != nil {
		return nil, err
	}
	for _, f := range files {
		if !f.IsDirectory() {
			return f, nil
		}
	}
	return nil, nil
}

// moveSectionImage moves the first restored image from oldID to newID.
func (rt *restoreTx) moveSectionImage(ctx context.Context, oldID, newID int64) (Outcome, error) {
	restored, err := rt.first(ctx, oldID)
	if err != nil {
		return "", err
	}
	if restored == nil {
		return OutcomeNoImage, nil
	}

	outcome := OutcomeMoved
	existing, err := rt.first(ctx, newID)
	if err != nil {
		return "", err
	}
	if existing != nil {
		if existing.ID == restored.ID {
			return OutcomeUnchanged, nil
		}
		if existing.ContentHash == restored.ContentHash {
			if err := rt.clear(ctx, oldID); err != nil {
				return "", err
			}
			return OutcomeDuplicate, nil
		}
		if err := rt.files.Delete(ctx, existing.ID); err != nil {
			return "", fmt.Errorf("deleting replaced image: %w", err)
		}
		outcome = OutcomeReplaced
	}

	moved := *restored
	moved.ID = uuid.New().String()
	moved.ItemID = newID
	moved.CreatedAt = rt.now
	if oldID == newID {
		if err := rt.files.Delete(ctx, restored.ID); err != nil {
			return "", fmt.Errorf("deleting restored copy: %w", err)
		}
		if err := rt.files.Create(ctx, &moved); err != nil {
			return "", fmt.Errorf("moving image: %w", err)
		}
		return outcome, nil
	}
	if err := rt.files.Create(ctx, &moved); err != nil {
		return "", fmt.Errorf("moving image: %w", err)
	}
	if err := rt.clear(ctx, oldID); err != nil {
		return "", err
	}
	return outcome, nil
}

// placeDirect applies the same collision rules without staging.
func (rt *restoreTx) placeDirect(ctx context.Context, img FileEntry, newID int64) (Outcome, error) {
	outcome := OutcomeMoved
	existing, err := rt.first(ctx, newID)
	if err != nil {
		return "", err
	}
	if existing != nil {
		if existing.ContentHash == img.ContentHash {
			return OutcomeDuplicate, nil
		}
		if err := rt.files.Delete(ctx, existing.ID); err != nil {
			return "", fmt.Errorf("deleting replaced image: %w", err)
		}
		outcome = OutcomeReplaced
	}
	content, err := readBlob(rt.dir, img)
	if err != nil {
		return "", err
	}
	path := img.FilePath
	if path == "" {
		path = "/"
	}
	if err := rt.files.Create(ctx, rt.record(newID, path, img, content)); err != nil {
		return "", fmt.Errorf("placing image: %w", err)
	}
	return outcome, nil
}

func (rt *restoreTx) clear(ctx context.Context, itemID int64) error {
	if err := rt.files.DeleteArea(ctx, rt.courseID, domain.Component, domain.AreaSectionImage, itemID); err != nil {
		return fmt.Errorf("clearing restored images of %d: %w", itemID, err)
	}
	return nil
}
