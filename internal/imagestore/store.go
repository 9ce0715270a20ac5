// Package imagestore keeps section images and the site-wide default image
// in the file table, and builds the URLs they are served from.
package imagestore

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"

	"github.com/alexanderramin/mawang/internal/domain"
	"github.com/alexanderramin/mawang/internal/repository"
)

var (
	ErrInvalidFileArea = errors.New("invalid file area")
	ErrUnsupportedType = errors.New("unsupported image type")
	ErrFileNotFound    = errors.New("file not found")
)

// MaxWidth is the widest raster image kept; wider uploads are scaled down.
const MaxWidth = 1200

// AcceptedTypes lists the accepted file extensions.
var AcceptedTypes = []string{".jpg", ".jpeg", ".png", ".gif", ".svg"}

type Store struct {
	files        repository.FileRepo
	wwwroot      string
	defaultImage string
	now          func() time.Time
}

// New returns a store. defaultImage names the configured default section
// image file; empty means the built-in asset is used.
func New(files repository.FileRepo, wwwroot, defaultImage string) *Store {
	return &Store{
		files:        files,
		wwwroot:      strings.TrimRight(wwwroot, "/"),
		defaultImage: defaultImage,
		now:          time.Now,
	}
}

// WithFiles returns a copy of the store writing through files, for use
// inside a transaction.
func (s *Store) WithFiles(files repository.FileRepo) *Store {
	cp := *s
	cp.files = files
	return &cp
}

// ContentHash is the sha1 hex digest used to detect identical files.
func ContentHash(b []byte) string {
	sum := sha1.Sum(b)
	return hex.EncodeToString(sum[:])
}

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9.\-_]+`)

// CleanFilename strips directories and characters unsafe in URLs.
func CleanFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, `\`, "/"))
	return unsafeChars.ReplaceAllString(name, "_")
}

// SaveSectionImage replaces the image of a section.
func (s *Store) SaveSectionImage(ctx context.Context, courseID, sectionID int64, filename string, r io.Reader) (*domain.StoredFile, error) {
	return s.replace(ctx, courseID, domain.AreaSectionImage, sectionID, filename, r)
}

// SaveDefaultImage replaces the site-wide default section image.
func (s *Store) SaveDefaultImage(ctx context.Context, filename string, r io.Reader) (*domain.StoredFile, error) {
	return s.replace(ctx, domain.SystemContextID, domain.AreaDefaultSectionImage, 0, filename, r)
}

func (s *Store) RemoveSectionImage(ctx context.Context, courseID, sectionID int64) error {
	return s.files.DeleteArea(ctx, courseID, domain.Component, domain.AreaSectionImage, sectionID)
}

func (s *Store) replace(ctx context.Context, contextID int64, area string, itemID int64, filename string, r io.Reader) (*domain.StoredFile, error) {
	name := CleanFilename(filename)
	ext := strings.ToLower(filepath.Ext(name))
	if !slices.Contains(AcceptedTypes, ext) {
		return nil, fmt.Errorf("%s: %w", filename, ErrUnsupportedType)
	}
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading image: %w", err)
	}
	content, err := normalise(name, ext, raw)
	if err != nil {
		return nil, err
	}

	if err := s.files.DeleteArea(ctx, contextID, domain.Component, area, itemID); err != nil {
		return nil, fmt.Errorf("clearing %s/%d: %w", area, itemID, err)
	}
	f := &domain.StoredFile{
		ID:          uuid.New().String(),
		ContextID:   contextID,
		Component:   domain.Component,
		FileArea:    area,
		ItemID:      itemID,
		FilePath:    "/",
		FileName:    name,
		MimeType:    mimeType(ext),
		ContentHash: ContentHash(content),
		Size:        int64(len(content)),
		Content:     content,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.files.Create(ctx, f); err != nil {
		return nil, fmt.Errorf("storing %s: %w", name, err)
	}
	return f, nil
}

// normalise scales raster images down to MaxWidth. SVG and images that
// already fit are kept byte for byte.
func normalise(name, ext string, raw []byte) ([]byte, error) {
	if ext == ".svg" {
		return raw, nil
	}
	img, err := imaging.Decode(bytes.NewReader(raw), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", name, ErrUnsupportedType)
	}
	if img.Bounds().Dx() <= MaxWidth {
		return raw, nil
	}
	format, err := imaging.FormatFromFilename(name)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, ErrUnsupportedType)
	}
	resized := imaging.Resize(img, MaxWidth, 0, imaging.Lanczos)
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, format, imaging.JPEGQuality(85)); err != nil {
		return nil, fmt.Errorf("encoding %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

func mimeType(ext string) string {
	if ext == ".svg" {
		return "image/svg+xml"
	}
	if t := mime.TypeByExtension(ext); t != "" {
		return t
	}
	return "application/octet-stream"
}

// SectionImage returns the first file of a section's image area.
func (s *Store) SectionImage(ctx context.Context, courseID, sectionID int64) (*domain.StoredFile, error) {
	return s.first(ctx, courseID, domain.AreaSectionImage, sectionID)
}

func (s *Store) first(ctx context.Context, contextID int64, area string, itemID int64) (*domain.StoredFile, error) {
	files, err := s.files.ListArea(ctx, contextID, domain.Component, area, itemID)
	if err != nil {
		return nil, err
	}
	for _, f := range files {
		if !f.IsDirectory() {
			return f, nil
		}
	}
	return nil, fmt.Errorf("%s/%d: %w", area, itemID, ErrFileNotFound)
}

// SectionImageURL returns the URL of a section's image, falling back to the
// default image.
func (s *Store) SectionImageURL(ctx context.Context, courseID, sectionID int64) (string, error) {
	f, err := s.SectionImage(ctx, courseID, sectionID)
	if err == nil {
		return PluginFileURL(s.wwwroot, f), nil
	}
	if !errors.Is(err, ErrFileNotFound) {
		return "", err
	}
	return s.DefaultImageURL(ctx)
}

// DefaultImageURL returns the configured default image, or the built-in
// asset when none is configured or stored.
func (s *Store) DefaultImageURL(ctx context.Context) (string, error) {
	if s.defaultImage != "" {
		f, err := s.first(ctx, domain.SystemContextID, domain.AreaDefaultSectionImage, 0)
		switch {
		case err == nil:
			return PluginFileURL(s.wwwroot, f), nil
		case !errors.Is(err, ErrFileNotFound):
			return "", err
		}
	}
	return s.wwwroot + "/theme/image.php/" + domain.Component + "/" + domain.AreaDefaultSectionImage, nil
}

// PluginFileURL is the serving URL of a stored file.
func PluginFileURL(wwwroot string, f *domain.StoredFile) string {
	return fmt.Sprintf("%s/pluginfile.php/%d/%s/%s/%d%s%s",
		wwwroot, f.ContextID, f.Component, f.FileArea, f.ItemID, f.FilePath, f.FileName)
}

// Serve resolves a file request. For sectionimage, args are the section id
// and the file name. The default image ignores args.
func (s *Store) Serve(ctx context.Context, contextID int64, area string, args []string) (*domain.StoredFile, error) {
	switch area {
	case domain.AreaDefaultSectionImage:
		return s.first(ctx, domain.SystemContextID, domain.AreaDefaultSectionImage, 0)
	case domain.AreaSectionImage:
		if len(args) < 2 {
			return nil, fmt.Errorf("sectionimage needs section id and file name: %w", ErrFileNotFound)
		}
		sectionID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("section id %q: %w", args[0], ErrFileNotFound)
		}
		f, err := s.files.Get(ctx, contextID, domain.Component, area, sectionID, "/", args[1])
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", args[1], ErrFileNotFound)
		}
		if err != nil {
			return nil, err
		}
		return f, nil
	default:
		return nil, fmt.Errorf("%q: %w", area, ErrInvalidFileArea)
	}
}
