// Package backup writes section images of a course to a directory archive
// and restores them into a course, remapping section ids.
package backup

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	ManifestName  = "manifest.yaml"
	BlobDir       = "blobs"
	FormatVersion = 1
)

var (
	ErrUnsupportedVersion = errors.New("unsupported archive version")
	ErrCorruptBlob        = errors.New("blob content does not match its hash")
)

type Manifest struct {
	Version   int            `yaml:"version"`
	ArchiveID string         `yaml:"archive_id"`
	CreatedAt time.Time      `yaml:"created_at"`
	Course    CourseEntry    `yaml:"course"`
	Sections  []SectionEntry `yaml:"sections"`
}

type CourseEntry struct {
	ID        int64  `yaml:"id"`
	ShortName string `yaml:"shortname"`
	FullName  string `yaml:"fullname"`
}

// SectionEntry records a section under its id in the source course.
type SectionEntry struct {
	ID       int64       `yaml:"id"`
	Number   int         `yaml:"number"`
	ParentID int64       `yaml:"parent_id,omitempty"`
	Name     string      `yaml:"name,omitempty"`
	Visible  bool        `yaml:"visible"`
	Images   []FileEntry `yaml:"images,omitempty"`
}

type FileEntry struct {
	ID           string `yaml:"id"`
	ContentHash  string `yaml:"contenthash"`
	PathnameHash string `yaml:"pathnamehash"`
	FilePath     string `yaml:"filepath"`
	FileName     string `yaml:"filename"`
	MimeType     string `yaml:"mimetype"`
	Size         int64  `yaml:"size"`
}

func (m *Manifest) section(id int64) (SectionEntry, bool) {
	for _, s := range m.Sections {
		if s.ID == id {
			return s, true
		}
	}
	return SectionEntry{}, false
}

func writeManifest(dir string, m *Manifest) error {
	raw, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("encoding manifest: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, ManifestName), raw, 0o644); err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}
	return nil
}

// ReadManifest loads and checks the manifest of an archive directory.
func ReadManifest(dir string) (*Manifest, error) {
	raw, err := os.ReadFile(filepath.Join(dir, ManifestName))
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	var m Manifest
	if err := yaml.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}
	if m.Version != FormatVersion {
		return nil, fmt.Errorf("version %d: %w", m.Version, ErrUnsupportedVersion)
	}
	return &m, nil
}
