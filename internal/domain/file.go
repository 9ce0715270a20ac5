package domain

import "time"

const (
	Component               = "format_mawang"
	AreaSectionImage        = "sectionimage"
	AreaDefaultSectionImage = "defaultsectionimage"
	SystemContextID         = int64(1)
)

// StoredFile is a file record in the plugin's file areas. ContextID is the
// course id for section images and SystemContextID for the default image.
type StoredFile struct {
	ID          string
	ContextID   int64
	Component   string
	FileArea    string
	ItemID      int64
	FilePath    string
	FileName    string
	MimeType    string
	ContentHash string
	Size        int64
	Content     []byte
	CreatedAt   time.Time
}

// IsDirectory reports whether the record is a directory placeholder.
func (f *StoredFile) IsDirectory() bool {
	return f.FileName == "."
}
