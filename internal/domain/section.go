package domain

import "time"

type Section struct {
	ID       int64
	CourseID int64
	// Number is the course-relative section number; 0 is the general section.
	Number   int
	ParentID int64 // 0 for root sections
	Name     string
	Summary  string
	Visible  bool
	// VisibleOld remembers the visibility before the section was hidden.
	VisibleOld bool
	Layout     SectionLayout
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// IsRoot reports whether the section has no parent.
func (s *Section) IsRoot() bool {
	return s.ParentID == 0
}

// IsGeneral reports whether this is the course's general section.
func (s *Section) IsGeneral() bool {
	return s.Number == 0
}
