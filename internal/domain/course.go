package domain

import "time"

type Course struct {
	ID        int64
	ShortName string
	FullName  string
	Display   CourseDisplay
	// CMBackLink shows a "Back to section" link on activity pages.
	CMBackLink bool
	// Marker is the section number highlighted as current; 0 means none.
	Marker    int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Teacher is the profile shown in the course header.
type Teacher struct {
	ID        int64
	CourseID  int64
	FullName  string
	Email     string
	Picture   string
	Fields    map[string]string
	CreatedAt time.Time
}

// CourseField is the value of one course custom field. Fields are grouped
// into categories; each category is shown as a course tab.
type CourseField struct {
	ID         int64
	CourseID   int64
	CategoryID int64
	Category   string
	ShortName  string
	Name       string
	Value      string
	SortOrder  int
}
