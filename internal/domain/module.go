package domain

import (
	"strconv"
	"strings"
	"time"
)

// CourseModule is a single activity placed in a section.
type CourseModule struct {
	ID        int64
	CourseID  int64
	SectionID int64
	ModName   string
	Name      string
	URL       string
	Visible   bool
	// UserVisible is the visibility for the viewing user after access rules.
	UserVisible bool
	Stealth     bool
	Tracking    CompletionTracking
	Purpose     ModulePurpose
	// Fields are the module custom field values keyed by shortname.
	Fields     map[string]string
	OrderIndex int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// FieldInt reads the leading integer of a custom field. Missing, empty or
// non-numeric values read as 0.
func (m *CourseModule) FieldInt(name string) int {
	v := strings.TrimSpace(m.Fields[name])
	end := 0
	if end < len(v) && (v[end] == '-' || v[end] == '+') {
		end++
	}
	for end < len(v) && v[end] >= '0' && v[end] <= '9' {
		end++
	}
	n, err := strconv.Atoi(v[:end])
	if err != nil {
		return 0
	}
	return n
}

// FieldSet reports whether a checkbox custom field is ticked.
func (m *CourseModule) FieldSet(name string) bool {
	return strings.TrimSpace(m.Fields[name]) == "1"
}

// Tracked reports whether completion is tracked for the module.
func (m *CourseModule) Tracked() bool {
	return m.Tracking != "" && m.Tracking != TrackingNone
}

// Completion is a user's recorded completion of a module.
type Completion struct {
	ModuleID  int64
	UserID    int64
	State     CompletionState
	UpdatedAt time.Time
}
