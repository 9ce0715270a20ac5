package testutil

import (
	"fmt"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/alexanderramin/mawang/internal/domain"
)

var testCourseCounter atomic.Int64

// Course options
type CourseOption func(*domain.Course)

func WithDisplay(d domain.CourseDisplay) CourseOption {
	return func(c *domain.Course) {
		c.Display = d
	}
}

func WithBackLink() CourseOption {
	return func(c *domain.Course) {
		c.CMBackLink = true
	}
}

func NewTestCourse(name string, opts ...CourseOption) *domain.Course {
	now := time.Now().UTC()
	c := &domain.Course{
		ShortName: fmt.Sprintf("C%03d", testCourseCounter.Add(1)),
		FullName:  name,
		Display:   domain.DisplaySinglePage,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Section options
type SectionOption func(*domain.Section)

func WithParent(id int64) SectionOption {
	return func(s *domain.Section) {
		s.ParentID = id
	}
}

func WithSectionName(name string) SectionOption {
	return func(s *domain.Section) {
		s.Name = name
	}
}

func WithHidden() SectionOption {
	return func(s *domain.Section) {
		s.Visible = false
	}
}

func WithLayout(l domain.SectionLayout) SectionOption {
	return func(s *domain.Section) {
		s.Layout = l
	}
}

func NewTestSection(courseID int64, number int, opts ...SectionOption) *domain.Section {
	now := time.Now().UTC()
	s := &domain.Section{
		CourseID:   courseID,
		Number:     number,
		Visible:    true,
		VisibleOld: true,
		Layout:     domain.LayoutCard,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Module options
type ModuleOption func(*domain.CourseModule)

func WithTracking(t domain.CompletionTracking) ModuleOption {
	return func(m *domain.CourseModule) {
		m.Tracking = t
	}
}

func WithUserVisible(v bool) ModuleOption {
	return func(m *domain.CourseModule) {
		m.UserVisible = v
	}
}

func WithModName(name string) ModuleOption {
	return func(m *domain.CourseModule) {
		m.ModName = name
	}
}

func WithPurpose(p domain.ModulePurpose) ModuleOption {
	return func(m *domain.CourseModule) {
		m.Purpose = p
	}
}

// WithField sets a module custom field.
func WithField(name, value string) ModuleOption {
	return func(m *domain.CourseModule) {
		if m.Fields == nil {
			m.Fields = map[string]string{}
		}
		m.Fields[name] = value
	}
}

// WithDuration sets the default "duration" field.
func WithDuration(min int) ModuleOption {
	return WithField("duration", strconv.Itoa(min))
}

func WithURL(url string) ModuleOption {
	return func(m *domain.CourseModule) {
		m.URL = url
	}
}

func WithStealth() ModuleOption {
	return func(m *domain.CourseModule) {
		m.Stealth = true
	}
}

// WithVideo ticks the default "isvideo" field.
func WithVideo() ModuleOption {
	return WithField("isvideo", "1")
}

func WithModuleOrder(i int) ModuleOption {
	return func(m *domain.CourseModule) {
		m.OrderIndex = i
	}
}

func NewTestModule(courseID, sectionID int64, name string, opts ...ModuleOption) *domain.CourseModule {
	now := time.Now().UTC()
	m := &domain.CourseModule{
		CourseID:    courseID,
		SectionID:   sectionID,
		ModName:     "page",
		Name:        name,
		Visible:     true,
		UserVisible: true,
		Tracking:    domain.TrackingManual,
		Purpose:     domain.PurposeContent,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func NewTestCompletion(moduleID, userID int64, state domain.CompletionState) *domain.Completion {
	return &domain.Completion{
		ModuleID:  moduleID,
		UserID:    userID,
		State:     state,
		UpdatedAt: time.Now().UTC(),
	}
}

// NewTestCourseField returns a course custom field in the given category.
// The category name is "Category <id>".
func NewTestCourseField(courseID, categoryID int64, shortName, value string) *domain.CourseField {
	return &domain.CourseField{
		CourseID:   courseID,
		CategoryID: categoryID,
		Category:   fmt.Sprintf("Category %d", categoryID),
		ShortName:  shortName,
		Name:       shortName,
		Value:      value,
	}
}
