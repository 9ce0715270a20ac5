package render

// Link is a titled URL.
type Link struct {
	URL  string
	Name string
}

type ModuleLine struct {
	ID       int64
	Name     string
	ModName  string
	URL      string
	Hidden   bool
	Tracked  bool
	Complete bool
	IsVideo  bool
}

// SectionCard is the view model of one section card or tile.
type SectionCard struct {
	ID          int64
	Number      int
	Name        string
	Summary     string
	ImageURL    string
	Layout      string
	Hidden      bool
	Current     bool
	Collapsed   bool
	Indent      bool
	Depth       int
	// URL links the card to its own page on multi-page courses.
	URL         string
	Stats       []string
	Mods        []string
	Duration    string
	Completion  string
	Ring        any
	Modules     []ModuleLine
	Subsections []SectionCard
}

type Field struct {
	Name  string
	Value string
}

type TeacherCard struct {
	FullName string
	Email    string
	Picture  string
	Fields   []Field
}

// Tab is a course tab; there is one per custom field category.
type Tab struct {
	ID     int64
	Name   string
	URL    string
	Active bool
}

// FieldGroup is one category of course custom fields on a tab.
type FieldGroup struct {
	Name   string
	Fields []CustomField
}

type CustomField struct {
	Name      string
	ShortName string
	Value     string
}

// CourseIndex is the section list shown in the course index drawer.
type CourseIndex struct {
	// Closed forces the drawer shut on load.
	Closed  bool
	Entries []IndexEntry
}

type IndexEntry struct {
	ID         int64
	Number     int
	Name       string
	URL        string
	Hidden     bool
	Current    bool
	Depth      int
	Activities []Link
}

// SectionNavigation links the neighbouring sections of a single section
// page. Selector starts with the main course page.
type SectionNavigation struct {
	Prev     *Link
	Next     *Link
	Selector []Link
}

// ContentData is the view model of the course page. Single is set on a
// single section page, which then also carries SectionNav.
type ContentData struct {
	CourseID   int64
	CourseName string
	MultiPage  bool
	Tabs       []Tab
	Index      *CourseIndex
	Sections   []SectionCard
	Single     *SectionCard
	SectionNav *SectionNavigation
	Teachers   []TeacherCard
}

// TabData is the view model of a course tab page.
type TabData struct {
	CourseID   int64
	CourseName string
	Tabs       []Tab
	Groups     []FieldGroup
}

// NavigationData is the view model rendered below a module page.
type NavigationData struct {
	Prev *Link
	Next *Link
	Back *Link
	// OpenBlockDrawer is set for module types that open the block drawer.
	OpenBlockDrawer bool
	// OpenCourseIndex is set when the course index opens on module pages.
	OpenCourseIndex bool
}
