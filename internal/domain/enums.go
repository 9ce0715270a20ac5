package domain

type CourseDisplay string

const (
	DisplaySinglePage CourseDisplay = "single"
	DisplayMultiPage  CourseDisplay = "multi"
)

// SectionLayout controls how a section renders on the course page.
type SectionLayout int

const (
	LayoutExpanded SectionLayout = 0
	LayoutCard     SectionLayout = 1
)

func (l SectionLayout) String() string {
	if l == LayoutExpanded {
		return "expanded"
	}
	return "card"
}

// ParseSectionLayout accepts "expanded" or "card".
func ParseSectionLayout(s string) (SectionLayout, bool) {
	switch s {
	case "expanded":
		return LayoutExpanded, true
	case "card":
		return LayoutCard, true
	}
	return LayoutCard, false
}

type CompletionTracking string

const (
	TrackingNone      CompletionTracking = "none"
	TrackingManual    CompletionTracking = "manual"
	TrackingAutomatic CompletionTracking = "automatic"
)

type CompletionState string

const (
	StateIncomplete   CompletionState = "incomplete"
	StateComplete     CompletionState = "complete"
	StateCompletePass CompletionState = "complete_pass"
	StateCompleteFail CompletionState = "complete_fail"
)

// IsComplete reports whether the state counts towards completed activities.
// A failed attempt is recorded but does not complete the activity.
func (s CompletionState) IsComplete() bool {
	return s == StateComplete || s == StateCompletePass
}

// ModulePurpose groups module types for the section summary badges.
type ModulePurpose string

const (
	PurposeContent       ModulePurpose = "content"
	PurposeAssessment    ModulePurpose = "assessment"
	PurposeCollaboration ModulePurpose = "collaboration"
	PurposeCommunication ModulePurpose = "communication"
	PurposeOther         ModulePurpose = "other"
)

// ValidPurposes is the canonical set of accepted purpose strings.
var ValidPurposes = map[string]bool{
	"content": true, "assessment": true, "collaboration": true,
	"communication": true, "other": true,
}

// ValidTracking is the canonical set of accepted completion tracking strings.
var ValidTracking = map[string]bool{
	"none": true, "manual": true, "automatic": true,
}

// ValidStates is the canonical set of accepted completion state strings.
var ValidStates = map[string]bool{
	"incomplete": true, "complete": true, "complete_pass": true, "complete_fail": true,
}

type CourseIndexDisplay string

const (
	CourseIndexFull     CourseIndexDisplay = "full"
	CourseIndexSections CourseIndexDisplay = "sections"
	CourseIndexNone     CourseIndexDisplay = "none"
)
