package importer

import (
	"time"

	"github.com/alexanderramin/mawang/internal/domain"
)

// Plan is a validated import ready for persistence. Ids are assigned by the
// store, so cross references are kept as refs.
type Plan struct {
	Course      *domain.Course
	Sections    []PlannedSection
	Modules     []PlannedModule
	Teachers    []*domain.Teacher
	Fields      []*domain.CourseField
	Completions []PlannedCompletion
}

type PlannedSection struct {
	Ref       string
	ParentRef string
	Section   *domain.Section
}

type PlannedModule struct {
	Ref        string
	SectionRef string
	Module     *domain.CourseModule
}

type PlannedCompletion struct {
	ModuleRef  string
	Completion *domain.Completion
}

// Convert transforms a validated ImportSchema into domain objects. Call
// ValidateImportSchema first; Convert assumes the schema is valid.
func Convert(schema *ImportSchema) *Plan {
	now := time.Now().UTC()

	display := domain.DisplaySinglePage
	if schema.Course.Display != "" {
		display = domain.CourseDisplay(schema.Course.Display)
	}
	plan := &Plan{
		Course: &domain.Course{
			ShortName:  schema.Course.ShortName,
			FullName:   schema.Course.FullName,
			Display:    display,
			CMBackLink: schema.Course.CMBackLink,
			CreatedAt:  now,
			UpdatedAt:  now,
		},
	}

	for i, s := range schema.Sections {
		number := i
		if s.Number != nil {
			number = *s.Number
		}
		layout := domain.LayoutCard
		if s.Layout != "" {
			layout, _ = domain.ParseSectionLayout(s.Layout)
		}
		visible := boolOr(s.Visible, true)
		ps := PlannedSection{
			Ref: s.Ref,
			Section: &domain.Section{
				Number:     number,
				Name:       s.Name,
				Summary:    s.Summary,
				Visible:    visible,
				VisibleOld: visible,
				Layout:     layout,
				CreatedAt:  now,
				UpdatedAt:  now,
			},
		}
		if s.ParentRef != nil {
			ps.ParentRef = *s.ParentRef
		}
		plan.Sections = append(plan.Sections, ps)
	}

	order := map[string]int{}
	for _, m := range schema.Modules {
		tracking := domain.TrackingNone
		if m.Tracking != "" {
			tracking = domain.CompletionTracking(m.Tracking)
		}
		purpose := domain.PurposeOther
		if m.Purpose != "" {
			purpose = domain.ModulePurpose(m.Purpose)
		}
		plan.Modules = append(plan.Modules, PlannedModule{
			Ref:        m.Ref,
			SectionRef: m.SectionRef,
			Module: &domain.CourseModule{
				ModName:     m.ModName,
				Name:        m.Name,
				URL:         m.URL,
				Visible:     boolOr(m.Visible, true),
				UserVisible: boolOr(m.UserVisible, true),
				Stealth:     m.Stealth,
				Tracking:    tracking,
				Purpose:     purpose,
				Fields:      m.Fields,
				OrderIndex:  order[m.SectionRef],
				CreatedAt:   now,
				UpdatedAt:   now,
			},
		})
		order[m.SectionRef]++
	}

	for i, cat := range schema.Course.CustomFields {
		for j, f := range cat.Fields {
			name := f.Name
			if name == "" {
				name = f.ShortName
			}
			plan.Fields = append(plan.Fields, &domain.CourseField{
				CategoryID: categoryID(cat, i),
				Category:   cat.Name,
				ShortName:  f.ShortName,
				Name:       name,
				Value:      f.Value,
				SortOrder:  j,
			})
		}
	}

	for _, t := range schema.Teachers {
		plan.Teachers = append(plan.Teachers, &domain.Teacher{
			FullName:  t.FullName,
			Email:     t.Email,
			Picture:   t.Picture,
			Fields:    t.Fields,
			CreatedAt: now,
		})
	}

	for _, c := range schema.Completions {
		plan.Completions = append(plan.Completions, PlannedCompletion{
			ModuleRef: c.ModuleRef,
			Completion: &domain.Completion{
				UserID:    c.UserID,
				State:     domain.CompletionState(c.State),
				UpdatedAt: now,
			},
		})
	}
	return plan
}

// HasGeneralSection reports whether the plan defines section 0.
func (p *Plan) HasGeneralSection() bool {
	for _, s := range p.Sections {
		if s.Section.Number == 0 {
			return true
		}
	}
	return false
}

func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}
