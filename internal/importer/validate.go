package importer

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/mawang/internal/domain"
)

var (
	validDisplays = map[string]bool{string(domain.DisplaySinglePage): true, string(domain.DisplayMultiPage): true}
	validLayouts  = map[string]bool{"expanded": true, "card": true}
)

// Limits bound the section structure of an import.
type Limits struct {
	// MaxDepth bounds section nesting; roots are at depth 1.
	MaxDepth int
	// MaxTopLevel caps the root sections after the general section. Zero
	// means no cap.
	MaxTopLevel int
}

// ValidateImportSchema checks the schema before conversion and returns every
// problem found.
func ValidateImportSchema(schema *ImportSchema, limits Limits) []error {
	var errs []error

	errs = append(errs, validateCourse(&schema.Course)...)

	sectionDepth := make(map[string]int)
	errs = append(errs, validateSections(schema.Sections, sectionDepth, limits)...)

	moduleRefs := make(map[string]bool)
	errs = append(errs, validateModules(schema.Modules, sectionDepth, moduleRefs)...)

	errs = append(errs, validateTeachers(schema.Teachers)...)
	errs = append(errs, validateCompletions(schema.Completions, moduleRefs)...)

	return errs
}

func validateCourse(c *CourseImport) []error {
	var errs []error
	if c.ShortName == "" {
		errs = append(errs, fmt.Errorf("course.shortname is required"))
	}
	if c.FullName == "" {
		errs = append(errs, fmt.Errorf("course.fullname is required"))
	}
	if c.Display != "" && !validDisplays[c.Display] {
		errs = append(errs, fmt.Errorf("course.display: invalid value %q", c.Display))
	}

	categories := make(map[int64]bool)
	shortNames := make(map[string]bool)
	for i, cat := range c.CustomFields {
		prefix := fmt.Sprintf("course.customfields[%d]", i)
		if cat.Name == "" {
			errs = append(errs, fmt.Errorf("%s.name is required", prefix))
		}
		id := categoryID(cat, i)
		if id <= 0 {
			errs = append(errs, fmt.Errorf("%s.id must be positive", prefix))
		} else if categories[id] {
			errs = append(errs, fmt.Errorf("%s.id: duplicate category %d", prefix, id))
		}
		categories[id] = true
		for j, f := range cat.Fields {
			switch {
			case f.ShortName == "":
				errs = append(errs, fmt.Errorf("%s.fields[%d].shortname is required", prefix, j))
			case shortNames[f.ShortName]:
				errs = append(errs, fmt.Errorf("%s.fields[%d].shortname: duplicate field %q", prefix, j, f.ShortName))
			}
			shortNames[f.ShortName] = true
		}
	}
	return errs
}

func categoryID(cat FieldCategoryImport, i int) int64 {
	if cat.ID != 0 {
		return cat.ID
	}
	return int64(i + 1)
}

func validateSections(sections []SectionImport, depth map[string]int, limits Limits) []error {
	var errs []error
	numbers := make(map[int]string)
	roots := 0

	for i, s := range sections {
		prefix := fmt.Sprintf("sections[%d]", i)

		number := i
		if s.Number != nil {
			number = *s.Number
		}
		if number < 0 {
			errs = append(errs, fmt.Errorf("%s.number must not be negative", prefix))
		} else if other, ok := numbers[number]; ok {
			errs = append(errs, fmt.Errorf("%s.number: %d already used by %q", prefix, number, other))
		} else {
			numbers[number] = s.Ref
		}

		d := 1
		if s.ParentRef != nil && *s.ParentRef != "" {
			parentDepth, ok := depth[*s.ParentRef]
			if !ok {
				errs = append(errs, fmt.Errorf("%s.parent_ref: ref %q not found (must appear earlier in sections list)", prefix, *s.ParentRef))
			} else {
				d = parentDepth + 1
				if d > limits.MaxDepth {
					errs = append(errs, fmt.Errorf("%s: depth %d exceeds maximum section depth %d", prefix, d, limits.MaxDepth))
				}
			}
			if number == 0 {
				errs = append(errs, fmt.Errorf("%s: section 0 cannot have a parent", prefix))
			}
		} else if number != 0 {
			roots++
		}

		if s.Ref == "" {
			errs = append(errs, fmt.Errorf("%s.ref is required", prefix))
		} else if _, dup := depth[s.Ref]; dup {
			errs = append(errs, fmt.Errorf("%s.ref: duplicate ref %q", prefix, s.Ref))
		} else {
			depth[s.Ref] = d
		}

		if s.Layout != "" && !validLayouts[s.Layout] {
			errs = append(errs, fmt.Errorf("%s.layout: invalid value %q", prefix, s.Layout))
		}
	}
	if limits.MaxTopLevel > 0 && roots > limits.MaxTopLevel {
		errs = append(errs, fmt.Errorf("sections: %d top-level sections exceed the maximum of %d", roots, limits.MaxTopLevel))
	}
	return errs
}

func validateModules(modules []ModuleImport, sections map[string]int, refs map[string]bool) []error {
	var errs []error
	for i, m := range modules {
		prefix := fmt.Sprintf("modules[%d]", i)

		if m.Ref == "" {
			errs = append(errs, fmt.Errorf("%s.ref is required", prefix))
		} else if refs[m.Ref] {
			errs = append(errs, fmt.Errorf("%s.ref: duplicate ref %q", prefix, m.Ref))
		} else {
			refs[m.Ref] = true
		}

		if m.SectionRef == "" {
			errs = append(errs, fmt.Errorf("%s.section_ref is required", prefix))
		} else if _, ok := sections[m.SectionRef]; !ok {
			errs = append(errs, fmt.Errorf("%s.section_ref: ref %q not found", prefix, m.SectionRef))
		}
		if m.ModName == "" {
			errs = append(errs, fmt.Errorf("%s.modname is required", prefix))
		}
		if m.Name == "" {
			errs = append(errs, fmt.Errorf("%s.name is required", prefix))
		}
		if m.Tracking != "" && !domain.ValidTracking[m.Tracking] {
			errs = append(errs, fmt.Errorf("%s.tracking: invalid value %q", prefix, m.Tracking))
		}
		if m.Purpose != "" && !domain.ValidPurposes[m.Purpose] {
			errs = append(errs, fmt.Errorf("%s.purpose: invalid value %q", prefix, m.Purpose))
		}
		for name := range m.Fields {
			if strings.TrimSpace(name) == "" {
				errs = append(errs, fmt.Errorf("%s.fields: field names must not be blank", prefix))
			}
		}
	}
	return errs
}

func validateTeachers(teachers []TeacherImport) []error {
	var errs []error
	for i, t := range teachers {
		if t.FullName == "" {
			errs = append(errs, fmt.Errorf("teachers[%d].fullname is required", i))
		}
	}
	return errs
}

func validateCompletions(completions []CompletionImport, modules map[string]bool) []error {
	var errs []error
	for i, c := range completions {
		prefix := fmt.Sprintf("completions[%d]", i)
		if !modules[c.ModuleRef] {
			errs = append(errs, fmt.Errorf("%s.module_ref: ref %q not found", prefix, c.ModuleRef))
		}
		if c.UserID <= 0 {
			errs = append(errs, fmt.Errorf("%s.user_id must be positive", prefix))
		}
		if !domain.ValidStates[c.State] {
			errs = append(errs, fmt.Errorf("%s.state: invalid value %q", prefix, c.State))
		}
	}
	return errs
}
