package importer

import (
	"encoding/json"
	"fmt"
	"os"
)

// ImportSchema is the top-level JSON structure for course import.
type ImportSchema struct {
	Course      CourseImport       `json:"course"`
	Sections    []SectionImport    `json:"sections"`
	Modules     []ModuleImport     `json:"modules"`
	Teachers    []TeacherImport    `json:"teachers,omitempty"`
	Completions []CompletionImport `json:"completions,omitempty"`
}

type CourseImport struct {
	ShortName    string                `json:"shortname"`
	FullName     string                `json:"fullname"`
	Display      string                `json:"display,omitempty"`
	CMBackLink   bool                  `json:"cmbacklink,omitempty"`
	CustomFields []FieldCategoryImport `json:"customfields,omitempty"`
}

// FieldCategoryImport is one category of course custom fields. ID defaults
// to the category's position, starting at 1.
type FieldCategoryImport struct {
	ID     int64         `json:"id,omitempty"`
	Name   string        `json:"name"`
	Fields []FieldImport `json:"fields"`
}

type FieldImport struct {
	ShortName string `json:"shortname"`
	Name      string `json:"name"`
	Value     string `json:"value,omitempty"`
}

// SectionImport defines a section. Sections are numbered in list order,
// starting at 0, unless Number is given.
type SectionImport struct {
	Ref       string  `json:"ref"`
	ParentRef *string `json:"parent_ref,omitempty"`
	Number    *int    `json:"number,omitempty"`
	Name      string  `json:"name,omitempty"`
	Summary   string  `json:"summary,omitempty"`
	Visible   *bool   `json:"visible,omitempty"`
	Layout    string  `json:"layout,omitempty"`
}

type ModuleImport struct {
	Ref         string `json:"ref"`
	SectionRef  string `json:"section_ref"`
	ModName     string `json:"modname"`
	Name        string `json:"name"`
	URL         string `json:"url,omitempty"`
	Visible     *bool  `json:"visible,omitempty"`
	UserVisible *bool  `json:"uservisible,omitempty"`
	Stealth     bool   `json:"stealth,omitempty"`
	Tracking    string `json:"tracking,omitempty"`
	Purpose     string `json:"purpose,omitempty"`
	// Fields are custom field values by shortname, such as the configured
	// duration and video fields.
	Fields map[string]string `json:"fields,omitempty"`
}

type TeacherImport struct {
	FullName string            `json:"fullname"`
	Email    string            `json:"email,omitempty"`
	Picture  string            `json:"picture,omitempty"`
	Fields   map[string]string `json:"fields,omitempty"`
}

type CompletionImport struct {
	ModuleRef string `json:"module_ref"`
	UserID    int64  `json:"user_id"`
	State     string `json:"state"`
}

// LoadImportSchema reads and parses a course import JSON file.
func LoadImportSchema(path string) (*ImportSchema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var schema ImportSchema
	if err := json.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("parsing import file: %w", err)
	}
	return &schema, nil
}
