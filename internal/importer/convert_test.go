package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/mawang/internal/domain"
)

func TestConvert(t *testing.T) {
	schema := validSchema()
	hidden := false
	schema.Sections[2].Visible = &hidden
	schema.Sections[1].Layout = "expanded"
	schema.Modules = append(schema.Modules, ModuleImport{Ref: "notes", SectionRef: "lab", ModName: "page", Name: "Notes", Fields: map[string]string{"duration": "15"}})

	schema.Course.CustomFields = []FieldCategoryImport{
		{Name: "About", Fields: []FieldImport{{ShortName: "level", Name: "Level", Value: "Intro"}, {ShortName: "credits", Value: "5"}}},
		{ID: 9, Name: "Logistics", Fields: []FieldImport{{ShortName: "room"}}},
	}

	plan := Convert(schema)

	assert.Equal(t, "BIO101", plan.Course.ShortName)
	assert.Equal(t, domain.DisplaySinglePage, plan.Course.Display)
	assert.True(t, plan.HasGeneralSection())

	require.Len(t, plan.Sections, 3)
	assert.Equal(t, 0, plan.Sections[0].Section.Number)
	assert.Equal(t, 2, plan.Sections[2].Section.Number)
	assert.Equal(t, "cells", plan.Sections[2].ParentRef)
	assert.False(t, plan.Sections[2].Section.Visible)
	assert.False(t, plan.Sections[2].Section.VisibleOld)
	assert.Equal(t, domain.LayoutExpanded, plan.Sections[1].Section.Layout)
	assert.Equal(t, domain.LayoutCard, plan.Sections[0].Section.Layout)

	require.Len(t, plan.Modules, 3)
	assert.Equal(t, domain.TrackingAutomatic, plan.Modules[1].Module.Tracking)
	assert.Equal(t, 0, plan.Modules[1].Module.OrderIndex)
	assert.Equal(t, 1, plan.Modules[2].Module.OrderIndex)
	assert.Equal(t, domain.TrackingNone, plan.Modules[2].Module.Tracking)
	assert.Equal(t, domain.PurposeOther, plan.Modules[2].Module.Purpose)
	assert.True(t, plan.Modules[2].Module.UserVisible)
	assert.Equal(t, 15, plan.Modules[2].Module.FieldInt("duration"))

	require.Len(t, plan.Completions, 1)
	assert.Equal(t, domain.StateComplete, plan.Completions[0].Completion.State)
	assert.Equal(t, "Ada Okafor", plan.Teachers[0].FullName)

	require.Len(t, plan.Fields, 3)
	assert.Equal(t, int64(1), plan.Fields[0].CategoryID)
	assert.Equal(t, "About", plan.Fields[0].Category)
	assert.Equal(t, "Level", plan.Fields[0].Name)
	assert.Equal(t, "credits", plan.Fields[1].Name, "the shortname stands in for a missing name")
	assert.Equal(t, 1, plan.Fields[1].SortOrder)
	assert.Equal(t, int64(9), plan.Fields[2].CategoryID)
}
