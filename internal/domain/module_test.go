package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCourseModule_FieldInt(t *testing.T) {
	m := &CourseModule{Fields: map[string]string{
		"duration": "45",
		"padded":   " 30 ",
		"unit":     "90 minutes",
		"text":     "soon",
		"empty":    "",
	}}

	assert.Equal(t, 45, m.FieldInt("duration"))
	assert.Equal(t, 30, m.FieldInt("padded"))
	assert.Equal(t, 90, m.FieldInt("unit"), "the leading number is kept")
	assert.Zero(t, m.FieldInt("text"))
	assert.Zero(t, m.FieldInt("empty"))
	assert.Zero(t, m.FieldInt("missing"))
	assert.Zero(t, (&CourseModule{}).FieldInt("duration"))
}

func TestCourseModule_FieldSet(t *testing.T) {
	m := &CourseModule{Fields: map[string]string{"isvideo": "1", "other": "0", "yes": "yes"}}

	assert.True(t, m.FieldSet("isvideo"))
	assert.False(t, m.FieldSet("other"))
	assert.False(t, m.FieldSet("yes"))
	assert.False(t, m.FieldSet("missing"))
}
