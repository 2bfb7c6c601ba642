package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePage lets tests control locatability per cell, which StaticPage
// cannot.
type fakePage struct {
	cols []fakeColumn
}

type fakeColumn struct {
	label string
	cells []fakeCell
}

type fakeCell struct {
	text    string
	located bool
}

func (p fakePage) Columns() []Column {
	out := make([]Column, len(p.cols))
	for i, c := range p.cols {
		out[i] = c
	}
	return out
}

func (c fakeColumn) Label() string { return c.label }

func (c fakeColumn) Courses() []CourseElement {
	out := make([]CourseElement, len(c.cells))
	for i, cell := range c.cells {
		out[i] = cell
	}
	return out
}

func (c fakeCell) Text() string  { return c.text }
func (c fakeCell) Located() bool { return c.located }

func TestCollect(t *testing.T) {
	page := StaticPage{Terms: []StaticTerm{
		{Label: "Fall 2025", Courses: []string{"CS261", "MTH 231"}},
		{Label: "2026 Winter", Courses: []string{"CS 271"}},
		{Label: "Spring 2026", Courses: []string{"CS 361"}},
	}}

	layout := Collect(page)

	require.Len(t, layout.Items, 4)
	assert.Equal(t, ScheduledCourse{Code: "CS 261", TermIndex: 0, TermCode: "202601"}, layout.Items[0])
	assert.Equal(t, ScheduledCourse{Code: "MTH 231", TermIndex: 0, TermCode: "202601"}, layout.Items[1])
	assert.Equal(t, ScheduledCourse{Code: "CS 271", TermIndex: 1, TermCode: "202602"}, layout.Items[2])
	assert.Equal(t, ScheduledCourse{Code: "CS 361", TermIndex: 2, TermCode: "202603"}, layout.Items[3])

	assert.Equal(t, 0, layout.CourseToIndex["CS 261"])
	assert.Equal(t, 2, layout.CourseToIndex["CS 361"])
	assert.Equal(t, "Fall 2025", layout.TermLabels[0])
	assert.Equal(t, "2026 Winter", layout.TermLabels[1])
}

func TestCollectSkipsUnparsableColumns(t *testing.T) {
	page := StaticPage{Terms: []StaticTerm{
		{Label: "Transfer Credit", Courses: []string{"CS 161"}},
		{Label: "Fall 2025", Courses: []string{"CS 261"}},
		{Label: "Semester A", Courses: []string{"CS 361"}},
		{Label: "Winter 2026", Courses: []string{"CS 271"}},
	}}

	layout := Collect(page)

	require.Len(t, layout.Items, 2)
	// Skipped columns do not consume a term index.
	assert.Equal(t, 0, layout.CourseToIndex["CS 261"])
	assert.Equal(t, 1, layout.CourseToIndex["CS 271"])
}

func TestCollectSkipsNonCourseTextAndUnlocatableCells(t *testing.T) {
	page := fakePage{cols: []fakeColumn{
		{label: "Fall 2025", cells: []fakeCell{
			{text: "CS 261", located: true},
			{text: "15 credits", located: true},
			{text: "CS 271", located: false},
		}},
	}}

	layout := Collect(page)

	require.Len(t, layout.Items, 1)
	assert.Equal(t, "CS 261", layout.Items[0].Code)
}

func TestCollectEmptyPage(t *testing.T) {
	layout := Collect(StaticPage{})
	assert.Empty(t, layout.Items)
	assert.Empty(t, layout.CourseToIndex)
}

func TestParseLabelOrderings(t *testing.T) {
	season, year, ok := parseLabel("Fall 2025")
	require.True(t, ok)
	assert.Equal(t, "Fall", season)
	assert.Equal(t, 2025, year)

	season, year, ok = parseLabel("2025 Fall")
	require.True(t, ok)
	assert.Equal(t, "Fall", season)
	assert.Equal(t, 2025, year)

	_, _, ok = parseLabel("Fall term")
	assert.False(t, ok)
}
