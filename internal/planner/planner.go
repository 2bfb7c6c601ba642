// Package planner reads the degree planner's current layout into an ordered
// list of scheduled courses. It performs no network or storage access; the
// layout is rebuilt from scratch on every pass.
package planner

import (
	"regexp"
	"strconv"

	"github.com/marinamoger/myDegreesExtension/internal/course"
	"github.com/marinamoger/myDegreesExtension/internal/term"
)

// PageModel is the collaborator that exposes the planner page. The browser
// extension backs it with the live DOM; the service surface and tests back
// it with snapshots.
type PageModel interface {
	// Columns returns the term columns in document order. Document order
	// IS the term ordering; nothing else is consulted for earlier/later.
	Columns() []Column
}

type Column interface {
	Label() string
	Courses() []CourseElement
}

// CourseElement is one scheduled-course cell inside a term column.
type CourseElement interface {
	Text() string
	// Located reports whether the scheduled-course visual unit containing
	// this cell could be found. Unlocatable cells are malformed and skipped.
	Located() bool
}

// ScheduledCourse is one course instance on the plan. Instances are owned
// by a single evaluation pass; no identity persists across passes.
type ScheduledCourse struct {
	Code      string `json:"code"`
	TermIndex int    `json:"termIndex"`
	TermCode  string `json:"termCode"`
}

// Layout is the result of one collection pass.
type Layout struct {
	Items         []ScheduledCourse
	CourseToIndex map[string]int
	TermLabels    map[int]string
}

// Term labels appear in two orderings on the page: "Fall 2025" and
// "2025 Fall".
var (
	labelSeasonFirst = regexp.MustCompile(`\b(Summer|Fall|Winter|Spring)\s+(\d{4})\b`)
	labelYearFirst   = regexp.MustCompile(`\b(\d{4})\s+(Summer|Fall|Winter|Spring)\b`)
)

func parseLabel(label string) (season string, year int, ok bool) {
	if m := labelSeasonFirst.FindStringSubmatch(label); m != nil {
		year, _ = strconv.Atoi(m[2])
		return m[1], year, true
	}
	if m := labelYearFirst.FindStringSubmatch(label); m != nil {
		year, _ = strconv.Atoi(m[1])
		return m[2], year, true
	}
	return "", 0, false
}

// Collect walks the page model's columns in document order and extracts
// every scheduled course. Columns whose label cannot be parsed or resolved
// to a term code are skipped, as are unlocatable cells and cells whose text
// is not a course code.
func Collect(page PageModel) Layout {
	layout := Layout{
		CourseToIndex: make(map[string]int),
		TermLabels:    make(map[int]string),
	}

	index := 0
	for _, col := range page.Columns() {
		season, year, ok := parseLabel(col.Label())
		if !ok {
			continue
		}
		termCode, ok := term.Resolve(season, year)
		if !ok {
			continue
		}

		layout.TermLabels[index] = col.Label()
		for _, el := range col.Courses() {
			if !el.Located() {
				continue
			}
			if !course.Matches(el.Text()) {
				continue
			}
			code := course.Normalize(el.Text())
			layout.Items = append(layout.Items, ScheduledCourse{
				Code:      code,
				TermIndex: index,
				TermCode:  termCode,
			})
			layout.CourseToIndex[code] = index
		}
		index++
	}
	return layout
}
