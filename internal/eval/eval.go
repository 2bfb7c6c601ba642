// Package eval is the satisfaction evaluator: it checks each scheduled
// course's AND-of-OR prerequisite formula against the student's history and
// the plan's term ordering.
package eval

import (
	"strings"

	"github.com/marinamoger/myDegreesExtension/internal/planner"
	"github.com/marinamoger/myDegreesExtension/internal/prereq"
)

// LaterMention is a prerequisite option that is itself scheduled after the
// course depending on it. Always reported, never counted as satisfying.
type LaterMention struct {
	Code      string `json:"code"`
	TermLabel string `json:"termLabel"`
}

// Verdict is the compliance result for one scheduled course. Both slices
// empty means the course is compliant.
type Verdict struct {
	Course        planner.ScheduledCourse `json:"course"`
	MissingGroups []prereq.OrGroup        `json:"missingGroups,omitempty"`
	LaterMentions []LaterMention          `json:"laterMentions,omitempty"`
}

func (v Verdict) Compliant() bool {
	return len(v.MissingGroups) == 0 && len(v.LaterMentions) == 0
}

// BadgeText is the tooltip for a non-compliant course: the union of every
// missing-group code and every later-mentioned code, first-seen order.
// Empty when the union is empty, in which case there is nothing actionable
// to show and the badge is cleared.
func (v Verdict) BadgeText() string {
	seen := make(map[string]bool)
	var codes []string
	add := func(code string) {
		if !seen[code] {
			seen[code] = true
			codes = append(codes, code)
		}
	}
	for _, group := range v.MissingGroups {
		for _, code := range group {
			add(code)
		}
	}
	for _, m := range v.LaterMentions {
		add(m.Code)
	}
	if len(codes) == 0 {
		return ""
	}
	return "Missing Prerequisite: " + strings.Join(codes, ", ")
}

// Annotator is the badge-writing collaborator. Implementations must be
// idempotent: repeated calls with the same inputs leave the same visible
// state.
type Annotator interface {
	SetBadge(item planner.ScheduledCourse, tooltip string)
	ClearBadge(item planner.ScheduledCourse)
}

// HistorySource answers whether a course is in the student's history.
type HistorySource interface {
	Has(code string) bool
}

// FormulaSource looks up a course's cached prerequisite formula.
type FormulaSource interface {
	Formula(code string) (prereq.Formula, bool)
}

// Evaluate computes a verdict for every scheduled course. It is pure given
// its inputs: the same layout, history, and formulas always produce the
// same verdicts, in the same order.
func Evaluate(layout planner.Layout, history HistorySource, formulas FormulaSource) []Verdict {
	verdicts := make([]Verdict, 0, len(layout.Items))
	for _, it := range layout.Items {
		verdicts = append(verdicts, evaluateOne(it, layout, history, formulas))
	}
	return verdicts
}

func evaluateOne(it planner.ScheduledCourse, layout planner.Layout, history HistorySource, formulas FormulaSource) Verdict {
	v := Verdict{Course: it}

	// Uncached formula: no known constraints, vacuously satisfied.
	formula, cached := formulas.Formula(it.Code)
	if !cached {
		return v
	}

	for _, group := range formula {
		satisfied := false
		for _, opt := range group {
			idx, scheduled := layout.CourseToIndex[opt]
			if scheduled && idx > it.TermIndex {
				// Scheduled after the course that needs it: report, never
				// count toward satisfaction.
				v.LaterMentions = append(v.LaterMentions, LaterMention{
					Code:      opt,
					TermLabel: layout.TermLabels[idx],
				})
				continue
			}
			if history.Has(opt) || (scheduled && idx < it.TermIndex) {
				satisfied = true
			}
		}
		if !satisfied {
			v.MissingGroups = append(v.MissingGroups, group)
		}
	}
	return v
}

// Apply writes verdicts through the annotator. Compliant courses get their
// badge cleared, as do degenerate verdicts whose display union is empty.
func Apply(verdicts []Verdict, a Annotator) {
	for _, v := range verdicts {
		if v.Compliant() {
			a.ClearBadge(v.Course)
			continue
		}
		text := v.BadgeText()
		if text == "" {
			a.ClearBadge(v.Course)
			continue
		}
		a.SetBadge(v.Course, text)
	}
}
