package eval

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marinamoger/myDegreesExtension/internal/planner"
	"github.com/marinamoger/myDegreesExtension/internal/prereq"
)

type fakeHistory map[string]bool

func (h fakeHistory) Has(code string) bool { return h[code] }

type fakeFormulas map[string]prereq.Formula

func (f fakeFormulas) Formula(code string) (prereq.Formula, bool) {
	formula, ok := f[code]
	return formula, ok
}

type badgeCall struct {
	course  planner.ScheduledCourse
	tooltip string
	clear   bool
}

type fakeAnnotator struct {
	calls []badgeCall
}

func (a *fakeAnnotator) SetBadge(item planner.ScheduledCourse, tooltip string) {
	a.calls = append(a.calls, badgeCall{course: item, tooltip: tooltip})
}

func (a *fakeAnnotator) ClearBadge(item planner.ScheduledCourse) {
	a.calls = append(a.calls, badgeCall{course: item, clear: true})
}

// layoutOf builds a Layout from (code, termIndex) pairs with labels
// "Term <n>".
func layoutOf(items ...planner.ScheduledCourse) planner.Layout {
	l := planner.Layout{
		Items:         items,
		CourseToIndex: make(map[string]int),
		TermLabels:    make(map[int]string),
	}
	for _, it := range items {
		l.CourseToIndex[it.Code] = it.TermIndex
		l.TermLabels[it.TermIndex] = termLabel(it.TermIndex)
	}
	return l
}

func termLabel(idx int) string {
	labels := []string{"Fall 2025", "Winter 2026", "Spring 2026", "Fall 2026"}
	if idx < len(labels) {
		return labels[idx]
	}
	return "later"
}

func at(code string, idx int) planner.ScheduledCourse {
	return planner.ScheduledCourse{Code: code, TermIndex: idx}
}

func TestEvaluateSatisfiedByHistory(t *testing.T) {
	layout := layoutOf(at("CS 362", 2))
	formulas := fakeFormulas{"CS 362": {{"CS 261"}}}
	history := fakeHistory{"CS 261": true}

	verdicts := Evaluate(layout, history, formulas)

	require.Len(t, verdicts, 1)
	assert.True(t, verdicts[0].Compliant())
}

func TestEvaluateSatisfiedByEarlierScheduling(t *testing.T) {
	layout := layoutOf(at("CS 261", 1), at("CS 362", 2))
	formulas := fakeFormulas{"CS 362": {{"CS 261"}}}

	verdicts := Evaluate(layout, fakeHistory{}, formulas)

	for _, v := range verdicts {
		assert.True(t, v.Compliant(), "%s should be compliant", v.Course.Code)
	}
}

func TestEvaluateLaterScheduledPrerequisite(t *testing.T) {
	layout := layoutOf(at("CS 362", 2), at("CS 261", 3))
	formulas := fakeFormulas{"CS 362": {{"CS 261"}}}

	verdicts := Evaluate(layout, fakeHistory{}, formulas)

	require.Len(t, verdicts, 2)
	v := verdicts[0]
	require.Equal(t, "CS 362", v.Course.Code)
	require.Len(t, v.LaterMentions, 1)
	assert.Equal(t, LaterMention{Code: "CS 261", TermLabel: termLabel(3)}, v.LaterMentions[0])
	assert.NotEmpty(t, v.MissingGroups)
	assert.Equal(t, "Missing Prerequisite: CS 261", v.BadgeText())
}

func TestEvaluateSameTermDoesNotSatisfy(t *testing.T) {
	// Strict inequalities both ways: a same-term option neither satisfies
	// nor counts as a later mention.
	layout := layoutOf(at("CS 362", 2), at("CS 261", 2))
	formulas := fakeFormulas{"CS 362": {{"CS 261"}}}

	verdicts := Evaluate(layout, fakeHistory{}, formulas)

	v := verdicts[0]
	assert.Empty(t, v.LaterMentions)
	assert.Len(t, v.MissingGroups, 1)
}

func TestEvaluateOrGroupAnySatisfies(t *testing.T) {
	layout := layoutOf(at("CS 362", 2))
	formulas := fakeFormulas{"CS 362": {
		{"CS 261", "CS 261H"},
		{"ECE 271", "CS 271"},
	}}
	history := fakeHistory{"CS 261H": true, "CS 271": true}

	verdicts := Evaluate(layout, history, formulas)

	assert.True(t, verdicts[0].Compliant())
}

func TestEvaluateMissingGroupReportsAllOptions(t *testing.T) {
	layout := layoutOf(at("CS 362", 2))
	formulas := fakeFormulas{"CS 362": {
		{"CS 261"},
		{"ECE 271", "CS 271"},
	}}
	verdicts := Evaluate(layout, fakeHistory{"CS 261": true}, formulas)

	v := verdicts[0]
	require.Len(t, v.MissingGroups, 1)
	assert.Equal(t, prereq.OrGroup{"ECE 271", "CS 271"}, v.MissingGroups[0])
	assert.Equal(t, "Missing Prerequisite: ECE 271, CS 271", v.BadgeText())
}

func TestEvaluateUncachedFormulaIsVacuouslySatisfied(t *testing.T) {
	layout := layoutOf(at("CS 362", 2))

	verdicts := Evaluate(layout, fakeHistory{}, fakeFormulas{})

	assert.True(t, verdicts[0].Compliant())
}

func TestEvaluateSatisfiedGroupStillReportsLaterMention(t *testing.T) {
	// One option satisfies via history, another is scheduled later. The
	// group is satisfied but the later mention is still reported, so the
	// course is not compliant.
	layout := layoutOf(at("CS 362", 2), at("CS 261H", 3))
	formulas := fakeFormulas{"CS 362": {{"CS 261", "CS 261H"}}}
	history := fakeHistory{"CS 261": true}

	verdicts := Evaluate(layout, history, formulas)

	v := verdicts[0]
	assert.Empty(t, v.MissingGroups)
	require.Len(t, v.LaterMentions, 1)
	assert.False(t, v.Compliant())
	assert.Equal(t, "Missing Prerequisite: CS 261H", v.BadgeText())
}

func TestEvaluateIdempotent(t *testing.T) {
	layout := layoutOf(at("CS 362", 2), at("CS 261", 3), at("MTH 231", 0))
	formulas := fakeFormulas{
		"CS 362":  {{"CS 261", "CS 261H"}, {"MTH 231"}},
		"CS 261":  {{"CS 161"}},
		"MTH 231": {},
	}
	history := fakeHistory{"CS 161": true}

	first := Evaluate(layout, history, formulas)
	second := Evaluate(layout, history, formulas)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("verdicts differ between identical runs (-first +second):\n%s", diff)
	}
}

func TestBadgeTextUnionDedupes(t *testing.T) {
	v := Verdict{
		MissingGroups: []prereq.OrGroup{{"CS 261", "CS 271"}, {"CS 261"}},
		LaterMentions: []LaterMention{{Code: "CS 271", TermLabel: "Fall 2026"}},
	}
	assert.Equal(t, "Missing Prerequisite: CS 261, CS 271", v.BadgeText())
}

func TestApply(t *testing.T) {
	t.Run("compliant clears", func(t *testing.T) {
		a := &fakeAnnotator{}
		Apply([]Verdict{{Course: at("CS 362", 2)}}, a)
		require.Len(t, a.calls, 1)
		assert.True(t, a.calls[0].clear)
	})

	t.Run("non-compliant sets badge with tooltip", func(t *testing.T) {
		a := &fakeAnnotator{}
		Apply([]Verdict{{
			Course:        at("CS 362", 2),
			MissingGroups: []prereq.OrGroup{{"CS 261"}},
		}}, a)
		require.Len(t, a.calls, 1)
		assert.False(t, a.calls[0].clear)
		assert.Equal(t, "Missing Prerequisite: CS 261", a.calls[0].tooltip)
	})

	t.Run("degenerate empty union clears", func(t *testing.T) {
		a := &fakeAnnotator{}
		Apply([]Verdict{{
			Course:        at("CS 362", 2),
			MissingGroups: []prereq.OrGroup{{}},
		}}, a)
		require.Len(t, a.calls, 1)
		assert.True(t, a.calls[0].clear)
	})
}
