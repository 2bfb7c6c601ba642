// Package prereq fetches, parses, and caches AND-of-OR prerequisite
// formulas from the course API.
package prereq

import (
	"github.com/marinamoger/myDegreesExtension/internal/course"
)

// Token is one entry of the flat prerequisite list the course API returns.
// The list is order-dependent: parenthesis markers and connectors encode an
// AND of OR-groups.
type Token struct {
	Subject          string `json:"subjectCodePrerequisite"`
	CourseNumber     string `json:"courseNumberPrerequisite"`
	LeftParenthesis  string `json:"leftParenthesis"`
	RightParenthesis string `json:"rightParenthesis"`
	Connector        string `json:"connector"`
}

// OrGroup is a set of course codes, any one of which satisfies its part of
// a formula.
type OrGroup []string

// Formula is an ordered sequence of OrGroups, all of which must be
// individually satisfied.
type Formula []OrGroup

// BuildGroups folds the flat token list into a Formula. A new group starts
// when a token opens a parenthesis or is AND-connected ("A") to a non-empty
// group; the token's code joins the current group; a right parenthesis
// flushes the group, and whatever is left open at the end of the list is
// flushed too. Duplicate codes within a group are dropped; group order is
// preserved.
func BuildGroups(tokens []Token) Formula {
	var formula Formula
	var current OrGroup

	flush := func() {
		if len(current) == 0 {
			return
		}
		formula = append(formula, dedupe(current))
		current = nil
	}

	for _, tok := range tokens {
		if tok.LeftParenthesis != "" || (tok.Connector == "A" && len(current) > 0) {
			flush()
		}
		code := course.Normalize(tok.Subject + " " + tok.CourseNumber)
		if course.Matches(code) {
			current = append(current, code)
		}
		if tok.RightParenthesis != "" {
			flush()
		}
	}
	flush()
	return formula
}

func dedupe(group OrGroup) OrGroup {
	seen := make(map[string]bool, len(group))
	out := make(OrGroup, 0, len(group))
	for _, code := range group {
		if seen[code] {
			continue
		}
		seen[code] = true
		out = append(out, code)
	}
	return out
}
