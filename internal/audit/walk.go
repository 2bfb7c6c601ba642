package audit

import (
	"strconv"

	"github.com/marinamoger/myDegreesExtension/internal/course"
)

// TakenCoursePredicate decides whether one object node of the audit
// document represents a course the student has taken or is taking. The
// rule is a heuristic inherited from the audit feed: the node must carry a
// discipline/number pair forming a valid course code, plus at least one
// enrollment signal (record type "C", a recorded grade, an in-progress or
// preregistered flag). The feed's schema is undocumented upstream; do not
// tighten or loosen this rule without checking real audit payloads.
func TakenCoursePredicate(node map[string]interface{}) (code string, ok bool) {
	disc, _ := node["discipline"].(string)
	num := fieldString(node, "number")
	if disc == "" || num == "" {
		return "", false
	}
	code = course.Normalize(disc + " " + num)
	if !course.Matches(code) {
		return "", false
	}
	if !enrollmentSignal(node) {
		return "", false
	}
	return code, true
}

func enrollmentSignal(node map[string]interface{}) bool {
	if rt, _ := node["recordType"].(string); rt == "C" {
		return true
	}
	if _, ok := node["grade"]; ok {
		return true
	}
	if v, _ := node["inProgress"].(string); v == "Y" {
		return true
	}
	if v, _ := node["preregistered"].(string); v == "Y" {
		return true
	}
	return false
}

// fieldString reads a field that the feed serializes sometimes as a string
// and sometimes as a bare number.
func fieldString(node map[string]interface{}, key string) string {
	switch v := node[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}

// WalkCourses applies pred to every object node of an audit document and
// collects the matched codes, deduplicated. The walk is shape-agnostic: the
// audit nests course records at varying depths and under varying keys.
func WalkCourses(doc interface{}, pred func(map[string]interface{}) (string, bool)) []string {
	seen := make(map[string]bool)
	var codes []string

	var walk func(v interface{})
	walk = func(v interface{}) {
		switch n := v.(type) {
		case map[string]interface{}:
			if code, ok := pred(n); ok && !seen[code] {
				seen[code] = true
				codes = append(codes, code)
			}
			for _, child := range n {
				walk(child)
			}
		case []interface{}:
			for _, child := range n {
				walk(child)
			}
		}
	}
	walk(doc)
	return codes
}
