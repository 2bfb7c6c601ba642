package course

import (
	"regexp"
	"strings"
)

// codePattern is the course-code shape shared by every data source this
// system touches: a 2-4 letter uppercase discipline, an optional space, and
// a 3-digit number with an optional honors/lab suffix letter.
var codePattern = regexp.MustCompile(`^([A-Z]{2,4})\s?(\d{3}[A-Za-z]?)$`)

// Normalize canonicalizes a course code into "DISC NNN" form, e.g.
// "CS361" -> "CS 361". Inputs that do not match the course-code shape are
// returned unchanged; normalization is best effort and never fails. Every
// externally-sourced code must pass through here before it is used as a
// map or set key, so that "CS361" and "CS 361" share one identity.
func Normalize(raw string) string {
	m := codePattern.FindStringSubmatch(strings.TrimSpace(raw))
	if m == nil {
		return raw
	}
	return m[1] + " " + m[2]
}

// Matches reports whether s has the course-code shape.
func Matches(s string) bool {
	return codePattern.MatchString(strings.TrimSpace(s))
}

// Split breaks a course code into its discipline and number parts. ok is
// false when the code does not have the course-code shape.
func Split(code string) (discipline, number string, ok bool) {
	m := codePattern.FindStringSubmatch(strings.TrimSpace(code))
	if m == nil {
		return "", "", false
	}
	return m[1], m[2], true
}
