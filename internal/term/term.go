// Package term maps season/year labels to the institution's internal term
// codes.
package term

import "fmt"

// seasonSuffix holds the fixed 2-digit suffix for each season in the
// institutional term-code scheme.
var seasonSuffix = map[string]string{
	"Summer": "00",
	"Fall":   "01",
	"Winter": "02",
	"Spring": "03",
}

// Resolve maps a season name and a 4-digit year to the 6-character
// institutional term code. Summer and Fall belong to the following academic
// year, so their year component is the input year plus one: Fall 2025 is
// "202601", Spring 2026 is "202603". This mapping is an external-system
// contract and must stay bit-exact with the institution's scheme. ok is
// false for unrecognized seasons.
func Resolve(season string, year int) (code string, ok bool) {
	suffix, ok := seasonSuffix[season]
	if !ok {
		return "", false
	}
	if season == "Summer" || season == "Fall" {
		year++
	}
	return fmt.Sprintf("%04d%s", year, suffix), true
}
