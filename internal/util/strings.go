package util

import (
	"strings"
	"unicode"

	"github.com/jinzhu/inflection"
)

// PascalCase converts a table or display name into PascalCase, splitting on
// any non alphanumeric runes.
func PascalCase(val string) string {
	var sb strings.Builder
	upper := true
	for _, r := range val {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			upper = true
			continue
		}
		if upper {
			sb.WriteRune(unicode.ToUpper(r))
			upper = false
		} else {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// Singularize returns the singular form of a name. Only the trailing word is
// affected so multi word display names keep their qualifiers.
func Singularize(val string) string {
	return inflection.Singular(val)
}
