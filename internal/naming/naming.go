// Package naming derives source identifiers from schema names.
package naming

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var lower = cases.Lower(language.Und)

// ToIdentifier converts a snake_case schema name into a camelCase or PascalCase
// identifier. Segments are split on underscores, empty segments are dropped and
// every segment is lower-cased. The first segment is capitalized only when
// capitalizeFirst is set; all following segments are always capitalized.
func ToIdentifier(raw string, capitalizeFirst bool) string {
	var b strings.Builder
	for _, part := range strings.Split(raw, "_") {
		if part == "" {
			continue
		}
		part = lower.String(part)
		if capitalizeFirst || b.Len() > 0 {
			part = Export(part)
		}
		b.WriteString(part)
	}
	return b.String()
}

// Pascal is ToIdentifier(raw, true).
func Pascal(raw string) string {
	return ToIdentifier(raw, true)
}

// Camel is ToIdentifier(raw, false).
func Camel(raw string) string {
	return ToIdentifier(raw, false)
}

// Snake lower-cases raw and rejoins its non-empty underscore separated
// segments, e.g. "__Order__Items" becomes "order_items".
func Snake(raw string) string {
	var parts []string
	for _, part := range strings.Split(raw, "_") {
		if part != "" {
			parts = append(parts, lower.String(part))
		}
	}
	return strings.Join(parts, "_")
}

// Export upper-cases the first rune of name and leaves the rest untouched.
func Export(name string) string {
	r, size := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError {
		return name
	}
	return string(unicode.ToUpper(r)) + name[size:]
}
