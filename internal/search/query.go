package search

import (
	"strings"
	"unicode"
)

// NormalizeQuery lower-cases input, keeps letters, digits and the '+' and
// '#' of names like c++ or c#, and collapses whitespace runs. Everything
// else is dropped.
func NormalizeQuery(input string) string {
	input = strings.TrimSpace(input)
	if input == "" {
		return ""
	}
	input = strings.ToLower(input)

	b := strings.Builder{}
	b.Grow(len(input))
	lastWasSpace := false

	for _, r := range input {
		if unicode.IsLetter(r) || unicode.IsNumber(r) || r == '+' || r == '#' {
			b.WriteRune(r)
			lastWasSpace = false
			continue
		}
		if unicode.IsSpace(r) {
			if b.Len() == 0 || lastWasSpace {
				continue
			}
			b.WriteByte(' ')
			lastWasSpace = true
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}

// Words splits normalized text into canonical tokens.
func Words(input string) []string {
	fields := strings.Fields(NormalizeQuery(input))
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		out = append(out, Canonical(f))
	}
	return out
}
