package serializer

import (
	"strings"
)

const (
	lineSeparator      = rune(0x2028)
	paragraphSeparator = rune(0x2029)
)

// escapedChars maps the characters that are unsafe inside a <script> element
// (or invalid in older JavaScript string literals) to their unicode escape
var escapedChars = map[rune]string{
	'<':                "\\u003C",
	'>':                "\\u003E",
	'/':                "\\u002F",
	lineSeparator:      "\\u2028",
	paragraphSeparator: "\\u2029",
}

var unsafeCharsReplacer = func() *strings.Replacer {
	pairs := make([]string, 0, 2*len(escapedChars))
	for r, escaped := range escapedChars {
		pairs = append(pairs, string(r), escaped)
	}
	return strings.NewReplacer(pairs...)
}()

// EscapeUnsafeChar returns the escape sequence of r, or false if r needs no escaping
func EscapeUnsafeChar(r rune) (string, bool) {
	s, ok := escapedChars[r]
	return s, ok
}

// EscapeUnsafeChars replaces every unsafe character in s by its unicode escape
func EscapeUnsafeChars(s string) string {
	return unsafeCharsReplacer.Replace(s)
}
