// Package normalize flattens extracted text onto a single line.
package normalize

import "strings"

// Text replaces every newline with one space and trims surrounding
// whitespace. Runs of interior spaces are left untouched, so
// "a  b" stays "a  b".
func Text(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, "\n", " "))
}
