package extract

import "strings"

// Normalize collapses full-width ideographic spaces and non-breaking spaces
// into regular spaces, then collapses whitespace runs to a single space and
// trims the ends. Normalizing already-normalized text is a no-op.
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	s = strings.ReplaceAll(s, "　", " ")
	s = strings.ReplaceAll(s, " ", " ")
	return strings.Join(strings.Fields(s), " ")
}
