package render

import "unicode/utf8"

// CharAt returns the character at the 1-based position n of s, or ""
// when n is zero, negative or past the last character.
func CharAt(s string, n int) string {
	if n <= 0 || n > utf8.RuneCountInString(s) {
		return ""
	}
	i := 1
	for _, r := range s {
		if i == n {
			return string(r)
		}
		i++
	}
	return ""
}
