package expr

import "strings"

// vocabulary lists the only identifiers that survive sanitization. A run of
// letters is kept only if the whole run matches.
var vocabulary = map[string]bool{
	"x":  true,
	"pi": true,
	"e":  true,
}

func init() {
	for name := range functions {
		vocabulary[name] = true
	}
}

// Sanitize strips every character that is not x, a digit, one of
// `+ - * / ^ ( )`, whitespace, `.` or `,`, and every run of letters that is
// not a known identifier. It repeats until the output no longer changes, so
// the result is always a fixed point: Sanitize(Sanitize(s)) == Sanitize(s).
func Sanitize(s string) string {
	for {
		next := sanitizeOnce(s)
		if next == s {
			return next
		}
		s = next
	}
}

func sanitizeOnce(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	for i := 0; i < len(s); {
		c := s[i]
		if isLetter(c) {
			j := i
			for j < len(s) && isLetter(s[j]) {
				j++
			}
			if word := s[i:j]; vocabulary[word] {
				b.WriteString(word)
			}
			i = j
			continue
		}
		if isAllowed(c) {
			b.WriteByte(c)
		}
		i++
	}

	return b.String()
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}

func isAllowed(c byte) bool {
	if isDigit(c) || isSpace(c) {
		return true
	}
	switch c {
	case '+', '-', '*', '/', '^', '(', ')', '.', ',':
		return true
	}
	return false
}
