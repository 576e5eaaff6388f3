package syntax

import "strings"

// Unescape collapses every backslash pair "\X" into "X". It is applied to
// patterns written as escaped string literals, where "\\d" stands for \d.
// A final backslash with nothing after it is an error.
func Unescape(s string) (string, error) {
	if strings.IndexByte(s, '\\') < 0 {
		return s, nil
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' {
			b.WriteByte(c)
			continue
		}
		if i+1 == len(s) {
			return "", &Error{Code: ErrDanglingBackslash, Expr: s, Offset: i}
		}
		i++
		b.WriteByte(s[i])
	}
	return b.String(), nil
}
