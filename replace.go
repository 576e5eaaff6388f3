package backre

import (
	"strconv"
	"strings"
)

// ReplaceAllString returns a copy of src, replacing matches of the pattern
// with the replacement string repl.
// Inside repl, $ signs are expanded:
//   - $0 .. $9 and ${N} insert group N
//   - ${name} inserts the named group
//   - $$ inserts a literal $
//
// Groups that did not participate expand to "".
//
// Example:
//
//	re := backre.MustCompile(`(?<user>\w+)@(\w+)\.(\w+)`)
//	re.ReplaceAllString("user@example.com", "${user} at $2 dot $3")
//	// "user at example dot com"
func (r *Regex) ReplaceAllString(src, repl string) string {
	if strings.IndexByte(repl, '$') < 0 {
		return r.ReplaceAllLiteralString(src, repl)
	}
	return r.replace(src, func(b *strings.Builder, m *Match) {
		r.expand(b, repl, m)
	})
}

// ReplaceAllLiteralString returns a copy of src, replacing matches of the
// pattern with repl. The replacement is substituted directly, without
// expanding $ variables.
func (r *Regex) ReplaceAllLiteralString(src, repl string) string {
	return r.replace(src, func(b *strings.Builder, _ *Match) {
		b.WriteString(repl)
	})
}

// ReplaceAllStringFunc returns a copy of src in which all matches of the
// pattern have been replaced by the return value of repl applied to the
// matched text.
//
// Example:
//
//	re := backre.MustCompile(`\d+`)
//	re.ReplaceAllStringFunc("1 2 3", func(s string) string {
//	    n, _ := strconv.Atoi(s)
//	    return strconv.Itoa(n * 2)
//	})
//	// "2 4 6"
func (r *Regex) ReplaceAllStringFunc(src string, repl func(string) string) string {
	return r.replace(src, func(b *strings.Builder, m *Match) {
		b.WriteString(repl(m.String()))
	})
}

func (r *Regex) replace(src string, write func(*strings.Builder, *Match)) string {
	matches := r.findAll(src, -1)
	if len(matches) == 0 {
		return src
	}

	var b strings.Builder
	b.Grow(len(src))
	lastEnd := 0
	for _, m := range matches {
		b.WriteString(src[lastEnd:m.Start()])
		write(&b, m)
		lastEnd = m.End()
	}
	b.WriteString(src[lastEnd:])
	return b.String()
}

// ExpandString returns template with $ references replaced by the groups
// of m, using the same syntax as ReplaceAllString.
func (r *Regex) ExpandString(template string, m *Match) string {
	var b strings.Builder
	r.expand(&b, template, m)
	return b.String()
}

// expand appends template to b, replacing $ references with the groups
// of m.
func (r *Regex) expand(b *strings.Builder, template string, m *Match) {
	for i := 0; i < len(template); {
		c := template[i]
		if c != '$' || i+1 >= len(template) {
			b.WriteByte(c)
			i++
			continue
		}

		next := template[i+1]
		switch {
		case next == '$':
			b.WriteByte('$')
			i += 2

		case next >= '0' && next <= '9':
			s, _ := m.Group(int(next - '0'))
			b.WriteString(s)
			i += 2

		case next == '{':
			end := strings.IndexByte(template[i+2:], '}')
			if end < 0 {
				b.WriteByte('$')
				i++
				continue
			}
			ref := template[i+2 : i+2+end]
			if n, err := strconv.Atoi(ref); err == nil {
				s, _ := m.Group(n)
				b.WriteString(s)
			} else {
				s, _ := m.NamedGroup(ref)
				b.WriteString(s)
			}
			i += 3 + end

		default:
			b.WriteByte('$')
			i++
		}
	}
}

// Split slices s into substrings separated by the expression and returns
// a slice of the substrings between those expression matches.
//
// The count determines the number of substrings to return:
//
//	n > 0: at most n substrings; the last substring will be the unsplit remainder.
//	n == 0: the result is nil (zero substrings)
//	n < 0: all substrings
//
// Example:
//
//	re := backre.MustCompile(`\s*,\s*`)
//	re.Split("a , b,c", -1) // ["a" "b" "c"]
func (r *Regex) Split(s string, n int) []string {
	if n == 0 {
		return nil
	}

	matches := r.findAll(s, -1)
	if len(matches) == 0 {
		return []string{s}
	}

	result := make([]string, 0, len(matches)+1)
	lastEnd := 0
	for _, m := range matches {
		if n > 0 && len(result) == n-1 {
			break
		}
		// A leading empty match does not split off an empty first element.
		if m.End() == 0 {
			continue
		}
		result = append(result, s[lastEnd:m.Start()])
		lastEnd = m.End()
	}
	return append(result, s[lastEnd:])
}
