package syntax

import (
	"fmt"
)

// Severity grades a Diagnostic.
type Severity uint8

const (
	SeverityWarning Severity = iota
	SeveritySuggestion
)

func (s Severity) String() string {
	if s == SeveritySuggestion {
		return "suggestion"
	}
	return "warning"
}

// Diagnostic is an advisory finding about a pattern that parsed
// successfully. Diagnostics never change matching behavior.
type Diagnostic struct {
	Severity Severity
	Msg      string
	Span     Span
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s at offset %d: %s", d.Severity, d.Span.Begin, d.Msg)
}

func warnf(span Span, format string, args ...any) Diagnostic {
	return Diagnostic{Severity: SeverityWarning, Msg: fmt.Sprintf(format, args...), Span: span}
}

func describeItem(it ClassItem) string {
	switch it.Kind {
	case ItemRange:
		return fmt.Sprintf("%q-%q", it.Lo, it.Hi)
	case ItemShorthand:
		return `\` + string(it.Lo)
	}
	return fmt.Sprintf("%q", it.Lo)
}

func classDiagnostics(cc *CharClass) []Diagnostic {
	var out []Diagnostic
	for i, it := range cc.Items {
		if it.Kind == ItemRange {
			if it.Lo == it.Hi {
				out = append(out, Diagnostic{
					Severity: SeveritySuggestion,
					Msg:      fmt.Sprintf("range %s matches a single character, write %q", describeItem(it), it.Lo),
					Span:     it.Span,
				})
			} else if badRange(it.Lo, it.Hi) {
				out = append(out, warnf(it.Span, "possibly bad range %s spans several character categories", describeItem(it)))
			}
		}
		for _, prev := range cc.Items[:i] {
			if covers(prev, it) {
				out = append(out, warnf(it.Span, "%s is redundant, already covered by %s", describeItem(it), describeItem(prev)))
				break
			}
		}
	}
	return out
}

func category(r rune) int {
	switch {
	case IsDigit(r):
		return 1
	case 'a' <= r && r <= 'z':
		return 2
	case 'A' <= r && r <= 'Z':
		return 3
	}
	return 0
}

// badRange flags ranges with an alphanumeric endpoint that leave that
// endpoint's category, such as A-z or 0-Z.
func badRange(lo, hi rune) bool {
	cl, ch := category(lo), category(hi)
	if cl == 0 && ch == 0 {
		return false
	}
	return cl != ch
}

func covers(prev, it ClassItem) bool {
	switch prev.Kind {
	case ItemChar, ItemRange:
		if it.Kind == ItemShorthand {
			return false
		}
		return prev.Lo <= it.Lo && it.Hi <= prev.Hi
	case ItemShorthand:
		if it.Kind == ItemShorthand {
			return it.Lo == prev.Lo
		}
		if it.Hi-it.Lo > 0xff {
			return false
		}
		for r := it.Lo; r <= it.Hi; r++ {
			if !MatchShorthand(prev.Lo, r) {
				return false
			}
		}
		return true
	}
	return false
}

type tristate uint8

const (
	never tristate = iota
	always
	maybe
)

// zeroWidth reports whether n always, never or sometimes matches without
// consuming input.
func (c *anchorChecker) zeroWidth(n Node) tristate {
	switch n := n.(type) {
	case *Empty, *Boundary, *Lookaround:
		return always
	case *Char, *Shorthand, *Class:
		return never
	case *Group:
		return c.zeroWidth(n.Sub)
	case *Backref:
		g, ok := c.groups.Lookup(n.Index)
		if !ok || c.visiting[g] {
			return maybe
		}
		c.visiting[g] = true
		defer delete(c.visiting, g)
		return c.zeroWidth(g.Sub)
	case *Repeat:
		if n.Quant.Max == 0 {
			return always
		}
		sub := c.zeroWidth(n.Sub)
		if sub == never && n.Quant.Min == 0 {
			return maybe
		}
		return sub
	case *Alternation:
		res := c.zeroWidth(n.Alts[0])
		for _, alt := range n.Alts[1:] {
			if c.zeroWidth(alt) != res {
				return maybe
			}
		}
		return res
	case *Concat:
		res := always
		for _, item := range n.Items {
			switch c.zeroWidth(item) {
			case never:
				return never
			case maybe:
				res = maybe
			}
		}
		return res
	}
	Invariant(false, "zeroWidth: unexpected node %T", n)
	return maybe
}

type anchorChecker struct {
	groups   *GroupTable
	visiting map[*Group]bool
	diags    []Diagnostic
}

// anchorDiagnostics warns about ^ that can only be reached after input was
// consumed and $ that can only be reached before more input is consumed.
// Multiline mode can make either legitimate, so these are warnings only.
func anchorDiagnostics(re *Regexp) []Diagnostic {
	c := &anchorChecker{groups: re.Groups, visiting: make(map[*Group]bool)}
	c.caret(re.Root)
	c.dollar(re.Root)
	return c.diags
}

func (c *anchorChecker) caret(n Node) {
	switch n := n.(type) {
	case *Alternation:
		for _, alt := range n.Alts {
			c.caret(alt)
		}
	case *Concat:
		consumed := false
		for _, item := range n.Items {
			if consumed {
				c.forbid(item, '^')
				continue
			}
			if c.zeroWidth(item) == always {
				continue
			}
			c.caret(item)
			consumed = true
		}
	case *Repeat:
		if n.Quant.Max == 1 {
			c.caret(n.Sub)
		} else {
			c.forbid(n.Sub, '^')
		}
	case *Group:
		c.caret(n.Sub)
	}
}

func (c *anchorChecker) dollar(n Node) {
	switch n := n.(type) {
	case *Alternation:
		for _, alt := range n.Alts {
			c.dollar(alt)
		}
	case *Concat:
		consumed := false
		for i := len(n.Items) - 1; i >= 0; i-- {
			item := n.Items[i]
			if consumed {
				c.forbid(item, '$')
				continue
			}
			if c.zeroWidth(item) == always {
				continue
			}
			c.dollar(item)
			consumed = true
		}
	case *Repeat:
		if n.Quant.Max == 1 {
			c.dollar(n.Sub)
		} else {
			c.forbid(n.Sub, '$')
		}
	case *Group:
		c.dollar(n.Sub)
	}
}

// forbid reports every anchor letter reachable in n outside lookarounds.
func (c *anchorChecker) forbid(n Node, letter rune) {
	switch n := n.(type) {
	case *Boundary:
		if n.Letter == letter {
			c.diags = append(c.diags, warnf(n.Loc, "unexpected anchor %c", letter))
		}
	case *Alternation:
		for _, alt := range n.Alts {
			c.forbid(alt, letter)
		}
	case *Concat:
		for _, item := range n.Items {
			c.forbid(item, letter)
		}
	case *Repeat:
		c.forbid(n.Sub, letter)
	case *Group:
		c.forbid(n.Sub, letter)
	}
}
