package literal

import (
	"unicode/utf8"

	"github.com/coregx/backre/syntax"
)

// ExtractorConfig configures literal extraction limits.
//
// These limits prevent excessive extraction from complex patterns:
//   - MaxLiterals: prevents memory bloat from alternations like (a|b|c|d|...)
//   - MaxLiteralLen: bounds the length of each literal
//   - MaxClassSize: prevents expanding large character classes like [a-z]
type ExtractorConfig struct {
	// MaxLiterals limits the number of literals in any intermediate set.
	// A set that would grow beyond it becomes infinite. Default: 64.
	MaxLiterals int

	// MaxLiteralLen limits the length of each extracted literal.
	// Default: 64.
	MaxLiteralLen int

	// MaxClassSize limits the size of character classes to expand.
	// Character classes like [abc] are expanded to ["a", "b", "c"].
	// Default: 10.
	MaxClassSize int
}

// DefaultConfig returns the default extractor configuration.
func DefaultConfig() ExtractorConfig {
	return ExtractorConfig{
		MaxLiterals:   64,
		MaxLiteralLen: 64,
		MaxClassSize:  10,
	}
}

// maxDepth bounds recursion over the syntax tree.
const maxDepth = 100

// Extractor computes prefix literal sets from parsed patterns.
//
// Example:
//
//	re, _ := syntax.Parse(`(hello|world)\d+`)
//	prefixes := literal.New(literal.DefaultConfig()).ExtractPrefixes(re)
//	// prefixes = [hello~ world~]
type Extractor struct {
	config ExtractorConfig
}

// New creates a new Extractor with the given configuration.
func New(config ExtractorConfig) *Extractor {
	return &Extractor{config: config}
}

// ExtractPrefixes returns the literals every match of re starts with,
// minimized. The result is infinite when no such set is known, and contains
// the empty literal when a match may start with anything.
//
// Zero-width nodes (anchors, word boundaries, lookaround) are transparent:
// they constrain where a match may start but never what it starts with.
//
// Examples:
//
//	"hello"          → [hello]
//	"(foo|bar)"      → [foo bar]
//	"[abc]test"      → [atest btest ctest]
//	"hello.*world"   → [hello~]
//	"a?b"            → [ab b]
//	".*foo"          → inf
func (e *Extractor) ExtractPrefixes(re *syntax.Regexp) *Seq {
	seq := e.prefixes(re.Root, 0)
	if seq.IsFinite() {
		seq.Minimize()
	}
	return seq
}

func (e *Extractor) prefixes(n syntax.Node, depth int) *Seq {
	if depth > maxDepth {
		return Infinite()
	}

	switch n := n.(type) {
	case *syntax.Char:
		return NewSeq(NewLiteral(utf8.AppendRune(nil, n.Rune), true))

	case *syntax.Empty, *syntax.Boundary, *syntax.Lookaround:
		return NewSeq(NewLiteral([]byte{}, true))

	case *syntax.Class:
		return e.expandClass(n.Class)

	case *syntax.Group:
		return e.prefixes(n.Sub, depth+1)

	case *syntax.Alternation:
		out := NewSeq()
		for _, alt := range n.Alts {
			out.Union(e.prefixes(alt, depth+1))
			if !out.IsFinite() || out.Len() > e.config.MaxLiterals {
				return Infinite()
			}
		}
		return out

	case *syntax.Concat:
		out := NewSeq(NewLiteral([]byte{}, true))
		for _, it := range n.Items {
			if !out.AnyExact() {
				break
			}
			out.Cross(e.prefixes(it, depth+1))
			if out.Len() > e.config.MaxLiterals {
				return Infinite()
			}
			out.Truncate(e.config.MaxLiteralLen)
		}
		return out

	case *syntax.Repeat:
		return e.repeat(n, depth)
	}

	// Shorthands and backreferences can start with too many things.
	return Infinite()
}

// repeat handles x{min,max}. Only the first copy contributes; if the body
// is optional the empty literal keeps the rest of the concatenation in play.
func (e *Extractor) repeat(r *syntax.Repeat, depth int) *Seq {
	q := r.Quant
	if q.Max == 0 {
		return NewSeq(NewLiteral([]byte{}, true))
	}
	sub := e.prefixes(r.Sub, depth+1)
	if !sub.IsFinite() {
		return Infinite()
	}
	if q.Max != 1 {
		sub.MakeInexact()
	}
	if q.Min == 0 {
		sub.Union(NewSeq(NewLiteral([]byte{}, true)))
	}
	return sub
}

// expandClass lists the members of a small, positive class.
func (e *Extractor) expandClass(c *syntax.CharClass) *Seq {
	if c.Negate {
		return Infinite()
	}
	var lits []Literal
	for _, it := range c.Items {
		if it.Kind == syntax.ItemShorthand {
			return Infinite()
		}
		if int(it.Hi-it.Lo)+1+len(lits) > e.config.MaxClassSize {
			return Infinite()
		}
		for r := it.Lo; r <= it.Hi; r++ {
			lits = append(lits, NewLiteral(utf8.AppendRune(nil, r), true))
		}
	}
	return NewSeq(lits...)
}
