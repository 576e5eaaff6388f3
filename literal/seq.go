// Package literal extracts the literal byte strings that every match of a
// pattern must begin with.
//
// The search driver feeds these strings to a prefilter so that it only
// starts the backtracker at offsets where a match is possible at all.
//
// Key concepts:
//   - A Literal is a byte string a match may start with
//   - A Seq is a set of alternative literals, or the infinite set when
//     nothing useful is known
package literal

import (
	"bytes"
	"sort"
)

// Literal is a byte string extracted from a pattern.
// Exact reports whether the literal spells out the whole text matched by
// the node it came from (true) or only a prefix of it (false). Only exact
// literals can be extended by what follows in a concatenation.
//
// Example:
//   - Pattern /hello/ → Literal{[]byte("hello"), true}
//   - Pattern /hello\d/ → Literal{[]byte("hello"), false}
type Literal struct {
	Bytes []byte
	Exact bool
}

// NewLiteral creates a new Literal from the given bytes and exactness flag.
func NewLiteral(b []byte, exact bool) Literal {
	return Literal{
		Bytes: b,
		Exact: exact,
	}
}

// Len returns the length of the literal in bytes.
func (l Literal) Len() int {
	return len(l.Bytes)
}

// String returns a string representation of the literal for debugging purposes.
// Format: "literal{bytes, exact=true/false}"
func (l Literal) String() string {
	exact := "false"
	if l.Exact {
		exact = "true"
	}
	return "literal{" + string(l.Bytes) + ", exact=" + exact + "}"
}

// Seq is a set of alternative literals. A finite Seq says that every match
// starts with one of its literals; the infinite Seq says nothing.
//
// Example:
//
//	seq := literal.NewSeq(
//	    literal.NewLiteral([]byte("foo"), true),
//	    literal.NewLiteral([]byte("bar"), true),
//	)
//	fmt.Println(seq.Len()) // Output: 2
type Seq struct {
	literals []Literal
	infinite bool
}

// NewSeq creates a finite sequence from the given literals.
func NewSeq(lits ...Literal) *Seq {
	return &Seq{
		literals: lits,
	}
}

// Infinite returns the sequence that matches any prefix.
func Infinite() *Seq {
	return &Seq{infinite: true}
}

// Len returns the number of literals in the sequence.
// An infinite sequence has none.
func (s *Seq) Len() int {
	if s == nil {
		return 0
	}
	return len(s.literals)
}

// Get returns the literal at the specified index.
// Panics if index is out of bounds.
func (s *Seq) Get(i int) Literal {
	return s.literals[i]
}

// IsEmpty returns true if the sequence has no literals.
// Note that the empty finite sequence (a pattern that cannot match) and the
// infinite sequence are both empty.
func (s *Seq) IsEmpty() bool {
	return s == nil || len(s.literals) == 0
}

// IsFinite returns true if the sequence is a finite set of literals.
func (s *Seq) IsFinite() bool {
	return s != nil && !s.infinite
}

// HasEmpty reports whether the sequence contains the empty literal, which
// means a match can start anywhere.
func (s *Seq) HasEmpty() bool {
	if s == nil {
		return false
	}
	for _, lit := range s.literals {
		if len(lit.Bytes) == 0 {
			return true
		}
	}
	return false
}

// MinLen returns the length of the shortest literal, or 0 for an empty
// sequence.
func (s *Seq) MinLen() int {
	if s.IsEmpty() {
		return 0
	}
	n := len(s.literals[0].Bytes)
	for _, lit := range s.literals[1:] {
		if len(lit.Bytes) < n {
			n = len(lit.Bytes)
		}
	}
	return n
}

// Clone returns a deep copy of the sequence.
func (s *Seq) Clone() *Seq {
	if s == nil {
		return nil
	}

	cloned := make([]Literal, len(s.literals))
	for i, lit := range s.literals {
		cloned[i] = Literal{
			Bytes: append([]byte(nil), lit.Bytes...),
			Exact: lit.Exact,
		}
	}
	return &Seq{literals: cloned, infinite: s.infinite}
}

// MakeInexact marks every literal as a prefix only.
func (s *Seq) MakeInexact() {
	if s == nil {
		return
	}
	for i := range s.literals {
		s.literals[i].Exact = false
	}
}

// Union adds the literals of other to s. The union with an infinite
// sequence is infinite.
func (s *Seq) Union(other *Seq) {
	if !other.IsFinite() {
		s.literals = nil
		s.infinite = true
		return
	}
	if s.infinite {
		return
	}
	s.literals = append(s.literals, other.literals...)
}

// Cross extends every exact literal of s with every literal of other.
// Inexact literals of s are kept unchanged. Crossing with an infinite
// sequence makes every literal of s inexact, or s infinite when it holds
// the exact empty literal.
func (s *Seq) Cross(other *Seq) {
	if s.infinite {
		return
	}
	if !other.IsFinite() {
		for _, lit := range s.literals {
			if lit.Exact && len(lit.Bytes) == 0 {
				s.literals = nil
				s.infinite = true
				return
			}
		}
		s.MakeInexact()
		return
	}
	out := make([]Literal, 0, len(s.literals)*max(1, len(other.literals)))
	for _, a := range s.literals {
		if !a.Exact {
			out = append(out, a)
			continue
		}
		for _, b := range other.literals {
			joined := make([]byte, 0, len(a.Bytes)+len(b.Bytes))
			joined = append(joined, a.Bytes...)
			joined = append(joined, b.Bytes...)
			out = append(out, Literal{Bytes: joined, Exact: b.Exact})
		}
	}
	s.literals = out
}

// AnyExact reports whether some literal can still be extended.
func (s *Seq) AnyExact() bool {
	if s == nil {
		return false
	}
	for _, lit := range s.literals {
		if lit.Exact {
			return true
		}
	}
	return false
}

// Truncate cuts every literal to at most n bytes. Cut literals become
// inexact.
func (s *Seq) Truncate(n int) {
	if s == nil {
		return
	}
	for i := range s.literals {
		if len(s.literals[i].Bytes) > n {
			s.literals[i].Bytes = s.literals[i].Bytes[:n]
			s.literals[i].Exact = false
		}
	}
}

// Minimize removes duplicates and literals made redundant by a shorter
// literal that is their prefix: any text starting with "foobar" also
// starts with "foo".
//
// Example:
//
//	seq := literal.NewSeq(
//	    literal.NewLiteral([]byte("foo"), true),
//	    literal.NewLiteral([]byte("foobar"), true),
//	)
//	seq.Minimize()
//	fmt.Println(seq.Len()) // Output: 1 (only "foo" remains)
func (s *Seq) Minimize() {
	if s.IsEmpty() {
		return
	}

	// Shortest first; ties keep their order so the result is deterministic.
	sort.SliceStable(s.literals, func(i, j int) bool {
		return len(s.literals[i].Bytes) < len(s.literals[j].Bytes)
	})

	kept := make([]Literal, 0, len(s.literals))
	for _, current := range s.literals {
		redundant := false
		for _, k := range kept {
			if bytes.HasPrefix(current.Bytes, k.Bytes) {
				redundant = true
				break
			}
		}
		if !redundant {
			kept = append(kept, current)
		}
	}
	s.literals = kept
}

// String renders the sequence for debugging: "[foo bar]" or "inf".
func (s *Seq) String() string {
	if !s.IsFinite() {
		return "inf"
	}
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, lit := range s.literals {
		if i > 0 {
			buf.WriteByte(' ')
		}
		buf.Write(lit.Bytes)
		if !lit.Exact {
			buf.WriteByte('~')
		}
	}
	buf.WriteByte(']')
	return buf.String()
}
