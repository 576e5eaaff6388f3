// Package prefilter finds candidate start offsets for a search before the
// backtracker is run.
//
// A prefilter is built from the prefix literals of a pattern (see package
// literal): every match starts with one of them, so any offset where none
// of them occurs can be skipped without running the automaton.
//
// The package selects a strategy from the literal set:
//   - Single byte → memchr (SWAR byte search)
//   - Single substring → memmem (memchr on the first byte, then verify)
//   - Several literals → Aho-Corasick automaton
//
// Example usage:
//
//	re, _ := syntax.Parse("(hello|world)")
//	prefixes := literal.New(literal.DefaultConfig()).ExtractPrefixes(re)
//	pf := prefilter.New(prefixes)
//
//	haystack := []byte("foo hello bar world baz")
//	pos := pf.Find(haystack, 0)
//	// pos == 4 (position of "hello")
package prefilter

import (
	"github.com/coregx/backre/literal"
)

// Prefilter is used to quickly find candidate match positions before running
// the full regex engine.
//
// A candidate is only a position where a match may start; the caller must
// still verify it with the backtracker.
type Prefilter interface {
	// Find returns the index of the first candidate at or after start, or -1
	// if no candidate exists. start must be >= 0 and <= len(haystack).
	//
	// Example:
	//
	//	pos := pf.Find(haystack, 0)
	//	for pos != -1 {
	//	    if fullRegexMatches(haystack, pos) {
	//	        return pos
	//	    }
	//	    pos = pf.Find(haystack, pos+1)
	//	}
	Find(haystack []byte, start int) int

	// HeapBytes returns the number of bytes of heap memory used by this
	// prefilter. Simple byte scanners return 0.
	HeapBytes() int

	// String names the strategy, for debugging.
	String() string
}

// New builds the best prefilter for the given prefix literals.
//
// Returns nil if no effective prefilter can be built: the set is infinite or
// empty, it contains the empty literal (a match may start anywhere), or the
// automaton could not be built.
func New(prefixes *literal.Seq) Prefilter {
	if !prefixes.IsFinite() || prefixes.IsEmpty() || prefixes.HasEmpty() {
		return nil
	}

	if prefixes.Len() == 1 {
		lit := prefixes.Get(0)
		if len(lit.Bytes) == 1 {
			return newMemchrPrefilter(lit.Bytes[0])
		}
		return newMemmemPrefilter(lit.Bytes)
	}

	pf, err := newAhoCorasickPrefilter(prefixes)
	if err != nil {
		return nil
	}
	return pf
}
