package meta

import (
	"sync/atomic"

	"github.com/coregx/backre/nfa"
)

// MatchAt makes a single anchored attempt at offset at: the match, if any,
// starts exactly there. \G holds at at. Offsets outside [0, len(input)]
// report StatusNoMatch without running the backtracker.
//
// Example:
//
//	engine, _ := meta.Compile(`\d+`)
//	m, _ := engine.MatchAt("ab123", 2, false) // "123"
//	_, st := engine.MatchAt("ab123", 0, false) // StatusNoMatch
func (e *Engine) MatchAt(input string, at int, multiline bool) (*Match, nfa.Status) {
	atomic.AddUint64(&e.stats.Searches, 1)
	if at < 0 || at > len(input) {
		return nil, nfa.StatusNoMatch
	}
	st, slots := e.attempt(input, at, at, multiline)
	if st != nfa.StatusMatch {
		return nil, st
	}
	return e.newMatch(input, slots), st
}

// Find returns the leftmost match in input, scanning start offsets from 0.
//
// Example:
//
//	engine, _ := meta.Compile("hello")
//	m, st := engine.Find("say hello world", false)
//	if st == nfa.StatusMatch {
//	    println(m.Start()) // 4
//	}
func (e *Engine) Find(input string, multiline bool) (*Match, nfa.Status) {
	matches, st := e.FindAll(input, multiline, 1)
	if st != nfa.StatusMatch {
		return nil, st
	}
	return matches[0], st
}

// IsMatch reports whether input contains any match. A timeout counts as
// no match.
func (e *Engine) IsMatch(input string, multiline bool) bool {
	_, st := e.Find(input, multiline)
	return st == nfa.StatusMatch
}

func (e *Engine) newMatch(input string, slots []int) *Match {
	return newMatch(input, slots, e.nfa.GroupSlots(), e.nfa.SubexpNames())
}
