package meta

import (
	"sync/atomic"

	"github.com/coregx/backre/nfa"
	"github.com/coregx/backre/prefilter"
	"github.com/coregx/backre/syntax"
)

// Engine is a compiled pattern ready for searching.
//
// The syntax tree, NFA, backtracker and prefilter are immutable after
// compilation. Every search allocates its own frame stack and prefilter
// tracker, so multiple goroutines can search with the same Engine
// concurrently.
//
// Example:
//
//	engine, err := meta.Compile(`(foo|bar)\d+`)
//	if err != nil {
//	    return err
//	}
//	m, status := engine.Find("test foo123 end", false)
//	if status == nfa.StatusMatch {
//	    println(m.String()) // "foo123"
//	}
type Engine struct {
	// stats must be the first field so its uint64 counters are 8-byte
	// aligned for atomic access on 32-bit platforms.
	stats Stats

	re        *syntax.Regexp
	nfa       *nfa.NFA
	bt        *nfa.Backtracker
	prefilter prefilter.Prefilter
	config    Config
}

// Stats tracks execution statistics for performance analysis.
type Stats struct {
	// Searches counts calls to Find, FindAll and MatchAt.
	Searches uint64

	// Attempts counts backtracker runs, one per tried start offset.
	Attempts uint64

	// PrefilterCandidates counts start offsets proposed by the prefilter.
	PrefilterCandidates uint64

	// PrefilterAbandoned counts searches that retired the prefilter
	// because most of its candidates failed.
	PrefilterAbandoned uint64

	// Timeouts counts attempts that exhausted the step budget.
	Timeouts uint64
}

// Stats returns a snapshot of the execution statistics.
//
// Example:
//
//	stats := engine.Stats()
//	println("Attempts:", stats.Attempts)
func (e *Engine) Stats() Stats {
	return Stats{
		Searches:            atomic.LoadUint64(&e.stats.Searches),
		Attempts:            atomic.LoadUint64(&e.stats.Attempts),
		PrefilterCandidates: atomic.LoadUint64(&e.stats.PrefilterCandidates),
		PrefilterAbandoned:  atomic.LoadUint64(&e.stats.PrefilterAbandoned),
		Timeouts:            atomic.LoadUint64(&e.stats.Timeouts),
	}
}

// ResetStats resets execution statistics to zero.
func (e *Engine) ResetStats() {
	atomic.StoreUint64(&e.stats.Searches, 0)
	atomic.StoreUint64(&e.stats.Attempts, 0)
	atomic.StoreUint64(&e.stats.PrefilterCandidates, 0)
	atomic.StoreUint64(&e.stats.PrefilterAbandoned, 0)
	atomic.StoreUint64(&e.stats.Timeouts, 0)
}

// NumCaptures returns the number of capture slots reported in a Match,
// including group 0 for the whole match.
func (e *Engine) NumCaptures() int {
	return e.nfa.CaptureCount()
}

// SubexpNames returns the names of the capture groups indexed by group
// number. Index 0 and unnamed groups hold "".
func (e *Engine) SubexpNames() []string {
	return e.nfa.SubexpNames()
}

// NFA returns the compiled automaton.
func (e *Engine) NFA() *nfa.NFA {
	return e.nfa
}

// Regexp returns the parsed pattern.
func (e *Engine) Regexp() *syntax.Regexp {
	return e.re
}

// Prefilter returns the prefilter, or nil if the pattern has none.
func (e *Engine) Prefilter() prefilter.Prefilter {
	return e.prefilter
}

// Config returns the configuration the engine was compiled with.
func (e *Engine) Config() Config {
	return e.config
}

// Diagnostics returns the advisory findings collected while parsing.
func (e *Engine) Diagnostics() []syntax.Diagnostic {
	return e.re.Diagnostics
}

// attempt runs the backtracker once at the given offset.
func (e *Engine) attempt(input string, at, ganchor int, multiline bool) (nfa.Status, []int) {
	atomic.AddUint64(&e.stats.Attempts, 1)
	st, slots := e.bt.Run(nfa.Input{
		Text:      input,
		At:        at,
		Multiline: multiline,
		GAnchor:   ganchor,
	})
	if st == nfa.StatusTimeout {
		atomic.AddUint64(&e.stats.Timeouts, 1)
	}
	return st, slots
}
