package meta

import (
	"sync/atomic"
	"unicode/utf8"

	"github.com/golang/glog"

	"github.com/coregx/backre/nfa"
	"github.com/coregx/backre/prefilter"
)

// FindAll returns successive non-overlapping matches of the pattern in
// input. If n >= 0 at most n matches are returned; n < 0 means all.
//
// The scan starts at offset 0 and tries one anchored backtracker attempt
// per offset:
//   - on a match the match is recorded and the scan continues at its end
//   - on no match the scan advances by one character
//   - on a timeout the whole search is abandoned and nil is returned with
//     StatusTimeout
//
// A match that ends where the previously recorded match ended is empty and
// abuts it; it is discarded and the scan advances by one character. \G holds
// at the end of the previously recorded match, or at 0 before the first one.
//
// The returned status is StatusMatch if at least one match was found and
// StatusNoMatch otherwise.
//
// Example:
//
//	engine, _ := meta.Compile("a*")
//	matches, _ := engine.FindAll("bb", false, -1) // three empty matches at 0, 1, 2
func (e *Engine) FindAll(input string, multiline bool, n int) ([]*Match, nfa.Status) {
	atomic.AddUint64(&e.stats.Searches, 1)
	if n == 0 {
		return nil, nfa.StatusNoMatch
	}

	var (
		matches []*Match
		tracker *prefilter.Tracker
		hay     []byte
	)
	if e.prefilter != nil {
		tracker = prefilter.NewTracker(e.prefilter)
		hay = []byte(input)
	}

	lastEnd := -1
	ganchor := 0
	at := 0
	for at <= len(input) {
		if tracker.IsActive() {
			next := tracker.Find(hay, at)
			if next < 0 {
				break
			}
			atomic.AddUint64(&e.stats.PrefilterCandidates, 1)
			if !tracker.IsActive() {
				atomic.AddUint64(&e.stats.PrefilterAbandoned, 1)
			}
			at = next
		}

		st, slots := e.attempt(input, at, ganchor, multiline)
		switch st {
		case nfa.StatusTimeout:
			glog.V(1).Infof("backre: step budget of %d exhausted at offset %d", e.config.MaxSteps, at)
			return nil, nfa.StatusTimeout

		case nfa.StatusMatch:
			end := slots[1]
			if end == lastEnd {
				at = advance(input, at)
				continue
			}
			if tracker != nil {
				tracker.ConfirmMatch()
			}
			matches = append(matches, e.newMatch(input, slots))
			if n > 0 && len(matches) == n {
				return matches, nfa.StatusMatch
			}
			lastEnd = end
			ganchor = end
			at = end

		default:
			at = advance(input, at)
		}
	}

	if len(matches) == 0 {
		return nil, nfa.StatusNoMatch
	}
	return matches, nfa.StatusMatch
}

// advance returns the offset of the character after the one at pos. At the
// end of input it returns len(input)+1, which terminates the scan.
func advance(input string, pos int) int {
	if pos >= len(input) {
		return pos + 1
	}
	if input[pos] < utf8.RuneSelf {
		return pos + 1
	}
	_, width := utf8.DecodeRuneInString(input[pos:])
	return pos + width
}
