package prefilter

// Tracker wraps a Prefilter with effectiveness tracking for one search.
//
// The tracker counts candidates (prefilter hits) and confirms (candidates
// where the backtracker found a match). When the ratio drops below a
// threshold the prefilter is retired for the rest of the search: when most
// candidates fail, scanning for them only adds work on top of the
// backtracker attempts.
//
// Algorithm:
//  1. Track candidates and confirms
//  2. After a warmup, check the ratio every CheckInterval candidates
//  3. If ratio < MinEfficiency, disable the prefilter
//  4. Once disabled, never re-enable (for this search)
//
// Example usage:
//
//	tracker := prefilter.NewTracker(pf)
//	for at <= len(haystack) {
//	    if tracker.IsActive() {
//	        if at = tracker.Find(haystack, at); at == -1 {
//	            break
//	        }
//	    }
//	    if fullRegexMatches(haystack, at) {
//	        tracker.ConfirmMatch()
//	    }
//	    at++
//	}
type Tracker struct {
	inner Prefilter

	candidates uint64
	confirms   uint64

	checkInterval  uint64
	minEfficiency  float64
	warmupPeriod   uint64
	lastCheckpoint uint64

	active bool
}

// TrackerConfig holds configuration for the effectiveness tracker.
type TrackerConfig struct {
	// CheckInterval is how often to check effectiveness (in candidates).
	// Default: 64
	CheckInterval uint64

	// MinEfficiency is the minimum acceptable ratio of confirms/candidates.
	// Default: 0.1 (10%)
	MinEfficiency float64

	// WarmupPeriod is the minimum number of candidates before checking
	// effectiveness.
	// Default: 128
	WarmupPeriod uint64
}

// DefaultTrackerConfig returns the default tracker configuration.
func DefaultTrackerConfig() TrackerConfig {
	return TrackerConfig{
		CheckInterval: 64,
		MinEfficiency: 0.1,
		WarmupPeriod:  128,
	}
}

// NewTracker creates a new tracker for the given prefilter with default config.
//
// Returns nil if the inner prefilter is nil.
func NewTracker(inner Prefilter) *Tracker {
	return NewTrackerWithConfig(inner, DefaultTrackerConfig())
}

// NewTrackerWithConfig creates a new tracker with custom configuration.
//
// Returns nil if the inner prefilter is nil.
func NewTrackerWithConfig(inner Prefilter, config TrackerConfig) *Tracker {
	if inner == nil {
		return nil
	}

	return &Tracker{
		inner:         inner,
		checkInterval: config.CheckInterval,
		minEfficiency: config.MinEfficiency,
		warmupPeriod:  config.WarmupPeriod,
		active:        true,
	}
}

// Find returns the next candidate position, or -1 if there is none.
// It must only be called while IsActive reports true.
func (t *Tracker) Find(haystack []byte, start int) int {
	pos := t.inner.Find(haystack, start)
	if pos >= 0 {
		t.candidates++
		t.checkEffectiveness()
	}
	return pos
}

// ConfirmMatch records that the last candidate was a real match.
func (t *Tracker) ConfirmMatch() {
	t.confirms++
}

// IsActive returns true if the prefilter is still being used.
// A nil Tracker is never active.
func (t *Tracker) IsActive() bool {
	return t != nil && t.active
}

// Stats returns the current tracking statistics.
//
// Returns (candidates, confirms, efficiency, active).
func (t *Tracker) Stats() (candidates, confirms uint64, efficiency float64, active bool) {
	candidates = t.candidates
	confirms = t.confirms
	if candidates > 0 {
		efficiency = float64(confirms) / float64(candidates)
	}
	active = t.active
	return
}

// Inner returns the underlying prefilter.
func (t *Tracker) Inner() Prefilter {
	return t.inner
}

// checkEffectiveness disables the prefilter once its hit rate is too low.
func (t *Tracker) checkEffectiveness() {
	if t.candidates < t.warmupPeriod {
		return
	}
	if t.candidates-t.lastCheckpoint < t.checkInterval {
		return
	}
	t.lastCheckpoint = t.candidates

	efficiency := float64(t.confirms) / float64(t.candidates)
	if efficiency < t.minEfficiency {
		t.active = false
	}
}
