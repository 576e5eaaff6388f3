package prefilter

import (
	"testing"
)

// mockPrefilter reports every offset as a candidate.
type mockPrefilter struct{}

func (mockPrefilter) Find(haystack []byte, start int) int {
	if start < len(haystack) {
		return start
	}
	return -1
}

func (mockPrefilter) HeapBytes() int { return 0 }
func (mockPrefilter) String() string { return "mock" }

func TestTrackerBasic(t *testing.T) {
	tracker := NewTracker(mockPrefilter{})
	if !tracker.IsActive() {
		t.Fatal("Tracker should be active initially")
	}

	if pos := tracker.Find([]byte("test input"), 3); pos != 3 {
		t.Errorf("Find() = %d, want 3", pos)
	}
	tracker.ConfirmMatch()

	candidates, confirms, eff, active := tracker.Stats()
	if candidates != 1 || confirms != 1 || eff != 1 || !active {
		t.Errorf("Stats() = %d, %d, %v, %v", candidates, confirms, eff, active)
	}

	if pos := tracker.Find([]byte("abc"), 3); pos != -1 {
		t.Errorf("Find() at end = %d, want -1", pos)
	}
	if c, _, _, _ := tracker.Stats(); c != 1 {
		t.Errorf("a miss counted as a candidate")
	}
}

func TestTrackerNil(t *testing.T) {
	if NewTracker(nil) != nil {
		t.Error("NewTracker(nil) should return nil")
	}
	var tracker *Tracker
	if tracker.IsActive() {
		t.Error("nil Tracker reports active")
	}
}

func TestTrackerDisablesIneffective(t *testing.T) {
	config := TrackerConfig{CheckInterval: 4, MinEfficiency: 0.5, WarmupPeriod: 8}
	tracker := NewTrackerWithConfig(mockPrefilter{}, config)
	haystack := make([]byte, 100)

	for i := 0; i < 7; i++ {
		tracker.Find(haystack, i)
	}
	if !tracker.IsActive() {
		t.Fatal("disabled during warmup")
	}
	tracker.Find(haystack, 7)
	if tracker.IsActive() {
		t.Error("still active with zero confirms after warmup")
	}
	if tracker.Inner() == nil {
		t.Error("Inner() = nil")
	}
}

func TestTrackerStaysActiveWhenEffective(t *testing.T) {
	config := TrackerConfig{CheckInterval: 4, MinEfficiency: 0.5, WarmupPeriod: 8}
	tracker := NewTrackerWithConfig(mockPrefilter{}, config)
	haystack := make([]byte, 100)

	for i := 0; i < 50; i++ {
		tracker.Find(haystack, i)
		if i%2 == 0 {
			tracker.ConfirmMatch()
		}
	}
	if !tracker.IsActive() {
		_, _, eff, _ := tracker.Stats()
		t.Errorf("disabled at efficiency %v", eff)
	}
}
