package meta

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/coregx/backre/nfa"
)

// TestConcurrentFind tests that Engine.Find is thread-safe.
// Multiple goroutines call Find concurrently on the same Engine instance.
func TestConcurrentFind(t *testing.T) {
	patterns := []string{
		`hello`,            // memmem prefilter
		`\d+`,              // no prefilter
		`(get|put) /\w+`,   // aho-corasick prefilter
		`^start`,           // anchored
		`\b(\w+)\s+\1\b`,   // backreference
		`(?>a+)b|(?=x)\w+`, // atomic and lookahead
	}
	inputs := []string{
		"hello world",
		"12345",
		"put /index",
		"start of string",
		"the the quick brown fox",
		"aaab xyz",
		"",
		"no match here",
	}

	for _, pattern := range patterns {
		t.Run(pattern, func(t *testing.T) {
			engine, err := Compile(pattern)
			if err != nil {
				t.Fatalf("failed to compile %q: %v", pattern, err)
			}

			want := make([]string, len(inputs))
			for i, input := range inputs {
				if m, st := engine.Find(input, false); st == nfa.StatusMatch {
					want[i] = m.String()
				}
			}

			const numGoroutines = 50
			const numIterations = 50

			var wg sync.WaitGroup
			var mismatches atomic.Int64

			for i := 0; i < numGoroutines; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					for j := 0; j < numIterations; j++ {
						for k, input := range inputs {
							got := ""
							if m, st := engine.Find(input, false); st == nfa.StatusMatch {
								got = m.String()
							}
							if got != want[k] {
								mismatches.Add(1)
							}
						}
					}
				}()
			}

			wg.Wait()

			if mismatches.Load() > 0 {
				t.Errorf("encountered %d mismatching results during concurrent execution", mismatches.Load())
			}
		})
	}
}

// TestConcurrentFindAll tests that Engine.FindAll is thread-safe.
func TestConcurrentFindAll(t *testing.T) {
	engine, err := Compile(`\d+`)
	if err != nil {
		t.Fatalf("failed to compile pattern: %v", err)
	}

	input := "test 123 foo 456 bar 789 baz 012"

	const numGoroutines = 50
	const numIterations = 100
	const expectedPerCall = 4 // "123", "456", "789", "012"

	var wg sync.WaitGroup
	var totalMatches atomic.Int64

	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < numIterations; j++ {
				matches, _ := engine.FindAll(input, false, -1)
				totalMatches.Add(int64(len(matches)))
			}
		}()
	}

	wg.Wait()

	expected := int64(numGoroutines * numIterations * expectedPerCall)
	if totalMatches.Load() != expected {
		t.Errorf("expected %d total matches, got %d", expected, totalMatches.Load())
	}
	if got := engine.Stats().Searches; got != numGoroutines*numIterations {
		t.Errorf("Stats().Searches = %d, want %d", got, numGoroutines*numIterations)
	}
}
