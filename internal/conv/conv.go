// Package conv provides checked integer narrowing for the engine.
//
// The automaton arena is indexed by int while state identifiers are uint32.
// Narrowing past the uint32 range means a pattern outgrew the arena limit
// without being rejected, which is an engine bug, so these helpers panic.
package conv

import "math"

// IntToUint32 converts n to uint32.
// Panics if n < 0 or n > math.MaxUint32.
//
//go:inline
func IntToUint32(n int) uint32 {
	// uint comparison avoids overflow on 32-bit platforms
	if n < 0 || uint(n) > math.MaxUint32 {
		panic("integer overflow: int value out of uint32 range")
	}
	return uint32(n)
}
