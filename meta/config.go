// Package meta implements the search driver that sits between the public
// API and the backtracking matcher.
//
// An Engine owns everything built once per pattern:
//   - the parsed pattern and its group table
//   - the compiled NFA and its backtracker
//   - an optional prefilter over the pattern's prefix literals
//
// Searching starts an anchored backtracker attempt at successive offsets of
// the input. The prefilter, when present, lets the driver jump straight to
// the next offset where a match can start.
package meta

// Config controls engine limits and prefiltering.
//
// Example:
//
//	config := meta.DefaultConfig()
//	config.MaxSteps = 10_000 // give up on pathological inputs sooner
//	engine, err := meta.CompileWithConfig(`(a+)+b`, config)
type Config struct {
	// MaxSteps caps the edge evaluations of one match attempt, nested
	// lookahead included. An attempt that exceeds it times out.
	// Zero disables the limit.
	// Default: 1,000,000
	MaxSteps int

	// MaxRecursionDepth limits syntax tree depth during NFA compilation.
	// Default: 100
	MaxRecursionDepth int

	// MaxStates limits the number of NFA states. Counted repetition clones
	// its body, so {m,n} on a large body can grow the automaton quickly.
	// Default: 100,000
	MaxStates int

	// EnablePrefilter enables literal-based prefiltering.
	// When false, every offset is tried.
	// Default: true
	EnablePrefilter bool

	// MaxLiterals limits the number of prefix literals to extract for
	// prefiltering.
	// Default: 64
	MaxLiterals int
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() Config {
	return Config{
		MaxSteps:          1_000_000,
		MaxRecursionDepth: 100,
		MaxStates:         100_000,
		EnablePrefilter:   true,
		MaxLiterals:       64,
	}
}

// Validate checks if the configuration is valid.
// Returns an error if any parameter is out of range.
//
// Valid ranges:
//   - MaxSteps: 0 to 1,000,000,000
//   - MaxRecursionDepth: 10 to 1,000
//   - MaxStates: 16 to 10,000,000
//   - MaxLiterals: 1 to 1,000 (only checked with EnablePrefilter)
func (c Config) Validate() error {
	if c.MaxSteps < 0 || c.MaxSteps > 1_000_000_000 {
		return &ConfigError{
			Field:   "MaxSteps",
			Message: "must be between 0 and 1,000,000,000",
		}
	}

	if c.MaxRecursionDepth < 10 || c.MaxRecursionDepth > 1_000 {
		return &ConfigError{
			Field:   "MaxRecursionDepth",
			Message: "must be between 10 and 1,000",
		}
	}

	if c.MaxStates < 16 || c.MaxStates > 10_000_000 {
		return &ConfigError{
			Field:   "MaxStates",
			Message: "must be between 16 and 10,000,000",
		}
	}

	if c.EnablePrefilter {
		if c.MaxLiterals < 1 || c.MaxLiterals > 1_000 {
			return &ConfigError{
				Field:   "MaxLiterals",
				Message: "must be between 1 and 1,000",
			}
		}
	}

	return nil
}

// ConfigError represents an invalid configuration parameter.
type ConfigError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return "backre: invalid config: " + e.Field + ": " + e.Message
}
