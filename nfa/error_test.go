package nfa

import (
	"errors"
	"testing"

	"github.com/coregx/backre/syntax"
)

func TestCompileError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *CompileError
		wantFull string
	}{
		{
			name:     "with pattern",
			err:      &CompileError{Pattern: `[a-z]+`, Err: ErrTooComplex},
			wantFull: `NFA compilation failed for pattern "[a-z]+": pattern too complex`,
		},
		{
			name:     "empty pattern",
			err:      &CompileError{Pattern: "", Err: ErrCompilation},
			wantFull: "NFA compilation failed: NFA compilation failed",
		},
		{
			name:     "nil inner error",
			err:      &CompileError{Pattern: "x", Err: nil},
			wantFull: `NFA compilation failed for pattern "x": <nil>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.err.Error()
			if got != tt.wantFull {
				t.Errorf("Error() = %q, want %q", got, tt.wantFull)
			}
		})
	}
}

func TestCompileError_Unwrap(t *testing.T) {
	err := &CompileError{Pattern: "a+", Err: ErrTooComplex}
	if !errors.Is(err, ErrTooComplex) {
		t.Error("errors.Is(err, ErrTooComplex) = false, want true")
	}
	if errors.Is(err, ErrCompilation) {
		t.Error("errors.Is(err, ErrCompilation) = true, want false")
	}
}

func TestCompile_SyntaxErrorWrapped(t *testing.T) {
	_, err := NewDefaultCompiler().Compile(`(a`)
	var cerr *CompileError
	if !errors.As(err, &cerr) {
		t.Fatalf("want *CompileError, got %T: %v", err, err)
	}
	if cerr.Pattern != `(a` {
		t.Errorf("Pattern = %q, want %q", cerr.Pattern, `(a`)
	}
	var serr *syntax.Error
	if !errors.As(err, &serr) || serr.Code != syntax.ErrMissingParen {
		t.Errorf("want wrapped syntax error %q, got %v", syntax.ErrMissingParen, err)
	}
}

func TestCompile_Limits(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		config  CompilerConfig
	}{
		{"states", `(?:a{100}){100}`, CompilerConfig{MaxRecursionDepth: 100, MaxStates: 1000}},
		{"depth", `((((((a))))))`, CompilerConfig{MaxRecursionDepth: 4, MaxStates: 1000}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCompiler(tt.config).Compile(tt.pattern)
			if !errors.Is(err, ErrTooComplex) {
				t.Fatalf("want ErrTooComplex, got %v", err)
			}
			var cerr *CompileError
			if errors.As(err, &cerr) && cerr.Pattern != tt.pattern {
				t.Errorf("Pattern = %q, want %q", cerr.Pattern, tt.pattern)
			}
		})
	}
}
