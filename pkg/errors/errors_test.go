package errors

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/matzehuels/progression/pkg/cache"
	"github.com/matzehuels/progression/pkg/dag"
	"github.com/matzehuels/progression/pkg/definition"
	"github.com/matzehuels/progression/pkg/export"
	"github.com/matzehuels/progression/pkg/progression"
	"github.com/matzehuels/progression/pkg/strategy"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidInput, "test message: %s", "value")

	if err.Code != ErrCodeInvalidInput {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidInput)
	}

	if err.Message != "test message: value" {
		t.Errorf("Message = %v, want %v", err.Message, "test message: value")
	}

	expected := "INVALID_INPUT: test message: value"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeNetwork, cause, "failed to fetch")

	if err.Code != ErrCodeNetwork {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeNetwork)
	}

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}

	// Test Unwrap
	unwrapped := errors.Unwrap(err)
	if unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}

	// Test errors.Is with wrapped error
	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{
			name:     "matching code",
			err:      New(ErrCodeInvalidInput, "test"),
			code:     ErrCodeInvalidInput,
			expected: true,
		},
		{
			name:     "non-matching code",
			err:      New(ErrCodeInvalidInput, "test"),
			code:     ErrCodeNetwork,
			expected: false,
		},
		{
			name:     "wrapped error",
			err:      Wrap(ErrCodeNetwork, New(ErrCodeInvalidInput, "inner"), "outer"),
			code:     ErrCodeNetwork,
			expected: true,
		},
		{
			name:     "non-Error type",
			err:      errors.New("plain error"),
			code:     ErrCodeInvalidInput,
			expected: false,
		},
		{
			name:     "nil error",
			err:      nil,
			code:     ErrCodeInvalidInput,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected Code
	}{
		{
			name:     "Error type",
			err:      New(ErrCodeInvalidStrategy, "test"),
			expected: ErrCodeInvalidStrategy,
		},
		{
			name:     "plain error",
			err:      errors.New("plain"),
			expected: "",
		},
		{
			name:     "nil",
			err:      nil,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.expected {
				t.Errorf("GetCode() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "Error type",
			err:      New(ErrCodeInvalidInput, "friendly message"),
			expected: "friendly message",
		},
		{
			name:     "plain error",
			err:      errors.New("plain error"),
			expected: "plain error",
		},
		{
			name:     "with cause",
			err:      Wrap(ErrCodeCyclicGraph, errors.New("a -> b -> a"), "the dependency graph has a cycle"),
			expected: "the dependency graph has a cycle: a -> b -> a",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.expected {
				t.Errorf("UserMessage() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestClassify(t *testing.T) {
	_, statErr := os.Stat("does/not/exist.toml")

	tests := []struct {
		name string
		err  error
		want Code
	}{
		{"cycle", &dag.CycleError{Labels: []string{"a", "b", "a"}}, ErrCodeCyclicGraph},
		{"wrapped unknown node", fmt.Errorf("load: %w", dag.ErrUnknownNode), ErrCodeUnknownNode},
		{"empty choice", dag.ErrEmptyChoice, ErrCodeInvalidGraph},
		{"choice root", dag.ErrNotUnit, ErrCodeInvalidGraph},
		{"duplicate key", dag.ErrDuplicateKey, ErrCodeInvalidDefinition},
		{"bad definition", definition.ErrInvalid, ErrCodeInvalidDefinition},
		{"definition format", definition.ErrUnknownFormat, ErrCodeInvalidFormat},
		{"unknown strategy", fmt.Errorf("level: %w", strategy.ErrUnknownStrategy), ErrCodeInvalidStrategy},
		{"not pass safe", strategy.ErrNotPassSafe, ErrCodeInvalidStrategy},
		{"contract", progression.ErrStrategyContract, ErrCodeInvalidStrategy},
		{"export format", export.ErrUnknownFormat, ErrCodeInvalidFormat},
		{"no clipboard", export.ErrClipboardUnsupported, ErrCodeUnsupported},
		{"missing file", statErr, ErrCodeFileNotFound},
		{"cache down", fmt.Errorf("%w: dial tcp: refused", cache.ErrBackend), ErrCodeNetwork},
		{"deadline", context.DeadlineExceeded, ErrCodeTimeout},
		{"already coded", New(ErrCodeNetwork, "redis down"), ErrCodeNetwork},
		{"anything else", errors.New("boom"), ErrCodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.err)
			if code := GetCode(got); code != tt.want {
				t.Errorf("GetCode(Classify()) = %v, want %v", code, tt.want)
			}
			if !errors.Is(got, tt.err) {
				t.Error("Classify() should keep the original error in the chain")
			}
		})
	}

	if Classify(nil) != nil {
		t.Error("Classify(nil) should be nil")
	}
}
