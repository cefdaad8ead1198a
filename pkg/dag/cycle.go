package dag

import (
	"slices"
	"strings"
)

// CycleError describes a dependency cycle. Path starts and ends with the
// same node, e.g. [a b c a] for a -> b -> c -> a.
type CycleError struct {
	Path   []NodeID
	Labels []string
}

// Error implements the error interface.
func (e *CycleError) Error() string {
	return ErrCycle.Error() + ": " + strings.Join(e.Labels, " -> ")
}

// Unwrap returns ErrCycle so callers can match with errors.Is.
func (e *CycleError) Unwrap() error { return ErrCycle }

// NewCycleError builds a CycleError from a traversal stack and the node
// that was found on it again. Traversals outside this package use it to
// report re-entrancy in the same format as Validate.
func NewCycleError(g *Graph, stack []NodeID, repeated NodeID) *CycleError {
	return newCycleError(g, stack, repeated)
}

func newCycleError(g *Graph, stack []NodeID, repeated NodeID) *CycleError {
	start := slices.Index(stack, repeated)
	if start < 0 {
		start = 0
	}
	path := append(slices.Clone(stack[start:]), repeated)
	labels := make([]string, len(path))
	for i, id := range path {
		labels[i] = g.Label(id)
	}
	return &CycleError{Path: path, Labels: labels}
}
