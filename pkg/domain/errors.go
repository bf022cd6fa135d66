package domain

import (
	"errors"
	"fmt"
)

// ErrThreadNotFound is returned when a thread ID cannot be found in the
// conversation store.
var ErrThreadNotFound = errors.New("thread not found")

// ErrEmptyQuery is returned when a run is requested with no query text.
var ErrEmptyQuery = errors.New("query must not be empty")

// ProviderError wraps a failed analysis-provider or oracle call. It is the
// single structured failure a run surfaces to the caller; the node and
// operation identify what was in flight.
type ProviderError struct {
	Node NodeID
	Op   string
	Err  error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider %s failed at node %s: %v", e.Op, e.Node, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// NewProviderError wraps err with node context.
func NewProviderError(node NodeID, op string, err error) *ProviderError {
	return &ProviderError{Node: node, Op: op, Err: err}
}
