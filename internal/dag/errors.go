package dag

import (
	"errors"
	"fmt"
)

// Invariant violation codes.
type InvariantCode string

const (
	// ErrCodeDuplicateContent indicates a node ID collision with
	// differing content.
	ErrCodeDuplicateContent InvariantCode = "DUPLICATE_NODE_CONTENT"

	// ErrCodeUnknownEndpoint indicates an edge referencing a node that
	// does not exist.
	ErrCodeUnknownEndpoint InvariantCode = "UNKNOWN_ENDPOINT"

	// ErrCodeSelfLoop indicates an edge with from_id == to_id.
	ErrCodeSelfLoop InvariantCode = "SELF_LOOP"

	// ErrCodeCycle indicates a depends_on/refines edge that would
	// close a cycle.
	ErrCodeCycle InvariantCode = "CYCLE_DETECTED"
)

// InvariantError reports a rejected graph mutation. Violations surface
// at the point of attempted mutation and are never partially applied.
type InvariantError struct {
	Code    InvariantCode
	Message string
	NodeID  string
	EdgeID  string
}

// Error implements the error interface.
func (e *InvariantError) Error() string {
	switch {
	case e.EdgeID != "":
		return fmt.Sprintf("%s: %s (edge=%s)", e.Code, e.Message, e.EdgeID)
	case e.NodeID != "":
		return fmt.Sprintf("%s: %s (node=%s)", e.Code, e.Message, e.NodeID)
	default:
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
}

// IsInvariantError returns true if the error is an InvariantError.
// Uses errors.As to handle wrapped errors.
func IsInvariantError(err error) bool {
	var ie *InvariantError
	return errors.As(err, &ie)
}

// IsCycleError returns true for cycle rejections specifically.
func IsCycleError(err error) bool {
	var ie *InvariantError
	if errors.As(err, &ie) {
		return ie.Code == ErrCodeCycle
	}
	return false
}
