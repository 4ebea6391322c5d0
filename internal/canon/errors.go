package canon

import (
	"errors"
	"fmt"
)

// EncodingError reports a value that cannot be canonically encoded.
// Encoding errors are always fatal to the operation that triggered
// them; nothing in the kernel falls back to a best-effort conversion.
type EncodingError struct {
	// GoType is the offending Go type, as reported by %T.
	GoType string

	// Reason describes why the value was rejected.
	Reason string
}

// Error implements the error interface.
func (e *EncodingError) Error() string {
	return fmt.Sprintf("not encodable: %s (%s)", e.GoType, e.Reason)
}

// IsEncodingError returns true if the error is an EncodingError.
// Uses errors.As to handle wrapped errors.
func IsEncodingError(err error) bool {
	var ee *EncodingError
	return errors.As(err, &ee)
}
