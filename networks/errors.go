package networks

import "errors"

// Errors returned by forward evaluation. All failures are fail-fast:
// no partial computation is attempted and nothing is coerced.
var (
	// ErrShapeMismatch indicates an input whose dimensions disagree
	// with the configured network sizes.
	ErrShapeMismatch = errors.New("shape mismatch")
	// ErrMissingField indicates a batch field required by the active
	// mode is absent.
	ErrMissingField = errors.New("missing field")
	// ErrInvalidMode indicates a mode flag that is neither Training
	// nor Evaluation.
	ErrInvalidMode = errors.New("invalid mode")
)
