package validator

import "errors"

var (
	// ErrValidationFailed is wrapped by every ValidationError.
	ErrValidationFailed = errors.New("validation failed")

	// ErrInvalidCheckRule is returned when a rule's checkRule has the wrong shape.
	ErrInvalidCheckRule = errors.New("invalid check rule")

	// ErrInvalidRange is returned when a range rule is not "min,max".
	ErrInvalidRange = errors.New("invalid range")

	// ErrInvalidRepeat is returned when a length or integer rule has a malformed repetition spec.
	ErrInvalidRepeat = errors.New("invalid repetition spec")

	// ErrInvalidPattern is returned when a reg rule does not compile.
	ErrInvalidPattern = errors.New("invalid pattern")
)
