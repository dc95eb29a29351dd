package update

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidKey       = errors.New("invalid resource key")
	ErrInvalidOperation = errors.New("invalid operation")
	ErrValidation       = errors.New("validation failed")
)

// InvalidKeyError reports a malformed resource identifier.
type InvalidKeyError struct {
	Reason string
}

func (e *InvalidKeyError) Error() string {
	return fmt.Sprintf("invalid resource key: %s", e.Reason)
}

func (e *InvalidKeyError) Is(target error) bool {
	return target == ErrInvalidKey
}

// InvalidOperationError reports an operation the field's kind does not allow,
// such as Add on a scalar field.
type InvalidOperationError struct {
	Field string
	Kind  FieldKind
	Op    OpKind
}

func (e *InvalidOperationError) Error() string {
	return fmt.Sprintf("invalid operation: cannot %s on %s field %q", e.Op, e.Kind, e.Field)
}

func (e *InvalidOperationError) Is(target error) bool {
	return target == ErrInvalidOperation
}

// ValidationError reports an update that is well formed but unacceptable:
// an empty update, an unknown field or a value of the wrong shape.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation failed: %s", e.Reason)
	}
	return fmt.Sprintf("validation failed: field %q: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
