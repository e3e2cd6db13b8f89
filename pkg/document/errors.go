package document

import (
	"errors"
	"fmt"
)

// ErrInvalid is the sentinel all field-level validation failures wrap.
// Callers match it with errors.Is to distinguish rejected input from
// infrastructure failures.
var ErrInvalid = errors.New("invalid document")

// FieldError describes the first failed check of a verification pass.
type FieldError struct {
	Key    string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("field %q: %s", e.Key, e.Reason)
}

func (e *FieldError) Unwrap() error {
	return ErrInvalid
}

func fieldErr(key, format string, args ...any) error {
	return &FieldError{Key: key, Reason: fmt.Sprintf(format, args...)}
}
