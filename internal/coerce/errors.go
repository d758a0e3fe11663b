package coerce

import (
	"errors"
	"fmt"
)

// ErrUnsupportedType indicates the schema declares a kind the coercer has no
// rule for. It is a programming error and is never reported per line.
var ErrUnsupportedType = errors.New("unsupported field type")

// TypeMismatchError reports value text that cannot be converted to the
// field's declared kind.
type TypeMismatchError struct {
	Field    string
	Text     string
	Expected string
	Err      error
}

func (e *TypeMismatchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("field %s: cannot convert %q to %s: %v", e.Field, e.Text, e.Expected, e.Err)
	}
	return fmt.Sprintf("field %s: cannot convert %q to %s", e.Field, e.Text, e.Expected)
}

func (e *TypeMismatchError) Unwrap() error {
	return e.Err
}
