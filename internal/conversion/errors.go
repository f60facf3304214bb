package conversion

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrBindingFailed is matched by every *BindingError.
	ErrBindingFailed = errors.New("converter binding failed")

	// ErrUnknownConverter is returned when a configured converter name has no
	// registered factory.
	ErrUnknownConverter = errors.New("unknown converter")

	// ErrInvalidSpec is returned when a converter spec lacks required options.
	ErrInvalidSpec = errors.New("invalid converter spec")
)

// InvalidAnnotationTypeError is returned by Convert for an annotation whose
// type the converter does not handle.
type InvalidAnnotationTypeError struct {
	Converter string
	Type      string
	Expected  string
}

func (e *InvalidAnnotationTypeError) Error() string {
	if e.Expected == "" {
		return fmt.Sprintf("converter %s cannot convert annotation of type %s", e.Converter, e.Type)
	}
	return fmt.Sprintf("converter %s: annotation type %s is not a subtype of %s", e.Converter, e.Type, e.Expected)
}

// BindingError reports a converter that could not resolve its required types
// or features in a snapshot. The converter stays inert until a later bind
// succeeds; the run continues without it.
type BindingError struct {
	Converter string
	Missing   []string
	Err       error
}

func (e *BindingError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "converter %s: binding failed", e.Converter)
	if len(e.Missing) > 0 {
		fmt.Fprintf(&b, ": missing %s", strings.Join(e.Missing, ", "))
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *BindingError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrBindingFailed}
	}
	return []error{ErrBindingFailed, e.Err}
}
