package typesystem

import (
	"errors"
	"fmt"
)

var (
	// ErrNotBound is returned by Index queries made before a non-empty
	// snapshot was bound.
	ErrNotBound = errors.New("type system not bound")

	// ErrInvalidTypeSystem is returned when descriptors cannot form a snapshot.
	ErrInvalidTypeSystem = errors.New("invalid type system")

	// ErrUnknownFormat is returned by Load for unrecognised file extensions.
	ErrUnknownFormat = errors.New("unknown type system format")
)

// UnknownTypeError reports a query against a type name absent from the
// bound snapshot.
type UnknownTypeError struct {
	Name string
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("unknown type %q", e.Name)
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidTypeSystem, fmt.Sprintf(format, args...))
}
