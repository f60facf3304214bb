package conversion

import (
	"slices"

	"annbridge/internal/domain"
	"annbridge/internal/typesystem"
)

// Chain dispatches annotations to the first converter that claims their
// type, falling back to one default converter. Registration order is
// priority order; there is no most-specific matching.
type Chain struct {
	converters []Converter
	fallback   Converter
}

// NewChain builds a chain. A nil fallback is replaced by a DefaultConverter
// with default options.
func NewChain(fallback Converter, converters ...Converter) *Chain {
	if fallback == nil {
		fallback = NewDefaultConverter()
	}
	return &Chain{converters: slices.Clone(converters), fallback: fallback}
}

// Bind binds every converter to ts, in registration order and the default
// last. A converter failing to bind does not stop the others; every failure
// is returned for the caller to report.
func (c *Chain) Bind(ts *typesystem.Snapshot) []error {
	var errs []error
	for _, conv := range c.converters {
		if err := conv.BindTypeSystem(ts); err != nil {
			errs = append(errs, err)
		}
	}
	if err := c.fallback.BindTypeSystem(ts); err != nil {
		errs = append(errs, err)
	}
	return errs
}

// Resolve returns the converter responsible for a.
func (c *Chain) Resolve(a domain.Annotation) Converter {
	return c.ResolveType(a.TypeName())
}

// ResolveType returns the converter responsible for annotations of typeName.
func (c *Chain) ResolveType(typeName string) Converter {
	for _, conv := range c.converters {
		if conv.CanHandle(typeName) {
			return conv
		}
	}
	return c.fallback
}

// Convert resolves the converter for a and delegates to it. Converter errors
// are returned unchanged.
func (c *Chain) Convert(a domain.Annotation) (domain.Record, error) {
	return c.Resolve(a).Convert(a)
}

// TypeURIFor returns the external URI annotations of typeName convert to.
func (c *Chain) TypeURIFor(typeName string) string {
	return c.ResolveType(typeName).TypeURIFor(typeName)
}

// Converters returns the registered converters in priority order, without
// the default.
func (c *Chain) Converters() []Converter {
	return slices.Clone(c.converters)
}

// Default returns the fallback converter.
func (c *Chain) Default() Converter {
	return c.fallback
}
