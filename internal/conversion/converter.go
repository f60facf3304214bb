// Package conversion maps pipeline annotations onto the flat records of the
// remote annotation store.
//
// A Chain holds an ordered list of Converters plus one default converter.
// For each annotation the first converter reporting CanHandle for its type
// is used; when none does, the default converter produces the record from
// naming conventions:
//
//	chain := conversion.NewChain(conversion.NewDefaultConverter(),
//	    conversion.NewDKProPOSConverter())
//	for _, err := range chain.Bind(snapshot) {
//	    log.Warn("converter inert", "error", err)
//	}
//	rec, err := chain.Convert(ann)
//
// Bind must complete before any Convert call. After that the chain is
// read-only and may be used from several goroutines.
package conversion

import (
	"slices"
	"strings"

	"annbridge/internal/domain"
	"annbridge/internal/typesystem"
)

// URIScheme prefixes every URI derived from a type name.
const URIScheme = "http://"

// DefaultLabelFeature is the generic label feature: a bare feature name
// matched on any annotation type.
const DefaultLabelFeature = "label"

// Converter turns annotations of the types it claims into records.
type Converter interface {
	// Name identifies the converter in logs and metrics.
	Name() string
	// BindTypeSystem binds the converter to the type system of a run.
	// A *BindingError leaves the converter inert but usable.
	BindTypeSystem(ts *typesystem.Snapshot) error
	CanHandle(typeName string) bool
	Convert(a domain.Annotation) (domain.Record, error)
	TypeURIFor(typeName string) string
}

// TypeURI derives the external type URI of a dotted type name: the last
// component becomes the path, the others reversed form the host.
// "org.example.foo.Bar" maps to "http://foo.example.org/Bar".
func TypeURI(typeName string) string {
	parts := strings.Split(typeName, ".")
	last := parts[len(parts)-1]
	host := parts[:len(parts)-1]
	slices.Reverse(host)
	return URIScheme + strings.Join(host, ".") + "/" + last
}
