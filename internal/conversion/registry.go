package conversion

import (
	"fmt"
	"sort"
	"strings"
)

// Spec names a converter kind and its options, as read from configuration.
type Spec struct {
	Kind         string `yaml:"kind"`
	Name         string `yaml:"name,omitempty"`
	PrimaryType  string `yaml:"primary_type,omitempty"`
	LabelFeature string `yaml:"label_feature,omitempty"`
	TypeURI      string `yaml:"type_uri,omitempty"`
}

// Factory builds a converter from a spec.
type Factory func(Spec) (Converter, error)

// Registry maps converter kinds to factories. Specs are resolved before a
// run starts so unknown kinds fail at configuration time.
type Registry struct {
	factories map[string]Factory
}

// NewRegistry returns a registry with the built-in kinds:
//
//	collapse   needs primary_type and label_feature, optional type_uri
//	dkpro-pos  the DKPro POS collapsing preset
func NewRegistry() *Registry {
	r := &Registry{factories: make(map[string]Factory)}
	r.factories["collapse"] = newCollapseFromSpec
	r.factories["dkpro-pos"] = func(s Spec) (Converter, error) {
		c := NewDKProPOSConverter()
		WithTypeURIOverride(s.TypeURI)(c)
		WithConverterName(s.Name)(c)
		return c, nil
	}
	return r
}

func newCollapseFromSpec(s Spec) (Converter, error) {
	if s.PrimaryType == "" || s.LabelFeature == "" {
		return nil, fmt.Errorf("%w: collapse needs primary_type and label_feature", ErrInvalidSpec)
	}
	if !strings.Contains(s.LabelFeature, ":") {
		return nil, fmt.Errorf("%w: label_feature %q is not a full feature name", ErrInvalidSpec, s.LabelFeature)
	}
	return NewCollapsingConverter(s.PrimaryType, s.LabelFeature,
		WithTypeURIOverride(s.TypeURI), WithConverterName(s.Name)), nil
}

// Register adds a factory under kind.
func (r *Registry) Register(kind string, f Factory) error {
	if kind == "" || f == nil {
		return fmt.Errorf("%w: empty kind or nil factory", ErrInvalidSpec)
	}
	if _, dup := r.factories[kind]; dup {
		return fmt.Errorf("converter kind %q already registered", kind)
	}
	r.factories[kind] = f
	return nil
}

// Kinds lists the registered kinds.
func (r *Registry) Kinds() []string {
	kinds := make([]string, 0, len(r.factories))
	for k := range r.factories {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

// Build creates converters for specs, keeping their order.
func (r *Registry) Build(specs []Spec) ([]Converter, error) {
	out := make([]Converter, 0, len(specs))
	for i, s := range specs {
		f, ok := r.factories[s.Kind]
		if !ok {
			return nil, fmt.Errorf("%w %q at position %d (known: %s)",
				ErrUnknownConverter, s.Kind, i, strings.Join(r.Kinds(), ", "))
		}
		c, err := f(s)
		if err != nil {
			return nil, fmt.Errorf("converter %d (%s): %w", i, s.Kind, err)
		}
		out = append(out, c)
	}
	return out, nil
}
