package conversion

import (
	"fmt"
	"strings"

	"annbridge/internal/domain"
	"annbridge/internal/typesystem"
)

// CollapsingConverter maps every strict subtype of a primary type onto the
// primary type's URI, labelling each record from one feature. The primary
// type itself is not handled and falls through to later converters.
type CollapsingConverter struct {
	name         string
	primaryType  string
	labelFeature string
	uri          string

	snapshot *typesystem.Snapshot
	bindErr  error
	index    *typesystem.Index
	label    typesystem.Feature
	handled  map[string]struct{}
}

// CollapseOption customises a CollapsingConverter.
type CollapseOption func(*CollapsingConverter)

// WithTypeURIOverride fixes the external URI instead of deriving it from the
// primary type name.
func WithTypeURIOverride(uri string) CollapseOption {
	return func(c *CollapsingConverter) {
		if uri != "" {
			c.uri = uri
		}
	}
}

// WithConverterName sets the name reported in logs and metrics.
func WithConverterName(name string) CollapseOption {
	return func(c *CollapsingConverter) {
		if name != "" {
			c.name = name
		}
	}
}

// NewCollapsingConverter collapses the subtree under primaryType. The label
// feature is a full feature name such as "pkg.POS:PosValue".
func NewCollapsingConverter(primaryType, labelFeature string, opts ...CollapseOption) *CollapsingConverter {
	c := &CollapsingConverter{
		name:         "collapse[" + shortTypeName(primaryType) + "]",
		primaryType:  primaryType,
		labelFeature: labelFeature,
		uri:          TypeURI(primaryType),
		index:        typesystem.NewIndex(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewDKProPOSConverter collapses all DKPro part-of-speech types onto one POS
// type labelled with the PosValue tag.
func NewDKProPOSConverter() *CollapsingConverter {
	return NewCollapsingConverter(typesystem.DKProPOS, typesystem.DKProPosValue,
		WithConverterName("dkpro-pos"))
}

func (c *CollapsingConverter) Name() string { return c.name }

// PrimaryType returns the type whose subtree is collapsed.
func (c *CollapsingConverter) PrimaryType() string { return c.primaryType }

// BindTypeSystem resolves the primary type and label feature in ts and
// recomputes the handled types. On failure the converter handles nothing.
func (c *CollapsingConverter) BindTypeSystem(ts *typesystem.Snapshot) error {
	if ts == c.snapshot && c.snapshot != nil {
		return c.bindErr
	}
	c.snapshot = ts
	c.handled = nil
	c.bindErr = c.bind(ts)
	return c.bindErr
}

func (c *CollapsingConverter) bind(ts *typesystem.Snapshot) error {
	c.index.Bind(ts)
	var missing []string
	if !ts.Has(c.primaryType) {
		missing = append(missing, "type "+c.primaryType)
	}
	label, ok := ts.Feature(c.labelFeature)
	if !ok {
		missing = append(missing, "feature "+c.labelFeature)
	}
	if len(missing) > 0 {
		return &BindingError{Converter: c.name, Missing: missing}
	}
	set, err := c.index.SubsumedTypes(c.primaryType)
	if err != nil {
		return &BindingError{Converter: c.name, Err: err}
	}
	c.label = label
	c.handled = set
	return nil
}

// CanHandle reports whether typeName is a strict subtype of the primary type.
func (c *CollapsingConverter) CanHandle(typeName string) bool {
	_, ok := c.handled[typeName]
	return ok
}

func (c *CollapsingConverter) Convert(a domain.Annotation) (domain.Record, error) {
	if !c.CanHandle(a.TypeName()) {
		return domain.Record{}, &InvalidAnnotationTypeError{
			Converter: c.name,
			Type:      a.TypeName(),
			Expected:  c.primaryType,
		}
	}
	var label string
	if ok, err := c.index.IsSubsumed(a.TypeName(), c.label.DeclaringType); err == nil && ok {
		label, _ = a.Feature(c.label.Name)
	}
	return domain.Record{TypeURI: c.uri, Label: label, Begin: a.Begin(), End: a.End()}, nil
}

// TypeURIFor returns the primary URI whatever subtype is asked for.
func (c *CollapsingConverter) TypeURIFor(string) string {
	return c.uri
}

func (c *CollapsingConverter) String() string {
	return fmt.Sprintf("%s(%s -> %s)", c.name, c.primaryType, c.uri)
}

func shortTypeName(name string) string {
	return name[strings.LastIndexByte(name, '.')+1:]
}
