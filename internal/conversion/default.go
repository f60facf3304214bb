package conversion

import (
	"slices"

	"annbridge/internal/domain"
	"annbridge/internal/typesystem"
)

// DefaultConverter converts any annotation by convention: the type URI is
// derived from the type name and the label is taken from the first
// configured label feature present on the annotation.
type DefaultConverter struct {
	name          string
	labelFeatures []string
	typeFeatures  []string
	uriFunc       func(string) string

	snapshot *typesystem.Snapshot
	index    *typesystem.Index
	labels   []featureRef
	types    []featureRef
}

// DefaultOption customises a DefaultConverter.
type DefaultOption func(*DefaultConverter)

// WithLabelFeatures sets the ordered label feature names. Earlier names take
// precedence. Names are either full ("Type:feature") or bare ("feature").
func WithLabelFeatures(names ...string) DefaultOption {
	return func(d *DefaultConverter) { d.labelFeatures = slices.Clone(names) }
}

// WithTypeFeatures sets features whose value, when present, is used as the
// record type URI instead of the derived one.
func WithTypeFeatures(names ...string) DefaultOption {
	return func(d *DefaultConverter) { d.typeFeatures = slices.Clone(names) }
}

// WithURIFunc replaces the type name to URI rule.
func WithURIFunc(f func(typeName string) string) DefaultOption {
	return func(d *DefaultConverter) { d.uriFunc = f }
}

// WithName sets the converter name reported in logs and metrics.
func WithName(name string) DefaultOption {
	return func(d *DefaultConverter) { d.name = name }
}

// NewDefaultConverter returns a converter labelling from DefaultLabelFeature
// unless configured otherwise.
func NewDefaultConverter(opts ...DefaultOption) *DefaultConverter {
	d := &DefaultConverter{
		name:          "default",
		labelFeatures: []string{DefaultLabelFeature},
		uriFunc:       TypeURI,
		index:         typesystem.NewIndex(),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.labels = resolveFeatures(nil, d.labelFeatures)
	d.types = resolveFeatures(nil, d.typeFeatures)
	return d
}

func (d *DefaultConverter) Name() string { return d.name }

// BindTypeSystem resolves the configured feature names. Names unknown to the
// snapshot are skipped; the default converter never fails to bind.
func (d *DefaultConverter) BindTypeSystem(ts *typesystem.Snapshot) error {
	if ts == d.snapshot {
		return nil
	}
	d.snapshot = ts
	d.index.Bind(ts)
	d.labels = resolveFeatures(ts, d.labelFeatures)
	d.types = resolveFeatures(ts, d.typeFeatures)
	return nil
}

// CanHandle reports true for every type of the bound snapshot.
func (d *DefaultConverter) CanHandle(typeName string) bool {
	return d.snapshot.Has(typeName)
}

// Convert never fails: missing label features give an empty label.
func (d *DefaultConverter) Convert(a domain.Annotation) (domain.Record, error) {
	uri, ok := firstFeature(d.index, d.types, a)
	if !ok {
		uri = d.TypeURIFor(a.TypeName())
	}
	return domain.Record{TypeURI: uri, Label: d.Label(a), Begin: a.Begin(), End: a.End()}, nil
}

// Label returns the label the converter would assign to a.
func (d *DefaultConverter) Label(a domain.Annotation) string {
	label, _ := firstFeature(d.index, d.labels, a)
	return label
}

func (d *DefaultConverter) TypeURIFor(typeName string) string {
	return d.uriFunc(typeName)
}
