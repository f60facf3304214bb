package typesystem

import (
	"slices"
	"sort"
)

// Snapshot is an immutable view of a type hierarchy, captured once per
// pipeline run. Rebinding to a new Snapshot is the only way to change types.
type Snapshot struct {
	types map[string]TypeDescriptor
	names []string
}

// New validates the descriptors and builds a snapshot. Type names must be
// unique, parents must exist and the parent relation must be acyclic.
// UIMA built-in types (TopType, AnnotationBaseType, AnnotationType,
// DocumentAnnotationType, SofaType) are added with their own ancestors when
// referenced as a parent without being declared.
func New(types ...TypeDescriptor) (*Snapshot, error) {
	s := &Snapshot{types: make(map[string]TypeDescriptor, len(types))}
	for _, t := range types {
		if t.Name == "" {
			return nil, invalid("type with empty name")
		}
		if _, dup := s.types[t.Name]; dup {
			return nil, invalid("duplicate type %q", t.Name)
		}
		seen := make(map[string]struct{}, len(t.Features))
		for _, f := range t.Features {
			if f.Name == "" {
				return nil, invalid("type %q declares a feature with empty name", t.Name)
			}
			if _, dup := seen[f.Name]; dup {
				return nil, invalid("type %q declares feature %q twice", t.Name, f.Name)
			}
			seen[f.Name] = struct{}{}
		}
		t.Features = slices.Clone(t.Features)
		s.types[t.Name] = t
	}
	s.addBuiltins()

	for name, t := range s.types {
		if t.Parent == "" {
			continue
		}
		if _, ok := s.types[t.Parent]; !ok {
			return nil, invalid("type %q has unknown parent %q", name, t.Parent)
		}
	}
	for name := range s.types {
		if err := s.checkAcyclic(name); err != nil {
			return nil, err
		}
	}

	s.names = make([]string, 0, len(s.types))
	for name := range s.types {
		s.names = append(s.names, name)
	}
	sort.Strings(s.names)
	return s, nil
}

var uimaBuiltins = map[string]TypeDescriptor{
	TopType:            {Name: TopType},
	SofaType:           {Name: SofaType, Parent: TopType},
	AnnotationBaseType: {Name: AnnotationBaseType, Parent: TopType},
	AnnotationType: {Name: AnnotationType, Parent: AnnotationBaseType, Features: []FeatureDescriptor{
		{Name: "begin", Range: IntegerRange},
		{Name: "end", Range: IntegerRange},
	}},
	DocumentAnnotationType: {Name: DocumentAnnotationType, Parent: AnnotationType, Features: []FeatureDescriptor{
		{Name: "language", Range: StringRange},
	}},
}

// addBuiltins follows undeclared parents up through the built-in chain.
func (s *Snapshot) addBuiltins() {
	pending := make([]string, 0, len(s.types))
	for _, t := range s.types {
		pending = append(pending, t.Parent)
	}
	for len(pending) > 0 {
		name := pending[len(pending)-1]
		pending = pending[:len(pending)-1]
		if _, declared := s.types[name]; declared || name == "" {
			continue
		}
		b, ok := uimaBuiltins[name]
		if !ok {
			continue
		}
		b.Features = slices.Clone(b.Features)
		s.types[name] = b
		pending = append(pending, b.Parent)
	}
}

func (s *Snapshot) checkAcyclic(name string) error {
	steps := 0
	for cur := s.types[name].Parent; cur != ""; cur = s.types[cur].Parent {
		if cur == name || steps > len(s.types) {
			return invalid("type %q is its own ancestor", name)
		}
		steps++
	}
	return nil
}

// Len returns the number of types in the snapshot.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.types)
}

// Names returns all type names in lexical order.
func (s *Snapshot) Names() []string {
	if s == nil {
		return nil
	}
	return slices.Clone(s.names)
}

// Has reports whether name is a type of the snapshot.
func (s *Snapshot) Has(name string) bool {
	if s == nil {
		return false
	}
	_, ok := s.types[name]
	return ok
}

// Type returns the descriptor for name.
func (s *Snapshot) Type(name string) (TypeDescriptor, bool) {
	if s == nil {
		return TypeDescriptor{}, false
	}
	t, ok := s.types[name]
	if !ok {
		return TypeDescriptor{}, false
	}
	t.Features = slices.Clone(t.Features)
	return t, true
}

// Ancestors returns the parent chain of name, nearest first.
func (s *Snapshot) Ancestors(name string) []string {
	if !s.Has(name) {
		return nil
	}
	var out []string
	for cur := s.types[name].Parent; cur != ""; cur = s.types[cur].Parent {
		out = append(out, cur)
	}
	return out
}

// Feature resolves a full feature name ("Type:feature"). Features inherited
// from an ancestor resolve through the subtype as well, reporting the
// ancestor as the declaring type.
func (s *Snapshot) Feature(fullName string) (Feature, bool) {
	typeName, short := SplitFeatureName(fullName)
	if typeName == "" || !s.Has(typeName) {
		return Feature{}, false
	}
	for cur := typeName; cur != ""; cur = s.types[cur].Parent {
		for _, f := range s.types[cur].Features {
			if f.Name == short {
				return Feature{DeclaringType: cur, FeatureDescriptor: f}, true
			}
		}
	}
	return Feature{}, false
}
