package conversion

import (
	"annbridge/internal/domain"
	"annbridge/internal/typesystem"
)

// featureRef is a configured feature name resolved against a snapshot.
// An empty declaringType matches annotations of any type.
type featureRef struct {
	declaringType string
	name          string
}

// resolveFeatures keeps the configured order. Full names that the snapshot
// does not know are dropped; bare names are kept as they are.
func resolveFeatures(ts *typesystem.Snapshot, names []string) []featureRef {
	refs := make([]featureRef, 0, len(names))
	for _, n := range names {
		typeName, short := typesystem.SplitFeatureName(n)
		if typeName == "" {
			refs = append(refs, featureRef{name: short})
			continue
		}
		f, ok := ts.Feature(n)
		if !ok {
			continue
		}
		refs = append(refs, featureRef{declaringType: f.DeclaringType, name: f.Name})
	}
	return refs
}

// firstFeature returns the value of the first ref present on a.
func firstFeature(idx *typesystem.Index, refs []featureRef, a domain.Annotation) (string, bool) {
	for _, r := range refs {
		if r.declaringType != "" {
			ok, err := idx.IsSubsumed(a.TypeName(), r.declaringType)
			if err != nil || !ok {
				continue
			}
		}
		if v, ok := a.Feature(r.name); ok {
			return v, true
		}
	}
	return "", false
}
