// Package typesystem holds the annotation type hierarchy of a pipeline run:
// immutable snapshots of type descriptors, a subsumption index over them and
// loaders for the descriptor formats the pipeline accepts.
package typesystem

import "strings"

// Built-in UIMA type and range names.
const (
	TopType                = "uima.cas.TOP"
	AnnotationBaseType     = "uima.cas.AnnotationBase"
	AnnotationType         = "uima.tcas.Annotation"
	DocumentAnnotationType = "uima.tcas.DocumentAnnotation"
	SofaType               = "uima.cas.Sofa"

	StringRange  = "uima.cas.String"
	IntegerRange = "uima.cas.Integer"
)

// FeatureDescriptor describes a named feature slot declared on a type.
type FeatureDescriptor struct {
	Name  string `yaml:"name" json:"name" toml:"name"`
	Range string `yaml:"range,omitempty" json:"range,omitempty" toml:"range"`
}

// TypeDescriptor describes one type of the hierarchy.
// Parent is empty for root types.
type TypeDescriptor struct {
	Name     string              `yaml:"name" json:"name" toml:"name"`
	Parent   string              `yaml:"parent,omitempty" json:"parent,omitempty" toml:"parent"`
	Features []FeatureDescriptor `yaml:"features,omitempty" json:"features,omitempty" toml:"features"`
}

// Feature is a feature resolved against a snapshot: the type that declares
// it plus its descriptor.
type Feature struct {
	DeclaringType string
	FeatureDescriptor
}

// FullName returns the UIMA-style full name, "Type:feature".
func (f Feature) FullName() string {
	return f.DeclaringType + ":" + f.Name
}

// SplitFeatureName splits "Type:feature" into its parts. A name without a
// colon is returned as a bare feature name with an empty type.
func SplitFeatureName(fullName string) (typeName, feature string) {
	i := strings.LastIndexByte(fullName, ':')
	if i < 0 {
		return "", fullName
	}
	return fullName[:i], fullName[i+1:]
}
