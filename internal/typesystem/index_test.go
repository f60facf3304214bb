package typesystem

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndex_SubsumedTypes(t *testing.T) {
	x := NewIndex()
	x.Bind(posHierarchy(t))

	got, err := x.SubsumedTypes("POS")
	require.NoError(t, err)
	assert.Equal(t, map[string]struct{}{
		"POS.Noun":        {},
		"POS.Verb":        {},
		"POS.Noun.Proper": {},
	}, got)

	leaf, err := x.SubsumedTypes("POS.Verb")
	require.NoError(t, err)
	assert.Empty(t, leaf)
}

func TestIndex_ReflexiveButNotProper(t *testing.T) {
	s := posHierarchy(t)
	x := NewIndex()
	x.Bind(s)

	for _, name := range s.Names() {
		ok, err := x.IsSubsumed(name, name)
		require.NoError(t, err)
		assert.True(t, ok, name)

		set, err := x.SubsumedTypes(name)
		require.NoError(t, err)
		assert.NotContains(t, set, name)
	}
}

func TestIndex_IsSubsumed(t *testing.T) {
	x := NewIndex()
	x.Bind(posHierarchy(t))

	tests := []struct {
		name, ancestor string
		want           bool
	}{
		{"POS.Noun.Proper", "POS", true},
		{"POS.Noun.Proper", "POS.Noun", true},
		{"POS.Verb", "POS.Noun", false},
		{"POS", "POS.Verb", false},
		{"Sentence", AnnotationType, true},
		{"Sentence", TopType, true},
		{"Unknown", "POS", false},
	}
	for _, tt := range tests {
		got, err := x.IsSubsumed(tt.name, tt.ancestor)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "%s <: %s", tt.name, tt.ancestor)
	}
}

func TestIndex_UnknownType(t *testing.T) {
	x := NewIndex()
	x.Bind(posHierarchy(t))

	_, err := x.SubsumedTypes("Missing")
	var unknown *UnknownTypeError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "Missing", unknown.Name)

	_, err = x.IsSubsumed("POS", "Missing")
	assert.ErrorAs(t, err, &unknown)
}

func TestIndex_NotBound(t *testing.T) {
	x := NewIndex()
	_, err := x.SubsumedTypes("POS")
	assert.ErrorIs(t, err, ErrNotBound)

	empty, err := New()
	require.NoError(t, err)
	x.Bind(empty)
	_, err = x.IsSubsumed("POS", "POS")
	assert.ErrorIs(t, err, ErrNotBound)

	x.Bind(nil)
	_, err = x.SubsumedTypes("POS")
	assert.ErrorIs(t, err, ErrNotBound)
}

func TestIndex_Rebind(t *testing.T) {
	x := NewIndex()
	first := posHierarchy(t)
	x.Bind(first)

	second, err := New(
		TypeDescriptor{Name: "POS"},
		TypeDescriptor{Name: "POS.Adj", Parent: "POS"},
	)
	require.NoError(t, err)
	x.Bind(second)

	got, err := x.SubsumedTypes("POS")
	require.NoError(t, err)
	assert.Equal(t, map[string]struct{}{"POS.Adj": {}}, got)
	_, err = x.SubsumedTypes("POS.Noun")
	assert.Error(t, err)
	assert.Same(t, second, x.Snapshot())
}

func TestIndex_ResultIsCopy(t *testing.T) {
	x := NewIndex()
	x.Bind(posHierarchy(t))

	got, err := x.SubsumedTypes("POS")
	require.NoError(t, err)
	delete(got, "POS.Verb")

	ok, err := x.IsSubsumed("POS.Verb", "POS")
	require.NoError(t, err)
	assert.True(t, ok)
}
