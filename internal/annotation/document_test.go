package annotation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocument_AddValidatesSpan(t *testing.T) {
	d := NewDocument("item-1", "Grüße aus Wien.")
	require.Equal(t, 15, d.Len())

	a, err := d.Add("Token", 0, 5, map[string]string{"lemma": "Gruß"})
	require.NoError(t, err)
	assert.Equal(t, "Grüße", d.CoveredText(a.Span))
	v, ok := a.Feature("lemma")
	assert.True(t, ok)
	assert.Equal(t, "Gruß", v)

	_, err = d.Add("Token", 3, 2, nil)
	assert.ErrorIs(t, err, ErrInvalidSpan)
	_, err = d.Add("Token", -1, 2, nil)
	assert.ErrorIs(t, err, ErrInvalidSpan)
	_, err = d.Add("Token", 0, 16, nil)
	assert.ErrorIs(t, err, ErrInvalidSpan)

	empty, err := d.Add("Marker", 15, 15, nil)
	require.NoError(t, err)
	assert.Equal(t, "", d.CoveredText(empty.Span))
}

func TestAnnotation_MissingFeature(t *testing.T) {
	a := &Annotation{Type: "Token"}
	v, ok := a.Feature("pos")
	assert.False(t, ok)
	assert.Empty(t, v)
}

func TestDocument_SortedAndSelect(t *testing.T) {
	d := NewDocument("i", "one two")
	_, _ = d.Add("Token", 4, 7, nil)
	_, _ = d.Add("Token", 0, 3, nil)
	_, _ = d.Add("Sentence", 0, 7, nil)

	sorted := d.Sorted()
	require.Len(t, sorted, 3)
	assert.Equal(t, "Sentence", sorted[0].Type)
	assert.Equal(t, 0, sorted[1].Begin())
	assert.Equal(t, 4, sorted[2].Begin())

	tokens := d.Select("Token")
	require.Len(t, tokens, 2)
	assert.Equal(t, "one", d.CoveredText(tokens[0].Span))
	assert.Equal(t, "two", d.CoveredText(tokens[1].Span))
}

func TestRuneOffsets(t *testing.T) {
	text := "aé b"
	offs := RuneOffsets(text)
	require.Len(t, offs, len(text)+1)
	assert.Equal(t, 0, offs[0])
	assert.Equal(t, 1, offs[1])
	assert.Equal(t, 1, offs[2])
	assert.Equal(t, 2, offs[3])
	assert.Equal(t, 3, offs[4])
	assert.Equal(t, 4, offs[5])
}

func TestDocument_CoveredTextDoesNotCopyText(t *testing.T) {
	d := NewDocument("big", strings.Repeat("Grüße aus Wien. ", 5000))
	span := Span{Begin: 16, End: 21}
	require.Equal(t, "Grüße", d.CoveredText(span))

	allocs := testing.AllocsPerRun(50, func() {
		_ = d.CoveredText(span)
		_ = d.Len()
	})
	assert.LessOrEqual(t, allocs, 1.0)
}

func TestDocument_TextReplaced(t *testing.T) {
	d := NewDocument("i", "abc")
	require.Equal(t, 3, d.Len())
	d.Text = "äbcdé"
	assert.Equal(t, 5, d.Len())
	assert.Equal(t, "dé", d.CoveredText(Span{Begin: 3, End: 5}))
}
