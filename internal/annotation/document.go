// Package annotation is the in-memory annotation store of one document.
package annotation

import (
	"errors"
	"fmt"
	"sort"
	"unicode/utf8"
)

// ErrInvalidSpan is returned when an annotation span does not fit the text.
var ErrInvalidSpan = errors.New("invalid annotation span")

// Span is a half-open range of rune offsets.
type Span struct {
	Begin int `msgpack:"begin"`
	End   int `msgpack:"end"`
}

// Annotation is one typed span with string-valued features.
type Annotation struct {
	Type     string            `msgpack:"type"`
	Span     Span              `msgpack:"span"`
	Features map[string]string `msgpack:"features,omitempty"`
}

func (a *Annotation) TypeName() string { return a.Type }
func (a *Annotation) Begin() int       { return a.Span.Begin }
func (a *Annotation) End() int         { return a.Span.End }

// Feature returns the value of a feature by short name.
func (a *Annotation) Feature(name string) (string, bool) {
	v, ok := a.Features[name]
	return v, ok
}

// SetFeature sets a feature value.
func (a *Annotation) SetFeature(name, value string) {
	if a.Features == nil {
		a.Features = make(map[string]string)
	}
	a.Features[name] = value
}

// Document holds the text of an item and the annotations over it.
// Text is not expected to change once annotations are added.
type Document struct {
	ItemID      string        `msgpack:"item_id"`
	Text        string        `msgpack:"text"`
	Annotations []*Annotation `msgpack:"annotations"`

	runes     []rune
	runesOf   string
	runesInit bool
}

// NewDocument creates an empty document for an item.
func NewDocument(itemID, text string) *Document {
	return &Document{ItemID: itemID, Text: text}
}

// Len returns the text length in runes.
func (d *Document) Len() int {
	return len(d.textRunes())
}

// textRunes decodes Text once and reuses it until Text is replaced.
func (d *Document) textRunes() []rune {
	if !d.runesInit || d.runesOf != d.Text {
		d.runes = []rune(d.Text)
		d.runesOf = d.Text
		d.runesInit = true
	}
	return d.runes
}

// Add appends an annotation after checking its span against the text.
func (d *Document) Add(typeName string, begin, end int, features map[string]string) (*Annotation, error) {
	if begin < 0 || begin > end || end > d.Len() {
		return nil, fmt.Errorf("%w: [%d,%d) over %d runes", ErrInvalidSpan, begin, end, d.Len())
	}
	a := &Annotation{Type: typeName, Span: Span{Begin: begin, End: end}}
	for k, v := range features {
		a.SetFeature(k, v)
	}
	d.Annotations = append(d.Annotations, a)
	return a, nil
}

// Select returns the annotations whose type is exactly typeName, in
// document order.
func (d *Document) Select(typeName string) []*Annotation {
	var out []*Annotation
	for _, a := range d.Sorted() {
		if a.Type == typeName {
			out = append(out, a)
		}
	}
	return out
}

// Sorted returns all annotations ordered by begin ascending, then end
// descending so enclosing spans come first.
func (d *Document) Sorted() []*Annotation {
	out := make([]*Annotation, len(d.Annotations))
	copy(out, d.Annotations)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Span.Begin != out[j].Span.Begin {
			return out[i].Span.Begin < out[j].Span.Begin
		}
		return out[i].Span.End > out[j].Span.End
	})
	return out
}

// CoveredText returns the text under a span.
func (d *Document) CoveredText(s Span) string {
	runes := d.textRunes()
	if s.Begin < 0 || s.End > len(runes) || s.Begin > s.End {
		return ""
	}
	return string(runes[s.Begin:s.End])
}

// RuneOffsets maps byte offsets of text to rune offsets. Indexing past the
// last byte yields the rune length.
func RuneOffsets(text string) []int {
	out := make([]int, len(text)+1)
	r := -1
	for i := 0; i < len(text); i++ {
		if utf8.RuneStart(text[i]) {
			r++
		}
		out[i] = max(r, 0)
	}
	out[len(text)] = r + 1
	return out
}
