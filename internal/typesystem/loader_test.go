package typesystem

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const yamlDescriptor = `
types:
  - name: org.example.POS
    parent: uima.tcas.Annotation
    features:
      - name: PosValue
        range: uima.cas.String
  - name: org.example.Verb
    parent: org.example.POS
`

const jsonDescriptor = `{"types": [
  {"name": "org.example.POS", "parent": "uima.tcas.Annotation",
   "features": [{"name": "PosValue", "range": "uima.cas.String"}]},
  {"name": "org.example.Verb", "parent": "org.example.POS"}
]}`

const tomlDescriptor = `
[[types]]
name = "org.example.POS"
parent = "uima.tcas.Annotation"

  [[types.features]]
  name = "PosValue"
  range = "uima.cas.String"

[[types]]
name = "org.example.Verb"
parent = "org.example.POS"
`

const uimaDescriptor = `<?xml version="1.0" encoding="UTF-8"?>
<typeSystemDescription xmlns="http://uima.apache.org/resourceSpecifier">
  <name>Example</name>
  <types>
    <typeDescription>
      <name>org.example.POS</name>
      <supertypeName>uima.tcas.Annotation</supertypeName>
      <features>
        <featureDescription>
          <name>PosValue</name>
          <rangeTypeName>uima.cas.String</rangeTypeName>
        </featureDescription>
      </features>
    </typeDescription>
    <typeDescription>
      <name>org.example.Verb</name>
      <supertypeName>org.example.POS</supertypeName>
    </typeDescription>
  </types>
</typeSystemDescription>`

func TestLoad_AllFormats(t *testing.T) {
	files := map[string]string{
		"ts.yaml": yamlDescriptor,
		"ts.json": jsonDescriptor,
		"ts.toml": tomlDescriptor,
		"ts.xml":  uimaDescriptor,
	}
	dir := t.TempDir()
	for name, content := range files {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

			s, err := Load(path)
			require.NoError(t, err)

			verb, ok := s.Type("org.example.Verb")
			require.True(t, ok)
			assert.Equal(t, "org.example.POS", verb.Parent)

			f, ok := s.Feature("org.example.Verb:PosValue")
			require.True(t, ok)
			assert.Equal(t, StringRange, f.Range)
			assert.True(t, s.Has(AnnotationType))
		})
	}
}

func TestLoad_UnknownExtension(t *testing.T) {
	_, err := Load("types.ini")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestParse_UIMARequiresRoot(t *testing.T) {
	_, err := Parse([]byte(`<other/>`), FormatUIMA)
	assert.ErrorIs(t, err, ErrInvalidTypeSystem)
}

func TestParse_InvalidHierarchy(t *testing.T) {
	_, err := Parse([]byte("types:\n  - name: A\n    parent: B\n"), FormatYAML)
	assert.ErrorIs(t, err, ErrInvalidTypeSystem)
}

func TestBuiltin(t *testing.T) {
	s, err := Builtin()
	require.NoError(t, err)

	x := NewIndex()
	x.Bind(s)
	ok, err := x.IsSubsumed(DKProPOSType("NN"), DKProPOS)
	require.NoError(t, err)
	assert.True(t, ok)

	_, ok = s.Feature(DKProPosValue)
	assert.True(t, ok)
	assert.True(t, s.Has(DKProSentence))
	assert.True(t, s.Has(DKProToken))
}

const dkproMetaDataDescriptor = `<?xml version="1.0" encoding="UTF-8"?>
<typeSystemDescription xmlns="http://uima.apache.org/resourceSpecifier">
  <name>DocumentMetaData</name>
  <types>
    <typeDescription>
      <name>de.tudarmstadt.ukp.dkpro.core.api.metadata.type.DocumentMetaData</name>
      <supertypeName>uima.tcas.DocumentAnnotation</supertypeName>
      <features>
        <featureDescription>
          <name>documentTitle</name>
          <rangeTypeName>uima.cas.String</rangeTypeName>
        </featureDescription>
        <featureDescription>
          <name>documentId</name>
          <rangeTypeName>uima.cas.String</rangeTypeName>
        </featureDescription>
      </features>
    </typeDescription>
    <typeDescription>
      <name>org.example.Marker</name>
      <supertypeName>uima.cas.AnnotationBase</supertypeName>
    </typeDescription>
  </types>
</typeSystemDescription>`

func TestParse_UIMABuiltinParents(t *testing.T) {
	const meta = "de.tudarmstadt.ukp.dkpro.core.api.metadata.type.DocumentMetaData"
	s, err := Parse([]byte(dkproMetaDataDescriptor), FormatUIMA)
	require.NoError(t, err)

	x := NewIndex()
	x.Bind(s)
	ok, err := x.IsSubsumed(meta, AnnotationType)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = x.IsSubsumed("org.example.Marker", AnnotationType)
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok = s.Feature(meta + ":documentId")
	assert.True(t, ok)
}
