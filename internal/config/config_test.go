package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"annbridge/internal/conversion"
	"annbridge/internal/typesystem"
)

func TestLoad_MissingFileGivesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, SourceLocal, cfg.Source.Type)
	assert.Equal(t, SinkMemory, cfg.Sink.Type)
	assert.Equal(t, []conversion.Spec{{Kind: "dkpro-pos"}}, cfg.Converters)
	assert.Equal(t, []string{typesystem.DKProPosValue, "label"}, cfg.LabelFeatures)
	assert.Equal(t, 4, cfg.Workers)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "annbridge.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
type_system:
  path: types.xml
source:
  type: alveo
  alveo:
    base_url: https://app.alveo.edu.au
    item_list_id: "1234"
annotators: [segmenter, tokenizer]
converters:
  - kind: collapse
    primary_type: org.example.Entity
    label_feature: "org.example.Entity:kind"
    type_uri: http://example.org/Entity
label_features: [label]
uploadable_types: [org.example.Entity]
sink:
  type: alveo
workers: 2
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "types.xml", cfg.TypeSystem.Path)
	require.NotNil(t, cfg.Source.Alveo)
	assert.Equal(t, "1234", cfg.Source.Alveo.ItemListID)
	assert.Equal(t, "ALVEO_API_KEY", cfg.Source.Alveo.APIKeyEnv)
	assert.Equal(t, 30, cfg.Source.Alveo.TimeoutSecs)
	assert.Equal(t, 200, cfg.Source.Alveo.BatchSize)
	assert.Same(t, cfg.Source.Alveo, cfg.SinkAlveo())
	assert.Equal(t, conversion.Spec{
		Kind:         "collapse",
		PrimaryType:  "org.example.Entity",
		LabelFeature: "org.example.Entity:kind",
		TypeURI:      "http://example.org/Entity",
	}, cfg.Converters[0])
	assert.Equal(t, []string{"label"}, cfg.LabelFeatures)
	assert.Equal(t, 2, cfg.Workers)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoad_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("workers: [1"), 0o644))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := defaultConfig()
	cfg.Sink = SinkConfig{Type: SinkSQLite, SQLite: &SQLiteConfig{Path: "out.db"}}
	require.NoError(t, Save(path, cfg))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestLoadDefault_WritesUserConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Chdir(t.TempDir())

	cfg, path, err := LoadDefault()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".config", "annbridge", "config.yaml"), path)
	assert.FileExists(t, path)
	assert.Equal(t, defaultConfig(), cfg)

	require.NoError(t, os.WriteFile("annbridge.yaml", []byte("workers: 9\n"), 0o644))
	cfg, path, err = LoadDefault()
	require.NoError(t, err)
	assert.Equal(t, "annbridge.yaml", path)
	assert.Equal(t, 9, cfg.Workers)
}
