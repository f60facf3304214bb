package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"annbridge/internal/config"
	"annbridge/internal/conversion"
	"annbridge/internal/logging"
	"annbridge/internal/metrics"
	"annbridge/internal/sink/memory"
	"annbridge/internal/sink/sqlite"
	"annbridge/internal/typesystem"
)

func testConfig(t *testing.T) *config.AppConfig {
	t.Helper()
	c, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	logger = logging.Discard()
	return c
}

func TestBuildChain(t *testing.T) {
	c := testConfig(t)
	chain, err := buildChain(c)
	require.NoError(t, err)
	ts, err := loadTypeSystem(c)
	require.NoError(t, err)
	assert.Empty(t, chain.Bind(ts))
	assert.Equal(t, "dkpro-pos", chain.ResolveType(typesystem.DKProPOSType("V")).Name())
	assert.Equal(t, conversion.TypeURI(typesystem.DKProPOS), chain.TypeURIFor(typesystem.DKProPOSType("V")))

	c.Converters = append(c.Converters, conversion.Spec{Kind: "lemma"})
	_, err = buildChain(c)
	assert.ErrorIs(t, err, conversion.ErrUnknownConverter)
}

func TestBuildAnnotators_Unknown(t *testing.T) {
	_, err := buildAnnotators([]string{"segmenter", "parser"})
	assert.Error(t, err)
}

func TestBuildSink(t *testing.T) {
	c := testConfig(t)
	ctx := context.Background()

	s, closeFn, err := buildSink(ctx, c, false)
	require.NoError(t, err)
	assert.IsType(t, &memory.Storage{}, s)
	require.NoError(t, closeFn())

	c.Sink = config.SinkConfig{Type: config.SinkSQLite, SQLite: &config.SQLiteConfig{Path: filepath.Join(t.TempDir(), "r.db")}}
	s, closeFn, err = buildSink(ctx, c, false)
	require.NoError(t, err)
	assert.IsType(t, &sqlite.Storage{}, s)
	require.NoError(t, closeFn())

	s, _, err = buildSink(ctx, c, true)
	require.NoError(t, err)
	assert.IsType(t, &memory.Storage{}, s)

	c.Sink = config.SinkConfig{Type: config.SinkAlveo, Alveo: &config.AlveoConfig{BaseURL: "http://localhost", APIKeyEnv: "ANNBRIDGE_TEST_KEY"}}
	_, _, err = buildSink(ctx, c, false)
	assert.ErrorContains(t, err, "ANNBRIDGE_TEST_KEY")

	c.Sink = config.SinkConfig{Type: "s3"}
	_, _, err = buildSink(ctx, c, false)
	assert.ErrorContains(t, err, "unknown sink")
}

func TestBuildPipeline_Local(t *testing.T) {
	c := testConfig(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("The cat sat."), 0o644))
	c.Dump.Dir = filepath.Join(dir, "dump")

	p, closeFn, err := buildPipeline(context.Background(), c, metrics.New(), []string{filepath.Join(dir, "*.txt")}, false)
	require.NoError(t, err)
	defer closeFn()

	sum, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, len(sum.Items))
	// one sentence plus four POS tags
	assert.Equal(t, 5, sum.Sent)
	assert.FileExists(t, filepath.Join(c.Dump.Dir, sum.Items[0].Item.ID+".msgpack"))

	c.Source.Type = "ftp"
	_, _, err = buildPipeline(context.Background(), c, metrics.New(), nil, false)
	assert.ErrorContains(t, err, "unknown source")
}
