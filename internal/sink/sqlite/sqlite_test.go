package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"annbridge/internal/domain"
)

func TestStorage_UploadAndRead(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "records.db")
	s, err := Open(ctx, path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	item := domain.Item{ID: "item-1"}
	verb := domain.Record{TypeURI: "http://x/POS", Label: "VBD", Begin: 10, End: 13}
	sent := domain.Record{TypeURI: "http://x/Sentence", Begin: 0, End: 20}

	res, err := s.Upload(ctx, item, []domain.Record{verb, sent, verb})
	require.NoError(t, err)
	assert.Equal(t, domain.UploadResult{Sent: 2, Skipped: 1}, res)

	got, err := s.Records(ctx, "item-1")
	require.NoError(t, err)
	assert.Equal(t, []domain.Record{sent, verb}, got)

	none, err := s.Records(ctx, "other")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestStorage_PersistsAcrossOpen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "records.db")
	rec := domain.Record{TypeURI: "http://x/POS", Label: "NN", Begin: 1, End: 2}

	s, err := Open(ctx, path)
	require.NoError(t, err)
	_, err = s.Upload(ctx, domain.Item{ID: "a"}, []domain.Record{rec})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(ctx, path)
	require.NoError(t, err)
	defer s.Close()
	res, err := s.Upload(ctx, domain.Item{ID: "a"}, []domain.Record{rec})
	require.NoError(t, err)
	assert.Equal(t, domain.UploadResult{Skipped: 1}, res)
}
