package sink

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"annbridge/internal/domain"
)

func TestFingerprint(t *testing.T) {
	a := domain.Record{TypeURI: "http://x/POS", Label: "NN", Begin: 1, End: 3}
	assert.Equal(t, Fingerprint(a), Fingerprint(a))
	assert.Len(t, Fingerprint(a), 32)

	for _, other := range []domain.Record{
		{TypeURI: "http://x/POS", Label: "NNS", Begin: 1, End: 3},
		{TypeURI: "http://x/POS", Label: "NN", Begin: 1, End: 4},
		{TypeURI: "http://y/POS", Label: "NN", Begin: 1, End: 3},
		{TypeURI: "http://x/POS", Label: "NN1", Begin: 1, End: 3},
	} {
		assert.NotEqual(t, Fingerprint(a), Fingerprint(other), other)
	}
}

func TestSeen_Filter(t *testing.T) {
	existing := []domain.Record{{TypeURI: "t", Label: "a", Begin: 0, End: 1}}
	seen := NewSeen(existing)

	fresh, skipped := seen.Filter([]domain.Record{
		{TypeURI: "t", Label: "a", Begin: 0, End: 1},
		{TypeURI: "t", Label: "b", Begin: 0, End: 1},
		{TypeURI: "t", Label: "b", Begin: 0, End: 1},
	})
	assert.Equal(t, 2, skipped)
	assert.Equal(t, []domain.Record{{TypeURI: "t", Label: "b", Begin: 0, End: 1}}, fresh)

	fresh, skipped = seen.Filter([]domain.Record{{TypeURI: "t", Label: "b", Begin: 0, End: 1}})
	assert.Empty(t, fresh)
	assert.Equal(t, 1, skipped)
}
