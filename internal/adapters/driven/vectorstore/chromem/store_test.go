package chromem

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nyayalabs/nyaya-cli/internal/core/domain"
)

// axisEmbedder maps known words onto orthogonal axes so similarity is
// predictable in tests.
type axisEmbedder struct{}

var axes = []string{"theft", "homicide", "evidence"}

func (axisEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	vec := make([]float32, len(axes))
	lower := strings.ToLower(text)
	found := false
	for i, word := range axes {
		if strings.Contains(lower, word) {
			vec[i] = 1
			found = true
		}
	}
	if !found {
		vec[0] = 0.1 // chromem rejects zero vectors
	}
	return vec, nil
}

func (e axisEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i], _ = e.Embed(context.Background(), t)
	}
	return out, nil
}

func (axisEmbedder) Dimensions() int              { return len(axes) }
func (axisEmbedder) ModelName() string            { return "axis" }
func (axisEmbedder) Ping(_ context.Context) error { return nil }
func (axisEmbedder) Close() error                 { return nil }

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(Config{}, axisEmbedder{})
	require.NoError(t, err)
	return store
}

func seed(t *testing.T, store *Store) {
	t.Helper()
	require.NoError(t, store.Upsert(context.Background(), []domain.Chunk{
		{ID: "c1", Content: "Section 303 defines theft.", Metadata: map[string]string{domain.MetaChunkID: "0"}},
		{ID: "c2", Content: "Section 101 defines homicide.", Metadata: map[string]string{domain.MetaChunkID: "1"}},
	}))
}

func TestUpsertAndCount(t *testing.T) {
	store := newTestStore(t)
	seed(t, store)

	n, err := store.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestSearch_RanksMostSimilarFirst(t *testing.T) {
	store := newTestStore(t)
	seed(t, store)

	results, err := store.Search(context.Background(), "what is theft", 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "c1", results[0].Chunk.ID)
	assert.Equal(t, "0", results[0].Chunk.Metadata[domain.MetaChunkID])
	assert.Greater(t, results[0].Score, results[1].Score)
}

func TestSearch_ClampsKToCorpusSize(t *testing.T) {
	store := newTestStore(t)
	seed(t, store)

	results, err := store.Search(context.Background(), "theft", 50)
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestSearch_EmptyStore(t *testing.T) {
	store := newTestStore(t)

	results, err := store.Search(context.Background(), "theft", 5)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestClear(t *testing.T) {
	store := newTestStore(t)
	seed(t, store)

	require.NoError(t, store.Clear(context.Background()))

	n, err := store.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)

	// The store is usable again after clearing.
	seed(t, store)
	n, err = store.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}
