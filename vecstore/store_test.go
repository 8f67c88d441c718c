package vecstore

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/amikos-tech/chroma-go/pkg/embeddings"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEmbedder struct {
	vectors    map[string][]float32
	docCalls   [][]string
	queryCalls []string
	err        error
}

func (f *fakeEmbedder) EmbedDocuments(ctx context.Context, texts []string) ([]embeddings.Embedding, error) {
	f.docCalls = append(f.docCalls, texts)
	if f.err != nil {
		return nil, f.err
	}

	out := make([]embeddings.Embedding, 0, len(texts))
	for _, t := range texts {
		out = append(out, embeddings.NewEmbeddingFromFloat32(f.vec(t)))
	}

	return out, nil
}

func (f *fakeEmbedder) EmbedQuery(ctx context.Context, text string) (embeddings.Embedding, error) {
	f.queryCalls = append(f.queryCalls, text)
	if f.err != nil {
		return nil, f.err
	}

	return embeddings.NewEmbeddingFromFloat32(f.vec(text)), nil
}

func (f *fakeEmbedder) vec(text string) []float32 {
	if v, ok := f.vectors[text]; ok {
		return v
	}

	return []float32{1, 0, 0}
}

func newTestStore(t *testing.T, embedder Embedder) *Store {
	t.Helper()
	store, err := NewStore(StoreConfig{Embedder: embedder})
	require.NoError(t, err)

	return store
}

func Test_StoreSearch_RanksByCosine(t *testing.T) {
	embedder := &fakeEmbedder{vectors: map[string][]float32{
		"demam tinggi":  {1, 0, 0},
		"nyeri sendi":   {0.9, 0.1, 0},
		"ruam kulit":    {0, 1, 0},
		"gejala dengue": {1, 0, 0},
	}}
	store := newTestStore(t, embedder)
	err := store.Index(context.Background(), Doc{
		Source: "dengue.md",
		Crc:    1,
		Chunks: []string{"demam tinggi", "nyeri sendi", "ruam kulit"},
	})
	require.NoError(t, err)

	hits, err := store.Search(context.Background(), "gejala dengue", 2)

	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "demam tinggi", hits[0].Text)
	assert.Equal(t, "nyeri sendi", hits[1].Text)
	assert.Greater(t, hits[0].Score, hits[1].Score)
}

func Test_StoreSearch_EmptyIndex(t *testing.T) {
	store := newTestStore(t, &fakeEmbedder{})

	_, err := store.Search(context.Background(), "demam", 3)

	assert.ErrorIs(t, err, ErrEmptyIndex)
}

func Test_StoreSearch_NilStore(t *testing.T) {
	var store *Store

	_, err := store.Search(context.Background(), "demam", 3)

	assert.ErrorIs(t, err, ErrEmptyIndex)
}

func Test_StoreSearch_CachesQueryEmbeddings(t *testing.T) {
	embedder := &fakeEmbedder{}
	store := newTestStore(t, embedder)
	err := store.Index(context.Background(), Doc{Source: "flu.md", Crc: 1, Chunks: []string{"demam"}})
	require.NoError(t, err)

	_, err = store.Search(context.Background(), "demam tinggi", 3)
	require.NoError(t, err)
	_, err = store.Search(context.Background(), "demam tinggi", 3)
	require.NoError(t, err)

	assert.Equal(t, []string{"demam tinggi"}, embedder.queryCalls)
}

func Test_StoreIndex_ReplacesSameSource(t *testing.T) {
	embedder := &fakeEmbedder{}
	store := newTestStore(t, embedder)
	ctx := context.Background()
	err := store.Index(ctx, Doc{Source: "flu.md", Crc: 1, Chunks: []string{"old text"}})
	require.NoError(t, err)

	err = store.Index(ctx, Doc{Source: "flu.md", Crc: 2, Chunks: []string{"new text"}})
	require.NoError(t, err)

	hits, err := store.Search(ctx, "anything", 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "new text", hits[0].Text)

	docs, err := store.Indexed(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, IndexedDoc{Source: "flu.md", Crc: 2}, docs[0])
}

func Test_StoreIndex_RotatesChunkIDs(t *testing.T) {
	embedder := &fakeEmbedder{}
	store := newTestStore(t, embedder)
	ctx := context.Background()
	err := store.Index(ctx, Doc{Source: "flu.md", Crc: 1, Chunks: []string{"old text"}})
	require.NoError(t, err)
	stale := store.chunkIDs("flu.md")
	require.Len(t, stale, 1)
	require.NotEmpty(t, stale[0])

	err = store.Index(ctx, Doc{Source: "flu.md", Crc: 2, Chunks: []string{"new text"}})
	require.NoError(t, err)

	fresh := store.chunkIDs("flu.md")
	require.Len(t, fresh, 1)
	assert.NotEqual(t, stale[0], fresh[0])
}

func Test_StoreIndex_BucketsRequests(t *testing.T) {
	embedder := &fakeEmbedder{}
	store, err := NewStore(StoreConfig{Embedder: embedder, RequestSize: 13})
	require.NoError(t, err)

	err = store.Index(context.Background(), Doc{
		Source: "doc.md",
		Crc:    1,
		Chunks: []string{"Bananas", "are", "berries", "but", "strawberries", "aren't"},
	})

	require.NoError(t, err)
	want := [][]string{
		{"Bananas", "are"},
		{"berries", "but"},
		{"strawberries"},
		{"aren't"},
	}
	assert.Equal(t, want, embedder.docCalls)
}

func Test_StoreIndex_EmbedderError(t *testing.T) {
	embedder := &fakeEmbedder{err: errors.New("quota exceeded")}
	store := newTestStore(t, embedder)
	ctx := context.Background()

	err := store.Index(ctx, Doc{Source: "flu.md", Crc: 1, Chunks: []string{"demam"}})

	require.Error(t, err)
	docs, err := store.Indexed(ctx)
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func Test_StoreForget(t *testing.T) {
	embedder := &fakeEmbedder{}
	store := newTestStore(t, embedder)
	ctx := context.Background()
	err := store.Index(ctx, Doc{Source: "flu.md", Crc: 1, Chunks: []string{"demam"}})
	require.NoError(t, err)
	err = store.Index(ctx, Doc{Source: "dengue.md", Crc: 2, Chunks: []string{"ruam"}})
	require.NoError(t, err)

	err = store.Forget(ctx, IndexedDoc{Source: "flu.md", Crc: 1})

	require.NoError(t, err)
	docs, err := store.Indexed(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "dengue.md", docs[0].Source)
	hits, err := store.Search(ctx, "ruam", 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "dengue.md", hits[0].Source)
}

func Test_buckets(t *testing.T) {
	var cases = []struct {
		chunks []string
		size   int
		want   [][]string
	}{
		{
			chunks: []string{"aa", "bb", "cc"},
			size:   4,
			want:   [][]string{{"aa", "bb"}, {"cc"}},
		},
		{
			chunks: []string{"aaaaaa"},
			size:   4,
			want:   [][]string{{"aaaaaa"}},
		},
		{
			chunks: []string{"aa", "bb"},
			size:   10,
			want:   [][]string{{"aa", "bb"}},
		},
		{
			chunks: nil,
			size:   10,
			want:   nil,
		},
	}

	for i, c := range cases {
		t.Run(fmt.Sprintf("case_%d", i), func(t *testing.T) {
			assert.Equal(t, c.want, buckets(c.chunks, c.size))
		})
	}
}

func Test_normalize(t *testing.T) {
	var cases = []struct {
		vec  []float32
		want []float32
	}{
		{vec: []float32{3, 4}, want: []float32{0.6, 0.8}},
		{vec: []float32{0, 0}, want: []float32{0, 0}},
		{vec: []float32{2}, want: []float32{1}},
	}

	for i, c := range cases {
		t.Run(fmt.Sprintf("case_%d", i), func(t *testing.T) {
			got := normalize(c.vec)
			require.Len(t, got, len(c.want))
			for j := range c.want {
				assert.InDelta(t, c.want[j], got[j], 1e-6)
			}
		})
	}
}
