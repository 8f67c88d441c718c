package vecstore

import (
	"context"
	"errors"
	"fmt"
	"math"
	"slices"
	"sort"
	"sync"

	"github.com/amikos-tech/chroma-go/pkg/embeddings"
	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
)

var ErrEmptyIndex = errors.New("vector index holds no documents")

const (
	defaultRequestSize = 8192
	defaultCacheSize   = 256
)

type Embedder interface {
	EmbedDocuments(ctx context.Context, texts []string) ([]embeddings.Embedding, error)
	EmbedQuery(ctx context.Context, text string) (embeddings.Embedding, error)
}

type Doc struct {
	Source string
	Crc    uint32
	Chunks []string
}

type IndexedDoc struct {
	Source string
	Crc    uint32
}

type Hit struct {
	Text   string
	Source string
	Score  float64
}

type chunk struct {
	id     string
	source string
	text   string
	vec    []float32
}

// Store is an in-memory nearest-neighbour index over guideline chunks.
// It lives for the session: built once at startup and maintained
// incrementally by the registry sync.
type Store struct {
	embedder    Embedder
	requestSize int
	queryCache  *lru.Cache[string, []float32]

	mu     sync.RWMutex
	chunks []chunk
	docs   map[string]uint32
}

type StoreConfig struct {
	Embedder    Embedder
	RequestSize int
	CacheSize   int
}

func NewStore(cfg StoreConfig) (*Store, error) {
	if cfg.Embedder == nil {
		return nil, errors.New("embedder is required")
	}
	if cfg.RequestSize <= 0 {
		cfg.RequestSize = defaultRequestSize
	}
	if cfg.CacheSize <= 0 {
		cfg.CacheSize = defaultCacheSize
	}

	cache, err := lru.New[string, []float32](cfg.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create query cache: %w", err)
	}

	return &Store{
		embedder:    cfg.Embedder,
		requestSize: cfg.RequestSize,
		queryCache:  cache,
		docs:        make(map[string]uint32),
	}, nil
}

// Index embeds the doc's chunks and adds them to the index, replacing any
// chunks already held for the same source. Chunks are embedded in buckets so
// a single request's total text stays under the configured request size.
func (s *Store) Index(ctx context.Context, doc Doc) error {
	fresh := make([]chunk, 0, len(doc.Chunks))
	for _, bucket := range buckets(doc.Chunks, s.requestSize) {
		embs, err := s.embedder.EmbedDocuments(ctx, bucket)
		if err != nil {
			return fmt.Errorf("failed to embed chunks of %s: %w", doc.Source, err)
		}
		if len(embs) != len(bucket) {
			return fmt.Errorf("embedder returned %d vectors for %d chunks of %s", len(embs), len(bucket), doc.Source)
		}

		for i, e := range embs {
			fresh = append(fresh, chunk{
				id:     uuid.NewString(),
				source: doc.Source,
				text:   bucket[i],
				vec:    normalize(e.ContentAsFloat32()),
			})
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.dropChunks(s.chunkIDs(doc.Source))
	s.chunks = append(s.chunks, fresh...)
	s.docs[doc.Source] = doc.Crc

	return nil
}

// Search returns up to k chunks ordered by descending cosine similarity to
// the query. Query embeddings are cached so repeated queries in a session
// are not re-embedded. A nil or empty store reports ErrEmptyIndex.
func (s *Store) Search(ctx context.Context, query string, k int) ([]Hit, error) {
	if s == nil {
		return nil, ErrEmptyIndex
	}

	s.mu.RLock()
	empty := len(s.chunks) == 0
	s.mu.RUnlock()
	if empty {
		return nil, ErrEmptyIndex
	}

	vec, err := s.embedQuery(ctx, query)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	hits := make([]Hit, 0, len(s.chunks))
	for _, c := range s.chunks {
		hits = append(hits, Hit{
			Text:   c.text,
			Source: c.source,
			Score:  float64(dot(vec, c.vec)),
		})
	}
	s.mu.RUnlock()

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Score > hits[j].Score
	})
	if len(hits) > k {
		hits = hits[:k]
	}

	return hits, nil
}

func (s *Store) Forget(ctx context.Context, doc IndexedDoc) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dropChunks(s.chunkIDs(doc.Source))
	delete(s.docs, doc.Source)

	return nil
}

func (s *Store) Indexed(ctx context.Context) ([]IndexedDoc, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs := make([]IndexedDoc, 0, len(s.docs))
	for source, crc := range s.docs {
		docs = append(docs, IndexedDoc{Source: source, Crc: crc})
	}

	return docs, nil
}

func (s *Store) embedQuery(ctx context.Context, query string) ([]float32, error) {
	if vec, ok := s.queryCache.Get(query); ok {
		return vec, nil
	}

	emb, err := s.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	vec := normalize(emb.ContentAsFloat32())
	s.queryCache.Add(query, vec)

	return vec, nil
}

// chunkIDs lists the record ids currently held for source.
func (s *Store) chunkIDs(source string) []string {
	var ids []string
	for _, c := range s.chunks {
		if c.source == source {
			ids = append(ids, c.id)
		}
	}

	return ids
}

// dropChunks removes the records with the given ids.
func (s *Store) dropChunks(ids []string) {
	if len(ids) == 0 {
		return
	}

	drop := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}
	s.chunks = slices.DeleteFunc(s.chunks, func(c chunk) bool {
		_, ok := drop[c.id]
		return ok
	})
}

func buckets(chunks []string, size int) [][]string {
	var out [][]string
	var cur []string
	used := 0

	for _, c := range chunks {
		if len(cur) > 0 && used+len(c) > size {
			out = append(out, cur)
			cur = nil
			used = 0
		}

		cur = append(cur, c)
		used += len(c)
	}
	if len(cur) > 0 {
		out = append(out, cur)
	}

	return out
}

func normalize(vec []float32) []float32 {
	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	if sum == 0 {
		return vec
	}

	norm := float32(math.Sqrt(sum))
	out := make([]float32, len(vec))
	for i, v := range vec {
		out[i] = v / norm
	}

	return out
}

func dot(a, b []float32) float32 {
	n := min(len(a), len(b))
	var sum float32
	for i := range n {
		sum += a[i] * b[i]
	}

	return sum
}
