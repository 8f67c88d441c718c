package vecstore

import (
	"context"
	"path/filepath"

	"github.com/enzeeeh/patient-symptom-chatbot/retrieval"
)

// guidelineScore is the relevance assigned to every vector hit. Curated
// guidelines are trusted wholesale, so rank among them doesn't feed into the
// hybrid merge.
const guidelineScore = 0.8

// Searcher exposes the store as a guideline searcher for hybrid retrieval.
type Searcher struct {
	store *Store
}

func NewSearcher(store *Store) *Searcher {
	return &Searcher{store: store}
}

func (s *Searcher) Search(ctx context.Context, query string, k int) ([]retrieval.Result, error) {
	hits, err := s.store.Search(ctx, query, k)
	if err != nil {
		return nil, err
	}

	results := make([]retrieval.Result, 0, len(hits))
	for _, h := range hits {
		results = append(results, retrieval.Result{
			Content: h.Text,
			Source:  filepath.Base(h.Source),
			Kind:    retrieval.KindLocalGuideline,
			Score:   guidelineScore,
		})
	}

	return results, nil
}
