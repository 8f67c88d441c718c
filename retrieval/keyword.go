package retrieval

import (
	"context"
	"sort"
	"strings"
)

const (
	keywordScore  = 0.6
	maxContentLen = 1000
)

type CorpusProvider interface {
	Corpus() []Document
}

// KeywordSearcher scores whole guideline documents by literal term overlap.
// It backs the retrieval chain whenever no vector index is available.
type KeywordSearcher struct {
	docs CorpusProvider
}

func NewKeywordSearcher(docs CorpusProvider) *KeywordSearcher {
	return &KeywordSearcher{docs: docs}
}

func (s *KeywordSearcher) Search(ctx context.Context, query string, k int) ([]Result, error) {
	terms := queryTerms(query)
	if len(terms) == 0 {
		return nil, nil
	}

	var scored []Result
	for _, doc := range s.docs.Corpus() {
		content := strings.ToLower(doc.Content)
		overlap := 0
		for _, term := range terms {
			if strings.Contains(content, term) {
				overlap++
			}
		}
		if overlap == 0 {
			continue
		}

		text := doc.Content
		if len(text) > maxContentLen {
			text = Clip(text, maxContentLen) + "..."
		}

		scored = append(scored, Result{
			Content:      text,
			Source:       doc.Source,
			Kind:         KindLocalGuideline,
			Score:        keywordScore,
			KeywordScore: overlap,
		})
	}

	// Ties keep corpus enumeration order.
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].KeywordScore > scored[j].KeywordScore
	})

	if len(scored) > k {
		scored = scored[:k]
	}

	return scored, nil
}

func queryTerms(query string) []string {
	seen := make(map[string]struct{})
	var terms []string
	for _, w := range strings.Fields(strings.ToLower(query)) {
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		terms = append(terms, w)
	}

	return terms
}
