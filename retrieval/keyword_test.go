package retrieval

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCorpus []Document

func (c fakeCorpus) Corpus() []Document { return c }

func Test_KeywordSearch(t *testing.T) {
	corpus := fakeCorpus{
		{Source: "flu.md", Content: "Pasien dengan demam tinggi dan sakit kepala perlu istirahat."},
		{Source: "gastritis.md", Content: "Nyeri perut dan mual adalah gejala utama gastritis."},
	}
	s := NewKeywordSearcher(corpus)

	res, err := s.Search(context.Background(), "demam dan sakit kepala", 3)
	require.NoError(t, err)
	require.Len(t, res, 2)

	assert.Equal(t, "flu.md", res[0].Source)
	assert.Equal(t, 4, res[0].KeywordScore)
	assert.Equal(t, KindLocalGuideline, res[0].Kind)
	assert.Equal(t, 0.6, res[0].Score)

	// "dan" matches the second document, nothing else does.
	assert.Equal(t, "gastritis.md", res[1].Source)
	assert.Equal(t, 1, res[1].KeywordScore)
}

func Test_KeywordSearch_DropsZeroScores(t *testing.T) {
	corpus := fakeCorpus{
		{Source: "asma.md", Content: "Sesak napas dan mengi."},
	}
	s := NewKeywordSearcher(corpus)

	res, err := s.Search(context.Background(), "ruam kulit", 3)
	require.NoError(t, err)
	assert.Empty(t, res)
}

func Test_KeywordSearch_CountsDistinctTerms(t *testing.T) {
	corpus := fakeCorpus{
		{Source: "flu.md", Content: "demam demam demam"},
	}
	s := NewKeywordSearcher(corpus)

	res, err := s.Search(context.Background(), "demam demam batuk", 3)
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, 1, res[0].KeywordScore)
}

func Test_KeywordSearch_TruncatesContent(t *testing.T) {
	long := strings.Repeat("demam ", 400)
	corpus := fakeCorpus{
		{Source: "long.md", Content: long},
		{Source: "short.md", Content: "demam"},
	}
	s := NewKeywordSearcher(corpus)

	res, err := s.Search(context.Background(), "demam", 3)
	require.NoError(t, err)
	require.Len(t, res, 2)

	assert.Len(t, res[0].Content, 1003)
	assert.True(t, strings.HasSuffix(res[0].Content, "..."))
	assert.Equal(t, "demam", res[1].Content)
}

func Test_KeywordSearch_TiesKeepCorpusOrder(t *testing.T) {
	corpus := fakeCorpus{
		{Source: "a.md", Content: "demam"},
		{Source: "b.md", Content: "demam"},
		{Source: "c.md", Content: "demam"},
	}
	s := NewKeywordSearcher(corpus)

	res, err := s.Search(context.Background(), "demam", 2)
	require.NoError(t, err)
	require.Len(t, res, 2)
	assert.Equal(t, "a.md", res[0].Source)
	assert.Equal(t, "b.md", res[1].Source)
}

func Test_KeywordSearch_EmptyQuery(t *testing.T) {
	s := NewKeywordSearcher(fakeCorpus{{Source: "a.md", Content: "demam"}})

	res, err := s.Search(context.Background(), "   ", 3)
	require.NoError(t, err)
	assert.Empty(t, res)
}

func Test_Clip(t *testing.T) {
	var cases = []struct {
		input  string
		max    int
		output string
	}{
		{input: "abcdef", max: 3, output: "abc"},
		{input: "abc", max: 5, output: "abc"},
		{input: "suhu 39°C", max: 7, output: "suhu 39"},
		{input: "suhu 39°C", max: 8, output: "suhu 39"},
		{input: "suhu 39°C", max: 9, output: "suhu 39°"},
	}

	for i, c := range cases {
		t.Run(fmt.Sprintf("case_%d", i), func(t *testing.T) {
			assert.Equal(t, c.output, Clip(c.input, c.max))
		})
	}
}
