package retrieval

import "unicode/utf8"

const (
	KindLocalGuideline = "local_guideline"
	KindWebResearch    = "web_research"
)

type Document struct {
	Content string
	Source  string
}

type Result struct {
	Content      string
	Source       string
	Title        string
	Kind         string
	Score        float64
	KeywordScore int
}

type Outcome struct {
	LocalResults    []Result
	WebResults      []Result
	CombinedResults []Result
	TotalSources    int
}

// Clip returns the longest prefix of s that fits in max bytes without
// splitting a UTF-8 sequence.
func Clip(s string, max int) string {
	if len(s) <= max {
		return s
	}

	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}

	return s[:max]
}
