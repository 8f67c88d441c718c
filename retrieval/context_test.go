package retrieval

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_FormatContext(t *testing.T) {
	out := Outcome{
		LocalResults: []Result{
			{Source: "flu.md", Content: "Demam tinggi dan sakit kepala.", Kind: KindLocalGuideline, Score: 0.8},
		},
		WebResults: []Result{
			{Source: "https://who.int/flu", Title: "Influenza factsheet", Content: "Seasonal influenza overview.", Kind: KindWebResearch, Score: 0.6},
		},
	}

	got := FormatContext(out)

	want := strings.Join([]string{
		"=== MEDICAL GUIDELINES (Primary Sources) ===",
		"Source: flu.md",
		"Content: Demam tinggi dan sakit kepala....",
		"",
		"=== LATEST MEDICAL RESEARCH (Supplementary) ===",
		"Source: Influenza factsheet",
		"URL: https://who.int/flu",
		"Content: Seasonal influenza overview....",
		"",
	}, "\n")
	assert.Equal(t, want, got)
}

func Test_FormatContext_TruncatesExcerpts(t *testing.T) {
	out := Outcome{
		LocalResults: []Result{{Source: "a.md", Content: strings.Repeat("x", 900)}},
		WebResults:   []Result{{Source: "https://who.int/a", Content: strings.Repeat("y", 900)}},
	}

	got := FormatContext(out)

	assert.Contains(t, got, "Content: "+strings.Repeat("x", 500)+"...")
	assert.Contains(t, got, "Content: "+strings.Repeat("y", 300)+"...")
	assert.NotContains(t, got, strings.Repeat("x", 501))
	assert.NotContains(t, got, strings.Repeat("y", 301))
}

func Test_FormatContext_OmitsEmptySections(t *testing.T) {
	localOnly := Outcome{LocalResults: []Result{{Source: "a.md", Content: "demam"}}}
	got := FormatContext(localOnly)
	assert.Contains(t, got, "MEDICAL GUIDELINES")
	assert.NotContains(t, got, "LATEST MEDICAL RESEARCH")

	webOnly := Outcome{WebResults: []Result{{Source: "https://who.int/a", Content: "flu"}}}
	got = FormatContext(webOnly)
	assert.NotContains(t, got, "MEDICAL GUIDELINES")
	assert.Contains(t, got, "LATEST MEDICAL RESEARCH")
}

func Test_FormatContext_Empty(t *testing.T) {
	assert.Equal(t, "", FormatContext(Outcome{}))
}

func Test_FormatContext_DefaultsWebTitle(t *testing.T) {
	out := Outcome{WebResults: []Result{{Source: "https://cdc.gov/x", Content: "flu"}}}
	assert.Contains(t, FormatContext(out), "Source: Web Source")
}
