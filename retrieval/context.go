package retrieval

import (
	"fmt"
	"strings"
)

const (
	localExcerptLen = 500
	webExcerptLen   = 300
)

// FormatContext renders a search outcome into the bounded context block
// embedded in the downstream model prompt. Empty sections are omitted.
func FormatContext(outcome Outcome) string {
	var parts []string

	if len(outcome.LocalResults) > 0 {
		parts = append(parts, "=== MEDICAL GUIDELINES (Primary Sources) ===")
		for _, r := range outcome.LocalResults {
			parts = append(parts,
				fmt.Sprintf("Source: %s", r.Source),
				fmt.Sprintf("Content: %s...", Clip(r.Content, localExcerptLen)),
				"")
		}
	}

	if len(outcome.WebResults) > 0 {
		parts = append(parts, "=== LATEST MEDICAL RESEARCH (Supplementary) ===")
		for _, r := range outcome.WebResults {
			title := r.Title
			if title == "" {
				title = "Web Source"
			}
			parts = append(parts,
				fmt.Sprintf("Source: %s", title),
				fmt.Sprintf("URL: %s", r.Source),
				fmt.Sprintf("Content: %s...", Clip(r.Content, webExcerptLen)),
				"")
		}
	}

	return strings.Join(parts, "\n")
}
