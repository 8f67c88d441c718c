package retrieval

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
)

const combinedLimit = 5

type Searcher interface {
	Search(ctx context.Context, query string, k int) ([]Result, error)
}

// Fallback tries the primary searcher and falls through to the secondary
// when it fails. Both sides share the same (query, k) contract, so stages
// stack and substitute freely.
type Fallback struct {
	primary   Searcher
	secondary Searcher
	log       *slog.Logger
}

func NewFallback(primary, secondary Searcher, log *slog.Logger) *Fallback {
	if log == nil {
		log = slog.Default()
	}

	return &Fallback{
		primary:   primary,
		secondary: secondary,
		log:       log,
	}
}

func (f *Fallback) Search(ctx context.Context, query string, k int) ([]Result, error) {
	res, err := f.primary.Search(ctx, query, k)
	if err == nil {
		return res, nil
	}

	f.log.Warn("primary search failed, using fallback", "error", err)
	return f.secondary.Search(ctx, query, k)
}

// Retriever combines local guideline search with optional web research into
// a single ranked outcome. Local sources outrank web sources on score ties.
type Retriever struct {
	local  Searcher
	web    Searcher
	localK int
	webK   int
	log    *slog.Logger
}

type RetrieverConfig struct {
	Local        Searcher
	Web          Searcher
	LocalResults int
	WebResults   int
	Log          *slog.Logger
}

func NewRetriever(cfg RetrieverConfig) *Retriever {
	if cfg.LocalResults <= 0 {
		cfg.LocalResults = 3
	}
	if cfg.WebResults <= 0 {
		cfg.WebResults = 2
	}
	if cfg.Log == nil {
		cfg.Log = slog.Default()
	}

	return &Retriever{
		local:  cfg.Local,
		web:    cfg.Web,
		localK: cfg.LocalResults,
		webK:   cfg.WebResults,
		log:    cfg.Log,
	}
}

// Search never fails: either side degrades to an empty result list with a
// logged warning. Calls run sequentially, local first.
func (r *Retriever) Search(ctx context.Context, query string, symptoms, conditions []string) Outcome {
	enhanced := enhanceQuery(query, symptoms, conditions)

	local, err := r.local.Search(ctx, enhanced, r.localK)
	if err != nil {
		r.log.Warn("local guideline search failed", "error", err)
		local = nil
	}

	var web []Result
	if r.web != nil {
		web, err = r.web.Search(ctx, enhanced, r.webK)
		if err != nil {
			r.log.Warn("web research search failed", "error", err)
			web = nil
		}
	}

	combined := make([]Result, 0, len(local)+len(web))
	combined = append(combined, local...)
	combined = append(combined, web...)

	// Stable sort: equal scores keep the local-before-web concatenation order.
	sort.SliceStable(combined, func(i, j int) bool {
		return combined[i].Score > combined[j].Score
	})

	total := len(combined)
	if len(combined) > combinedLimit {
		combined = combined[:combinedLimit]
	}

	return Outcome{
		LocalResults:    local,
		WebResults:      web,
		CombinedResults: combined,
		TotalSources:    total,
	}
}

func enhanceQuery(query string, symptoms, conditions []string) string {
	return fmt.Sprintf("%s. Symptoms: %s. Conditions: %s",
		query,
		strings.Join(symptoms, ", "),
		strings.Join(conditions, ", "))
}
