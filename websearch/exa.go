package websearch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/enzeeeh/patient-symptom-chatbot/retrieval"
)

const (
	defaultBaseURL   = "https://api.exa.ai"
	defaultTimeout   = 20 * time.Second
	defaultRateLimit = 5

	defaultWebScore = 0.6
	maxContentLen   = 1000
)

// trustedDomains limits web results to vetted medical publishers.
var trustedDomains = []string{
	"pubmed.ncbi.nlm.nih.gov",
	"who.int",
	"cdc.gov",
	"mayoclinic.org",
	"medlineplus.gov",
}

// Client searches recent medical literature through the Exa API.
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

type Config struct {
	ApiKey  string
	BaseURL string
	Timeout time.Duration

	// RequestsPerSecond caps outbound search calls. Zero picks the default.
	RequestsPerSecond float64
}

func NewClient(cfg Config) (*Client, error) {
	if cfg.ApiKey == "" {
		return nil, errors.New("api key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = defaultRateLimit
	}

	return &Client{
		apiKey:  cfg.ApiKey,
		baseURL: cfg.BaseURL,
		http:    &http.Client{Timeout: cfg.Timeout},
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1),
	}, nil
}

type searchRequest struct {
	Query          string   `json:"query"`
	NumResults     int      `json:"numResults"`
	IncludeDomains []string `json:"includeDomains"`
	Contents       contents `json:"contents"`
}

type contents struct {
	Text bool `json:"text"`
}

type searchResponse struct {
	Results []searchItem `json:"results"`
}

type searchItem struct {
	Title string   `json:"title"`
	Url   string   `json:"url"`
	Text  string   `json:"text"`
	Score *float64 `json:"score"`
}

// Search queries Exa for recent research on the symptoms, restricted to the
// trusted domain list. The query is reframed as a medical research question
// so general-web noise doesn't crowd out clinical sources.
func (c *Client) Search(ctx context.Context, query string, k int) ([]retrieval.Result, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("failed to acquire rate limit: %w", err)
	}

	body, err := json.Marshal(searchRequest{
		Query:          fmt.Sprintf("medical research %s symptoms treatment diagnosis", query),
		NumResults:     k,
		IncludeDomains: trustedDomains,
		Contents:       contents{Text: true},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal search request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/search", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create search request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach exa: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("exa returned %s: %s", resp.Status, raw)
	}

	var out searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	results := make([]retrieval.Result, 0, len(out.Results))
	for _, item := range out.Results {
		content := item.Text
		if len(content) > maxContentLen {
			content = retrieval.Clip(content, maxContentLen) + "..."
		}

		score := defaultWebScore
		if item.Score != nil {
			score = *item.Score
		}

		results = append(results, retrieval.Result{
			Content: content,
			Source:  item.Url,
			Title:   item.Title,
			Kind:    retrieval.KindWebResearch,
			Score:   score,
		})
	}

	return results, nil
}
