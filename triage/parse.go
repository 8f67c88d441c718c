package triage

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Assessment is the structured triage answer produced by the model call.
// SourcesUsed is filled in by the engine, not the model.
type Assessment struct {
	Conditions      []Condition  `json:"conditions"`
	Triage          Triage       `json:"triage"`
	Recommendations []string     `json:"recommendations"`
	RedFlags        []string     `json:"red_flags"`
	FollowUp        string       `json:"follow_up"`
	SourcesUsed     *SourcesUsed `json:"sources_used,omitempty"`
}

type Condition struct {
	Name        string   `json:"name"`
	Likelihood  float64  `json:"likelihood"`
	Symptoms    []string `json:"symptoms"`
	Description string   `json:"description"`
}

type Triage struct {
	Urgency        string `json:"urgency"`
	Priority       int    `json:"priority"`
	Recommendation string `json:"recommendation"`
	Reasoning      string `json:"reasoning"`
}

type SourcesUsed struct {
	TotalSources    int         `json:"total_sources"`
	LocalGuidelines int         `json:"local_guidelines"`
	WebResearch     int         `json:"web_research"`
	Sources         []SourceRef `json:"sources"`
}

type SourceRef struct {
	Title  string `json:"title,omitempty"`
	Source string `json:"source"`
	Kind   string `json:"kind"`
}

// ParseAssessment decodes a model response. Models wrap JSON in markdown
// fences or chat around it despite instructions, so the object is located
// first.
func ParseAssessment(raw string) (*Assessment, error) {
	text, err := extractJSON(raw)
	if err != nil {
		return nil, err
	}

	var assessment Assessment
	if err := json.Unmarshal([]byte(text), &assessment); err != nil {
		return nil, fmt.Errorf("failed to decode assessment: %w", err)
	}

	return &assessment, nil
}

func extractJSON(raw string) (string, error) {
	text := strings.TrimSpace(raw)

	if strings.HasPrefix(text, "```") {
		return braceSpan(text)
	}
	if strings.HasPrefix(text, "{") && strings.HasSuffix(text, "}") {
		return text, nil
	}

	return braceSpan(text)
}

func braceSpan(text string) (string, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end < start {
		return "", errors.New("no JSON object in response")
	}

	return text[start : end+1], nil
}
