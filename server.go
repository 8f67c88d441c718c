package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/enzeeeh/patient-symptom-chatbot/retrieval"
	"github.com/enzeeeh/patient-symptom-chatbot/triage"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

type symptomTriager interface {
	Analyze(ctx context.Context, message string) *triage.Assessment
}

type hybridSearcher interface {
	Search(ctx context.Context, query string, symptoms, conditions []string) retrieval.Outcome
}

func NewTriageServer(triager symptomTriager, searcher hybridSearcher, log *slog.Logger) *server.MCPServer {
	srv := server.NewMCPServer("symptom-triage", "0.0.1", server.WithToolCapabilities(false))

	addTriageTool(srv, triager, log)
	addHybridSearchTool(srv, searcher, log)
	addExtractSymptomsTool(srv, log)

	return srv
}

func addTriageTool(srv *server.MCPServer, triager symptomTriager, log *slog.Logger) {
	tool := mcp.NewTool("triage",
		mcp.WithDescription("Analyze a patient message and produce a structured triage assessment "+
			"with possible conditions, urgency level and recommendations"),
		mcp.WithString("message",
			mcp.Required(),
			mcp.Description("Patient message describing their symptoms"),
		))

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		message, err := request.RequireString("message")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		log.Info("triage requested")

		assessment := triager.Analyze(ctx, message)
		raw, err := json.Marshal(assessment)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		return mcp.NewToolResultText(string(raw)), nil
	})
}

func addHybridSearchTool(srv *server.MCPServer, searcher hybridSearcher, log *slog.Logger) {
	tool := mcp.NewTool("hybrid_search",
		mcp.WithDescription("Search local medical guidelines and trusted web sources for context "+
			"on symptoms or conditions"),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Search query"),
		),
		mcp.WithString("symptoms",
			mcp.Description("Comma-separated list of extracted symptoms"),
		),
		mcp.WithString("conditions",
			mcp.Description("Comma-separated list of suspected conditions"),
		))

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query, err := request.RequireString("query")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		symptoms := splitCSV(request.GetString("symptoms", ""))
		conditions := splitCSV(request.GetString("conditions", ""))

		log.Info("hybrid search requested", "symptoms", len(symptoms), "conditions", len(conditions))

		outcome := searcher.Search(ctx, query, symptoms, conditions)

		var response string
		for _, r := range outcome.CombinedResults {
			raw, err := json.Marshal(struct {
				Score  float64 `json:"score"`
				Source string  `json:"source"`
				Kind   string  `json:"kind"`
				Title  string  `json:"title,omitempty"`
				Text   string  `json:"text"`
			}{
				Score:  r.Score,
				Source: r.Source,
				Kind:   r.Kind,
				Title:  r.Title,
				Text:   r.Content,
			})
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			response += fmt.Sprintf("%s\n", string(raw))
		}

		summary, err := json.Marshal(struct {
			TotalSources int `json:"total_sources"`
			Local        int `json:"local"`
			Web          int `json:"web"`
		}{
			TotalSources: outcome.TotalSources,
			Local:        len(outcome.LocalResults),
			Web:          len(outcome.WebResults),
		})
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		response += fmt.Sprintf("%s\n", string(summary))

		return mcp.NewToolResultText(response), nil
	})
}

func addExtractSymptomsTool(srv *server.MCPServer, log *slog.Logger) {
	tool := mcp.NewTool("extract_symptoms",
		mcp.WithDescription("Extract known symptom keywords from a patient message and suggest "+
			"related symptoms worth asking about"),
		mcp.WithString("message",
			mcp.Required(),
			mcp.Description("Patient message describing their symptoms"),
		),
		mcp.WithString("condition",
			mcp.Description("Suspected condition whose associated symptoms should be suggested"),
		))

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		message, err := request.RequireString("message")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		condition := request.GetString("condition", "")

		extracted := triage.ExtractSymptoms(message)
		related := triage.SuggestRelated(extracted, condition)

		log.Info("symptom extraction requested", "extracted", len(extracted))

		if extracted == nil {
			extracted = []string{}
		}
		if related == nil {
			related = []string{}
		}

		raw, err := json.Marshal(struct {
			Extracted []string `json:"extracted"`
			Related   []string `json:"related"`
		}{
			Extracted: extracted,
			Related:   related,
		})
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		return mcp.NewToolResultText(string(raw)), nil
	})
}

func splitCSV(s string) []string {
	var parts []string
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			parts = append(parts, p)
		}
	}

	return parts
}
