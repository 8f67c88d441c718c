package triage

import (
	"context"
	"log/slog"

	"github.com/enzeeeh/patient-symptom-chatbot/retrieval"
)

// Generator produces a model response for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Retriever runs the hybrid guideline + web search.
type Retriever interface {
	Search(ctx context.Context, query string, symptoms, conditions []string) retrieval.Outcome
}

// Engine turns a patient message into a structured triage assessment.
type Engine struct {
	gen       Generator
	retriever Retriever
	log       *slog.Logger
}

type EngineConfig struct {
	Generator Generator
	Retriever Retriever
	Log       *slog.Logger
}

func NewEngine(cfg EngineConfig) *Engine {
	log := cfg.Log
	if log == nil {
		log = slog.Default()
	}

	return &Engine{gen: cfg.Generator, retriever: cfg.Retriever, log: log}
}

// Analyze produces an assessment for a patient message. It never fails: the
// hybrid path degrades to the basic prompt and the basic path degrades to a
// static assessment, so the caller always gets an answer.
func (e *Engine) Analyze(ctx context.Context, message string) *Assessment {
	assessment := e.analyze(ctx, message)
	if Emergency(assessment.Triage) {
		e.log.Warn("assessment flagged for immediate attention",
			"urgency", assessment.Triage.Urgency,
			"priority", assessment.Triage.Priority)
	}

	return assessment
}

func (e *Engine) analyze(ctx context.Context, message string) *Assessment {
	if e.gen == nil {
		return unavailableAssessment()
	}
	if e.retriever == nil {
		return e.analyzeBasic(ctx, message)
	}

	symptoms := ExtractSymptoms(message)
	outcome := e.retriever.Search(ctx, message, symptoms, nil)
	prompt := HybridPrompt(message, retrieval.FormatContext(outcome), outcome.TotalSources)

	raw, err := e.gen.Generate(ctx, prompt)
	if err != nil {
		e.log.Warn("hybrid analysis failed, using basic analysis", "error", err)
		return e.analyzeBasic(ctx, message)
	}

	assessment, err := ParseAssessment(raw)
	if err != nil {
		e.log.Warn("failed to parse hybrid response, using basic analysis", "error", err)
		return e.analyzeBasic(ctx, message)
	}

	Normalize(&assessment.Triage)
	assessment.SourcesUsed = sourcesUsed(outcome)

	return assessment
}

func (e *Engine) analyzeBasic(ctx context.Context, message string) *Assessment {
	raw, err := e.gen.Generate(ctx, BasicPrompt(message))
	if err != nil {
		e.log.Warn("basic analysis failed, using static assessment", "error", err)
		return unavailableAssessment()
	}

	assessment, err := ParseAssessment(raw)
	if err != nil {
		e.log.Warn("failed to parse basic response, using static assessment", "error", err)
		return parseFallbackAssessment()
	}

	Normalize(&assessment.Triage)

	return assessment
}

func sourcesUsed(outcome retrieval.Outcome) *SourcesUsed {
	refs := make([]SourceRef, 0, len(outcome.LocalResults)+len(outcome.WebResults))
	for _, r := range outcome.LocalResults {
		refs = append(refs, SourceRef{Source: r.Source, Kind: r.Kind})
	}
	for _, r := range outcome.WebResults {
		refs = append(refs, SourceRef{Title: r.Title, Source: r.Source, Kind: r.Kind})
	}

	return &SourcesUsed{
		TotalSources:    outcome.TotalSources,
		LocalGuidelines: len(outcome.LocalResults),
		WebResearch:     len(outcome.WebResults),
		Sources:         refs,
	}
}

// parseFallbackAssessment stands in when the model answered but not with
// usable JSON.
func parseFallbackAssessment() *Assessment {
	return &Assessment{
		Conditions: []Condition{{
			Name:        "Analisis Medis",
			Likelihood:  70,
			Symptoms:    []string{"Berdasarkan gejala yang disebutkan"},
			Description: "Analisis berdasarkan gejala yang telah dijelaskan. Memerlukan evaluasi medis lebih lanjut untuk diagnosis yang akurat.",
		}},
		Triage: Triage{
			Urgency:        "medium",
			Priority:       3,
			Recommendation: "Konsultasi dengan dokter dalam 24-48 jam",
			Reasoning:      "Berdasarkan analisis gejala yang dijelaskan",
		},
		Recommendations: []string{
			"Istirahat yang cukup",
			"Monitor perkembangan gejala",
			"Konsultasi dokter jika gejala memburuk",
		},
		RedFlags: []string{
			"Gejala yang memburuk secara signifikan",
			"Demam tinggi yang persisten",
		},
		FollowUp: "Konsultasi dokter dalam 24-48 jam atau segera jika gejala memburuk",
	}
}

// unavailableAssessment stands in when no model response could be obtained
// at all.
func unavailableAssessment() *Assessment {
	return &Assessment{
		Conditions: []Condition{{
			Name:        "Evaluasi Medis Diperlukan",
			Likelihood:  60,
			Symptoms:    []string{"Gejala yang dilaporkan"},
			Description: "Diperlukan evaluasi medis lebih lanjut untuk analisis yang komprehensif.",
		}},
		Triage: Triage{
			Urgency:        "medium",
			Priority:       3,
			Recommendation: "Konsultasi dengan dokter",
			Reasoning:      "Evaluasi medis diperlukan",
		},
		Recommendations: []string{"Konsultasi dengan tenaga medis profesional"},
		RedFlags:        []string{},
		FollowUp:        "Segera konsultasi dengan tenaga medis",
	}
}
