package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/amikos-tech/chroma-go/pkg/embeddings"
	gemini "github.com/amikos-tech/chroma-go/pkg/embeddings/gemini"
	openai "github.com/amikos-tech/chroma-go/pkg/embeddings/openai"
	"github.com/enzeeeh/patient-symptom-chatbot/readers"
	"github.com/enzeeeh/patient-symptom-chatbot/retrieval"
	"github.com/enzeeeh/patient-symptom-chatbot/triage"
	"github.com/enzeeeh/patient-symptom-chatbot/vecstore"
	"github.com/enzeeeh/patient-symptom-chatbot/websearch"
	"github.com/mark3labs/mcp-go/server"
)

// embeddingProviders builds the ordered embedding candidates: hosted Gemini,
// hosted OpenAI, then local Ollama as the keyless last resort.
func embeddingProviders(cfg *Config) []vecstore.Provider {
	var providers []vecstore.Provider

	if cfg.Gemini != nil && cfg.Gemini.ApiKey != "" {
		providers = append(providers, vecstore.Provider{
			Name: "gemini",
			New: func() (vecstore.Embedder, error) {
				ef, err := gemini.NewGeminiEmbeddingFunction(
					gemini.WithAPIKey(cfg.Gemini.ApiKey),
					gemini.WithDefaultModel(embeddings.EmbeddingModel(cfg.Gemini.EmbeddingModel)))
				if err != nil {
					return nil, fmt.Errorf("failed to create Gemini embedding function: %w", err)
				}

				return ef, nil
			},
		})
	}

	if cfg.OpenAI != nil && cfg.OpenAI.ApiKey != "" {
		providers = append(providers, vecstore.Provider{
			Name: "openai",
			New: func() (vecstore.Embedder, error) {
				ef, err := openai.NewOpenAIEmbeddingFunction(
					cfg.OpenAI.ApiKey,
					openai.WithModel(openai.EmbeddingModel(cfg.OpenAI.EmbeddingModel)))
				if err != nil {
					return nil, fmt.Errorf("failed to create OpenAI embedding function: %w", err)
				}

				return ef, nil
			},
		})
	}

	ollamaCfg := vecstore.OllamaConfig{}
	if cfg.Ollama != nil {
		ollamaCfg.Addr = cfg.Ollama.Addr
		ollamaCfg.Model = cfg.Ollama.Model
	}

	providers = append(providers, vecstore.Provider{
		Name: "ollama",
		New: func() (vecstore.Embedder, error) {
			return vecstore.NewOllamaEmbedder(ollamaCfg), nil
		},
	})

	return providers
}

// initVectorStore probes embedding providers and builds the vector store on
// the first healthy one. A nil return means keyword search only.
func initVectorStore(ctx context.Context, cfg *Config, logger *slog.Logger) *vecstore.Store {
	embedder, err := vecstore.Probe(ctx, embeddingProviders(cfg), logger)
	if err != nil {
		logger.Warn("vector search unavailable, using keyword search", "error", err)
		return nil
	}

	store, err := vecstore.NewStore(vecstore.StoreConfig{
		Embedder:    embedder,
		RequestSize: cfg.RequestSize,
	})
	if err != nil {
		logger.Warn("vector search unavailable, using keyword search", "error", err)
		return nil
	}

	return store
}

func newGenerator(ctx context.Context, cfg *Config, logger *slog.Logger) triage.Generator {
	if cfg.Gemini != nil && cfg.Gemini.ApiKey != "" {
		gen, err := triage.NewGeminiGenerator(ctx, cfg.Gemini.ApiKey)
		if err == nil {
			return gen
		}

		logger.Warn("failed to create Gemini generator", "error", err)
	}

	if cfg.OpenAI != nil && cfg.OpenAI.ApiKey != "" {
		return triage.NewOpenAIGenerator(cfg.OpenAI.ApiKey, cfg.OpenAI.ChatModel)
	}

	logger.Warn("no language model configured, serving static assessments")
	return nil
}

func main() {
	cfgPath := flag.String("config", "cfg/config.yaml", "Configuration file for the MCP server")
	flag.Parse()

	cfg, err := readConfig(*cfgPath)
	if err != nil {
		log.Fatal(err)
	}

	logFile, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0o644)
	if err != nil {
		log.Fatalf("failed to open log file: %s", err)
	}
	defer logFile.Close()

	logger := slog.New(slog.NewJSONHandler(logFile, nil))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := initVectorStore(ctx, cfg, logger)

	reg := &GuidelineRegistry{
		log:              logger,
		root:             cfg.GuidelineRoot,
		mergeEventsDelay: time.Duration(cfg.MergeEventsMs) * time.Millisecond,
		chunkifier: &DefaultChunkifier{
			chunkSize:    cfg.ChunkSize,
			chunkOverlap: cfg.ChunkOverlap,
		},
		readers: []fileReader{&readers.MarkdownFileReader{}, &readers.UniversalFileReader{}},
	}
	if store != nil {
		reg.index = store
	}

	go func() {
		if err := reg.Sync(ctx); err != nil {
			logger.Warn("failed to sync guidelines", "error", err)
		}

		if err := reg.Watch(ctx); err != nil {
			logger.Warn("guideline watching disabled", "error", err)
		}
	}()

	var local retrieval.Searcher = retrieval.NewKeywordSearcher(reg)
	if store != nil {
		local = retrieval.NewFallback(vecstore.NewSearcher(store), local, logger)
	}

	var web retrieval.Searcher
	if cfg.Exa != nil && cfg.Exa.ApiKey != "" {
		exa, err := websearch.NewClient(websearch.Config{ApiKey: cfg.Exa.ApiKey})
		if err != nil {
			log.Fatal(err)
		}

		web = exa
	}

	retriever := retrieval.NewRetriever(retrieval.RetrieverConfig{
		Local:        local,
		Web:          web,
		LocalResults: cfg.LocalResults,
		WebResults:   cfg.WebResults,
		Log:          logger,
	})

	gen := newGenerator(ctx, cfg, logger)
	if closer, ok := gen.(io.Closer); ok {
		defer closer.Close()
	}

	engine := triage.NewEngine(triage.EngineConfig{
		Generator: gen,
		Retriever: retriever,
		Log:       logger,
	})

	srv := NewTriageServer(engine, retriever, logger)
	sse := server.NewSSEServer(srv, server.WithBaseURL(fmt.Sprintf("http://%s", cfg.ServerAddr)))
	log.Println(sse.Start(cfg.ServerAddr))
}
