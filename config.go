package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type GeminiConfig struct {
	ApiKey         string `yaml:"api_key"`
	EmbeddingModel string `yaml:"embedding_model"`
}

type OpenAIConfig struct {
	ApiKey         string `yaml:"api_key"`
	EmbeddingModel string `yaml:"embedding_model"`
	ChatModel      string `yaml:"chat_model"`
}

type OllamaConfig struct {
	Addr  string `yaml:"addr"`
	Model string `yaml:"model"`
}

type ExaConfig struct {
	ApiKey string `yaml:"api_key"`
}

type Config struct {
	LogFile       string        `yaml:"log"`
	GuidelineRoot string        `yaml:"guideline_root"`
	MergeEventsMs int           `yaml:"write_debounce_ms"`
	ChunkSize     int           `yaml:"chunk_size"`
	ChunkOverlap  int           `yaml:"chunk_overlap"`
	RequestSize   int           `yaml:"request_size"`
	LocalResults  int           `yaml:"local_results"`
	WebResults    int           `yaml:"web_results"`
	ServerAddr    string        `yaml:"server_addr"`
	Gemini        *GeminiConfig `yaml:"gemini"`
	OpenAI        *OpenAIConfig `yaml:"open_ai"`
	Ollama        *OllamaConfig `yaml:"ollama"`
	Exa           *ExaConfig    `yaml:"exa"`
}

func readConfig(cfgPath string) (*Config, error) {
	cfgFile, err := os.Open(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("unable to open config file: %w", err)
	}
	defer cfgFile.Close()

	cfg := &Config{}
	dec := yaml.NewDecoder(cfgFile)
	err = dec.Decode(cfg)
	if err != nil {
		return nil, fmt.Errorf("unable to parse config file: %w", err)
	}

	applyEnvKeys(cfg)
	applyDefaults(cfg)

	return cfg, nil
}

// applyEnvKeys backfills API keys from the environment so the config file
// never has to hold secrets. Keys present in the file win over the
// environment.
func applyEnvKeys(cfg *Config) {
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		if cfg.Gemini == nil {
			cfg.Gemini = &GeminiConfig{}
		}
		if cfg.Gemini.ApiKey == "" {
			cfg.Gemini.ApiKey = key
		}
	}

	if key := os.Getenv("OPENAI_API_KEY"); key != "" && cfg.OpenAI != nil && cfg.OpenAI.ApiKey == "" {
		cfg.OpenAI.ApiKey = key
	}

	if key := os.Getenv("EXA_API_KEY"); key != "" {
		if cfg.Exa == nil {
			cfg.Exa = &ExaConfig{}
		}
		if cfg.Exa.ApiKey == "" {
			cfg.Exa.ApiKey = key
		}
	}
}

func applyDefaults(cfg *Config) {
	if cfg.LogFile == "" {
		cfg.LogFile = "triage-mcp.log"
	}
	if cfg.GuidelineRoot == "" {
		cfg.GuidelineRoot = "guidelines"
	}
	if cfg.MergeEventsMs == 0 {
		cfg.MergeEventsMs = 500
	}
	if cfg.ChunkSize == 0 {
		cfg.ChunkSize = 1000
	}
	if cfg.ChunkOverlap == 0 {
		cfg.ChunkOverlap = 200
	}
	if cfg.ServerAddr == "" {
		cfg.ServerAddr = "localhost:8080"
	}
	if cfg.Gemini != nil && cfg.Gemini.EmbeddingModel == "" {
		cfg.Gemini.EmbeddingModel = "embedding-001"
	}
	if cfg.OpenAI != nil && cfg.OpenAI.EmbeddingModel == "" {
		cfg.OpenAI.EmbeddingModel = "text-embedding-3-small"
	}
}
