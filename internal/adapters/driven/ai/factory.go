// Package ai provides factory functions for creating AI service and
// vector store adapters from configuration.
package ai

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/nyayalabs/nyaya-cli/internal/adapters/driven/config/file"
	openaiembed "github.com/nyayalabs/nyaya-cli/internal/adapters/driven/embedding/openai"
	groqllm "github.com/nyayalabs/nyaya-cli/internal/adapters/driven/llm/groq"
	ollamallm "github.com/nyayalabs/nyaya-cli/internal/adapters/driven/llm/ollama"
	astrastore "github.com/nyayalabs/nyaya-cli/internal/adapters/driven/vectorstore/astra"
	chromemstore "github.com/nyayalabs/nyaya-cli/internal/adapters/driven/vectorstore/chromem"
	memorystore "github.com/nyayalabs/nyaya-cli/internal/adapters/driven/vectorstore/memory"
	"github.com/nyayalabs/nyaya-cli/internal/core/domain"
	"github.com/nyayalabs/nyaya-cli/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// Environment variables carrying credentials. API keys are never read
// from the config file.
const (
	EnvGroqAPIKey   = "GROQ_API_KEY"
	EnvOpenAIAPIKey = "OPENAI_API_KEY"
	EnvAstraToken   = "ASTRA_DB_TOKEN"
)

// CreateCompletionService creates the configured completion provider
// and validates connectivity.
func CreateCompletionService(cfg file.CompletionConfig) (driven.CompletionService, error) {
	provider := domain.CompletionProvider(cfg.Provider)
	if !provider.IsValid() {
		return nil, fmt.Errorf("unsupported completion provider: %s", cfg.Provider)
	}

	var (
		svc driven.CompletionService
		err error
	)
	switch provider {
	case domain.CompletionProviderGroq:
		svc, err = groqllm.New(groqllm.Config{
			APIKey:  os.Getenv(EnvGroqAPIKey),
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
		})
	case domain.CompletionProviderOllama:
		svc = ollamallm.New(ollamallm.Config{
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
		})
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrCompletionUnavailable, err)
	}

	if err := ping(svc.Ping); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: %s unreachable: %w", domain.ErrCompletionUnavailable, provider, err)
	}
	return svc, nil
}

// CreateEmbeddingService creates the OpenAI embedding service and
// validates connectivity.
func CreateEmbeddingService(cfg file.EmbeddingConfig) (driven.EmbeddingService, error) {
	svc, err := openaiembed.New(openaiembed.Config{
		APIKey:  os.Getenv(EnvOpenAIAPIKey),
		BaseURL: cfg.BaseURL,
		Model:   cfg.Model,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrEmbeddingUnavailable, err)
	}

	if err := ping(svc.Ping); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: embedding service unreachable: %w", domain.ErrEmbeddingUnavailable, err)
	}
	return svc, nil
}

// CreateVectorStore creates the configured vector store backend.
// configDir anchors on-disk storage for the embedded backend.
func CreateVectorStore(cfg file.RetrievalConfig, configDir string, embedder driven.EmbeddingService) (driven.VectorStore, error) {
	backend := domain.VectorBackend(cfg.Backend)
	if !backend.IsValid() {
		return nil, fmt.Errorf("unsupported vector backend: %s", cfg.Backend)
	}

	switch backend {
	case domain.VectorBackendChromem:
		return chromemstore.New(chromemstore.Config{
			Path: filepath.Join(configDir, "vectors"),
		}, embedder)

	case domain.VectorBackendAstra:
		return astrastore.New(astrastore.Config{
			Endpoint: cfg.AstraEndpoint,
			Token:    os.Getenv(EnvAstraToken),
			Keyspace: cfg.AstraKeyspace,
		}, embedder)

	case domain.VectorBackendMemory:
		return memorystore.New(embedder), nil
	}

	return nil, fmt.Errorf("unsupported vector backend: %s", cfg.Backend)
}

// ping runs a connectivity check with a bounded timeout.
func ping(fn func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	return fn(ctx)
}
