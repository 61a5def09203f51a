// Package file provides file-based configuration and prompt storage
// under the nyaya config directory.
package file

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/nyayalabs/nyaya-cli/internal/core/domain"
)

// ConfigFileName is the configuration file within the config directory.
const ConfigFileName = "config.toml"

// Config is the full application configuration, stored as TOML in the
// nyaya config directory. API keys are never stored here; they come
// from the environment.
type Config struct {
	// DataDir is where source PDF documents live.
	DataDir string `toml:"data_dir"`

	// Documents are the corpus files ingested by default, relative to
	// DataDir unless absolute.
	Documents []string `toml:"documents"`

	Completion CompletionConfig `toml:"completion"`
	Embedding  EmbeddingConfig  `toml:"embedding"`
	Retrieval  RetrievalConfig  `toml:"retrieval"`
	Chunking   ChunkingConfig   `toml:"chunking"`
	History    HistoryConfig    `toml:"history"`
	Serve      ServeConfig      `toml:"serve"`
}

// CompletionConfig selects and tunes the completion provider.
type CompletionConfig struct {
	// Provider is one of "groq" or "ollama".
	Provider string `toml:"provider"`

	// Model overrides the provider's default chat model.
	Model string `toml:"model,omitempty"`

	// BaseURL overrides the provider's default API endpoint.
	BaseURL string `toml:"base_url,omitempty"`
}

// EmbeddingConfig tunes the embedding provider.
type EmbeddingConfig struct {
	// Model overrides the default embedding model.
	Model string `toml:"model,omitempty"`

	// BaseURL overrides the default API endpoint.
	BaseURL string `toml:"base_url,omitempty"`
}

// RetrievalConfig selects and tunes the vector store.
type RetrievalConfig struct {
	// Backend is one of "chromem", "astra", or "memory".
	Backend string `toml:"backend"`

	// TopK is the number of chunks retrieved per query.
	TopK int `toml:"top_k"`

	// AstraEndpoint is the Astra DB API endpoint (astra backend only).
	AstraEndpoint string `toml:"astra_endpoint,omitempty"`

	// AstraKeyspace is the Astra DB keyspace (astra backend only).
	AstraKeyspace string `toml:"astra_keyspace,omitempty"`
}

// ChunkingConfig tunes the text chunker.
type ChunkingConfig struct {
	Size    int `toml:"size"`
	Overlap int `toml:"overlap"`
}

// HistoryConfig tunes session history.
type HistoryConfig struct {
	// MaxTurns bounds turns kept per session. Zero disables the bound.
	MaxTurns int `toml:"max_turns"`
}

// ServeConfig tunes the HTTP server.
type ServeConfig struct {
	// Addr is the listen address.
	Addr string `toml:"addr"`
}

// Default returns the configuration used when no file exists yet.
func Default(configDir string) Config {
	return Config{
		DataDir:   filepath.Join(configDir, "data"),
		Documents: []string{"BNS.pdf", "BSA.pdf", "BNSS.pdf"},
		Completion: CompletionConfig{
			Provider: domain.CompletionProviderGroq.String(),
		},
		Retrieval: RetrievalConfig{
			Backend: domain.VectorBackendChromem.String(),
			TopK:    5,
		},
		Chunking: ChunkingConfig{
			Size:    1000,
			Overlap: 200,
		},
		History: HistoryConfig{
			MaxTurns: 50,
		},
		Serve: ServeConfig{
			Addr: ":8080",
		},
	}
}

// DefaultConfigDir returns ~/.nyaya.
func DefaultConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	return filepath.Join(home, ".nyaya"), nil
}

// LoadConfig reads the configuration from configDir, writing the
// default file first when none exists. Unset fields are filled with
// defaults so older config files keep working.
func LoadConfig(configDir string) (Config, error) {
	if configDir == "" {
		dir, err := DefaultConfigDir()
		if err != nil {
			return Config{}, err
		}
		configDir = dir
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return Config{}, fmt.Errorf("create config directory: %w", err)
	}

	path := filepath.Join(configDir, ConfigFileName)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		cfg := Default(configDir)
		if err := SaveConfig(configDir, cfg); err != nil {
			return Config{}, err
		}
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	cfg := Default(configDir)
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// SaveConfig writes the configuration to configDir with restricted
// permissions.
func SaveConfig(configDir string, cfg Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	path := filepath.Join(configDir, ConfigFileName)
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// DocumentPaths resolves the configured corpus files against DataDir.
func (c Config) DocumentPaths() []string {
	paths := make([]string, 0, len(c.Documents))
	for _, doc := range c.Documents {
		if filepath.IsAbs(doc) {
			paths = append(paths, doc)
			continue
		}
		paths = append(paths, filepath.Join(c.DataDir, doc))
	}
	return paths
}
