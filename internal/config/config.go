package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// OllamaConfig holds connection details for the local model backend.
type OllamaConfig struct {
	BaseURL         string `yaml:"base_url"`
	LLMModel        string `yaml:"llm_model"`
	EmbeddingModel  string `yaml:"embedding_model"`
	TimeoutSecs     int    `yaml:"timeout_secs"`
	HealthRetries   int    `yaml:"health_retries"`
	HealthDelaySecs int    `yaml:"health_delay_secs"`
}

// ChunkerConfig configures how extracted text is split into chunks.
type ChunkerConfig struct {
	Size    int `yaml:"size"`
	Overlap int `yaml:"overlap"`
}

// RetrievalConfig holds the defaults applied to every question.
type RetrievalConfig struct {
	TopK           int     `yaml:"top_k"`
	ScoreThreshold float64 `yaml:"score_threshold"`
}

// ProfilesConfig selects the profile store backend.
type ProfilesConfig struct {
	Backend string `yaml:"backend"`
}

// QdrantConfig contains connection details for a Qdrant vector store.
type QdrantConfig struct {
	URL        string `yaml:"url"`
	APIKey     string `yaml:"api_key"`
	Collection string `yaml:"collection"`
}

// VectorStoreConfig selects and configures the vector store implementation.
type VectorStoreConfig struct {
	Backend string        `yaml:"backend"`
	Qdrant  *QdrantConfig `yaml:"qdrant,omitempty"`
}

// SummaryConfig configures the post-ingest document digest.
type SummaryConfig struct {
	MaxSentences int `yaml:"max_sentences"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	DataDir     string            `yaml:"data_dir"`
	Ollama      OllamaConfig      `yaml:"ollama"`
	Chunker     ChunkerConfig     `yaml:"chunker"`
	Retrieval   RetrievalConfig   `yaml:"retrieval"`
	Profiles    ProfilesConfig    `yaml:"profiles"`
	VectorStore VectorStoreConfig `yaml:"vector_store"`
	Summary     SummaryConfig     `yaml:"summary"`
}

// Load reads a config from a specified path. If the file does not exist,
// returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return defaultConfig(), nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyConfigDefaults(&cfg)
	return &cfg, nil
}

// LoadDefault tries ./config.yaml first, then ~/.config/docchat/config.yaml.
// If neither exists, it writes defaults to the user path and returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "config.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := defaultConfig()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	return cfg, userPath, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// ResolveDataDir expands a leading ~ in DataDir and returns an absolute
// location for stores to live under.
func (c *AppConfig) ResolveDataDir() (string, error) {
	dir := c.DataDir
	if dir == "" {
		dir = "~/.docchat"
	}
	if strings.HasPrefix(dir, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(home, strings.TrimPrefix(dir, "~"))
	}
	return dir, nil
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "docchat", "config.yaml"), nil
}

func defaultConfig() *AppConfig {
	return &AppConfig{
		DataDir: "~/.docchat",
		Ollama: OllamaConfig{
			BaseURL:         "http://localhost:11434",
			LLMModel:        "deepseek-r1:latest",
			EmbeddingModel:  "mxbai-embed-large",
			TimeoutSecs:     120,
			HealthRetries:   5,
			HealthDelaySecs: 2,
		},
		Chunker:     ChunkerConfig{Size: 1024, Overlap: 100},
		Retrieval:   RetrievalConfig{TopK: 5, ScoreThreshold: 0.2},
		Profiles:    ProfilesConfig{Backend: "fs"},
		VectorStore: VectorStoreConfig{Backend: "memory"},
		Summary:     SummaryConfig{MaxSentences: 3},
	}
}

func applyConfigDefaults(cfg *AppConfig) {
	def := defaultConfig()
	if cfg.DataDir == "" {
		cfg.DataDir = def.DataDir
	}
	if cfg.Ollama.BaseURL == "" {
		cfg.Ollama.BaseURL = def.Ollama.BaseURL
	}
	if cfg.Ollama.LLMModel == "" {
		cfg.Ollama.LLMModel = def.Ollama.LLMModel
	}
	if cfg.Ollama.EmbeddingModel == "" {
		cfg.Ollama.EmbeddingModel = def.Ollama.EmbeddingModel
	}
	if cfg.Ollama.TimeoutSecs == 0 {
		cfg.Ollama.TimeoutSecs = def.Ollama.TimeoutSecs
	}
	if cfg.Ollama.HealthRetries == 0 {
		cfg.Ollama.HealthRetries = def.Ollama.HealthRetries
	}
	if cfg.Ollama.HealthDelaySecs == 0 {
		cfg.Ollama.HealthDelaySecs = def.Ollama.HealthDelaySecs
	}
	if cfg.Chunker.Size == 0 {
		cfg.Chunker.Size = def.Chunker.Size
	}
	if cfg.Chunker.Overlap == 0 {
		cfg.Chunker.Overlap = def.Chunker.Overlap
	}
	if cfg.Retrieval.TopK == 0 {
		cfg.Retrieval.TopK = def.Retrieval.TopK
	}
	if cfg.Retrieval.ScoreThreshold == 0 {
		cfg.Retrieval.ScoreThreshold = def.Retrieval.ScoreThreshold
	}
	if cfg.Profiles.Backend == "" {
		cfg.Profiles.Backend = def.Profiles.Backend
	}
	if cfg.VectorStore.Backend == "" {
		cfg.VectorStore.Backend = def.VectorStore.Backend
	}
	if cfg.Summary.MaxSentences == 0 {
		cfg.Summary.MaxSentences = def.Summary.MaxSentences
	}
}
