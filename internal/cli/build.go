package cli

import (
	"fmt"
	"path/filepath"
	"time"

	"docchat/internal/chunker"
	"docchat/internal/config"
	"docchat/internal/engine"
	"docchat/internal/extract"
	"docchat/internal/logger"
	"docchat/internal/ollama"
	"docchat/internal/profile"
	profilefs "docchat/internal/profile/fs"
	profilesqlite "docchat/internal/profile/sqlite"
	"docchat/internal/session"
	"docchat/internal/summarizer"
	"docchat/internal/vectorstore"
	"docchat/internal/vectorstore/file"
	"docchat/internal/vectorstore/memory"
	"docchat/internal/vectorstore/qdrant"
)

func loadConfig() (*config.AppConfig, error) {
	if cfgPath != "" {
		return config.Load(cfgPath)
	}
	cfg, path, err := config.LoadDefault()
	if err != nil {
		return nil, err
	}
	logger.Debugf("config loaded from %s", path)
	return cfg, nil
}

// buildProfileStore assembles the profile store selected by config.
func buildProfileStore(cfg *config.AppConfig) (profile.Store, error) {
	dataDir, err := cfg.ResolveDataDir()
	if err != nil {
		return nil, err
	}
	switch cfg.Profiles.Backend {
	case "fs", "":
		return profilefs.New(filepath.Join(dataDir, "profiles"))
	case "sqlite":
		return profilesqlite.New(dataDir)
	default:
		return nil, fmt.Errorf("unknown profile backend: %s", cfg.Profiles.Backend)
	}
}

func buildVectorStore(cfg *config.AppConfig) (vectorstore.Storage, error) {
	switch cfg.VectorStore.Backend {
	case "memory", "":
		return memory.NewStorage(), nil
	case "file":
		dataDir, err := cfg.ResolveDataDir()
		if err != nil {
			return nil, err
		}
		return file.NewStorage(filepath.Join(dataDir, "index"))
	case "qdrant":
		if cfg.VectorStore.Qdrant == nil {
			return nil, fmt.Errorf("qdrant config missing")
		}
		return qdrant.NewStorage(qdrant.Config{
			URL:        cfg.VectorStore.Qdrant.URL,
			APIKey:     cfg.VectorStore.Qdrant.APIKey,
			Collection: cfg.VectorStore.Qdrant.Collection,
		}), nil
	default:
		return nil, fmt.Errorf("unknown vector store: %s", cfg.VectorStore.Backend)
	}
}

// buildSession assembles the full application and returns the session
// plus a cleanup function for held resources.
func buildSession() (*session.Session, func(), error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}
	store, err := buildProfileStore(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("profile store: %w", err)
	}
	vs, err := buildVectorStore(cfg)
	if err != nil {
		store.Close()
		return nil, nil, fmt.Errorf("vector store: %w", err)
	}
	backend := ollama.New(ollama.Config{
		BaseURL:        cfg.Ollama.BaseURL,
		LLMModel:       cfg.Ollama.LLMModel,
		EmbeddingModel: cfg.Ollama.EmbeddingModel,
		Timeout:        time.Duration(cfg.Ollama.TimeoutSecs) * time.Second,
		HealthRetries:  cfg.Ollama.HealthRetries,
		HealthDelay:    time.Duration(cfg.Ollama.HealthDelaySecs) * time.Second,
	})
	eng := engine.New(
		backend,
		extract.New(),
		chunker.NewCharacterChunker(cfg.Chunker.Size, cfg.Chunker.Overlap),
		summarizer.NewFrequency(),
		vs,
		cfg.Summary.MaxSentences,
	)
	sess := session.New(store, eng, cfg.Retrieval.TopK, cfg.Retrieval.ScoreThreshold)
	cleanup := func() { store.Close() }
	return sess, cleanup, nil
}
