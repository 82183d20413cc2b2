package cmd

import (
	"context"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/ziadkadry99/decrypt/internal/blog"
	"github.com/ziadkadry99/decrypt/internal/catalog"
	"github.com/ziadkadry99/decrypt/internal/config"
	"github.com/ziadkadry99/decrypt/internal/db"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `decrypt init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfgFile, err)
	}
	return cfg, nil
}

// newLoader creates a loader over the configured source and layout.
func newLoader(cfg *config.Config) *blog.Loader {
	l := blog.NewLoader(cfg.Source(), logger.Named("blog"))
	l.IndexPath = cfg.IndexPath
	l.PostsDir = cfg.PostsDir
	return l
}

// sourceName describes where the index is loaded from.
func sourceName(cfg *config.Config) string {
	if cfg.BaseURL != "" {
		return cfg.BaseURL
	}
	return filepath.Join(cfg.ContentDir, cfg.IndexPath)
}

// openIndex returns the index queries are answered from. With a cache path
// the index is mirrored into SQLite and the returned store must be
// refreshed when content changes; otherwise the loader itself is used.
func openIndex(ctx context.Context, cfg *config.Config, loader *blog.Loader, cachePath string) (blog.Index, *catalog.Store, func(), error) {
	if cachePath == "" {
		return loader, nil, func() {}, nil
	}

	database, err := db.Open(cachePath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("opening cache: %w", err)
	}
	store := catalog.NewStore(database)

	id, err := store.Refresh(ctx, sourceName(cfg), loader)
	if err != nil {
		database.Close()
		return nil, nil, nil, fmt.Errorf("importing index into cache: %w", err)
	}
	logger.Info("post index cached",
		zap.String("path", database.Path()),
		zap.String("import_id", id))

	return store, store, func() { database.Close() }, nil
}
