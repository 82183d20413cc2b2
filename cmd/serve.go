package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ziadkadry99/decrypt/internal/config"
	"github.com/ziadkadry99/decrypt/internal/server"
	"github.com/ziadkadry99/decrypt/internal/site"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the blog over HTTP",
	Long: `Serves the listing, post pages, JSON API and background image. With
--watch the content directory is watched and open pages reload when posts
change. With --cache the post index is mirrored into SQLite.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().Int("port", 0, "port to listen on (defaults to port from config)")
	serveCmd.Flags().Bool("watch", false, "watch the content directory and live-reload pages")
	serveCmd.Flags().String("cache", "", "SQLite cache path for the post index (defaults to cache_path)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if port, _ := cmd.Flags().GetInt("port"); port > 0 {
		cfg.Port = port
	}
	if cmd.Flags().Changed("watch") {
		cfg.Watch, _ = cmd.Flags().GetBool("watch")
	}
	if cache, _ := cmd.Flags().GetString("cache"); cache != "" {
		cfg.CachePath = cache
	}
	if cfg.Watch && cfg.BaseURL != "" {
		return fmt.Errorf("--watch needs a local content_dir, not base_url")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loader := newLoader(cfg)
	index, store, closeIndex, err := openIndex(ctx, cfg, loader, cfg.CachePath)
	if err != nil {
		return err
	}
	defer closeIndex()

	pages, err := site.NewPages(cfg.SiteTitle)
	if err != nil {
		return err
	}

	var hub *site.Hub
	if cfg.Watch {
		hub = site.NewHub(logger.Named("reload"))
		defer hub.Close()
	}

	var staticDir string
	if cfg.BaseURL == "" {
		dir := filepath.Join(cfg.ContentDir, "static")
		if fi, err := os.Stat(dir); err == nil && fi.IsDir() {
			staticDir = dir
		}
	}

	srv := server.New(server.Config{Port: cfg.Port, AllowAll: true}, logger.Named("http"))
	site.NewHandler(site.HandlerConfig{
		Index:     index,
		Bodies:    loader,
		Pages:     pages,
		Animation: cfg.Animation.Animator(),
		Seed:      cfg.Animation.Seed,
		StaticDir: staticDir,
		Hub:       hub,
		Logger:    logger.Named("site"),
	}).RegisterRoutes(srv.Router())

	if hub != nil {
		w := &site.Watcher{
			Dir:    cfg.ContentDir,
			Ignore: watchIgnores(cfg),
			Logger: logger.Named("watch"),
		}
		go func() {
			err := w.Run(ctx, func(changed []string) {
				if store != nil {
					if _, err := store.Refresh(ctx, sourceName(cfg), loader); err != nil {
						logger.Warn("cache refresh failed, serving previous index", zap.Error(err))
					}
				}
				hub.Broadcast(changed)
			})
			if err != nil {
				logger.Error("watcher stopped", zap.Error(err))
			}
		}()
	}

	// Graceful shutdown.
	go func() {
		<-ctx.Done()
		logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	fmt.Fprintf(cmd.ErrOrStderr(), "decrypt %s serving at http://localhost:%d — press Ctrl+C to stop\n", Version, cfg.Port)
	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// watchIgnores keeps build output and the cache file from triggering
// reloads when they live under the content directory.
func watchIgnores(cfg *config.Config) []string {
	ignore := []string{".git", ".git/**"}
	for _, p := range []string{cfg.OutputDir, cfg.CachePath} {
		if p == "" {
			continue
		}
		rel, err := filepath.Rel(cfg.ContentDir, p)
		if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
			continue
		}
		rel = filepath.ToSlash(rel)
		ignore = append(ignore, rel, rel+"/**", rel+"-*")
	}
	return ignore
}
