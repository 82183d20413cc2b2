package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	mcpserver "github.com/ziadkadry99/decrypt/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server for AI agent integration",
	Long:  `Starts a Model Context Protocol (MCP) server on stdio, exposing post search and lookup tools for AI agents.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		cache, _ := cmd.Flags().GetString("cache")
		if cache == "" {
			cache = cfg.CachePath
		}

		loader := newLoader(cfg)
		index, _, closeIndex, err := openIndex(cmd.Context(), cfg, loader, cache)
		if err != nil {
			return err
		}
		defer closeIndex()

		// Set version from the cmd package variable.
		mcpserver.Version = Version

		// Stdout carries the protocol; the zap logger already writes to stderr.
		fmt.Fprintf(os.Stderr, "decrypt MCP server started on stdio (source=%s)\n", sourceName(cfg))
		logger.Debug("mcp server starting", zap.Bool("cached", cache != ""))

		srv := mcpserver.NewServer(index, loader, logger.Named("mcp"))
		return srv.Serve()
	},
}

func init() {
	mcpCmd.Flags().String("cache", "", "SQLite cache path for the post index (defaults to cache_path)")
	rootCmd.AddCommand(mcpCmd)
}
