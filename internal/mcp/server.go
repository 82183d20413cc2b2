// Package mcp exposes the post index to MCP clients over stdio.
package mcp

import (
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/ziadkadry99/decrypt/internal/blog"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Server wraps an MCP server that exposes post search and lookup tools.
type Server struct {
	index  blog.Index
	bodies blog.BodyLoader
	logger *zap.Logger
	mcp    *server.MCPServer
}

// NewServer creates a new MCP server over idx. bodies may be nil, in which
// case get_post never includes a body.
func NewServer(idx blog.Index, bodies blog.BodyLoader, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		index:  idx,
		bodies: bodies,
		logger: logger,
	}

	s.mcp = server.NewMCPServer(
		"decrypt",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

func (s *Server) registerTools() {
	s.mcp.AddTool(searchPostsTool, s.handleSearchPosts)
	s.mcp.AddTool(getPostTool, s.handleGetPost)
	s.mcp.AddTool(listCategoriesTool, s.handleListCategories)
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
