package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"

	"github.com/ziadkadry99/decrypt/internal/blog"
)

// handleSearchPosts filters the index by category and query.
func (s *Server) handleSearchPosts(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query := request.GetString("query", "")
	category := request.GetString("category", blog.CategoryAll)

	limit := request.GetInt("limit", 20)
	if limit <= 0 {
		limit = 20
	}

	posts, err := s.index.Posts(ctx, category, query)
	if err != nil {
		s.logger.Warn("search_posts failed", zap.Error(err))
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}

	if len(posts) == 0 {
		return mcp.NewToolResultText("No posts matched."), nil
	}
	total := len(posts)
	if len(posts) > limit {
		posts = posts[:limit]
	}

	return mcp.NewToolResultText(formatPosts(posts, total)), nil
}

// handleGetPost returns one record and, unless disabled, its body.
func (s *Server) handleGetPost(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	slug, err := request.RequireString("slug")
	if err != nil || slug == "" {
		return mcp.NewToolResultError("missing required parameter: slug"), nil
	}

	p, err := s.index.Post(ctx, slug)
	if err != nil {
		if errors.Is(err, blog.ErrNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("No post with slug %q.", slug)), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("failed to load post: %v", err)), nil
	}

	var sb strings.Builder
	writePost(&sb, p)

	if s.bodies != nil && request.GetBool("include_body", true) {
		body, err := s.bodies.LoadBody(ctx, slug)
		if err != nil {
			sb.WriteString(fmt.Sprintf("\nBody unavailable: %v\n", err))
		} else {
			sb.WriteString("\n")
			sb.WriteString(string(body))
			sb.WriteString("\n")
		}
	}

	return mcp.NewToolResultText(sb.String()), nil
}

// handleListCategories lists the filter values of the index.
func (s *Server) handleListCategories(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	posts, err := s.index.Posts(ctx, blog.CategoryAll, "")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to load index: %v", err)), nil
	}
	return mcp.NewToolResultText(strings.Join(blog.Categories(posts), "\n")), nil
}

// formatPosts renders search results for agent consumption.
func formatPosts(posts []blog.Post, total int) string {
	var sb strings.Builder
	if total > len(posts) {
		sb.WriteString(fmt.Sprintf("Found %d post(s), showing %d:\n", total, len(posts)))
	} else {
		sb.WriteString(fmt.Sprintf("Found %d post(s):\n", total))
	}

	for i, p := range posts {
		sb.WriteString(fmt.Sprintf("\n--- Result %d ---\n", i+1))
		writePost(&sb, p)
	}

	return sb.String()
}

func writePost(sb *strings.Builder, p blog.Post) {
	sb.WriteString(fmt.Sprintf("Title: %s\n", p.Title))
	sb.WriteString(fmt.Sprintf("Slug: %s\n", p.Slug))
	if p.Category != "" {
		sb.WriteString(fmt.Sprintf("Category: %s\n", p.Category))
	}
	if p.Date != "" {
		sb.WriteString(fmt.Sprintf("Date: %s\n", blog.FormatDate(p.Date)))
	}
	if len(p.Tags) > 0 {
		sb.WriteString(fmt.Sprintf("Tags: %s\n", strings.Join(p.Tags, ", ")))
	}
	sb.WriteString(fmt.Sprintf("Link: %s\n", blog.QueryHref(p.Slug)))
	if p.Excerpt != "" {
		sb.WriteString("\n")
		sb.WriteString(p.Excerpt)
		sb.WriteString("\n")
	}
}
