package mcp

import "github.com/mark3labs/mcp-go/mcp"

// searchPostsTool defines the search_posts MCP tool.
var searchPostsTool = mcp.NewTool("search_posts",
	mcp.WithDescription("Search blog posts by text and category. Matches the category, title, excerpt and tags case-insensitively, in index order."),
	mcp.WithString("query",
		mcp.Description("Text to search for. Empty matches every post."),
	),
	mcp.WithString("category",
		mcp.Description(`Category to restrict to (default "all")`),
	),
	mcp.WithNumber("limit",
		mcp.Description("Maximum number of results to return (default 20)"),
	),
)

// getPostTool defines the get_post MCP tool.
var getPostTool = mcp.NewTool("get_post",
	mcp.WithDescription("Get a single post record by slug, optionally with its HTML body."),
	mcp.WithString("slug",
		mcp.Required(),
		mcp.Description("The post slug"),
	),
	mcp.WithBoolean("include_body",
		mcp.Description("Include the rendered HTML body (default true)"),
	),
)

// listCategoriesTool defines the list_categories MCP tool.
var listCategoriesTool = mcp.NewTool("list_categories",
	mcp.WithDescription(`List the categories present in the post index, "all" first.`),
)
