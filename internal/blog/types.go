package blog

import (
	"context"
	"errors"
	"html/template"
	"strings"
)

// CategoryAll is the filter sentinel that matches every category.
const CategoryAll = "all"

// Post is one entry of the post index.
type Post struct {
	Slug     string   `json:"slug"`
	Title    string   `json:"title"`
	Category string   `json:"category"`
	Date     string   `json:"date"`
	Excerpt  string   `json:"excerpt"`
	Tags     []string `json:"tags,omitempty"`
	Meta     string   `json:"meta,omitempty"`
}

// Haystack returns the lowercased text a search query is matched against.
func (p Post) Haystack() string {
	parts := []string{p.Category, p.Title, p.Excerpt, strings.Join(p.Tags, " ")}
	if p.Meta != "" {
		parts = append(parts, p.Meta)
	}
	return strings.ToLower(strings.Join(parts, " "))
}

// Detail is a resolved detail view: the record plus its body fragment.
type Detail struct {
	Post        Post
	DisplayDate string
	PageTitle   string
	Body        template.HTML
}

// Index is anything that can answer listing and lookup queries over the
// post index. The Loader and the SQLite catalog both implement it.
type Index interface {
	Posts(ctx context.Context, category, query string) ([]Post, error)
	Post(ctx context.Context, slug string) (Post, error)
}

// BodyLoader fetches the pre-rendered body fragment for a slug.
type BodyLoader interface {
	LoadBody(ctx context.Context, slug string) (template.HTML, error)
}

var (
	ErrLoad            = errors.New("load failed")
	ErrParse           = errors.New("malformed response")
	ErrMissingParam    = errors.New("missing ?slug=")
	ErrNotFound        = errors.New("post not found in posts.json")
	ErrMissingResource = errors.New("missing")
)
