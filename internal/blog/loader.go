package blog

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"path"
	"strings"

	"github.com/adrg/frontmatter"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"go.uber.org/zap"
)

const (
	DefaultIndexPath = "posts.json"
	DefaultPostsDir  = "posts"
)

// Loader reads the post index and per-post body fragments from a Source.
// Every call goes back to the source; nothing is cached.
type Loader struct {
	IndexPath string
	PostsDir  string

	src    Source
	md     goldmark.Markdown
	logger *zap.Logger
}

// NewLoader creates a Loader with the conventional resource layout.
func NewLoader(src Source, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{
		IndexPath: DefaultIndexPath,
		PostsDir:  DefaultPostsDir,
		src:       src,
		md: goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
				highlighting.NewHighlighting(
					highlighting.WithStyle("monokai"),
				),
			),
			goldmark.WithParserOptions(
				parser.WithAutoHeadingID(),
			),
			goldmark.WithRendererOptions(
				html.WithUnsafe(),
			),
		),
		logger: logger,
	}
}

// LoadIndex fetches and decodes the full post index.
func (l *Loader) LoadIndex(ctx context.Context) ([]Post, error) {
	var posts []Post
	if err := FetchJSON(ctx, l.src, l.IndexPath, &posts); err != nil {
		l.logger.Error("loading post index", zap.String("path", l.IndexPath), zap.Error(err))
		return nil, err
	}
	l.logger.Debug("post index loaded", zap.Int("posts", len(posts)))
	return posts, nil
}

// Posts loads the index and applies the category and query filter.
func (l *Loader) Posts(ctx context.Context, category, query string) ([]Post, error) {
	posts, err := l.LoadIndex(ctx)
	if err != nil {
		return nil, err
	}
	return ApplyFilter(posts, category, query), nil
}

// Post loads the index and returns the record for slug.
func (l *Loader) Post(ctx context.Context, slug string) (Post, error) {
	if slug == "" {
		return Post{}, ErrMissingParam
	}
	posts, err := l.LoadIndex(ctx)
	if err != nil {
		return Post{}, err
	}
	return Lookup(posts, slug)
}

// LoadBody fetches the pre-rendered HTML fragment for slug. For filesystem
// sources a markdown fragment is rendered when no HTML fragment exists.
func (l *Loader) LoadBody(ctx context.Context, slug string) (template.HTML, error) {
	htmlPath := path.Join(l.PostsDir, slug+".html")
	if slug == "" || strings.ContainsAny(slug, `/\`) || slug == ".." {
		return "", fmt.Errorf("%w: %s", ErrMissingResource, htmlPath)
	}

	text, err := l.src.FetchText(ctx, htmlPath)
	if err == nil {
		return template.HTML(text), nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("%w: %s: %w", ErrMissingResource, htmlPath, err)
	}

	mdPath := path.Join(l.PostsDir, slug+".md")
	source, mdErr := l.src.FetchText(ctx, mdPath)
	if mdErr != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrMissingResource, htmlPath, err)
	}
	body, err := l.renderMarkdown(source)
	if err != nil {
		return "", fmt.Errorf("rendering %s: %w", mdPath, err)
	}
	l.logger.Debug("rendered markdown fragment", zap.String("path", mdPath))
	return body, nil
}

// renderMarkdown converts a markdown fragment, dropping any front matter.
func (l *Loader) renderMarkdown(source string) (template.HTML, error) {
	var meta map[string]any
	content, err := frontmatter.Parse(strings.NewReader(source), &meta)
	if err != nil {
		content = []byte(source)
	}

	var buf bytes.Buffer
	if err := l.md.Convert(content, &buf); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

// ResolveDetail builds the detail view for slug. The body is only fetched
// once the record has been found. When the body fails to load the returned
// Detail still carries the record fields, with an empty Body.
func ResolveDetail(ctx context.Context, idx Index, bodies BodyLoader, slug string) (*Detail, error) {
	if slug == "" {
		return nil, ErrMissingParam
	}
	p, err := idx.Post(ctx, slug)
	if err != nil {
		return nil, err
	}
	d := &Detail{
		Post:        p,
		DisplayDate: FormatDate(p.Date),
		PageTitle:   PageTitle(DefaultSiteTitle, p),
	}
	body, err := bodies.LoadBody(ctx, slug)
	if err != nil {
		return d, err
	}
	d.Body = body
	return d, nil
}

// Detail resolves the detail view for slug against this loader's index.
func (l *Loader) Detail(ctx context.Context, slug string) (*Detail, error) {
	d, err := ResolveDetail(ctx, l, l, slug)
	if err != nil {
		l.logger.Warn("detail view failed", zap.String("slug", slug), zap.Error(err))
	}
	return d, err
}
