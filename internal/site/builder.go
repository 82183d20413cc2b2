package site

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ziadkadry99/decrypt/internal/animator"
	"github.com/ziadkadry99/decrypt/internal/blog"
	"github.com/ziadkadry99/decrypt/internal/canvas"
	"github.com/ziadkadry99/decrypt/internal/progress"
)

// Source is what the builder reads posts through.
type Source interface {
	LoadIndex(ctx context.Context) ([]blog.Post, error)
	blog.BodyLoader
}

// Builder writes a static snapshot of the blog. The output directory is
// itself a valid content root: it carries posts.json and posts/<slug>.html.
type Builder struct {
	Source    Source
	Pages     *Pages
	OutputDir string

	// ContentDir is the local content root used for static assets and
	// fragment discovery. Empty for remote sources.
	ContentDir string
	PostsDir   string
	Static     []string

	Animation animator.Config
	Seed      uint64

	Reporter progress.Reporter
	Logger   *zap.Logger
}

// Result summarises a build.
type Result struct {
	BuildID string
	Posts   int
	Pages   int
	Assets  int
	// Missing lists slugs whose body could not be loaded. Their pages carry
	// the error message instead of a body.
	Missing []string
	// Orphans lists fragments under PostsDir with no index record.
	Orphans  []string
	Duration time.Duration
}

// Build renders every page. A failure to load the index aborts the build;
// a failure to load one post body does not.
func (b *Builder) Build(ctx context.Context) (*Result, error) {
	start := time.Now()
	logger := b.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	reporter := b.Reporter
	if reporter == nil {
		reporter = progress.Nop{}
	}
	postsDir := b.PostsDir
	if postsDir == "" {
		postsDir = blog.DefaultPostsDir
	}

	posts, err := b.Source.LoadIndex(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading index: %w", err)
	}

	res := &Result{BuildID: uuid.New().String(), Posts: len(posts)}
	logger.Info("building site",
		zap.String("build_id", res.BuildID),
		zap.Int("posts", len(posts)),
		zap.String("output", b.OutputDir))

	for _, dir := range []string{"", "category", "p", postsDir} {
		if err := os.MkdirAll(filepath.Join(b.OutputDir, dir), 0o755); err != nil {
			return nil, fmt.Errorf("creating output dir: %w", err)
		}
	}

	if err := os.WriteFile(filepath.Join(b.OutputDir, "style.css"), []byte(cssContent), 0o644); err != nil {
		return nil, err
	}
	if err := b.writeBackground(logger); err != nil {
		return nil, err
	}
	if err := WriteIndex(posts, filepath.Join(b.OutputDir, blog.DefaultIndexPath)); err != nil {
		return nil, fmt.Errorf("writing index: %w", err)
	}

	categories := blog.Categories(posts)
	total := len(categories) + len(posts)
	reporter.Start(total)
	done := 0

	for _, c := range categories {
		rel := categoryPath(c)
		base := strings.Repeat("../", strings.Count(rel, "/"))
		if err := b.writeListing(filepath.Join(b.OutputDir, filepath.FromSlash(rel)), base, c, posts, categories); err != nil {
			return nil, fmt.Errorf("rendering %s: %w", rel, err)
		}
		done++
		res.Pages++
		reporter.Update(done, progress.Step{Kind: progress.KindListing, Name: c, Path: rel})
	}

	for _, p := range posts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rel := "p/" + PageName(p.Slug) + ".html"
		missing, err := b.writeDetail(ctx, rel, postsDir, p)
		if err != nil {
			return nil, fmt.Errorf("rendering %s: %w", rel, err)
		}
		if missing != nil {
			logger.Warn("post body failed to load", zap.String("slug", p.Slug), zap.Error(missing))
			res.Missing = append(res.Missing, p.Slug)
		}
		done++
		res.Pages++
		reporter.Update(done, progress.Step{Kind: progress.KindPost, Name: p.Slug, Path: rel, Missing: missing != nil})
	}
	reporter.Finish()

	if b.ContentDir != "" {
		fsys := os.DirFS(b.ContentDir)
		n, err := b.copyStatic(fsys)
		if err != nil {
			return nil, err
		}
		res.Assets = n
		res.Orphans, err = findOrphans(fsys, postsDir, posts)
		if err != nil {
			return nil, err
		}
		for _, o := range res.Orphans {
			logger.Warn("fragment has no index record", zap.String("path", o))
		}
	}

	res.Duration = time.Since(start)
	logger.Info("site built",
		zap.String("build_id", res.BuildID),
		zap.Int("pages", res.Pages),
		zap.Int("assets", res.Assets),
		zap.Duration("duration", res.Duration))
	return res, nil
}

// categoryPath is the output path of the listing for category c.
func categoryPath(c string) string {
	if c == blog.CategoryAll {
		return "index.html"
	}
	return "category/" + PageName(c) + ".html"
}

func (b *Builder) writeListing(outPath, base, category string, posts []blog.Post, categories []string) error {
	cards, err := b.Pages.Cards(blog.ApplyFilter(posts, category, ""), func(slug string) string {
		return base + "p/" + PageName(slug) + ".html"
	})
	if err != nil {
		return err
	}
	data := ListingData{
		BasePath: base,
		Category: category,
		Filters: b.Pages.Filters(categories, category, func(c string) string {
			return base + categoryPath(c)
		}),
		Cards: cards,
	}
	return writeFile(outPath, func(w io.Writer) error { return b.Pages.Listing(w, data) })
}

// writeDetail renders the detail page for p. The returned missing error is
// set when the body could not be loaded; the page is still written.
func (b *Builder) writeDetail(ctx context.Context, rel, postsDir string, p blog.Post) (missing error, err error) {
	data := DetailData{
		BasePath:    "../",
		Post:        p,
		DisplayDate: blog.FormatDate(p.Date),
		PageTitle:   b.Pages.PostTitle(p),
	}
	body, loadErr := b.Source.LoadBody(ctx, p.Slug)
	if loadErr != nil {
		data.Error = DetailErrorMessage(loadErr)
		missing = loadErr
	} else {
		data.Body = body
		if isSafeName(p.Slug) {
			frag := filepath.Join(b.OutputDir, filepath.FromSlash(postsDir), p.Slug+".html")
			if err := os.WriteFile(frag, []byte(body), 0o644); err != nil {
				return nil, err
			}
		}
	}

	outPath := filepath.Join(b.OutputDir, filepath.FromSlash(rel))
	return missing, writeFile(outPath, func(w io.Writer) error { return b.Pages.Detail(w, data) })
}

func (b *Builder) writeBackground(logger *zap.Logger) error {
	img := canvas.Background(b.Animation, defaultBackgroundW, defaultBackgroundH, 1, b.Seed, logger)
	return writeFile(filepath.Join(b.OutputDir, "background.png"), img.EncodePNG)
}

// copyStatic copies every file matching the Static globs into the output,
// preserving relative paths.
func (b *Builder) copyStatic(fsys fs.FS) (int, error) {
	copied := map[string]bool{}
	for _, pattern := range b.Static {
		matches, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
		if err != nil {
			return 0, fmt.Errorf("matching %s: %w", pattern, err)
		}
		for _, rel := range matches {
			if copied[rel] {
				continue
			}
			if err := copyFile(fsys, rel, filepath.Join(b.OutputDir, filepath.FromSlash(rel))); err != nil {
				return 0, fmt.Errorf("copying %s: %w", rel, err)
			}
			copied[rel] = true
		}
	}
	return len(copied), nil
}

// findOrphans returns the fragments under postsDir whose slug is not in
// the index.
func findOrphans(fsys fs.FS, postsDir string, posts []blog.Post) ([]string, error) {
	known := make(map[string]bool, len(posts))
	for _, p := range posts {
		known[p.Slug] = true
	}
	matches, err := doublestar.Glob(fsys, path.Join(postsDir, "*.{html,md}"), doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("listing fragments: %w", err)
	}
	var orphans []string
	for _, m := range matches {
		slug := strings.TrimSuffix(path.Base(m), path.Ext(m))
		if !known[slug] {
			orphans = append(orphans, m)
		}
	}
	return orphans, nil
}

func copyFile(fsys fs.FS, rel, dst string) error {
	src, err := fsys.Open(rel)
	if err != nil {
		return err
	}
	defer src.Close()
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, src); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// writeFile renders through fill into memory and then writes dst.
func writeFile(dst string, fill func(io.Writer) error) error {
	var buf bytes.Buffer
	if err := fill(&buf); err != nil {
		return err
	}
	return os.WriteFile(dst, buf.Bytes(), 0o644)
}
