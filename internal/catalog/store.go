// Package catalog mirrors the post index into SQLite so listings can be
// served without refetching posts.json.
package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/ziadkadry99/decrypt/internal/blog"
	"github.com/ziadkadry99/decrypt/internal/db"
)

// IndexLoader is the part of blog.Loader the catalog refreshes from.
type IndexLoader interface {
	LoadIndex(ctx context.Context) ([]blog.Post, error)
}

// Store provides access to the cached post index. It implements blog.Index.
type Store struct {
	db *db.DB
}

var _ blog.Index = (*Store)(nil)

// NewStore creates a new catalog store.
func NewStore(d *db.DB) *Store {
	return &Store{db: d}
}

// Import replaces the cached index with posts, preserving their order, and
// returns the id of the import run. Duplicate slugs are kept in place.
func (s *Store) Import(ctx context.Context, source string, posts []blog.Post) (string, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("beginning import: %w", err)
	}
	defer tx.Rollback()

	id := uuid.New().String()
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO imports (id, source, post_count) VALUES (?, ?, ?)`,
		id, source, len(posts),
	); err != nil {
		return "", fmt.Errorf("recording import: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM posts`); err != nil {
		return "", fmt.Errorf("clearing posts: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO posts (slug, position, title, category, date, excerpt, tags, meta, haystack, import_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, p := range posts {
		tags, err := json.Marshal(p.Tags)
		if err != nil {
			return "", fmt.Errorf("encoding tags for %s: %w", p.Slug, err)
		}
		if _, err := stmt.ExecContext(ctx,
			p.Slug, i, p.Title, p.Category, p.Date, p.Excerpt, string(tags), p.Meta, p.Haystack(), id,
		); err != nil {
			return "", fmt.Errorf("inserting post %s: %w", p.Slug, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing import: %w", err)
	}
	return id, nil
}

// Refresh loads the index through l and imports it.
func (s *Store) Refresh(ctx context.Context, source string, l IndexLoader) (string, error) {
	posts, err := l.LoadIndex(ctx)
	if err != nil {
		return "", err
	}
	return s.Import(ctx, source, posts)
}

// List returns the cached posts matching category and query, in index order.
// Matching is identical to blog.ApplyFilter.
func (s *Store) List(ctx context.Context, category, query string) ([]blog.Post, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	if category == "" {
		category = blog.CategoryAll
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT slug, title, category, date, excerpt, tags, meta FROM posts
		 WHERE (? = ? OR category = ?)
		   AND (? = '' OR instr(haystack, ?) > 0)
		 ORDER BY position`,
		category, blog.CategoryAll, category, q, q,
	)
	if err != nil {
		return nil, fmt.Errorf("querying posts: %w", err)
	}
	defer rows.Close()

	posts := []blog.Post{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// Get returns the first cached post with the given slug, as blog.Lookup
// does.
func (s *Store) Get(ctx context.Context, slug string) (blog.Post, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT slug, title, category, date, excerpt, tags, meta FROM posts
		 WHERE slug = ? ORDER BY position LIMIT 1`, slug)
	p, err := scanPost(row)
	if errors.Is(err, sql.ErrNoRows) {
		return blog.Post{}, blog.ErrNotFound
	}
	return p, err
}

// Categories returns "all" followed by the distinct cached categories in
// index order.
func (s *Store) Categories(ctx context.Context) ([]string, error) {
	posts, err := s.List(ctx, blog.CategoryAll, "")
	if err != nil {
		return nil, err
	}
	return blog.Categories(posts), nil
}

// LastImport returns the id of the most recent import, or "" if none.
func (s *Store) LastImport(ctx context.Context) (string, error) {
	var id string
	err := s.db.QueryRowContext(ctx,
		`SELECT id FROM imports ORDER BY imported_at DESC, rowid DESC LIMIT 1`).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("querying imports: %w", err)
	}
	return id, nil
}

// Posts implements blog.Index.
func (s *Store) Posts(ctx context.Context, category, query string) ([]blog.Post, error) {
	return s.List(ctx, category, query)
}

// Post implements blog.Index.
func (s *Store) Post(ctx context.Context, slug string) (blog.Post, error) {
	if slug == "" {
		return blog.Post{}, blog.ErrMissingParam
	}
	return s.Get(ctx, slug)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPost(sc scanner) (blog.Post, error) {
	var (
		p    blog.Post
		tags string
	)
	if err := sc.Scan(&p.Slug, &p.Title, &p.Category, &p.Date, &p.Excerpt, &tags, &p.Meta); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return blog.Post{}, err
		}
		return blog.Post{}, fmt.Errorf("scanning post: %w", err)
	}
	if err := json.Unmarshal([]byte(tags), &p.Tags); err != nil {
		return blog.Post{}, fmt.Errorf("decoding tags for %s: %w", p.Slug, err)
	}
	return p, nil
}
