package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/ziadkadry99/decrypt/internal/blog"
	"github.com/ziadkadry99/decrypt/internal/db"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	d, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { d.Close() })
	return NewStore(d)
}

var fixture = []blog.Post{
	{Slug: "zeta", Title: "Zero Days", Category: "sec", Date: "2024-01-05", Excerpt: "An intro", Tags: []string{"CVE", "web"}},
	{Slug: "alpha", Title: "Rust Notes", Category: "dev", Date: "2024-02-01", Excerpt: "Ownership", Meta: "Long Read"},
	{Slug: "mid", Title: "Packet Capture", Category: "sec", Date: "2024-03-10", Excerpt: "tcpdump tricks"},
	{Slug: "with space/é", Title: "Odd Slug", Category: "misc", Date: "not-a-date", Excerpt: ""},
}

func TestListMatchesApplyFilter(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	if _, err := s.Import(ctx, "test", fixture); err != nil {
		t.Fatalf("Import: %v", err)
	}

	cases := []struct{ category, query string }{
		{"all", ""},
		{"", ""},
		{"sec", ""},
		{"dev", ""},
		{"nope", ""},
		{"all", "zero"},
		{"all", "  RUST "},
		{"all", "cve"},
		{"all", "long read"},
		{"sec", "tcp"},
		{"dev", "tcp"},
		{"all", "zzz"},
		{"all", "sec"},
	}
	for _, c := range cases {
		got, err := s.List(ctx, c.category, c.query)
		if err != nil {
			t.Fatalf("List(%q, %q): %v", c.category, c.query, err)
		}
		want := blog.ApplyFilter(fixture, c.category, c.query)
		if diff := cmp.Diff(want, got, cmpopts.EquateEmpty()); diff != "" {
			t.Errorf("List(%q, %q) mismatch (-want +got):\n%s", c.category, c.query, diff)
		}
	}
}

func TestImportReplaces(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	first, err := s.Import(ctx, "one", fixture)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	second, err := s.Import(ctx, "two", fixture[:1])
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if first == second {
		t.Error("import ids should differ")
	}

	all, err := s.List(ctx, blog.CategoryAll, "")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 1 || all[0].Slug != "zeta" {
		t.Errorf("expected only zeta after reimport, got %+v", all)
	}

	last, err := s.LastImport(ctx)
	if err != nil {
		t.Fatalf("LastImport: %v", err)
	}
	if last != second {
		t.Errorf("LastImport = %q, want %q", last, second)
	}
}

func TestGet(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	if _, err := s.Import(ctx, "test", fixture); err != nil {
		t.Fatalf("Import: %v", err)
	}

	p, err := s.Get(ctx, "zeta")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if diff := cmp.Diff(fixture[0], p); diff != "" {
		t.Errorf("Get mismatch (-want +got):\n%s", diff)
	}

	if _, err := s.Get(ctx, "missing"); !errors.Is(err, blog.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := s.Post(ctx, ""); !errors.Is(err, blog.ErrMissingParam) {
		t.Errorf("expected ErrMissingParam, got %v", err)
	}
}

func TestImportDuplicateSlugs(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	posts := []blog.Post{
		{Slug: "a", Title: "First", Category: "dev", Tags: []string{}},
		{Slug: "b", Title: "Between", Category: "dev", Tags: []string{}},
		{Slug: "a", Title: "Second", Category: "sec", Tags: []string{}},
	}
	if _, err := s.Import(ctx, "dupes", posts); err != nil {
		t.Fatalf("Import: %v", err)
	}

	got, err := s.Get(ctx, "a")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	want, _ := blog.Lookup(posts, "a")
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Get should match Lookup (-want +got):\n%s", diff)
	}

	all, err := s.List(ctx, blog.CategoryAll, "")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if diff := cmp.Diff(blog.ApplyFilter(posts, blog.CategoryAll, ""), all, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("List should match ApplyFilter (-want +got):\n%s", diff)
	}
}

func TestCategories(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	if _, err := s.Import(ctx, "test", fixture); err != nil {
		t.Fatalf("Import: %v", err)
	}
	got, err := s.Categories(ctx)
	if err != nil {
		t.Fatalf("Categories: %v", err)
	}
	want := []string{"all", "sec", "dev", "misc"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Categories mismatch (-want +got):\n%s", diff)
	}
}

type stubLoader struct {
	posts []blog.Post
	err   error
}

func (l stubLoader) LoadIndex(context.Context) ([]blog.Post, error) { return l.posts, l.err }

func TestRefresh(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	if _, err := s.Refresh(ctx, "stub", stubLoader{posts: fixture}); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	got, _ := s.List(ctx, "", "")
	if len(got) != len(fixture) {
		t.Errorf("got %d posts, want %d", len(got), len(fixture))
	}

	_, err := s.Refresh(ctx, "stub", stubLoader{err: blog.ErrLoad})
	if !errors.Is(err, blog.ErrLoad) {
		t.Errorf("expected ErrLoad, got %v", err)
	}
	got, _ = s.List(ctx, "", "")
	if len(got) != len(fixture) {
		t.Error("failed refresh should leave the cache untouched")
	}
}
