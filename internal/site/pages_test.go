package site

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ziadkadry99/decrypt/internal/blog"
)

func TestFilters(t *testing.T) {
	pages, err := NewPages("")
	if err != nil {
		t.Fatal(err)
	}
	got := pages.Filters([]string{"all", "dev", "machine learning"}, "dev", func(c string) string { return "#" + c })
	want := []FilterButton{
		{Label: "All", Value: "all", Href: "#all"},
		{Label: "Dev", Value: "dev", Href: "#dev", Active: true},
		{Label: "Machine Learning", Value: "machine learning", Href: "#machine learning"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Filters mismatch (-want +got):\n%s", diff)
	}
}

func TestListingHref(t *testing.T) {
	tests := []struct {
		category, query, want string
	}{
		{"all", "", "index.html"},
		{"", "", "index.html"},
		{"dev", "", "index.html?category=dev"},
		{"all", "go lang", "index.html?q=go+lang"},
		{"dev", "x", "index.html?category=dev&q=x"},
	}
	for _, tt := range tests {
		if got := ListingHref(tt.category, tt.query); got != tt.want {
			t.Errorf("ListingHref(%q, %q) = %q, want %q", tt.category, tt.query, got, tt.want)
		}
	}
}

func TestPageName(t *testing.T) {
	for _, s := range []string{"hello", "post-1", "v1.2_final"} {
		if got := PageName(s); got != s {
			t.Errorf("PageName(%q) = %q", s, got)
		}
	}
	for _, s := range []string{"with space", "../escape", ".hidden", "a/b", ""} {
		got := PageName(s)
		if got == s || strings.ContainsAny(got, "/ ") {
			t.Errorf("PageName(%q) = %q, want a derived name", s, got)
		}
		if got != PageName(s) {
			t.Errorf("PageName(%q) is not stable", s)
		}
	}
}

func TestDetailDefaults(t *testing.T) {
	pages, err := NewPages("My Blog")
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	err = pages.Detail(&buf, DetailData{Error: DetailErrorMessage(blog.ErrMissingParam)})
	if err != nil {
		t.Fatalf("Detail: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "<title>My Blog</title>") {
		t.Error("page title should default to the site title")
	}
	if !strings.Contains(out, `href="index.html"`) {
		t.Error("back link should default to the listing")
	}
	if strings.Contains(out, `id="postTitle"`) {
		t.Error("header is hidden when there is no record")
	}
	if !strings.Contains(out, `<div class="error">This post failed to load: missing ?slug=</div>`) {
		t.Error("expected error block")
	}
}
