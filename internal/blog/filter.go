package blog

import (
	"strings"
)

// ApplyFilter narrows posts to those matching both the category and the
// search query. The source slice is never modified and order is preserved.
func ApplyFilter(all []Post, category, query string) []Post {
	q := strings.ToLower(strings.TrimSpace(query))
	if category == "" {
		category = CategoryAll
	}

	filtered := make([]Post, 0, len(all))
	for _, p := range all {
		matchesC := category == CategoryAll || p.Category == category
		matchesQ := q == "" || strings.Contains(p.Haystack(), q)
		if matchesC && matchesQ {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

// Lookup returns the post with the given slug.
func Lookup(posts []Post, slug string) (Post, error) {
	for _, p := range posts {
		if p.Slug == slug {
			return p, nil
		}
	}
	return Post{}, ErrNotFound
}

// Categories returns the filter values for posts: "all" first, then each
// distinct category in first-seen order.
func Categories(posts []Post) []string {
	seen := map[string]bool{CategoryAll: true}
	cats := []string{CategoryAll}
	for _, p := range posts {
		if p.Category == "" || seen[p.Category] {
			continue
		}
		seen[p.Category] = true
		cats = append(cats, p.Category)
	}
	return cats
}
