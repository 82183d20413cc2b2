package site

import (
	"encoding/json"
	"os"

	"github.com/ziadkadry99/decrypt/internal/blog"
)

// WriteIndex writes posts as the JSON post index consumed by the listing.
func WriteIndex(posts []blog.Post, outputPath string) error {
	if posts == nil {
		posts = []blog.Post{}
	}
	data, err := json.MarshalIndent(posts, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(outputPath, data, 0o644)
}
