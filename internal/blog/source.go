package blog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"
	"time"
)

// Source fetches text resources by slash-separated path.
type Source interface {
	FetchText(ctx context.Context, p string) (string, error)
}

// FetchJSON fetches p from src and decodes it into v.
func FetchJSON(ctx context.Context, src Source, p string, v any) error {
	text, err := src.FetchText(ctx, p)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(text), v); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrParse, p, err)
	}
	return nil
}

// HTTPSource fetches resources relative to a base URL, bypassing caches.
type HTTPSource struct {
	BaseURL string
	Client  *http.Client
}

// NewHTTPSource creates an HTTPSource with a bounded client timeout.
func NewHTTPSource(baseURL string) *HTTPSource {
	return &HTTPSource{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// FetchText issues a GET for p under the base URL.
func (s *HTTPSource) FetchText(ctx context.Context, p string) (string, error) {
	u, err := url.JoinPath(s.BaseURL, p)
	if err != nil {
		return "", fmt.Errorf("%w: building url for %s: %v", ErrLoad, p, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrLoad, err)
	}
	req.Header.Set("Cache-Control", "no-cache, no-store")
	req.Header.Set("Pragma", "no-cache")

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrLoad, p, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: %s returned %d", ErrLoad, p, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: reading %s: %v", ErrLoad, p, err)
	}
	return string(body), nil
}

// FSSource reads resources from a filesystem, typically a content directory.
type FSSource struct {
	FS fs.FS
}

// NewDirSource returns an FSSource rooted at dir.
func NewDirSource(dir string) *FSSource {
	return &FSSource{FS: os.DirFS(dir)}
}

// FetchText reads p from the filesystem. Missing files wrap fs.ErrNotExist.
func (s *FSSource) FetchText(_ context.Context, p string) (string, error) {
	name := path.Clean(strings.TrimPrefix(p, "./"))
	data, err := fs.ReadFile(s.FS, name)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrLoad, err)
	}
	return string(data), nil
}
