package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"

	"github.com/ziadkadry99/decrypt/internal/animator"
	"github.com/ziadkadry99/decrypt/internal/blog"
)

const envPrefix = "DECRYPT_"

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		SiteTitle:  "Decrypt",
		ContentDir: ".",
		IndexPath:  blog.DefaultIndexPath,
		PostsDir:   blog.DefaultPostsDir,
		OutputDir:  "public",
		Static:     []string{"static/**"},
		Port:       8080,
		Animation: AnimationConfig{
			Variant: string(animator.VariantField),
			FPSCap:  60,
		},
	}
}

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (DECRYPT_*).
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	cfg := DefaultConfig()

	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	// DECRYPT_OUTPUT_DIR -> output_dir, DECRYPT_ANIMATION_FPS_CAP -> animation.fps_cap
	if err := k.Load(env.Provider(envPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, envPrefix))
	if rest, ok := strings.CutPrefix(key, "animation_"); ok {
		return "animation." + rest
	}
	return key
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.IndexPath == "" {
		return fmt.Errorf("index_path is required")
	}
	if c.PostsDir == "" {
		return fmt.Errorf("posts_dir is required")
	}
	if c.OutputDir == "" {
		return fmt.Errorf("output_dir is required")
	}
	if c.BaseURL == "" && c.ContentDir == "" {
		return fmt.Errorf("one of content_dir or base_url is required")
	}
	if c.BaseURL != "" {
		u, err := url.Parse(c.BaseURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("invalid base_url %q: must be an http(s) URL", c.BaseURL)
		}
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("port must be within 0-65535")
	}

	a := c.Animation
	switch animator.Variant(a.Variant) {
	case "", animator.VariantField, animator.VariantConstellation:
	default:
		return fmt.Errorf("invalid animation.variant %q: must be one of field, constellation", a.Variant)
	}
	if a.Stars < 0 || a.Dust < 0 || a.Wisps < 0 || a.Particles < 0 {
		return fmt.Errorf("animation counts must be non-negative")
	}
	if a.FPSCap < 0 {
		return fmt.Errorf("animation.fps_cap must be non-negative")
	}
	if a.LinkDistance < 0 {
		return fmt.Errorf("animation.link_distance must be non-negative")
	}
	return nil
}

// Source returns the blog source the configuration points at.
func (c *Config) Source() blog.Source {
	if c.BaseURL != "" {
		return blog.NewHTTPSource(c.BaseURL)
	}
	return blog.NewDirSource(c.ContentDir)
}
