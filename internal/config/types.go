package config

import "github.com/ziadkadry99/decrypt/internal/animator"

// DefaultConfigFile is the configuration file looked up in the working directory.
const DefaultConfigFile = ".decrypt.yml"

// Config is the top-level decrypt configuration, corresponding to .decrypt.yml.
type Config struct {
	SiteTitle  string `yaml:"site_title" koanf:"site_title"`
	ContentDir string `yaml:"content_dir" koanf:"content_dir"`
	// BaseURL, when set, makes the index and fragments load over HTTP
	// instead of from ContentDir.
	BaseURL   string   `yaml:"base_url" koanf:"base_url"`
	IndexPath string   `yaml:"index_path" koanf:"index_path"`
	PostsDir  string   `yaml:"posts_dir" koanf:"posts_dir"`
	OutputDir string   `yaml:"output_dir" koanf:"output_dir"`
	Static    []string `yaml:"static" koanf:"static"`
	Port      int      `yaml:"port" koanf:"port"`
	CachePath string   `yaml:"cache_path" koanf:"cache_path"`
	Watch     bool     `yaml:"watch" koanf:"watch"`

	Animation AnimationConfig `yaml:"animation" koanf:"animation"`
}

// AnimationConfig holds the user-facing background tunables. Zero values
// keep the built-in defaults.
type AnimationConfig struct {
	Variant       string  `yaml:"variant" koanf:"variant"`
	ReducedMotion bool    `yaml:"reduced_motion" koanf:"reduced_motion"`
	FPSCap        float64 `yaml:"fps_cap" koanf:"fps_cap"`
	Stars         int     `yaml:"stars,omitempty" koanf:"stars"`
	Dust          int     `yaml:"dust,omitempty" koanf:"dust"`
	Wisps         int     `yaml:"wisps,omitempty" koanf:"wisps"`
	Particles     int     `yaml:"particles,omitempty" koanf:"particles"`
	LinkDistance  float64 `yaml:"link_distance,omitempty" koanf:"link_distance"`
	Parallax      float64 `yaml:"parallax,omitempty" koanf:"parallax"`
	Seed          uint64  `yaml:"seed,omitempty" koanf:"seed"`
}

// Animator merges the tunables onto the animator defaults and applies the
// reduced-motion preference.
func (a AnimationConfig) Animator() animator.Config {
	cfg := animator.DefaultConfig()
	if a.Variant != "" {
		cfg.Variant = animator.Variant(a.Variant)
	}
	if a.FPSCap > 0 {
		cfg.FPSCap = a.FPSCap
	}
	if a.Stars > 0 {
		cfg.Stars = a.Stars
	}
	if a.Dust > 0 {
		cfg.Dust = a.Dust
	}
	if a.Wisps > 0 {
		cfg.Wisps = a.Wisps
	}
	if a.Particles > 0 {
		cfg.Particles = a.Particles
	}
	if a.LinkDistance > 0 {
		cfg.LinkDistance = a.LinkDistance
	}
	if a.Parallax > 0 {
		cfg.Parallax = a.Parallax
	}
	return animator.Resolve(cfg, a.ReducedMotion)
}
