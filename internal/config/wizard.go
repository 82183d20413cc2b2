package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
)

// detectContentDir guesses where the post index lives.
func detectContentDir() string {
	for _, dir := range []string{".", "content", "site", "public"} {
		if _, err := os.Stat(dir + "/posts.json"); err == nil {
			return dir
		}
	}
	return "."
}

// RunWizard runs an interactive configuration wizard and saves the result
// to path.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to decrypt! Let's configure your blog.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Site title.
	titlePrompt := promptui.Prompt{
		Label:   "Site title",
		Default: cfg.SiteTitle,
	}
	title, err := titlePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("site title: %w", err)
	}
	cfg.SiteTitle = title

	// 2. Content location.
	sourcePrompt := promptui.Select{
		Label: "Where are posts.json and posts/ served from?",
		Items: []string{
			"local directory",
			"remote base URL",
		},
	}
	sourceIdx, _, err := sourcePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("source selection: %w", err)
	}
	if sourceIdx == 0 {
		dirPrompt := promptui.Prompt{
			Label:   "Content directory",
			Default: detectContentDir(),
		}
		if cfg.ContentDir, err = dirPrompt.Run(); err != nil {
			return nil, fmt.Errorf("content dir: %w", err)
		}
	} else {
		urlPrompt := promptui.Prompt{
			Label: "Base URL",
			Validate: func(s string) error {
				probe := *cfg
				probe.BaseURL = s
				return probe.Validate()
			},
		}
		if cfg.BaseURL, err = urlPrompt.Run(); err != nil {
			return nil, fmt.Errorf("base url: %w", err)
		}
	}

	// 3. Output directory.
	outputPrompt := promptui.Prompt{
		Label:   "Output directory for the built site",
		Default: cfg.OutputDir,
	}
	if cfg.OutputDir, err = outputPrompt.Run(); err != nil {
		return nil, fmt.Errorf("output dir: %w", err)
	}

	// 4. Static assets.
	staticPrompt := promptui.Prompt{
		Label:   "Static asset globs (comma-separated)",
		Default: strings.Join(cfg.Static, ","),
	}
	staticStr, err := staticPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("static globs: %w", err)
	}
	cfg.Static = splitAndTrim(staticStr)

	// 5. Background.
	variantPrompt := promptui.Select{
		Label: "Background animation",
		Items: []string{
			"field         — layered wisps, dust and stars",
			"constellation — drifting particles joined by links",
		},
	}
	variantIdx, _, err := variantPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("variant selection: %w", err)
	}
	cfg.Animation.Variant = []string{"field", "constellation"}[variantIdx]

	motionPrompt := promptui.Prompt{
		Label:     "Render a static background (reduced motion)",
		IsConfirm: true,
	}
	if _, err := motionPrompt.Run(); err == nil {
		cfg.Animation.ReducedMotion = true
	} else if err != promptui.ErrAbort {
		return nil, fmt.Errorf("reduced motion: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Save(path); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", path)
	return cfg, nil
}

// splitAndTrim splits a comma-separated string and trims whitespace.
func splitAndTrim(s string) []string {
	var result []string
	for _, part := range strings.Split(s, ",") {
		if token := strings.TrimSpace(part); token != "" {
			result = append(result, token)
		}
	}
	return result
}
