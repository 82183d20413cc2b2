package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/decrypt/internal/progress"
	"github.com/ziadkadry99/decrypt/internal/site"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build a static snapshot of the blog",
	Long: `Renders the listing, every category listing and every post page to
static HTML, together with the stylesheet, the background image and a copy
of the post index. The output directory can itself be served as content.`,
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().String("output", "", "override output directory (defaults to output_dir)")
	buildCmd.Flags().Bool("quiet", false, "disable the progress bar")
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	outputDir, _ := cmd.Flags().GetString("output")
	if outputDir == "" {
		outputDir = cfg.OutputDir
	}

	pages, err := site.NewPages(cfg.SiteTitle)
	if err != nil {
		return err
	}

	var reporter progress.Reporter = progress.NewReporter()
	if quiet, _ := cmd.Flags().GetBool("quiet"); quiet {
		reporter = progress.Nop{}
	}

	b := &site.Builder{
		Source:    newLoader(cfg),
		Pages:     pages,
		OutputDir: outputDir,
		PostsDir:  cfg.PostsDir,
		Static:    cfg.Static,
		Animation: cfg.Animation.Animator(),
		Seed:      cfg.Animation.Seed,
		Reporter:  reporter,
		Logger:    logger.Named("build"),
	}
	if cfg.BaseURL == "" {
		b.ContentDir = cfg.ContentDir
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	res, err := b.Build(ctx)
	if err != nil {
		return fmt.Errorf("building site: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Static site built: %s (%d pages, %d assets) in %s\n",
		outputDir, res.Pages, res.Assets, res.Duration.Round(time.Millisecond))
	if len(res.Missing) > 0 {
		fmt.Fprintf(out, "  %d post(s) without a body: %v\n", len(res.Missing), res.Missing)
	}
	if len(res.Orphans) > 0 {
		fmt.Fprintf(out, "  %d fragment(s) not in the index: %v\n", len(res.Orphans), res.Orphans)
	}
	return nil
}
