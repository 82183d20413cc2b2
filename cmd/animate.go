package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/decrypt/internal/animator"
	"github.com/ziadkadry99/decrypt/internal/canvas"
)

var animateCmd = &cobra.Command{
	Use:   "animate",
	Short: "Render background animation frames to PNG files",
	Long: `Runs the background animator offline and writes every frame that passes
the frame-rate gate as frame-NNNN.png. Under reduced motion a single static
frame is written. With --realtime the frames are paced by a 60Hz ticker.`,
	RunE: runAnimate,
}

func init() {
	animateCmd.Flags().String("out", "frames", "directory to write frames to")
	animateCmd.Flags().Int("frames", 60, "number of 60Hz ticks to simulate")
	animateCmd.Flags().Float64("width", 1280, "viewport width in logical pixels")
	animateCmd.Flags().Float64("height", 720, "viewport height in logical pixels")
	animateCmd.Flags().Float64("dpr", 1, "device pixel ratio")
	animateCmd.Flags().String("variant", "", "override animation.variant (field or constellation)")
	animateCmd.Flags().Float64Slice("pointer", nil, "pointer position x,y in logical pixels")
	animateCmd.Flags().Bool("realtime", false, "pace frames with a wall-clock ticker instead of stepping")
	rootCmd.AddCommand(animateCmd)
}

func runAnimate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if v, _ := cmd.Flags().GetString("variant"); v != "" {
		cfg.Animation.Variant = v
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	acfg := cfg.Animation.Animator()

	outDir, _ := cmd.Flags().GetString("out")
	ticks, _ := cmd.Flags().GetInt("frames")
	width, _ := cmd.Flags().GetFloat64("width")
	height, _ := cmd.Flags().GetFloat64("height")
	dpr, _ := cmd.Flags().GetFloat64("dpr")
	pointer, _ := cmd.Flags().GetFloat64Slice("pointer")
	realtime, _ := cmd.Flags().GetBool("realtime")

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}

	surface := canvas.New(0, 0)
	written := 0
	writeFrame := func(float64) error {
		name := filepath.Join(outDir, fmt.Sprintf("frame-%04d.png", written))
		f, err := os.Create(name)
		if err != nil {
			return err
		}
		if err := surface.EncodePNG(f); err != nil {
			f.Close()
			return err
		}
		written++
		return f.Close()
	}

	a := animator.New(surface, acfg, width, height, dpr,
		animator.WithSeed(cfg.Animation.Seed),
		animator.WithLogger(logger.Named("animator")),
		animator.WithFrameHook(writeFrame))
	if len(pointer) == 2 {
		a.PointerMove(pointer[0], pointer[1])
	}

	ctx := cmd.Context()
	var sched animator.Scheduler = &animator.StepScheduler{Step: 1000.0 / 60, Limit: ticks}
	if realtime {
		// Run for as long as the ticks would take at 60Hz.
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(ticks)*time.Second/60)
		defer cancel()
		ticker := animator.NewTickerScheduler(60)
		defer ticker.Stop()
		sched = ticker
	}
	if err := a.Run(ctx, sched); err != nil {
		return fmt.Errorf("rendering frames: %w", err)
	}

	snap := a.Snapshot()
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d frame(s) of %dx%d to %s\n", written, snap.PhysicalW, snap.PhysicalH, outDir)
	return nil
}
