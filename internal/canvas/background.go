package canvas

import (
	"go.uber.org/zap"

	"github.com/ziadkadry99/decrypt/internal/animator"
)

// Background renders one static frame of the scene described by cfg for a
// viewport of width x height logical pixels at the given device pixel ratio.
func Background(cfg animator.Config, width, height, dpr float64, seed uint64, logger *zap.Logger) *Raster {
	r := New(0, 0)
	a := animator.New(r, cfg, width, height, dpr,
		animator.WithSeed(seed),
		animator.WithLogger(logger))
	a.StaticFrame()
	return r
}
