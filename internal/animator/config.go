package animator

import (
	"fmt"
	"image/color"
)

// Variant selects the scene the animator draws.
type Variant string

const (
	// VariantField draws layered wisps, dust and twinkling stars.
	VariantField Variant = "field"
	// VariantConstellation draws drifting particles joined by links.
	VariantConstellation Variant = "constellation"
)

// Range is an inclusive-exclusive interval [Min, Max).
type Range struct {
	Min, Max float64
}

// Config is the resolved set of animation tunables. It is fixed for the
// lifetime of an Animator.
type Config struct {
	Variant Variant

	Stars     int
	Dust      int
	Wisps     int
	Particles int

	StarRadius     Range
	StarAlpha      Range
	StarTwinkle    Range // phase advance per frame
	DustSpeed      float64
	DustRadius     Range
	DustAlpha      Range
	WispRadius     Range
	WispAlpha      Range
	WispBreath     Range
	ParticleSpeed  float64
	ParticleRadius Range
	ParticleAlpha  Range

	// LinkDistance is the maximum distance at which two particles are linked.
	LinkDistance float64
	// LinkAlpha is the opacity of a link between coincident particles.
	LinkAlpha float64

	// Parallax scales the pointer offset applied to draw positions.
	Parallax float64
	// Easing is the fraction of the remaining pointer distance covered per frame.
	Easing float64
	// Margin is how far past an edge an entity travels before wrapping.
	Margin float64

	// FPSCap bounds how often Frame does work. Zero disables the gate.
	FPSCap float64
	// MaxDPR caps the device pixel ratio used for the backing surface.
	MaxDPR float64

	Base     color.NRGBA
	Glow     color.NRGBA
	Vignette float64

	// ReducedMotion draws a single static frame instead of animating.
	ReducedMotion bool
}

// DefaultConfig returns the tunables for the layered field scene.
func DefaultConfig() Config {
	return Config{
		Variant: VariantField,

		Stars:     140,
		Dust:      60,
		Wisps:     5,
		Particles: 90,

		StarRadius:     Range{0.4, 1.4},
		StarAlpha:      Range{0.25, 0.85},
		StarTwinkle:    Range{0.01, 0.04},
		DustSpeed:      0.18,
		DustRadius:     Range{0.6, 1.8},
		DustAlpha:      Range{0.04, 0.14},
		WispRadius:     Range{120, 260},
		WispAlpha:      Range{0.015, 0.045},
		WispBreath:     Range{0.002, 0.006},
		ParticleSpeed:  0.25,
		ParticleRadius: Range{0.7, 1.6},
		ParticleAlpha:  Range{0.06, 0.18},

		LinkDistance: 120,
		LinkAlpha:    0.06,

		Parallax: 18,
		Easing:   0.05,
		Margin:   20,

		FPSCap: 60,
		MaxDPR: 2,

		Base:     color.NRGBA{R: 5, G: 6, B: 10, A: 90},
		Glow:     color.NRGBA{R: 255, G: 255, B: 255, A: 9},
		Vignette: 0.35,
	}
}

// Resolve applies the reduced-motion preference to base. Under reduced
// motion nothing moves, parallax is off and populations are thinned.
func Resolve(base Config, reducedMotion bool) Config {
	cfg := base
	if cfg.Margin <= 0 {
		cfg.Margin = 20
	}
	if cfg.MaxDPR <= 0 {
		cfg.MaxDPR = 2
	}
	if !reducedMotion {
		return cfg
	}
	cfg.ReducedMotion = true
	cfg.Stars /= 2
	cfg.Dust /= 2
	cfg.Particles /= 2
	cfg.DustSpeed = 0
	cfg.ParticleSpeed = 0
	cfg.StarTwinkle = Range{}
	cfg.WispBreath = Range{}
	cfg.Parallax = 0
	return cfg
}

// Validate reports tunables that would make the scene meaningless.
func (c Config) Validate() error {
	switch c.Variant {
	case VariantField, VariantConstellation:
	default:
		return fmt.Errorf("invalid variant %q: must be field or constellation", c.Variant)
	}
	if c.Stars < 0 || c.Dust < 0 || c.Wisps < 0 || c.Particles < 0 {
		return fmt.Errorf("entity counts must be non-negative")
	}
	if c.FPSCap < 0 {
		return fmt.Errorf("fps cap must be non-negative")
	}
	if c.LinkDistance < 0 {
		return fmt.Errorf("link distance must be non-negative")
	}
	if c.Easing < 0 || c.Easing > 1 {
		return fmt.Errorf("easing must be within [0, 1]")
	}
	return nil
}

// MinInterval returns the minimum milliseconds between executed frames.
func (c Config) MinInterval() float64 {
	if c.FPSCap <= 0 {
		return 0
	}
	return 1000 / c.FPSCap
}
