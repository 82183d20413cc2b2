package animator

import (
	"math"
	"math/rand/v2"
)

// Kind identifies an entity class.
type Kind int

const (
	KindStar Kind = iota
	KindDust
	KindWisp
	KindParticle
)

func (k Kind) String() string {
	switch k {
	case KindStar:
		return "star"
	case KindDust:
		return "dust"
	case KindWisp:
		return "wisp"
	case KindParticle:
		return "particle"
	default:
		return "unknown"
	}
}

// Entity is one simulated visual element. Position only changes through
// velocity; phase modulates how it is drawn.
type Entity struct {
	Kind       Kind
	X, Y       float64
	VX, VY     float64
	R          float64
	Alpha      float64
	Phase      float64
	PhaseSpeed float64
	// Depth in [0, 1] scales the parallax contribution.
	Depth float64
}

func between(rng *rand.Rand, r Range) float64 {
	if r.Max <= r.Min {
		return r.Min
	}
	return r.Min + rng.Float64()*(r.Max-r.Min)
}

// spawn places an entity uniformly within [0, w) x [0, h).
func spawn(rng *rand.Rand, kind Kind, w, h float64) Entity {
	return Entity{
		Kind:  kind,
		X:     rng.Float64() * w,
		Y:     rng.Float64() * h,
		Phase: rng.Float64() * 2 * math.Pi,
	}
}

func newStar(rng *rand.Rand, cfg Config, w, h float64) Entity {
	e := spawn(rng, KindStar, w, h)
	e.R = between(rng, cfg.StarRadius)
	e.Alpha = between(rng, cfg.StarAlpha)
	e.PhaseSpeed = between(rng, cfg.StarTwinkle)
	e.Depth = between(rng, Range{0.2, 1})
	return e
}

func newDust(rng *rand.Rand, cfg Config, w, h float64) Entity {
	e := spawn(rng, KindDust, w, h)
	e.VX = between(rng, Range{-cfg.DustSpeed, cfg.DustSpeed})
	e.VY = between(rng, Range{-cfg.DustSpeed, cfg.DustSpeed})
	e.R = between(rng, cfg.DustRadius)
	e.Alpha = between(rng, cfg.DustAlpha)
	e.Depth = between(rng, Range{0.5, 1})
	return e
}

func newWisp(rng *rand.Rand, cfg Config, w, h float64) Entity {
	e := spawn(rng, KindWisp, w, h)
	e.R = between(rng, cfg.WispRadius)
	e.Alpha = between(rng, cfg.WispAlpha)
	e.PhaseSpeed = between(rng, cfg.WispBreath)
	e.Depth = between(rng, Range{0.05, 0.3})
	return e
}

func newParticle(rng *rand.Rand, cfg Config, w, h float64) Entity {
	e := spawn(rng, KindParticle, w, h)
	e.VX = between(rng, Range{-cfg.ParticleSpeed, cfg.ParticleSpeed})
	e.VY = between(rng, Range{-cfg.ParticleSpeed, cfg.ParticleSpeed})
	e.R = between(rng, cfg.ParticleRadius)
	e.Alpha = between(rng, cfg.ParticleAlpha)
	e.Depth = 0.6
	return e
}

// advance moves e by its velocity and wraps it around the surface edges.
func (e *Entity) advance(w, h, margin float64) {
	e.X = wrap(e.X+e.VX, w, margin)
	e.Y = wrap(e.Y+e.VY, h, margin)
}

// wrap re-enters a coordinate from the opposite edge once it leaves
// [-margin, size+margin].
func wrap(v, size, margin float64) float64 {
	if v < -margin {
		return size + margin
	}
	if v > size+margin {
		return -margin
	}
	return v
}

// LinkOpacity returns the link alpha for two particles at squared distance
// d2. Falloff is linear in the squared-distance fraction and reaches zero
// at linkDist.
func LinkOpacity(d2, linkDist, maxAlpha float64) float64 {
	ld2 := linkDist * linkDist
	if d2 >= ld2 || ld2 == 0 {
		return 0
	}
	return maxAlpha * (1 - d2/ld2)
}
