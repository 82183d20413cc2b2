package animator

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"sync"

	"go.uber.org/zap"
)

// Animator simulates and draws the background particle field onto a Surface.
// Frame, Resize and PointerMove may be called from different goroutines.
type Animator struct {
	mu sync.Mutex

	cfg     Config
	surface Surface
	rng     *rand.Rand
	logger  *zap.Logger
	onFrame FrameHook

	width, height float64
	dpr           float64
	physW, physH  int

	targetX, targetY float64
	offsetX, offsetY float64

	lastFrame float64
	started   bool
	frames    int

	wisps     []Entity
	dust      []Entity
	stars     []Entity
	particles []Entity
}

// Option configures an Animator.
type Option func(*Animator)

// WithSeed makes seeding deterministic.
func WithSeed(seed uint64) Option {
	return func(a *Animator) {
		a.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
}

// WithLogger sets the logger used for lifecycle events.
func WithLogger(l *zap.Logger) Option {
	return func(a *Animator) {
		if l != nil {
			a.logger = l
		}
	}
}

// FrameHook is called by Run after every frame it draws, with the frame's
// timestamp. A non-nil error stops Run and is returned from it.
type FrameHook func(ts float64) error

// WithFrameHook sets the hook Run calls after each drawn frame.
func WithFrameHook(fn FrameHook) Option {
	return func(a *Animator) {
		a.onFrame = fn
	}
}

// New creates an Animator drawing onto surface and sizes it to the given
// viewport. A nil surface yields an animator whose methods do nothing.
func New(surface Surface, cfg Config, width, height, dpr float64, opts ...Option) *Animator {
	a := &Animator{
		cfg:     cfg,
		surface: surface,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.rng == nil {
		a.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	a.Resize(width, height, dpr)
	return a
}

// Config returns the resolved configuration.
func (a *Animator) Config() Config { return a.cfg }

// Resize recomputes logical and physical dimensions, reconfigures the
// surface transform and reseeds the whole population.
func (a *Animator) Resize(width, height, dpr float64) {
	if a.surface == nil {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()

	if dpr <= 0 || math.IsNaN(dpr) {
		dpr = 1
	}
	a.dpr = math.Min(a.cfg.MaxDPR, dpr)
	if a.cfg.MaxDPR <= 0 {
		a.dpr = dpr
	}
	a.width = math.Max(1, math.Floor(width))
	a.height = math.Max(1, math.Floor(height))
	a.physW = int(math.Floor(a.width * a.dpr))
	a.physH = int(math.Floor(a.height * a.dpr))

	a.surface.Resize(a.physW, a.physH)
	a.surface.SetTransform(a.dpr)
	a.seed()

	a.logger.Debug("animator resized",
		zap.Float64("width", a.width),
		zap.Float64("height", a.height),
		zap.Float64("dpr", a.dpr))
}

// Seed regenerates the entire entity population.
func (a *Animator) Seed() {
	if a.surface == nil {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.seed()
}

func (a *Animator) seed() {
	w, h := a.width, a.height
	a.wisps, a.dust, a.stars, a.particles = nil, nil, nil, nil

	switch a.cfg.Variant {
	case VariantConstellation:
		a.particles = make([]Entity, a.cfg.Particles)
		for i := range a.particles {
			a.particles[i] = newParticle(a.rng, a.cfg, w, h)
		}
	default:
		a.wisps = make([]Entity, a.cfg.Wisps)
		for i := range a.wisps {
			a.wisps[i] = newWisp(a.rng, a.cfg, w, h)
		}
		a.dust = make([]Entity, a.cfg.Dust)
		for i := range a.dust {
			a.dust[i] = newDust(a.rng, a.cfg, w, h)
		}
		a.stars = make([]Entity, a.cfg.Stars)
		for i := range a.stars {
			a.stars[i] = newStar(a.rng, a.cfg, w, h)
		}
	}
}

// PointerMove records a new parallax target from a pointer position in
// logical coordinates. Entities are not moved until the next frame.
func (a *Animator) PointerMove(x, y float64) {
	if a.surface == nil {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.targetX = clamp(x/a.width*2-1, -1, 1)
	a.targetY = clamp(y/a.height*2-1, -1, 1)
}

// Frame executes one animation step for the timestamp ts (milliseconds).
// It returns false when the frame-rate gate skipped the step.
func (a *Animator) Frame(ts float64) bool {
	if a.surface == nil {
		return false
	}
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.started && ts-a.lastFrame < a.cfg.MinInterval() {
		return false
	}
	a.started = true
	a.lastFrame = ts

	a.offsetX += (a.targetX - a.offsetX) * a.cfg.Easing
	a.offsetY += (a.targetY - a.offsetY) * a.cfg.Easing

	a.draw(true)
	a.frames++
	return true
}

// StaticFrame draws the current population once without advancing it.
func (a *Animator) StaticFrame() {
	if a.surface == nil {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.draw(false)
	a.frames++
}

// Run drives Frame from s until ctx is cancelled or s stops. Under reduced
// motion a single static frame is drawn and Run returns immediately.
func (a *Animator) Run(ctx context.Context, s Scheduler) error {
	if a.surface == nil {
		return nil
	}
	if a.cfg.ReducedMotion {
		a.StaticFrame()
		a.logger.Debug("reduced motion: drew static frame")
		return a.frameDone(0)
	}
	for {
		ts, err := s.Next(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, ErrStopped) {
				return nil
			}
			return err
		}
		if !a.Frame(ts) {
			continue
		}
		if err := a.frameDone(ts); err != nil {
			return err
		}
	}
}

func (a *Animator) frameDone(ts float64) error {
	if a.onFrame == nil {
		return nil
	}
	return a.onFrame(ts)
}

func (a *Animator) draw(step bool) {
	s := a.surface
	s.SetBlend(BlendOver)
	s.Fill(a.cfg.Base)

	switch a.cfg.Variant {
	case VariantConstellation:
		a.drawConstellation(step)
	default:
		a.drawField(step)
	}

	s.SetBlend(BlendOver)
	s.Vignette(a.cfg.Vignette)
}

// parallax returns the draw offset for an entity at the given depth.
func (a *Animator) parallax(depth float64) (float64, float64) {
	k := depth * a.cfg.Parallax
	return a.offsetX * k, a.offsetY * k
}

func (a *Animator) drawField(step bool) {
	s := a.surface
	s.SetBlend(BlendAdd)

	for i := range a.wisps {
		e := &a.wisps[i]
		if step {
			e.Phase += e.PhaseSpeed
		}
		dx, dy := a.parallax(e.Depth)
		r := e.R * (0.85 + 0.15*math.Sin(e.Phase))
		s.RadialGlow(e.X+dx, e.Y+dy, r, withAlpha(white, e.Alpha))
	}

	for i := range a.dust {
		e := &a.dust[i]
		if step {
			e.advance(a.width, a.height, a.cfg.Margin)
		}
		dx, dy := a.parallax(e.Depth)
		s.FillCircle(e.X+dx, e.Y+dy, e.R, withAlpha(white, e.Alpha))
	}

	for i := range a.stars {
		e := &a.stars[i]
		if step {
			e.Phase += e.PhaseSpeed
		}
		dx, dy := a.parallax(e.Depth)
		twinkle := 0.7 + 0.3*math.Sin(e.Phase)
		s.FillCircle(e.X+dx, e.Y+dy, e.R, withAlpha(white, e.Alpha*twinkle))
	}
}

func (a *Animator) drawConstellation(step bool) {
	s := a.surface
	s.RadialGlow(a.width*0.25, a.height*0.2, math.Max(a.width, a.height), a.cfg.Glow)

	if step {
		for i := range a.particles {
			a.particles[i].advance(a.width, a.height, a.cfg.Margin)
		}
	}

	dx, dy := a.parallax(0.6)
	for i := 0; i < len(a.particles); i++ {
		p := a.particles[i]
		for j := i + 1; j < len(a.particles); j++ {
			q := a.particles[j]
			ddx, ddy := p.X-q.X, p.Y-q.Y
			alpha := LinkOpacity(ddx*ddx+ddy*ddy, a.cfg.LinkDistance, a.cfg.LinkAlpha)
			if alpha <= 0 {
				continue
			}
			s.StrokeLine(p.X+dx, p.Y+dy, q.X+dx, q.Y+dy, 1, withAlpha(white, alpha))
		}
	}

	for _, p := range a.particles {
		s.FillCircle(p.X+dx, p.Y+dy, p.R, withAlpha(white, p.Alpha))
	}
}

// Snapshot is a copy of the animator's observable state.
type Snapshot struct {
	Width, Height    float64
	DPR              float64
	PhysicalW        int
	PhysicalH        int
	OffsetX, OffsetY float64
	TargetX, TargetY float64
	Frames           int
	Wisps            []Entity
	Dust             []Entity
	Stars            []Entity
	Particles        []Entity
}

// Snapshot returns a copy of the current state.
func (a *Animator) Snapshot() Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	return Snapshot{
		Width:     a.width,
		Height:    a.height,
		DPR:       a.dpr,
		PhysicalW: a.physW,
		PhysicalH: a.physH,
		OffsetX:   a.offsetX,
		OffsetY:   a.offsetY,
		TargetX:   a.targetX,
		TargetY:   a.targetY,
		Frames:    a.frames,
		Wisps:     append([]Entity(nil), a.wisps...),
		Dust:      append([]Entity(nil), a.dust...),
		Stars:     append([]Entity(nil), a.stars...),
		Particles: append([]Entity(nil), a.particles...),
	}
}

// SetEntities replaces the population of one kind. It exists for callers
// that need a hand-placed scene.
func (a *Animator) SetEntities(kind Kind, entities []Entity) {
	a.mu.Lock()
	defer a.mu.Unlock()
	cp := append([]Entity(nil), entities...)
	switch kind {
	case KindWisp:
		a.wisps = cp
	case KindDust:
		a.dust = cp
	case KindStar:
		a.stars = cp
	case KindParticle:
		a.particles = cp
	}
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(lo, math.Min(hi, v))
}
