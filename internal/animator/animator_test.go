package animator

import (
	"context"
	"errors"
	"image/color"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

// recorder is a Surface that counts calls.
type recorder struct {
	width   int
	height  int
	scale   float64
	blends  []BlendMode
	fills   int
	circles int
	lines   []color.NRGBA
	glows   int
	vignets int
	order   []string
}

func (r *recorder) Resize(w, h int)            { r.width, r.height = w, h }
func (r *recorder) SetTransform(scale float64) { r.scale = scale }
func (r *recorder) SetBlend(m BlendMode)       { r.blends = append(r.blends, m) }
func (r *recorder) Fill(color.NRGBA)           { r.fills++; r.order = append(r.order, "fill") }
func (r *recorder) Vignette(float64)           { r.vignets++; r.order = append(r.order, "vignette") }
func (r *recorder) RadialGlow(_, _, _ float64, _ color.NRGBA) {
	r.glows++
	r.order = append(r.order, "glow")
}
func (r *recorder) FillCircle(_, _, _ float64, _ color.NRGBA) {
	r.circles++
	r.order = append(r.order, "circle")
}
func (r *recorder) StrokeLine(_, _, _, _, _ float64, c color.NRGBA) {
	r.lines = append(r.lines, c)
	r.order = append(r.order, "line")
}

func fieldConfig() Config {
	cfg := DefaultConfig()
	cfg.Stars, cfg.Dust, cfg.Wisps = 30, 20, 3
	return cfg
}

func TestSeedPopulationWithinBounds(t *testing.T) {
	for _, variant := range []Variant{VariantField, VariantConstellation} {
		cfg := fieldConfig()
		cfg.Variant = variant
		a := New(&recorder{}, cfg, 320.7, 200.2, 1, WithSeed(1))
		snap := a.Snapshot()

		require.Equal(t, 320.0, snap.Width)
		require.Equal(t, 200.0, snap.Height)

		var all []Entity
		if variant == VariantConstellation {
			require.Len(t, snap.Particles, cfg.Particles)
			require.Empty(t, snap.Stars)
			all = snap.Particles
		} else {
			require.Len(t, snap.Stars, cfg.Stars)
			require.Len(t, snap.Dust, cfg.Dust)
			require.Len(t, snap.Wisps, cfg.Wisps)
			all = append(append(append(all, snap.Stars...), snap.Dust...), snap.Wisps...)
		}
		for _, e := range all {
			assert.GreaterOrEqual(t, e.X, 0.0)
			assert.Less(t, e.X, snap.Width)
			assert.GreaterOrEqual(t, e.Y, 0.0)
			assert.Less(t, e.Y, snap.Height)
		}
	}
}

func TestResizeReseedsAndScales(t *testing.T) {
	surf := &recorder{}
	a := New(surf, fieldConfig(), 100, 50, 3, WithSeed(2))

	snap := a.Snapshot()
	assert.Equal(t, 2.0, snap.DPR, "dpr capped at MaxDPR")
	assert.Equal(t, 200, surf.width)
	assert.Equal(t, 100, surf.height)
	assert.Equal(t, 2.0, surf.scale)

	before := snap.Stars[0]
	a.Resize(800, 600, 1)
	after := a.Snapshot()
	assert.Equal(t, 800, surf.width)
	assert.Len(t, after.Stars, len(snap.Stars))
	assert.NotEqual(t, before, after.Stars[0], "resize should reseed")
}

func TestResizeClampsToOnePixel(t *testing.T) {
	a := New(&recorder{}, fieldConfig(), 0, -5, 0, WithSeed(3))
	snap := a.Snapshot()
	assert.Equal(t, 1.0, snap.Width)
	assert.Equal(t, 1.0, snap.Height)
	assert.Equal(t, 1.0, snap.DPR)
}

func TestZeroVelocityEntitiesStayPut(t *testing.T) {
	cfg := fieldConfig()
	cfg.DustSpeed = 0
	cfg.FPSCap = 0
	a := New(&recorder{}, cfg, 400, 300, 1, WithSeed(4))
	a.PointerMove(400, 300)

	before := a.Snapshot()
	for i := 0; i < 50; i++ {
		require.True(t, a.Frame(float64(i)*16))
	}
	after := a.Snapshot()

	for i := range before.Dust {
		assert.Equal(t, before.Dust[i].X, after.Dust[i].X)
		assert.Equal(t, before.Dust[i].Y, after.Dust[i].Y)
	}
	for i := range before.Stars {
		assert.Equal(t, before.Stars[i].X, after.Stars[i].X)
		assert.Equal(t, before.Stars[i].Y, after.Stars[i].Y)
	}
	assert.NotZero(t, after.OffsetX, "parallax offset still eases")
}

func TestEdgeWrap(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Variant = VariantConstellation
	cfg.Particles = 0
	cfg.FPSCap = 0
	a := New(&recorder{}, cfg, 100, 100, 1, WithSeed(5))

	m := cfg.Margin
	a.SetEntities(KindParticle, []Entity{
		{Kind: KindParticle, X: 100 + m - 0.5, Y: 50, VX: 1},
		{Kind: KindParticle, X: 50, Y: -m + 0.5, VY: -1},
		{Kind: KindParticle, X: 50, Y: 50},
	})
	a.Frame(0)

	snap := a.Snapshot()
	assert.Equal(t, -m, snap.Particles[0].X)
	assert.Equal(t, 100+m, snap.Particles[1].Y)
	assert.Equal(t, 50.0, snap.Particles[2].X)
}

func TestWrap(t *testing.T) {
	assert.Equal(t, -20.0, wrap(121, 100, 20))
	assert.Equal(t, 120.0, wrap(-21, 100, 20))
	assert.Equal(t, 120.0, wrap(120, 100, 20))
	assert.Equal(t, 50.0, wrap(50, 100, 20))
}

func TestLinkOpacity(t *testing.T) {
	const dist, alpha = 120.0, 0.06

	assert.Equal(t, 0.0, LinkOpacity(dist*dist, dist, alpha))
	assert.Equal(t, 0.0, LinkOpacity(dist*dist*1.5, dist, alpha))
	assert.InDelta(t, alpha, LinkOpacity(0, dist, alpha), 1e-12)

	prev := LinkOpacity(0, dist, alpha)
	for d := 1.0; d < dist; d++ {
		cur := LinkOpacity(d*d, dist, alpha)
		require.Greater(t, cur, 0.0, "positive below link distance (d=%v)", d)
		require.Less(t, cur, prev, "strictly decreasing (d=%v)", d)
		prev = cur
	}
}

func TestConstellationDrawsLinksForClosePairs(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Variant = VariantConstellation
	cfg.Particles = 0
	surf := &recorder{}
	a := New(surf, cfg, 500, 500, 1, WithSeed(6))
	a.SetEntities(KindParticle, []Entity{
		{X: 10, Y: 10, R: 1, Alpha: 0.1},
		{X: 40, Y: 10, R: 1, Alpha: 0.1},
		{X: 400, Y: 400, R: 1, Alpha: 0.1},
	})
	a.Frame(0)

	require.Len(t, surf.lines, 1, "only the close pair is linked")
	assert.Equal(t, 3, surf.circles)
}

func TestFrameRateGate(t *testing.T) {
	cfg := fieldConfig()
	cfg.FPSCap = 50 // 20ms
	a := New(&recorder{}, cfg, 100, 100, 1, WithSeed(7))

	assert.True(t, a.Frame(0))
	assert.False(t, a.Frame(10))
	assert.False(t, a.Frame(19.9))
	assert.True(t, a.Frame(20))
	assert.False(t, a.Frame(30))
	assert.True(t, a.Frame(45))
	assert.Equal(t, 3, a.Snapshot().Frames)
}

func TestPointerEasing(t *testing.T) {
	cfg := fieldConfig()
	cfg.FPSCap = 0
	cfg.Easing = 0.1
	a := New(&recorder{}, cfg, 200, 100, 1, WithSeed(8))

	a.PointerMove(200, 0)
	snap := a.Snapshot()
	assert.Equal(t, 1.0, snap.TargetX)
	assert.Equal(t, -1.0, snap.TargetY)
	assert.Zero(t, snap.OffsetX, "pointer move alone does not shift the offset")

	a.Frame(0)
	assert.InDelta(t, 0.1, a.Snapshot().OffsetX, 1e-12)
	a.Frame(1)
	assert.InDelta(t, 0.19, a.Snapshot().OffsetX, 1e-12)

	a.PointerMove(1e6, -1e6)
	snap = a.Snapshot()
	assert.Equal(t, 1.0, snap.TargetX, "clamped")
	assert.Equal(t, -1.0, snap.TargetY, "clamped")
}

func TestFieldLayerOrder(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Wisps, cfg.Dust, cfg.Stars = 1, 1, 1
	surf := &recorder{}
	a := New(surf, cfg, 100, 100, 1, WithSeed(9))
	surf.order = nil
	a.Frame(0)

	assert.Equal(t, []string{"fill", "glow", "circle", "circle", "vignette"}, surf.order)
	assert.Contains(t, surf.blends, BlendAdd)
}

func TestReducedMotionDrawsSingleStaticFrame(t *testing.T) {
	defer goleak.VerifyNone(t)

	cfg := Resolve(fieldConfig(), true)
	require.True(t, cfg.ReducedMotion)
	require.Zero(t, cfg.Parallax)

	surf := &recorder{}
	a := New(surf, cfg, 100, 100, 1, WithSeed(10))
	before := a.Snapshot()

	err := a.Run(context.Background(), &StepScheduler{Step: 16})
	require.NoError(t, err)

	after := a.Snapshot()
	assert.Equal(t, 1, after.Frames)
	assert.Equal(t, 1, surf.fills)
	assert.Equal(t, before.Dust, after.Dust)
}

func TestRunStopsOnCancel(t *testing.T) {
	defer goleak.VerifyNone(t)

	cfg := fieldConfig()
	a := New(&recorder{}, cfg, 100, 100, 1, WithSeed(11))

	ctx, cancel := context.WithCancel(context.Background())
	sched := NewTickerScheduler(500)
	defer sched.Stop()

	done := make(chan error, 1)
	go func() { done <- a.Run(ctx, sched) }()

	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestRunWithStepScheduler(t *testing.T) {
	cfg := fieldConfig()
	cfg.FPSCap = 30
	a := New(&recorder{}, cfg, 100, 100, 1, WithSeed(12))

	// 16ms steps against a 33ms gate: every other frame runs.
	err := a.Run(context.Background(), &StepScheduler{Step: 16.7, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 5, a.Snapshot().Frames)
}

func TestRunFrameHook(t *testing.T) {
	cfg := fieldConfig()
	cfg.FPSCap = 30

	var stamps []float64
	a := New(&recorder{}, cfg, 100, 100, 1, WithSeed(13), WithFrameHook(func(ts float64) error {
		stamps = append(stamps, ts)
		return nil
	}))
	require.NoError(t, a.Run(context.Background(), &StepScheduler{Step: 16.7, Limit: 10}))
	assert.Len(t, stamps, a.Snapshot().Frames)
	assert.Len(t, stamps, 5)

	t.Run("error stops run", func(t *testing.T) {
		errDisk := errors.New("disk full")
		calls := 0
		a := New(&recorder{}, fieldConfig(), 100, 100, 1, WithSeed(14), WithFrameHook(func(float64) error {
			calls++
			if calls == 2 {
				return errDisk
			}
			return nil
		}))
		err := a.Run(context.Background(), &StepScheduler{Step: 20, Limit: 50})
		require.ErrorIs(t, err, errDisk)
		assert.Equal(t, 2, calls)
	})

	t.Run("reduced motion", func(t *testing.T) {
		calls := 0
		a := New(&recorder{}, Resolve(fieldConfig(), true), 100, 100, 1, WithSeed(15), WithFrameHook(func(float64) error {
			calls++
			return nil
		}))
		require.NoError(t, a.Run(context.Background(), &StepScheduler{Step: 16, Limit: 10}))
		assert.Equal(t, 1, calls)
	})
}

func TestNilSurfaceIsNoop(t *testing.T) {
	a := New(nil, fieldConfig(), 100, 100, 1)
	a.PointerMove(10, 10)
	a.Seed()
	assert.False(t, a.Frame(0))
	require.NoError(t, a.Run(context.Background(), &StepScheduler{Step: 16, Limit: 3}))
	assert.Zero(t, a.Snapshot().Frames)
}

func TestConfigValidate(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())

	bad := DefaultConfig()
	bad.Variant = "plasma"
	require.Error(t, bad.Validate())

	bad = DefaultConfig()
	bad.Stars = -1
	require.Error(t, bad.Validate())

	bad = DefaultConfig()
	bad.Easing = 2
	require.Error(t, bad.Validate())
}
