package canvas

import (
	"bytes"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ziadkadry99/decrypt/internal/animator"
)

var opaqueWhite = color.NRGBA{R: 255, G: 255, B: 255, A: 255}

func alphaAt(r *Raster, x, y int) uint8 {
	return r.Image().RGBAAt(x, y).A
}

func TestFillCoversEveryPixel(t *testing.T) {
	r := New(4, 3)
	r.Fill(color.NRGBA{R: 10, G: 20, B: 30, A: 255})
	for y := 0; y < 3; y++ {
		for x := 0; x < 4; x++ {
			c := r.Image().RGBAAt(x, y)
			require.Equal(t, color.RGBA{R: 10, G: 20, B: 30, A: 255}, c)
		}
	}
}

func TestTranslucentFillAccumulates(t *testing.T) {
	r := New(1, 1)
	base := color.NRGBA{A: 90}
	r.Fill(base)
	first := alphaAt(r, 0, 0)
	r.Fill(base)
	assert.Greater(t, alphaAt(r, 0, 0), first)
}

func TestFillCircle(t *testing.T) {
	r := New(20, 20)
	r.FillCircle(10, 10, 4, opaqueWhite)

	assert.GreaterOrEqual(t, alphaAt(r, 10, 10), uint8(250), "centre fully covered")
	assert.Zero(t, alphaAt(r, 0, 0), "far corner untouched")
	assert.Zero(t, alphaAt(r, 10, 16), "outside radius")
}

func TestFillCircleHonoursTransform(t *testing.T) {
	r := New(20, 20)
	r.SetTransform(2)
	r.FillCircle(5, 5, 1, opaqueWhite)

	assert.GreaterOrEqual(t, alphaAt(r, 10, 10), uint8(250))
	assert.Zero(t, alphaAt(r, 5, 5))
}

func TestFillCirclePartiallyOffSurface(t *testing.T) {
	r := New(10, 10)
	r.FillCircle(0, 0, 3, opaqueWhite)
	r.FillCircle(-50, -50, 3, opaqueWhite)
	assert.GreaterOrEqual(t, alphaAt(r, 0, 0), uint8(250))
}

func TestStrokeLine(t *testing.T) {
	r := New(30, 10)
	r.StrokeLine(2, 5, 28, 5, 2, opaqueWhite)

	assert.NotZero(t, alphaAt(r, 15, 5))
	assert.NotZero(t, alphaAt(r, 15, 4))
	assert.Zero(t, alphaAt(r, 15, 0))
	assert.Zero(t, alphaAt(r, 0, 5), "butt cap ends at the start point")
	assert.Zero(t, alphaAt(r, 29, 5), "butt cap ends at the end point")
}

func TestStrokeLineDiagonalAndDegenerate(t *testing.T) {
	r := New(20, 20)
	r.StrokeLine(2, 2, 18, 18, 2, opaqueWhite)
	assert.NotZero(t, alphaAt(r, 10, 10))
	assert.Zero(t, alphaAt(r, 18, 2), "off the diagonal")

	dot := New(10, 10)
	dot.StrokeLine(5, 5, 5, 5, 4, opaqueWhite)
	assert.NotZero(t, alphaAt(dot, 5, 5), "zero-length line draws a dot")
}

func TestAdditiveBlendBrightensOverlap(t *testing.T) {
	half := color.NRGBA{R: 255, G: 255, B: 255, A: 100}

	over := New(10, 10)
	over.FillCircle(5, 5, 3, half)
	over.FillCircle(5, 5, 3, half)

	add := New(10, 10)
	add.SetBlend(animator.BlendAdd)
	add.FillCircle(5, 5, 3, half)
	add.FillCircle(5, 5, 3, half)

	assert.Greater(t, add.Image().RGBAAt(5, 5).R, over.Image().RGBAAt(5, 5).R)
}

func TestRadialGlowFallsOff(t *testing.T) {
	r := New(41, 41)
	r.RadialGlow(20.5, 20.5, 20, opaqueWhite)

	centre := alphaAt(r, 20, 20)
	mid := alphaAt(r, 30, 20)
	assert.Greater(t, centre, mid)
	assert.Greater(t, mid, uint8(0))
	assert.Zero(t, alphaAt(r, 0, 0))
}

func TestRadialGlowAdditive(t *testing.T) {
	dim := color.NRGBA{R: 200, G: 100, B: 50, A: 120}

	once := New(21, 21)
	once.SetBlend(animator.BlendAdd)
	once.RadialGlow(10.5, 10.5, 10, dim)
	twice := New(21, 21)
	twice.SetBlend(animator.BlendAdd)
	twice.RadialGlow(10.5, 10.5, 10, dim)
	twice.RadialGlow(10.5, 10.5, 10, dim)

	a, b := once.Image().RGBAAt(10, 10), twice.Image().RGBAAt(10, 10)
	assert.Greater(t, a.R, a.G, "glow keeps its colour")
	assert.Greater(t, b.R, a.R)
}

func TestVignetteDarkensCorners(t *testing.T) {
	r := New(20, 20)
	r.Fill(opaqueWhite)
	r.Vignette(0.8)

	centre := r.Image().RGBAAt(10, 10).R
	corner := r.Image().RGBAAt(0, 0).R
	assert.Greater(t, centre, corner)
	assert.Equal(t, uint8(255), r.Image().RGBAAt(0, 0).A, "alpha preserved")
}

func TestZeroSizedRasterIsSafe(t *testing.T) {
	r := New(0, 0)
	r.Fill(opaqueWhite)
	r.FillCircle(1, 1, 1, opaqueWhite)
	r.StrokeLine(0, 0, 5, 5, 1, opaqueWhite)
	r.RadialGlow(1, 1, 5, opaqueWhite)
	r.Vignette(0.5)
}

func TestBackgroundEncodesAtPhysicalSize(t *testing.T) {
	for _, variant := range []animator.Variant{animator.VariantField, animator.VariantConstellation} {
		cfg := animator.Resolve(animator.DefaultConfig(), true)
		cfg.Variant = variant

		r := Background(cfg, 120, 80, 1.5, 42, nil)

		var buf bytes.Buffer
		require.NoError(t, r.EncodePNG(&buf))

		img, err := png.Decode(&buf)
		require.NoError(t, err)
		assert.Equal(t, 180, img.Bounds().Dx(), variant)
		assert.Equal(t, 120, img.Bounds().Dy(), variant)
		assert.NotZero(t, r.Image().RGBAAt(90, 60).A, "base tone painted")
	}
}

func TestBackgroundIsDeterministicForSeed(t *testing.T) {
	cfg := animator.Resolve(animator.DefaultConfig(), true)
	a := Background(cfg, 64, 64, 1, 7, nil)
	b := Background(cfg, 64, 64, 1, 7, nil)
	assert.Equal(t, a.Image().Pix, b.Image().Pix)
}
