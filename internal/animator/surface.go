package animator

import "image/color"

// BlendMode controls how subsequent draws composite onto the surface.
type BlendMode int

const (
	// BlendOver is ordinary source-over compositing.
	BlendOver BlendMode = iota
	// BlendAdd adds source color, brightening overlaps.
	BlendAdd
)

// Surface is the drawing target owned by an Animator. Coordinates passed to
// drawing calls are logical; the surface applies its own scale transform.
type Surface interface {
	// Resize sets the physical backing size in device pixels.
	Resize(width, height int)
	// SetTransform sets the logical to physical scale factor.
	SetTransform(scale float64)
	SetBlend(mode BlendMode)
	// Fill covers the whole surface with c.
	Fill(c color.NRGBA)
	FillCircle(x, y, r float64, c color.NRGBA)
	StrokeLine(x0, y0, x1, y1, width float64, c color.NRGBA)
	// RadialGlow paints a radial gradient from c at the centre to transparent at radius.
	RadialGlow(cx, cy, radius float64, c color.NRGBA)
	// Vignette darkens the surface towards its edges.
	Vignette(strength float64)
}

// withAlpha returns c with its alpha replaced by a in [0, 1].
func withAlpha(c color.NRGBA, a float64) color.NRGBA {
	if a < 0 {
		a = 0
	}
	if a > 1 {
		a = 1
	}
	c.A = uint8(a*255 + 0.5)
	return c
}

var white = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
