// Package canvas provides a raster implementation of animator.Surface.
package canvas

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"

	"github.com/srwiley/rasterx"
	"golang.org/x/image/math/fixed"

	"github.com/ziadkadry99/decrypt/internal/animator"
)

// Raster draws onto an in-memory RGBA image. Shapes are rasterized with
// rasterx and composited by the current blend mode.
type Raster struct {
	img   *image.RGBA
	scale float64
	blend animator.BlendMode
}

var _ animator.Surface = (*Raster)(nil)

// New returns a raster with the given physical size.
func New(width, height int) *Raster {
	r := &Raster{scale: 1}
	r.Resize(width, height)
	return r
}

// Resize replaces the backing image. Previous content is discarded.
func (r *Raster) Resize(width, height int) {
	r.img = image.NewRGBA(image.Rect(0, 0, max(width, 0), max(height, 0)))
}

// SetTransform sets the logical to physical scale factor.
func (r *Raster) SetTransform(scale float64) {
	if scale <= 0 {
		scale = 1
	}
	r.scale = scale
}

func (r *Raster) SetBlend(mode animator.BlendMode) { r.blend = mode }

// Image returns the backing image.
func (r *Raster) Image() *image.RGBA { return r.img }

// Fill composites c over every pixel.
func (r *Raster) Fill(c color.NRGBA) {
	b := r.img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r.blendPixel(x, y, c, 1)
		}
	}
}

// FillCircle draws a filled circle of radius rad centred at (x, y).
func (r *Raster) FillCircle(x, y, rad float64, c color.NRGBA) {
	if rad <= 0 || c.A == 0 {
		return
	}
	cx, cy, pr := x*r.scale, y*r.scale, rad*r.scale
	r.paint(cx-pr, cy-pr, cx+pr, cy+pr, c, func(sc rasterx.Scanner, w, h int, ox, oy float64) {
		f := rasterx.NewFiller(w, h, sc)
		f.SetColor(color.White)
		rasterx.AddCircle(cx-ox, cy-oy, pr, f)
		f.Draw()
	})
}

// StrokeLine draws a straight butt-capped segment of the given logical width.
func (r *Raster) StrokeLine(x0, y0, x1, y1, width float64, c color.NRGBA) {
	if width <= 0 || c.A == 0 {
		return
	}
	ax, ay := x0*r.scale, y0*r.scale
	bx, by := x1*r.scale, y1*r.scale
	pw := width * r.scale
	if ax == bx && ay == by {
		r.FillCircle(x0, y0, width/2, c)
		return
	}

	hw := pw / 2
	minX, minY := math.Min(ax, bx)-hw, math.Min(ay, by)-hw
	maxX, maxY := math.Max(ax, bx)+hw, math.Max(ay, by)+hw
	r.paint(minX, minY, maxX, maxY, c, func(sc rasterx.Scanner, w, h int, ox, oy float64) {
		s := rasterx.NewStroker(w, h, sc)
		s.SetStroke(toFixed(pw), toFixed(4*pw), rasterx.ButtCap, rasterx.ButtCap, rasterx.FlatGap, rasterx.Miter)
		s.SetColor(color.White)
		s.Start(fixedPoint(ax-ox, ay-oy))
		s.Line(fixedPoint(bx-ox, by-oy))
		s.Stop(false)
		s.Draw()
	})
}

// RadialGlow paints a linear radial falloff from c at the centre to fully
// transparent at radius.
func (r *Raster) RadialGlow(cx, cy, radius float64, c color.NRGBA) {
	if radius <= 0 || c.A == 0 {
		return
	}
	px, py, pr := cx*r.scale, cy*r.scale, radius*r.scale
	r.paint(px-pr, py-pr, px+pr, py+pr, c, func(sc rasterx.Scanner, w, h int, ox, oy float64) {
		lx, ly := px-ox, py-oy
		g := rasterx.Gradient{
			Points: [5]float64{lx, ly, lx, ly, pr},
			Stops: []rasterx.GradStop{
				{StopColor: color.White, Offset: 0, Opacity: 1},
				{StopColor: color.White, Offset: 1, Opacity: 0},
			},
			Matrix:   rasterx.Identity,
			Spread:   rasterx.PadSpread,
			Units:    rasterx.UserSpaceOnUse,
			IsRadial: true,
		}
		f := rasterx.NewFiller(w, h, sc)
		f.SetColor(g.GetColorFunction(1))
		rasterx.AddCircle(lx, ly, pr, f)
		f.Draw()
	})
}

// Vignette darkens pixels quadratically with their distance from the centre.
// A strength of 1 takes the corners to black.
func (r *Raster) Vignette(strength float64) {
	if strength <= 0 {
		return
	}
	strength = math.Min(strength, 1)
	b := r.img.Bounds()
	cx, cy := float64(b.Dx())/2, float64(b.Dy())/2
	half := math.Hypot(cx, cy)
	if half == 0 {
		return
	}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			d := math.Hypot(float64(x)+0.5-cx, float64(y)+0.5-cy) / half
			k := 1 - strength*d*d
			if k >= 1 {
				continue
			}
			i := r.img.PixOffset(x, y)
			p := r.img.Pix[i : i+3 : i+3]
			p[0] = clampByte(float64(p[0]) * k)
			p[1] = clampByte(float64(p[1]) * k)
			p[2] = clampByte(float64(p[2]) * k)
		}
	}
}

// EncodePNG writes the current image as PNG.
func (r *Raster) EncodePNG(w io.Writer) error {
	if err := png.Encode(w, r.img); err != nil {
		return fmt.Errorf("encoding png: %w", err)
	}
	return nil
}

// paint renders a white shape into a coverage mask the size of the
// bounding box and composites c through it, so both blend modes share one
// rasterizer. draw receives the mask size and the box origin so it can emit
// box-relative coordinates.
func (r *Raster) paint(minX, minY, maxX, maxY float64, c color.NRGBA, draw func(sc rasterx.Scanner, w, h int, ox, oy float64)) {
	x0, y0 := int(math.Floor(minX)), int(math.Floor(minY))
	x1, y1 := int(math.Ceil(maxX)), int(math.Ceil(maxY))
	bounds := r.img.Bounds()
	if !image.Rect(x0, y0, x1, y1).Overlaps(bounds) {
		return
	}
	w, h := x1-x0, y1-y0
	if w <= 0 || h <= 0 {
		return
	}

	mask := image.NewAlpha(image.Rect(0, 0, w, h))
	draw(rasterx.NewScannerGV(w, h, mask, mask.Bounds()), w, h, float64(x0), float64(y0))

	for y := 0; y < h; y++ {
		py := y0 + y
		if py < bounds.Min.Y || py >= bounds.Max.Y {
			continue
		}
		for x := 0; x < w; x++ {
			px := x0 + x
			if px < bounds.Min.X || px >= bounds.Max.X {
				continue
			}
			m := mask.Pix[y*mask.Stride+x]
			if m == 0 {
				continue
			}
			r.blendPixel(px, py, c, float64(m)/255)
		}
	}
}

func toFixed(v float64) fixed.Int26_6 {
	return fixed.Int26_6(math.Round(v * 64))
}

func fixedPoint(x, y float64) fixed.Point26_6 {
	return fixed.Point26_6{X: toFixed(x), Y: toFixed(y)}
}

// blendPixel composites c scaled by coverage onto the premultiplied pixel
// at (x, y).
func (r *Raster) blendPixel(x, y int, c color.NRGBA, coverage float64) {
	a := float64(c.A) / 255 * coverage
	if a <= 0 {
		return
	}
	sr, sg, sb, sa := float64(c.R)*a, float64(c.G)*a, float64(c.B)*a, 255*a

	i := r.img.PixOffset(x, y)
	p := r.img.Pix[i : i+4 : i+4]
	switch r.blend {
	case animator.BlendAdd:
		p[0] = clampByte(float64(p[0]) + sr)
		p[1] = clampByte(float64(p[1]) + sg)
		p[2] = clampByte(float64(p[2]) + sb)
		p[3] = clampByte(float64(p[3]) + sa)
	default:
		k := 1 - a
		p[0] = clampByte(sr + float64(p[0])*k)
		p[1] = clampByte(sg + float64(p[1])*k)
		p[2] = clampByte(sb + float64(p[2])*k)
		p[3] = clampByte(sa + float64(p[3])*k)
	}
}

func clampByte(v float64) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 255:
		return 255
	default:
		return uint8(v + 0.5)
	}
}
