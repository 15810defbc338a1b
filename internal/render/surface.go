// SPDX-License-Identifier: MIT
/*
Package render is the software rendering core: an RGBA framebuffer,
rotation frame precompute, the layer compositor with dirty-rect
composition, the per-element renderers (spectrum, scrolling text,
indicators) and the frame scheduler.

Everything here runs on the single render goroutine and draws into plain
image.RGBA memory; the display front end only copies finished frames out.
That keeps the whole pipeline testable without a window system.
*/
package render

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
)

// Surface wraps an RGBA buffer with the blit operations the renderers
// need. The zero value is not usable; construct with NewSurface.
type Surface struct {
	img *image.RGBA
}

// NewSurface allocates a transparent surface of the given size.
func NewSurface(w, h int) *Surface {
	return &Surface{img: image.NewRGBA(image.Rect(0, 0, w, h))}
}

// FromImage wraps an existing buffer without copying.
func FromImage(img *image.RGBA) *Surface {
	return &Surface{img: img}
}

// RGBA returns the underlying buffer.
func (s *Surface) RGBA() *image.RGBA { return s.img }

// Bounds returns the surface rectangle.
func (s *Surface) Bounds() image.Rectangle { return s.img.Bounds() }

// Fill paints a solid rectangle, replacing what was there.
func (s *Surface) Fill(r image.Rectangle, c color.RGBA) {
	draw.Draw(s.img, r.Intersect(s.img.Bounds()), image.NewUniform(c), image.Point{}, draw.Src)
}

// Clear resets a rectangle to transparent.
func (s *Surface) Clear(r image.Rectangle) {
	draw.Draw(s.img, r.Intersect(s.img.Bounds()), image.Transparent, image.Point{}, draw.Src)
}

// Blit alpha-composites src onto the surface with its top-left at p.
func (s *Surface) Blit(src image.Image, p image.Point) {
	r := src.Bounds().Sub(src.Bounds().Min).Add(p)
	draw.Draw(s.img, r.Intersect(s.img.Bounds()), src, src.Bounds().Min, draw.Over)
}

// BlitRect alpha-composites the part of src that maps into dst rect r,
// with src's top-left logically at p.
func (s *Surface) BlitRect(src image.Image, p image.Point, r image.Rectangle) {
	full := src.Bounds().Sub(src.Bounds().Min).Add(p)
	clip := full.Intersect(r).Intersect(s.img.Bounds())
	if clip.Empty() {
		return
	}
	sp := src.Bounds().Min.Add(clip.Min.Sub(p))
	draw.Draw(s.img, clip, src, sp, draw.Over)
}

// Copy replaces the destination pixels with src (no alpha blending).
func (s *Surface) Copy(src image.Image, p image.Point) {
	r := src.Bounds().Sub(src.Bounds().Min).Add(p)
	draw.Draw(s.img, r.Intersect(s.img.Bounds()), src, src.Bounds().Min, draw.Src)
}

// CopyRect replaces the pixels of dst rect r from src positioned at p.
func (s *Surface) CopyRect(src image.Image, p image.Point, r image.Rectangle) {
	full := src.Bounds().Sub(src.Bounds().Min).Add(p)
	clip := full.Intersect(r).Intersect(s.img.Bounds())
	if clip.Empty() {
		return
	}
	sp := src.Bounds().Min.Add(clip.Min.Sub(p))
	draw.Draw(s.img, clip, src, sp, draw.Src)
}

// Crop returns a copy of the rectangle as a standalone image.
func (s *Surface) Crop(r image.Rectangle) *image.RGBA {
	r = r.Intersect(s.img.Bounds())
	out := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	draw.Draw(out, out.Bounds(), s.img, r.Min, draw.Src)
	return out
}

// Scale resamples src to w x h.
func Scale(src *image.RGBA, w, h int) *image.RGBA {
	if src.Bounds().Dx() == w && src.Bounds().Dy() == h {
		return src
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}

// Rotate returns src rotated by deg around the pivot (in src coordinates),
// into a buffer of the same size. Positive angles turn counter-clockwise
// on screen. Pixels rotated outside the buffer are clipped, so rotating
// elements should carry enough transparent margin around the pivot.
func Rotate(src *image.RGBA, deg float64, pivot image.Point) *image.RGBA {
	dst := image.NewRGBA(src.Bounds().Sub(src.Bounds().Min))
	if deg == 0 {
		draw.Draw(dst, dst.Bounds(), src, src.Bounds().Min, draw.Src)
		return dst
	}
	// Screen y grows downward, so visual counter-clockwise is a negative
	// mathematical angle.
	rad := -deg * math.Pi / 180
	sin, cos := math.Sin(rad), math.Cos(rad)
	px, py := float64(pivot.X), float64(pivot.Y)
	m := f64.Aff3{
		cos, -sin, px - cos*px + sin*py,
		sin, cos, py - sin*px - cos*py,
	}
	draw.ApproxBiLinear.Transform(dst, m, src, src.Bounds(), draw.Src, nil)
	return dst
}

// PrecomputeFrames renders one rotation frame per stepDeg around the full
// circle. Frame i holds the image at angle i*stepDeg; FrameIndex on the
// rotor side picks the nearest one at runtime so the hot path never
// resamples.
func PrecomputeFrames(src *image.RGBA, stepDeg float64, pivot image.Point) []*image.RGBA {
	if stepDeg <= 0 {
		return []*image.RGBA{Rotate(src, 0, pivot)}
	}
	n := int(360 / stepDeg)
	if n < 1 {
		n = 1
	}
	frames := make([]*image.RGBA, n)
	for i := range frames {
		frames[i] = Rotate(src, float64(i)*stepDeg, pivot)
	}
	return frames
}

// CircleCrop masks src to an inscribed circle, transparent outside. Used
// for album art dropped onto a spinning platter.
func CircleCrop(src *image.RGBA) *image.RGBA {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	cx, cy := float64(w)/2, float64(h)/2
	r := math.Min(cx, cy)
	r2 := r * r
	for y := 0; y < h; y++ {
		dy := float64(y) + 0.5 - cy
		for x := 0; x < w; x++ {
			dx := float64(x) + 0.5 - cx
			if dx*dx+dy*dy <= r2 {
				dst.SetRGBA(x, y, src.RGBAAt(b.Min.X+x, b.Min.Y+y))
			}
		}
	}
	return dst
}
