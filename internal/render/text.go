// SPDX-License-Identifier: MIT
package render

import (
	"image"
	"image/color"
	"time"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"vumeter/internal/config"
	"vumeter/internal/log"
	"vumeter/internal/skin"
)

// textFace is the built-in face used by all overlays. Skins style text by
// color and box, not by font.
var textFace = basicfont.Face7x13

// scrollPause is how long the scroller rests at each end of the box
// before reversing.
const scrollPause = 400 * time.Millisecond

// MeasureText returns the pixel width of s in the overlay face.
func MeasureText(s string) int {
	return font.MeasureString(textFace, s).Ceil()
}

// DrawText paints s onto the surface with its left baseline-ascended
// corner at p.
func DrawText(dst *Surface, s string, p image.Point, c color.RGBA) {
	d := font.Drawer{
		Dst:  dst.RGBA(),
		Src:  image.NewUniform(c),
		Face: textFace,
		Dot:  fixed.P(p.X, p.Y+textFace.Metrics().Ascent.Ceil()),
	}
	d.DrawString(s)
}

// Scroller animates one text field. Text that fits its box is drawn
// centered or left-aligned and never repainted; wider text bounces back
// and forth at the field's speed with a pause at each end.
type Scroller struct {
	logger *log.Logger

	pos    image.Point
	boxW   int
	center bool
	speed  float64 // px/s
	color  color.RGBA

	text   string
	textW  int
	offset float64
	dir    float64
	pause  time.Time
	last   time.Time
	drawn  bool
}

// NewScroller builds a scroller for one field. Speed resolution order:
// the field's own speed, then the skin-wide speed, then the built-in
// default.
func NewScroller(field *skin.TextField, skinSpeed float64, fallback skin.Color, logger *log.Logger) *Scroller {
	if logger == nil {
		logger = log.Discard()
	}
	speed := config.DefaultScrollSpeed
	if skinSpeed > 0 {
		speed = skinSpeed
	}
	if field.Speed != nil && *field.Speed > 0 {
		speed = *field.Speed
	}
	col := fallback
	if field.Color != nil {
		col = *field.Color
	}
	return &Scroller{
		logger: logger.Component("scrolling"),
		pos:    image.Point{X: field.Pos.X, Y: field.Pos.Y},
		boxW:   field.MaxWidth,
		center: field.Center,
		speed:  speed,
		color:  color.RGBA{R: col.R, G: col.G, B: col.B, A: 255},
	}
}

// SetText replaces the content and resets the scroll phase. Setting the
// same text is a no-op.
func (sc *Scroller) SetText(s string) {
	if s == sc.text {
		return
	}
	sc.text = s
	sc.textW = MeasureText(s)
	sc.offset = 0
	sc.dir = 1
	sc.pause = time.Time{}
	sc.last = time.Time{}
	sc.drawn = false
}

// Scrolls reports whether the current text overflows its box.
func (sc *Scroller) Scrolls() bool { return sc.textW > sc.boxW }

// Tick advances the scroll animation and reports whether the field needs
// a repaint. Static text repaints once after SetText and then never; a
// SetText to empty still gets that one repaint so Draw clears the box.
func (sc *Scroller) Tick(now time.Time) bool {
	if !sc.Scrolls() {
		return !sc.drawn
	}
	if sc.last.IsZero() {
		sc.last = now
		return true
	}
	if now.Before(sc.pause) {
		sc.last = now
		return false
	}
	dt := now.Sub(sc.last).Seconds()
	sc.last = now

	prev := int(sc.offset)
	sc.offset += sc.dir * sc.speed * dt
	limit := float64(sc.textW - sc.boxW)
	if sc.offset >= limit {
		sc.offset = limit
		sc.dir = -1
		sc.pause = now.Add(scrollPause)
	} else if sc.offset <= 0 {
		sc.offset = 0
		sc.dir = 1
		sc.pause = now.Add(scrollPause)
	}
	return int(sc.offset) != prev || !sc.drawn
}

// Draw paints the field into the text layer and marks the damaged box.
// Coordinates are layer-local for a full-frame text layer.
func (sc *Scroller) Draw(layer *Layer) {
	surf := layer.Surface()
	box := image.Rect(sc.pos.X, sc.pos.Y, sc.pos.X+sc.boxW, sc.pos.Y+textFace.Metrics().Height.Ceil()+2)
	surf.Clear(box)
	if sc.text == "" {
		sc.drawn = true
		layer.MarkDirty()
		return
	}

	x := sc.pos.X
	if sc.Scrolls() {
		x -= int(sc.offset)
	} else if sc.center {
		x += (sc.boxW - sc.textW) / 2
	}
	// Clip to the box by drawing into a scratch strip; the basic face has
	// no sub-run clipping.
	strip := NewSurface(sc.textW, box.Dy())
	DrawText(strip, sc.text, image.Point{}, sc.color)
	surf.BlitRect(strip.RGBA(), image.Point{X: x, Y: sc.pos.Y}, box)
	sc.drawn = true
	layer.MarkDirty()
}
