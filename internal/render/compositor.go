// SPDX-License-Identifier: MIT
package render

import (
	"image"
	"sort"

	"vumeter/internal/log"
)

// Z-order of the compositor layers, back to front. Every handler uses the
// same stack; skins without an element simply never create its layer.
const (
	ZBackground = 0 // static background, baked into the compositor
	ZMechanical = 1 // vinyl disc, reels
	ZAlbumArt   = 2
	ZNeedles    = 3
	ZTonearm    = 4
	ZText       = 5 // scrollers
	ZIndicators = 6 // volume, mute, shuffle, repeat, playstate, progress
	ZMeta       = 7 // time display, format icon, sample info
	ZForeground = 8 // static mask above everything
)

// Layer is one transparent compositing surface. Renderers draw into their
// layer and mark it dirty; the compositor folds dirty layers into the
// frame. A layer may be restricted to a region, which bounds both its
// memory and the dirty area it can produce.
type Layer struct {
	name    string
	z       int
	region  image.Rectangle
	surf    *Surface
	dirty   bool
	visible bool
}

// Surface returns the layer's drawing surface. Coordinates are
// layer-local: the region's top-left is (0,0).
func (l *Layer) Surface() *Surface { return l.surf }

// Region returns the layer's screen-space rectangle.
func (l *Layer) Region() image.Rectangle { return l.region }

// MarkDirty schedules the layer for re-composition.
func (l *Layer) MarkDirty() { l.dirty = true }

// SetVisible toggles the layer. Hiding a layer dirties it so the frame
// under it is repaired on the next composite.
func (l *Layer) SetVisible(v bool) {
	if l.visible != v {
		l.visible = v
		l.dirty = true
	}
}

// Clear resets the layer to transparent and marks it dirty.
func (l *Layer) Clear() {
	l.surf.Clear(l.surf.Bounds())
	l.dirty = true
}

// Compositor owns the frame buffer and the layer stack. The frame always
// starts from the static background; dirty layers are folded in z-order
// over the damaged rectangles only.
type Compositor struct {
	logger *log.Logger

	frame      *Surface
	background *Surface
	layers     map[string]*Layer
	sorted     []*Layer
}

// NewCompositor builds a compositor for a w x h frame over the given
// background image. The background is drawn once up front.
func NewCompositor(w, h int, background *image.RGBA, logger *log.Logger) *Compositor {
	if logger == nil {
		logger = log.Discard()
	}
	bg := NewSurface(w, h)
	if background != nil {
		bg.Copy(Scale(background, w, h), image.Point{})
	}
	frame := NewSurface(w, h)
	frame.Copy(bg.RGBA(), image.Point{})
	return &Compositor{
		logger:     logger.Component("compositor"),
		frame:      frame,
		background: bg,
		layers:     make(map[string]*Layer),
	}
}

// Frame returns the composed frame buffer. Valid until the next
// Composite call.
func (c *Compositor) Frame() *image.RGBA { return c.frame.RGBA() }

// Background returns the static background surface, the capture source
// for backing regions.
func (c *Compositor) Background() *Surface { return c.background }

// SetBackground replaces the background (skin change, art baked in) and
// dirties every layer so the next composite repaints the whole frame.
func (c *Compositor) SetBackground(img *image.RGBA) {
	b := c.background.Bounds()
	c.background.Copy(Scale(img, b.Dx(), b.Dy()), image.Point{})
	c.frame.Copy(c.background.RGBA(), image.Point{})
	for _, l := range c.sorted {
		l.dirty = true
	}
}

// AddLayer creates a layer at depth z. An empty region means full frame.
// Adding a name twice returns the existing layer.
func (c *Compositor) AddLayer(name string, z int, region image.Rectangle) *Layer {
	if l, ok := c.layers[name]; ok {
		return l
	}
	if region.Empty() {
		region = c.frame.Bounds()
	} else {
		region = region.Intersect(c.frame.Bounds())
	}
	l := &Layer{
		name:    name,
		z:       z,
		region:  region,
		surf:    NewSurface(region.Dx(), region.Dy()),
		visible: true,
	}
	c.layers[name] = l
	c.sorted = append(c.sorted, l)
	sort.SliceStable(c.sorted, func(i, j int) bool { return c.sorted[i].z < c.sorted[j].z })
	c.logger.Debugf("layer %q added at z=%d region=%v", name, z, region)
	return l
}

// Layer returns a layer by name, nil when absent.
func (c *Compositor) Layer(name string) *Layer { return c.layers[name] }

// Composite folds all dirty layers into the frame and returns the damaged
// screen rectangles, coalesced per layer. With nothing dirty it returns
// nil and the frame is untouched.
func (c *Compositor) Composite() []image.Rectangle {
	var damage []image.Rectangle
	for _, l := range c.sorted {
		if l.dirty {
			damage = appendMerged(damage, l.region)
			l.dirty = false
		}
	}
	if len(damage) == 0 {
		return nil
	}
	for _, r := range damage {
		// Repair from the background, then stack every layer that
		// overlaps the damaged rect, back to front.
		c.frame.CopyRect(c.background.RGBA(), image.Point{}, r)
		for _, l := range c.sorted {
			if !l.visible {
				continue
			}
			if l.region.Overlaps(r) {
				c.frame.BlitRect(l.surf.RGBA(), l.region.Min, r)
			}
		}
	}
	return damage
}

// appendMerged adds r to rects, folding it into an existing rect when
// they overlap. Keeps the damage list short without a full interval tree.
func appendMerged(rects []image.Rectangle, r image.Rectangle) []image.Rectangle {
	for i, ex := range rects {
		if ex.Overlaps(r) || ex == r {
			rects[i] = ex.Union(r)
			return rects
		}
	}
	return append(rects, r)
}
