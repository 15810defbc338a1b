// SPDX-License-Identifier: MIT
package handler

import (
	"image"
	"math"

	"vumeter/internal/log"
	"vumeter/internal/render"
	"vumeter/internal/skin"
)

// needleStepDeg is the needle precompute resolution. One-degree frames
// are visually continuous for VU sweeps of 45-120 degrees.
const needleStepDeg = 1.0

// Needle renders one VU channel. Frames across the sweep are precomputed
// at load; per frame the level maps to an angle, the angle quantizes to a
// frame, and unchanged frames are skipped.
type Needle struct {
	logger *log.Logger
	desc   skin.Meter

	frames  []*image.RGBA // index 0 = AngleMin end of the sweep
	blitPos image.Point   // layer-local top-left for the frame images
	lastIdx int
}

// NewNeedle precomputes the sweep frames for one meter channel. The
// needle image rotates about its center, which sits on the skin's pivot
// point. layerMin is the needles layer origin for local coordinates.
func NewNeedle(desc *skin.Meter, img *image.RGBA, layerMin image.Point, logger *log.Logger) *Needle {
	if logger == nil {
		logger = log.Discard()
	}
	b := img.Bounds()
	pivot := image.Point{X: b.Dx() / 2, Y: b.Dy() / 2}

	lo := math.Min(desc.AngleMin, desc.AngleMax)
	hi := math.Max(desc.AngleMin, desc.AngleMax)
	n := int((hi-lo)/needleStepDeg) + 1
	frames := make([]*image.RGBA, n)
	for i := range frames {
		deg := lo + float64(i)*needleStepDeg
		frames[i] = render.Rotate(img, deg, pivot)
	}

	return &Needle{
		logger: logger.Component("needle"),
		desc:   *desc,
		frames: frames,
		blitPos: image.Point{
			X: desc.Pivot.X - pivot.X - layerMin.X,
			Y: desc.Pivot.Y - pivot.Y - layerMin.Y,
		},
		lastIdx: -1,
	}
}

// frameFor maps a 0..1 level onto the sweep and returns the frame index.
func (n *Needle) frameFor(level float64) int {
	if level < 0 {
		level = 0
	} else if level > 1 {
		level = 1
	}
	deg := n.desc.AngleMin + (n.desc.AngleMax-n.desc.AngleMin)*level
	lo := math.Min(n.desc.AngleMin, n.desc.AngleMax)
	idx := int((deg-lo)/needleStepDeg + 0.5)
	if idx < 0 {
		idx = 0
	}
	if idx >= len(n.frames) {
		idx = len(n.frames) - 1
	}
	return idx
}

// Render draws the needle for the level, skipping when the quantized
// angle did not move. The needle erases itself by clearing its own blit
// box; the compositor repairs the background underneath.
func (n *Needle) Render(layer *render.Layer, level float64) bool {
	idx := n.frameFor(level)
	if idx == n.lastIdx {
		return false
	}
	n.lastIdx = idx
	frame := n.frames[idx]
	surf := layer.Surface()
	box := frame.Bounds().Sub(frame.Bounds().Min).Add(n.blitPos)
	surf.Clear(box)
	surf.Blit(frame, n.blitPos)
	layer.MarkDirty()
	return true
}

// Reset forces a repaint on the next Render.
func (n *Needle) Reset() { n.lastIdx = -1 }
