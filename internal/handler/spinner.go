// SPDX-License-Identifier: MIT
package handler

import (
	"image"
	"time"

	"vumeter/internal/anim"
	"vumeter/internal/render"
)

// spinner pairs a rotor with its precomputed rotation frames and draws
// the current frame into a layer. Vinyl discs, rotating album art and
// both reels are all spinners; only their rotor tuning differs.
type spinner struct {
	rotor   *anim.Rotor
	frames  []*image.RGBA
	blitPos image.Point // layer-local top-left
	layer   *render.Layer
	lastIdx int
	drawn   bool
}

// newSpinner precomputes frames for img rotating about its center, which
// sits on the screen point center. The layer must cover the full rotated
// extent.
func newSpinner(img *image.RGBA, center image.Point, rotor *anim.Rotor, layer *render.Layer) *spinner {
	b := img.Bounds()
	pivot := image.Point{X: b.Dx() / 2, Y: b.Dy() / 2}
	return &spinner{
		rotor:   rotor,
		frames:  render.PrecomputeFrames(img, rotor.StepDeg(), pivot),
		blitPos: center.Sub(pivot).Sub(layer.Region().Min),
		layer:   layer,
	}
}

// setImage swaps the artwork (composite art baked onto the vinyl) and
// recomputes the frames at the same tuning.
func (s *spinner) setImage(img *image.RGBA, center image.Point) {
	b := img.Bounds()
	pivot := image.Point{X: b.Dx() / 2, Y: b.Dy() / 2}
	s.frames = render.PrecomputeFrames(img, s.rotor.StepDeg(), pivot)
	s.blitPos = center.Sub(pivot).Sub(s.layer.Region().Min)
	s.drawn = false
}

// Tick advances the rotor and repaints when it moved to a new frame. For
// rotors driven elsewhere (the reel pair) use Refresh instead.
func (s *spinner) Tick(now time.Time, playing bool) bool {
	s.rotor.Tick(now, playing)
	return s.Refresh()
}

// Refresh repaints when the rotor's frame changed since the last draw.
// The first call paints the resting frame even when playback is held.
func (s *spinner) Refresh() bool {
	idx := s.rotor.FrameIndex(len(s.frames))
	if s.drawn && idx == s.lastIdx {
		return false
	}
	s.lastIdx = idx
	frame := s.frames[idx]
	surf := s.layer.Surface()
	box := frame.Bounds().Sub(frame.Bounds().Min).Add(s.blitPos)
	surf.Clear(box)
	surf.Blit(frame, s.blitPos)
	s.layer.MarkDirty()
	s.drawn = true
	return true
}
