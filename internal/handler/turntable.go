// SPDX-License-Identifier: MIT
package handler

import (
	"fmt"
	"image"
	"math"

	"vumeter/internal/anim"
	"vumeter/internal/meta"
	"vumeter/internal/render"
	"vumeter/internal/skin"
	"vumeter/pkg/rotmath"
)

// turntable adds the vinyl platter, tonearm and rotating album art on top
// of the shared pipeline. Album art on a rotating vinyl is composited
// onto the disc surface so label and record turn as one piece.
type turntable struct {
	*base

	vinyl      *spinner
	vinylImg   *image.RGBA // clean disc, before art is baked in
	vinylCtr   image.Point
	composited bool

	artSpin *spinner // separate rotating art (no vinyl to bake into)
	artCtr  image.Point

	arm       *anim.Tonearm
	armFrames []*image.RGBA
	armMinDeg float64
	armPos    image.Point
	armLayer  *render.Layer

	params anim.Params
}

// armStepDeg is the tonearm precompute resolution; the sweep is small so
// half-degree frames stay cheap.
const armStepDeg = 0.5

func newTurntable(b *base) (*turntable, error) {
	h := &turntable{base: b, params: anim.ParamsFromConfig(b.cfg.Rotation)}
	d := b.desc

	if d.Vinyl != nil && d.Vinyl.Center != nil {
		img, err := b.assets.Image(d.Vinyl.Image)
		if err != nil {
			return nil, fmt.Errorf("vinyl: %w", err)
		}
		h.vinylImg = img
		h.vinylCtr = image.Point{X: d.Vinyl.Center.X, Y: d.Vinyl.Center.Y}
		layer := b.comp.AddLayer("vinyl", render.ZMechanical, spinRegion(h.vinylCtr, img))
		rotor := anim.NewRotor("vinyl", d.Vinyl.RPM, rotmath.ParseDirection(d.Vinyl.Direction), h.params, b.logger)
		h.vinyl = newSpinner(img, h.vinylCtr, rotor, layer)
	}

	if d.AlbumArt != nil && d.AlbumArt.Rotation && h.vinyl == nil {
		// Rotating art without a platter spins on its own layer.
		h.artCtr = image.Point{
			X: d.AlbumArt.Pos.X + d.AlbumArt.Dim.W/2,
			Y: d.AlbumArt.Pos.Y + d.AlbumArt.Dim.H/2,
		}
	}

	if d.Tonearm != nil {
		if err := h.buildArm(); err != nil {
			return nil, err
		}
	}
	return h, nil
}

// spinRegion is the screen rectangle a rotating image can touch: its own
// size centered on the pivot (frames are same-size, clipped rotations).
func spinRegion(center image.Point, img *image.RGBA) image.Rectangle {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	return image.Rect(center.X-w/2, center.Y-h/2, center.X-w/2+w, center.Y-h/2+h)
}

func (h *turntable) buildArm() error {
	d := h.desc.Tonearm
	img, err := h.assets.Image(d.Image)
	if err != nil {
		return fmt.Errorf("tonearm: %w", err)
	}

	// Precompute frames across the whole sweep: rest, start and end plus
	// a degree of margin either side.
	lo := math.Min(d.AngleRest, math.Min(d.AngleStart, d.AngleEnd)) - 1
	hi := math.Max(d.AngleRest, math.Max(d.AngleStart, d.AngleEnd)) + 1
	h.armMinDeg = lo
	n := int((hi-lo)/armStepDeg) + 1
	pivot := image.Point{X: d.PivotImage.X, Y: d.PivotImage.Y}
	h.armFrames = make([]*image.RGBA, n)
	for i := range h.armFrames {
		h.armFrames[i] = render.Rotate(img, lo+float64(i)*armStepDeg, pivot)
	}

	h.armPos = image.Point{X: d.PivotScreen.X - pivot.X, Y: d.PivotScreen.Y - pivot.Y}
	region := image.Rect(h.armPos.X, h.armPos.Y,
		h.armPos.X+img.Bounds().Dx(), h.armPos.Y+img.Bounds().Dy())
	h.armLayer = h.comp.AddLayer("tonearm", render.ZTonearm, region)
	h.arm = anim.NewTonearm(d, h.params.FPS, h.logger)
	return nil
}

func (h *turntable) Kind() skin.Kind { return skin.KindTurntable }

func (h *turntable) RenderFrame(fi render.FrameInfo) {
	st := h.store.State()
	playing := h.persist.Observe(st, fi.Now)

	// The arm always follows track progress; queue mode makes no sense
	// for a groove position.
	progress, hasProgress := st.TrackProgress(fi.Now)
	remaining := -1.0
	if hasProgress {
		remaining = st.Remaining(fi.Now)
	}

	h.renderCommon(fi, st)
	h.refreshCompositeArt(st)

	if h.vinyl != nil {
		h.vinyl.Tick(fi.Now, playing)
	}
	if h.artSpin != nil {
		h.artSpin.Tick(fi.Now, playing)
	}
	if h.arm != nil {
		h.arm.Update(fi.Now, playing, progress, remaining)
		if h.arm.ShouldBlit(fi.Now) {
			h.drawArm()
			h.arm.MarkBlitted(fi.Now)
		}
	}
	h.finish()
}

func (h *turntable) drawArm() {
	deg := h.arm.Angle()
	idx := int((deg-h.armMinDeg)/armStepDeg + 0.5)
	if idx < 0 {
		idx = 0
	}
	if idx >= len(h.armFrames) {
		idx = len(h.armFrames) - 1
	}
	h.armLayer.Clear()
	h.armLayer.Surface().Blit(h.armFrames[idx], image.Point{})
	h.armLayer.MarkDirty()
}

// refreshCompositeArt bakes the track's album art onto the vinyl label
// when the art reference changes. Without a platter the art becomes its
// own spinner phase-locked at the platter tuning.
func (h *turntable) refreshCompositeArt(st *meta.PlaybackState) {
	d := h.desc.AlbumArt
	if d == nil || !d.Rotation || st.Track.AlbumArtRef == h.artRef {
		return
	}
	h.artRef = st.Track.AlbumArtRef
	art := h.fetchArt(h.artRef, d)

	if h.vinyl != nil {
		disc := cloneRGBA(h.vinylImg)
		if art != nil {
			art = render.CircleCrop(render.Scale(art, d.Dim.W, d.Dim.H))
			ctr := image.Point{
				X: (disc.Bounds().Dx() - d.Dim.W) / 2,
				Y: (disc.Bounds().Dy() - d.Dim.H) / 2,
			}
			render.FromImage(disc).Blit(art, ctr)
		}
		h.vinyl.setImage(disc, h.vinylCtr)
		h.composited = art != nil
		h.logger.Debugf("album art composited onto vinyl: %v", h.composited)
		return
	}

	if art == nil {
		if h.artSpin != nil {
			h.artSpin.layer.Clear()
			h.artSpin.layer.MarkDirty()
			h.artSpin = nil
		}
		return
	}
	if h.artSpin != nil {
		h.artSpin.setImage(art, h.artCtr)
		return
	}
	rpm := d.RPM
	if rpm <= 0 {
		rpm = 6
	}
	layer := h.comp.AddLayer("artspin", render.ZAlbumArt, spinRegion(h.artCtr, art))
	rotor := anim.NewRotor("albumart", rpm, rotmath.CCW, h.params, h.logger)
	h.artSpin = newSpinner(art, h.artCtr, rotor, layer)
}

func cloneRGBA(src *image.RGBA) *image.RGBA {
	dst := image.NewRGBA(src.Bounds())
	copy(dst.Pix, src.Pix)
	return dst
}
