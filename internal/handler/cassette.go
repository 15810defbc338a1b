// SPDX-License-Identifier: MIT
package handler

import (
	"fmt"
	"image"

	"vumeter/internal/anim"
	"vumeter/internal/render"
	"vumeter/internal/skin"
)

// cassette adds the spinning reel pair on top of the shared pipeline.
// Reel speeds follow the spool model while track progress is known; the
// shared album art slot stays static, tape decks don't spin their covers.
type cassette struct {
	*base

	reels *anim.ReelPair
	left  *spinner
	right *spinner
}

func newCassette(b *base) (*cassette, error) {
	h := &cassette{base: b}
	params := anim.ParamsFromConfig(b.cfg.Rotation)
	d := b.desc

	var leftRPM, rightRPM float64
	if d.ReelLeft != nil {
		leftRPM = d.ReelLeft.RPM
	}
	if d.ReelRight != nil {
		rightRPM = d.ReelRight.RPM
	}
	h.reels = anim.NewReelPair(leftRPM, rightRPM, b.cfg.Rotation, params, b.logger)

	var err error
	if h.left, err = h.buildReel(d.ReelLeft, "reel.left", h.reels.Left()); err != nil {
		return nil, err
	}
	if h.right, err = h.buildReel(d.ReelRight, "reel.right", h.reels.Right()); err != nil {
		return nil, err
	}
	return h, nil
}

func (h *cassette) buildReel(d *skin.Reel, name string, rotor *anim.Rotor) (*spinner, error) {
	if d == nil || d.Center == nil {
		return nil, nil
	}
	img, err := h.assets.Image(d.Image)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	ctr := image.Point{X: d.Center.X, Y: d.Center.Y}
	layer := h.comp.AddLayer(name, render.ZMechanical, spinRegion(ctr, img))
	return newSpinner(img, ctr, rotor, layer), nil
}

func (h *cassette) Kind() skin.Kind { return skin.KindCassette }

func (h *cassette) RenderFrame(fi render.FrameInfo) {
	st := h.store.State()
	playing := h.persist.Observe(st, fi.Now)
	progress, hasProgress := st.ProgressFor(h.cfg.Progress.QueueMode, fi.Now)

	h.renderCommon(fi, st)

	h.reels.Tick(fi.Now, playing, progress, hasProgress)
	if h.left != nil {
		h.left.Refresh()
	}
	if h.right != nil {
		h.right.Refresh()
	}
	h.finish()
}
