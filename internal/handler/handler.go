// SPDX-License-Identifier: MIT
/*
Package handler turns one skin into a running render pipeline. The
factory classifies the skin and builds the matching handler: basic
(needles, spectrum, overlays), turntable (vinyl, tonearm, rotating art on
top of basic) or cassette (reel pair on top of basic).

A handler owns the compositor and all per-element renderers for its skin.
The scheduler calls RenderFrame once per tick on the render goroutine;
Frame returns the composed buffer for the display front end.
*/
package handler

import (
	"fmt"
	"image"

	"vumeter/internal/config"
	"vumeter/internal/log"
	"vumeter/internal/meta"
	"vumeter/internal/render"
	"vumeter/internal/skin"
)

// ArtProvider resolves a track's album art reference to a decoded image.
// Implementations may hit the network; handlers call this only when the
// reference changes, never per frame.
type ArtProvider interface {
	Art(ref string) (*image.RGBA, error)
}

// Handler renders frames for one active skin.
type Handler interface {
	// Name returns the skin name.
	Name() string
	// Kind returns the resolved handler family.
	Kind() skin.Kind
	// RenderFrame advances all animations and composites one frame.
	RenderFrame(fi render.FrameInfo)
	// Frame returns the composed frame buffer, valid until the next
	// RenderFrame.
	Frame() *image.RGBA
	// Damage returns the screen rectangles the last RenderFrame changed.
	Damage() []image.Rectangle
}

// New builds the handler for a validated skin descriptor.
func New(d *skin.Descriptor, assets skin.Assets, art ArtProvider, cfg *config.Config, store *meta.Store, logger *log.Logger) (Handler, error) {
	if logger == nil {
		logger = log.Discard()
	}
	kind := skin.Classify(d)
	logger.Infof("skin %q resolved as %s", d.Name, kind)

	b, err := newBase(d, assets, art, cfg, store, logger)
	if err != nil {
		return nil, fmt.Errorf("skin %q: %w", d.Name, err)
	}
	switch kind {
	case skin.KindTurntable:
		return newTurntable(b)
	case skin.KindCassette:
		return newCassette(b)
	default:
		return &basic{base: b}, nil
	}
}

// basic is the plain meter handler; everything it needs lives in base.
type basic struct {
	*base
}

func (h *basic) Kind() skin.Kind { return skin.KindBasic }

func (h *basic) RenderFrame(fi render.FrameInfo) {
	st := h.store.State()
	h.persist.Observe(st, fi.Now)
	h.renderCommon(fi, st)
	h.finish()
}
