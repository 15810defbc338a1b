// SPDX-License-Identifier: MIT
package render

import (
	"image"
	"testing"

	"vumeter/internal/log"
	"vumeter/internal/skin"
)

func newTestSpectrum(t *testing.T) (*Compositor, *SpectrumRenderer) {
	t.Helper()
	desc := &skin.Spectrum{
		Pos:   skin.Point{X: 10, Y: 10},
		Size:  skin.Size{W: 39, H: 20},
		Bars:  4,
		Gap:   1,
		Color: skin.Color{R: 0, G: 255, B: 0},
	}
	c := NewCompositor(64, 64, nil, log.Discard())
	layer := c.AddLayer("spectrum", ZNeedles, image.Rect(10, 10, 49, 30))
	return c, NewSpectrum(desc, layer, log.Discard())
}

func TestSpectrumDrawsAllBarsFirstFrame(t *testing.T) {
	_, sp := newTestSpectrum(t)
	if got := sp.Render([]float64{0.5, 0.5, 0.5, 0.5}); got != 4 {
		t.Errorf("first render drew %d bars, want 4", got)
	}
}

func TestSpectrumSkipsUnchangedBars(t *testing.T) {
	_, sp := newTestSpectrum(t)
	sp.Render([]float64{0.5, 0.5, 0.5, 0.5})

	// Same levels: nothing to redraw.
	if got := sp.Render([]float64{0.5, 0.5, 0.5, 0.5}); got != 0 {
		t.Errorf("unchanged render drew %d bars, want 0", got)
	}

	// One bar moves: exactly one redraw.
	if got := sp.Render([]float64{0.5, 0.9, 0.5, 0.5}); got != 1 {
		t.Errorf("single-change render drew %d bars, want 1", got)
	}

	// Sub-pixel wiggle quantizes to the same height: no redraw.
	if got := sp.Render([]float64{0.501, 0.9, 0.5, 0.5}); got != 0 {
		t.Errorf("sub-pixel render drew %d bars, want 0", got)
	}
}

func TestSpectrumShortAndLongBandSlices(t *testing.T) {
	_, sp := newTestSpectrum(t)
	// Two bands for four bars: the missing bars render silent.
	if got := sp.Render([]float64{1, 1}); got != 4 {
		t.Errorf("short slice first render drew %d bars, want 4", got)
	}
	if got := sp.Render([]float64{1, 1}); got != 0 {
		t.Errorf("short slice repeat drew %d bars, want 0", got)
	}
	// More bands than bars: extras ignored.
	if got := sp.Render([]float64{1, 1, 0, 0, 1, 1, 1, 1}); got != 0 {
		t.Errorf("long slice drew %d bars, want 0", got)
	}
}

func TestSpectrumResetForcesRedraw(t *testing.T) {
	c, sp := newTestSpectrum(t)
	sp.Render([]float64{0.5, 0.5, 0.5, 0.5})
	c.Composite()

	sp.Reset()
	if got := sp.Render([]float64{0.5, 0.5, 0.5, 0.5}); got != 4 {
		t.Errorf("post-reset render drew %d bars, want 4", got)
	}
}

func TestSpectrumPaintsIntoLayer(t *testing.T) {
	c, sp := newTestSpectrum(t)
	sp.Render([]float64{1, 0, 0, 0})
	c.Composite()

	// First bar is full height at the layer's screen position.
	px := c.Frame().RGBAAt(11, 12)
	if px.G != 255 {
		t.Errorf("bar pixel = %v, want green", px)
	}
	// Silent bar area stays background (transparent layer over nil bg).
	px = c.Frame().RGBAAt(21, 12)
	if px.G == 255 {
		t.Errorf("silent bar pixel = %v, want empty", px)
	}
}
