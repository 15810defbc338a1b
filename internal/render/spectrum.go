// SPDX-License-Identifier: MIT
package render

import (
	"image"
	"image/color"

	"vumeter/internal/log"
	"vumeter/internal/skin"
)

// SpectrumRenderer draws the spectrum analyzer bars into their layer.
// Bar heights are quantized to pixels and each bar is redrawn only when
// its quantized height changed, so a steady signal costs nothing.
type SpectrumRenderer struct {
	logger *log.Logger
	desc   skin.Spectrum
	layer  *Layer

	barW  int
	last  []int // quantized height per bar, -1 = never drawn
	color color.RGBA
}

// NewSpectrum builds the renderer for its layer. The layer region must
// match the descriptor's rectangle.
func NewSpectrum(desc *skin.Spectrum, layer *Layer, logger *log.Logger) *SpectrumRenderer {
	if logger == nil {
		logger = log.Discard()
	}
	bars := desc.Bars
	barW := (desc.Size.W - (bars-1)*desc.Gap) / bars
	if barW < 1 {
		barW = 1
	}
	last := make([]int, bars)
	for i := range last {
		last[i] = -1
	}
	return &SpectrumRenderer{
		logger: logger.Component("spectrum"),
		desc:   *desc,
		layer:  layer,
		barW:   barW,
		last:   last,
		color:  color.RGBA{R: desc.Color.R, G: desc.Color.G, B: desc.Color.B, A: 255},
	}
}

// Render updates the bars from the band magnitudes (0..1 each) and
// returns the number of bars actually redrawn. Extra bands are ignored,
// missing ones render as silent.
func (s *SpectrumRenderer) Render(bands []float64) int {
	h := s.desc.Size.H
	surf := s.layer.Surface()
	drawn := 0
	for i := 0; i < s.desc.Bars; i++ {
		var v float64
		if i < len(bands) {
			v = bands[i]
		}
		if v < 0 {
			v = 0
		} else if v > 1 {
			v = 1
		}
		hq := int(v*float64(h) + 0.5)
		if hq == s.last[i] {
			continue
		}
		s.last[i] = hq
		x := i * (s.barW + s.desc.Gap)
		col := image.Rect(x, 0, x+s.barW, h)
		surf.Clear(col)
		surf.Fill(image.Rect(x, h-hq, x+s.barW, h), s.color)
		drawn++
	}
	if drawn > 0 {
		s.layer.MarkDirty()
	}
	return drawn
}

// Reset forces a full redraw on the next Render.
func (s *SpectrumRenderer) Reset() {
	for i := range s.last {
		s.last[i] = -1
	}
}
