// SPDX-License-Identifier: MIT
package render

import (
	"image"
	"testing"

	"vumeter/internal/log"
	"vumeter/internal/meta"
	"vumeter/internal/skin"
)

func indicatorLayer(t *testing.T) (*Compositor, *Layer) {
	t.Helper()
	c := NewCompositor(64, 64, nil, log.Discard())
	return c, c.AddLayer("indicators", ZIndicators, image.Rectangle{})
}

func TestMuteStateDerivation(t *testing.T) {
	tests := []struct {
		name string
		st   meta.PlaybackState
		want int
	}{
		{"audible", meta.PlaybackState{Volume: 50}, MuteOff},
		{"muted", meta.PlaybackState{Volume: 50, Muted: true}, MuteOn},
		{"zero volume", meta.PlaybackState{Volume: 0}, MuteZeroVol},
		{"muted at zero volume", meta.PlaybackState{Volume: 0, Muted: true}, MuteOn},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MuteState(&tt.st); got != tt.want {
				t.Errorf("MuteState = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestPlayStateDerivation(t *testing.T) {
	if got := PlayState(&meta.PlaybackState{Transport: meta.TransportPlaying}); got != PlayStatePlay {
		t.Errorf("playing = %d", got)
	}
	if got := PlayState(&meta.PlaybackState{Transport: meta.TransportPaused}); got != PlayStatePause {
		t.Errorf("paused = %d", got)
	}
	if got := PlayState(&meta.PlaybackState{}); got != PlayStateStop {
		t.Errorf("stopped = %d", got)
	}
}

func TestStateIndicatorChangeDetection(t *testing.T) {
	_, layer := indicatorLayer(t)
	desc := &skin.Indicator{Pos: skin.Point{X: 4, Y: 4}, Dim: skin.Size{W: 8, H: 8}, Style: skin.StyleGlyph}
	si, err := NewStateIndicator(desc, nil, []string{"off", "on"}, LEDColorsOnOff, log.Discard())
	if err != nil {
		t.Fatal(err)
	}

	if !si.Render(layer, 1) {
		t.Error("first render should paint")
	}
	if si.Render(layer, 1) {
		t.Error("unchanged state should not repaint")
	}
	if !si.Render(layer, 0) {
		t.Error("state change should repaint")
	}

	// Out-of-range states clamp instead of panicking.
	si.Render(layer, 99)
	si.Render(layer, -3)

	si.Reset()
	if !si.Render(layer, 0) {
		t.Error("reset should force a repaint")
	}
}

func TestVolumeBarQuantization(t *testing.T) {
	_, layer := indicatorLayer(t)
	v := NewVolumeBar(&skin.Indicator{Pos: skin.Point{X: 0, Y: 0}, Dim: skin.Size{W: 50, H: 4}})

	if !v.Render(layer, 60) {
		t.Error("first render should paint")
	}
	// 60 -> 61 volume moves the fill by half a pixel: same width, skip.
	if v.Render(layer, 61) {
		t.Error("sub-pixel volume change repainted")
	}
	if !v.Render(layer, 80) {
		t.Error("real volume change should repaint")
	}
	// Out of range clamps.
	v.Render(layer, 150)
	v.Render(layer, -10)
}

func TestProgressSliderQuantization(t *testing.T) {
	_, layer := indicatorLayer(t)
	p, err := NewProgressRenderer(&skin.Progress{
		Pos:   skin.Point{X: 0, Y: 20},
		Size:  skin.Size{W: 40, H: 4},
		Style: skin.ProgressSlider,
	}, nil)
	if err != nil {
		t.Fatal(err)
	}

	if !p.Render(layer, 0.5) {
		t.Error("first render should paint")
	}
	// 1/100th of progress is under one pixel of a 40px slider.
	if p.Render(layer, 0.51) {
		t.Error("sub-pixel progress repainted")
	}
	if !p.Render(layer, 0.75) {
		t.Error("visible progress change should repaint")
	}
}

func TestProgressStyles(t *testing.T) {
	c, layer := indicatorLayer(t)
	for _, style := range []skin.ProgressStyle{
		skin.ProgressSlider, skin.ProgressArc, skin.ProgressKnob, skin.ProgressNumeric,
	} {
		p, err := NewProgressRenderer(&skin.Progress{
			Pos:        skin.Point{X: 8, Y: 8},
			Size:       skin.Size{W: 40, H: 40},
			Style:      style,
			AngleStart: 210,
			AngleEnd:   -30,
		}, nil)
		if err != nil {
			t.Fatalf("%s: %v", style, err)
		}
		if !p.Render(layer, 0.3) {
			t.Errorf("%s: first render should paint", style)
		}
		c.Composite()
	}
}

func TestTimeRendererChangeDetection(t *testing.T) {
	_, layer := indicatorLayer(t)
	tr := NewTimeRenderer(&skin.TimeDisplay{Pos: skin.Point{X: 2, Y: 40}})

	if !tr.Render(layer, "1:23") {
		t.Error("first render should paint")
	}
	if tr.Render(layer, "1:23") {
		t.Error("same string repainted")
	}
	if !tr.Render(layer, "1:24") {
		t.Error("new string should repaint")
	}
}
