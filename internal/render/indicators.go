// SPDX-License-Identifier: MIT
package render

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"vumeter/internal/log"
	"vumeter/internal/meta"
	"vumeter/internal/skin"
)

// Indicator state indices. Each indicator pre-renders one image per state
// and repaints only when the index changes.
const (
	MuteOff     = 0 // audible
	MuteOn      = 1 // muted by the player
	MuteZeroVol = 2 // not muted but volume is zero

	RepeatStateOff    = 0
	RepeatStateAll    = 1
	RepeatStateSingle = 2

	PlayStateStop  = 0
	PlayStatePlay  = 1
	PlayStatePause = 2
)

// MuteState derives the tri-state mute index from a playback snapshot.
func MuteState(st *meta.PlaybackState) int {
	switch {
	case st.Muted:
		return MuteOn
	case st.Volume == 0:
		return MuteZeroVol
	default:
		return MuteOff
	}
}

// PlayState derives the transport indicator index.
func PlayState(st *meta.PlaybackState) int {
	switch st.Transport {
	case meta.TransportPlaying:
		return PlayStatePlay
	case meta.TransportPaused:
		return PlayStatePause
	default:
		return PlayStateStop
	}
}

// StateIndicator is a fixed-position indicator with one pre-rendered
// image per state. Image-style indicators load per-state assets; glyph
// style renders a filled LED block per state color.
type StateIndicator struct {
	logger *log.Logger
	pos    image.Point
	states []*image.RGBA
	rect   image.Rectangle

	current int
}

// NewStateIndicator pre-renders the indicator's states. stateNames index
// into the descriptor's image map for StyleImage; ledColors are the
// per-state fallback colors for StyleGlyph (and for missing images).
func NewStateIndicator(desc *skin.Indicator, assets skin.Assets, stateNames []string, ledColors []color.RGBA, logger *log.Logger) (*StateIndicator, error) {
	if logger == nil {
		logger = log.Discard()
	}
	w, h := desc.Dim.W, desc.Dim.H
	if w <= 0 {
		w = 16
	}
	if h <= 0 {
		h = 16
	}
	states := make([]*image.RGBA, len(stateNames))
	for i, name := range stateNames {
		if desc.Style == skin.StyleImage && assets != nil {
			if ref, ok := desc.Images[name]; ok && ref != "" {
				img, err := assets.Image(ref)
				if err != nil {
					return nil, fmt.Errorf("indicator state %q: %w", name, err)
				}
				states[i] = Scale(img, w, h)
				continue
			}
		}
		led := NewSurface(w, h)
		c := ledColors[i%len(ledColors)]
		if desc.Color != nil && c.A != 0 {
			// Skin color overrides the "on" tint but keeps off-states dim.
			if c.R > 0x40 || c.G > 0x40 || c.B > 0x40 {
				c = color.RGBA{R: desc.Color.R, G: desc.Color.G, B: desc.Color.B, A: 255}
			}
		}
		led.Fill(led.Bounds(), c)
		states[i] = led.RGBA()
	}
	pos := image.Point{X: desc.Pos.X, Y: desc.Pos.Y}
	return &StateIndicator{
		logger:  logger,
		pos:     pos,
		states:  states,
		rect:    image.Rect(pos.X, pos.Y, pos.X+w, pos.Y+h),
		current: -1,
	}, nil
}

// Render draws the indicator when its state changed, returning whether
// the layer was touched. Out-of-range states clamp.
func (si *StateIndicator) Render(layer *Layer, state int) bool {
	if state < 0 {
		state = 0
	}
	if state >= len(si.states) {
		state = len(si.states) - 1
	}
	if state == si.current {
		return false
	}
	si.current = state
	surf := layer.Surface()
	surf.Clear(si.rect)
	surf.Blit(si.states[state], si.pos)
	layer.MarkDirty()
	return true
}

// Reset forces a repaint on the next Render.
func (si *StateIndicator) Reset() { si.current = -1 }

var ledOff = color.RGBA{R: 0x20, G: 0x20, B: 0x20, A: 255}

// LEDColorsOnOff is the two-state palette (shuffle).
var LEDColorsOnOff = []color.RGBA{ledOff, {R: 0x30, G: 0xc0, B: 0x30, A: 255}}

// LEDColorsMute is the tri-state mute palette: off, muted red, zero-volume amber.
var LEDColorsMute = []color.RGBA{ledOff, {R: 0xd0, G: 0x30, B: 0x30, A: 255}, {R: 0xd0, G: 0x90, B: 0x20, A: 255}}

// LEDColorsRepeat is off / repeat-all / repeat-single.
var LEDColorsRepeat = []color.RGBA{ledOff, {R: 0x30, G: 0xc0, B: 0x30, A: 255}, {R: 0x30, G: 0x80, B: 0xc0, A: 255}}

// LEDColorsPlayState is stop / play / pause.
var LEDColorsPlayState = []color.RGBA{ledOff, {R: 0x30, G: 0xc0, B: 0x30, A: 255}, {R: 0xd0, G: 0x90, B: 0x20, A: 255}}

// VolumeBar draws the player volume as a horizontal fill, repainting only
// when the filled width changes.
type VolumeBar struct {
	desc  skin.Indicator
	color color.RGBA
	last  int
}

// NewVolumeBar builds the volume renderer.
func NewVolumeBar(desc *skin.Indicator) *VolumeBar {
	c := color.RGBA{R: 0xc0, G: 0xc0, B: 0xc0, A: 255}
	if desc.Color != nil {
		c = color.RGBA{R: desc.Color.R, G: desc.Color.G, B: desc.Color.B, A: 255}
	}
	return &VolumeBar{desc: *desc, color: c, last: -1}
}

// Render draws the bar for volume 0-100.
func (v *VolumeBar) Render(layer *Layer, volume int) bool {
	if volume < 0 {
		volume = 0
	}
	if volume > 100 {
		volume = 100
	}
	w := v.desc.Dim.W * volume / 100
	if w == v.last {
		return false
	}
	v.last = w
	surf := layer.Surface()
	box := image.Rect(v.desc.Pos.X, v.desc.Pos.Y, v.desc.Pos.X+v.desc.Dim.W, v.desc.Pos.Y+v.desc.Dim.H)
	surf.Clear(box)
	surf.Fill(image.Rect(box.Min.X, box.Min.Y, box.Min.X+w, box.Max.Y), v.color)
	layer.MarkDirty()
	return true
}

// ProgressRenderer draws playback progress in the skin's chosen style.
// All styles quantize to their drawable resolution and skip unchanged
// frames.
type ProgressRenderer struct {
	desc  skin.Progress
	color color.RGBA
	knob  *image.RGBA
	last  int
}

// NewProgressRenderer builds the renderer; the knob image is resolved for
// the knob style only.
func NewProgressRenderer(desc *skin.Progress, assets skin.Assets) (*ProgressRenderer, error) {
	c := color.RGBA{R: 0xc0, G: 0xc0, B: 0xc0, A: 255}
	if desc.Color != nil {
		c = color.RGBA{R: desc.Color.R, G: desc.Color.G, B: desc.Color.B, A: 255}
	}
	p := &ProgressRenderer{desc: *desc, color: c, last: -1}
	if desc.Style == skin.ProgressKnob && desc.KnobImage != "" && assets != nil {
		img, err := assets.Image(desc.KnobImage)
		if err != nil {
			return nil, fmt.Errorf("progress knob: %w", err)
		}
		p.knob = img
	}
	return p, nil
}

func (p *ProgressRenderer) quantize(progress float64) int {
	switch p.desc.Style {
	case skin.ProgressNumeric:
		return int(progress * 100)
	case skin.ProgressArc, skin.ProgressKnob:
		// Degree resolution is plenty for a sweep indicator.
		return int(progress * math.Abs(p.desc.AngleEnd-p.desc.AngleStart))
	default:
		return int(progress * float64(p.desc.Size.W))
	}
}

// Render draws progress 0..1, returning whether the layer was touched.
func (p *ProgressRenderer) Render(layer *Layer, progress float64) bool {
	if progress < 0 {
		progress = 0
	}
	if progress > 1 {
		progress = 1
	}
	q := p.quantize(progress)
	if q == p.last {
		return false
	}
	p.last = q

	surf := layer.Surface()
	box := image.Rect(p.desc.Pos.X, p.desc.Pos.Y, p.desc.Pos.X+p.desc.Size.W, p.desc.Pos.Y+p.desc.Size.H)
	surf.Clear(box)

	switch p.desc.Style {
	case skin.ProgressNumeric:
		DrawText(surf, fmt.Sprintf("%3d%%", q), image.Point{X: p.desc.Pos.X, Y: p.desc.Pos.Y}, p.color)
	case skin.ProgressArc:
		p.drawArc(surf, progress, false)
	case skin.ProgressKnob:
		p.drawArc(surf, progress, true)
	default: // slider
		surf.Fill(image.Rect(box.Min.X, box.Min.Y, box.Min.X+q, box.Max.Y), p.color)
	}
	layer.MarkDirty()
	return true
}

// drawArc sweeps from AngleStart toward AngleEnd. knobOnly places the
// knob at the current angle instead of filling the swept arc.
func (p *ProgressRenderer) drawArc(surf *Surface, progress float64, knobOnly bool) {
	cx := float64(p.desc.Pos.X) + float64(p.desc.Size.W)/2
	cy := float64(p.desc.Pos.Y) + float64(p.desc.Size.H)/2
	r := math.Min(float64(p.desc.Size.W), float64(p.desc.Size.H))/2 - 2

	at := func(deg float64) (int, int) {
		rad := deg * math.Pi / 180
		// Angle convention: 0 = right, positive counter-clockwise on
		// screen, so y is subtracted.
		return int(cx + r*math.Cos(rad)), int(cy - r*math.Sin(rad))
	}

	if knobOnly {
		deg := p.desc.AngleStart + (p.desc.AngleEnd-p.desc.AngleStart)*progress
		x, y := at(deg)
		if p.knob != nil {
			b := p.knob.Bounds()
			surf.Blit(p.knob, image.Point{X: x - b.Dx()/2, Y: y - b.Dy()/2})
		} else {
			surf.Fill(image.Rect(x-3, y-3, x+3, y+3), p.color)
		}
		return
	}
	sweep := (p.desc.AngleEnd - p.desc.AngleStart) * progress
	steps := int(math.Abs(sweep)) + 1
	for i := 0; i <= steps; i++ {
		deg := p.desc.AngleStart + sweep*float64(i)/float64(steps)
		x, y := at(deg)
		surf.Fill(image.Rect(x-1, y-1, x+1, y+1), p.color)
	}
}

// Reset forces a repaint on the next Render.
func (p *ProgressRenderer) Reset() { p.last = -1 }

// TimeRenderer draws the time display string with change detection.
// The handler decides what the string says (elapsed, remaining, frozen,
// persistence countdown); this renderer only paints it.
type TimeRenderer struct {
	desc  skin.TimeDisplay
	color color.RGBA
	boxW  int
	last  string
}

// NewTimeRenderer builds the renderer.
func NewTimeRenderer(desc *skin.TimeDisplay) *TimeRenderer {
	c := color.RGBA{R: 0xc0, G: 0xc0, B: 0xc0, A: 255}
	if desc.Color != nil {
		c = color.RGBA{R: desc.Color.R, G: desc.Color.G, B: desc.Color.B, A: 255}
	}
	return &TimeRenderer{desc: *desc, color: c, boxW: MeasureText("-00:00:00")}
}

// Render draws s when it changed since the last frame.
func (t *TimeRenderer) Render(layer *Layer, s string) bool {
	if s == t.last {
		return false
	}
	t.last = s
	surf := layer.Surface()
	h := textFace.Metrics().Height.Ceil() + 2
	surf.Clear(image.Rect(t.desc.Pos.X, t.desc.Pos.Y, t.desc.Pos.X+t.boxW, t.desc.Pos.Y+h))
	DrawText(surf, s, image.Point{X: t.desc.Pos.X, Y: t.desc.Pos.Y}, t.color)
	layer.MarkDirty()
	return true
}

// FormatClock renders whole seconds as m:ss or h:mm:ss.
func FormatClock(sec float64) string {
	if sec < 0 {
		sec = 0
	}
	s := int(sec + 0.5)
	h := s / 3600
	m := (s % 3600) / 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s%60)
	}
	return fmt.Sprintf("%d:%02d", m, s%60)
}
