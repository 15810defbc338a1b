// SPDX-License-Identifier: MIT
package skin

import (
	"fmt"

	"vumeter/internal/log"
)

// Kind is the handler family a skin resolves to.
type Kind int

const (
	// KindBasic is the plain meter skin: needles, spectrum, overlays,
	// no mechanical animation.
	KindBasic Kind = iota
	// KindTurntable adds the vinyl platter, tonearm and rotating art.
	KindTurntable
	// KindCassette adds the spinning tape reels.
	KindCassette
)

// String returns the skin kind name used in logs and the skin browser.
func (k Kind) String() string {
	switch k {
	case KindBasic:
		return "basic"
	case KindTurntable:
		return "turntable"
	case KindCassette:
		return "cassette"
	default:
		return "unknown"
	}
}

// Classify resolves a descriptor to its handler kind. The function is
// total: every descriptor maps to exactly one kind.
//
// Turntable markers take priority over cassette markers: a rotating
// vinyl center, any tonearm, or rotating album art makes the skin a
// turntable even if reel fields are also present. A reel center without
// any turntable marker makes the skin a cassette. Everything else is
// basic.
//
// One inherited quirk is kept on purpose: a skin with a tonearm and
// reels is a turntable, because the arm needs the platter machinery and
// the reels then render as decoration.
func Classify(d *Descriptor) Kind {
	if hasTurntableMarker(d) {
		return KindTurntable
	}
	if hasReelCenter(d) {
		return KindCassette
	}
	return KindBasic
}

func hasTurntableMarker(d *Descriptor) bool {
	if d.Vinyl != nil && d.Vinyl.Center != nil {
		return true
	}
	if d.Tonearm != nil {
		return true
	}
	if d.AlbumArt != nil && d.AlbumArt.Rotation {
		return true
	}
	return false
}

func hasReelCenter(d *Descriptor) bool {
	if d.ReelLeft != nil && d.ReelLeft.Center != nil {
		return true
	}
	if d.ReelRight != nil && d.ReelRight.Center != nil {
		return true
	}
	return false
}

// Validate checks a descriptor for author errors. Hard errors make the
// skin unloadable; suspicious-but-renderable combinations are logged as
// warnings and the skin loads anyway.
func Validate(d *Descriptor, logger *log.Logger) error {
	if logger == nil {
		logger = log.Discard()
	}
	if d.Name == "" {
		return fmt.Errorf("skin has no name")
	}
	if d.Screen.W <= 0 || d.Screen.H <= 0 {
		return fmt.Errorf("skin %q: screen size %dx%d is not positive", d.Name, d.Screen.W, d.Screen.H)
	}
	if d.Background == "" {
		return fmt.Errorf("skin %q: no background image", d.Name)
	}

	for i, m := range d.Meters {
		if m.Image == "" {
			return fmt.Errorf("skin %q: meter %d has no needle image", d.Name, i)
		}
		if m.AngleMin == m.AngleMax {
			return fmt.Errorf("skin %q: meter %d has a zero sweep", d.Name, i)
		}
	}

	if d.Vinyl != nil && d.Vinyl.Image == "" {
		return fmt.Errorf("skin %q: vinyl has no image", d.Name)
	}
	if d.Tonearm != nil {
		if d.Tonearm.Image == "" {
			return fmt.Errorf("skin %q: tonearm has no image", d.Name)
		}
		if d.Tonearm.AngleStart == d.Tonearm.AngleEnd {
			return fmt.Errorf("skin %q: tonearm start and end angles are equal", d.Name)
		}
	}
	for _, r := range []struct {
		name string
		reel *Reel
	}{{"reel_left", d.ReelLeft}, {"reel_right", d.ReelRight}} {
		if r.reel != nil && r.reel.Image == "" {
			return fmt.Errorf("skin %q: %s has no image", d.Name, r.name)
		}
	}
	if d.Spectrum != nil && d.Spectrum.Bars <= 0 {
		return fmt.Errorf("skin %q: spectrum has %d bars", d.Name, d.Spectrum.Bars)
	}
	if d.Progress != nil {
		switch d.Progress.Style {
		case ProgressSlider, ProgressArc, ProgressKnob, ProgressNumeric:
		case "":
			d.Progress.Style = ProgressSlider
		default:
			return fmt.Errorf("skin %q: unknown progress style %q", d.Name, d.Progress.Style)
		}
	}

	// Mixed turntable and cassette markers render, but almost always mean
	// the author merged two skins by accident.
	if hasTurntableMarker(d) && hasReelCenter(d) {
		logger.Warnf("skin %q mixes turntable and cassette elements; resolving as %s", d.Name, Classify(d))
	}
	if d.Vinyl != nil && d.Vinyl.Center == nil && d.Tonearm == nil {
		logger.Warnf("skin %q: vinyl has no rotation center, disc will be static", d.Name)
	}

	return nil
}
