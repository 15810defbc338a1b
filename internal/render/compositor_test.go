// SPDX-License-Identifier: MIT
package render

import (
	"image"
	"image/color"
	"testing"

	"vumeter/internal/log"
)

var (
	red   = color.RGBA{R: 255, A: 255}
	green = color.RGBA{G: 255, A: 255}
	blue  = color.RGBA{B: 255, A: 255}
)

func solidBackground(w, h int, c color.RGBA) *image.RGBA {
	s := NewSurface(w, h)
	s.Fill(s.Bounds(), c)
	return s.RGBA()
}

func TestCompositorStartsWithBackground(t *testing.T) {
	c := NewCompositor(8, 8, solidBackground(8, 8, blue), log.Discard())
	if got := c.Frame().RGBAAt(4, 4); got != blue {
		t.Errorf("frame pixel = %v, want background", got)
	}
	if damage := c.Composite(); damage != nil {
		t.Errorf("clean compositor produced damage %v", damage)
	}
}

func TestCompositorDirtyLayerComposites(t *testing.T) {
	c := NewCompositor(16, 16, solidBackground(16, 16, blue), log.Discard())
	l := c.AddLayer("needles", ZNeedles, image.Rect(4, 4, 12, 12))

	l.Surface().Fill(image.Rect(0, 0, 4, 4), red) // screen 4,4..8,8
	l.MarkDirty()

	damage := c.Composite()
	if len(damage) != 1 || damage[0] != image.Rect(4, 4, 12, 12) {
		t.Fatalf("damage = %v, want layer region", damage)
	}
	if got := c.Frame().RGBAAt(5, 5); got != red {
		t.Errorf("painted pixel = %v, want red", got)
	}
	if got := c.Frame().RGBAAt(10, 10); got != blue {
		t.Errorf("transparent layer area = %v, want background", got)
	}

	// Nothing dirty afterwards.
	if damage := c.Composite(); damage != nil {
		t.Errorf("second composite produced damage %v", damage)
	}
}

func TestCompositorZOrder(t *testing.T) {
	c := NewCompositor(8, 8, solidBackground(8, 8, blue), log.Discard())
	// Added out of order on purpose; z index wins, not insertion order.
	top := c.AddLayer("text", ZText, image.Rectangle{})
	bottom := c.AddLayer("mech", ZMechanical, image.Rectangle{})

	bottom.Surface().Fill(image.Rect(0, 0, 8, 8), red)
	bottom.MarkDirty()
	top.Surface().Fill(image.Rect(2, 2, 6, 6), green)
	top.MarkDirty()

	c.Composite()
	if got := c.Frame().RGBAAt(3, 3); got != green {
		t.Errorf("overlap pixel = %v, want top layer green", got)
	}
	if got := c.Frame().RGBAAt(1, 1); got != red {
		t.Errorf("exposed pixel = %v, want bottom layer red", got)
	}
}

func TestCompositorRepairsFromBackground(t *testing.T) {
	c := NewCompositor(8, 8, solidBackground(8, 8, blue), log.Discard())
	l := c.AddLayer("mech", ZMechanical, image.Rectangle{})

	l.Surface().Fill(image.Rect(0, 0, 8, 8), red)
	l.MarkDirty()
	c.Composite()

	// Element erases itself: clear and recomposite restores background.
	l.Clear()
	c.Composite()
	if got := c.Frame().RGBAAt(4, 4); got != blue {
		t.Errorf("cleared pixel = %v, want background restored", got)
	}
}

func TestCompositorHiddenLayerSkipped(t *testing.T) {
	c := NewCompositor(8, 8, solidBackground(8, 8, blue), log.Discard())
	l := c.AddLayer("mech", ZMechanical, image.Rectangle{})
	l.Surface().Fill(image.Rect(0, 0, 8, 8), red)
	l.MarkDirty()
	c.Composite()

	l.SetVisible(false)
	c.Composite()
	if got := c.Frame().RGBAAt(4, 4); got != blue {
		t.Errorf("hidden layer still visible: %v", got)
	}
}

func TestCompositorSetBackgroundRepaintsAll(t *testing.T) {
	c := NewCompositor(8, 8, solidBackground(8, 8, blue), log.Discard())
	l := c.AddLayer("text", ZText, image.Rectangle{})
	l.Surface().Fill(image.Rect(0, 0, 2, 2), red)
	l.MarkDirty()
	c.Composite()

	c.SetBackground(solidBackground(8, 8, green))
	damage := c.Composite()
	if len(damage) == 0 {
		t.Fatal("background change produced no damage")
	}
	if got := c.Frame().RGBAAt(4, 4); got != green {
		t.Errorf("pixel = %v, want new background", got)
	}
	if got := c.Frame().RGBAAt(1, 1); got != red {
		t.Errorf("pixel = %v, want layer content preserved over new background", got)
	}
}

func TestBackingCaptureRestore(t *testing.T) {
	bg := NewSurface(8, 8)
	bg.Fill(bg.Bounds(), blue)
	screen := NewSurface(8, 8)
	screen.Copy(bg.RGBA(), image.Point{})

	b := CaptureBacking(bg, image.Rect(2, 2, 6, 6))
	screen.Fill(image.Rect(2, 2, 6, 6), red) // element drawn
	b.Restore(screen)                        // element erased
	if got := screen.RGBA().RGBAAt(3, 3); got != blue {
		t.Errorf("restored pixel = %v, want background", got)
	}

	// Background changes under the element; recapture picks it up.
	bg.Fill(bg.Bounds(), green)
	b.Recapture(bg)
	screen.Fill(image.Rect(2, 2, 6, 6), red)
	b.Restore(screen)
	if got := screen.RGBA().RGBAAt(3, 3); got != green {
		t.Errorf("recaptured pixel = %v, want new background", got)
	}
}

func TestRotateQuarterTurn(t *testing.T) {
	// A 4x4 image with a red pixel right of center rotates CCW to put it
	// above center.
	src := NewSurface(5, 5)
	src.Fill(image.Rect(4, 2, 5, 3), red)
	out := Rotate(src.RGBA(), 90, image.Point{X: 2, Y: 2})
	if got := out.RGBAAt(2, 0); got.R < 0x80 {
		t.Errorf("pixel at (2,0) = %v, want rotated red", got)
	}
	if got := out.RGBAAt(4, 2); got.R > 0x40 {
		t.Errorf("source position still lit after rotation: %v", got)
	}
}

func TestPrecomputeFrames(t *testing.T) {
	src := NewSurface(4, 4)
	frames := PrecomputeFrames(src.RGBA(), 6, image.Point{X: 2, Y: 2})
	if len(frames) != 60 {
		t.Errorf("frame count = %d, want 60", len(frames))
	}
	frames = PrecomputeFrames(src.RGBA(), 0, image.Point{})
	if len(frames) != 1 {
		t.Errorf("degenerate step frame count = %d, want 1", len(frames))
	}
}

func TestCircleCrop(t *testing.T) {
	src := NewSurface(10, 10)
	src.Fill(src.Bounds(), red)
	out := CircleCrop(src.RGBA())
	if got := out.RGBAAt(5, 5); got != red {
		t.Errorf("center pixel = %v, want opaque", got)
	}
	if got := out.RGBAAt(0, 0); got.A != 0 {
		t.Errorf("corner pixel = %v, want transparent", got)
	}
}
