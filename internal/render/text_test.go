// SPDX-License-Identifier: MIT
package render

import (
	"testing"
	"time"

	"vumeter/internal/log"
	"vumeter/internal/skin"
)

func newTestScroller(maxWidth int, speed float64) *Scroller {
	return NewScroller(&skin.TextField{
		Pos:      skin.Point{X: 5, Y: 5},
		MaxWidth: maxWidth,
		Speed:    &speed,
	}, 0, skin.Color{R: 255, G: 255, B: 255}, log.Discard())
}

func TestScrollerStaticTextDrawsOnce(t *testing.T) {
	sc := newTestScroller(200, 40)
	sc.SetText("short")
	if sc.Scrolls() {
		t.Fatal("short text should not scroll")
	}

	now := time.Unix(1000, 0)
	if !sc.Tick(now) {
		t.Fatal("first tick after SetText should repaint")
	}
	c := NewCompositor(256, 32, nil, log.Discard())
	layer := c.AddLayer("text", ZText, c.Frame().Bounds())
	sc.Draw(layer)

	for i := 1; i < 20; i++ {
		if sc.Tick(now.Add(time.Duration(i) * 33 * time.Millisecond)) {
			t.Fatalf("static text repainted on tick %d", i)
		}
	}
}

func TestScrollerClearedTextRepaintsOnce(t *testing.T) {
	sc := newTestScroller(200, 40)
	c := NewCompositor(256, 32, nil, log.Discard())
	layer := c.AddLayer("text", ZText, c.Frame().Bounds())
	now := time.Unix(1000, 0)

	sc.SetText("previous title")
	if !sc.Tick(now) {
		t.Fatal("first tick should repaint")
	}
	sc.Draw(layer)
	if countPainted(layer) == 0 {
		t.Fatal("nothing painted for the title")
	}

	// Track change to a field with no value: one repaint clears the box.
	sc.SetText("")
	now = now.Add(33 * time.Millisecond)
	if !sc.Tick(now) {
		t.Fatal("cleared text never repainted")
	}
	sc.Draw(layer)
	if n := countPainted(layer); n != 0 {
		t.Errorf("%d stale painted bytes after clearing the text", n)
	}

	// And only once.
	if sc.Tick(now.Add(33 * time.Millisecond)) {
		t.Error("empty field kept repainting")
	}
}

func countPainted(layer *Layer) int {
	n := 0
	for _, b := range layer.Surface().RGBA().Pix {
		if b != 0 {
			n++
		}
	}
	return n
}

func TestScrollerSameTextIsNoop(t *testing.T) {
	sc := newTestScroller(40, 40)
	sc.SetText("a very long line that overflows")
	now := time.Unix(1000, 0)
	sc.Tick(now)
	sc.Tick(now.Add(time.Second))
	offset := sc.offset

	sc.SetText("a very long line that overflows")
	if sc.offset != offset {
		t.Error("re-setting identical text reset the scroll phase")
	}
}

func TestScrollerBounces(t *testing.T) {
	sc := newTestScroller(40, 1000) // fast enough to cross the box quickly
	sc.SetText("a very long line that overflows the box")
	if !sc.Scrolls() {
		t.Fatal("long text should scroll")
	}

	now := time.Unix(1000, 0)
	sc.Tick(now)

	sawForward, sawReverse := false, false
	for i := 1; i < 400; i++ {
		now = now.Add(33 * time.Millisecond)
		sc.Tick(now)
		if sc.dir > 0 && sc.offset > 0 {
			sawForward = true
		}
		if sc.dir < 0 {
			sawReverse = true
		}
		limit := float64(sc.textW - sc.boxW)
		if sc.offset < 0 || sc.offset > limit {
			t.Fatalf("offset %f outside [0, %f]", sc.offset, limit)
		}
	}
	if !sawForward || !sawReverse {
		t.Errorf("bounce incomplete: forward=%v reverse=%v", sawForward, sawReverse)
	}
}

func TestScrollerPausesAtEnds(t *testing.T) {
	sc := newTestScroller(40, 10000)
	sc.SetText("a very long line that overflows the box")
	now := time.Unix(1000, 0)
	sc.Tick(now)

	// One big step slams the offset into the far end and starts the pause.
	now = now.Add(time.Second)
	sc.Tick(now)
	limit := float64(sc.textW - sc.boxW)
	if sc.offset != limit {
		t.Fatalf("offset = %f, want clamped to %f", sc.offset, limit)
	}

	// Within the 400ms pause the offset holds.
	now = now.Add(200 * time.Millisecond)
	if sc.Tick(now) {
		t.Error("repaint during end pause")
	}
	if sc.offset != limit {
		t.Errorf("offset moved during pause: %f", sc.offset)
	}

	// After the pause it runs back.
	now = now.Add(300 * time.Millisecond)
	sc.Tick(now)
	now = now.Add(33 * time.Millisecond)
	sc.Tick(now)
	if sc.offset >= limit {
		t.Errorf("offset = %f, want movement back from %f", sc.offset, limit)
	}
}

func TestScrollerSpeedResolution(t *testing.T) {
	fieldSpeed := 77.0
	sc := NewScroller(&skin.TextField{MaxWidth: 40, Speed: &fieldSpeed}, 55, skin.Color{}, log.Discard())
	if sc.speed != 77 {
		t.Errorf("speed = %f, field speed should win", sc.speed)
	}

	sc = NewScroller(&skin.TextField{MaxWidth: 40}, 55, skin.Color{}, log.Discard())
	if sc.speed != 55 {
		t.Errorf("speed = %f, skin speed should apply", sc.speed)
	}

	sc = NewScroller(&skin.TextField{MaxWidth: 40}, 0, skin.Color{}, log.Discard())
	if sc.speed != 40 {
		t.Errorf("speed = %f, want built-in default", sc.speed)
	}
}

func TestFormatClock(t *testing.T) {
	tests := []struct {
		sec  float64
		want string
	}{
		{0, "0:00"},
		{59, "0:59"},
		{61, "1:01"},
		{600, "10:00"},
		{3661, "1:01:01"},
		{-5, "0:00"},
	}
	for _, tt := range tests {
		if got := FormatClock(tt.sec); got != tt.want {
			t.Errorf("FormatClock(%f) = %q, want %q", tt.sec, got, tt.want)
		}
	}
}
