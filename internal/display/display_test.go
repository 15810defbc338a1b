// SPDX-License-Identifier: MIT
package display

import (
	"testing"

	"vumeter/internal/log"
)

func TestPushCopiesPixels(t *testing.T) {
	v := NewViewer(2, 2, log.Discard())
	src := make([]byte, 2*2*4)
	for i := range src {
		src[i] = byte(i)
	}
	v.Push(src)
	src[0] = 0xFF
	if v.pix[0] != 0 {
		t.Error("Push aliased the caller's buffer")
	}
	if !v.fresh {
		t.Error("Push did not mark the frame fresh")
	}
}

func TestLayoutIsFixed(t *testing.T) {
	v := NewViewer(320, 240, log.Discard())
	w, h := v.Layout(1920, 1080)
	if w != 320 || h != 240 {
		t.Errorf("Layout = %dx%d", w, h)
	}
}
