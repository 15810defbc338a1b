// SPDX-License-Identifier: MIT
package render

import "image"

// BackingRegion remembers the background pixels under a moving element so
// the element can be erased by restoring them instead of repainting the
// whole frame. Backing is captured from the static background surface,
// never from the live screen, so one element's restore can not smear
// another element's pixels.
type BackingRegion struct {
	rect image.Rectangle
	pix  *image.RGBA
}

// CaptureBacking snapshots rect from the background surface.
func CaptureBacking(background *Surface, rect image.Rectangle) *BackingRegion {
	rect = rect.Intersect(background.Bounds())
	return &BackingRegion{rect: rect, pix: background.Crop(rect)}
}

// Rect returns the covered screen rectangle.
func (b *BackingRegion) Rect() image.Rectangle { return b.rect }

// Restore writes the captured pixels back, erasing whatever was drawn
// over them.
func (b *BackingRegion) Restore(dst *Surface) {
	dst.Copy(b.pix, b.rect.Min)
}

// Recapture refreshes the snapshot after the background itself changed
// (track change swapped the album art baked into it, skin reload).
func (b *BackingRegion) Recapture(background *Surface) {
	b.pix = background.Crop(b.rect)
}
