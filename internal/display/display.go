// SPDX-License-Identifier: MIT
/*
Package display shows rendered frames in a desktop window. The render
loop runs on its own goroutine and pushes completed frames here; the
window loop only copies the latest pixels to the screen, so a slow or
minimized window never stalls rendering.
*/
package display

import (
	"fmt"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"

	"vumeter/internal/log"
)

// Viewer is an ebiten game that displays the most recently pushed frame.
type Viewer struct {
	width  int
	height int
	logger *log.Logger

	mu    sync.Mutex
	pix   []byte
	fresh bool

	screen *ebiten.Image
}

// NewViewer creates a viewer for frames of the given size.
func NewViewer(width, height int, logger *log.Logger) *Viewer {
	if logger == nil {
		logger = log.Discard()
	}
	return &Viewer{
		width:  width,
		height: height,
		logger: logger.Component("display"),
		pix:    make([]byte, width*height*4),
	}
}

// Push hands a completed frame to the window loop. pix is the RGBA pixel
// data, copied before Push returns so the caller can keep mutating its
// buffer.
func (v *Viewer) Push(pix []byte) {
	v.mu.Lock()
	copy(v.pix, pix)
	v.fresh = true
	v.mu.Unlock()
}

// Update implements ebiten.Game. Frame production happens elsewhere.
func (v *Viewer) Update() error {
	return nil
}

// Draw implements ebiten.Game, copying the latest pushed frame.
func (v *Viewer) Draw(screen *ebiten.Image) {
	v.mu.Lock()
	if v.fresh {
		if v.screen == nil {
			v.screen = ebiten.NewImage(v.width, v.height)
		}
		v.screen.WritePixels(v.pix)
		v.fresh = false
	}
	v.mu.Unlock()

	if v.screen != nil {
		screen.DrawImage(v.screen, nil)
	}
}

// Layout implements ebiten.Game with a fixed logical size.
func (v *Viewer) Layout(outsideWidth, outsideHeight int) (int, int) {
	return v.width, v.height
}

// Run opens the window and blocks until it closes.
func (v *Viewer) Run(title string) error {
	ebiten.SetWindowSize(v.width, v.height)
	ebiten.SetWindowTitle(title)
	ebiten.SetTPS(60)
	v.logger.Infof("opening %dx%d window", v.width, v.height)
	if err := ebiten.RunGame(v); err != nil {
		return fmt.Errorf("window loop failed: %w", err)
	}
	return nil
}
