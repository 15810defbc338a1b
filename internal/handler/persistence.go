// SPDX-License-Identifier: MIT
package handler

import (
	"fmt"
	"time"

	"vumeter/internal/config"
	"vumeter/internal/meta"
)

// persistence implements the display persistence window: after playback
// pauses or stops, animations keep running for a configured number of
// seconds so a short pause does not slam the tonearm home and freeze the
// reels. Resuming inside the window cancels it without any mechanical
// movement having happened.
type persistence struct {
	window time.Duration
	mode   string // freeze|countdown

	holdSince time.Time
	holding   bool
	frozen    string // time display captured at hold start
}

func newPersistence(rc config.RenderConfig) *persistence {
	return &persistence{
		window: time.Duration(rc.PersistenceSec) * time.Second,
		mode:   rc.PersistenceTimeMode,
	}
}

// Observe feeds the transport state for this frame and returns the
// effective playing flag the animators should see.
func (p *persistence) Observe(st *meta.PlaybackState, now time.Time) bool {
	if st.Playing() {
		p.holding = false
		return true
	}
	if p.window <= 0 {
		return false
	}
	if !p.holding {
		p.holding = true
		p.holdSince = now
	}
	return now.Sub(p.holdSince) < p.window
}

// Active reports whether a persistence hold is currently animating.
func (p *persistence) Active(now time.Time) bool {
	return p.holding && p.window > 0 && now.Sub(p.holdSince) < p.window
}

// Remaining returns the seconds left in the hold window.
func (p *persistence) Remaining(now time.Time) float64 {
	if !p.Active(now) {
		return 0
	}
	return (p.window - now.Sub(p.holdSince)).Seconds()
}

// TimeString resolves the time display during a hold. Freeze mode shows
// the position where playback stopped, captured when the hold began so a
// stop push that resets the seek position cannot rewrite it; countdown
// shows the seconds until the display goes idle.
func (p *persistence) TimeString(st *meta.PlaybackState, now time.Time, normal string) string {
	if !p.Active(now) {
		p.frozen = normal
		return normal
	}
	if p.mode == config.TimeModeCountdown {
		return formatCountdown(p.Remaining(now))
	}
	if p.frozen != "" {
		return p.frozen
	}
	return normal
}

func formatCountdown(sec float64) string {
	s := int(sec + 0.5)
	if s >= 60 {
		return fmt.Sprintf("%dm%02ds", s/60, s%60)
	}
	return fmt.Sprintf("%ds", s)
}
