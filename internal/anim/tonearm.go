// SPDX-License-Identifier: MIT
/*
Package anim implements the mechanical animation state: the tonearm state
machine, the constant-speed rotors behind the vinyl disc and rotating
album art, and the cassette reel pair.

All animators are pure state machines driven by explicit timestamps. The
render loop calls Update/Advance once per frame with the wall clock; no
animator reads time.Now itself, which keeps every transition testable
with synthetic clocks.
*/
package anim

import (
	"math"
	"time"

	"vumeter/internal/log"
	"vumeter/internal/skin"
	"vumeter/pkg/rotmath"
)

// ArmState is the tonearm state machine state.
type ArmState int

const (
	// ArmRest parks the arm at the rest angle.
	ArmRest ArmState = iota
	// ArmDrop animates the arm from its current angle onto the groove.
	ArmDrop
	// ArmTracking follows playback progress across the record.
	ArmTracking
	// ArmLift animates the arm back to the rest angle.
	ArmLift
)

func (s ArmState) String() string {
	switch s {
	case ArmRest:
		return "rest"
	case ArmDrop:
		return "drop"
	case ArmTracking:
		return "tracking"
	default:
		return "lift"
	}
}

const (
	// An update gap above this inside a drop/lift means the loop stalled;
	// the animation restarts from the current angle so the arm never
	// teleports.
	armFreezeGap = 300 * time.Millisecond
	// With less time left on the track than this the arm lifts early, the
	// way a real arm reaches the run-out groove before the audio ends.
	armEarlyLiftWindow = 1.5
	// A tracking target further than this from the current angle is a
	// seek or track change, not groove progress.
	armJumpDeg = 2.0
	// Tracking movements below this are not worth a repaint.
	armMinMoveDeg = 0.2
	// After an early lift the arm stays parked until a track restart,
	// recognized as progress dropping back under this fraction.
	armRestartProgress = 0.10
	// Repaint throttle while tracking; groove progress is slow enough
	// that two repaints per second look continuous.
	armTrackingRepaint = 500 * time.Millisecond
)

// Tonearm is the arm animation state machine. Not safe for concurrent
// use; the render loop owns it.
type Tonearm struct {
	desc   skin.Tonearm
	logger *log.Logger

	state ArmState
	angle float64

	animStart      time.Time
	animStartAngle float64
	animEndAngle   float64
	animDur        float64 // seconds

	lastUpdate    time.Time
	earlyLift     bool
	pendingTarget float64
	hasPending    bool

	needsRedraw  bool
	lastBlit     time.Time
	blitInterval time.Duration
}

// NewTonearm builds the arm animator from its skin descriptor. blitFPS is
// the drop/lift repaint rate from the rotation quality preset.
func NewTonearm(desc *skin.Tonearm, blitFPS int, logger *log.Logger) *Tonearm {
	if logger == nil {
		logger = log.Discard()
	}
	if blitFPS <= 0 {
		blitFPS = 15
	}
	return &Tonearm{
		desc:         *desc,
		logger:       logger.Component("tonearm"),
		state:        ArmRest,
		angle:        desc.AngleRest,
		blitInterval: time.Second / time.Duration(blitFPS),
		needsRedraw:  true,
	}
}

// State returns the current state machine state.
func (t *Tonearm) State() ArmState { return t.state }

// Angle returns the current arm angle in degrees.
func (t *Tonearm) Angle() float64 { return t.angle }

// Animating reports whether a drop or lift is in flight.
func (t *Tonearm) Animating() bool {
	return t.state == ArmDrop || t.state == ArmLift
}

func (t *Tonearm) startAnimation(now time.Time, target, duration float64) {
	t.animStart = now
	t.animStartAngle = t.angle
	t.animEndAngle = target
	t.animDur = duration
}

// stepAnimation advances the eased drop/lift movement and reports
// completion. A zero duration completes immediately at the target.
func (t *Tonearm) stepAnimation(now time.Time) bool {
	if t.animDur <= 0 {
		t.angle = t.animEndAngle
		return true
	}
	p := rotmath.Clamp01(now.Sub(t.animStart).Seconds() / t.animDur)
	t.angle = rotmath.Lerp(t.animStartAngle, t.animEndAngle, rotmath.EaseOut(p))
	return p >= 1.0
}

// recoverFromFreeze restarts an in-flight animation after the render loop
// stalled, scaling the duration down to the angle still to cover.
func (t *Tonearm) recoverFromFreeze(now time.Time) {
	if !t.Animating() || t.lastUpdate.IsZero() {
		return
	}
	gap := now.Sub(t.lastUpdate)
	if gap <= armFreezeGap {
		return
	}
	total := math.Abs(t.animEndAngle - t.animStartAngle)
	if total <= 0.1 {
		return
	}
	remaining := math.Abs(t.animEndAngle-t.angle) / total * t.animDur
	if remaining <= 0.05 {
		return
	}
	t.logger.Tracef("update freeze (%dms), restarting animation", gap.Milliseconds())
	t.animStart = now
	t.animStartAngle = t.angle
	t.animDur = remaining
}

// Update feeds one frame of playback state into the state machine and
// reports whether the arm needs a repaint. progress is the 0..1 track
// progress; remaining is seconds to track end, negative when unknown.
func (t *Tonearm) Update(now time.Time, playing bool, progress, remaining float64) bool {
	t.recoverFromFreeze(now)
	t.lastUpdate = now
	progress = rotmath.Clamp01(progress)

	switch t.state {
	case ArmRest:
		if !playing {
			break
		}
		// After an early lift the track tail is still playing; wait for
		// the next track before dropping again.
		if t.earlyLift && progress > armRestartProgress {
			break
		}
		t.earlyLift = false
		target := rotmath.TrackAngle(t.desc.AngleStart, t.desc.AngleEnd, progress)
		t.logger.Tracef("rest->drop: progress=%.1f%%", progress*100)
		t.state = ArmDrop
		t.startAnimation(now, target, t.desc.DropSec)
		t.needsRedraw = true

	case ArmDrop:
		if !playing {
			t.logger.Tracef("drop->lift: playback stopped")
			t.state = ArmLift
			t.earlyLift = false
			t.startAnimation(now, t.desc.AngleRest, t.desc.LiftSec)
			break
		}
		if t.stepAnimation(now) {
			// Progress moved during the drop; land on the live angle.
			t.angle = rotmath.TrackAngle(t.desc.AngleStart, t.desc.AngleEnd, progress)
			t.logger.Tracef("drop->tracking: angle=%.1f", t.angle)
			t.state = ArmTracking
		}
		t.needsRedraw = true

	case ArmTracking:
		if remaining > 0 && remaining < armEarlyLiftWindow {
			t.logger.Tracef("tracking->lift: early lift")
			t.toLift(now, true)
			break
		}
		if !playing {
			t.logger.Tracef("tracking->lift: playback stopped")
			t.toLift(now, false)
			break
		}
		target := rotmath.TrackAngle(t.desc.AngleStart, t.desc.AngleEnd, progress)
		delta := math.Abs(target - t.angle)
		if delta > armJumpDeg {
			t.logger.Tracef("tracking->lift: jump detected (%.1f deg)", delta)
			t.pendingTarget = target
			t.hasPending = true
			t.toLift(now, false)
		} else if delta > armMinMoveDeg {
			t.angle = target
			t.needsRedraw = true
		}

	case ArmLift:
		if t.stepAnimation(now) {
			switch {
			case t.earlyLift:
				t.logger.Tracef("lift->rest: early lift complete")
				t.state = ArmRest
				t.hasPending = false
			case t.hasPending:
				t.logger.Tracef("lift->drop: pending target %.1f", t.pendingTarget)
				t.state = ArmDrop
				t.startAnimation(now, t.pendingTarget, t.desc.DropSec)
				t.hasPending = false
			case playing:
				target := rotmath.TrackAngle(t.desc.AngleStart, t.desc.AngleEnd, progress)
				t.logger.Tracef("lift->drop: using progress")
				t.state = ArmDrop
				t.startAnimation(now, target, t.desc.DropSec)
			default:
				t.logger.Tracef("lift->rest: not playing")
				t.state = ArmRest
				t.hasPending = false
			}
		}
		t.needsRedraw = true
	}

	return t.needsRedraw
}

func (t *Tonearm) toLift(now time.Time, early bool) {
	t.state = ArmLift
	t.earlyLift = early
	if early {
		t.hasPending = false
	}
	t.startAnimation(now, t.desc.AngleRest, t.desc.LiftSec)
	t.needsRedraw = true
	t.lastBlit = time.Time{}
}

// ShouldBlit reports whether the arm should be repainted this frame.
// Drop/lift repaints are gated to the rotation blit rate; tracking is
// throttled much harder because groove progress is slow.
func (t *Tonearm) ShouldBlit(now time.Time) bool {
	if t.needsRedraw {
		return true
	}
	switch t.state {
	case ArmDrop, ArmLift:
		return now.Sub(t.lastBlit) >= t.blitInterval
	case ArmTracking:
		return now.Sub(t.lastBlit) >= armTrackingRepaint
	}
	return false
}

// MarkBlitted records a completed repaint.
func (t *Tonearm) MarkBlitted(now time.Time) {
	t.needsRedraw = false
	t.lastBlit = now
}
