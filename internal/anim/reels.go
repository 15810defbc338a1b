// SPDX-License-Identifier: MIT
package anim

import (
	"time"

	"vumeter/internal/config"
	"vumeter/internal/log"
	"vumeter/pkg/rotmath"
)

// ReelPair drives the two cassette reels. Both reels turn in the same
// direction, the way tape pulled over the head spins them, at speeds that
// either stay fixed (per-reel multipliers from config) or follow the
// constant-tape-speed spool model: as playback progresses the supply
// spool empties and speeds up while the take-up spool fills and slows
// down. Not safe for concurrent use.
type ReelPair struct {
	logger *log.Logger

	left  *Rotor
	right *Rotor

	dir        rotmath.Direction
	globalMult float64
	fixedLeft  float64
	fixedRight float64
	adaptive   bool
}

// NewReelPair builds the reel animator. leftRPM/rightRPM come from the
// skin; direction, fixed multipliers and the adaptive switch from config.
func NewReelPair(leftRPM, rightRPM float64, rc config.RotationConfig, p Params, logger *log.Logger) *ReelPair {
	if logger == nil {
		logger = log.Discard()
	}
	dir := rotmath.ParseDirection(rc.ReelDir)
	fixedLeft := rc.SpoolLeft
	if fixedLeft <= 0 {
		fixedLeft = 1.0
	}
	fixedRight := rc.SpoolRight
	if fixedRight <= 0 {
		fixedRight = 1.0
	}
	return &ReelPair{
		logger:     logger.Component("reels"),
		left:       NewRotor("reel.left", leftRPM, dir, p, logger),
		right:      NewRotor("reel.right", rightRPM, dir, p, logger),
		dir:        dir,
		globalMult: p.SpeedMult,
		fixedLeft:  fixedLeft,
		fixedRight: fixedRight,
		adaptive:   rc.Adaptive,
	}
}

// Left returns the left reel rotor.
func (rp *ReelPair) Left() *Rotor { return rp.left }

// Right returns the right reel rotor.
func (rp *ReelPair) Right() *Rotor { return rp.right }

// Tick advances both reels for one frame. progress is the 0..1 track
// progress used by the spool model; hasProgress is false for streams with
// unknown duration, which pins both spools at their fixed speeds. The
// return values report which reels need a repaint.
func (rp *ReelPair) Tick(now time.Time, playing bool, progress float64, hasProgress bool) (leftMoved, rightMoved bool) {
	leftMult := rp.globalMult * rp.fixedLeft
	rightMult := rp.globalMult * rp.fixedRight
	if rp.adaptive && hasProgress {
		ls, rs := rotmath.AdaptiveReelSpeeds(rotmath.Clamp01(progress), rp.dir)
		leftMult *= ls
		rightMult *= rs
	}
	rp.left.SetSpeedMult(leftMult)
	rp.right.SetSpeedMult(rightMult)

	leftMoved = rp.left.Tick(now, playing)
	rightMoved = rp.right.Tick(now, playing)
	return leftMoved, rightMoved
}
