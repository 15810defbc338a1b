// SPDX-License-Identifier: MIT
package anim

import (
	"time"

	"vumeter/internal/config"
	"vumeter/internal/log"
	"vumeter/pkg/rotmath"
)

// Params bundles the rotation settings shared by all rotating elements:
// the blit rate and precompute step from the quality preset plus the
// global speed multiplier.
type Params struct {
	FPS       int
	StepDeg   float64
	SpeedMult float64
}

// ParamsFromConfig resolves the rotation section of the runtime config
// into effective parameters.
func ParamsFromConfig(rc config.RotationConfig) Params {
	fps, step := rotmath.QualityParams(rc.Quality, rc.CustomFPS)
	mult := rc.SpeedMult
	if mult <= 0 {
		mult = 1.0
	}
	return Params{FPS: fps, StepDeg: step, SpeedMult: mult}
}

// Rotor is a constant-RPM rotation driver for one element (vinyl disc,
// rotating album art, one reel). The angle advances in fixed blit-interval
// steps so the element lands exactly on precomputed rotation frames.
// Not safe for concurrent use.
type Rotor struct {
	logger *log.Logger

	baseRPM   float64
	speedMult float64
	dir       rotmath.Direction
	stepDeg   float64

	angle        float64
	blitInterval time.Duration
	lastBlit     time.Time
}

// NewRotor builds a rotor turning at rpm (revolutions per minute of the
// on-screen element, not the simulated medium) in the given direction.
func NewRotor(name string, rpm float64, dir rotmath.Direction, p Params, logger *log.Logger) *Rotor {
	if logger == nil {
		logger = log.Discard()
	}
	if rpm < 0 {
		rpm = -rpm
	}
	fps := p.FPS
	if fps <= 0 {
		fps = 1
	}
	return &Rotor{
		logger:       logger.Component(name),
		baseRPM:      rpm,
		speedMult:    p.SpeedMult,
		dir:          dir,
		stepDeg:      p.StepDeg,
		blitInterval: time.Second / time.Duration(fps),
	}
}

// EffectiveRPM returns the current rotation speed after multipliers.
func (r *Rotor) EffectiveRPM() float64 { return r.baseRPM * r.speedMult }

// SetSpeedMult replaces the speed multiplier; the adaptive reel model
// retunes it every frame.
func (r *Rotor) SetSpeedMult(m float64) {
	if m > 0 {
		r.speedMult = m
	}
}

// Angle returns the current rotation angle in degrees, [0, 360).
func (r *Rotor) Angle() float64 { return r.angle }

// StepDeg returns the precompute step this rotor was tuned for.
func (r *Rotor) StepDeg() float64 { return r.stepDeg }

// FrameIndex maps the current angle onto n precomputed frames.
func (r *Rotor) FrameIndex(n int) int {
	return rotmath.FrameIndex(r.angle, r.stepDeg, n)
}

// Tick advances the rotor once per blit interval and reports whether the
// element needs a repaint. While playback is held the angle freezes in
// place; the element keeps its last frame and no repaint is due. Missed
// intervals do not accumulate: a stalled loop resumes at the held angle
// instead of spinning the element to catch up.
func (r *Rotor) Tick(now time.Time, playing bool) bool {
	if r.EffectiveRPM() <= 0 {
		return false
	}
	if !r.lastBlit.IsZero() && now.Sub(r.lastBlit) < r.blitInterval {
		return false
	}
	r.lastBlit = now
	if !playing {
		return false
	}
	prev := rotmath.FrameIndex(r.angle, r.stepDeg, framesFor(r.stepDeg))
	r.angle = rotmath.StepAngle(r.angle, r.EffectiveRPM(), r.blitInterval.Seconds(), r.dir)
	// Sub-step movement that maps to the same precomputed frame is not a
	// repaint.
	return rotmath.FrameIndex(r.angle, r.stepDeg, framesFor(r.stepDeg)) != prev
}

func framesFor(stepDeg float64) int {
	if stepDeg <= 0 {
		return 1
	}
	n := int(360 / stepDeg)
	if n < 1 {
		n = 1
	}
	return n
}
