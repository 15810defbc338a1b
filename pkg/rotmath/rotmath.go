// SPDX-License-Identifier: MIT
// Package rotmath provides the pure rotation math used by the animation
// engines: progress-to-angle mapping, ease curves, RPM integration and
// the constant-tape-speed spool model for cassette reels.
//
// Angle convention throughout: degrees, 0 = pointing right, negative =
// clockwise. Callers own all timing; nothing here reads the clock.
package rotmath

import "math"

// Direction is the visual spin direction of a rotating element.
type Direction int

const (
	CCW Direction = iota // counter-clockwise, angle increases
	CW                   // clockwise, angle decreases
)

// Mult returns the sign applied to angular deltas for the direction.
func (d Direction) Mult() float64 {
	if d == CW {
		return -1
	}
	return 1
}

// ParseDirection converts a config string to a Direction.
// Unknown values fall back to CCW, the cassette default.
func ParseDirection(s string) Direction {
	if s == "cw" {
		return CW
	}
	return CCW
}

// Clamp01 clamps v to the closed unit interval.
func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// EaseOut is the quadratic ease-out used for tonearm drop and lift,
// f(p) = 1 - (1-p)^2. Input outside [0,1] is clamped.
func EaseOut(p float64) float64 {
	p = Clamp01(p)
	return 1 - (1-p)*(1-p)
}

// Lerp interpolates between a and b. t is clamped to [0,1]; a and b may be
// in either order, so a descending sweep (a > b) is valid.
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*Clamp01(t)
}

// TrackAngle maps playback progress to a tonearm angle between the
// outer-groove angle (progress 0) and inner-groove angle (progress 1).
func TrackAngle(start, end, progress float64) float64 {
	return Lerp(start, end, progress)
}

// StepAngle advances a rotation angle by rpm over dt seconds in the given
// direction and wraps it into [0, 360). One RPM is 6 degrees per second.
func StepAngle(angle, rpm, dt float64, dir Direction) float64 {
	a := math.Mod(angle+rpm*6.0*dt*dir.Mult(), 360.0)
	if a < 0 {
		a += 360.0
	}
	return a
}

// FrameIndex selects the precomputed rotation frame nearest to angle for a
// frame set sampled every stepDeg degrees. n is the number of frames.
func FrameIndex(angle, stepDeg float64, n int) int {
	if n <= 0 || stepDeg <= 0 {
		return 0
	}
	idx := int(math.Floor(angle/stepDeg)) % n
	if idx < 0 {
		idx += n
	}
	return idx
}

// Quality presets trade rotation smoothness against CPU: blit rate and the
// angular resolution of the precomputed frame set.
const (
	QualityLow    = "low"
	QualityMedium = "medium"
	QualityHigh   = "high"
	QualityCustom = "custom"
)

// QualityParams returns (blit fps, frame step in degrees) for a rotation
// quality setting. For QualityCustom the step is derived from the fps and
// clamped to [1, 12] degrees. Unknown names yield the medium preset.
func QualityParams(quality string, customFPS int) (fps int, stepDeg float64) {
	switch quality {
	case QualityLow:
		return 4, 12
	case QualityMedium:
		return 8, 6
	case QualityHigh:
		return 15, 3
	case QualityCustom:
		if customFPS < 1 {
			customFPS = 1
		}
		step := 45.0 / float64(customFPS)
		if step < 1 {
			step = 1
		}
		if step > 12 {
			step = 12
		}
		return customFPS, step
	default:
		return 8, 6
	}
}

// Spool model: tape moves over the head at constant linear velocity, so a
// reel's angular velocity is inversely proportional to its current spool
// radius. Fullness f in [0,1] is the fraction of tape on the reel; the
// wound radius grows with the square root of the tape area.
//
// Normalized empty-hub and full-spool radii. Only their ratio matters for
// relative speed, and a 1:2 hub-to-flange ratio is typical for compact
// cassettes.
const (
	spoolRadiusEmpty = 1.0
	spoolRadiusFull  = 2.0
)

// SpoolRadius returns the normalized spool radius at fullness f.
func SpoolRadius(f float64) float64 {
	f = Clamp01(f)
	re2 := spoolRadiusEmpty * spoolRadiusEmpty
	rf2 := spoolRadiusFull * spoolRadiusFull
	return math.Sqrt(re2 + f*(rf2-re2))
}

// SpoolSpeed returns the relative angular speed multiplier of a reel at
// fullness f, normalized so that a half-full spool spins at 1.0. Larger
// spool (more tape) spins slower; smaller spool spins faster. The result
// is strictly decreasing and smooth in f.
func SpoolSpeed(f float64) float64 {
	return SpoolRadius(0.5) / SpoolRadius(f)
}

// ReelFullness returns the tape fullness of the two reels at playback
// progress p for the given orientation. For the CCW default the left reel
// is the supply spool (starts full, empties) and the right reel is the
// take-up spool (starts empty, fills); CW swaps the roles.
func ReelFullness(p float64, dir Direction) (left, right float64) {
	p = Clamp01(p)
	if dir == CW {
		return p, 1 - p
	}
	return 1 - p, p
}

// AdaptiveReelSpeeds returns the (left, right) angular speed multipliers at
// playback progress p. For CCW the left reel starts full and slow and
// speeds up strictly as it empties, while the right reel starts empty and
// fast and slows strictly as it fills. CW reverses both.
func AdaptiveReelSpeeds(p float64, dir Direction) (left, right float64) {
	lf, rf := ReelFullness(p, dir)
	return SpoolSpeed(lf), SpoolSpeed(rf)
}
