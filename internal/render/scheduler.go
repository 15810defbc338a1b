// SPDX-License-Identifier: MIT
package render

import (
	"context"
	"time"

	"vumeter/internal/config"
	"vumeter/internal/log"
)

// FrameInfo is what the scheduler hands the frame callback each tick.
type FrameInfo struct {
	Index uint64
	// Recompute is set on every update-interval'th frame; needles and
	// spectrum recompute only then, cheaper elements every frame.
	Recompute bool
	Now       time.Time
}

// FrameFunc renders one frame.
type FrameFunc func(FrameInfo)

const profileReportEvery = 5 * time.Second

// Scheduler drives the frame loop at the configured rate. Deadlines are
// absolute: each frame is scheduled at the previous deadline plus the
// interval, so render cost does not slow the clock down. A missed
// deadline reschedules from now instead of bursting catch-up frames.
type Scheduler struct {
	logger *log.Logger

	interval       time.Duration
	updateInterval uint64
	meterDelay     time.Duration
	profiling      bool
}

// NewScheduler builds the scheduler from the render config. Load already
// clamps into the supported ranges; zero values from a hand-built config
// fall back to the defaults rather than dividing by zero.
func NewScheduler(rc config.RenderConfig, logger *log.Logger) *Scheduler {
	if logger == nil {
		logger = log.Discard()
	}
	ui := rc.UpdateInterval
	if ui < 1 {
		ui = 1
	}
	fps := rc.FrameRate
	if fps < 1 {
		fps = config.DefaultFrameRate
	}
	return &Scheduler{
		logger:         logger.Component("scheduler"),
		interval:       time.Second / time.Duration(fps),
		updateInterval: uint64(ui),
		meterDelay:     time.Duration(rc.MeterDelayMS) * time.Millisecond,
		profiling:      rc.Profiling,
	}
}

// Interval returns the frame period.
func (s *Scheduler) Interval() time.Duration { return s.interval }

// Recompute reports whether frame index i is a needle/spectrum recompute
// frame. Frame 0 always recomputes.
func (s *Scheduler) Recompute(i uint64) bool {
	return i%s.updateInterval == 0
}

// Run executes the frame loop until the context is canceled. The callback
// runs on the calling goroutine.
func (s *Scheduler) Run(ctx context.Context, fn FrameFunc) error {
	s.logger.Infof("frame loop: %v interval, recompute every %d frames", s.interval, s.updateInterval)

	var (
		frame     uint64
		profMin   time.Duration
		profMax   time.Duration
		profSum   time.Duration
		profCount int
	)
	profStart := time.Now()

	next := time.Now()
	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Infof("frame loop stopped after %d frames", frame)
			return ctx.Err()
		case <-timer.C:
		}

		now := time.Now()
		fn(FrameInfo{Index: frame, Recompute: s.Recompute(frame), Now: now})
		frame++

		if s.profiling {
			d := time.Since(now)
			if profCount == 0 || d < profMin {
				profMin = d
			}
			if d > profMax {
				profMax = d
			}
			profSum += d
			profCount++
			if since := time.Since(profStart); since >= profileReportEvery {
				s.logger.Infof("frame time min=%v max=%v avg=%v over %d frames (%.1f fps)",
					profMin, profMax, profSum/time.Duration(profCount), profCount,
					float64(profCount)/since.Seconds())
				profMin, profMax, profSum, profCount = 0, 0, 0, 0
				profStart = time.Now()
			}
		}

		next = next.Add(s.interval + s.meterDelay)
		if !next.After(time.Now()) {
			// Deadline already passed; resume from now, no catch-up burst.
			next = time.Now().Add(s.interval)
		}
		timer.Reset(time.Until(next))
	}
}
