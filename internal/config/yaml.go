// SPDX-License-Identifier: MIT
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Load loads configuration from a YAML file specified by path. If path is
// empty, it searches default locations ("vumeter.yaml", "config.yaml"). If
// no file is found, the built-in defaults are used. After loading, env
// overrides are applied and the final configuration is validated and
// clamped into the supported ranges.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if path == "" {
		candidates := []string{"vumeter.yaml", "config.yaml"}
		for _, candidate := range candidates {
			if _, err := os.Stat(candidate); err == nil {
				path = candidate
				break
			}
		}
		if path == "" {
			cfg.applyEnvOverrides()
			if err := cfg.Validate(); err != nil {
				return nil, fmt.Errorf("invalid default configuration: %w", err)
			}
			return cfg, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Defaults returns a Config populated with the built-in defaults.
func Defaults() *Config {
	return &Config{
		Debug:    false,
		LogLevel: "info",
		Render: RenderConfig{
			FrameRate:           DefaultFrameRate,
			UpdateInterval:      DefaultUpdateInterval,
			MeterDelayMS:        DefaultMeterDelayMS,
			Profiling:           false,
			PersistenceSec:      0, // off
			PersistenceTimeMode: TimeModeFreeze,
		},
		Rotation: RotationConfig{
			Quality:    DefaultRotationQuality,
			CustomFPS:  DefaultRotationFPS,
			SpeedMult:  1.0,
			ReelDir:    DefaultReelDirection,
			SpoolLeft:  1.0,
			SpoolRight: 1.0,
			Adaptive:   true,
		},
		Progress: ProgressConfig{
			QueueMode: DefaultQueueMode,
		},
		Capture: CaptureConfig{
			Enabled:         true,
			InputDevice:     DefaultDeviceID,
			SampleRate:      DefaultSampleRate,
			FramesPerBuffer: DefaultFramesPerBuffer,
			InputChannels:   2,
			LowLatency:      false,
			Bands:           DefaultBands,
			FFTWindow:       DefaultWindow,
		},
		Recording: RecordingConfig{
			Enabled:   false,
			OutputDir: "./recordings",
			BitDepth:  16,
		},
		Transport: TransportConfig{
			WSEnabled:         false,
			WSAddr:            ":8080",
			UDPEnabled:        false,
			UDPTargetAddress:  "127.0.0.1:9090",
			UDPSendIntervalMS: 33, // ~30Hz
		},
	}
}

// Validate clamps render settings into the supported ranges and rejects
// combinations the engine cannot honor. Out-of-range render values are a
// degraded-input condition, not a fatal error, so they clamp rather than
// fail.
func (c *Config) Validate() error {
	c.Render.FrameRate = clampInt(c.Render.FrameRate, MinFrameRate, MaxFrameRate)
	c.Render.UpdateInterval = clampInt(c.Render.UpdateInterval, MinUpdateInterval, MaxUpdateInterval)
	c.Render.MeterDelayMS = clampInt(c.Render.MeterDelayMS, MinMeterDelayMS, MaxMeterDelayMS)

	if c.Render.PersistenceSec != 0 {
		c.Render.PersistenceSec = clampInt(c.Render.PersistenceSec, MinPersistenceSec, MaxPersistenceSec)
	}
	switch c.Render.PersistenceTimeMode {
	case TimeModeFreeze, TimeModeCountdown:
	case "":
		c.Render.PersistenceTimeMode = TimeModeFreeze
	default:
		return fmt.Errorf("render.persistence_time_mode must be %q or %q, got %q",
			TimeModeFreeze, TimeModeCountdown, c.Render.PersistenceTimeMode)
	}

	switch c.Progress.QueueMode {
	case "track", "queue":
	case "":
		c.Progress.QueueMode = DefaultQueueMode
	default:
		return fmt.Errorf("progress.queue_mode must be \"track\" or \"queue\", got %q", c.Progress.QueueMode)
	}

	switch c.Rotation.ReelDir {
	case "ccw", "cw":
	case "":
		c.Rotation.ReelDir = DefaultReelDirection
	default:
		return fmt.Errorf("rotation.reel_direction must be \"ccw\" or \"cw\", got %q", c.Rotation.ReelDir)
	}

	if c.Rotation.SpeedMult <= 0 {
		c.Rotation.SpeedMult = 1.0
	}
	if c.Rotation.SpoolLeft <= 0 {
		c.Rotation.SpoolLeft = 1.0
	}
	if c.Rotation.SpoolRight <= 0 {
		c.Rotation.SpoolRight = 1.0
	}

	if c.Capture.Enabled {
		if c.Capture.SampleRate <= 0 {
			return fmt.Errorf("capture.sample_rate must be positive, got %f", c.Capture.SampleRate)
		}
		if c.Capture.FramesPerBuffer <= 0 {
			return fmt.Errorf("capture.frames_per_buffer must be positive, got %d", c.Capture.FramesPerBuffer)
		}
		if c.Capture.Bands <= 0 {
			c.Capture.Bands = DefaultBands
		}
	}

	if c.Transport.UDPEnabled && c.Transport.UDPSendIntervalMS <= 0 {
		c.Transport.UDPSendIntervalMS = 33
	}

	return nil
}

// applyEnvOverrides applies VUMETER_* environment overrides on top of the
// loaded configuration. These exist so the screensaver launcher scripts can
// tweak single values without rewriting the config file.
func (c *Config) applyEnvOverrides() {
	if val, ok := os.LookupEnv("VUMETER_DEBUG"); ok {
		if b, err := strconv.ParseBool(val); err == nil {
			c.Debug = b
		}
	}
	if val, ok := os.LookupEnv("VUMETER_FRAME_RATE"); ok {
		if n, err := strconv.Atoi(val); err == nil {
			c.Render.FrameRate = n
		}
	}
	if val, ok := os.LookupEnv("VUMETER_UPDATE_INTERVAL"); ok {
		if n, err := strconv.Atoi(val); err == nil {
			c.Render.UpdateInterval = n
		}
	}
	if val, ok := os.LookupEnv("VUMETER_QUEUE_MODE"); ok {
		c.Progress.QueueMode = val
	}
	if val, ok := os.LookupEnv("VUMETER_UDP_TARGET_ADDRESS"); ok {
		c.Transport.UDPTargetAddress = val
		c.Transport.UDPEnabled = true
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
