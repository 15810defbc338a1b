// SPDX-License-Identifier: MIT
package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultsValidate(t *testing.T) {
	cfg := Defaults()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
	if cfg.Render.FrameRate != DefaultFrameRate {
		t.Errorf("frame rate = %d, want %d", cfg.Render.FrameRate, DefaultFrameRate)
	}
	if cfg.Render.UpdateInterval != DefaultUpdateInterval {
		t.Errorf("update interval = %d, want %d", cfg.Render.UpdateInterval, DefaultUpdateInterval)
	}
}

func TestValidateClampsRenderRanges(t *testing.T) {
	tests := []struct {
		name         string
		frameRate    int
		wantRate     int
		interval     int
		wantInterval int
		delay        int
		wantDelay    int
	}{
		{"below minimums", 1, MinFrameRate, 0, MinUpdateInterval, -5, MinMeterDelayMS},
		{"above maximums", 144, MaxFrameRate, 99, MaxUpdateInterval, 500, MaxMeterDelayMS},
		{"within range", 30, 30, 2, 2, 10, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			cfg.Render.FrameRate = tt.frameRate
			cfg.Render.UpdateInterval = tt.interval
			cfg.Render.MeterDelayMS = tt.delay
			if err := cfg.Validate(); err != nil {
				t.Fatalf("Validate: %v", err)
			}
			if cfg.Render.FrameRate != tt.wantRate {
				t.Errorf("frame rate = %d, want %d", cfg.Render.FrameRate, tt.wantRate)
			}
			if cfg.Render.UpdateInterval != tt.wantInterval {
				t.Errorf("update interval = %d, want %d", cfg.Render.UpdateInterval, tt.wantInterval)
			}
			if cfg.Render.MeterDelayMS != tt.wantDelay {
				t.Errorf("meter delay = %d, want %d", cfg.Render.MeterDelayMS, tt.wantDelay)
			}
		})
	}
}

func TestValidatePersistenceWindow(t *testing.T) {
	cfg := Defaults()
	cfg.Render.PersistenceSec = 0
	if err := cfg.Validate(); err != nil {
		t.Fatalf("persistence off should validate: %v", err)
	}

	cfg.Render.PersistenceSec = 2 // Below 5s floor
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if cfg.Render.PersistenceSec != MinPersistenceSec {
		t.Errorf("persistence = %d, want clamp to %d", cfg.Render.PersistenceSec, MinPersistenceSec)
	}

	cfg.Render.PersistenceSec = 3600
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if cfg.Render.PersistenceSec != MaxPersistenceSec {
		t.Errorf("persistence = %d, want clamp to %d", cfg.Render.PersistenceSec, MaxPersistenceSec)
	}
}

func TestValidateRejectsBadEnums(t *testing.T) {
	cfg := Defaults()
	cfg.Progress.QueueMode = "shuffle"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for bad queue_mode")
	}

	cfg = Defaults()
	cfg.Rotation.ReelDir = "widdershins"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for bad reel_direction")
	}

	cfg = Defaults()
	cfg.Render.PersistenceTimeMode = "blink"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for bad persistence_time_mode")
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vumeter.yaml")
	data := []byte(`
log_level: debug
render:
  frame_rate: 25
  update_interval: 3
  persistence_sec: 30
  persistence_time_mode: countdown
rotation:
  quality: high
  reel_direction: cw
progress:
  queue_mode: queue
`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Render.FrameRate != 25 {
		t.Errorf("frame rate = %d, want 25", cfg.Render.FrameRate)
	}
	if cfg.Render.PersistenceSec != 30 {
		t.Errorf("persistence = %d, want 30", cfg.Render.PersistenceSec)
	}
	if cfg.Render.PersistenceTimeMode != TimeModeCountdown {
		t.Errorf("time mode = %q, want countdown", cfg.Render.PersistenceTimeMode)
	}
	if cfg.Rotation.Quality != "high" || cfg.Rotation.ReelDir != "cw" {
		t.Errorf("rotation = %+v", cfg.Rotation)
	}
	if cfg.Progress.QueueMode != "queue" {
		t.Errorf("queue mode = %q, want queue", cfg.Progress.QueueMode)
	}
	// Unset sections keep defaults.
	if cfg.Capture.SampleRate != DefaultSampleRate {
		t.Errorf("sample rate = %f, want default", cfg.Capture.SampleRate)
	}
}

func TestLoadMissingFileIsError(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing explicit config path")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("VUMETER_FRAME_RATE", "50")
	t.Setenv("VUMETER_QUEUE_MODE", "queue")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Render.FrameRate != 50 {
		t.Errorf("frame rate = %d, want env override 50", cfg.Render.FrameRate)
	}
	if cfg.Progress.QueueMode != "queue" {
		t.Errorf("queue mode = %q, want env override queue", cfg.Progress.QueueMode)
	}
}
