// SPDX-License-Identifier: MIT
package transport

import (
	"testing"
	"time"

	"vumeter/internal/meta"
)

func TestMakeSnapshot(t *testing.T) {
	st := &meta.PlaybackState{
		Transport: meta.TransportPlaying,
		Track: meta.Track{
			Artist:      "artist",
			Title:       "title",
			Album:       "album",
			Format:      "flac",
			DurationSec: 240,
		},
		SeekSec:    30,
		Volume:     75,
		Muted:      true,
		ReceivedAt: time.Unix(1000, 0),
	}
	lv := &meta.Levels{Left: 0.5, Right: 0.7, Bands: []float64{0.1, 0.2}}

	s := MakeSnapshot(st, lv)
	if s.Transport != "play" {
		t.Errorf("transport = %q", s.Transport)
	}
	if s.Title != "title" || s.Artist != "artist" || s.Format != "flac" {
		t.Errorf("track fields = %+v", s)
	}
	if s.SeekSec != 30 || s.Duration != 240 {
		t.Errorf("position fields = %+v", s)
	}
	if !s.Muted || s.Volume != 75 {
		t.Errorf("volume fields = %+v", s)
	}
	if s.Left != 0.5 || s.Right != 0.7 || len(s.Bands) != 2 {
		t.Errorf("level fields = %+v", s)
	}
}

func TestStatePushConversion(t *testing.T) {
	tests := []struct {
		name string
		push StatePush
		want meta.PlaybackState
	}{
		{
			"playing with repeat all",
			StatePush{Status: "play", SeekMS: 32500, DurationSec: 240, Repeat: true, Volume: 60},
			meta.PlaybackState{Transport: meta.TransportPlaying, SeekSec: 32.5,
				Track: meta.Track{DurationSec: 240}, Repeat: meta.RepeatAll, Volume: 60},
		},
		{
			"paused with repeat single",
			StatePush{Status: "pause", Repeat: true, RepeatSingle: true},
			meta.PlaybackState{Transport: meta.TransportPaused, Repeat: meta.RepeatSingle},
		},
		{
			"unknown status is stopped",
			StatePush{Status: "buffering"},
			meta.PlaybackState{Transport: meta.TransportStopped},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.push.State()
			if got.Transport != tt.want.Transport {
				t.Errorf("transport = %v, want %v", got.Transport, tt.want.Transport)
			}
			if got.SeekSec != tt.want.SeekSec {
				t.Errorf("seek = %f, want %f", got.SeekSec, tt.want.SeekSec)
			}
			if got.Repeat != tt.want.Repeat {
				t.Errorf("repeat = %v, want %v", got.Repeat, tt.want.Repeat)
			}
			if got.Volume != tt.want.Volume {
				t.Errorf("volume = %d", got.Volume)
			}
		})
	}
}

func TestMakeSnapshotStopped(t *testing.T) {
	s := MakeSnapshot(&meta.PlaybackState{}, &meta.Levels{})
	if s.Transport != "stop" {
		t.Errorf("transport = %q", s.Transport)
	}
	if len(s.Bands) != 0 {
		t.Errorf("bands = %v", s.Bands)
	}
}
