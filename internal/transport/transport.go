// SPDX-License-Identifier: MIT
/*
Package transport re-exports level and playback snapshots to remote
viewers. Two transports exist: a WebSocket hub broadcasting JSON
snapshots and a UDP publisher sending compact binary band packets.
Implementations are thread-safe and never block the render loop.
*/
package transport

import "vumeter/internal/meta"

// Transport sends one snapshot to whoever is listening.
type Transport interface {
	Send(data any) error
	Close() error
}

// Snapshot is the JSON shape pushed to WebSocket clients.
type Snapshot struct {
	Transport string    `json:"transport"`
	Artist    string    `json:"artist,omitempty"`
	Title     string    `json:"title,omitempty"`
	Album     string    `json:"album,omitempty"`
	Format    string    `json:"format,omitempty"`
	SeekSec   float64   `json:"seek_sec"`
	Duration  float64   `json:"duration_sec"`
	Volume    int       `json:"volume"`
	Muted     bool      `json:"muted"`
	Left      float64   `json:"left"`
	Right     float64   `json:"right"`
	Bands     []float64 `json:"bands,omitempty"`
}

// StatePush is the JSON shape the player pushes to /state. Seek arrives
// in milliseconds, duration in seconds, matching the player's own wire
// format.
type StatePush struct {
	Status       string  `json:"status"` // play|pause|stop
	Artist       string  `json:"artist"`
	Title        string  `json:"title"`
	Album        string  `json:"album"`
	TrackType    string  `json:"trackType"`
	SampleInfo   string  `json:"samplerate"`
	DurationSec  float64 `json:"duration"`
	SeekMS       float64 `json:"seek"`
	Volume       int     `json:"volume"`
	Mute         bool    `json:"mute"`
	Random       bool    `json:"random"`
	Repeat       bool    `json:"repeat"`
	RepeatSingle bool    `json:"repeatSingle"`
	Position     int     `json:"position"`
	QueueLength  int     `json:"queueLength"`
	AlbumArt     string  `json:"albumart"`
}

// State converts a push to the engine's playback snapshot. ReceivedAt is
// left zero for the store to stamp.
func (p *StatePush) State() meta.PlaybackState {
	st := meta.PlaybackState{
		Track: meta.Track{
			Artist:      p.Artist,
			Title:       p.Title,
			Album:       p.Album,
			Format:      p.TrackType,
			SampleInfo:  p.SampleInfo,
			DurationSec: p.DurationSec,
			AlbumArtRef: p.AlbumArt,
		},
		SeekSec:  p.SeekMS / 1000,
		Volume:   p.Volume,
		Muted:    p.Mute,
		Shuffle:  p.Random,
		QueuePos: p.Position,
		QueueLen: p.QueueLength,
	}
	switch p.Status {
	case "play":
		st.Transport = meta.TransportPlaying
	case "pause":
		st.Transport = meta.TransportPaused
	default:
		st.Transport = meta.TransportStopped
	}
	switch {
	case p.RepeatSingle:
		st.Repeat = meta.RepeatSingle
	case p.Repeat:
		st.Repeat = meta.RepeatAll
	}
	return st
}

// MakeSnapshot flattens the current store state into the export shape.
func MakeSnapshot(st *meta.PlaybackState, lv *meta.Levels) Snapshot {
	return Snapshot{
		Transport: st.Transport.String(),
		Artist:    st.Track.Artist,
		Title:     st.Track.Title,
		Album:     st.Track.Album,
		Format:    st.Track.Format,
		SeekSec:   st.SeekSec,
		Duration:  st.Track.DurationSec,
		Volume:    st.Volume,
		Muted:     st.Muted,
		Left:      lv.Left,
		Right:     lv.Right,
		Bands:     lv.Bands,
	}
}
