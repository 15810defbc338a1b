// SPDX-License-Identifier: MIT
/*
Package meta holds the playback metadata and audio-level snapshots the
render loop reads every frame.

Producers (the player-state feed, the capture engine) publish complete
immutable snapshots; the single render goroutine reads whichever snapshot
is current. Publication is atomic pointer replacement with last-write-wins
semantics, so neither side ever blocks and the render loop never sees a
partially updated state.
*/
package meta

import (
	"sync/atomic"
	"time"
)

// Transport is the player transport state.
type Transport int

const (
	TransportStopped Transport = iota
	TransportPlaying
	TransportPaused
)

// String returns the transport name used in logs and remote export.
func (t Transport) String() string {
	switch t {
	case TransportPlaying:
		return "play"
	case TransportPaused:
		return "pause"
	default:
		return "stop"
	}
}

// Repeat is the player repeat mode.
type Repeat int

const (
	RepeatOff Repeat = iota
	RepeatAll
	RepeatSingle
)

// Track identifies the current track and its stream properties.
type Track struct {
	Artist      string
	Title       string
	Album       string
	Format      string // "flac", "dsd", "mp3", ...
	SampleInfo  string // "44.1 kHz / 16 bit" style display string
	DurationSec float64
	AlbumArtRef string // URL or path, resolved by the art fetcher
}

// PlaybackState is one immutable snapshot of the player state.
// SeekSec is the playback position at ReceivedAt; Position interpolates
// forward from there while the transport is playing.
type PlaybackState struct {
	Transport  Transport
	Track      Track
	SeekSec    float64
	ReceivedAt time.Time

	Volume  int // 0-100
	Muted   bool
	Shuffle bool
	Repeat  Repeat

	// Queue position (0-based) and length; zero length means the player
	// did not report a queue.
	QueuePos int
	QueueLen int
}

// Playing reports whether audio is advancing.
func (st *PlaybackState) Playing() bool {
	return st.Transport == TransportPlaying
}

// Position returns the playback position at now, interpolating from the
// last reported seek while playing. Paused and stopped states hold the
// reported position. The result never exceeds the track duration.
func (st *PlaybackState) Position(now time.Time) float64 {
	pos := st.SeekSec
	if st.Transport == TransportPlaying && !st.ReceivedAt.IsZero() {
		pos += now.Sub(st.ReceivedAt).Seconds()
	}
	if pos < 0 {
		pos = 0
	}
	if d := st.Track.DurationSec; d > 0 && pos > d {
		pos = d
	}
	return pos
}

// Remaining returns seconds until the end of the current track, zero when
// the duration is unknown.
func (st *PlaybackState) Remaining(now time.Time) float64 {
	d := st.Track.DurationSec
	if d <= 0 {
		return 0
	}
	return d - st.Position(now)
}

// TrackProgress returns the 0..1 progress through the current track.
// ok is false when the duration is unknown (streams, webradio); callers
// that drive geometry hold their start position in that case.
func (st *PlaybackState) TrackProgress(now time.Time) (float64, bool) {
	d := st.Track.DurationSec
	if d <= 0 {
		return 0, false
	}
	return st.Position(now) / d, true
}

// QueueProgress returns the 0..1 progress through the whole queue,
// counting finished tracks plus the fraction of the current one. When
// the player reported no queue it falls back to track progress.
func (st *PlaybackState) QueueProgress(now time.Time) (float64, bool) {
	if st.QueueLen <= 0 {
		return st.TrackProgress(now)
	}
	frac, ok := st.TrackProgress(now)
	if !ok {
		frac = 0
	}
	p := (float64(st.QueuePos) + frac) / float64(st.QueueLen)
	if p > 1 {
		p = 1
	}
	return p, true
}

// ProgressFor selects track or queue progress by mode ("track"/"queue").
func (st *PlaybackState) ProgressFor(mode string, now time.Time) (float64, bool) {
	if mode == "queue" {
		return st.QueueProgress(now)
	}
	return st.TrackProgress(now)
}

// Levels is one immutable snapshot of the measured audio levels.
// Left/Right are normalized 0..1 channel levels; Bands are the spectrum
// band magnitudes, also 0..1.
type Levels struct {
	Left  float64
	Right float64
	Bands []float64
	At    time.Time
}

// Mono returns the combined channel level.
func (l *Levels) Mono() float64 {
	return (l.Left + l.Right) / 2
}

// Store is the snapshot exchange between producers and the render loop.
// The zero value is not usable; construct with NewStore.
type Store struct {
	state  atomic.Pointer[PlaybackState]
	levels atomic.Pointer[Levels]
}

// NewStore returns a Store seeded with a stopped, silent state so readers
// never observe nil.
func NewStore() *Store {
	s := &Store{}
	s.state.Store(&PlaybackState{Transport: TransportStopped})
	s.levels.Store(&Levels{})
	return s
}

// SetState publishes a playback snapshot. ReceivedAt is stamped when the
// producer left it zero.
func (s *Store) SetState(st PlaybackState) {
	if st.ReceivedAt.IsZero() {
		st.ReceivedAt = time.Now()
	}
	s.state.Store(&st)
}

// State returns the current playback snapshot. The returned value is
// shared and must not be mutated.
func (s *Store) State() *PlaybackState {
	return s.state.Load()
}

// SetLevels publishes a level snapshot. The bands slice is owned by the
// snapshot from this point on.
func (s *Store) SetLevels(l Levels) {
	if l.At.IsZero() {
		l.At = time.Now()
	}
	s.levels.Store(&l)
}

// Levels returns the current level snapshot. The returned value is shared
// and must not be mutated.
func (s *Store) Levels() *Levels {
	return s.levels.Load()
}
