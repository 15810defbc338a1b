// SPDX-License-Identifier: MIT
package capture

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"vumeter/internal/config"
	"vumeter/internal/log"
)

// Recorder mirrors captured int32 frames to a WAV file. Start opens a
// timestamped file in the configured output directory; Write is called
// from the capture callback and reuses one IntBuffer.
type Recorder struct {
	cfg        config.RecordingConfig
	sampleRate int
	channels   int
	bitDepth   int
	logger     *log.Logger

	file    *os.File
	encoder *wav.Encoder
	buf     *audio.IntBuffer
}

func NewRecorder(cfg config.RecordingConfig, sampleRate, channels int, logger *log.Logger) *Recorder {
	if logger == nil {
		logger = log.Discard()
	}
	bitDepth := cfg.BitDepth
	if bitDepth != 16 && bitDepth != 24 && bitDepth != 32 {
		bitDepth = 32
	}
	return &Recorder{
		cfg:        cfg,
		sampleRate: sampleRate,
		channels:   channels,
		bitDepth:   bitDepth,
		logger:     logger.Component("recorder"),
		buf: &audio.IntBuffer{
			Format: &audio.Format{
				NumChannels: channels,
				SampleRate:  sampleRate,
			},
			SourceBitDepth: 32,
		},
	}
}

// Start opens a new WAV file named after the current time.
func (r *Recorder) Start() error {
	if r.encoder != nil {
		return fmt.Errorf("recording already in progress")
	}
	dir := r.cfg.OutputDir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	name := fmt.Sprintf("capture_%s.wav", time.Now().Format("20060102_150405"))
	path := filepath.Join(dir, name)
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create recording file: %w", err)
	}

	r.file = file
	r.encoder = wav.NewEncoder(file, r.sampleRate, r.bitDepth, r.channels, 1)
	r.logger.Infof("recording to %s (%d bit)", path, r.bitDepth)
	return nil
}

// Write appends interleaved int32 frames to the open recording.
func (r *Recorder) Write(samples []int32) error {
	if r.encoder == nil {
		return fmt.Errorf("no recording in progress")
	}
	if cap(r.buf.Data) < len(samples) {
		r.buf.Data = make([]int, len(samples))
	}
	r.buf.Data = r.buf.Data[:len(samples)]

	shift := uint(32 - r.bitDepth)
	for i, s := range samples {
		r.buf.Data[i] = int(s >> shift)
	}
	if err := r.encoder.Write(r.buf); err != nil {
		return fmt.Errorf("failed to write samples: %w", err)
	}
	return nil
}

// Stop finalizes the WAV header and closes the file.
func (r *Recorder) Stop() error {
	if r.encoder == nil {
		return nil
	}
	encErr := r.encoder.Close()
	fileErr := r.file.Close()
	r.encoder = nil
	r.file = nil
	if encErr != nil {
		return fmt.Errorf("failed to finalize recording: %w", encErr)
	}
	if fileErr != nil {
		return fmt.Errorf("failed to close recording file: %w", fileErr)
	}
	r.logger.Infof("recording finalized")
	return nil
}

// Close stops any in-progress recording.
func (r *Recorder) Close() error {
	return r.Stop()
}
