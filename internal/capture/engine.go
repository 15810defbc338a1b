// SPDX-License-Identifier: MIT
package capture

import (
	"fmt"
	"math"
	"runtime"
	"sync/atomic"

	"github.com/gordonklaus/portaudio"

	"vumeter/internal/config"
	"vumeter/internal/log"
	"vumeter/internal/meta"
)

// Engine owns the PortAudio input stream and publishes level snapshots
// into the store. Construct with NewEngine, then StartInputStream; the
// callback runs until StopInputStream or Close.
type Engine struct {
	cfg    config.CaptureConfig
	rec    config.RecordingConfig
	store  *meta.Store
	logger *log.Logger

	stream       *portaudio.Stream
	streamActive bool
	streamDevice *portaudio.DeviceInfo
	sampleRate   float64
	channels     int

	// Hot-path buffers, allocated once.
	inputBuffer []int32
	monoInput   []int32
	analyzer    *Analyzer

	recorder    *Recorder
	isRecording atomic.Bool
}

// NewEngine validates the capture configuration and pre-allocates every
// buffer the stream callback touches. PortAudio must be initialized by
// the caller (see Initialize).
func NewEngine(cfg config.CaptureConfig, rec config.RecordingConfig, store *meta.Store, logger *log.Logger) (*Engine, error) {
	if store == nil {
		return nil, fmt.Errorf("store is required")
	}
	if logger == nil {
		logger = log.Discard()
	}
	logger = logger.Component("capture")

	if cfg.SampleRate <= 0 {
		cfg.SampleRate = config.DefaultSampleRate
	}
	if cfg.FramesPerBuffer <= 0 {
		cfg.FramesPerBuffer = config.DefaultFramesPerBuffer
	}
	if cfg.InputChannels <= 0 {
		cfg.InputChannels = 2
	}
	if cfg.Bands <= 0 {
		cfg.Bands = config.DefaultBands
	}

	winName := cfg.FFTWindow
	if winName == "" {
		winName = config.DefaultWindow
	}
	winFn, err := ParseWindowFunc(winName)
	if err != nil {
		logger.Warnf("%v, using Hann", err)
	}

	fftSize := nextPow2(cfg.FramesPerBuffer)
	analyzer, err := NewAnalyzer(fftSize, cfg.SampleRate, cfg.Bands, winFn, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create analyzer: %w", err)
	}

	e := &Engine{
		cfg:         cfg,
		rec:         rec,
		store:       store,
		logger:      logger,
		sampleRate:  cfg.SampleRate,
		channels:    cfg.InputChannels,
		inputBuffer: make([]int32, cfg.FramesPerBuffer*cfg.InputChannels),
		monoInput:   make([]int32, cfg.FramesPerBuffer),
		analyzer:    analyzer,
	}
	if rec.Enabled {
		e.recorder = NewRecorder(rec, int(cfg.SampleRate), cfg.InputChannels, logger)
	}
	return e, nil
}

func nextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// StartInputStream opens the configured input device and starts the
// capture callback.
func (e *Engine) StartInputStream() error {
	if e.streamActive {
		return fmt.Errorf("input stream already active")
	}

	device, err := InputDevice(e.cfg.InputDevice)
	if err != nil {
		return fmt.Errorf("failed to get input device: %w", err)
	}
	e.streamDevice = device

	latency := device.DefaultHighInputLatency
	if e.cfg.LowLatency {
		latency = device.DefaultLowInputLatency
	}
	params := portaudio.StreamParameters{
		Input: portaudio.StreamDeviceParameters{
			Device:   device,
			Channels: e.channels,
			Latency:  latency,
		},
		SampleRate:      e.sampleRate,
		FramesPerBuffer: e.cfg.FramesPerBuffer,
	}

	stream, err := portaudio.OpenStream(params, e.processInputStream)
	if err != nil {
		return fmt.Errorf("failed to open input stream: %w", err)
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		return fmt.Errorf("failed to start input stream: %w", err)
	}

	e.stream = stream
	e.streamActive = true
	e.logger.Infof("capturing %q at %.0f Hz, %d ch, %d frames/buffer",
		device.Name, e.sampleRate, e.channels, e.cfg.FramesPerBuffer)

	if e.recorder != nil {
		if err := e.recorder.Start(); err != nil {
			e.logger.Errorf("recording disabled: %v", err)
		} else {
			e.isRecording.Store(true)
		}
	}
	return nil
}

// StopInputStream stops and closes the capture stream.
func (e *Engine) StopInputStream() error {
	if !e.streamActive || e.stream == nil {
		return nil
	}
	e.streamActive = false

	if err := e.stream.Stop(); err != nil {
		e.logger.Errorf("error stopping stream: %v", err)
	}
	err := e.stream.Close()
	e.stream = nil

	if e.isRecording.Load() {
		e.isRecording.Store(false)
		if rerr := e.recorder.Stop(); rerr != nil {
			e.logger.Errorf("error finalizing recording: %v", rerr)
		}
	}
	return err
}

// Close stops the stream and releases the recorder.
func (e *Engine) Close() error {
	err := e.StopInputStream()
	if e.recorder != nil {
		if rerr := e.recorder.Close(); rerr != nil && err == nil {
			err = rerr
		}
	}
	return err
}

// processInputStream is the PortAudio callback. It must not allocate or
// block: it measures, analyzes, publishes, and returns.
func (e *Engine) processInputStream(in []int32) {
	runtime.LockOSThread()

	n := copy(e.inputBuffer, in)
	frames := n / e.channels

	if e.isRecording.Load() {
		if err := e.recorder.Write(e.inputBuffer[:n]); err != nil {
			e.isRecording.Store(false)
			e.logger.Errorf("recording stopped: %v", err)
		}
	}

	left, right := e.measureLevels(e.inputBuffer[:n], frames)
	bands := e.analyzer.Process(e.monoInput[:frames])

	snapshot := make([]float64, len(bands))
	copy(snapshot, bands)
	e.store.SetLevels(meta.Levels{Left: left, Right: right, Bands: snapshot})
}

// measureLevels computes the normalized per-channel peaks and fills
// monoInput with the averaged frames for the analyzer.
func (e *Engine) measureLevels(buf []int32, frames int) (left, right float64) {
	const norm = 1.0 / float64(0x80000000)
	var peakL, peakR int32
	if e.channels >= 2 {
		for i := 0; i < frames; i++ {
			l := buf[i*e.channels]
			r := buf[i*e.channels+1]
			if al := abs32(l); al > peakL {
				peakL = al
			}
			if ar := abs32(r); ar > peakR {
				peakR = ar
			}
			e.monoInput[i] = int32((int64(l) + int64(r)) / 2)
		}
	} else {
		for i := 0; i < frames; i++ {
			s := buf[i]
			if as := abs32(s); as > peakL {
				peakL = as
			}
			e.monoInput[i] = s
		}
		peakR = peakL
	}
	left = math.Min(float64(peakL)*norm, 1.0)
	right = math.Min(float64(peakR)*norm, 1.0)
	return left, right
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}
