// SPDX-License-Identifier: MIT
/*
Package capture feeds the meter. It captures audio input through
PortAudio, measures per-channel levels, reduces an FFT to the skin's
spectrum bands and publishes the result as level snapshots. It can also
mirror the captured input to a WAV file.

Thread safety: the PortAudio callback runs on its own OS thread and works
exclusively on pre-allocated buffers; the only cross-thread handoff is
the atomic snapshot publish into the store.
*/
package capture

import (
	"fmt"
	"math"
	"math/cmplx"
	"strings"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/dsp/window"

	"vumeter/internal/log"
)

// WindowFunc selects the FFT window applied before analysis.
type WindowFunc int

const (
	BartlettHann WindowFunc = iota
	Blackman
	BlackmanNuttall
	Hann
	Hamming
	Lanczos
	Nuttall
)

// ParseWindowFunc converts a name (case-insensitive) to a WindowFunc,
// falling back to Hann with an error for unknown names.
func ParseWindowFunc(name string) (WindowFunc, error) {
	switch strings.ToLower(name) {
	case "bartletthann":
		return BartlettHann, nil
	case "blackman":
		return Blackman, nil
	case "blackmannuttall":
		return BlackmanNuttall, nil
	case "hann", "hanning":
		return Hann, nil
	case "hamming":
		return Hamming, nil
	case "lanczos":
		return Lanczos, nil
	case "nuttall":
		return Nuttall, nil
	default:
		return Hann, fmt.Errorf("unknown FFT window function name: %q", name)
	}
}

func applyWindow(coeffs []float64, windowType WindowFunc) {
	for i := range coeffs {
		coeffs[i] = 1.0
	}
	switch windowType {
	case BartlettHann:
		window.BartlettHann(coeffs)
	case Blackman:
		window.Blackman(coeffs)
	case BlackmanNuttall:
		window.BlackmanNuttall(coeffs)
	case Hamming:
		window.Hamming(coeffs)
	case Lanczos:
		window.Lanczos(coeffs)
	case Nuttall:
		window.Nuttall(coeffs)
	default:
		window.Hann(coeffs)
	}
}

// Analyzer turns mono int32 sample frames into normalized spectrum bands.
// All buffers are pre-allocated; Process does not allocate.
type Analyzer struct {
	logger *log.Logger

	fft        *fourier.FFT
	fftSize    int
	sampleRate float64

	input  []float64
	coeffs []complex128
	mag    []float64
	win    []float64

	bands    []float64
	bandBins [][2]int // half-open magnitude bin range per band
}

// NewAnalyzer builds an analyzer producing bandCount log-spaced bands
// from 20 Hz to Nyquist. fftSize must be a power of two.
func NewAnalyzer(fftSize int, sampleRate float64, bandCount int, windowType WindowFunc, logger *log.Logger) (*Analyzer, error) {
	if logger == nil {
		logger = log.Discard()
	}
	if fftSize <= 0 || fftSize&(fftSize-1) != 0 {
		return nil, fmt.Errorf("fft size must be a power of 2, got %d", fftSize)
	}
	if sampleRate <= 0 {
		return nil, fmt.Errorf("sample rate must be positive, got %f", sampleRate)
	}
	if bandCount <= 0 {
		return nil, fmt.Errorf("band count must be positive, got %d", bandCount)
	}

	win := make([]float64, fftSize)
	applyWindow(win, windowType)
	magSize := fftSize/2 + 1

	a := &Analyzer{
		logger:     logger.Component("analyzer"),
		fft:        fourier.NewFFT(fftSize),
		fftSize:    fftSize,
		sampleRate: sampleRate,
		input:      make([]float64, fftSize),
		coeffs:     make([]complex128, magSize),
		mag:        make([]float64, magSize),
		win:        win,
		bands:      make([]float64, bandCount),
		bandBins:   logSpacedBands(bandCount, fftSize, sampleRate, magSize),
	}
	a.logger.Debugf("fft size=%d rate=%.0f bands=%d", fftSize, sampleRate, bandCount)
	return a, nil
}

// logSpacedBands maps band indices to FFT bin ranges on a log frequency
// axis from 20 Hz to Nyquist. Every band covers at least one bin.
func logSpacedBands(bandCount, fftSize int, sampleRate float64, magSize int) [][2]int {
	const loHz = 20.0
	hiHz := sampleRate / 2
	binHz := sampleRate / float64(fftSize)
	ranges := make([][2]int, bandCount)
	for b := 0; b < bandCount; b++ {
		f0 := loHz * math.Pow(hiHz/loHz, float64(b)/float64(bandCount))
		f1 := loHz * math.Pow(hiHz/loHz, float64(b+1)/float64(bandCount))
		lo := int(f0 / binHz)
		hi := int(f1 / binHz)
		if hi <= lo {
			hi = lo + 1
		}
		if lo >= magSize {
			lo = magSize - 1
		}
		if hi > magSize {
			hi = magSize
		}
		ranges[b] = [2]int{lo, hi}
	}
	return ranges
}

// Process windows the input, runs the FFT and reduces the magnitudes to
// bands. The returned slice is reused between calls; callers that keep
// it must copy.
func (a *Analyzer) Process(in []int32) []float64 {
	const norm = 1.0 / float64(0x80000000)
	n := len(in)
	for i := 0; i < a.fftSize; i++ {
		if i < n {
			a.input[i] = float64(in[i]) * norm * a.win[i]
		} else {
			a.input[i] = 0
		}
	}
	a.fft.Coefficients(a.coeffs, a.input)
	for i, c := range a.coeffs {
		a.mag[i] = cmplx.Abs(c)
	}

	for b, r := range a.bandBins {
		var energy float64
		for i := r[0]; i < r[1]; i++ {
			energy += a.mag[i] * a.mag[i]
		}
		avg := energy / float64(r[1]-r[0])
		v := math.Sqrt(avg) * bandScale
		if v > 1 {
			v = 1
		}
		a.bands[b] = v
	}
	return a.bands
}

// bandScale maps typical program material into the visible 0..1 range.
const bandScale = 50.0

// Bands returns the band count.
func (a *Analyzer) Bands() int { return len(a.bands) }
