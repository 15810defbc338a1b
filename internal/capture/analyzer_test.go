// SPDX-License-Identifier: MIT
package capture

import (
	"math"
	"testing"

	"vumeter/internal/log"
)

func TestParseWindowFunc(t *testing.T) {
	tests := []struct {
		name    string
		want    WindowFunc
		wantErr bool
	}{
		{"Hann", Hann, false},
		{"hann", Hann, false},
		{"hanning", Hann, false},
		{"Hamming", Hamming, false},
		{"Blackman", Blackman, false},
		{"BlackmanNuttall", BlackmanNuttall, false},
		{"BartlettHann", BartlettHann, false},
		{"Lanczos", Lanczos, false},
		{"Nuttall", Nuttall, false},
		{"bogus", Hann, true},
		{"", Hann, true},
	}
	for _, tt := range tests {
		got, err := ParseWindowFunc(tt.name)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseWindowFunc(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseWindowFunc(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestNewAnalyzerRejectsBadSizes(t *testing.T) {
	if _, err := NewAnalyzer(1000, 44100, 16, Hann, log.Discard()); err == nil {
		t.Error("non power-of-2 size accepted")
	}
	if _, err := NewAnalyzer(1024, 0, 16, Hann, log.Discard()); err == nil {
		t.Error("zero sample rate accepted")
	}
	if _, err := NewAnalyzer(1024, 44100, 0, Hann, log.Discard()); err == nil {
		t.Error("zero band count accepted")
	}
}

func TestAnalyzerSilenceIsSilent(t *testing.T) {
	a, err := NewAnalyzer(1024, 44100, 16, Hann, log.Discard())
	if err != nil {
		t.Fatal(err)
	}
	bands := a.Process(make([]int32, 1024))
	for i, v := range bands {
		if v != 0 {
			t.Errorf("band %d = %f for silent input", i, v)
		}
	}
}

func TestAnalyzerToneLandsInOneRegion(t *testing.T) {
	const (
		fftSize    = 4096
		sampleRate = 44100.0
		freq       = 1000.0
		bandCount  = 24
	)
	a, err := NewAnalyzer(fftSize, sampleRate, bandCount, Hann, log.Discard())
	if err != nil {
		t.Fatal(err)
	}

	in := make([]int32, fftSize)
	for i := range in {
		in[i] = int32(0.5 * float64(1<<31-1) * math.Sin(2*math.Pi*freq*float64(i)/sampleRate))
	}
	bands := a.Process(in)

	peak, peakIdx := 0.0, -1
	for i, v := range bands {
		if v > peak {
			peak, peakIdx = v, i
		}
	}
	if peakIdx < 0 {
		t.Fatal("tone produced no energy")
	}

	// The peak band must cover 1 kHz on the 20 Hz..Nyquist log axis:
	// band = count * ln(f/20) / ln(nyquist/20).
	wantIdx := int(float64(bandCount) * math.Log(freq/20) / math.Log(sampleRate/2/20))
	if d := peakIdx - wantIdx; d < -1 || d > 1 {
		t.Errorf("peak band = %d, want %d +/- 1", peakIdx, wantIdx)
	}
	for i, v := range bands {
		if v < 0 || v > 1 {
			t.Errorf("band %d = %f out of range", i, v)
		}
	}
}

func TestAnalyzerReusesOutputSlice(t *testing.T) {
	a, err := NewAnalyzer(256, 44100, 8, Hann, log.Discard())
	if err != nil {
		t.Fatal(err)
	}
	first := a.Process(make([]int32, 256))
	second := a.Process(make([]int32, 256))
	if &first[0] != &second[0] {
		t.Error("Process allocated a new slice")
	}
	if a.Bands() != 8 {
		t.Errorf("Bands() = %d", a.Bands())
	}
}

func BenchmarkAnalyzerProcess(b *testing.B) {
	a, err := NewAnalyzer(1024, 44100, 32, Hann, log.Discard())
	if err != nil {
		b.Fatal(err)
	}
	in := make([]int32, 1024)
	for i := range in {
		in[i] = int32(i * 1000003)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		a.Process(in)
	}
}

func TestLogSpacedBandsCoverEveryBand(t *testing.T) {
	ranges := logSpacedBands(32, 2048, 44100, 1025)
	for i, r := range ranges {
		if r[1] <= r[0] {
			t.Errorf("band %d range %v is empty", i, r)
		}
		if r[1] > 1025 {
			t.Errorf("band %d range %v exceeds the spectrum", i, r)
		}
	}
	// Monotonic start bins.
	for i := 1; i < len(ranges); i++ {
		if ranges[i][0] < ranges[i-1][0] {
			t.Errorf("band %d starts before band %d", i, i-1)
		}
	}
}
