package file

import (
	"encoding/binary"
	"math"
	"math/cmplx"
	"sync"

	"gonum.org/v1/gonum/dsp/fourier"
)

// Analyser defaults. They follow the usual browser analyser node so levels
// look the same as in a web player.
const (
	DefaultFFTSize   = 2048
	DefaultMinDB     = -100.0
	DefaultMaxDB     = -30.0
	DefaultSmoothing = 0.8
)

// Analyser turns the most recent PCM samples into byte frequency magnitudes.
//
// Write is fed by the playback goroutine and FrequencyData is polled by the
// frame loop; both are safe to call concurrently.
type Analyser struct {
	mu sync.Mutex

	size      int
	minDB     float64
	maxDB     float64
	smoothing float64

	ring  []float64 // mono samples, circular
	head  int
	fill  int
	fft   *fourier.FFT
	input []float64
	coefs []complex128
	prev  []float64
}

// NewAnalyser creates an analyser with a power-of-two fftSize.
// Invalid sizes fall back to DefaultFFTSize.
func NewAnalyser(fftSize int) *Analyser {
	if fftSize < 32 || fftSize&(fftSize-1) != 0 {
		fftSize = DefaultFFTSize
	}
	return &Analyser{
		size:      fftSize,
		minDB:     DefaultMinDB,
		maxDB:     DefaultMaxDB,
		smoothing: DefaultSmoothing,
		ring:      make([]float64, fftSize),
		fft:       fourier.NewFFT(fftSize),
		input:     make([]float64, fftSize),
		coefs:     make([]complex128, fftSize/2+1),
		prev:      make([]float64, fftSize/2),
	}
}

// Bins returns the number of frequency bins, half the FFT size.
func (a *Analyser) Bins() int { return a.size / 2 }

// Write appends interleaved 16-bit little-endian stereo PCM. Partial frames
// at the end of p are ignored.
func (a *Analyser) Write(p []byte) (int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	for i := 0; i+4 <= len(p); i += 4 {
		left := float64(int16(binary.LittleEndian.Uint16(p[i:])))
		right := float64(int16(binary.LittleEndian.Uint16(p[i+2:])))
		a.push((left + right) / (2 * 32768))
	}
	return len(p), nil
}

// WriteSamples appends mono samples in [-1, 1].
func (a *Analyser) WriteSamples(samples []float64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, s := range samples {
		a.push(s)
	}
}

func (a *Analyser) push(s float64) {
	a.ring[a.head] = s
	a.head = (a.head + 1) % a.size
	if a.fill < a.size {
		a.fill++
	}
}

// Reset drops buffered samples and smoothing history.
func (a *Analyser) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	clear(a.ring)
	clear(a.prev)
	a.head, a.fill = 0, 0
}

// FrequencyData computes the spectrum of the last fftSize samples: Hann window,
// magnitude normalized by size, temporal smoothing, then decibels mapped from
// [minDB, maxDB] onto 0-255.
func (a *Analyser) FrequencyData() []byte {
	a.mu.Lock()
	defer a.mu.Unlock()

	// oldest sample first
	for i := 0; i < a.size; i++ {
		a.input[i] = a.ring[(a.head+i)%a.size]
	}
	hann(a.input)
	a.fft.Coefficients(a.coefs, a.input)

	out := make([]byte, a.size/2)
	span := a.maxDB - a.minDB
	for k := range out {
		mag := cmplx.Abs(a.coefs[k]) / float64(a.size)
		mag = a.smoothing*a.prev[k] + (1-a.smoothing)*mag
		a.prev[k] = mag

		db := a.minDB
		if mag > 0 {
			db = 20 * math.Log10(mag)
		}
		scaled := 255 * (db - a.minDB) / span
		switch {
		case scaled <= 0:
			out[k] = 0
		case scaled >= 255:
			out[k] = 255
		default:
			out[k] = byte(scaled)
		}
	}
	return out
}

// hann applies a Hann window in place.
func hann(buf []float64) {
	size := float64(len(buf))
	for n := range buf {
		buf[n] *= 0.5 - 0.5*math.Cos(2*math.Pi*float64(n)/size)
	}
}
