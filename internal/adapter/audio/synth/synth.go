// Package synth provides a generated audio source. It produces a plausible
// frequency spectrum (kick drum, mid swell, hi-hat) without any audio device,
// for demos, headless rendering and tests.
package synth

import (
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/tejashwikalptaru/aurora/internal/domain"
	"github.com/tejashwikalptaru/aurora/internal/ports"
)

const (
	// DefaultBins matches the analyser output of a 2048-point FFT.
	DefaultBins = 1024

	// DefaultBPM is the kick tempo.
	DefaultBPM = 120.0

	kickDecay   = 9.0  // per second
	hatDecay    = 28.0 // per second
	noiseAmount = 0.08
)

// Options configure a Source.
type Options struct {
	Bins int
	BPM  float64
	Seed int64

	// Now is the clock. Tests pass a fake one; nil uses time.Now.
	Now func() time.Time
}

// Source implements ports.PlaybackControl with a synthetic spectrum.
type Source struct {
	bins int
	beat time.Duration
	now  func() time.Time

	mu      sync.Mutex
	rng     *rand.Rand
	playing bool
	closed  bool

	// elapsed is playback time accumulated before the last Play
	elapsed time.Duration
	started time.Time
}

// New creates a paused source.
func New(opts Options) *Source {
	if opts.Bins <= 0 {
		opts.Bins = DefaultBins
	}
	if opts.BPM <= 0 {
		opts.BPM = DefaultBPM
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Source{
		bins: opts.Bins,
		beat: time.Duration(float64(time.Minute) / opts.BPM),
		now:  opts.Now,
		rng:  rand.New(rand.NewSource(opts.Seed)), // nolint:gosec // G404 - weak random is fine for visual effects
	}
}

// Play starts or resumes the generator.
func (s *Source) Play() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return domain.ErrClosed
	}
	if !s.playing {
		s.playing = true
		s.started = s.now()
	}
	return nil
}

// Pause stops the generator, keeping its position.
func (s *Source) Pause() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return domain.ErrClosed
	}
	if s.playing {
		s.elapsed += s.now().Sub(s.started)
		s.playing = false
	}
	return nil
}

// Close stops the generator for good. Closing twice is a no-op.
func (s *Source) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.playing = false
	s.closed = true
	return nil
}

// Playing reports whether the generator is running.
func (s *Source) Playing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.playing
}

// Position returns the playback time.
func (s *Source) Position() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.positionLocked()
}

func (s *Source) positionLocked() time.Duration {
	if !s.playing {
		return s.elapsed
	}
	return s.elapsed + s.now().Sub(s.started)
}

// FrequencyData implements ports.AudioSource. While paused it returns an
// all-zero spectrum.
func (s *Source) FrequencyData() ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data := make([]byte, s.bins)
	if !s.playing {
		return data, false
	}

	pos := s.positionLocked()
	s.fill(data, pos)
	return data, true
}

// fill writes the spectrum at playback position pos. Bins below 10% carry the
// kick, 10-50% the mid swell, the rest the hi-hat on the off-beats.
func (s *Source) fill(data []byte, pos time.Duration) {
	t := pos.Seconds()
	sinceBeat := (pos % s.beat).Seconds()
	sinceHat := ((pos + s.beat/2) % s.beat).Seconds()

	kick := math.Exp(-sinceBeat * kickDecay)
	swell := 0.35 + 0.25*math.Sin(t*0.9) + 0.1*math.Sin(t*2.3+0.5)
	hat := 0.6 * math.Exp(-sinceHat*hatDecay)

	n := len(data)
	bassEnd := max(1, n/10)
	midEnd := max(bassEnd+1, n/2)

	for i := range data {
		var level float64
		switch {
		case i < bassEnd:
			// low bins ring hardest
			level = kick * (1 - 0.4*float64(i)/float64(bassEnd))
		case i < midEnd:
			level = swell * (1 - 0.3*float64(i-bassEnd)/float64(midEnd-bassEnd))
		default:
			level = hat*(1-0.5*float64(i-midEnd)/float64(n-midEnd)) + 0.05
		}
		level += (s.rng.Float64() - 0.5) * noiseAmount // nolint:gosec // G404 - weak random is fine for visual effects
		data[i] = toByte(level)
	}
}

func toByte(v float64) byte {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return byte(v*255 + 0.5)
}

var _ ports.PlaybackControl = (*Source)(nil)
