package engine

import (
	"github.com/charmbracelet/harmonica"

	"github.com/tejashwikalptaru/aurora/internal/domain"
)

const (
	// bassFraction and midFraction split a spectrum by index: [0, 10%) is bass,
	// [10%, 50%) mid and the rest treble.
	bassFraction = 0.1
	midFraction  = 0.5

	maxMagnitude = 255.0
)

// BandBounds returns the exclusive end indices of the bass and mid bands for a
// spectrum of n bins.
func BandBounds(n int) (bassEnd, midEnd int) {
	if n <= 0 {
		return 0, 0
	}
	return int(float64(n) * bassFraction), int(float64(n) * midFraction)
}

// Analyze decomposes a frequency snapshot into normalized band levels.
// A stopped source or an empty snapshot is silence.
func Analyze(data []byte, playing bool) domain.AudioAnalysis {
	if !playing || len(data) == 0 {
		return domain.AudioAnalysis{}
	}

	bassEnd, midEnd := BandBounds(len(data))

	var total, peak int
	for _, v := range data {
		total += int(v)
		if int(v) > peak {
			peak = int(v)
		}
	}

	return domain.AudioAnalysis{
		BassLevel:    bandAverage(data[:bassEnd]),
		MidLevel:     bandAverage(data[bassEnd:midEnd]),
		TrebleLevel:  bandAverage(data[midEnd:]),
		AverageLevel: float64(total) / float64(len(data)) / maxMagnitude,
		PeakLevel:    float64(peak) / maxMagnitude,
	}
}

func bandAverage(band []byte) float64 {
	if len(band) == 0 {
		return 0
	}
	var sum int
	for _, v := range band {
		sum += int(v)
	}
	return float64(sum) / float64(len(band)) / maxMagnitude
}

// Smoother eases analysis levels toward each new snapshot with a damped spring
// per level. It trades a few frames of latency for less flicker.
//
// A Smoother is not safe for concurrent use; the engine calls it from the tick.
type Smoother struct {
	spring harmonica.Spring
	pos    [5]float64
	vel    [5]float64
}

// NewSmoother creates a smoother stepping at fps. Angular frequency controls
// how fast levels follow; damping of 1 is critically damped.
func NewSmoother(fps int, frequency, damping float64) *Smoother {
	if fps <= 0 {
		fps = 60
	}
	return &Smoother{
		spring: harmonica.NewSpring(harmonica.FPS(fps), frequency, damping),
	}
}

// Apply advances every spring one step toward a and returns the eased levels,
// clamped to [0, 1].
func (s *Smoother) Apply(a domain.AudioAnalysis) domain.AudioAnalysis {
	targets := [5]float64{a.BassLevel, a.MidLevel, a.TrebleLevel, a.AverageLevel, a.PeakLevel}
	for i, target := range targets {
		s.pos[i], s.vel[i] = s.spring.Update(s.pos[i], s.vel[i], target)
		s.pos[i] = clamp01(s.pos[i])
	}
	return domain.AudioAnalysis{
		BassLevel:    s.pos[0],
		MidLevel:     s.pos[1],
		TrebleLevel:  s.pos[2],
		AverageLevel: s.pos[3],
		PeakLevel:    s.pos[4],
	}
}

// Reset drops the spring state so the next Apply starts from silence.
func (s *Smoother) Reset() {
	s.pos = [5]float64{}
	s.vel = [5]float64{}
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
