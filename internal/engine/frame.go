// Package engine implements the audio-reactive background renderer: the five
// visual subsystems, mode selection, the frame tick and the scheduler that
// drives it, plus the performance monitor that feeds a downgraded
// configuration back to the host.
package engine

import (
	"github.com/tejashwikalptaru/aurora/internal/domain"
)

// FrameContext is the immutable input of one tick. The engine captures it once
// per frame and hands the same pointer to Update and Render; subsystems must not
// modify it or keep it past the call.
type FrameContext struct {
	Config  domain.BackgroundConfig
	Theme   domain.Theme
	Palette domain.Palette
	Section string

	Audio domain.AudioAnalysis

	// Frequency is the raw snapshot the analysis was computed from. Read only.
	Frequency []byte
	Playing   bool

	// Time is animation time in seconds, already scaled by AnimationSpeed.
	Time float64

	Width, Height float64

	// Frame counts rendered ticks since the engine started.
	Frame uint64
}

// AudioActive reports whether audio should modulate this frame.
func (fc *FrameContext) AudioActive() bool {
	return fc.Config.EnableAudioVisualization && fc.Playing
}

// BassSample maps element i of n proportionally into the bass band and returns
// that bin normalized to [0, 1]. It returns 0 when audio is inactive or the
// band is empty.
func (fc *FrameContext) BassSample(i, n int) float64 {
	if !fc.AudioActive() || n <= 0 {
		return 0
	}
	bassEnd, _ := BandBounds(len(fc.Frequency))
	if bassEnd == 0 {
		return 0
	}
	idx := int(float64(i) / float64(n) * float64(bassEnd))
	if idx >= bassEnd {
		idx = bassEnd - 1
	}
	if idx < 0 {
		idx = 0
	}
	return float64(fc.Frequency[idx]) / maxMagnitude
}
