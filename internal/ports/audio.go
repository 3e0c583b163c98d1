// Package ports define interfaces for dependency inversion.
// These interfaces keep the rendering engine independent of windowing, audio and storage frameworks.
package ports

// AudioSource supplies live frequency data to the engine.
// This abstracts the player/analyser pair and allows deterministic sources in tests.
//
// Implementations must be thread-safe: the engine polls from the frame loop while
// the source may be fed from a playback goroutine.
type AudioSource interface {
	// FrequencyData returns the most recent frequency-magnitude snapshot
	// (one byte per bin, 0-255) and whether audio is currently playing.
	//
	// The returned slice is owned by the caller. Sources that update less often
	// than the frame loop return their latest snapshot again; stale data is not an error.
	FrequencyData() (data []byte, playing bool)
}

// PlaybackControl is implemented by audio sources the host can start and stop.
type PlaybackControl interface {
	AudioSource

	// Play starts or resumes playback.
	Play() error

	// Pause suspends playback. FrequencyData reports playing=false afterward.
	Pause() error

	// Close releases all resources. The source must not be used afterward.
	Close() error
}
