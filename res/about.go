package res

// AboutContent contains the Markdown content for the About dialog.
const AboutContent = `An audio-reactive procedural background built with Go and Fyne.

**Modes:**
- Particles, neural network, hologram grid and matrix rain
- Adaptive mode follows the active page section
- Minimal gradient on slow devices

**Audio:** MP3, WAV, FLAC and Ogg Vorbis files, or the built-in generated beat.
`
