package file

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/dhowden/tag"
	"github.com/ebitengine/oto/v3"

	"github.com/tejashwikalptaru/aurora/internal/domain"
	"github.com/tejashwikalptaru/aurora/internal/ports"
)

const (
	channelCount = 2
)

// The oto context is process-wide and fixed to the rate of the first file.
var (
	otoCtx     *oto.Context
	otoRate    int
	otoOnce    sync.Once
	otoInitErr error
)

func initOto(sampleRate int) (*oto.Context, error) {
	otoOnce.Do(func() {
		op := &oto.NewContextOptions{
			SampleRate:   sampleRate,
			ChannelCount: channelCount,
			Format:       oto.FormatSignedInt16LE,
		}
		var ready chan struct{}
		otoCtx, ready, otoInitErr = oto.NewContext(op)
		if otoInitErr == nil {
			<-ready
			otoRate = sampleRate
		}
	})
	if otoInitErr != nil {
		return nil, otoInitErr
	}
	if sampleRate != otoRate {
		return nil, fmt.Errorf("%w: sample rate %d Hz, output runs at %d Hz",
			domain.ErrUnsupportedFormat, sampleRate, otoRate)
	}
	return otoCtx, nil
}

// TrackInfo describes the file being played.
type TrackInfo struct {
	Path       string
	Title      string
	Artist     string
	Album      string
	SampleRate int
}

// Player plays one audio file and analyses what it plays.
type Player struct {
	logger   *slog.Logger
	file     *os.File
	analyser *Analyser
	player   *oto.Player
	info     TrackInfo

	done     chan struct{}
	doneOnce sync.Once

	mu     sync.Mutex
	closed bool
}

// Open decodes path and prepares it for playback. Playback starts with Play.
func Open(path string, logger *slog.Logger) (*Player, error) {
	if !IsSupported(path) {
		return nil, domain.NewAudioSourceError("open", path, "unsupported file type", domain.ErrUnsupportedFormat)
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, domain.NewAudioSourceError("open", path, "file not found", domain.ErrFileNotFound)
		}
		return nil, domain.NewAudioSourceError("open", path, err.Error(), err)
	}

	stream, err := openStream(f)
	if err != nil {
		_ = f.Close()
		return nil, domain.NewAudioSourceError("decode", path, err.Error(), err)
	}

	ctx, err := initOto(stream.SampleRate())
	if err != nil {
		_ = f.Close()
		return nil, domain.NewAudioSourceError("play", path, err.Error(), err)
	}

	info := readTrackInfo(path)
	info.SampleRate = stream.SampleRate()

	p := &Player{
		logger:   logger,
		file:     f,
		analyser: NewAnalyser(DefaultFFTSize),
		info:     info,
		done:     make(chan struct{}),
	}
	p.player = ctx.NewPlayer(&tapReader{src: stream, tap: p.analyser, onEOF: p.finish})

	logger.Info("audio file opened",
		slog.String("path", path),
		slog.String("title", info.Title),
		slog.Int("sample_rate", info.SampleRate))

	return p, nil
}

// tapReader copies everything handed to the output into the analyser.
// The analyser therefore runs slightly ahead of the speaker by the output buffer.
type tapReader struct {
	src   io.Reader
	tap   io.Writer
	onEOF func()
}

func (r *tapReader) Read(p []byte) (int, error) {
	n, err := r.src.Read(p)
	if n > 0 {
		_, _ = r.tap.Write(p[:n])
	}
	if errors.Is(err, io.EOF) {
		r.onEOF()
	}
	return n, err
}

func (p *Player) finish() {
	p.doneOnce.Do(func() { close(p.done) })
}

// Info returns the track metadata.
func (p *Player) Info() TrackInfo { return p.info }

// Done is closed when the decoder reaches the end of the file.
func (p *Player) Done() <-chan struct{} { return p.done }

// Play starts or resumes playback.
func (p *Player) Play() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return domain.ErrClosed
	}
	p.player.Play()
	return nil
}

// Pause suspends playback.
func (p *Player) Pause() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return domain.ErrClosed
	}
	p.player.Pause()
	return nil
}

// FrequencyData implements ports.AudioSource.
func (p *Player) FrequencyData() ([]byte, bool) {
	p.mu.Lock()
	playing := !p.closed && p.player.IsPlaying()
	p.mu.Unlock()

	return p.analyser.FrequencyData(), playing
}

// Close stops playback and releases the file.
func (p *Player) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	p.finish()

	var errs []error
	if err := p.player.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := p.file.Close(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		p.logger.Warn("audio player close failed", slog.Any("error", errors.Join(errs...)))
	}
	return errors.Join(errs...)
}

// readTrackInfo reads tags when the container has them; the file name is
// the fallback title.
func readTrackInfo(path string) TrackInfo {
	info := TrackInfo{
		Path:  path,
		Title: strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
	}

	f, err := os.Open(path)
	if err != nil {
		return info
	}
	defer f.Close()

	metadata, err := tag.ReadFrom(f)
	if err != nil || metadata == nil {
		return info
	}

	if title := strings.TrimSpace(metadata.Title()); title != "" {
		info.Title = title
	}
	info.Artist = strings.TrimSpace(metadata.Artist())
	info.Album = strings.TrimSpace(metadata.Album())
	return info
}

var _ ports.PlaybackControl = (*Player)(nil)
