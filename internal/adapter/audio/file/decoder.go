// Package file plays audio files and exposes their live spectrum as a
// ports.AudioSource. Decoding is done in pure Go for mp3, wav, flac and ogg.
package file

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"
	"github.com/jfreymuth/oggvorbis"
	"github.com/mewkiz/flac"

	"github.com/tejashwikalptaru/aurora/internal/domain"
)

// SupportedExtensions lists the file extensions Open accepts.
var SupportedExtensions = []string{".mp3", ".wav", ".flac", ".ogg"}

// pcmStream yields interleaved 16-bit little-endian stereo PCM.
type pcmStream interface {
	io.Reader
	SampleRate() int
}

// IsSupported reports whether path has a decodable extension.
func IsSupported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range SupportedExtensions {
		if e == ext {
			return true
		}
	}
	return false
}

// openStream picks a decoder by extension.
func openStream(f *os.File) (pcmStream, error) {
	ext := strings.ToLower(filepath.Ext(f.Name()))
	switch ext {
	case ".mp3":
		dec, err := mp3.NewDecoder(f)
		if err != nil {
			return nil, err
		}
		return &mp3Stream{dec: dec}, nil
	case ".wav":
		return newWAVStream(f)
	case ".flac":
		return newFLACStream(f)
	case ".ogg":
		return newOGGStream(f)
	default:
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedFormat, ext)
	}
}

// go-mp3 already decodes to 16-bit stereo.
type mp3Stream struct {
	dec *mp3.Decoder
}

func (s *mp3Stream) Read(p []byte) (int, error) { return s.dec.Read(p) }
func (s *mp3Stream) SampleRate() int            { return s.dec.SampleRate() }

// frameWriter buffers converted frames between Read calls.
type frameWriter struct {
	pending []byte
}

func (w *frameWriter) drain(p []byte) int {
	n := copy(p, w.pending)
	w.pending = w.pending[n:]
	return n
}

// putStereo appends one stereo frame, duplicating mono input.
func (w *frameWriter) putStereo(left, right int16) {
	var frame [4]byte
	binary.LittleEndian.PutUint16(frame[0:], uint16(left))
	binary.LittleEndian.PutUint16(frame[2:], uint16(right))
	w.pending = append(w.pending, frame[:]...)
}

// scaleTo16 shifts a sample of the given bit depth to 16 bits.
func scaleTo16(sample, bits int) int16 {
	switch {
	case bits > 16:
		sample >>= bits - 16
	case bits < 16 && bits > 0:
		sample <<= 16 - bits
	}
	if sample > 32767 {
		sample = 32767
	} else if sample < -32768 {
		sample = -32768
	}
	return int16(sample)
}

type wavStream struct {
	frameWriter
	dec      *wav.Decoder
	buf      *audio.IntBuffer
	channels int
	bits     int
	rate     int
	eof      bool
}

func newWAVStream(f *os.File) (*wavStream, error) {
	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, errors.New("invalid WAV file")
	}
	if err := dec.FwdToPCM(); err != nil {
		return nil, fmt.Errorf("reading WAV PCM data: %w", err)
	}

	channels := int(dec.NumChans)
	if channels < 1 || channels > 2 {
		return nil, fmt.Errorf("%w: %d channels", domain.ErrUnsupportedFormat, channels)
	}

	return &wavStream{
		dec:      dec,
		buf:      &audio.IntBuffer{Data: make([]int, 4096*channels), Format: dec.Format()},
		channels: channels,
		bits:     int(dec.BitDepth),
		rate:     int(dec.SampleRate),
	}, nil
}

func (s *wavStream) Read(p []byte) (int, error) {
	for len(s.pending) == 0 {
		if s.eof {
			return 0, io.EOF
		}
		n, err := s.dec.PCMBuffer(s.buf)
		if n > 0 {
			s.convert(s.buf.Data[:n])
		}
		switch {
		case errors.Is(err, io.EOF) || (err == nil && n == 0):
			s.eof = true
		case err != nil:
			return 0, err
		}
	}
	return s.drain(p), nil
}

func (s *wavStream) convert(samples []int) {
	for i := 0; i+s.channels <= len(samples); i += s.channels {
		var left, right int16
		if s.bits == 8 {
			// 8-bit WAV is unsigned
			left = scaleTo16(samples[i]-128, 8)
		} else {
			left = scaleTo16(samples[i], s.bits)
		}
		right = left
		if s.channels == 2 {
			if s.bits == 8 {
				right = scaleTo16(samples[i+1]-128, 8)
			} else {
				right = scaleTo16(samples[i+1], s.bits)
			}
		}
		s.putStereo(left, right)
	}
}

func (s *wavStream) SampleRate() int { return s.rate }

type flacStream struct {
	frameWriter
	stream *flac.Stream
	bits   int
}

func newFLACStream(f *os.File) (*flacStream, error) {
	stream, err := flac.New(f)
	if err != nil {
		return nil, fmt.Errorf("decoding FLAC: %w", err)
	}
	if n := stream.Info.NChannels; n < 1 || n > 2 {
		return nil, fmt.Errorf("%w: %d channels", domain.ErrUnsupportedFormat, n)
	}
	return &flacStream{stream: stream, bits: int(stream.Info.BitsPerSample)}, nil
}

func (s *flacStream) Read(p []byte) (int, error) {
	for len(s.pending) == 0 {
		frame, err := s.stream.ParseNext()
		if err != nil {
			return 0, err
		}
		subs := frame.Subframes
		for i := 0; i < int(subs[0].NSamples); i++ {
			left := scaleTo16(int(subs[0].Samples[i]), s.bits)
			right := left
			if len(subs) > 1 {
				right = scaleTo16(int(subs[1].Samples[i]), s.bits)
			}
			s.putStereo(left, right)
		}
	}
	return s.drain(p), nil
}

func (s *flacStream) SampleRate() int { return int(s.stream.Info.SampleRate) }

type oggStream struct {
	frameWriter
	reader  *oggvorbis.Reader
	samples []float32
}

func newOGGStream(f *os.File) (*oggStream, error) {
	reader, err := oggvorbis.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("decoding OGG: %w", err)
	}
	if n := reader.Channels(); n < 1 || n > 2 {
		return nil, fmt.Errorf("%w: %d channels", domain.ErrUnsupportedFormat, n)
	}
	return &oggStream{reader: reader, samples: make([]float32, 4096)}, nil
}

func (s *oggStream) Read(p []byte) (int, error) {
	channels := s.reader.Channels()
	for len(s.pending) == 0 {
		n, err := s.reader.Read(s.samples)
		if n == 0 {
			if err == nil {
				err = io.EOF
			}
			return 0, err
		}
		for i := 0; i+channels <= n; i += channels {
			left := floatTo16(s.samples[i])
			right := left
			if channels == 2 {
				right = floatTo16(s.samples[i+1])
			}
			s.putStereo(left, right)
		}
	}
	return s.drain(p), nil
}

func (s *oggStream) SampleRate() int { return s.reader.SampleRate() }

func floatTo16(v float32) int16 {
	if v > 1 {
		v = 1
	} else if v < -1 {
		v = -1
	}
	return int16(v * 32767)
}
