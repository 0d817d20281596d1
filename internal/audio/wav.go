package audio

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// ErrInvalidWAV is returned when request audio cannot be decoded as WAV.
var ErrInvalidWAV = errors.New("invalid WAV data")

// DecodeWAV decodes PCM WAV data into a Buffer, deinterleaving channels and
// normalizing samples by the source bit depth.
func DecodeWAV(data []byte) (Buffer, error) {
	dec := wav.NewDecoder(bytes.NewReader(data))
	if !dec.IsValidFile() {
		return Buffer{}, ErrInvalidWAV
	}

	pcm, err := dec.FullPCMBuffer()
	if err != nil {
		return Buffer{}, fmt.Errorf("%w: %v", ErrInvalidWAV, err)
	}
	if pcm.Format == nil || pcm.Format.NumChannels <= 0 {
		return Buffer{}, fmt.Errorf("%w: missing format", ErrInvalidWAV)
	}

	channels := pcm.Format.NumChannels
	frames := len(pcm.Data) / channels
	scale := math.Pow(2, float64(dec.BitDepth)-1)

	buf := Buffer{
		Samples:    make([][]float64, channels),
		SampleRate: pcm.Format.SampleRate,
	}
	for ch := range buf.Samples {
		buf.Samples[ch] = make([]float64, frames)
	}
	for i := 0; i < frames; i++ {
		for ch := 0; ch < channels; ch++ {
			buf.Samples[ch][i] = float64(pcm.Data[i*channels+ch]) / scale
		}
	}

	return buf, nil
}

// EncodeWAV encodes a Buffer as 16-bit PCM WAV, interleaving channels.
// Samples outside [-1, 1] are clipped.
func EncodeWAV(buf Buffer) ([]byte, error) {
	if buf.SampleRate <= 0 {
		return nil, fmt.Errorf("%w: sample rate must be positive, got %d", ErrInvalidInput, buf.SampleRate)
	}
	if len(buf.Samples) == 0 {
		return nil, fmt.Errorf("%w: no channels", ErrInvalidInput)
	}

	channels := len(buf.Samples)
	frames := buf.FrameCount()

	data := make([]int, 0, frames*channels)
	for i := 0; i < frames; i++ {
		for ch := 0; ch < channels; ch++ {
			v := buf.Samples[ch][i]
			if v > 1 {
				v = 1
			} else if v < -1 {
				v = -1
			}
			data = append(data, int(math.Round(v*32767)))
		}
	}

	var out seekBuffer
	enc := wav.NewEncoder(&out, buf.SampleRate, 16, channels, 1)
	pcm := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: channels, SampleRate: buf.SampleRate},
		Data:           data,
		SourceBitDepth: 16,
	}
	if err := enc.Write(pcm); err != nil {
		return nil, fmt.Errorf("encode wav: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("finalize wav: %w", err)
	}

	return out.Bytes(), nil
}

// seekBuffer is an in-memory io.WriteSeeker. The wav encoder needs to seek
// back and patch the RIFF header sizes on Close.
type seekBuffer struct {
	buf []byte
	pos int
}

func (b *seekBuffer) Write(p []byte) (int, error) {
	if need := b.pos + len(p); need > len(b.buf) {
		grown := make([]byte, need)
		copy(grown, b.buf)
		b.buf = grown
	}
	copy(b.buf[b.pos:], p)
	b.pos += len(p)
	return len(p), nil
}

func (b *seekBuffer) Seek(offset int64, whence int) (int64, error) {
	var abs int64
	switch whence {
	case io.SeekStart:
		abs = offset
	case io.SeekCurrent:
		abs = int64(b.pos) + offset
	case io.SeekEnd:
		abs = int64(len(b.buf)) + offset
	default:
		return 0, errors.New("seek: invalid whence")
	}
	if abs < 0 {
		return 0, errors.New("seek: negative position")
	}
	b.pos = int(abs)
	return abs, nil
}

func (b *seekBuffer) Bytes() []byte {
	return b.buf
}
