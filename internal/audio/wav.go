// Package audio wraps raw PCM samples in a playable WAV container.
package audio

import (
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"strings"
)

// HeaderSize is the length of the canonical RIFF/WAVE header.
const HeaderSize = 44

var ErrInvalidFormat = errors.New("audio: invalid format")

// Format describes linear PCM samples.
type Format struct {
	SampleRate    int
	Channels      int
	BitsPerSample int
}

// GeminiTTSFormat is what the speech model returns: 24 kHz mono 16-bit.
var GeminiTTSFormat = Format{SampleRate: 24000, Channels: 1, BitsPerSample: 16}

func (f Format) BlockAlign() int { return f.Channels * f.BitsPerSample / 8 }

func (f Format) ByteRate() int { return f.SampleRate * f.BlockAlign() }

// Validate checks the parameters fit the header fields.
func (f Format) Validate() error {
	switch f.BitsPerSample {
	case 8, 16, 24, 32:
	default:
		return fmt.Errorf("%w: bits per sample %d", ErrInvalidFormat, f.BitsPerSample)
	}
	if f.Channels <= 0 || f.Channels > math.MaxUint16 {
		return fmt.Errorf("%w: channels %d", ErrInvalidFormat, f.Channels)
	}
	if f.SampleRate <= 0 || int64(f.SampleRate) > math.MaxUint32 {
		return fmt.Errorf("%w: sample rate %d", ErrInvalidFormat, f.SampleRate)
	}
	if int64(f.BlockAlign()) > math.MaxUint16 || int64(f.SampleRate)*int64(f.BlockAlign()) > math.MaxUint32 {
		return fmt.Errorf("%w: byte rate overflow", ErrInvalidFormat)
	}
	return nil
}

// EncodeWAV returns a 44-byte PCM header followed by payload, unmodified.
// The output depends only on the payload and f.
func EncodeWAV(payload []byte, f Format) ([]byte, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	if int64(len(payload)) > math.MaxUint32-36 {
		return nil, fmt.Errorf("%w: payload too large (%d bytes)", ErrInvalidFormat, len(payload))
	}

	out := make([]byte, HeaderSize+len(payload))
	le := binary.LittleEndian

	copy(out[0:4], "RIFF")
	le.PutUint32(out[4:8], uint32(36+len(payload)))
	copy(out[8:12], "WAVE")
	copy(out[12:16], "fmt ")
	le.PutUint32(out[16:20], 16)
	le.PutUint16(out[20:22], 1)
	le.PutUint16(out[22:24], uint16(f.Channels))
	le.PutUint32(out[24:28], uint32(f.SampleRate))
	le.PutUint32(out[28:32], uint32(f.ByteRate()))
	le.PutUint16(out[32:34], uint16(f.BlockAlign()))
	le.PutUint16(out[34:36], uint16(f.BitsPerSample))
	copy(out[36:40], "data")
	le.PutUint32(out[40:44], uint32(len(payload)))
	copy(out[HeaderSize:], payload)

	return out, nil
}

// ParseHeader reads back the format and payload length of a container
// produced by EncodeWAV.
func ParseHeader(b []byte) (Format, int, error) {
	if len(b) < HeaderSize {
		return Format{}, 0, fmt.Errorf("%w: short header (%d bytes)", ErrInvalidFormat, len(b))
	}
	if string(b[0:4]) != "RIFF" || string(b[8:12]) != "WAVE" || string(b[12:16]) != "fmt " || string(b[36:40]) != "data" {
		return Format{}, 0, fmt.Errorf("%w: not a canonical PCM WAV", ErrInvalidFormat)
	}
	le := binary.LittleEndian
	if le.Uint16(b[20:22]) != 1 {
		return Format{}, 0, fmt.Errorf("%w: audio format %d is not PCM", ErrInvalidFormat, le.Uint16(b[20:22]))
	}

	f := Format{
		Channels:      int(le.Uint16(b[22:24])),
		SampleRate:    int(le.Uint32(b[24:28])),
		BitsPerSample: int(le.Uint16(b[34:36])),
	}
	n := int(le.Uint32(b[40:44]))
	if int(le.Uint32(b[4:8])) != 36+n {
		return Format{}, 0, fmt.Errorf("%w: chunk size mismatch", ErrInvalidFormat)
	}
	return f, n, nil
}

// DecodeBase64 decodes a standard base64 payload. Any decode failure
// yields an empty, non-nil slice so the caller can continue without audio.
func DecodeBase64(s string) []byte {
	b, err := base64.StdEncoding.DecodeString(strings.TrimSpace(s))
	if err != nil {
		return []byte{}
	}
	return b
}
