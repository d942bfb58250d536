package audio

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestEncodeWAVEmptyTTSPayload(t *testing.T) {
	t.Parallel()

	out, err := EncodeWAV(nil, GeminiTTSFormat)
	require.NoError(t, err)

	require.Len(t, out, 44)
	require.Equal(t, "RIFF", string(out[0:4]))
	require.EqualValues(t, 36, binary.LittleEndian.Uint32(out[4:8]))
	require.Equal(t, "WAVE", string(out[8:12]))
	require.Equal(t, "fmt ", string(out[12:16]))
	require.EqualValues(t, 16, binary.LittleEndian.Uint32(out[16:20]))
	require.EqualValues(t, 1, binary.LittleEndian.Uint16(out[20:22]))
	require.EqualValues(t, 1, binary.LittleEndian.Uint16(out[22:24]))
	require.EqualValues(t, 24000, binary.LittleEndian.Uint32(out[24:28]))
	require.EqualValues(t, 48000, binary.LittleEndian.Uint32(out[28:32]))
	require.EqualValues(t, 2, binary.LittleEndian.Uint16(out[32:34]))
	require.EqualValues(t, 16, binary.LittleEndian.Uint16(out[34:36]))
	require.Equal(t, "data", string(out[36:40]))
	require.EqualValues(t, 0, binary.LittleEndian.Uint32(out[40:44]))
}

func TestEncodeWAVKeepsPayload(t *testing.T) {
	t.Parallel()
	payload := []byte{0x01, 0x02, 0xfe, 0xff}

	out, err := EncodeWAV(payload, GeminiTTSFormat)
	require.NoError(t, err)
	require.Equal(t, payload, out[HeaderSize:])
	require.EqualValues(t, 40, binary.LittleEndian.Uint32(out[4:8]))
	require.EqualValues(t, 4, binary.LittleEndian.Uint32(out[40:44]))
}

func TestEncodeWAVRejectsInvalidFormat(t *testing.T) {
	t.Parallel()
	cases := []Format{
		{SampleRate: 0, Channels: 1, BitsPerSample: 16},
		{SampleRate: 24000, Channels: 0, BitsPerSample: 16},
		{SampleRate: 24000, Channels: 1, BitsPerSample: 12},
		{SampleRate: -1, Channels: 1, BitsPerSample: 8},
	}
	for _, f := range cases {
		out, err := EncodeWAV([]byte{1, 2}, f)
		require.ErrorIs(t, err, ErrInvalidFormat, "%+v", f)
		require.Nil(t, out)
	}
}

func TestParseHeaderRejectsGarbage(t *testing.T) {
	t.Parallel()
	_, _, err := ParseHeader([]byte("short"))
	require.ErrorIs(t, err, ErrInvalidFormat)

	_, _, err = ParseHeader(bytes.Repeat([]byte{'x'}, 44))
	require.ErrorIs(t, err, ErrInvalidFormat)
}

func TestEncodeWAVRoundTrip(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(t *rapid.T) {
		payload := rapid.SliceOfN(rapid.Byte(), 0, 4096).Draw(t, "payload")
		f := Format{
			SampleRate:    rapid.IntRange(1, 192000).Draw(t, "rate"),
			Channels:      rapid.IntRange(1, 8).Draw(t, "channels"),
			BitsPerSample: rapid.SampledFrom([]int{8, 16, 24, 32}).Draw(t, "bits"),
		}

		out, err := EncodeWAV(payload, f)
		if err != nil {
			t.Fatalf("encode: %v", err)
		}
		if len(out) != HeaderSize+len(payload) {
			t.Fatalf("length %d, want %d", len(out), HeaderSize+len(payload))
		}

		got, n, err := ParseHeader(out)
		if err != nil {
			t.Fatalf("parse: %v", err)
		}
		if got != f || n != len(payload) {
			t.Fatalf("round trip: got %+v/%d, want %+v/%d", got, n, f, len(payload))
		}
		if !bytes.Equal(out[HeaderSize:], payload) {
			t.Fatalf("payload modified")
		}

		again, _ := EncodeWAV(payload, f)
		if !bytes.Equal(out, again) {
			t.Fatalf("output not deterministic")
		}
	})
}

func TestDecodeBase64(t *testing.T) {
	t.Parallel()

	raw := []byte{0, 1, 2, 3, 250}
	require.Equal(t, raw, DecodeBase64(base64.StdEncoding.EncodeToString(raw)))

	bad := DecodeBase64("%%% not base64 %%%")
	require.NotNil(t, bad)
	require.Empty(t, bad)
}
