// Copyright 2015, David Howden
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tag

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func vbriBytes(size, frames uint32) []byte {
	b := make([]byte, 18)
	copy(b[0:4], "VBRI")
	// version(2) + delay(2) + quality(2)
	b[4], b[5] = 0x00, 0x01
	b[10] = byte(size >> 24)
	b[11] = byte(size >> 16)
	b[12] = byte(size >> 8)
	b[13] = byte(size)
	b[14] = byte(frames >> 24)
	b[15] = byte(frames >> 16)
	b[16] = byte(frames >> 8)
	b[17] = byte(frames)
	return b
}

func TestReadVBRIHeader(t *testing.T) {
	b := vbriBytes(1000000, 2000)
	r := bytes.NewReader(b)

	h := &mp3Infos{Version: "1", Layer: "III", Sampling: 44100}
	ok, err := readVBRIHeader(r, 0, h)
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, int64(1000000), h.Size)
	assert.InDelta(t, 52.2448, h.Length, 0.001)
	assert.Equal(t, 160, h.Bitrate)
	assert.Equal(t, "VBR", h.Type)
}

func TestReadVBRIHeaderAbsent(t *testing.T) {
	r := bytes.NewReader(make([]byte, 18))

	h := &mp3Infos{Version: "1", Layer: "III", Sampling: 44100}
	ok, err := readVBRIHeader(r, 0, h)
	require.NoError(t, err)
	assert.False(t, ok)
}

func lameBytes(delay, padding int) []byte {
	b := make([]byte, 24)
	copy(b[0:9], "LAME3.99r")
	packed := uint32(delay)<<12 | uint32(padding)&0xFFF
	b[21] = byte(packed >> 16)
	b[22] = byte(packed >> 8)
	b[23] = byte(packed)
	return b
}

func TestReadLAMEExtension(t *testing.T) {
	r := bytes.NewReader(lameBytes(576, 1152))

	enc, delay, padding, ok := readLAMEExtension(r)
	require.True(t, ok)
	assert.Equal(t, "LAME3.99r", enc)
	assert.Equal(t, 576, delay)
	assert.Equal(t, 1152, padding)
}

func TestReadLAMEExtensionAbsent(t *testing.T) {
	r := bytes.NewReader(make([]byte, 24))

	_, _, _, ok := readLAMEExtension(r)
	assert.False(t, ok)
}

func TestIsPrintableASCII(t *testing.T) {
	assert.True(t, isPrintableASCII("LAME3.99r"))
	assert.False(t, isPrintableASCII("LAME3\x00\x0199"))
}

func TestGetNearestBitrate(t *testing.T) {
	got := getNearestBitrate(150, "1", "III")
	assert.Equal(t, 160, got)
}
