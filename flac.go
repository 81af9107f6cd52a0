// Copyright 2015, David Howden
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tag

import (
	"bytes"
	"encoding/binary"
	"io"
	"os"

	"github.com/eaburns/bit"
)

// BlockType is a type which represents an enumeration of valid FLAC blocks
type BlockType byte

const (
	StreamInfoBlock    BlockType = 0 // Supported
	PaddingBlock       BlockType = 1
	ApplicationBlock   BlockType = 2
	SeektableBlock     BlockType = 3
	VorbisCommentBlock BlockType = 4 // Supported
	CueSheetBlock      BlockType = 5
	PictureBlock       BlockType = 6 // Supported
)

// MetadataFLAC is the Metadata implementation for FLAC files: Vorbis
// Comments for the tag fields, plus the stream properties decoded from the
// mandatory STREAMINFO block.
type MetadataFLAC struct {
	*metadataVorbis

	SampleRate    uint32
	Channels      uint8
	BitsPerSample uint8
	TotalSamples  uint64
	Duration      float64
	MD5Signature  []byte
}

func (m *MetadataFLAC) FileType() FileType { return FLAC }

// ReadFLACTags reads FLAC metadata from the io.ReadSeeker, returning the resulting
// metadata in a Metadata implementation, or non-nil error if there was a problem.
func ReadFLACTags(r io.ReadSeeker) (Metadata, error) {
	_, err := r.Seek(0, os.SEEK_SET)
	if err != nil {
		return nil, err
	}

	flac, err := readString(r, 4)
	if err != nil {
		return nil, err
	}
	if flac != "fLaC" {
		return nil, &FLACError{Offset: 0, Detail: "expected 'fLaC'", Err: ErrHeaderNotFound}
	}

	m := &MetadataFLAC{metadataVorbis: newMetadataVorbis()}

	for {
		last, err := m.readFLACMetadataBlock(r)
		if err != nil {
			return nil, err
		}

		if last {
			break
		}
	}
	return m, nil
}

func (m *MetadataFLAC) readFLACMetadataBlock(rs io.ReadSeeker) (last bool, err error) {
	blockHeader, err := readBytes(rs, 1)
	if err != nil {
		return
	}

	if getBit(blockHeader[0], 7) {
		blockHeader[0] ^= (1 << 7)
		last = true
	}

	blockLen, err := readInt(rs, 3)
	if err != nil {
		return
	}

	switch BlockType(blockHeader[0]) {
	case StreamInfoBlock:
		b, rerr := readBytes(rs, uint(blockLen))
		if rerr != nil {
			err = rerr
			return
		}
		err = m.readStreamInfo(b)
		return

	case VorbisCommentBlock:
		commentBytes, rerr := readBytes(rs, uint(blockLen))
		if rerr != nil {
			err = rerr
			return
		}
		err = m.readVorbisComment(bytes.NewReader(commentBytes))
		return

	case PictureBlock:
		b, rerr := readBytes(rs, uint(blockLen))
		if rerr != nil {
			err = rerr
			return
		}
		// Non-fatal: a malformed PICTURE block shouldn't prevent reading the
		// rest of the stream's tags.
		if p, perr := parsePictureBlock(b); perr == nil {
			m.p = p
		}
		return

	default:
		// PADDING, APPLICATION, SEEKTABLE, CUESHEET and any future block
		// types are not needed for tag reading; skip over them.
		_, err = rs.Seek(int64(blockLen), os.SEEK_CUR)
		return
	}
}

// readStreamInfo decodes the mandatory STREAMINFO block: a run of
// bit-packed fields (sample rate, channel count, bits per sample, total
// sample count) followed by a 16-byte MD5 signature of the decoded audio.
// See https://xiph.org/flac/format.html#metadata_block_streaminfo.
func (m *MetadataFLAC) readStreamInfo(b []byte) error {
	br := bit.NewReader(bytes.NewReader(b))

	if _, err := br.Read(16); err != nil { // minimum block size
		return err
	}
	if _, err := br.Read(16); err != nil { // maximum block size
		return err
	}
	if _, err := br.Read(24); err != nil { // minimum frame size
		return err
	}
	if _, err := br.Read(24); err != nil { // maximum frame size
		return err
	}

	sampleRate, err := br.Read(20)
	if err != nil {
		return err
	}
	channels, err := br.Read(3)
	if err != nil {
		return err
	}
	bitsPerSample, err := br.Read(5)
	if err != nil {
		return err
	}
	totalSamples, err := br.Read(36)
	if err != nil {
		return err
	}

	md5sig := make([]byte, 16)
	for i := range md5sig {
		v, err := br.Read(8)
		if err != nil {
			return err
		}
		md5sig[i] = byte(v)
	}

	m.SampleRate = uint32(sampleRate)
	m.Channels = uint8(channels) + 1
	m.BitsPerSample = uint8(bitsPerSample) + 1
	m.TotalSamples = totalSamples
	m.MD5Signature = md5sig

	if sampleRate > 0 {
		m.Duration = float64(totalSamples) / float64(sampleRate)
	}

	return nil
}

// parsePictureBlock decodes a FLAC PICTURE metadata block. The same layout
// is reused for the base64-encoded METADATA_BLOCK_PICTURE Vorbis Comment
// field carried by containers (like Ogg) that have no native picture block.
// See https://xiph.org/flac/format.html#metadata_block_picture.
func parsePictureBlock(b []byte) (*Picture, error) {
	r := bytes.NewReader(b)

	picType, err := readUint32BE(r)
	if err != nil {
		return nil, err
	}

	mimeLen, err := readUint32BE(r)
	if err != nil {
		return nil, err
	}
	mimeType, err := readString(r, uint(mimeLen))
	if err != nil {
		return nil, err
	}

	descLen, err := readUint32BE(r)
	if err != nil {
		return nil, err
	}
	desc, err := readString(r, uint(descLen))
	if err != nil {
		return nil, err
	}

	if _, err := readBytes(r, 4); err != nil { // width
		return nil, err
	}
	if _, err := readBytes(r, 4); err != nil { // height
		return nil, err
	}
	if _, err := readBytes(r, 4); err != nil { // color depth
		return nil, err
	}
	if _, err := readBytes(r, 4); err != nil { // colors used (indexed formats)
		return nil, err
	}

	dataLen, err := readUint32BE(r)
	if err != nil {
		return nil, err
	}
	data, err := readBytes(r, uint(dataLen))
	if err != nil {
		return nil, err
	}

	var ext string
	switch mimeType {
	case "image/jpeg":
		ext = "jpg"
	case "image/png":
		ext = "png"
	}

	pt, ok := pictureTypes[byte(picType)]
	if !ok {
		pt = pictureTypes[0]
	}

	return &Picture{
		Ext:         ext,
		MIMEType:    mimeType,
		Type:        pt,
		Description: desc,
		Data:        data,
	}, nil
}

func readUint32BE(r io.Reader) (uint32, error) {
	b, err := readBytes(r, 4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}
