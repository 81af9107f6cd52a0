// Copyright 2015, David Howden
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tag

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"

	"github.com/eaburns/bit"
)

const (
	idType      int = 1
	commentType int = 3
)

// MetadataOGG is the Metadata implementation for Ogg Vorbis files: Vorbis
// Comments for the tag fields, plus the stream properties decoded from the
// identification header and the duration derived from the final page's
// granule position.
type MetadataOGG struct {
	*metadataVorbis

	Channels       uint8
	SampleRate     uint32
	BitrateMaximum int32
	BitrateNominal int32
	BitrateMinimum int32
	BlockSizeShort uint32
	BlockSizeLong  uint32
	Duration       float64
}

func (m *MetadataOGG) FileType() FileType { return OGG }

// ReadOGGTags reads OGG metadata from the io.ReadSeeker, returning the resulting
// metadata in a Metadata implementation, or non-nil error if there was a problem.
// See http://www.xiph.org/vorbis/doc/Vorbis_I_spec.html
// and http://www.xiph.org/ogg/doc/framing.html for details.
func ReadOGGTags(r io.ReadSeeker) (Metadata, error) {
	oggs, err := readString(r, 4)
	if err != nil {
		return nil, err
	}
	if oggs != "OggS" {
		return nil, &OggError{Detail: "expected 'OggS'", Err: ErrHeaderNotFound}
	}

	// Skip 22 bytes of Page header to read page_segments length byte at position 26
	// See http://www.xiph.org/ogg/doc/framing.html
	_, err = r.Seek(22, io.SeekCurrent)
	if err != nil {
		return nil, err
	}

	nS, err := readInt(r, 1)
	if err != nil {
		return nil, err
	}

	// Seek and discard the segments
	_, err = r.Seek(int64(nS), io.SeekCurrent)
	if err != nil {
		return nil, err
	}

	// First packet type is identification, type 1
	t, err := readInt(r, 1)
	if err != nil {
		return nil, err
	}
	if t != idType {
		return nil, &OggError{Detail: "expected 'vorbis' identification type 1", Err: errors.New("unexpected packet type")}
	}

	// Discard the "vorbis" codec signature.
	// See http://www.xiph.org/vorbis/doc/Vorbis_I_spec.html#x1-610004.2
	if _, err = r.Seek(6, io.SeekCurrent); err != nil {
		return nil, err
	}

	idHeader, err := readBytes(r, 23)
	if err != nil {
		return nil, err
	}

	m := &MetadataOGG{metadataVorbis: newMetadataVorbis()}
	if err := m.readIdentificationHeader(idHeader); err != nil {
		return nil, err
	}

	// Read comment header packet. May include setup header packet, if it is on the
	// same page. First audio packet is guaranteed to be on the separate page.
	// See https://www.xiph.org/vorbis/doc/Vorbis_I_spec.html#x1-132000A.2
	ch, err := readPackets(r)
	if err != nil {
		return nil, err
	}
	chr := bytes.NewReader(ch)

	// First packet type is comment, type 3
	t, err = readInt(chr, 1)
	if err != nil {
		return nil, err
	}
	if t != commentType {
		return nil, &OggError{Detail: "expected 'vorbis' comment type 3", Err: errors.New("unexpected packet type")}
	}

	// Seek and discard 6 bytes from common header
	_, err = chr.Seek(6, io.SeekCurrent)
	if err != nil {
		return nil, err
	}

	if err := m.readVorbisComment(chr); err != nil {
		return nil, err
	}

	if d, err := oggDuration(r, m.SampleRate); err == nil {
		m.Duration = d
	}

	return m, nil
}

// readIdentificationHeader decodes the 23 bytes following the "vorbis"
// signature in the Vorbis identification packet: channel count, sample
// rate, and the three bitrate fields are plain little-endian values; the
// blocksize exponents and framing bit are two packed nibbles and a single
// bit, extracted with a bit-level reader.
// See http://www.xiph.org/vorbis/doc/Vorbis_I_spec.html#x1-132000A.2
func (m *MetadataOGG) readIdentificationHeader(b []byte) error {
	if len(b) != 23 {
		return &OggError{Detail: "expected 23 bytes of vorbis identification header", Err: errors.New("truncated identification header")}
	}

	// b[0:4] is the vorbis_version field, expected to be 0; not surfaced.
	m.Channels = b[4]
	m.SampleRate = binary.LittleEndian.Uint32(b[5:9])
	m.BitrateMaximum = int32(binary.LittleEndian.Uint32(b[9:13]))
	m.BitrateNominal = int32(binary.LittleEndian.Uint32(b[13:17]))
	m.BitrateMinimum = int32(binary.LittleEndian.Uint32(b[17:21]))

	br := bit.NewReader(bytes.NewReader(b[21:23]))
	// Vorbis packs fields least-significant bit first, so the high nibble
	// (read first here) is blocksize_1 and the low nibble is blocksize_0.
	blocksize1, err := br.Read(4)
	if err != nil {
		return err
	}
	blocksize0, err := br.Read(4)
	if err != nil {
		return err
	}
	if _, err := br.Read(7); err != nil { // unused
		return err
	}
	framing, err := br.Read(1)
	if err != nil {
		return err
	}
	if framing != 1 {
		return &OggError{Detail: "expected vorbis identification header framing bit to be set", Err: errors.New("malformed identification header")}
	}

	m.BlockSizeShort = uint32(1) << blocksize0
	m.BlockSizeLong = uint32(1) << blocksize1
	return nil
}

// oggDuration scans backward from the end of the stream for the last page's
// capture pattern and reads its granule position, bounded to a 64 KiB
// window so a truncated or corrupt trailer can't force an unbounded scan.
func oggDuration(r io.ReadSeeker, sampleRate uint32) (float64, error) {
	if sampleRate == 0 {
		return 0, nil
	}

	const scanWindow = 64 * 1024

	size, err := r.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, err
	}

	start := size - scanWindow
	if start < 0 {
		start = 0
	}

	if _, err := r.Seek(start, io.SeekStart); err != nil {
		return 0, err
	}
	buf, err := readBytes(r, uint(size-start))
	if err != nil {
		return 0, err
	}

	idx := bytes.LastIndex(buf, []byte("OggS"))
	if idx < 0 || idx+14 > len(buf) {
		return 0, nil
	}

	granule := binary.LittleEndian.Uint64(buf[idx+6 : idx+14])
	return float64(granule) / float64(sampleRate), nil
}

// readPackets reads vorbis header packets from contiguous ogg pages in ReadSeeker.
// The pages are considered contiguous, if the first lacing value in second
// page's segment table continues rather than begins a packet. This is indicated
// by setting header_type_flag 0x1 (continued packet).
// See https://www.xiph.org/ogg/doc/framing.html on packets spanning pages.
func readPackets(r io.ReadSeeker) ([]byte, error) {
	buf := &bytes.Buffer{}

	firstPage := true
	for {
		// Read capture pattern
		oggs, err := readString(r, 4)
		if err != nil {
			return nil, err
		}
		if oggs != "OggS" {
			return nil, &OggError{Detail: "expected 'OggS' capture pattern on subsequent page", Err: errors.New("malformed page")}
		}

		// Read page header
		head, err := readBytes(r, 22)
		if err != nil {
			return nil, err
		}
		headerTypeFlag := head[1]

		continuation := headerTypeFlag&0x1 > 0
		if !(firstPage || continuation) {
			// Rewind to the beginning of the page
			_, err = r.Seek(-26, io.SeekCurrent)
			if err != nil {
				return nil, err
			}
			break
		}
		firstPage = false

		// Read the number of segments
		nS, err := readUint(r, 1)
		if err != nil {
			return nil, err
		}

		// Read segment table
		segments, err := readBytes(r, nS)
		if err != nil {
			return nil, err
		}

		// Calculate remaining page size
		pageSize := 0
		for i := uint(0); i < nS; i++ {
			pageSize += int(segments[i])
		}

		_, err = io.CopyN(buf, r, int64(pageSize))
		if err != nil {
			return nil, err
		}
	}

	return buf.Bytes(), nil
}
