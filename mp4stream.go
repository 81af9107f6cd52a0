// Copyright 2015, David Howden
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tag

import (
	"bytes"
	"encoding/binary"
	"io"
)

// readMVHD extracts the movie-wide timescale and duration from the "mvhd"
// full box. Duration is stored pre-divided by timescale, in seconds.
func (m metadataMP4) readMVHD(r io.ReadSeeker, size uint32) error {
	b, err := readBytes(r, uint(size))
	if err != nil {
		return err
	}
	if len(b) < 20 {
		return nil
	}

	var timescale uint64
	var duration uint64
	if b[0] == 1 {
		if len(b) < 32 {
			return nil
		}
		timescale = uint64(binary.BigEndian.Uint32(b[20:24]))
		duration = binary.BigEndian.Uint64(b[24:32])
	} else {
		timescale = uint64(binary.BigEndian.Uint32(b[12:16]))
		duration = uint64(binary.BigEndian.Uint32(b[16:20]))
	}

	m.data["mvhd_timescale"] = timescale
	if timescale > 0 {
		m.data["mvhd_duration"] = float64(duration) / float64(timescale)
	}
	return nil
}

// readMDHD extracts the per-track timescale and duration from the "mdhd"
// full box, same layout as "mvhd" up to the language field we don't need.
func (m metadataMP4) readMDHD(r io.ReadSeeker, size uint32) error {
	b, err := readBytes(r, uint(size))
	if err != nil {
		return err
	}
	if len(b) < 20 {
		return nil
	}

	var timescale uint64
	var duration uint64
	if b[0] == 1 {
		if len(b) < 32 {
			return nil
		}
		timescale = uint64(binary.BigEndian.Uint32(b[20:24]))
		duration = binary.BigEndian.Uint64(b[24:32])
	} else {
		timescale = uint64(binary.BigEndian.Uint32(b[12:16]))
		duration = uint64(binary.BigEndian.Uint32(b[16:20]))
	}

	m.data["mdhd_timescale"] = timescale
	if timescale > 0 {
		m.data["mdhd_duration"] = float64(duration) / float64(timescale)
	}
	return nil
}

// readSTSD reads the first sample description table entry: its fourcc
// (codec identifier), channel count, sample size and sample rate, then
// descends into any nested boxes (principally "esds") that follow the
// fixed audio sample entry fields.
// See ISO/IEC 14496-12 "AudioSampleEntry".
func (m metadataMP4) readSTSD(r io.ReadSeeker, size uint32) error {
	hdr, err := readBytes(r, 8) // version(1)+flags(3)+entry_count(4)
	if err != nil {
		return err
	}
	entryCount := binary.BigEndian.Uint32(hdr[4:8])
	if entryCount == 0 {
		_, err := r.Seek(int64(size-8), io.SeekCurrent)
		return err
	}

	entryHeader, err := readBytes(r, 8) // entry size(4) + format fourcc(4)
	if err != nil {
		return err
	}
	entrySize := binary.BigEndian.Uint32(entryHeader[0:4])
	format := string(entryHeader[4:8])
	m.data["stsd_codec"] = format

	// reserved(6) + data_reference_index(2) + version(2) + revision(2) +
	// vendor(4) + channel_count(2) + sample_size(2)
	fixed, err := readBytes(r, 20)
	if err != nil {
		return err
	}
	channels := binary.BigEndian.Uint16(fixed[16:18])
	sampleSize := binary.BigEndian.Uint16(fixed[18:20])

	rest, err := readBytes(r, 8) // compression_id(2) + packet_size(2) + sample_rate(4, 16.16 fixed point)
	if err != nil {
		return err
	}
	sampleRate := binary.BigEndian.Uint32(rest[4:8]) >> 16

	m.data["stsd_channels"] = int(channels)
	m.data["stsd_sample_size"] = int(sampleSize)
	m.data["stsd_sample_rate"] = int(sampleRate)

	const baseEntrySize = 8 + 20 + 8 // entry header + fixed fields + trailing fields
	if entrySize > baseEntrySize {
		if err := m.readSampleEntryChildren(r, entrySize-baseEntrySize); err != nil {
			return err
		}
	}

	remaining := int64(size) - 8 - int64(entrySize)
	if remaining > 0 {
		if _, err := r.Seek(remaining, io.SeekCurrent); err != nil {
			return err
		}
	}
	return nil
}

// readSampleEntryChildren walks the boxes nested within a sample
// description entry (principally "esds"), bounded to the given byte count
// since, unlike the top-level walk, EOF is not a valid terminator here.
func (m metadataMP4) readSampleEntryChildren(r io.ReadSeeker, total uint32) error {
	var consumed uint32
	for consumed < total {
		name, size, err := readAtomHeader(r)
		if err != nil {
			return err
		}
		consumed += size

		if name == "esds" {
			if err := m.readESDS(r, size-8); err != nil {
				return err
			}
			continue
		}
		if _, err := r.Seek(int64(size-8), io.SeekCurrent); err != nil {
			return err
		}
	}
	return nil
}

// audioObjectTypes maps MPEG-4 Audio Object Types (from the
// AudioSpecificConfig embedded in "esds") to human-readable codec names.
var audioObjectTypes = map[int]string{
	1:  "AAC Main",
	2:  "AAC LC",
	3:  "AAC SSR",
	4:  "AAC LTP",
	5:  "SBR",
	6:  "AAC Scalable",
	17: "ER AAC LC",
	23: "ER AAC LD",
	29: "PS",
	39: "ALS",
}

// readDescriptorSize decodes an MPEG-4 descriptor's variable-length size
// field: up to 4 bytes, each contributing 7 bits, continuing while the
// top bit is set.
func readDescriptorSize(r io.Reader) (int, error) {
	var size int
	for i := 0; i < 4; i++ {
		b, err := readBytes(r, 1)
		if err != nil {
			return 0, err
		}
		size = (size << 7) | int(b[0]&0x7F)
		if b[0]&0x80 == 0 {
			break
		}
	}
	return size, nil
}

// readESDS walks the ES_Descriptor -> DecoderConfigDescriptor ->
// DecoderSpecificInfo chain inside an "esds" box to recover the codec
// (audio object type) and the max/average bitrate. Any structural surprise
// here is treated as non-fatal: esds only supplements tag data, it never
// gates whether the rest of the atoms parse.
// See ISO/IEC 14496-1 "ES_Descriptor".
func (m metadataMP4) readESDS(r io.ReadSeeker, size uint32) error {
	b, err := readBytes(r, uint(size))
	if err != nil {
		return err
	}
	if len(b) < 4 {
		return nil
	}
	br := bytes.NewReader(b[4:]) // skip version(1) + flags(3)

	tag, err := readBytes(br, 1)
	if err != nil || tag[0] != 0x03 { // ES_DescrTag
		return nil
	}
	if _, err := readDescriptorSize(br); err != nil {
		return nil
	}
	if _, err := readBytes(br, 3); err != nil { // ES_ID(2) + flags(1)
		return nil
	}

	tag, err = readBytes(br, 1)
	if err != nil || tag[0] != 0x04 { // DecoderConfigDescrTag
		return nil
	}
	if _, err := readDescriptorSize(br); err != nil {
		return nil
	}
	cfg, err := readBytes(br, 13)
	if err != nil {
		return nil
	}

	objectType := int(cfg[0])
	if name, ok := audioObjectTypes[objectType]; ok {
		m.data["esds_codec"] = name
	}
	m.data["esds_max_bitrate"] = int(binary.BigEndian.Uint32(cfg[5:9]))
	m.data["esds_avg_bitrate"] = int(binary.BigEndian.Uint32(cfg[9:13]))

	tag, err = readBytes(br, 1)
	if err != nil || tag[0] != 0x05 { // DecSpecificInfoTag
		return nil
	}
	dsiLen, err := readDescriptorSize(br)
	if err != nil {
		return nil
	}
	dsi, err := readBytes(br, uint(dsiLen))
	if err != nil || len(dsi) < 2 {
		return nil
	}

	// AudioSpecificConfig: the top 5 bits of the first byte are the audio
	// object type, the only field read here. The extension (SBR) sample
	// rate that HE-AAC streams carry in this config is not decoded, so
	// stsd_sample_rate remains the base rate.
	audioObjectType := int(dsi[0] >> 3)
	if name, ok := audioObjectTypes[audioObjectType]; ok {
		m.data["esds_codec"] = name
	}

	return nil
}
