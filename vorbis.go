// Copyright 2015, David Howden
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tag

import (
	"encoding/base64"
	"errors"
	"io"
	"strconv"
	"strings"
)

// metadataVorbis implements the Vorbis Comment reader shared by the FLAC
// and Ogg Vorbis decoders: both carry the same vendor-string-plus-KEY=VALUE
// comment list, just wrapped in a different container.
type metadataVorbis struct {
	// c holds the vorbis comments, lower-cased keys. A key legally repeats
	// (e.g. multiple ARTIST= fields); values are coalesced into a list in
	// the order they appear in the file rather than overwriting one another.
	c map[string][]string
	p *Picture
}

func newMetadataVorbis() *metadataVorbis {
	return &metadataVorbis{c: make(map[string][]string)}
}

// get returns the first value stored for k, or "" if k was never set.
func (m *metadataVorbis) get(k string) string {
	v, ok := m.c[k]
	if !ok || len(v) == 0 {
		return ""
	}
	return v[0]
}

func (m *metadataVorbis) readVorbisComment(r io.Reader) error {
	vendorLen, err := readInt32LittleEndian(r)
	if err != nil {
		return err
	}

	vendor, err := readString(r, vendorLen)
	if err != nil {
		return err
	}
	m.c["vendor"] = append(m.c["vendor"], vendor)

	commentsLen, err := readInt32LittleEndian(r)
	if err != nil {
		return err
	}

	for i := 0; i < commentsLen; i++ {
		l, err := readInt32LittleEndian(r)
		if err != nil {
			return err
		}
		s, err := readString(r, l)
		if err != nil {
			return err
		}
		k, v, err := parseComment(s)
		if err != nil {
			return err
		}
		k = strings.ToLower(k)

		if k == "metadata_block_picture" {
			if p, err := decodeMetadataBlockPicture(v); err == nil {
				m.p = p
			}
			continue
		}

		m.c[k] = append(m.c[k], v)
	}
	return nil
}

// decodeMetadataBlockPicture decodes the base64-encoded FLAC PICTURE block
// carried in the Vorbis Comment "METADATA_BLOCK_PICTURE" field, the
// convention Ogg (and other Vorbis-Comment-only containers) use for cover
// art since they have no native picture block of their own.
func decodeMetadataBlockPicture(v string) (*Picture, error) {
	b, err := base64.StdEncoding.DecodeString(v)
	if err != nil {
		return nil, err
	}
	return parsePictureBlock(b)
}

func parseComment(c string) (k, v string, err error) {
	kv := strings.SplitN(c, "=", 2)
	if len(kv) != 2 {
		err = errors.New("vorbis comment must contain '='")
		return
	}
	k = kv[0]
	v = kv[1]
	return
}

func (m *metadataVorbis) Format() Format {
	return VORBIS
}

// Raw returns a single string for keys that appeared once, and the full
// ordered list for keys that legally repeated (e.g. multiple ARTIST=
// fields) — callers that only care about the common single-valued case
// don't need to type-assert a slice just to read one value.
func (m *metadataVorbis) Raw() map[string]interface{} {
	raw := make(map[string]interface{}, len(m.c))
	for k, v := range m.c {
		if len(v) == 1 {
			raw[k] = v[0]
			continue
		}
		raw[k] = v
	}
	return raw
}

func (m *metadataVorbis) Title() string {
	return m.get("title")
}

func (m *metadataVorbis) Artist() string {
	// PERFORMER
	// The artist(s) who performed the work. In classical music this would be the
	// conductor, orchestra, soloists. In an audio book it would be the actor who
	// did the reading. In popular music this is typically the same as the ARTIST
	// and is omitted.
	if m.get("performer") != "" {
		return m.get("performer")
	}
	return m.get("artist")
}

func (m *metadataVorbis) Album() string {
	return m.get("album")
}

func (m *metadataVorbis) AlbumArtist() string {
	// This field isn't included in the standard.
	return ""
}

func (m *metadataVorbis) Composer() string {
	// ARTIST
	// The artist generally considered responsible for the work. In popular music
	// this is usually the performing band or singer. For classical music it would
	// be the composer. For an audio book it would be the author of the original text.
	if m.get("composer") != "" {
		return m.get("composer")
	}
	if m.get("performer") == "" {
		return ""
	}
	return m.get("artist")
}

func (m *metadataVorbis) Genre() string {
	return m.get("genre")
}

func (m *metadataVorbis) Year() int {
	date := m.get("date")
	y, _ := strconv.Atoi(date[:minInt(4, len(date))])
	return y
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func (m *metadataVorbis) Track() (int, int) {
	x, _ := strconv.Atoi(m.get("tracknumber"))
	// https://wiki.xiph.org/Field_names
	n, _ := strconv.Atoi(m.get("tracktotal"))
	return x, n
}

func (m *metadataVorbis) Disc() (int, int) {
	// https://wiki.xiph.org/Field_names
	x, _ := strconv.Atoi(m.get("discnumber"))
	n, _ := strconv.Atoi(m.get("disctotal"))
	return x, n
}

func (m *metadataVorbis) Lyrics() string {
	return m.get("lyrics")
}

func (m *metadataVorbis) Comment() string {
	if m.get("comment") != "" {
		return m.get("comment")
	}
	return m.get("description")
}

func (m *metadataVorbis) Picture() *Picture {
	return m.p
}

func (m *metadataVorbis) Pprint() string { return pprint(m) }
func (m *metadataVorbis) Save() error    { return ErrSaveNotSupported }
