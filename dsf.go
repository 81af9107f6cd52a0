// Copyright 2015, David Howden
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tag

import (
	"encoding/binary"
	"fmt"
	"io"
)

// ReadDSFTags reads the ID3v2 tag embedded in a DSF (DSD Stream File)
// container. The DSD chunk header carries a pointer to the tag's byte
// offset; a zero pointer means the file carries no tag at all.
// See https://dsd-guide.com/sites/default/files/white-papers/DSFFileFormatSpec_E.pdf
func ReadDSFTags(r io.ReadSeeker) (Metadata, error) {
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	hdr, err := readBytes(r, 28)
	if err != nil {
		return nil, err
	}
	if string(hdr[0:4]) != "DSD " {
		return nil, fmt.Errorf("expected 'DSD ': %w", ErrHeaderNotFound)
	}

	ptr := binary.LittleEndian.Uint64(hdr[20:28])
	if ptr == 0 {
		return nil, ErrNoTagsFound
	}

	h, f, err := readID3v2TagsAt(r, int64(ptr))
	if err != nil {
		return nil, err
	}
	return dsfMetadata{metadataID3v2{header: h, frames: f}}, nil
}

// dsfMetadata reports the DSF FileType while deferring every other Metadata
// method to the embedded ID3v2 tag it wraps.
type dsfMetadata struct {
	Metadata
}

func (dsfMetadata) FileType() FileType { return DSF }
