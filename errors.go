// Copyright 2015, David Howden
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tag

import (
	"errors"
	"fmt"
)

// ErrHeaderNotFound is the sentinel wrapped by the per-format errors below
// (all but MP4Error) when the format's own magic/header marker is simply absent. Callers use
// errors.Is(err, ErrHeaderNotFound) to distinguish "this file doesn't carry
// this kind of tag, move on" from a header that was found but is corrupt,
// which must propagate.
var ErrHeaderNotFound = errors.New("header not found")

// ID3v2Error reports a failure decoding an ID3v2 tag: either its 10-byte
// header marker ("ID3") is missing (wraps ErrHeaderNotFound, safe to treat
// as "no ID3v2 tag") or the header was found but its contents are corrupt
// or unsupported (propagate).
type ID3v2Error struct {
	Offset int64
	Detail string
	Err    error
}

func (e *ID3v2Error) Error() string {
	return fmt.Sprintf("id3v2: %s (offset %d): %v", e.Detail, e.Offset, e.Err)
}

func (e *ID3v2Error) Unwrap() error { return e.Err }

// FLACError reports a failure decoding a FLAC file: either the leading
// "fLaC" marker is missing (wraps ErrHeaderNotFound) or a metadata block
// that follows it is malformed (propagate).
type FLACError struct {
	Offset int64
	Detail string
	Err    error
}

func (e *FLACError) Error() string {
	return fmt.Sprintf("flac: %s (offset %d): %v", e.Detail, e.Offset, e.Err)
}

func (e *FLACError) Unwrap() error { return e.Err }

// OggError reports a failure decoding an Ogg container: either the leading
// "OggS" capture pattern is missing on the first page (wraps
// ErrHeaderNotFound) or a later page or Vorbis header packet is malformed
// (propagate).
type OggError struct {
	Offset int64
	Detail string
	Err    error
}

func (e *OggError) Error() string {
	return fmt.Sprintf("ogg: %s (offset %d): %v", e.Detail, e.Offset, e.Err)
}

func (e *OggError) Unwrap() error { return e.Err }

// MP4Error reports a failure decoding an MP4/M4A atom tree: an atom found
// while walking the tree has an invalid size or encoding (propagate).
// ReadAtoms does not check the "ftyp" brand, so an MP4Error never wraps
// ErrHeaderNotFound.
type MP4Error struct {
	Offset int64
	Detail string
	Err    error
}

func (e *MP4Error) Error() string {
	return fmt.Sprintf("mp4: %s (offset %d): %v", e.Detail, e.Offset, e.Err)
}

func (e *MP4Error) Unwrap() error { return e.Err }

// MPEGError reports a failure scanning an MPEG audio stream (frame sync,
// Xing/Info/VBRI headers) for stream properties.
type MPEGError struct {
	Offset int64
	Detail string
	Err    error
}

func (e *MPEGError) Error() string {
	return fmt.Sprintf("mpeg: %s (offset %d): %v", e.Detail, e.Offset, e.Err)
}

func (e *MPEGError) Unwrap() error { return e.Err }
