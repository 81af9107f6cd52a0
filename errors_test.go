// Copyright 2015, David Howden
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tag

import (
	"errors"
	"strings"
	"testing"
)

func TestReadFLACTagsHeaderNotFound(t *testing.T) {
	_, err := ReadFLACTags(strings.NewReader("not a flac file"))
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !errors.Is(err, ErrHeaderNotFound) {
		t.Errorf("errors.Is(err, ErrHeaderNotFound) = false, err: %v", err)
	}
	var flacErr *FLACError
	if !errors.As(err, &flacErr) {
		t.Errorf("errors.As(err, &FLACError{}) = false, err: %v", err)
	}
}

func TestReadOGGTagsHeaderNotFound(t *testing.T) {
	_, err := ReadOGGTags(strings.NewReader("not an ogg file"))
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !errors.Is(err, ErrHeaderNotFound) {
		t.Errorf("errors.Is(err, ErrHeaderNotFound) = false, err: %v", err)
	}
	var oggErr *OggError
	if !errors.As(err, &oggErr) {
		t.Errorf("errors.As(err, &OggError{}) = false, err: %v", err)
	}
}

func TestReadID3v2TagsHeaderNotFound(t *testing.T) {
	_, err := ReadID3v2Tags(strings.NewReader("not an id3 file, but long enough"))
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !errors.Is(err, ErrHeaderNotFound) {
		t.Errorf("errors.Is(err, ErrHeaderNotFound) = false, err: %v", err)
	}
	var id3Err *ID3v2Error
	if !errors.As(err, &id3Err) {
		t.Errorf("errors.As(err, &ID3v2Error{}) = false, err: %v", err)
	}
}

func TestReadDSFTagsHeaderNotFound(t *testing.T) {
	_, err := ReadDSFTags(strings.NewReader("not a dsf file, but long enough to read"))
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !errors.Is(err, ErrHeaderNotFound) {
		t.Errorf("errors.Is(err, ErrHeaderNotFound) = false, err: %v", err)
	}
}

// A corrupt-but-present ID3v2 header (bad version byte) must NOT satisfy
// errors.Is(err, ErrHeaderNotFound): callers need to propagate it rather
// than silently treating the file as untagged.
func TestReadID3v2TagsCorruptVersionPropagates(t *testing.T) {
	b := []byte("ID3")
	b = append(b, 9) // invalid version
	b = append(b, 0) // revision
	b = append(b, 0) // flags
	b = append(b, 0, 0, 0, 0)

	_, err := ReadID3v2Tags(strings.NewReader(string(b)))
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if errors.Is(err, ErrHeaderNotFound) {
		t.Errorf("errors.Is(err, ErrHeaderNotFound) = true for a corrupt-but-present header, want false")
	}
	var id3Err *ID3v2Error
	if !errors.As(err, &id3Err) {
		t.Errorf("errors.As(err, &ID3v2Error{}) = false, err: %v", err)
	}
}
