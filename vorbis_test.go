// Copyright 2015, David Howden
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tag

import (
	"bytes"
	"encoding/binary"
	"testing"
)

// buildVorbisComment assembles the on-wire form of a Vorbis Comment header:
// a length-prefixed vendor string followed by a length-prefixed "KEY=VALUE"
// string per comment, matching what readVorbisComment expects to read.
func buildVorbisComment(vendor string, comments []string) []byte {
	var buf bytes.Buffer

	writeLV := func(s string) {
		binary.Write(&buf, binary.LittleEndian, uint32(len(s)))
		buf.WriteString(s)
	}

	writeLV(vendor)
	binary.Write(&buf, binary.LittleEndian, uint32(len(comments)))
	for _, c := range comments {
		writeLV(c)
	}
	return buf.Bytes()
}

func TestReadVorbisCommentCoalescesDuplicateKeys(t *testing.T) {
	b := buildVorbisComment("test vendor", []string{
		"ARTIST=First Artist",
		"ARTIST=Second Artist",
		"TITLE=A Title",
	})

	m := newMetadataVorbis()
	if err := m.readVorbisComment(bytes.NewReader(b)); err != nil {
		t.Fatalf("readVorbisComment: %v", err)
	}

	got := m.c["artist"]
	want := []string{"First Artist", "Second Artist"}
	if len(got) != len(want) {
		t.Fatalf("artist values = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("artist[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	// Accessors (Artist, etc.) read the first value rather than silently
	// losing earlier entries to later ones with the same key.
	if artist := m.Artist(); artist != "First Artist" {
		t.Errorf("Artist() = %q, want %q", artist, "First Artist")
	}
	if title := m.Title(); title != "A Title" {
		t.Errorf("Title() = %q, want %q", title, "A Title")
	}
}

func TestMetadataVorbisRawCoalescesDuplicateKeys(t *testing.T) {
	b := buildVorbisComment("test vendor", []string{
		"ARTIST=First Artist",
		"ARTIST=Second Artist",
	})

	m := newMetadataVorbis()
	if err := m.readVorbisComment(bytes.NewReader(b)); err != nil {
		t.Fatalf("readVorbisComment: %v", err)
	}

	raw := m.Raw()
	v, ok := raw["artist"].([]string)
	if !ok {
		t.Fatalf("Raw()[\"artist\"] = %#v, want []string", raw["artist"])
	}
	if len(v) != 2 || v[0] != "First Artist" || v[1] != "Second Artist" {
		t.Errorf("Raw()[\"artist\"] = %v, want [First Artist Second Artist]", v)
	}
}

func TestMetadataVorbisPprintAndSave(t *testing.T) {
	m := newMetadataVorbis()
	if s := m.Pprint(); s == "" {
		t.Error("Pprint() returned empty string")
	}
	if err := m.Save(); err != ErrSaveNotSupported {
		t.Errorf("Save() = %v, want ErrSaveNotSupported", err)
	}
}
