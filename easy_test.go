// Copyright 2015, David Howden
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tag

import "testing"

func TestEasyTags(t *testing.T) {
	m := &metadataID3v1{
		title:  "Test Title",
		artist: "Test Artist",
		album:  "Test Album",
		year:   "2000",
		track:  3,
	}

	easy := EasyTags(m)
	want := map[string]string{
		"title":  "Test Title",
		"artist": "Test Artist",
		"album":  "Test Album",
		"year":   "2000",
		"track":  "3",
	}
	for k, v := range want {
		if easy[k] != v {
			t.Errorf("EasyTags()[%q] = %q, want %q", k, easy[k], v)
		}
	}

	// Every normalized key must be present, even when empty, so callers
	// can range over a fixed key set.
	for _, k := range []string{"title", "artist", "album", "album_artist", "composer", "genre", "year", "track", "track_total", "disc", "disc_total", "comment", "lyrics"} {
		if _, ok := easy[k]; !ok {
			t.Errorf("EasyTags() missing key %q", k)
		}
	}
}
