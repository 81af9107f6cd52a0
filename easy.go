// Copyright 2015, David Howden
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tag

import "strconv"

// EasyTags projects m onto a small set of normalized keys ("title",
// "artist", "album", "album_artist", "composer", "genre", "year", "track",
// "track_total", "disc", "disc_total", "comment", "lyrics"), the same keys
// regardless of whether the underlying tag was ID3v1, ID3v2, a Vorbis
// Comment, or an MP4 atom. Empty/zero fields are included as "" or "0"
// rather than omitted, so callers can range over a fixed key set.
func EasyTags(m Metadata) map[string]string {
	track, trackTotal := m.Track()
	disc, discTotal := m.Disc()

	return map[string]string{
		"title":        m.Title(),
		"artist":       m.Artist(),
		"album":        m.Album(),
		"album_artist": m.AlbumArtist(),
		"composer":     m.Composer(),
		"genre":        m.Genre(),
		"year":         strconv.Itoa(m.Year()),
		"track":        strconv.Itoa(track),
		"track_total":  strconv.Itoa(trackTotal),
		"disc":         strconv.Itoa(disc),
		"disc_total":   strconv.Itoa(discTotal),
		"comment":      m.Comment(),
		"lyrics":       m.Lyrics(),
	}
}
