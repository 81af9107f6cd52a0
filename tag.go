// Copyright 2015, David Howden
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package tag provides basic MP3 (ID3v1,2.{2,3,4}) and MP4 metadata parsing.
package tag

import (
	"bytes"
	"errors"
	"fmt"
	"io"
)

// ErrNoTagsFound is the error returned by ReadFrom when the metadata format
// cannot be identified.
var ErrNoTagsFound = errors.New("no tags found")

// ErrSaveNotSupported is returned by every Metadata implementation's Save
// method: writing tags back to a file is not implemented by this package.
var ErrSaveNotSupported = errors.New("save is not supported")

// pprint renders a human-readable multi-line summary of m, the same set of
// fields cmd/tag prints. Shared by every Metadata implementation's Pprint
// method so the summary format can't drift between formats.
func pprint(m Metadata) string {
	track, trackCount := m.Track()
	disc, discCount := m.Disc()

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "Metadata Format: %v\n", m.Format())
	fmt.Fprintf(&buf, "File Type: %v\n", m.FileType())
	fmt.Fprintf(&buf, "Title: %v\n", m.Title())
	fmt.Fprintf(&buf, "Album: %v\n", m.Album())
	fmt.Fprintf(&buf, "Artist: %v\n", m.Artist())
	fmt.Fprintf(&buf, "Composer: %v\n", m.Composer())
	fmt.Fprintf(&buf, "Genre: %v\n", m.Genre())
	fmt.Fprintf(&buf, "Year: %v\n", m.Year())
	fmt.Fprintf(&buf, "Track: %v of %v\n", track, trackCount)
	fmt.Fprintf(&buf, "Disc: %v of %v\n", disc, discCount)
	fmt.Fprintf(&buf, "Comment: %v\n", m.Comment())
	fmt.Fprintf(&buf, "Lyrics: %v\n", m.Lyrics())
	return buf.String()
}

// sniff reads just enough of r to determine its container format and
// returns the FileType and metadata Format, seeking r back to the start.
// Identify uses it; ReadFrom does not call sniff and has its own copy of
// the same signature switch.
func sniff(r io.ReadSeeker) (FileType, Format, error) {
	b, err := readBytes(r, 28)
	if err != nil {
		if _, serr := r.Seek(0, io.SeekStart); serr != nil {
			return UnknownFileType, "", serr
		}
		return UnknownFileType, "", err
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return UnknownFileType, "", err
	}

	switch {
	case string(b[0:4]) == "fLaC":
		return FLAC, VORBIS, nil

	case string(b[0:4]) == "OggS":
		return OGG, VORBIS, nil

	case len(b) >= 11 && string(b[4:11]) == "ftypM4A":
		return MP4, "MP4", nil

	case string(b[0:4]) == "DSD ":
		return DSF, "", nil

	case string(b[0:3]) == "ID3":
		h, err := readID3v2Header(bytes.NewReader(b[0:10]))
		if err != nil {
			return UnknownFileType, "", err
		}
		return MP3, h.Version, nil
	}

	return UnknownFileType, ID3v1, nil
}

// Identify determines the FileType and metadata Format of r without fully
// decoding its tags. r is left positioned at the start on return.
func Identify(r io.ReadSeeker) (FileType, Format, error) {
	ft, format, err := sniff(r)
	if err != nil {
		return ft, format, err
	}
	if ft == UnknownFileType {
		if _, err := ReadID3v1Tags(r); err != nil {
			if _, serr := r.Seek(0, io.SeekStart); serr != nil {
				return ft, format, serr
			}
			if err == ErrNotID3v1 {
				return UnknownFileType, "", ErrNoTagsFound
			}
			return UnknownFileType, "", err
		}
		if _, serr := r.Seek(0, io.SeekStart); serr != nil {
			return ft, format, serr
		}
		return MP3, ID3v1, nil
	}
	return ft, format, nil
}

// ReadFrom parses audio file metadata tags (currently supports ID3v1,
// 2.{2,3,4}, MP4/M4A, FLAC, Ogg Vorbis, and DSF). This method attempts to
// determine the format of the data provided by the io.ReadSeeker, and then
// chooses ReadAtoms (MP4), ReadID3v2Tags (ID3v2.{2,3,4}), ReadFLACTags,
// ReadOGGTags, ReadDSFTags or ReadID3v1Tags as appropriate. Returns non-nil
// error if the format of the given data could not be determined, or if
// there was a problem parsing the data.
func ReadFrom(r io.ReadSeeker) (Metadata, error) {
	b, err := readBytes(r, 11)
	if err != nil {
		return nil, err
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	switch {
	case string(b[0:4]) == "fLaC":
		return ReadFLACTags(r)

	case string(b[0:4]) == "OggS":
		return ReadOGGTags(r)

	case string(b[4:11]) == "ftypM4A":
		return ReadAtoms(r)

	case string(b[0:4]) == "DSD ":
		return ReadDSFTags(r)

	case string(b[0:3]) == "ID3":
		return ReadID3v2Tags(r)
	}

	m, err := ReadID3v1Tags(r)
	if err != nil {
		if err == ErrNotID3v1 {
			err = ErrNoTagsFound
		}
		return nil, err
	}
	return m, nil
}

// Extract the tag created with MusicBrainz Picard.
// You can use them with the MusicBrainz and LastFM API
// See https://picard.musicbrainz.org/docs/mappings/ for the mappings
func MusicBrainz(m *Metadata) (mb *MBInfo) {
	txxx := "TXXX"
	ufid := "UFID"
	raw := (*m).Raw()
	mb = new(MBInfo)

	for k, v := range raw {
		var frame, value string
		switch (*m).Format() {
		case ID3v2_2:
			txxx = "TXX"
			ufid = "UFI"
			fallthrough
		case ID3v2_3, ID3v2_4:
			switch k[0:len(txxx)] {
			case txxx:
				if str, ok := v.(*Comm); ok {
					frame = str.Description
					value = str.Text
				}
			case ufid:
				if str, ok := v.(*UFID); ok {
					if str.Provider == "http://musicbrainz.org" {
						value = string(str.Identifier)
						frame = "MusicBrainz Track Id"
					}
				}
			}
		case MP4, VORBIS, FLAC:
			if str, ok := v.(string); ok {
				frame = k
				value = str
			}
		}

		switch frame {
		case "Acoustid Id", "acoustid_id":
			mb.Acoustid = value
		case "MusicBrainz Album Artist Id", "musicbrainz_albumartistid":
			mb.AlbumArtist = value
		case "MusicBrainz Artist Id", "musicbrainz_artistid":
			mb.Artist = value
		case "MusicBrainz Release Group Id", "musicbrainz_releasegroupid":
			mb.ReleaseGroup = value
		case "MusicBrainz Album Id", "musicbrainz_albumid":
			mb.Album = value
		case "MusicBrainz Track Id", "musicbrainz_trackid":
			mb.Track = value
		}
	}
	return
}

type MBInfo struct {
	AlbumArtist  string `musicbrainz:"musicbrainz_albumartistid"`
	Album        string `musicbrainz:"musicbrainz_albumid"`
	Artist       string `musicbrainz:"musicbrainz_artistid"`
	ReleaseGroup string `musicbrainz:"musicbrainz_releasegroupid"`
	Track        string `musicbrainz:"musicbrainz_recordingid"`
	Acoustid     string `musicbrainz:"acoustid_id"`
}

// Format is an enumeration of metadata types supported by this package.
type Format string

const (
	ID3v1   Format = "ID3v1"   // ID3v1 tag format.
	ID3v2_2        = "ID3v2.2" // ID3v2.2 tag format.
	ID3v2_3        = "ID3v2.3" // ID3v2.3 tag format (most common).
	ID3v2_4        = "ID3v2.4" // ID3v2.4 tag format.
	MP4            = "MP4"     // MP4 tag (atom) format.
	VORBIS         = "VORBIS"  // Vorbis Comment tag format.
)

// FileType is an enumeration of the audio file types supported by this package, in particular
// there are audio file types which share metadata formats, and this type is used to distinguish
// between them.
type FileType string

const (
	UnknownFileType FileType = ""      // File type could not be determined.
	MP3             FileType = "MP3"   // MP3 file
	AAC                      = "AAC"   // M4A file (MP4)
	ALAC                     = "ALAC"  // Apple Lossless file
	FLAC                     = "FLAC"  // FLAC file
	OGG                      = "OGG"   // OGG file
	DSF                      = "DSF"   // DSD Stream File, ID3v2 tag embedded in a DSD chunk
)

// Metadata is an interface which is used to describe metadata retrieved by this package.
type Metadata interface {
	// Format returns the metadata Format used to encode the data.
	Format() Format

	// FileType returns the file type of the audio file.
	FileType() FileType

	// Title returns the title of the track.
	Title() string

	// Album returns the album name of the track.
	Album() string

	// Artist returns the artist name of the track.
	Artist() string

	// AlbumArtist returns the album artist name of the track.
	AlbumArtist() string

	// Composer returns the composer of the track.
	Composer() string

	// Year returns the year of the track.
	Year() int

	// Genre returns the genre of the track.
	Genre() string

	// Track returns the track number and total tracks, or zero values if unavailable.
	Track() (int, int)

	// Disc returns the disc number and total discs, or zero values if unavailable.
	Disc() (int, int)

	// Picture returns a picture, or nil if not available.
	Picture() *Picture

	// Lyrics returns the lyrics, or an empty string if unavailable.
	Lyrics() string

	// Comment returns the comment, or an empty string if unavailable.
	Comment() string

	// Raw returns the raw mapping of retrieved tag names and associated values.
	// NB: tag/atom names are not standardised between formats.
	Raw() map[string]interface{}

	// Pprint returns a human-readable multi-line summary of the metadata.
	Pprint() string

	// Save writes the metadata back to its underlying file. Not implemented:
	// always returns ErrSaveNotSupported.
	Save() error
}
