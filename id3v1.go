// Copyright 2015, David Howden
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tag

import (
	"errors"
	"io"
	"regexp"
	"strconv"
	"strings"
)

// ErrNotID3v1 is the error returned by ReadID3v1Tags when the given reader
// does not hold a 128-byte ID3v1 trailer.
var ErrNotID3v1 = errors.New("not ID3v1")

// metadataID3v1 is the Metadata implementation for the 128-byte ID3v1
// trailer appended to a file.
type metadataID3v1 struct {
	title, artist, album, comment, year string
	genre                                byte
	track                                int
}

// ReadID3v1Tags parses an ID3v1 (or ID3v1.1) tag from the last 128 bytes of
// r, returning ErrNotID3v1 if no "TAG" marker is found there.
func ReadID3v1Tags(r io.ReadSeeker) (Metadata, error) {
	if _, err := r.Seek(-128, io.SeekEnd); err != nil {
		return nil, ErrNotID3v1
	}

	b, err := readBytes(r, 128)
	if err != nil {
		return nil, err
	}

	if string(b[0:3]) != "TAG" {
		return nil, ErrNotID3v1
	}

	m := &metadataID3v1{
		title:  trimString(string(b[3:33])),
		artist: trimString(string(b[33:63])),
		album:  trimString(string(b[63:93])),
		year:   trimString(string(b[93:97])),
		genre:  b[127],
	}

	// ID3v1.1: a zero byte at comment[28] (absolute offset 125) marks the
	// following byte (offset 126) as a track number, shrinking the usable
	// comment to its first 28 bytes.
	comment := b[97:127]
	if comment[28] == 0 {
		m.track = int(comment[29])
		comment = comment[:28]
	}
	m.comment = trimString(string(comment))

	return m, nil
}

func (m *metadataID3v1) Format() Format     { return ID3v1 }
func (m *metadataID3v1) FileType() FileType { return MP3 }

func (m *metadataID3v1) Raw() map[string]interface{} {
	return map[string]interface{}{
		"title":   m.title,
		"artist":  m.artist,
		"album":   m.album,
		"year":    m.year,
		"comment": m.comment,
		"genre":   m.genre,
		"track":   m.track,
	}
}

func (m *metadataID3v1) Title() string       { return m.title }
func (m *metadataID3v1) Artist() string      { return m.artist }
func (m *metadataID3v1) Album() string       { return m.album }
func (m *metadataID3v1) AlbumArtist() string { return "" }
func (m *metadataID3v1) Composer() string    { return "" }
func (m *metadataID3v1) Comment() string     { return m.comment }
func (m *metadataID3v1) Lyrics() string      { return "" }
func (m *metadataID3v1) Picture() *Picture   { return nil }

func (m *metadataID3v1) Genre() string {
	return id3v1Genres[int(m.genre)]
}

func (m *metadataID3v1) Year() int {
	y, _ := strconv.Atoi(m.year)
	return y
}

func (m *metadataID3v1) Track() (int, int) {
	return m.track, 0
}

func (m *metadataID3v1) Disc() (int, int) {
	return 0, 0
}

func (m *metadataID3v1) Pprint() string { return pprint(m) }
func (m *metadataID3v1) Save() error    { return ErrSaveNotSupported }

// trimString strips the trailing NUL padding and whitespace fixed-width
// ID3v1 fields are stored with.
func trimString(s string) string {
	return strings.TrimRight(strings.TrimRight(s, "\x00"), " ")
}

var genreRefPattern = regexp.MustCompile(`\((\d+)\)`)

// id3v2genre expands ID3v2 "(NN)" parenthetical genre references (and the
// "((" escape for a literal opening paren) against the ID3v1 genre table,
// joining the expanded and literal text segments with a single space.
func id3v2genre(s string) string {
	s = strings.ReplaceAll(s, "((", "\x00")

	var tokens []string
	last := 0
	for _, loc := range genreRefPattern.FindAllStringSubmatchIndex(s, -1) {
		if loc[0] > last {
			tokens = append(tokens, strings.TrimSpace(s[last:loc[0]]))
		}

		idx, _ := strconv.Atoi(s[loc[2]:loc[3]])
		if name, ok := id3v1Genres[idx]; ok {
			tokens = append(tokens, name)
		} else {
			tokens = append(tokens, s[loc[0]:loc[1]])
		}
		last = loc[1]
	}
	if last < len(s) {
		tokens = append(tokens, strings.TrimSpace(s[last:]))
	}

	nonEmpty := tokens[:0]
	for _, t := range tokens {
		if t != "" {
			nonEmpty = append(nonEmpty, t)
		}
	}

	result := strings.Join(nonEmpty, " ")
	return strings.ReplaceAll(result, "\x00", "(")
}

// id3v1Genres is the standard ID3v1 genre table, extended with the de facto
// Winamp additions (indices 80-191) that ID3v2 "(NN)" references also use.
var id3v1Genres = map[int]string{
	0:   "Blues",
	1:   "Classic Rock",
	2:   "Country",
	3:   "Dance",
	4:   "Disco",
	5:   "Funk",
	6:   "Grunge",
	7:   "Hip-Hop",
	8:   "Jazz",
	9:   "Metal",
	10:  "New Age",
	11:  "Oldies",
	12:  "Other",
	13:  "Pop",
	14:  "R&B",
	15:  "Rap",
	16:  "Reggae",
	17:  "Rock",
	18:  "Techno",
	19:  "Industrial",
	20:  "Alternative",
	21:  "Ska",
	22:  "Death Metal",
	23:  "Pranks",
	24:  "Soundtrack",
	25:  "Euro-Techno",
	26:  "Ambient",
	27:  "Trip-Hop",
	28:  "Vocal",
	29:  "Jazz+Funk",
	30:  "Fusion",
	31:  "Trance",
	32:  "Classical",
	33:  "Instrumental",
	34:  "Acid",
	35:  "House",
	36:  "Game",
	37:  "Sound Clip",
	38:  "Gospel",
	39:  "Noise",
	40:  "AlternRock",
	41:  "Bass",
	42:  "Soul",
	43:  "Punk",
	44:  "Space",
	45:  "Meditative",
	46:  "Instrumental Pop",
	47:  "Instrumental Rock",
	48:  "Ethnic",
	49:  "Gothic",
	50:  "Darkwave",
	51:  "Techno-Industrial",
	52:  "Electronic",
	53:  "Pop-Folk",
	54:  "Eurodance",
	55:  "Dream",
	56:  "Southern Rock",
	57:  "Comedy",
	58:  "Cult",
	59:  "Gangsta",
	60:  "Top 40",
	61:  "Christian Rap",
	62:  "Pop/Funk",
	63:  "Jungle",
	64:  "Native American",
	65:  "Cabaret",
	66:  "New Wave",
	67:  "Psychedelic",
	68:  "Rave",
	69:  "Showtunes",
	70:  "Trailer",
	71:  "Lo-Fi",
	72:  "Tribal",
	73:  "Acid Punk",
	74:  "Acid Jazz",
	75:  "Polka",
	76:  "Retro",
	77:  "Musical",
	78:  "Rock & Roll",
	79:  "Hard Rock",
	80:  "Folk",
	81:  "Folk-Rock",
	82:  "National Folk",
	83:  "Swing",
	84:  "Fast Fusion",
	85:  "Bebop",
	86:  "Latin",
	87:  "Revival",
	88:  "Celtic",
	89:  "Bluegrass",
	90:  "Avantgarde",
	91:  "Gothic Rock",
	92:  "Progressive Rock",
	93:  "Psychedelic Rock",
	94:  "Symphonic Rock",
	95:  "Slow Rock",
	96:  "Big Band",
	97:  "Chorus",
	98:  "Easy Listening",
	99:  "Acoustic",
	100: "Humour",
	101: "Speech",
	102: "Chanson",
	103: "Opera",
	104: "Chamber Music",
	105: "Sonata",
	106: "Symphony",
	107: "Booty Bass",
	108: "Primus",
	109: "Porn Groove",
	110: "Satire",
	111: "Slow Jam",
	112: "Club",
	113: "Tango",
	114: "Samba",
	115: "Folklore",
	116: "Ballad",
	117: "Power Ballad",
	118: "Rhythmic Soul",
	119: "Freestyle",
	120: "Duet",
	121: "Punk Rock",
	122: "Drum Solo",
	123: "A Cappella",
	124: "Euro-House",
	125: "Dance Hall",
	126: "Goa",
	127: "Drum & Bass",
	128: "Club-House",
	129: "Hardcore",
	130: "Terror",
	131: "Indie",
	132: "BritPop",
	133: "Afro-Punk",
	134: "Polsk Punk",
	135: "Beat",
	136: "Christian Gangsta Rap",
	137: "Heavy Metal",
	138: "Black Metal",
	139: "Crossover",
	140: "Contemporary Christian",
	141: "Christian Rock",
	142: "Merengue",
	143: "Salsa",
	144: "Thrash Metal",
	145: "Anime",
	146: "JPop",
	147: "Synthpop",
	148: "Abstract",
	149: "Art Rock",
	150: "Baroque",
	151: "Bhangra",
	152: "Big Beat",
	153: "Breakbeat",
	154: "Chillout",
	155: "Downtempo",
	156: "Dub",
	157: "EBM",
	158: "Eclectic",
	159: "Electro",
	160: "Electroclash",
	161: "Emo",
	162: "Experimental",
	163: "Garage",
	164: "Global",
	165: "IDM",
	166: "Illbient",
	167: "Industro-Goth",
	168: "Jam Band",
	169: "Krautrock",
	170: "Leftfield",
	171: "Lounge",
	172: "Math Rock",
	173: "New Romantic",
	174: "Nu-Breakz",
	175: "Post-Punk",
	176: "Post-Rock",
	177: "Psytrance",
	178: "Shoegaze",
	179: "Space Rock",
	180: "Trop Rock",
	181: "World Music",
	182: "Neoclassical",
	183: "Audiobook",
	184: "Audio Theatre",
	185: "Neue Deutsche Welle",
	186: "Podcast",
	187: "Indie Rock",
	188: "G-Funk",
	189: "Dubstep",
	190: "Garage Rock",
	191: "Psybient",
}
