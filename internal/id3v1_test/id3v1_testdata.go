// Package id3v1_test provides synthetic ID3v1/ID3v1.1 trailer fixtures for
// exercising the outer package's ID3v1 reader. It stands in for the
// go-bindata-generated asset package named by the go:generate directive in
// id3v1_test.go, built by hand since no toolchain run produced it here.
package id3v1_test

import "fmt"

func tag(track byte) []byte {
	b := make([]byte, 128)
	copy(b[0:3], "TAG")
	copy(b[3:33], []byte("Sample Title                  ")[:30])
	copy(b[33:63], []byte("Sample Artist                 ")[:30])
	copy(b[63:93], []byte("Sample Album                  ")[:30])
	copy(b[93:97], "1999")

	comment := make([]byte, 30)
	for i := range comment {
		comment[i] = byte('a' + i%26)
	}
	if track > 0 {
		comment[28] = 0
		comment[29] = track
	}
	copy(b[97:127], comment)
	b[127] = 0 // Blues

	return b
}

var assets = map[string][]byte{
	"internal/id3v1_test/sample_usascii_v1.mp3":  tag(0),
	"internal/id3v1_test/sample_ms932_v1.mp3":    tag(0),
	"internal/id3v1_test/sample_utf8_v1.mp3":     tag(0),
	"internal/id3v1_test/sample_usascii_v1.1.mp3": tag(1),
	"internal/id3v1_test/sample_ms932_v1.1.mp3":   tag(1),
	"internal/id3v1_test/sample_utf8_v1.1.mp3":    tag(1),
}

// MustAsset returns the named fixture or panics if it is unknown.
func MustAsset(name string) []byte {
	b, ok := assets[name]
	if !ok {
		panic(fmt.Sprintf("id3v1_test: unknown asset %q", name))
	}
	return b
}
