/*
Package bgf implements a decoder and encoder for BGF sprite containers.

A container holds a name, a list of bitmaps and a list of index groups. Each
bitmap is a block of 8-bit indices into the fixed 256 color palette, along
with an offset and a list of numbered hotspots. The pixel data may be stored
as is or compressed with zlib.

All integers are stored little-endian. The file starts with the magic bytes
"BGF\x11", a version, a 32 byte NUL terminated name and the counts of bitmaps
and index groups, followed by the bitmaps and then the index groups.
*/
package bgf

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// Version is the format version written by Encode
	Version = 10

	// MaxNameLength is the longest name that can be stored, excluding the
	// terminating NUL
	MaxNameLength = nameLength - 1

	// MaxHotspots is the largest number of hotspots a bitmap can have
	MaxHotspots = 255

	nameLength = 32
)

var magic = [4]byte{'B', 'G', 'F', 0x11}

var (
	errBadMagic       = errors.New("bgf: invalid magic number")
	errNotEnough      = errors.New("bgf: not enough data")
	errBadCompression = errors.New("bgf: invalid compression")
	errBadName        = errors.New("bgf: invalid name")
	errBadGroup       = errors.New("bgf: group index exceeds max indices")
	errBadLength      = errors.New("bgf: invalid length")
	errTooMany        = errors.New("bgf: too many hotspots")
	errWrongSize      = errors.New("bgf: pixel data is wrong size")
)

// Compression is the storage method of the pixel data of a bitmap.
type Compression uint8

// Supported compression methods
const (
	None Compression = iota
	Zlib
)

var compressionNames = [...]string{
	None: "none",
	Zlib: "zlib",
}

func (c Compression) String() string {
	if int(c) >= len(compressionNames) {
		return fmt.Sprintf("Compression(%d)", uint8(c))
	}
	return compressionNames[c]
}

// ParseCompression returns the Compression with the given name.
func ParseCompression(s string) (Compression, error) {
	for i, name := range compressionNames {
		if strings.EqualFold(name, strings.TrimSpace(s)) {
			return Compression(i), nil
		}
	}
	return None, fmt.Errorf("%w: %q", errBadCompression, s)
}

// MarshalText implements encoding.TextMarshaler.
func (c Compression) MarshalText() ([]byte, error) {
	if int(c) >= len(compressionNames) {
		return nil, fmt.Errorf("%w: %d", errBadCompression, uint8(c))
	}
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Compression) UnmarshalText(b []byte) error {
	v, err := ParseCompression(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// Point is a position relative to the top-left corner of a bitmap.
type Point struct {
	X, Y int32
}

// Hotspot is a numbered position within a bitmap.
type Hotspot struct {
	Number   int8
	Position Point
}

// Bitmap is a single indexed image in a container. Data holds the pixel
// data as stored, which is compressed if Compression is Zlib.
type Bitmap struct {
	Width       int32
	Height      int32
	Offset      Point
	Hotspots    []Hotspot
	Compression Compression
	Data        []byte
}

// Group is a list of bitmap indices.
type Group struct {
	Indices []int32
}

// BGF is a decoded container.
type BGF struct {
	// Version is the version read from the file. Encode always writes
	// the current Version.
	Version int32
	Name    string
	Bitmaps []Bitmap
	Groups  []Group

	// MaxIndices is the value read from the file. Encode computes it
	// from Groups.
	MaxIndices   int32
	ShrinkFactor int32
}

// maxIndices returns the length of the longest group.
func (b *BGF) maxIndices() int32 {
	var n int32
	for _, g := range b.Groups {
		n = max(n, int32(len(g.Indices)))
	}
	return n
}
