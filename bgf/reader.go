package bgf

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

type header struct {
	Magic        [4]byte
	Version      int32
	Name         [nameLength]byte
	Bitmaps      int32
	Groups       int32
	MaxIndices   int32
	ShrinkFactor int32
}

type bitmapHeader struct {
	Width    int32
	Height   int32
	X        int32
	Y        int32
	Hotspots uint8
}

type hotspot struct {
	Number int8
	X      int32
	Y      int32
}

type dataHeader struct {
	Compression uint8
	Length      int32
}

func read(r io.Reader, v interface{}) error {
	err := binary.Read(r, binary.LittleEndian, v)
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return errNotEnough
	}
	return err
}

type decoder struct {
	r io.Reader
	b BGF
}

func (d *decoder) readHeader() (int, int, error) {
	var h header
	if err := read(d.r, &h); err != nil {
		return 0, 0, err
	}

	if h.Magic != magic {
		return 0, 0, errBadMagic
	}

	i := bytes.IndexByte(h.Name[:], 0)
	if i < 0 {
		return 0, 0, errBadName
	}

	if h.Bitmaps < 0 || h.Groups < 0 {
		return 0, 0, errBadLength
	}

	d.b.Version = h.Version
	d.b.Name = string(h.Name[:i])
	d.b.MaxIndices = h.MaxIndices
	d.b.ShrinkFactor = h.ShrinkFactor

	return int(h.Bitmaps), int(h.Groups), nil
}

func (d *decoder) readBitmap() (Bitmap, error) {
	var bh bitmapHeader
	if err := read(d.r, &bh); err != nil {
		return Bitmap{}, err
	}

	b := Bitmap{
		Width:  bh.Width,
		Height: bh.Height,
		Offset: Point{bh.X, bh.Y},
	}

	if bh.Hotspots > 0 {
		hotspots := make([]hotspot, bh.Hotspots)
		if err := read(d.r, hotspots); err != nil {
			return Bitmap{}, err
		}
		b.Hotspots = make([]Hotspot, len(hotspots))
		for i, h := range hotspots {
			b.Hotspots[i] = Hotspot{h.Number, Point{h.X, h.Y}}
		}
	}

	var dh dataHeader
	if err := read(d.r, &dh); err != nil {
		return Bitmap{}, err
	}

	switch c := Compression(dh.Compression); c {
	case None, Zlib:
		b.Compression = c
	default:
		return Bitmap{}, fmt.Errorf("%w: %d", errBadCompression, dh.Compression)
	}

	if dh.Length < 0 {
		return Bitmap{}, errBadLength
	}

	// Grow as the data arrives rather than trusting the length up front
	buf := new(bytes.Buffer)
	if _, err := io.CopyN(buf, d.r, int64(dh.Length)); err != nil {
		if err == io.EOF {
			return Bitmap{}, errNotEnough
		}
		return Bitmap{}, err
	}
	b.Data = buf.Bytes()

	return b, nil
}

func (d *decoder) readGroup() (Group, error) {
	var n int32
	if err := read(d.r, &n); err != nil {
		return Group{}, err
	}
	if n < 0 {
		return Group{}, errBadLength
	}

	var g Group
	for i := int32(0); i < n; i++ {
		var index int32
		if err := read(d.r, &index); err != nil {
			return Group{}, err
		}
		if index > d.b.MaxIndices {
			return Group{}, errBadGroup
		}
		g.Indices = append(g.Indices, index)
	}

	return g, nil
}

func (d *decoder) decode(r io.Reader) error {
	d.r = r

	bitmaps, groups, err := d.readHeader()
	if err != nil {
		return err
	}

	for i := 0; i < bitmaps; i++ {
		b, err := d.readBitmap()
		if err != nil {
			return err
		}
		d.b.Bitmaps = append(d.b.Bitmaps, b)
	}

	for i := 0; i < groups; i++ {
		g, err := d.readGroup()
		if err != nil {
			return err
		}
		d.b.Groups = append(d.b.Groups, g)
	}

	return nil
}

// Decode reads a BGF container from r.
func Decode(r io.Reader) (*BGF, error) {
	var d decoder
	if err := d.decode(r); err != nil {
		return nil, err
	}
	return &d.b, nil
}
