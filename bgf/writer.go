package bgf

import (
	"encoding/binary"
	"io"
	"strings"
)

type encoder struct {
	w io.Writer
}

func (e *encoder) write(v interface{}) error {
	return binary.Write(e.w, binary.LittleEndian, v)
}

func (e *encoder) writeBitmap(b *Bitmap) error {
	if len(b.Hotspots) > MaxHotspots {
		return errTooMany
	}
	if b.Compression > Zlib {
		return errBadCompression
	}

	if err := e.write(bitmapHeader{
		Width:    b.Width,
		Height:   b.Height,
		X:        b.Offset.X,
		Y:        b.Offset.Y,
		Hotspots: uint8(len(b.Hotspots)),
	}); err != nil {
		return err
	}

	for _, h := range b.Hotspots {
		if err := e.write(hotspot{h.Number, h.Position.X, h.Position.Y}); err != nil {
			return err
		}
	}

	if err := e.write(dataHeader{uint8(b.Compression), int32(len(b.Data))}); err != nil {
		return err
	}

	_, err := e.w.Write(b.Data)
	return err
}

func (e *encoder) encode(b *BGF) error {
	if len(b.Name) > MaxNameLength || strings.IndexByte(b.Name, 0) >= 0 {
		return errBadName
	}

	h := header{
		Magic:        magic,
		Version:      Version,
		Bitmaps:      int32(len(b.Bitmaps)),
		Groups:       int32(len(b.Groups)),
		MaxIndices:   b.maxIndices(),
		ShrinkFactor: b.ShrinkFactor,
	}
	copy(h.Name[:], b.Name)

	if err := e.write(&h); err != nil {
		return err
	}

	for i := range b.Bitmaps {
		if err := e.writeBitmap(&b.Bitmaps[i]); err != nil {
			return err
		}
	}

	for _, g := range b.Groups {
		if err := e.write(int32(len(g.Indices))); err != nil {
			return err
		}
		if err := e.write(g.Indices); err != nil {
			return err
		}
	}

	return nil
}

// Encode writes b to w in BGF format.
func Encode(w io.Writer, b *BGF) error {
	e := encoder{w: w}

	return e.encode(b)
}
