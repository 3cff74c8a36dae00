package bgf

import (
	"bytes"
	"image"
	"io"

	"github.com/bodgit/bgftool/dither"
	"github.com/bodgit/bgftool/palette"
	"github.com/klauspost/compress/zlib"
)

// Options controls how an image is converted into a Bitmap.
type Options struct {
	Compression Compression
	Dither      dither.Options
}

// Pixels returns the uncompressed pixel data of the bitmap, one palette
// index per pixel in row-major order.
func (b *Bitmap) Pixels() ([]byte, error) {
	var pix []byte
	switch b.Compression {
	case None:
		pix = b.Data
	case Zlib:
		zr, err := zlib.NewReader(bytes.NewReader(b.Data))
		if err != nil {
			return nil, err
		}
		defer zr.Close()

		if pix, err = io.ReadAll(zr); err != nil {
			return nil, err
		}
	default:
		return nil, errBadCompression
	}

	if b.Width < 0 || b.Height < 0 || len(pix) != int(b.Width)*int(b.Height) {
		return nil, errWrongSize
	}

	return pix, nil
}

// SetPixels stores pix, one palette index per pixel, as the pixel data of
// the bitmap using compression c.
func (b *Bitmap) SetPixels(pix []byte, c Compression) error {
	if len(pix) != int(b.Width)*int(b.Height) {
		return errWrongSize
	}

	switch c {
	case None:
		b.Data = append([]byte(nil), pix...)
	case Zlib:
		buf := new(bytes.Buffer)
		zw, err := zlib.NewWriterLevel(buf, zlib.BestCompression)
		if err != nil {
			return err
		}
		if _, err := zw.Write(pix); err != nil {
			return err
		}
		if err := zw.Close(); err != nil {
			return err
		}
		b.Data = buf.Bytes()
	default:
		return errBadCompression
	}
	b.Compression = c

	return nil
}

// Image returns the bitmap as an image using the fixed palette. No
// dithering is involved in this direction.
func (b *Bitmap) Image() (*image.Paletted, error) {
	pix, err := b.Pixels()
	if err != nil {
		return nil, err
	}

	m := image.NewPaletted(image.Rect(0, 0, int(b.Width), int(b.Height)), palette.Colors())
	copy(m.Pix, pix)

	return m, nil
}

// NewBitmap converts m into a Bitmap, dithering it against the fixed
// palette.
func NewBitmap(m image.Image, opts Options) (*Bitmap, error) {
	pix, err := dither.Dither(dither.FromImage(m), opts.Dither)
	if err != nil {
		return nil, err
	}

	b := &Bitmap{
		Width:  int32(m.Bounds().Dx()),
		Height: int32(m.Bounds().Dy()),
	}
	if err := b.SetPixels(pix, opts.Compression); err != nil {
		return nil, err
	}

	return b, nil
}
