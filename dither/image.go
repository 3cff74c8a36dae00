package dither

import (
	"image"
	"image/color"
)

const channels = 4

// Image is a continuous color image. Each pixel is stored as four
// non-premultiplied float32 channels in R, G, B, A order, normalized to the
// range 0 to 1, with pixels laid out row by row.
type Image struct {
	Pix    []float32
	Width  int
	Height int
}

// NewImage returns a fully transparent black Image of the given size.
func NewImage(width, height int) *Image {
	if width < 0 || height < 0 {
		width, height = 0, 0
	}
	return &Image{
		Pix:    make([]float32, width*height*channels),
		Width:  width,
		Height: height,
	}
}

// FromImage converts m into a continuous Image with its top-left corner at
// (0, 0).
func FromImage(m image.Image) *Image {
	b := m.Bounds()
	dst := NewImage(b.Dx(), b.Dy())
	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBA64Model.Convert(m.At(x, y)).(color.NRGBA64)
			dst.Pix[i+0] = float32(c.R) / 0xffff
			dst.Pix[i+1] = float32(c.G) / 0xffff
			dst.Pix[i+2] = float32(c.B) / 0xffff
			dst.Pix[i+3] = float32(c.A) / 0xffff
			i += channels
		}
	}
	return dst
}

// PixOffset returns the index of the first element of Pix that corresponds
// to the pixel at (x, y).
func (m *Image) PixOffset(x, y int) int {
	return (y*m.Width + x) * channels
}

// Pixel returns the channels of the pixel at (x, y).
func (m *Image) Pixel(x, y int) [4]float32 {
	i := m.PixOffset(x, y)
	return [4]float32{m.Pix[i], m.Pix[i+1], m.Pix[i+2], m.Pix[i+3]}
}

// SetPixel sets the channels of the pixel at (x, y).
func (m *Image) SetPixel(x, y int, c [4]float32) {
	i := m.PixOffset(x, y)
	copy(m.Pix[i:i+channels], c[:])
}

// SetColor sets the pixel at (x, y) from an 8-bit color.
func (m *Image) SetColor(x, y int, c color.Color) {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	m.SetPixel(x, y, [4]float32{
		float32(n.R) / 0xff,
		float32(n.G) / 0xff,
		float32(n.B) / 0xff,
		float32(n.A) / 0xff,
	})
}
