package dither

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromImage(t *testing.T) {
	src := image.NewNRGBA(image.Rect(10, 20, 12, 21))
	src.SetNRGBA(10, 20, color.NRGBA{0xff, 0x00, 0x00, 0xff})
	src.SetNRGBA(11, 20, color.NRGBA{0x00, 0xff, 0xff, 0x00})

	m := FromImage(src)
	assert.Equal(t, 2, m.Width)
	assert.Equal(t, 1, m.Height)
	assert.Len(t, m.Pix, 8)
	assert.Equal(t, [4]float32{1, 0, 0, 1}, m.Pixel(0, 0))
	assert.Equal(t, [4]float32{0, 1, 1, 0}, m.Pixel(1, 0))
}

func TestFromImagePremultiplied(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 1, 1))
	src.SetRGBA(0, 0, color.RGBA{0x80, 0x00, 0x00, 0x80})

	c := FromImage(src).Pixel(0, 0)
	assert.InDelta(t, 1.0, c[0], 0.01)
	assert.InDelta(t, 0.5, c[3], 0.01)
}

func TestImagePixels(t *testing.T) {
	m := NewImage(3, 2)
	assert.Len(t, m.Pix, 24)
	assert.Equal(t, 20, m.PixOffset(2, 1))

	m.SetPixel(2, 1, [4]float32{0.1, 0.2, 0.3, 0.4})
	assert.Equal(t, [4]float32{0.1, 0.2, 0.3, 0.4}, m.Pixel(2, 1))

	m.SetColor(0, 0, color.White)
	assert.Equal(t, [4]float32{1, 1, 1, 1}, m.Pixel(0, 0))

	assert.Empty(t, NewImage(-1, 4).Pix)
}
