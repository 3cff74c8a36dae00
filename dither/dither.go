/*
Package dither converts continuous color images into indexed pixel data
against the fixed BGF palette.

Two families of method are supported. The noise based methods (None, R2 and
PCG) perturb each pixel independently before choosing the nearest palette
entry, so rows are converted concurrently. The error diffusion methods
carry the quantization error of each pixel forward to its unvisited
neighbors and so visit pixels strictly in raster order on a single
goroutine.

In every method a pixel becomes transparent, palette index 254, when its
alpha is below the transparency clip or its color is the transparent marker.
The noise based methods test the source color; the error diffusion methods
test the color after the accumulated error has been added.
*/
package dither

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"runtime"

	"github.com/bodgit/bgftool/palette"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrConfiguration is returned for invalid options, including noise
	// that cannot cover every pixel of the image
	ErrConfiguration = errors.New("dither: invalid configuration")

	// ErrIndexOutOfRange is returned when a noise sample is requested
	// beyond those that were generated
	ErrIndexOutOfRange = errors.New("dither: noise index out of range")

	// ErrInvalidColor is returned when a channel is NaN or infinite
	ErrInvalidColor = errors.New("dither: invalid color value")
)

// Options controls a conversion.
type Options struct {
	// Method selects the dithering strategy
	Method Method

	// TransparencyClip is the alpha value, between 0 and 1, below which
	// a pixel is made transparent
	TransparencyClip float32

	// Seed seeds the PCG noise generator
	Seed uint64

	// R2Seed offsets the R2 sequence
	R2Seed float64

	// Workers limits the number of goroutines used by the noise based
	// methods. Zero means runtime.GOMAXPROCS(0).
	Workers int
}

func (o Options) validate() error {
	if !o.Method.valid() {
		return fmt.Errorf("%w: unknown method %d", ErrConfiguration, int(o.Method))
	}
	if math.IsNaN(float64(o.TransparencyClip)) || o.TransparencyClip < 0 || o.TransparencyClip > 1 {
		return fmt.Errorf("%w: transparency clip %v outside [0, 1]", ErrConfiguration, o.TransparencyClip)
	}
	if math.IsNaN(o.R2Seed) || math.IsInf(o.R2Seed, 0) {
		return fmt.Errorf("%w: R2 seed %v", ErrConfiguration, o.R2Seed)
	}
	if o.Workers < 0 {
		return fmt.Errorf("%w: %d workers", ErrConfiguration, o.Workers)
	}
	return nil
}

func (o Options) workers() int {
	if o.Workers > 0 {
		return o.Workers
	}
	return runtime.GOMAXPROCS(0)
}

// Noise returns the noise source for o.Method sized for count pixels. The
// error diffusion methods use no noise.
func (o Options) Noise(count int) *Noise {
	switch o.Method {
	case R2:
		return NewR2(o.R2Seed)
	case PCG:
		return NewPCG(o.Seed, count)
	default:
		return NoNoise()
	}
}

// Dither converts m into one palette index per pixel in row-major order.
// An image with no pixels yields an empty slice. On error no pixel data is
// returned.
func Dither(m *Image, opts Options) ([]byte, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if kernel, ok := opts.Method.Kernel(); ok {
		return diffuse(m, kernel, opts.TransparencyClip)
	}
	return DitherNoise(m, opts.Noise(m.Width*m.Height), opts)
}

// DitherNoise converts m using the noise source n, ignoring opts.Method.
// This allows one precomputed source to be shared between conversions of
// images no larger than it covers.
func DitherNoise(m *Image, n *Noise, opts Options) ([]byte, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if n == nil {
		n = NoNoise()
	}
	if m.Width <= 0 || m.Height <= 0 {
		return []byte{}, nil
	}
	if !n.Covers(m.Width * m.Height) {
		return nil, fmt.Errorf("%w: noise has %d samples for %d pixels", ErrConfiguration, len(n.samples), m.Width*m.Height)
	}

	out := make([]byte, m.Width*m.Height)

	workers := opts.workers()
	if workers > m.Height {
		workers = m.Height
	}
	rows := (m.Height + workers - 1) / workers

	// Each goroutine owns a disjoint band of rows in out
	g := new(errgroup.Group)
	for y0 := 0; y0 < m.Height; y0 += rows {
		y0, y1 := y0, y0+rows
		if y1 > m.Height {
			y1 = m.Height
		}
		g.Go(func() error {
			for i := y0 * m.Width; i < y1*m.Width; i++ {
				idx, err := noisePixel(m, n, i, opts.TransparencyClip)
				if err != nil {
					return err
				}
				out[i] = idx
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return out, nil
}

func noisePixel(m *Image, n *Noise, i int, clip float32) (uint8, error) {
	o := i * channels
	c := [channels]float32{m.Pix[o], m.Pix[o+1], m.Pix[o+2], m.Pix[o+3]}
	if err := checkFinite(c, i, m.Width); err != nil {
		return 0, err
	}
	if transparent(c, clip) {
		return palette.TransparentIndex, nil
	}
	s, err := n.At(i)
	if err != nil {
		return 0, err
	}
	idx, _ := palette.FindClosest(toRGBA(perturb(c, s)))
	return uint8(idx), nil
}

func diffuse(m *Image, kernel Kernel, clip float32) ([]byte, error) {
	if m.Width <= 0 || m.Height <= 0 {
		return []byte{}, nil
	}

	out := make([]byte, m.Width*m.Height)
	acc := make([]float32, len(out)*channels)

	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			i := y*m.Width + x
			o := i * channels

			var c [channels]float32
			for j := range c {
				c[j] = m.Pix[o+j] + acc[o+j]
			}
			if err := checkFinite(c, i, m.Width); err != nil {
				return nil, err
			}

			// Transparent pixels carry no error forward
			if transparent(c, clip) {
				out[i] = palette.TransparentIndex
				continue
			}

			idx, p := palette.FindClosest(toRGBA(c))
			out[i] = uint8(idx)

			var qe [channels]float32
			qe[0] = c[0] - float32(p.R)/0xff
			qe[1] = c[1] - float32(p.G)/0xff
			qe[2] = c[2] - float32(p.B)/0xff
			qe[3] = c[3] - 1

			for _, e := range kernel {
				nx, ny := x+e.DX, y+e.DY
				if nx < 0 || nx >= m.Width || ny < 0 || ny >= m.Height {
					continue
				}
				no := (ny*m.Width + nx) * channels
				for j := range qe {
					acc[no+j] += e.Weight * qe[j]
				}
			}
		}
	}

	return out, nil
}

func checkFinite(c [channels]float32, i, width int) error {
	for _, v := range c {
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			return fmt.Errorf("%w: pixel (%d, %d) is %v", ErrInvalidColor, i%width, i/width, c)
		}
	}
	return nil
}

// toByte maps a normalized channel to 8 bits, clamping values outside the
// range 0 to 1.
func toByte(v float32) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 0xff
	}
	return uint8(v*0xff + 0.5)
}

func toRGBA(c [channels]float32) color.RGBA {
	return color.RGBA{toByte(c[0]), toByte(c[1]), toByte(c[2]), 0xff}
}

func transparent(c [channels]float32, clip float32) bool {
	if c[3] < clip {
		return true
	}
	return toRGBA(c) == palette.TransparentColor
}
