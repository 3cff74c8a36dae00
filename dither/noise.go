package dither

import (
	"fmt"
	"math"
	"math/rand/v2"
)

type noiseKind int

const (
	noiseNone noiseKind = iota
	noiseR2
	noisePCG
)

// Noise generates a per-pixel perturbation for the noise based dithering
// methods. The RGB channels of each sample lie in [-1, 1) and the alpha
// channel in [0, 1).
//
// A Noise is read-only once constructed and may be shared between
// goroutines.
type Noise struct {
	kind noiseKind

	// R2 state
	seed  float64
	alpha [channels]float64

	// PCG state
	samples [][channels]float32
}

// NoNoise returns a Noise that always yields the zero vector.
func NoNoise() *Noise {
	return &Noise{kind: noiseNone}
}

// phi returns the generalized golden ratio for d dimensions, the positive
// root of x^(d+1) = x + 1.
func phi(d int) float64 {
	x := 2.0
	for i := 0; i < 10; i++ {
		x = math.Pow(1+x, 1/float64(d+1))
	}
	return x
}

// frac returns the fractional part of x in [0, 1), also for negative x.
func frac(x float64) float64 {
	return x - math.Floor(x)
}

// NewR2 returns a Noise backed by the R2 additive recurrence, a low
// discrepancy sequence. Samples are a pure function of the pixel index.
func NewR2(seed float64) *Noise {
	n := &Noise{kind: noiseR2, seed: seed}
	g := phi(channels)
	for i := range n.alpha {
		n.alpha[i] = frac(math.Pow(1/g, float64(i+1)))
	}
	return n
}

// NewPCG returns a Noise with count samples drawn up front from a PCG
// generator seeded with seed.
func NewPCG(seed uint64, count int) *Noise {
	if count < 0 {
		count = 0
	}
	r := rand.New(rand.NewPCG(seed, 0))
	n := &Noise{kind: noisePCG, samples: make([][channels]float32, count)}
	for i := range n.samples {
		for c := range n.samples[i] {
			if c == 3 {
				n.samples[i][c] = r.Float32()
			} else {
				n.samples[i][c] = r.Float32()*2 - 1
			}
		}
	}
	return n
}

// Covers reports whether the Noise can supply a sample for each of count
// pixels.
func (n *Noise) Covers(count int) bool {
	if n.kind != noisePCG {
		return true
	}
	return count <= len(n.samples)
}

// At returns the sample for the pixel with the zero-based index i.
func (n *Noise) At(i int) ([channels]float32, error) {
	var v [channels]float32
	switch n.kind {
	case noiseR2:
		k := float64(i + 1)
		for c, a := range n.alpha {
			f := frac(n.seed + a*k)
			if c == 3 {
				// Alpha stays positive so opaque pixels are never pushed
				// below the transparency clip
				v[c] = belowOne(float32(f))
			} else {
				v[c] = belowOne(float32(f*2 - 1))
			}
		}
	case noisePCG:
		if i < 0 || i >= len(n.samples) {
			return v, fmt.Errorf("%w: sample %d of %d", ErrIndexOutOfRange, i, len(n.samples))
		}
		v = n.samples[i]
	}
	return v, nil
}

// belowOne keeps v under 1 when rounding to float32 carried it up.
func belowOne(v float32) float32 {
	if v >= 1 {
		return math.Nextafter32(1, 0)
	}
	return v
}

// perturb scales each channel of c by its noise sample.
func perturb(c, n [channels]float32) [channels]float32 {
	for i := range c {
		c[i] += c[i] * n[i]
	}
	return c
}
