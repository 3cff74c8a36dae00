package dither

// Entry is a single cell of an error diffusion kernel. The quantization error
// is multiplied by Weight and added to the pixel DX columns to the right and
// DY rows below the current one.
type Entry struct {
	Weight float32
	DX, DY int
}

// Kernel is an error diffusion kernel.
type Kernel []Entry

// Sum returns the total of all weights in the kernel.
func (k Kernel) Sum() float32 {
	var s float32
	for _, e := range k {
		s += e.Weight
	}
	return s
}

var (
	// FloydSteinbergKernel is the Floyd-Steinberg kernel
	FloydSteinbergKernel = Kernel{
		{7.0 / 16, 1, 0},
		{3.0 / 16, -1, 1},
		{5.0 / 16, 0, 1},
		{1.0 / 16, 1, 1},
	}

	// JarvisJudiceNinkeKernel is the Jarvis, Judice and Ninke kernel
	JarvisJudiceNinkeKernel = Kernel{
		{7.0 / 48, 1, 0},
		{5.0 / 48, 2, 0},
		{3.0 / 48, -2, 1},
		{5.0 / 48, -1, 1},
		{7.0 / 48, 0, 1},
		{5.0 / 48, 1, 1},
		{3.0 / 48, 2, 1},
		{1.0 / 48, -2, 2},
		{3.0 / 48, -1, 2},
		{5.0 / 48, 0, 2},
		{3.0 / 48, 1, 2},
		{1.0 / 48, 2, 2},
	}

	// StuckiKernel is the Stucki kernel
	StuckiKernel = Kernel{
		{8.0 / 42, 1, 0},
		{4.0 / 42, 2, 0},
		{2.0 / 42, -2, 1},
		{4.0 / 42, -1, 1},
		{8.0 / 42, 0, 1},
		{4.0 / 42, 1, 1},
		{2.0 / 42, 2, 1},
		{1.0 / 42, -2, 2},
		{2.0 / 42, -1, 2},
		{4.0 / 42, 0, 2},
		{2.0 / 42, 1, 2},
		{1.0 / 42, 2, 2},
	}

	// AtkinsonKernel is the Atkinson kernel. Unlike the others it does not
	// conserve error: only six eighths of it is diffused.
	AtkinsonKernel = Kernel{
		{1.0 / 8, 1, 0},
		{1.0 / 8, 2, 0},
		{1.0 / 8, -1, 1},
		{1.0 / 8, 0, 1},
		{1.0 / 8, 1, 1},
		{1.0 / 8, 0, 2},
	}

	// BurkesKernel is the Burkes kernel
	BurkesKernel = Kernel{
		{8.0 / 32, 1, 0},
		{4.0 / 32, 2, 0},
		{2.0 / 32, -2, 1},
		{4.0 / 32, -1, 1},
		{8.0 / 32, 0, 1},
		{4.0 / 32, 1, 1},
		{2.0 / 32, 2, 1},
	}

	// SierraKernel is the three row Sierra kernel
	SierraKernel = Kernel{
		{5.0 / 32, 1, 0},
		{3.0 / 32, 2, 0},
		{2.0 / 32, -2, 1},
		{4.0 / 32, -1, 1},
		{5.0 / 32, 0, 1},
		{4.0 / 32, 1, 1},
		{2.0 / 32, 2, 1},
		{2.0 / 32, -1, 2},
		{3.0 / 32, 0, 2},
		{2.0 / 32, 1, 2},
	}

	// TwoRowSierraKernel is the two row Sierra kernel
	TwoRowSierraKernel = Kernel{
		{4.0 / 16, 1, 0},
		{3.0 / 16, 2, 0},
		{1.0 / 16, -2, 1},
		{2.0 / 16, -1, 1},
		{3.0 / 16, 0, 1},
		{2.0 / 16, 1, 1},
		{1.0 / 16, 2, 1},
	}

	// SierraLiteKernel is the Sierra Lite kernel
	SierraLiteKernel = Kernel{
		{2.0 / 4, 1, 0},
		{1.0 / 4, -1, 1},
		{1.0 / 4, 0, 1},
	}
)
