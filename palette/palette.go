/*
Package palette implements the fixed 256 color palette used by BGF sprite
containers.

The palette is constant for the lifetime of the process. One slot, index 254,
is reserved for transparency and is never returned by a nearest color search.
Pixels are tested for transparency against a marker color of cyan (0, 255,
255) rather than the value stored in the table at that slot.
*/
package palette

import (
	"image"
	"image/color"
	"image/draw"
)

const (
	// Size is the number of entries in the palette
	Size = 256

	// TransparentIndex is the palette slot used for transparent pixels
	TransparentIndex = 254
)

// TransparentColor is the marker color that is treated as transparent
var TransparentColor = color.RGBA{0x00, 0xff, 0xff, 0xff}

var table = [Size][3]uint8{
	{0, 0, 0}, {128, 0, 0}, {0, 128, 0}, {128, 128, 0},
	{0, 0, 128}, {128, 0, 128}, {0, 128, 128}, {192, 192, 192},
	{128, 0, 0}, {0, 128, 0}, {128, 0, 0}, {0, 128, 0},
	{128, 0, 0}, {0, 128, 0}, {128, 0, 0}, {0, 128, 0},
	{194, 1, 1}, {180, 1, 1}, {171, 2, 2}, {166, 1, 1},
	{154, 2, 2}, {145, 2, 0}, {137, 2, 0}, {127, 0, 0},
	{120, 2, 0}, {109, 1, 0}, {86, 0, 0}, {76, 0, 0},
	{64, 0, 0}, {56, 0, 0}, {38, 0, 0}, {17, 0, 0},
	{254, 194, 148}, {235, 184, 146}, {219, 169, 131}, {203, 157, 124},
	{198, 148, 117}, {181, 135, 105}, {177, 136, 102}, {168, 128, 96},
	{157, 115, 86}, {145, 107, 81}, {136, 96, 72}, {122, 88, 68},
	{117, 84, 64}, {104, 77, 59}, {96, 70, 49}, {74, 59, 45},
	{255, 181, 128}, {243, 168, 114}, {220, 153, 104}, {202, 141, 97},
	{196, 130, 87}, {185, 122, 81}, {171, 115, 71}, {165, 110, 68},
	{147, 92, 54}, {133, 82, 49}, {123, 70, 38}, {107, 61, 34},
	{99, 56, 28}, {85, 47, 24}, {75, 40, 13}, {50, 28, 11},
	{185, 95, 43}, {145, 70, 26}, {131, 63, 24}, {121, 59, 22},
	{119, 52, 18}, {114, 47, 16}, {105, 48, 12}, {102, 45, 12},
	{94, 37, 12}, {84, 34, 12}, {75, 27, 11}, {65, 25, 11},
	{60, 23, 11}, {51, 20, 11}, {42, 20, 11}, {27, 15, 10},
	{255, 178, 51}, {255, 169, 27}, {255, 165, 17}, {250, 156, 0},
	{238, 148, 0}, {216, 135, 0}, {204, 127, 0}, {194, 121, 0},
	{170, 106, 0}, {160, 100, 0}, {136, 85, 0}, {126, 79, 0},
	{104, 65, 0}, {92, 57, 0}, {68, 42, 0}, {48, 30, 0},
	{137, 177, 116}, {130, 169, 110}, {120, 161, 100}, {112, 149, 92},
	{103, 139, 83}, {95, 129, 76}, {88, 124, 73}, {80, 112, 66},
	{71, 101, 55}, {62, 90, 49}, {48, 79, 38}, {41, 68, 31},
	{37, 62, 22}, {28, 48, 16}, {16, 30, 8}, {7, 14, 3},
	{0, 196, 50}, {0, 184, 47}, {0, 170, 43}, {0, 158, 39},
	{0, 154, 39}, {0, 140, 36}, {0, 138, 35}, {0, 126, 32},
	{0, 114, 29}, {0, 98, 25}, {0, 80, 20}, {0, 69, 17},
	{0, 62, 16}, {0, 48, 12}, {0, 26, 7}, {0, 14, 4},
	{171, 213, 222}, {165, 206, 215}, {137, 188, 197}, {127, 172, 179},
	{112, 154, 163}, {106, 145, 154}, {78, 129, 137}, {72, 117, 125},
	{52, 95, 103}, {46, 85, 93}, {27, 70, 78}, {23, 61, 70},
	{10, 52, 61}, {6, 41, 48}, {3, 27, 33}, {0, 9, 11},
	{52, 78, 222}, {50, 74, 211}, {43, 62, 199}, {42, 58, 188},
	{36, 52, 171}, {34, 48, 161}, {27, 44, 146}, {23, 38, 132},
	{10, 27, 120}, {8, 24, 107}, {2, 18, 86}, {1, 15, 75},
	{0, 10, 70}, {0, 7, 59}, {0, 3, 41}, {0, 0, 24},
	{160, 66, 194}, {153, 63, 185}, {148, 56, 178}, {134, 46, 162},
	{122, 44, 161}, {110, 40, 147}, {102, 36, 139}, {94, 32, 129},
	{86, 24, 111}, {78, 18, 99}, {63, 3, 85}, {54, 0, 76},
	{45, 0, 62}, {33, 0, 47}, {23, 0, 32}, {10, 0, 16},
	{244, 240, 206}, {237, 231, 176}, {235, 228, 163}, {229, 220, 137},
	{216, 215, 246}, {187, 186, 240}, {175, 173, 237}, {148, 145, 231},
	{156, 233, 156}, {132, 228, 132}, {90, 215, 90}, {40, 184, 40},
	{242, 197, 197}, {232, 152, 152}, {225, 119, 119}, {220, 98, 98},
	{255, 234, 110}, {250, 222, 55}, {247, 213, 27}, {240, 208, 25},
	{238, 202, 26}, {222, 189, 25}, {220, 196, 19}, {207, 185, 16},
	{197, 180, 10}, {185, 167, 8}, {154, 137, 2}, {135, 122, 0},
	{128, 115, 0}, {119, 113, 0}, {112, 106, 0}, {85, 81, 0},
	{231, 231, 231}, {213, 213, 213}, {205, 205, 205}, {188, 188, 188},
	{180, 180, 180}, {163, 163, 163}, {154, 154, 154}, {146, 146, 146},
	{129, 129, 129}, {120, 120, 120}, {103, 103, 103}, {95, 95, 95},
	{78, 78, 78}, {70, 70, 70}, {52, 52, 52}, {36, 36, 36},
	{124, 191, 255}, {103, 171, 239}, {95, 163, 231}, {95, 154, 213},
	{78, 137, 197}, {70, 120, 171}, {61, 112, 163}, {60, 107, 154},
	{52, 95, 137}, {44, 82, 119}, {27, 65, 103}, {17, 47, 77},
	{10, 36, 61}, {5, 24, 43}, {1, 14, 27}, {0, 11, 22},
	{224, 180, 148}, {208, 176, 132}, {204, 168, 124}, {196, 160, 116},
	{128, 0, 0}, {0, 128, 0}, {128, 0, 0}, {0, 128, 0},
	{128, 128, 128}, {255, 0, 0}, {0, 255, 0}, {255, 255, 0},
	{0, 0, 255}, {255, 0, 255}, {0, 255, 255}, {255, 255, 255},
}

// Transparent returns the transparent palette index and marker color.
func Transparent() (int, color.RGBA) {
	return TransparentIndex, TransparentColor
}

// Color returns the palette entry at index i. It panics if i is outside of
// the palette.
func Color(i int) color.RGBA {
	c := table[i]
	return color.RGBA{c[0], c[1], c[2], 0xff}
}

// Colors returns the palette as a color.Palette suitable for creating an
// image.Paletted.
func Colors() color.Palette {
	p := make(color.Palette, Size)
	for i := range p {
		p[i] = Color(i)
	}
	return p
}

// Copied from color.sqDiff but without the scaling as the channels are only
// 8 bits wide
func sqDiff(x, y uint8) uint32 {
	d := int32(x) - int32(y)
	return uint32(d * d)
}

// FindClosest returns the index and color of the palette entry nearest to c
// using the squared Euclidean distance in RGB space. The alpha channel of c
// is ignored. The transparent slot is never returned and when more than one
// entry is equally close the lowest index wins.
func FindClosest(c color.RGBA) (int, color.RGBA) {
	best, bestSum := 0, uint32(1<<32-1)
	for i, p := range table {
		if i == TransparentIndex {
			continue
		}
		sum := sqDiff(c.R, p[0]) + sqDiff(c.G, p[1]) + sqDiff(c.B, p[2])
		// Strictly less than, so the earliest entry is kept on a tie
		if sum < bestSum {
			best, bestSum = i, sum
			if sum == 0 {
				break
			}
		}
	}
	return best, Color(best)
}

func toRGBA(c color.Color) color.RGBA {
	if rgba, ok := c.(color.RGBA); ok && rgba.A == 0xff {
		return rgba
	}
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return color.RGBA{n.R, n.G, n.B, 0xff}
}

// Palette exposes the fixed palette through the standard library color and
// drawing interfaces.
type Palette struct{}

var (
	_ color.Model    = Palette{}
	_ draw.Quantizer = Palette{}
)

// Index returns the index of the palette entry closest to c.
func (Palette) Index(c color.Color) int {
	i, _ := FindClosest(toRGBA(c))
	return i
}

// Convert returns the palette entry closest to c.
func (Palette) Convert(c color.Color) color.Color {
	_, p := FindClosest(toRGBA(c))
	return p
}

// Quantize implements draw.Quantizer. The palette is fixed so p and m are
// ignored and the full table is always returned.
func (Palette) Quantize(p color.Palette, m image.Image) color.Palette {
	return Colors()
}
