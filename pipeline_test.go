package bgftool

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/bodgit/bgftool/bgf"
	"github.com/bodgit/bgftool/conf"
	"github.com/bodgit/bgftool/dither"
	"github.com/bodgit/bgftool/palette"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testPixels = [][]byte{
	{0, 7, 16, 32, 64, 100},
	{128, 200, 255, 254},
}

func writeTestBGF(t *testing.T, file string) *bgf.BGF {
	t.Helper()

	b := &bgf.BGF{
		Version: bgf.Version,
		Name:    "lamp",
		Bitmaps: []bgf.Bitmap{
			{
				Width:    3,
				Height:   2,
				Offset:   bgf.Point{X: -1, Y: 2},
				Hotspots: []bgf.Hotspot{{Number: 1, Position: bgf.Point{X: 1, Y: 1}}},
			},
			{
				Width:  2,
				Height: 2,
			},
		},
		Groups:       []bgf.Group{{Indices: []int32{0, 1}}, {Indices: []int32{1}}},
		ShrinkFactor: 1,
	}
	require.NoError(t, b.Bitmaps[0].SetPixels(testPixels[0], bgf.Zlib))
	require.NoError(t, b.Bitmaps[1].SetPixels(testPixels[1], bgf.None))

	buf := new(bytes.Buffer)
	require.NoError(t, bgf.Encode(buf, b))
	require.NoError(t, os.WriteFile(file, buf.Bytes(), 0o644))

	return b
}

func readTestBGF(t *testing.T, file string) *bgf.BGF {
	t.Helper()

	f, err := os.Open(file)
	require.NoError(t, err)
	defer f.Close()

	b, err := bgf.Decode(f)
	require.NoError(t, err)

	return b
}

func defaultOptions() bgf.Options {
	return bgf.Options{Dither: dither.Options{Method: dither.None, TransparencyClip: 0.5}}
}

func TestDecompile(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "lamp.bgf")
	writeTestBGF(t, input)

	out := filepath.Join(dir, "out")
	tool := New(nil, nil, 2)
	require.NoError(t, tool.Decompile(input, out, "png"))

	c, err := conf.Load(filepath.Join(out, "lamp.json"))
	require.NoError(t, err)
	assert.Equal(t, "lamp", c.Name)
	require.Len(t, c.Bitmaps, 2)
	assert.Equal(t, "lamp_0000.png", c.Bitmaps[0].Path)
	assert.Equal(t, "lamp_0001.png", c.Bitmaps[1].Path)
	assert.Equal(t, [2]int32{3, 2}, c.Bitmaps[0].Size)
	assert.Equal(t, [2]int32{-1, 2}, c.Bitmaps[0].Offset)
	assert.Equal(t, bgf.Zlib, c.Bitmaps[0].Compression)
	assert.Equal(t, int32(2), c.MaxIndices)

	f, err := os.Open(filepath.Join(out, "lamp_0001.png"))
	require.NoError(t, err)
	defer f.Close()

	m, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 2, 2), m.Bounds())
	assert.Equal(t, color.RGBAModel.Convert(palette.Color(128)), color.RGBAModel.Convert(m.At(0, 0)))
	assert.Equal(t, color.RGBAModel.Convert(palette.TransparentColor), color.RGBAModel.Convert(m.At(1, 1)))
}

func TestDecompileFormats(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "lamp.bgf")
	writeTestBGF(t, input)

	for _, ext := range []string{"gif", "bmp", "tiff", ".PNG"} {
		t.Run(ext, func(t *testing.T) {
			out := t.TempDir()
			require.NoError(t, New(nil, nil, 1).Decompile(input, out, ext))
			assert.FileExists(t, filepath.Join(out, "lamp_0000."+normalizeExt(ext)))
		})
	}

	assert.Error(t, New(nil, nil, 1).Decompile(input, t.TempDir(), "xcf"))
}

func TestRoundTrip(t *testing.T) {
	for _, ext := range []string{"png", "bmp", "tif"} {
		t.Run(ext, func(t *testing.T) {
			dir := t.TempDir()
			input := filepath.Join(dir, "lamp.bgf")
			want := writeTestBGF(t, input)

			tool := New(nil, nil, 3)
			out := filepath.Join(dir, "out")
			require.NoError(t, tool.Decompile(input, out, ext))

			output := filepath.Join(dir, "compiled.bgf")
			require.NoError(t, tool.Compile(filepath.Join(out, "lamp.json"), output, defaultOptions()))

			got := readTestBGF(t, output)
			assert.Equal(t, want.Name, got.Name)
			assert.Equal(t, want.Groups, got.Groups)
			assert.Equal(t, int32(2), got.MaxIndices)
			assert.Equal(t, want.ShrinkFactor, got.ShrinkFactor)
			require.Len(t, got.Bitmaps, len(want.Bitmaps))

			for i := range want.Bitmaps {
				assert.Equal(t, want.Bitmaps[i].Width, got.Bitmaps[i].Width)
				assert.Equal(t, want.Bitmaps[i].Height, got.Bitmaps[i].Height)
				assert.Equal(t, want.Bitmaps[i].Offset, got.Bitmaps[i].Offset)
				assert.Equal(t, want.Bitmaps[i].Hotspots, got.Bitmaps[i].Hotspots)
				assert.Equal(t, want.Bitmaps[i].Compression, got.Bitmaps[i].Compression)

				pix, err := got.Bitmaps[i].Pixels()
				require.NoError(t, err)
				assert.Equal(t, testPixels[i], pix)
			}
		})
	}
}

func TestCompileCache(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "lamp.bgf")
	writeTestBGF(t, input)

	cache, err := NewCache(filepath.Join(dir, "cache.db"))
	require.NoError(t, err)
	defer cache.Close()

	tool := New(cache, nil, 2)
	out := filepath.Join(dir, "out")
	require.NoError(t, tool.Decompile(input, out, "png"))

	first := filepath.Join(dir, "first.bgf")
	require.NoError(t, tool.Compile(filepath.Join(out, "lamp.json"), first, defaultOptions()))

	src, err := os.ReadFile(filepath.Join(out, "lamp_0001.png"))
	require.NoError(t, err)
	cached, err := cache.Find(cacheKey(src, defaultOptions()))
	require.NoError(t, err)
	require.NotNil(t, cached)
	pix, err := cached.Pixels()
	require.NoError(t, err)
	assert.Equal(t, testPixels[1], pix)

	// Poison the entry to prove the second compile reads from the cache
	poisoned := &bgf.Bitmap{Width: 2, Height: 2}
	require.NoError(t, poisoned.SetPixels([]byte{1, 2, 3, 4}, bgf.None))
	require.NoError(t, cache.Store(cacheKey(src, defaultOptions()), poisoned))

	second := filepath.Join(dir, "second.bgf")
	require.NoError(t, tool.Compile(filepath.Join(out, "lamp.json"), second, defaultOptions()))

	got := readTestBGF(t, second)
	pix, err = got.Bitmaps[1].Pixels()
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3, 4}, pix)
}

func TestCompileDither(t *testing.T) {
	dir := t.TempDir()

	m := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			m.SetNRGBA(x, y, color.NRGBA{uint8(x * 60), uint8(y * 60), 90, 0xff})
		}
	}
	m.SetNRGBA(3, 3, color.NRGBA{0xff, 0, 0, 0})

	f, err := os.Create(filepath.Join(dir, "sky.png"))
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, m))
	require.NoError(t, f.Close())

	method := dither.Atkinson
	c := &conf.Config{
		Version: bgf.Version,
		Name:    "sky",
		Bitmaps: []conf.Bitmap{
			{Path: "sky.png", Compression: bgf.Zlib, Dither: &method},
			{Path: "sky.png"},
		},
	}
	require.NoError(t, c.Save(filepath.Join(dir, "sky.yaml")))

	output := filepath.Join(dir, "sky.bgf")
	require.NoError(t, New(nil, nil, 0).Compile(filepath.Join(dir, "sky.yaml"), output, defaultOptions()))

	got := readTestBGF(t, output)
	require.Len(t, got.Bitmaps, 2)

	atkinson, err := got.Bitmaps[0].Pixels()
	require.NoError(t, err)
	want, err := dither.Dither(dither.FromImage(m), dither.Options{Method: dither.Atkinson, TransparencyClip: 0.5})
	require.NoError(t, err)
	assert.Equal(t, want, atkinson)
	assert.Equal(t, byte(palette.TransparentIndex), atkinson[15])

	plain, err := got.Bitmaps[1].Pixels()
	require.NoError(t, err)
	want, err = dither.Dither(dither.FromImage(m), dither.Options{TransparencyClip: 0.5})
	require.NoError(t, err)
	assert.Equal(t, want, plain)
}

func TestCompileErrors(t *testing.T) {
	dir := t.TempDir()
	tool := New(nil, nil, 2)

	assert.ErrorIs(t, tool.Compile(filepath.Join(dir, "missing.json"), filepath.Join(dir, "out.bgf"), defaultOptions()), os.ErrNotExist)

	c := &conf.Config{Bitmaps: []conf.Bitmap{{Path: "missing.png"}}}
	require.NoError(t, c.Save(filepath.Join(dir, "missing.json")))
	assert.ErrorIs(t, tool.Compile(filepath.Join(dir, "missing.json"), filepath.Join(dir, "out.bgf"), defaultOptions()), os.ErrNotExist)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "junk.png"), []byte("not an image"), 0o644))
	c = &conf.Config{Bitmaps: []conf.Bitmap{{Path: "junk.png"}}}
	require.NoError(t, c.Save(filepath.Join(dir, "junk.json")))
	assert.Error(t, tool.Compile(filepath.Join(dir, "junk.json"), filepath.Join(dir, "out.bgf"), defaultOptions()))

	bad := defaultOptions()
	bad.Dither.TransparencyClip = 2
	m := image.NewGray(image.Rect(0, 0, 1, 1))
	f, err := os.Create(filepath.Join(dir, "gray.png"))
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, m))
	require.NoError(t, f.Close())
	c = &conf.Config{Bitmaps: []conf.Bitmap{{Path: "gray.png"}}}
	require.NoError(t, c.Save(filepath.Join(dir, "gray.json")))
	assert.ErrorIs(t, tool.Compile(filepath.Join(dir, "gray.json"), filepath.Join(dir, "out.bgf"), bad), dither.ErrConfiguration)

	assert.NoFileExists(t, filepath.Join(dir, "out.bgf"))
}

func TestDecompileErrors(t *testing.T) {
	dir := t.TempDir()
	tool := New(nil, nil, 2)

	assert.ErrorIs(t, tool.Decompile(filepath.Join(dir, "missing.bgf"), dir, "png"), os.ErrNotExist)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "junk.bgf"), []byte("junk"), 0o644))
	assert.Error(t, tool.Decompile(filepath.Join(dir, "junk.bgf"), dir, "png"))
}
