package bgftool

import (
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Extensions lists the image formats that Decompile can write.
var Extensions = []string{"png", "gif", "bmp", "tif", "tiff", "jpg", "jpeg"}

func normalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

func encodeImage(w io.Writer, m image.Image, ext string) error {
	switch normalizeExt(ext) {
	case "png":
		return png.Encode(w, m)
	case "gif":
		return gif.Encode(w, m, nil)
	case "bmp":
		return bmp.Encode(w, m)
	case "tif", "tiff":
		return tiff.Encode(w, m, &tiff.Options{Compression: tiff.Deflate})
	case "jpg", "jpeg":
		// Lossy, the palette indices will not survive a round trip
		return jpeg.Encode(w, m, &jpeg.Options{Quality: 100})
	default:
		return fmt.Errorf("unsupported image format %q", ext)
	}
}

func decodeImage(r io.Reader) (image.Image, error) {
	m, _, err := image.Decode(r)
	return m, err
}
