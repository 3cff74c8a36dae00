package bgftool

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bodgit/bgftool/bgf"
	"github.com/bodgit/bgftool/conf"
)

func findBitmaps(ctx context.Context, n int) (<-chan int, <-chan error) {
	out := make(chan int)
	errc := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errc)
		for i := 0; i < n; i++ {
			select {
			case out <- i:
			case <-ctx.Done():
				errc <- errors.New("pipeline cancelled")
				return
			}
		}
	}()
	return out, errc
}

// waitForPipeline returns the first error from errs, cancelling the
// pipeline when one arrives. It always waits for every stage to finish.
func waitForPipeline(cancelFunc context.CancelFunc, errs ...<-chan error) error {
	var first error
	for err := range mergeErrors(errs...) {
		if err != nil && first == nil {
			first = err
			cancelFunc()
		}
	}
	return first
}

func mergeErrors(cs ...<-chan error) <-chan error {
	var wg sync.WaitGroup
	out := make(chan error, len(cs))
	wg.Add(len(cs))
	for _, c := range cs {
		go func(c <-chan error) {
			for n := range c {
				out <- n
			}
			wg.Done()
		}(c)
	}
	go func() {
		wg.Wait()
		close(out)
	}()
	return out
}

// run calls fn for each of n bitmaps using the worker pool and returns the
// first error.
func (t *Tool) run(n int, fn func(int) error) error {
	ctx, cancelFunc := context.WithCancel(context.Background())
	defer cancelFunc()

	var errcList []<-chan error

	bitmaps, errc := findBitmaps(ctx, n)
	errcList = append(errcList, errc)

	for i := 0; i < t.workers; i++ {
		errc := make(chan error, 1)
		go func() {
			defer close(errc)
			for i := range bitmaps {
				if ctx.Err() != nil {
					return
				}
				if err := fn(i); err != nil {
					errc <- err
					return
				}
			}
		}()
		errcList = append(errcList, errc)
	}

	return waitForPipeline(cancelFunc, errcList...)
}

func baseName(file string) string {
	return strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
}

// Decompile splits the container in file into outDir, writing each bitmap
// as an image of format ext and the description as a JSON file.
func (t *Tool) Decompile(file, outDir, ext string) error {
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()

	b, err := bgf.Decode(f)
	if err != nil {
		return fmt.Errorf("%s: %w", file, err)
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}

	name := baseName(file)
	c := conf.FromBGF(b)
	for i := range c.Bitmaps {
		c.Bitmaps[i].Path = fmt.Sprintf("%s_%04d.%s", name, i, normalizeExt(ext))
	}

	if err := t.run(len(b.Bitmaps), func(i int) error {
		m, err := b.Bitmaps[i].Image()
		if err != nil {
			return fmt.Errorf("bitmap %d: %w", i, err)
		}

		out, err := os.Create(filepath.Join(outDir, c.Bitmaps[i].Path))
		if err != nil {
			return err
		}
		defer out.Close()

		if err := encodeImage(out, m, ext); err != nil {
			return fmt.Errorf("bitmap %d: %w", i, err)
		}

		t.logger.Info("wrote bitmap", slog.Int("index", i), slog.String("path", out.Name()))

		return out.Close()
	}); err != nil {
		return err
	}

	return c.Save(filepath.Join(outDir, name+".json"))
}

func (t *Tool) convert(file string, opts bgf.Options) (*bgf.Bitmap, error) {
	src, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}

	var key string
	if t.cache != nil {
		key = cacheKey(src, opts)
		b, err := t.cache.Find(key)
		if err != nil {
			return nil, err
		}
		if b != nil {
			t.logger.Debug("cache hit", slog.String("path", file), slog.String("key", key))
			return b, nil
		}
	}

	m, err := decodeImage(bytes.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", file, err)
	}

	b, err := bgf.NewBitmap(m, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", file, err)
	}

	if t.cache != nil {
		if err := t.cache.Store(key, b); err != nil {
			return nil, err
		}
	}

	return b, nil
}

// Compile builds the container described by the file confFile and writes it
// to output. Image paths in the description are relative to confFile. def
// supplies the conversion options for bitmaps that do not override them.
func (t *Tool) Compile(confFile, output string, def bgf.Options) error {
	c, err := conf.Load(confFile)
	if err != nil {
		return err
	}

	dir := filepath.Dir(confFile)
	bitmaps := make([]bgf.Bitmap, len(c.Bitmaps))

	if err := t.run(len(c.Bitmaps), func(i int) error {
		bc := c.Bitmaps[i]
		path := bc.Path
		if !filepath.IsAbs(path) {
			path = filepath.Join(dir, path)
		}

		opts := c.Options(i, def)
		b, err := t.convert(path, opts)
		if err != nil {
			return fmt.Errorf("bitmap %d: %w", i, err)
		}

		if size := [2]int32{b.Width, b.Height}; bc.Size != [2]int32{} && bc.Size != size {
			t.logger.Warn("image size differs from description", slog.Int("index", i), slog.String("path", path), slog.Any("want", bc.Size), slog.Any("got", size))
		}

		b.Offset = bgf.Point{X: bc.Offset[0], Y: bc.Offset[1]}
		for _, h := range bc.Hotspots {
			b.Hotspots = append(b.Hotspots, bgf.Hotspot{Number: h.Number, Position: bgf.Point{X: h.Position[0], Y: h.Position[1]}})
		}
		bitmaps[i] = *b

		t.logger.Info("converted bitmap", slog.Int("index", i), slog.String("path", path), slog.String("dither", opts.Dither.Method.String()))

		return nil
	}); err != nil {
		return err
	}

	out := &bgf.BGF{
		Version:      bgf.Version,
		Name:         c.Name,
		Bitmaps:      bitmaps,
		Groups:       make([]bgf.Group, len(c.IndexGroups)),
		ShrinkFactor: c.ShrinkFactor,
	}
	for i, g := range c.IndexGroups {
		out.Groups[i] = bgf.Group{Indices: g.Indices}
	}

	buf := new(bytes.Buffer)
	if err := bgf.Encode(buf, out); err != nil {
		return err
	}

	return os.WriteFile(output, buf.Bytes(), 0o644)
}
