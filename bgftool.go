/*
Package bgftool is a library for converting BGF sprite containers to and from
directories of standard image files.

Decompile splits a container into one image per bitmap along with a
description of the container. Compile reverses this, dithering each image
against the fixed 256 color palette.
*/
package bgftool

import (
	"io"
	"log/slog"
	"runtime"
)

// Tool converts containers. The zero value is not usable; use New.
type Tool struct {
	cache   *Cache
	logger  *slog.Logger
	workers int
}

// New returns a Tool. The cache and logger may be nil. At most workers
// bitmaps are processed at once; zero means one per CPU.
func New(cache *Cache, logger *slog.Logger, workers int) *Tool {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Tool{
		cache:   cache,
		logger:  logger,
		workers: workers,
	}
}
