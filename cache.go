package bgftool

import (
	"crypto/sha1"
	"database/sql"
	"fmt"

	"github.com/bodgit/bgftool/bgf"
	_ "github.com/mattn/go-sqlite3"
)

// Cache stores converted bitmaps so unchanged images are not dithered again
// on the next compile.
type Cache struct {
	db *sql.DB
}

// NewCache opens or creates the cache database in file.
func NewCache(file string) (*Cache, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("%s?_busy_timeout=5000", file))
	if err != nil {
		return nil, err
	}
	// Workers share the handle, serialize them onto one connection
	db.SetMaxOpenConns(1)

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS bitmap (id INTEGER PRIMARY KEY NOT NULL, sha1 TEXT NOT NULL UNIQUE, width INTEGER NOT NULL, height INTEGER NOT NULL, compression INTEGER NOT NULL, data BLOB NOT NULL)"); err != nil {
		db.Close()
		return nil, err
	}

	return &Cache{
		db: db,
	}, nil
}

// Close closes the cache database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// cacheKey identifies the result of converting the image file contents src
// with opts. The worker count is left out as it never changes the output.
func cacheKey(src []byte, opts bgf.Options) string {
	h := sha1.New()
	h.Write(src)
	fmt.Fprintf(h, "\x00%s\x00%s\x00%g\x00%d\x00%g",
		opts.Compression,
		opts.Dither.Method,
		opts.Dither.TransparencyClip,
		opts.Dither.Seed,
		opts.Dither.R2Seed)
	return fmt.Sprintf("%X", h.Sum(nil))
}

// Find returns the bitmap stored under key, or nil if there isn't one.
func (c *Cache) Find(key string) (*bgf.Bitmap, error) {
	var b bgf.Bitmap
	switch err := c.db.QueryRow("SELECT width, height, compression, data FROM bitmap WHERE sha1 = ?", key).Scan(&b.Width, &b.Height, &b.Compression, &b.Data); err {
	case sql.ErrNoRows:
		return nil, nil
	case nil:
		return &b, nil
	default:
		return nil, err
	}
}

// Store saves the pixel data of b under key, replacing any previous entry.
func (c *Cache) Store(key string, b *bgf.Bitmap) error {
	if _, err := c.db.Exec("INSERT OR REPLACE INTO bitmap (sha1, width, height, compression, data) VALUES (?, ?, ?, ?, ?)", key, b.Width, b.Height, uint8(b.Compression), b.Data); err != nil {
		return err
	}
	return nil
}
