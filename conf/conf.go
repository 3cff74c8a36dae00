/*
Package conf implements the editable description of a BGF container.

A description lists the container metadata along with, for each bitmap, the
path to a standard image file holding its pixels. Descriptions are stored as
JSON, or as YAML when the file has a .yaml or .yml extension.
*/
package conf

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bodgit/bgftool/bgf"
	"github.com/bodgit/bgftool/dither"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

var validate = validator.New()

// Hotspot is a numbered position within a bitmap.
type Hotspot struct {
	Number   int8     `json:"number" yaml:"number"`
	Position [2]int32 `json:"position" yaml:"position"`
}

// Bitmap describes a single bitmap. Dither and TransparencyClip override
// the defaults passed when compiling.
type Bitmap struct {
	Size             [2]int32        `json:"size" yaml:"size"`
	Offset           [2]int32        `json:"offset" yaml:"offset"`
	Hotspots         []Hotspot       `json:"hotspots" yaml:"hotspots" validate:"max=255"`
	Compression      bgf.Compression `json:"compression" yaml:"compression" validate:"lte=1"`
	Path             string          `json:"path" yaml:"path" validate:"required"`
	Dither           *dither.Method  `json:"dither,omitempty" yaml:"dither,omitempty"`
	TransparencyClip *float32        `json:"transparency_clip,omitempty" yaml:"transparency_clip,omitempty" validate:"omitempty,gte=0,lte=1"`
}

// Group is a list of bitmap indices.
type Group struct {
	Indices []int32 `json:"indices" yaml:"indices"`
}

// Config is the description of a container.
type Config struct {
	Version      int32    `json:"version" yaml:"version"`
	Name         string   `json:"name" yaml:"name" validate:"max=31"`
	Bitmaps      []Bitmap `json:"bitmaps" yaml:"bitmaps" validate:"dive"`
	IndexGroups  []Group  `json:"index_groups" yaml:"index_groups"`
	MaxIndices   int32    `json:"max_indices" yaml:"max_indices"`
	ShrinkFactor int32    `json:"shrink_factor" yaml:"shrink_factor"`
}

// FromBGF returns the description of b. Bitmap paths are left empty.
func FromBGF(b *bgf.BGF) *Config {
	c := &Config{
		Version:      b.Version,
		Name:         b.Name,
		Bitmaps:      make([]Bitmap, len(b.Bitmaps)),
		IndexGroups:  make([]Group, len(b.Groups)),
		MaxIndices:   b.MaxIndices,
		ShrinkFactor: b.ShrinkFactor,
	}

	for i, bm := range b.Bitmaps {
		hotspots := make([]Hotspot, len(bm.Hotspots))
		for j, h := range bm.Hotspots {
			hotspots[j] = Hotspot{h.Number, [2]int32{h.Position.X, h.Position.Y}}
		}
		c.Bitmaps[i] = Bitmap{
			Size:        [2]int32{bm.Width, bm.Height},
			Offset:      [2]int32{bm.Offset.X, bm.Offset.Y},
			Hotspots:    hotspots,
			Compression: bm.Compression,
		}
	}

	for i, g := range b.Groups {
		c.IndexGroups[i] = Group{append([]int32{}, g.Indices...)}
	}

	return c
}

// Validate checks the description is suitable for compiling.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("conf: %w", err)
	}
	// The container stores the name in a fixed number of bytes
	if len(c.Name) > bgf.MaxNameLength || strings.IndexByte(c.Name, 0) >= 0 {
		return fmt.Errorf("conf: name %q must be at most %d bytes without NUL", c.Name, bgf.MaxNameLength)
	}
	return nil
}

// Options returns the conversion options for bitmap i, starting from def.
func (c *Config) Options(i int, def bgf.Options) bgf.Options {
	b := c.Bitmaps[i]
	def.Compression = b.Compression
	if b.Dither != nil {
		def.Dither.Method = *b.Dither
	}
	if b.TransparencyClip != nil {
		def.Dither.TransparencyClip = *b.TransparencyClip
	}
	return def
}

func isYAML(file string) bool {
	switch strings.ToLower(filepath.Ext(file)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// Load reads and validates the description in file.
func Load(file string) (*Config, error) {
	b, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}

	c := new(Config)
	if isYAML(file) {
		err = yaml.Unmarshal(b, c)
	} else {
		d := json.NewDecoder(bytes.NewReader(b))
		d.DisallowUnknownFields()
		err = d.Decode(c)
	}
	if err != nil {
		return nil, fmt.Errorf("conf: %s: %w", file, err)
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}

	return c, nil
}

// Save writes the description to file.
func (c *Config) Save(file string) error {
	var (
		b   []byte
		err error
	)
	if isYAML(file) {
		b, err = yaml.Marshal(c)
	} else {
		b, err = json.MarshalIndent(c, "", "  ")
		b = append(b, '\n')
	}
	if err != nil {
		return err
	}

	return os.WriteFile(file, b, 0o644)
}
