package tileset

import (
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"

	"github.com/kiesman99/spritepad/pkg/sprite"
)

// Dims is a width/height table in a manifest
type Dims struct {
	Width  int `toml:"width"`
	Height int `toml:"height"`
}

// Size converts d to a sprite.Size
func (d Dims) Size() sprite.Size {
	return sprite.Size{W: d.Width, H: d.Height}
}

// Manifest describes a sprite sheet:
//
//	output = "walk.png"
//	count  = 35
//
//	[tile]
//	width  = 32
//	height = 32
//
//	[sheet]
//	width  = 160
//	height = 224
//
//	[[tiles]]
//	path = "frames/walk_00.png"
//
// Tiles are placed in the order they are listed. Relative paths resolve
// against the manifest's directory.
type Manifest struct {
	Output string `toml:"output"`
	Count  int    `toml:"count"`
	Tile   Dims   `toml:"tile"`
	Sheet  Dims   `toml:"sheet"`
	Tiles  []struct {
		Path string `toml:"path"`
	} `toml:"tiles"`
}

// LoadManifest reads and validates the manifest at path
func LoadManifest(path string) (*Manifest, error) {
	var m Manifest
	md, err := toml.DecodeFile(path, &m)
	if err != nil {
		return nil, errors.Wrap(err, "parse manifest")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.Errorf("manifest %s: unknown keys %s", path, strings.Join(keys, ", "))
	}

	dir := filepath.Dir(path)
	for i := range m.Tiles {
		p := m.Tiles[i].Path
		if p == "" {
			return nil, errors.Errorf("manifest %s: tile %d has no path", path, i)
		}
		if !filepath.IsAbs(p) {
			m.Tiles[i].Path = filepath.Join(dir, p)
		}
	}
	if m.Output != "" && !filepath.IsAbs(m.Output) {
		m.Output = filepath.Join(dir, m.Output)
	}
	if m.Count == 0 {
		m.Count = len(m.Tiles)
	}
	return &m, nil
}

// Entries returns the manifest tiles with their sheet index
func (m *Manifest) Entries() []Entry {
	entries := make([]Entry, len(m.Tiles))
	for i, t := range m.Tiles {
		entries[i] = Entry{Index: i, Path: t.Path}
	}
	return entries
}
