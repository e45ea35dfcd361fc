// Package tileset resolves the ordered list of tile files that make up a sprite
// sheet and loads them.
//
// Order comes either from a TOML manifest, where the position in the tiles
// array is the tile index, or from a numeric index embedded in each file name
// ("walk_07.png" is tile 7).
package tileset

import (
	"context"
	"image"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/kiesman99/spritepad/internal/logging"
	"github.com/kiesman99/spritepad/pkg/sprite"
)

// Entry is one tile source and its position in the sheet
type Entry struct {
	Index int
	Path  string
}

var imageExts = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true,
	".bmp": true, ".tif": true, ".tiff": true, ".webp": true,
}

var digits = regexp.MustCompile(`\d+`)

// IndexFromName reads every digit of the file's base name, in order, as one
// number: "sprite2_10.png" is 210.
func IndexFromName(name string) (int, bool) {
	base := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	runs := digits.FindAllString(base, -1)
	if len(runs) == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(strings.Join(runs, ""))
	if err != nil {
		return 0, false
	}
	return n, true
}

// Enumerate lists the image files in dir that carry a numeric index in their
// name, ordered by that index. Files without an index are skipped.
func Enumerate(dir string) ([]Entry, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrap(err, "read tile directory")
	}

	var entries []Entry
	for _, f := range files {
		if f.IsDir() || !imageExts[strings.ToLower(filepath.Ext(f.Name()))] {
			continue
		}
		idx, ok := IndexFromName(f.Name())
		if !ok {
			continue
		}
		entries = append(entries, Entry{Index: idx, Path: filepath.Join(dir, f.Name())})
	}

	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Index < entries[j].Index })
	for i := 1; i < len(entries); i++ {
		if entries[i].Index == entries[i-1].Index {
			return nil, errors.Errorf("tiles %s and %s share index %d",
				filepath.Base(entries[i-1].Path), filepath.Base(entries[i].Path), entries[i].Index)
		}
	}
	return entries, nil
}

// Paths returns the entry paths in order
func Paths(entries []Entry) []string {
	paths := make([]string, len(entries))
	for i, e := range entries {
		paths[i] = e.Path
	}
	return paths
}

// Load decodes every path with at most workers decodes in flight. The result
// keeps the order of paths. The first failure cancels the remaining loads.
func Load(ctx context.Context, paths []string, workers int) ([]image.Image, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	logger := logging.FromContext(ctx)

	imgs := make([]image.Image, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			img, err := sprite.Load(path)
			if err != nil {
				return err
			}
			logger.Debug("loaded tile", "index", i, "path", path, "size", sprite.SizeOf(img))
			imgs[i] = img
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return imgs, nil
}
