// Package compose runs the load, transform and encode steps behind the CLI
// commands and the HTTP API.
package compose

import (
	"context"
	"image"
	"io"

	"github.com/pkg/errors"

	"github.com/kiesman99/spritepad/internal/logging"
	"github.com/kiesman99/spritepad/internal/tileset"
	"github.com/kiesman99/spritepad/pkg/sprite"
)

// PlaceOptions contains all parameters for placing one sprite
type PlaceOptions struct {
	Canvas sprite.Size
	Align  sprite.Alignment
	Scale  sprite.ScaleMode

	// Output picks the encoding by extension; empty means PNG.
	Output string
}

// SheetOptions contains all parameters for assembling a sheet
type SheetOptions struct {
	Tile  sprite.Size
	Sheet sprite.Size
	// Count is the number of tiles the caller expects to supply.
	Count int

	Output string
}

// Result contains the encoded image and what was done to produce it
type Result struct {
	ImageData []byte
	Width     int
	Height    int

	// Set by placement only.
	Offset image.Point
	Source sprite.Size
	Scaled sprite.Size

	// Set by sheet assembly only.
	Tiles       int
	TilesPerRow int
}

// Composer performs placement and sheet assembly
type Composer struct {
	workers int
}

// New creates a composer. workers bounds concurrent tile decodes; zero means
// one per CPU.
func New(workers int) *Composer {
	return &Composer{workers: workers}
}

// PlaceFile loads the image at path and places it
func (c *Composer) PlaceFile(ctx context.Context, path string, opts *PlaceOptions) (*Result, error) {
	src, err := sprite.Load(path)
	if err != nil {
		return nil, err
	}
	logging.FromContext(ctx).Debug("loaded source", "path", path, "size", sprite.SizeOf(src))
	return c.PlaceImage(ctx, src, opts)
}

// PlaceReader decodes an image from r and places it
func (c *Composer) PlaceReader(ctx context.Context, r io.Reader, opts *PlaceOptions) (*Result, error) {
	src, err := sprite.Decode(r)
	if err != nil {
		return nil, err
	}
	return c.PlaceImage(ctx, src, opts)
}

// PlaceImage places an already decoded source
func (c *Composer) PlaceImage(ctx context.Context, src image.Image, opts *PlaceOptions) (*Result, error) {
	format, err := sprite.FormatFromFilename(opts.Output)
	if err != nil {
		return nil, err
	}

	p, err := sprite.PlaceWith(src, sprite.PlaceOptions{
		Canvas: opts.Canvas,
		Align:  opts.Align,
		Scale:  opts.Scale,
	})
	if err != nil {
		return nil, err
	}

	orig := sprite.SizeOf(src)
	logging.FromContext(ctx).Info("placed sprite",
		"source", orig, "scaled", p.Scaled, "canvas", opts.Canvas,
		"align", opts.Align, "offset", p.Offset)

	data, err := sprite.EncodeBytes(p.Canvas, format)
	if err != nil {
		return nil, errors.Wrap(err, "encode output image")
	}

	return &Result{
		ImageData: data,
		Width:     opts.Canvas.W,
		Height:    opts.Canvas.H,
		Offset:    p.Offset,
		Source:    orig,
		Scaled:    p.Scaled,
	}, nil
}

// AssembleEntries loads the entries in order and assembles them
func (c *Composer) AssembleEntries(ctx context.Context, entries []tileset.Entry, opts *SheetOptions) (*Result, error) {
	// fail before decoding anything
	if len(entries) != opts.Count {
		return nil, &sprite.CountMismatchError{Expected: opts.Count, Actual: len(entries)}
	}

	tiles, err := tileset.Load(ctx, tileset.Paths(entries), c.workers)
	if err != nil {
		return nil, err
	}
	return c.AssembleImages(ctx, tiles, opts)
}

// AssembleImages packs decoded tiles into a sheet
func (c *Composer) AssembleImages(ctx context.Context, tiles []image.Image, opts *SheetOptions) (*Result, error) {
	format, err := sprite.FormatFromFilename(opts.Output)
	if err != nil {
		return nil, err
	}

	sheet, err := sprite.Assemble(tiles, opts.Tile, opts.Sheet, opts.Count)
	if err != nil {
		return nil, err
	}

	perRow := sprite.TilesPerRow(opts.Tile, opts.Sheet)
	logger := logging.FromContext(ctx)
	logger.Info("assembled sheet",
		"tiles", len(tiles), "tile", opts.Tile, "sheet", opts.Sheet, "per_row", perRow)
	if rows := (len(tiles) + perRow - 1) / perRow; rows*opts.Tile.H > opts.Sheet.H {
		logger.Warn("tiles run past the bottom of the sheet and were clipped",
			"rows", rows, "sheet_height", opts.Sheet.H)
	}

	data, err := sprite.EncodeBytes(sheet, format)
	if err != nil {
		return nil, errors.Wrap(err, "encode output image")
	}

	return &Result{
		ImageData:   data,
		Width:       opts.Sheet.W,
		Height:      opts.Sheet.H,
		Tiles:       len(tiles),
		TilesPerRow: perRow,
	}, nil
}
