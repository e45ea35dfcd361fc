package sprite

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// TilesPerRow is the number of whole tiles that fit across the sheet
func TilesPerRow(tile, sheet Size) int {
	if tile.W <= 0 {
		return 0
	}
	return sheet.W / tile.W
}

// GridPosition returns the top-left pixel of tile i in a row-major grid
func GridPosition(i, perRow int, tile Size) image.Point {
	return image.Pt(i%perRow*tile.W, i/perRow*tile.H)
}

// Assemble packs tiles, in order, into a row-major grid on a transparent sheet.
// Tiles that are not exactly tile-sized are stretched to fit. Rows that run
// past the bottom of the sheet are clipped.
func Assemble(tiles []image.Image, tile, sheet Size, expected int) (*image.NRGBA, error) {
	if len(tiles) != expected {
		return nil, &CountMismatchError{Expected: expected, Actual: len(tiles)}
	}
	if !tile.Valid() {
		return nil, &DimensionError{What: "tile", Size: tile}
	}
	if !sheet.Valid() {
		return nil, &DimensionError{What: "sheet", Size: sheet}
	}
	perRow := TilesPerRow(tile, sheet)
	if perRow == 0 {
		return nil, &DimensionError{What: "sheet", Size: sheet}
	}

	out := newCanvas(sheet)
	for i, t := range tiles {
		if t == nil {
			return nil, &DimensionError{What: fmt.Sprintf("tile %d", i)}
		}
		sz := SizeOf(t)
		if !sz.Valid() {
			return nil, &DimensionError{What: fmt.Sprintf("tile %d", i), Size: sz}
		}
		if sz != tile {
			t = imaging.Resize(t, tile.W, tile.H, imaging.Lanczos)
		}
		paste(out, t, GridPosition(i, perRow, tile))
	}
	return out, nil
}
