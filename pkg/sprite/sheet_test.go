package sprite

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
)

func tileColor(i int) color.NRGBA {
	return color.NRGBA{R: uint8(i * 7), G: uint8(255 - i*5), B: uint8(i), A: 255}
}

func numberedTiles(n int, size Size) []image.Image {
	tiles := make([]image.Image, n)
	for i := range tiles {
		tiles[i] = solid(size.W, size.H, tileColor(i))
	}
	return tiles
}

func TestGridPosition(t *testing.T) {
	tile := Size{32, 32}
	tests := []struct {
		i    int
		want image.Point
	}{
		{0, image.Pt(0, 0)},
		{4, image.Pt(128, 0)},
		{5, image.Pt(0, 32)},
		{7, image.Pt(64, 32)},
		{34, image.Pt(128, 192)},
	}
	for _, tt := range tests {
		if got := GridPosition(tt.i, 5, tile); got != tt.want {
			t.Errorf("GridPosition(%d) = %v, want %v", tt.i, got, tt.want)
		}
	}
}

func TestAssembleGrid(t *testing.T) {
	tile := Size{32, 32}
	sheet := Size{160, 224}
	if n := TilesPerRow(tile, sheet); n != 5 {
		t.Fatalf("TilesPerRow() = %d, want 5", n)
	}

	out, err := Assemble(numberedTiles(35, tile), tile, sheet, 35)
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}
	if out.Bounds() != image.Rect(0, 0, 160, 224) {
		t.Fatalf("sheet bounds = %v", out.Bounds())
	}

	for i := 0; i < 35; i++ {
		pos := image.Pt(i%5*32, i/5*32)
		for _, d := range []image.Point{{0, 0}, {31, 31}, {16, 5}} {
			p := pos.Add(d)
			if got := out.NRGBAAt(p.X, p.Y); got != tileColor(i) {
				t.Fatalf("tile %d pixel %v = %v, want %v", i, p, got, tileColor(i))
			}
		}
	}
	if got := out.NRGBAAt(64, 32); got != tileColor(7) {
		t.Errorf("tile 7 expected at (64,32), found %v", got)
	}
}

func TestAssembleLeavesGapsTransparent(t *testing.T) {
	tile := Size{32, 32}
	out, err := Assemble(numberedTiles(3, tile), tile, Size{100, 64}, 3)
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}
	for _, p := range []image.Point{{96, 0}, {99, 31}, {0, 32}, {50, 63}} {
		if c := out.NRGBAAt(p.X, p.Y); c.A != 0 {
			t.Errorf("pixel %v = %v, want transparent", p, c)
		}
	}
}

func TestAssembleKeepsDecodedPixels(t *testing.T) {
	tile := Size{8, 8}
	var tiles []image.Image
	var inputs []*image.NRGBA
	for i := 0; i < 4; i++ {
		in := imaging.New(8, 8, color.NRGBA{R: 100, G: 200, B: 50, A: uint8(1 + i)})
		in.SetNRGBA(3, 3, color.NRGBA{R: 9, G: 8, B: 7})
		data, err := EncodeBytes(in, FormatPNG)
		if err != nil {
			t.Fatalf("EncodeBytes() error = %v", err)
		}
		img, err := Decode(bytes.NewReader(data))
		if err != nil {
			t.Fatalf("Decode() error = %v", err)
		}
		tiles = append(tiles, img)
		inputs = append(inputs, in)
	}

	out, err := Assemble(tiles, tile, Size{16, 16}, 4)
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}
	data, err := EncodeBytes(out, FormatPNG)
	if err != nil {
		t.Fatalf("EncodeBytes() error = %v", err)
	}
	back, err := Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	sheet := imaging.Clone(back)

	for i, in := range inputs {
		pos := GridPosition(i, 2, tile)
		for y := 0; y < 8; y++ {
			for x := 0; x < 8; x++ {
				if a, b := in.NRGBAAt(x, y), sheet.NRGBAAt(pos.X+x, pos.Y+y); a != b {
					t.Fatalf("tile %d pixel (%d,%d) changed: in %v out %v", i, x, y, a, b)
				}
			}
		}
	}
}

func TestAssembleCountMismatch(t *testing.T) {
	tile := Size{32, 32}
	_, err := Assemble(numberedTiles(34, tile), tile, Size{160, 224}, 35)

	var cm *CountMismatchError
	if !errors.As(err, &cm) {
		t.Fatalf("Assemble() error = %v, want CountMismatchError", err)
	}
	if cm.Expected != 35 || cm.Actual != 34 {
		t.Errorf("CountMismatchError = %+v, want expected 35 actual 34", cm)
	}
	if !errors.Is(err, ErrCountMismatch) {
		t.Error("error should match ErrCountMismatch")
	}
}

func TestAssembleStretchesOddTiles(t *testing.T) {
	tile := Size{32, 32}
	tiles := []image.Image{
		solid(16, 16, tileColor(1)),
		solid(32, 32, tileColor(2)),
		solid(40, 20, tileColor(3)),
	}

	out, err := Assemble(tiles, tile, Size{96, 32}, 3)
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}
	for i, x := range []int{0, 32, 64} {
		want := tileColor(i + 1)
		for _, p := range []image.Point{{x, 0}, {x + 31, 31}, {x + 15, 16}} {
			if got := out.NRGBAAt(p.X, p.Y); !near(got, want) {
				t.Errorf("tile %d pixel %v = %v, want %v", i, p, got, want)
			}
		}
	}
}

func TestAssembleClipsOverflowRows(t *testing.T) {
	tile := Size{32, 32}
	out, err := Assemble(numberedTiles(6, tile), tile, Size{100, 40}, 6)
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}
	if got := out.NRGBAAt(64, 39); got != tileColor(5) {
		t.Errorf("clipped tile 5 pixel = %v, want %v", got, tileColor(5))
	}
}

func TestAssembleInvalidDimensions(t *testing.T) {
	tests := []struct {
		name  string
		tile  Size
		sheet Size
	}{
		{"zero tile", Size{0, 32}, Size{160, 224}},
		{"negative sheet", Size{32, 32}, Size{-160, 224}},
		{"sheet narrower than tile", Size{32, 32}, Size{16, 224}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Assemble(nil, tt.tile, tt.sheet, 0)
			if !errors.Is(err, ErrInvalidDimensions) {
				t.Errorf("Assemble() error = %v, want ErrInvalidDimensions", err)
			}
		})
	}
}

func near(a, b color.NRGBA) bool {
	d := func(x, y uint8) bool { return max(int(x), int(y))-min(int(x), int(y)) <= 1 }
	return d(a.R, b.R) && d(a.G, b.G) && d(a.B, b.B) && d(a.A, b.A)
}
