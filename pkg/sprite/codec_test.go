package sprite

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
)

func writePNG(t *testing.T, path string, img image.Image) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "apple.png")
	writePNG(t, path, solid(10, 12, red))

	img, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := SizeOf(img); got != (Size{10, 12}) {
		t.Errorf("size = %v, want 10x12", got)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	corrupt := filepath.Join(dir, "corrupt.png")
	if err := os.WriteFile(corrupt, []byte("\x89PNG not really"), 0o644); err != nil {
		t.Fatal(err)
	}

	for _, path := range []string{filepath.Join(dir, "missing.png"), corrupt} {
		_, err := Load(path)
		if !errors.Is(err, ErrImageLoad) {
			t.Errorf("Load(%s) error = %v, want ErrImageLoad", path, err)
		}
		var le *LoadError
		if !errors.As(err, &le) || le.Path != path {
			t.Errorf("Load(%s) error = %#v, want LoadError with path", path, err)
		}
	}

	if _, err := Decode(strings.NewReader("nope")); !errors.Is(err, ErrImageLoad) {
		t.Errorf("Decode(garbage) error = %v, want ErrImageLoad", err)
	}
}

func TestEncodeKeepsAlpha(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 1))
	img.SetRGBA(1, 0, color.RGBA{G: 255, A: 255})

	data, err := EncodeBytes(img, FormatPNG)
	if err != nil {
		t.Fatalf("EncodeBytes() error = %v", err)
	}
	back, err := Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if _, _, _, a := back.At(0, 0).RGBA(); a != 0 {
		t.Errorf("transparent pixel alpha = %d after round trip", a)
	}
	if _, g, _, a := back.At(1, 0).RGBA(); a != 0xffff || g != 0xffff {
		t.Errorf("opaque pixel = g %d a %d after round trip", g, a)
	}
}

func TestDecodeBMP(t *testing.T) {
	data, err := EncodeBytes(solid(3, 2, red), FormatBMP)
	if err != nil {
		t.Fatalf("EncodeBytes() error = %v", err)
	}
	img, err := Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if got := img.Bounds().Size(); got != image.Pt(3, 2) {
		t.Errorf("size = %v, want (3,2)", got)
	}
	if r, g, b, a := img.At(1, 1).RGBA(); r != 0xffff || g != 0 || b != 0 || a != 0xffff {
		t.Errorf("pixel = %v, want opaque red", img.At(1, 1))
	}
}

func TestFormatFromFilename(t *testing.T) {
	tests := []struct {
		name    string
		want    Format
		wantErr bool
	}{
		{"", FormatPNG, false},
		{"sheet.png", FormatPNG, false},
		{"sheet.TIF", FormatTIFF, false},
		{"sheet.gif", FormatGIF, false},
		{"sheet.bmp", FormatBMP, false},
		{"sheet.jpg", 0, true},
		{"sheet.txt", 0, true},
	}
	for _, tt := range tests {
		got, err := FormatFromFilename(tt.name)
		if (err != nil) != tt.wantErr {
			t.Errorf("FormatFromFilename(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("FormatFromFilename(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestWriteOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.png")
	if err := WriteOutput(path, []byte("data")); err != nil {
		t.Fatalf("WriteOutput() error = %v", err)
	}
	got, err := os.ReadFile(path)
	if err != nil || string(got) != "data" {
		t.Errorf("file contents = %q, %v", got, err)
	}
}
