package cmd

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func writeSolid(t *testing.T, path string, w, h int, c color.NRGBA) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func readPNG(t *testing.T, path string) image.Image {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("%s is not a PNG: %v", path, err)
	}
	return img
}

func TestPlaceCommand(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "apple.png")
	out := filepath.Join(dir, "expanded_left_32x32.png")
	writeSolid(t, in, 10, 12, color.NRGBA{R: 255, A: 255})

	rootCmd.SetArgs([]string{"place", in, "--align", "left", "-o", out})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("place failed: %v", err)
	}

	img := readPNG(t, out)
	if img.Bounds() != image.Rect(0, 0, 32, 32) {
		t.Fatalf("output bounds = %v", img.Bounds())
	}
	if _, _, _, a := img.At(0, 10).RGBA(); a != 0xffff {
		t.Errorf("pixel (0,10) alpha = %d, want opaque", a)
	}
	if _, _, _, a := img.At(10, 10).RGBA(); a != 0 {
		t.Errorf("pixel (10,10) alpha = %d, want transparent", a)
	}
}

func TestSheetCommandManifest(t *testing.T) {
	dir := t.TempDir()
	manifest := "output = \"sheet.png\"\ncount = 6\n[tile]\nwidth = 8\nheight = 8\n[sheet]\nwidth = 24\nheight = 16\n"
	for i := 0; i < 6; i++ {
		name := fmt.Sprintf("t%d.png", i)
		writeSolid(t, filepath.Join(dir, name), 8, 8, color.NRGBA{G: uint8(40 * i), A: 255})
		manifest += fmt.Sprintf("[[tiles]]\npath = %q\n", name)
	}
	mpath := filepath.Join(dir, "sheet.toml")
	if err := os.WriteFile(mpath, []byte(manifest), 0o644); err != nil {
		t.Fatal(err)
	}

	rootCmd.SetArgs([]string{"sheet", "--manifest", mpath})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("sheet failed: %v", err)
	}

	img := readPNG(t, filepath.Join(dir, "sheet.png"))
	if img.Bounds() != image.Rect(0, 0, 24, 16) {
		t.Fatalf("sheet bounds = %v", img.Bounds())
	}
	// 3 per row: tile 4 is row 1, col 1
	if _, g, _, _ := img.At(8, 8).RGBA(); g>>8 != 160 {
		t.Errorf("pixel (8,8) green = %d, want 160", g>>8)
	}
}
