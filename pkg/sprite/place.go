package sprite

import (
	"image"
	"math"

	"github.com/disintegration/imaging"
)

// Place composites src onto a transparent canvas of the given size. With scale
// set, src is first resized to fit the canvas, preserving its aspect ratio.
func Place(src image.Image, canvas Size, align Alignment, scale bool) (*Placement, error) {
	mode := ScaleNone
	if scale {
		mode = ScaleFit
	}
	return PlaceWith(src, PlaceOptions{Canvas: canvas, Align: align, Scale: mode})
}

// PlaceWith is Place with an explicit scale mode
func PlaceWith(src image.Image, opts PlaceOptions) (*Placement, error) {
	if !opts.Canvas.Valid() {
		return nil, &DimensionError{What: "canvas", Size: opts.Canvas}
	}
	if src == nil {
		return nil, &DimensionError{What: "source"}
	}
	orig := SizeOf(src)
	if !orig.Valid() {
		return nil, &DimensionError{What: "source", Size: orig}
	}

	scaled := ScaledSize(orig, opts.Canvas, opts.Scale)
	if scaled != orig {
		src = imaging.Resize(src, scaled.W, scaled.H, imaging.Lanczos)
	}

	canvas := newCanvas(opts.Canvas)
	off := Offset(opts.Canvas, scaled, opts.Align)
	paste(canvas, src, off)

	return &Placement{Canvas: canvas, Offset: off, Scaled: scaled}, nil
}

// Offset returns the top-left position of a src-sized image on canvas.
// Halving uses floor division so oversized sources get negative offsets.
func Offset(canvas, src Size, align Alignment) image.Point {
	y := floorHalf(canvas.H - src.H)
	switch align {
	case AlignLeft:
		return image.Pt(0, y)
	case AlignRight:
		return image.Pt(canvas.W-src.W, y)
	default:
		return image.Pt(floorHalf(canvas.W-src.W), y)
	}
}

// ScaledSize returns the size src is resized to before placement on canvas
func ScaledSize(src, canvas Size, mode ScaleMode) Size {
	switch mode {
	case ScaleFit:
		ratio := math.Min(float64(canvas.W)/float64(src.W), float64(canvas.H)/float64(src.H))
		return Size{
			W: clamp(int(math.Round(float64(src.W)*ratio)), canvas.W),
			H: clamp(int(math.Round(float64(src.H)*ratio)), canvas.H),
		}
	case ScaleFitWidth:
		if src.W <= canvas.W {
			return src
		}
		ratio := float64(canvas.W) / float64(src.W)
		return Size{W: canvas.W, H: max(1, int(math.Round(float64(src.H)*ratio)))}
	}
	return src
}

// floorHalf is n/2 rounded towards negative infinity
func floorHalf(n int) int {
	return n >> 1
}

func clamp(n, hi int) int {
	if n < 1 {
		return 1
	}
	if n > hi {
		return hi
	}
	return n
}
