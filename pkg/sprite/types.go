package sprite

import (
	"fmt"
	"image"
	"strings"

	"github.com/pkg/errors"
)

// Size is a width/height pair in pixels
type Size struct {
	W, H int
}

// SizeOf returns the dimensions of img
func SizeOf(img image.Image) Size {
	b := img.Bounds()
	return Size{W: b.Dx(), H: b.Dy()}
}

// Valid reports whether both dimensions are positive
func (s Size) Valid() bool {
	return s.W > 0 && s.H > 0
}

func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.W, s.H)
}

// Alignment selects the horizontal placement of a source on its canvas.
// Vertical placement is always centered.
type Alignment int

const (
	AlignCenter Alignment = iota
	AlignLeft
	AlignRight
)

func (a Alignment) String() string {
	switch a {
	case AlignCenter:
		return "center"
	case AlignLeft:
		return "left"
	case AlignRight:
		return "right"
	}
	return fmt.Sprintf("Alignment(%d)", int(a))
}

// ParseAlignment parses "center", "left" or "right"
func ParseAlignment(s string) (Alignment, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "center", "centre":
		return AlignCenter, nil
	case "left":
		return AlignLeft, nil
	case "right":
		return AlignRight, nil
	}
	return 0, errors.Errorf("unknown alignment %q (want center|left|right)", s)
}

// ScaleMode controls how a source is resized before placement
type ScaleMode int

const (
	// ScaleNone keeps the source size; oversized sources are clipped.
	ScaleNone ScaleMode = iota
	// ScaleFit resizes by min(W/srcW, H/srcH), preserving aspect ratio.
	ScaleFit
	// ScaleFitWidth shrinks to the canvas width only when the source is wider.
	ScaleFitWidth
)

func (m ScaleMode) String() string {
	switch m {
	case ScaleNone:
		return "none"
	case ScaleFit:
		return "fit"
	case ScaleFitWidth:
		return "fit-width"
	}
	return fmt.Sprintf("ScaleMode(%d)", int(m))
}

// ParseScaleMode parses "none", "fit" or "fit-width"
func ParseScaleMode(s string) (ScaleMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none", "false":
		return ScaleNone, nil
	case "fit", "true":
		return ScaleFit, nil
	case "fit-width", "width":
		return ScaleFitWidth, nil
	}
	return 0, errors.Errorf("unknown scale mode %q (want none|fit|fit-width)", s)
}

// PlaceOptions configures a single placement
type PlaceOptions struct {
	Canvas Size
	Align  Alignment
	Scale  ScaleMode
}

// Placement is the result of placing a source on a canvas
type Placement struct {
	Canvas *image.NRGBA
	// Offset is the top-left corner of the source on the canvas. It may be
	// negative when an unscaled source is larger than the canvas.
	Offset image.Point
	// Scaled is the source size after the scale step.
	Scaled Size
}
