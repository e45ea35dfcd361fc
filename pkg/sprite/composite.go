package sprite

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// newCanvas returns a fully transparent non-premultiplied canvas
func newCanvas(s Size) *image.NRGBA {
	return imaging.New(s.W, s.H, color.NRGBA{})
}

// paste composites src over dst with its top-left corner at off. Anything
// falling outside dst is clipped. Blending stays in non-premultiplied space so
// pixels landing on transparent canvas come through byte for byte.
func paste(dst *image.NRGBA, src image.Image, off image.Point) {
	s, ok := src.(*image.NRGBA)
	if !ok || s.Rect.Min != (image.Point{}) {
		s = imaging.Clone(src)
	}

	r := image.Rectangle{Min: off, Max: off.Add(s.Rect.Size())}.Intersect(dst.Rect)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		si := s.PixOffset(r.Min.X-off.X, y-off.Y)
		di := dst.PixOffset(r.Min.X, y)
		for x := r.Min.X; x < r.Max.X; x++ {
			over(dst.Pix[di:di+4:di+4], s.Pix[si:si+4:si+4])
			si += 4
			di += 4
		}
	}
}

// over blends the non-premultiplied pixel s onto d in place
func over(d, s []uint8) {
	switch {
	case d[3] == 0 || s[3] == 0xff:
		copy(d, s)
		return
	case s[3] == 0:
		return
	}

	as := float64(s[3]) / 255
	ad := float64(d[3]) / 255 * (1 - as)
	a := as + ad
	for i := 0; i < 3; i++ {
		d[i] = uint8((float64(s[i])*as+float64(d[i])*ad)/a + 0.5)
	}
	d[3] = uint8(a*255 + 0.5)
}
