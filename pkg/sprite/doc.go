// Package sprite places sprites on fixed-size transparent canvases and packs
// fixed-size tiles into sprite sheets.
//
// All canvases are 8-bit non-premultiplied RGBA (*image.NRGBA) and start
// fully transparent. Sources are alpha-composited (source over destination)
// at integer offsets; anything outside the canvas is clipped silently.
//
// Placement offsets:
//
//	y = floor((H - h) / 2)          all alignments
//	x = floor((W - w) / 2)          AlignCenter
//	x = 0                           AlignLeft
//	x = W - w                       AlignRight
//
// Sheets are filled row-major: tile i lands at
// ((i mod n) * tw, (i div n) * th) with n = W div tw.
package sprite
