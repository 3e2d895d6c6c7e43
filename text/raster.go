package text

import (
	"fmt"
	"image"

	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/unicode/norm"
)

// rasterPad is the transparent border around raster masks.
const rasterPad = 1

// RasterMask renders run with full hinting into an alpha mask. origin is
// the position of the run origin (left end of the baseline) inside the
// mask, whose bounds start at (0, 0) with y growing downwards.
func RasterMask(run Run) (mask *image.Alpha, origin image.Point, err error) {
	if !validSize(run.Font.Size) {
		return nil, image.Point{}, fmt.Errorf("%w: %v", ErrInvalidSize, run.Font.Size)
	}
	f, err := Lookup(run.Font.Family, run.Font.Bold, run.Font.Italic)
	if err != nil {
		return nil, image.Point{}, err
	}
	face, err := opentype.NewFace(f.sfnt, &opentype.FaceOptions{
		Size:    run.Font.Size,
		DPI:     72,
		Hinting: xfont.HintingFull,
	})
	if err != nil {
		return nil, image.Point{}, fmt.Errorf("text: raster face %s: %w", f.name, err)
	}
	defer face.Close()

	s := norm.NFC.String(run.Text)
	b, _ := xfont.BoundString(face, s)
	x0, y0 := b.Min.X.Floor()-rasterPad, b.Min.Y.Floor()-rasterPad
	x1, y1 := b.Max.X.Ceil()+rasterPad, b.Max.Y.Ceil()+rasterPad
	if x1 <= x0 || y1 <= y0 {
		return image.NewAlpha(image.Rect(0, 0, 0, 0)), image.Point{}, nil
	}
	origin = image.Pt(-x0, -y0)
	mask = image.NewAlpha(image.Rect(0, 0, x1-x0, y1-y0))
	d := xfont.Drawer{
		Dst:  mask,
		Src:  image.Opaque,
		Face: face,
		Dot:  fixed.P(origin.X, origin.Y),
	}
	d.DrawString(s)
	return mask, origin, nil
}
